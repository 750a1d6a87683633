package domain

// CartSlots is the fixed number of product slots every cart carries.
const CartSlots = 300

// Cart maps a product slot index to the quantity held by a user.
// A well-formed cart holds exactly the keys 0..CartSlots-1.
type Cart map[int]int

// NewCart returns a cart with every slot set to zero.
func NewCart() Cart {
	cart := make(Cart, CartSlots)
	for i := 0; i < CartSlots; i++ {
		cart[i] = 0
	}
	return cart
}

// ValidSlot reports whether slot addresses a cart entry.
func ValidSlot(slot int) bool {
	return slot >= 0 && slot < CartSlots
}

// Normalize fills in missing slots and clamps negative quantities so that a
// cart read back from storage satisfies the cart invariant.
func (c Cart) Normalize() Cart {
	out := make(Cart, CartSlots)
	for i := 0; i < CartSlots; i++ {
		if q := c[i]; q > 0 {
			out[i] = q
		} else {
			out[i] = 0
		}
	}
	return out
}
