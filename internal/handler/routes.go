package handler

import (
	"net/http"

	"github.com/msomdec/storefront/internal/service"
)

// Services bundles what RegisterRoutes needs to build the handlers.
type Services struct {
	Auth    *service.AuthService
	Tokens  TokenVerifier
	Carts   *service.CartService
	Catalog *service.CatalogService
	Images  *service.ImageService
	// Limiter throttles /signup and /login. Nil disables throttling.
	Limiter service.Limiter
}

// RegisterRoutes sets up all HTTP routes on the given mux.
func RegisterRoutes(mux *http.ServeMux, svc Services) {
	authHandler := NewAuthHandler(svc.Auth)
	cartHandler := NewCartHandler(svc.Carts)
	productHandler := NewProductHandler(svc.Catalog)
	imageHandler := NewImageHandler(svc.Images)

	limited := func(h http.HandlerFunc) http.Handler {
		if svc.Limiter == nil {
			return h
		}
		return RateLimit(svc.Limiter, h)
	}
	authed := func(h http.HandlerFunc) http.Handler {
		return RequireAuth(svc.Tokens, h)
	}

	mux.HandleFunc("GET /{$}", HandleHome)
	mux.HandleFunc("GET /healthz", HandleHealthz)

	mux.Handle("POST /signup", limited(authHandler.HandleSignup))
	mux.Handle("POST /login", limited(authHandler.HandleLogin))

	mux.HandleFunc("GET /allproducts", productHandler.HandleAllProducts)
	mux.HandleFunc("GET /newcollections", productHandler.HandleNewCollections)
	mux.HandleFunc("GET /popularinwomen", productHandler.HandlePopularInWomen)
	mux.HandleFunc("POST /addproduct", productHandler.HandleAddProduct)
	mux.HandleFunc("POST /removeproduct", productHandler.HandleRemoveProduct)

	mux.Handle("POST /addtocart", authed(cartHandler.HandleAddToCart))
	mux.Handle("POST /removefromcart", authed(cartHandler.HandleRemoveFromCart))
	mux.Handle("POST /getcart", authed(cartHandler.HandleGetCart))

	mux.HandleFunc("POST /upload", imageHandler.HandleUpload)
	mux.HandleFunc("GET /images/{key}", imageHandler.HandleServeImage)
}
