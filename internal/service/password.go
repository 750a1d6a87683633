package service

import (
	"fmt"

	"golang.org/x/crypto/bcrypt"
)

// PasswordPolicy decides how passwords are stored and compared.
type PasswordPolicy interface {
	Hash(password string) (string, error)
	Matches(stored, password string) bool
}

// PlainPasswords stores passwords verbatim and compares by equality. It is
// the default mode and keeps verbatim storage for compatibility with
// existing clients. It is insecure: prefer BcryptPasswords.
type PlainPasswords struct{}

func (PlainPasswords) Hash(password string) (string, error) {
	return password, nil
}

func (PlainPasswords) Matches(stored, password string) bool {
	return stored == password
}

// BcryptPasswords stores bcrypt hashes.
type BcryptPasswords struct {
	Cost int
}

func (p BcryptPasswords) Hash(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), p.Cost)
	if err != nil {
		return "", fmt.Errorf("hash password: %w", err)
	}
	return string(hash), nil
}

func (p BcryptPasswords) Matches(stored, password string) bool {
	return bcrypt.CompareHashAndPassword([]byte(stored), []byte(password)) == nil
}

// NewPasswordPolicy returns the policy for mode ("plain" or "bcrypt").
func NewPasswordPolicy(mode string, bcryptCost int) (PasswordPolicy, error) {
	switch mode {
	case "plain":
		return PlainPasswords{}, nil
	case "bcrypt":
		return BcryptPasswords{Cost: bcryptCost}, nil
	default:
		return nil, fmt.Errorf("unknown password mode %q", mode)
	}
}
