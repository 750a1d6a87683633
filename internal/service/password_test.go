package service_test

import (
	"testing"

	"github.com/msomdec/storefront/internal/service"
)

func TestNewPasswordPolicy(t *testing.T) {
	tests := []struct {
		mode    string
		wantErr bool
	}{
		{"plain", false},
		{"bcrypt", false},
		{"argon2", true},
		{"", true},
	}
	for _, tt := range tests {
		t.Run(tt.mode, func(t *testing.T) {
			_, err := service.NewPasswordPolicy(tt.mode, 4)
			if (err != nil) != tt.wantErr {
				t.Fatalf("NewPasswordPolicy(%q) error = %v, wantErr %v", tt.mode, err, tt.wantErr)
			}
		})
	}
}

func TestPasswordPolicies_Matches(t *testing.T) {
	policies := map[string]service.PasswordPolicy{
		"plain":  service.PlainPasswords{},
		"bcrypt": service.BcryptPasswords{Cost: 4},
	}
	for name, policy := range policies {
		t.Run(name, func(t *testing.T) {
			stored, err := policy.Hash("correct horse")
			if err != nil {
				t.Fatalf("Hash: %v", err)
			}
			if !policy.Matches(stored, "correct horse") {
				t.Fatal("expected password to match")
			}
			if policy.Matches(stored, "battery staple") {
				t.Fatal("expected different password not to match")
			}
		})
	}
}
