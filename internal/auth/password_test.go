package auth

import (
	"errors"
	"strings"
	"testing"

	"github.com/mrlokans/readreviews/internal/apperrors"
)

func TestValidatePassword(t *testing.T) {
	tests := []struct {
		name      string
		password  string
		minLength int
		wantErr   error
	}{
		{
			name:      "valid password",
			password:  "validpassword123",
			minLength: 8,
			wantErr:   nil,
		},
		{
			name:      "password too short",
			password:  "short",
			minLength: 8,
			wantErr:   ErrPasswordTooShort,
		},
		{
			name:      "password at minimum length",
			password:  "P@ssw0rd",
			minLength: 8,
			wantErr:   nil,
		},
		{
			name:      "configured minimum is honoured",
			password:  "P@ssw0rd",
			minLength: 12,
			wantErr:   ErrPasswordTooShort,
		},
		{
			name:      "zero minimum falls back to default",
			password:  "1234567",
			minLength: 0,
			wantErr:   ErrPasswordTooShort,
		},
		{
			name:      "password too long",
			password:  strings.Repeat("a", 73),
			minLength: 8,
			wantErr:   ErrPasswordTooLong,
		},
		{
			name:      "password at maximum length",
			password:  strings.Repeat("a", 72),
			minLength: 8,
			wantErr:   nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidatePassword(tt.password, tt.minLength)
			if tt.wantErr == nil {
				if err != nil {
					t.Errorf("ValidatePassword() unexpected error = %v", err)
				}
				return
			}
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("ValidatePassword() error = %v, wantErr %v", err, tt.wantErr)
			}
			if !errors.Is(err, apperrors.ErrValidation) {
				t.Errorf("ValidatePassword() error = %v should be a validation error", err)
			}
		})
	}
}

func TestHashPassword(t *testing.T) {
	hash, err := HashPassword("P@ssw0rd", 4)
	if err != nil {
		t.Fatalf("HashPassword() error = %v", err)
	}
	if hash == "" || hash == "P@ssw0rd" {
		t.Errorf("HashPassword() returned %q, want a bcrypt hash", hash)
	}

	if _, err := HashPassword(strings.Repeat("a", 73), 4); !errors.Is(err, ErrPasswordTooLong) {
		t.Errorf("HashPassword() error = %v, want %v", err, ErrPasswordTooLong)
	}
}

func TestCheckPassword(t *testing.T) {
	password := "testpassword123"
	hash, err := HashPassword(password, 4)
	if err != nil {
		t.Fatalf("Failed to hash password: %v", err)
	}

	tests := []struct {
		name     string
		password string
		wantErr  error
	}{
		{
			name:     "correct password",
			password: password,
			wantErr:  nil,
		},
		{
			name:     "incorrect password",
			password: "wrongpassword",
			wantErr:  ErrInvalidPassword,
		},
		{
			name:     "empty password",
			password: "",
			wantErr:  ErrInvalidPassword,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := CheckPassword(tt.password, hash)
			if err != tt.wantErr {
				t.Errorf("CheckPassword() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestGenerateSessionSecret(t *testing.T) {
	secret, err := GenerateSessionSecret()
	if err != nil {
		t.Fatalf("GenerateSessionSecret() error = %v", err)
	}

	// Secret should be 64 hex characters (32 bytes)
	if len(secret) != 64 {
		t.Errorf("Secret length = %d, want 64", len(secret))
	}

	secret2, err := GenerateSessionSecret()
	if err != nil {
		t.Fatalf("Second GenerateSessionSecret() error = %v", err)
	}
	if secret == secret2 {
		t.Error("Generated secrets should be unique")
	}
}
