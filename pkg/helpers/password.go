package helpers

import (
	"fmt"

	"golang.org/x/crypto/bcrypt"
)

const (
	// MinPasswordLength matches the "pwd" validation alias.
	MinPasswordLength = 8
	// MaxPasswordLength is the longest input bcrypt accepts, in bytes.
	MaxPasswordLength = 72
)

// PasswordProblem describes why plain cannot be used as a password, or returns "".
func PasswordProblem(plain string) string {
	switch {
	case len(plain) < MinPasswordLength:
		return fmt.Sprintf("must be at least %d characters long", MinPasswordLength)
	case len(plain) > MaxPasswordLength:
		return fmt.Sprintf("must be at most %d bytes long", MaxPasswordLength)
	}
	return ""
}

// HashPassword hashes an account password with bcrypt at the default cost.
func HashPassword(plain string) (string, error) {
	b, err := bcrypt.GenerateFromPassword([]byte(plain), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// CompareHashAndPassword reports whether plain matches the bcrypt hash.
func CompareHashAndPassword(hash string, plain string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(plain)) == nil
}
