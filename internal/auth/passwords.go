package auth

import (
	"fmt"
	"strings"
	"unicode"

	"golang.org/x/crypto/bcrypt"
)

const minPasswordLength = 6

// ValidatePassword enforces the signup rule: at least 6 characters after
// stripping whitespace. Whitespace is allowed in the stored password, it just
// does not count toward the minimum.
func ValidatePassword(password string) error {
	stripped := strings.Map(func(r rune) rune {
		if unicode.IsSpace(r) {
			return -1
		}
		return r
	}, password)

	if len(stripped) < minPasswordLength {
		return fmt.Errorf("password must be at least %d characters (spaces are not counted)", minPasswordLength)
	}
	return nil
}

func HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("failed to hash password: %w", err)
	}
	return string(hash), nil
}

func CheckPassword(hash, password string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}
