// Package password hashea y verifica contraseñas con bcrypt y aplica la política mínima.
package password

import (
	"errors"
	"fmt"
	"unicode"

	"golang.org/x/crypto/bcrypt"
)

// MinLength longitud mínima aceptada.
const MinLength = 6

// Hash devuelve el hash bcrypt de la contraseña.
func Hash(plain string) (string, error) {
	h, err := bcrypt.GenerateFromPassword([]byte(plain), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("password: hash: %w", err)
	}
	return string(h), nil
}

// Verify compara la contraseña con el hash. Un hash que no coincide devuelve false sin error.
func Verify(hash, plain string) (bool, error) {
	err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(plain))
	switch {
	case err == nil:
		return true, nil
	case errors.Is(err, bcrypt.ErrMismatchedHashAndPassword):
		return false, nil
	default:
		return false, fmt.Errorf("password: verify: %w", err)
	}
}

// IsStrong exige MinLength caracteres con al menos una minúscula, una mayúscula y un dígito.
func IsStrong(plain string) bool {
	if len([]rune(plain)) < MinLength {
		return false
	}
	var lower, upper, digit bool
	for _, r := range plain {
		switch {
		case unicode.IsLower(r):
			lower = true
		case unicode.IsUpper(r):
			upper = true
		case unicode.IsDigit(r):
			digit = true
		}
	}
	return lower && upper && digit
}
