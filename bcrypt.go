package identity

import (
	"golang.org/x/crypto/bcrypt"
)

// BcryptCost is the work factor applied to every new hash.
const BcryptCost = 12

// HashPassword will generate a password hash with a per-call random salt
func HashPassword(password string) (string, error) {
	if password == "" {
		return "", ErrNoEmptyString
	}

	h, err := bcrypt.GenerateFromPassword([]byte(password), BcryptCost)
	return string(h), err
}

// ComparePasswordAndHash will validate the given cleartext password
// matches the hashed password. A malformed digest reports the same
// mismatch sentinel as a wrong password; it never panics.
func ComparePasswordAndHash(password, hash string) error {
	if err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)); err != nil {
		return ErrInvalidCredentials
	}
	return nil
}
