package security

import (
	"golang.org/x/crypto/bcrypt"
)

// DefaultPassword is the fallback password hashed for administratively
// created users when no password is supplied. A shared default hash is a
// latent security weakness; preserved as an explicit policy choice.
const DefaultPassword = "defaultpassword123"

// HashPassword produces a salted bcrypt hash of the given password.
func HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

// VerifyPassword reports whether password matches the stored bcrypt hash.
// Comparison is constant-time within the bcrypt library.
func VerifyPassword(password, hash string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}
