package utils

import "golang.org/x/crypto/bcrypt"

// HashPassword derives a bcrypt hash of the plaintext for storage on the
// user record.
func HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

// CheckPasswordHash reports whether the plaintext matches the stored bcrypt
// hash.
func CheckPasswordHash(password, hash string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}
