package auth

import "golang.org/x/crypto/bcrypt"

// HashPassword computes a salted one-way hash of the plaintext. bcrypt
// generates a fresh random salt per call, so two hashes of the same
// plaintext never compare equal as strings.
func HashPassword(plaintext string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(plaintext), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

// VerifyPassword reports whether plaintext matches the stored hash. A
// malformed hash verifies false the same way a wrong password does.
func VerifyPassword(plaintext, hash string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(plaintext)) == nil
}
