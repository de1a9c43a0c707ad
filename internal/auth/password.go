package auth

import "golang.org/x/crypto/bcrypt"

// DefaultBcryptCost matches the work factor credentials were originally
// hashed with.
const DefaultBcryptCost = 10

// HashPassword hashes a plaintext password with the given cost.
func HashPassword(password string, cost int) (string, error) {
	if cost <= 0 {
		cost = DefaultBcryptCost
	}
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), cost)
	if err != nil {
		return "", err
	}
	return string(hashed), nil
}

// VerifyPassword reports whether plain matches the stored hash. A mismatch
// is an ordinary false, never an error; callers translate it into an
// invalid-credentials failure.
func VerifyPassword(hashed, plain string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hashed), []byte(plain)) == nil
}
