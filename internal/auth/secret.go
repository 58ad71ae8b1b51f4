package auth

import "golang.org/x/crypto/bcrypt"

// HashSecret hashes a shared secret with the configured cost.
func HashSecret(secret string, cost int) (string, error) {
	hashed, err := bcrypt.GenerateFromPassword([]byte(secret), cost)
	if err != nil {
		return "", err
	}
	return string(hashed), nil
}

// CompareSecret verifies a secret against its hashed value.
func CompareSecret(hashed, plain string) error {
	return bcrypt.CompareHashAndPassword([]byte(hashed), []byte(plain))
}
