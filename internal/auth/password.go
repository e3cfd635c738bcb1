package auth

import (
	"sync"

	"golang.org/x/crypto/bcrypt"
)

// HashPassword hashes a plaintext password. Costs outside bcrypt's accepted
// range fall back to bcrypt.DefaultCost.
func HashPassword(password string, cost int) (string, error) {
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		cost = bcrypt.DefaultCost
	}
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), cost)
	if err != nil {
		return "", err
	}
	return string(hashed), nil
}

// ComparePassword verifies a password against its hashed value.
func ComparePassword(hashed, plain string) error {
	return bcrypt.CompareHashAndPassword([]byte(hashed), []byte(plain))
}

var (
	decoyOnce sync.Once
	decoyHash []byte
)

// CompareDecoy burns the same bcrypt work as ComparePassword for logins whose
// phone is unknown, so response time does not reveal registered numbers.
func CompareDecoy(plain string, cost int) {
	decoyOnce.Do(func() {
		if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
			cost = bcrypt.DefaultCost
		}
		decoyHash, _ = bcrypt.GenerateFromPassword([]byte("avina-decoy-password"), cost)
	})
	_ = bcrypt.CompareHashAndPassword(decoyHash, []byte(plain))
}
