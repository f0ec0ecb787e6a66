package pin

import (
	"crypto/rand"
	"math/big"
)

// Source provides random numbers and can be replaced in tests
type Source interface {
	// Intn returns a random int in [0, n)
	Intn(n int) int
}

// CryptoSource implements Source using crypto/rand
type CryptoSource struct{}

// NewCryptoSource creates a new CryptoSource
func NewCryptoSource() *CryptoSource {
	return &CryptoSource{}
}

// Intn returns a cryptographically random int in [0, n)
func (CryptoSource) Intn(n int) int {
	if n <= 0 {
		return 0
	}
	result, err := rand.Int(rand.Reader, big.NewInt(int64(n)))
	if err != nil {
		return 0
	}
	return int(result.Int64())
}
