package game

import (
	"crypto/rand"
	"io"
	"math/big"
	mathrand "math/rand"

	"warzone/internal/logger"
)

// Rand is the randomness source for box draws. *math/rand.Rand satisfies it.
type Rand interface {
	Int63n(n int64) int64
	Float64() float64
}

// NewSeededRand returns a deterministic source.
func NewSeededRand(seed int64) *mathrand.Rand {
	return mathrand.New(mathrand.NewSource(seed))
}

// entropy feeds CryptoRand. Replaced only in tests.
var entropy io.Reader = rand.Reader

// CryptoRand draws from crypto/rand. It is the production source.
type CryptoRand struct{}

// Int63n falls back to math/rand if the entropy source fails, and logs it.
func (CryptoRand) Int63n(n int64) int64 {
	if n <= 0 {
		panic("game: invalid argument to Int63n")
	}
	v, err := rand.Int(entropy, big.NewInt(n))
	if err != nil {
		logger.Error("crypto rand failed, falling back to math/rand", "error", err)
		return mathrand.Int63n(n)
	}
	return v.Int64()
}

func (c CryptoRand) Float64() float64 {
	return float64(c.Int63n(1<<53)) / (1 << 53)
}
