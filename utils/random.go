package utils

import (
	crand "crypto/rand"
	"encoding/hex"
	"math/rand"
	"strings"
	"time"
)

// GenerateCode returns an uppercase hex reference code of n random bytes.
func GenerateCode(n int) (string, error) {
	byt := make([]byte, n)

	if _, err := crand.Read(byt); err != nil {
		return "", err
	}

	return strings.ToUpper(hex.EncodeToString(byt)), nil
}

// NewSeededRand builds the generator used for random desk assignment.
// Seed 0 means seed from the clock; any other value gives a repeatable
// sequence so tests can pin the assignment order.
func NewSeededRand(seed int64) *rand.Rand {
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	return rand.New(rand.NewSource(seed))
}
