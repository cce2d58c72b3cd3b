package testutil

import (
	"math/rand"

	"github.com/rs/zerolog"
)

// NewTestRNG returns a seeded source for tests that need reproducible picks
func NewTestRNG(seed int64) *rand.Rand {
	return rand.New(rand.NewSource(seed))
}

// NopLogger returns a no-op logger for tests
func NopLogger() zerolog.Logger {
	return zerolog.Nop()
}
