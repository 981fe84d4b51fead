package services

import (
	"math/rand"
	"time"
)

// Rand is the random source consumed by the generation pipeline. A seeded
// *rand.Rand makes every stage deterministic.
type Rand interface {
	Intn(n int) int
	Float64() float64
	Shuffle(n int, swap func(i, j int))
}

// NewRand returns a random source; seed 0 seeds from the clock
func NewRand(seed int64) *rand.Rand {
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	return rand.New(rand.NewSource(seed))
}
