package bucket

import (
	"math/rand"
	"time"
)

// Source supplies the randomness used by Distribute and RandomizeBuckets.
// *rand.Rand satisfies it.
type Source interface {
	Intn(n int) int
	Shuffle(n int, swap func(i, j int))
}

// NewSource returns a pseudo-random source. A zero seed selects a time-based
// seed.
func NewSource(seed int64) Source {
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	return rand.New(rand.NewSource(seed)) // #nosec G404 -- playlist order, not security
}
