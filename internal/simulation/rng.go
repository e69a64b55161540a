package simulation

import (
	crand "crypto/rand"
	"encoding/binary"
	"fmt"
	"math"
	"math/rand"
)

// NewSeededRNG creates the single sequential stream a run draws from.
func NewSeededRNG(seed int64) *rand.Rand {
	return rand.New(rand.NewSource(seed))
}

// NewSeed generates a non-zero random seed using crypto/rand.
func NewSeed() (int64, error) {
	var b [8]byte
	if _, err := crand.Read(b[:]); err != nil {
		return 0, fmt.Errorf("read random seed: %w", err)
	}
	seed := int64(binary.LittleEndian.Uint64(b[:]) >> 1)
	if seed == 0 {
		seed = 1
	}
	return seed, nil
}

func uniform(rng *rand.Rand, r Range) float64 {
	return r.Min + rng.Float64()*(r.Max-r.Min)
}

// intBetween returns an integer in [min, max].
func intBetween(rng *rand.Rand, min, max int) int {
	if min >= max {
		return min
	}
	return min + rng.Intn(max-min+1)
}

// exponential draws from an exponential distribution with the given mean,
// truncated toward zero and floored at 0.
func exponential(rng *rand.Rand, mean float64) int {
	if mean <= 0 {
		return 0
	}
	v := int(rng.ExpFloat64() * mean)
	if v < 0 {
		return 0
	}
	return v
}

// weightedIndex picks an index with probability proportional to weights.
func weightedIndex(rng *rand.Rand, weights []int) int {
	total := 0
	for _, w := range weights {
		if w > 0 {
			total += w
		}
	}
	if total == 0 {
		return 0
	}
	n := rng.Intn(total)
	for i, w := range weights {
		if w <= 0 {
			continue
		}
		if n < w {
			return i
		}
		n -= w
	}
	return len(weights) - 1
}

func pick(rng *rand.Rand, items []string) string {
	if len(items) == 0 {
		return ""
	}
	return items[rng.Intn(len(items))]
}

func round(v float64, places int) float64 {
	p := math.Pow(10, float64(places))
	return math.Round(v*p) / p
}
