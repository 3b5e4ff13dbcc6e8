package testutil

import (
	"math"
	"math/rand"
	"sync"
)

// RNG struct encapsulates the random number generator and seed.
// It is thread-safe.
type RNG struct {
	rand *rand.Rand
	seed int64
	mu   sync.Mutex
}

// NewRNG creates a new RNG instance with the specified seed.
func NewRNG(seed int64) *RNG {
	return &RNG{
		rand: rand.New(rand.NewSource(seed)),
		seed: seed,
	}
}

// Reset resets the RNG to its initial seed.
func (r *RNG) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.rand.Seed(r.seed)
}

// Seed returns the initial seed.
func (r *RNG) Seed() int64 {
	return r.seed
}

// Intn returns a non-negative pseudo-random number in [0,n).
func (r *RNG) Intn(n int) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.rand.Intn(n)
}

// Float64 returns a pseudo-random number in [0.0,1.0).
func (r *RNG) Float64() float64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.rand.Float64()
}

// GaussianPoints generates size i.i.d. complex points whose real and
// imaginary parts are standard normal.
func (r *RNG) GaussianPoints(size int) []complex128 {
	r.mu.Lock()
	defer r.mu.Unlock()

	points := make([]complex128, size)
	for i := range points {
		points[i] = complex(r.rand.NormFloat64(), r.rand.NormFloat64())
	}
	return points
}

// UnitCirclePoints generates size points with uniformly random phase on
// the unit circle.
func (r *RNG) UnitCirclePoints(size int) []complex128 {
	r.mu.Lock()
	defer r.mu.Unlock()

	points := make([]complex128, size)
	for i := range points {
		phi := 2 * math.Pi * r.rand.Float64()
		points[i] = complex(math.Cos(phi), math.Sin(phi))
	}
	return points
}

// Shuffle permutes values in place.
func (r *RNG) Shuffle(values []float64) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.rand.Shuffle(len(values), func(i, j int) {
		values[i], values[j] = values[j], values[i]
	})
}

// Sweep returns start, start+step, ... up to and including stop.
func Sweep(start, step, stop float64) []float64 {
	if step <= 0 || stop < start {
		return nil
	}
	n := int(math.Floor((stop-start)/step+1e-9)) + 1
	out := make([]float64, n)
	for i := range out {
		out[i] = start + float64(i)*step
	}
	return out
}

// RelativeEnergy returns the mean squared magnitude of points.
func RelativeEnergy(points []complex128) float64 {
	if len(points) == 0 {
		return 0
	}
	var es float64
	for _, p := range points {
		es += real(p)*real(p) + imag(p)*imag(p)
	}
	return es / float64(len(points))
}
