// Package kernel evaluates mutual information (MI) and generalized mutual
// information (GMI) of a constellation over a complex AWGN channel by
// two-dimensional Gauss-Hermite quadrature.
//
// All functions take the noise parameter s (sigma) such that the complex
// noise density is proportional to exp(-|n|²/s²), i.e. Es/N0 = Es/s².
package kernel

import (
	"errors"
	"math"

	"github.com/hupe1980/qamcap/internal/bitlabel"
	"github.com/hupe1980/qamcap/internal/quadrature"
)

var (
	// ErrDegenerateSigma is returned when sigma is zero, negative, not
	// finite, or so small that 1/sigma overflows.
	ErrDegenerateSigma = errors.New("kernel: degenerate sigma")

	// ErrNumericUnderflow is returned when a likelihood sum is not a
	// strictly positive finite number and its logarithm is undefined.
	ErrNumericUnderflow = errors.New("kernel: likelihood sum underflow")

	// ErrNotPowerOfTwo is returned by the GMI kernels when the
	// constellation size is not a power of two.
	ErrNotPowerOfTwo = errors.New("kernel: constellation size is not a power of two")

	// ErrTooFewPoints is returned for constellations with fewer than two points.
	ErrTooFewPoints = errors.New("kernel: constellation needs at least two points")
)

// Result holds MI and GMI in bits per symbol.
type Result struct {
	MI  float64
	GMI float64
}

// InverseSigma validates sigma and returns 1/sigma.
func InverseSigma(sigma float64) (float64, error) {
	if !(sigma > 0) || math.IsInf(sigma, 1) {
		return 0, ErrDegenerateSigma
	}
	inv := 1 / sigma
	if math.IsInf(inv, 1) {
		return 0, ErrDegenerateSigma
	}
	return inv, nil
}

// likelihood returns the quadrature kernel
//
//	exp(-(|d|² - 2s·Re[z·d]) / s²) = exp(|z|² - |d/s - conj(z)|²)
//
// for d = C[j] - C[i] and the noise node z = zr + j·zi. The right-hand
// form never squares s and equals exactly 1 for d = 0.
func likelihood(d complex128, inv, zr, zi, zz float64) float64 {
	ur := real(d)*inv - zr
	ui := imag(d)*inv + zi
	return math.Exp(zz - (ur*ur + ui*ui))
}

func validSum(v float64) bool {
	return v > 0 && !math.IsInf(v, 1)
}

// MI returns the mutual information of the equiprobable constellation
// points at noise level sigma.
func MI(points []complex128, sigma float64, t *quadrature.Table) (float64, error) {
	size := len(points)
	if size < 2 {
		return 0, ErrTooFewPoints
	}
	inv, err := InverseSigma(sigma)
	if err != nil {
		return 0, err
	}

	n := t.Order()
	var acc float64
	for _, ci := range points {
		for l1 := 0; l1 < n; l1++ {
			zr, w1 := t.Node(l1), t.Weight(l1)
			for l2 := 0; l2 < n; l2++ {
				zi := t.Node(l2)
				zz := zr*zr + zi*zi

				var sum float64
				for _, cj := range points {
					sum += likelihood(cj-ci, inv, zr, zi, zz)
				}
				if !validSum(sum) {
					return 0, ErrNumericUnderflow
				}

				acc += w1 * t.Weight(l2) * math.Log2(sum)
			}
		}
	}

	return math.Log2(float64(size)) - acc/(float64(size)*math.Pi), nil
}

// GMI returns the BICM capacity of the constellation, where point i carries
// the binary label i. The constellation size must be a power of two.
//
// For every bit position k and bit value b the coset members are visited
// through bitlabel.CosetIndex; the denominator of each metric runs over the
// same coset and always contains the self term.
func GMI(points []complex128, sigma float64, t *quadrature.Table) (float64, error) {
	size := len(points)
	if size < 2 {
		return 0, ErrTooFewPoints
	}
	m, ok := bitlabel.Log2(size)
	if !ok {
		return 0, ErrNotPowerOfTwo
	}
	inv, err := InverseSigma(sigma)
	if err != nil {
		return 0, err
	}

	n := t.Order()
	half := uint(size / 2)
	var acc float64
	for k := uint(0); k < uint(m); k++ {
		for b := uint(0); b <= 1; b++ {
			for i := uint(0); i < half; i++ {
				ci := points[bitlabel.CosetIndex(i, k, b, uint(m))]

				for l1 := 0; l1 < n; l1++ {
					zr, w1 := t.Node(l1), t.Weight(l1)
					for l2 := 0; l2 < n; l2++ {
						zi := t.Node(l2)
						zz := zr*zr + zi*zi

						var num float64
						for _, cj := range points {
							num += likelihood(cj-ci, inv, zr, zi, zz)
						}

						var den float64
						for j := uint(0); j < half; j++ {
							cj := points[bitlabel.CosetIndex(j, k, b, uint(m))]
							den += likelihood(cj-ci, inv, zr, zi, zz)
						}

						if !validSum(num) || !validSum(den) {
							return 0, ErrNumericUnderflow
						}

						acc += w1 * t.Weight(l2) * math.Log2(num/den)
					}
				}
			}
		}
	}

	return float64(m) - acc/(float64(size)*math.Pi), nil
}

// Joint computes MI and GMI in a single pass. Each likelihood term is
// evaluated once and added to the total and to the coset sum of every bit
// position it shares with the transmitted label, which removes the factor
// m of repeated exponentials that separate MI and GMI calls pay.
func Joint(points []complex128, sigma float64, t *quadrature.Table) (Result, error) {
	size := len(points)
	if size < 2 {
		return Result{}, ErrTooFewPoints
	}
	m, ok := bitlabel.Log2(size)
	if !ok {
		return Result{}, ErrNotPowerOfTwo
	}
	inv, err := InverseSigma(sigma)
	if err != nil {
		return Result{}, err
	}

	n := t.Order()
	den := make([]float64, m)
	var accMI, accGMI float64
	for i, ci := range points {
		for l1 := 0; l1 < n; l1++ {
			zr, w1 := t.Node(l1), t.Weight(l1)
			for l2 := 0; l2 < n; l2++ {
				zi := t.Node(l2)
				zz := zr*zr + zi*zi

				clear(den)
				var total float64
				for j, cj := range points {
					v := likelihood(cj-ci, inv, zr, zi, zz)
					total += v
					diff := uint(i ^ j)
					for k := range den {
						if bitlabel.Bit(diff, uint(k)) == 0 {
							den[k] += v
						}
					}
				}
				if !validSum(total) {
					return Result{}, ErrNumericUnderflow
				}

				w := w1 * t.Weight(l2)
				logTotal := math.Log2(total)
				accMI += w * logTotal
				for _, d := range den {
					if !validSum(d) {
						return Result{}, ErrNumericUnderflow
					}
					accGMI += w * (logTotal - math.Log2(d))
				}
			}
		}
	}

	norm := float64(size) * math.Pi
	return Result{
		MI:  math.Log2(float64(size)) - accMI/norm,
		GMI: float64(m) - accGMI/norm,
	}, nil
}
