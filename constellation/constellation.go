package constellation

import (
	"encoding/binary"
	"math"
	"math/cmplx"

	"github.com/hupe1980/qamcap/internal/bitlabel"
	"github.com/hupe1980/qamcap/internal/hash"
)

// Constellation is an immutable ordered set of complex symbols.
type Constellation struct {
	points []complex128
	unit   []complex128 // points scaled to unit symbol energy
	rms    float64
}

// New validates points and returns a Constellation holding a copy of them.
//
// The size M is len(points) and must be at least 2. Every symbol must be
// finite and at least one must be non-zero.
func New(points []complex128) (*Constellation, error) {
	if len(points) < 2 {
		return nil, &SizeError{Size: len(points), Reason: "need at least 2 symbols"}
	}

	for i, p := range points {
		if cmplx.IsNaN(p) || cmplx.IsInf(p) {
			return nil, &SymbolError{Index: i, Value: p, cause: ErrNonFiniteSymbol}
		}
	}

	cp := make([]complex128, len(points))
	copy(cp, points)
	return build(cp)
}

// build takes ownership of finite points.
func build(points []complex128) (*Constellation, error) {
	scale, ms := scaledEnergy(points)
	if scale == 0 {
		return nil, ErrZeroEnergy
	}

	// ms >= 1/M, so the unit symbols never underflow or overflow.
	norm := math.Sqrt(ms)
	unit := make([]complex128, len(points))
	for i, p := range points {
		unit[i] = complex(real(p)/scale/norm, imag(p)/scale/norm)
	}

	return &Constellation{points: points, unit: unit, rms: scale * norm}, nil
}

// MustNew is like New but panics on error. Intended for package-level
// constellations built from literals.
func MustNew(points []complex128) *Constellation {
	c, err := New(points)
	if err != nil {
		panic(err)
	}
	return c
}

// scaledEnergy returns the largest component magnitude a and the mean
// squared magnitude of points/a, so that Es = a² · ms without squaring a
// symbol directly. a is 0 iff every symbol is zero.
func scaledEnergy(points []complex128) (a, ms float64) {
	for _, p := range points {
		a = max(a, math.Abs(real(p)), math.Abs(imag(p)))
	}
	if a == 0 || math.IsInf(a, 1) {
		return a, 0
	}
	for _, p := range points {
		re, im := real(p)/a, imag(p)/a
		ms += re*re + im*im
	}
	return a, ms / float64(len(points))
}

// RMS returns sqrt(Es) of points, assuming equiprobable symbols. Unlike
// math.Sqrt(SymbolEnergy(points)) it stays finite for symbols near the
// limits of float64. It returns 0 for an empty slice.
func RMS(points []complex128) float64 {
	if len(points) == 0 {
		return 0
	}
	a, ms := scaledEnergy(points)
	if a == 0 || math.IsInf(a, 1) {
		return a
	}
	return a * math.Sqrt(ms)
}

// SymbolEnergy returns the mean squared magnitude of points, assuming
// equiprobable symbols. It returns 0 for an empty slice and may overflow
// to +Inf (or underflow to 0) where RMS does not.
func SymbolEnergy(points []complex128) float64 {
	r := RMS(points)
	return r * r
}

// NoiseSigma converts an Es/N0 in dB into the noise parameter sigma for a
// constellation of symbol energy es.
func NoiseSigma(es, snrDB float64) float64 {
	return math.Sqrt(es) * math.Pow(10, -snrDB/20)
}

// UnitNoiseSigma is NoiseSigma for unit symbol energy.
func UnitNoiseSigma(snrDB float64) float64 {
	return math.Pow(10, -snrDB/20)
}

// Len returns the number of symbols M.
func (c *Constellation) Len() int { return len(c.points) }

// At returns symbol i.
func (c *Constellation) At(i int) complex128 { return c.points[i] }

// Points returns a copy of the symbols.
func (c *Constellation) Points() []complex128 {
	out := make([]complex128, len(c.points))
	copy(out, c.points)
	return out
}

// View returns the symbols without copying. The caller must not modify
// the returned slice.
func (c *Constellation) View() []complex128 { return c.points }

// Unit returns the symbols scaled to unit symbol energy without copying.
// MI and GMI do not depend on scale, so evaluating Unit at
// UnitNoiseSigma(snrDB) is exact for every finite constellation. The
// caller must not modify the returned slice.
func (c *Constellation) Unit() []complex128 { return c.unit }

// RMS returns sqrt(Es).
func (c *Constellation) RMS() float64 { return c.rms }

// SymbolEnergy returns Es. It overflows to +Inf for symbols beyond about
// 1e154; use RMS there.
func (c *Constellation) SymbolEnergy() float64 { return c.rms * c.rms }

// NoiseSigma returns the noise parameter for an Es/N0 of snrDB in the
// units of the symbols.
func (c *Constellation) NoiseSigma(snrDB float64) float64 {
	return c.rms * math.Pow(10, -snrDB/20)
}

// BitsPerSymbol returns m = log2(M). ok is false when M is not a power of
// two, in which case no binary labeling exists.
func (c *Constellation) BitsPerSymbol() (m int, ok bool) {
	return bitlabel.Log2(len(c.points))
}

// Rotate returns the constellation multiplied by exp(j·theta).
func (c *Constellation) Rotate(theta float64) *Constellation {
	return c.mul(cmplx.Rect(1, theta))
}

// Scale returns the constellation multiplied by a. It panics if a is zero
// or not finite.
func (c *Constellation) Scale(a float64) *Constellation {
	if a == 0 || math.IsNaN(a) || math.IsInf(a, 0) {
		panic("constellation: invalid scale factor")
	}
	return c.mul(complex(a, 0))
}

// Normalize returns the constellation scaled to unit symbol energy.
func (c *Constellation) Normalize() *Constellation {
	out := make([]complex128, len(c.unit))
	copy(out, c.unit)
	return &Constellation{points: out, unit: c.unit, rms: 1}
}

func (c *Constellation) mul(f complex128) *Constellation {
	out := make([]complex128, len(c.points))
	for i, p := range c.points {
		out[i] = p * f
	}
	for _, p := range out {
		if cmplx.IsNaN(p) || cmplx.IsInf(p) {
			panic("constellation: transform leaves the float64 range")
		}
	}
	nc, err := build(out)
	if err != nil {
		panic("constellation: transform leaves the float64 range")
	}
	return nc
}

// Fingerprint returns a CRC32C checksum over the IEEE-754 encoding of the
// symbols. Equal constellations (including labeling) share a fingerprint.
func (c *Constellation) Fingerprint() uint32 {
	h := hash.NewCRC32C()
	var buf [16]byte
	for _, p := range c.points {
		binary.LittleEndian.PutUint64(buf[:8], math.Float64bits(real(p)))
		binary.LittleEndian.PutUint64(buf[8:], math.Float64bits(imag(p)))
		_, _ = h.Write(buf[:])
	}
	return h.Sum32()
}
