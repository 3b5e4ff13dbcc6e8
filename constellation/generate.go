package constellation

import (
	"math"

	"github.com/hupe1980/qamcap/internal/bitlabel"
)

// grayToBinary inverts the reflected binary code.
func grayToBinary(g uint) uint {
	b := g
	for s := g >> 1; s != 0; s >>= 1 {
		b ^= s
	}
	return b
}

// QAM returns the Gray-labeled square M-QAM constellation normalized to
// unit symbol energy. M must be an even power of two (4, 16, 64, ...).
//
// The upper m/2 label bits select the in-phase level and the lower m/2
// bits the quadrature level, each Gray mapped, so nearest neighbors differ
// in exactly one bit.
func QAM(size int) (*Constellation, error) {
	m, ok := bitlabel.Log2(size)
	if !ok || m < 2 || m%2 != 0 {
		return nil, &SizeError{Size: size, Reason: "square QAM needs M = 4^k"}
	}

	h := uint(m / 2)
	levels := uint(1) << h
	offset := float64(levels - 1)

	points := make([]complex128, size)
	for label := uint(0); label < uint(size); label++ {
		li := grayToBinary(label >> h)
		lq := grayToBinary(label & (levels - 1))
		points[label] = complex(2*float64(li)-offset, 2*float64(lq)-offset)
	}

	c, err := New(points)
	if err != nil {
		return nil, err
	}
	return c.Normalize(), nil
}

// PSK returns the Gray-labeled M-PSK constellation on the unit circle,
// rotated by π/M so that no symbol lies on an axis. M must be a power of
// two of at least 2.
func PSK(size int) (*Constellation, error) {
	m, ok := bitlabel.Log2(size)
	if !ok || m < 1 {
		return nil, &SizeError{Size: size, Reason: "PSK needs M = 2^m with m >= 1"}
	}

	points := make([]complex128, size)
	for label := uint(0); label < uint(size); label++ {
		phi := 2*math.Pi*float64(grayToBinary(label))/float64(size) + math.Pi/float64(size)
		points[label] = complex(math.Cos(phi), math.Sin(phi))
	}

	return New(points)
}
