// Package constellation models two-dimensional digital constellations.
//
// A Constellation is an immutable, ordered set of M complex symbols. The
// position of a symbol is its binary label: symbol i carries label i, so the
// ordering of the input slice defines the bit mapping used for GMI.
//
// # Construction
//
//	c, err := constellation.New([]complex128{1 + 1i, -1 + 1i, 1 - 1i, -1 - 1i})
//	c, err := constellation.QAM(16) // Gray-labeled square QAM, unit energy
//	c, err := constellation.PSK(8)  // Gray-labeled PSK, unit energy
//
// # Geometry
//
// The symbol energy Es is the mean squared magnitude under a uniform prior.
// A requested Es/N0 in dB maps to the noise parameter
//
//	sigma = sqrt(Es) * 10^(-snrDB/20)
//
// where the complex noise has total variance sigma² (sigma²/2 per real
// dimension).
//
// Capacity does not depend on scale. Unit returns the symbols at unit
// energy, computed without squaring the raw symbols, so constellations near
// the limits of float64 are evaluated like any other.
package constellation
