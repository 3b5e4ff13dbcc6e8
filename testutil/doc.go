// Package testutil provides testing utilities for qamcap.
//
// This package is intended for use in tests and benchmarks only.
// It provides a seeded, thread-safe RNG and helpers for generating random
// constellations and SNR sweeps.
//
// # Random Constellations
//
//	rng := testutil.NewRNG(seed)
//	points := rng.GaussianPoints(16)  // i.i.d. complex normal points
//	rng.Shuffle(snr)                  // scramble an SNR sweep in place
//
// # Sweeps
//
//	snr := testutil.Sweep(-10, 2, 20)  // -10, -8, ..., 20 dB
package testutil
