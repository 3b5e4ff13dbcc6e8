// Package qamcap computes the capacity of two-dimensional constellations
// over the complex AWGN channel.
//
// For every requested SNR it returns two numbers in bits per symbol:
//
//   - MI, the mutual information of the constellation with uniform input
//     and an optimal symbol-wise receiver (coded modulation capacity).
//   - GMI, the generalized mutual information of bit-interleaved coded
//     modulation (BICM capacity) with bit-wise soft demapping. The binary
//     label of a symbol is its index.
//
// GMI never exceeds MI. The gap between both measures the loss of the
// bit labeling.
//
// # Quick Start
//
//	qam16, _ := constellation.QAM(16)
//	ev, _ := qamcap.New()
//	res, _ := ev.Evaluate(ctx, qam16, []float64{0, 5, 10, 15})
//	for i, snr := range []float64{0, 5, 10, 15} {
//	    fmt.Println(snr, res.MI[i], res.GMI[i])
//	}
//
// # Numerical Method
//
// The expectation over the Gaussian noise is computed with tensor-product
// Gauss-Hermite quadrature (10 nodes per dimension by default, see
// WithQuadratureOrder). The integrand is rewritten as
//
//	exp(|z|² - |d/s - conj(z)|²)
//
// with d the distance of two symbols and s the noise scale, so no noise
// variance is ever squared and the self term is exactly 1. This keeps
// results finite from -40 dB to well beyond 60 dB.
//
// # Concurrency
//
// SNR points are independent. Evaluate spreads them over a bounded worker
// pool (WithWorkers) and an Evaluator-wide in-flight cap
// (WithMaxConcurrency). Results are always index aligned with the input.
//
// # Degenerate Noise
//
// An SNR of +Inf, -Inf or one so extreme that the noise level underflows
// cannot be integrated. DegenerateClamp (the default) returns the analytic
// limit and marks the point StatusClamped. DegenerateFail returns NaN and
// marks it StatusFailed. A NaN SNR always fails.
//
// # Observability
//
// See WithLogger, WithMetricsCollector and the promcollector package.
package qamcap
