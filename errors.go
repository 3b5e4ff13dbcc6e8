package qamcap

import (
	"errors"
	"fmt"

	"github.com/hupe1980/qamcap/constellation"
	"github.com/hupe1980/qamcap/internal/kernel"
	"github.com/hupe1980/qamcap/internal/quadrature"
)

var (
	// ErrNilConstellation is returned when Evaluate is called without a constellation.
	ErrNilConstellation = errors.New("qamcap: nil constellation")

	// ErrNonFiniteSymbol is returned when a symbol has a NaN or infinite component.
	ErrNonFiniteSymbol = errors.New("qamcap: non-finite symbol")

	// ErrZeroEnergy is returned when every symbol sits at the origin, so
	// that no SNR can be mapped to a noise level.
	ErrZeroEnergy = errors.New("qamcap: zero symbol energy")

	// ErrDegenerateNoise marks a point whose noise level is zero, infinite
	// or not a number.
	ErrDegenerateNoise = errors.New("qamcap: degenerate noise")

	// ErrNumericUnderflow marks a point where a likelihood sum was not a
	// strictly positive finite number.
	ErrNumericUnderflow = errors.New("qamcap: numeric underflow")

	// ErrInvalidSNR marks a NaN SNR request.
	ErrInvalidSNR = errors.New("qamcap: SNR is NaN")

	// ErrInvalidOption is returned by New for out-of-range option values.
	ErrInvalidOption = errors.New("qamcap: invalid option")
)

// ErrInvalidConstellationSize indicates a constellation size that cannot be
// evaluated: fewer than two symbols, or a size that is not a power of two
// while GMI is enabled.
//
// The original underlying error (if any) can be accessed via errors.Unwrap.
type ErrInvalidConstellationSize struct {
	Size   int
	Reason string
	cause  error
}

func (e *ErrInvalidConstellationSize) Error() string {
	return fmt.Sprintf("invalid constellation size %d: %s", e.Size, e.Reason)
}

func (e *ErrInvalidConstellationSize) Unwrap() error { return e.cause }

// ErrInvalidQuadratureOrder indicates an unsupported Gauss-Hermite order.
//
// The original underlying error (if any) can be accessed via errors.Unwrap.
type ErrInvalidQuadratureOrder struct {
	Order int
	cause error
}

func (e *ErrInvalidQuadratureOrder) Error() string {
	return fmt.Sprintf("invalid quadrature order %d (supported %d..%d)", e.Order, quadrature.MinOrder, quadrature.MaxOrder)
}

func (e *ErrInvalidQuadratureOrder) Unwrap() error { return e.cause }

// DegenerateNoiseError describes a single SNR point that could not be
// evaluated numerically. It matches ErrDegenerateNoise with errors.Is.
type DegenerateNoiseError struct {
	Index int
	SNRdB float64
	Sigma float64
	cause error
}

func (e *DegenerateNoiseError) Error() string {
	return fmt.Sprintf("point %d (snr %g dB, sigma %g): %v", e.Index, e.SNRdB, e.Sigma, e.cause)
}

func (e *DegenerateNoiseError) Unwrap() error { return e.cause }

// Is reports whether target is ErrDegenerateNoise.
func (e *DegenerateNoiseError) Is(target error) bool { return target == ErrDegenerateNoise }

func translateError(err error) error {
	if err == nil {
		return nil
	}

	var se *constellation.SizeError
	if errors.As(err, &se) {
		return &ErrInvalidConstellationSize{Size: se.Size, Reason: se.Reason, cause: err}
	}
	if errors.Is(err, constellation.ErrNonFiniteSymbol) {
		return fmt.Errorf("%w: %w", ErrNonFiniteSymbol, err)
	}
	if errors.Is(err, constellation.ErrZeroEnergy) {
		return fmt.Errorf("%w: %w", ErrZeroEnergy, err)
	}

	// Kernel faults.
	if errors.Is(err, kernel.ErrDegenerateSigma) {
		return fmt.Errorf("%w: %w", ErrDegenerateNoise, err)
	}
	if errors.Is(err, kernel.ErrNumericUnderflow) {
		return fmt.Errorf("%w: %w", ErrNumericUnderflow, err)
	}
	if errors.Is(err, kernel.ErrNotPowerOfTwo) {
		return &ErrInvalidConstellationSize{Reason: "GMI needs a power-of-two size", cause: err}
	}
	if errors.Is(err, kernel.ErrTooFewPoints) {
		return &ErrInvalidConstellationSize{Reason: "need at least 2 symbols", cause: err}
	}

	return err
}
