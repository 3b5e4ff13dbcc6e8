package constellation

import (
	"errors"
	"fmt"
)

var (
	// ErrNonFiniteSymbol is returned when a symbol has a NaN or infinite component.
	ErrNonFiniteSymbol = errors.New("constellation: non-finite symbol")

	// ErrZeroEnergy is returned when every symbol sits at the origin.
	ErrZeroEnergy = errors.New("constellation: zero symbol energy")

	// ErrEmptyInput is returned by Parse when the input holds no symbols.
	ErrEmptyInput = errors.New("constellation: no symbols in input")
)

// SizeError reports a constellation size that cannot be used.
type SizeError struct {
	Size   int
	Reason string
}

func (e *SizeError) Error() string {
	return fmt.Sprintf("constellation: invalid size %d: %s", e.Size, e.Reason)
}

// SymbolError reports the position of an invalid symbol.
//
// The underlying error can be accessed via errors.Unwrap.
type SymbolError struct {
	Index int
	Value complex128
	cause error
}

func (e *SymbolError) Error() string {
	return fmt.Sprintf("constellation: symbol %d (%v): %v", e.Index, e.Value, e.cause)
}

func (e *SymbolError) Unwrap() error { return e.cause }
