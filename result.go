package qamcap

import (
	"errors"
	"fmt"
	"time"
)

// PointStatus classifies the outcome of one SNR point.
type PointStatus uint8

const (
	// StatusOK means MI and GMI were computed by quadrature.
	StatusOK PointStatus = iota
	// StatusClamped means the noise level was degenerate and the point holds
	// the analytic limit instead.
	StatusClamped
	// StatusFailed means the point could not be evaluated; its MI and GMI
	// are NaN and Point.Err says why.
	StatusFailed
)

func (s PointStatus) String() string {
	switch s {
	case StatusOK:
		return "ok"
	case StatusClamped:
		return "clamped"
	case StatusFailed:
		return "failed"
	default:
		return fmt.Sprintf("Unknown(%d)", s)
	}
}

// Point holds the outcome of one SNR point. Sigma is the noise parameter
// of the constellation scaled to unit symbol energy, 10^(-SNRdB/20).
type Point struct {
	SNRdB    float64
	Sigma    float64
	MI       float64
	GMI      float64
	Status   PointStatus
	Err      error
	Duration time.Duration
}

// Result holds the outcome of an Evaluate call. All slices are index
// aligned with the requested SNR slice.
type Result struct {
	// MI holds the mutual information in bits per symbol.
	MI []float64
	// GMI holds the BICM capacity in bits per symbol, or is nil when the
	// evaluator was built WithoutGMI.
	GMI []float64
	// Points holds per-point diagnostics.
	Points []Point

	RunID    string
	Size     int
	Order    int
	Kernel   Kernel
	Duration time.Duration
}

func newResult(n int, gmi bool) *Result {
	r := &Result{
		MI:     make([]float64, n),
		Points: make([]Point, n),
	}
	if gmi {
		r.GMI = make([]float64, n)
	}
	return r
}

// set stores p in slot i. Slots are disjoint, so concurrent calls with
// distinct i need no synchronization.
func (r *Result) set(i int, p Point) {
	r.MI[i] = p.MI
	if r.GMI != nil {
		r.GMI[i] = p.GMI
	}
	r.Points[i] = p
}

// Len returns the number of points.
func (r *Result) Len() int { return len(r.Points) }

// Failed returns the number of points with StatusFailed.
func (r *Result) Failed() int { return r.count(StatusFailed) }

// Clamped returns the number of points with StatusClamped.
func (r *Result) Clamped() int { return r.count(StatusClamped) }

func (r *Result) count(s PointStatus) int {
	n := 0
	for _, p := range r.Points {
		if p.Status == s {
			n++
		}
	}
	return n
}

// Err joins the errors of all failed points. It returns nil if every point
// was evaluated or clamped.
func (r *Result) Err() error {
	var errs []error
	for _, p := range r.Points {
		if p.Status == StatusFailed {
			errs = append(errs, p.Err)
		}
	}
	return errors.Join(errs...)
}
