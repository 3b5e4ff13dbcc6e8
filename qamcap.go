package qamcap

import (
	"context"
	"errors"
	"math"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
	"golang.org/x/time/rate"

	"github.com/hupe1980/qamcap/constellation"
	"github.com/hupe1980/qamcap/internal/kernel"
	"github.com/hupe1980/qamcap/internal/platform"
	"github.com/hupe1980/qamcap/internal/quadrature"
	"github.com/hupe1980/qamcap/internal/resource"
)

// progressInterval is the minimum time between two progress log records
// of one Evaluate call.
const progressInterval = 2 * time.Second

// Evaluator computes MI and GMI of constellations over AWGN.
//
// An Evaluator is immutable after New and safe for concurrent use.
type Evaluator struct {
	opts  options
	table *quadrature.Table
	rc    *resource.Controller
}

// New creates an Evaluator.
func New(optFns ...Option) (*Evaluator, error) {
	o := applyOptions(optFns)
	if err := o.validate(); err != nil {
		return nil, err
	}

	table, err := quadrature.Get(o.order)
	if err != nil {
		return nil, &ErrInvalidQuadratureOrder{Order: o.order, cause: err}
	}

	e := &Evaluator{
		opts:  o,
		table: table,
		rc:    resource.NewController(resource.Config{MaxConcurrent: int64(o.maxConcurrent)}),
	}

	o.logger.Debug("evaluator created",
		"order", table.Order(),
		"kernel", o.kernel,
		"policy", o.policy,
		"gmi", o.gmi,
		"workers", o.workers,
		"max_concurrency", e.rc.Limit(),
		"isa", platform.ActiveISA(),
	)

	return e, nil
}

// Evaluate is a convenience wrapper that validates points, builds an
// Evaluator from opts and evaluates every SNR in snrDB.
func Evaluate(ctx context.Context, points []complex128, snrDB []float64, opts ...Option) (*Result, error) {
	c, err := constellation.New(points)
	if err != nil {
		return nil, translateError(err)
	}
	e, err := New(opts...)
	if err != nil {
		return nil, err
	}
	return e.Evaluate(ctx, c, snrDB)
}

// Order returns the quadrature order in use.
func (e *Evaluator) Order() int { return e.table.Order() }

// Evaluate computes MI and GMI for every SNR in snrDB (Es/N0 in dB).
//
// Structural problems with c are reported before any work starts. Numeric
// problems of a single point are handled by the degenerate policy and never
// affect other points. A cancelled ctx aborts the call and no partial
// result is returned.
func (e *Evaluator) Evaluate(ctx context.Context, c *constellation.Constellation, snrDB []float64) (*Result, error) {
	if c == nil {
		return nil, ErrNilConstellation
	}

	bits, pow2 := c.BitsPerSymbol()
	if e.opts.gmi && !pow2 {
		return nil, &ErrInvalidConstellationSize{Size: c.Len(), Reason: "GMI needs a power-of-two size"}
	}

	start := time.Now()
	runID := uuid.NewString()
	log := e.opts.logger.WithRunID(runID).WithConstellation(c.Len(), c.Fingerprint())

	res := newResult(len(snrDB), e.opts.gmi)
	res.RunID = runID
	res.Size = c.Len()
	res.Order = e.table.Order()
	res.Kernel = e.opts.kernel

	total := len(snrDB)
	var done atomic.Int64
	progress := rate.Sometimes{Interval: progressInterval}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(e.opts.workers)

	for i, snr := range snrDB {
		g.Go(func() error {
			if err := e.rc.Acquire(gctx); err != nil {
				return err
			}
			defer e.rc.Release()

			if err := gctx.Err(); err != nil {
				return err
			}

			p := e.evaluatePoint(c, bits, i, snr)
			res.set(i, p)

			e.opts.metricsCollector.RecordPoint(p.Status, p.Duration)
			log.LogPoint(gctx, i, p)

			n := int(done.Add(1))
			if e.opts.progress != nil {
				e.opts.progress(n, total)
			}
			progress.Do(func() { log.LogProgress(gctx, n, total) })
			return nil
		})
	}

	err := g.Wait()
	res.Duration = time.Since(start)

	failed, clamped := res.Failed(), res.Clamped()
	e.opts.metricsCollector.RecordEvaluate(total, failed, clamped, res.Duration, err)
	log.WithConcurrency(e.rc.Peak(), e.rc.Total()).LogEvaluate(ctx, total, failed, clamped, res.Duration, err)

	if err != nil {
		return nil, err
	}
	return res, nil
}

// evaluatePoint computes one SNR point. It never returns an error; faults
// are recorded in the Point according to the degenerate policy.
func (e *Evaluator) evaluatePoint(c *constellation.Constellation, bits, index int, snrDB float64) Point {
	start := time.Now()
	p := Point{SNRdB: snrDB, Sigma: math.NaN()}

	if math.IsNaN(snrDB) {
		p = e.fail(p, &DegenerateNoiseError{Index: index, SNRdB: snrDB, Sigma: p.Sigma, cause: ErrInvalidSNR})
		p.Duration = time.Since(start)
		return p
	}

	p.Sigma = constellation.UnitNoiseSigma(snrDB)

	r, err := e.run(c.Unit(), p.Sigma)
	switch {
	case err == nil:
		maxMI := math.Log2(float64(c.Len()))
		p.MI = clampRange(r.MI, 0, maxMI)
		if e.opts.gmi {
			p.GMI = clampRange(r.GMI, 0, float64(bits))
		}
		p.Status = StatusOK

	case errors.Is(err, kernel.ErrDegenerateSigma), errors.Is(err, kernel.ErrNumericUnderflow):
		derr := &DegenerateNoiseError{Index: index, SNRdB: snrDB, Sigma: p.Sigma, cause: translateError(err)}
		if e.opts.policy == DegenerateClamp {
			p = e.clamp(p, c.Len(), bits, derr)
		} else {
			p = e.fail(p, derr)
		}

	default:
		p = e.fail(p, translateError(err))
	}

	p.Duration = time.Since(start)
	return p
}

func (e *Evaluator) run(points []complex128, sigma float64) (kernel.Result, error) {
	if e.opts.gmi && e.opts.kernel == KernelFused {
		return kernel.Joint(points, sigma, e.table)
	}

	var r kernel.Result
	var err error
	r.MI, err = kernel.MI(points, sigma, e.table)
	if err != nil {
		return kernel.Result{}, err
	}
	if e.opts.gmi {
		r.GMI, err = kernel.GMI(points, sigma, e.table)
		if err != nil {
			return kernel.Result{}, err
		}
	}
	return r, nil
}

// clamp replaces p by the analytic limit of its noise regime. p.Sigma is
// relative to unit symbol energy: zero or subnormal sigma is the noiseless
// regime, +Inf the pure-noise one.
func (e *Evaluator) clamp(p Point, size, bits int, cause error) Point {
	p.Status = StatusClamped
	p.Err = cause
	if noiseless(p.Sigma) {
		p.MI = math.Log2(float64(size))
		if e.opts.gmi {
			p.GMI = float64(bits)
		}
		return p
	}
	p.MI, p.GMI = 0, 0
	return p
}

// noiseless reports whether sigma lies below the unit symbol RMS. The
// degenerate cases sigma == 0 and an overflowing 1/sigma are included.
func noiseless(sigma float64) bool {
	return sigma < 1
}

func (e *Evaluator) fail(p Point, cause error) Point {
	p.Status = StatusFailed
	p.Err = cause
	p.MI = math.NaN()
	if e.opts.gmi {
		p.GMI = math.NaN()
	}
	return p
}

// clampRange removes quadrature rounding that leaves a value a few ULP
// outside its theoretical range.
func clampRange(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, v))
}
