package qamcap

import (
	"fmt"
	"log/slog"
	"runtime"

	"github.com/hupe1980/qamcap/internal/quadrature"
)

// DegeneratePolicy selects what happens to an SNR point whose noise level
// cannot be evaluated numerically.
type DegeneratePolicy uint8

const (
	// DegenerateClamp replaces the point by its analytic limit: the
	// noiseless limit (MI = log2 M, GMI = m) when sigma vanishes, and zero
	// when sigma is infinite. The point is marked StatusClamped.
	DegenerateClamp DegeneratePolicy = iota
	// DegenerateFail marks the point StatusFailed, stores NaN in its slots
	// and records a *DegenerateNoiseError. Other points are unaffected.
	DegenerateFail
)

func (p DegeneratePolicy) String() string {
	switch p {
	case DegenerateClamp:
		return "clamp"
	case DegenerateFail:
		return "fail"
	default:
		return fmt.Sprintf("Unknown(%d)", p)
	}
}

// ParseDegeneratePolicy parses "clamp" or "fail".
func ParseDegeneratePolicy(s string) (DegeneratePolicy, error) {
	switch s {
	case "clamp":
		return DegenerateClamp, nil
	case "fail":
		return DegenerateFail, nil
	default:
		return 0, fmt.Errorf("%w: unknown degenerate policy %q", ErrInvalidOption, s)
	}
}

// Kernel selects the quadrature kernel.
type Kernel uint8

const (
	// KernelFused evaluates MI and GMI in one pass, computing every
	// likelihood term once.
	KernelFused Kernel = iota
	// KernelReference evaluates MI and GMI separately, enumerating each
	// bit coset explicitly. Slower by roughly a factor of log2 M.
	KernelReference
)

func (k Kernel) String() string {
	switch k {
	case KernelFused:
		return "fused"
	case KernelReference:
		return "reference"
	default:
		return fmt.Sprintf("Unknown(%d)", k)
	}
}

// ParseKernel parses "fused" or "reference".
func ParseKernel(s string) (Kernel, error) {
	switch s {
	case "fused":
		return KernelFused, nil
	case "reference":
		return KernelReference, nil
	default:
		return 0, fmt.Errorf("%w: unknown kernel %q", ErrInvalidOption, s)
	}
}

// ProgressFunc receives the number of finished points and the total after
// every point. It may be called concurrently from several workers.
type ProgressFunc func(done, total int)

type options struct {
	order            int
	workers          int
	maxConcurrent    int
	policy           DegeneratePolicy
	kernel           Kernel
	gmi              bool
	metricsCollector MetricsCollector
	logger           *Logger
	progress         ProgressFunc
}

// Option configures an Evaluator.
type Option func(*options)

// WithQuadratureOrder sets the number of Gauss-Hermite nodes per dimension.
// Each point costs O(order²), so doubling the order quadruples runtime.
// Default: 10.
func WithQuadratureOrder(order int) Option {
	return func(o *options) {
		o.order = order
	}
}

// WithWorkers sets the number of goroutines a single Evaluate call uses.
// If workers <= 0, runtime.GOMAXPROCS(0) is used.
func WithWorkers(workers int) Option {
	return func(o *options) {
		o.workers = workers
	}
}

// WithMaxConcurrency caps the number of SNR points in flight across all
// concurrent Evaluate calls on the same Evaluator.
// If n <= 0, runtime.GOMAXPROCS(0) is used.
func WithMaxConcurrency(n int) Option {
	return func(o *options) {
		o.maxConcurrent = n
	}
}

// WithDegeneratePolicy selects how degenerate noise levels are reported.
// Default: DegenerateClamp.
func WithDegeneratePolicy(p DegeneratePolicy) Option {
	return func(o *options) {
		o.policy = p
	}
}

// WithKernel selects the quadrature kernel. Default: KernelFused.
func WithKernel(k Kernel) Option {
	return func(o *options) {
		o.kernel = k
	}
}

// WithoutGMI disables GMI. Constellations of any size >= 2 are then
// accepted and Result.GMI is nil.
func WithoutGMI() Option {
	return func(o *options) {
		o.gmi = false
	}
}

// WithMetricsCollector configures a metrics collector.
// Pass nil to disable metrics collection.
//
// Example with BasicMetricsCollector:
//
//	metrics := &qamcap.BasicMetricsCollector{}
//	ev, _ := qamcap.New(qamcap.WithMetricsCollector(metrics))
//	// ... evaluate ...
//	stats := metrics.GetStats()
//	fmt.Printf("Points: %d, Avg latency: %dns\n", stats.PointCount, stats.PointAvgNanos)
func WithMetricsCollector(mc MetricsCollector) Option {
	return func(o *options) {
		if mc == nil {
			mc = NoopMetricsCollector{}
		}
		o.metricsCollector = mc
	}
}

// WithLogger configures structured logging.
// Pass nil to disable logging.
//
// Example with JSON logging:
//
//	logger := qamcap.NewJSONLogger(slog.LevelInfo)
//	ev, _ := qamcap.New(qamcap.WithLogger(logger))
func WithLogger(logger *Logger) Option {
	return func(o *options) {
		if logger == nil {
			logger = NoopLogger()
		}
		o.logger = logger
	}
}

// WithLogLevel creates a text logger with the specified level and sets it.
// Convenience wrapper for WithLogger(NewTextLogger(level)).
func WithLogLevel(level slog.Level) Option {
	return func(o *options) {
		o.logger = NewTextLogger(level)
	}
}

// WithProgress registers a callback invoked after every finished point.
func WithProgress(fn ProgressFunc) Option {
	return func(o *options) {
		o.progress = fn
	}
}

func applyOptions(optFns []Option) options {
	o := options{
		order:            quadrature.DefaultOrder,
		policy:           DegenerateClamp,
		kernel:           KernelFused,
		gmi:              true,
		metricsCollector: NoopMetricsCollector{},
		logger:           NoopLogger(),
	}
	for _, fn := range optFns {
		if fn != nil {
			fn(&o)
		}
	}
	if o.workers <= 0 {
		o.workers = runtime.GOMAXPROCS(0)
	}
	if o.maxConcurrent <= 0 {
		o.maxConcurrent = runtime.GOMAXPROCS(0)
	}
	return o
}

func (o options) validate() error {
	switch o.policy {
	case DegenerateClamp, DegenerateFail:
	default:
		return fmt.Errorf("%w: degenerate policy %v", ErrInvalidOption, o.policy)
	}
	switch o.kernel {
	case KernelFused, KernelReference:
	default:
		return fmt.Errorf("%w: kernel %v", ErrInvalidOption, o.kernel)
	}
	return nil
}
