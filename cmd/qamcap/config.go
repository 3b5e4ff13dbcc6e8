package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"math"
	"os"
	"strconv"
	"strings"

	"github.com/hupe1980/qamcap"
	"github.com/hupe1980/qamcap/constellation"
	"github.com/hupe1980/qamcap/internal/stream"
)

// envPrefix prefixes every environment variable that overrides a flag
// default, e.g. QAMCAP_ORDER=20.
const envPrefix = "QAMCAP_"

// maxSweepPoints bounds start:step:stop sweeps.
const maxSweepPoints = 1 << 20

type config struct {
	constellation string
	snr           string
	order         int
	workers       int
	kernel        string
	policy        string
	noGMI         bool
	format        string
	codec         string
	out           string
	logLevel      string
	metricsAddr   string
	version       bool
}

func newFlagSet(cfg *config, output io.Writer) *flag.FlagSet {
	fs := flag.NewFlagSet("qamcap", flag.ContinueOnError)
	fs.SetOutput(output)

	fs.StringVar(&cfg.constellation, "constellation", envString("CONSTELLATION", "qam16"), "qam<M>, psk<M> or a file of \"re im\" lines (.zst/.lz4 allowed)")
	fs.StringVar(&cfg.snr, "snr", envString("SNR", "-10:1:30"), "Es/N0 in dB as start:step:stop or a comma separated list")
	fs.IntVar(&cfg.order, "order", envInt("ORDER", 10), "Gauss-Hermite nodes per dimension")
	fs.IntVar(&cfg.workers, "workers", envInt("WORKERS", 0), "worker goroutines (0 = GOMAXPROCS)")
	fs.StringVar(&cfg.kernel, "kernel", envString("KERNEL", qamcap.KernelFused.String()), "quadrature kernel: fused or reference")
	fs.StringVar(&cfg.policy, "policy", envString("POLICY", qamcap.DegenerateClamp.String()), "degenerate noise policy: clamp or fail")
	fs.BoolVar(&cfg.noGMI, "no-gmi", envBool("NO_GMI", false), "compute MI only")
	fs.StringVar(&cfg.format, "format", envString("FORMAT", "csv"), "output format: csv or json")
	fs.StringVar(&cfg.codec, "codec", envString("CODEC", ""), "JSON codec: json or go-json")
	fs.StringVar(&cfg.out, "out", envString("OUT", "-"), "output file, - for stdout (.zst/.lz4 compress)")
	fs.StringVar(&cfg.logLevel, "log-level", envString("LOG_LEVEL", "warn"), "log level: debug, info, warn or error")
	fs.StringVar(&cfg.metricsAddr, "metrics-addr", envString("METRICS_ADDR", ""), "serve Prometheus metrics on this address")
	fs.BoolVar(&cfg.version, "version", false, "print build and CPU information and exit")

	return fs
}

func envString(key, def string) string {
	if v, ok := os.LookupEnv(envPrefix + key); ok {
		return v
	}
	return def
}

func envInt(key string, def int) int {
	if v, ok := os.LookupEnv(envPrefix + key); ok {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return def
}

func envBool(key string, def bool) bool {
	if v, ok := os.LookupEnv(envPrefix + key); ok {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
	}
	return def
}

// options converts the flag values into evaluator options.
func (c *config) options() ([]qamcap.Option, error) {
	k, err := qamcap.ParseKernel(c.kernel)
	if err != nil {
		return nil, err
	}
	p, err := qamcap.ParseDegeneratePolicy(c.policy)
	if err != nil {
		return nil, err
	}

	opts := []qamcap.Option{
		qamcap.WithQuadratureOrder(c.order),
		qamcap.WithWorkers(c.workers),
		qamcap.WithKernel(k),
		qamcap.WithDegeneratePolicy(p),
	}
	if c.noGMI {
		opts = append(opts, qamcap.WithoutGMI())
	}
	return opts, nil
}

func parseLevel(s string) (slog.Level, error) {
	var l slog.Level
	if err := l.UnmarshalText([]byte(s)); err != nil {
		return 0, fmt.Errorf("invalid log level %q", s)
	}
	return l, nil
}

// parseSNR accepts "start:step:stop" (inclusive) or a comma separated list.
// List entries may be inf, -inf or nan.
func parseSNR(s string) ([]float64, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return []float64{}, nil
	}

	if strings.Contains(s, ":") {
		parts := strings.Split(s, ":")
		if len(parts) != 3 {
			return nil, fmt.Errorf("snr sweep %q: want start:step:stop", s)
		}
		var v [3]float64
		for i, p := range parts {
			f, err := strconv.ParseFloat(strings.TrimSpace(p), 64)
			if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
				return nil, fmt.Errorf("snr sweep %q: invalid number %q", s, p)
			}
			v[i] = f
		}
		return sweep(v[0], v[1], v[2])
	}

	var out []float64
	for _, p := range strings.Split(s, ",") {
		f, err := strconv.ParseFloat(strings.TrimSpace(p), 64)
		if err != nil {
			return nil, fmt.Errorf("snr list: %w", err)
		}
		out = append(out, f)
	}
	return out, nil
}

func sweep(start, step, stop float64) ([]float64, error) {
	if step <= 0 {
		return nil, errors.New("snr sweep: step must be positive")
	}
	if stop < start {
		return nil, errors.New("snr sweep: stop is below start")
	}
	n := math.Floor((stop-start)/step+1e-9) + 1
	if n > maxSweepPoints {
		return nil, fmt.Errorf("snr sweep: %g points exceed the limit of %d", n, maxSweepPoints)
	}
	out := make([]float64, int(n))
	for i := range out {
		out[i] = start + float64(i)*step
	}
	return out, nil
}

// loadConstellation resolves qam<M>, psk<M> or a file path.
func loadConstellation(name string) (*constellation.Constellation, error) {
	lower := strings.ToLower(strings.TrimSpace(name))
	for prefix, gen := range map[string]func(int) (*constellation.Constellation, error){
		"qam": constellation.QAM,
		"psk": constellation.PSK,
	} {
		if rest, ok := strings.CutPrefix(lower, prefix); ok {
			if size, err := strconv.Atoi(rest); err == nil {
				return gen(size)
			}
		}
	}

	r, err := stream.Open(name)
	if err != nil {
		return nil, err
	}
	defer r.Close()

	return constellation.Parse(r)
}
