// Command qamcap prints the MI and GMI of a constellation over a range of
// SNRs.
//
//	qamcap -constellation qam64 -snr -5:0.5:25 -format json -out cap.json.zst
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/hupe1980/qamcap"
	"github.com/hupe1980/qamcap/codec"
	"github.com/hupe1980/qamcap/internal/platform"
	"github.com/hupe1980/qamcap/internal/stream"
	"github.com/hupe1980/qamcap/promcollector"
)

var version = "dev"

func main() {
	_ = godotenv.Load(".env")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, os.Args[1:], os.Stdout, os.Stderr); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			os.Exit(0)
		}
		fmt.Fprintln(os.Stderr, "qamcap:", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	var cfg config
	fs := newFlagSet(&cfg, stderr)
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() > 0 {
		return fmt.Errorf("unexpected arguments: %v", fs.Args())
	}

	enc, err := codec.ByName(cfg.codec)
	if err != nil {
		return err
	}

	if cfg.version {
		return codec.Encode(stdout, enc, struct {
			Version string `json:"version"`
			platform.Info
		}{version, platform.Describe()})
	}

	if cfg.format != "csv" && cfg.format != "json" {
		return fmt.Errorf("unknown format %q", cfg.format)
	}

	level, err := parseLevel(cfg.logLevel)
	if err != nil {
		return err
	}
	logger := qamcap.NewLogger(slog.NewTextHandler(stderr, &slog.HandlerOptions{Level: level}))

	opts, err := cfg.options()
	if err != nil {
		return err
	}
	opts = append(opts, qamcap.WithLogger(logger))

	if cfg.metricsAddr != "" {
		reg := prometheus.NewRegistry()
		mc, err := promcollector.New(reg)
		if err != nil {
			return err
		}
		opts = append(opts, qamcap.WithMetricsCollector(mc))

		shutdown, err := serveMetrics(cfg.metricsAddr, reg, logger)
		if err != nil {
			return err
		}
		defer shutdown()
	}

	c, err := loadConstellation(cfg.constellation)
	if err != nil {
		return err
	}
	snr, err := parseSNR(cfg.snr)
	if err != nil {
		return err
	}

	ev, err := qamcap.New(opts...)
	if err != nil {
		return err
	}
	res, err := ev.Evaluate(ctx, c, snr)
	if err != nil {
		return err
	}

	if err := writeOutput(cfg, enc, c.Fingerprint(), res, stdout); err != nil {
		return err
	}

	if res.Failed() > 0 {
		logger.Warn("some points failed", "failed", res.Failed(), "error", res.Err())
	}
	return nil
}

func writeOutput(cfg config, enc codec.Codec, fingerprint uint32, res *qamcap.Result, stdout io.Writer) (err error) {
	var w io.WriteCloser
	if cfg.out == "" || cfg.out == "-" {
		w, err = stream.NewWriter(stdout, stream.CompressionNone)
	} else {
		w, err = stream.Create(cfg.out)
	}
	if err != nil {
		return err
	}
	defer func() {
		if cerr := w.Close(); err == nil {
			err = cerr
		}
	}()

	switch cfg.format {
	case "csv":
		return writeCSV(w, res)
	case "json":
		return writeJSON(w, enc, newReport(cfg.constellation, fingerprint, res))
	default:
		return fmt.Errorf("unknown format %q", cfg.format)
	}
}

func serveMetrics(addr string, reg *prometheus.Registry, logger *qamcap.Logger) (func(), error) {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return nil, err
	}

	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{Registry: reg}))
	srv := &http.Server{Handler: mux, ReadHeaderTimeout: 5 * time.Second}

	go func() {
		if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("metrics server", "error", err)
		}
	}()
	logger.Info("serving metrics", "addr", ln.Addr().String())

	return func() {
		ctx, cancel := context.WithTimeout(context.Background(), time.Second)
		defer cancel()
		_ = srv.Shutdown(ctx)
	}, nil
}
