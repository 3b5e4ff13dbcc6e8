package qamcap_test

import (
	"context"
	"errors"
	"math"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hupe1980/qamcap"
	"github.com/hupe1980/qamcap/constellation"
	"github.com/hupe1980/qamcap/testutil"
)

func mustQAM(t testing.TB, size int) *constellation.Constellation {
	t.Helper()
	c, err := constellation.QAM(size)
	require.NoError(t, err)
	return c
}

func mustPSK(t testing.TB, size int) *constellation.Constellation {
	t.Helper()
	c, err := constellation.PSK(size)
	require.NoError(t, err)
	return c
}

func evaluate(t testing.TB, c *constellation.Constellation, snr []float64, opts ...qamcap.Option) *qamcap.Result {
	t.Helper()
	ev, err := qamcap.New(opts...)
	require.NoError(t, err)
	res, err := ev.Evaluate(context.Background(), c, snr)
	require.NoError(t, err)
	require.Len(t, res.MI, len(snr))
	return res
}

func TestQPSKHighSNR(t *testing.T) {
	res := evaluate(t, mustQAM(t, 4), []float64{10})

	assert.InDelta(t, 2.0, res.MI[0], 0.01)
	assert.InDelta(t, 1.9931528004022456, res.MI[0], 1e-9)
	assert.InDelta(t, res.MI[0], res.GMI[0], 1e-12, "Gray QPSK has no BICM loss")
	assert.Equal(t, qamcap.StatusOK, res.Points[0].Status)
}

func TestQAM16Gap(t *testing.T) {
	res := evaluate(t, mustQAM(t, 16), []float64{0, 30})

	assert.InDelta(t, 0.9897409906745724, res.MI[0], 1e-9)
	assert.InDelta(t, 0.899817222610289, res.GMI[0], 1e-9)
	assert.Greater(t, res.MI[0]-res.GMI[0], 0.05)

	assert.InDelta(t, 4.0, res.MI[1], 1e-6)
	assert.InDelta(t, res.MI[1], res.GMI[1], 1e-6)
}

func TestKernelsAgree(t *testing.T) {
	snr := testutil.Sweep(-10, 5, 30)
	c := mustPSK(t, 8)

	fused := evaluate(t, c, snr)
	ref := evaluate(t, c, snr, qamcap.WithKernel(qamcap.KernelReference))

	for i := range snr {
		assert.InDelta(t, ref.MI[i], fused.MI[i], 1e-12)
		assert.InDelta(t, ref.GMI[i], fused.GMI[i], 1e-12)
	}
	assert.Equal(t, qamcap.KernelFused, fused.Kernel)
	assert.Equal(t, qamcap.KernelReference, ref.Kernel)
}

func TestBounds(t *testing.T) {
	rng := testutil.NewRNG(7)
	snr := []float64{-20, -5, 0, 5, 10, 25}

	for trial := 0; trial < 5; trial++ {
		c, err := constellation.New(rng.GaussianPoints(8))
		require.NoError(t, err)

		res := evaluate(t, c, snr)
		for i := range snr {
			assert.GreaterOrEqual(t, res.GMI[i], 0.0)
			assert.LessOrEqual(t, res.GMI[i], res.MI[i]+1e-9)
			assert.LessOrEqual(t, res.MI[i], 3.0)
		}
	}
}

func TestMonotone(t *testing.T) {
	snr := testutil.Sweep(-20, 2, 40)
	require.GreaterOrEqual(t, len(snr), 10)

	for name, c := range map[string]*constellation.Constellation{
		"QPSK":  mustQAM(t, 4),
		"16QAM": mustQAM(t, 16),
		"8PSK":  mustPSK(t, 8),
	} {
		t.Run(name, func(t *testing.T) {
			res := evaluate(t, c, snr)
			for i := 1; i < len(snr); i++ {
				assert.GreaterOrEqual(t, res.MI[i], res.MI[i-1]-1e-12, "MI at %g dB", snr[i])
				assert.GreaterOrEqual(t, res.GMI[i], res.GMI[i-1]-1e-12, "GMI at %g dB", snr[i])
			}
		})
	}
}

func TestLimits(t *testing.T) {
	c := mustQAM(t, 16)
	res := evaluate(t, c, []float64{-40, 60, 120})

	assert.Less(t, res.MI[0], 1e-3)
	assert.Less(t, res.GMI[0], 1e-3)
	assert.InDelta(t, 4.0, res.MI[1], 1e-9)
	assert.InDelta(t, 4.0, res.GMI[1], 1e-9)
	assert.InDelta(t, 4.0, res.MI[2], 1e-9)

	for _, p := range res.Points {
		assert.Equal(t, qamcap.StatusOK, p.Status)
	}
}

func TestRotationInvariance(t *testing.T) {
	c := mustQAM(t, 16)
	snr := []float64{-5, 0, 5, 10}
	base := evaluate(t, c, snr)

	// Square QAM maps onto itself under a quarter turn.
	quarter := evaluate(t, c.Rotate(math.Pi/2), snr)
	for i := range snr {
		assert.InDelta(t, base.MI[i], quarter.MI[i], 1e-9)
		assert.InDelta(t, base.GMI[i], quarter.GMI[i], 1e-9)
	}

	// Other angles are invariant only up to quadrature error.
	oblique := evaluate(t, c.Rotate(math.Pi/4), snr)
	for i := range snr {
		assert.InDelta(t, base.MI[i], oblique.MI[i], 5e-3)
		assert.InDelta(t, base.GMI[i], oblique.GMI[i], 5e-3)
	}
}

func TestScaleInvariance(t *testing.T) {
	c := mustPSK(t, 8)
	snr := []float64{0, 8}

	a := evaluate(t, c, snr)
	b := evaluate(t, c.Scale(12.5), snr)
	for i := range snr {
		assert.InDelta(t, a.MI[i], b.MI[i], 1e-9)
		assert.InDelta(t, a.GMI[i], b.GMI[i], 1e-9)
	}
}

func TestExtremeScaleMatchesUnit(t *testing.T) {
	unit := mustQAM(t, 4)
	snr := []float64{-3, 0, 10}
	want := evaluate(t, unit, snr)

	for _, a := range []float64{1e200, 1e-170} {
		res := evaluate(t, unit.Scale(a), snr)
		for i := range snr {
			assert.Equal(t, qamcap.StatusOK, res.Points[i].Status, "scale %g at %g dB", a, snr[i])
			assert.InDelta(t, want.MI[i], res.MI[i], 1e-12, "scale %g at %g dB", a, snr[i])
			assert.InDelta(t, want.GMI[i], res.GMI[i], 1e-12, "scale %g at %g dB", a, snr[i])
		}
	}

	big := []complex128{complex(-1e200, -1e200), complex(-1e200, 1e200), complex(1e200, -1e200), complex(1e200, 1e200)}
	res, err := qamcap.Evaluate(context.Background(), big, []float64{0, -3})
	require.NoError(t, err)
	assert.InDelta(t, 0.9718392617102858, res.MI[0], 1e-9)
	assert.InDelta(t, res.MI[0], res.GMI[0], 1e-9)
	assert.Less(t, res.MI[1], res.MI[0])
	assert.Greater(t, res.MI[1], 0.0)
	assert.Zero(t, res.Clamped())

	tiny := []complex128{-1e-170, 1e-170}
	res, err = qamcap.Evaluate(context.Background(), tiny, []float64{0})
	require.NoError(t, err)
	assert.Equal(t, qamcap.StatusOK, res.Points[0].Status)
	assert.InDelta(t, 1.0, res.Points[0].Sigma, 1e-15)
}

func TestIndexAlignment(t *testing.T) {
	c := mustQAM(t, 16)
	snr := testutil.Sweep(-10, 1, 20)

	ordered := evaluate(t, c, snr, qamcap.WithWorkers(1))

	shuffled := append([]float64(nil), snr...)
	testutil.NewRNG(3).Shuffle(shuffled)
	res := evaluate(t, c, shuffled, qamcap.WithWorkers(8))

	want := make(map[float64]float64, len(snr))
	for i, s := range snr {
		want[s] = ordered.MI[i]
	}
	for i, s := range shuffled {
		assert.Equal(t, s, res.Points[i].SNRdB)
		assert.InDelta(t, want[s], res.MI[i], 1e-15)
	}
}

func TestEmptySNR(t *testing.T) {
	res := evaluate(t, mustQAM(t, 4), nil)

	assert.NotNil(t, res.MI)
	assert.NotNil(t, res.GMI)
	assert.Empty(t, res.MI)
	assert.Empty(t, res.GMI)
	assert.NoError(t, res.Err())
}

func TestDegenerateClamp(t *testing.T) {
	res := evaluate(t, mustQAM(t, 16), []float64{math.Inf(1), math.Inf(-1), 5})

	assert.Equal(t, 4.0, res.MI[0])
	assert.Equal(t, 4.0, res.GMI[0])
	assert.Equal(t, qamcap.StatusClamped, res.Points[0].Status)
	assert.ErrorIs(t, res.Points[0].Err, qamcap.ErrDegenerateNoise)

	assert.Equal(t, 0.0, res.MI[1])
	assert.Equal(t, 0.0, res.GMI[1])
	assert.Equal(t, qamcap.StatusClamped, res.Points[1].Status)

	assert.Equal(t, qamcap.StatusOK, res.Points[2].Status)
	assert.Equal(t, 2, res.Clamped())
	assert.Equal(t, 0, res.Failed())
	assert.NoError(t, res.Err())
}

func TestDegenerateFail(t *testing.T) {
	res := evaluate(t, mustQAM(t, 4), []float64{math.Inf(1), 10}, qamcap.WithDegeneratePolicy(qamcap.DegenerateFail))

	assert.True(t, math.IsNaN(res.MI[0]))
	assert.True(t, math.IsNaN(res.GMI[0]))
	assert.Equal(t, qamcap.StatusFailed, res.Points[0].Status)

	var dne *qamcap.DegenerateNoiseError
	require.ErrorAs(t, res.Err(), &dne)
	assert.Equal(t, 0, dne.Index)
	assert.ErrorIs(t, res.Err(), qamcap.ErrDegenerateNoise)

	assert.Equal(t, qamcap.StatusOK, res.Points[1].Status)
	assert.InDelta(t, 1.9931528004022456, res.MI[1], 1e-9)
}

func TestNaNSNR(t *testing.T) {
	for _, policy := range []qamcap.DegeneratePolicy{qamcap.DegenerateClamp, qamcap.DegenerateFail} {
		t.Run(policy.String(), func(t *testing.T) {
			res := evaluate(t, mustQAM(t, 4), []float64{0, math.NaN()}, qamcap.WithDegeneratePolicy(policy))

			assert.Equal(t, qamcap.StatusOK, res.Points[0].Status)
			assert.Equal(t, qamcap.StatusFailed, res.Points[1].Status)
			assert.True(t, math.IsNaN(res.MI[1]))
			assert.ErrorIs(t, res.Err(), qamcap.ErrInvalidSNR)
			assert.Equal(t, 1, res.Failed())
		})
	}
}

func TestWithoutGMI(t *testing.T) {
	c, err := constellation.PSK(3)
	require.Error(t, err)
	assert.Nil(t, c)

	tri := constellation.MustNew([]complex128{1, complex(-0.5, math.Sqrt(3)/2), complex(-0.5, -math.Sqrt(3)/2)})

	ev, err := qamcap.New()
	require.NoError(t, err)
	_, err = ev.Evaluate(context.Background(), tri, []float64{0})
	var sizeErr *qamcap.ErrInvalidConstellationSize
	require.ErrorAs(t, err, &sizeErr)
	assert.Equal(t, 3, sizeErr.Size)

	res := evaluate(t, tri, []float64{0, 60}, qamcap.WithoutGMI())
	assert.Nil(t, res.GMI)
	assert.Greater(t, res.MI[0], 0.0)
	assert.InDelta(t, math.Log2(3), res.MI[1], 1e-9)
}

func TestNilConstellation(t *testing.T) {
	ev, err := qamcap.New()
	require.NoError(t, err)

	_, err = ev.Evaluate(context.Background(), nil, []float64{0})
	assert.ErrorIs(t, err, qamcap.ErrNilConstellation)
}

func TestEvaluateFunc(t *testing.T) {
	res, err := qamcap.Evaluate(context.Background(), []complex128{1, -1}, []float64{0})
	require.NoError(t, err)
	assert.Equal(t, 2, res.Size)
	assert.InDelta(t, res.MI[0], res.GMI[0], 1e-12)

	_, err = qamcap.Evaluate(context.Background(), []complex128{1}, []float64{0})
	var sizeErr *qamcap.ErrInvalidConstellationSize
	require.ErrorAs(t, err, &sizeErr)
	assert.Equal(t, 1, sizeErr.Size)

	_, err = qamcap.Evaluate(context.Background(), []complex128{0, 0}, []float64{0})
	assert.ErrorIs(t, err, qamcap.ErrZeroEnergy)

	_, err = qamcap.Evaluate(context.Background(), []complex128{1, complex(math.NaN(), 0)}, []float64{0})
	assert.ErrorIs(t, err, qamcap.ErrNonFiniteSymbol)
}

func TestInvalidOptions(t *testing.T) {
	_, err := qamcap.New(qamcap.WithQuadratureOrder(0))
	var orderErr *qamcap.ErrInvalidQuadratureOrder
	require.ErrorAs(t, err, &orderErr)
	assert.Equal(t, 0, orderErr.Order)

	_, err = qamcap.New(qamcap.WithQuadratureOrder(1000))
	require.ErrorAs(t, err, &orderErr)

	_, err = qamcap.New(qamcap.WithKernel(qamcap.Kernel(42)))
	assert.ErrorIs(t, err, qamcap.ErrInvalidOption)

	_, err = qamcap.New(qamcap.WithDegeneratePolicy(qamcap.DegeneratePolicy(42)))
	assert.ErrorIs(t, err, qamcap.ErrInvalidOption)
}

func TestQuadratureOrder(t *testing.T) {
	c := mustQAM(t, 16)
	low := evaluate(t, c, []float64{0})
	high := evaluate(t, c, []float64{0}, qamcap.WithQuadratureOrder(20))

	assert.Equal(t, 10, low.Order)
	assert.Equal(t, 20, high.Order)
	assert.InDelta(t, low.MI[0], high.MI[0], 1e-2)
}

func TestContextCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	ev, err := qamcap.New()
	require.NoError(t, err)

	res, err := ev.Evaluate(ctx, mustQAM(t, 16), testutil.Sweep(0, 1, 10))
	assert.ErrorIs(t, err, context.Canceled)
	assert.Nil(t, res)
}

func TestProgressAndMetrics(t *testing.T) {
	metrics := &qamcap.BasicMetricsCollector{}
	var calls, last atomic.Int64

	snr := []float64{0, 5, math.Inf(1), math.NaN()}
	res := evaluate(t, mustQAM(t, 4), snr,
		qamcap.WithMetricsCollector(metrics),
		qamcap.WithProgress(func(done, total int) {
			calls.Add(1)
			assert.Equal(t, 4, total)
			if done == total {
				last.Store(1)
			}
		}),
	)

	assert.Equal(t, int64(4), calls.Load())
	assert.Equal(t, int64(1), last.Load())

	stats := metrics.GetStats()
	assert.Equal(t, int64(1), stats.EvaluateCount)
	assert.Equal(t, int64(0), stats.EvaluateErrors)
	assert.Equal(t, int64(4), stats.PointCount)
	assert.Equal(t, int64(1), stats.PointFailed)
	assert.Equal(t, int64(1), stats.PointClamped)
	assert.NotEmpty(t, res.RunID)
}

func TestConcurrentEvaluate(t *testing.T) {
	ev, err := qamcap.New(qamcap.WithMaxConcurrency(2))
	require.NoError(t, err)

	c := mustPSK(t, 8)
	snr := testutil.Sweep(-5, 5, 20)

	want, err := ev.Evaluate(context.Background(), c, snr)
	require.NoError(t, err)

	errs := make(chan error, 8)
	for range 8 {
		go func() {
			res, err := ev.Evaluate(context.Background(), c, snr)
			if err == nil && !equalFloats(res.MI, want.MI) {
				err = errors.New("result mismatch")
			}
			errs <- err
		}()
	}
	for range 8 {
		assert.NoError(t, <-errs)
	}
}

func equalFloats(a, b []float64) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func BenchmarkEvaluate16QAM(b *testing.B) {
	c, err := constellation.QAM(16)
	require.NoError(b, err)
	ev, err := qamcap.New()
	require.NoError(b, err)
	snr := testutil.Sweep(-10, 1, 30)

	for b.Loop() {
		_, _ = ev.Evaluate(context.Background(), c, snr)
	}
}
