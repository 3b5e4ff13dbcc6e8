package main

import (
	"encoding/csv"
	"fmt"
	"io"
	"math"
	"strconv"

	"github.com/hupe1980/qamcap"
	"github.com/hupe1980/qamcap/codec"
)

type report struct {
	RunID         string        `json:"run_id"`
	Constellation string        `json:"constellation"`
	Size          int           `json:"size"`
	Fingerprint   string        `json:"fingerprint"`
	Order         int           `json:"order"`
	Kernel        string        `json:"kernel"`
	DurationMS    float64       `json:"duration_ms"`
	Points        []reportPoint `json:"points"`
}

// reportPoint uses pointers so that NaN and infinities become null.
type reportPoint struct {
	SNRdB  *float64 `json:"snr_db"`
	Sigma  *float64 `json:"sigma"`
	MI     *float64 `json:"mi"`
	GMI    *float64 `json:"gmi,omitempty"`
	Status string   `json:"status"`
	Error  string   `json:"error,omitempty"`
}

func finite(v float64) *float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return nil
	}
	return &v
}

func newReport(name string, fingerprint uint32, res *qamcap.Result) report {
	r := report{
		RunID:         res.RunID,
		Constellation: name,
		Size:          res.Size,
		Fingerprint:   fmt.Sprintf("%08x", fingerprint),
		Order:         res.Order,
		Kernel:        res.Kernel.String(),
		DurationMS:    float64(res.Duration.Microseconds()) / 1e3,
		Points:        make([]reportPoint, len(res.Points)),
	}
	for i, p := range res.Points {
		rp := reportPoint{
			SNRdB:  finite(p.SNRdB),
			Sigma:  finite(p.Sigma),
			MI:     finite(p.MI),
			Status: p.Status.String(),
		}
		if res.GMI != nil {
			rp.GMI = finite(p.GMI)
		}
		if p.Err != nil {
			rp.Error = p.Err.Error()
		}
		r.Points[i] = rp
	}
	return r
}

func writeJSON(w io.Writer, c codec.Codec, r report) error {
	return codec.Encode(w, c, r)
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}

func writeCSV(w io.Writer, res *qamcap.Result) error {
	cw := csv.NewWriter(w)

	header := []string{"snr_db", "sigma", "mi"}
	if res.GMI != nil {
		header = append(header, "gmi")
	}
	header = append(header, "status")
	if err := cw.Write(header); err != nil {
		return err
	}

	for i, p := range res.Points {
		rec := []string{formatFloat(p.SNRdB), formatFloat(p.Sigma), formatFloat(res.MI[i])}
		if res.GMI != nil {
			rec = append(rec, formatFloat(res.GMI[i]))
		}
		rec = append(rec, p.Status.String())
		if err := cw.Write(rec); err != nil {
			return err
		}
	}

	cw.Flush()
	return cw.Error()
}
