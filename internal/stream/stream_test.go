package stream

import (
	"bytes"
	"io"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFromPath(t *testing.T) {
	assert.Equal(t, CompressionZSTD, FromPath("out.csv.zst"))
	assert.Equal(t, CompressionLZ4, FromPath("/tmp/qam.txt.lz4"))
	assert.Equal(t, CompressionNone, FromPath("result.json"))
	assert.Equal(t, "zstd", CompressionZSTD.String())
	assert.Equal(t, "Unknown(9)", Compression(9).String())
}

func TestRoundTrip(t *testing.T) {
	payload := []byte(strings.Repeat("snr_db,mi,gmi\n10,1.9931,1.9931\n", 64))

	for _, c := range []Compression{CompressionNone, CompressionLZ4, CompressionZSTD} {
		t.Run(c.String(), func(t *testing.T) {
			var buf bytes.Buffer
			w, err := NewWriter(&buf, c)
			require.NoError(t, err)
			_, err = w.Write(payload)
			require.NoError(t, err)
			require.NoError(t, w.Close())

			if c != CompressionNone {
				assert.Less(t, buf.Len(), len(payload))
			}

			r, err := NewReader(&buf, c)
			require.NoError(t, err)
			got, err := io.ReadAll(r)
			require.NoError(t, err)
			require.NoError(t, r.Close())
			assert.Equal(t, payload, got)
		})
	}
}

func TestFiles(t *testing.T) {
	dir := t.TempDir()
	payload := []byte("1 1\n-1 1\n1 -1\n-1 -1\n")

	for _, name := range []string{"c.txt", "c.txt.lz4", "c.txt.zst"} {
		t.Run(name, func(t *testing.T) {
			path := filepath.Join(dir, name)

			w, err := Create(path)
			require.NoError(t, err)
			_, err = w.Write(payload)
			require.NoError(t, err)
			require.NoError(t, w.Close())

			r, err := Open(path)
			require.NoError(t, err)
			got, err := io.ReadAll(r)
			require.NoError(t, err)
			require.NoError(t, r.Close())
			assert.Equal(t, payload, got)
		})
	}

	_, err := Open(filepath.Join(dir, "missing.zst"))
	assert.Error(t, err)

	_, err = NewWriter(io.Discard, Compression(9))
	assert.Error(t, err)
	_, err = NewReader(strings.NewReader(""), Compression(9))
	assert.Error(t, err)
}
