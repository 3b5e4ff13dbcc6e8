package hash

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewCRC32C(t *testing.T) {
	// Check value from RFC 3720 (iSCSI), 32 bytes of zeros.
	h := NewCRC32C()
	_, _ = h.Write(make([]byte, 32))
	assert.Equal(t, uint32(0x8a9136aa), h.Sum32())

	// Chunked writes match a single write.
	data := []byte("qamcap fingerprint")
	whole := NewCRC32C()
	_, _ = whole.Write(data)

	chunked := NewCRC32C()
	_, _ = chunked.Write(data[:5])
	_, _ = chunked.Write(data[5:])
	assert.Equal(t, whole.Sum32(), chunked.Sum32())
}
