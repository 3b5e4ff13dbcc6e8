// Package hash provides hardware-accelerated CRC32-Castagnoli checksums.
//
// qamcap uses CRC32C to fingerprint constellations so that log lines and
// reports can tie results back to the exact symbol set (and labeling) that
// produced them:
//
//	h := hash.NewCRC32C()
//	h.Write(symbolBytes)
//	id := h.Sum32()
//
// Go's crc32 package uses SSE4.2 on x86-64 and the CRC extension on ARM64
// when available.
package hash
