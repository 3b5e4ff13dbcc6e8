package platform

import (
	"os"
	"runtime"
	"strings"
)

// ISA represents an instruction set level.
type ISA uint8

const (
	// Generic represents a CPU without any of the tracked extensions.
	Generic ISA = iota
	// NEON represents ARM64 Advanced SIMD.
	NEON
	// SVE2 represents ARM64 SVE2.
	SVE2
	// AVX2 represents x86-64 AVX2 with FMA.
	AVX2
	// AVX512 represents x86-64 AVX-512 F+BW.
	AVX512
)

// String returns the string representation of an ISA.
func (i ISA) String() string {
	switch i {
	case Generic:
		return "generic"
	case NEON:
		return "neon"
	case SVE2:
		return "sve2"
	case AVX2:
		return "avx2"
	case AVX512:
		return "avx512"
	default:
		return "unknown"
	}
}

// ParseISA parses a string into an ISA value.
func ParseISA(s string) (ISA, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "generic":
		return Generic, true
	case "neon":
		return NEON, true
	case "sve2":
		return SVE2, true
	case "avx2":
		return AVX2, true
	case "avx512":
		return AVX512, true
	default:
		return Generic, false
	}
}

// Set once by the architecture specific init.
var (
	activeISA   ISA
	hasOverride bool

	hasASIMD    bool
	hasSVE2     bool
	hasFMA      bool
	hasAVX2     bool
	hasAVX512F  bool
	hasAVX512BW bool
)

func initCapabilities() {
	if override := os.Getenv("QAMCAP_ISA"); override != "" {
		if isa, ok := ParseISA(override); ok && isAvailable(isa) {
			hasOverride = true
			activeISA = isa
			return
		}
	}
	activeISA = detect()
}

func isAvailable(isa ISA) bool {
	switch isa {
	case Generic:
		return true
	case NEON:
		return hasASIMD
	case SVE2:
		return hasSVE2
	case AVX2:
		return hasAVX2
	case AVX512:
		return hasAVX512F && hasAVX512BW
	default:
		return false
	}
}

func detect() ISA {
	switch runtime.GOARCH {
	case "arm64":
		if hasSVE2 {
			return SVE2
		}
		if hasASIMD {
			return NEON
		}
	case "amd64":
		if hasAVX512F && hasAVX512BW {
			return AVX512
		}
		if hasAVX2 {
			return AVX2
		}
	}
	return Generic
}

// ActiveISA returns the detected (or overridden) ISA.
func ActiveISA() ISA { return activeISA }

// IsOverridden reports whether QAMCAP_ISA selected the level.
func IsOverridden() bool { return hasOverride }

// HasFMA reports whether the CPU has fused multiply-add.
func HasFMA() bool { return hasFMA }

// Info is a snapshot of the host description.
type Info struct {
	GOOS       string `json:"goos"`
	GOARCH     string `json:"goarch"`
	NumCPU     int    `json:"num_cpu"`
	GOMAXPROCS int    `json:"gomaxprocs"`
	ISA        string `json:"isa"`
	FMA        bool   `json:"fma"`
}

// Describe returns the current host description.
func Describe() Info {
	return Info{
		GOOS:       runtime.GOOS,
		GOARCH:     runtime.GOARCH,
		NumCPU:     runtime.NumCPU(),
		GOMAXPROCS: runtime.GOMAXPROCS(0),
		ISA:        activeISA.String(),
		FMA:        hasFMA,
	}
}
