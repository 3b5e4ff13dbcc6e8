//go:build arm64

package platform

import "golang.org/x/sys/cpu"

func init() {
	hasASIMD = cpu.ARM64.HasASIMD
	hasSVE2 = cpu.ARM64.HasSVE2
	// FMA is part of the ARMv8 base floating point instructions.
	hasFMA = cpu.ARM64.HasFP
	initCapabilities()
}
