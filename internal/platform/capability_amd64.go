//go:build amd64

package platform

import "golang.org/x/sys/cpu"

func init() {
	hasFMA = cpu.X86.HasFMA
	hasAVX2 = cpu.X86.HasAVX2 && cpu.X86.HasFMA
	hasAVX512F = cpu.X86.HasAVX512F
	hasAVX512BW = cpu.X86.HasAVX512BW
	initCapabilities()
}
