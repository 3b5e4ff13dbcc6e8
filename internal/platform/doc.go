// Package platform reports the instruction set features of the host CPU.
//
// The evaluator runs pure Go float64 code, so the level detected here does
// not change results. It is logged with every Evaluator and printed by the
// CLI so that timings from different machines can be compared.
//
// The QAMCAP_ISA environment variable caps the reported level (for example
// QAMCAP_ISA=generic), which is useful for reproducible benchmark labels.
package platform
