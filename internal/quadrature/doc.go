// Package quadrature provides Gauss-Hermite quadrature tables.
//
// A Table of order n approximates
//
//	∫ f(x) exp(-x²) dx ≈ Σ_l w[l] f(x[l])
//
// exactly for polynomials f up to degree 2n-1. Two-dimensional integrals
// against exp(-x²-y²) use the tensor product of a table with itself.
//
// # Shared Tables
//
// The 10-node table is a package-level value built at init time and never
// mutated. Tables of any other order are computed on first use by Newton
// iteration on the orthonormal Hermite recurrence and then cached for the
// lifetime of the process:
//
//	t, err := quadrature.Get(20)
//	if err != nil {
//	    return err
//	}
//	sum := t.Integrate2D(func(x, y float64) float64 { return x*x + y*y })
//
// Tables are safe for concurrent use.
package quadrature
