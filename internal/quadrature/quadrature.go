package quadrature

import (
	"errors"
	"fmt"
	"math"
	"sync"
)

const (
	// DefaultOrder is the number of nodes of the built-in table.
	DefaultOrder = 10
	// MinOrder is the smallest supported order.
	MinOrder = 1
	// MaxOrder is the largest supported order. Above it the Newton
	// initial guesses stop converging reliably in float64.
	MaxOrder = 128
)

// ErrInvalidOrder is returned when a table order is out of range.
var ErrInvalidOrder = errors.New("quadrature: invalid order")

// Table is an immutable set of Gauss-Hermite abscissas and weights in
// ascending abscissa order.
type Table struct {
	x []float64
	w []float64
}

// Default is the 10-node Gauss-Hermite table.
var Default = &Table{
	x: []float64{
		-3.436159118837737603327,
		-2.532731674232789796409,
		-1.756683649299881773451,
		-1.036610829789513654178,
		-0.3429013272237046087892,
		0.3429013272237046087892,
		1.036610829789513654178,
		1.756683649299881773451,
		2.532731674232789796409,
		3.436159118837737603327,
	},
	w: []float64{
		7.64043285523262062916e-6,
		0.001343645746781232692202,
		0.0338743944554810631362,
		0.2401386110823146864165,
		0.6108626337353257987836,
		0.6108626337353257987836,
		0.2401386110823146864165,
		0.03387439445548106313617,
		0.001343645746781232692202,
		7.64043285523262062916e-6,
	},
}

var (
	cacheMu sync.Mutex
	cache   = map[int]*Table{DefaultOrder: Default}
)

// Get returns the table of the given order. The first request for an
// order computes the table; later requests return the same value.
func Get(order int) (*Table, error) {
	if order < MinOrder || order > MaxOrder {
		return nil, fmt.Errorf("%w: %d (supported %d..%d)", ErrInvalidOrder, order, MinOrder, MaxOrder)
	}

	cacheMu.Lock()
	defer cacheMu.Unlock()

	if t, ok := cache[order]; ok {
		return t, nil
	}

	t, err := compute(order)
	if err != nil {
		return nil, err
	}
	cache[order] = t
	return t, nil
}

// Order returns the number of nodes.
func (t *Table) Order() int { return len(t.x) }

// Node returns the l-th abscissa.
func (t *Table) Node(l int) float64 { return t.x[l] }

// Weight returns the l-th weight.
func (t *Table) Weight(l int) float64 { return t.w[l] }

// Nodes returns a copy of the abscissas.
func (t *Table) Nodes() []float64 {
	out := make([]float64, len(t.x))
	copy(out, t.x)
	return out
}

// Weights returns a copy of the weights.
func (t *Table) Weights() []float64 {
	out := make([]float64, len(t.w))
	copy(out, t.w)
	return out
}

// Integrate2D approximates ∫∫ f(x, y) exp(-x²-y²) dx dy.
func (t *Table) Integrate2D(f func(x, y float64) float64) float64 {
	var sum float64
	for l1, x1 := range t.x {
		for l2, x2 := range t.x {
			sum += t.w[l1] * t.w[l2] * f(x1, x2)
		}
	}
	return sum
}

const (
	newtonEps     = 3e-14
	newtonMaxIter = 100
	// piFourthRoot is π^(-1/4), the value of the normalized H_0.
	piFourthRoot = 0.7511255444649425
)

// compute finds the roots of H_n by Newton iteration, largest root first,
// using the orthonormal recurrence to keep values bounded for large n.
func compute(n int) (*Table, error) {
	x := make([]float64, n)
	w := make([]float64, n)

	var z float64
	half := (n + 1) / 2
	for i := 0; i < half; i++ {
		switch i {
		case 0:
			z = math.Sqrt(float64(2*n+1)) - 1.85575*math.Pow(float64(2*n+1), -0.16667)
		case 1:
			z -= 1.14 * math.Pow(float64(n), 0.426) / z
		case 2:
			z = 1.86*z - 0.86*x[0]
		case 3:
			z = 1.91*z - 0.91*x[1]
		default:
			z = 2*z - x[i-2]
		}

		var pp float64
		converged := false
		for iter := 0; iter < newtonMaxIter; iter++ {
			p1, p2 := piFourthRoot, 0.0
			for j := 1; j <= n; j++ {
				p3 := p2
				p2 = p1
				p1 = z*math.Sqrt(2/float64(j))*p2 - math.Sqrt(float64(j-1)/float64(j))*p3
			}
			pp = math.Sqrt(float64(2*n)) * p2

			z1 := z
			z = z1 - p1/pp
			if math.Abs(z-z1) <= newtonEps {
				converged = true
				break
			}
		}
		if !converged {
			return nil, fmt.Errorf("%w: %d (root %d did not converge)", ErrInvalidOrder, n, i)
		}

		// Descending here, reversed below.
		x[i], x[n-1-i] = z, -z
		w[i] = 2 / (pp * pp)
		w[n-1-i] = w[i]
	}

	if n%2 == 1 {
		x[half-1] = 0
	}

	for i, j := 0, n-1; i < j; i, j = i+1, j-1 {
		x[i], x[j] = x[j], x[i]
		w[i], w[j] = w[j], w[i]
	}

	return &Table{x: x, w: w}, nil
}
