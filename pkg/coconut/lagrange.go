package coconut

import (
	"github.com/luxfi/coconut/internal/party"
	"github.com/luxfi/coconut/pkg/curve"
)

// Lagrange computes the Lagrange basis coefficients {lambda_i} at x=0 for
// the given set of authority indices, i.e. the weights such that
// f(0) = sum_i lambda_i * f(i) for any polynomial f of degree < len(indices)
// (spec §4.3, glossary "Lagrange basis at 0"). Grounded on the teacher's
// pkg/math/polynomial.Lagrange, specialised away from the generic
// curve.Curve abstraction since this package only ever targets Fr.
func Lagrange(indices party.Indices) map[party.Index]curve.Scalar {
	out := make(map[party.Index]curve.Scalar, len(indices))
	for _, i := range indices {
		xi := i.Scalar()
		num := curve.ScalarFromUint64(1)
		den := curve.ScalarFromUint64(1)
		for _, j := range indices {
			if j == i {
				continue
			}
			xj := j.Scalar()
			num = num.Mul(xj)
			den = den.Mul(xj.Sub(xi))
		}
		out[i] = num.Mul(den.Invert())
	}
	return out
}
