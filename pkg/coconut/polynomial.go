package coconut

import (
	"io"

	"github.com/luxfi/coconut/pkg/curve"
)

// polynomial is a dense univariate polynomial over Fr, used by the
// threshold dealer to share a secret among n authorities (spec §4.3).
// Modelled after the teacher's pkg/math/polynomial.Polynomial, specialised
// to this package's single curve instead of a generic curve.Curve.
type polynomial struct {
	// coefficients[i] is the coefficient of x^i. coefficients[0] is the
	// shared secret.
	coefficients []curve.Scalar
}

// newPolynomial samples a random polynomial of the given degree with the
// supplied constant term.
func newPolynomial(degree int, constant curve.Scalar, rng io.Reader) (*polynomial, error) {
	coeffs := make([]curve.Scalar, degree+1)
	coeffs[0] = constant
	for i := 1; i <= degree; i++ {
		c, err := curve.RandomScalar(rng)
		if err != nil {
			return nil, err
		}
		coeffs[i] = c
	}
	return &polynomial{coefficients: coeffs}, nil
}

// evaluate computes the polynomial at x via Horner's method.
func (p *polynomial) evaluate(x curve.Scalar) curve.Scalar {
	acc := curve.NewScalar()
	for i := len(p.coefficients) - 1; i >= 0; i-- {
		acc = acc.Mul(x).Add(p.coefficients[i])
	}
	return acc
}
