package coconut

import (
	"fmt"
	"io"

	"github.com/luxfi/coconut/internal/party"
	"github.com/luxfi/coconut/pkg/curve"
	"github.com/luxfi/coconut/pkg/params"
)

// SecretKeyShare is a single authority's share of the threshold secret key
// (spec §3: "SecretKey { x: Fr, y: Fr[q] }", here indexed by the sharing
// authority).
type SecretKeyShare struct {
	Index party.Index
	X     curve.Scalar
	Y     []curve.Scalar
}

// VerifyKeyShare is the public counterpart of a SecretKeyShare.
type VerifyKeyShare struct {
	Index party.Index
	Alpha curve.G2
	Beta  []curve.G2
}

// VerifyKey is the aggregate verify key for the federation, obtained by
// Lagrange-combining any >= m verify key shares (spec §3: "VerifyKey {
// alpha: G2, beta: G2[q] }").
type VerifyKey struct {
	Alpha curve.G2
	Beta  []curve.G2
}

// Keygen runs the trusted-dealer threshold keygen of spec §4.3: it samples
// a degree-(m-1) polynomial v for the signing exponent x and one
// degree-(m-1) polynomial w_j per attribute slot, then evaluates each at
// every authority index 1..n. The secret at x=0 is information-theoretically
// hidden from any m-1 shares.
//
// This mirrors the teacher's dealer-centric share generation
// (protocols/lss/keygen/keygen.go's per-party polynomial.Evaluate loop)
// rather than the teacher's interactive DKG round machinery: Coconut's
// original design assumes a dealer (or a DKG run once, out of scope here)
// produces the shares, not a multi-round broadcast protocol.
func Keygen(p *params.Parameters, n, m int, rng io.Reader) ([]SecretKeyShare, []VerifyKeyShare, error) {
	if m <= 0 || m > n {
		return nil, nil, fmt.Errorf("coconut: invalid threshold (%d,%d)", m, n)
	}
	q := p.Q()

	v, err := newPolynomial(m-1, curve.NewScalar(), rng)
	if err != nil {
		return nil, nil, fmt.Errorf("coconut: sampling v polynomial: %w", err)
	}
	// The constant term of v is the signing secret; replace the placeholder
	// zero with a freshly sampled one rather than special-casing it above.
	secret, err := curve.RandomScalar(rng)
	if err != nil {
		return nil, nil, fmt.Errorf("coconut: sampling signing secret: %w", err)
	}
	v.coefficients[0] = secret

	w := make([]*polynomial, q)
	for j := 0; j < q; j++ {
		wj, err := newPolynomial(m-1, curve.NewScalar(), rng)
		if err != nil {
			return nil, nil, fmt.Errorf("coconut: sampling w[%d] polynomial: %w", j, err)
		}
		secretJ, err := curve.RandomScalar(rng)
		if err != nil {
			return nil, nil, fmt.Errorf("coconut: sampling attribute secret %d: %w", j, err)
		}
		wj.coefficients[0] = secretJ
		w[j] = wj
	}

	sks := make([]SecretKeyShare, n)
	vks := make([]VerifyKeyShare, n)
	g2 := p.G2()
	for i := 1; i <= n; i++ {
		idx := party.Index(i)
		x := idx.Scalar()

		xi := v.evaluate(x)
		yi := make([]curve.Scalar, q)
		beta := make([]curve.G2, q)
		for j := 0; j < q; j++ {
			yi[j] = w[j].evaluate(x)
			beta[j] = g2.Mul(yi[j])
		}

		sks[i-1] = SecretKeyShare{Index: idx, X: xi, Y: yi}
		vks[i-1] = VerifyKeyShare{Index: idx, Alpha: g2.Mul(xi), Beta: beta}
	}
	return sks, vks, nil
}

// AggregateVerifyKey combines >= m verify key shares into the federation's
// aggregate verify key via Lagrange interpolation at x=0 (spec §4.3).
func AggregateVerifyKey(shares []VerifyKeyShare) (*VerifyKey, error) {
	if len(shares) == 0 {
		return nil, fmt.Errorf("coconut: cannot aggregate zero verify key shares")
	}
	indices := make(party.Indices, len(shares))
	for i, s := range shares {
		indices[i] = s.Index
	}
	lambda := Lagrange(indices)

	q := len(shares[0].Beta)
	alpha := curve.G2Identity()
	beta := make([]curve.G2, q)
	for i := range beta {
		beta[i] = curve.G2Identity()
	}
	for _, s := range shares {
		l := lambda[s.Index]
		alpha = alpha.Add(s.Alpha.Mul(l))
		for j := 0; j < q; j++ {
			beta[j] = beta[j].Add(s.Beta[j].Mul(l))
		}
	}
	return &VerifyKey{Alpha: alpha, Beta: beta}, nil
}
