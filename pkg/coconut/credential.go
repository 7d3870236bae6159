package coconut

import (
	"fmt"
	"io"

	"github.com/luxfi/coconut/pkg/curve"
	"github.com/luxfi/coconut/pkg/params"
)

// Credential is a randomised, re-provable form of a Signature suitable for
// unlinkable spending (spec §3: "Credential { kappa: G2, nu: G1,
// blind_commitish: G1, blind_sigma: G1 }").
type Credential struct {
	Kappa          curve.G2
	Nu             curve.G1
	BlindCommitish curve.G1
	BlindSigma     curve.G1
}

// CredentialOpening holds the two exponents BuildCredential sampled: the
// re-randomisation exponent o baked into kappa and nu, which the
// credential-soundness proof demonstrates knowledge of (spec §4.3/§4.4), and
// the blinding exponent r' applied to the signature itself, which no proof
// in this module witnesses.
type CredentialOpening struct {
	O      curve.Scalar
	RPrime curve.Scalar
}

// BuildCredential re-randomises sig into a fresh, unlinkable Credential
// bound to attrs (spec §4.3: "Credential build"). attrs is exactly the set
// of attributes the signature was originally issued over, and every one of
// them is folded into kappa -- the caller reveals none of them by doing
// this. Such a credential verifies with no public attributes; passing one
// of attrs to Verify as well would add its beta term to kappa a second time.
func BuildCredential(p *params.Parameters, vk *VerifyKey, sig Signature, attrs []Attribute, rng io.Reader) (*Credential, CredentialOpening, error) {
	rPrime, err := curve.RandomScalar(rng)
	if err != nil {
		return nil, CredentialOpening{}, fmt.Errorf("coconut: sampling r': %w", err)
	}
	o, err := curve.RandomScalar(rng)
	if err != nil {
		return nil, CredentialOpening{}, fmt.Errorf("coconut: sampling o: %w", err)
	}

	blindCommitish := sig.Commitish.Mul(rPrime)
	blindSigma := sig.Sigma.Mul(rPrime)

	kappa := p.G2().Mul(o).Add(vk.Alpha)
	for _, attr := range attrs {
		if int(attr.Index) >= len(vk.Beta) {
			return nil, CredentialOpening{}, fmt.Errorf("coconut: credential: attribute index %d out of range", attr.Index)
		}
		kappa = kappa.Add(vk.Beta[attr.Index].Mul(attr.Value))
	}

	nu := blindCommitish.Mul(o)

	cred := &Credential{Kappa: kappa, Nu: nu, BlindCommitish: blindCommitish, BlindSigma: blindSigma}
	return cred, CredentialOpening{O: o, RPrime: rPrime}, nil
}

// Verify checks the Coconut pairing equation
//
//	e(blind_commitish, kappa + sum(beta[pubidx]*pubattr)) == e(blind_sigma + nu, g2)
//
// for any public attributes revealed alongside the credential (spec §3
// invariant 4, §4.3). Every spend in this protocol calls Verify with an
// empty public-attribute set, since both serial and amount stay hidden; the
// parameter exists because the scheme is otherwise general-purpose.
func Verify(p *params.Parameters, vk *VerifyKey, cred *Credential, public []Attribute) (bool, error) {
	kappa := cred.Kappa
	for _, attr := range public {
		if int(attr.Index) >= len(vk.Beta) {
			return false, fmt.Errorf("coconut: credential verify: attribute index %d out of range", attr.Index)
		}
		kappa = kappa.Add(vk.Beta[attr.Index].Mul(attr.Value))
	}

	lhs := cred.BlindSigma.Add(cred.Nu)
	// e(blind_commitish, kappa) == e(lhs, g2)
	//   <=> e(blind_commitish, kappa) * e(-lhs, g2) == 1
	return curve.PairingCheck(
		[]curve.G1{cred.BlindCommitish, lhs.Neg()},
		[]curve.G2{kappa, p.G2()},
	)
}
