package curve_test

import (
	"bytes"
	"crypto/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/luxfi/coconut/pkg/curve"
)

func TestScalarArithmetic(t *testing.T) {
	a, err := curve.RandomScalar(rand.Reader)
	require.NoError(t, err)
	b, err := curve.RandomScalar(rand.Reader)
	require.NoError(t, err)

	sum := a.Add(b)
	assert.True(t, sum.Sub(b).Equal(a))

	product := a.Mul(b)
	assert.True(t, product.Mul(b.Invert()).Equal(a))

	neg := a.Neg()
	assert.True(t, a.Add(neg).IsZero())
}

func TestScalarRoundTrip(t *testing.T) {
	s, err := curve.RandomScalar(rand.Reader)
	require.NoError(t, err)

	raw, err := s.MarshalBinary()
	require.NoError(t, err)

	var decoded curve.Scalar
	require.NoError(t, decoded.UnmarshalBinary(raw))
	assert.True(t, s.Equal(decoded))
}

func TestScalarFromUint64(t *testing.T) {
	s := curve.ScalarFromUint64(42)
	assert.False(t, s.IsZero())
	assert.True(t, s.Equal(curve.ScalarFromUint64(42)))
	assert.False(t, s.Equal(curve.ScalarFromUint64(43)))
}

func TestG1RoundTrip(t *testing.T) {
	s, err := curve.RandomScalar(rand.Reader)
	require.NoError(t, err)
	p := curve.G1Generator().Mul(s)

	raw, err := p.MarshalBinary()
	require.NoError(t, err)

	var decoded curve.G1
	require.NoError(t, decoded.UnmarshalBinary(raw))
	assert.True(t, p.Equal(decoded))
}

func TestG1Homomorphism(t *testing.T) {
	a, err := curve.RandomScalar(rand.Reader)
	require.NoError(t, err)
	b, err := curve.RandomScalar(rand.Reader)
	require.NoError(t, err)

	lhs := curve.G1Generator().Mul(a.Add(b))
	rhs := curve.G1Generator().Mul(a).Add(curve.G1Generator().Mul(b))
	assert.True(t, lhs.Equal(rhs))
}

func TestPairingCheck(t *testing.T) {
	a, err := curve.RandomScalar(rand.Reader)
	require.NoError(t, err)
	b, err := curve.RandomScalar(rand.Reader)
	require.NoError(t, err)

	x := curve.G1Generator().Mul(a)
	y := curve.G2Generator().Mul(b)
	z := curve.G1Generator().Mul(a.Mul(b))

	// e(a*g1, b*g2) == e(ab*g1, g2)
	ok, err := curve.PairingCheck([]curve.G1{x, z.Neg()}, []curve.G2{y, curve.G2Generator()})
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestHasherDeterministic(t *testing.T) {
	build := func() curve.Scalar {
		h := curve.NewHasher()
		h.AbsorbUint32(7)
		h.AbsorbScalar(curve.ScalarFromUint64(11))
		h.AbsorbG1(curve.G1Generator())
		h.AbsorbG2(curve.G2Generator())
		return h.Finish()
	}
	assert.True(t, build().Equal(build()))
}

func TestHasherDiffersOnOrder(t *testing.T) {
	h1 := curve.NewHasher()
	h1.AbsorbScalar(curve.ScalarFromUint64(1))
	h1.AbsorbScalar(curve.ScalarFromUint64(2))

	h2 := curve.NewHasher()
	h2.AbsorbScalar(curve.ScalarFromUint64(2))
	h2.AbsorbScalar(curve.ScalarFromUint64(1))

	assert.False(t, h1.Finish().Equal(h2.Finish()))
}

func TestAbsorbHashStitchesIntoGlobalChallenge(t *testing.T) {
	inner := curve.NewHasher()
	inner.AbsorbG1(curve.G1Generator())
	digest := inner.Hash()

	outer1 := curve.NewHasher().AbsorbHash(digest).Finish()
	outer2 := curve.NewHasher().AbsorbHash(digest).Finish()
	assert.True(t, outer1.Equal(outer2))
}

func TestHashToG1Deterministic(t *testing.T) {
	p1, err := curve.HashToG1([]byte("dst"), []byte("message"))
	require.NoError(t, err)
	p2, err := curve.HashToG1([]byte("dst"), []byte("message"))
	require.NoError(t, err)
	assert.True(t, p1.Equal(p2))

	p3, err := curve.HashToG1([]byte("dst"), []byte("other message"))
	require.NoError(t, err)
	assert.False(t, p1.Equal(p3))
}

func TestScalarBytesAreFixedWidth(t *testing.T) {
	s, err := curve.RandomScalar(rand.Reader)
	require.NoError(t, err)
	assert.Len(t, s.Bytes(), 32)
	assert.False(t, bytes.Equal(s.Bytes(), make([]byte, 32)))
}
