package wire_test

import (
	"bytes"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/luxfi/coconut/pkg/wire"
)

func TestVarIntRoundTrip(t *testing.T) {
	cases := []uint64{0, 1, 0xfc, 0xfd, 0xffff, 0x10000, 0xffffffff, 0x100000000, 1<<64 - 1}
	for _, v := range cases {
		w := wire.NewWriter()
		w.PutVarInt(v)
		r := wire.NewReader(w.Bytes())
		got, err := r.VarInt()
		require.NoError(t, err)
		assert.Equal(t, v, got)
	}
}

func TestVarIntUsesMinimalWidth(t *testing.T) {
	widths := map[uint64]int{
		0xfc:        1,
		0xfd:        3,
		0xffff:      3,
		0x10000:     5,
		0xffffffff:  5,
		0x100000000: 9,
	}
	for v, want := range widths {
		w := wire.NewWriter()
		w.PutVarInt(v)
		assert.Len(t, w.Bytes(), want, "varint(%d)", v)
	}
}

func TestVarIntRejectsNonMinimalEncoding(t *testing.T) {
	// 0xfd prefix followed by a 2-byte payload that fits in a single byte.
	r := wire.NewReader([]byte{0xfd, 0x0a, 0x00})
	_, err := r.VarInt()
	assert.True(t, errors.Is(err, wire.ErrNonMinimalVarInt))

	// 0xfe prefix followed by a 4-byte payload that fits in 2 bytes.
	r = wire.NewReader([]byte{0xfe, 0xff, 0x00, 0x00, 0x00})
	_, err = r.VarInt()
	assert.True(t, errors.Is(err, wire.ErrNonMinimalVarInt))

	// 0xff prefix followed by an 8-byte payload that fits in 4 bytes.
	r = wire.NewReader([]byte{0xff, 0xff, 0xff, 0xff, 0xff, 0, 0, 0, 0})
	_, err = r.VarInt()
	assert.True(t, errors.Is(err, wire.ErrNonMinimalVarInt))
}

func TestBytesRoundTrip(t *testing.T) {
	w := wire.NewWriter()
	w.PutBytes([]byte("hello wire"))
	r := wire.NewReader(w.Bytes())
	got, err := r.Bytes()
	require.NoError(t, err)
	assert.True(t, bytes.Equal(got, []byte("hello wire")))
}

func TestFixedRoundTrip(t *testing.T) {
	w := wire.NewWriter()
	w.PutFixed([]byte{1, 2, 3, 4})
	r := wire.NewReader(w.Bytes())
	got, err := r.Fixed(4)
	require.NoError(t, err)
	assert.Equal(t, []byte{1, 2, 3, 4}, got)
}

func TestOptionRoundTrip(t *testing.T) {
	w := wire.NewWriter()
	w.PutOption(true, func() { w.PutUint8(42) })
	r := wire.NewReader(w.Bytes())
	present, err := r.Option()
	require.NoError(t, err)
	require.True(t, present)
	v, err := r.Uint8()
	require.NoError(t, err)
	assert.Equal(t, uint8(42), v)

	w2 := wire.NewWriter()
	w2.PutOption(false, func() { t.Fatal("encode must not run when absent") })
	r2 := wire.NewReader(w2.Bytes())
	present2, err := r2.Option()
	require.NoError(t, err)
	assert.False(t, present2)
}

func TestOptionRejectsInvalidTag(t *testing.T) {
	r := wire.NewReader([]byte{7})
	_, err := r.Option()
	assert.True(t, errors.Is(err, wire.ErrMalformedPacket))
}

func TestUint32AndUint64RoundTrip(t *testing.T) {
	w := wire.NewWriter()
	w.PutUint32(0xdeadbeef)
	w.PutUint64(0x0123456789abcdef)
	r := wire.NewReader(w.Bytes())
	v32, err := r.Uint32()
	require.NoError(t, err)
	assert.Equal(t, uint32(0xdeadbeef), v32)
	v64, err := r.Uint64()
	require.NoError(t, err)
	assert.Equal(t, uint64(0x0123456789abcdef), v64)
}

func TestReaderRejectsTruncatedInput(t *testing.T) {
	r := wire.NewReader([]byte{0x01, 0x02})
	_, err := r.Uint64()
	assert.True(t, errors.Is(err, wire.ErrMalformedPacket))
}
