// Package wire implements the binary codec every on-the-wire message in
// this protocol is built from (spec §6: "Binary Codec"): little-endian
// fixed-width integers, a Bitcoin-style variable-length integer, and
// length-prefixed byte strings. The MarshalBinary / UnmarshalBinary methods
// of pkg/coconut and pkg/schema are built out of a Writer/Reader pair from
// this package so that those wire formats share one encoding convention;
// pkg/curve's types encode their fixed-size bytes directly.
package wire

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
)

// ErrNonMinimalVarInt is returned when a decoded VarInt used more bytes than
// its value required (spec §7: "NonMinimalVarInt").
var ErrNonMinimalVarInt = errors.New("wire: non-minimal varint")

// ErrMalformedPacket is returned when a length prefix or option tag does
// not describe a well-formed message (spec §7:
// "MalformedPacket").
var ErrMalformedPacket = errors.New("wire: malformed packet")

// Writer accumulates a message's encoding. The zero value is ready to use.
type Writer struct {
	buf bytes.Buffer
}

// NewWriter returns an empty Writer.
func NewWriter() *Writer { return &Writer{} }

// Bytes returns the accumulated encoding.
func (w *Writer) Bytes() []byte { return w.buf.Bytes() }

// PutUint8 writes a single byte.
func (w *Writer) PutUint8(v uint8) { w.buf.WriteByte(v) }

// PutUint32 writes a 4-byte little-endian integer.
func (w *Writer) PutUint32(v uint32) {
	var b [4]byte
	binary.LittleEndian.PutUint32(b[:], v)
	w.buf.Write(b[:])
}

// PutUint64 writes an 8-byte little-endian integer.
func (w *Writer) PutUint64(v uint64) {
	var b [8]byte
	binary.LittleEndian.PutUint64(b[:], v)
	w.buf.Write(b[:])
}

// PutVarInt writes v using the minimal Bitcoin-style varint encoding (spec
// §6: "VarInt"): values below 0xfd encode as a single byte; 0xfd/0xfe/0xff
// prefix a 2/4/8-byte little-endian payload, chosen as the narrowest form
// that fits v.
func (w *Writer) PutVarInt(v uint64) {
	switch {
	case v < 0xfd:
		w.buf.WriteByte(byte(v))
	case v <= 0xffff:
		w.buf.WriteByte(0xfd)
		var b [2]byte
		binary.LittleEndian.PutUint16(b[:], uint16(v))
		w.buf.Write(b[:])
	case v <= 0xffffffff:
		w.buf.WriteByte(0xfe)
		var b [4]byte
		binary.LittleEndian.PutUint32(b[:], uint32(v))
		w.buf.Write(b[:])
	default:
		w.buf.WriteByte(0xff)
		var b [8]byte
		binary.LittleEndian.PutUint64(b[:], v)
		w.buf.Write(b[:])
	}
}

// PutBytes writes a VarInt length prefix followed by b itself.
func (w *Writer) PutBytes(b []byte) {
	w.PutVarInt(uint64(len(b)))
	w.buf.Write(b)
}

// PutFixed writes b verbatim, with no length prefix -- for fields whose
// size is already fixed by the type (Fr, G1, G2).
func (w *Writer) PutFixed(b []byte) { w.buf.Write(b) }

// PutOption writes the Option<T> tag byte (spec §6: "Option<T>"), then (if
// present) the caller-supplied encoding of the value.
func (w *Writer) PutOption(present bool, encode func()) {
	if !present {
		w.buf.WriteByte(0)
		return
	}
	w.buf.WriteByte(1)
	encode()
}

// Reader consumes a message's encoding in order.
type Reader struct {
	r io.ByteReader
	io.Reader
}

// NewReader wraps b for sequential decoding.
func NewReader(b []byte) *Reader {
	br := bytes.NewReader(b)
	return &Reader{r: br, Reader: br}
}

// Uint8 reads a single byte.
func (r *Reader) Uint8() (uint8, error) {
	b, err := r.r.ReadByte()
	if err != nil {
		return 0, fmt.Errorf("%w: %v", ErrMalformedPacket, err)
	}
	return b, nil
}

// Uint32 reads a 4-byte little-endian integer.
func (r *Reader) Uint32() (uint32, error) {
	var b [4]byte
	if _, err := io.ReadFull(r.Reader, b[:]); err != nil {
		return 0, fmt.Errorf("%w: %v", ErrMalformedPacket, err)
	}
	return binary.LittleEndian.Uint32(b[:]), nil
}

// Uint64 reads an 8-byte little-endian integer.
func (r *Reader) Uint64() (uint64, error) {
	var b [8]byte
	if _, err := io.ReadFull(r.Reader, b[:]); err != nil {
		return 0, fmt.Errorf("%w: %v", ErrMalformedPacket, err)
	}
	return binary.LittleEndian.Uint64(b[:]), nil
}

// VarInt reads a Bitcoin-style varint, rejecting any encoding wider than the
// value strictly requires (spec §7: "NonMinimalVarInt").
func (r *Reader) VarInt() (uint64, error) {
	first, err := r.Uint8()
	if err != nil {
		return 0, err
	}
	switch first {
	case 0xfd:
		var b [2]byte
		if _, err := io.ReadFull(r.Reader, b[:]); err != nil {
			return 0, fmt.Errorf("%w: %v", ErrMalformedPacket, err)
		}
		v := uint64(binary.LittleEndian.Uint16(b[:]))
		if v < 0xfd {
			return 0, ErrNonMinimalVarInt
		}
		return v, nil
	case 0xfe:
		v, err := r.Uint32()
		if err != nil {
			return 0, err
		}
		if uint64(v) <= 0xffff {
			return 0, ErrNonMinimalVarInt
		}
		return uint64(v), nil
	case 0xff:
		v, err := r.Uint64()
		if err != nil {
			return 0, err
		}
		if v <= 0xffffffff {
			return 0, ErrNonMinimalVarInt
		}
		return v, nil
	default:
		return uint64(first), nil
	}
}

// Bytes reads a VarInt-prefixed byte string.
func (r *Reader) Bytes() ([]byte, error) {
	n, err := r.VarInt()
	if err != nil {
		return nil, err
	}
	b := make([]byte, n)
	if _, err := io.ReadFull(r.Reader, b); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedPacket, err)
	}
	return b, nil
}

// Fixed reads exactly n bytes, with no length prefix.
func (r *Reader) Fixed(n int) ([]byte, error) {
	b := make([]byte, n)
	if _, err := io.ReadFull(r.Reader, b); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedPacket, err)
	}
	return b, nil
}

// Option reads the Option<T> tag byte and reports whether a value follows;
// the caller is responsible for decoding it when present is true.
func (r *Reader) Option() (present bool, err error) {
	tag, err := r.Uint8()
	if err != nil {
		return false, err
	}
	switch tag {
	case 0:
		return false, nil
	case 1:
		return true, nil
	default:
		return false, fmt.Errorf("%w: option tag %d", ErrMalformedPacket, tag)
	}
}
