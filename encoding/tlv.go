package encoding

import (
	"encoding/binary"
	"io"
)

// TLNum is a TLV Type or Length number, encoded using NDN's variable-length
// scheme (1/3/5/9 bytes), grounded on the teacher's encoding.TLNum.
type TLNum uint64

// EncodingLength returns the number of bytes v occupies on the wire.
func (v TLNum) EncodingLength() int {
	switch x := uint64(v); {
	case x <= 0xfc:
		return 1
	case x <= 0xffff:
		return 3
	case x <= 0xffffffff:
		return 5
	default:
		return 9
	}
}

// EncodeInto writes v's wire encoding into buf, returning the byte count.
func (v TLNum) EncodeInto(buf []byte) int {
	switch x := uint64(v); {
	case x <= 0xfc:
		buf[0] = byte(x)
		return 1
	case x <= 0xffff:
		buf[0] = 0xfd
		binary.BigEndian.PutUint16(buf[1:], uint16(x))
		return 3
	case x <= 0xffffffff:
		buf[0] = 0xfe
		binary.BigEndian.PutUint32(buf[1:], uint32(x))
		return 5
	default:
		buf[0] = 0xff
		binary.BigEndian.PutUint64(buf[1:], uint64(x))
		return 9
	}
}

// PeekTLNum reports the TLNum encoded at the start of buf and how many
// bytes it occupies, without requiring the full value to be present; it
// returns ok=false if buf doesn't yet contain the full number (used by the
// element reader to detect a partial header without over-reading).
func PeekTLNum(buf []byte) (val TLNum, size int, ok bool) {
	if len(buf) == 0 {
		return 0, 0, false
	}
	switch x := buf[0]; {
	case x <= 0xfc:
		return TLNum(x), 1, true
	case x == 0xfd:
		size = 3
	case x == 0xfe:
		size = 5
	default:
		size = 9
	}
	if len(buf) < size {
		return 0, 0, false
	}
	val = 0
	for i := 1; i < size; i++ {
		val = val<<8 | TLNum(buf[i])
	}
	return val, size, true
}

// ReadTLNum reads a TLNum from r, matching the teacher's WireView.ReadTLNum.
func ReadTLNum(r io.ByteReader) (TLNum, error) {
	x, err := r.ReadByte()
	if err != nil {
		return 0, err
	}
	l := 0
	switch {
	case x <= 0xfc:
		return TLNum(x), nil
	case x == 0xfd:
		l = 2
	case x == 0xfe:
		l = 4
	default:
		l = 8
	}
	val := TLNum(0)
	for i := 0; i < l; i++ {
		b, err := r.ReadByte()
		if err != nil {
			if err == io.EOF {
				err = io.ErrUnexpectedEOF
			}
			return 0, err
		}
		val = val<<8 | TLNum(b)
	}
	return val, nil
}

// Nat is a TLV natural number (1/2/4/8 bytes, no type tag), used to encode
// integer component values (segment numbers, StatusCode, ...).
type Nat uint64

// EncodingLength returns the minimal byte length needed to encode v.
func (v Nat) EncodingLength() int {
	switch x := uint64(v); {
	case x <= 0xff:
		return 1
	case x <= 0xffff:
		return 2
	case x <= 0xffffffff:
		return 4
	default:
		return 8
	}
}

// Bytes returns v's minimal big-endian encoding.
func (v Nat) Bytes() []byte {
	buf := make([]byte, v.EncodingLength())
	switch x := uint64(v); {
	case x <= 0xff:
		buf[0] = byte(x)
	case x <= 0xffff:
		binary.BigEndian.PutUint16(buf, uint16(x))
	case x <= 0xffffffff:
		binary.BigEndian.PutUint32(buf, uint32(x))
	default:
		binary.BigEndian.PutUint64(buf, uint64(x))
	}
	return buf
}

// ParseNat decodes a minimal big-endian natural number of length 1, 2, 4 or 8.
func ParseNat(buf []byte) (Nat, error) {
	switch len(buf) {
	case 1:
		return Nat(buf[0]), nil
	case 2:
		return Nat(binary.BigEndian.Uint16(buf)), nil
	case 4:
		return Nat(binary.BigEndian.Uint32(buf)), nil
	case 8:
		return Nat(binary.BigEndian.Uint64(buf)), nil
	default:
		return 0, ErrFormat{"natural number length is not 1, 2, 4 or 8"}
	}
}

// MaxPacketSize is the NDN top-level TLV element ceiling (spec.md §4.2, §6).
const MaxPacketSize = 8800
