package encoding

import (
	"bytes"
	"strconv"
	"strings"
)

// Name component type numbers (NDN Packet Format v0.3, §6 Name).
const (
	TypeInvalidComponent                TLNum = 0x00
	TypeImplicitSha256DigestComponent   TLNum = 0x01
	TypeParametersSha256DigestComponent TLNum = 0x02
	TypeGenericNameComponent            TLNum = 0x08
	TypeKeywordNameComponent            TLNum = 0x20
)

// segmentMarker is the NDN Name Convention rev1 marker byte for a segment
// number component (spec.md §3): a segment-number component is a generic
// component whose value is the single byte 0x00 followed by the number in
// the 1, 2, 4 or 8-byte big-endian form of Nat.Bytes. This is the ndn-js
// marker convention the spec names
// explicitly; it deliberately differs from the newer typed-component
// convention (TypeSegmentNameComponent=0x32) used elsewhere in the NDN
// ecosystem — see SPEC_FULL.md §5.
const segmentMarker = 0x00

type Component struct {
	Typ TLNum
	Val []byte
}

// NewGenericComponent builds a generic component from a string.
func NewGenericComponent(s string) Component {
	return Component{Typ: TypeGenericNameComponent, Val: []byte(s)}
}

// NewGenericBytesComponent builds a generic component from raw bytes.
func NewGenericBytesComponent(v []byte) Component {
	return Component{Typ: TypeGenericNameComponent, Val: v}
}

// NewSegmentComponent builds a segment-number component per spec.md §3:
// marker byte 0x00 followed by Nat(seg).Bytes(), the 1, 2, 4 or 8-byte
// big-endian form. Numbers that fit in 3, 5, 6 or 7 bytes therefore carry
// leading zero bytes. seg == 0 encodes as the single byte 0x00.
func NewSegmentComponent(seg uint64) Component {
	if seg == 0 {
		return Component{Typ: TypeGenericNameComponent, Val: []byte{segmentMarker}}
	}
	numBytes := Nat(seg).Bytes()
	val := make([]byte, 1+len(numBytes))
	val[0] = segmentMarker
	copy(val[1:], numBytes)
	return Component{Typ: TypeGenericNameComponent, Val: val}
}

// IsSegment reports whether c is a well-formed segment-number component.
func (c Component) IsSegment() bool {
	_, ok := c.SegmentVal()
	return ok
}

// SegmentVal decodes a segment-number component per spec.md §3, returning
// ok=false if c is not a marker-prefixed segment component (wrong marker
// byte, wrong type, or empty value). The bytes after the marker must be
// 1, 2, 4 or 8 long; a 3, 5, 6 or 7-byte number also yields ok=false.
func (c Component) SegmentVal() (seg uint64, ok bool) {
	if c.Typ != TypeGenericNameComponent || len(c.Val) == 0 || c.Val[0] != segmentMarker {
		return 0, false
	}
	if len(c.Val) == 1 {
		return 0, true
	}
	n, err := ParseNat(c.Val[1:])
	if err != nil {
		return 0, false
	}
	return uint64(n), true
}

// IsGeneric reports whether c is a generic component with the given text.
func (c Component) IsGeneric(text string) bool {
	return c.Typ == TypeGenericNameComponent && string(c.Val) == text
}

// Equal reports whether two components are identical in type and value.
func (c Component) Equal(rhs Component) bool {
	return c.Typ == rhs.Typ && bytes.Equal(c.Val, rhs.Val)
}

// Compare orders components first by type, then by value length, then
// lexicographically by value — the canonical NDN component ordering.
func (c Component) Compare(rhs Component) int {
	if c.Typ != rhs.Typ {
		if c.Typ < rhs.Typ {
			return -1
		}
		return 1
	}
	if len(c.Val) != len(rhs.Val) {
		if len(c.Val) < len(rhs.Val) {
			return -1
		}
		return 1
	}
	return bytes.Compare(c.Val, rhs.Val)
}

// Clone returns a deep copy of c.
func (c Component) Clone() Component {
	v := make([]byte, len(c.Val))
	copy(v, c.Val)
	return Component{Typ: c.Typ, Val: v}
}

// EncodingLength returns the TLV-encoded byte length of c.
func (c Component) EncodingLength() int {
	return c.Typ.EncodingLength() + TLNum(len(c.Val)).EncodingLength() + len(c.Val)
}

// EncodeInto writes c's TLV encoding into buf, returning the byte count.
func (c Component) EncodeInto(buf []byte) int {
	p := c.Typ.EncodeInto(buf)
	p += TLNum(len(c.Val)).EncodeInto(buf[p:])
	copy(buf[p:], c.Val)
	return p + len(c.Val)
}

// Bytes returns c's TLV encoding.
func (c Component) Bytes() []byte {
	buf := make([]byte, c.EncodingLength())
	c.EncodeInto(buf)
	return buf
}

// String renders c in NDN URI component syntax: "type=value" for non-generic
// types, or a percent-escaped value for generic ones.
func (c Component) String() string {
	sb := strings.Builder{}
	if c.Typ != TypeGenericNameComponent {
		sb.WriteString(strconv.FormatUint(uint64(c.Typ), 10))
		sb.WriteRune('=')
	}
	for _, b := range c.Val {
		if isUnreserved(b) {
			sb.WriteByte(b)
		} else {
			sb.WriteString("%")
			const hex = "0123456789ABCDEF"
			sb.WriteByte(hex[b>>4])
			sb.WriteByte(hex[b&0xf])
		}
	}
	return sb.String()
}

func isUnreserved(b byte) bool {
	switch {
	case 'a' <= b && b <= 'z', 'A' <= b && b <= 'Z', '0' <= b && b <= '9':
		return true
	case b == '-' || b == '.' || b == '_' || b == '~':
		return true
	}
	return false
}

// ReadComponent decodes one TLV component from the front of buf, returning
// the component and the number of bytes consumed.
func ReadComponent(buf []byte) (c Component, consumed int, err error) {
	typ, tSize, ok := PeekTLNum(buf)
	if !ok {
		return Component{}, 0, ErrFormat{"truncated component type"}
	}
	length, lSize, ok := PeekTLNum(buf[tSize:])
	if !ok {
		return Component{}, 0, ErrFormat{"truncated component length"}
	}
	start := tSize + lSize
	end := start + int(length)
	if end > len(buf) {
		return Component{}, 0, ErrFormat{"component value runs past buffer"}
	}
	val := make([]byte, length)
	copy(val, buf[start:end])
	return Component{Typ: typ, Val: val}, end, nil
}
