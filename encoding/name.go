package encoding

import "strings"

// TypeName is the TLV type number of an encoded Name.
const TypeName TLNum = 0x07

// Name is an ordered sequence of opaque components (spec.md §3).
type Name []Component

// NameFromString parses a "/a/b/c" URI into a Name. A leading/trailing
// slash is optional; components are taken as generic unless "type=" is
// present.
func NameFromString(s string) (Name, error) {
	s = strings.Trim(s, "/")
	if s == "" {
		return Name{}, nil
	}
	parts := strings.Split(s, "/")
	ret := make(Name, len(parts))
	for i, p := range parts {
		typ := TypeGenericNameComponent
		val := p
		if idx := strings.Index(p, "="); idx >= 0 {
			if n, err := parseUintTLNum(p[:idx]); err == nil {
				typ = n
				val = p[idx+1:]
			}
		}
		decoded, err := unescape(val)
		if err != nil {
			return nil, err
		}
		ret[i] = Component{Typ: typ, Val: decoded}
	}
	return ret, nil
}

func parseUintTLNum(s string) (TLNum, error) {
	var n uint64
	for _, r := range s {
		if r < '0' || r > '9' {
			return 0, ErrFormat{"not a number"}
		}
		n = n*10 + uint64(r-'0')
	}
	return TLNum(n), nil
}

func unescape(s string) ([]byte, error) {
	out := make([]byte, 0, len(s))
	for i := 0; i < len(s); i++ {
		if s[i] == '%' && i+2 < len(s) {
			hi, lo := s[i+1], s[i+2]
			v, ok := hexPair(hi, lo)
			if !ok {
				return nil, ErrFormat{"bad percent-escape"}
			}
			out = append(out, v)
			i += 2
		} else {
			out = append(out, s[i])
		}
	}
	return out, nil
}

func hexPair(hi, lo byte) (byte, bool) {
	h, ok1 := hexDigit(hi)
	l, ok2 := hexDigit(lo)
	return h<<4 | l, ok1 && ok2
}

func hexDigit(b byte) (byte, bool) {
	switch {
	case '0' <= b && b <= '9':
		return b - '0', true
	case 'a' <= b && b <= 'f':
		return b - 'a' + 10, true
	case 'A' <= b && b <= 'F':
		return b - 'A' + 10, true
	}
	return 0, false
}

// String renders n in NDN URI syntax.
func (n Name) String() string {
	if len(n) == 0 {
		return "/"
	}
	sb := strings.Builder{}
	for _, c := range n {
		sb.WriteByte('/')
		sb.WriteString(c.String())
	}
	return sb.String()
}

// At returns the i-th component. Negative i counts from the end (-1 is the
// last component), per spec.md §3. Out-of-range indices return a zero
// Component.
func (n Name) At(i int) Component {
	if i < 0 {
		i += len(n)
	}
	if i < 0 || i >= len(n) {
		return Component{}
	}
	return n[i]
}

// Prefix returns the first k components of n. Negative k drops the last
// |k| components (spec.md §3). The result shares n's backing array.
func (n Name) Prefix(k int) Name {
	if k < 0 {
		k = len(n) + k
	}
	if k <= 0 {
		return Name{}
	}
	if k >= len(n) {
		return n
	}
	return n[:k]
}

// Append returns a new Name with the given components appended, without
// mutating n.
func (n Name) Append(comps ...Component) Name {
	ret := make(Name, len(n)+len(comps))
	copy(ret, n)
	copy(ret[len(n):], comps)
	return ret
}

// Clone returns a deep copy of n.
func (n Name) Clone() Name {
	ret := make(Name, len(n))
	for i, c := range n {
		ret[i] = c.Clone()
	}
	return ret
}

// Equal reports whether n and rhs have identical components in order.
func (n Name) Equal(rhs Name) bool {
	if len(n) != len(rhs) {
		return false
	}
	for i := range n {
		if !n[i].Equal(rhs[i]) {
			return false
		}
	}
	return true
}

// IsPrefix reports whether n is a component-wise prefix of rhs (n itself
// included, i.e. a name is always its own prefix).
func (n Name) IsPrefix(rhs Name) bool {
	if len(n) > len(rhs) {
		return false
	}
	for i := range n {
		if !n[i].Equal(rhs[i]) {
			return false
		}
	}
	return true
}

// Compare orders two names component-wise, shorter-is-less on a shared
// prefix (canonical NDN name ordering).
func (n Name) Compare(rhs Name) int {
	for i := 0; i < min(len(n), len(rhs)); i++ {
		if c := n[i].Compare(rhs[i]); c != 0 {
			return c
		}
	}
	switch {
	case len(n) < len(rhs):
		return -1
	case len(n) > len(rhs):
		return 1
	default:
		return 0
	}
}

func min(a, b int) int {
	if a < b {
		return a
	}
	return b
}

// EncodingLength returns the length of n's encoded components, excluding
// the outer Name TLV header.
func (n Name) EncodingLength() int {
	l := 0
	for _, c := range n {
		l += c.EncodingLength()
	}
	return l
}

// EncodeInto writes n's components (excluding the outer TL header) into buf.
func (n Name) EncodeInto(buf []byte) int {
	pos := 0
	for _, c := range n {
		pos += c.EncodeInto(buf[pos:])
	}
	return pos
}

// Bytes returns n's full TLV encoding, including the Name type/length header.
func (n Name) Bytes() []byte {
	inner := n.EncodingLength()
	buf := make([]byte, TypeName.EncodingLength()+TLNum(inner).EncodingLength()+inner)
	p := TypeName.EncodeInto(buf)
	p += TLNum(inner).EncodeInto(buf[p:])
	n.EncodeInto(buf[p:])
	return buf
}

// NameFromBytes parses a fully TLV-encoded Name (including its TL header).
func NameFromBytes(buf []byte) (Name, error) {
	typ, tSize, ok := PeekTLNum(buf)
	if !ok || typ != TypeName {
		return nil, ErrFormat{"not a Name TLV"}
	}
	length, lSize, ok := PeekTLNum(buf[tSize:])
	if !ok {
		return nil, ErrFormat{"truncated Name length"}
	}
	start := tSize + lSize
	end := start + int(length)
	if end > len(buf) {
		return nil, ErrFormat{"Name value runs past buffer"}
	}
	return componentsFromBytes(buf[start:end])
}

func componentsFromBytes(buf []byte) (Name, error) {
	ret := make(Name, 0, 8)
	for len(buf) > 0 {
		c, n, err := ReadComponent(buf)
		if err != nil {
			return nil, err
		}
		ret = append(ret, c)
		buf = buf[n:]
	}
	return ret, nil
}
