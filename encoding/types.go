// Package encoding provides the Name/Component data model spec.md §3
// requires plus the minimal TLV primitives needed to frame and build
// Interest, Data, and NFD control packets. The full NDN TLV schema
// (signature blocks, every MetaInfo field, codegen'd struct marshaling) is
// out of scope per spec.md §1 — this package implements exactly the wire
// surface the Face, command-Interest generator, registrar, and fetchers
// touch, grounded on the teacher's std/encoding primitives.go/component.go.
package encoding

// Buffer is a contiguous byte slice.
type Buffer []byte

// Wire is a possibly-fragmented packet: a list of buffers that, joined in
// order, form the encoded bytes.
type Wire []Buffer

// Join concatenates a Wire into a single contiguous buffer.
func (w Wire) Join() []byte {
	switch len(w) {
	case 0:
		return []byte{}
	case 1:
		return w[0]
	}
	n := 0
	for _, v := range w {
		n += len(v)
	}
	b := make([]byte, n)
	pos := 0
	for _, v := range w {
		pos += copy(b[pos:], v)
	}
	return b
}

// Length returns the total byte length of a Wire.
func (w Wire) Length() int {
	n := 0
	for _, v := range w {
		n += len(v)
	}
	return n
}

// ErrFormat is returned when bytes cannot be parsed as the requested type.
type ErrFormat struct{ Msg string }

func (e ErrFormat) Error() string { return e.Msg }
