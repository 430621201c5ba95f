package face

import (
	"io"

	enc "github.com/ndncomm/ndn-js/encoding"
	"github.com/ndncomm/ndn-js/ndn"
)

// ElementReader reassembles a raw byte stream into complete top-level TLV
// elements (C2). It holds at most one partial element's bytes at a time
// between calls to Feed, matching spec.md §4.2. The teacher's equivalent
// (std/utils/io.ReadTlvStream) was not present in the retrieval pack, so
// this is rebuilt directly from spec.md's framing contract and from
// PeekElement, its sibling in package encoding.
type ElementReader struct {
	buf []byte
}

// NewElementReader constructs an empty reader.
func NewElementReader() *ElementReader {
	return &ElementReader{}
}

// Feed appends chunk to the reader's internal buffer and invokes onElement
// once per complete element found, in order. onElement's slice is only
// valid until the next call to Feed; callers that need to retain it must
// copy. Feed returns ndn.ErrMalformedElement if a TL header is malformed or
// an element's total size exceeds encoding.MaxPacketSize.
func (r *ElementReader) Feed(chunk []byte, onElement func(frame []byte)) error {
	r.buf = append(r.buf, chunk...)

	for {
		if len(r.buf) == 0 {
			return nil
		}

		typ, total, ok := enc.PeekElement(r.buf)
		if !ok {
			// Not enough bytes yet for a full TL header. A header
			// can be at most 18 bytes (9 for type + 9 for length);
			// anything longer than that without resolving is bad.
			if len(r.buf) > 18 {
				return ndn.ErrMalformedElement
			}
			return nil
		}
		_ = typ

		if total > enc.MaxPacketSize {
			return ndn.ErrMalformedElement
		}
		if len(r.buf) < total {
			return nil
		}

		frame := r.buf[:total]
		onElement(frame)
		r.buf = r.buf[total:]
	}
}

// readLoop drives an io.Reader through an ElementReader until it returns an
// error or onFrame asks it to stop, grounded on the teacher's
// StreamFace.receive goroutine loop (std/engine/face/stream_face.go).
func readLoop(r io.Reader, onFrame func(frame []byte) bool) error {
	reader := NewElementReader()
	chunk := make([]byte, 65536)
	keepGoing := true

	for keepGoing {
		n, err := r.Read(chunk)
		if n > 0 {
			feedErr := reader.Feed(chunk[:n], func(frame []byte) {
				if !keepGoing {
					return
				}
				cp := make([]byte, len(frame))
				copy(cp, frame)
				keepGoing = onFrame(cp)
			})
			if feedErr != nil {
				return feedErr
			}
		}
		if err != nil {
			if err == io.EOF {
				return nil
			}
			return err
		}
	}
	return nil
}
