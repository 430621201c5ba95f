package encoding

// PeekElement reports the byte length of the complete top-level TLV
// element (Type+Length+Value) starting at buf[0], without copying. It
// returns ok=false if buf does not yet contain a full TL header (the
// caller should wait for more bytes), matching the element reader's
// framing contract (spec.md §4.2).
func PeekElement(buf []byte) (typ TLNum, total int, ok bool) {
	t, tSize, ok := PeekTLNum(buf)
	if !ok {
		return 0, 0, false
	}
	l, lSize, ok := PeekTLNum(buf[tSize:])
	if !ok {
		return 0, 0, false
	}
	return t, tSize + lSize + int(l), true
}
