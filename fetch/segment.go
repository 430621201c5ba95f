// Package fetch implements the segment fetcher (C6) and pipelined fetcher
// (C7): both are built purely atop face.Face's public surface, the way
// spec.md §2 requires ("C6 and C7 are built atop C3 only"). Grounded on
// the teacher's std/object client fetch helpers (client_cmd.go,
// client_announce.go), generalized to the exact state machines spec.md
// §4.6/§4.7 describe.
package fetch

import (
	"bytes"

	enc "github.com/ndncomm/ndn-js/encoding"
	"github.com/ndncomm/ndn-js/face"
	"github.com/ndncomm/ndn-js/ndn"
)

// VerifySegmentFunc validates one arriving segment's Data packet before it
// is accepted into the assembled object.
type VerifySegmentFunc func(data *enc.Data) bool

// SegmentFetcher downloads every segment of an object named under prefix
// whose version is not yet known (spec.md §4.6).
type SegmentFetcher struct {
	f             *face.Face
	prefix        enc.Name
	verifySegment VerifySegmentFunc
	onComplete    func(content []byte)
	onError       func(err error)

	template *enc.Interest
	version  enc.Component
	haveVer  bool
	parts    [][]byte
}

// Fetch starts a segment-fetcher run. template, if non-nil, supplies
// additional selectors (e.g. ForwardingHint) to carry on every Interest;
// its Name is ignored in favor of prefix.
func Fetch(
	f *face.Face,
	prefix enc.Name,
	template *enc.Interest,
	verifySegment VerifySegmentFunc,
	onComplete func(content []byte),
	onError func(err error),
) {
	sf := &SegmentFetcher{
		f:             f,
		prefix:        prefix,
		verifySegment: verifySegment,
		onComplete:    onComplete,
		onError:       onError,
		template:      template,
	}
	sf.start()
}

func (sf *SegmentFetcher) start() {
	discover := sf.baseTemplate()
	discover.SetName(sf.prefix)
	discover.SetChildSelector(1)
	discover.SetMustBeFresh(true)

	sf.expressAndHandle(discover)
}

func (sf *SegmentFetcher) baseTemplate() *enc.Interest {
	if sf.template != nil {
		return sf.template.Clone()
	}
	return &enc.Interest{}
}

func (sf *SegmentFetcher) expressAndHandle(interest *enc.Interest) {
	_, err := sf.f.ExpressInterest(interest, sf.onData, sf.onTimeout)
	if err != nil && sf.onError != nil {
		sf.onError(err)
	}
}

func (sf *SegmentFetcher) onTimeout(_ *enc.Interest) {
	if sf.onError != nil {
		sf.onError(ndn.ErrInterestTimeout)
	}
}

func (sf *SegmentFetcher) onData(_ *enc.Interest, data *enc.Data) {
	if sf.verifySegment != nil && !sf.verifySegment(data) {
		if sf.onError != nil {
			sf.onError(ndn.ErrSegmentVerificationFailed)
		}
		return
	}

	name := data.NameV
	lastComp := name.At(-1)
	received, ok := lastComp.SegmentVal()
	if !ok {
		if sf.onError != nil {
			sf.onError(ndn.ErrDataHasNoSegment)
		}
		return
	}

	if !sf.haveVer {
		sf.version = name.At(-2)
		sf.haveVer = true
	}

	expected := uint64(len(sf.parts))
	if received != expected {
		sf.requestSegment(expected)
		return
	}

	content := make([]byte, len(data.Content))
	copy(content, data.Content)
	sf.parts = append(sf.parts, content)

	if data.IsFinalSegment() {
		sf.finish()
		return
	}
	sf.requestSegment(expected + 1)
}

func (sf *SegmentFetcher) requestSegment(seg uint64) {
	next := sf.baseTemplate()
	next.SetName(sf.prefix.Append(sf.version, enc.NewSegmentComponent(seg)))
	next.SetMustBeFresh(false)
	sf.expressAndHandle(next)
}

func (sf *SegmentFetcher) finish() {
	total := 0
	for _, p := range sf.parts {
		total += len(p)
	}
	out := bytes.NewBuffer(make([]byte, 0, total))
	for _, p := range sf.parts {
		out.Write(p)
	}
	if sf.onComplete != nil {
		sf.onComplete(out.Bytes())
	}
}
