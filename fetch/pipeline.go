package fetch

import (
	"bytes"
	"sync"

	enc "github.com/ndncomm/ndn-js/encoding"
	"github.com/ndncomm/ndn-js/face"
	"github.com/ndncomm/ndn-js/fetch/congestion"
	"github.com/ndncomm/ndn-js/ndn"
)

const (
	maxWindow   = 32
	oooTableLen = 128
	maxRetrans  = 5
	fastRetransmitThreshold = 3
)

// PipelinedFetcher downloads every segment of an object whose name (up to
// the segment component) is already known, using a sliding window with
// fast retransmit (spec.md §4.7). Unlike SegmentFetcher it assumes the
// caller supplies the object's name prefix directly — no version
// discovery round trip.
type PipelinedFetcher struct {
	f        *face.Face
	name     enc.Name // object name, excluding the segment component
	template *enc.Interest

	onSegment  func(segment uint64, content []byte)
	onComplete func()
	onError    func(err error)

	mu            sync.Mutex
	sndUna        uint64
	sndNxt        uint64
	cwnd          congestion.CongestionWindow
	oooTable      [oooTableLen]bool
	oooCount      int
	retransCount  map[uint64]int
	finalSegment  uint64
	haveFinal     bool
	terminated    bool
	contentBuf    map[uint64][]byte

	Dups         int
	PktRecved    int
	TimedOut     int
	InterestSent int
	TotalBlocks  int
}

// NewPipelinedFetcher constructs a fetcher for the object named name, using
// cwnd as the congestion-window strategy (nil defaults to AIMD bounded by
// max_window=32, spec.md §4.7).
func NewPipelinedFetcher(
	f *face.Face,
	name enc.Name,
	template *enc.Interest,
	cwnd congestion.CongestionWindow,
	onSegment func(segment uint64, content []byte),
	onComplete func(),
	onError func(err error),
) *PipelinedFetcher {
	if cwnd == nil {
		cwnd = congestion.NewAIMDCongestionWindow(maxWindow)
	}
	return &PipelinedFetcher{
		f:            f,
		name:         name,
		template:     template,
		cwnd:         cwnd,
		onSegment:    onSegment,
		onComplete:   onComplete,
		onError:      onError,
		retransCount: make(map[uint64]int),
		contentBuf:   make(map[uint64][]byte),
	}
}

// Start fills the initial window, issuing Interests for segments 0 through
// cwnd.Size()-1 (spec.md §4.7).
func (p *PipelinedFetcher) Start() {
	p.mu.Lock()
	p.fillWindowLocked()
	p.mu.Unlock()
}

func (p *PipelinedFetcher) baseTemplate() *enc.Interest {
	if p.template != nil {
		return p.template.Clone()
	}
	return &enc.Interest{}
}

func (p *PipelinedFetcher) issueSegment(seg uint64) {
	interest := p.baseTemplate()
	interest.SetName(p.name.Append(enc.NewSegmentComponent(seg)))

	p.mu.Lock()
	p.InterestSent++
	p.mu.Unlock()

	_, err := p.f.ExpressInterest(interest,
		func(_ *enc.Interest, data *enc.Data) { p.onData(seg, data) },
		func(_ *enc.Interest) { p.onTimeout(seg) },
	)
	if err != nil && p.onError != nil {
		p.onError(err)
	}
}

// Snapshot returns (sndUna, sndNxt, sndWnd) for tests asserting the window
// invariant in spec.md §8.
func (p *PipelinedFetcher) Snapshot() (sndUna, sndNxt uint64, sndWnd int) {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.sndUna, p.sndNxt, p.cwnd.Size()
}

func (p *PipelinedFetcher) onData(segment uint64, data *enc.Data) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.terminated {
		return
	}
	p.PktRecved++

	if fb, ok := data.Meta.FinalBlockId.Get(); ok {
		if seg, ok2 := fb.SegmentVal(); ok2 {
			p.finalSegment = seg
			p.haveFinal = true
		}
	}

	content := make([]byte, len(data.Content))
	copy(content, data.Content)

	switch {
	case segment == p.sndUna:
		p.contentBuf[segment] = content
		p.advanceInOrder()
	case segment > p.sndUna && segment < p.sndNxt:
		p.contentBuf[segment] = content
		if !p.oooTable[segment%oooTableLen] {
			p.oooTable[segment%oooTableLen] = true
			p.oooCount++
			if p.oooCount == fastRetransmitThreshold {
				p.cwnd.HandleSignal(congestion.SignalFastRetransmit)
				go p.issueSegment(p.sndUna)
			}
		}
	default:
		p.Dups++
	}

	p.fillWindowLocked()
}

// advanceInOrder implements the in-order-arrival branch of spec.md §4.7:
// absorb segment == sndUna, then close any gaps already filled
// out-of-order, growing the window by one per advance. Caller holds p.mu.
func (p *PipelinedFetcher) advanceInOrder() {
	p.deliverLocked(p.sndUna)
	p.sndUna++
	p.TotalBlocks++
	p.cwnd.IncreaseWindow()
	p.oooCount = 0

	for p.oooTable[p.sndUna%oooTableLen] {
		p.oooTable[p.sndUna%oooTableLen] = false
		p.deliverLocked(p.sndUna)
		p.sndUna++
		p.TotalBlocks++
		p.cwnd.IncreaseWindow()
	}

	if p.haveFinal && p.sndUna == p.finalSegment+1 {
		p.terminated = true
		if p.onComplete != nil {
			p.onComplete()
		}
	}
}

// deliverLocked hands segment's content to onSegment, in the strictly
// increasing order advanceInOrder calls it in, preserving the
// byte-concatenation invariant spec.md §8 requires. Caller holds p.mu; the
// callback is expected to be cheap (buffer append, not a blocking call).
func (p *PipelinedFetcher) deliverLocked(segment uint64) {
	content, ok := p.contentBuf[segment]
	delete(p.contentBuf, segment)
	if ok && p.onSegment != nil {
		p.onSegment(segment, content)
	}
}

// fillWindowLocked issues new Interests while room remains in the window.
// Caller holds p.mu.
func (p *PipelinedFetcher) fillWindowLocked() {
	if p.terminated {
		return
	}
	wnd := uint64(p.cwnd.Size())
	for p.sndNxt-p.sndUna < wnd {
		if p.haveFinal && p.sndNxt > p.finalSegment {
			break
		}
		seg := p.sndNxt
		p.sndNxt++
		go p.issueSegment(seg)
	}
}

func (p *PipelinedFetcher) onTimeout(segment uint64) {
	p.mu.Lock()
	if p.terminated {
		p.mu.Unlock()
		return
	}
	p.TimedOut++
	p.cwnd.HandleSignal(congestion.SignalTimeout)

	p.retransCount[segment]++
	retries := p.retransCount[segment]
	p.mu.Unlock()

	if retries > maxRetrans {
		p.mu.Lock()
		p.terminated = true
		p.mu.Unlock()
		if p.onError != nil {
			p.onError(ndn.ErrInterestTimeout)
		}
		return
	}

	p.issueSegment(segment)
}

// ConcatComplete is a convenience onSegment collector that assembles an
// in-memory buffer in delivery order, for callers that want the
// SegmentFetcher-style single-blob result instead of a streaming callback.
type ConcatComplete struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (c *ConcatComplete) OnSegment(_ uint64, content []byte) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.buf.Write(content)
}

func (c *ConcatComplete) Bytes() []byte {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]byte(nil), c.buf.Bytes()...)
}
