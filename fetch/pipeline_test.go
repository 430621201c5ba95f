package fetch_test

import (
	"sync"
	"testing"
	"time"

	enc "github.com/ndncomm/ndn-js/encoding"
	"github.com/ndncomm/ndn-js/fetch"
	"github.com/ndncomm/ndn-js/fetch/congestion"
	"github.com/stretchr/testify/require"
)

func TestPipelinedFetcherReassemblesOutOfOrderSegments(t *testing.T) {
	f, transport := newFetchFace(t)
	name, _ := enc.NameFromString("/obj/v1")

	var delivered []uint64
	var mu sync.Mutex
	done := make(chan struct{})

	pf := fetch.NewPipelinedFetcher(f, name, nil, congestion.NewFixedCongestionWindow(4),
		func(seg uint64, _ []byte) {
			mu.Lock()
			delivered = append(delivered, seg)
			mu.Unlock()
		},
		func() { close(done) },
		func(err error) { t.Fatalf("unexpected error: %v", err) },
	)
	pf.Start()

	segData := func(seg uint64, final uint64) *enc.Data {
		n := name.Append(enc.NewSegmentComponent(seg))
		d := &enc.Data{NameV: n, Content: []byte{byte('A' + seg)}}
		d.Meta.FinalBlockId.Set(enc.NewSegmentComponent(final))
		return d
	}

	require.Eventually(t, func() bool { return len(transport.Sent()) >= 4 }, time.Second, time.Millisecond)

	// Deliver out of order: 2, then 1, then 0 (closes both gaps), then 3 (final).
	require.NoError(t, transport.FeedPacket(segData(2, 3).Encode()))
	require.NoError(t, transport.FeedPacket(segData(1, 3).Encode()))
	require.NoError(t, transport.FeedPacket(segData(0, 3).Encode()))
	require.NoError(t, transport.FeedPacket(segData(3, 3).Encode()))

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("onComplete never called")
	}

	mu.Lock()
	require.Equal(t, []uint64{0, 1, 2, 3}, delivered)
	mu.Unlock()
}

func TestPipelinedFetcherWindowInvariant(t *testing.T) {
	f, transport := newFetchFace(t)
	name, _ := enc.NameFromString("/obj/v1")

	pf := fetch.NewPipelinedFetcher(f, name, nil, nil,
		func(uint64, []byte) {}, func() {}, func(error) {},
	)
	pf.Start()

	require.Eventually(t, func() bool { return len(transport.Sent()) >= 1 }, time.Second, time.Millisecond)

	for i := 0; i < 5; i++ {
		sndUna, sndNxt, sndWnd := pf.Snapshot()
		require.LessOrEqual(t, sndUna, sndNxt)
		require.LessOrEqual(t, int(sndNxt-sndUna), sndWnd)
		require.LessOrEqual(t, sndWnd, 32)
		require.GreaterOrEqual(t, sndWnd, 1)
		time.Sleep(5 * time.Millisecond)
	}
}

func TestPipelinedFetcherFastRetransmitOnThreeDuplicateGaps(t *testing.T) {
	f, transport := newFetchFace(t)
	name, _ := enc.NameFromString("/obj/v1")

	cwnd := congestion.NewFixedCongestionWindow(8)
	pf := fetch.NewPipelinedFetcher(f, name, nil, cwnd,
		func(uint64, []byte) {}, func() {}, func(error) {},
	)
	pf.Start()

	require.Eventually(t, func() bool { return len(transport.Sent()) >= 8 }, time.Second, time.Millisecond)

	segData := func(seg uint64) *enc.Data {
		n := name.Append(enc.NewSegmentComponent(seg))
		return &enc.Data{NameV: n, Content: []byte{byte('A' + seg)}}
	}

	// Segments 1, 2, 3 arrive while 0 is still missing: three
	// out-of-order arrivals should trigger a fast retransmit of segment
	// 0, observable as an extra Interest for it beyond the initial burst.
	require.NoError(t, transport.FeedPacket(segData(1).Encode()))
	require.NoError(t, transport.FeedPacket(segData(2).Encode()))
	require.NoError(t, transport.FeedPacket(segData(3).Encode()))

	require.Eventually(t, func() bool {
		count := 0
		for _, pkt := range transport.Sent() {
			i, err := enc.DecodeInterest(pkt)
			require.NoError(t, err)
			if seg, ok := i.NameV.At(-1).SegmentVal(); ok && seg == 0 {
				count++
			}
		}
		return count >= 2
	}, time.Second, time.Millisecond)
}
