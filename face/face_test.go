package face_test

import (
	"sync"
	"testing"
	"time"

	enc "github.com/ndncomm/ndn-js/encoding"
	"github.com/ndncomm/ndn-js/face"
	"github.com/ndncomm/ndn-js/ndn"
	"github.com/stretchr/testify/require"
)

func newTestFace(t *testing.T) (*face.Face, *face.DummyTransport, *ndn.DummyTimer) {
	t.Helper()
	transport := face.NewDummyTransport()
	timer := ndn.NewDummyTimer()
	f := face.NewFace(transport, timer)
	t.Cleanup(func() { _ = f.Close() })
	return f, transport, timer
}

func waitOpened(t *testing.T, f *face.Face) {
	t.Helper()
	require.Eventually(t, func() bool {
		return f.State() == face.StateOpened
	}, time.Second, time.Millisecond)
}

func TestExpressInterestSendsEncodedInterest(t *testing.T) {
	f, transport, _ := newTestFace(t)
	name, _ := enc.NameFromString("/a/b")

	_, err := f.ExpressInterest(&enc.Interest{NameV: name}, nil, nil)
	require.NoError(t, err)
	waitOpened(t, f)

	require.Eventually(t, func() bool { return len(transport.Sent()) == 1 }, time.Second, time.Millisecond)
	sent := transport.Sent()[0]
	decoded, err := enc.DecodeInterest(sent)
	require.NoError(t, err)
	require.True(t, decoded.NameV.Equal(name))
	// A Nonce must have been filled in even though the template had none.
	_, ok := decoded.Nonce.Get()
	require.True(t, ok)
}

func TestOnDataInvokedExactlyOnceAndRemovesEntry(t *testing.T) {
	f, transport, _ := newTestFace(t)
	name, _ := enc.NameFromString("/a/b")

	var calls int
	var mu sync.Mutex
	_, err := f.ExpressInterest(&enc.Interest{NameV: name}, func(_ *enc.Interest, _ *enc.Data) {
		mu.Lock()
		calls++
		mu.Unlock()
	}, nil)
	require.NoError(t, err)
	waitOpened(t, f)
	require.Eventually(t, func() bool { return f.PITSize() == 1 }, time.Second, time.Millisecond)

	data := &enc.Data{NameV: name, Content: []byte("x")}
	require.NoError(t, transport.FeedPacket(data.Encode()))

	require.Eventually(t, func() bool {
		mu.Lock()
		defer mu.Unlock()
		return calls == 1
	}, time.Second, time.Millisecond)
	require.Equal(t, 0, f.PITSize())

	// Feeding the same Data again must not re-invoke onData: the PIT
	// entry is already gone.
	require.NoError(t, transport.FeedPacket(data.Encode()))
	time.Sleep(20 * time.Millisecond)
	mu.Lock()
	require.Equal(t, 1, calls)
	mu.Unlock()
}

func TestInterestTimeoutFiresOnTimer(t *testing.T) {
	f, _, timer := newTestFace(t)
	name, _ := enc.NameFromString("/a/b")

	i := &enc.Interest{NameV: name}
	i.Lifetime.Set(100 * time.Millisecond)

	timedOut := make(chan struct{})
	_, err := f.ExpressInterest(i, nil, func(_ *enc.Interest) { close(timedOut) })
	require.NoError(t, err)
	waitOpened(t, f)
	require.Eventually(t, func() bool { return f.PITSize() == 1 }, time.Second, time.Millisecond)

	timer.MoveForward(50 * time.Millisecond)
	select {
	case <-timedOut:
		t.Fatal("timeout fired too early")
	default:
	}

	timer.MoveForward(60 * time.Millisecond)
	select {
	case <-timedOut:
	case <-time.After(time.Second):
		t.Fatal("timeout never fired")
	}
	require.Equal(t, 0, f.PITSize())
}

func TestRemovePendingInterestIsIdempotent(t *testing.T) {
	f, _, _ := newTestFace(t)
	name, _ := enc.NameFromString("/a/b")

	entryId, err := f.ExpressInterest(&enc.Interest{NameV: name}, nil, nil)
	require.NoError(t, err)
	waitOpened(t, f)
	require.Eventually(t, func() bool { return f.PITSize() == 1 }, time.Second, time.Millisecond)

	f.RemovePendingInterest(entryId)
	require.Equal(t, 0, f.PITSize())

	// Calling again, and calling on an id that was never inserted, must
	// not panic or otherwise misbehave.
	f.RemovePendingInterest(entryId)
	f.RemovePendingInterest(99999)
}

func TestReservedTimeoutPrefixNeverReachesTransport(t *testing.T) {
	f, transport, timer := newTestFace(t)
	name, _ := enc.NameFromString("/local/timeout/mytask")

	i := &enc.Interest{NameV: name}
	i.Lifetime.Set(50 * time.Millisecond)

	fired := make(chan struct{})
	_, err := f.ExpressInterest(i, nil, func(_ *enc.Interest) { close(fired) })
	require.NoError(t, err)

	timer.MoveForward(60 * time.Millisecond)
	select {
	case <-fired:
	case <-time.After(time.Second):
		t.Fatal("scheduled timeout never fired")
	}

	// No connection was ever required, and nothing was sent.
	require.Empty(t, transport.Sent())
}

func TestSetUnsetInterestFilterDispatches(t *testing.T) {
	f, transport, _ := newTestFace(t)
	prefix, _ := enc.NameFromString("/my/app")

	var got *enc.Interest
	var mu sync.Mutex
	id := f.SetInterestFilter(prefix, func(interest *enc.Interest, _ enc.Name) {
		mu.Lock()
		got = interest
		mu.Unlock()
	})

	// Force the transport open so FeedPacket succeeds.
	_, err := f.ExpressInterest(&enc.Interest{NameV: prefix}, nil, nil)
	require.NoError(t, err)
	waitOpened(t, f)

	inboundName := prefix.Append(enc.NewGenericComponent("x"))
	inbound := &enc.Interest{NameV: inboundName}
	require.NoError(t, transport.FeedPacket(inbound.Encode()))

	require.Eventually(t, func() bool {
		mu.Lock()
		defer mu.Unlock()
		return got != nil
	}, time.Second, time.Millisecond)
	mu.Lock()
	require.True(t, got.NameV.Equal(inboundName))
	mu.Unlock()

	f.UnsetInterestFilter(id)
	mu.Lock()
	got = nil
	mu.Unlock()
	require.NoError(t, transport.FeedPacket(inbound.Encode()))
	time.Sleep(20 * time.Millisecond)
	mu.Lock()
	require.Nil(t, got)
	mu.Unlock()
}

func TestExpressInterestRejectsOversizedEncoding(t *testing.T) {
	f, _, _ := newTestFace(t)
	big := make([]byte, enc.MaxPacketSize)
	i := &enc.Interest{NameV: enc.Name{enc.NewGenericBytesComponent(big)}}

	_, err := f.ExpressInterest(i, nil, nil)
	waitOpened(t, f)
	// The oversized send happens on the deferred queue; the error only
	// surfaces via logging there, so assert directly against
	// insertAndSend's synchronous path instead by expressing once
	// already open.
	_, err = f.ExpressInterest(i, nil, nil)
	require.ErrorIs(t, err, ndn.ErrEncodedTooLarge)
}

func TestCloseCancelsOutstandingTimers(t *testing.T) {
	f, _, _ := newTestFace(t)
	name, _ := enc.NameFromString("/a/b")

	timedOut := false
	_, err := f.ExpressInterest(&enc.Interest{NameV: name}, nil, func(_ *enc.Interest) { timedOut = true })
	require.NoError(t, err)
	waitOpened(t, f)
	require.Eventually(t, func() bool { return f.PITSize() == 1 }, time.Second, time.Millisecond)

	require.NoError(t, f.Close())
	require.Equal(t, 0, f.PITSize())
	require.False(t, timedOut)
}
