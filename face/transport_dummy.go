package face

import (
	"fmt"

	"github.com/ndncomm/ndn-js/ndn"
)

// DummyTransport is an in-process Transport test double, adapted from the
// teacher's std/engine/face/dummy_face.go. It records every sent packet and
// lets a test feed packets back in as if from a forwarder, which is how the
// Face/fetcher test suite exercises C1-C7 without a real network.
type DummyTransport struct {
	baseTransport
	sent [][]byte
}

// NewDummyTransport constructs a DummyTransport. It is always local.
func NewDummyTransport() *DummyTransport {
	return &DummyTransport{baseTransport: newBaseTransport(true)}
}

func (t *DummyTransport) String() string { return "dummy-transport" }

func (t *DummyTransport) Open() error {
	if t.onError == nil || t.onPkt == nil {
		return fmt.Errorf("transport callbacks are not set")
	}
	if t.IsRunning() {
		return fmt.Errorf("transport is already running")
	}
	t.running.Store(true)
	return nil
}

func (t *DummyTransport) Close() error {
	if !t.running.Swap(false) {
		return fmt.Errorf("transport is not running")
	}
	return nil
}

func (t *DummyTransport) Send(pkt []byte) error {
	if !t.IsRunning() {
		return ndn.ErrFaceClosed
	}
	cp := make([]byte, len(pkt))
	copy(cp, pkt)
	t.sent = append(t.sent, cp)
	return nil
}

// Sent returns every packet handed to Send so far, oldest first.
func (t *DummyTransport) Sent() [][]byte {
	return t.sent
}

// TakeSent returns and clears the recorded sent packets.
func (t *DummyTransport) TakeSent() [][]byte {
	ret := t.sent
	t.sent = nil
	return ret
}

// FeedPacket delivers pkt to the Face as if it had arrived from the
// forwarder.
func (t *DummyTransport) FeedPacket(pkt []byte) error {
	if !t.IsRunning() {
		return ndn.ErrFaceClosed
	}
	t.onPkt(pkt)
	return nil
}
