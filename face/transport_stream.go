package face

import (
	"fmt"
	"net"

	"github.com/ndncomm/ndn-js/ndn"
)

// streamTransport is a Transport over any net.Conn stream (TCP or Unix
// domain socket), adapted from the teacher's std/engine/face/stream_face.go.
// The element framing itself lives in reader.go, not here: a stream
// transport only knows about bytes, never about where one packet ends.
type streamTransport struct {
	baseTransport
	network string
	addr    string
	conn    net.Conn
}

// NewTCPTransport dials a TCP forwarder endpoint described by ci.
func NewTCPTransport(ci ConnectionInfo) Transport {
	return &streamTransport{
		baseTransport: newBaseTransport(ci.Local),
		network:       "tcp",
		addr:          fmt.Sprintf("%s:%d", ci.Host, ci.Port),
	}
}

// NewUnixTransport dials a Unix domain socket forwarder endpoint described
// by ci.
func NewUnixTransport(ci ConnectionInfo) Transport {
	return &streamTransport{
		baseTransport: newBaseTransport(ci.Local),
		network:       "unix",
		addr:          ci.Path,
	}
}

func (t *streamTransport) String() string {
	return fmt.Sprintf("%s-transport (%s)", t.network, t.addr)
}

func (t *streamTransport) Open() error {
	if t.IsRunning() {
		return fmt.Errorf("transport is already running")
	}
	if t.onError == nil || t.onPkt == nil {
		return fmt.Errorf("transport callbacks are not set")
	}

	c, err := net.Dial(t.network, t.addr)
	if err != nil {
		return fmt.Errorf("%w: %v", ndn.ErrNetwork, err)
	}

	t.conn = c
	t.setStateUp()
	go t.receive()

	return nil
}

func (t *streamTransport) Close() error {
	if t.setStateClosed() {
		if t.conn != nil {
			return t.conn.Close()
		}
	}
	return nil
}

func (t *streamTransport) Send(pkt []byte) error {
	if !t.IsRunning() {
		return ndn.ErrFaceClosed
	}
	t.sendMut.Lock()
	defer t.sendMut.Unlock()
	_, err := t.conn.Write(pkt)
	return err
}

// receive reads the raw byte stream and hands it to the element reader (C2)
// via readLoop, which reassembles complete TLV elements before invoking
// onPkt.
func (t *streamTransport) receive() {
	defer t.setStateDown()
	err := readLoop(t.conn, func(frame []byte) bool {
		t.onPkt(frame)
		return t.IsRunning()
	})
	if t.IsRunning() {
		if err == nil {
			err = fmt.Errorf("stream closed")
		}
		t.onError(err)
	}
}
