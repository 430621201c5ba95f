package face

import (
	"fmt"

	"github.com/gorilla/websocket"

	"github.com/ndncomm/ndn-js/ndn"
)

// wsTransport is a Transport over a WebSocket connection, adapted from the
// teacher's std/engine/face/ws_face.go. WebSocket framing already delivers
// whole messages, so unlike the stream transport it bypasses the element
// reader and hands gorilla's message boundaries straight to onPkt -
// forwarders are expected to write one NDN packet per WebSocket message.
type wsTransport struct {
	baseTransport
	url  string
	conn *websocket.Conn
}

// NewWebSocketTransport dials a ws:// or wss:// forwarder endpoint
// described by ci.
func NewWebSocketTransport(ci ConnectionInfo) Transport {
	return &wsTransport{
		baseTransport: newBaseTransport(ci.Local),
		url:           ci.Url,
	}
}

func (t *wsTransport) String() string {
	return fmt.Sprintf("websocket-transport (%s)", t.url)
}

func (t *wsTransport) Open() error {
	if t.IsRunning() {
		return fmt.Errorf("transport is already running")
	}
	if t.onError == nil || t.onPkt == nil {
		return fmt.Errorf("transport callbacks are not set")
	}

	c, _, err := websocket.DefaultDialer.Dial(t.url, nil)
	if err != nil {
		return fmt.Errorf("%w: %v", ndn.ErrNetwork, err)
	}

	t.conn = c
	t.setStateUp()
	go t.receive()

	return nil
}

func (t *wsTransport) Close() error {
	if t.setStateClosed() {
		return t.conn.Close()
	}
	return nil
}

func (t *wsTransport) Send(pkt []byte) error {
	if !t.IsRunning() {
		return ndn.ErrFaceClosed
	}
	t.sendMut.Lock()
	defer t.sendMut.Unlock()
	return t.conn.WriteMessage(websocket.BinaryMessage, pkt)
}

func (t *wsTransport) receive() {
	defer t.setStateDown()

	for t.IsRunning() {
		messageType, pkt, err := t.conn.ReadMessage()
		if err != nil {
			if t.IsRunning() {
				t.onError(err)
			}
			return
		}
		if messageType != websocket.BinaryMessage {
			continue
		}
		t.onPkt(pkt)
	}
}
