package face_test

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"

	enc "github.com/ndncomm/ndn-js/encoding"
	"github.com/ndncomm/ndn-js/face"
	"github.com/ndncomm/ndn-js/ndn"
	"github.com/stretchr/testify/require"
)

// TestWebSocketTransportRoundTrip exercises the real wsTransport against a
// loopback gorilla/websocket server: one Interest sent out, one Data
// message echoed back as a single WebSocket binary frame.
func TestWebSocketTransportRoundTrip(t *testing.T) {
	name, _ := enc.NameFromString("/a/b")
	reply := (&enc.Data{NameV: name, Content: []byte("pong")}).Encode()

	upgrader := websocket.Upgrader{}
	serverRecv := make(chan []byte, 1)

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			return
		}
		defer conn.Close()

		_, msg, err := conn.ReadMessage()
		if err != nil {
			return
		}
		serverRecv <- msg

		_ = conn.WriteMessage(websocket.BinaryMessage, reply)
	}))
	defer srv.Close()

	wsURL := "ws" + strings.TrimPrefix(srv.URL, "http")

	transport := face.NewWebSocketTransport(face.ConnectionInfo{Scheme: "ws", Url: wsURL})
	received := make(chan []byte, 1)
	transport.OnPacket(func(frame []byte) { received <- frame })
	transport.OnError(func(err error) { t.Logf("transport error: %v", err) })

	require.NoError(t, transport.Open())
	defer transport.Close()

	interest := &enc.Interest{NameV: name}
	require.NoError(t, transport.Send(interest.Encode()))

	select {
	case got := <-serverRecv:
		decoded, err := enc.DecodeInterest(got)
		require.NoError(t, err)
		require.True(t, decoded.NameV.Equal(name))
	case <-time.After(time.Second):
		t.Fatal("server never received the Interest")
	}

	select {
	case frame := <-received:
		decoded, err := enc.DecodeData(frame)
		require.NoError(t, err)
		require.Equal(t, []byte("pong"), decoded.Content)
	case <-time.After(time.Second):
		t.Fatal("client never received the Data")
	}
}

func TestWebSocketTransportDialFailureIsNetworkError(t *testing.T) {
	transport := face.NewWebSocketTransport(face.ConnectionInfo{Scheme: "ws", Url: "ws://127.0.0.1:1/nope"})
	transport.OnPacket(func([]byte) {})
	transport.OnError(func(error) {})

	err := transport.Open()
	require.ErrorIs(t, err, ndn.ErrNetwork)
}
