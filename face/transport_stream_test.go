package face_test

import (
	"net"
	"strconv"
	"testing"
	"time"

	enc "github.com/ndncomm/ndn-js/encoding"
	"github.com/ndncomm/ndn-js/face"
	"github.com/ndncomm/ndn-js/ndn"
	"github.com/stretchr/testify/require"
)

// TestTCPTransportRoundTrip exercises the real streamTransport/ElementReader
// path (C1/C2) against a loopback TCP listener: one Interest sent out, one
// Data framed back in, including a partial-write split across two
// listener-side Write calls to exercise the element reader's buffering.
func TestTCPTransportRoundTrip(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	defer ln.Close()

	name, _ := enc.NameFromString("/a/b")
	reply := (&enc.Data{NameV: name, Content: []byte("pong")}).Encode()

	serverRecv := make(chan []byte, 1)
	go func() {
		conn, err := ln.Accept()
		if err != nil {
			return
		}
		defer conn.Close()

		buf := make([]byte, 4096)
		n, err := conn.Read(buf)
		if err != nil {
			return
		}
		serverRecv <- append([]byte(nil), buf[:n]...)

		// Write the reply split across two writes to force the
		// element reader to buffer a partial element.
		split := len(reply) / 2
		_, _ = conn.Write(reply[:split])
		time.Sleep(10 * time.Millisecond)
		_, _ = conn.Write(reply[split:])
	}()

	host, portStr, err := net.SplitHostPort(ln.Addr().String())
	require.NoError(t, err)
	port, err := strconv.Atoi(portStr)
	require.NoError(t, err)

	ci := face.ConnectionInfo{Scheme: "tcp", Host: host, Port: uint16(port)}
	transport := face.NewTCPTransport(ci)

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

func TestUnixTransportConnectionRefusedIsNetworkError(t *testing.T) {
	ci := face.ConnectionInfo{Scheme: "unix", Path: "/nonexistent/ndn-js-test.sock"}
	transport := face.NewUnixTransport(ci)
	transport.OnPacket(func([]byte) {})
	transport.OnError(func(error) {})

	err := transport.Open()
	require.ErrorIs(t, err, ndn.ErrNetwork)
}
