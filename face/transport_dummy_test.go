package face_test

import (
	"testing"

	"github.com/ndncomm/ndn-js/face"
	"github.com/ndncomm/ndn-js/ndn"
	"github.com/stretchr/testify/require"
)

func TestDummyTransportOpenRequiresCallbacks(t *testing.T) {
	transport := face.NewDummyTransport()
	require.Error(t, transport.Open())

	transport.OnPacket(func([]byte) {})
	require.Error(t, transport.Open())

	transport.OnError(func(error) {})
	require.NoError(t, transport.Open())
}

func TestDummyTransportDoubleOpenErrors(t *testing.T) {
	transport := face.NewDummyTransport()
	transport.OnPacket(func([]byte) {})
	transport.OnError(func(error) {})

	require.NoError(t, transport.Open())
	require.Error(t, transport.Open())
}

func TestDummyTransportDoubleCloseErrors(t *testing.T) {
	transport := face.NewDummyTransport()
	transport.OnPacket(func([]byte) {})
	transport.OnError(func(error) {})
	require.NoError(t, transport.Open())

	require.NoError(t, transport.Close())
	require.Error(t, transport.Close())
}

func TestDummyTransportSendBeforeOpenFails(t *testing.T) {
	transport := face.NewDummyTransport()
	err := transport.Send([]byte{0x01})
	require.ErrorIs(t, err, ndn.ErrFaceClosed)
}

func TestDummyTransportSendRecordsPacketAndTakeSentClears(t *testing.T) {
	transport := face.NewDummyTransport()
	transport.OnPacket(func([]byte) {})
	transport.OnError(func(error) {})
	require.NoError(t, transport.Open())

	require.NoError(t, transport.Send([]byte{0x01, 0x02}))
	require.Len(t, transport.Sent(), 1)

	taken := transport.TakeSent()
	require.Len(t, taken, 1)
	require.Empty(t, transport.Sent())
}

func TestDummyTransportFeedPacketAfterCloseFails(t *testing.T) {
	transport := face.NewDummyTransport()
	transport.OnPacket(func([]byte) {})
	transport.OnError(func(error) {})
	require.NoError(t, transport.Open())
	require.NoError(t, transport.Close())

	err := transport.FeedPacket([]byte{0x01})
	require.ErrorIs(t, err, ndn.ErrFaceClosed)
}

func TestDummyTransportFeedPacketInvokesOnPacket(t *testing.T) {
	transport := face.NewDummyTransport()
	received := make(chan []byte, 1)
	transport.OnPacket(func(frame []byte) { received <- frame })
	transport.OnError(func(error) {})
	require.NoError(t, transport.Open())

	require.NoError(t, transport.FeedPacket([]byte{0xAA, 0xBB}))
	require.Equal(t, []byte{0xAA, 0xBB}, <-received)
}
