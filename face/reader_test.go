package face_test

import (
	"testing"

	enc "github.com/ndncomm/ndn-js/encoding"
	"github.com/ndncomm/ndn-js/face"
	"github.com/ndncomm/ndn-js/ndn"
	"github.com/stretchr/testify/require"
)

func TestElementReaderSplitsConcatenatedElements(t *testing.T) {
	name, _ := enc.NameFromString("/a")
	i1 := (&enc.Interest{NameV: name}).Encode()
	i2 := (&enc.Interest{NameV: name.Append(enc.NewGenericComponent("b"))}).Encode()

	r := face.NewElementReader()
	var got [][]byte
	require.NoError(t, r.Feed(append(append([]byte{}, i1...), i2...), func(frame []byte) {
		got = append(got, append([]byte(nil), frame...))
	}))

	require.Len(t, got, 2)
	require.Equal(t, i1, got[0])
	require.Equal(t, i2, got[1])
}

func TestElementReaderBuffersPartialElement(t *testing.T) {
	name, _ := enc.NameFromString("/a/b/c")
	full := (&enc.Interest{NameV: name}).Encode()

	r := face.NewElementReader()
	var got [][]byte
	onElement := func(frame []byte) { got = append(got, append([]byte(nil), frame...)) }

	require.NoError(t, r.Feed(full[:len(full)/2], onElement))
	require.Empty(t, got)

	require.NoError(t, r.Feed(full[len(full)/2:], onElement))
	require.Len(t, got, 1)
	require.Equal(t, full, got[0])
}

func TestElementReaderRejectsOversizedElement(t *testing.T) {
	big := make([]byte, enc.MaxPacketSize)
	name := enc.Name{enc.NewGenericBytesComponent(big)}
	oversized := (&enc.Interest{NameV: name}).Encode()

	r := face.NewElementReader()
	err := r.Feed(oversized, func([]byte) {
		t.Fatal("onElement should not be called for an oversized element")
	})
	require.ErrorIs(t, err, ndn.ErrMalformedElement)
}
