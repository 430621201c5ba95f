package encoding_test

import (
	"testing"
	"time"

	enc "github.com/ndncomm/ndn-js/encoding"
	"github.com/stretchr/testify/require"
)

func TestInterestEncodeDecodeRoundTrip(t *testing.T) {
	name, _ := enc.NameFromString("/a/b/c")
	i := &enc.Interest{NameV: name, MustBeFresh: true}
	i.ChildSelector.Set(1)
	i.Nonce.Set(0xdeadbeef)
	i.Lifetime.Set(2000 * time.Millisecond)

	decoded, err := enc.DecodeInterest(i.Encode())
	require.NoError(t, err)

	require.True(t, decoded.NameV.Equal(name))
	require.True(t, decoded.MustBeFresh)
	cs, ok := decoded.ChildSelector.Get()
	require.True(t, ok)
	require.EqualValues(t, 1, cs)
	nonce, ok := decoded.Nonce.Get()
	require.True(t, ok)
	require.EqualValues(t, 0xdeadbeef, nonce)
	lifetime, ok := decoded.Lifetime.Get()
	require.True(t, ok)
	require.Equal(t, 2000*time.Millisecond, lifetime)
}

func TestInterestDefaultLifetime(t *testing.T) {
	i := &enc.Interest{}
	require.Equal(t, enc.DefaultInterestLifetime, i.LifetimeOrDefault())
}

func TestInterestSettersInvalidateNonce(t *testing.T) {
	i := &enc.Interest{}
	i.Nonce.Set(1)

	i.SetMustBeFresh(true)
	require.False(t, i.Nonce.IsSet())

	i.Nonce.Set(1)
	i.SetChildSelector(1)
	require.False(t, i.Nonce.IsSet())

	i.Nonce.Set(1)
	name, _ := enc.NameFromString("/x")
	i.SetName(name)
	require.False(t, i.Nonce.IsSet())
}

func TestInterestCloneIsIndependent(t *testing.T) {
	name, _ := enc.NameFromString("/a/b")
	i := &enc.Interest{NameV: name}
	clone := i.Clone()
	clone.NameV = clone.NameV.Append(enc.NewGenericComponent("c"))

	require.Len(t, i.NameV, 2)
	require.Len(t, clone.NameV, 3)
}

func TestInterestEncodingCanExceedMaxPacketSize(t *testing.T) {
	// encoding.Interest itself has no ceiling; enforcing MaxPacketSize is
	// the Face's job (face.ErrEncodedTooLarge), exercised in face_test.go.
	tooBig := make([]byte, enc.MaxPacketSize)
	i := &enc.Interest{NameV: enc.Name{enc.NewGenericBytesComponent(tooBig)}}
	require.Greater(t, len(i.Encode()), enc.MaxPacketSize)
}
