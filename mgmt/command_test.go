package mgmt_test

import (
	"testing"

	enc "github.com/ndncomm/ndn-js/encoding"
	"github.com/ndncomm/ndn-js/mgmt"
	"github.com/ndncomm/ndn-js/ndn"
	"github.com/ndncomm/ndn-js/security/signer"
	"github.com/stretchr/testify/require"
)

func TestMakeCommandInterestAppendsFourComponents(t *testing.T) {
	gen := mgmt.NewCommandInterestGenerator()
	s := signer.NewSha256Signer()
	timer := ndn.NewSystemTimer()

	base, _ := enc.NameFromString("/localhost/nfd/rib/register")
	interest, err := gen.MakeCommandInterest(base, s, timer, 2000)
	require.NoError(t, err)
	require.Len(t, interest.NameV, len(base)+4)
	require.True(t, base.IsPrefix(interest.NameV))
	require.True(t, interest.MustBeFresh)
}

func TestCommandInterestTimestampsAreStrictlyMonotonic(t *testing.T) {
	gen := mgmt.NewCommandInterestGenerator()
	s := signer.NewSha256Signer()
	timer := ndn.NewDummyTimer()

	base, _ := enc.NameFromString("/localhost/nfd/rib/register")

	var lastTs uint64
	for i := 0; i < 5; i++ {
		interest, err := gen.MakeCommandInterest(base, s, timer, 2000)
		require.NoError(t, err)

		tsComp := interest.NameV.At(len(base))
		ts := beUint64(tsComp.Val)
		require.Greater(t, ts, lastTs)
		lastTs = ts
		// Clock never advances: every call still produces a strictly
		// larger timestamp than the last.
	}
}

func beUint64(b []byte) uint64 {
	var v uint64
	for _, x := range b {
		v = v<<8 | uint64(x)
	}
	return v
}
