package ndn_test

import (
	"sync/atomic"
	"testing"
	"time"

	"github.com/ndncomm/ndn-js/ndn"
	"github.com/stretchr/testify/require"
)

func TestSystemTimerScheduleFires(t *testing.T) {
	tm := ndn.NewSystemTimer()
	var fired int32
	tm.Schedule(10*time.Millisecond, func() { atomic.StoreInt32(&fired, 1) })

	require.Eventually(t, func() bool { return atomic.LoadInt32(&fired) == 1 }, time.Second, time.Millisecond)
}

func TestSystemTimerCancelPreventsFire(t *testing.T) {
	tm := ndn.NewSystemTimer()
	var fired int32
	cancel := tm.Schedule(50*time.Millisecond, func() { atomic.StoreInt32(&fired, 1) })

	require.NoError(t, cancel())
	time.Sleep(100 * time.Millisecond)
	require.EqualValues(t, 0, atomic.LoadInt32(&fired))
}

func TestSystemTimerCancelTwiceErrors(t *testing.T) {
	tm := ndn.NewSystemTimer()
	cancel := tm.Schedule(time.Second, func() {})

	require.NoError(t, cancel())
	require.Error(t, cancel())
}

func TestSystemTimerNonceIsEightBytes(t *testing.T) {
	tm := ndn.NewSystemTimer()
	require.Len(t, tm.Nonce(), 8)
}

func TestSystemTimerNowAdvances(t *testing.T) {
	tm := ndn.NewSystemTimer()
	t1 := tm.Now()
	time.Sleep(5 * time.Millisecond)
	t2 := tm.Now()
	require.True(t, t2.After(t1))
}
