package ndn

import (
	"crypto/rand"
	"fmt"
	"time"
)

// SystemTimer is a Timer backed by the real wall clock, grounded on the
// teacher's std/engine/basic/timer.go.
type SystemTimer struct{}

// NewSystemTimer constructs a real-clock Timer.
func NewSystemTimer() Timer { return SystemTimer{} }

func (SystemTimer) Sleep(d time.Duration) { time.Sleep(d) }

func (SystemTimer) Schedule(d time.Duration, f func()) func() error {
	t := time.AfterFunc(d, f)
	stopped := false
	return func() error {
		if !stopped {
			stopped = true
			if t.Stop() {
				return nil
			}
		}
		return fmt.Errorf("event has already fired or been cancelled")
	}
}

func (SystemTimer) Now() time.Time { return time.Now() }

func (SystemTimer) Nonce() []byte {
	buf := make([]byte, 8)
	n, _ := rand.Read(buf)
	return buf[:n]
}
