package ndn

import "time"

// Timer abstracts wall-clock access so the Face and fetchers can be driven
// by a fake clock in tests, mirroring the teacher's ndn.Timer contract
// (std/engine/basic/timer.go implements this against the real clock).
type Timer interface {
	// Now returns the current time.
	Now() time.Time

	// Sleep blocks the calling goroutine for d.
	Sleep(d time.Duration)

	// Schedule runs f after d elapses and returns a cancel function. The
	// cancel function returns an error if the event already fired or was
	// already cancelled.
	Schedule(d time.Duration, f func()) (cancel func() error)

	// Nonce returns a fresh cryptographically random 8-byte nonce.
	Nonce() []byte
}
