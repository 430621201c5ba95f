package ndn

import (
	"fmt"
	"sync"
	"time"

	pq "github.com/ndncomm/ndn-js/types/priority_queue"
)

// DummyTimer is a deterministic, manually-advanced Timer for tests,
// grounded on the teacher's std/engine/basic/dummy_timer.go. Time only
// moves when MoveForward is called. Pending callbacks are held in a
// priority_queue.Queue keyed by deadline so that cancelling one handle
// never disturbs another's position.
type DummyTimer struct {
	now   time.Time
	queue pq.Queue[func(), int64]
	lock  sync.Mutex
}

// NewDummyTimer constructs a DummyTimer starting at the Unix epoch.
func NewDummyTimer() *DummyTimer {
	return &DummyTimer{now: time.Unix(0, 0).UTC(), queue: pq.New[func(), int64]()}
}

func (tm *DummyTimer) Now() time.Time {
	tm.lock.Lock()
	defer tm.lock.Unlock()
	return tm.now
}

// MoveForward advances the clock by d and fires every event whose deadline
// has since elapsed, in deadline order.
func (tm *DummyTimer) MoveForward(d time.Duration) {
	tm.lock.Lock()
	tm.now = tm.now.Add(d)
	deadline := tm.now.UnixNano()

	var due []func()
	for tm.queue.Len() > 0 && tm.queue.PeekPriority() <= deadline {
		due = append(due, tm.queue.Pop())
	}
	tm.lock.Unlock()

	for _, f := range due {
		f()
	}
}

func (tm *DummyTimer) Schedule(d time.Duration, f func()) func() error {
	tm.lock.Lock()
	defer tm.lock.Unlock()

	done := false
	item := tm.queue.Push(func() {
		tm.lock.Lock()
		done = true
		tm.lock.Unlock()
		f()
	}, tm.now.Add(d).UnixNano())

	return func() error {
		tm.lock.Lock()
		defer tm.lock.Unlock()
		if done {
			return fmt.Errorf("event has already fired or been cancelled")
		}
		done = true
		tm.queue.Remove(item)
		return nil
	}
}

func (tm *DummyTimer) Sleep(d time.Duration) {
	ch := make(chan struct{})
	tm.Schedule(d, func() { close(ch) })
	<-ch
}

// Nonce returns a fixed, non-random sequence for deterministic tests.
func (*DummyTimer) Nonce() []byte {
	return []byte{0x01, 0x02, 0x03, 0x04, 0x05, 0x06, 0x07, 0x08}
}
