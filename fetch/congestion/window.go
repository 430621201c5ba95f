// Package congestion provides pluggable congestion-window strategies for
// the pipelined fetcher (C7), grounded on the teacher's
// std/object/congestion package. CongestionSignal was not present in the
// retrieval pack (only the fixed-window implementation survived), so it is
// rebuilt here from spec.md §4.7's two signal sites: a fast-retransmit
// trigger and an Interest timeout.
package congestion

// CongestionSignal names an event a CongestionWindow reacts to.
type CongestionSignal int

const (
	// SignalFastRetransmit fires when ooo_count reaches the
	// fast-retransmit threshold (spec.md §4.7).
	SignalFastRetransmit CongestionSignal = iota
	// SignalTimeout fires when an Interest in the pipelined window times
	// out (spec.md §4.7: "On timeout of any Interest: snd_wnd = 1").
	SignalTimeout
)

// CongestionWindow tracks the pipelined fetcher's sliding-window size.
type CongestionWindow interface {
	// Size returns the current window size.
	Size() int

	// IncreaseWindow applies additive increase, e.g. on every in-order
	// advance (spec.md §4.7).
	IncreaseWindow()

	// DecreaseWindow applies the implementation's multiplicative
	// decrease rule.
	DecreaseWindow()

	// HandleSignal reacts to a named congestion event.
	HandleSignal(signal CongestionSignal)

	String() string
}
