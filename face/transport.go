// Package face implements the client-side runtime: the transport adapter
// (C1), the element reader (C2) and the Face core with its Pending Interest
// Table (C3). It is grounded on the teacher's std/engine/face and
// std/engine/basic packages, generalized from a one-name-prefix forwarding
// engine to the narrower library-Face contract spec.md §4.3 describes.
package face

import (
	"sync"
	"sync/atomic"
)

// ConnectionInfo names a forwarder endpoint. Exactly one scheme-specific
// field is meaningful for a given Scheme (spec.md §4.1).
type ConnectionInfo struct {
	// Scheme selects the transport: "tcp", "unix" or "ws".
	Scheme string

	// Host and Port are used when Scheme is "tcp".
	Host string
	Port uint16

	// Path is the socket path when Scheme is "unix".
	Path string

	// Url is the ws:// or wss:// endpoint when Scheme is "ws".
	Url string

	// Local marks the connection as talking to a forwarder on the same
	// host, which the registrar (C5) uses to pick local vs remote
	// command prefixes (spec.md §4.5).
	Local bool
}

// Transport is the narrow adapter the Face core drives: open a byte-stream
// or message-stream connection to a forwarder, push received bytes to
// OnPacket, and accept raw encoded packets to send (spec.md §4.1).
type Transport interface {
	// Open connects to the forwarder. OnPacket and OnError must already
	// be set. Returns an error if already running or if the dial fails.
	Open() error

	// Close tears down the connection. Idempotent.
	Close() error

	// Send transmits a fully encoded packet.
	Send(pkt []byte) error

	// IsRunning reports whether the transport believes it is connected.
	IsRunning() bool

	// IsLocal reports whether ConnectionInfo.Local was set.
	IsLocal() bool

	// OnPacket registers the callback invoked with each complete
	// received packet's bytes.
	OnPacket(onPkt func(frame []byte))

	// OnError registers the callback invoked once, with the terminal
	// error, when the transport stops unexpectedly.
	OnError(onError func(err error))

	String() string
}

// baseTransport is the shared bookkeeping every concrete Transport embeds,
// grounded on the teacher's std/engine/face/base_face.go.
type baseTransport struct {
	running atomic.Bool
	local   bool
	onPkt   func(frame []byte)
	onError func(err error)
	sendMut sync.Mutex
}

func newBaseTransport(local bool) baseTransport {
	return baseTransport{local: local}
}

func (t *baseTransport) IsRunning() bool { return t.running.Load() }
func (t *baseTransport) IsLocal() bool   { return t.local }

func (t *baseTransport) OnPacket(onPkt func(frame []byte)) { t.onPkt = onPkt }
func (t *baseTransport) OnError(onError func(err error))   { t.onError = onError }

func (t *baseTransport) setStateUp() bool     { return !t.running.Swap(true) }
func (t *baseTransport) setStateDown() bool   { return t.running.Swap(false) }
func (t *baseTransport) setStateClosed() bool { return t.running.Swap(false) }
