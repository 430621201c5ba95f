package face

import (
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	enc "github.com/ndncomm/ndn-js/encoding"
	"github.com/ndncomm/ndn-js/log"
	"github.com/ndncomm/ndn-js/mgmt"
	"github.com/ndncomm/ndn-js/ndn"
)

// State is a Face's position in its connection lifecycle (spec.md §4.3.1).
type State int

const (
	StateUnopen State = iota
	StateOpenRequested
	StateOpened
	StateClosed
)

func (s State) String() string {
	switch s {
	case StateUnopen:
		return "UNOPEN"
	case StateOpenRequested:
		return "OPEN_REQUESTED"
	case StateOpened:
		return "OPENED"
	case StateClosed:
		return "CLOSED"
	default:
		return "UNKNOWN"
	}
}

// reservedTimeoutPrefix is the name space reserved for schedule-only
// Interests that must never reach the wire (spec.md §6).
var reservedTimeoutPrefix = enc.Name{enc.NewGenericComponent("local"), enc.NewGenericComponent("timeout")}

// OnDataFunc is invoked at most once for a PIT entry, when a matching Data
// arrives while the entry is still in the PIT.
type OnDataFunc func(interest *enc.Interest, data *enc.Data)

// OnTimeoutFunc is invoked exactly once for a PIT entry whose lifetime
// elapsed with no matching Data.
type OnTimeoutFunc func(interest *enc.Interest)

// OnInterestFunc handles an inbound Interest matching a registered filter
// or prefix. filterPrefix is the prefix of the filter that matched; a
// handler replies by calling Face.PutData.
type OnInterestFunc func(interest *enc.Interest, filterPrefix enc.Name)

type pendingInterest struct {
	entryId     uint64
	interest    *enc.Interest
	onData      OnDataFunc
	onTimeout   OnTimeoutFunc
	createdAt   time.Time
	cancelTimer func() error
}

type interestFilterEntry struct {
	entryId    uint64
	prefix     enc.Name
	onInterest OnInterestFunc
}

type registeredPrefixEntry struct {
	entryId         uint64
	prefix          enc.Name
	relatedFilterId uint64
}

// Face multiplexes Interest/Data traffic over one Transport: it owns the
// Pending Interest Table, the interest-filter table, the registered-prefix
// table, and the connection lifecycle (C3), grounded on the teacher's
// std/engine/basic/engine.go Engine type, narrowed to the library-Face
// surface spec.md §6 names.
type Face struct {
	transport Transport
	timer     ndn.Timer

	nextId atomic.Uint64

	mu         sync.Mutex
	state      State
	pit        map[uint64]*pendingInterest
	pitRemoved map[uint64]bool // pending-removal markers, keyed by entryId
	filters    []*interestFilterEntry
	prefixes   map[uint64]*registeredPrefixEntry

	onConnectedQueue []func()

	commandSigner   ndn.Signer
	commandCertName enc.Name
	cmdGen          *mgmt.CommandInterestGenerator
}

// NewFace constructs a Face bound to transport, using timer for clock and
// nonce access. The Face does not connect until the first operation that
// needs the wire.
func NewFace(transport Transport, timer ndn.Timer) *Face {
	f := &Face{
		transport:  transport,
		timer:      timer,
		state:      StateUnopen,
		pit:        make(map[uint64]*pendingInterest),
		pitRemoved: make(map[uint64]bool),
		prefixes:   make(map[uint64]*registeredPrefixEntry),
		cmdGen:     mgmt.NewCommandInterestGenerator(),
	}
	return f
}

func (f *Face) String() string { return "face (" + f.transport.String() + ")" }

// State returns the Face's current lifecycle state.
func (f *Face) State() State {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.state
}

// SetCommandSigningInfo configures the Signer and certificate name used to
// sign command Interests issued by RegisterPrefix/RemoveRegisteredPrefix
// (spec.md §4.5 step 3, §6).
func (f *Face) SetCommandSigningInfo(signer ndn.Signer, certName enc.Name) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.commandSigner = signer
	f.commandCertName = certName
}

func (f *Face) allocId() uint64 {
	return f.nextId.Add(1)
}

// ensureConnecting transitions UNOPEN to OPEN_REQUESTED and kicks off the
// transport dial exactly once, wiring OnPacket/OnError before Open. Caller
// must hold f.mu.
func (f *Face) ensureConnecting() {
	if f.state != StateUnopen {
		return
	}
	f.state = StateOpenRequested

	f.transport.OnPacket(func(frame []byte) { f.onElement(frame) })
	f.transport.OnError(func(err error) { f.onTransportError(err) })

	go func() {
		err := f.transport.Open()
		if err != nil {
			f.onTransportError(err)
			return
		}
		f.onTransportOpen()
	}()
}

// onTransportOpen drains the onConnected queue in insertion order
// (spec.md §4.3.1).
func (f *Face) onTransportOpen() {
	f.mu.Lock()
	if f.state == StateClosed {
		f.mu.Unlock()
		return
	}
	f.state = StateOpened
	queue := f.onConnectedQueue
	f.onConnectedQueue = nil
	f.mu.Unlock()

	for _, task := range queue {
		task()
	}
}

// onTransportError closes the Face on any transport-level failure
// (spec.md §4.8, §7: "Transport-level errors propagate by closing the
// Face").
func (f *Face) onTransportError(err error) {
	log.Error(f, "Transport error, closing face", "err", fmt.Errorf("%w: %v", ndn.ErrTransportError, err))
	f.Close()
}

// Close transitions the Face to CLOSED, cancelling every outstanding PIT
// timer without invoking their callbacks, and closes the transport
// (spec.md §4.3.1, §5 "Face close MUST cancel every outstanding timer").
func (f *Face) Close() error {
	f.mu.Lock()
	if f.state == StateClosed {
		f.mu.Unlock()
		return nil
	}
	f.state = StateClosed
	pit := f.pit
	f.pit = make(map[uint64]*pendingInterest)
	f.mu.Unlock()

	for _, entry := range pit {
		if entry.cancelTimer != nil {
			entry.cancelTimer()
		}
	}

	return f.transport.Close()
}

// ExpressInterest sends interest (or schedules a delayed callback for
// reserved /local/timeout names) and returns its PIT entryId (spec.md
// §4.3.2).
func (f *Face) ExpressInterest(template *enc.Interest, onData OnDataFunc, onTimeout OnTimeoutFunc) (uint64, error) {
	// Step 1: defensive copy, default lifetime.
	interest := template.Clone()
	lifetime := interest.LifetimeOrDefault()
	interest.Lifetime.Set(lifetime)

	entryId := f.allocId()

	f.mu.Lock()
	if f.state == StateClosed {
		f.mu.Unlock()
		return 0, ndn.ErrNotConnected
	}

	isLocalTimeout := isUnderReservedTimeoutPrefix(interest.NameV)

	send := func() error {
		return f.insertAndSend(entryId, interest, onData, onTimeout, isLocalTimeout)
	}

	if f.state != StateOpened && !isLocalTimeout {
		f.onConnectedQueue = append(f.onConnectedQueue, func() {
			if err := send(); err != nil {
				log.Error(f, "Deferred expressInterest failed", "err", err)
			}
		})
		f.ensureConnecting()
		f.mu.Unlock()
		return entryId, nil
	}
	f.mu.Unlock()

	return entryId, send()
}

// insertAndSend performs steps 4-7 of expressInterest (spec.md §4.3.2).
// Must be called without f.mu held.
func (f *Face) insertAndSend(
	entryId uint64,
	interest *enc.Interest,
	onData OnDataFunc,
	onTimeout OnTimeoutFunc,
	isLocalTimeout bool,
) error {
	var encoded []byte
	if !isLocalTimeout {
		if !interest.Nonce.IsSet() {
			interest.Nonce.Set(bytesToNonce(f.timer.Nonce()))
		}
		encoded = interest.Encode()
		if len(encoded) > enc.MaxPacketSize {
			return ndn.ErrEncodedTooLarge
		}
	}

	lifetime := interest.LifetimeOrDefault()

	f.mu.Lock()
	if f.state == StateClosed {
		f.mu.Unlock()
		return ndn.ErrNotConnected
	}

	// Step 5: pending-removal race.
	if f.pitRemoved[entryId] {
		delete(f.pitRemoved, entryId)
		f.mu.Unlock()
		return nil
	}

	entry := &pendingInterest{
		entryId:   entryId,
		interest:  interest,
		onData:    onData,
		onTimeout: onTimeout,
		createdAt: f.timer.Now(),
	}
	entry.cancelTimer = f.timer.Schedule(lifetime, func() { f.onInterestTimeout(entryId) })
	f.pit[entryId] = entry
	f.mu.Unlock()

	if isLocalTimeout {
		return nil
	}
	if err := f.transport.Send(encoded); err != nil {
		return err
	}
	return nil
}

func (f *Face) onInterestTimeout(entryId uint64) {
	f.mu.Lock()
	entry, ok := f.pit[entryId]
	if !ok {
		f.mu.Unlock()
		return
	}
	delete(f.pit, entryId)
	f.mu.Unlock()

	if entry.onTimeout != nil {
		entry.onTimeout(entry.interest)
	}
}

// RemovePendingInterest cancels entryId's timer and removes it if present.
// If the entry has not been inserted yet (a race with a queued send), the
// removal is recorded so the later insertion observes and skips it
// (spec.md §4.3.4). Idempotent.
func (f *Face) RemovePendingInterest(entryId uint64) {
	f.mu.Lock()
	entry, ok := f.pit[entryId]
	if !ok {
		f.pitRemoved[entryId] = true
		f.mu.Unlock()
		return
	}
	delete(f.pit, entryId)
	f.mu.Unlock()

	if entry.cancelTimer != nil {
		entry.cancelTimer()
	}
}

// PITSize returns the number of currently outstanding PIT entries, for
// tests asserting the scenarios in spec.md §8.
func (f *Face) PITSize() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.pit)
}

// SetInterestFilter installs onInterest for Interests whose name has
// prefix as a prefix. Pure local-table operation (spec.md §4.3.5).
func (f *Face) SetInterestFilter(prefix enc.Name, onInterest OnInterestFunc) uint64 {
	entryId := f.allocId()
	f.mu.Lock()
	defer f.mu.Unlock()
	f.filters = append(f.filters, &interestFilterEntry{
		entryId:    entryId,
		prefix:     prefix.Clone(),
		onInterest: onInterest,
	})
	return entryId
}

// UnsetInterestFilter removes a filter previously installed with
// SetInterestFilter. No-op if entryId is unknown.
func (f *Face) UnsetInterestFilter(entryId uint64) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for i, ent := range f.filters {
		if ent.entryId == entryId {
			f.filters = append(f.filters[:i], f.filters[i+1:]...)
			return
		}
	}
}

// PutData sends a Data packet directly over the transport, for responding
// to an inbound Interest from within an OnInterestFunc.
func (f *Face) PutData(data *enc.Data) error {
	f.mu.Lock()
	state := f.state
	f.mu.Unlock()
	if state != StateOpened {
		return ndn.ErrNotConnected
	}
	encoded := data.Encode()
	if len(encoded) > enc.MaxPacketSize {
		return ndn.ErrEncodedTooLarge
	}
	return f.transport.Send(encoded)
}

// onElement dispatches one complete TLV element received from the
// transport (spec.md §4.3.3). Interest and Data share the same top-level
// type-number space, so the type byte alone disambiguates them.
func (f *Face) onElement(frame []byte) {
	typ, _, ok := enc.PeekElement(frame)
	if !ok {
		return
	}

	switch typ {
	case enc.TypeData:
		data, err := enc.DecodeData(frame)
		if err != nil {
			log.Warn(f, "Failed to decode Data - DROP", "err", err)
			return
		}
		f.dispatchData(data)
	case enc.TypeInterest:
		interest, err := enc.DecodeInterest(frame)
		if err != nil {
			log.Warn(f, "Failed to decode Interest - DROP", "err", err)
			return
		}
		f.dispatchInterest(interest)
	default:
		log.Warn(f, "Unknown top-level element type - DROP", "type", typ)
	}
}

// dispatchData implements spec.md §4.3.3's Data reception: find every PIT
// entry whose Interest matches, remove each, cancel its timer, and invoke
// onData exactly once.
func (f *Face) dispatchData(data *enc.Data) {
	f.mu.Lock()
	matched := make([]*pendingInterest, 0, 2)
	for id, entry := range f.pit {
		if interestMatchesData(entry.interest, data) {
			matched = append(matched, entry)
			delete(f.pit, id)
		}
	}
	f.mu.Unlock()

	for _, entry := range matched {
		if entry.cancelTimer != nil {
			entry.cancelTimer()
		}
		if entry.onData != nil {
			entry.onData(entry.interest, data)
		}
	}
}

// dispatchInterest implements spec.md §4.3.3's Interest reception:
// invoke every matching filter's onInterest, in filter insertion order.
func (f *Face) dispatchInterest(interest *enc.Interest) {
	f.mu.Lock()
	matched := make([]*interestFilterEntry, 0, 2)
	for _, ent := range f.filters {
		if ent.prefix.IsPrefix(interest.NameV) {
			matched = append(matched, ent)
		}
	}
	f.mu.Unlock()

	for _, ent := range matched {
		if ent.onInterest != nil {
			ent.onInterest(interest, ent.prefix)
		}
	}
}

// interestMatchesData applies the prefix-match selector semantics spec.md
// §4.3.3 requires: the stored Interest's name must be a prefix of (or
// equal to) the Data's name. Freshness is the forwarder's responsibility,
// matching the teacher engine's stance in std/engine/basic/engine.go
// ("we don't check MustBeFresh, as it is the job of the cache/forwarder").
func interestMatchesData(interest *enc.Interest, data *enc.Data) bool {
	return interest.NameV.IsPrefix(data.NameV)
}

func isUnderReservedTimeoutPrefix(name enc.Name) bool {
	return reservedTimeoutPrefix.IsPrefix(name)
}

func bytesToNonce(b []byte) uint32 {
	if len(b) < 4 {
		return 0
	}
	return uint32(b[0])<<24 | uint32(b[1])<<16 | uint32(b[2])<<8 | uint32(b[3])
}
