package face

import (
	"time"

	enc "github.com/ndncomm/ndn-js/encoding"
	"github.com/ndncomm/ndn-js/mgmt"
	"github.com/ndncomm/ndn-js/ndn"
)

// Well-known NFD command prefixes (spec.md §6).
var (
	localRegisterPrefix, _   = enc.NameFromString("/localhost/nfd/rib/register")
	localUnregisterPrefix, _ = enc.NameFromString("/localhost/nfd/rib/unregister")
	remoteRegisterPrefix, _  = enc.NameFromString("/localhop/nfd/rib/register")
	remoteUnregisterPrefix, _ = enc.NameFromString("/localhop/nfd/rib/unregister")

	localCommandLifetime  = 2000 * time.Millisecond
	remoteCommandLifetime = 4000 * time.Millisecond
)

// OnRegisterFailedFunc is invoked when a prefix registration does not
// succeed (spec.md §4.5 step 5/6).
type OnRegisterFailedFunc func(prefix enc.Name, reason error)

// RegisterPrefix registers prefix with the forwarder's RIB (spec.md §4.5).
// onInterest, if non-nil, is installed as an interest filter once the
// forwarder acknowledges success. Returns the registered-prefix entryId
// immediately; success/failure is reported asynchronously via onSuccess/
// onFailed.
func (f *Face) RegisterPrefix(
	prefix enc.Name,
	onInterest OnInterestFunc,
	onSuccess func(prefix enc.Name),
	onFailed OnRegisterFailedFunc,
) (uint64, error) {
	f.mu.Lock()
	signer := f.commandSigner
	certName := f.commandCertName
	local := f.transport.IsLocal()
	f.mu.Unlock()

	if signer == nil {
		return 0, ndn.ErrNotConfigured
	}
	_ = certName // certificate name is carried by the signer's KeyLocator

	entryId := f.allocId()

	commandPrefix := remoteRegisterPrefix
	lifetime := remoteCommandLifetime
	if local {
		commandPrefix = localRegisterPrefix
		lifetime = localCommandLifetime
	}

	params := &mgmt.ControlParameters{Name: prefix}
	commandName := commandPrefix.Append(enc.NewGenericBytesComponent(params.Encode()))

	cmdInterest, err := f.cmdGen.MakeCommandInterest(commandName, signer, f.timer, lifetime)
	if err != nil {
		return 0, err
	}

	_, err = f.ExpressInterest(cmdInterest, func(_ *enc.Interest, data *enc.Data) {
		resp, derr := mgmt.DecodeControlResponse(data.Content)
		if derr != nil {
			if onFailed != nil {
				onFailed(prefix, ndn.ErrRegistrationFailed{Prefix: prefix.String(), DecodeErr: derr})
			}
			return
		}
		if resp.StatusCode != 200 {
			if onFailed != nil {
				onFailed(prefix, ndn.ErrRegistrationFailed{Prefix: prefix.String(), StatusCode: resp.StatusCode})
			}
			return
		}

		var filterId uint64
		if onInterest != nil {
			filterId = f.SetInterestFilter(prefix, onInterest)
		}

		f.mu.Lock()
		f.prefixes[entryId] = &registeredPrefixEntry{
			entryId:         entryId,
			prefix:          prefix.Clone(),
			relatedFilterId: filterId,
		}
		f.mu.Unlock()

		if onSuccess != nil {
			onSuccess(prefix)
		}
	}, func(_ *enc.Interest) {
		if onFailed != nil {
			onFailed(prefix, ndn.ErrRegistrationFailed{Prefix: prefix.String(), Timeout: true})
		}
	})
	if err != nil {
		return 0, err
	}

	return entryId, nil
}

// RemoveRegisteredPrefix removes a registered-prefix entry and unsets its
// related interest filter, if any, then best-effort notifies the forwarder
// over its control protocol (spec.md §4.5). The local table update is
// unconditional; the forwarder round trip is fire-and-forget since callers
// have no failure channel for unregistration.
func (f *Face) RemoveRegisteredPrefix(entryId uint64) {
	f.mu.Lock()
	entry, ok := f.prefixes[entryId]
	if ok {
		delete(f.prefixes, entryId)
	}
	signer := f.commandSigner
	local := f.transport.IsLocal()
	f.mu.Unlock()

	if !ok {
		return
	}
	if entry.relatedFilterId != 0 {
		f.UnsetInterestFilter(entry.relatedFilterId)
	}

	if signer == nil {
		return
	}

	commandPrefix := remoteUnregisterPrefix
	lifetime := remoteCommandLifetime
	if local {
		commandPrefix = localUnregisterPrefix
		lifetime = localCommandLifetime
	}

	params := &mgmt.ControlParameters{Name: entry.prefix}
	commandName := commandPrefix.Append(enc.NewGenericBytesComponent(params.Encode()))

	cmdInterest, err := f.cmdGen.MakeCommandInterest(commandName, signer, f.timer, lifetime)
	if err != nil {
		return
	}
	_, _ = f.ExpressInterest(cmdInterest, nil, nil)
}
