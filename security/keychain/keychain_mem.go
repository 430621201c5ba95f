package keychain

import (
	enc "github.com/ndncomm/ndn-js/encoding"
	"github.com/ndncomm/ndn-js/ndn"
)

// MemKeyChain is an in-memory KeyChain, grounded on the teacher's
// std/security/keychain in-memory test fixture. It keeps no certificates or
// persistent identities, only a name-to-Signer map, which is enough to
// exercise command-Interest signing (C4) and prefix registration (C5) in
// tests and simple deployments without real certificate storage.
type MemKeyChain struct {
	signers map[string]ndn.Signer
}

// NewMemKeyChain constructs an empty in-memory keychain.
func NewMemKeyChain() *MemKeyChain {
	return &MemKeyChain{signers: make(map[string]ndn.Signer)}
}

// Insert associates certName with signer, overwriting any prior signer for
// the same name.
func (k *MemKeyChain) Insert(certName enc.Name, signer ndn.Signer) {
	k.signers[certName.String()] = signer
}

// Signer implements KeyChain.
func (k *MemKeyChain) Signer(certName enc.Name) (ndn.Signer, error) {
	s, ok := k.signers[certName.String()]
	if !ok {
		return nil, ndn.ErrNotConfigured
	}
	return s, nil
}
