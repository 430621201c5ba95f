// Package keychain provides the narrow collaborator spec.md §1 calls out
// as "assumed available": something that can produce a Signer for a given
// certificate name. The registrar (C5) and command-Interest generator (C4)
// take an ndn.Signer directly; a caller can use a KeyChain to look one up
// and pass it to Face.SetCommandSigningInfo.
package keychain

import (
	enc "github.com/ndncomm/ndn-js/encoding"
	"github.com/ndncomm/ndn-js/ndn"
)

// KeyChain resolves a certificate name to the Signer that should sign
// command Interests for it.
type KeyChain interface {
	// Signer returns the signer for certName, or an error if no such
	// identity/key has been inserted.
	Signer(certName enc.Name) (ndn.Signer, error)
}
