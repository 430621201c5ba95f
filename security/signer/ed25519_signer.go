package signer

import (
	"crypto/ed25519"
	"crypto/rand"

	enc "github.com/ndncomm/ndn-js/encoding"
	"github.com/ndncomm/ndn-js/ndn"
)

// ed25519Signer signs with an Ed25519 private key under a given key name,
// the realistic signer used by a configured keychain identity for
// registerPrefix's command Interests (spec.md §4.5 step 3).
type ed25519Signer struct {
	name enc.Name
	key  ed25519.PrivateKey
}

func (s *ed25519Signer) Type() ndn.SigType    { return ndn.SignatureEd25519 }
func (s *ed25519Signer) KeyName() enc.Name    { return s.name }
func (s *ed25519Signer) KeyLocator() enc.Name { return s.name }
func (s *ed25519Signer) EstimateSize() uint   { return ed25519.SignatureSize }

func (s *ed25519Signer) Sign(covered enc.Wire) ([]byte, error) {
	return ed25519.Sign(s.key, covered.Join()), nil
}

// NewEd25519Signer wraps an existing Ed25519 private key under keyName.
func NewEd25519Signer(keyName enc.Name, key ed25519.PrivateKey) ndn.Signer {
	return &ed25519Signer{name: keyName, key: key}
}

// GenEd25519Signer generates a fresh Ed25519 keypair and wraps the private
// half under keyName, returning the signer and the raw public key for
// certificate issuance.
func GenEd25519Signer(keyName enc.Name) (ndn.Signer, ed25519.PublicKey, error) {
	pub, priv, err := ed25519.GenerateKey(rand.Reader)
	if err != nil {
		return nil, nil, err
	}
	return &ed25519Signer{name: keyName, key: priv}, pub, nil
}

// ValidateEd25519 checks sigValue against pub over the covered bytes.
func ValidateEd25519(covered enc.Wire, sigValue []byte, pub ed25519.PublicKey) bool {
	return ed25519.Verify(pub, covered.Join(), sigValue)
}
