// Package signer provides the narrow ndn.Signer implementations the
// command-Interest generator (C4) and registrar (C5) exercise in tests and
// simple deployments, grounded on the teacher's std/security/signer.
package signer

import (
	"crypto/sha256"

	enc "github.com/ndncomm/ndn-js/encoding"
	"github.com/ndncomm/ndn-js/ndn"
)

// sha256Signer signs by hashing the covered bytes with SHA-256. It carries
// no key material, so it authenticates only against tampering, not origin —
// useful for tests and for forwarders that only require a well-formed
// signed Interest.
type sha256Signer struct{}

func (sha256Signer) Type() ndn.SigType   { return ndn.SignatureDigestSha256 }
func (sha256Signer) KeyName() enc.Name   { return nil }
func (sha256Signer) KeyLocator() enc.Name { return nil }
func (sha256Signer) EstimateSize() uint  { return 32 }

func (sha256Signer) Sign(covered enc.Wire) ([]byte, error) {
	h := sha256.New()
	for _, buf := range covered {
		if _, err := h.Write(buf); err != nil {
			return nil, err
		}
	}
	return h.Sum(nil), nil
}

// NewSha256Signer creates a signer that uses DigestSha256.
func NewSha256Signer() ndn.Signer {
	return sha256Signer{}
}
