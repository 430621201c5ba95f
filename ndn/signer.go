package ndn

import enc "github.com/ndncomm/ndn-js/encoding"

// SigType identifies the signature algorithm used on a packet, matching the
// teacher's ndn.SigType enumeration (std/security/signer/*.go call sites).
type SigType uint64

const (
	SignatureNone         SigType = 0
	SignatureDigestSha256 SigType = 0
	SignatureSha256WithRsa SigType = 1
	SignatureSha256WithEcdsa SigType = 3
	SignatureHmacWithSha256 SigType = 4
	SignatureEd25519      SigType = 5
)

// Signer is the cryptographic collaborator the command-Interest generator
// (C4) and the registrar (C5) hand signed bytes to. The TLV codec for
// SignatureInfo/SignatureValue is assumed available per spec.md §1 — this
// interface is the narrow contract the Face needs from it.
type Signer interface {
	// Type returns the signature algorithm this signer produces.
	Type() SigType

	// KeyName returns the name of the signing key, or nil for keyless
	// schemes (e.g. DigestSha256).
	KeyName() enc.Name

	// KeyLocator returns the name to place in the KeyLocator field of
	// SignatureInfo, or nil to omit it.
	KeyLocator() enc.Name

	// EstimateSize returns an upper bound on the signature's encoded
	// size, used to size encode buffers before signing.
	EstimateSize() uint

	// Sign computes the signature over the covered wire.
	Sign(covered enc.Wire) ([]byte, error)
}

// SigChecker validates a signature over the covered wire against the given
// Name and SigType. The registrar does not check signatures on forwarder
// ControlResponse Data.
type SigChecker func(name enc.Name, covered enc.Wire, sigType SigType, sigValue []byte) bool
