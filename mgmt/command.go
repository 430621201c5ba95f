package mgmt

import (
	"encoding/binary"
	"sync"
	"time"

	enc "github.com/ndncomm/ndn-js/encoding"
	"github.com/ndncomm/ndn-js/ndn"
)

// NFD-assigned type numbers for the SignatureInfo carried as a command
// Interest name component (spec.md §4.4, §6).
const (
	typeSignatureType enc.TLNum = 0x1b
	typeKeyLocator    enc.TLNum = 0x1c
)

// CommandInterestGenerator appends a strictly-monotonic timestamp and a
// random nonce to an Interest name, then asks a Signer to produce
// SignatureInfo/SignatureValue components (spec.md §4.4). One generator
// instance must be shared across all commands signed by the same key, so
// that the monotone-timestamp replay-protection invariant holds.
type CommandInterestGenerator struct {
	mu          sync.Mutex
	lastTimeMs  int64
}

// NewCommandInterestGenerator constructs an empty generator.
func NewCommandInterestGenerator() *CommandInterestGenerator {
	return &CommandInterestGenerator{}
}

// nextTimestamp returns a millisecond timestamp strictly greater than the
// last one this generator emitted, bumping by 1ms if wall-clock has not
// advanced (spec.md §4.4).
func (g *CommandInterestGenerator) nextTimestamp(now time.Time) int64 {
	g.mu.Lock()
	defer g.mu.Unlock()

	ts := now.UnixMilli()
	if ts <= g.lastTimeMs {
		ts = g.lastTimeMs + 1
	}
	g.lastTimeMs = ts
	return ts
}

// MakeCommandInterest builds a fully signed command Interest: name followed
// by Timestamp, Nonce, SignatureInfo and SignatureValue components, in that
// order (spec.md §6). lifetime is set as the Interest's InterestLifetime.
func (g *CommandInterestGenerator) MakeCommandInterest(
	name enc.Name,
	signer ndn.Signer,
	timer ndn.Timer,
	lifetime time.Duration,
) (*enc.Interest, error) {
	ts := g.nextTimestamp(timer.Now())

	tsBytes := make([]byte, 8)
	binary.BigEndian.PutUint64(tsBytes, uint64(ts))
	tsComp := enc.NewGenericBytesComponent(tsBytes)

	nonce := timer.Nonce()
	nonceBytes := make([]byte, 8)
	copy(nonceBytes, nonce)
	nonceComp := enc.NewGenericBytesComponent(nonceBytes)

	signedName := name.Append(tsComp, nonceComp)

	sigInfoBytes := encodeSignatureInfo(signer.Type(), signer.KeyLocator())
	sigInfoComp := enc.NewGenericBytesComponent(sigInfoBytes)
	toSign := signedName.Append(sigInfoComp)

	sigValue, err := signer.Sign(enc.Wire{toSign.Bytes()})
	if err != nil {
		return nil, err
	}
	sigValueComp := enc.NewGenericBytesComponent(sigValue)

	finalName := toSign.Append(sigValueComp)

	interest := &enc.Interest{NameV: finalName, MustBeFresh: true}
	interest.Lifetime.Set(lifetime)
	interest.Nonce.Set(randUint32(nonce))
	return interest, nil
}

func randUint32(nonce []byte) uint32 {
	if len(nonce) < 4 {
		return 0
	}
	return uint32(nonce[0])<<24 | uint32(nonce[1])<<16 | uint32(nonce[2])<<8 | uint32(nonce[3])
}

// encodeSignatureInfo serializes {SignatureType, KeyLocator?} as a compact
// TLV blob, matching the fields spec.md §4.4/§6 requires of a command
// Interest's SignatureInfo component.
func encodeSignatureInfo(sigType ndn.SigType, keyLocator enc.Name) []byte {
	typeVal := enc.Nat(uint64(sigType)).Bytes()
	typeTL := typeSignatureType.EncodingLength() + enc.TLNum(len(typeVal)).EncodingLength() + len(typeVal)

	var klBytes []byte
	klTL := 0
	if len(keyLocator) > 0 {
		klBytes = keyLocator.Bytes()
		klTL = typeKeyLocator.EncodingLength() + enc.TLNum(len(klBytes)).EncodingLength() + len(klBytes)
	}

	buf := make([]byte, typeTL+klTL)
	pos := typeSignatureType.EncodeInto(buf)
	pos += enc.TLNum(len(typeVal)).EncodeInto(buf[pos:])
	pos += copy(buf[pos:], typeVal)
	if klTL > 0 {
		pos += typeKeyLocator.EncodeInto(buf[pos:])
		pos += enc.TLNum(len(klBytes)).EncodeInto(buf[pos:])
		pos += copy(buf[pos:], klBytes)
	}
	return buf
}

// DecodeSignatureInfo parses the bytes produced by encodeSignatureInfo.
func DecodeSignatureInfo(buf []byte) (sigType ndn.SigType, keyLocator enc.Name, err error) {
	for len(buf) > 0 {
		fTyp, fTSize, ok := enc.PeekTLNum(buf)
		if !ok {
			return 0, nil, enc.ErrFormat{Msg: "truncated field type"}
		}
		fLen, fLSize, ok := enc.PeekTLNum(buf[fTSize:])
		if !ok {
			return 0, nil, enc.ErrFormat{Msg: "truncated field length"}
		}
		vStart := fTSize + fLSize
		vEnd := vStart + int(fLen)
		if vEnd > len(buf) {
			return 0, nil, enc.ErrFormat{Msg: "field value runs past buffer"}
		}
		val := buf[vStart:vEnd]

		switch fTyp {
		case typeSignatureType:
			n, perr := enc.ParseNat(val)
			if perr != nil {
				return 0, nil, perr
			}
			sigType = ndn.SigType(n)
		case typeKeyLocator:
			n, perr := enc.NameFromBytes(val)
			if perr != nil {
				return 0, nil, perr
			}
			keyLocator = n
		}
		buf = buf[vEnd:]
	}
	return sigType, keyLocator, nil
}
