package encoding

import (
	"time"

	"github.com/ndncomm/ndn-js/types/optional"
)

// TLV type numbers for the subset of Interest fields this module needs
// (NDN Packet Format v0.3 §6, plus the legacy ChildSelector selector
// spec.md §3/§4.6 requires for version discovery).
const (
	TypeInterest        TLNum = 0x05
	TypeChildSelector    TLNum = 0x11
	TypeMustBeFresh      TLNum = 0x12
	TypeNonce            TLNum = 0x0a
	TypeInterestLifetime TLNum = 0x0c
	TypeForwardingHint   TLNum = 0x1e
)

// DefaultInterestLifetime is used when an Interest carries no explicit
// InterestLifetime (spec.md §3).
const DefaultInterestLifetime = 4000 * time.Millisecond

// Interest models the fields spec.md §3 lists: a Name plus selectors.
// Nonce is represented as an Optional so the zero value ("unset") is
// distinguishable from an explicit nonce of 0.
type Interest struct {
	NameV Name

	ChildSelector  optional.Optional[uint64]
	MustBeFresh    bool
	Nonce          optional.Optional[uint32]
	Lifetime       optional.Optional[time.Duration]
	ForwardingHint Name
}

// Name returns the Interest's name.
func (i *Interest) Name() Name { return i.NameV }

// LifetimeOrDefault returns the configured lifetime, or the 4000ms default
// per spec.md §3.
func (i *Interest) LifetimeOrDefault() time.Duration {
	return i.Lifetime.GetOr(DefaultInterestLifetime)
}

// Clone returns a defensive deep copy of i, as required before mutating a
// caller-supplied template (spec.md §4.3.2 step 1).
func (i *Interest) Clone() *Interest {
	ret := &Interest{
		NameV:         i.NameV.Clone(),
		ChildSelector: i.ChildSelector,
		MustBeFresh:   i.MustBeFresh,
		Nonce:         i.Nonce,
		Lifetime:      i.Lifetime,
	}
	if i.ForwardingHint != nil {
		ret.ForwardingHint = i.ForwardingHint.Clone()
	}
	return ret
}

// SetName replaces the Interest's name and invalidates its Nonce, per
// spec.md §3 ("changing any selector MUST invalidate the Nonce").
func (i *Interest) SetName(n Name) {
	i.NameV = n
	i.Nonce.Clear()
}

// SetMustBeFresh sets MustBeFresh and invalidates the Nonce.
func (i *Interest) SetMustBeFresh(v bool) {
	i.MustBeFresh = v
	i.Nonce.Clear()
}

// SetChildSelector sets ChildSelector and invalidates the Nonce.
func (i *Interest) SetChildSelector(v uint64) {
	i.ChildSelector.Set(v)
	i.Nonce.Clear()
}

// SetForwardingHint sets ForwardingHint and invalidates the Nonce.
func (i *Interest) SetForwardingHint(n Name) {
	i.ForwardingHint = n
	i.Nonce.Clear()
}

// EncodingLength returns the byte length of i's TLV encoding.
func (i *Interest) EncodingLength() int {
	inner := i.innerLength()
	return int(TypeInterest.EncodingLength()) + TLNum(inner).EncodingLength() + inner
}

func (i *Interest) innerLength() int {
	l := TypeName.EncodingLength() + TLNum(i.NameV.EncodingLength()).EncodingLength() + i.NameV.EncodingLength()
	if v, ok := i.ChildSelector.Get(); ok {
		val := Nat(v).Bytes()
		l += TypeChildSelector.EncodingLength() + TLNum(len(val)).EncodingLength() + len(val)
	}
	if i.MustBeFresh {
		l += TypeMustBeFresh.EncodingLength() + TLNum(0).EncodingLength()
	}
	if len(i.ForwardingHint) > 0 {
		fhLen := i.ForwardingHint.EncodingLength()
		fhNameTL := TypeName.EncodingLength() + TLNum(fhLen).EncodingLength() + fhLen
		l += TypeForwardingHint.EncodingLength() + TLNum(fhNameTL).EncodingLength() + fhNameTL
	}
	if v, ok := i.Nonce.Get(); ok {
		l += TypeNonce.EncodingLength() + TLNum(4).EncodingLength() + 4
		_ = v
	}
	if v, ok := i.Lifetime.Get(); ok {
		val := Nat(uint64(v / time.Millisecond)).Bytes()
		l += TypeInterestLifetime.EncodingLength() + TLNum(len(val)).EncodingLength() + len(val)
	}
	return l
}

// Encode serializes i to its full TLV encoding (including the Interest
// TL header). The caller is responsible for ensuring a Nonce is set first
// (the Face regenerates one at send time whenever absent).
func (i *Interest) Encode() []byte {
	inner := i.innerLength()
	buf := make([]byte, TypeInterest.EncodingLength()+TLNum(inner).EncodingLength()+inner)
	pos := TypeInterest.EncodeInto(buf)
	pos += TLNum(inner).EncodeInto(buf[pos:])

	nameBytes := i.NameV.Bytes()
	pos += copy(buf[pos:], nameBytes)

	if v, ok := i.ChildSelector.Get(); ok {
		val := Nat(v).Bytes()
		pos += TypeChildSelector.EncodeInto(buf[pos:])
		pos += TLNum(len(val)).EncodeInto(buf[pos:])
		pos += copy(buf[pos:], val)
	}
	if i.MustBeFresh {
		pos += TypeMustBeFresh.EncodeInto(buf[pos:])
		pos += TLNum(0).EncodeInto(buf[pos:])
	}
	if len(i.ForwardingHint) > 0 {
		fhBytes := i.ForwardingHint.Bytes()
		pos += TypeForwardingHint.EncodeInto(buf[pos:])
		pos += TLNum(len(fhBytes)).EncodeInto(buf[pos:])
		pos += copy(buf[pos:], fhBytes)
	}
	if v, ok := i.Nonce.Get(); ok {
		pos += TypeNonce.EncodeInto(buf[pos:])
		pos += TLNum(4).EncodeInto(buf[pos:])
		buf[pos] = byte(v >> 24)
		buf[pos+1] = byte(v >> 16)
		buf[pos+2] = byte(v >> 8)
		buf[pos+3] = byte(v)
		pos += 4
	}
	if v, ok := i.Lifetime.Get(); ok {
		val := Nat(uint64(v / time.Millisecond)).Bytes()
		pos += TypeInterestLifetime.EncodeInto(buf[pos:])
		pos += TLNum(len(val)).EncodeInto(buf[pos:])
		pos += copy(buf[pos:], val)
	}
	return buf
}

// DecodeInterest parses a fully TLV-encoded Interest (including its TL
// header).
func DecodeInterest(buf []byte) (*Interest, error) {
	typ, tSize, ok := PeekTLNum(buf)
	if !ok || typ != TypeInterest {
		return nil, ErrFormat{"not an Interest TLV"}
	}
	length, lSize, ok := PeekTLNum(buf[tSize:])
	if !ok {
		return nil, ErrFormat{"truncated Interest length"}
	}
	start := tSize + lSize
	end := start + int(length)
	if end > len(buf) {
		return nil, ErrFormat{"Interest value runs past buffer"}
	}
	body := buf[start:end]

	ret := &Interest{}
	for len(body) > 0 {
		fTyp, fTSize, ok := PeekTLNum(body)
		if !ok {
			return nil, ErrFormat{"truncated field type"}
		}
		fLen, fLSize, ok := PeekTLNum(body[fTSize:])
		if !ok {
			return nil, ErrFormat{"truncated field length"}
		}
		vStart := fTSize + fLSize
		vEnd := vStart + int(fLen)
		if vEnd > len(body) {
			return nil, ErrFormat{"field value runs past buffer"}
		}
		val := body[vStart:vEnd]

		switch fTyp {
		case TypeName:
			n, err := componentsFromBytes(val)
			if err != nil {
				return nil, err
			}
			ret.NameV = n
		case TypeChildSelector:
			n, err := ParseNat(val)
			if err != nil {
				return nil, err
			}
			ret.ChildSelector.Set(uint64(n))
		case TypeMustBeFresh:
			ret.MustBeFresh = true
		case TypeForwardingHint:
			n, err := NameFromBytes(val)
			if err != nil {
				return nil, err
			}
			ret.ForwardingHint = n
		case TypeNonce:
			if len(val) != 4 {
				return nil, ErrFormat{"nonce must be 4 bytes"}
			}
			ret.Nonce.Set(uint32(val[0])<<24 | uint32(val[1])<<16 | uint32(val[2])<<8 | uint32(val[3]))
		case TypeInterestLifetime:
			n, err := ParseNat(val)
			if err != nil {
				return nil, err
			}
			ret.Lifetime.Set(time.Duration(n) * time.Millisecond)
		}
		body = body[vEnd:]
	}
	return ret, nil
}
