package encoding

import "github.com/ndncomm/ndn-js/types/optional"

// TLV type numbers for Data and its MetaInfo (NDN Packet Format v0.3 §6.2).
const (
	TypeData            TLNum = 0x06
	TypeMetaInfo        TLNum = 0x14
	TypeContentType     TLNum = 0x18
	TypeFreshnessPeriod TLNum = 0x19
	TypeFinalBlockId    TLNum = 0x1a
	TypeContent         TLNum = 0x15
	TypeSignatureInfo   TLNum = 0x16
	TypeSignatureValue  TLNum = 0x17
)

// MetaInfo carries Data's ContentType, FreshnessPeriod and FinalBlockId
// (spec.md §3). Only the fields the fetchers/Face need are modeled.
type MetaInfo struct {
	ContentType     optional.Optional[uint64]
	FreshnessPeriod optional.Optional[uint64] // milliseconds
	FinalBlockId    optional.Optional[Component]
}

// Data models the fields spec.md §3 lists: a Name, Content, and MetaInfo.
// SignatureInfo/SignatureValue are carried as opaque bytes since signature
// verification itself is out of scope (spec.md §1).
type Data struct {
	NameV    Name
	Meta     MetaInfo
	Content  []byte
	SigInfo  []byte
	SigValue []byte
}

// Name returns the Data's name.
func (d *Data) Name() Name { return d.NameV }

// IsFinalSegment reports whether d is the last segment of an object: its
// FinalBlockId is set and equal to the final component of its own Name
// (spec.md §3, §4.6).
func (d *Data) IsFinalSegment() bool {
	fb, ok := d.Meta.FinalBlockId.Get()
	if !ok {
		return false
	}
	return fb.Equal(d.NameV.At(-1))
}

func (d *Data) innerLength() int {
	nameLen := d.NameV.EncodingLength()
	l := TypeName.EncodingLength() + TLNum(nameLen).EncodingLength() + nameLen

	metaLen := d.metaInnerLength()
	l += TypeMetaInfo.EncodingLength() + TLNum(metaLen).EncodingLength() + metaLen

	l += TypeContent.EncodingLength() + TLNum(len(d.Content)).EncodingLength() + len(d.Content)

	if len(d.SigInfo) > 0 {
		l += TypeSignatureInfo.EncodingLength() + TLNum(len(d.SigInfo)).EncodingLength() + len(d.SigInfo)
	}
	if len(d.SigValue) > 0 {
		l += TypeSignatureValue.EncodingLength() + TLNum(len(d.SigValue)).EncodingLength() + len(d.SigValue)
	}
	return l
}

func (d *Data) metaInnerLength() int {
	l := 0
	if v, ok := d.Meta.ContentType.Get(); ok {
		val := Nat(v).Bytes()
		l += TypeContentType.EncodingLength() + TLNum(len(val)).EncodingLength() + len(val)
	}
	if v, ok := d.Meta.FreshnessPeriod.Get(); ok {
		val := Nat(v).Bytes()
		l += TypeFreshnessPeriod.EncodingLength() + TLNum(len(val)).EncodingLength() + len(val)
	}
	if fb, ok := d.Meta.FinalBlockId.Get(); ok {
		fbLen := fb.EncodingLength()
		l += TypeFinalBlockId.EncodingLength() + TLNum(fbLen).EncodingLength() + fbLen
	}
	return l
}

// Encode serializes d to its full TLV encoding (including the Data TL
// header).
func (d *Data) Encode() []byte {
	inner := d.innerLength()
	buf := make([]byte, TypeData.EncodingLength()+TLNum(inner).EncodingLength()+inner)
	pos := TypeData.EncodeInto(buf)
	pos += TLNum(inner).EncodeInto(buf[pos:])

	pos += copy(buf[pos:], d.NameV.Bytes())

	metaLen := d.metaInnerLength()
	pos += TypeMetaInfo.EncodeInto(buf[pos:])
	pos += TLNum(metaLen).EncodeInto(buf[pos:])
	if v, ok := d.Meta.ContentType.Get(); ok {
		val := Nat(v).Bytes()
		pos += TypeContentType.EncodeInto(buf[pos:])
		pos += TLNum(len(val)).EncodeInto(buf[pos:])
		pos += copy(buf[pos:], val)
	}
	if v, ok := d.Meta.FreshnessPeriod.Get(); ok {
		val := Nat(v).Bytes()
		pos += TypeFreshnessPeriod.EncodeInto(buf[pos:])
		pos += TLNum(len(val)).EncodeInto(buf[pos:])
		pos += copy(buf[pos:], val)
	}
	if fb, ok := d.Meta.FinalBlockId.Get(); ok {
		fbBytes := fb.Bytes()
		pos += TypeFinalBlockId.EncodeInto(buf[pos:])
		pos += TLNum(len(fbBytes)).EncodeInto(buf[pos:])
		pos += copy(buf[pos:], fbBytes)
	}

	pos += TypeContent.EncodeInto(buf[pos:])
	pos += TLNum(len(d.Content)).EncodeInto(buf[pos:])
	pos += copy(buf[pos:], d.Content)

	if len(d.SigInfo) > 0 {
		pos += TypeSignatureInfo.EncodeInto(buf[pos:])
		pos += TLNum(len(d.SigInfo)).EncodeInto(buf[pos:])
		pos += copy(buf[pos:], d.SigInfo)
	}
	if len(d.SigValue) > 0 {
		pos += TypeSignatureValue.EncodeInto(buf[pos:])
		pos += TLNum(len(d.SigValue)).EncodeInto(buf[pos:])
		pos += copy(buf[pos:], d.SigValue)
	}
	return buf
}

// DecodeData parses a fully TLV-encoded Data packet (including its TL
// header).
func DecodeData(buf []byte) (*Data, error) {
	typ, tSize, ok := PeekTLNum(buf)
	if !ok || typ != TypeData {
		return nil, ErrFormat{"not a Data TLV"}
	}
	length, lSize, ok := PeekTLNum(buf[tSize:])
	if !ok {
		return nil, ErrFormat{"truncated Data length"}
	}
	start := tSize + lSize
	end := start + int(length)
	if end > len(buf) {
		return nil, ErrFormat{"Data value runs past buffer"}
	}
	body := buf[start:end]

	ret := &Data{}
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
		case TypeMetaInfo:
			if err := ret.decodeMetaInfo(val); err != nil {
				return nil, err
			}
		case TypeContent:
			ret.Content = append([]byte(nil), val...)
		case TypeSignatureInfo:
			ret.SigInfo = append([]byte(nil), val...)
		case TypeSignatureValue:
			ret.SigValue = append([]byte(nil), val...)
		}
		body = body[vEnd:]
	}
	return ret, nil
}

func (d *Data) decodeMetaInfo(buf []byte) error {
	for len(buf) > 0 {
		fTyp, fTSize, ok := PeekTLNum(buf)
		if !ok {
			return ErrFormat{"truncated metainfo field type"}
		}
		fLen, fLSize, ok := PeekTLNum(buf[fTSize:])
		if !ok {
			return ErrFormat{"truncated metainfo field length"}
		}
		vStart := fTSize + fLSize
		vEnd := vStart + int(fLen)
		if vEnd > len(buf) {
			return ErrFormat{"metainfo field value runs past buffer"}
		}
		val := buf[vStart:vEnd]

		switch fTyp {
		case TypeContentType:
			n, err := ParseNat(val)
			if err != nil {
				return err
			}
			d.Meta.ContentType.Set(uint64(n))
		case TypeFreshnessPeriod:
			n, err := ParseNat(val)
			if err != nil {
				return err
			}
			d.Meta.FreshnessPeriod.Set(uint64(n))
		case TypeFinalBlockId:
			c, _, err := ReadComponent(val)
			if err != nil {
				return err
			}
			d.Meta.FinalBlockId.Set(c)
		}
		buf = buf[vEnd:]
	}
	return nil
}
