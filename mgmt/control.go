// Package mgmt implements the command-Interest generator (C4) and the NFD
// management TLV that the prefix registrar (C5, Face.RegisterPrefix in
// package face) uses to talk to the forwarder over signed command Interests. The nested ControlParameters/ControlResponse
// TLV (NFD-assigned type numbers) is implemented here since it is specific
// to this protocol, not the general Interest/Data codec in package
// encoding.
package mgmt

import enc "github.com/ndncomm/ndn-js/encoding"

// NFD-assigned type numbers (NFD Management protocol, ndn-cxx control.tlv).
const (
	typeControlParameters enc.TLNum = 0x68
	typeFaceId            enc.TLNum = 0x69
	typeFlags             enc.TLNum = 0x6c
	typeControlResponse   enc.TLNum = 0x65
	typeStatusCode        enc.TLNum = 0x66
	typeStatusText        enc.TLNum = 0x67
)

// ControlParameters is the request body of an NFD rib register/unregister
// command (spec.md §6). Only Name and Flags are required here.
type ControlParameters struct {
	Name  enc.Name
	Flags uint64
}

// Encode serializes p as a ControlParameters TLV, including its own TL
// header, so it can be embedded directly as a command-Interest name
// component (spec.md §4.5 step 2).
func (p *ControlParameters) Encode() []byte {
	nameLen := p.Name.EncodingLength()
	nameTL := enc.TypeName.EncodingLength() + enc.TLNum(nameLen).EncodingLength() + nameLen

	flagsVal := enc.Nat(p.Flags).Bytes()
	flagsTL := typeFlags.EncodingLength() + enc.TLNum(len(flagsVal)).EncodingLength() + len(flagsVal)

	inner := nameTL + flagsTL
	buf := make([]byte, typeControlParameters.EncodingLength()+enc.TLNum(inner).EncodingLength()+inner)
	pos := typeControlParameters.EncodeInto(buf)
	pos += enc.TLNum(inner).EncodeInto(buf[pos:])
	pos += copy(buf[pos:], p.Name.Bytes())
	pos += typeFlags.EncodeInto(buf[pos:])
	pos += enc.TLNum(len(flagsVal)).EncodeInto(buf[pos:])
	pos += copy(buf[pos:], flagsVal)
	return buf
}

// DecodeControlParameters parses a ControlParameters TLV (including its TL
// header).
func DecodeControlParameters(buf []byte) (*ControlParameters, error) {
	typ, tSize, ok := enc.PeekTLNum(buf)
	if !ok || typ != typeControlParameters {
		return nil, enc.ErrFormat{Msg: "not a ControlParameters TLV"}
	}
	length, lSize, ok := enc.PeekTLNum(buf[tSize:])
	if !ok {
		return nil, enc.ErrFormat{Msg: "truncated ControlParameters length"}
	}
	start := tSize + lSize
	end := start + int(length)
	if end > len(buf) {
		return nil, enc.ErrFormat{Msg: "ControlParameters value runs past buffer"}
	}
	body := buf[start:end]

	ret := &ControlParameters{}
	for len(body) > 0 {
		fTyp, fTSize, ok := enc.PeekTLNum(body)
		if !ok {
			return nil, enc.ErrFormat{Msg: "truncated field type"}
		}
		fLen, fLSize, ok := enc.PeekTLNum(body[fTSize:])
		if !ok {
			return nil, enc.ErrFormat{Msg: "truncated field length"}
		}
		vStart := fTSize + fLSize
		vEnd := vStart + int(fLen)
		if vEnd > len(body) {
			return nil, enc.ErrFormat{Msg: "field value runs past buffer"}
		}
		val := body[vStart:vEnd]

		switch fTyp {
		case enc.TypeName:
			n, err := enc.NameFromBytes(append(prependNameTL(len(val)), val...))
			if err != nil {
				return nil, err
			}
			ret.Name = n
		case typeFlags:
			n, err := enc.ParseNat(val)
			if err != nil {
				return nil, err
			}
			ret.Flags = uint64(n)
		}
		body = body[vEnd:]
	}
	return ret, nil
}

func prependNameTL(valLen int) []byte {
	lenTL := enc.TLNum(valLen)
	buf := make([]byte, enc.TypeName.EncodingLength()+lenTL.EncodingLength())
	p := enc.TypeName.EncodeInto(buf)
	lenTL.EncodeInto(buf[p:])
	return buf
}

// ControlResponse is the Data content returned by a successful or failed
// NFD rib register/unregister command (spec.md §4.5 step 5, §6).
type ControlResponse struct {
	StatusCode int
	StatusText string
}

// DecodeControlResponse parses a ControlResponse TLV (including its TL
// header) out of a Data packet's Content.
func DecodeControlResponse(buf []byte) (*ControlResponse, error) {
	typ, tSize, ok := enc.PeekTLNum(buf)
	if !ok || typ != typeControlResponse {
		return nil, enc.ErrFormat{Msg: "not a ControlResponse TLV"}
	}
	length, lSize, ok := enc.PeekTLNum(buf[tSize:])
	if !ok {
		return nil, enc.ErrFormat{Msg: "truncated ControlResponse length"}
	}
	start := tSize + lSize
	end := start + int(length)
	if end > len(buf) {
		return nil, enc.ErrFormat{Msg: "ControlResponse value runs past buffer"}
	}
	body := buf[start:end]

	ret := &ControlResponse{}
	for len(body) > 0 {
		fTyp, fTSize, ok := enc.PeekTLNum(body)
		if !ok {
			return nil, enc.ErrFormat{Msg: "truncated field type"}
		}
		fLen, fLSize, ok := enc.PeekTLNum(body[fTSize:])
		if !ok {
			return nil, enc.ErrFormat{Msg: "truncated field length"}
		}
		vStart := fTSize + fLSize
		vEnd := vStart + int(fLen)
		if vEnd > len(body) {
			return nil, enc.ErrFormat{Msg: "field value runs past buffer"}
		}
		val := body[vStart:vEnd]

		switch fTyp {
		case typeStatusCode:
			n, err := enc.ParseNat(val)
			if err != nil {
				return nil, err
			}
			ret.StatusCode = int(n)
		case typeStatusText:
			ret.StatusText = string(val)
		}
		body = body[vEnd:]
	}
	return ret, nil
}

// EncodeControlResponse serializes a ControlResponse TLV, used by tests
// that simulate forwarder replies.
func EncodeControlResponse(r *ControlResponse) []byte {
	codeVal := enc.Nat(uint64(r.StatusCode)).Bytes()
	codeTL := typeStatusCode.EncodingLength() + enc.TLNum(len(codeVal)).EncodingLength() + len(codeVal)

	textVal := []byte(r.StatusText)
	textTL := typeStatusText.EncodingLength() + enc.TLNum(len(textVal)).EncodingLength() + len(textVal)

	inner := codeTL + textTL
	buf := make([]byte, typeControlResponse.EncodingLength()+enc.TLNum(inner).EncodingLength()+inner)
	pos := typeControlResponse.EncodeInto(buf)
	pos += enc.TLNum(inner).EncodeInto(buf[pos:])
	pos += typeStatusCode.EncodeInto(buf[pos:])
	pos += enc.TLNum(len(codeVal)).EncodeInto(buf[pos:])
	pos += copy(buf[pos:], codeVal)
	pos += typeStatusText.EncodeInto(buf[pos:])
	pos += enc.TLNum(len(textVal)).EncodeInto(buf[pos:])
	pos += copy(buf[pos:], textVal)
	return buf
}
