package paa

import "fmt"

// ChannelSource names an input channel for a swizzle rule.
type ChannelSource uint8

const (
	SourceAlpha ChannelSource = 0
	SourceRed   ChannelSource = 1
	SourceGreen ChannelSource = 2
	SourceBlue  ChannelSource = 3
)

// rgbaIndex maps a source to its offset within an RGBA pixel.
func (s ChannelSource) rgbaIndex() int {
	switch s {
	case SourceRed:
		return 0
	case SourceGreen:
		return 1
	case SourceBlue:
		return 2
	}
	return 3
}

// ChannelRule decides one output channel: either a constant fill or a
// source channel, optionally negated.
type ChannelRule struct {
	Fill      bool
	FillValue uint8 // 0x00 or 0xFF
	Source    ChannelSource
	Negate    bool
}

func (r ChannelRule) eval(px *[4]uint8) uint8 {
	if r.Fill {
		return r.FillValue
	}
	v := px[r.Source.rgbaIndex()]
	if r.Negate {
		v = 255 - v
	}
	return v
}

// toByte packs the rule into its wire form. Bit 3 selects fill rules;
// source rules carry the negate flag in bit 2 and the source in bits 0-1,
// fill rules carry the value selector in bits 0-1 (0 = 0xFF, 1 = 0x00).
func (r ChannelRule) toByte() byte {
	if r.Fill {
		b := byte(0x08)
		if r.FillValue == 0x00 {
			b |= 0x01
		}
		return b
	}
	b := byte(r.Source) & 0x03
	if r.Negate {
		b |= 0x04
	}
	return b
}

func ruleFromByte(b byte) (ChannelRule, error) {
	if b&0x08 != 0 {
		switch b & 0x03 {
		case 0:
			return ChannelRule{Fill: true, FillValue: 0xFF}, nil
		case 1:
			return ChannelRule{Fill: true, FillValue: 0x00}, nil
		}
		return ChannelRule{}, fmt.Errorf("%w: fill selector %#02x", ErrUnexpectedTagg, b)
	}
	return ChannelRule{
		Source: ChannelSource(b & 0x03),
		Negate: b&0x04 != 0,
	}, nil
}

// ParseChannelRule parses the configuration syntax used by the texture
// conversion settings: "A", "R", "G", "B", the negated forms "1-A" etc.,
// and the constant fills "0" and "1".
func ParseChannelRule(s string) (ChannelRule, error) {
	switch s {
	case "0":
		return ChannelRule{Fill: true, FillValue: 0x00}, nil
	case "1":
		return ChannelRule{Fill: true, FillValue: 0xFF}, nil
	}

	negate := false
	if len(s) == 3 && s[0] == '1' && s[1] == '-' {
		negate = true
		s = s[2:]
	}
	if len(s) != 1 {
		return ChannelRule{}, fmt.Errorf("bad channel rule %q", s)
	}

	var src ChannelSource
	switch s[0] {
	case 'A', 'a':
		src = SourceAlpha
	case 'R', 'r':
		src = SourceRed
	case 'G', 'g':
		src = SourceGreen
	case 'B', 'b':
		src = SourceBlue
	default:
		return ChannelRule{}, fmt.Errorf("bad channel rule %q", s)
	}
	return ChannelRule{Source: src, Negate: negate}, nil
}

// Swizzle rewrites pixel channels. Rules are stored in A,R,G,B order, one
// byte each, matching the wire payload.
type Swizzle struct {
	A, R, G, B ChannelRule
}

// IdentitySwizzle maps every channel to itself.
func IdentitySwizzle() Swizzle {
	return Swizzle{
		A: ChannelRule{Source: SourceAlpha},
		R: ChannelRule{Source: SourceRed},
		G: ChannelRule{Source: SourceGreen},
		B: ChannelRule{Source: SourceBlue},
	}
}

// IsIdentity reports whether applying s would leave pixels unchanged.
func (s Swizzle) IsIdentity() bool {
	return s == IdentitySwizzle()
}

// ParseSwizzle decodes the 4-byte wire payload.
func ParseSwizzle(payload []byte) (Swizzle, error) {
	if len(payload) != 4 {
		return Swizzle{}, fmt.Errorf("%w: swizzle payload is %d bytes", ErrUnexpectedTagg, len(payload))
	}
	var s Swizzle
	var err error
	if s.A, err = ruleFromByte(payload[0]); err != nil {
		return Swizzle{}, err
	}
	if s.R, err = ruleFromByte(payload[1]); err != nil {
		return Swizzle{}, err
	}
	if s.G, err = ruleFromByte(payload[2]); err != nil {
		return Swizzle{}, err
	}
	if s.B, err = ruleFromByte(payload[3]); err != nil {
		return Swizzle{}, err
	}
	return s, nil
}

// ToBytes encodes the 4-byte wire payload.
func (s Swizzle) ToBytes() []byte {
	return []byte{s.A.toByte(), s.R.toByte(), s.G.toByte(), s.B.toByte()}
}

// Apply rewrites rgba in place. Each output pixel is computed from the
// original channel values of that pixel.
func (s Swizzle) Apply(rgba []byte) {
	if s.IsIdentity() {
		return
	}
	for i := 0; i+4 <= len(rgba); i += 4 {
		px := [4]uint8{rgba[i], rgba[i+1], rgba[i+2], rgba[i+3]}
		rgba[i+0] = s.R.eval(&px)
		rgba[i+1] = s.G.eval(&px)
		rgba[i+2] = s.B.eval(&px)
		rgba[i+3] = s.A.eval(&px)
	}
}
