package paa

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"io"
)

// taggSignature opens every metadata record.
var taggSignature = [4]byte{'G', 'G', 'A', 'T'}

// TaggName is the 4-byte record name as stored on the wire. The mnemonics
// are byte-reversed: "CGVA" is AVGC, "SFFO" is OFFS, and so on.
type TaggName [4]byte

var (
	TaggAverageColor = TaggName{'C', 'G', 'V', 'A'}
	TaggMaxColor     = TaggName{'C', 'X', 'A', 'M'}
	TaggFlags        = TaggName{'G', 'A', 'L', 'F'}
	TaggSwizzle      = TaggName{'Z', 'I', 'W', 'S'}
	TaggProcedural   = TaggName{'C', 'O', 'R', 'P'}
	TaggOffsets      = TaggName{'S', 'F', 'F', 'O'}
)

func (n TaggName) known() bool {
	switch n {
	case TaggAverageColor, TaggMaxColor, TaggFlags, TaggSwizzle, TaggProcedural, TaggOffsets:
		return true
	}
	return false
}

func (n TaggName) String() string {
	return string([]byte{n[3], n[2], n[1], n[0]})
}

// MaxMipmaps is the most mipmaps a container can carry; the offsets record
// always reserves room for MaxMipmaps+1 entries.
const MaxMipmaps = 15

// taggHeadSize is signature + name + payload length.
const taggHeadSize = 12

// Tagg is one metadata record: signature, name, length-prefixed payload.
type Tagg struct {
	Name    TaggName
	Payload []byte
}

// ReadTagg reads the next record from rs. A missing signature, an unknown
// name or a payload length invalid for the name terminates the record run:
// the reader position is restored to the start of the 12 bytes just
// consumed and ok is false, so the following stage re-reads those bytes.
func ReadTagg(rs io.ReadSeeker) (t Tagg, ok bool, err error) {
	var head [taggHeadSize]byte
	if _, err := io.ReadFull(rs, head[:]); err != nil {
		return Tagg{}, false, fmt.Errorf("read tagg head: %w", err)
	}

	copy(t.Name[:], head[4:8])
	length := binary.LittleEndian.Uint32(head[8:12])

	if !bytes.Equal(head[0:4], taggSignature[:]) || !t.Name.known() || !t.Name.payloadSizeValid(length) {
		if _, err := rs.Seek(-taggHeadSize, io.SeekCurrent); err != nil {
			return Tagg{}, false, fmt.Errorf("rewind tagg head: %w", err)
		}
		return Tagg{}, false, nil
	}

	t.Payload, err = readPayload(rs, length)
	if err != nil {
		return Tagg{}, false, fmt.Errorf("read %s tagg payload: %w", t.Name, err)
	}
	return t, true, nil
}

// payloadSizeValid reports whether a record of this name can carry a
// payload of the given length. Color, flags and swizzle payloads are
// always four bytes; offsets entries are uint32s. Procedural payloads are
// free-form.
func (n TaggName) payloadSizeValid(length uint32) bool {
	switch n {
	case TaggAverageColor, TaggMaxColor, TaggFlags, TaggSwizzle:
		return length == 4
	case TaggOffsets:
		return length%4 == 0
	}
	return true
}

// readPayload reads the declared payload in small chunks. The length is
// untrusted, so a forged value in a truncated record fails on the missing
// bytes instead of committing the full allocation up front.
func readPayload(r io.Reader, length uint32) ([]byte, error) {
	payload := make([]byte, 0, min(int(length), 4096))
	var chunk [64]byte
	for remaining := length; remaining > 0; {
		n := uint32(len(chunk))
		if remaining < n {
			n = remaining
		}
		if _, err := io.ReadFull(r, chunk[:n]); err != nil {
			return nil, err
		}
		payload = append(payload, chunk[:n]...)
		remaining -= n
	}
	return payload, nil
}

// ToBytes serializes the record.
func (t *Tagg) ToBytes() []byte {
	buf := make([]byte, taggHeadSize+len(t.Payload))
	copy(buf[0:4], taggSignature[:])
	copy(buf[4:8], t.Name[:])
	binary.LittleEndian.PutUint32(buf[8:12], uint32(len(t.Payload)))
	copy(buf[12:], t.Payload)
	return buf
}

// Transparency is the alpha interpretation stored in the flags record.
type Transparency uint8

const (
	TransparencyNone     Transparency = 0
	AlphaInterpolated    Transparency = 1
	AlphaNotInterpolated Transparency = 2
)

// NewColorTagg builds an average-color or max-color record. The payload is
// four bytes in B,G,R,A order.
func NewColorTagg(name TaggName, b, g, r, a uint8) Tagg {
	return Tagg{Name: name, Payload: []byte{b, g, r, a}}
}

// Color returns the B,G,R,A payload of a color record.
func (t *Tagg) Color() (b, g, r, a uint8, err error) {
	if t.Name != TaggAverageColor && t.Name != TaggMaxColor {
		return 0, 0, 0, 0, fmt.Errorf("%w: %s is not a color tagg", ErrUnexpectedTagg, t.Name)
	}
	if len(t.Payload) != 4 {
		return 0, 0, 0, 0, fmt.Errorf("%w: color payload is %d bytes", ErrUnexpectedTagg, len(t.Payload))
	}
	return t.Payload[0], t.Payload[1], t.Payload[2], t.Payload[3], nil
}

// NewFlagsTagg builds a flags record. The value occupies the first payload
// byte; the remaining three are zero.
func NewFlagsTagg(tr Transparency) Tagg {
	return Tagg{Name: TaggFlags, Payload: []byte{byte(tr), 0, 0, 0}}
}

// Transparency returns the alpha interpretation from a flags record.
func (t *Tagg) Transparency() (Transparency, error) {
	if t.Name != TaggFlags {
		return 0, fmt.Errorf("%w: %s is not a flags tagg", ErrUnexpectedTagg, t.Name)
	}
	if len(t.Payload) < 1 {
		return 0, fmt.Errorf("%w: empty flags payload", ErrUnexpectedTagg)
	}
	v := Transparency(t.Payload[0])
	if v > AlphaNotInterpolated {
		return 0, fmt.Errorf("%w: flags value %d", ErrUnexpectedTagg, v)
	}
	return v, nil
}

// NewSwizzleTagg builds a swizzle record.
func NewSwizzleTagg(sw Swizzle) Tagg {
	return Tagg{Name: TaggSwizzle, Payload: sw.ToBytes()}
}

// Swizzle returns the channel rules from a swizzle record.
func (t *Tagg) Swizzle() (Swizzle, error) {
	if t.Name != TaggSwizzle {
		return Swizzle{}, fmt.Errorf("%w: %s is not a swizzle tagg", ErrUnexpectedTagg, t.Name)
	}
	return ParseSwizzle(t.Payload)
}

// NewOffsetsTagg builds an offsets record. The payload is always 16
// little-endian uint32 entries, zero padded past len(offsets).
func NewOffsetsTagg(offsets []uint32) (Tagg, error) {
	if len(offsets) > MaxMipmaps {
		return Tagg{}, fmt.Errorf("%w: %d offsets", ErrTooManyMipmaps, len(offsets))
	}
	payload := make([]byte, (MaxMipmaps+1)*4)
	for i, off := range offsets {
		binary.LittleEndian.PutUint32(payload[i*4:], off)
	}
	return Tagg{Name: TaggOffsets, Payload: payload}, nil
}

// Offsets decodes an offsets record. The payload must be a multiple of 4
// bytes; the logical list ends at the first zero entry.
func (t *Tagg) Offsets() ([]uint32, error) {
	if t.Name != TaggOffsets {
		return nil, fmt.Errorf("%w: %s is not an offsets tagg", ErrUnexpectedTagg, t.Name)
	}
	if len(t.Payload)%4 != 0 {
		return nil, fmt.Errorf("%w: offsets payload is %d bytes", ErrUnexpectedTagg, len(t.Payload))
	}

	var offsets []uint32
	for i := 0; i+4 <= len(t.Payload); i += 4 {
		off := binary.LittleEndian.Uint32(t.Payload[i:])
		if off == 0 {
			break
		}
		offsets = append(offsets, off)
	}
	return offsets, nil
}
