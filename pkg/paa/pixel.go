package paa

import (
	"encoding/binary"
	"fmt"
)

// Channel narrowing and widening both round with a bias of half the source
// range, which keeps narrow-widen-narrow stable.
func widenChannel(v uint16, width uint) uint8 {
	rangeFrom := uint16(1)<<width - 1
	return uint8((v*0xFF + rangeFrom/2) / rangeFrom)
}

func narrowChannel(v uint8, width uint) uint16 {
	rangeInto := uint16(1)<<width - 1
	return (uint16(v)*rangeInto + 127) / 255
}

// argb1555ToRGBA expands packed 1:5:5:5 pixels. The packed word is
// little-endian with alpha in bit 15.
func argb1555ToRGBA(data []byte) ([]byte, error) {
	if len(data)%2 != 0 {
		return nil, fmt.Errorf("%w: truncated ARGB1555 data", ErrMipmapDataSize)
	}
	out := make([]byte, 0, len(data)*2)
	for i := 0; i < len(data); i += 2 {
		v := binary.LittleEndian.Uint16(data[i:])
		a := uint8(v>>15) * 0xFF
		r := widenChannel(v>>10&0x1F, 5)
		g := widenChannel(v>>5&0x1F, 5)
		b := widenChannel(v&0x1F, 5)
		out = append(out, r, g, b, a)
	}
	return out, nil
}

func rgbaToARGB1555(rgba []byte) []byte {
	out := make([]byte, 0, len(rgba)/2)
	for i := 0; i+4 <= len(rgba); i += 4 {
		r := narrowChannel(rgba[i], 5)
		g := narrowChannel(rgba[i+1], 5)
		b := narrowChannel(rgba[i+2], 5)
		a := narrowChannel(rgba[i+3], 1)
		v := a<<15 | r<<10 | g<<5 | b
		out = binary.LittleEndian.AppendUint16(out, v)
	}
	return out
}

// argb4444ToRGBA expands packed 4:4:4:4 pixels, alpha in the top nibble.
func argb4444ToRGBA(data []byte) ([]byte, error) {
	if len(data)%2 != 0 {
		return nil, fmt.Errorf("%w: truncated ARGB4444 data", ErrMipmapDataSize)
	}
	out := make([]byte, 0, len(data)*2)
	for i := 0; i < len(data); i += 2 {
		v := binary.LittleEndian.Uint16(data[i:])
		a := widenChannel(v>>12&0x0F, 4)
		r := widenChannel(v>>8&0x0F, 4)
		g := widenChannel(v>>4&0x0F, 4)
		b := widenChannel(v&0x0F, 4)
		out = append(out, r, g, b, a)
	}
	return out, nil
}

func rgbaToARGB4444(rgba []byte) []byte {
	out := make([]byte, 0, len(rgba)/2)
	for i := 0; i+4 <= len(rgba); i += 4 {
		r := narrowChannel(rgba[i], 4)
		g := narrowChannel(rgba[i+1], 4)
		b := narrowChannel(rgba[i+2], 4)
		a := narrowChannel(rgba[i+3], 4)
		v := a<<12 | r<<8 | g<<4 | b
		out = binary.LittleEndian.AppendUint16(out, v)
	}
	return out
}

// argb8888ToRGBA reverses each stored 4-byte pixel, an exact round trip.
func argb8888ToRGBA(data []byte) ([]byte, error) {
	if len(data)%4 != 0 {
		return nil, fmt.Errorf("%w: truncated ARGB8888 data", ErrMipmapDataSize)
	}
	out := make([]byte, len(data))
	for i := 0; i < len(data); i += 4 {
		out[i+0] = data[i+3]
		out[i+1] = data[i+2]
		out[i+2] = data[i+1]
		out[i+3] = data[i+0]
	}
	return out, nil
}

func rgbaToARGB8888(rgba []byte) []byte {
	out := make([]byte, len(rgba))
	for i := 0; i+4 <= len(rgba); i += 4 {
		out[i+0] = rgba[i+3]
		out[i+1] = rgba[i+2]
		out[i+2] = rgba[i+1]
		out[i+3] = rgba[i+0]
	}
	return out
}

// ai88ToRGBA expands intensity+alpha pairs, intensity first.
func ai88ToRGBA(data []byte) ([]byte, error) {
	if len(data)%2 != 0 {
		return nil, fmt.Errorf("%w: truncated AI88 data", ErrMipmapDataSize)
	}
	out := make([]byte, 0, len(data)*2)
	for i := 0; i < len(data); i += 2 {
		gray := data[i]
		out = append(out, gray, gray, gray, data[i+1])
	}
	return out, nil
}

func rgbaToAI88(rgba []byte) []byte {
	out := make([]byte, 0, len(rgba)/2)
	for i := 0; i+4 <= len(rgba); i += 4 {
		gray := uint8((int(rgba[i]) + int(rgba[i+1]) + int(rgba[i+2])) / 3)
		out = append(out, gray, rgba[i+3])
	}
	return out
}
