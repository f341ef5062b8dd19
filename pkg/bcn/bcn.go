// Package bcn implements the BC1, BC2 and BC3 block compression formats
// (DXT1 through DXT5) in pure Go. Decoding follows the standard 4x4 block
// layout; encoding uses a range fit over the block's color bounding box,
// which is fast and good enough for game texture payloads.
package bcn

import (
	"errors"
	"fmt"
)

// Block sizes in bytes for a 4x4 texel block.
const (
	BC1BlockSize = 8
	BC2BlockSize = 16
	BC3BlockSize = 16
)

// ErrBadDimensions is returned when encode input is not block-aligned or a
// buffer does not match the expected size.
var ErrBadDimensions = errors.New("bcn: bad dimensions")

// rgb565 unpacks a packed 5:6:5 color to 8-bit channels.
func rgb565(v uint16) (r, g, b uint8) {
	r5 := uint8(v >> 11 & 0x1F)
	g6 := uint8(v >> 5 & 0x3F)
	b5 := uint8(v & 0x1F)
	return r5<<3 | r5>>2, g6<<2 | g6>>4, b5<<3 | b5>>2
}

// pack565 quantizes 8-bit channels to packed 5:6:5.
func pack565(r, g, b uint8) uint16 {
	return uint16(r>>3)<<11 | uint16(g>>2)<<5 | uint16(b>>3)
}

// DecodeBC1 decompresses BC1 data into RGBA8 pixels.
func DecodeBC1(data []byte, width, height int) ([]byte, error) {
	return decodeBlocks(data, width, height, BC1BlockSize, func(block []byte, put func(px, py int, r, g, b, a uint8)) {
		decodeColorBlock(block, true, put)
	})
}

// DecodeBC2 decompresses BC2 data (explicit 4-bit alpha) into RGBA8 pixels.
func DecodeBC2(data []byte, width, height int) ([]byte, error) {
	return decodeBlocks(data, width, height, BC2BlockSize, func(block []byte, put func(px, py int, r, g, b, a uint8)) {
		var alpha [16]uint8
		for i := 0; i < 8; i++ {
			lo := block[i] & 0x0F
			hi := block[i] >> 4
			alpha[i*2] = lo<<4 | lo
			alpha[i*2+1] = hi<<4 | hi
		}
		decodeColorBlock(block[8:], false, func(px, py int, r, g, b, _ uint8) {
			put(px, py, r, g, b, alpha[py*4+px])
		})
	})
}

// DecodeBC3 decompresses BC3 data (interpolated alpha) into RGBA8 pixels.
func DecodeBC3(data []byte, width, height int) ([]byte, error) {
	return decodeBlocks(data, width, height, BC3BlockSize, func(block []byte, put func(px, py int, r, g, b, a uint8)) {
		alpha := decodeAlphaBlock(block)
		decodeColorBlock(block[8:], false, func(px, py int, r, g, b, _ uint8) {
			put(px, py, r, g, b, alpha[py*4+px])
		})
	})
}

// decodeBlocks walks the block grid and assembles the RGBA output, clamping
// partial blocks at the right and bottom edges.
func decodeBlocks(data []byte, width, height, blockSize int, decode func([]byte, func(px, py int, r, g, b, a uint8))) ([]byte, error) {
	if width < 1 || height < 1 {
		return nil, fmt.Errorf("%w: %dx%d", ErrBadDimensions, width, height)
	}

	blocksX := (width + 3) / 4
	blocksY := (height + 3) / 4
	need := blocksX * blocksY * blockSize
	if len(data) < need {
		return nil, fmt.Errorf("%w: need %d bytes for %dx%d, got %d", ErrBadDimensions, need, width, height, len(data))
	}

	out := make([]byte, width*height*4)
	for by := 0; by < blocksY; by++ {
		for bx := 0; bx < blocksX; bx++ {
			block := data[(by*blocksX+bx)*blockSize:]
			decode(block[:blockSize], func(px, py int, r, g, b, a uint8) {
				x := bx*4 + px
				y := by*4 + py
				if x >= width || y >= height {
					return
				}
				i := (y*width + x) * 4
				out[i+0] = r
				out[i+1] = g
				out[i+2] = b
				out[i+3] = a
			})
		}
	}
	return out, nil
}

// decodeColorBlock expands an 8-byte BC color block. punchThrough enables
// the c0<=c1 three-color mode with a transparent fourth entry.
func decodeColorBlock(block []byte, punchThrough bool, put func(px, py int, r, g, b, a uint8)) {
	c0 := uint16(block[0]) | uint16(block[1])<<8
	c1 := uint16(block[2]) | uint16(block[3])<<8

	var pal [4][4]uint8
	r0, g0, b0 := rgb565(c0)
	r1, g1, b1 := rgb565(c1)
	pal[0] = [4]uint8{r0, g0, b0, 255}
	pal[1] = [4]uint8{r1, g1, b1, 255}

	if c0 > c1 || !punchThrough {
		pal[2] = [4]uint8{
			uint8((2*int(r0) + int(r1)) / 3),
			uint8((2*int(g0) + int(g1)) / 3),
			uint8((2*int(b0) + int(b1)) / 3),
			255,
		}
		pal[3] = [4]uint8{
			uint8((int(r0) + 2*int(r1)) / 3),
			uint8((int(g0) + 2*int(g1)) / 3),
			uint8((int(b0) + 2*int(b1)) / 3),
			255,
		}
	} else {
		pal[2] = [4]uint8{
			uint8((int(r0) + int(r1)) / 2),
			uint8((int(g0) + int(g1)) / 2),
			uint8((int(b0) + int(b1)) / 2),
			255,
		}
		pal[3] = [4]uint8{0, 0, 0, 0}
	}

	for py := 0; py < 4; py++ {
		row := block[4+py]
		for px := 0; px < 4; px++ {
			c := pal[row>>(uint(px)*2)&3]
			put(px, py, c[0], c[1], c[2], c[3])
		}
	}
}

// decodeAlphaBlock expands the 8-byte BC3 alpha block to 16 alpha values.
func decodeAlphaBlock(block []byte) [16]uint8 {
	a0 := block[0]
	a1 := block[1]

	var pal [8]uint8
	pal[0] = a0
	pal[1] = a1
	if a0 > a1 {
		for i := 1; i < 7; i++ {
			pal[i+1] = uint8(((7-i)*int(a0) + i*int(a1)) / 7)
		}
	} else {
		for i := 1; i < 5; i++ {
			pal[i+1] = uint8(((5-i)*int(a0) + i*int(a1)) / 5)
		}
		pal[6] = 0
		pal[7] = 255
	}

	var bits uint64
	for i := 0; i < 6; i++ {
		bits |= uint64(block[2+i]) << (8 * uint(i))
	}

	var out [16]uint8
	for i := 0; i < 16; i++ {
		out[i] = pal[bits>>(3*uint(i))&7]
	}
	return out
}
