package bcn

import "fmt"

// EncodeBC1 compresses RGBA8 pixels to BC1. Pixels with alpha below 128
// become punch-through transparent.
func EncodeBC1(rgba []byte, width, height int) ([]byte, error) {
	return encodeBlocks(rgba, width, height, BC1BlockSize, func(block *[64]uint8, out []byte) {
		encodeColorBlock(block, out, true)
	})
}

// EncodeBC2 compresses RGBA8 pixels to BC2 with explicit 4-bit alpha.
func EncodeBC2(rgba []byte, width, height int) ([]byte, error) {
	return encodeBlocks(rgba, width, height, BC2BlockSize, func(block *[64]uint8, out []byte) {
		for i := 0; i < 8; i++ {
			lo := block[i*8+3] >> 4
			hi := block[i*8+7] >> 4
			out[i] = hi<<4 | lo
		}
		encodeColorBlock(block, out[8:], false)
	})
}

// EncodeBC3 compresses RGBA8 pixels to BC3 with interpolated alpha.
func EncodeBC3(rgba []byte, width, height int) ([]byte, error) {
	return encodeBlocks(rgba, width, height, BC3BlockSize, func(block *[64]uint8, out []byte) {
		encodeAlphaBlock(block, out)
		encodeColorBlock(block, out[8:], false)
	})
}

// encodeBlocks splits the image into 4x4 blocks and hands each to encode.
// Dimensions must be multiples of 4.
func encodeBlocks(rgba []byte, width, height, blockSize int, encode func(*[64]uint8, []byte)) ([]byte, error) {
	if width < 4 || height < 4 || width%4 != 0 || height%4 != 0 {
		return nil, fmt.Errorf("%w: %dx%d not block-aligned", ErrBadDimensions, width, height)
	}
	if len(rgba) != width*height*4 {
		return nil, fmt.Errorf("%w: %d pixel bytes for %dx%d", ErrBadDimensions, len(rgba), width, height)
	}

	blocksX := width / 4
	blocksY := height / 4
	out := make([]byte, blocksX*blocksY*blockSize)

	var block [64]uint8
	for by := 0; by < blocksY; by++ {
		for bx := 0; bx < blocksX; bx++ {
			for py := 0; py < 4; py++ {
				src := ((by*4+py)*width + bx*4) * 4
				copy(block[py*16:py*16+16], rgba[src:src+16])
			}
			encode(&block, out[(by*blocksX+bx)*blockSize:])
		}
	}
	return out, nil
}

// encodeColorBlock range-fits the block's color bounding box onto the two
// 565 endpoints and picks the nearest palette entry per texel.
func encodeColorBlock(block *[64]uint8, out []byte, punchThrough bool) {
	minC := [3]uint8{255, 255, 255}
	maxC := [3]uint8{0, 0, 0}
	transparent := false

	for i := 0; i < 16; i++ {
		if punchThrough && block[i*4+3] < 128 {
			transparent = true
			continue
		}
		for c := 0; c < 3; c++ {
			v := block[i*4+c]
			if v < minC[c] {
				minC[c] = v
			}
			if v > maxC[c] {
				maxC[c] = v
			}
		}
	}

	c0 := pack565(maxC[0], maxC[1], maxC[2])
	c1 := pack565(minC[0], minC[1], minC[2])

	threeColor := punchThrough && transparent
	if threeColor {
		// Three-color mode requires c0 <= c1.
		if c0 > c1 {
			c0, c1 = c1, c0
		}
	} else if c0 < c1 {
		c0, c1 = c1, c0
	} else if c0 == c1 && c1 > 0 {
		// Force four-color mode for uniform opaque blocks.
		c1--
	}

	out[0] = byte(c0)
	out[1] = byte(c0 >> 8)
	out[2] = byte(c1)
	out[3] = byte(c1 >> 8)

	var pal [4][3]int
	r0, g0, b0 := rgb565(c0)
	r1, g1, b1 := rgb565(c1)
	pal[0] = [3]int{int(r0), int(g0), int(b0)}
	pal[1] = [3]int{int(r1), int(g1), int(b1)}
	palN := 4
	if threeColor {
		pal[2] = [3]int{(pal[0][0] + pal[1][0]) / 2, (pal[0][1] + pal[1][1]) / 2, (pal[0][2] + pal[1][2]) / 2}
		palN = 3
	} else {
		pal[2] = [3]int{(2*pal[0][0] + pal[1][0]) / 3, (2*pal[0][1] + pal[1][1]) / 3, (2*pal[0][2] + pal[1][2]) / 3}
		pal[3] = [3]int{(pal[0][0] + 2*pal[1][0]) / 3, (pal[0][1] + 2*pal[1][1]) / 3, (pal[0][2] + 2*pal[1][2]) / 3}
	}

	for py := 0; py < 4; py++ {
		var row byte
		for px := 0; px < 4; px++ {
			i := (py*4 + px) * 4
			var idx int
			if threeColor && block[i+3] < 128 {
				idx = 3
			} else {
				idx = nearestIndex(pal[:palN], int(block[i]), int(block[i+1]), int(block[i+2]))
			}
			row |= byte(idx) << (uint(px) * 2)
		}
		out[4+py] = row
	}
}

func nearestIndex(pal [][3]int, r, g, b int) int {
	best := 0
	bestDist := 1 << 30
	for i, p := range pal {
		dr, dg, db := r-p[0], g-p[1], b-p[2]
		d := dr*dr + dg*dg + db*db
		if d < bestDist {
			best = i
			bestDist = d
		}
	}
	return best
}

// encodeAlphaBlock range-fits the BC3 alpha endpoints (a0 = max, a1 = min,
// eight-entry interpolated palette) and packs the 3-bit indices.
func encodeAlphaBlock(block *[64]uint8, out []byte) {
	minA, maxA := uint8(255), uint8(0)
	for i := 0; i < 16; i++ {
		a := block[i*4+3]
		if a < minA {
			minA = a
		}
		if a > maxA {
			maxA = a
		}
	}
	if maxA == minA && maxA < 255 {
		maxA++
	}

	out[0] = maxA
	out[1] = minA

	var pal [8]int
	pal[0] = int(maxA)
	pal[1] = int(minA)
	for i := 1; i < 7; i++ {
		pal[i+1] = ((7-i)*int(maxA) + i*int(minA)) / 7
	}

	var bits uint64
	for i := 0; i < 16; i++ {
		a := int(block[i*4+3])
		best := 0
		bestDist := 1 << 30
		for j, p := range pal {
			d := a - p
			if d < 0 {
				d = -d
			}
			if d < bestDist {
				best = j
				bestDist = d
			}
		}
		bits |= uint64(best) << (3 * uint(i))
	}
	for i := 0; i < 6; i++ {
		out[2+i] = byte(bits >> (8 * uint(i)))
	}
}
