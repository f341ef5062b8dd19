package paa

import (
	"fmt"
	"image"

	"golang.org/x/image/draw"
)

// EncodeSettings controls conversion of an RGBA image to a container.
// MipmapFilter and ErrorMetrics are accepted for compatibility with the
// texture conversion configs but are not applied.
type EncodeSettings struct {
	Type         Type
	Swizzle      Swizzle
	Autoreduce   bool
	DynRange     bool
	MipmapFilter string
	ErrorMetrics string
}

// Encode converts src into a full container: swizzle, optional solid-color
// reduction, average/maximum color records and the mipmap chain.
func Encode(src *image.NRGBA, settings EncodeSettings) (*Image, error) {
	bounds := src.Bounds()
	if bounds.Dx() < 1 || bounds.Dy() < 1 {
		return nil, ErrEmptyMipmap
	}

	rgba := make([]byte, len(nrgbaPixels(src)))
	copy(rgba, nrgbaPixels(src))
	width := bounds.Dx()
	height := bounds.Dy()

	// Average and maximum colors reflect the texture before swizzling.
	avgc, maxc := avgMaxColor(rgba)

	settings.Swizzle.Apply(rgba)

	if settings.Autoreduce && isSolidColor(rgba) {
		rgba = rgba[:4:4]
		width, height = 1, 1
	} else {
		avgc, maxc = avgMaxColor(rgba)
	}

	taggs := []Tagg{
		NewColorTagg(TaggAverageColor, avgc[2], avgc[1], avgc[0], avgc[3]),
		NewColorTagg(TaggMaxColor, maxc[2], maxc[1], maxc[0], maxc[3]),
	}

	levels := mipmapSeries(rgba, width, height, settings.Type)
	if len(levels) > MaxMipmaps {
		levels = levels[:MaxMipmaps]
	}

	img := &Image{Type: settings.Type, Taggs: taggs, Palette: &Palette{}}
	for i, level := range levels {
		m, err := EncodeMipmap(settings.Type, level)
		if err != nil {
			return nil, fmt.Errorf("encode mipmap %d: %w", i, err)
		}
		img.Mipmaps = append(img.Mipmaps, MipmapSlot{Mipmap: m})
	}
	return img, nil
}

// avgMaxColor returns the per-channel average and maximum in RGBA order.
func avgMaxColor(rgba []byte) (avg, max [4]uint8) {
	pixels := len(rgba) / 4
	if pixels == 0 {
		return avg, max
	}
	var sum [4]uint64
	for i := 0; i+4 <= len(rgba); i += 4 {
		for c := 0; c < 4; c++ {
			v := rgba[i+c]
			sum[c] += uint64(v)
			if v > max[c] {
				max[c] = v
			}
		}
	}
	for c := 0; c < 4; c++ {
		avg[c] = uint8(sum[c] / uint64(pixels))
	}
	return avg, max
}

func isSolidColor(rgba []byte) bool {
	for i := 4; i+4 <= len(rgba); i += 4 {
		if rgba[i] != rgba[0] || rgba[i+1] != rgba[1] || rgba[i+2] != rgba[2] || rgba[i+3] != rgba[3] {
			return false
		}
	}
	return true
}

// mipmapSeries builds the level chain by successive halving with a
// bilinear filter. Block-compressed types stop at the smallest aligned
// level; others go down to 1x1.
func mipmapSeries(rgba []byte, width, height int, typ Type) []*image.NRGBA {
	minDim := 1
	if typ.IsDXTN() {
		minDim = 4
	}

	current := image.NewNRGBA(image.Rect(0, 0, width, height))
	copy(current.Pix, rgba)

	var levels []*image.NRGBA
	for {
		b := current.Bounds()
		if b.Dx() < minDim || b.Dy() < minDim {
			break
		}
		levels = append(levels, current)
		if b.Dx() == minDim && b.Dy() == minDim {
			break
		}

		next := image.NewNRGBA(image.Rect(0, 0, b.Dx()/2, b.Dy()/2))
		if next.Bounds().Dx() < 1 || next.Bounds().Dy() < 1 {
			break
		}
		draw.BiLinear.Scale(next, next.Bounds(), current, b, draw.Src, nil)
		current = next
	}
	return levels
}
