package paa

import (
	"fmt"
	"image"

	"github.com/okonak/paatools/pkg/bcn"
)

// Decode converts the mipmap payload to an NRGBA image.
func (m *Mipmap) Decode() (*image.NRGBA, error) {
	if m.IsEmpty() {
		return nil, ErrEmptyMipmap
	}

	w := int(m.Width)
	h := int(m.Height)

	var rgba []byte
	var err error
	switch m.Type {
	case TypeDXT1:
		rgba, err = bcn.DecodeBC1(m.Data, w, h)
	case TypeDXT2, TypeDXT3:
		rgba, err = bcn.DecodeBC2(m.Data, w, h)
	case TypeDXT4, TypeDXT5:
		rgba, err = bcn.DecodeBC3(m.Data, w, h)
	case TypeARGB4444:
		rgba, err = argb4444ToRGBA(m.Data)
	case TypeARGB1555:
		rgba, err = argb1555ToRGBA(m.Data)
	case TypeARGB8888:
		rgba, err = argb8888ToRGBA(m.Data)
	case TypeAI88:
		rgba, err = ai88ToRGBA(m.Data)
	default:
		return nil, fmt.Errorf("%w: cannot decode %s", ErrUnsupportedOperation, m.Type)
	}
	if err != nil {
		return nil, fmt.Errorf("decode %s mipmap: %w", m.Type, err)
	}

	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	copy(img.Pix, rgba)
	return img, nil
}

// EncodeMipmap converts an NRGBA image to a mipmap of the given type, with
// the conventional compression for its size.
func EncodeMipmap(typ Type, img *image.NRGBA) (*Mipmap, error) {
	bounds := img.Bounds()
	w := bounds.Dx()
	h := bounds.Dy()
	if w >= 32768 || h >= 32768 {
		return nil, fmt.Errorf("%w: %dx%d", ErrMipmapTooLarge, w, h)
	}

	rgba := nrgbaPixels(img)

	var data []byte
	var err error
	switch typ {
	case TypeDXT1:
		data, err = bcn.EncodeBC1(rgba, w, h)
	case TypeDXT2, TypeDXT3:
		data, err = bcn.EncodeBC2(rgba, w, h)
	case TypeDXT4, TypeDXT5:
		data, err = bcn.EncodeBC3(rgba, w, h)
	case TypeARGB4444:
		data = rgbaToARGB4444(rgba)
	case TypeARGB1555:
		data = rgbaToARGB1555(rgba)
	case TypeARGB8888:
		data = rgbaToARGB8888(rgba)
	case TypeAI88:
		data = rgbaToAI88(rgba)
	default:
		return nil, fmt.Errorf("%w: cannot encode %s", ErrUnsupportedOperation, typ)
	}
	if err != nil {
		return nil, fmt.Errorf("encode %s mipmap: %w", typ, err)
	}

	return &Mipmap{
		Width:       uint16(w),
		Height:      uint16(h),
		Type:        typ,
		Compression: SuggestCompression(typ, uint16(w), uint16(h)),
		Data:        data,
	}, nil
}

// nrgbaPixels returns the image's pixels as a tightly packed RGBA buffer.
func nrgbaPixels(img *image.NRGBA) []byte {
	bounds := img.Bounds()
	w := bounds.Dx()
	h := bounds.Dy()
	if img.Stride == w*4 && len(img.Pix) == w*h*4 {
		return img.Pix
	}
	out := make([]byte, w*h*4)
	for y := 0; y < h; y++ {
		copy(out[y*w*4:(y+1)*w*4], img.Pix[y*img.Stride:y*img.Stride+w*4])
	}
	return out
}
