// Package paa reads and writes the PAA tiled texture container: a 16-bit
// type word, a run of "GGAT" metadata records, an optional palette block
// and a mipmap chain, terminated by six zero bytes. All integers are
// little-endian.
package paa

import "fmt"

// Type identifies the pixel format of every mipmap in a container.
type Type uint16

const (
	TypeIndexPalette Type = 0x4747
	TypeAI88         Type = 0x8080
	TypeARGB1555     Type = 0x1555
	TypeARGB4444     Type = 0x4444
	TypeARGB8888     Type = 0x8888
	TypeDXT1         Type = 0xFF01
	TypeDXT2         Type = 0xFF02
	TypeDXT3         Type = 0xFF03
	TypeDXT4         Type = 0xFF04
	TypeDXT5         Type = 0xFF05
)

// ParseType validates a raw type word.
func ParseType(v uint16) (Type, error) {
	t := Type(v)
	switch t {
	case TypeIndexPalette, TypeAI88, TypeARGB1555, TypeARGB4444, TypeARGB8888,
		TypeDXT1, TypeDXT2, TypeDXT3, TypeDXT4, TypeDXT5:
		return t, nil
	}
	return 0, fmt.Errorf("%w: %#04x", ErrUnknownType, v)
}

// IsDXTN reports whether t is one of the block-compressed formats.
func (t Type) IsDXTN() bool {
	return t >= TypeDXT1 && t <= TypeDXT5
}

// PredictSize returns the decompressed payload size in bytes for a mipmap
// of the given dimensions.
func (t Type) PredictSize(width, height int) int {
	pixels := width * height
	switch t {
	case TypeDXT1:
		return pixels / 2
	case TypeIndexPalette, TypeDXT2, TypeDXT3, TypeDXT4, TypeDXT5:
		return pixels
	case TypeARGB4444, TypeARGB1555, TypeAI88:
		return pixels * 2
	case TypeARGB8888:
		return pixels * 4
	}
	return 0
}

func (t Type) String() string {
	switch t {
	case TypeIndexPalette:
		return "IndexPalette"
	case TypeAI88:
		return "AI88"
	case TypeARGB1555:
		return "ARGB1555"
	case TypeARGB4444:
		return "ARGB4444"
	case TypeARGB8888:
		return "ARGB8888"
	case TypeDXT1:
		return "DXT1"
	case TypeDXT2:
		return "DXT2"
	case TypeDXT3:
		return "DXT3"
	case TypeDXT4:
		return "DXT4"
	case TypeDXT5:
		return "DXT5"
	}
	return fmt.Sprintf("Type(%#04x)", uint16(t))
}
