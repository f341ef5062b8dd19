package paa

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"io"
)

// Image is a full texture container: the type word, its metadata records,
// an optional palette and the mipmap chain.
type Image struct {
	Type    Type
	Taggs   []Tagg
	Palette *Palette
	Mipmaps []MipmapSlot
}

// Tagg returns the first record with the given name, or nil.
func (img *Image) Tagg(name TaggName) *Tagg {
	for i := range img.Taggs {
		if img.Taggs[i].Name == name {
			return &img.Taggs[i]
		}
	}
	return nil
}

// ReadImage reads a container from rs. Mipmap payload failures are scoped
// to their slots; everything else fails the read.
func ReadImage(rs io.ReadSeeker) (*Image, error) {
	var typeBuf [2]byte
	if _, err := io.ReadFull(rs, typeBuf[:]); err != nil {
		return nil, fmt.Errorf("read type word: %w", err)
	}
	typ, err := ParseType(binary.LittleEndian.Uint16(typeBuf[:]))
	if err != nil {
		return nil, err
	}

	img := &Image{Type: typ}
	for {
		tagg, ok, err := ReadTagg(rs)
		if err != nil {
			return nil, err
		}
		if !ok {
			break
		}
		img.Taggs = append(img.Taggs, tagg)
	}

	img.Palette, err = ReadPalette(rs)
	if err != nil {
		return nil, err
	}
	if len(img.Palette.Triplets) > 0 {
		return nil, fmt.Errorf("%w: indexed palette containers are not supported", ErrUnknownType)
	}

	if offs := img.Tagg(TaggOffsets); offs != nil {
		offsets, err := offs.Offsets()
		if err != nil {
			return nil, err
		}
		img.Mipmaps = ReadMipmapsAtOffsets(rs, typ, offsets)
	} else {
		img.Mipmaps = ReadMipmapsSequential(rs, typ)
	}

	return img, nil
}

// ToBytes serializes the container. The offsets record is always
// regenerated from the actual mipmap positions; a stale one in Taggs is
// ignored. A slot carrying an error cannot be written back.
func (img *Image) ToBytes() ([]byte, error) {
	if len(img.Mipmaps) > MaxMipmaps {
		return nil, fmt.Errorf("%w: %d", ErrTooManyMipmaps, len(img.Mipmaps))
	}

	var buf bytes.Buffer

	var typeBuf [2]byte
	binary.LittleEndian.PutUint16(typeBuf[:], uint16(img.Type))
	buf.Write(typeBuf[:])

	for i := range img.Taggs {
		if img.Taggs[i].Name == TaggOffsets {
			continue
		}
		buf.Write(img.Taggs[i].ToBytes())
	}

	palette := img.Palette.ToBytes()

	// The offsets record has fixed size, so mipmap positions are known
	// before it is written.
	const offsTaggSize = taggHeadSize + (MaxMipmaps+1)*4
	mipmapsStart := buf.Len() + offsTaggSize + len(palette)

	blocks := make([][]byte, len(img.Mipmaps))
	offsets := make([]uint32, len(img.Mipmaps))
	pos := mipmapsStart
	for i, slot := range img.Mipmaps {
		if slot.Err != nil {
			return nil, fmt.Errorf("mipmap %d is not writable: %w", i, slot.Err)
		}
		block, err := slot.Mipmap.ToBytes()
		if err != nil {
			return nil, fmt.Errorf("serialize mipmap %d: %w", i, err)
		}
		blocks[i] = block
		offsets[i] = uint32(pos)
		pos += len(block)
	}

	offsTagg, err := NewOffsetsTagg(offsets)
	if err != nil {
		return nil, err
	}
	buf.Write(offsTagg.ToBytes())
	buf.Write(palette)
	for _, block := range blocks {
		buf.Write(block)
	}

	// Trailer: one empty mipmap header and a zero u16.
	buf.Write([]byte{0, 0, 0, 0, 0, 0})

	return buf.Bytes(), nil
}
