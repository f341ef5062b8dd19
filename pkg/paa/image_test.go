package paa

import (
	"bytes"
	"encoding/binary"
	"errors"
	"testing"
)

func testImage(t *testing.T) *Image {
	t.Helper()
	img := &Image{
		Type: TypeARGB8888,
		Taggs: []Tagg{
			NewColorTagg(TaggAverageColor, 10, 20, 30, 255),
			NewColorTagg(TaggMaxColor, 40, 50, 60, 255),
			NewFlagsTagg(AlphaInterpolated),
		},
		Palette: &Palette{},
	}
	for _, dim := range []uint16{8, 4, 2, 1} {
		img.Mipmaps = append(img.Mipmaps, MipmapSlot{Mipmap: &Mipmap{
			Width: dim, Height: dim,
			Type: TypeARGB8888, Compression: LZSS,
			Data: patternData(TypeARGB8888.PredictSize(int(dim), int(dim))),
		}})
	}
	return img
}

func TestImageRoundTrip(t *testing.T) {
	orig := testImage(t)
	wire, err := orig.ToBytes()
	if err != nil {
		t.Fatalf("ToBytes failed: %v", err)
	}

	// Type word, then first tagg signature.
	if binary.LittleEndian.Uint16(wire[0:2]) != uint16(TypeARGB8888) {
		t.Fatalf("type word = %#04x", binary.LittleEndian.Uint16(wire[0:2]))
	}
	if !bytes.Equal(wire[2:6], []byte("GGAT")) {
		t.Fatalf("first tagg signature = %q", wire[2:6])
	}
	// Trailer.
	if !bytes.Equal(wire[len(wire)-6:], make([]byte, 6)) {
		t.Fatal("missing 6-zero-byte trailer")
	}

	got, err := ReadImage(bytes.NewReader(wire))
	if err != nil {
		t.Fatalf("ReadImage failed: %v", err)
	}
	if got.Type != TypeARGB8888 {
		t.Errorf("type = %s", got.Type)
	}
	if len(got.Mipmaps) != len(orig.Mipmaps) {
		t.Fatalf("got %d mipmaps, want %d", len(got.Mipmaps), len(orig.Mipmaps))
	}
	for i := range got.Mipmaps {
		if got.Mipmaps[i].Err != nil {
			t.Fatalf("mipmap %d: %v", i, got.Mipmaps[i].Err)
		}
		if !bytes.Equal(got.Mipmaps[i].Mipmap.Data, orig.Mipmaps[i].Mipmap.Data) {
			t.Errorf("mipmap %d payload mismatch", i)
		}
	}

	// A written container always carries a regenerated offsets record.
	offs := got.Tagg(TaggOffsets)
	if offs == nil {
		t.Fatal("no offsets tagg in output")
	}
	offsets, err := offs.Offsets()
	if err != nil {
		t.Fatalf("Offsets failed: %v", err)
	}
	if len(offsets) != 4 {
		t.Errorf("got %d offsets, want 4", len(offsets))
	}

	// Serialization is stable.
	wire2, err := got.ToBytes()
	if err != nil {
		t.Fatalf("second ToBytes failed: %v", err)
	}
	if !bytes.Equal(wire, wire2) {
		t.Error("serialization not stable across a round trip")
	}
}

func TestImageOffsetsMatchMipmapPositions(t *testing.T) {
	img := testImage(t)
	wire, err := img.ToBytes()
	if err != nil {
		t.Fatalf("ToBytes failed: %v", err)
	}

	got, err := ReadImage(bytes.NewReader(wire))
	if err != nil {
		t.Fatalf("ReadImage failed: %v", err)
	}
	offsets, err := got.Tagg(TaggOffsets).Offsets()
	if err != nil {
		t.Fatalf("Offsets failed: %v", err)
	}

	for i, off := range offsets {
		m, err := ReadMipmap(bytes.NewReader(wire[off:]), TypeARGB8888)
		if err != nil {
			t.Fatalf("mipmap %d at offset %d: %v", i, off, err)
		}
		if !bytes.Equal(m.Data, img.Mipmaps[i].Mipmap.Data) {
			t.Errorf("mipmap %d at offset %d: payload mismatch", i, off)
		}
	}
}

func TestImageRejectsErrorSlots(t *testing.T) {
	img := testImage(t)
	img.Mipmaps[1] = MipmapSlot{Err: ErrOffsetBeyondEOF}
	if _, err := img.ToBytes(); err == nil {
		t.Error("expected error for slot carrying a read failure")
	}
}

func TestImageRejectsTooManyMipmaps(t *testing.T) {
	img := testImage(t)
	for len(img.Mipmaps) <= MaxMipmaps {
		img.Mipmaps = append(img.Mipmaps, img.Mipmaps[0])
	}
	if _, err := img.ToBytes(); !errors.Is(err, ErrTooManyMipmaps) {
		t.Errorf("want ErrTooManyMipmaps, got %v", err)
	}
}

func TestImageRejectsNonzeroPalette(t *testing.T) {
	img := testImage(t)
	img.Taggs = img.Taggs[:2]
	img.Palette = &Palette{Triplets: [][3]uint8{{1, 2, 3}}}
	wire, err := img.ToBytes()
	if err != nil {
		t.Fatalf("ToBytes failed: %v", err)
	}
	if _, err := ReadImage(bytes.NewReader(wire)); !errors.Is(err, ErrUnknownType) {
		t.Errorf("want ErrUnknownType for indexed container, got %v", err)
	}
}

func TestImageRejectsUnknownTypeWord(t *testing.T) {
	wire := []byte{0x34, 0x12, 0, 0, 0, 0}
	if _, err := ReadImage(bytes.NewReader(wire)); !errors.Is(err, ErrUnknownType) {
		t.Errorf("want ErrUnknownType, got %v", err)
	}
}

func TestReadImageSequentialWithoutOffsets(t *testing.T) {
	// Containers written without an offsets record still read back via
	// the sequential scan.
	var buf bytes.Buffer
	var typeBuf [2]byte
	binary.LittleEndian.PutUint16(typeBuf[:], uint16(TypeARGB8888))
	buf.Write(typeBuf[:])
	buf.Write((&Palette{}).ToBytes())

	m := &Mipmap{
		Width: 4, Height: 4,
		Type: TypeARGB8888, Compression: Uncompressed,
		Data: patternData(64),
	}
	wire, err := m.ToBytes()
	if err != nil {
		t.Fatalf("ToBytes failed: %v", err)
	}
	buf.Write(wire)
	buf.Write([]byte{0, 0, 0, 0, 0, 0})

	img, err := ReadImage(bytes.NewReader(buf.Bytes()))
	if err != nil {
		t.Fatalf("ReadImage failed: %v", err)
	}
	if len(img.Mipmaps) != 1 || img.Mipmaps[0].Err != nil {
		t.Fatalf("mipmaps = %+v", img.Mipmaps)
	}
	if !bytes.Equal(img.Mipmaps[0].Mipmap.Data, m.Data) {
		t.Error("payload mismatch")
	}
}
