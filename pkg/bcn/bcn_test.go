package bcn

import (
	"bytes"
	"testing"
)

// solidRGBA builds a width x height RGBA buffer of one color.
func solidRGBA(width, height int, r, g, b, a uint8) []byte {
	out := make([]byte, width*height*4)
	for i := 0; i < width*height; i++ {
		out[i*4+0] = r
		out[i*4+1] = g
		out[i*4+2] = b
		out[i*4+3] = a
	}
	return out
}

func TestBC1SolidColor(t *testing.T) {
	// 565-representable color survives encode/decode exactly.
	src := solidRGBA(8, 8, 0xF8, 0xFC, 0xF8, 0xFF)

	enc, err := EncodeBC1(src, 8, 8)
	if err != nil {
		t.Fatalf("EncodeBC1 failed: %v", err)
	}
	if len(enc) != 4*BC1BlockSize {
		t.Fatalf("encoded size = %d, want %d", len(enc), 4*BC1BlockSize)
	}

	dec, err := DecodeBC1(enc, 8, 8)
	if err != nil {
		t.Fatalf("DecodeBC1 failed: %v", err)
	}
	if !bytes.Equal(dec, src) {
		t.Error("solid color did not survive BC1 round trip")
	}
}

func TestBC1PunchThroughAlpha(t *testing.T) {
	src := solidRGBA(4, 4, 0x80, 0x40, 0x20, 0xFF)
	// Make one texel transparent.
	src[3] = 0

	enc, err := EncodeBC1(src, 4, 4)
	if err != nil {
		t.Fatalf("EncodeBC1 failed: %v", err)
	}
	dec, err := DecodeBC1(enc, 4, 4)
	if err != nil {
		t.Fatalf("DecodeBC1 failed: %v", err)
	}
	if dec[3] != 0 {
		t.Errorf("texel 0 alpha = %d, want 0", dec[3])
	}
	if dec[7] != 255 {
		t.Errorf("texel 1 alpha = %d, want 255", dec[7])
	}
}

func TestBC2AlphaRoundTrip(t *testing.T) {
	src := solidRGBA(4, 4, 0xF8, 0x00, 0xF8, 0)
	// 4-bit representable alphas (multiples of 17) are exact.
	for i := 0; i < 16; i++ {
		src[i*4+3] = uint8(i * 17)
	}

	enc, err := EncodeBC2(src, 4, 4)
	if err != nil {
		t.Fatalf("EncodeBC2 failed: %v", err)
	}
	if len(enc) != BC2BlockSize {
		t.Fatalf("encoded size = %d, want %d", len(enc), BC2BlockSize)
	}

	dec, err := DecodeBC2(enc, 4, 4)
	if err != nil {
		t.Fatalf("DecodeBC2 failed: %v", err)
	}
	for i := 0; i < 16; i++ {
		if dec[i*4+3] != uint8(i*17) {
			t.Errorf("texel %d alpha = %d, want %d", i, dec[i*4+3], i*17)
		}
	}
}

func TestBC3EndpointAlpha(t *testing.T) {
	src := solidRGBA(4, 4, 0x10, 0x20, 0x30, 0xFF)
	for i := 0; i < 8; i++ {
		src[i*4+3] = 0x00
	}

	enc, err := EncodeBC3(src, 4, 4)
	if err != nil {
		t.Fatalf("EncodeBC3 failed: %v", err)
	}
	dec, err := DecodeBC3(enc, 4, 4)
	if err != nil {
		t.Fatalf("DecodeBC3 failed: %v", err)
	}
	// Endpoint alphas reproduce exactly.
	for i := 0; i < 8; i++ {
		if dec[i*4+3] != 0 {
			t.Errorf("texel %d alpha = %d, want 0", i, dec[i*4+3])
		}
	}
	for i := 8; i < 16; i++ {
		if dec[i*4+3] != 255 {
			t.Errorf("texel %d alpha = %d, want 255", i, dec[i*4+3])
		}
	}
}

func TestBC1Gradient(t *testing.T) {
	// Encoded output must stay within the block's color range.
	src := make([]byte, 4*4*4)
	for i := 0; i < 16; i++ {
		src[i*4+0] = uint8(i * 16)
		src[i*4+1] = uint8(i * 16)
		src[i*4+2] = uint8(i * 16)
		src[i*4+3] = 255
	}

	enc, err := EncodeBC1(src, 4, 4)
	if err != nil {
		t.Fatalf("EncodeBC1 failed: %v", err)
	}
	dec, err := DecodeBC1(enc, 4, 4)
	if err != nil {
		t.Fatalf("DecodeBC1 failed: %v", err)
	}
	for i := 0; i < 16; i++ {
		got := int(dec[i*4])
		want := int(src[i*4])
		if d := got - want; d < -48 || d > 48 {
			t.Errorf("texel %d: got %d, want near %d", i, got, want)
		}
	}
}

func TestEncodeRejectsUnalignedDimensions(t *testing.T) {
	for _, dims := range [][2]int{{3, 4}, {4, 6}, {0, 0}, {1, 1}} {
		src := make([]byte, dims[0]*dims[1]*4)
		if _, err := EncodeBC1(src, dims[0], dims[1]); err == nil {
			t.Errorf("EncodeBC1(%dx%d) should fail", dims[0], dims[1])
		}
	}
}

func TestDecodeRejectsShortData(t *testing.T) {
	if _, err := DecodeBC1(make([]byte, 7), 4, 4); err == nil {
		t.Error("DecodeBC1 should reject short input")
	}
	if _, err := DecodeBC3(make([]byte, 15), 4, 4); err == nil {
		t.Error("DecodeBC3 should reject short input")
	}
}

func TestDecodePartialBlocks(t *testing.T) {
	// 2x2 output still needs one full block of input.
	enc := make([]byte, BC1BlockSize)
	dec, err := DecodeBC1(enc, 2, 2)
	if err != nil {
		t.Fatalf("DecodeBC1 failed: %v", err)
	}
	if len(dec) != 2*2*4 {
		t.Errorf("output size = %d, want 16", len(dec))
	}
}
