package lzss

import (
	"bytes"
	"encoding/binary"
	"errors"
	"testing"
)

func TestRoundTrip(t *testing.T) {
	cases := []struct {
		name string
		data []byte
	}{
		{"empty", []byte{}},
		{"single byte", []byte{0x42}},
		{"short literal", []byte("abc")},
		{"repeated byte", bytes.Repeat([]byte{0x00}, 300)},
		{"spaces match prefill", bytes.Repeat([]byte{0x20}, 64)},
		{"text", []byte("the quick brown fox jumps over the lazy dog, the quick brown fox")},
		{"pattern", bytes.Repeat([]byte{1, 2, 3, 4}, 200)},
		{"larger than ring", func() []byte {
			b := make([]byte, 10000)
			for i := range b {
				b[i] = byte(i * 7 % 251)
			}
			return b
		}()},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			enc := Compress(tc.data)
			dec, err := Decompress(enc, len(tc.data))
			if err != nil {
				t.Fatalf("Decompress failed: %v", err)
			}
			if !bytes.Equal(dec, tc.data) {
				t.Errorf("round trip mismatch")
			}

			// Compress writes a correct checksum, so strict mode
			// accepts its own output.
			if _, err := DecompressStrict(enc, len(tc.data)); err != nil {
				t.Errorf("DecompressStrict failed on own output: %v", err)
			}
		})
	}
}

func TestChecksum(t *testing.T) {
	t.Run("zeros sum to zero", func(t *testing.T) {
		if sum := Checksum(make([]byte, 16)); sum != 0 {
			t.Errorf("checksum of 16 zero bytes = %d, want 0", sum)
		}
	})

	t.Run("additive", func(t *testing.T) {
		if sum := Checksum([]byte{1, 2, 3}); sum != 6 {
			t.Errorf("got %d, want 6", sum)
		}
	})
}

func TestStrictRejectsBadChecksum(t *testing.T) {
	data := []byte("some payload data")
	enc := Compress(data)
	binary.LittleEndian.PutUint32(enc[len(enc)-4:], 0xDEADBEEF)

	if _, err := Decompress(enc, len(data)); err != nil {
		t.Errorf("lenient decompress should ignore checksum: %v", err)
	}
	if _, err := DecompressStrict(enc, len(data)); !errors.Is(err, ErrChecksumMismatch) {
		t.Errorf("want ErrChecksumMismatch, got %v", err)
	}
}

func TestDecompressKnownStream(t *testing.T) {
	// One control byte with all bits set: eight literals.
	stream := []byte{0xFF, 'l', 'i', 't', 'e', 'r', 'a', 'l', 's'}
	sum := Checksum([]byte("literals"))
	var tail [4]byte
	binary.LittleEndian.PutUint32(tail[:], uint32(sum))
	stream = append(stream, tail[:]...)

	dec, err := DecompressStrict(stream, 8)
	if err != nil {
		t.Fatalf("Decompress failed: %v", err)
	}
	if string(dec) != "literals" {
		t.Errorf("got %q", dec)
	}
}

func TestDecompressRingPrefill(t *testing.T) {
	// A match taken before any literal was written reads the 0x20
	// prefill. Control 0x00 = match token; offset 0, length 3.
	stream := []byte{0x00, 0x00, 0x00}
	var tail [4]byte
	binary.LittleEndian.PutUint32(tail[:], uint32(Checksum([]byte{0x20, 0x20, 0x20})))
	stream = append(stream, tail[:]...)

	dec, err := Decompress(stream, 3)
	if err != nil {
		t.Fatalf("Decompress failed: %v", err)
	}
	if !bytes.Equal(dec, []byte{0x20, 0x20, 0x20}) {
		t.Errorf("got %v, want three 0x20 bytes", dec)
	}
}

func TestDecompressSizeMismatch(t *testing.T) {
	t.Run("over-long stream", func(t *testing.T) {
		// The whole stream decodes to 8 bytes; asking for fewer must
		// fail rather than stopping early and misreading the trailer.
		enc := Compress([]byte("abcdefgh"))
		if _, err := Decompress(enc, 7); !errors.Is(err, ErrSizeMismatch) {
			t.Errorf("want ErrSizeMismatch, got %v", err)
		}
	})

	t.Run("truncated stream", func(t *testing.T) {
		data := []byte("payload payload payload")
		enc := Compress(data)
		if _, err := Decompress(enc[:len(enc)-6], len(data)); !errors.Is(err, ErrSizeMismatch) {
			t.Errorf("want ErrSizeMismatch, got %v", err)
		}
	})

	t.Run("shorter than trailer", func(t *testing.T) {
		if _, err := Decompress([]byte{1, 2}, 0); err == nil {
			t.Error("expected error for 2-byte input")
		}
	})
}
