package rle

import (
	"bytes"
	"testing"
)

func TestRoundTrip(t *testing.T) {
	cases := []struct {
		name string
		data []byte
	}{
		{"empty", []byte{}},
		{"single byte", []byte{0x42}},
		{"two bytes", []byte{0x01, 0x02}},
		{"short run", []byte{7, 7}},
		{"exact run", []byte{7, 7, 7}},
		{"long run", bytes.Repeat([]byte{0xAB}, 500)},
		{"literals only", []byte{1, 2, 3, 4, 5, 6, 7, 8}},
		{"mixed", append(append([]byte{1, 2, 3}, bytes.Repeat([]byte{0}, 40)...), 9, 8, 7)},
		{"run at end", append([]byte{5, 6}, bytes.Repeat([]byte{0xFF}, 10)...)},
		{"129 literals", func() []byte {
			b := make([]byte, 129)
			for i := range b {
				b[i] = byte(i)
			}
			return b
		}()},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			enc := Compress(tc.data)
			dec, err := Decompress(bytes.NewReader(enc), len(tc.data))
			if err != nil {
				t.Fatalf("Decompress failed: %v", err)
			}
			if !bytes.Equal(dec, tc.data) {
				t.Errorf("round trip mismatch: got %v, want %v", dec, tc.data)
			}
		})
	}
}

func TestDecompressPackets(t *testing.T) {
	t.Run("repeat packet", func(t *testing.T) {
		// 0x83 = repeat next byte 4 times
		dec, err := Decompress(bytes.NewReader([]byte{0x83, 0xAA}), 4)
		if err != nil {
			t.Fatalf("Decompress failed: %v", err)
		}
		if !bytes.Equal(dec, []byte{0xAA, 0xAA, 0xAA, 0xAA}) {
			t.Errorf("got %v", dec)
		}
	})

	t.Run("literal packet", func(t *testing.T) {
		// 0x02 = copy next 3 bytes
		dec, err := Decompress(bytes.NewReader([]byte{0x02, 1, 2, 3}), 3)
		if err != nil {
			t.Fatalf("Decompress failed: %v", err)
		}
		if !bytes.Equal(dec, []byte{1, 2, 3}) {
			t.Errorf("got %v", dec)
		}
	})

	t.Run("overrun rejected", func(t *testing.T) {
		if _, err := Decompress(bytes.NewReader([]byte{0x83, 0xAA}), 3); err == nil {
			t.Error("expected error for packet overrunning output")
		}
	})

	t.Run("truncated stream", func(t *testing.T) {
		if _, err := Decompress(bytes.NewReader([]byte{0x05, 1, 2}), 6); err == nil {
			t.Error("expected error for truncated literals")
		}
	})
}

func TestCompressUsesRuns(t *testing.T) {
	data := bytes.Repeat([]byte{0x11}, 100)
	enc := Compress(data)
	if len(enc) != 2 {
		t.Errorf("100-byte run should pack to 2 bytes, got %d", len(enc))
	}
}
