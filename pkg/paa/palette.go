package paa

import (
	"encoding/binary"
	"fmt"
	"io"
)

// Palette is the color table block that follows the tagg records: a
// uint16 triplet count and count B,G,R triplets. Non-indexed containers
// carry a zero count.
type Palette struct {
	Triplets [][3]uint8
}

// ReadPalette reads the palette block.
func ReadPalette(r io.Reader) (*Palette, error) {
	var head [2]byte
	if _, err := io.ReadFull(r, head[:]); err != nil {
		return nil, fmt.Errorf("read palette length: %w", err)
	}

	count := int(binary.LittleEndian.Uint16(head[:]))
	p := &Palette{}
	if count == 0 {
		return p, nil
	}

	raw := make([]byte, count*3)
	if _, err := io.ReadFull(r, raw); err != nil {
		return nil, fmt.Errorf("read palette triplets: %w", err)
	}
	p.Triplets = make([][3]uint8, count)
	for i := range p.Triplets {
		copy(p.Triplets[i][:], raw[i*3:i*3+3])
	}
	return p, nil
}

// ToBytes serializes the palette block. A nil palette is the two-byte
// zero-count block.
func (p *Palette) ToBytes() []byte {
	n := 0
	if p != nil {
		n = len(p.Triplets)
	}
	buf := make([]byte, 2+n*3)
	binary.LittleEndian.PutUint16(buf[:2], uint16(n))
	for i := 0; i < n; i++ {
		copy(buf[2+i*3:], p.Triplets[i][:])
	}
	return buf
}
