// Package rawdump provides a zstd-framed container for decoded texture
// payloads. It carries the pixel format and dimensions alongside the raw
// data, so a dumped mipmap can be re-encoded without the source file.
package rawdump

import (
	"encoding/binary"
	"fmt"
)

// Magic bytes identifying a raw texture dump.
var Magic = [4]byte{0x50, 0x41, 0x44, 0x30} // "PAD0"

// HeaderSize is the fixed binary size of a dump header.
const HeaderSize = 28 // 4 + 4 + 4 + 4 + 4 + 4 + 4 bytes

// Header describes the dumped payload.
type Header struct {
	Magic            [4]byte
	HeaderLength     uint32
	Width            uint32
	Height           uint32
	Format           uint32 // texture type code of the payload
	Length           uint32 // Uncompressed size
	CompressedLength uint32 // Compressed size
}

// Size returns the binary size of the header.
func (h *Header) Size() int {
	return HeaderSize
}

// Validate checks the header for validity.
func (h *Header) Validate() error {
	if h.Magic != Magic {
		return fmt.Errorf("invalid magic: expected %x, got %x", Magic, h.Magic)
	}
	if h.HeaderLength != 20 {
		return fmt.Errorf("invalid header length: expected 20, got %d", h.HeaderLength)
	}
	if h.Width == 0 || h.Height == 0 {
		return fmt.Errorf("dump dimensions are zero: %dx%d", h.Width, h.Height)
	}
	if h.Length == 0 {
		return fmt.Errorf("uncompressed size is zero")
	}
	if h.CompressedLength == 0 {
		return fmt.Errorf("compressed size is zero")
	}
	return nil
}

// MarshalBinary encodes the header to binary format.
func (h *Header) MarshalBinary() ([]byte, error) {
	buf := make([]byte, HeaderSize)
	h.EncodeTo(buf)
	return buf, nil
}

// EncodeTo writes the header to the given buffer.
// The buffer must be at least HeaderSize bytes.
func (h *Header) EncodeTo(buf []byte) {
	copy(buf[0:4], h.Magic[:])
	binary.LittleEndian.PutUint32(buf[4:8], h.HeaderLength)
	binary.LittleEndian.PutUint32(buf[8:12], h.Width)
	binary.LittleEndian.PutUint32(buf[12:16], h.Height)
	binary.LittleEndian.PutUint32(buf[16:20], h.Format)
	binary.LittleEndian.PutUint32(buf[20:24], h.Length)
	binary.LittleEndian.PutUint32(buf[24:28], h.CompressedLength)
}

// UnmarshalBinary decodes the header from binary format and validates it.
func (h *Header) UnmarshalBinary(data []byte) error {
	if len(data) < HeaderSize {
		return fmt.Errorf("header data too short: need %d, got %d", HeaderSize, len(data))
	}
	h.DecodeFrom(data)
	return h.Validate()
}

// DecodeFrom reads the header from the given buffer.
// Does not validate - use UnmarshalBinary for validation.
func (h *Header) DecodeFrom(data []byte) {
	copy(h.Magic[:], data[0:4])
	h.HeaderLength = binary.LittleEndian.Uint32(data[4:8])
	h.Width = binary.LittleEndian.Uint32(data[8:12])
	h.Height = binary.LittleEndian.Uint32(data[12:16])
	h.Format = binary.LittleEndian.Uint32(data[16:20])
	h.Length = binary.LittleEndian.Uint32(data[20:24])
	h.CompressedLength = binary.LittleEndian.Uint32(data[24:28])
}

// NewHeader creates a dump header for a payload of the given shape.
func NewHeader(width, height, format, uncompressedSize uint32) *Header {
	return &Header{
		Magic:        Magic,
		HeaderLength: 20,
		Width:        width,
		Height:       height,
		Format:       format,
		Length:       uncompressedSize,
	}
}
