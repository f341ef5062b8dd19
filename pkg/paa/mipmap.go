package paa

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"math/bits"

	"github.com/rasky/go-lzo"

	"github.com/okonak/paatools/pkg/lzss"
	"github.com/okonak/paatools/pkg/rle"
)

// Compression is the payload encoding of a single mipmap.
type Compression uint8

const (
	Uncompressed Compression = iota
	LZO
	LZSS
	RLE
)

func (c Compression) String() string {
	switch c {
	case Uncompressed:
		return "none"
	case LZO:
		return "LZO"
	case LZSS:
		return "LZSS"
	case RLE:
		return "RLE"
	}
	return fmt.Sprintf("Compression(%d)", uint8(c))
}

// Sentinel dimensions announcing an LZSS-compressed indexed mipmap. The
// true dimensions follow the sentinel pair on the wire.
const (
	sentinelWidth  = 1234
	sentinelHeight = 8765
)

// ErrSentinelDimensions is returned when writing a non-indexed mipmap whose
// dimensions would be misread as the compression sentinel.
var ErrSentinelDimensions = errors.New("dimensions collide with compression sentinel")

// lzoWidthFlag marks an LZO-compressed DXTn mipmap in the stored width.
const lzoWidthFlag = 0x8000

// Mipmap is one image level of a container. Data always holds the
// decompressed payload; Compression records how it was (or will be)
// stored on the wire.
type Mipmap struct {
	Width       uint16
	Height      uint16
	Type        Type
	Compression Compression
	Data        []byte
}

// IsEmpty reports whether either dimension is zero.
func (m *Mipmap) IsEmpty() bool {
	return m.Width == 0 || m.Height == 0
}

// MipmapSlot pairs a mipmap with the error that produced it, if any.
// Payload-level failures are scoped to their slot rather than failing the
// whole container.
type MipmapSlot struct {
	Mipmap *Mipmap
	Err    error
}

// ReadMipmap reads one mipmap from r, detecting the payload compression:
// the sentinel pair means LZSS-compressed indexed data, a set width MSB on
// a block-compressed type means LZO, remaining indexed data is RLE, and a
// payload length differing from the predicted size on a non-block type
// means LZSS.
func ReadMipmap(r io.Reader, typ Type) (*Mipmap, error) {
	var head [4]byte
	if _, err := io.ReadFull(r, head[:]); err != nil {
		return nil, fmt.Errorf("read mipmap dimensions: %w", err)
	}

	width := binary.LittleEndian.Uint16(head[0:2])
	height := binary.LittleEndian.Uint16(head[2:4])
	if width == 0 || height == 0 {
		return nil, ErrEmptyMipmap
	}

	compression := Uncompressed

	if width == sentinelWidth && height == sentinelHeight {
		typ = TypeIndexPalette
		compression = LZSS
		if _, err := io.ReadFull(r, head[:]); err != nil {
			return nil, fmt.Errorf("read true dimensions: %w", err)
		}
		width = binary.LittleEndian.Uint16(head[0:2])
		height = binary.LittleEndian.Uint16(head[2:4])
	}

	if width&lzoWidthFlag != 0 && typ.IsDXTN() {
		compression = LZO
		width ^= lzoWidthFlag
	}

	dataLen := typ.PredictSize(int(width), int(height))

	var lenBuf [3]byte
	if _, err := io.ReadFull(r, lenBuf[:]); err != nil {
		return nil, fmt.Errorf("read payload length: %w", err)
	}
	payloadLen := int(lenBuf[0]) | int(lenBuf[1])<<8 | int(lenBuf[2])<<16

	if typ == TypeIndexPalette && compression != LZSS {
		compression = RLE
	} else if compression == Uncompressed && payloadLen != dataLen && !typ.IsDXTN() {
		compression = LZSS
	}

	payload := make([]byte, payloadLen)
	if _, err := io.ReadFull(r, payload); err != nil {
		return nil, fmt.Errorf("read payload: %w", err)
	}

	var data []byte
	var err error
	switch compression {
	case Uncompressed:
		data = payload
	case LZO:
		data, err = lzo.Decompress1X(bytes.NewReader(payload), payloadLen, dataLen)
		if err != nil {
			return nil, fmt.Errorf("decompress LZO payload: %w", err)
		}
	case LZSS:
		data, err = lzss.Decompress(payload, dataLen)
		if err != nil {
			return nil, fmt.Errorf("decompress LZSS payload: %w", err)
		}
	case RLE:
		data, err = rle.Decompress(bytes.NewReader(payload), dataLen)
		if err != nil {
			return nil, fmt.Errorf("decompress RLE payload: %w", err)
		}
	}

	return &Mipmap{
		Width:       width,
		Height:      height,
		Type:        typ,
		Compression: compression,
		Data:        data,
	}, nil
}

// ToBytes serializes the mipmap, compressing the payload per
// m.Compression. Nothing is returned on validation failure.
func (m *Mipmap) ToBytes() ([]byte, error) {
	if m.Width >= 32768 || m.Height >= 32768 {
		return nil, fmt.Errorf("%w: %dx%d", ErrMipmapTooLarge, m.Width, m.Height)
	}

	if m.Type.IsDXTN() {
		nonPow2 := bits.OnesCount16(m.Width) > 1 || bits.OnesCount16(m.Height) > 1
		if nonPow2 || m.Width < 4 || m.Height < 4 {
			return nil, fmt.Errorf("%w: %dx%d", ErrBadBlockDimensions, m.Width, m.Height)
		}
	}

	if want := m.Type.PredictSize(int(m.Width), int(m.Height)); len(m.Data) != want {
		return nil, fmt.Errorf("%w: %dx%d %s holds %d bytes, want %d",
			ErrMipmapDataSize, m.Width, m.Height, m.Type, len(m.Data), want)
	}

	indexedLzss := m.Compression == LZSS && m.Type == TypeIndexPalette
	if m.Width == sentinelWidth && m.Height == sentinelHeight && !indexedLzss {
		return nil, fmt.Errorf("%w: %dx%d", ErrSentinelDimensions, m.Width, m.Height)
	}

	width := m.Width
	height := m.Height
	if indexedLzss && !m.IsEmpty() {
		width = sentinelWidth
		height = sentinelHeight
	}
	if m.Compression == LZO && m.Type.IsDXTN() && !m.IsEmpty() {
		width ^= lzoWidthFlag
	}

	var buf bytes.Buffer
	var head [4]byte
	binary.LittleEndian.PutUint16(head[0:2], width)
	binary.LittleEndian.PutUint16(head[2:4], height)
	buf.Write(head[:])

	if m.IsEmpty() {
		return buf.Bytes(), nil
	}

	if indexedLzss {
		binary.LittleEndian.PutUint16(head[0:2], m.Width)
		binary.LittleEndian.PutUint16(head[2:4], m.Height)
		buf.Write(head[:])
	}

	var payload []byte
	switch m.Compression {
	case Uncompressed:
		payload = m.Data
	case LZO:
		payload = lzo.Compress1X(m.Data)
	case LZSS:
		payload = lzss.Compress(m.Data)
	case RLE:
		payload = rle.Compress(m.Data)
	default:
		return nil, fmt.Errorf("%w: %d", ErrUnknownMipmapCompression, m.Compression)
	}

	if len(payload) > 0xFFFFFF {
		return nil, fmt.Errorf("%w: payload is %d bytes", ErrMipmapTooLarge, len(payload))
	}
	buf.Write([]byte{
		byte(len(payload)),
		byte(len(payload) >> 8),
		byte(len(payload) >> 16),
	})
	buf.Write(payload)

	return buf.Bytes(), nil
}

// DXTNNeedsLZO reports whether a block-compressed mipmap of the given size
// is conventionally stored LZO-compressed.
func DXTNNeedsLZO(width, height uint16) bool {
	return uint32(width)*uint32(height) >= 256*256
}

// SuggestCompression returns the conventional compression for a mipmap of
// the given type and size.
func SuggestCompression(typ Type, width, height uint16) Compression {
	if typ.IsDXTN() {
		if DXTNNeedsLZO(width, height) {
			return LZO
		}
		return Uncompressed
	}
	return LZSS
}

// ReadMipmapsSequential reads mipmaps until a terminal signal: an empty
// mipmap or end of input. Payload failures occupy their slot and the scan
// continues with the next mipmap.
func ReadMipmapsSequential(r io.Reader, typ Type) []MipmapSlot {
	var slots []MipmapSlot
	for {
		m, err := ReadMipmap(r, typ)
		if err != nil {
			if errors.Is(err, ErrEmptyMipmap) || errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
				return slots
			}
			slots = append(slots, MipmapSlot{Err: err})
			continue
		}
		slots = append(slots, MipmapSlot{Mipmap: m})
	}
}

// ReadMipmapsAtOffsets reads one mipmap per offset. An offset at or past
// the end of the input produces a slot-scoped ErrOffsetBeyondEOF.
func ReadMipmapsAtOffsets(rs io.ReadSeeker, typ Type, offsets []uint32) []MipmapSlot {
	size, err := rs.Seek(0, io.SeekEnd)
	if err != nil {
		return []MipmapSlot{{Err: fmt.Errorf("find input size: %w", err)}}
	}

	slots := make([]MipmapSlot, 0, len(offsets))
	for _, off := range offsets {
		if int64(off) >= size {
			slots = append(slots, MipmapSlot{Err: fmt.Errorf("%w: offset %d, size %d", ErrOffsetBeyondEOF, off, size)})
			continue
		}
		if _, err := rs.Seek(int64(off), io.SeekStart); err != nil {
			slots = append(slots, MipmapSlot{Err: fmt.Errorf("seek to mipmap: %w", err)})
			continue
		}
		m, err := ReadMipmap(rs, typ)
		if err != nil {
			slots = append(slots, MipmapSlot{Err: err})
			continue
		}
		slots = append(slots, MipmapSlot{Mipmap: m})
	}
	return slots
}
