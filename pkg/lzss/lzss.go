// Package lzss implements the LZSS dictionary codec found in legacy texture
// payloads. It is the Okumura variant: a 4096-byte ring buffer prefilled
// with spaces, control bytes consumed LSB-first, literals on a set bit and
// (offset, length) pairs on a clear bit. Offsets are absolute ring
// positions; lengths run from 3 to 18 bytes.
//
// The compressed stream is followed by a 4-byte little-endian additive
// checksum of the uncompressed data. Files produced by the original
// toolchain frequently carry checksums that do not match, so verification
// is opt-in via DecompressStrict.
package lzss

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
)

const (
	ringSize  = 4096
	ringMask  = ringSize - 1
	maxMatch  = 18
	minMatch  = 3
	ringStart = ringSize - maxMatch // 0xFEE
	fillByte  = 0x20
)

// ErrChecksumMismatch is returned by DecompressStrict when the trailing
// checksum does not match the decompressed data.
var ErrChecksumMismatch = errors.New("lzss: checksum mismatch")

// ErrSizeMismatch is returned when decoding the whole stream produces a
// different number of bytes than the caller expected.
var ErrSizeMismatch = errors.New("lzss: decompressed size mismatch")

// Checksum returns the wrapping additive checksum of data, computed over
// the uncompressed bytes.
func Checksum(data []byte) int32 {
	var sum int32
	for _, b := range data {
		sum += int32(b)
	}
	return sum
}

// Decompress decodes the whole of data: the compressed stream followed by
// the 4-byte checksum trailer. Decoding must produce exactly expectedLen
// bytes; an over-long or truncated stream is ErrSizeMismatch. The
// checksum is not verified.
func Decompress(data []byte, expectedLen int) ([]byte, error) {
	out, _, err := decompress(data, expectedLen)
	return out, err
}

// DecompressStrict is Decompress with checksum verification.
func DecompressStrict(data []byte, expectedLen int) ([]byte, error) {
	out, stored, err := decompress(data, expectedLen)
	if err != nil {
		return nil, err
	}
	if sum := Checksum(out); sum != stored {
		return nil, fmt.Errorf("%w: stored %#x, computed %#x", ErrChecksumMismatch, stored, sum)
	}
	return out, nil
}

func decompress(data []byte, expectedLen int) ([]byte, int32, error) {
	if len(data) < 4 {
		return nil, 0, fmt.Errorf("lzss: stream is %d bytes, shorter than the checksum trailer", len(data))
	}
	stream := data[:len(data)-4]
	stored := int32(binary.LittleEndian.Uint32(data[len(data)-4:]))

	var ring [ringSize]byte
	for i := range ring {
		ring[i] = fillByte
	}
	pos := ringStart

	out := make([]byte, 0, expectedLen)
	var control uint16 // bit 8 acts as the refill marker

	i := 0
	for i < len(stream) {
		control >>= 1
		if control&0x100 == 0 {
			control = uint16(stream[i]) | 0xFF00
			i++
			if i == len(stream) {
				break
			}
		}

		if control&1 != 0 {
			b := stream[i]
			i++
			out = append(out, b)
			ring[pos] = b
			pos = (pos + 1) & ringMask
			continue
		}

		if i+2 > len(stream) {
			break
		}
		b1, b2 := stream[i], stream[i+1]
		i += 2

		offset := int(b1) | int(b2&0xF0)<<4
		length := int(b2&0x0F) + minMatch

		for k := 0; k < length; k++ {
			c := ring[(offset+k)&ringMask]
			out = append(out, c)
			ring[pos] = c
			pos = (pos + 1) & ringMask
		}
	}

	if len(out) != expectedLen {
		return nil, 0, fmt.Errorf("%w: decoded %d bytes, want %d", ErrSizeMismatch, len(out), expectedLen)
	}
	return out, stored, nil
}

// Compress encodes data as an LZSS stream, greedy longest match, and
// appends the additive checksum.
func Compress(data []byte) []byte {
	var buf bytes.Buffer

	var ring [ringSize]byte
	for i := range ring {
		ring[i] = fillByte
	}
	pos := ringStart

	// Tokens accumulate eight at a time behind one control byte.
	var control byte
	var nbits int
	var pending bytes.Buffer

	flush := func() {
		buf.WriteByte(control)
		buf.Write(pending.Bytes())
		control = 0
		nbits = 0
		pending.Reset()
	}

	i := 0
	for i < len(data) {
		offset, length := findMatch(&ring, pos, data[i:])

		if length >= minMatch {
			pending.WriteByte(byte(offset & 0xFF))
			pending.WriteByte(byte(offset>>4&0xF0) | byte(length-minMatch))
		} else {
			length = 1
			control |= 1 << nbits
			pending.WriteByte(data[i])
		}
		nbits++

		for k := 0; k < length; k++ {
			ring[pos] = data[i+k]
			pos = (pos + 1) & ringMask
		}
		i += length

		if nbits == 8 {
			flush()
		}
	}
	if nbits > 0 {
		flush()
	}

	var sumBuf [4]byte
	binary.LittleEndian.PutUint32(sumBuf[:], uint32(Checksum(data)))
	buf.Write(sumBuf[:])
	return buf.Bytes()
}

// findMatch searches the ring for the longest match of data. Matches may
// overlap the write position; the copy is simulated byte by byte exactly
// as the decompressor performs it.
func findMatch(ring *[ringSize]byte, pos int, data []byte) (offset, length int) {
	limit := len(data)
	if limit > maxMatch {
		limit = maxMatch
	}
	if limit < minMatch {
		return 0, 0
	}

	for start := 0; start < ringSize; start++ {
		if ring[start] != data[0] {
			continue
		}

		var scratch [maxMatch]byte
		n := 0
		for n < limit {
			src := (start + n) & ringMask
			c := ring[src]
			// A source inside the window being written reads the
			// bytes this match has already produced.
			d := (src - pos) & ringMask
			if d < n {
				c = scratch[d]
			}
			if c != data[n] {
				break
			}
			scratch[n] = c
			n++
		}

		if n > length {
			offset, length = start, n
			if length == limit {
				break
			}
		}
	}
	return offset, length
}
