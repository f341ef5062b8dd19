// Package rle implements the byte-oriented run-length codec used for
// indexed-palette texture payloads. The stream is a sequence of packets:
// a flag byte with the high bit set means "repeat the next byte flag&0x7F+1
// times", a flag byte with the high bit clear means "copy the next
// flag+1 bytes verbatim".
package rle

import (
	"bytes"
	"fmt"
	"io"
)

// maxPacket is the longest run or literal a single packet can carry.
const maxPacket = 128

// Decompress reads packets from r until expectedLen output bytes have been
// produced. A packet that would overshoot expectedLen is an error.
func Decompress(r io.Reader, expectedLen int) ([]byte, error) {
	out := make([]byte, 0, expectedLen)
	var flag [1]byte

	for len(out) < expectedLen {
		if _, err := io.ReadFull(r, flag[:]); err != nil {
			return nil, fmt.Errorf("read flag byte: %w", err)
		}

		n := int(flag[0]&0x7F) + 1
		if len(out)+n > expectedLen {
			return nil, fmt.Errorf("packet overruns output: have %d, packet %d, want %d", len(out), n, expectedLen)
		}

		if flag[0]&0x80 != 0 {
			var b [1]byte
			if _, err := io.ReadFull(r, b[:]); err != nil {
				return nil, fmt.Errorf("read run byte: %w", err)
			}
			for i := 0; i < n; i++ {
				out = append(out, b[0])
			}
		} else {
			lit := make([]byte, n)
			if _, err := io.ReadFull(r, lit); err != nil {
				return nil, fmt.Errorf("read literal bytes: %w", err)
			}
			out = append(out, lit...)
		}
	}

	return out, nil
}

// Compress encodes data as RLE packets. Runs of three or more identical
// bytes become repeat packets; everything else is emitted as literals.
func Compress(data []byte) []byte {
	var buf bytes.Buffer

	i := 0
	for i < len(data) {
		run := runLength(data[i:])
		if run >= 3 {
			if run > maxPacket {
				run = maxPacket
			}
			buf.WriteByte(0x80 | byte(run-1))
			buf.WriteByte(data[i])
			i += run
			continue
		}

		// Gather literals until the next long run or end of input.
		start := i
		for i < len(data) && i-start < maxPacket {
			if runLength(data[i:]) >= 3 {
				break
			}
			i++
		}
		buf.WriteByte(byte(i - start - 1))
		buf.Write(data[start:i])
	}

	return buf.Bytes()
}

func runLength(data []byte) int {
	n := 1
	for n < len(data) && data[n] == data[0] {
		n++
	}
	return n
}
