package rawdump

import (
	"fmt"
	"io"

	"github.com/DataDog/zstd"
)

// Writer wraps an io.WriteSeeker to produce a compressed dump.
type Writer struct {
	dst     io.WriteSeeker
	zWriter *zstd.Writer
	header  *Header
	level   int
}

// WriterOption configures a Writer.
type WriterOption func(*Writer)

// WithCompressionLevel sets the compression level for the writer.
func WithCompressionLevel(level int) WriterOption {
	return func(w *Writer) {
		w.level = level
	}
}

// NewWriter creates a dump writer for a payload of the given shape. The
// final compressed size is patched into the header on Close.
func NewWriter(dst io.WriteSeeker, header *Header, opts ...WriterOption) (*Writer, error) {
	w := &Writer{
		dst:    dst,
		level:  DefaultCompressionLevel,
		header: header,
	}

	for _, opt := range opts {
		opt(w)
	}

	// Write placeholder header
	headerBytes, err := w.header.MarshalBinary()
	if err != nil {
		return nil, fmt.Errorf("marshal header: %w", err)
	}
	if _, err := dst.Write(headerBytes); err != nil {
		return nil, fmt.Errorf("write header: %w", err)
	}

	w.zWriter = zstd.NewWriterLevel(dst, w.level)
	return w, nil
}

// Write writes compressed data.
func (w *Writer) Write(p []byte) (n int, err error) {
	return w.zWriter.Write(p)
}

// Close finalizes the dump by updating the header with the compressed size.
func (w *Writer) Close() error {
	if err := w.zWriter.Close(); err != nil {
		return fmt.Errorf("close compressor: %w", err)
	}

	pos, err := w.dst.Seek(0, io.SeekCurrent)
	if err != nil {
		return fmt.Errorf("get position: %w", err)
	}

	w.header.CompressedLength = uint32(pos) - uint32(w.header.Size())

	if _, err := w.dst.Seek(0, io.SeekStart); err != nil {
		return fmt.Errorf("seek to start: %w", err)
	}

	headerBytes, err := w.header.MarshalBinary()
	if err != nil {
		return fmt.Errorf("marshal header: %w", err)
	}

	if _, err := w.dst.Write(headerBytes); err != nil {
		return fmt.Errorf("write header: %w", err)
	}

	if _, err := w.dst.Seek(pos, io.SeekStart); err != nil {
		return fmt.Errorf("seek to end: %w", err)
	}

	return nil
}

// Encode compresses data and writes it as a dump to dst.
func Encode(dst io.WriteSeeker, width, height, format uint32, data []byte, opts ...WriterOption) error {
	header := NewHeader(width, height, format, uint32(len(data)))
	w, err := NewWriter(dst, header, opts...)
	if err != nil {
		return err
	}

	if _, err := w.Write(data); err != nil {
		return fmt.Errorf("write data: %w", err)
	}

	return w.Close()
}
