package paa

import "errors"

// Container-level and mipmap-level failure values. Mipmap-scoped errors are
// captured per slot in MipmapSlot.Err; container-scoped errors abort the
// whole read or write.
var (
	ErrUnknownType              = errors.New("unknown texture type")
	ErrUnexpectedTagg           = errors.New("unexpected tagg")
	ErrUnknownMipmapCompression = errors.New("unknown mipmap compression")
	ErrEmptyMipmap              = errors.New("empty mipmap")
	ErrMipmapTooLarge           = errors.New("mipmap dimension out of range")
	ErrTooManyMipmaps           = errors.New("too many mipmaps")
	ErrMipmapDataSize           = errors.New("mipmap data size mismatch")
	ErrBadBlockDimensions       = errors.New("dimensions not valid for block compression")
	ErrOffsetBeyondEOF          = errors.New("mipmap offset beyond end of file")
	ErrUnsupportedOperation     = errors.New("unsupported operation")
)
