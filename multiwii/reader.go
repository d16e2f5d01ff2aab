package multiwii

import (
	"encoding/binary"
	"io"
)

// ByteReader is a cursor over a message payload. All multi byte
// values are little endian. Reads past the end of the payload
// fail with ErrOutOfBounds and leave the cursor untouched.
type ByteReader struct {
	buf []byte
	p   int
}

// NewByteReader returns a ByteReader positioned at the start of buf.
func NewByteReader(buf []byte) *ByteReader {
	return &ByteReader{buf: buf}
}

// Len returns the number of unread bytes
func (r *ByteReader) Len() int {
	return len(r.buf) - r.p
}

// Offset returns the current cursor position
func (r *ByteReader) Offset() int {
	return r.p
}

func (r *ByteReader) next(n int) ([]byte, error) {
	if n > r.Len() {
		return nil, ErrOutOfBounds
	}
	b := r.buf[r.p : r.p+n]
	r.p += n
	return b, nil
}

// ReadU8 reads a single byte
func (r *ByteReader) ReadU8() (uint8, error) {
	b, err := r.next(1)
	if err != nil {
		return 0, err
	}
	return b[0], nil
}

// ReadU16 reads a little endian uint16
func (r *ByteReader) ReadU16() (uint16, error) {
	b, err := r.next(2)
	if err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint16(b), nil
}

// ReadU32 reads a little endian uint32
func (r *ByteReader) ReadU32() (uint32, error) {
	b, err := r.next(4)
	if err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint32(b), nil
}

// Read implements io.Reader, so fixed layouts can be decoded
// with binary.Read.
func (r *ByteReader) Read(p []byte) (int, error) {
	if len(p) == 0 {
		return 0, nil
	}
	if r.Len() == 0 {
		return 0, io.EOF
	}
	n := copy(p, r.buf[r.p:])
	r.p += n
	return n, nil
}

// readStruct decodes a fixed layout into v, translating short
// reads into ErrOutOfBounds.
func (r *ByteReader) readStruct(v interface{}) error {
	if binary.Size(v) > r.Len() {
		return ErrOutOfBounds
	}
	return binary.Read(r, binary.LittleEndian, v)
}
