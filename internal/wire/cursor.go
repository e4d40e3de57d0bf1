// Package wire provides cursor-style primitives for decoding big-endian
// binary product payloads. Each Take function consumes a prefix of the input
// buffer and returns the decoded value together with the unconsumed
// remainder, so sequential reads thread the tail from one call to the next.
package wire

import (
	"encoding/binary"
	"errors"
	"math"
)

// ErrUnexpectedEOF is returned when a buffer is exhausted before a requested
// read could complete. Callers wrap it with field context via fmt.Errorf.
var ErrUnexpectedEOF = errors.New("unexpected end of data")

// TakeFloat32 reads a big-endian IEEE-754 single-precision float.
func TakeFloat32(buf []byte) (float32, []byte, error) {
	if len(buf) < 4 {
		return 0, nil, ErrUnexpectedEOF
	}
	bits := binary.BigEndian.Uint32(buf[:4])
	return math.Float32frombits(bits), buf[4:], nil
}

// TakeInt32 reads a big-endian two's-complement 32-bit integer.
func TakeInt32(buf []byte) (int32, []byte, error) {
	if len(buf) < 4 {
		return 0, nil, ErrUnexpectedEOF
	}
	return int32(binary.BigEndian.Uint32(buf[:4])), buf[4:], nil
}

// TakeUint16 reads a big-endian unsigned 16-bit integer.
func TakeUint16(buf []byte) (uint16, []byte, error) {
	if len(buf) < 2 {
		return 0, nil, ErrUnexpectedEOF
	}
	return binary.BigEndian.Uint16(buf[:2]), buf[2:], nil
}

// TakeString reads a string prefixed by a big-endian uint16 byte length.
func TakeString(buf []byte) (string, []byte, error) {
	n, rest, err := TakeUint16(buf)
	if err != nil {
		return "", nil, err
	}
	raw, rest, err := TakeBytes(rest, int(n))
	if err != nil {
		return "", nil, err
	}
	return string(raw), rest, nil
}

// TakeBytes reads exactly n raw bytes. The returned slice aliases the input
// buffer; callers must copy if they retain it past the buffer's lifetime.
func TakeBytes(buf []byte, n int) ([]byte, []byte, error) {
	if n < 0 || len(buf) < n {
		return nil, nil, ErrUnexpectedEOF
	}
	return buf[:n], buf[n:], nil
}
