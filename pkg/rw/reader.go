// Package rw provides the seekable little-endian cursor that every ROSE
// format codec reads and writes through. Readers operate over a whole-file
// byte buffer; writers buffer in memory so that forward offsets can be
// patched with a seek before the final bytes are taken.
package rw

import (
	"bytes"
	"encoding/binary"
	"io"

	"github.com/Faultbox/junon-rose/pkg/encoding"
	"github.com/Faultbox/junon-rose/pkg/math"
)

// Reader is a positioned little-endian reader over an in-memory file image.
//
// The wide flag selects the string charset for the whole file: narrow
// (UTF-8 with EUC-KR fallback) or wide (UTF-16LE). Some formats, such as
// translated ai_s.stb files, are wide for every string they contain, so the
// mode belongs to the cursor rather than to individual calls.
type Reader struct {
	r    *bytes.Reader
	wide bool
}

// NewReader returns a Reader over data with narrow string decoding.
func NewReader(data []byte) *Reader {
	return &Reader{r: bytes.NewReader(data)}
}

// NewWideReader returns a Reader over data with UTF-16LE string decoding.
func NewWideReader(data []byte) *Reader {
	return &Reader{r: bytes.NewReader(data), wide: true}
}

// Wide reports whether the reader decodes strings as UTF-16LE.
func (r *Reader) Wide() bool {
	return r.wide
}

// Position returns the current offset from the start of the data.
func (r *Reader) Position() int64 {
	pos, _ := r.r.Seek(0, io.SeekCurrent)
	return pos
}

// Seek moves the cursor to an absolute offset.
func (r *Reader) Seek(pos int64) error {
	_, err := r.r.Seek(pos, io.SeekStart)
	return err
}

// Skip advances the cursor by n bytes without reading them.
func (r *Reader) Skip(n int64) error {
	_, err := r.r.Seek(n, io.SeekCurrent)
	return err
}

func (r *Reader) read(v any) error {
	return binary.Read(r.r, binary.LittleEndian, v)
}

// ReadUint8 reads one unsigned byte.
func (r *Reader) ReadUint8() (uint8, error) {
	return r.r.ReadByte()
}

// ReadUint16 reads a little-endian uint16.
func (r *Reader) ReadUint16() (uint16, error) {
	var v uint16
	err := r.read(&v)
	return v, err
}

// ReadUint32 reads a little-endian uint32.
func (r *Reader) ReadUint32() (uint32, error) {
	var v uint32
	err := r.read(&v)
	return v, err
}

// ReadUint64 reads a little-endian uint64.
func (r *Reader) ReadUint64() (uint64, error) {
	var v uint64
	err := r.read(&v)
	return v, err
}

// ReadInt8 reads one signed byte.
func (r *Reader) ReadInt8() (int8, error) {
	b, err := r.r.ReadByte()
	return int8(b), err
}

// ReadInt16 reads a little-endian int16.
func (r *Reader) ReadInt16() (int16, error) {
	var v int16
	err := r.read(&v)
	return v, err
}

// ReadInt32 reads a little-endian int32.
func (r *Reader) ReadInt32() (int32, error) {
	var v int32
	err := r.read(&v)
	return v, err
}

// ReadInt64 reads a little-endian int64.
func (r *Reader) ReadInt64() (int64, error) {
	var v int64
	err := r.read(&v)
	return v, err
}

// ReadFloat32 reads a little-endian float32.
func (r *Reader) ReadFloat32() (float32, error) {
	var v float32
	err := r.read(&v)
	return v, err
}

// ReadFloat64 reads a little-endian float64.
func (r *Reader) ReadFloat64() (float64, error) {
	var v float64
	err := r.read(&v)
	return v, err
}

// ReadBool reads one byte as a boolean (nonzero = true).
func (r *Reader) ReadBool() (bool, error) {
	v, err := r.ReadUint8()
	return v != 0, err
}

// ReadBool16 reads a uint16 as a boolean (nonzero = true).
func (r *Reader) ReadBool16() (bool, error) {
	v, err := r.ReadUint16()
	return v != 0, err
}

// decode converts raw string payload bytes per the cursor's charset mode.
func (r *Reader) decode(b []byte) string {
	if r.wide {
		return encoding.DecodeWide(b)
	}
	return encoding.Decode(b)
}

// ReadFixedString reads exactly n payload bytes. A single trailing NUL, if
// present, is dropped before decoding.
func (r *Reader) ReadFixedString(n int) (string, error) {
	if n == 0 {
		return "", nil
	}
	buf := make([]byte, n)
	if _, err := io.ReadFull(r.r, buf); err != nil {
		return "", err
	}
	if buf[len(buf)-1] == 0 {
		buf = buf[:len(buf)-1]
	}
	return r.decode(buf), nil
}

// ReadCString reads bytes up to a NUL terminator. The terminator is consumed
// and discarded.
func (r *Reader) ReadCString() (string, error) {
	var buf []byte
	for {
		b, err := r.r.ReadByte()
		if err != nil {
			return "", err
		}
		if b == 0 {
			break
		}
		buf = append(buf, b)
	}
	return r.decode(buf), nil
}

// ReadStringU8 reads a string with a uint8 length prefix.
func (r *Reader) ReadStringU8() (string, error) {
	n, err := r.ReadUint8()
	if err != nil {
		return "", err
	}
	return r.ReadFixedString(int(n))
}

// ReadStringU16 reads a string with a uint16 length prefix.
func (r *Reader) ReadStringU16() (string, error) {
	n, err := r.ReadUint16()
	if err != nil {
		return "", err
	}
	return r.ReadFixedString(int(n))
}

// ReadStringU32 reads a string with a uint32 length prefix.
func (r *Reader) ReadStringU32() (string, error) {
	n, err := r.ReadUint32()
	if err != nil {
		return "", err
	}
	return r.ReadFixedString(int(n))
}

// ReadStringVarbyte reads a string with a variable-width length prefix.
// Lengths below 128 fit one byte; otherwise the first byte carries the low 7
// bits plus a continuation flag and the second byte the high bits.
func (r *Reader) ReadStringVarbyte() (string, error) {
	first, err := r.ReadUint8()
	if err != nil {
		return "", err
	}
	if first&0x80 == 0 {
		return r.ReadFixedString(int(first))
	}
	second, err := r.ReadUint8()
	if err != nil {
		return "", err
	}
	length := uint16(second)<<7 | uint16(first&0x7F)
	return r.ReadFixedString(int(length))
}

// ReadColor3 reads an RGB color as three float32s.
func (r *Reader) ReadColor3() (math.Color3, error) {
	var c math.Color3
	err := r.read(&c)
	return c, err
}

// ReadVec2i reads a 2D int32 vector.
func (r *Reader) ReadVec2i() (math.Vec2i, error) {
	var v math.Vec2i
	err := r.read(&v)
	return v, err
}

// ReadVec2 reads a 2D float32 vector.
func (r *Reader) ReadVec2() (math.Vec2, error) {
	var v math.Vec2
	err := r.read(&v)
	return v, err
}

// ReadVec3 reads a 3D float32 vector.
func (r *Reader) ReadVec3() (math.Vec3, error) {
	var v math.Vec3
	err := r.read(&v)
	return v, err
}

// ReadQuat reads a quaternion stored x y z w.
func (r *Reader) ReadQuat() (math.Quat, error) {
	var q math.Quat
	err := r.read(&q)
	return q, err
}

// ReadQuatWXYZ reads a quaternion stored w x y z.
func (r *Reader) ReadQuatWXYZ() (math.Quat, error) {
	var q math.Quat
	if err := r.read(&q.W); err != nil {
		return q, err
	}
	if err := r.read(&q.X); err != nil {
		return q, err
	}
	if err := r.read(&q.Y); err != nil {
		return q, err
	}
	err := r.read(&q.Z)
	return q, err
}
