package rw

import (
	"encoding/binary"
	"fmt"
	stdmath "math"

	"github.com/Faultbox/junon-rose/pkg/math"
)

// maxVarbyteLen is the largest string length a two-byte varbyte prefix can
// carry: 7 low bits plus 8 high bits.
const maxVarbyteLen = 0x7FFF

// Writer is a positioned little-endian writer over a growable in-memory
// buffer. Seeking backwards and overwriting is the mechanism behind the
// forward-patched offsets several formats require; Bytes returns the full
// extent written regardless of where the cursor ends up.
//
// Writes to the buffer cannot fail, so scalar writers return nothing; the
// few operations with unencodable inputs return an error instead.
type Writer struct {
	buf []byte
	pos int
}

// NewWriter returns an empty Writer.
func NewWriter() *Writer {
	return &Writer{}
}

// Bytes returns the written file image.
func (w *Writer) Bytes() []byte {
	return w.buf
}

// Position returns the current offset from the start of the buffer.
func (w *Writer) Position() int64 {
	return int64(w.pos)
}

// Seek moves the cursor to an absolute offset. Seeking past the current end
// extends the buffer with zero bytes.
func (w *Writer) Seek(pos int64) {
	if int(pos) > len(w.buf) {
		w.buf = append(w.buf, make([]byte, int(pos)-len(w.buf))...)
	}
	w.pos = int(pos)
}

func (w *Writer) write(p []byte) {
	end := w.pos + len(p)
	if end > len(w.buf) {
		w.buf = append(w.buf, make([]byte, end-len(w.buf))...)
	}
	copy(w.buf[w.pos:end], p)
	w.pos = end
}

// WriteUint8 writes one unsigned byte.
func (w *Writer) WriteUint8(v uint8) {
	w.write([]byte{v})
}

// WriteUint16 writes a little-endian uint16.
func (w *Writer) WriteUint16(v uint16) {
	var b [2]byte
	binary.LittleEndian.PutUint16(b[:], v)
	w.write(b[:])
}

// WriteUint32 writes a little-endian uint32.
func (w *Writer) WriteUint32(v uint32) {
	var b [4]byte
	binary.LittleEndian.PutUint32(b[:], v)
	w.write(b[:])
}

// WriteUint64 writes a little-endian uint64.
func (w *Writer) WriteUint64(v uint64) {
	var b [8]byte
	binary.LittleEndian.PutUint64(b[:], v)
	w.write(b[:])
}

// WriteInt8 writes one signed byte.
func (w *Writer) WriteInt8(v int8) {
	w.WriteUint8(uint8(v))
}

// WriteInt16 writes a little-endian int16.
func (w *Writer) WriteInt16(v int16) {
	w.WriteUint16(uint16(v))
}

// WriteInt32 writes a little-endian int32.
func (w *Writer) WriteInt32(v int32) {
	w.WriteUint32(uint32(v))
}

// WriteInt64 writes a little-endian int64.
func (w *Writer) WriteInt64(v int64) {
	w.WriteUint64(uint64(v))
}

// WriteFloat32 writes a little-endian float32.
func (w *Writer) WriteFloat32(v float32) {
	w.WriteUint32(stdmath.Float32bits(v))
}

// WriteFloat64 writes a little-endian float64.
func (w *Writer) WriteFloat64(v float64) {
	w.WriteUint64(stdmath.Float64bits(v))
}

// WriteBool writes a boolean as one byte.
func (w *Writer) WriteBool(v bool) {
	if v {
		w.WriteUint8(1)
	} else {
		w.WriteUint8(0)
	}
}

// WriteBool16 writes a boolean as a uint16.
func (w *Writer) WriteBool16(v bool) {
	if v {
		w.WriteUint16(1)
	} else {
		w.WriteUint16(0)
	}
}

// WriteFixedString writes the string's UTF-8 bytes into a field of exactly n
// bytes, truncating or NUL-padding as needed.
func (w *Writer) WriteFixedString(s string, n int) {
	buf := make([]byte, n)
	copy(buf, s)
	w.write(buf)
}

// WriteCString writes the string's bytes followed by a NUL terminator.
func (w *Writer) WriteCString(s string) {
	w.write([]byte(s))
	w.WriteUint8(0)
}

// WriteStringU8 writes a string with a uint8 length prefix.
func (w *Writer) WriteStringU8(s string) {
	w.WriteUint8(uint8(len(s)))
	w.write([]byte(s))
}

// WriteStringU16 writes a string with a uint16 length prefix.
func (w *Writer) WriteStringU16(s string) {
	w.WriteUint16(uint16(len(s)))
	w.write([]byte(s))
}

// WriteStringU32 writes a string with a uint32 length prefix.
func (w *Writer) WriteStringU32(s string) {
	w.WriteUint32(uint32(len(s)))
	w.write([]byte(s))
}

// WriteStringVarbyte writes a string with a variable-width length prefix:
// one byte below 128, two bytes (low 7 bits | continuation, high bits)
// otherwise. Strings longer than 32767 bytes have no encoding.
func (w *Writer) WriteStringVarbyte(s string) error {
	n := len(s)
	if n > maxVarbyteLen {
		return fmt.Errorf("string of %d bytes exceeds varbyte length limit", n)
	}
	if n < 128 {
		w.WriteUint8(uint8(n))
	} else {
		w.WriteUint8(uint8(n&0x7F) | 0x80)
		w.WriteUint8(uint8(n >> 7))
	}
	w.write([]byte(s))
	return nil
}

// WriteColor3 writes an RGB color as three float32s.
func (w *Writer) WriteColor3(c math.Color3) {
	w.WriteFloat32(c.R)
	w.WriteFloat32(c.G)
	w.WriteFloat32(c.B)
}

// WriteVec2i writes a 2D int32 vector.
func (w *Writer) WriteVec2i(v math.Vec2i) {
	w.WriteInt32(v.X)
	w.WriteInt32(v.Y)
}

// WriteVec2 writes a 2D float32 vector.
func (w *Writer) WriteVec2(v math.Vec2) {
	w.WriteFloat32(v.X)
	w.WriteFloat32(v.Y)
}

// WriteVec3 writes a 3D float32 vector.
func (w *Writer) WriteVec3(v math.Vec3) {
	w.WriteFloat32(v.X)
	w.WriteFloat32(v.Y)
	w.WriteFloat32(v.Z)
}

// WriteQuat writes a quaternion in x y z w order.
func (w *Writer) WriteQuat(q math.Quat) {
	w.WriteFloat32(q.X)
	w.WriteFloat32(q.Y)
	w.WriteFloat32(q.Z)
	w.WriteFloat32(q.W)
}

// WriteQuatWXYZ writes a quaternion in w x y z order.
func (w *Writer) WriteQuatWXYZ(q math.Quat) {
	w.WriteFloat32(q.W)
	w.WriteFloat32(q.X)
	w.WriteFloat32(q.Y)
	w.WriteFloat32(q.Z)
}
