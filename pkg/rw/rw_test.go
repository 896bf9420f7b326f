package rw

import (
	"bytes"
	"io"
	"strings"
	"testing"

	"github.com/Faultbox/junon-rose/pkg/math"
)

func TestScalarRoundTrip(t *testing.T) {
	w := NewWriter()
	w.WriteUint8(0xAB)
	w.WriteUint16(0xBEEF)
	w.WriteUint32(0xDEADBEEF)
	w.WriteInt16(-2)
	w.WriteInt32(-70000)
	w.WriteFloat32(1.5)
	w.WriteBool(true)
	w.WriteBool16(false)

	r := NewReader(w.Bytes())
	if v, _ := r.ReadUint8(); v != 0xAB {
		t.Errorf("ReadUint8 = %#x", v)
	}
	if v, _ := r.ReadUint16(); v != 0xBEEF {
		t.Errorf("ReadUint16 = %#x", v)
	}
	if v, _ := r.ReadUint32(); v != 0xDEADBEEF {
		t.Errorf("ReadUint32 = %#x", v)
	}
	if v, _ := r.ReadInt16(); v != -2 {
		t.Errorf("ReadInt16 = %d", v)
	}
	if v, _ := r.ReadInt32(); v != -70000 {
		t.Errorf("ReadInt32 = %d", v)
	}
	if v, _ := r.ReadFloat32(); v != 1.5 {
		t.Errorf("ReadFloat32 = %v", v)
	}
	if v, _ := r.ReadBool(); !v {
		t.Error("ReadBool = false")
	}
	if v, _ := r.ReadBool16(); v {
		t.Error("ReadBool16 = true")
	}
}

func TestLittleEndianLayout(t *testing.T) {
	w := NewWriter()
	w.WriteUint32(0x11223344)
	if !bytes.Equal(w.Bytes(), []byte{0x44, 0x33, 0x22, 0x11}) {
		t.Errorf("uint32 bytes = % x", w.Bytes())
	}
}

func TestReadPastEnd(t *testing.T) {
	r := NewReader([]byte{0x01})
	if _, err := r.ReadUint32(); err == nil {
		t.Error("expected error reading past end")
	}
	r2 := NewReader([]byte{0x05, 'a'})
	if _, err := r2.ReadStringU8(); err != io.ErrUnexpectedEOF {
		t.Errorf("truncated string payload: got %v", err)
	}
}

func TestCString(t *testing.T) {
	w := NewWriter()
	w.WriteCString("mesh.zms")
	w.WriteCString("")
	w.WriteUint8(0xFF)

	r := NewReader(w.Bytes())
	if s, err := r.ReadCString(); err != nil || s != "mesh.zms" {
		t.Errorf("ReadCString = %q, %v", s, err)
	}
	if s, err := r.ReadCString(); err != nil || s != "" {
		t.Errorf("ReadCString empty = %q, %v", s, err)
	}
	// The terminator must have been consumed, leaving the trailing marker.
	if v, _ := r.ReadUint8(); v != 0xFF {
		t.Errorf("terminator not consumed, next byte = %#x", v)
	}
}

func TestLengthPrefixedStrings(t *testing.T) {
	w := NewWriter()
	w.WriteStringU8("a")
	w.WriteStringU16("bc")
	w.WriteStringU32("def")

	r := NewReader(w.Bytes())
	if s, _ := r.ReadStringU8(); s != "a" {
		t.Errorf("u8 = %q", s)
	}
	if s, _ := r.ReadStringU16(); s != "bc" {
		t.Errorf("u16 = %q", s)
	}
	if s, _ := r.ReadStringU32(); s != "def" {
		t.Errorf("u32 = %q", s)
	}
}

func TestVarbyteBoundary(t *testing.T) {
	short := strings.Repeat("x", 127)
	long := strings.Repeat("y", 128)

	w := NewWriter()
	if err := w.WriteStringVarbyte(short); err != nil {
		t.Fatal(err)
	}
	shortEnd := w.Position()
	if err := w.WriteStringVarbyte(long); err != nil {
		t.Fatal(err)
	}

	data := w.Bytes()
	// 127 bytes get a single-byte prefix.
	if shortEnd != 128 {
		t.Errorf("127-byte string used %d bytes, want 128", shortEnd)
	}
	if data[0] != 127 {
		t.Errorf("short prefix = %d, want 127", data[0])
	}
	// 128 bytes get two: low 7 bits with continuation flag, then high bits.
	if data[128] != 0x80 || data[129] != 0x01 {
		t.Errorf("long prefix = %#x %#x, want 0x80 0x01", data[128], data[129])
	}

	r := NewReader(data)
	if s, err := r.ReadStringVarbyte(); err != nil || s != short {
		t.Errorf("short round trip failed: %v", err)
	}
	if s, err := r.ReadStringVarbyte(); err != nil || s != long {
		t.Errorf("long round trip failed: %v", err)
	}
}

func TestVarbyteTooLong(t *testing.T) {
	w := NewWriter()
	if err := w.WriteStringVarbyte(strings.Repeat("z", 0x8000)); err == nil {
		t.Error("expected error for string beyond varbyte limit")
	}
}

func TestFixedStringTrailingNul(t *testing.T) {
	w := NewWriter()
	w.WriteFixedString("STB", 4)

	r := NewReader(w.Bytes())
	if s, err := r.ReadFixedString(4); err != nil || s != "STB" {
		t.Errorf("ReadFixedString = %q, %v", s, err)
	}
}

func TestWriterSeekPatch(t *testing.T) {
	w := NewWriter()
	w.WriteFixedString("HDR", 4)
	placeholder := w.Position()
	w.WriteUint32(0)
	w.WriteCString("body")
	patched := w.Position()
	w.WriteUint32(0xCAFE)
	end := w.Position()

	w.Seek(placeholder)
	w.WriteUint32(uint32(patched))

	data := w.Bytes()
	if int64(len(data)) != end {
		t.Fatalf("Bytes() length = %d, want %d", len(data), end)
	}
	r := NewReader(data)
	if err := r.Seek(placeholder); err != nil {
		t.Fatal(err)
	}
	off, _ := r.ReadUint32()
	if int64(off) != patched {
		t.Errorf("patched offset = %d, want %d", off, patched)
	}
	if err := r.Seek(int64(off)); err != nil {
		t.Fatal(err)
	}
	if v, _ := r.ReadUint32(); v != 0xCAFE {
		t.Errorf("value at patched offset = %#x", v)
	}
}

func TestWideReader(t *testing.T) {
	// "ab" as UTF-16LE with a u16 length prefix counting bytes.
	data := []byte{0x04, 0x00, 'a', 0x00, 'b', 0x00}
	r := NewWideReader(data)
	if !r.Wide() {
		t.Fatal("Wide() = false")
	}
	if s, err := r.ReadStringU16(); err != nil || s != "ab" {
		t.Errorf("wide ReadStringU16 = %q, %v", s, err)
	}
}

func TestCompositeRoundTrip(t *testing.T) {
	w := NewWriter()
	w.WriteVec3(math.Vec3{X: 1, Y: 2, Z: 3})
	w.WriteVec2i(math.Vec2i{X: -4, Y: 5})
	w.WriteColor3(math.Color3{R: 0.25, G: 0.5, B: 1})
	w.WriteQuatWXYZ(math.Quat{X: 0.1, Y: 0.2, Z: 0.3, W: 0.9})

	r := NewReader(w.Bytes())
	if v, _ := r.ReadVec3(); v != (math.Vec3{X: 1, Y: 2, Z: 3}) {
		t.Errorf("ReadVec3 = %v", v)
	}
	if v, _ := r.ReadVec2i(); v != (math.Vec2i{X: -4, Y: 5}) {
		t.Errorf("ReadVec2i = %v", v)
	}
	if c, _ := r.ReadColor3(); c != (math.Color3{R: 0.25, G: 0.5, B: 1}) {
		t.Errorf("ReadColor3 = %v", c)
	}
	if q, _ := r.ReadQuatWXYZ(); q != (math.Quat{X: 0.1, Y: 0.2, Z: 0.3, W: 0.9}) {
		t.Errorf("ReadQuatWXYZ = %v", q)
	}
}

func TestQuatOrderings(t *testing.T) {
	q := math.Quat{X: 1, Y: 2, Z: 3, W: 4}

	w := NewWriter()
	w.WriteQuat(q)
	w.WriteQuatWXYZ(q)

	r := NewReader(w.Bytes())
	// xyzw field order on disk.
	if v, _ := r.ReadFloat32(); v != 1 {
		t.Errorf("xyzw first component = %v, want X", v)
	}
	r.Seek(16)
	// wxyz puts the scalar first.
	if v, _ := r.ReadFloat32(); v != 4 {
		t.Errorf("wxyz first component = %v, want W", v)
	}
	r.Seek(16)
	if got, _ := r.ReadQuatWXYZ(); got != q {
		t.Errorf("ReadQuatWXYZ = %v, want %v", got, q)
	}
}
