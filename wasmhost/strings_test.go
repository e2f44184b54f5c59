package wasmhost

import (
	"encoding/binary"
	"math"
	"testing"
)

// fakeMemory is a flat byte buffer standing in for guest memory.
type fakeMemory struct {
	data []byte
}

func newFakeMemory(size uint32) *fakeMemory {
	return &fakeMemory{data: make([]byte, size)}
}

func (m *fakeMemory) Read(offset, byteCount uint32) ([]byte, bool) {
	if uint64(offset)+uint64(byteCount) > uint64(len(m.data)) {
		return nil, false
	}
	return m.data[offset : offset+byteCount], true
}

func (m *fakeMemory) Write(offset uint32, v []byte) bool {
	if uint64(offset)+uint64(len(v)) > uint64(len(m.data)) {
		return false
	}
	copy(m.data[offset:], v)
	return true
}

func (m *fakeMemory) ReadUint32Le(offset uint32) (uint32, bool) {
	b, ok := m.Read(offset, 4)
	if !ok {
		return 0, false
	}
	return binary.LittleEndian.Uint32(b), true
}

func (m *fakeMemory) WriteUint32Le(offset uint32, v uint32) bool {
	var b [4]byte
	binary.LittleEndian.PutUint32(b[:], v)
	return m.Write(offset, b[:])
}

func (m *fakeMemory) ReadUint64Le(offset uint32) (uint64, bool) {
	b, ok := m.Read(offset, 8)
	if !ok {
		return 0, false
	}
	return binary.LittleEndian.Uint64(b), true
}

func (m *fakeMemory) WriteUint64Le(offset uint32, v uint64) bool {
	var b [8]byte
	binary.LittleEndian.PutUint64(b[:], v)
	return m.Write(offset, b[:])
}

func (m *fakeMemory) ReadFloat64Le(offset uint32) (float64, bool) {
	v, ok := m.ReadUint64Le(offset)
	if !ok {
		return 0, false
	}
	return math.Float64frombits(v), true
}

func (m *fakeMemory) WriteFloat64Le(offset uint32, v float64) bool {
	return m.WriteUint64Le(offset, math.Float64bits(v))
}

func TestStringRoundTrip(t *testing.T) {
	tests := []struct {
		name string
		enc  StringEncoding
		s    string
	}{
		{"utf8 ascii", EncodingUTF8, "hello"},
		{"utf8 multibyte", EncodingUTF8, "héllo 日本"},
		{"utf16 ascii", EncodingUTF16, "hello"},
		{"utf16 multibyte", EncodingUTF16, "héllo 日本"},
		{"latin1 fits", EncodingLatin1UTF16, "héllo"},
		{"latin1 falls back to utf16", EncodingLatin1UTF16, "日本"},
		{"empty", EncodingUTF8, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			encoded, units, err := EncodeString(tt.enc, tt.s)
			if err != nil {
				t.Fatalf("encode failed: %v", err)
			}

			mem := newFakeMemory(1024)
			if !mem.Write(16, encoded) {
				t.Fatal("write failed")
			}

			got, err := ReadString(mem, tt.enc, 16, units)
			if err != nil {
				t.Fatalf("read failed: %v", err)
			}
			if got != tt.s {
				t.Errorf("round trip = %q, want %q", got, tt.s)
			}
		})
	}
}

func TestLatin1EncodingTag(t *testing.T) {
	// A latin1-representable string carries a plain byte length.
	_, units, err := EncodeString(EncodingLatin1UTF16, "héllo")
	if err != nil {
		t.Fatalf("encode failed: %v", err)
	}
	if units&(1<<31) != 0 {
		t.Errorf("latin1 length %#x unexpectedly tagged as utf16", units)
	}
	if units != 5 {
		t.Errorf("latin1 length = %d, want 5", units)
	}

	// A string outside latin1 is tagged and counted in utf16 units.
	_, units, err = EncodeString(EncodingLatin1UTF16, "日本")
	if err != nil {
		t.Fatalf("encode failed: %v", err)
	}
	if units&(1<<31) == 0 {
		t.Error("utf16 fallback not tagged")
	}
	if units&0x7FFFFFFF != 2 {
		t.Errorf("utf16 units = %d, want 2", units&0x7FFFFFFF)
	}
}

func TestUTF16Units(t *testing.T) {
	_, units, err := EncodeString(EncodingUTF16, "ab")
	if err != nil {
		t.Fatalf("encode failed: %v", err)
	}
	if units != 2 {
		t.Errorf("units = %d, want 2", units)
	}
}

func TestReadStringOutOfBounds(t *testing.T) {
	mem := newFakeMemory(8)
	if _, err := ReadString(mem, EncodingUTF8, 4, 100); err == nil {
		t.Error("expected an error reading past the end of memory")
	}
}

func TestUnsupportedEncoding(t *testing.T) {
	if _, _, err := EncodeString(StringEncoding(99), "x"); err == nil {
		t.Error("expected an error for an unknown encoding")
	}
	if _, err := ReadString(newFakeMemory(8), StringEncoding(99), 0, 0); err == nil {
		t.Error("expected an error for an unknown encoding")
	}
}
