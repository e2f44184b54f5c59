package wasmhost

import (
	"fmt"

	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/encoding/unicode"
)

// StringEncoding selects how strings are laid out in guest memory.
type StringEncoding int

const (
	EncodingUTF8 StringEncoding = iota
	EncodingUTF16
	EncodingLatin1UTF16
)

// Memory is the slice of guest memory the codec needs. wazero's api.Memory
// satisfies it.
type Memory interface {
	Read(offset, byteCount uint32) ([]byte, bool)
	Write(offset uint32, v []byte) bool
	ReadUint32Le(offset uint32) (uint32, bool)
	WriteUint32Le(offset uint32, v uint32) bool
	ReadUint64Le(offset uint32) (uint64, bool)
	WriteUint64Le(offset uint32, v uint64) bool
	ReadFloat64Le(offset uint32) (float64, bool)
	WriteFloat64Le(offset uint32, v float64) bool
}

// ReadString decodes a guest string. length counts code units, not bytes:
// for UTF-16 each unit is two bytes, and under Latin1UTF16 the high bit of
// length tags the string as UTF-16 encoded.
func ReadString(mem Memory, enc StringEncoding, ptr, length uint32) (string, error) {
	switch enc {
	case EncodingUTF8:
		bytes, ok := mem.Read(ptr, length)
		if !ok {
			return "", fmt.Errorf("failed to read string bytes at ptr %d with length %d", ptr, length)
		}
		return string(bytes), nil
	case EncodingUTF16:
		return readUTF16(mem, ptr, length)
	case EncodingLatin1UTF16:
		if (length & (1 << 31)) != 0 {
			return readUTF16(mem, ptr, length&0x7FFFFFFF)
		}
		bytes, ok := mem.Read(ptr, length)
		if !ok {
			return "", fmt.Errorf("failed to read string bytes at ptr %d with length %d", ptr, length)
		}
		decoded, err := charmap.ISO8859_1.NewDecoder().Bytes(bytes)
		if err != nil {
			return "", fmt.Errorf("failed to decode latin1 string: %w", err)
		}
		return string(decoded), nil
	default:
		return "", fmt.Errorf("unsupported string encoding: %d", enc)
	}
}

func readUTF16(mem Memory, ptr, length uint32) (string, error) {
	bytes, ok := mem.Read(ptr, length*2)
	if !ok {
		return "", fmt.Errorf("failed to read string bytes at ptr %d with length %d", ptr, length*2)
	}
	decoder := unicode.UTF16(unicode.LittleEndian, unicode.IgnoreBOM).NewDecoder()
	decoded, err := decoder.Bytes(bytes)
	if err != nil {
		return "", fmt.Errorf("failed to decode utf16 string: %w", err)
	}
	return string(decoded), nil
}

// EncodeString encodes a string for guest memory and reports the length in
// the encoding's code units, ready to hand back across the boundary.
func EncodeString(enc StringEncoding, s string) ([]byte, uint32, error) {
	switch enc {
	case EncodingUTF8:
		return []byte(s), uint32(len(s)), nil
	case EncodingUTF16:
		encoded, err := encodeUTF16(s)
		if err != nil {
			return nil, 0, err
		}
		return encoded, uint32(len(encoded) / 2), nil
	case EncodingLatin1UTF16:
		if latin1, err := charmap.ISO8859_1.NewEncoder().Bytes([]byte(s)); err == nil {
			return latin1, uint32(len(latin1)), nil
		}
		encoded, err := encodeUTF16(s)
		if err != nil {
			return nil, 0, err
		}
		return encoded, uint32(len(encoded)/2) | (1 << 31), nil
	default:
		return nil, 0, fmt.Errorf("unsupported string encoding: %d", enc)
	}
}

func encodeUTF16(s string) ([]byte, error) {
	encoder := unicode.UTF16(unicode.LittleEndian, unicode.IgnoreBOM).NewEncoder()
	encoded, err := encoder.Bytes([]byte(s))
	if err != nil {
		return nil, fmt.Errorf("failed to encode utf16 string: %w", err)
	}
	return encoded, nil
}
