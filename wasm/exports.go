package wasm

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"io"
)

// Exports lists the named exports of a module by kind.
type Exports struct {
	Funcs    []string
	Memories []string
}

// ReadExports scans a module's export section without decoding the rest of
// the binary.
func ReadExports(mod []byte) (*Exports, error) {
	r := bytes.NewReader(mod)
	if err := readModuleHeader(r); err != nil {
		return nil, err
	}

	exports := &Exports{}
	for {
		id, err := r.ReadByte()
		if err == io.EOF {
			return exports, nil
		}
		if err != nil {
			return nil, err
		}
		size, err := readLEB128(r)
		if err != nil {
			return nil, err
		}
		if id != 7 {
			if _, err := r.Seek(int64(size), io.SeekCurrent); err != nil {
				return nil, err
			}
			continue
		}

		count, err := readLEB128(r)
		if err != nil {
			return nil, err
		}
		for i := uint32(0); i < count; i++ {
			name, err := readName(r)
			if err != nil {
				return nil, err
			}
			kind, err := r.ReadByte()
			if err != nil {
				return nil, err
			}
			if _, err := readLEB128(r); err != nil {
				return nil, err
			}
			switch ExportKind(kind) {
			case ExportFunc:
				exports.Funcs = append(exports.Funcs, name)
			case ExportMemory:
				exports.Memories = append(exports.Memories, name)
			}
		}
	}
}

func readModuleHeader(r *bytes.Reader) error {
	var header [8]byte
	if _, err := io.ReadFull(r, header[:]); err != nil {
		return fmt.Errorf("reading module header: %w", err)
	}
	if !bytes.Equal(header[:4], []byte{0x00, 0x61, 0x73, 0x6D}) {
		return fmt.Errorf("invalid module magic")
	}
	if binary.LittleEndian.Uint32(header[4:]) != 1 {
		return fmt.Errorf("unsupported module version")
	}
	return nil
}

func readLEB128(r *bytes.Reader) (uint32, error) {
	var value uint32
	var shift uint
	for {
		b, err := r.ReadByte()
		if err != nil {
			return 0, err
		}
		value |= uint32(b&0x7F) << shift
		if b&0x80 == 0 {
			return value, nil
		}
		shift += 7
		if shift >= 35 {
			return 0, fmt.Errorf("leb128 value too large")
		}
	}
}

func readName(r *bytes.Reader) (string, error) {
	n, err := readLEB128(r)
	if err != nil {
		return "", err
	}
	buf := make([]byte, n)
	if _, err := io.ReadFull(r, buf); err != nil {
		return "", err
	}
	return string(buf), nil
}
