// Package wasm emits and inspects minimal WebAssembly core modules. It
// covers just enough of the binary format to synthesize guest modules that
// import boundary functions and to list the exports of an existing guest.
package wasm

import (
	"bytes"
	"io"
)

type Builder struct {
	sections []Section
}

func NewBuilder() *Builder {
	return &Builder{}
}

func (b *Builder) AddSection(section Section) {
	b.sections = append(b.sections, section)
}

func (b *Builder) Build() ([]byte, error) {
	var buf bytes.Buffer
	buf.Write([]byte{0x00, 0x61, 0x73, 0x6D}) // WASM Magic Number
	buf.Write([]byte{0x01, 0x00, 0x00, 0x00}) // WASM Version 1
	for _, section := range b.sections {
		if err := section.writeSection(&buf); err != nil {
			return nil, err
		}
	}
	return buf.Bytes(), nil
}

type Section interface {
	writeSection(w writer) error
}

type writer interface {
	io.Writer
	io.ByteWriter
}

type ValueType interface {
	writeType(w writer) error
}

type I32 struct{}

func (i I32) writeType(w writer) error {
	return w.WriteByte(0x7F)
}

type I64 struct{}

func (i I64) writeType(w writer) error {
	return w.WriteByte(0x7E)
}

type F32 struct{}

func (f F32) writeType(w writer) error {
	return w.WriteByte(0x7D)
}

type F64 struct{}

func (f F64) writeType(w writer) error {
	return w.WriteByte(0x7C)
}

type TypeSection struct {
	Types []*FuncTypeDef
}

type FuncTypeDef struct {
	ParamTypes  []ValueType
	ResultTypes []ValueType
}

func (f *FuncTypeDef) writeType(w writer) error {
	if err := w.WriteByte(0x60); err != nil {
		return err
	}

	if err := writeLEB128(w, uint32(len(f.ParamTypes))); err != nil {
		return err
	}
	for _, paramType := range f.ParamTypes {
		if err := paramType.writeType(w); err != nil {
			return err
		}
	}

	if err := writeLEB128(w, uint32(len(f.ResultTypes))); err != nil {
		return err
	}
	for _, resultType := range f.ResultTypes {
		if err := resultType.writeType(w); err != nil {
			return err
		}
	}

	return nil
}

func (ts *TypeSection) writeSection(w writer) error {
	var contents bytes.Buffer
	if err := writeLEB128(&contents, uint32(len(ts.Types))); err != nil {
		return err
	}
	for _, t := range ts.Types {
		if err := t.writeType(&contents); err != nil {
			return err
		}
	}
	return writeSectionBody(w, 1, &contents)
}

type ImportSection struct {
	Imports []*Import
}

type Import struct {
	Module  string
	Name    string
	TypeIdx uint32
}

func (is *ImportSection) writeSection(w writer) error {
	var contents bytes.Buffer
	writeLEB128(&contents, uint32(len(is.Imports)))
	for _, imp := range is.Imports {
		writeName(&contents, imp.Module)
		writeName(&contents, imp.Name)
		contents.WriteByte(0) // function import
		if err := writeLEB128(&contents, imp.TypeIdx); err != nil {
			return err
		}
	}
	return writeSectionBody(w, 2, &contents)
}

type FuncSection struct {
	FuncTypeIndices []uint32
}

func (fs *FuncSection) writeSection(w writer) error {
	var contents bytes.Buffer
	if err := writeLEB128(&contents, uint32(len(fs.FuncTypeIndices))); err != nil {
		return err
	}
	for _, typeIdx := range fs.FuncTypeIndices {
		if err := writeLEB128(&contents, typeIdx); err != nil {
			return err
		}
	}
	return writeSectionBody(w, 3, &contents)
}

type MemorySection struct {
	MinPages uint32
}

func (ms *MemorySection) writeSection(w writer) error {
	var contents bytes.Buffer
	contents.WriteByte(1) // one memory
	contents.WriteByte(0) // min-only limits
	if err := writeLEB128(&contents, ms.MinPages); err != nil {
		return err
	}
	return writeSectionBody(w, 5, &contents)
}

type ExportSection struct {
	Exports []*Export
}

type Export struct {
	Name string
	Kind ExportKind
	Idx  uint32
}

type ExportKind byte

const (
	ExportFunc   ExportKind = 0x00
	ExportMemory ExportKind = 0x02
)

func (es *ExportSection) writeSection(w writer) error {
	var contents bytes.Buffer
	if err := writeLEB128(&contents, uint32(len(es.Exports))); err != nil {
		return err
	}
	for _, export := range es.Exports {
		writeName(&contents, export.Name)
		contents.WriteByte(byte(export.Kind))
		if err := writeLEB128(&contents, export.Idx); err != nil {
			return err
		}
	}
	return writeSectionBody(w, 7, &contents)
}

type CodeSection struct {
	Bodies []*FuncBody
}

// FuncBody is one function's code: its extra locals and a flat instruction
// stream. The trailing end opcode is appended automatically.
type FuncBody struct {
	Locals []ValueType
	Instrs []byte
}

func (cs *CodeSection) writeSection(w writer) error {
	var contents bytes.Buffer
	if err := writeLEB128(&contents, uint32(len(cs.Bodies))); err != nil {
		return err
	}
	for _, body := range cs.Bodies {
		var encoded bytes.Buffer
		if err := writeLEB128(&encoded, uint32(len(body.Locals))); err != nil {
			return err
		}
		for _, local := range body.Locals {
			if err := writeLEB128(&encoded, 1); err != nil {
				return err
			}
			if err := local.writeType(&encoded); err != nil {
				return err
			}
		}
		encoded.Write(body.Instrs)
		encoded.WriteByte(0x0B) // end

		if err := writeLEB128(&contents, uint32(encoded.Len())); err != nil {
			return err
		}
		if _, err := contents.Write(encoded.Bytes()); err != nil {
			return err
		}
	}
	return writeSectionBody(w, 10, &contents)
}

func writeSectionBody(w writer, id byte, contents *bytes.Buffer) error {
	if err := w.WriteByte(id); err != nil {
		return err
	}
	if err := writeLEB128(w, uint32(contents.Len())); err != nil {
		return err
	}
	if _, err := w.Write(contents.Bytes()); err != nil {
		return err
	}
	return nil
}

func writeName(buf *bytes.Buffer, name string) {
	writeLEB128(buf, uint32(len(name)))
	buf.WriteString(name)
}

func writeLEB128(w writer, value uint32) error {
	for {
		b := byte(value & 0x7F)
		value >>= 7
		if value != 0 {
			b |= 0x80
		}
		if err := w.WriteByte(b); err != nil {
			return err
		}
		if value == 0 {
			return nil
		}
	}
}

func writeSLEB128(w writer, value int64) error {
	for {
		b := byte(value & 0x7F)
		value >>= 7
		if (value == 0 && b&0x40 == 0) || (value == -1 && b&0x40 != 0) {
			return w.WriteByte(b)
		}
		if err := w.WriteByte(b | 0x80); err != nil {
			return err
		}
	}
}
