package wasm

import "bytes"

// Instruction constructors for the handful of opcodes the synthesized guests
// need. Each returns the encoded instruction bytes.

func LocalGet(idx uint32) []byte {
	var buf bytes.Buffer
	buf.WriteByte(0x20)
	writeLEB128(&buf, idx)
	return buf.Bytes()
}

func LocalSet(idx uint32) []byte {
	var buf bytes.Buffer
	buf.WriteByte(0x21)
	writeLEB128(&buf, idx)
	return buf.Bytes()
}

func LocalTee(idx uint32) []byte {
	var buf bytes.Buffer
	buf.WriteByte(0x22)
	writeLEB128(&buf, idx)
	return buf.Bytes()
}

func Call(funcIdx uint32) []byte {
	var buf bytes.Buffer
	buf.WriteByte(0x10)
	writeLEB128(&buf, funcIdx)
	return buf.Bytes()
}

func Drop() []byte {
	return []byte{0x1A}
}

func I32Const(v int32) []byte {
	var buf bytes.Buffer
	buf.WriteByte(0x41)
	writeSLEB128(&buf, int64(v))
	return buf.Bytes()
}

func I64Const(v int64) []byte {
	var buf bytes.Buffer
	buf.WriteByte(0x42)
	writeSLEB128(&buf, v)
	return buf.Bytes()
}

func I64Add() []byte {
	return []byte{0x7C}
}
