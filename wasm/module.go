package wasm

import "fmt"

// Module assembles a complete single-memory module out of function imports,
// defined functions and exports, keeping the index bookkeeping in one place.
// Imported functions occupy the low function indices, so all imports must be
// declared before the first defined function.
type Module struct {
	types    []*FuncTypeDef
	imports  []*Import
	funcs    []uint32
	bodies   []*FuncBody
	memPages uint32
	hasMem   bool
	exports  []*Export
}

func NewModule() *Module {
	return &Module{}
}

func (m *Module) typeIdx(params, results []ValueType) uint32 {
	m.types = append(m.types, &FuncTypeDef{ParamTypes: params, ResultTypes: results})
	return uint32(len(m.types) - 1)
}

// ImportFunc declares a function import and returns its function index.
func (m *Module) ImportFunc(module, name string, params, results []ValueType) uint32 {
	if len(m.funcs) > 0 {
		panic("wasm: imports must be declared before defined functions")
	}
	m.imports = append(m.imports, &Import{
		Module:  module,
		Name:    name,
		TypeIdx: m.typeIdx(params, results),
	})
	return uint32(len(m.imports) - 1)
}

// AddFunc defines a function with the given signature and instruction
// sequences and returns its function index.
func (m *Module) AddFunc(params, results []ValueType, instrs ...[]byte) uint32 {
	return m.AddFuncLocals(params, results, nil, instrs...)
}

// AddFuncLocals is AddFunc with extra local variables. Local indices start
// after the parameters.
func (m *Module) AddFuncLocals(params, results, locals []ValueType, instrs ...[]byte) uint32 {
	m.funcs = append(m.funcs, m.typeIdx(params, results))
	var code []byte
	for _, instr := range instrs {
		code = append(code, instr...)
	}
	m.bodies = append(m.bodies, &FuncBody{Locals: locals, Instrs: code})
	return uint32(len(m.imports) + len(m.funcs) - 1)
}

func (m *Module) AddMemory(minPages uint32) {
	m.memPages = minPages
	m.hasMem = true
}

func (m *Module) ExportFunc(name string, idx uint32) {
	m.exports = append(m.exports, &Export{Name: name, Kind: ExportFunc, Idx: idx})
}

func (m *Module) ExportMemory(name string) {
	if !m.hasMem {
		panic(fmt.Sprintf("wasm: export %q: no memory defined", name))
	}
	m.exports = append(m.exports, &Export{Name: name, Kind: ExportMemory, Idx: 0})
}

func (m *Module) Build() ([]byte, error) {
	b := NewBuilder()
	if len(m.types) > 0 {
		b.AddSection(&TypeSection{Types: m.types})
	}
	if len(m.imports) > 0 {
		b.AddSection(&ImportSection{Imports: m.imports})
	}
	if len(m.funcs) > 0 {
		b.AddSection(&FuncSection{FuncTypeIndices: m.funcs})
	}
	if m.hasMem {
		b.AddSection(&MemorySection{MinPages: m.memPages})
	}
	if len(m.exports) > 0 {
		b.AddSection(&ExportSection{Exports: m.exports})
	}
	if len(m.bodies) > 0 {
		b.AddSection(&CodeSection{Bodies: m.bodies})
	}
	return b.Build()
}
