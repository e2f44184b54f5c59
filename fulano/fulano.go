// Package fulano assembles the fulano binding module: a handful of numeric
// functions, a stateful Lift class and two tagged-union marshalers, all
// exposed to a dynamically-typed host environment through the binding
// layer. Registration happens once per process; Module always returns the
// same populated module.
package fulano

import (
	"sync"

	"github.com/partite-ai/fulano/binding"
)

const (
	// ModuleDoc is the module's own documentation string.
	ModuleDoc = "Module docstring works too!"

	FibDoc  = "The naive, recursive fibonacci implementation"
	FabDoc  = "The iterative fibonacci implementation"
	LiftDoc = "It's a Lift: it goes up and down"
	EnumDoc = "Testing Rust enum conversion"
	CrcsDoc = "Calculate CRC for a 60x60x60 voxel image"
)

var (
	moduleOnce sync.Once
	module     *binding.Module
)

// Module returns the fulano module, building and registering it on first
// use.
func Module() *binding.Module {
	moduleOnce.Do(func() {
		module = build()
	})
	return module
}

func build() *binding.Module {
	m := binding.NewModule("fulano", ModuleDoc)

	m.MustAddFunction("fib", FibDoc, Fib, "n")
	m.MustAddFunction("fab", FabDoc, Fab, "n")
	m.MustAddFunction("rust_enum_parameter", EnumDoc, RustEnumParameter, "e")
	m.MustAddFunction("crcs", CrcsDoc, Crcs, "data")
	m.MustAddFunction("roi", "", Roi, "roi")

	lift := binding.MustNewClass("Lift", LiftDoc, NewLift, "initial_height")
	lift.MustAddField("height", func(l *Lift) int64 { return l.Height })
	lift.MustAddMethod("up", "", (*Lift).Up, "n")
	lift.MustAddMethod("down", "", (*Lift).Down, "n")
	m.MustAddClass(lift)

	return m
}
