// Package binding is the registration and dispatch surface between native
// Go code and a dynamically-typed host environment. A module is a named set
// of callables and classes, each carrying an introspectable documentation
// string; arguments and results cross the boundary as hostval values.
//
// Registration happens once, at module assembly; a populated module is
// immutable from the host's point of view and safe for concurrent lookups.
package binding

import (
	"context"
	"fmt"
	"sort"

	"github.com/partite-ai/fulano/hostval"
)

type Module struct {
	name    string
	doc     string
	funcs   map[string]*Func
	classes map[string]*Class
}

func NewModule(name, doc string) *Module {
	return &Module{
		name:    name,
		doc:     doc,
		funcs:   make(map[string]*Func),
		classes: make(map[string]*Class),
	}
}

func (m *Module) Name() string { return m.name }

// Doc reports the module documentation string.
func (m *Module) Doc() string { return m.doc }

// AddFunction registers a Go function under the given export name. The
// optional paramNames give the declared argument names used in conversion
// errors; unnamed parameters fall back to positional names.
func (m *Module) AddFunction(name, doc string, fn any, paramNames ...string) error {
	if _, exists := m.funcs[name]; exists {
		return fmt.Errorf("module %s: function %s already registered", m.name, name)
	}
	f, err := newFunc(name, doc, fn, nil, false, paramNames)
	if err != nil {
		return err
	}
	m.funcs[name] = f
	return nil
}

func (m *Module) MustAddFunction(name, doc string, fn any, paramNames ...string) {
	if err := m.AddFunction(name, doc, fn, paramNames...); err != nil {
		panic(err)
	}
}

// AddClass registers a class under its own name.
func (m *Module) AddClass(c *Class) error {
	if _, exists := m.classes[c.name]; exists {
		return fmt.Errorf("module %s: class %s already registered", m.name, c.name)
	}
	m.classes[c.name] = c
	return nil
}

func (m *Module) MustAddClass(c *Class) {
	if err := m.AddClass(c); err != nil {
		panic(err)
	}
}

// Func looks up a registered function, or nil if absent.
func (m *Module) Func(name string) *Func { return m.funcs[name] }

// Class looks up a registered class, or nil if absent.
func (m *Module) Class(name string) *Class { return m.classes[name] }

// Call invokes a registered function by name from the host side.
func (m *Module) Call(ctx context.Context, name string, args ...hostval.Value) (hostval.Value, error) {
	f, ok := m.funcs[name]
	if !ok {
		return nil, fmt.Errorf("module %s has no function %s", m.name, name)
	}
	return f.Call(ctx, args...)
}

// FuncNames lists the registered functions in sorted order.
func (m *Module) FuncNames() []string {
	names := make([]string, 0, len(m.funcs))
	for name := range m.funcs {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// ClassNames lists the registered classes in sorted order.
func (m *Module) ClassNames() []string {
	names := make([]string, 0, len(m.classes))
	for name := range m.classes {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
