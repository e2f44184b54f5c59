// Package hostval models the dynamically-typed values that cross the
// boundary between a host scripting environment and native Go code. Every
// value knows its host-visible type name, which is what conversion errors
// report back to the caller.
package hostval

import (
	"fmt"
	"strconv"
	"strings"
)

type Value interface {
	isValue()

	// TypeName reports the value's type name as the host environment would.
	TypeName() string

	// Repr renders a debug representation of the value.
	Repr() string
}

type Int int64

func (v Int) isValue() {}

func (v Int) TypeName() string { return "int" }

func (v Int) Repr() string { return strconv.FormatInt(int64(v), 10) }

type Float float64

func (v Float) isValue() {}

func (v Float) TypeName() string { return "float" }

func (v Float) Repr() string { return strconv.FormatFloat(float64(v), 'g', -1, 64) }

type Bool bool

func (v Bool) isValue() {}

func (v Bool) TypeName() string { return "bool" }

func (v Bool) Repr() string {
	if v {
		return "True"
	}
	return "False"
}

type Str string

func (v Str) isValue() {}

func (v Str) TypeName() string { return "str" }

func (v Str) Repr() string { return strconv.Quote(string(v)) }

type Tuple []Value

func (v Tuple) isValue() {}

func (v Tuple) TypeName() string { return "tuple" }

func (v Tuple) Repr() string {
	items := make([]string, len(v))
	for i, item := range v {
		items[i] = item.Repr()
	}
	return "(" + strings.Join(items, ", ") + ")"
}

type List []Value

func (v List) isValue() {}

func (v List) TypeName() string { return "list" }

func (v List) Repr() string {
	items := make([]string, len(v))
	for i, item := range v {
		items[i] = item.Repr()
	}
	return "[" + strings.Join(items, ", ") + "]"
}

// Record is a named-field value in the manner of a host namedtuple: fields
// are addressable by name and, in declaration order, positionally. The
// positional view is what makes a two-field record match tuple-shaped
// conversions before any field-name-based ones are tried.
type Record struct {
	name   string
	fields []RecordField
}

type RecordField struct {
	Name  string
	Value Value
}

func NewRecord(name string, fields ...RecordField) Record {
	return Record{name: name, fields: fields}
}

func (v Record) isValue() {}

func (v Record) TypeName() string {
	if v.name == "" {
		return "record"
	}
	return v.name
}

func (v Record) Repr() string {
	items := make([]string, len(v.fields))
	for i, f := range v.fields {
		items[i] = fmt.Sprintf("%s=%s", f.Name, f.Value.Repr())
	}
	return v.TypeName() + "(" + strings.Join(items, ", ") + ")"
}

func (v Record) Len() int { return len(v.fields) }

func (v Record) Index(i int) Value { return v.fields[i].Value }

func (v Record) Field(name string) (Value, bool) {
	for _, f := range v.fields {
		if f.Name == name {
			return f.Value, true
		}
	}
	return nil, false
}

// Dict is a string-keyed mapping with stable insertion order.
type Dict struct {
	keys   []string
	values map[string]Value
}

func NewDict() *Dict {
	return &Dict{values: make(map[string]Value)}
}

func (v *Dict) isValue() {}

func (v *Dict) TypeName() string { return "dict" }

func (v *Dict) Repr() string {
	items := make([]string, len(v.keys))
	for i, k := range v.keys {
		items[i] = fmt.Sprintf("%q: %s", k, v.values[k].Repr())
	}
	return "{" + strings.Join(items, ", ") + "}"
}

func (v *Dict) Set(key string, value Value) {
	if _, ok := v.values[key]; !ok {
		v.keys = append(v.keys, key)
	}
	v.values[key] = value
}

func (v *Dict) Get(key string) (Value, bool) {
	val, ok := v.values[key]
	return val, ok
}

func (v *Dict) Len() int { return len(v.keys) }

func (v *Dict) Keys() []string { return v.keys }

// Object is an instance of a boundary-exposed class. Rep is the native
// representation and is opaque to the host environment; the binding layer
// dispatches method calls and attribute reads against it.
type Object struct {
	Class string
	Rep   any
}

func (v Object) isValue() {}

func (v Object) TypeName() string { return v.Class }

func (v Object) Repr() string { return "<" + v.Class + " object>" }

// AsSequence exposes the positional view of a value: tuples directly,
// records through their field order. Lists and dicts are not sequences in
// this sense; conversions that want tuple shapes must not accept them.
func AsSequence(v Value) ([]Value, bool) {
	switch sv := v.(type) {
	case Tuple:
		return sv, true
	case Record:
		items := make([]Value, len(sv.fields))
		for i, f := range sv.fields {
			items[i] = f.Value
		}
		return items, true
	}
	return nil, false
}

// AsInt narrows a value to a host integer. Bools deliberately do not
// convert even though some host environments treat them as integers.
func AsInt(v Value) (int64, bool) {
	iv, ok := v.(Int)
	return int64(iv), ok
}

// AsFloat narrows a value to a float, accepting integers as well since the
// host environment promotes freely.
func AsFloat(v Value) (float64, bool) {
	switch fv := v.(type) {
	case Float:
		return float64(fv), true
	case Int:
		return float64(fv), true
	}
	return 0, false
}

func AsStr(v Value) (string, bool) {
	sv, ok := v.(Str)
	return string(sv), ok
}
