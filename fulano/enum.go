package fulano

import (
	"fmt"

	"github.com/partite-ai/fulano/binding"
	"github.com/partite-ai/fulano/hostval"
)

// RustyEnum is the closed union rust_enum_parameter narrows host values
// into. Exactly one case is active for a given value.
type RustyEnum interface {
	isRustyEnum()
	fmt.Stringer
}

type Int int64

func (Int) isRustyEnum() {}

func (v Int) String() string { return fmt.Sprintf("Int(%d)", int64(v)) }

type String string

func (String) isRustyEnum() {}

func (v String) String() string { return fmt.Sprintf("String(%q)", string(v)) }

type IntTuple struct {
	A, B int64
}

func (IntTuple) isRustyEnum() {}

func (v IntTuple) String() string { return fmt.Sprintf("IntTuple(%d, %d)", v.A, v.B) }

type StringIntTuple struct {
	S string
	N int64
}

func (StringIntTuple) isRustyEnum() {}

func (v StringIntTuple) String() string { return fmt.Sprintf("StringIntTuple(%q, %d)", v.S, v.N) }

type Coordinates3d struct {
	X, Y, Z int64
}

func (Coordinates3d) isRustyEnum() {}

func (v Coordinates3d) String() string {
	return fmt.Sprintf("Coordinates3d(%d, %d, %d)", v.X, v.Y, v.Z)
}

type Coordinates2d struct {
	X, Y int64
}

func (Coordinates2d) isRustyEnum() {}

func (v Coordinates2d) String() string { return fmt.Sprintf("Coordinates2d(%d, %d)", v.X, v.Y) }

// rustyEnum tries its cases in declaration order. The order is part of the
// contract: a two-integer record is a sequence of two ints, so IntTuple
// claims it before Coordinates2d is ever consulted. Coordinates2d is
// therefore unreachable for such values; this mirrors the matching order of
// the original binding and must not be "fixed".
var rustyEnum = binding.NewUnion(
	binding.UnionCase{Name: "Int", From: enumInt},
	binding.UnionCase{Name: "String", From: enumString},
	binding.UnionCase{Name: "IntTuple", From: enumIntTuple},
	binding.UnionCase{Name: "StringIntTuple", From: enumStringIntTuple},
	binding.UnionCase{Name: "Coordinates3d", From: enumCoordinates3d},
	binding.UnionCase{Name: "Coordinates2d", From: enumCoordinates2d},
)

func enumInt(v hostval.Value) (any, bool) {
	n, ok := hostval.AsInt(v)
	if !ok {
		return nil, false
	}
	return Int(n), true
}

func enumString(v hostval.Value) (any, bool) {
	s, ok := hostval.AsStr(v)
	if !ok {
		return nil, false
	}
	return String(s), true
}

func enumIntTuple(v hostval.Value) (any, bool) {
	seq, ok := hostval.AsSequence(v)
	if !ok || len(seq) != 2 {
		return nil, false
	}
	a, ok := hostval.AsInt(seq[0])
	if !ok {
		return nil, false
	}
	b, ok := hostval.AsInt(seq[1])
	if !ok {
		return nil, false
	}
	return IntTuple{A: a, B: b}, true
}

func enumStringIntTuple(v hostval.Value) (any, bool) {
	seq, ok := hostval.AsSequence(v)
	if !ok || len(seq) != 2 {
		return nil, false
	}
	s, ok := hostval.AsStr(seq[0])
	if !ok {
		return nil, false
	}
	n, ok := hostval.AsInt(seq[1])
	if !ok {
		return nil, false
	}
	return StringIntTuple{S: s, N: n}, true
}

func enumCoordinates3d(v hostval.Value) (any, bool) {
	rec, ok := v.(hostval.Record)
	if !ok || rec.Len() != 3 {
		return nil, false
	}
	x, ok := recordInt(rec, "x")
	if !ok {
		return nil, false
	}
	y, ok := recordInt(rec, "y")
	if !ok {
		return nil, false
	}
	z, ok := recordInt(rec, "z")
	if !ok {
		return nil, false
	}
	return Coordinates3d{X: x, Y: y, Z: z}, true
}

func enumCoordinates2d(v hostval.Value) (any, bool) {
	rec, ok := v.(hostval.Record)
	if !ok || rec.Len() != 2 {
		return nil, false
	}
	x, ok := recordInt(rec, "x")
	if !ok {
		return nil, false
	}
	y, ok := recordInt(rec, "y")
	if !ok {
		return nil, false
	}
	return Coordinates2d{X: x, Y: y}, true
}

func recordInt(rec hostval.Record, field string) (int64, bool) {
	v, ok := rec.Field(field)
	if !ok {
		return 0, false
	}
	return hostval.AsInt(v)
}

// RustEnumParameter narrows a host value into RustyEnum and renders the
// matched case debug-style, e.g. "IntTuple(1, 2)". A value matching no case
// fails with a *binding.ConversionError for argument 'e'.
func RustEnumParameter(e hostval.Value) (string, error) {
	v, err := rustyEnum.Convert("e", e)
	if err != nil {
		return "", err
	}
	return v.(RustyEnum).String(), nil
}
