package binding

import (
	"testing"

	"github.com/partite-ai/fulano/hostval"
)

func TestUnionOrder(t *testing.T) {
	// Both cases accept ints; the first declared must win.
	u := NewUnion(
		UnionCase{Name: "A", From: func(v hostval.Value) (any, bool) {
			_, ok := hostval.AsInt(v)
			return "a", ok
		}},
		UnionCase{Name: "B", From: func(v hostval.Value) (any, bool) {
			_, ok := hostval.AsInt(v)
			return "b", ok
		}},
	)

	out, err := u.Convert("x", hostval.Int(1))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if out != "a" {
		t.Errorf("got %v, want the first case", out)
	}
}

func TestUnionFallsThrough(t *testing.T) {
	u := NewUnion(
		UnionCase{Name: "Int", From: func(v hostval.Value) (any, bool) {
			n, ok := hostval.AsInt(v)
			return n, ok
		}},
		UnionCase{Name: "Str", From: func(v hostval.Value) (any, bool) {
			s, ok := hostval.AsStr(v)
			return s, ok
		}},
	)

	out, err := u.Convert("x", hostval.Str("hi"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if out != "hi" {
		t.Errorf("got %v, want hi", out)
	}
}

func TestUnionNoMatch(t *testing.T) {
	u := NewUnion(
		UnionCase{Name: "Int", From: func(v hostval.Value) (any, bool) { return nil, false }},
		UnionCase{Name: "Str", From: func(v hostval.Value) (any, bool) { return nil, false }},
	)

	_, err := u.Convert("value", hostval.Float(1.5))
	if err == nil {
		t.Fatal("expected an error")
	}
	want := "argument 'value': 'float' object cannot be converted to 'Union[Int, Str]'"
	if err.Error() != want {
		t.Errorf("error = %q, want %q", err.Error(), want)
	}
}
