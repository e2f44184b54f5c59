package binding

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/partite-ai/fulano/hostval"
)

func TestFuncCall(t *testing.T) {
	m := NewModule("m", "")
	m.MustAddFunction("add", "", func(a, b int64) int64 { return a + b }, "a", "b")

	out, err := m.Call(context.Background(), "add", hostval.Int(2), hostval.Int(3))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if n, ok := hostval.AsInt(out); !ok || n != 5 {
		t.Errorf("add(2, 3) = %v, want 5", out)
	}
}

func TestFuncConversionError(t *testing.T) {
	m := NewModule("m", "")
	m.MustAddFunction("square", "", func(x int64) int64 { return x * x }, "x")

	tests := []struct {
		name string
		arg  hostval.Value
		want string
	}{
		{"str", hostval.Str("4"), "argument 'x': 'str' object cannot be converted to 'int'"},
		{"bool", hostval.Bool(true), "argument 'x': 'bool' object cannot be converted to 'int'"},
		{"float", hostval.Float(4), "argument 'x': 'float' object cannot be converted to 'int'"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := m.Call(context.Background(), "square", tt.arg)
			if err == nil {
				t.Fatal("expected an error")
			}
			var convErr *ConversionError
			if !errors.As(err, &convErr) {
				t.Fatalf("error is %T, want *ConversionError", err)
			}
			if err.Error() != tt.want {
				t.Errorf("error = %q, want %q", err.Error(), tt.want)
			}
		})
	}
}

func TestFuncPositionalParamNames(t *testing.T) {
	m := NewModule("m", "")
	m.MustAddFunction("f", "", func(a, b int64) int64 { return a + b }, "a")

	_, err := m.Call(context.Background(), "f", hostval.Int(1), hostval.Str("x"))
	if err == nil {
		t.Fatal("expected an error")
	}
	want := "argument 'arg1': 'str' object cannot be converted to 'int'"
	if err.Error() != want {
		t.Errorf("error = %q, want %q", err.Error(), want)
	}
}

func TestFuncFloatPromotesInt(t *testing.T) {
	m := NewModule("m", "")
	m.MustAddFunction("half", "", func(x float64) float64 { return x / 2 }, "x")

	out, err := m.Call(context.Background(), "half", hostval.Int(3))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if f, ok := hostval.AsFloat(out); !ok || f != 1.5 {
		t.Errorf("half(3) = %v, want 1.5", out)
	}
}

func TestFuncSliceParam(t *testing.T) {
	m := NewModule("m", "")
	m.MustAddFunction("sum", "", func(xs []int64) int64 {
		var total int64
		for _, x := range xs {
			total += x
		}
		return total
	}, "xs")

	for _, arg := range []hostval.Value{
		hostval.List{hostval.Int(1), hostval.Int(2), hostval.Int(3)},
		hostval.Tuple{hostval.Int(1), hostval.Int(2), hostval.Int(3)},
	} {
		out, err := m.Call(context.Background(), "sum", arg)
		if err != nil {
			t.Fatalf("sum(%s) failed: %v", arg.TypeName(), err)
		}
		if n, _ := hostval.AsInt(out); n != 6 {
			t.Errorf("sum(%s) = %v, want 6", arg.TypeName(), out)
		}
	}

	_, err := m.Call(context.Background(), "sum", hostval.List{hostval.Str("x")})
	if err == nil {
		t.Fatal("expected an error for a list of strings")
	}
	want := "argument 'xs': 'list' object cannot be converted to 'sequence'"
	if err.Error() != want {
		t.Errorf("error = %q, want %q", err.Error(), want)
	}
}

func TestFuncContextParam(t *testing.T) {
	m := NewModule("m", "")
	type key struct{}
	m.MustAddFunction("get", "", func(ctx context.Context) string {
		return ctx.Value(key{}).(string)
	})

	ctx := context.WithValue(context.Background(), key{}, "hello")
	out, err := m.Call(ctx, "get")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if s, _ := hostval.AsStr(out); s != "hello" {
		t.Errorf("got %v, want hello", out)
	}
}

func TestFuncErrorReturn(t *testing.T) {
	m := NewModule("m", "")
	boom := fmt.Errorf("boom")
	m.MustAddFunction("fail", "", func() (int64, error) { return 0, boom })
	m.MustAddFunction("ok", "", func() (int64, error) { return 9, nil })

	if _, err := m.Call(context.Background(), "fail"); !errors.Is(err, boom) {
		t.Errorf("error = %v, want boom", err)
	}
	out, err := m.Call(context.Background(), "ok")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if n, _ := hostval.AsInt(out); n != 9 {
		t.Errorf("ok() = %v, want 9", out)
	}
}

func TestFuncArity(t *testing.T) {
	m := NewModule("m", "")
	m.MustAddFunction("one", "", func(x int64) int64 { return x }, "x")

	if _, err := m.Call(context.Background(), "one"); err == nil {
		t.Error("expected an error for too few arguments")
	}
	if _, err := m.Call(context.Background(), "one", hostval.Int(1), hostval.Int(2)); err == nil {
		t.Error("expected an error for too many arguments")
	}
}

func TestFuncRejectsUnsupportedTypes(t *testing.T) {
	m := NewModule("m", "")
	if err := m.AddFunction("bad", "", func(x map[string]int) {}); err == nil {
		t.Error("expected an error for a map parameter")
	}
	if err := m.AddFunction("bad", "", func() (int, string) { return 0, "" }); err == nil {
		t.Error("expected an error for multiple results")
	}
	if err := m.AddFunction("bad", "", 42); err == nil {
		t.Error("expected an error for a non-function")
	}
}

func TestModuleDuplicateFunction(t *testing.T) {
	m := NewModule("m", "")
	m.MustAddFunction("f", "", func() {})
	if err := m.AddFunction("f", "", func() {}); err == nil {
		t.Error("expected an error for a duplicate registration")
	}
}

func TestModuleUnknownFunction(t *testing.T) {
	m := NewModule("m", "")
	if _, err := m.Call(context.Background(), "missing"); err == nil {
		t.Error("expected an error for an unknown function")
	}
}
