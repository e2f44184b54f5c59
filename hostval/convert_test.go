package hostval

import (
	"reflect"
	"testing"
)

func TestConverterForInt(t *testing.T) {
	conv := ConverterFor(reflect.TypeOf((*int64)(nil)).Elem())
	if conv == nil {
		t.Fatal("no converter for int64")
	}
	got, ok := conv.ToGo(Int(42))
	if !ok || got.(int64) != 42 {
		t.Errorf("ToGo(42) = %v, %v", got, ok)
	}
	if _, ok := conv.ToGo(Str("42")); ok {
		t.Error("str must not convert to int64")
	}
	if v := conv.FromGo(int64(-7)); v != Int(-7) {
		t.Errorf("FromGo(-7) = %v", v)
	}
}

func TestConverterForIntOverflow(t *testing.T) {
	conv := ConverterFor(reflect.TypeOf((*int8)(nil)).Elem())
	if _, ok := conv.ToGo(Int(300)); ok {
		t.Error("300 must not fit in int8")
	}
	if got, ok := conv.ToGo(Int(-12)); !ok || got.(int8) != -12 {
		t.Errorf("ToGo(-12) = %v, %v", got, ok)
	}
}

func TestConverterForUint(t *testing.T) {
	conv := ConverterFor(reflect.TypeOf((*uint16)(nil)).Elem())
	if _, ok := conv.ToGo(Int(-1)); ok {
		t.Error("negative value must not convert to uint16")
	}
	if _, ok := conv.ToGo(Int(1 << 20)); ok {
		t.Error("overflowing value must not convert to uint16")
	}
	if got, ok := conv.ToGo(Int(9)); !ok || got.(uint16) != 9 {
		t.Errorf("ToGo(9) = %v, %v", got, ok)
	}
}

func TestConverterForFloat(t *testing.T) {
	conv := ConverterFor(reflect.TypeOf((*float64)(nil)).Elem())
	if got, ok := conv.ToGo(Int(2)); !ok || got.(float64) != 2 {
		t.Errorf("int should promote to float, got %v, %v", got, ok)
	}
	if v := conv.FromGo(1.5); v != Float(1.5) {
		t.Errorf("FromGo(1.5) = %v", v)
	}
}

func TestConverterForSlice(t *testing.T) {
	conv := ConverterFor(reflect.TypeOf((*[]float64)(nil)).Elem())
	if conv == nil {
		t.Fatal("no converter for []float64")
	}

	got, ok := conv.ToGo(List{Float(1), Int(2)})
	if !ok {
		t.Fatal("list did not convert")
	}
	if s := got.([]float64); len(s) != 2 || s[0] != 1 || s[1] != 2 {
		t.Errorf("ToGo list = %v", s)
	}

	// Tuples convert like lists.
	if _, ok := conv.ToGo(Tuple{Float(1)}); !ok {
		t.Error("tuple did not convert")
	}
	if _, ok := conv.ToGo(List{Str("x")}); ok {
		t.Error("list with a str element must not convert")
	}
	if _, ok := conv.ToGo(Str("x")); ok {
		t.Error("str must not convert to a slice")
	}

	back := conv.FromGo([]float64{0.5})
	list, isList := back.(List)
	if !isList || len(list) != 1 || list[0] != Float(0.5) {
		t.Errorf("FromGo = %v", back)
	}
}

func TestConverterForValue(t *testing.T) {
	conv := ConverterFor(reflect.TypeOf((*Value)(nil)).Elem())
	if conv == nil {
		t.Fatal("no converter for Value")
	}
	d := NewDict()
	got, ok := conv.ToGo(d)
	if !ok || got != Value(d) {
		t.Errorf("identity conversion failed: %v, %v", got, ok)
	}
}

func TestConverterForConcreteValue(t *testing.T) {
	conv := ConverterFor(reflect.TypeOf((*Tuple)(nil)).Elem())
	if conv == nil {
		t.Fatal("no converter for Tuple")
	}
	if _, ok := conv.ToGo(Tuple{Int(1)}); !ok {
		t.Error("tuple did not convert to Tuple")
	}
	if _, ok := conv.ToGo(List{Int(1)}); ok {
		t.Error("list must not convert to Tuple")
	}
}

func TestConverterForUnsupported(t *testing.T) {
	if conv := ConverterFor(reflect.TypeOf((*map[string]int)(nil)).Elem()); conv != nil {
		t.Errorf("unexpected converter for map: %v", conv)
	}
	if conv := ConverterFor(reflect.TypeOf((*chan int)(nil)).Elem()); conv != nil {
		t.Errorf("unexpected converter for chan: %v", conv)
	}
}
