package hostval

import "reflect"

// Converter bridges one Go type and its host value representation. ToGo is
// fallible: a host value of the wrong shape reports false without side
// effects, so callers can try alternatives.
type Converter interface {
	ToGo(v Value) (any, bool)
	FromGo(v any) Value
	GoType() reflect.Type
}

type identityConverter struct{}

func (identityConverter) ToGo(v Value) (any, bool) {
	return v, true
}

func (identityConverter) FromGo(v any) Value {
	return v.(Value)
}

func (identityConverter) GoType() reflect.Type {
	return reflect.TypeOf((*Value)(nil)).Elem()
}

type intConverter struct {
	typ reflect.Type
}

func (c intConverter) ToGo(v Value) (any, bool) {
	n, ok := AsInt(v)
	if !ok {
		return nil, false
	}
	rv := reflect.New(c.typ).Elem()
	if rv.OverflowInt(n) {
		return nil, false
	}
	rv.SetInt(n)
	return rv.Interface(), true
}

func (c intConverter) FromGo(v any) Value {
	return Int(reflect.ValueOf(v).Int())
}

func (c intConverter) GoType() reflect.Type { return c.typ }

type uintConverter struct {
	typ reflect.Type
}

func (c uintConverter) ToGo(v Value) (any, bool) {
	n, ok := AsInt(v)
	if !ok || n < 0 {
		return nil, false
	}
	rv := reflect.New(c.typ).Elem()
	if rv.OverflowUint(uint64(n)) {
		return nil, false
	}
	rv.SetUint(uint64(n))
	return rv.Interface(), true
}

func (c uintConverter) FromGo(v any) Value {
	return Int(int64(reflect.ValueOf(v).Uint()))
}

func (c uintConverter) GoType() reflect.Type { return c.typ }

type floatConverter struct {
	typ reflect.Type
}

func (c floatConverter) ToGo(v Value) (any, bool) {
	f, ok := AsFloat(v)
	if !ok {
		return nil, false
	}
	rv := reflect.New(c.typ).Elem()
	rv.SetFloat(f)
	return rv.Interface(), true
}

func (c floatConverter) FromGo(v any) Value {
	return Float(reflect.ValueOf(v).Float())
}

func (c floatConverter) GoType() reflect.Type { return c.typ }

type boolConverter struct{}

func (boolConverter) ToGo(v Value) (any, bool) {
	b, ok := v.(Bool)
	if !ok {
		return nil, false
	}
	return bool(b), true
}

func (boolConverter) FromGo(v any) Value { return Bool(v.(bool)) }

func (boolConverter) GoType() reflect.Type { return reflect.TypeOf((*bool)(nil)).Elem() }

type stringConverter struct{}

func (stringConverter) ToGo(v Value) (any, bool) {
	s, ok := AsStr(v)
	if !ok {
		return nil, false
	}
	return s, true
}

func (stringConverter) FromGo(v any) Value { return Str(v.(string)) }

func (stringConverter) GoType() reflect.Type { return reflect.TypeOf((*string)(nil)).Elem() }

type sliceConverter struct {
	elem Converter
	typ  reflect.Type
}

func (c *sliceConverter) ToGo(v Value) (any, bool) {
	var items []Value
	switch sv := v.(type) {
	case List:
		items = sv
	case Tuple:
		items = sv
	default:
		return nil, false
	}
	rv := reflect.MakeSlice(c.typ, len(items), len(items))
	for i, item := range items {
		elem, ok := c.elem.ToGo(item)
		if !ok {
			return nil, false
		}
		rv.Index(i).Set(reflect.ValueOf(elem))
	}
	return rv.Interface(), true
}

func (c *sliceConverter) FromGo(v any) Value {
	rv := reflect.ValueOf(v)
	out := make(List, rv.Len())
	for i := 0; i < rv.Len(); i++ {
		out[i] = c.elem.FromGo(rv.Index(i).Interface())
	}
	return out
}

func (c *sliceConverter) GoType() reflect.Type { return c.typ }

// ConverterFor returns a converter for the given Go type, or nil if the type
// cannot cross the boundary.
func ConverterFor(t reflect.Type) Converter {
	if t == reflect.TypeOf((*Value)(nil)).Elem() {
		return identityConverter{}
	}
	if t.Implements(reflect.TypeOf((*Value)(nil)).Elem()) {
		return concreteValueConverter{typ: t}
	}

	switch t.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return intConverter{typ: t}
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return uintConverter{typ: t}
	case reflect.Float32, reflect.Float64:
		return floatConverter{typ: t}
	case reflect.Bool:
		return boolConverter{}
	case reflect.String:
		return stringConverter{}
	case reflect.Slice:
		elem := ConverterFor(t.Elem())
		if elem == nil {
			return nil
		}
		return &sliceConverter{elem: elem, typ: t}
	}
	return nil
}

// concreteValueConverter handles Go parameters declared as a specific host
// value kind (e.g. hostval.Tuple): the incoming value must already be of
// that kind.
type concreteValueConverter struct {
	typ reflect.Type
}

func (c concreteValueConverter) ToGo(v Value) (any, bool) {
	rv := reflect.ValueOf(v)
	if !rv.Type().AssignableTo(c.typ) {
		return nil, false
	}
	return v, true
}

func (c concreteValueConverter) FromGo(v any) Value {
	return v.(Value)
}

func (c concreteValueConverter) GoType() reflect.Type { return c.typ }
