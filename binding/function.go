package binding

import (
	"context"
	"fmt"
	"reflect"

	"github.com/partite-ai/fulano/hostval"
)

var (
	ctxType = reflect.TypeOf((*context.Context)(nil)).Elem()
	errType = reflect.TypeOf((*error)(nil)).Elem()
)

// Func adapts a plain Go function to the boundary calling convention: host
// values in, host value out, with per-argument conversion. Every Func
// carries a documentation string retrievable by host-side introspection.
type Func struct {
	name     string
	doc      string
	fn       reflect.Value
	recvType reflect.Type // non-nil for methods; first Go parameter
	takesCtx bool
	params   []funcParam
	result   hostval.Converter // nil when nothing crosses back
	rawRep   bool              // result is an opaque native rep (constructors)
	retErr   bool
}

type funcParam struct {
	name string
	conv hostval.Converter
}

func newFunc(name, doc string, fn any, recvType reflect.Type, rawResult bool, paramNames []string) (*Func, error) {
	fnType := reflect.TypeOf(fn)
	if fnType == nil || fnType.Kind() != reflect.Func {
		return nil, fmt.Errorf("%s: expected a function, got %v", name, fnType)
	}

	f := &Func{
		name:     name,
		doc:      doc,
		fn:       reflect.ValueOf(fn),
		recvType: recvType,
		rawRep:   rawResult,
	}

	in := 0
	if recvType != nil {
		if fnType.NumIn() == 0 || fnType.In(0) != recvType {
			return nil, fmt.Errorf("%s: method must take %s as its first parameter", name, recvType)
		}
		in = 1
	}
	if in < fnType.NumIn() && fnType.In(in) == ctxType {
		f.takesCtx = true
		in++
	}

	for ; in < fnType.NumIn(); in++ {
		paramType := fnType.In(in)
		conv := hostval.ConverterFor(paramType)
		if conv == nil {
			return nil, fmt.Errorf("%s: unsupported parameter type %s", name, paramType)
		}
		pname := fmt.Sprintf("arg%d", len(f.params))
		if len(paramNames) > len(f.params) {
			pname = paramNames[len(f.params)]
		}
		f.params = append(f.params, funcParam{name: pname, conv: conv})
	}

	outs := fnType.NumOut()
	if outs > 0 && fnType.Out(outs-1) == errType {
		f.retErr = true
		outs--
	}
	switch outs {
	case 0:
		if rawResult {
			return nil, fmt.Errorf("%s: constructor must return a value", name)
		}
	case 1:
		if !rawResult {
			outType := fnType.Out(0)
			conv := hostval.ConverterFor(outType)
			if conv == nil {
				return nil, fmt.Errorf("%s: unsupported return type %s", name, outType)
			}
			f.result = conv
		}
	default:
		return nil, fmt.Errorf("%s: functions with more than one result are not supported", name)
	}

	return f, nil
}

func (f *Func) Name() string { return f.name }

// Doc reports the function's documentation string.
func (f *Func) Doc() string { return f.doc }

// NumParams reports the number of boundary-visible parameters, excluding
// any receiver or context parameter.
func (f *Func) NumParams() int { return len(f.params) }

// ParamConverter exposes the converter for parameter i; the wasm mounting
// layer uses it to decide whether a signature flattens to core types.
func (f *Func) ParamConverter(i int) hostval.Converter { return f.params[i].conv }

// ResultConverter reports the result converter, or nil for void functions.
func (f *Func) ResultConverter() hostval.Converter { return f.result }

// Call invokes the function with host-value arguments. Argument conversion
// failures surface as *ConversionError naming the declared parameter.
func (f *Func) Call(ctx context.Context, args ...hostval.Value) (hostval.Value, error) {
	if f.recvType != nil {
		return nil, fmt.Errorf("%s: method called without a receiver", f.name)
	}
	out, err := f.invoke(ctx, reflect.Value{}, args)
	if err != nil {
		return nil, err
	}
	return f.convertResult(out)
}

// invoke converts arguments, calls the Go function and strips a trailing
// error result. The remaining results are returned unconverted.
func (f *Func) invoke(ctx context.Context, recv reflect.Value, args []hostval.Value) ([]reflect.Value, error) {
	if len(args) != len(f.params) {
		return nil, fmt.Errorf("%s: expected %d arguments, got %d", f.name, len(f.params), len(args))
	}

	var in []reflect.Value
	if f.recvType != nil {
		in = append(in, recv)
	}
	if f.takesCtx {
		in = append(in, reflect.ValueOf(ctx))
	}
	for i, arg := range args {
		goVal, ok := f.params[i].conv.ToGo(arg)
		if !ok {
			return nil, &ConversionError{
				Arg:      f.params[i].name,
				TypeName: arg.TypeName(),
				Target:   typeTarget(f.params[i].conv.GoType()),
			}
		}
		in = append(in, reflect.ValueOf(goVal))
	}

	out := f.fn.Call(in)
	if f.retErr {
		if errVal := out[len(out)-1]; !errVal.IsNil() {
			return nil, errVal.Interface().(error)
		}
		out = out[:len(out)-1]
	}
	return out, nil
}

func (f *Func) convertResult(out []reflect.Value) (hostval.Value, error) {
	if f.result == nil || len(out) == 0 {
		return nil, nil
	}
	return f.result.FromGo(out[0].Interface()), nil
}

// typeTarget renders a Go parameter type the way conversion errors name it.
func typeTarget(t reflect.Type) string {
	switch t.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return "int"
	case reflect.Float32, reflect.Float64:
		return "float"
	case reflect.Bool:
		return "bool"
	case reflect.String:
		return "str"
	case reflect.Slice:
		return "sequence"
	}
	return t.String()
}
