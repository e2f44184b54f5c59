// Package wasmhost mounts a binding module into a wazero runtime so guest
// programs can call it through a flat core-wasm ABI. Integers cross as i64,
// floats as f64, strings and numeric slices as (ptr, len) pairs in guest
// memory, and class instances as u32 handles into a per-mount table.
//
// Exports whose signatures cannot be flattened (for example functions
// taking a dynamically shaped hostval.Value) stay host-side-callable only
// and are skipped during mounting.
package wasmhost

import (
	"context"
	"fmt"
	"reflect"

	"github.com/tetratelabs/wazero"
	"github.com/tetratelabs/wazero/api"

	"github.com/partite-ai/fulano/binding"
	"github.com/partite-ai/fulano/hostval"
)

// ReallocExport is the guest export used to allocate memory for results
// flowing guest-ward, with the canonical (ptr, size, align, newSize)
// signature.
const ReallocExport = "cabi_realloc"

type config struct {
	encoding StringEncoding
}

type Option func(*config)

// WithStringEncoding selects the guest string encoding. UTF-8 is the
// default.
func WithStringEncoding(enc StringEncoding) Option {
	return func(c *config) {
		c.encoding = enc
	}
}

// Mount instantiates a host module named after the binding module. Close
// the returned module to unregister it.
func Mount(ctx context.Context, r wazero.Runtime, m *binding.Module, opts ...Option) (api.Closer, error) {
	cfg := &config{encoding: EncodingUTF8}
	for _, opt := range opts {
		opt(cfg)
	}

	mounter := &mounter{cfg: cfg, builder: r.NewHostModuleBuilder(m.Name())}

	for _, name := range m.FuncNames() {
		f := m.Func(name)
		mounter.exportFunc(name, f, func(ctx context.Context, args []hostval.Value) (hostval.Value, error) {
			return f.Call(ctx, args...)
		})
	}
	for _, name := range m.ClassNames() {
		mounter.exportClass(m.Class(name))
	}

	return mounter.builder.Instantiate(ctx)
}

type mounter struct {
	cfg     *config
	builder wazero.HostModuleBuilder
}

// exportFunc flattens a boundary function and exports it, or silently skips
// it when its signature has no flat representation.
func (mt *mounter) exportFunc(name string, f *binding.Func, invoke func(ctx context.Context, args []hostval.Value) (hostval.Value, error)) {
	var lifts []*paramPlan
	var paramTypes []api.ValueType
	for i := 0; i < f.NumParams(); i++ {
		plan, ok := paramPlanFor(f.ParamConverter(i).GoType())
		if !ok {
			return
		}
		lifts = append(lifts, plan)
		paramTypes = append(paramTypes, plan.types...)
	}
	result, ok := resultPlanFor(f)
	if !ok {
		return
	}

	mt.export(name, paramTypes, result.types, func(ctx context.Context, mod api.Module, stack []uint64) {
		args := make([]hostval.Value, len(lifts))
		slot := 0
		for i, plan := range lifts {
			arg, err := plan.lift(mod.Memory(), mt.cfg, stack[slot:slot+len(plan.types)])
			if err != nil {
				panic(fmt.Errorf("%s: %w", name, err))
			}
			args[i] = arg
			slot += len(plan.types)
		}
		out, err := invoke(ctx, args)
		if err != nil {
			panic(fmt.Errorf("%s: %w", name, err))
		}
		if err := result.lower(ctx, mod, mt.cfg, out, stack); err != nil {
			panic(fmt.Errorf("%s: %w", name, err))
		}
	})
}

// exportClass exposes a class as <name>.new / <name>.drop / <name>.get_<f>
// plus one export per method, all taking a u32 handle.
func (mt *mounter) exportClass(cls *binding.Class) {
	handles := binding.NewTable[hostval.Object]()

	ctor := cls.Constructor()
	var lifts []*paramPlan
	var ctorParams []api.ValueType
	flat := true
	for i := 0; i < ctor.NumParams(); i++ {
		plan, ok := paramPlanFor(ctor.ParamConverter(i).GoType())
		if !ok {
			flat = false
			break
		}
		lifts = append(lifts, plan)
		ctorParams = append(ctorParams, plan.types...)
	}
	if !flat {
		return
	}

	mt.export(cls.Name()+".new", ctorParams, []api.ValueType{api.ValueTypeI32}, func(ctx context.Context, mod api.Module, stack []uint64) {
		args := make([]hostval.Value, len(lifts))
		slot := 0
		for i, plan := range lifts {
			arg, err := plan.lift(mod.Memory(), mt.cfg, stack[slot:slot+len(plan.types)])
			if err != nil {
				panic(fmt.Errorf("%s.new: %w", cls.Name(), err))
			}
			args[i] = arg
			slot += len(plan.types)
		}
		obj, err := cls.New(ctx, args...)
		if err != nil {
			panic(fmt.Errorf("%s.new: %w", cls.Name(), err))
		}
		stack[0] = uint64(handles.Add(obj))
	})

	mt.export(cls.Name()+".drop", []api.ValueType{api.ValueTypeI32}, nil, func(ctx context.Context, mod api.Module, stack []uint64) {
		if _, ok := handles.Remove(uint32(stack[0])); !ok {
			panic(fmt.Errorf("%s.drop: invalid handle %d", cls.Name(), uint32(stack[0])))
		}
	})

	for _, field := range cls.FieldNames() {
		field := field
		mt.exportWithHandle(cls, handles, cls.Name()+".get_"+field, cls.Field(field),
			func(ctx context.Context, obj hostval.Object, args []hostval.Value) (hostval.Value, error) {
				return cls.Attr(obj, field)
			})
	}
	for _, method := range cls.MethodNames() {
		method := method
		mt.exportWithHandle(cls, handles, cls.Name()+"."+method, cls.Method(method),
			func(ctx context.Context, obj hostval.Object, args []hostval.Value) (hostval.Value, error) {
				return cls.CallMethod(ctx, obj, method, args...)
			})
	}
}

func (mt *mounter) exportWithHandle(cls *binding.Class, handles *binding.Table[hostval.Object], name string, f *binding.Func, invoke func(ctx context.Context, obj hostval.Object, args []hostval.Value) (hostval.Value, error)) {
	var lifts []*paramPlan
	paramTypes := []api.ValueType{api.ValueTypeI32}
	for i := 0; i < f.NumParams(); i++ {
		plan, ok := paramPlanFor(f.ParamConverter(i).GoType())
		if !ok {
			return
		}
		lifts = append(lifts, plan)
		paramTypes = append(paramTypes, plan.types...)
	}
	result, ok := resultPlanFor(f)
	if !ok {
		return
	}

	mt.export(name, paramTypes, result.types, func(ctx context.Context, mod api.Module, stack []uint64) {
		obj, ok := handles.Get(uint32(stack[0]))
		if !ok {
			panic(fmt.Errorf("%s: invalid handle %d", name, uint32(stack[0])))
		}
		args := make([]hostval.Value, len(lifts))
		slot := 1
		for i, plan := range lifts {
			arg, err := plan.lift(mod.Memory(), mt.cfg, stack[slot:slot+len(plan.types)])
			if err != nil {
				panic(fmt.Errorf("%s: %w", name, err))
			}
			args[i] = arg
			slot += len(plan.types)
		}
		out, err := invoke(ctx, obj, args)
		if err != nil {
			panic(fmt.Errorf("%s: %w", name, err))
		}
		if err := result.lower(ctx, mod, mt.cfg, out, stack); err != nil {
			panic(fmt.Errorf("%s: %w", name, err))
		}
	})
}

func (mt *mounter) export(name string, params, results []api.ValueType, fn api.GoModuleFunc) {
	mt.builder = mt.builder.NewFunctionBuilder().
		WithGoModuleFunction(fn, params, results).
		Export(name)
}

type paramPlan struct {
	types []api.ValueType
	lift  func(mem Memory, cfg *config, stack []uint64) (hostval.Value, error)
}

func paramPlanFor(t reflect.Type) (*paramPlan, bool) {
	switch t.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return &paramPlan{
			types: []api.ValueType{api.ValueTypeI64},
			lift: func(mem Memory, cfg *config, stack []uint64) (hostval.Value, error) {
				return hostval.Int(int64(stack[0])), nil
			},
		}, true
	case reflect.Float32, reflect.Float64:
		return &paramPlan{
			types: []api.ValueType{api.ValueTypeF64},
			lift: func(mem Memory, cfg *config, stack []uint64) (hostval.Value, error) {
				return hostval.Float(api.DecodeF64(stack[0])), nil
			},
		}, true
	case reflect.String:
		return &paramPlan{
			types: []api.ValueType{api.ValueTypeI32, api.ValueTypeI32},
			lift: func(mem Memory, cfg *config, stack []uint64) (hostval.Value, error) {
				s, err := ReadString(mem, cfg.encoding, uint32(stack[0]), uint32(stack[1]))
				if err != nil {
					return nil, err
				}
				return hostval.Str(s), nil
			},
		}, true
	case reflect.Slice:
		switch t.Elem().Kind() {
		case reflect.Float64:
			return &paramPlan{
				types: []api.ValueType{api.ValueTypeI32, api.ValueTypeI32},
				lift: func(mem Memory, cfg *config, stack []uint64) (hostval.Value, error) {
					ptr, count := uint32(stack[0]), uint32(stack[1])
					list := make(hostval.List, count)
					for i := uint32(0); i < count; i++ {
						v, ok := mem.ReadFloat64Le(ptr + i*8)
						if !ok {
							return nil, fmt.Errorf("failed to read float64 at offset %d", ptr+i*8)
						}
						list[i] = hostval.Float(v)
					}
					return list, nil
				},
			}, true
		case reflect.Int64:
			return &paramPlan{
				types: []api.ValueType{api.ValueTypeI32, api.ValueTypeI32},
				lift: func(mem Memory, cfg *config, stack []uint64) (hostval.Value, error) {
					ptr, count := uint32(stack[0]), uint32(stack[1])
					list := make(hostval.List, count)
					for i := uint32(0); i < count; i++ {
						v, ok := mem.ReadUint64Le(ptr + i*8)
						if !ok {
							return nil, fmt.Errorf("failed to read int64 at offset %d", ptr+i*8)
						}
						list[i] = hostval.Int(int64(v))
					}
					return list, nil
				},
			}, true
		}
	}
	return nil, false
}

type resultPlan struct {
	types []api.ValueType
	lower func(ctx context.Context, mod api.Module, cfg *config, v hostval.Value, stack []uint64) error
}

func resultPlanFor(f *binding.Func) (*resultPlan, bool) {
	conv := f.ResultConverter()
	if conv == nil {
		return &resultPlan{
			lower: func(ctx context.Context, mod api.Module, cfg *config, v hostval.Value, stack []uint64) error {
				return nil
			},
		}, true
	}

	t := conv.GoType()
	switch t.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return &resultPlan{
			types: []api.ValueType{api.ValueTypeI64},
			lower: func(ctx context.Context, mod api.Module, cfg *config, v hostval.Value, stack []uint64) error {
				n, ok := hostval.AsInt(v)
				if !ok {
					return fmt.Errorf("expected an integer result, got %s", v.TypeName())
				}
				stack[0] = uint64(n)
				return nil
			},
		}, true
	case reflect.Float32, reflect.Float64:
		return &resultPlan{
			types: []api.ValueType{api.ValueTypeF64},
			lower: func(ctx context.Context, mod api.Module, cfg *config, v hostval.Value, stack []uint64) error {
				fv, ok := hostval.AsFloat(v)
				if !ok {
					return fmt.Errorf("expected a float result, got %s", v.TypeName())
				}
				stack[0] = api.EncodeF64(fv)
				return nil
			},
		}, true
	case reflect.String:
		return &resultPlan{
			types: []api.ValueType{api.ValueTypeI32, api.ValueTypeI32},
			lower: func(ctx context.Context, mod api.Module, cfg *config, v hostval.Value, stack []uint64) error {
				s, ok := hostval.AsStr(v)
				if !ok {
					return fmt.Errorf("expected a string result, got %s", v.TypeName())
				}
				encoded, units, err := EncodeString(cfg.encoding, s)
				if err != nil {
					return err
				}
				ptr, err := guestAlloc(ctx, mod, 1, uint32(len(encoded)))
				if err != nil {
					return err
				}
				if !mod.Memory().Write(ptr, encoded) {
					return fmt.Errorf("failed to write string at ptr %d", ptr)
				}
				stack[0] = uint64(ptr)
				stack[1] = uint64(units)
				return nil
			},
		}, true
	case reflect.Slice:
		switch t.Elem().Kind() {
		case reflect.Int64:
			return &resultPlan{
				types: []api.ValueType{api.ValueTypeI32, api.ValueTypeI32},
				lower: func(ctx context.Context, mod api.Module, cfg *config, v hostval.Value, stack []uint64) error {
					items, ok := v.(hostval.List)
					if !ok {
						return fmt.Errorf("expected a list result, got %s", v.TypeName())
					}
					ptr, err := guestAlloc(ctx, mod, 8, uint32(len(items))*8)
					if err != nil {
						return err
					}
					for i, item := range items {
						n, ok := hostval.AsInt(item)
						if !ok {
							return fmt.Errorf("expected integer list elements, got %s", item.TypeName())
						}
						if !mod.Memory().WriteUint64Le(ptr+uint32(i)*8, uint64(n)) {
							return fmt.Errorf("failed to write int64 at offset %d", ptr+uint32(i)*8)
						}
					}
					stack[0] = uint64(ptr)
					stack[1] = uint64(len(items))
					return nil
				},
			}, true
		case reflect.Float64:
			return &resultPlan{
				types: []api.ValueType{api.ValueTypeI32, api.ValueTypeI32},
				lower: func(ctx context.Context, mod api.Module, cfg *config, v hostval.Value, stack []uint64) error {
					items, ok := v.(hostval.List)
					if !ok {
						return fmt.Errorf("expected a list result, got %s", v.TypeName())
					}
					ptr, err := guestAlloc(ctx, mod, 8, uint32(len(items))*8)
					if err != nil {
						return err
					}
					for i, item := range items {
						fv, ok := hostval.AsFloat(item)
						if !ok {
							return fmt.Errorf("expected float list elements, got %s", item.TypeName())
						}
						if !mod.Memory().WriteFloat64Le(ptr+uint32(i)*8, fv) {
							return fmt.Errorf("failed to write float64 at offset %d", ptr+uint32(i)*8)
						}
					}
					stack[0] = uint64(ptr)
					stack[1] = uint64(len(items))
					return nil
				},
			}, true
		}
	}
	return nil, false
}

// guestAlloc allocates result memory in the guest through its realloc
// export.
func guestAlloc(ctx context.Context, mod api.Module, align, size uint32) (uint32, error) {
	realloc := mod.ExportedFunction(ReallocExport)
	if realloc == nil {
		return 0, fmt.Errorf("guest does not export %s", ReallocExport)
	}
	res, err := realloc.Call(ctx, 0, 0, uint64(align), uint64(size))
	if err != nil {
		return 0, fmt.Errorf("%s failed: %w", ReallocExport, err)
	}
	if len(res) != 1 {
		return 0, fmt.Errorf("%s returned %d results, want 1", ReallocExport, len(res))
	}
	return uint32(res[0]), nil
}
