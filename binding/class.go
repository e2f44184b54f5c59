package binding

import (
	"context"
	"fmt"
	"reflect"

	"github.com/partite-ai/fulano/hostval"
)

// Class exposes a stateful native type to the host environment: a
// constructor, in-place mutating methods and readable fields. Instances are
// single-owner; nothing here is safe for concurrent use by multiple holders
// of the same handle.
type Class struct {
	name      string
	doc       string
	repType   reflect.Type
	construct *Func
	methods   map[string]*Func
	fields    map[string]*Func
}

// NewClass declares a class. The constructor must be a function returning
// the native representation (typically a pointer); its parameters follow
// the usual conversion rules.
func NewClass(name, doc string, constructor any, paramNames ...string) (*Class, error) {
	fnType := reflect.TypeOf(constructor)
	if fnType == nil || fnType.Kind() != reflect.Func || fnType.NumOut() == 0 {
		return nil, fmt.Errorf("class %s: constructor must be a function returning the instance", name)
	}
	construct, err := newFunc(name, doc, constructor, nil, true, paramNames)
	if err != nil {
		return nil, err
	}
	return &Class{
		name:      name,
		doc:       doc,
		repType:   fnType.Out(0),
		construct: construct,
		methods:   make(map[string]*Func),
		fields:    make(map[string]*Func),
	}, nil
}

func MustNewClass(name, doc string, constructor any, paramNames ...string) *Class {
	c, err := NewClass(name, doc, constructor, paramNames...)
	if err != nil {
		panic(err)
	}
	return c
}

func (c *Class) Name() string { return c.name }

// Doc reports the class documentation string.
func (c *Class) Doc() string { return c.doc }

// AddMethod registers a method. The function's first parameter must be the
// class's native representation type.
func (c *Class) AddMethod(name, doc string, fn any, paramNames ...string) error {
	m, err := newFunc(c.name+"."+name, doc, fn, c.repType, false, paramNames)
	if err != nil {
		return err
	}
	c.methods[name] = m
	return nil
}

func (c *Class) MustAddMethod(name, doc string, fn any, paramNames ...string) {
	if err := c.AddMethod(name, doc, fn, paramNames...); err != nil {
		panic(err)
	}
}

// AddField registers a readable field through a getter function taking the
// native representation and returning the field value.
func (c *Class) AddField(name string, getter any) error {
	g, err := newFunc(c.name+"."+name, "", getter, c.repType, false, nil)
	if err != nil {
		return err
	}
	if g.NumParams() != 0 || g.result == nil {
		return fmt.Errorf("%s.%s: field getter must take only the instance and return the field", c.name, name)
	}
	c.fields[name] = g
	return nil
}

func (c *Class) MustAddField(name string, getter any) {
	if err := c.AddField(name, getter); err != nil {
		panic(err)
	}
}

// New constructs an instance and wraps it as a host object value.
func (c *Class) New(ctx context.Context, args ...hostval.Value) (hostval.Object, error) {
	out, err := c.construct.invoke(ctx, reflect.Value{}, args)
	if err != nil {
		return hostval.Object{}, err
	}
	return hostval.Object{Class: c.name, Rep: out[0].Interface()}, nil
}

// CallMethod dispatches a method call on an instance of this class.
func (c *Class) CallMethod(ctx context.Context, obj hostval.Object, name string, args ...hostval.Value) (hostval.Value, error) {
	m, ok := c.methods[name]
	if !ok {
		return nil, fmt.Errorf("%s has no method %s", c.name, name)
	}
	recv, err := c.receiver(obj)
	if err != nil {
		return nil, err
	}
	out, err := m.invoke(ctx, recv, args)
	if err != nil {
		return nil, err
	}
	return m.convertResult(out)
}

// Attr reads a registered field from an instance.
func (c *Class) Attr(obj hostval.Object, name string) (hostval.Value, error) {
	g, ok := c.fields[name]
	if !ok {
		return nil, fmt.Errorf("%s has no field %s", c.name, name)
	}
	recv, err := c.receiver(obj)
	if err != nil {
		return nil, err
	}
	out, err := g.invoke(context.Background(), recv, nil)
	if err != nil {
		return nil, err
	}
	return g.convertResult(out)
}

// Method exposes a registered method, or nil if absent.
func (c *Class) Method(name string) *Func { return c.methods[name] }

// Field exposes a registered field getter, or nil if absent.
func (c *Class) Field(name string) *Func { return c.fields[name] }

// Constructor exposes the class constructor as a Func. Its result does not
// cross the boundary directly; callers wrap instances through New.
func (c *Class) Constructor() *Func { return c.construct }

// FieldNames lists the readable fields in no particular order.
func (c *Class) FieldNames() []string {
	names := make([]string, 0, len(c.fields))
	for name := range c.fields {
		names = append(names, name)
	}
	return names
}

// MethodNames lists the methods in no particular order.
func (c *Class) MethodNames() []string {
	names := make([]string, 0, len(c.methods))
	for name := range c.methods {
		names = append(names, name)
	}
	return names
}

func (c *Class) receiver(obj hostval.Object) (reflect.Value, error) {
	if obj.Class != c.name {
		return reflect.Value{}, fmt.Errorf("expected a %s instance, got %s", c.name, obj.Class)
	}
	rv := reflect.ValueOf(obj.Rep)
	if rv.Type() != c.repType {
		return reflect.Value{}, fmt.Errorf("%s instance has representation %s, want %s", c.name, rv.Type(), c.repType)
	}
	return rv, nil
}
