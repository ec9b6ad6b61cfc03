package mython

import (
	"fmt"
	"io"
	"strings"
)

// Context supplies the output stream every Print and print statement
// writes to. Narrow on purpose: nothing in the evaluator needs more than
// this, and widening it later (e.g. to thread a deadline) is a compatible
// change because callers construct it through NewContext.
type Context struct {
	Out io.Writer
}

// NewContext builds a Context writing to out.
func NewContext(out io.Writer) *Context {
	return &Context{Out: out}
}

// Object is an abstract Mython value. Every concrete kind knows how to
// render itself; everything else about a value (truthiness, equality,
// ordering, field/method access) is handled by free functions or type
// switches over the concrete kinds, the way the reference evaluator
// dispatches on a closed set of leaf types plus ClassInstance.
type Object interface {
	Print(ctx *Context) error
}

// Number wraps a Mython integer.
type Number int64

func (n Number) Print(ctx *Context) error {
	_, err := fmt.Fprintf(ctx.Out, "%d", int64(n))
	return err
}

// String wraps a Mython string.
type String string

func (s String) Print(ctx *Context) error {
	_, err := fmt.Fprint(ctx.Out, string(s))
	return err
}

// Bool wraps a Mython boolean, printing as True/False.
type Bool bool

func (b Bool) Print(ctx *Context) error {
	text := "False"
	if b {
		text = "True"
	}
	_, err := fmt.Fprint(ctx.Out, text)
	return err
}

// ObjectHolder is a handle to a value, or to no value at all (Mython's
// None). Go's garbage collector makes the owning/non-owning distinction
// from the reference implementation moot — Own and Share are the same
// operation here — but both constructors are kept so call sites read the
// same way the design notes describe them (Share marks "this alias binds
// self", Own marks "this constructs a fresh value").
type ObjectHolder struct {
	obj Object
}

// Own constructs a holder around a freshly produced value.
func Own(v Object) ObjectHolder {
	return ObjectHolder{obj: v}
}

// Share aliases an existing value, for binding self into a call-local
// closure without implying a new value was created.
func Share(v Object) ObjectHolder {
	return ObjectHolder{obj: v}
}

// None is the empty handle.
func None() ObjectHolder {
	return ObjectHolder{}
}

// Get returns the underlying value, or nil if the holder is None.
func (h ObjectHolder) Get() Object {
	return h.obj
}

// IsNone reports whether the holder carries no value.
func (h ObjectHolder) IsNone() bool {
	return h.obj == nil
}

// IsTrue implements Mython truthiness: a Number is truthy iff non-zero, a
// String iff non-empty, a Bool by its value; everything else (None,
// classes, instances) is falsy.
func IsTrue(h ObjectHolder) bool {
	switch v := h.Get().(type) {
	case Number:
		return v != 0
	case String:
		return v != ""
	case Bool:
		return bool(v)
	default:
		return false
	}
}

// Equal implements Mython's == semantics: both None compares equal; two
// leaves of the same kind compare payloads; a ClassInstance with an
// arity-1 __eq__ dispatches to it; anything else is a runtime error.
func Equal(l, r ObjectHolder, ctx *Context, pos Position) (bool, error) {
	if l.IsNone() && r.IsNone() {
		return true, nil
	}
	switch lv := l.Get().(type) {
	case Number:
		if rv, ok := r.Get().(Number); ok {
			return lv == rv, nil
		}
	case String:
		if rv, ok := r.Get().(String); ok {
			return lv == rv, nil
		}
	case Bool:
		if rv, ok := r.Get().(Bool); ok {
			return lv == rv, nil
		}
	case *ClassInstance:
		if lv.HasMethod("__eq__", 1) {
			result, err := lv.Call("__eq__", []ObjectHolder{r}, ctx, pos)
			if err != nil {
				return false, err
			}
			return IsTrue(result), nil
		}
	}
	return false, &RuntimeError{Message: "unsupported operand types for ==", Pos: pos}
}

// Less implements Mython's < semantics, structured like Equal but
// dispatching to __lt__ for instances. It has no both-None rule: comparing
// None with None is a runtime error.
func Less(l, r ObjectHolder, ctx *Context, pos Position) (bool, error) {
	switch lv := l.Get().(type) {
	case Number:
		if rv, ok := r.Get().(Number); ok {
			return lv < rv, nil
		}
	case String:
		if rv, ok := r.Get().(String); ok {
			return lv < rv, nil
		}
	case Bool:
		if rv, ok := r.Get().(Bool); ok {
			return !bool(lv) && bool(rv), nil
		}
	case *ClassInstance:
		if lv.HasMethod("__lt__", 1) {
			result, err := lv.Call("__lt__", []ObjectHolder{r}, ctx, pos)
			if err != nil {
				return false, err
			}
			return IsTrue(result), nil
		}
	}
	return false, &RuntimeError{Message: "unsupported operand types for <", Pos: pos}
}

// NotEqual, Greater, LessOrEqual, and GreaterOrEqual are all derived from
// Equal and Less, never independently dispatched — in particular __gt__
// is never looked up.

func NotEqual(l, r ObjectHolder, ctx *Context, pos Position) (bool, error) {
	eq, err := Equal(l, r, ctx, pos)
	if err != nil {
		return false, err
	}
	return !eq, nil
}

func Greater(l, r ObjectHolder, ctx *Context, pos Position) (bool, error) {
	lt, err := Less(l, r, ctx, pos)
	if err != nil {
		return false, err
	}
	eq, err := Equal(l, r, ctx, pos)
	if err != nil {
		return false, err
	}
	return !lt && !eq, nil
}

func LessOrEqual(l, r ObjectHolder, ctx *Context, pos Position) (bool, error) {
	lt, err := Less(l, r, ctx, pos)
	if err != nil {
		return false, err
	}
	if lt {
		return true, nil
	}
	return Equal(l, r, ctx, pos)
}

func GreaterOrEqual(l, r ObjectHolder, ctx *Context, pos Position) (bool, error) {
	lt, err := Less(l, r, ctx, pos)
	if err != nil {
		return false, err
	}
	return !lt, nil
}

// Stringify renders h into a string the way Print would, yielding the
// literal "None" for an empty holder.
func Stringify(h ObjectHolder, ctx *Context) (string, error) {
	var buf strings.Builder
	sub := &Context{Out: &buf}
	if h.IsNone() {
		_, err := fmt.Fprint(sub.Out, "None")
		if err != nil {
			return "", err
		}
		return buf.String(), nil
	}
	if err := h.Get().Print(sub); err != nil {
		return "", err
	}
	return buf.String(), nil
}
