package mython

import (
	"fmt"
	"sort"
)

// Method is a named, callable piece of a class: its formal parameter names
// and a body to execute against a closure built from those parameters plus
// self.
type Method struct {
	Name         string
	FormalParams []string
	Body         Node
	Pos          Position
}

// Class is an immutable template: a name, a method table kept sorted by
// name so GetMethod can binary-search it, and an optional parent for
// single inheritance. Parent is a plain pointer — Go's GC makes the
// "non-owning reference" lifetime note in the data model moot.
type Class struct {
	name    string
	methods []Method
	parent  *Class
}

// NewClass builds a Class, sorting methods by name as the data model
// requires.
func NewClass(name string, methods []Method, parent *Class) *Class {
	sorted := make([]Method, len(methods))
	copy(sorted, methods)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].Name < sorted[j].Name })
	return &Class{name: name, methods: sorted, parent: parent}
}

func (c *Class) Name() string   { return c.name }
func (c *Class) Parent() *Class { return c.parent }

// Methods returns the class's own method table, sorted by name. It does
// not include inherited methods.
func (c *Class) Methods() []Method { return c.methods }

func (c *Class) Print(ctx *Context) error {
	_, err := fmt.Fprintf(ctx.Out, "Class %s", c.name)
	return err
}

// GetMethod binary-searches the method table; if absent, recurses into
// parent. Returns nil if nothing is found along the chain.
func (c *Class) GetMethod(name string) *Method {
	for cur := c; cur != nil; cur = cur.parent {
		methods := cur.methods
		i := sort.Search(len(methods), func(i int) bool { return methods[i].Name >= name })
		if i < len(methods) && methods[i].Name == name {
			return &methods[i]
		}
	}
	return nil
}

// HasMethod reports whether GetMethod(name) returns a method whose
// formal-parameter count equals argc exactly — overloading isn't
// supported, so this is a strict arity match.
func (c *Class) HasMethod(name string, argc int) bool {
	m := c.GetMethod(name)
	return m != nil && len(m.FormalParams) == argc
}

// ClassInstance holds a reference to its Class and a mutable closure of
// fields. Printing dispatches __str__ if defined with arity 0; otherwise
// it falls back to an implementation-defined, stable, per-instance
// identity string — the source's own behavior is to print a raw address,
// which Go has no equivalent of, so the instance's pointer value stands in
// for it.
type ClassInstance struct {
	class  *Class
	fields Closure
}

// NewClassInstance builds an instance whose field closure contains self
// aliasing itself, per the data model's invariant.
func NewClassInstance(class *Class) *ClassInstance {
	inst := &ClassInstance{class: class, fields: Closure{}}
	inst.fields["self"] = Share(inst)
	return inst
}

func (ci *ClassInstance) Class() *Class   { return ci.class }
func (ci *ClassInstance) Fields() Closure { return ci.fields }

func (ci *ClassInstance) HasMethod(name string, argc int) bool {
	return ci.class.HasMethod(name, argc)
}

func (ci *ClassInstance) Print(ctx *Context) error {
	if ci.HasMethod("__str__", 0) {
		result, err := ci.Call("__str__", nil, ctx, Position{})
		if err != nil {
			return err
		}
		text, err := Stringify(result, ctx)
		if err != nil {
			return err
		}
		_, err = fmt.Fprint(ctx.Out, text)
		return err
	}
	_, err := fmt.Fprintf(ctx.Out, "<%s object at %p>", ci.class.name, ci)
	return err
}

// Call verifies HasMethod, locates the method via the ancestor chain,
// builds a fresh closure binding formal parameters to args plus self
// aliasing the instance, and executes the method's body in that closure.
func (ci *ClassInstance) Call(name string, args []ObjectHolder, ctx *Context, pos Position) (ObjectHolder, error) {
	if !ci.HasMethod(name, len(args)) {
		return None(), &RuntimeError{Message: fmt.Sprintf("%s has no method %q with %d argument(s)", ci.class.name, name, len(args)), Pos: pos}
	}
	method := ci.class.GetMethod(name)
	callClosure := Closure{"self": Share(ci)}
	for i, param := range method.FormalParams {
		callClosure[param] = args[i]
	}
	return method.Body.Execute(callClosure, ctx)
}
