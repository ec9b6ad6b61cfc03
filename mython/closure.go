package mython

// Closure is a flat mapping from identifier to value. Unlike a typical
// tree-walking interpreter's environment, it never chains to an enclosing
// scope: Mython methods see only the call-local closure built for them
// (formal parameters plus self) and, for names not found there, nothing
// else — the global closure and a call-local closure never nest. A class
// instance's fields are also a Closure, but reached only through dotted
// access, never through bare name lookup.
type Closure map[string]ObjectHolder

// Lookup resolves a dotted path: id0 in closure, then for each following
// name the current value must be a *ClassInstance and lookup continues in
// its fields. Returns a runtime error if id0 is absent or an intermediate
// value isn't an instance.
func (c Closure) Lookup(path []string, pos Position) (ObjectHolder, error) {
	value, ok := c[path[0]]
	if !ok {
		return None(), &RuntimeError{Message: "undefined variable " + path[0], Pos: pos}
	}
	for _, name := range path[1:] {
		inst, ok := value.Get().(*ClassInstance)
		if !ok {
			return None(), &RuntimeError{Message: "field access on a non-instance", Pos: pos}
		}
		value, ok = inst.fields[name]
		if !ok {
			return None(), &RuntimeError{Message: "undefined field " + name, Pos: pos}
		}
	}
	return value, nil
}
