package mython

import "testing"

func TestGetMethodPrefersOwnDefinitionOverAncestor(t *testing.T) {
	parentBody := &MethodBody{Body: &Compound{Statements: []Node{&Return{Expr: &NumberConst{Value: 1}}}}}
	childBody := &MethodBody{Body: &Compound{Statements: []Node{&Return{Expr: &NumberConst{Value: 2}}}}}

	parent := NewClass("Parent", []Method{{Name: "f", Body: parentBody}}, nil)
	child := NewClass("Child", []Method{{Name: "f", Body: childBody}}, parent)

	m := child.GetMethod("f")
	if m == nil {
		t.Fatalf("expected to find method f")
	}
	result, err := m.Body.Execute(Closure{}, NewContext(nil))
	if err != nil {
		t.Fatalf("execute: %v", err)
	}
	if n, ok := result.Get().(Number); !ok || n != 2 {
		t.Fatalf("expected child's own definition to win, got %#v", result.Get())
	}
}

func TestGetMethodFallsBackToAncestorWhenMissingOnSelf(t *testing.T) {
	parentBody := &MethodBody{Body: &Compound{Statements: []Node{&Return{Expr: &NumberConst{Value: 7}}}}}
	parent := NewClass("Parent", []Method{{Name: "f", Body: parentBody}}, nil)
	child := NewClass("Child", nil, parent)

	m := child.GetMethod("f")
	if m == nil {
		t.Fatalf("expected to find inherited method f")
	}
	result, err := m.Body.Execute(Closure{}, NewContext(nil))
	if err != nil {
		t.Fatalf("execute: %v", err)
	}
	if n, ok := result.Get().(Number); !ok || n != 7 {
		t.Fatalf("expected inherited definition, got %#v", result.Get())
	}
}

func TestGetMethodReturnsNilWhenAbsentFromWholeChain(t *testing.T) {
	parent := NewClass("Parent", nil, nil)
	child := NewClass("Child", nil, parent)
	if child.GetMethod("missing") != nil {
		t.Fatalf("expected nil for a method defined nowhere in the chain")
	}
}

func TestHasMethodRequiresExactArity(t *testing.T) {
	body := &MethodBody{Body: &Compound{}}
	class := NewClass("C", []Method{{Name: "f", FormalParams: []string{"a"}, Body: body}}, nil)
	if !class.HasMethod("f", 1) {
		t.Fatalf("expected arity-1 match")
	}
	if class.HasMethod("f", 0) || class.HasMethod("f", 2) {
		t.Fatalf("expected arity mismatch to fail HasMethod")
	}
}

func TestNewClassInstanceSeedsSelf(t *testing.T) {
	class := NewClass("C", nil, nil)
	inst := NewClassInstance(class)
	self, ok := inst.Fields()["self"]
	if !ok {
		t.Fatalf("expected self to be bound in the instance's fields")
	}
	if self.Get().(*ClassInstance) != inst {
		t.Fatalf("self does not alias the instance itself")
	}
}
