package mython

import "testing"

func TestParseAssignmentProducesAssignmentNode(t *testing.T) {
	p, err := NewParser("x = 1\n")
	if err != nil {
		t.Fatalf("new parser: %v", err)
	}
	root, err := p.ParseProgram()
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	compound, ok := root.(*Compound)
	if !ok || len(compound.Statements) != 1 {
		t.Fatalf("expected a single top-level statement")
	}
	if _, ok := compound.Statements[0].(*Assignment); !ok {
		t.Fatalf("expected *Assignment, got %T", compound.Statements[0])
	}
}

func TestParseBareExpressionStatementStartingWithIdentifier(t *testing.T) {
	p, err := NewParser("class C:\n  def f(self):\n    return 1\nC().f()\n")
	if err != nil {
		t.Fatalf("new parser: %v", err)
	}
	root, err := p.ParseProgram()
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	compound := root.(*Compound)
	last := compound.Statements[len(compound.Statements)-1]
	if _, ok := last.(*MethodCall); !ok {
		t.Fatalf("expected the trailing bare call to parse as *MethodCall, got %T", last)
	}
}

func TestParseFieldAssignment(t *testing.T) {
	source := "class Box:\n  def __init__(self):\n    self.v = 0\nb = Box()\nb.v = 5\n"
	p, err := NewParser(source)
	if err != nil {
		t.Fatalf("new parser: %v", err)
	}
	root, err := p.ParseProgram()
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	compound := root.(*Compound)
	last := compound.Statements[len(compound.Statements)-1]
	fa, ok := last.(*FieldAssignment)
	if !ok {
		t.Fatalf("expected *FieldAssignment, got %T", last)
	}
	if fa.Field != "v" || len(fa.ObjectPath) != 1 || fa.ObjectPath[0] != "b" {
		t.Fatalf("unexpected field assignment shape: %#v", fa)
	}
}

func TestParseUnknownParentClassIsAnError(t *testing.T) {
	p, err := NewParser("class B(A):\n  def f(self):\n    return 1\n")
	if err != nil {
		t.Fatalf("new parser: %v", err)
	}
	if _, err := p.ParseProgram(); err == nil {
		t.Fatalf("expected an error for an unknown parent class")
	}
}

func TestParseMethodOutsideClassIsAnError(t *testing.T) {
	p, err := NewParser("def f():\n  return 1\n")
	if err != nil {
		t.Fatalf("new parser: %v", err)
	}
	if _, err := p.ParseProgram(); err == nil {
		t.Fatalf("expected an error for a method defined outside a class")
	}
}

func TestParseOperatorPrecedence(t *testing.T) {
	p, err := NewParser("print 1 + 2 * 3\n")
	if err != nil {
		t.Fatalf("new parser: %v", err)
	}
	root, err := p.ParseProgram()
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	printStmt := root.(*Compound).Statements[0].(*Print)
	add, ok := printStmt.Args[0].(*Arithmetic)
	if !ok || add.Op != opAdd {
		t.Fatalf("expected top-level node to be +, got %#v", printStmt.Args[0])
	}
	if _, ok := add.Rhs.(*Arithmetic); !ok {
		t.Fatalf("expected right operand of + to be the * subexpression")
	}
	if _, ok := add.Lhs.(*NumberConst); !ok {
		t.Fatalf("expected left operand of + to be a bare literal")
	}
}

func TestParseMethodDefExcludesSelfFromFormalParams(t *testing.T) {
	source := "class Box:\n  def __init__(self, v):\n    self.v = v\n"
	p, err := NewParser(source)
	if err != nil {
		t.Fatalf("new parser: %v", err)
	}
	root, err := p.ParseProgram()
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	def := root.(*Compound).Statements[0].(*ClassDefinition)
	method := def.ClassValue.GetMethod("__init__")
	if method == nil {
		t.Fatalf("expected to find __init__")
	}
	if len(method.FormalParams) != 1 || method.FormalParams[0] != "v" {
		t.Fatalf("expected FormalParams to be [\"v\"] excluding self, got %#v", method.FormalParams)
	}
}

func TestParseMethodDefRequiresSelfAsFirstParam(t *testing.T) {
	p, err := NewParser("class C:\n  def f(x):\n    return x\n")
	if err != nil {
		t.Fatalf("new parser: %v", err)
	}
	if _, err := p.ParseProgram(); err == nil {
		t.Fatalf("expected an error for a method missing self")
	}
}

func TestParseUnaryMinusDesugarsToSubtractionFromZero(t *testing.T) {
	p, err := NewParser("print -5\n")
	if err != nil {
		t.Fatalf("new parser: %v", err)
	}
	root, err := p.ParseProgram()
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	printStmt := root.(*Compound).Statements[0].(*Print)
	sub, ok := printStmt.Args[0].(*Arithmetic)
	if !ok || sub.Op != opSub {
		t.Fatalf("expected a subtraction node, got %#v", printStmt.Args[0])
	}
	lhs, ok := sub.Lhs.(*NumberConst)
	if !ok || lhs.Value != 0 {
		t.Fatalf("expected unary minus to desugar as 0 - operand")
	}
}
