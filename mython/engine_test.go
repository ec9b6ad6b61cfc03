package mython

import (
	"context"
	"strings"
	"testing"
)

func runScript(t *testing.T, source string) string {
	t.Helper()
	var out strings.Builder
	engine := NewEngine(Config{Output: &out})
	script, err := engine.Compile(source)
	if err != nil {
		t.Fatalf("compile %q: %v", source, err)
	}
	if err := script.Run(context.Background()); err != nil {
		t.Fatalf("run %q: %v", source, err)
	}
	return out.String()
}

func TestArithmeticAndPrint(t *testing.T) {
	if got := runScript(t, "print 1 + 2 * 3\n"); got != "7\n" {
		t.Fatalf("got %q", got)
	}
}

func TestStringConcatenationAndEscape(t *testing.T) {
	if got := runScript(t, "print \"a\\nb\" + \"c\"\n"); got != "a\nbc\n" {
		t.Fatalf("got %q", got)
	}
}

func TestClassWithStr(t *testing.T) {
	source := "class Dog:\n" +
		"  def __init__(self, n):\n" +
		"    self.n = n\n" +
		"  def __str__(self):\n" +
		"    return self.n\n" +
		"d = Dog(\"Rex\")\n" +
		"print d\n"
	if got := runScript(t, source); got != "Rex\n" {
		t.Fatalf("got %q", got)
	}
}

func TestInheritanceAndMethodResolution(t *testing.T) {
	source := "class A:\n" +
		"  def f(self):\n" +
		"    return 1\n" +
		"class B(A):\n" +
		"  def g(self):\n" +
		"    return self.f() + 10\n" +
		"print B().g()\n"
	if got := runScript(t, source); got != "11\n" {
		t.Fatalf("got %q", got)
	}
}

func TestEqDispatch(t *testing.T) {
	source := "class P:\n" +
		"  def __init__(self, x):\n" +
		"    self.x = x\n" +
		"  def __eq__(self, o):\n" +
		"    return self.x == o.x\n" +
		"print P(5) == P(5)\n" +
		"print P(5) == P(6)\n"
	if got := runScript(t, source); got != "True\nFalse\n" {
		t.Fatalf("got %q", got)
	}
}

func TestReturnUnwindsOnlyEnclosingMethod(t *testing.T) {
	source := "class C:\n" +
		"  def f(self):\n" +
		"    if True:\n" +
		"      return 42\n" +
		"    return 0\n" +
		"print C().f()\n"
	if got := runScript(t, source); got != "42\n" {
		t.Fatalf("got %q", got)
	}
}

func TestFieldAssignmentAndDottedRead(t *testing.T) {
	source := "class Box:\n" +
		"  def __init__(self, v):\n" +
		"    self.v = v\n" +
		"b = Box(1)\n" +
		"b.v = 9\n" +
		"print b.v\n"
	if got := runScript(t, source); got != "9\n" {
		t.Fatalf("got %q", got)
	}
}

func TestIfElseBranching(t *testing.T) {
	source := "x = 0\n" +
		"if x:\n" +
		"  print 1\n" +
		"else:\n" +
		"  print 2\n"
	if got := runScript(t, source); got != "2\n" {
		t.Fatalf("got %q", got)
	}
}

func TestTopLevelReturnIsARuntimeError(t *testing.T) {
	var out strings.Builder
	engine := NewEngine(Config{Output: &out})
	script, err := engine.Compile("return 1\n")
	if err != nil {
		t.Fatalf("compile: %v", err)
	}
	err = script.Run(context.Background())
	if err == nil {
		t.Fatalf("expected an error for a return outside any method body")
	}
	if _, ok := err.(*RuntimeError); !ok {
		t.Fatalf("expected *RuntimeError, got %T", err)
	}
}

func TestDivisionByZeroIsRuntimeError(t *testing.T) {
	var out strings.Builder
	engine := NewEngine(Config{Output: &out})
	script, err := engine.Compile("print 1 / 0\n")
	if err != nil {
		t.Fatalf("compile: %v", err)
	}
	if err := script.Run(context.Background()); err == nil {
		t.Fatalf("expected division by zero error")
	}
}
