package mython

import (
	"context"
	"errors"
	"io"
	"os"
)

// Config configures an Engine. A struct rather than a bare io.Writer
// parameter so it can grow (e.g. a future trace hook) without breaking
// callers.
type Config struct {
	// Output is where print statements and __str__ dispatch write to.
	// Defaults to os.Stdout.
	Output io.Writer
}

func (c Config) output() io.Writer {
	if c.Output != nil {
		return c.Output
	}
	return os.Stdout
}

// Engine is a stateless factory for compiling Mython source into Scripts.
type Engine struct {
	cfg Config
}

// NewEngine builds an Engine from cfg.
func NewEngine(cfg Config) *Engine {
	return &Engine{cfg: cfg}
}

// Compile lexes and parses source, returning a *LexerError (wrapped with
// the source text for code-frame rendering) on failure.
func (e *Engine) Compile(source string) (*Script, error) {
	parser, err := NewParser(source)
	if err != nil {
		if le, ok := err.(*LexerError); ok {
			return nil, le.WithSource(source)
		}
		return nil, err
	}
	root, err := parser.ParseProgram()
	if err != nil {
		if le, ok := err.(*LexerError); ok {
			return nil, le.WithSource(source)
		}
		return nil, err
	}
	classes := make([]*Class, 0, len(parser.classRegistry))
	for _, class := range parser.classRegistry {
		classes = append(classes, class)
	}
	return &Script{root: root, source: source, ctx: NewContext(e.cfg.output()), classes: classes}, nil
}

// Script is a compiled Mython program, ready to run.
type Script struct {
	root    Node
	source  string
	ctx     *Context
	classes []*Class
}

// Classes returns every class the program defines, in no particular
// order — used by ambient tooling (the analyze subcommand) that needs to
// walk method bodies without re-parsing.
func (s *Script) Classes() []*Class {
	return s.classes
}

// Run executes the compiled program's top-level Compound against a fresh
// global Closure. ctx is accepted for API consistency with callers that
// may one day plumb a deadline through a driver layer; evaluation never
// checks it mid-run, matching the absence of any cancellation point.
func (s *Script) Run(_ context.Context) error {
	global := Closure{}
	_, err := s.root.Execute(global, s.ctx)
	if err == nil {
		return nil
	}
	var sig *returnSignal
	if errors.As(err, &sig) {
		err = &RuntimeError{Message: "return outside method body"}
	}
	if re, ok := err.(*RuntimeError); ok {
		return re.WithSource(s.source)
	}
	return err
}
