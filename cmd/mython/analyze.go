package main

import (
	"errors"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/mythonlang/mython/mython"
)

type lintWarning struct {
	Class   string
	Method  string
	Pos     mython.Position
	Message string
}

func analyzeCommand(args []string) error {
	fs := flag.NewFlagSet("analyze", flag.ContinueOnError)
	fs.SetOutput(new(flagErrorSink))
	if err := fs.Parse(args); err != nil {
		return err
	}

	remaining := fs.Args()
	if len(remaining) == 0 {
		return errors.New("mython analyze: script path required")
	}

	scriptPath, err := filepath.Abs(remaining[0])
	if err != nil {
		return fmt.Errorf("resolve script path: %w", err)
	}
	input, err := os.ReadFile(scriptPath)
	if err != nil {
		return fmt.Errorf("read script: %w", err)
	}

	engine := mython.NewEngine(mython.Config{})
	script, err := engine.Compile(string(input))
	if err != nil {
		return fmt.Errorf("analysis compile failed: %w", err)
	}

	warnings := analyzeScriptWarnings(script)
	if len(warnings) == 0 {
		fmt.Println("No issues found")
		return nil
	}

	for _, warning := range warnings {
		line := warning.Pos.Line
		column := warning.Pos.Column
		if line <= 0 {
			line = 1
		}
		if column <= 0 {
			column = 1
		}
		fmt.Printf("%s:%d:%d: %s (%s.%s)\n", scriptPath, line, column, warning.Message, warning.Class, warning.Method)
	}

	return fmt.Errorf("analysis found %d issue(s)", len(warnings))
}

// analyzeScriptWarnings walks every class's methods looking for statements
// that can never run because an earlier sibling statement always returns.
// Mython has no loops or exceptions, so the only block-forming nodes to
// recurse into are if/else branches.
func analyzeScriptWarnings(script *mython.Script) []lintWarning {
	warnings := make([]lintWarning, 0)
	for _, class := range script.Classes() {
		for _, method := range class.Methods() {
			body, ok := method.Body.(*mython.MethodBody)
			if !ok {
				continue
			}
			compound, ok := body.Body.(*mython.Compound)
			if !ok {
				continue
			}
			lintStatements(class.Name(), method.Name, method.Pos, compound.Statements, &warnings)
		}
	}

	sort.SliceStable(warnings, func(i, j int) bool {
		if warnings[i].Pos.Line != warnings[j].Pos.Line {
			return warnings[i].Pos.Line < warnings[j].Pos.Line
		}
		if warnings[i].Pos.Column != warnings[j].Pos.Column {
			return warnings[i].Pos.Column < warnings[j].Pos.Column
		}
		return warnings[i].Method < warnings[j].Method
	})

	return warnings
}

func lintStatements(class, method string, pos mython.Position, statements []mython.Node, warnings *[]lintWarning) bool {
	terminated := false
	for _, stmt := range statements {
		if terminated {
			*warnings = append(*warnings, lintWarning{
				Class:   class,
				Method:  method,
				Pos:     pos,
				Message: "unreachable statement",
			})
			continue
		}
		if statementTerminates(class, method, pos, stmt, warnings) {
			terminated = true
		}
	}
	return terminated
}

func statementTerminates(class, method string, pos mython.Position, stmt mython.Node, warnings *[]lintWarning) bool {
	switch typed := stmt.(type) {
	case *mython.Return:
		return true
	case *mython.IfElse:
		thenStmts := blockStatements(typed.Then)
		thenTerminated := lintStatements(class, method, pos, thenStmts, warnings)
		if typed.Else == nil {
			return false
		}
		elseStmts := blockStatements(typed.Else)
		elseTerminated := lintStatements(class, method, pos, elseStmts, warnings)
		return thenTerminated && elseTerminated
	default:
		return false
	}
}

func blockStatements(n mython.Node) []mython.Node {
	if compound, ok := n.(*mython.Compound); ok {
		return compound.Statements
	}
	return nil
}
