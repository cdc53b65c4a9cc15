package ir

import (
	"testing"

	"cinder/internal/errors"
	"cinder/internal/parser"
	"cinder/internal/semantic"
)

// Shared helpers: compile a source snippet through the front end and build
// the block graph, with or without the analysis pipeline.

func buildGraph(t *testing.T, source string) *Program {
	t.Helper()
	file, parseErrs := parser.ParseSource("test.cdr", source)
	if len(parseErrs) > 0 {
		t.Fatalf("parse errors: %v", parseErrs)
	}
	analyzer := semantic.NewAnalyzer()
	ctx := analyzer.Analyze(file)
	for _, e := range analyzer.GetErrors() {
		if e.Level == errors.Error {
			t.Fatalf("semantic error: %s", e.Message)
		}
	}
	program, err := NewBuilder(ctx).Build(file)
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	return program
}

func buildAnalyzed(t *testing.T, source string) *Program {
	t.Helper()
	program := buildGraph(t, source)
	NewPipeline().Run(program)
	return program
}

func findFunc(t *testing.T, program *Program, name string) *Function {
	t.Helper()
	for _, fn := range program.Funcs {
		if fn.Sym.Name == name {
			return fn
		}
	}
	t.Fatalf("function %s not found", name)
	return nil
}

func findBlock(fn *Function, kind BlockKind) *Block {
	for _, b := range fn.Blocks {
		if b.Kind == kind {
			return b
		}
	}
	return nil
}

func reachable(fn *Function) []*Block {
	var out []*Block
	for _, b := range fn.Blocks {
		if b.Dom != nil {
			out = append(out, b)
		}
	}
	return out
}

func instrCount(fn *Function) int {
	return countInstrs(fn)
}

func countOp(fn *Function, op Op) int {
	n := 0
	for _, b := range fn.Blocks {
		for in := b.First(); in != nil; in = in.Next() {
			if in.Op == op {
				n++
			}
		}
	}
	return n
}
