package ir

import (
	"fmt"
	"io"

	"cinder/internal/ast"
	"cinder/internal/semantic"
)

// OptimizationPass represents a single analysis or transformation over the
// block graph.
type OptimizationPass interface {
	Name() string
	Apply(program *Program) bool // Returns true if changes were made
	Description() string
}

// Pipeline manages the sequence of passes. Analyses run to completion on
// every function before the next stage begins.
type Pipeline struct {
	passes []OptimizationPass

	// Trace, when set, receives a per-pass progress report.
	Trace io.Writer
}

// NewPipeline creates the standard pipeline. Liveness runs twice: dead
// code elimination consumes the first solution and invalidates it, and
// the live-range builder needs a fresh one.
func NewPipeline() *Pipeline {
	p := &Pipeline{}
	p.AddPass(&DominanceAnalysis{})
	p.AddPass(&SSAConstruction{})
	p.AddPass(&LivenessAnalysis{})
	p.AddPass(&DeadCodeElimination{})
	p.AddPass(&LivenessAnalysis{})
	p.AddPass(&LiveRangeConstruction{})
	return p
}

// AddPass appends a pass to the pipeline.
func (p *Pipeline) AddPass(pass OptimizationPass) {
	p.passes = append(p.passes, pass)
}

// Run executes all passes over the program, one at a time.
func (p *Pipeline) Run(program *Program) {
	for _, pass := range p.passes {
		changed := pass.Apply(program)
		if p.Trace != nil {
			status := "no changes"
			if changed {
				status = "changed"
			}
			fmt.Fprintf(p.Trace, "  - %s: %s (%s)\n", pass.Name(), pass.Description(), status)
		}
	}
}

// BuildProgram lowers a resolved file into a block graph and runs the
// standard pipeline over it.
func BuildProgram(file *ast.File, ctx *semantic.Context) (*Program, error) {
	program, err := NewBuilder(ctx).Build(file)
	if err != nil {
		return nil, err
	}
	NewPipeline().Run(program)
	return program, nil
}

// DominanceAnalysis computes dominator and postdominator information.
type DominanceAnalysis struct{}

func (da *DominanceAnalysis) Name() string { return "dominance-analysis" }

func (da *DominanceAnalysis) Description() string {
	return "Dominator and postdominator trees with their frontiers"
}

func (da *DominanceAnalysis) Apply(program *Program) bool {
	for _, fn := range program.Funcs {
		ComputeDominance(fn)
	}
	return false
}

// SSAConstruction inserts phi functions and renames variable generations.
type SSAConstruction struct{}

func (sc *SSAConstruction) Name() string { return "ssa-construction" }

func (sc *SSAConstruction) Description() string {
	return "Phi insertion over dominance frontiers and generation renaming"
}

func (sc *SSAConstruction) Apply(program *Program) bool {
	for _, fn := range program.Funcs {
		BuildSSA(fn)
	}
	return true
}

// LivenessAnalysis solves the backward live-variable dataflow problem.
type LivenessAnalysis struct{}

func (la *LivenessAnalysis) Name() string { return "liveness-analysis" }

func (la *LivenessAnalysis) Description() string {
	return "Per-block live-in/live-out sets of named variables"
}

func (la *LivenessAnalysis) Apply(program *Program) bool {
	for _, fn := range program.Funcs {
		ComputeLiveness(fn)
	}
	return false
}

// DeadCodeElimination removes instructions that no observable effect
// depends on.
type DeadCodeElimination struct{}

func (dce *DeadCodeElimination) Name() string { return "dead-code-elimination" }

func (dce *DeadCodeElimination) Description() string {
	return "Worklist mark over use-def chains, then a sweep of unmarked instructions"
}

func (dce *DeadCodeElimination) Apply(program *Program) bool {
	changed := false
	for _, fn := range program.Funcs {
		before := countInstrs(fn)
		MarkSweep(fn)
		if countInstrs(fn) != before {
			changed = true
		}
	}
	return changed
}

// LiveRangeConstruction builds live ranges and the interference graph for
// the register allocator.
type LiveRangeConstruction struct{}

func (lr *LiveRangeConstruction) Name() string { return "live-ranges" }

func (lr *LiveRangeConstruction) Description() string {
	return "Live ranges per SSA name and their interference graph"
}

func (lr *LiveRangeConstruction) Apply(program *Program) bool {
	for _, fn := range program.Funcs {
		BuildLiveRanges(fn)
	}
	return false
}

func countInstrs(fn *Function) int {
	n := 0
	for _, b := range fn.Blocks {
		n += b.Len()
	}
	return n
}
