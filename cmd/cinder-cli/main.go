// SPDX-License-Identifier: Apache-2.0
package main

import (
	"fmt"
	"os"
	"time"

	"github.com/fatih/color"

	"cinder/internal/ast"
	"cinder/internal/errors"
	"cinder/internal/ir"
	"cinder/internal/parser"
	"cinder/internal/semantic"
)

func main() {
	showLive := false
	trace := false
	path := ""
	for _, arg := range os.Args[1:] {
		switch arg {
		case "-live":
			showLive = true
		case "-trace":
			trace = true
		default:
			path = arg
		}
	}
	if path == "" {
		fmt.Println("Usage: cinder [-live] [-trace] <file.cdr>")
		os.Exit(1)
	}

	startTime := time.Now()

	source, err := os.ReadFile(path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to read file: %v\n", err)
		os.Exit(1)
	}

	reporter := errors.NewErrorReporter(path, string(source))

	file, parseErrors := parser.ParseSource(path, string(source))
	for _, e := range parseErrors {
		fmt.Print(reporter.FormatError(e))
	}

	var ctx *semantic.Context
	if file != nil {
		analyzer := semantic.NewAnalyzer()
		ctx = analyzer.Analyze(file)
		for _, e := range analyzer.GetErrors() {
			fmt.Print(reporter.FormatError(e))
		}
	}

	if reporter.Errors() > 0 || file == nil {
		color.Red("Compilation failed after %s", formatDuration(time.Since(startTime)))
		os.Exit(1)
	}

	program, err := buildAndAnalyze(file, ctx, trace)
	if err != nil {
		fmt.Fprintf(os.Stderr, "internal error: %v\n", err)
		os.Exit(1)
	}

	printer := ir.NewPrinter()
	printer.ShowLive = showLive
	fmt.Print(printer.Render(program))
	printRangeSummary(program)

	color.Green("Successfully processed %s in %s", path, formatDuration(time.Since(startTime)))
}

func buildAndAnalyze(file *ast.File, ctx *semantic.Context, trace bool) (*ir.Program, error) {
	program, err := ir.NewBuilder(ctx).Build(file)
	if err != nil {
		return nil, err
	}
	pipeline := ir.NewPipeline()
	if trace {
		pipeline.Trace = os.Stdout
	}
	pipeline.Run(program)
	return program, nil
}

// printRangeSummary lists each function's live-range count and the
// highest interference degree, the numbers a register allocator cares
// about first.
func printRangeSummary(program *ir.Program) {
	for _, fn := range program.Funcs {
		if fn.Interference == nil {
			continue
		}
		maxDegree := 0
		for _, r := range fn.Ranges {
			if d := fn.Interference.Degree(r); d > maxDegree {
				maxDegree = d
			}
		}
		fmt.Printf("%s: %d live ranges, max interference degree %d\n",
			fn.Sym.Name, len(fn.Ranges), maxDegree)
	}
}

func formatDuration(d time.Duration) string {
	switch {
	case d >= time.Minute:
		return fmt.Sprintf("%.2fmin", d.Minutes())
	case d >= time.Second:
		return fmt.Sprintf("%.2fs", d.Seconds())
	case d >= time.Millisecond:
		return fmt.Sprintf("%.1fms", float64(d.Nanoseconds())/1000000.0)
	case d >= time.Microsecond:
		return fmt.Sprintf("%.1fμs", float64(d.Nanoseconds())/1000.0)
	default:
		return fmt.Sprintf("%dns", d.Nanoseconds())
	}
}
