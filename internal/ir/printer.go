package ir

import (
	"fmt"
	"strings"
)

// Printer pretty-prints the block graph in emitted-form notation: .L
// labels for blocks, .JT for jump tables, .LC for local constants.
type Printer struct {
	indent int
	output strings.Builder

	ShowLive bool // include live-in/live-out annotations
}

// NewPrinter creates a new graph printer.
func NewPrinter() *Printer {
	return &Printer{indent: 0}
}

// Print returns the string representation of a whole program.
func Print(program *Program) string {
	p := NewPrinter()
	p.printProgram(program)
	return p.output.String()
}

// Render returns the string representation of a whole program using
// the printer's settings.
func (p *Printer) Render(program *Program) string {
	p.printProgram(program)
	return p.output.String()
}

// PrintFunction returns the string representation of a single function.
func PrintFunction(fn *Function) string {
	p := NewPrinter()
	p.printFunction(fn)
	return p.output.String()
}

func (p *Printer) writeIndent() {
	for i := 0; i < p.indent; i++ {
		p.output.WriteString("  ")
	}
}

func (p *Printer) writeLine(format string, args ...interface{}) {
	p.writeIndent()
	p.output.WriteString(fmt.Sprintf(format, args...))
	p.output.WriteString("\n")
}

func (p *Printer) printProgram(program *Program) {
	name := "<source>"
	if program.File != nil {
		name = program.File.Filename
	}
	p.writeLine("PROGRAM %s (IR)", name)
	p.writeLine("")

	if len(program.Globals) > 0 {
		p.writeLine("GLOBALS:")
		p.indent++
		for _, g := range program.Globals {
			p.writeLine("%-12s : %s", g.Name, g.Type)
		}
		p.indent--
		p.writeLine("")
	}

	for _, fn := range program.Funcs {
		p.printFunction(fn)
		p.writeLine("")
	}
}

func (p *Printer) printFunction(fn *Function) {
	params := make([]string, len(fn.Sym.Params))
	for i, param := range fn.Sym.Params {
		params[i] = fmt.Sprintf("%s %s", param.Name, param.Type)
	}
	sig := fmt.Sprintf("fn %s(%s)", fn.Sym.Name, strings.Join(params, ", "))
	if fn.Sym.Return != nil {
		sig += " " + fn.Sym.Return.String()
	}
	p.writeLine("%s {", sig)
	p.indent++

	for _, c := range fn.Consts {
		if c.IsFloat {
			p.writeLine("%s: float %g", c.Label(), c.Float)
		} else {
			p.writeLine("%s: string %q", c.Label(), c.Str)
		}
	}
	for _, t := range fn.Tables {
		entries := make([]string, len(t.Values))
		for i, v := range t.Values {
			entries[i] = fmt.Sprintf("%d: %s", v, t.Blocks[i].Label())
		}
		def := "?"
		if t.Default != nil {
			def = t.Default.Label()
		}
		p.writeLine("%s: [%s] default %s", t.Label(), strings.Join(entries, ", "), def)
	}

	for _, b := range fn.Blocks {
		p.printBlock(b)
	}

	p.indent--
	p.writeLine("}")
}

func (p *Printer) printBlock(b *Block) {
	header := fmt.Sprintf("%s:", b.Label())
	var notes []string
	if b.Kind != KindBlock {
		notes = append(notes, b.Kind.String())
	}
	if len(b.Preds) > 0 {
		notes = append(notes, "preds "+blockLabels(b.Preds))
	}
	if len(notes) > 0 {
		header += "  ; " + strings.Join(notes, ", ")
	}
	p.writeLine("%s", header)

	p.indent++
	if p.ShowLive && b.LiveIn != nil {
		p.writeLine("; live-in  %s", b.LiveIn)
		p.writeLine("; live-out %s", b.LiveOut)
	}
	for in := b.First(); in != nil; in = in.Next() {
		p.writeLine("%s", in)
	}
	p.indent--
}

func blockLabels(blocks []*Block) string {
	labels := make([]string, len(blocks))
	for i, b := range blocks {
		labels[i] = b.Label()
	}
	return strings.Join(labels, " ")
}
