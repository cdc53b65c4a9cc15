package grammar

import (
	"fmt"
	"os"

	"github.com/alecthomas/participle/v2"
)

var parser = participle.MustBuild[SourceFile](
	participle.Lexer(CinderLexer),
	participle.Elide("Whitespace", "Comment"),
	participle.Unquote("String"),
	participle.UseLookahead(32),
)

// ParseSource parses cinder source text into its grammar tree.
func ParseSource(filename, source string) (*SourceFile, error) {
	file, err := parser.ParseString(filename, source)
	if err != nil {
		return file, err
	}
	return file, nil
}

// ParseFile reads and parses a .cdr file.
func ParseFile(path string) (*SourceFile, error) {
	source, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read file: %w", err)
	}
	return ParseSource(path, string(source))
}

// ErrorPosition extracts a line/column pair from a parse error, if the
// error carries one.
func ErrorPosition(err error) (line, column int, ok bool) {
	pe, isParticiple := err.(participle.Error)
	if !isParticiple {
		return 0, 0, false
	}
	pos := pe.Position()
	return pos.Line, pos.Column, true
}
