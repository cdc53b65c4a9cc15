package grammar

import (
	"github.com/alecthomas/participle/v2/lexer"
)

var CinderLexer = lexer.MustStateful(lexer.Rules{
	"Root": {
		// Comments
		{"Comment", `//[^\n]*`, nil},

		// Keywords must win over identifiers
		{"Keyword", `\b(var|fn|if|else|while|switch|case|default|return|break|continue|asm)\b`, nil},

		// Identifiers
		{"Ident", `[a-zA-Z_][a-zA-Z0-9_]*`, nil},

		// Numeric literals
		{"Float", `[0-9]+\.[0-9]+`, nil},
		{"Integer", `0x[0-9a-fA-F]+|[0-9]+`, nil},

		// String literals
		{"String", `"(\\.|[^"\\])*"`, nil},

		// Operators
		{"Operator", `(\|\||&&|==|!=|<=|>=|[-+*/%&!<>=])`, nil},

		// Punctuation (must come after operators)
		{"Punctuation", `[{}[\]():,;]`, nil},

		// Whitespace
		{"Whitespace", `[ \t\r\n]+`, nil},
	},
})
