package script

import (
	"github.com/alecthomas/participle/v2/lexer"
)

// ScriptLexer tokenizes SWD scenario scripts. Command keywords are plain
// identifiers matched case-insensitively by the grammar.
var ScriptLexer = lexer.MustSimple([]lexer.SimpleRule{
	// Comments run to end of line
	{Name: "Comment", Pattern: `#[^\n]*`},

	{Name: "Whitespace", Pattern: `[\s\t\n\r]+`},

	// Hex, binary and decimal literals
	{Name: "Number", Pattern: `0[xX][0-9a-fA-F_]+|0[bB][01_]+|[0-9]+`},

	// Register names may contain a slash (CTRL/STAT)
	{Name: "Ident", Pattern: `[a-zA-Z_][a-zA-Z0-9_/]*`},
})
