package asm

import (
	"strings"

	"github.com/ezrec/regmach/cpu"
)

// TokenKind is the kind of a scanned token.
type TokenKind int

//go:generate go tool stringer -linecomment -type=TokenKind
const (
	TOKEN_COMMA    = TokenKind(0)  // ,
	TOKEN_REGISTER = TokenKind(1)  // r
	TOKEN_HASH     = TokenKind(2)  // #
	TOKEN_ADDRESS  = TokenKind(3)  // @
	TOKEN_NUMBER   = TokenKind(4)  // number
	TOKEN_STRING   = TokenKind(5)  // string
	TOKEN_COLON    = TokenKind(6)  // :
	TOKEN_LABEL    = TokenKind(7)  // label
	TOKEN_MESSAGE  = TokenKind(8)  // message
	TOKEN_MNEMONIC = TokenKind(9)  // mnemonic
	TOKEN_EOF      = TokenKind(10) // end of file
	TOKEN_UNKNOWN  = TokenKind(11) // unknown
)

// Token is a single scanned token.
type Token struct {
	Kind   TokenKind  // Kind of token.
	Text   string     // Literal text. Excludes quotes and braces.
	Line   int        // Line number, starting at 1.
	Start  int        // Byte offset of the first character.
	End    int        // Byte offset after the last character.
	Opcode cpu.Opcode // Opcode, for TOKEN_MNEMONIC.
}

// TokenStream is the result of scanning a source text.
type TokenStream struct {
	Source string  // Source text.
	Tokens []Token // Tokens, always terminated by exactly one TOKEN_EOF.
	Errors int     // Count of scan errors.
	Errs   []error // Scan errors.

	lines []string // Source lines, split on first use.
}

// Line returns the text of a source line, starting at 1.
func (ts *TokenStream) Line(lineno int) string {
	if ts.lines == nil {
		ts.lines = strings.Split(ts.Source, "\n")
	}

	if lineno < 1 || lineno > len(ts.lines) {
		return ""
	}

	return strings.TrimRight(ts.lines[lineno-1], "\r")
}
