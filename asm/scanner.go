package asm

import (
	"io"
	"os"

	"github.com/ezrec/regmach/cpu"
)

// Scanner converts source text into tokens.
type Scanner struct {
	ScanMessages  bool      // Echo '( ... )' messages while scanning.
	ParseMessages bool      // Produce TOKEN_MESSAGE for '{ ... }'.
	Output        io.Writer // Destination of scan messages; os.Stdout if nil.
}

// Scan scans source with both message forms enabled.
func Scan(source string) (ts *TokenStream) {
	scanner := &Scanner{ScanMessages: true, ParseMessages: true}
	return scanner.Scan(source)
}

// scan is the state of a single scan.
type scan struct {
	*Scanner
	ts      *TokenStream
	source  string
	start   int
	present int
	line    int
}

func isAlpha(ch byte) bool {
	return (ch >= 'a' && ch <= 'z') || (ch >= 'A' && ch <= 'Z')
}

func isDigit(ch byte) bool {
	return ch >= '0' && ch <= '9'
}

// Scan the source text into a token stream.
func (sc *Scanner) Scan(source string) (ts *TokenStream) {
	ts = &TokenStream{Source: source}

	st := &scan{
		Scanner: sc,
		ts:      ts,
		source:  source,
		line:    1,
	}

	for st.next() {
	}

	st.start = st.present
	st.emit(TOKEN_EOF)

	return
}

// peek returns the byte at offset n from the present position, or 0.
func (st *scan) peek(n int) byte {
	if st.present+n >= len(st.source) {
		return 0
	}
	return st.source[st.present+n]
}

// emit appends a token spanning start to present.
// The returned pointer is valid until the next emit.
func (st *scan) emit(kind TokenKind) (tok *Token) {
	st.ts.Tokens = append(st.ts.Tokens, Token{
		Kind:  kind,
		Text:  st.source[st.start:st.present],
		Line:  st.line,
		Start: st.start,
		End:   st.present,
	})
	tok = &st.ts.Tokens[len(st.ts.Tokens)-1]
	return
}

func (st *scan) unknown() {
	tok := st.emit(TOKEN_UNKNOWN)
	st.ts.Errors++
	st.ts.Errs = append(st.ts.Errs, ErrSyntax{
		LineNo: tok.Line,
		Line:   st.ts.Line(tok.Line),
		Err:    ErrCharacter(tok.Text),
	})
}

// until advances up to the terminator, counting lines.
// Returns true if the terminator was found.
func (st *scan) until(term byte, echo bool) (found bool) {
	for st.present < len(st.source) {
		ch := st.source[st.present]
		if ch == term {
			return true
		}
		if ch == '\\' && term == '"' && st.peek(1) == '"' {
			st.present++
		} else if ch == '\n' {
			st.line++
		}
		if echo {
			st.output().Write([]byte{ch})
		}
		st.present++
	}
	return false
}

func (st *scan) output() io.Writer {
	if st.Output == nil {
		return os.Stdout
	}
	return st.Output
}

// next scans one lexeme, returning false at the end of the source.
func (st *scan) next() bool {
	st.start = st.present
	if st.present >= len(st.source) {
		return false
	}

	ch := st.source[st.present]
	switch {
	case isAlpha(ch):
		st.word()
		return true
	case isDigit(ch) || ch == '-':
		st.number()
		return true
	}

	st.present++
	switch ch {
	case ' ', '\t', '\r':
	case '\n':
		st.line++
	case ',':
		st.emit(TOKEN_COMMA)
	case '#':
		st.emit(TOKEN_HASH)
	case '@':
		st.emit(TOKEN_ADDRESS)
	case ':':
		st.emit(TOKEN_COLON)
	case '"':
		st.start = st.present
		line := st.line
		found := st.until('"', false)
		st.emit(TOKEN_STRING).Line = line
		if found {
			st.present++
		}
	case '[':
		if st.until(']', false) {
			st.present++
		}
	case '(':
		if !st.ScanMessages {
			st.unknown()
			break
		}
		if st.until(')', true) {
			st.present++
		}
	case '{':
		if !st.ParseMessages {
			st.unknown()
			break
		}
		st.start = st.present
		line := st.line
		found := st.until('}', false)
		st.emit(TOKEN_MESSAGE).Line = line
		if found {
			st.present++
		}
	default:
		st.unknown()
	}

	return true
}

// word scans a mnemonic, the register marker or a label.
func (st *scan) word() {
	for st.present < len(st.source) && isAlpha(st.source[st.present]) {
		st.present++
	}

	text := st.source[st.start:st.present]
	if text == "r" {
		st.emit(TOKEN_REGISTER)
		return
	}

	if desc, ok := cpu.Lookup(text); ok {
		st.emit(TOKEN_MNEMONIC).Opcode = desc.Code
		return
	}

	st.emit(TOKEN_LABEL)
}

// number scans an optionally negative run of digits.
func (st *scan) number() {
	if st.source[st.present] == '-' {
		st.present++
	}

	digits := st.present
	for st.present < len(st.source) && isDigit(st.source[st.present]) {
		st.present++
	}

	if st.present == digits {
		st.unknown()
		return
	}

	st.emit(TOKEN_NUMBER)
}
