package asm

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/ezrec/regmach/cpu"
)

func kinds(ts *TokenStream) (out []TokenKind) {
	for _, tok := range ts.Tokens {
		out = append(out, tok.Kind)
	}
	return
}

func TestScan(t *testing.T) {
	assert := assert.New(t)

	table := []struct {
		source   string
		expected []TokenKind
	}{
		{"", []TokenKind{TOKEN_EOF}},
		{"  \t\r\n  ", []TokenKind{TOKEN_EOF}},
		{"add r0, r1", []TokenKind{TOKEN_MNEMONIC, TOKEN_REGISTER, TOKEN_NUMBER, TOKEN_COMMA, TOKEN_REGISTER, TOKEN_NUMBER, TOKEN_EOF}},
		{"mov #-5, r2", []TokenKind{TOKEN_MNEMONIC, TOKEN_HASH, TOKEN_NUMBER, TOKEN_COMMA, TOKEN_REGISTER, TOKEN_NUMBER, TOKEN_EOF}},
		{"loop: jmp @loop", []TokenKind{TOKEN_LABEL, TOKEN_COLON, TOKEN_MNEMONIC, TOKEN_ADDRESS, TOKEN_LABEL, TOKEN_EOF}},
		{"load @16, r7", []TokenKind{TOKEN_MNEMONIC, TOKEN_ADDRESS, TOKEN_NUMBER, TOKEN_COMMA, TOKEN_REGISTER, TOKEN_NUMBER, TOKEN_EOF}},
		{"[ a comment ]halt", []TokenKind{TOKEN_MNEMONIC, TOKEN_EOF}},
		{"[ unterminated", []TokenKind{TOKEN_EOF}},
		{"str \"hi\"", []TokenKind{TOKEN_MNEMONIC, TOKEN_STRING, TOKEN_EOF}},
		{"{note}", []TokenKind{TOKEN_MESSAGE, TOKEN_EOF}},
		{"r rr radd", []TokenKind{TOKEN_REGISTER, TOKEN_LABEL, TOKEN_LABEL, TOKEN_EOF}},
	}

	for _, entry := range table {
		ts := Scan(entry.source)
		assert.Equal(entry.expected, kinds(ts), entry.source)
		assert.Equal(0, ts.Errors, entry.source)
		assert.Empty(ts.Errs, entry.source)
	}
}

func TestScanTokens(t *testing.T) {
	assert := assert.New(t)

	ts := Scan("jeq r1, r2, @done\n\ndone : halt")
	assert.Equal(0, ts.Errors)

	tok := ts.Tokens[0]
	assert.Equal(TOKEN_MNEMONIC, tok.Kind)
	assert.Equal(cpu.OP_JEQ, tok.Opcode)
	assert.Equal("jeq", tok.Text)
	assert.Equal(1, tok.Line)
	assert.Equal(0, tok.Start)
	assert.Equal(3, tok.End)

	tok = ts.Tokens[5]
	assert.Equal(TOKEN_NUMBER, tok.Kind)
	assert.Equal("2", tok.Text)

	tok = ts.Tokens[8]
	assert.Equal(TOKEN_LABEL, tok.Kind)
	assert.Equal("done", tok.Text)
	assert.Equal(1, tok.Line)

	tok = ts.Tokens[9]
	assert.Equal(TOKEN_LABEL, tok.Kind)
	assert.Equal(3, tok.Line)

	tok = ts.Tokens[11]
	assert.Equal(TOKEN_MNEMONIC, tok.Kind)
	assert.Equal(cpu.OP_HALT, tok.Opcode)

	assert.Equal(TOKEN_EOF, ts.Tokens[len(ts.Tokens)-1].Kind)
	assert.Equal(13, len(ts.Tokens))
}

func TestScanMnemonics(t *testing.T) {
	assert := assert.New(t)

	for op, desc := range cpu.Catalog() {
		ts := Scan(desc.Mnemonic)
		assert.Equal([]TokenKind{TOKEN_MNEMONIC, TOKEN_EOF}, kinds(ts))
		assert.Equal(op, ts.Tokens[0].Opcode)
	}
}

func TestScanUnknown(t *testing.T) {
	assert := assert.New(t)

	ts := Scan("halt $ halt")
	assert.Equal([]TokenKind{TOKEN_MNEMONIC, TOKEN_UNKNOWN, TOKEN_MNEMONIC, TOKEN_EOF}, kinds(ts))
	assert.Equal(1, ts.Errors)
	assert.Equal(1, len(ts.Errs))
	assert.True(errors.Is(ts.Errs[0], ErrCharacter("$")))

	var syntax ErrSyntax
	assert.True(errors.As(ts.Errs[0], &syntax))
	assert.Equal(1, syntax.LineNo)
	assert.Equal("halt $ halt", syntax.Line)

	ts = Scan("mov #-, r0")
	assert.Equal(1, ts.Errors)
	assert.Equal(TOKEN_UNKNOWN, ts.Tokens[2].Kind)
	assert.Equal("-", ts.Tokens[2].Text)
}

func TestScanStrings(t *testing.T) {
	assert := assert.New(t)

	ts := Scan(`str "a\"b" halt`)
	assert.Equal([]TokenKind{TOKEN_MNEMONIC, TOKEN_STRING, TOKEN_MNEMONIC, TOKEN_EOF}, kinds(ts))
	assert.Equal(`a\"b`, ts.Tokens[1].Text)

	ts = Scan("str \"multi\nline\" halt")
	assert.Equal("multi\nline", ts.Tokens[1].Text)
	assert.Equal(1, ts.Tokens[1].Line)
	assert.Equal(2, ts.Tokens[2].Line)

	ts = Scan(`str "open`)
	assert.Equal([]TokenKind{TOKEN_MNEMONIC, TOKEN_STRING, TOKEN_EOF}, kinds(ts))
	assert.Equal("open", ts.Tokens[1].Text)
	assert.Equal(0, ts.Errors)
}

func TestScanMessages(t *testing.T) {
	assert := assert.New(t)

	buff := &bytes.Buffer{}
	scanner := &Scanner{ScanMessages: true, ParseMessages: true, Output: buff}

	ts := scanner.Scan("(hello\nworld) {later} halt")
	assert.Equal("hello\nworld", buff.String())
	assert.Equal([]TokenKind{TOKEN_MESSAGE, TOKEN_MNEMONIC, TOKEN_EOF}, kinds(ts))
	assert.Equal("later", ts.Tokens[0].Text)
	assert.Equal(2, ts.Tokens[0].Line)

	buff.Reset()
	scanner = &Scanner{Output: buff}
	ts = scanner.Scan("(hi) {there}")
	assert.Equal("", buff.String())
	assert.Equal(4, ts.Errors)
	assert.Equal([]TokenKind{
		TOKEN_UNKNOWN, TOKEN_LABEL, TOKEN_UNKNOWN,
		TOKEN_UNKNOWN, TOKEN_LABEL, TOKEN_UNKNOWN,
		TOKEN_EOF,
	}, kinds(ts))
}

func TestTokenStreamLine(t *testing.T) {
	assert := assert.New(t)

	ts := Scan("halt\r\nnot r1\n")
	assert.Equal("halt", ts.Line(1))
	assert.Equal("not r1", ts.Line(2))
	assert.Equal("", ts.Line(3))
	assert.Equal("", ts.Line(0))
	assert.Equal("", ts.Line(9))
	assert.Len(ts.lines, 3)
}

func TestTokenStreamLineErrors(t *testing.T) {
	assert := assert.New(t)

	const count = 20000

	ts := Scan(strings.Repeat("halt $\n", count))
	assert.Equal(count, ts.Errors)
	assert.Len(ts.Errs, count)
	assert.Len(ts.lines, count+1)

	var last ErrSyntax
	assert.True(errors.As(ts.Errs[count-1], &last))
	assert.Equal(count, last.LineNo)
	assert.Equal("halt $", last.Line)
}
