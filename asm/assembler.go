// Copyright 2025, Jason S. McMullan <jason.mcmullan@gmail.com>

package asm

import (
	"errors"
	"fmt"
	"io"
	"maps"
	"math"
	"os"
	"strconv"

	"github.com/tliron/commonlog"
	"go.starlark.net/starlark"
	"go.starlark.net/syntax"

	"github.com/ezrec/regmach/cpu"
	"github.com/ezrec/regmach/internal"
)

var log = commonlog.GetLogger("regmach.asm")

// Assembler is a two pass assembler for the register machine.
type Assembler struct {
	Verbose bool      // If set, verbosely logs the assembler actions.
	Output  io.Writer // Destination of parse messages; os.Stdout if nil.

	Errors   int     // Count of errors of the last assembly.
	Warnings []error // Warnings of the last assembly.

	predefine map[string]string // Predefined symbol expressions.
	symbols   Symbols           // Symbols of the last assembly.
}

// Predefine defines a symbol before assembly, or redefines an existing one.
// The value is a Starlark expression, which may refer to other predefined
// symbols.
func (asm *Assembler) Predefine(name string, expr string) {
	if asm.predefine == nil {
		asm.predefine = map[string]string{name: expr}
	} else {
		asm.predefine[name] = expr
	}
}

// Symbols returns the labels and line table of the last assembly.
func (asm *Assembler) Symbols() Symbols {
	return asm.symbols
}

// evalExpr does compile-time evaluations of predefined symbols.
func evalExpr(expr string, values map[string]uint32) (value uint32, err error) {
	thread := starlark.Thread{}
	opts := syntax.FileOptions{}
	pred := starlark.StringDict{}
	for key, value32 := range values {
		pred[key] = starlark.MakeUint(uint(value32))
	}
	prog := "rc=" + expr + "\n"
	dict, err := starlark.ExecFileOptions(&opts, &thread, "expr", prog, pred)
	if err != nil {
		return
	}
	st_int, ok := dict["rc"].(starlark.Int)
	if !ok {
		err = ErrParseExpression(expr)
		return
	}
	st_int64, ok := st_int.Int64()
	if !ok || st_int64 < math.MinInt32 || st_int64 > math.MaxUint32 {
		err = ErrNumberRange
		return
	}
	value = uint32(st_int64)
	return
}

// evalPredefines resolves all predefined symbols.
// Symbols are evaluated until no more can be resolved.
func (asm *Assembler) evalPredefines() (values map[string]uint32, errs []error) {
	values = map[string]uint32{}
	pending := maps.Clone(asm.predefine)

	for len(pending) > 0 {
		before := len(pending)
		failed := map[string]error{}
		for name, expr := range internal.IterMapSorted(pending) {
			value, err := evalExpr(expr, values)
			if err != nil {
				failed[name] = err
				continue
			}
			values[name] = value
			delete(pending, name)
		}

		if len(pending) == before {
			for name, err := range internal.IterMapSorted(failed) {
				errs = append(errs, ErrPredefine{Name: name, Err: err})
			}
			break
		}
	}

	return
}

// assembly is the state of a single Assemble call.
type assembly struct {
	*Assembler
	ts     *TokenStream
	cursor int        // Index of the present token.
	buffer []byte     // Program image.
	offset uint32     // Write cursor.
	labels labelTable // Labels.
	errs   []error    // Errors so far.
	eof    bool       // Set once an unexpected end of file is reported.
}

// Assemble encodes a token stream into image, starting at offset.
//
// The image grows as needed, and bytes between its end and offset are
// filled with the non-executable marker. On any error, the image is still
// returned along with an *ErrAssembly of every error.
func (asm *Assembler) Assemble(ts *TokenStream, image []byte, offset uint32) (out []byte, err error) {
	as := &assembly{
		Assembler: asm,
		ts:        ts,
		buffer:    image,
		offset:    offset,
		labels:    labelTable{},
	}

	asm.Errors = 0
	asm.Warnings = nil
	asm.symbols = Symbols{Labels: map[string]uint32{}}

	values, errs := asm.evalPredefines()
	as.errs = append(as.errs, errs...)
	for name, value := range values {
		as.labels[name] = &Label{Name: name, Resolved: true, Offset: value, Predefined: true}
	}

	as.grow(offset)

	for as.peek().Kind != TOKEN_EOF {
		as.statement()
	}

	errs, warnings := as.labels.resolve(ts, as.buffer)
	as.errs = append(as.errs, errs...)

	for name, label := range as.labels {
		if label.Resolved && !label.Predefined {
			asm.symbols.Labels[name] = label.Offset
		}
	}
	asm.symbols.sort()

	for _, warning := range warnings {
		log.Warningf("%v", warning)
	}

	asm.Errors = len(as.errs)
	asm.Warnings = warnings
	out = as.buffer

	if asm.Errors > 0 {
		err = &ErrAssembly{Errors: asm.Errors, Err: errors.Join(as.errs...)}
		if asm.Verbose {
			log.Errorf("%v", err)
		}
	}

	return
}

func (as *assembly) output() io.Writer {
	if as.Output == nil {
		return os.Stdout
	}
	return as.Output
}

// peek returns the present token.
func (as *assembly) peek() Token {
	return as.ts.Tokens[as.cursor]
}

// advance moves to the next token, never past the end of file.
func (as *assembly) advance() {
	if as.cursor < len(as.ts.Tokens)-1 {
		as.cursor++
	}
}

// syntaxError records an error at a token.
func (as *assembly) syntaxError(tok Token, err error) {
	as.errs = append(as.errs, ErrSyntax{
		LineNo: tok.Line,
		Line:   as.ts.Line(tok.Line),
		Err:    err,
	})
}

// consume expects a token of a kind.
// On a mismatch, an error is recorded and the token is skipped.
// An unexpected end of file is only reported once.
func (as *assembly) consume(kind TokenKind) (tok Token, ok bool) {
	tok = as.peek()
	switch {
	case tok.Kind == kind:
		ok = true
		as.advance()
	case tok.Kind == TOKEN_EOF:
		if !as.eof {
			as.eof = true
			as.syntaxError(tok, ErrUnexpectedEOF)
		}
	default:
		as.syntaxError(tok, ErrExpected{Expected: kind, Found: tok})
		as.advance()
	}

	return
}

// grow extends the image to size, filling with the non-executable marker.
func (as *assembly) grow(size uint32) {
	for uint32(len(as.buffer)) < size {
		as.buffer = append(as.buffer, byte(cpu.OP_NEX))
	}
}

// write emits data at the write cursor.
func (as *assembly) write(data []byte) {
	end := as.offset + uint32(len(data))
	as.grow(end)
	copy(as.buffer[as.offset:end], data)
	as.offset = end
}

// statement assembles one statement.
func (as *assembly) statement() {
	tok := as.peek()

	switch tok.Kind {
	case TOKEN_MNEMONIC:
		as.instruction(tok)
	case TOKEN_LABEL:
		as.advance()
		if _, ok := as.consume(TOKEN_COLON); ok {
			err := as.labels.define(tok.Text, as.offset, tok.Line)
			if err != nil {
				as.syntaxError(tok, err)
			}
			if as.Verbose {
				log.Debugf("%04d: %v:", as.offset, tok.Text)
			}
		}
	case TOKEN_MESSAGE:
		fmt.Fprint(as.output(), tok.Text)
		as.advance()
	default:
		as.syntaxError(tok, ErrBadToken(tok.Text))
		as.advance()
	}
}

// instruction assembles a mnemonic and its operands.
func (as *assembly) instruction(tok Token) {
	desc, _ := tok.Opcode.Descriptor()
	as.advance()

	base := as.offset
	inst := cpu.Instruction{Op: desc.Code}

	site := base
	if !desc.Data {
		site++
	}

	for n, kind := range desc.Operands {
		if n > 0 {
			as.consume(TOKEN_COMMA)
		}
		switch kind {
		case cpu.OPERAND_REGISTER:
			inst.Operands = append(inst.Operands, as.register())
		case cpu.OPERAND_IMMEDIATE:
			as.consume(TOKEN_HASH)
			inst.Operands = append(inst.Operands, as.number())
		case cpu.OPERAND_ADDRESS:
			inst.Operands = append(inst.Operands, as.reference(site))
		case cpu.OPERAND_BYTES:
			inst.Bytes = as.bytes(desc.Code)
		}
		site += uint32(kind.Width())
	}

	data, err := inst.Encode()
	if err != nil {
		as.syntaxError(tok, err)
	}

	if len(as.errs) > 0 && !desc.Data {
		data[0] = byte(cpu.OP_NEX)
	}

	if as.Verbose {
		log.Debugf("%04d: %v", base, inst)
	}

	as.symbols.add(base, tok.Line)
	as.write(data)
}

// register parses 'r' followed by a register number.
func (as *assembly) register() (reg uint32) {
	as.consume(TOKEN_REGISTER)
	tok, ok := as.consume(TOKEN_NUMBER)
	if !ok {
		return
	}

	value, err := strconv.ParseInt(tok.Text, 10, 64)
	if err != nil || value < 0 || value >= cpu.REGISTER_COUNT {
		as.syntaxError(tok, ErrRegisterInvalid)
		return
	}

	reg = uint32(value)
	return
}

// number parses a signed 32-bit number.
func (as *assembly) number() (value uint32) {
	tok, ok := as.consume(TOKEN_NUMBER)
	if !ok {
		return
	}

	value32, err := strconv.ParseInt(tok.Text, 10, 32)
	if err != nil {
		as.syntaxError(tok, ErrNumberRange)
		return
	}

	value = uint32(int32(value32))
	return
}

// reference parses '@' followed by a label or a number.
// A label reference is recorded at site, and a zero placeholder returned.
func (as *assembly) reference(site uint32) (value uint32) {
	as.consume(TOKEN_ADDRESS)

	tok := as.peek()
	switch tok.Kind {
	case TOKEN_LABEL:
		as.labels.reference(tok.Text, site, tok.Line)
		as.advance()
	case TOKEN_NUMBER:
		value = as.number()
	case TOKEN_EOF:
		as.consume(TOKEN_NUMBER)
	default:
		as.syntaxError(tok, ErrReferenceSyntax)
		as.advance()
	}

	return
}

// bytes parses the string operand of a data directive.
func (as *assembly) bytes(op cpu.Opcode) (data []byte) {
	tok, ok := as.consume(TOKEN_STRING)
	text := unescape(tok.Text)

	switch op {
	case cpu.OP_CHAR:
		if ok && len(text) != 1 {
			as.syntaxError(tok, ErrCharLength)
		}
		data = []byte{0}
		if len(text) == 1 {
			data[0] = text[0]
		}
	default:
		if ok {
			data = append(data, text...)
		}
		data = append(data, 0)
	}

	return
}

// unescape expands '\n', '\t', '\"' and '\\'.
// Any other escape is kept as written.
func unescape(text string) (out []byte) {
	for n := 0; n < len(text); n++ {
		ch := text[n]
		if ch != '\\' || n+1 == len(text) {
			out = append(out, ch)
			continue
		}

		n++
		switch text[n] {
		case 'n':
			out = append(out, '\n')
		case 't':
			out = append(out, '\t')
		case '"':
			out = append(out, '"')
		case '\\':
			out = append(out, '\\')
		default:
			out = append(out, '\\', text[n])
		}
	}

	return
}
