package cpu

import (
	"iter"
)

// Opcode is an instruction opcode byte.
type Opcode byte

//go:generate go tool stringer -linecomment -type=Opcode
const (
	OP_ADD    = Opcode(0)  // add
	OP_SUB    = Opcode(1)  // sub
	OP_MUL    = Opcode(2)  // mul
	OP_DIV    = Opcode(3)  // div
	OP_AND    = Opcode(4)  // and
	OP_OR     = Opcode(5)  // or
	OP_NOT    = Opcode(6)  // not
	OP_LSHIFT = Opcode(7)  // lshift
	OP_RSHIFT = Opcode(8)  // rshift
	OP_LOAD   = Opcode(9)  // load
	OP_STORE  = Opcode(10) // store
	OP_MOV    = Opcode(11) // mov
	OP_SAVE   = Opcode(12) // save
	OP_PRINT  = Opcode(13) // print
	OP_PRINTC = Opcode(14) // printc
	OP_PRINTS = Opcode(15) // prints
	OP_JEQ    = Opcode(16) // jeq
	OP_JNE    = Opcode(17) // jne
	OP_JGT    = Opcode(18) // jgt
	OP_JLT    = Opcode(19) // jlt
	OP_JOV    = Opcode(20) // jov
	OP_JUN    = Opcode(21) // jun
	OP_JMP    = Opcode(22) // jmp
	OP_CLRPC  = Opcode(23) // clrpc
	OP_CLRSR  = Opcode(24) // clrsr
	OP_HALT   = Opcode(25) // halt
	OP_INCR   = Opcode(26) // incr
	OP_DECR   = Opcode(27) // decr
	OP_MCOPY  = Opcode(28) // mcopy
	OP_RCOPY  = Opcode(29) // rcopy
	OP_CONST  = Opcode(30) // const
	OP_CHAR   = Opcode(31) // char
	OP_STR    = Opcode(32) // str
	OP_NEX    = Opcode(33) // nex
)

// OP_COUNT is the number of defined opcodes.
const OP_COUNT = int(OP_NEX) + 1

// OperandKind is the kind of an instruction operand.
type OperandKind int

//go:generate go tool stringer -linecomment -type=OperandKind
const (
	OPERAND_REGISTER  = OperandKind(0) // register
	OPERAND_IMMEDIATE = OperandKind(1) // immediate
	OPERAND_ADDRESS   = OperandKind(2) // address
	OPERAND_BYTES     = OperandKind(3) // bytes
)

// REGISTER_COUNT is the size of the register file.
const REGISTER_COUNT = 8

// Width returns the encoded width of the operand, or 0 if variable.
func (kind OperandKind) Width() (width int) {
	switch kind {
	case OPERAND_REGISTER:
		width = 1
	case OPERAND_IMMEDIATE, OPERAND_ADDRESS:
		width = 4
	}

	return
}

// Descriptor describes the encoding of an opcode.
type Descriptor struct {
	Mnemonic string        // Assembler mnemonic.
	Code     Opcode        // Opcode byte.
	Length   int           // Encoded length in bytes, 0 if variable.
	Operands []OperandKind // Operands, in assembly order.
	Data     bool          // Data directive; no opcode byte is emitted.
}

var (
	_rr  = []OperandKind{OPERAND_REGISTER, OPERAND_REGISTER}
	_r   = []OperandKind{OPERAND_REGISTER}
	_ri  = []OperandKind{OPERAND_REGISTER, OPERAND_IMMEDIATE}
	_m   = []OperandKind{OPERAND_ADDRESS}
	_rrm = []OperandKind{OPERAND_REGISTER, OPERAND_REGISTER, OPERAND_ADDRESS}
)

var catalog = [OP_COUNT]Descriptor{
	{"add", OP_ADD, 3, _rr, false},
	{"sub", OP_SUB, 3, _rr, false},
	{"mul", OP_MUL, 3, _rr, false},
	{"div", OP_DIV, 3, _rr, false},
	{"and", OP_AND, 3, _rr, false},
	{"or", OP_OR, 3, _rr, false},
	{"not", OP_NOT, 2, _r, false},
	{"lshift", OP_LSHIFT, 6, _ri, false},
	{"rshift", OP_RSHIFT, 6, _ri, false},
	{"load", OP_LOAD, 6, []OperandKind{OPERAND_ADDRESS, OPERAND_REGISTER}, false},
	{"store", OP_STORE, 6, []OperandKind{OPERAND_REGISTER, OPERAND_ADDRESS}, false},
	{"mov", OP_MOV, 6, []OperandKind{OPERAND_IMMEDIATE, OPERAND_REGISTER}, false},
	{"save", OP_SAVE, 9, []OperandKind{OPERAND_IMMEDIATE, OPERAND_ADDRESS}, false},
	{"print", OP_PRINT, 5, _m, false},
	{"printc", OP_PRINTC, 5, _m, false},
	{"prints", OP_PRINTS, 5, _m, false},
	{"jeq", OP_JEQ, 7, _rrm, false},
	{"jne", OP_JNE, 7, _rrm, false},
	{"jgt", OP_JGT, 7, _rrm, false},
	{"jlt", OP_JLT, 7, _rrm, false},
	{"jov", OP_JOV, 5, _m, false},
	{"jun", OP_JUN, 5, _m, false},
	{"jmp", OP_JMP, 5, _m, false},
	{"clrpc", OP_CLRPC, 1, nil, false},
	{"clrsr", OP_CLRSR, 1, nil, false},
	{"halt", OP_HALT, 1, nil, false},
	{"incr", OP_INCR, 2, _r, false},
	{"decr", OP_DECR, 2, _r, false},
	{"mcopy", OP_MCOPY, 9, []OperandKind{OPERAND_ADDRESS, OPERAND_ADDRESS}, false},
	{"rcopy", OP_RCOPY, 3, _rr, false},
	{"const", OP_CONST, 4, []OperandKind{OPERAND_IMMEDIATE}, true},
	{"char", OP_CHAR, 1, []OperandKind{OPERAND_BYTES}, true},
	{"str", OP_STR, 0, []OperandKind{OPERAND_BYTES}, true},
	{"nex", OP_NEX, 1, nil, false},
}

var _mnemonic map[string]Opcode

func init() {
	_mnemonic = make(map[string]Opcode, len(catalog))
	for _, desc := range catalog {
		_mnemonic[desc.Mnemonic] = desc.Code
	}
}

// Valid returns true if the opcode is in the catalog.
func (op Opcode) Valid() bool {
	return int(op) < OP_COUNT
}

// Descriptor returns the catalog entry of a valid opcode.
func (op Opcode) Descriptor() (desc Descriptor, ok bool) {
	if !op.Valid() {
		return
	}

	desc = catalog[op]
	ok = true
	return
}

// Lookup finds the opcode descriptor for an assembler mnemonic.
func Lookup(mnemonic string) (desc Descriptor, ok bool) {
	op, ok := _mnemonic[mnemonic]
	if !ok {
		return
	}

	return op.Descriptor()
}

// Catalog iterates over all opcodes, in opcode order.
func Catalog() iter.Seq2[Opcode, Descriptor] {
	return func(yield func(Opcode, Descriptor) bool) {
		for _, desc := range catalog {
			if !yield(desc.Code, desc) {
				return
			}
		}
	}
}
