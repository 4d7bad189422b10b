package cpu

import (
	"errors"
	"fmt"

	"github.com/ezrec/regmach/translate"
)

var f = translate.From

var (
	// Cpu errors
	ErrNonExecutable = errors.New(f("non-executable code"))
	ErrPcRange       = errors.New(f("program counter out of range"))
	ErrBounds        = errors.New(f("memory access out of bounds"))
	ErrDivideByZero  = errors.New(f("division by zero"))
	ErrHalted        = errors.New(f("machine halted"))
	ErrFaulted       = errors.New(f("machine faulted"))
	ErrPrinter       = errors.New(f("no printer attached"))

	// Instruction decode errors
	ErrOpcodeInvalid       = errors.New(f("opcode invalid"))
	ErrRegisterInvalid     = errors.New(f("register invalid"))
	ErrOperandCount        = errors.New(f("operand count mismatch"))
	ErrInstructionTruncate = errors.New(f("instruction truncated"))
)

// ErrOpcode is an opcode byte that is not in the catalog.
type ErrOpcode byte

func (eo ErrOpcode) Error() string {
	return f("bad opcode 0x%02x", byte(eo))
}

func (eo ErrOpcode) Unwrap() error {
	return ErrOpcodeInvalid
}

// ErrFault is a runtime fault, with the offending program counter.
type ErrFault struct {
	Pc  uint32
	Op  Opcode
	Err error
}

func (err *ErrFault) Error() string {
	pc := fmt.Sprintf("%04d", err.Pc)
	if errors.Is(err.Err, ErrNonExecutable) {
		return f("trying to execute non-executable code at offset %v", pc)
	}
	return f("pc %v (%v) %v", pc, err.Op, err.Err)
}

func (err *ErrFault) Unwrap() error {
	return err.Err
}
