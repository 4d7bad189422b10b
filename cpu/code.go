package cpu

import (
	"encoding/binary"
	"fmt"
	"strings"
)

// Endian is the byte order of all multi-byte fields.
var Endian = binary.BigEndian

// PutLong writes a 32-bit value at an offset of a buffer.
func PutLong(buf []byte, offset uint32, value uint32) {
	Endian.PutUint32(buf[offset:offset+4], value)
}

// Long reads a 32-bit value from an offset of a buffer.
func Long(buf []byte, offset uint32) uint32 {
	return Endian.Uint32(buf[offset : offset+4])
}

// Instruction is a decoded instruction.
type Instruction struct {
	Op       Opcode   // Opcode.
	Operands []uint32 // Register, immediate and address operands, in assembly order.
	Bytes    []byte   // Raw operand of a data directive.
}

// Append encodes the instruction onto the end of buf.
func (inst Instruction) Append(buf []byte) (out []byte, err error) {
	out = buf

	desc, ok := inst.Op.Descriptor()
	if !ok {
		err = ErrOpcode(inst.Op)
		return
	}

	values := 0
	for _, kind := range desc.Operands {
		if kind != OPERAND_BYTES {
			values++
		}
	}
	if values != len(inst.Operands) {
		err = ErrOperandCount
		return
	}

	if !desc.Data {
		out = append(out, byte(inst.Op))
	}

	n := 0
	for _, kind := range desc.Operands {
		switch kind {
		case OPERAND_REGISTER:
			if inst.Operands[n] >= REGISTER_COUNT {
				err = ErrRegisterInvalid
			}
			out = append(out, byte(inst.Operands[n]))
			n++
		case OPERAND_IMMEDIATE, OPERAND_ADDRESS:
			out = Endian.AppendUint32(out, inst.Operands[n])
			n++
		case OPERAND_BYTES:
			out = append(out, inst.Bytes...)
		}
	}

	return
}

// Encode returns the encoded form of the instruction.
func (inst Instruction) Encode() (data []byte, err error) {
	return inst.Append(nil)
}

// DecodeInstruction decodes the instruction at the start of buf,
// returning the instruction and its encoded size.
//
// Data directives and the non-executable marker decode as a single
// opcode byte without operands.
func DecodeInstruction(buf []byte) (inst Instruction, size int, err error) {
	if len(buf) == 0 {
		err = ErrInstructionTruncate
		return
	}

	inst.Op = Opcode(buf[0])
	desc, ok := inst.Op.Descriptor()
	if !ok {
		err = ErrOpcode(buf[0])
		return
	}

	size = 1
	if desc.Data {
		return
	}

	if len(buf) < desc.Length {
		err = ErrInstructionTruncate
		return
	}

	inst.Operands = make([]uint32, 0, len(desc.Operands))
	for _, kind := range desc.Operands {
		switch kind {
		case OPERAND_REGISTER:
			reg := buf[size]
			if reg >= REGISTER_COUNT {
				err = ErrRegisterInvalid
				return
			}
			inst.Operands = append(inst.Operands, uint32(reg))
		case OPERAND_IMMEDIATE, OPERAND_ADDRESS:
			inst.Operands = append(inst.Operands, Long(buf, uint32(size)))
		}
		size += kind.Width()
	}

	return
}

// String renders the instruction in assembler syntax.
func (inst Instruction) String() string {
	desc, ok := inst.Op.Descriptor()
	if !ok {
		return inst.Op.String()
	}

	var args []string
	n := 0
	for _, kind := range desc.Operands {
		switch kind {
		case OPERAND_BYTES:
			args = append(args, fmt.Sprintf("%q", inst.Bytes))
			continue
		}
		if n >= len(inst.Operands) {
			break
		}
		value := inst.Operands[n]
		n++
		switch kind {
		case OPERAND_REGISTER:
			args = append(args, fmt.Sprintf("r%d", value))
		case OPERAND_IMMEDIATE:
			args = append(args, fmt.Sprintf("#%d", int32(value)))
		case OPERAND_ADDRESS:
			args = append(args, fmt.Sprintf("@%d", value))
		}
	}

	if len(args) == 0 {
		return desc.Mnemonic
	}

	return desc.Mnemonic + " " + strings.Join(args, ", ")
}
