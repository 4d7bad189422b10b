// Package cpu implements the register machine.
//
// The machine has eight signed 32-bit registers (r0-r7), a program counter,
// a status flag recording arithmetic overflow or underflow, and a single
// byte addressable memory that holds both code and data. Every unused byte
// of memory holds the non-executable marker, so running off the end of a
// program faults instead of executing garbage.
//
// Instructions are a one byte opcode followed by big-endian operands, as
// described by the opcode Catalog.
package cpu
