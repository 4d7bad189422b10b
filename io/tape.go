// Package io provides the output devices of the register machine.
package io

import (
	"io"
	"strconv"
)

// Tape is a sequential output device for the print instructions.
// It writes numbers as signed decimal text, and characters and strings as
// raw bytes.
type Tape struct {
	Output io.Writer

	Written int // Bytes written since the last Rewind.
}

// Rewind resets the written byte count. The output is not affected.
func (tc *Tape) Rewind() {
	tc.Written = 0
}

func (tc *Tape) write(data []byte) (err error) {
	if tc.Output == nil {
		err = ErrTapeMissing
		return
	}

	n, err := tc.Output.Write(data)
	tc.Written += n
	return
}

// PrintNumber writes a signed decimal number.
func (tc *Tape) PrintNumber(value int32) (err error) {
	return tc.write(strconv.AppendInt(nil, int64(value), 10))
}

// PrintChar writes a single byte.
func (tc *Tape) PrintChar(value byte) (err error) {
	return tc.write([]byte{value})
}

// PrintString writes a sequence of bytes.
func (tc *Tape) PrintString(value []byte) (err error) {
	if len(value) == 0 {
		return
	}
	return tc.write(value)
}
