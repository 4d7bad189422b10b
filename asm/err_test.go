package asm

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestErrorText(t *testing.T) {
	assert := assert.New(t)

	err := ErrSyntax{LineNo: 1234, Line: "halt r0", Err: ErrBadToken("r")}
	assert.Equal("line 1234 'halt r0' bad token 'r'", err.Error())

	all := &ErrAssembly{Errors: 1000, Err: err}
	assert.Equal("compilation failed with 1000 errors\nline 1234 'halt r0' bad token 'r'", all.Error())
}
