package emulator

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/ezrec/regmach/cpu"
)

func TestErrRuntime(t *testing.T) {
	assert := assert.New(t)

	err := &ErrRuntime{LineNo: 1234, Offset: 5678, Err: cpu.ErrDivideByZero}
	assert.Equal("line 1234 division by zero", err.Error())

	err.Label = "loop+2"
	assert.Equal("line 1234 (loop+2) division by zero", err.Error())
	assert.ErrorIs(err, cpu.ErrDivideByZero)
}
