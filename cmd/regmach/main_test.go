package main

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/ezrec/regmach/emulator"
)

func TestDisassemble(t *testing.T) {
	assert := assert.New(t)

	emu := emulator.NewEmulator(emulator.DefaultConfig())
	prog, err := emu.Compile("start : mov #-5, r1\nprints @start\nhalt")
	assert.NoError(err)

	buff := &bytes.Buffer{}
	assert.NoError(disassemble(buff, prog))
	assert.Equal("start :\n0000: mov #-5, r1\n0006: prints @0\n0011: halt\n", buff.String())

	prog.Symbols = nil
	prog.Binary = append(prog.Binary, 0xff)
	buff.Reset()
	assert.NoError(disassemble(buff, prog))
	assert.Contains(buff.String(), "0012: ff ; ")
	assert.NotContains(buff.String(), "start :")
}

func TestNewEmulator(t *testing.T) {
	assert := assert.New(t)

	defer func() { defines = nil }()

	defines = []string{"TOP = MEMSIZE - 1", "ONE=1"}
	emu, err := newEmulator(runCmd)
	assert.NoError(err)
	assert.Equal(map[string]string{"TOP": " MEMSIZE - 1", "ONE": "1"}, emu.Config.Symbols)
	assert.Equal(uint32(emulator.DEFAULT_MEMORY_SIZE), emu.Config.MemorySize)

	defines = []string{"BROKEN"}
	_, err = newEmulator(runCmd)
	assert.Error(err)
}
