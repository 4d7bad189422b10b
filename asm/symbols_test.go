package asm

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSymbols(t *testing.T) {
	assert := assert.New(t)

	asm := &Assembler{}
	_, err := doAssemble(asm,
		"start : mov #3, r0",
		"loop : decr r0",
		"jne r0, r1, @loop",
		"jmp @start",
		"halt",
	)
	assert.NoError(err)

	sym := asm.Symbols()
	assert.Equal(map[string]uint32{"start": 0, "loop": 6}, sym.Labels)

	assert.Equal(1, sym.LineNo(0))
	assert.Equal(1, sym.LineNo(5))
	assert.Equal(2, sym.LineNo(6))
	assert.Equal(3, sym.LineNo(8))
	assert.Equal(4, sym.LineNo(15))
	assert.Equal(5, sym.LineNo(20))
	assert.Equal(5, sym.LineNo(100))

	name, delta, ok := sym.Label(9)
	assert.True(ok)
	assert.Equal("loop", name)
	assert.Equal(uint32(3), delta)

	name, delta, ok = sym.Label(0)
	assert.True(ok)
	assert.Equal("start", name)
	assert.Equal(uint32(0), delta)

	empty := &Symbols{}
	assert.Equal(0, empty.LineNo(4))
	_, _, ok = empty.Label(4)
	assert.False(ok)
}

func TestSymbolsMarshal(t *testing.T) {
	assert := assert.New(t)

	sym := &Symbols{
		Labels: map[string]uint32{"a": 1, "b": 20},
		Lines:  []Line{{0, 1}, {1, 2}, {20, 4}},
	}

	data, err := sym.MarshalBinary()
	assert.NoError(err)

	again, err := sym.MarshalBinary()
	assert.NoError(err)
	assert.Equal(data, again)

	decoded := &Symbols{}
	assert.NoError(decoded.UnmarshalBinary(data))
	assert.Equal(sym, decoded)

	assert.Error(decoded.UnmarshalBinary([]byte{0xff, 0x00}))
	assert.Equal(sym, decoded)

	path := filepath.Join(t.TempDir(), "prog.sym")
	assert.NoError(sym.Save(path))

	loaded, err := LoadSymbols(path)
	assert.NoError(err)
	assert.Equal(sym, loaded)

	_, err = LoadSymbols(filepath.Join(t.TempDir(), "missing.sym"))
	assert.Error(err)
}
