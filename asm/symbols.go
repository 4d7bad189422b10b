package asm

import (
	"os"
	"slices"

	"github.com/fxamacker/cbor/v2"
)

var cborEncMode cbor.EncMode

func init() {
	em, err := cbor.CanonicalEncOptions().EncMode()
	if err != nil {
		panic(f("asm: cbor enc mode: %v", err))
	}
	cborEncMode = em
}

// Line maps an image offset to the source line of the statement there.
type Line struct {
	Offset uint32 `cbor:"1,keyasint"`
	LineNo int    `cbor:"2,keyasint"`
}

// Symbols is the debug information of an assembled program.
type Symbols struct {
	Labels map[string]uint32 `cbor:"1,keyasint,omitempty"` // Resolved label offsets.
	Lines  []Line            `cbor:"2,keyasint,omitempty"` // Statement offsets, ascending.
}

// add records a statement at offset.
func (sym *Symbols) add(offset uint32, lineno int) {
	sym.Lines = append(sym.Lines, Line{Offset: offset, LineNo: lineno})
}

// sort orders the statements by offset.
func (sym *Symbols) sort() {
	slices.SortStableFunc(sym.Lines, func(a, b Line) int {
		return int(int64(a.Offset) - int64(b.Offset))
	})
}

// LineNo returns the source line of the statement containing offset,
// or 0 if unknown.
func (sym *Symbols) LineNo(offset uint32) (lineno int) {
	n, found := slices.BinarySearchFunc(sym.Lines, offset, func(line Line, target uint32) int {
		return int(int64(line.Offset) - int64(target))
	})
	switch {
	case found:
		lineno = sym.Lines[n].LineNo
	case n > 0:
		lineno = sym.Lines[n-1].LineNo
	}

	return
}

// Label returns the nearest label at or before offset.
func (sym *Symbols) Label(offset uint32) (name string, delta uint32, ok bool) {
	for label, at := range sym.Labels {
		if at > offset {
			continue
		}
		if !ok || offset-at < delta || (offset-at == delta && label < name) {
			name = label
			delta = offset - at
			ok = true
		}
	}

	return
}

// MarshalBinary encodes the symbols as canonical CBOR.
func (sym *Symbols) MarshalBinary() (data []byte, err error) {
	return cborEncMode.Marshal(sym)
}

// UnmarshalBinary decodes CBOR encoded symbols.
func (sym *Symbols) UnmarshalBinary(data []byte) (err error) {
	var tmp Symbols
	err = cbor.Unmarshal(data, &tmp)
	if err != nil {
		return
	}

	*sym = tmp
	return
}

// Save writes the symbols to a file.
func (sym *Symbols) Save(path string) (err error) {
	data, err := sym.MarshalBinary()
	if err != nil {
		return
	}

	err = os.WriteFile(path, data, 0o644)
	return
}

// LoadSymbols reads symbols from a file.
func LoadSymbols(path string) (sym *Symbols, err error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return
	}

	tmp := &Symbols{}
	err = tmp.UnmarshalBinary(data)
	if err != nil {
		return
	}

	sym = tmp
	return
}
