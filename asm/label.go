package asm

import (
	"github.com/ezrec/regmach/cpu"
	"github.com/ezrec/regmach/internal"
)

// Label is a jump or data label.
type Label struct {
	Name       string   // Name of the label.
	Resolved   bool     // Set once the label has been defined.
	Offset     uint32   // Offset of the definition.
	Sites      []uint32 // Offsets of 4-byte placeholders referencing the label.
	LineNo     int      // Line of the definition, or of the first reference.
	Predefined bool     // Defined before assembly, never reported unused.
}

// labelTable maps label names to labels.
type labelTable map[string]*Label

// define resolves a label at offset.
func (lt labelTable) define(name string, offset uint32, lineno int) (err error) {
	label, ok := lt[name]
	if !ok {
		lt[name] = &Label{Name: name, Resolved: true, Offset: offset, LineNo: lineno}
		return
	}

	if label.Resolved {
		err = ErrLabelDuplicate
		return
	}

	label.Resolved = true
	label.Offset = offset
	label.LineNo = lineno

	return
}

// reference records a placeholder site for a label.
func (lt labelTable) reference(name string, site uint32, lineno int) {
	label, ok := lt[name]
	if !ok {
		label = &Label{Name: name, LineNo: lineno}
		lt[name] = label
	}

	label.Sites = append(label.Sites, site)
}

// resolve patches all reference sites in buffer, in label name order.
// Returns the undefined label errors and the unused label warnings.
func (lt labelTable) resolve(ts *TokenStream, buffer []byte) (errs []error, warnings []error) {
	for name, label := range internal.IterMapSorted(lt) {
		switch {
		case !label.Resolved:
			errs = append(errs, ErrSyntax{LineNo: label.LineNo, Line: ts.Line(label.LineNo), Err: ErrLabelMissing(name)})
		case len(label.Sites) == 0:
			if !label.Predefined {
				warnings = append(warnings, ErrSyntax{LineNo: label.LineNo, Line: ts.Line(label.LineNo), Err: ErrLabelUnused(name)})
			}
		default:
			for _, site := range label.Sites {
				cpu.PutLong(buffer, site, label.Offset)
			}
		}
	}

	return
}
