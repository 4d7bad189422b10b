// Package asm implements the scanner and the two-pass assembler for the
// register machine.
//
// Source text is scanned into a TokenStream, which the Assembler encodes
// into a flat program image. Forward references to labels are written as
// zero placeholders and patched once every label is known.
package asm
