// Copyright 2025, Jason S. McMullan <jason.mcmullan@gmail.com>

package emulator

import (
	"bytes"
	"errors"
	"fmt"
	goio "io"
	"io/fs"
	"iter"
	"maps"
	"os"
	"path/filepath"
	"strings"

	"github.com/tliron/commonlog"

	"github.com/ezrec/regmach/asm"
	"github.com/ezrec/regmach/cpu"
	"github.com/ezrec/regmach/image"
	"github.com/ezrec/regmach/internal"
	"github.com/ezrec/regmach/io"
)

var log = commonlog.GetLogger("regmach.emulator")

var _emulator_defines = map[string]string{
	"MEMDEFAULT": fmt.Sprintf("%v", DEFAULT_MEMORY_SIZE),
}

// Program is an assembled program and its debug symbols.
type Program struct {
	Binary   []byte       // Program image, loaded at offset 0.
	Symbols  *asm.Symbols // Debug symbols, if known.
	Warnings []error      // Assembler warnings.
}

// Emulator state. CPU + tape.
type Emulator struct {
	Verbose  bool         // If set, enables verbose logging.
	*cpu.Cpu              // Reference to the CPU simulation.
	Program  *Program     // Reference to the currently loaded program.

	Config   Config      // Configuration.
	Tape     io.Tape     // Tape for the print instructions.
	Messages goio.Writer // Destination of source messages; os.Stdout if nil.
}

// NewEmulator creates a new emulator.
func NewEmulator(cfg Config) (emu *Emulator) {
	if cfg.MemorySize == 0 {
		cfg.MemorySize = DEFAULT_MEMORY_SIZE
	}

	emu = &Emulator{
		Verbose: cfg.Verbose,
		Cpu:     cpu.NewCpu(cfg.MemorySize),
		Config:  cfg,
		Tape:    io.Tape{Output: os.Stdout},
	}

	return
}

// memorySize is the machine memory size for the loaded program.
func (emu *Emulator) memorySize() (size uint32) {
	size = emu.Config.MemorySize
	if emu.Program != nil {
		size = max(size, uint32(len(emu.Program.Binary)))
	}

	return
}

func (emu *Emulator) defines(size uint32) iter.Seq2[string, string] {
	return internal.IterSeq2Concat(maps.All(_emulator_defines),
		cpu.MemoryDefines(size),
	)
}

// Defines returns an iterator over all of the defines
func (emu *Emulator) Defines() iter.Seq2[string, string] {
	return emu.defines(emu.memorySize())
}

func (emu *Emulator) messages() goio.Writer {
	if emu.Messages == nil {
		return os.Stdout
	}
	return emu.Messages
}

// Compile scans and assembles source text.
// No program is returned if there are any scan or assembly errors.
func (emu *Emulator) Compile(source string) (prog *Program, err error) {
	scanner := &asm.Scanner{
		ScanMessages:  emu.Config.ScanMessages,
		ParseMessages: emu.Config.ParseMessages,
		Output:        emu.Messages,
	}

	ts := scanner.Scan(source)
	if ts.Errors > 0 {
		err = &asm.ErrAssembly{Errors: ts.Errors, Err: errors.Join(append([]error{asm.ErrScan}, ts.Errs...)...)}
		return
	}

	// Memory grows to fit the image; an image larger than the configured
	// memory is assembled again with the grown memory defines.
	var assembler *asm.Assembler
	var binary []byte
	messages := &bytes.Buffer{}
	size := emu.Config.MemorySize
	for {
		messages.Reset()
		assembler = &asm.Assembler{
			Verbose: emu.Verbose,
			Output:  messages,
		}
		for name, expr := range emu.defines(size) {
			assembler.Predefine(name, expr)
		}
		for name, expr := range internal.IterMapSorted(emu.Config.Symbols) {
			assembler.Predefine(name, expr)
		}

		binary, err = assembler.Assemble(ts, nil, 0)
		if err != nil || uint32(len(binary)) <= size {
			break
		}
		size = uint32(len(binary))
	}

	emu.messages().Write(messages.Bytes())
	if err != nil {
		return
	}

	symbols := assembler.Symbols()
	prog = &Program{
		Binary:   binary,
		Symbols:  &symbols,
		Warnings: assembler.Warnings,
	}

	if emu.Verbose {
		log.Infof("compiled %d bytes, %d labels", len(binary), len(symbols.Labels))
	}

	return
}

// Reset the emulator state, and load the program.
func (emu *Emulator) Reset() (err error) {
	if emu.Program == nil {
		err = ErrNoProgram
		return
	}

	size := emu.memorySize()
	if uint32(len(emu.Cpu.Memory)) != size {
		emu.Cpu = cpu.NewCpu(size)
	}

	emu.Cpu.Verbose = emu.Verbose
	emu.Cpu.BoundsCheck = emu.Config.BoundsCheck
	emu.Cpu.Printer = &emu.Tape
	emu.Cpu.Reset()
	emu.Tape.Rewind()

	err = emu.Cpu.Load(emu.Program.Binary, 0)
	return
}

// LineNo returns the source line number for the executing instruction.
func (emu *Emulator) LineNo() int {
	if emu.Program == nil || emu.Program.Symbols == nil {
		return 0
	}

	return emu.Program.Symbols.LineNo(emu.Cpu.Pc)
}

// runtimeError locates a cpu error in the source.
func (emu *Emulator) runtimeError(err error) error {
	rt := &ErrRuntime{
		LineNo: emu.LineNo(),
		Offset: emu.Cpu.Pc,
		Err:    err,
	}

	if emu.Program != nil && emu.Program.Symbols != nil {
		name, delta, ok := emu.Program.Symbols.Label(emu.Cpu.Pc)
		if ok {
			rt.Label = name
			if delta != 0 {
				rt.Label = fmt.Sprintf("%v+%d", name, delta)
			}
		}
	}

	return rt
}

// Tick performs a single tick of the emulator.
func (emu *Emulator) Tick() (done bool, err error) {
	emu.Cpu.Verbose = emu.Verbose

	done, err = emu.Cpu.Tick()
	if err != nil {
		err = emu.runtimeError(err)
	}

	return
}

// Run loads a program, then executes it from offset 0
// until a halt or a fault.
func (emu *Emulator) Run(prog *Program) (err error) {
	emu.Program = prog
	err = emu.Reset()
	if err != nil {
		return
	}

	err = emu.Cpu.Run(0)
	if err != nil {
		err = emu.runtimeError(err)
	}

	if emu.Verbose {
		log.Infof("%v after %d ticks, %d bytes printed", emu.Cpu.State, emu.Cpu.Ticks, emu.Tape.Written)
	}

	return
}

// SymbolsPath returns the path of the symbols file for a container path.
func SymbolsPath(path string) string {
	return strings.TrimSuffix(path, filepath.Ext(path)) + ".sym"
}

// SaveProgram writes the program to a container file, and its symbols
// next to it.
func SaveProgram(path string, prog *Program) (err error) {
	err = image.Save(path, prog.Binary)
	if err != nil {
		return
	}

	if prog.Symbols != nil {
		err = prog.Symbols.Save(SymbolsPath(path))
	}

	return
}

// LoadProgram reads a program from a container file.
// Symbols are loaded if present.
func LoadProgram(path string) (prog *Program, err error) {
	binary, err := image.Load(path)
	if err != nil {
		return
	}

	symbols, err := asm.LoadSymbols(SymbolsPath(path))
	if errors.Is(err, fs.ErrNotExist) {
		symbols = nil
		err = nil
	}
	if err != nil {
		return
	}

	prog = &Program{
		Binary:  binary,
		Symbols: symbols,
	}

	return
}
