// Copyright 2025, Jason S. McMullan <jason.mcmullan@gmail.com>

package main

import (
	"fmt"
	goio "io"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/tliron/commonlog"
	_ "github.com/tliron/commonlog/simple"

	"github.com/ezrec/regmach/cpu"
	"github.com/ezrec/regmach/emulator"
	"github.com/ezrec/regmach/translate"
)

var log = commonlog.GetLogger("regmach")

var (
	configPath  string
	verbose     bool
	boundsCheck bool
	memorySize  uint32
	defines     []string
	output      string
	dumpState   bool
)

var rootCmd = &cobra.Command{
	Use:   "regmach",
	Short: "Register machine assembler and emulator",
	Long: `Regmach assembles register machine source into a container image,
and executes images on an 8 register, 32-bit emulated machine.

Source messages in '( ... )' are echoed while scanning, and messages in
'{ ... }' are echoed while assembling. Comments are in '[ ... ]'.
`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		if verbose {
			commonlog.Configure(2, nil)
		} else {
			commonlog.Configure(0, nil)
		}
	},
}

var runCmd = &cobra.Command{
	Use:   "run source.rm",
	Short: "Assemble and execute a source file",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) (err error) {
		emu, err := newEmulator(cmd)
		if err != nil {
			return
		}

		prog, err := compile(emu, args[0])
		if err != nil {
			return
		}

		return execute(emu, prog)
	},
}

var compileCmd = &cobra.Command{
	Use:   "compile source.rm image.rgm",
	Short: "Assemble a source file into a container image",
	Long: `Compile assembles a source file into a container image.

Debug symbols are written next to the image, with a '.sym' extension.
`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) (err error) {
		emu, err := newEmulator(cmd)
		if err != nil {
			return
		}

		prog, err := compile(emu, args[0])
		if err != nil {
			return
		}

		err = emulator.SaveProgram(args[1], prog)
		if err != nil {
			return
		}

		log.Infof("%v: %d bytes", args[1], len(prog.Binary))
		return
	},
}

var execCmd = &cobra.Command{
	Use:   "exec image.rgm",
	Short: "Execute a container image",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) (err error) {
		emu, err := newEmulator(cmd)
		if err != nil {
			return
		}

		prog, err := emulator.LoadProgram(args[0])
		if err != nil {
			return
		}

		return execute(emu, prog)
	},
}

var disasmCmd = &cobra.Command{
	Use:   "disasm image.rgm",
	Short: "List the instructions of a container image",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) (err error) {
		prog, err := emulator.LoadProgram(args[0])
		if err != nil {
			return
		}

		return disassemble(cmd.OutOrStdout(), prog)
	},
}

func init() {
	flags := rootCmd.PersistentFlags()
	flags.StringVarP(&configPath, "config", "c", "", "TOML configuration file")
	flags.BoolVarP(&verbose, "verbose", "v", false, "verbose mode")

	for _, cmd := range []*cobra.Command{runCmd, compileCmd, execCmd} {
		cmd.Flags().Uint32VarP(&memorySize, "memory-size", "m", 0, "machine memory size, in bytes")
		cmd.Flags().BoolVarP(&boundsCheck, "bounds-check", "b", false, "fault on out of range memory accesses")
	}

	for _, cmd := range []*cobra.Command{runCmd, compileCmd} {
		cmd.Flags().StringArrayVarP(&defines, "define", "D", nil, "predefine a symbol, as name=expr")
	}

	for _, cmd := range []*cobra.Command{runCmd, execCmd} {
		cmd.Flags().StringVarP(&output, "output", "o", "-", "tape output")
		cmd.Flags().BoolVarP(&dumpState, "dump", "d", false, "dump the machine state when done")
	}

	rootCmd.AddCommand(runCmd, compileCmd, execCmd, disasmCmd)
}

// newEmulator builds an emulator from the configuration file and flags.
func newEmulator(cmd *cobra.Command) (emu *emulator.Emulator, err error) {
	cfg := emulator.DefaultConfig()
	if len(configPath) != 0 {
		cfg, err = emulator.LoadConfig(configPath)
		if err != nil {
			return
		}
	}

	if cmd.Flags().Changed("memory-size") {
		if memorySize == 0 {
			err = emulator.ErrMemorySize
			return
		}
		cfg.MemorySize = memorySize
	}
	if cmd.Flags().Changed("bounds-check") {
		cfg.BoundsCheck = boundsCheck
	}
	if verbose {
		cfg.Verbose = true
	}

	for _, define := range defines {
		name, expr, ok := strings.Cut(define, "=")
		if !ok {
			err = fmt.Errorf("-D %v: expected name=expr", define)
			return
		}
		cfg.Define(strings.TrimSpace(name), expr)
	}

	emu = emulator.NewEmulator(cfg)
	return
}

// compile reads and assembles a source file.
func compile(emu *emulator.Emulator, path string) (prog *emulator.Program, err error) {
	source, err := os.ReadFile(path)
	if err != nil {
		return
	}

	prog, err = emu.Compile(string(source))
	if err != nil {
		err = fmt.Errorf("%v: %w", path, err)
	}

	return
}

// execute runs a program, with the tape on the requested output.
func execute(emu *emulator.Emulator, prog *emulator.Program) (err error) {
	if output != "-" {
		var ouf *os.File
		ouf, err = os.Create(output)
		if err != nil {
			return
		}
		defer ouf.Close()
		emu.Tape.Output = ouf
	}

	err = emu.Run(prog)

	if dumpState || err != nil {
		fmt.Fprint(os.Stderr, emu.Cpu.String())
	}

	return
}

// disassemble lists each instruction, with its label and source line.
func disassemble(w goio.Writer, prog *emulator.Program) (err error) {
	for pc := 0; pc < len(prog.Binary); {
		if prog.Symbols != nil {
			if name, delta, ok := prog.Symbols.Label(uint32(pc)); ok && delta == 0 {
				fmt.Fprintf(w, "%v :\n", name)
			}
		}

		inst, size, derr := cpu.DecodeInstruction(prog.Binary[pc:])
		if derr != nil {
			fmt.Fprintf(w, "%04d: %02x ; %v\n", pc, prog.Binary[pc], derr)
			pc++
			continue
		}

		fmt.Fprintf(w, "%04d: %v\n", pc, inst)
		pc += size
	}

	return
}

func main() {
	err := rootCmd.Execute()
	if err != nil {
		translate.Fprintf(os.Stderr, "regmach: %v\n", err)
		os.Exit(1)
	}
}
