// Copyright 2025, Jason S. McMullan <jason.mcmullan@gmail.com>

package cpu

import (
	"fmt"
	"iter"
	"maps"
	"math"

	"github.com/tliron/commonlog"
)

var log = commonlog.GetLogger("regmach.cpu")

// Status is the arithmetic status flag.
type Status int

//go:generate go tool stringer -linecomment -type=Status
const (
	STATUS_NORMAL    = Status(0) // normal
	STATUS_OVERFLOW  = Status(1) // overflow
	STATUS_UNDERFLOW = Status(2) // underflow
)

// State is the execution state of the machine.
type State int

//go:generate go tool stringer -linecomment -type=State
const (
	STATE_READY   = State(0) // ready
	STATE_RUNNING = State(1) // running
	STATE_HALTED  = State(2) // halted
	STATE_FAULTED = State(3) // faulted
)

// Printer is the sink for the print instructions.
type Printer interface {
	PrintNumber(value int32) error
	PrintChar(value byte) error
	PrintString(value []byte) error
}

// Cpu is the simulation context of the register machine.
type Cpu struct {
	Verbose     bool    // Set to enable verbose logging.
	BoundsCheck bool    // Set to fault on out of range memory accesses.
	Printer     Printer // Sink for print instructions.

	Pc       uint32                // Program counter.
	Register [REGISTER_COUNT]int32 // Register bank.
	Status   Status                // Arithmetic status flag.
	State    State                 // Execution state.
	Memory   []byte                // Code and data memory.

	Ticks int // Instructions executed since reset.
}

// NewCpu creates a new CPU with a specifically sized memory.
func NewCpu(size uint32) (cpu *Cpu) {
	cpu = &Cpu{
		Memory: make([]byte, size),
	}

	cpu.Reset()

	return
}

// MemoryDefines returns the defines for a memory of size bytes.
func MemoryDefines(size uint32) iter.Seq2[string, string] {
	return maps.All(map[string]string{
		"MEMSIZE": fmt.Sprintf("%d", size),
		"MEMTOP":  fmt.Sprintf("%d", max(size, 1)-1),
	})
}

// Defines for the cpu
func (cpu *Cpu) Defines() iter.Seq2[string, string] {
	return MemoryDefines(uint32(len(cpu.Memory)))
}

// Reset the CPU state.
// - Clears the registers and status flag.
// - Fills memory with the non-executable marker.
// - Zeros the tick counter.
func (cpu *Cpu) Reset() {
	if cpu.Verbose {
		log.Debugf("reset")
	}

	clear(cpu.Register[:])
	for n := range cpu.Memory {
		cpu.Memory[n] = byte(OP_NEX)
	}
	cpu.Pc = 0
	cpu.Status = STATUS_NORMAL
	cpu.State = STATE_READY
	cpu.Ticks = 0
}

// Load copies data into memory at offset.
func (cpu *Cpu) Load(data []byte, offset uint32) (err error) {
	if uint64(offset)+uint64(len(data)) > uint64(len(cpu.Memory)) {
		err = ErrBounds
		return
	}

	copy(cpu.Memory[offset:], data)

	return
}

// String returns the current CPU state as a string.
func (cpu *Cpu) String() (text string) {
	text = fmt.Sprintf("   pc: %08x\n", cpu.Pc)
	text += fmt.Sprintf("   sr: %v\n", cpu.Status)
	for n, reg := range cpu.Register {
		text += fmt.Sprintf("   r%d: %08x (%d)\n", n, uint32(reg), reg)
	}
	text += fmt.Sprintf("state: %v\n", cpu.State)

	return
}

// address resolves a memory access of width bytes at addr.
// Without bounds checking, addresses wrap modulo the memory size.
func (cpu *Cpu) address(addr uint32, width int) (offsets [4]uint32, err error) {
	size := uint64(len(cpu.Memory))
	if size == 0 || (cpu.BoundsCheck && uint64(addr)+uint64(width) > size) {
		err = ErrBounds
		return
	}

	for n := range width {
		offsets[n] = uint32((uint64(addr) + uint64(n)) % size)
	}

	return
}

// ReadLong reads a 32-bit value from memory.
func (cpu *Cpu) ReadLong(addr uint32) (value int32, err error) {
	offsets, err := cpu.address(addr, 4)
	if err != nil {
		return
	}

	var buf [4]byte
	for n, offset := range offsets {
		buf[n] = cpu.Memory[offset]
	}
	value = int32(Long(buf[:], 0))

	return
}

// WriteLong writes a 32-bit value to memory.
func (cpu *Cpu) WriteLong(addr uint32, value int32) (err error) {
	offsets, err := cpu.address(addr, 4)
	if err != nil {
		return
	}

	var buf [4]byte
	PutLong(buf[:], 0, uint32(value))
	for n, offset := range offsets {
		cpu.Memory[offset] = buf[n]
	}

	return
}

// ReadByte reads a byte from memory.
func (cpu *Cpu) ReadByte(addr uint32) (value byte, err error) {
	offsets, err := cpu.address(addr, 1)
	if err != nil {
		return
	}

	value = cpu.Memory[offsets[0]]
	return
}

// Fetch decodes the instruction at the program counter.
func (cpu *Cpu) Fetch() (inst Instruction, size int, err error) {
	if uint64(cpu.Pc) >= uint64(len(cpu.Memory)) {
		err = ErrPcRange
		return
	}

	inst, size, err = DecodeInstruction(cpu.Memory[cpu.Pc:])
	if err == ErrInstructionTruncate {
		err = ErrPcRange
	}

	return
}

// Tick executes a single instruction.
// Returns done once the machine has halted or faulted.
func (cpu *Cpu) Tick() (done bool, err error) {
	switch cpu.State {
	case STATE_HALTED:
		done = true
		err = ErrHalted
		return
	case STATE_FAULTED:
		done = true
		err = ErrFaulted
		return
	}

	cpu.State = STATE_RUNNING

	pc := cpu.Pc
	inst, size, err := cpu.Fetch()
	if err == nil {
		if cpu.Verbose {
			log.Debugf("%04d: %v", pc, inst)
		}
		cpu.Pc = pc + uint32(size)
		err = handlers[inst.Op](cpu, inst)
	}

	if err != nil {
		cpu.Pc = pc
		cpu.State = STATE_FAULTED
		err = &ErrFault{Pc: pc, Op: inst.Op, Err: err}
		if cpu.Verbose {
			log.Errorf("%v", err)
		}
		done = true
		return
	}

	cpu.Ticks++
	done = cpu.State == STATE_HALTED

	return
}

// Run executes from entry until a halt or a fault.
// A halt returns nil, a fault returns an *ErrFault.
func (cpu *Cpu) Run(entry uint32) (err error) {
	cpu.Pc = entry
	cpu.State = STATE_READY

	for done := false; !done; {
		done, err = cpu.Tick()
	}

	if cpu.Verbose {
		log.Debugf("%v after %d ticks", cpu.State, cpu.Ticks)
	}

	return
}

type handler func(cpu *Cpu, inst Instruction) error

var handlers = [OP_COUNT]handler{
	OP_ADD:    arith(func(a, b int64) int64 { return a + b }),
	OP_SUB:    arith(func(a, b int64) int64 { return a - b }),
	OP_MUL:    arith(func(a, b int64) int64 { return a * b }),
	OP_DIV:    (*Cpu).opDiv,
	OP_AND:    logic(func(a, b int32) int32 { return a & b }),
	OP_OR:     logic(func(a, b int32) int32 { return a | b }),
	OP_NOT:    (*Cpu).opNot,
	OP_LSHIFT: (*Cpu).opLshift,
	OP_RSHIFT: (*Cpu).opRshift,
	OP_LOAD:   (*Cpu).opLoad,
	OP_STORE:  (*Cpu).opStore,
	OP_MOV:    (*Cpu).opMov,
	OP_SAVE:   (*Cpu).opSave,
	OP_PRINT:  (*Cpu).opPrint,
	OP_PRINTC: (*Cpu).opPrintc,
	OP_PRINTS: (*Cpu).opPrints,
	OP_JEQ:    compare(func(a, b int32) bool { return a == b }),
	OP_JNE:    compare(func(a, b int32) bool { return a != b }),
	OP_JGT:    compare(func(a, b int32) bool { return a > b }),
	OP_JLT:    compare(func(a, b int32) bool { return a < b }),
	OP_JOV:    status(STATUS_OVERFLOW),
	OP_JUN:    status(STATUS_UNDERFLOW),
	OP_JMP:    (*Cpu).opJmp,
	OP_CLRPC:  (*Cpu).opClrpc,
	OP_CLRSR:  (*Cpu).opClrsr,
	OP_HALT:   (*Cpu).opHalt,
	OP_INCR:   (*Cpu).opIncr,
	OP_DECR:   (*Cpu).opDecr,
	OP_MCOPY:  (*Cpu).opMcopy,
	OP_RCOPY:  (*Cpu).opRcopy,
	OP_CONST:  (*Cpu).opData,
	OP_CHAR:   (*Cpu).opData,
	OP_STR:    (*Cpu).opData,
	OP_NEX:    (*Cpu).opNex,
}

// setResult stores an exact result into a register, updating the
// status flag if the result does not fit.
func (cpu *Cpu) setResult(reg uint32, value int64) {
	switch {
	case value > math.MaxInt32:
		cpu.Status = STATUS_OVERFLOW
	case value < math.MinInt32:
		cpu.Status = STATUS_UNDERFLOW
	}

	cpu.Register[reg] = int32(value)
}

func arith(op func(a, b int64) int64) handler {
	return func(cpu *Cpu, inst Instruction) error {
		a, b := inst.Operands[0], inst.Operands[1]
		cpu.setResult(b, op(int64(cpu.Register[a]), int64(cpu.Register[b])))
		return nil
	}
}

func logic(op func(a, b int32) int32) handler {
	return func(cpu *Cpu, inst Instruction) error {
		a, b := inst.Operands[0], inst.Operands[1]
		cpu.Register[b] = op(cpu.Register[a], cpu.Register[b])
		return nil
	}
}

func compare(op func(a, b int32) bool) handler {
	return func(cpu *Cpu, inst Instruction) error {
		a, b := inst.Operands[0], inst.Operands[1]
		if op(cpu.Register[a], cpu.Register[b]) {
			cpu.Pc = inst.Operands[2]
		}
		return nil
	}
}

func status(sr Status) handler {
	return func(cpu *Cpu, inst Instruction) error {
		if cpu.Status == sr {
			cpu.Pc = inst.Operands[0]
		}
		return nil
	}
}

func (cpu *Cpu) opDiv(inst Instruction) error {
	a, b := inst.Operands[0], inst.Operands[1]
	if cpu.Register[b] == 0 {
		return ErrDivideByZero
	}
	cpu.setResult(b, int64(cpu.Register[a])/int64(cpu.Register[b]))
	return nil
}

func (cpu *Cpu) opNot(inst Instruction) error {
	a := inst.Operands[0]
	cpu.Register[a] = ^cpu.Register[a]
	return nil
}

func (cpu *Cpu) opLshift(inst Instruction) error {
	a := inst.Operands[0]
	cpu.Register[a] = int32(uint32(cpu.Register[a]) << (inst.Operands[1] & 31))
	return nil
}

func (cpu *Cpu) opRshift(inst Instruction) error {
	a := inst.Operands[0]
	cpu.Register[a] = int32(uint32(cpu.Register[a]) >> (inst.Operands[1] & 31))
	return nil
}

func (cpu *Cpu) opLoad(inst Instruction) (err error) {
	value, err := cpu.ReadLong(inst.Operands[0])
	if err != nil {
		return
	}
	cpu.Register[inst.Operands[1]] = value
	return
}

func (cpu *Cpu) opStore(inst Instruction) error {
	return cpu.WriteLong(inst.Operands[1], cpu.Register[inst.Operands[0]])
}

func (cpu *Cpu) opMov(inst Instruction) error {
	cpu.Register[inst.Operands[1]] = int32(inst.Operands[0])
	return nil
}

func (cpu *Cpu) opSave(inst Instruction) error {
	return cpu.WriteLong(inst.Operands[1], int32(inst.Operands[0]))
}

func (cpu *Cpu) opPrint(inst Instruction) (err error) {
	value, err := cpu.ReadLong(inst.Operands[0])
	if err != nil {
		return
	}
	if cpu.Printer == nil {
		return ErrPrinter
	}
	return cpu.Printer.PrintNumber(value)
}

func (cpu *Cpu) opPrintc(inst Instruction) (err error) {
	value, err := cpu.ReadLong(inst.Operands[0])
	if err != nil {
		return
	}
	if cpu.Printer == nil {
		return ErrPrinter
	}
	return cpu.Printer.PrintChar(byte(value))
}

// opPrints emits bytes up to a NUL, never reading more than the memory size.
func (cpu *Cpu) opPrints(inst Instruction) (err error) {
	var text []byte
	addr := inst.Operands[0]
	for range len(cpu.Memory) {
		var ch byte
		ch, err = cpu.ReadByte(addr)
		if err != nil {
			return
		}
		if ch == 0 {
			break
		}
		text = append(text, ch)
		addr++
	}
	if cpu.Printer == nil {
		return ErrPrinter
	}
	return cpu.Printer.PrintString(text)
}

func (cpu *Cpu) opJmp(inst Instruction) error {
	cpu.Pc = inst.Operands[0]
	return nil
}

func (cpu *Cpu) opClrpc(inst Instruction) error {
	cpu.Pc = 0
	return nil
}

func (cpu *Cpu) opClrsr(inst Instruction) error {
	cpu.Status = STATUS_NORMAL
	return nil
}

func (cpu *Cpu) opHalt(inst Instruction) error {
	cpu.State = STATE_HALTED
	return nil
}

func (cpu *Cpu) opIncr(inst Instruction) error {
	a := inst.Operands[0]
	cpu.setResult(a, int64(cpu.Register[a])+1)
	return nil
}

func (cpu *Cpu) opDecr(inst Instruction) error {
	a := inst.Operands[0]
	cpu.setResult(a, int64(cpu.Register[a])-1)
	return nil
}

func (cpu *Cpu) opMcopy(inst Instruction) (err error) {
	value, err := cpu.ReadLong(inst.Operands[0])
	if err != nil {
		return
	}
	return cpu.WriteLong(inst.Operands[1], value)
}

func (cpu *Cpu) opRcopy(inst Instruction) error {
	cpu.Register[inst.Operands[1]] = cpu.Register[inst.Operands[0]]
	return nil
}

// opData is reached only when control runs into a data directive.
func (cpu *Cpu) opData(inst Instruction) error {
	return nil
}

func (cpu *Cpu) opNex(inst Instruction) error {
	return ErrNonExecutable
}
