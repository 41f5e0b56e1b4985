/*
 * WWSim - Whirlwind instruction engine.
 *
 * Copyright 2024, Guy C. Fedorkow
 *
 * Permission is hereby granted, free of charge, to any person obtaining a copy
 * of this software and associated documentation files (the "Software"), to deal
 * in the Software without restriction, including without limitation the rights
 * to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
 * copies of the Software, and to permit persons to whom the Software is
 * furnished to do so, subject to the following conditions:
 *
 * The above copyright notice and this permission notice shall be included in
 * all copies or substantial portions of the Software.
 *
 * THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
 * IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
 * FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
 * AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
 * LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
 * OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN THE
 * SOFTWARE.
 *
 */

package cpu

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/gfedorkow/Whirlwind-Instruction-Simulator-sub000/emu/alarm"
	"github.com/gfedorkow/Whirlwind-Instruction-Simulator-sub000/emu/memory"
	W "github.com/gfedorkow/Whirlwind-Instruction-Simulator-sub000/emu/word"
	"github.com/gfedorkow/Whirlwind-Instruction-Simulator-sub000/emu/wwprint"
	"github.com/gfedorkow/Whirlwind-Instruction-Simulator-sub000/util/debug"
)

/*
   Whirlwind I was built at MIT between 1947 and 1951 and was in service
   until 1959. It was a parallel machine with 16 bit words in one's
   complement form.

   Instruction format:

      +---+---+---+---+---+---+---+---+---+---+---+---+---+---+---+---+
      |  opcode (0-4)     |          address (5-15)                   |
      +---+---+---+---+---+---+---+---+---+---+---+---+---+---+---+---+

   Bit 0 is the most significant bit. Bit 5 of the address selects Group B
   of core memory, Group A otherwise. Addresses 0 to 31 of Group A are the
   toggle switch and flip flop registers.

   Registers are AC (accumulator), BR (low half of double length results),
   AR (last operand or return address), SAM (carry deferred by special add)
   and PC.
*/

// Option sets optional CPU configuration.
type Option func(*CPU)

// Log through given logger.
func WithLogger(log *slog.Logger) Option {
	return func(cpu *CPU) {
		if log != nil {
			cpu.log = log
		}
	}
}

// Display scope for 1950 display instructions.
func WithScope(scope Scope) Option {
	return func(cpu *CPU) {
		cpu.scope = scope
	}
}

// Deliver trace records to sink after every instruction.
func WithTraceSink(sink TraceSink) Option {
	return func(cpu *CPU) {
		cpu.sink = sink
	}
}

// Send print directive output to w.
func WithOutput(w io.Writer) Option {
	return func(cpu *CPU) {
		cpu.out = w
	}
}

// Create CPU in reset state.
func New(mem *memory.CoreMemory, registry IODispatcher, sw SwitchReader, opts ...Option) *CPU {
	cpu := &CPU{
		mem:      mem,
		io:       registry,
		sw:       sw,
		log:      slog.Default(),
		out:      os.Stdout,
		symbols:  map[W.Address]string{},
		labels:   map[string]W.Address{},
		comments: map[W.Address]string{},
		exec:     map[W.Address]string{},
	}
	for _, opt := range opts {
		opt(cpu)
	}
	cpu.createTable()
	cpu.Reset()
	return cpu
}

// Reset registers to power on state.
func (cpu *CPU) Reset() {
	cpu.pc = 0o40
	cpu.ac = 0
	cpu.br = 0
	cpu.ar = 0
	cpu.sam = 0
}

// Pick instruction set, only allowed before first instruction.
func (cpu *CPU) SelectInstructionSet(isa ISA) error {
	if cpu.started {
		return ErrRunning
	}
	switch isa {
	case ISA1950:
		cpu.table = &cpu.isa1950
	case ISA1958:
		cpu.table = &cpu.isa1958
	default:
		return fmt.Errorf("%w: %d", ErrBadISA, isa)
	}
	cpu.isa = isa
	return nil
}

// Current instruction set.
func (cpu *CPU) InstructionSet() ISA {
	return cpu.isa
}

// Attach symbols, comments and print directives of the loaded program.
func (cpu *CPU) SetProgram(symbols, comments, exec map[W.Address]string) {
	if symbols != nil {
		cpu.symbols = symbols
	}
	if comments != nil {
		cpu.comments = comments
	}
	if exec != nil {
		cpu.exec = exec
	}
	cpu.labels = map[string]W.Address{}
	for addr, label := range cpu.symbols {
		cpu.labels[label] = addr
	}
}

func (cpu *CPU) SetDebug(mask int) {
	cpu.debug = mask
}

func (cpu *CPU) Debug() int {
	return cpu.debug
}

func (cpu *CPU) SetDecimal(flag bool) {
	cpu.decimal = flag
}

func (cpu *CPU) SetColor(flag bool) {
	cpu.color = flag
}

func (cpu *CPU) PC() W.Address {
	return cpu.pc
}

func (cpu *CPU) SetPC(addr W.Address) {
	cpu.pc = W.Word(addr).Addr()
}

func (cpu *CPU) AC() W.Word {
	return cpu.ac
}

func (cpu *CPU) SetAC(value W.Word) {
	cpu.ac = value
}

func (cpu *CPU) BR() W.Word {
	return cpu.br
}

func (cpu *CPU) AR() W.Word {
	return cpu.ar
}

func (cpu *CPU) SAM() W.Sam {
	return cpu.sam
}

// Instructions executed.
func (cpu *CPU) Cycles() int64 {
	return cpu.cycles
}

// Nominal machine time used in microseconds.
func (cpu *CPU) Microseconds() int64 {
	return cpu.usec
}

func (cpu *CPU) Memory() *memory.CoreMemory {
	return cpu.mem
}

// Execute one instruction.
func (cpu *CPU) Step() alarm.Alarm {
	cpu.started = true
	pc := cpu.pc
	inst, ok := cpu.mem.Read(pc)
	if !ok {
		cpu.log.Warn(fmt.Sprintf("Instruction is 'None' at 0o%o", pc))
		return alarm.ReadBeforeWriteAlarm
	}
	cpu.pc = W.Word(pc + 1).Addr()

	// Print directive belongs to the instruction that follows it.
	if directive, ok := cpu.exec[pc]; ok {
		for _, line := range wwprint.Exec(cpu, directive, cpu.log) {
			fmt.Fprintln(cpu.out, line)
		}
	}

	op := &cpu.table[inst.Opcode()]
	addr := inst.Addr()
	cpu.note = ""
	result := op.handler(pc, addr)
	cpu.cycles++
	cpu.usec += int64(op.usec)

	if cpu.sink != nil || (cpu.debug&DebugTrace) != 0 {
		t := cpu.trace(pc, op, addr)
		if (cpu.debug & DebugTrace) != 0 {
			debug.Debugf("CPU", cpu.debug, DebugTrace, "%s", t.Text)
		}
		if cpu.sink != nil {
			cpu.sink.Trace(t)
		}
	}
	return result
}

// Read operand of an instruction, unset cells raise an alarm.
func (cpu *CPU) operand(addr W.Address) (W.Word, alarm.Alarm) {
	value, ok := cpu.mem.Read(addr)
	if !ok {
		cpu.log.Warn(fmt.Sprintf("Operand at 0o%o read before write", addr))
		return 0, alarm.ReadBeforeWriteAlarm
	}
	debug.Debugf("CPU", cpu.debug, DebugCore, "read Core@0o%04o=%s", addr, value)
	return value, alarm.NoAlarm
}

// Operand that may be unset, which reads as zero.
func (cpu *CPU) operandOrZero(addr W.Address, inst string) W.Word {
	value, ok := cpu.mem.Read(addr)
	if !ok {
		cpu.log.Warn(fmt.Sprintf("%s uses uninitialized memory location @0o%o", inst, addr))
		return 0
	}
	debug.Debugf("CPU", cpu.debug, DebugCore, "read Core@0o%04o=%s", addr, value)
	return value
}

// Memory as seen by print directives.
func (cpu *CPU) ReadOrZero(addr W.Address) W.Word {
	return cpu.mem.ReadOrZero(addr)
}

// Find address of a label.
func (cpu *CPU) Lookup(label string) (W.Address, bool) {
	addr, ok := cpu.labels[label]
	return addr, ok
}

// Label of an address, empty if none.
func (cpu *CPU) Label(addr W.Address) string {
	return cpu.symbols[addr]
}

// Short disassembly of the instruction at addr.
func (cpu *CPU) Instruction(addr W.Address) string {
	inst, ok := cpu.mem.Read(addr)
	if !ok {
		return "<Uninitialized Memory>"
	}
	op := &cpu.table[inst.Opcode()]
	operand := inst.Addr()
	mnemonic, _ := op.name(operand)
	switch op.class {
	case opParameter, opUnused:
		return fmt.Sprintf("%s 0o%o", mnemonic, operand)
	}
	if label, ok := cpu.symbols[operand]; ok {
		return fmt.Sprintf("%s 0o%o(%s)", mnemonic, operand, label)
	}
	return fmt.Sprintf("%s 0o%o", mnemonic, operand)
}
