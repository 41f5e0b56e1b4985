/*
 * WWSim - CPU definitions for Whirlwind simulator.
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
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/gfedorkow/Whirlwind-Instruction-Simulator-sub000/emu/alarm"
	dev "github.com/gfedorkow/Whirlwind-Instruction-Simulator-sub000/emu/device"
	"github.com/gfedorkow/Whirlwind-Instruction-Simulator-sub000/emu/memory"
	W "github.com/gfedorkow/Whirlwind-Instruction-Simulator-sub000/emu/word"
)

// Instruction set revision.
type ISA int

const (
	ISA1958 ISA = iota
	ISA1950
)

func (isa ISA) String() string {
	if isa == ISA1950 {
		return "1950"
	}
	return "1958"
}

// Convert name to instruction set.
func ParseISA(name string) (ISA, error) {
	switch strings.TrimSpace(name) {
	case "1950":
		return ISA1950, nil
	case "1958", "":
		return ISA1958, nil
	}
	return ISA1958, fmt.Errorf("%w: must be 1950 or 1958, not %s", ErrBadISA, name)
}

var (
	ErrRunning = errors.New("instruction set can't change once running")
	ErrBadISA  = errors.New("unknown instruction set")
)

// How the address field of an instruction is used.
type operandClass int

const (
	opJump operandClass = iota
	opWriteData
	opReadData
	opReadWriteData
	opParameter
	opUnused
)

// Trace colour by instruction class.
type colorClass int

const (
	colorNone colorClass = iota
	colorIO
	colorCF
	colorBranch
)

var colorCode = [...]string{"", "\033[92m", "\033[96m", "\033[93m"}

const colorDefault = "\033[0m"

// Mnemonic and description of hold/round variants, picked by operand bit 6.
type variant struct {
	mnemonic    string
	description string
}

type opEntry struct {
	mnemonic    string
	description string
	class       operandClass
	usec        int
	color       colorClass
	handler     func(pc W.Address, addr W.Address) alarm.Alarm
	ext         *[2]variant
}

var (
	shiftRight = &[2]variant{{"srr", "shift right and roundoff"}, {"srh", "shift right and hold"}}
	shiftLeft  = &[2]variant{{"slr", "shift left and roundoff"}, {"slh", "shift left and hold"}}
	cycleLeft  = &[2]variant{{"clc", "cycle left and clear"}, {"clh", "cycle left and hold"}}
)

// Mnemonic and description for an instruction with this operand.
func (op *opEntry) name(addr W.Address) (string, string) {
	if op.ext == nil {
		return op.mnemonic, op.description
	}
	v := op.ext[0]
	if (W.Word(addr) & W.Bit6) != 0 {
		v = op.ext[1]
	}
	return v.mnemonic, v.description
}

// I/O dispatch used by the I/O instructions.
type IODispatcher interface {
	Select(addr W.Address, ac W.Word, mem dev.Memory) alarm.Alarm
	Record(operand W.Word, ac W.Word) (alarm.Alarm, string)
	Read(operand W.Word, ac W.Word) (alarm.Alarm, W.Word)
	BlockIn(addr W.Address, count W.Word, mem dev.Memory) alarm.Alarm
	BlockOut(addr W.Address, count W.Word, mem dev.Memory) alarm.Alarm
	Selected() dev.Device
}

// Machine switch settings.
type SwitchReader interface {
	Value(name string) W.Word
}

// Display driven by the 1950 QH, QD and QF instructions.
type Scope interface {
	SetHorizontal(ac W.Word) alarm.Alarm
	Display(ac W.Word, scope int) alarm.Alarm
}

const (
	mainScope = 1
	auxScope  = 2
)

// Debug options.
const (
	DebugTrace = 1 << iota // Instruction trace.
	DebugALU               // Arithmetic detail.
	DebugIO                // I/O instruction detail.
	DebugLong              // Long trace format.
	DebugCore              // Operand reads.
)

var debugOption = map[string]int{
	"TRACE": DebugTrace,
	"ALU":   DebugALU,
	"IO":    DebugIO,
	"LONG":  DebugLong,
	"CORE":  DebugCore,
}

var ErrDebugOption = errors.New("CPU debug option invalid")

// Return mask for named CPU debug option.
func DebugMask(opt string) (int, error) {
	mask, ok := debugOption[strings.ToUpper(opt)]
	if !ok {
		return 0, fmt.Errorf("%w: %s", ErrDebugOption, opt)
	}
	return mask, nil
}

type CPU struct {
	pc  W.Address // Program counter
	ac  W.Word    // Accumulator
	br  W.Word    // B register, low half of double results
	ar  W.Word    // A register, operand or return address
	sam W.Sam     // Deferred overflow of special add

	mem   *memory.CoreMemory
	io    IODispatcher
	sw    SwitchReader
	scope Scope

	isa     ISA
	table   *[32]opEntry
	isa1950 [32]opEntry
	isa1958 [32]opEntry
	started bool // Set once first instruction executes.
	cycles  int64
	usec    int64

	symbols  map[W.Address]string
	labels   map[string]W.Address
	comments map[W.Address]string
	exec     map[W.Address]string

	debug   int
	decimal bool // Show decimal form of addresses and values.
	color   bool // ANSI colour in trace.
	sink    TraceSink
	out     io.Writer // Print directive output.
	log     *slog.Logger
	note    string // Annotation from last record instruction.
}
