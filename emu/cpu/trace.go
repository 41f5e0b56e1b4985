/*
 * WWSim - Instruction trace and register snapshot.
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
	"strings"

	"github.com/k0kubun/pp/v3"

	W "github.com/gfedorkow/Whirlwind-Instruction-Simulator-sub000/emu/word"
)

// One executed instruction.
type Trace struct {
	PC       W.Address
	Label    string
	Mnemonic string
	Operand  W.Address
	AC       W.Word
	Comment  string
	Text     string // Formatted trace line.
}

// Receives a record after every instruction.
type TraceSink interface {
	Trace(t Trace)
}

// Collects trace records in memory.
type TraceLog struct {
	Records []Trace
}

func (l *TraceLog) Trace(t Trace) {
	l.Records = append(l.Records, t)
}

// Pad field out to width columns past start, returning new cursor.
func padTo(sb *strings.Builder, field string, start, width int) int {
	sb.WriteString(field)
	for sb.Len() < start+width {
		sb.WriteByte(' ')
	}
	return start + width
}

// Address with bank when not in the default binding, and label.
func (cpu *CPU) addrString(addr W.Address) string {
	bank := ""
	groupA, groupB := cpu.mem.Groups()
	high := (W.Word(addr) & W.Bit5) != 0
	if high && groupB != 1 {
		bank = fmt.Sprintf("[%d]", groupB)
	}
	if !high && groupA != 0 {
		bank = fmt.Sprintf("[%d]", groupA)
	}
	decimal := ""
	if cpu.decimal {
		decimal = fmt.Sprintf(".%03d", addr)
	}
	label := ""
	if l, ok := cpu.symbols[addr]; ok {
		label = "(" + l + ")"
	}
	return fmt.Sprintf("%s0o%04o%s%s", bank, addr, decimal, label)
}

// Word value, negative values show magnitude.
func (cpu *CPU) wordString(value W.Word, ok bool) string {
	if !ok {
		return " None "
	}
	if !cpu.decimal {
		return value.String()
	}
	return fmt.Sprintf("0o%06o(%s)", uint16(value), value.Decimal())
}

// Build trace record for instruction just executed.
func (cpu *CPU) trace(pc W.Address, op *opEntry, addr W.Address) Trace {
	mnemonic, _ := op.name(addr)
	t := Trace{
		PC:       pc,
		Label:    cpu.symbols[pc],
		Mnemonic: mnemonic,
		Operand:  addr,
		AC:       cpu.ac,
		Comment:  cpu.comments[pc],
	}
	if cpu.note != "" {
		t.Comment = strings.TrimSpace(t.Comment + " " + cpu.note)
	}

	var sb strings.Builder
	cur := padTo(&sb, " pc:"+cpu.addrString(pc)+":", 0, 20)
	cur = padTo(&sb, " "+mnemonic+" "+cpu.addrString(addr), cur, 25)
	cur = padTo(&sb, " AC="+cpu.wordString(cpu.ac, true)+",", cur, 23)
	cur = padTo(&sb, fmt.Sprintf(" BR=0o%o,", cpu.br), cur, 11)
	value, ok := cpu.mem.Read(addr)
	padTo(&sb, " Core@"+cpu.addrString(addr)+"="+cpu.wordString(value, ok), cur, 20)
	if (cpu.debug & DebugLong) != 0 {
		fmt.Fprintf(&sb, " AR=%s, BR=%s, SAM=%do  nextPC=%s", cpu.wordString(cpu.ar, true),
			cpu.wordString(cpu.br, true), cpu.sam, cpu.addrString(cpu.pc))
	}
	line := sb.String()
	if cpu.color && op.color != colorNone {
		line = colorCode[op.color] + line + colorDefault
	}
	t.Text = strings.TrimRight(line, " ")
	if t.Comment != "" {
		t.Text = line + "  ; " + t.Comment
	}
	return t
}

// Register and binding state of the CPU.
type Snapshot struct {
	PC     W.Address
	AC     W.Word
	BR     W.Word
	AR     W.Word
	SAM    W.Sam
	GroupA int
	GroupB int
	ISA    string
	Device string
	Cycles int64
	Usec   int64
}

var printer = pp.New()

func init() {
	printer.SetColoringEnabled(false)
}

func (cpu *CPU) Snapshot() Snapshot {
	s := Snapshot{
		PC:     cpu.pc,
		AC:     cpu.ac,
		BR:     cpu.br,
		AR:     cpu.ar,
		SAM:    cpu.sam,
		ISA:    cpu.isa.String(),
		Cycles: cpu.cycles,
		Usec:   cpu.usec,
	}
	s.GroupA, s.GroupB = cpu.mem.Groups()
	if cpu.io != nil {
		if d := cpu.io.Selected(); d != nil {
			s.Device = d.Name()
		}
	}
	return s
}

// Same fields without methods, so the printer walks the struct.
type snapshotView Snapshot

// Pretty printed form for dumps.
func (s Snapshot) String() string {
	return printer.Sprint(snapshotView(s))
}

// Register line in trace style.
func (s Snapshot) Registers() string {
	return fmt.Sprintf("PC=0o%04o AC=%s BR=%s AR=%s SAM=%d GroupA=%d GroupB=%d",
		s.PC, s.AC, s.BR, s.AR, s.SAM, s.GroupA, s.GroupB)
}
