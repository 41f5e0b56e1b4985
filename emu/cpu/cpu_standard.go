/*
 * WWSim - Whirlwind data and arithmetic instructions.
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

	"github.com/gfedorkow/Whirlwind-Instruction-Simulator-sub000/emu/alarm"
	"github.com/gfedorkow/Whirlwind-Instruction-Simulator-sub000/emu/switches"
	W "github.com/gfedorkow/Whirlwind-Instruction-Simulator-sub000/emu/word"
	"github.com/gfedorkow/Whirlwind-Instruction-Simulator-sub000/util/debug"
)

// Build the opcode tables for both instruction sets.
func (cpu *CPU) createTable() {
	cpu.isa1958 = [32]opEntry{
		{"SI", "Select Input", opParameter, 30, colorIO, cpu.opSI, nil},                            // 00
		{"unused", "unused", opUnused, 0, colorNone, cpu.opUnused, nil},                           // 01
		{"BI", "Block Transfer In", opWriteData, 8000, colorIO, cpu.opBI, nil},                    // 02
		{"RD", "Read", opParameter, 15, colorIO, cpu.opRD, nil},                                   // 03
		{"BO", "Block Transfer Out", opReadData, 8000, colorIO, cpu.opBO, nil},                    // 04
		{"RC", "Record", opParameter, 22, colorIO, cpu.opRC, nil},                                 // 05
		{"SD", "Sum Digits", opReadData, 22, colorNone, cpu.opSD, nil},                            // 06
		{"CF", "Change Fields", opParameter, 15, colorCF, cpu.opCF, nil},                          // 07
		{"TS", "Transfer to Storage", opWriteData, 0, colorNone, cpu.opTS, nil},                   // 10
		{"TD", "Transfer Digits", opReadWriteData, 0, colorNone, cpu.opTD, nil},                   // 11
		{"TA", "Transfer Address", opReadWriteData, 0, colorNone, cpu.opTA, nil},                  // 12
		{"CK", "Check", opReadData, 0, colorNone, cpu.opCK, nil},                                  // 13
		{"AB", "Add B Reg", opReadWriteData, 0, colorNone, cpu.opAB, nil},                         // 14
		{"EX", "Exchange", opReadWriteData, 0, colorNone, cpu.opEX, nil},                          // 15
		{"CP", "Conditional program", opJump, 14, colorBranch, cpu.opCP, nil},                     // 16
		{"SP", "Subprogram", opJump, 15, colorBranch, cpu.opSP, nil},                              // 17
		{"CA", "Clear and add", opReadData, 0, colorNone, cpu.opCA, nil},                          // 20
		{"CS", "Clear and subtract", opReadData, 0, colorNone, cpu.opCS, nil},                     // 21
		{"AD", "Add to AC", opReadData, 0, colorNone, cpu.opAD, nil},                              // 22
		{"SU", "Subtract", opReadData, 0, colorNone, cpu.opSU, nil},                               // 23
		{"CM", "Clear and add Magnitude", opReadData, 0, colorNone, cpu.opCM, nil},                // 24
		{"SA", "Special Add", opReadData, 0, colorNone, cpu.opSA, nil},                            // 25
		{"AO", "Add One", opReadWriteData, 0, colorNone, cpu.opAO, nil},                           // 26
		{"DM", "Difference of Magnitudes", opReadData, 0, colorNone, cpu.opDM, nil},               // 27
		{"MR", "Multiply & Round", opReadData, 0, colorNone, cpu.opMR, nil},                       // 30
		{"MH", "Multiply & Hold", opReadData, 0, colorNone, cpu.opMH, nil},                        // 31
		{"DV", "Divide", opReadData, 0, colorNone, cpu.opDV, nil},                                 // 32
		{"SL", "Shift Left Hold/Roundoff", opParameter, 0, colorNone, cpu.opSL, shiftLeft},        // 33
		{"SR", "Shift Right Hold/Roundoff", opParameter, 0, colorNone, cpu.opSR, shiftRight},      // 34
		{"SF", "Scale Factor", opReadWriteData, 0, colorNone, cpu.opSF, nil},                      // 35
		{"CL", "Cycle Left", opParameter, 0, colorNone, cpu.opCL, cycleLeft},                      // 36
		{"MD", "Multiply Digits (AND)", opReadData, 0, colorNone, cpu.opMD, nil},                  // 37
	}

	// Only the first eight codes, 014 and the unused codes differ.
	cpu.isa1950 = cpu.isa1958
	cpu.isa1950[0o0] = opEntry{"RI", "Select Input", opParameter, 30, colorIO, cpu.opRemote, nil}
	cpu.isa1950[0o1] = opEntry{"RS", "Remote Unit Stop", opParameter, 0, colorIO, cpu.opRemote, nil}
	cpu.isa1950[0o2] = opEntry{"RF", "Run Forward", opParameter, 8000, colorIO, cpu.opRemote, nil}
	cpu.isa1950[0o3] = opEntry{"RB", "Run Backward", opParameter, 15, colorIO, cpu.opRemote, nil}
	cpu.isa1950[0o4] = opEntry{"RD", "Read", opReadData, 8000, colorIO, cpu.opRD, nil}
	cpu.isa1950[0o5] = opEntry{"RC", "Record", opParameter, 22, colorIO, cpu.opRC, nil}
	cpu.isa1950[0o6] = opEntry{"QH", "Display Horizontal", opWriteData, 22, colorIO, cpu.opQH, nil}
	cpu.isa1950[0o7] = opEntry{"QD", "Display Point", opWriteData, 0, colorIO, cpu.opQD, nil}
	cpu.isa1950[0o14] = opEntry{"QF", "Display Point F-Scope", opWriteData, 0, colorIO, cpu.opQF, nil}
	cpu.isa1950[0o27] = opEntry{"UN27", "Unused 0o27", opUnused, 0, colorNone, cpu.opUnused, nil}
	cpu.isa1950[0o33] = opEntry{"SL", "Shift Left Roundoff", opParameter, 0, colorNone, cpu.opSL, nil}
	cpu.isa1950[0o34] = opEntry{"SR", "Shift Right Roundoff", opParameter, 0, colorNone, cpu.opSR, nil}
	cpu.isa1950[0o36] = opEntry{"UN36", "Unused 0o36", opUnused, 0, colorNone, cpu.opUnused, nil}
	cpu.isa1950[0o37] = opEntry{"UN37", "Unused 0o37", opUnused, 0, colorNone, cpu.opUnused, nil}

	cpu.table = &cpu.isa1958
	if cpu.isa == ISA1950 {
		cpu.table = &cpu.isa1950
	}
}

func (cpu *CPU) aluf(format string, a ...interface{}) {
	debug.Debugf("CPU", cpu.debug, DebugALU, format, a...)
}

// Transfer to storage.
func (cpu *CPU) opTS(_ W.Address, addr W.Address) alarm.Alarm {
	cpu.mem.Write(addr, cpu.ac, false)
	return alarm.NoAlarm
}

// Transfer digits, low 11 bits of AC into register x.
func (cpu *CPU) opTD(_ W.Address, addr W.Address) alarm.Alarm {
	m, a := cpu.operand(addr)
	if a != alarm.NoAlarm {
		return a
	}
	cpu.mem.Write(addr, (m&^W.AddrMask)|(cpu.ac&W.AddrMask), false)
	return alarm.NoAlarm
}

// Transfer address, low 11 bits of AR into register x.
func (cpu *CPU) opTA(_ W.Address, addr W.Address) alarm.Alarm {
	m, a := cpu.operand(addr)
	if a != alarm.NoAlarm {
		return a
	}
	cpu.mem.Write(addr, (m&^W.AddrMask)|(cpu.ar&W.AddrMask), false)
	return alarm.NoAlarm
}

// Check, register x must equal AC.
func (cpu *CPU) opCK(pc W.Address, addr W.Address) alarm.Alarm {
	m, a := cpu.operand(addr)
	if a != alarm.NoAlarm {
		return a
	}
	if m == cpu.ac {
		return alarm.NoAlarm
	}
	if cpu.sw == nil || cpu.sw.Value(switches.CheckAlarmSpecial) == 0 {
		return alarm.CheckAlarm
	}
	// Special mode skips the next instruction instead of alarming.
	cpu.pc = W.Word(cpu.pc + 1).Addr()
	cpu.log.Info(fmt.Sprintf("Check Special Instruction at 0o%o going to addr=0o%o", pc, cpu.pc))
	return alarm.NoAlarm
}

// Clear and add.
func (cpu *CPU) opCA(_ W.Address, addr W.Address) alarm.Alarm {
	m, a := cpu.operand(addr)
	if a != alarm.NoAlarm {
		return a
	}
	sum, _, a := W.Add(0, m, cpu.sam, false)
	cpu.ac = sum
	cpu.ar = m
	cpu.br = 0
	cpu.sam = 0
	return a
}

// Clear and subtract.
func (cpu *CPU) opCS(_ W.Address, addr W.Address) alarm.Alarm {
	m, a := cpu.operand(addr)
	if a != alarm.NoAlarm {
		return a
	}
	sum, _, a := W.Add(0, W.Negate(m), cpu.sam, false)
	cpu.ac = sum
	cpu.ar = m
	cpu.br = 0
	cpu.sam = 0
	return a
}

// Clear and add magnitude.
func (cpu *CPU) opCM(_ W.Address, addr W.Address) alarm.Alarm {
	m, a := cpu.operand(addr)
	if a != alarm.NoAlarm {
		return a
	}
	m = m.Magnitude()
	sum, _, a := W.Add(0, m, cpu.sam, false)
	cpu.ac = sum
	cpu.ar = m
	cpu.br = 0
	cpu.sam = 0
	return a
}

// Add register x to AC.
func (cpu *CPU) opAD(_ W.Address, addr W.Address) alarm.Alarm {
	m, a := cpu.operand(addr)
	if a != alarm.NoAlarm {
		return a
	}
	sum, _, a := W.Add(cpu.ac, m, 0, false)
	cpu.aluf("ad: %s + %s = %s", cpu.ac, m, sum)
	cpu.ac = sum
	cpu.ar = m
	cpu.sam = 0
	return a
}

// Subtract register x from AC.
func (cpu *CPU) opSU(_ W.Address, addr W.Address) alarm.Alarm {
	m, a := cpu.operand(addr)
	if a != alarm.NoAlarm {
		return a
	}
	sum, _, a := W.Add(cpu.ac, W.Negate(m), 0, false)
	cpu.aluf("su: %s - %s = %s", cpu.ac, m, sum)
	cpu.ac = sum
	cpu.ar = m
	cpu.sam = 0
	return a
}

// Special add, overflow is saved in SAM for the next clear and add.
func (cpu *CPU) opSA(_ W.Address, addr W.Address) alarm.Alarm {
	m, a := cpu.operand(addr)
	if a != alarm.NoAlarm {
		return a
	}
	sum, sam, a := W.Add(cpu.ac, m, 0, true)
	cpu.aluf("sa: %s + %s = %s, SAM=%d", cpu.ac, m, sum, sam)
	cpu.ac = sum
	cpu.sam = sam
	cpu.ar = m
	return a
}

// Add one to register x, result in AC and register x.
func (cpu *CPU) opAO(_ W.Address, addr W.Address) alarm.Alarm {
	m := cpu.operandOrZero(addr, "AO")
	sum, _, a := W.Add(1, m, 0, false)
	cpu.ac = sum
	cpu.mem.Write(addr, sum, false)
	cpu.ar = m
	cpu.sam = 0
	return a
}

// Add BR to register x, result in AC and register x.
func (cpu *CPU) opAB(_ W.Address, addr W.Address) alarm.Alarm {
	m, a := cpu.operand(addr)
	if a != alarm.NoAlarm {
		return a
	}
	sum, _, a := W.Add(cpu.br, m, 0, false)
	cpu.ac = sum
	cpu.mem.Write(addr, sum, false)
	cpu.ar = m
	cpu.sam = 0
	return a
}

// Exchange AC and register x.
func (cpu *CPU) opEX(pc W.Address, addr W.Address) alarm.Alarm {
	m, a := cpu.operand(addr)
	if a != alarm.NoAlarm {
		return a
	}
	cpu.mem.Write(addr, cpu.ac, false)
	cpu.ac = m
	cpu.ar = m
	if addr == 0 && m != 0 {
		cpu.log.Warn(fmt.Sprintf("EX instruction @0o%o: location 0 should be zero, but it's 0o%o", pc, m))
	}
	return alarm.NoAlarm
}

// Difference of magnitudes.
func (cpu *CPU) opDM(_ W.Address, addr W.Address) alarm.Alarm {
	m, a := cpu.operand(addr)
	if a != alarm.NoAlarm {
		return a
	}
	x := m.Magnitude()
	sum, _, a := W.Add(cpu.ac.Magnitude(), W.Negate(x), 0, false)
	cpu.aluf("dm: |%s| - |%s| = %s", cpu.ac, m, sum)
	cpu.br = cpu.ac
	cpu.ac = sum
	cpu.ar = x
	cpu.sam = 0
	return a
}

// Multiply and round to 15 bits.
func (cpu *CPU) opMR(_ W.Address, addr W.Address) alarm.Alarm {
	m, a := cpu.operand(addr)
	if a != alarm.NoAlarm {
		return a
	}
	hi, lo := W.Multiply(cpu.ac, m)
	if (lo & W.Bit0) != 0 {
		hi, _, a = W.Add(hi, 1, 0, false)
	}
	cpu.aluf("mr: %s * %s = %s", cpu.ac, m, hi)
	cpu.ac = hi
	cpu.ar = m.Magnitude()
	cpu.br = 0
	cpu.sam = 0
	return a
}

// Multiply and hold, double length product in AC and BR.
func (cpu *CPU) opMH(_ W.Address, addr W.Address) alarm.Alarm {
	m, a := cpu.operand(addr)
	if a != alarm.NoAlarm {
		return a
	}
	hi, lo := W.Multiply(cpu.ac, m)
	cpu.aluf("mh: %s * %s = %s:%s", cpu.ac, m, hi, lo)
	cpu.ac = hi
	cpu.ar = m.Magnitude()
	cpu.br = lo
	cpu.sam = 0
	return alarm.NoAlarm
}

// Divide, quotient left in BR.
func (cpu *CPU) opDV(_ W.Address, addr W.Address) alarm.Alarm {
	m, a := cpu.operand(addr)
	if a != alarm.NoAlarm {
		return a
	}
	ac, br, a := W.Divide(cpu.ac, m)
	cpu.aluf("dv: %s / %s = %s:%s", cpu.ac, m, ac, br)
	if a != alarm.NoAlarm {
		return a
	}
	cpu.ac = ac
	cpu.br = br
	cpu.ar = m.Magnitude()
	cpu.sam = 0
	return alarm.NoAlarm
}

// Multiply digits, bitwise and.
func (cpu *CPU) opMD(_ W.Address, addr W.Address) alarm.Alarm {
	m := cpu.mem.ReadOrZero(addr)
	cpu.ac &= m
	cpu.ar = ^cpu.ac
	return alarm.NoAlarm
}

// Sum digits, bitwise exclusive or.
func (cpu *CPU) opSD(_ W.Address, addr W.Address) alarm.Alarm {
	m := cpu.mem.ReadOrZero(addr)
	cpu.ac ^= m
	cpu.sam = 0
	cpu.aluf("sd: AC=%s, Core=%s", cpu.ac, m)
	return alarm.NoAlarm
}

// Shift with roundoff, or hold when bit 6 set on the 1958 machine.
func (cpu *CPU) shift(addr W.Address, dir W.Direction) alarm.Alarm {
	n := int(addr & 0o37)
	hold := (W.Word(addr)&W.Bit6) != 0 && cpu.isa != ISA1950
	ac, br, a := W.Shift(cpu.ac, cpu.br, n, dir, hold)
	cpu.aluf("shift: n=%d hold=%t %s:%s -> %s:%s", n, hold, cpu.ac, cpu.br, ac, br)
	cpu.ac = ac
	cpu.br = br
	cpu.sam = 0
	return a
}

func (cpu *CPU) opSR(_ W.Address, addr W.Address) alarm.Alarm {
	return cpu.shift(addr, W.Right)
}

func (cpu *CPU) opSL(_ W.Address, addr W.Address) alarm.Alarm {
	return cpu.shift(addr, W.Left)
}

// Cycle left, clear BR unless bit 6 selects hold.
func (cpu *CPU) opCL(_ W.Address, addr W.Address) alarm.Alarm {
	n := int(addr & 0o37)
	hold := (W.Word(addr) & W.Bit6) != 0
	ac, br := W.CycleLeft(cpu.ac, cpu.br, n, hold)
	cpu.aluf("cycle: n=%d hold=%t %s:%s -> %s:%s", n, hold, cpu.ac, cpu.br, ac, br)
	cpu.ac = ac
	cpu.br = br
	return alarm.NoAlarm
}

// Scale factor, normalize AC:BR and store the shift count.
func (cpu *CPU) opSF(pc W.Address, addr W.Address) alarm.Alarm {
	cpu.log.Info(fmt.Sprintf("Scale Factor Instruction near PC=0o%o", pc))
	ac, br := cpu.ac, cpu.br
	negative := ac.IsNegative()
	if negative {
		ac = W.Negate(ac)
	}

	n := 0
	for n < 32 && (ac&W.Bit1) == 0 {
		ac, br, _ = W.Shift(ac, br, 1, W.Left, true)
		n++
	}
	if negative {
		ac = W.Negate(ac)
	}

	m := cpu.operandOrZero(addr, "SF")
	cpu.mem.Write(addr, (m&^W.AddrMask)|W.Word(n), false)
	cpu.aluf("sf: AC=%s, n=0o%o, oldCore=%s", ac, n, m)
	cpu.ac = ac
	cpu.br = br
	cpu.ar = W.Word(n)
	cpu.sam = 0
	return alarm.NoAlarm
}

// Unused operation code.
func (cpu *CPU) opUnused(pc W.Address, _ W.Address) alarm.Alarm {
	inst := cpu.mem.ReadOrZero(pc)
	cpu.log.Warn(fmt.Sprintf("unimplemented opcode 0o%o at 0o%o", inst.Opcode(), pc))
	return alarm.UnimplementedAlarm
}
