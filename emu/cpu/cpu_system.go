/*
 * WWSim - Whirlwind control, I/O and bank switch instructions.
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

	"github.com/gfedorkow/Whirlwind-Instruction-Simulator-sub000/emu/alarm"
	"github.com/gfedorkow/Whirlwind-Instruction-Simulator-sub000/emu/memory"
	W "github.com/gfedorkow/Whirlwind-Instruction-Simulator-sub000/emu/word"
	"github.com/gfedorkow/Whirlwind-Instruction-Simulator-sub000/util/debug"
)

// Change fields parameter bits.
const (
	cfGroupC   W.Address = 0o2000 // Spare, no Group C on this machine.
	cfReadBack W.Address = 0o1000 // Read bindings into AC.
	cfBranch   W.Address = 0o0400 // Swap AC and PC.
	cfChangeA  W.Address = 0o0200
	cfChangeB  W.Address = 0o0100
)

func (cpu *CPU) iof(format string, a ...interface{}) {
	debug.Debugf("CPU", cpu.debug, DebugIO, format, a...)
}

// Select input/output device, addresses 0 and 1 halt the machine.
func (cpu *CPU) opSI(pc W.Address, addr W.Address) alarm.Alarm {
	if addr == 0 || addr == 1 {
		cpu.log.Info(fmt.Sprintf("Halt Instruction! (Code=%o) at pc=0%o", addr, pc))
		return alarm.HaltAlarm
	}
	cpu.iof("SI: device 0o%o, AC=%s", addr, cpu.ac)
	if cpu.io == nil {
		return alarm.UnknownIoDeviceAlarm
	}
	return cpu.io.Select(addr, cpu.ac, cpu.mem)
}

// Record AC on the selected device.
func (cpu *CPU) opRC(_ W.Address, addr W.Address) alarm.Alarm {
	if cpu.io == nil {
		return alarm.UnknownIoDeviceAlarm
	}
	a, note := cpu.io.Record(cpu.mem.ReadOrZero(addr), cpu.ac)
	cpu.iof("RC: AC=%s %s", cpu.ac, note)
	cpu.note = note
	return a
}

// Read a word from the selected device into AC.
func (cpu *CPU) opRD(_ W.Address, addr W.Address) alarm.Alarm {
	if cpu.io == nil {
		return alarm.UnknownIoDeviceAlarm
	}
	a, value := cpu.io.Read(cpu.mem.ReadOrZero(addr), cpu.ac)
	cpu.iof("RD: value %s", value)
	if a != alarm.NoAlarm {
		return a
	}
	cpu.ac = value
	return alarm.NoAlarm
}

// Block transfer in, AC holds the word count.
func (cpu *CPU) opBI(_ W.Address, addr W.Address) alarm.Alarm {
	if cpu.io == nil {
		return alarm.UnknownIoDeviceAlarm
	}
	cpu.iof("BI: start 0o%o count %s", addr, cpu.ac)
	a := cpu.io.BlockIn(addr, cpu.ac, cpu.mem)
	cpu.ac += W.Word(addr)
	cpu.ar = W.Word(addr)
	return a
}

// Block transfer out, AC holds the word count.
func (cpu *CPU) opBO(_ W.Address, addr W.Address) alarm.Alarm {
	if cpu.io == nil {
		return alarm.UnknownIoDeviceAlarm
	}
	cpu.iof("BO: start 0o%o count %s", addr, cpu.ac)
	a := cpu.io.BlockOut(addr, cpu.ac, cpu.mem)
	cpu.ac += W.Word(addr)
	cpu.ar = W.Word(addr)
	return a
}

// Conditional program, branch when AC negative.
func (cpu *CPU) opCP(_ W.Address, addr W.Address) alarm.Alarm {
	cpu.ar = W.Word(cpu.pc)
	if cpu.ac.IsNegative() {
		cpu.pc = addr
	}
	return alarm.NoAlarm
}

// Subprogram, branch and leave return address in AR.
func (cpu *CPU) opSP(_ W.Address, addr W.Address) alarm.Alarm {
	cpu.ar = W.Word(cpu.pc)
	cpu.pc = addr
	return alarm.NoAlarm
}

// Change fields, rebind memory groups.
func (cpu *CPU) opCF(pc W.Address, pqr W.Address) alarm.Alarm {
	if (pqr&cfBranch) != 0 && (pqr&cfReadBack) != 0 {
		cpu.log.Warn(fmt.Sprintf("CF @0o%o reads PC and MemGroup both into AC", pc))
		return alarm.UnimplementedAlarm
	}
	if (pqr & cfGroupC) != 0 {
		cpu.log.Warn(fmt.Sprintf("CF @0o%o Group C not supported", pc))
	}

	oldA, oldB := cpu.mem.Groups()
	groupA, groupB := oldA, oldB
	if (pqr & cfChangeB) != 0 {
		groupB = int(pqr & 0o7)
	}
	if (pqr & cfChangeA) != 0 {
		groupA = int(pqr>>3) & 0o7
	}
	if groupA != oldA || groupB != oldB {
		err := cpu.mem.Bind(groupA, groupB)
		switch {
		case errors.Is(err, memory.ErrNoSuchBank):
			return alarm.UnimplementedAlarm
		case err != nil:
			// Bindings stay as they were.
		default:
			cpu.log.Info(fmt.Sprintf("CF @0o%o: Change MemGroup A from %o to %o, B from %o to %o",
				pc, oldA, groupA, oldB, groupB))
		}
	}

	if (pqr & cfBranch) != 0 {
		ret := cpu.pc
		cpu.pc = cpu.ac.Addr()
		cpu.ar = W.Word(ret)
		cpu.log.Info(fmt.Sprintf("CF @0o%o: Branch on bank change to 0o%o", pc, cpu.pc))
	}
	if (pqr & cfReadBack) != 0 {
		groupA, groupB = cpu.mem.Groups()
		cpu.ac = W.Word(groupB | groupA<<3)
		cpu.log.Info(fmt.Sprintf("CF @0o%o: Read Back Group Registers A|B = %02o", pc, cpu.ac))
	}
	return alarm.NoAlarm
}

// 1950 remote tape and input instructions.
func (cpu *CPU) opRemote(pc W.Address, _ W.Address) alarm.Alarm {
	inst := cpu.mem.ReadOrZero(pc)
	mnemonic, _ := cpu.table[inst.Opcode()].name(inst.Addr())
	cpu.log.Warn("unimplemented opcode " + mnemonic)
	return alarm.UnimplementedAlarm
}

// 1950 display horizontal position.
func (cpu *CPU) opQH(_ W.Address, addr W.Address) alarm.Alarm {
	cpu.mem.Write(addr, cpu.ac, false)
	if cpu.scope == nil {
		return alarm.UnknownIoDeviceAlarm
	}
	return cpu.scope.SetHorizontal(cpu.ac)
}

// 1950 display point on main scope.
func (cpu *CPU) opQD(_ W.Address, addr W.Address) alarm.Alarm {
	cpu.mem.Write(addr, cpu.ac, false)
	if cpu.scope == nil {
		return alarm.UnknownIoDeviceAlarm
	}
	return cpu.scope.Display(cpu.ac, mainScope)
}

// 1950 display point on F scope.
func (cpu *CPU) opQF(_ W.Address, addr W.Address) alarm.Alarm {
	cpu.mem.Write(addr, cpu.ac, false)
	if cpu.scope == nil {
		return alarm.UnknownIoDeviceAlarm
	}
	return cpu.scope.Display(cpu.ac, auxScope)
}
