/*
 * WWSim - Test device for I/O instruction tests.
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
	"github.com/gfedorkow/Whirlwind-Instruction-Simulator-sub000/emu/alarm"
	dev "github.com/gfedorkow/Whirlwind-Instruction-Simulator-sub000/emu/device"
	W "github.com/gfedorkow/Whirlwind-Instruction-Simulator-sub000/emu/word"
)

type testDev struct {
	dev.Base
	addr     W.Address // Device address
	Data     []W.Word  // Data to read
	pos      int       // Pointer to input
	Recorded []W.Word  // Words written by RC and BO
	Selects  int       // Number of SI
	lastAC   W.Word    // AC at last SI
}

func newTestDev(addr W.Address) *testDev {
	return &testDev{Base: dev.NewBase("TestDev", quiet()), addr: addr}
}

func (d *testDev) Claims(addr W.Address) bool {
	return addr == d.addr
}

func (d *testDev) Select(_ W.Address, ac W.Word, _ dev.Memory) alarm.Alarm {
	d.Selects++
	d.pos = 0
	d.lastAC = ac
	return alarm.NoAlarm
}

func (d *testDev) Record(_ W.Word, ac W.Word) (alarm.Alarm, string) {
	d.Recorded = append(d.Recorded, ac)
	return alarm.NoAlarm, "rec"
}

func (d *testDev) Read(_ W.Word, _ W.Word) (alarm.Alarm, W.Word) {
	if d.pos >= len(d.Data) {
		return alarm.IoErrorAlarm, 0
	}
	v := d.Data[d.pos]
	d.pos++
	return alarm.NoAlarm, v
}

func (d *testDev) BlockIn(addr W.Address, count W.Word, mem dev.Memory) alarm.Alarm {
	if a := dev.CheckBlock(addr, count); a != alarm.NoAlarm {
		return a
	}
	for i := W.Address(0); i < W.Address(count&W.AddrMask); i++ {
		a, v := d.Read(0, 0)
		if a != alarm.NoAlarm {
			return a
		}
		mem.Write(addr+i, v, false)
	}
	return alarm.NoAlarm
}

func (d *testDev) BlockOut(addr W.Address, count W.Word, mem dev.Memory) alarm.Alarm {
	if a := dev.CheckBlock(addr, count); a != alarm.NoAlarm {
		return a
	}
	for i := W.Address(0); i < W.Address(count&W.AddrMask); i++ {
		d.Recorded = append(d.Recorded, mem.ReadOrZero(addr+i))
	}
	return alarm.NoAlarm
}

// Scope used by the 1950 display instructions.
type testScope struct {
	horizontal []W.Word
	points     []W.Word
	scopes     []int
}

func (s *testScope) SetHorizontal(ac W.Word) alarm.Alarm {
	s.horizontal = append(s.horizontal, ac)
	return alarm.NoAlarm
}

func (s *testScope) Display(ac W.Word, scope int) alarm.Alarm {
	s.points = append(s.points, ac)
	s.scopes = append(s.scopes, scope)
	return alarm.NoAlarm
}
