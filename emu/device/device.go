/*
 * WWSim - I/O device interface.
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

package device

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/gfedorkow/Whirlwind-Instruction-Simulator-sub000/emu/alarm"
	W "github.com/gfedorkow/Whirlwind-Instruction-Simulator-sub000/emu/word"
	"github.com/gfedorkow/Whirlwind-Instruction-Simulator-sub000/util/debug"
)

// Memory access given to devices for the duration of one call.
type Memory interface {
	Read(addr W.Address) (W.Word, bool)
	ReadOrZero(addr W.Address) W.Word
	Write(addr W.Address, value W.Word, force bool) bool
}

// Interface for devices to handle I/O instructions.
type Device interface {
	Name() string
	Claims(addr W.Address) bool
	Select(addr W.Address, ac W.Word, mem Memory) alarm.Alarm
	Record(operand W.Word, ac W.Word) (alarm.Alarm, string)
	Read(operand W.Word, ac W.Word) (alarm.Alarm, W.Word)
	BlockIn(addr W.Address, count W.Word, mem Memory) alarm.Alarm
	BlockOut(addr W.Address, count W.Word, mem Memory) alarm.Alarm
}

// Devices with background work run by the poll hook.
type Poller interface {
	Poll()
}

// Devices that accept debug options.
type Debugger interface {
	SetDebug(mask int)
}

// Devices that produce printable output at end of run.
type Transcriber interface {
	Transcript() string
}

// Debug options.
const (
	DebugCmd = 1 << iota
	DebugData
	DebugDetail
)

var debugOption = map[string]int{
	"CMD":    DebugCmd,
	"DATA":   DebugData,
	"DETAIL": DebugDetail,
}

var ErrDebugOption = errors.New("device debug option invalid")

// Return mask for a device debug option.
func DebugMask(opt string) (int, error) {
	flag, ok := debugOption[strings.ToUpper(opt)]
	if !ok {
		return 0, fmt.Errorf("%w: %s", ErrDebugOption, opt)
	}
	return flag, nil
}

// Check that block transfer stays inside the address space.
func CheckBlock(addr W.Address, count W.Word) alarm.Alarm {
	if int(addr)+int(count&W.AddrMask) > int(W.AddrMask) {
		return alarm.QuitAlarm
	}
	return alarm.NoAlarm
}

// Base supplies defaults for every operation a device does not support.
type Base struct {
	name     string
	log      *slog.Logger
	debugMsk int
}

func NewBase(name string, log *slog.Logger) Base {
	if log == nil {
		log = slog.Default()
	}
	return Base{name: name, log: log}
}

func (b *Base) Name() string {
	return b.name
}

func (b *Base) Logger() *slog.Logger {
	return b.log
}

func (b *Base) SetDebug(mask int) {
	b.debugMsk |= mask
}

// Debug message gated on device debug mask.
func (b *Base) Debugf(level int, format string, a ...interface{}) {
	debug.DebugDevf(b.name, b.debugMsk, level, format, a...)
}

func (b *Base) unimplemented(op string) {
	b.log.Warn(fmt.Sprintf("unimplemented %s %s", b.name, op))
}

func (b *Base) Select(_ W.Address, _ W.Word, _ Memory) alarm.Alarm {
	b.unimplemented("Select")
	return alarm.UnimplementedAlarm
}

func (b *Base) Record(_ W.Word, _ W.Word) (alarm.Alarm, string) {
	b.unimplemented("Record")
	return alarm.UnimplementedAlarm, ""
}

func (b *Base) Read(_ W.Word, _ W.Word) (alarm.Alarm, W.Word) {
	b.unimplemented("Read")
	return alarm.UnimplementedAlarm, 0
}

func (b *Base) BlockIn(_ W.Address, _ W.Word, _ Memory) alarm.Alarm {
	b.unimplemented("Block Transfer In")
	return alarm.UnimplementedAlarm
}

func (b *Base) BlockOut(_ W.Address, _ W.Word, _ Memory) alarm.Alarm {
	b.unimplemented("Block Transfer Out")
	return alarm.UnimplementedAlarm
}
