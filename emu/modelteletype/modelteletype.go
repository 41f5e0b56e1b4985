/*
 * WWSim - Teletype printer.
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

package modelteletype

import (
	"log/slog"
	"strings"

	"github.com/gfedorkow/Whirlwind-Instruction-Simulator-sub000/emu/alarm"
	dev "github.com/gfedorkow/Whirlwind-Instruction-Simulator-sub000/emu/device"
	W "github.com/gfedorkow/Whirlwind-Instruction-Simulator-sub000/emu/word"
)

const (
	ttyAddress W.Address = 0o402

	figureShift = 0o33
	letterShift = 0o37
)

var letters = [32]string{
	"<null>", "T", "\n", "O", " ", "H", "N", "M",
	"lf", "L", "R", "G", "I", "P", "C", "V",
	"E", "Z", "D", "B", "S", "Y", "F", "X",
	"A", "W", "J", "fs", "U", "Q", "K", "ls",
}

var figures = [32]string{
	"00", "5", "\n", "9", " ", "#", "7/8", ".",
	"lf", "3/4", "4", "&", "8", "0", "1/8", "3/8",
	"3", "\"", "$", "5/8", "^g", "6", "1/4", "/",
	"-", "2", "'", "fs", "7", "1", "1/2", "ls",
}

type Teletypectx struct {
	dev.Base
	figures bool // Figure shift in effect.
	output  strings.Builder
}

func NewTeletype(log *slog.Logger) *Teletypectx {
	return &Teletypectx{Base: dev.NewBase("Teletype", log)}
}

func (device *Teletypectx) Claims(addr W.Address) bool {
	return addr == ttyAddress
}

// Nothing to configure.
func (device *Teletypectx) Select(_ W.Address, _ W.Word, _ dev.Memory) alarm.Alarm {
	return alarm.NoAlarm
}

// Unpack three five bit codes, high order first.
func (device *Teletypectx) decode(w W.Word) string {
	str := ""
	for shift := 2; shift >= 0; shift-- {
		code := int(w>>(shift*5)) & 0o37
		switch code {
		case figureShift:
			device.figures = true
		case letterShift:
			device.figures = false
		default:
			if device.figures {
				str += figures[code]
			} else {
				str += letters[code]
			}
		}
	}
	return str
}

func (device *Teletypectx) Record(_ W.Word, ac W.Word) (alarm.Alarm, string) {
	symbol := device.decode(ac)
	device.output.WriteString(symbol)
	device.Debugf(dev.DebugData, "record 0o%06o '%s'", uint16(ac), symbol)
	return alarm.NoAlarm, symbol
}

func (device *Teletypectx) Transcript() string {
	return device.output.String()
}
