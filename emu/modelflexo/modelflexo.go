/*
 * WWSim - Flexowriter printer.
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

package modelflexo

import (
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/gfedorkow/Whirlwind-Instruction-Simulator-sub000/emu/alarm"
	dev "github.com/gfedorkow/Whirlwind-Instruction-Simulator-sub000/emu/device"
	W "github.com/gfedorkow/Whirlwind-Instruction-Simulator-sub000/emu/word"
)

const (
	baseAddress W.Address = 0o224
	addrMask    W.Address = 0o013

	selectFlexo3 W.Address = 0o010 // Printer #3, not installed.
	stopOnZero   W.Address = 0o001
	packedMode   W.Address = 0o002

	CodeUpper   = 0o71
	CodeLower   = 0o75
	CodeColor   = 0o20
	CodeNullify = 0o77
)

const (
	colorRed   = "\033[1;31m"
	colorReset = "\033[0m"
)

var lowerCase = [64]string{
	"#", "#", "e", "8", "#", "|", "a", "3",
	" ", "=", "s", "4", "i", "+", "u", "2",
	"<color>", ".", "d", "5", "r", "1", "j", "7",
	"n", ",", "f", "6", "c", "-", "k", "#",
	"t", "#", "z", "<bs>", "l", "\t", "w", "#",
	"h", "\n", "y", "#", "p", "#", "q", "#",
	"o", "<stop>", "b", "#", "g", "#", "9", "#",
	"m", "<upper>", "x", "#", "v", "<lower>", "0", "<del>",
}

var upperCase = [64]string{
	"#", "#", "E", "8", "#", "_", "A", "3",
	" ", ":", "S", "4", "I", "/", "U", "2",
	"<color>", ")", "D", "5", "R", "1", "J", "7",
	"N", "(", "F", "6", "C", "-", "K", "#",
	"T", "#", "Z", "<bs>", "L", "\t", "W", "#",
	"H", "\n", "Y", "#", "P", "#", "Q", "#",
	"O", "<stop>", "B", "#", "G", "#", "9", "#",
	"M", "<upper>", "X", "#", "V", "<lower>", "0", "<del>",
}

// Translator turns six bit Flexowriter codes into text. Case and ribbon
// colour shifts are remembered between calls.
type Translator struct {
	upper     bool
	color     bool
	ansi      bool // Emit escape sequences on colour shift.
	NullCount int  // Number of nullify codes seen.
}

// Translator that emits terminal colour changes.
func NewTranslator(ansi bool) *Translator {
	return &Translator{ansi: ansi}
}

// Convert one code. With showUnprintable set newlines, tabs and nulls are
// spelled out and control codes show as <cntl>.
func (tr *Translator) Letter(code int, showUnprintable bool) string {
	code &= 0o77
	ret := ""
	if code == CodeNullify {
		tr.NullCount++
	}

	switch {
	case code == CodeUpper:
		tr.upper = true
	case code == CodeLower:
		tr.upper = false
	case code == CodeColor && !showUnprintable:
		tr.color = !tr.color
		if !tr.ansi {
			return ""
		}
		if tr.color {
			return colorRed
		}
		return colorReset
	case tr.upper:
		ret = upperCase[code]
	default:
		ret = lowerCase[code]
	}

	if showUnprintable {
		switch {
		case ret == "\n":
			ret = "\\n"
		case ret == "\t":
			ret = "\\t"
		case code == 0:
			ret = "\\0"
		case ret == "":
			ret = "<cntl>"
		}
	}
	return ret
}

// Translate a whole word, the code is in the top six bits.
func (tr *Translator) Word(w W.Word, showUnprintable bool) string {
	return tr.Letter(int(w>>10), showUnprintable)
}

type Flexoctx struct {
	dev.Base
	tr         *Translator
	stopOnZero bool
	output     strings.Builder // Everything printed.
	line       strings.Builder // Current line.
	echo       io.Writer       // Completed lines, nil for none.
}

func NewFlexo(log *slog.Logger) *Flexoctx {
	return &Flexoctx{Base: dev.NewBase("Flexowriter", log), tr: NewTranslator(false)}
}

// Send ribbon colour changes to the output as escape sequences.
func (device *Flexoctx) SetColor(ansi bool) {
	device.tr.ansi = ansi
}

// Print each completed line on w.
func (device *Flexoctx) SetEcho(w io.Writer) {
	device.echo = w
}

func (device *Flexoctx) Claims(addr W.Address) bool {
	return (addr &^ addrMask) == baseAddress
}

func (device *Flexoctx) Select(addr W.Address, _ W.Word, _ dev.Memory) alarm.Alarm {
	if (addr & selectFlexo3) != 0 {
		device.Logger().Warn("Printer #3 not implemented")
		return alarm.UnimplementedAlarm
	}
	device.stopOnZero = (addr & stopOnZero) != 0
	if (addr & packedMode) != 0 {
		device.Logger().Warn("Flexowriter packed mode not implemented")
		return alarm.UnimplementedAlarm
	}
	device.Debugf(dev.DebugCmd, "configure flexowriter #2, stop_on_zero=%v", device.stopOnZero)
	return alarm.NoAlarm
}

// Print character in top six bits of AC.
func (device *Flexoctx) Record(_ W.Word, ac W.Word) (alarm.Alarm, string) {
	symbol := device.tr.Word(ac, false)
	device.output.WriteString(symbol)
	device.line.WriteString(symbol)
	if symbol == "\n" {
		line := strings.TrimSuffix(device.line.String(), "\n")
		device.Logger().Info("Flexo: " + line)
		if device.echo != nil {
			fmt.Fprintln(device.echo, line)
		}
		device.line.Reset()
		return alarm.NoAlarm, "\\n"
	}
	device.Debugf(dev.DebugData, "record 0o%02o '%s'", int(ac>>10), symbol)
	return alarm.NoAlarm, symbol
}

func (device *Flexoctx) BlockOut(addr W.Address, count W.Word, mem dev.Memory) alarm.Alarm {
	if a := dev.CheckBlock(addr, count); a != alarm.NoAlarm {
		device.Logger().Warn("block-transfer-out Flexo address out of range")
		return a
	}
	str := ""
	n := W.Address(count & W.AddrMask)
	for m := addr; m < addr+n; m++ {
		_, symbol := device.Record(0, mem.ReadOrZero(m))
		str += symbol
	}
	device.Debugf(dev.DebugCmd, "Block Transfer Write to Flexo: start address=0o%o, length=0o%o, str=%s",
		addr, n, str)
	return alarm.NoAlarm
}

// Everything printed during the run.
func (device *Flexoctx) Transcript() string {
	return device.output.String()
}
