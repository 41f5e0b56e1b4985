/*
 * WWSim - Photoelectric paper tape reader.
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

package modelpetr

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"

	config "github.com/gfedorkow/Whirlwind-Instruction-Simulator-sub000/config/configparser"
	"github.com/gfedorkow/Whirlwind-Instruction-Simulator-sub000/emu/alarm"
	"github.com/gfedorkow/Whirlwind-Instruction-Simulator-sub000/emu/coreimage"
	dev "github.com/gfedorkow/Whirlwind-Instruction-Simulator-sub000/emu/device"
	W "github.com/gfedorkow/Whirlwind-Instruction-Simulator-sub000/emu/word"
)

const (
	baseAddress W.Address = 0o210
	addrMask    W.Address = 0o003

	selectB    W.Address = 0o001
	selectWord W.Address = 0o002
)

// One reader and the tape mounted on it. The tape is read in full on
// first selection and cannot be rewound.
type reader struct {
	file   string
	tape   []W.Word
	loaded bool
	offset int
}

type PETRctx struct {
	dev.Base
	units    [2]reader
	unit     int // 0 for A, 1 for B.
	wordMode bool
	load     func(name string, log *slog.Logger) ([]W.Word, error)
}

func NewPETR(log *slog.Logger) *PETRctx {
	return &PETRctx{Base: dev.NewBase("PhotoElectricTapeReader", log), load: coreimage.LoadTape}
}

// Set tape image files for readers A and B.
func (device *PETRctx) SetFiles(a, b string) {
	device.units[0].file = a
	device.units[1].file = b
}

func unitName(unit int) string {
	return string(rune('A' + unit))
}

func (device *PETRctx) Claims(addr W.Address) bool {
	return (addr &^ addrMask) == baseAddress
}

func (device *PETRctx) Select(addr W.Address, _ W.Word, _ dev.Memory) alarm.Alarm {
	device.unit = 0
	if (addr & selectB) != 0 {
		device.unit = 1
	}
	device.wordMode = (addr & selectWord) != 0

	u := &device.units[device.unit]
	if !u.loaded {
		if u.file == "" {
			device.Logger().Warn("No paper tape file for PETR " + unitName(device.unit))
			return alarm.IoErrorAlarm
		}
		tape, err := device.load(u.file, device.Logger())
		if err != nil {
			device.Logger().Warn(fmt.Sprintf("Can't open paper tape file %s: %v", u.file, err))
			return alarm.IoErrorAlarm
		}
		u.tape = tape
		u.loaded = true
		device.Logger().Info(fmt.Sprintf("Using file %s for PETR %s, length=%d characters",
			u.file, unitName(device.unit), len(tape)))
	}
	mode := "Char"
	if device.wordMode {
		mode = "Word"
	}
	device.Debugf(dev.DebugCmd, "SI: PhotoElectricTapeReader %s initialized in %s mode", unitName(device.unit), mode)
	return alarm.NoAlarm
}

// Next character from the tape in character mode.
func (device *PETRctx) Read(_ W.Word, _ W.Word) (alarm.Alarm, W.Word) {
	u := &device.units[device.unit]
	if device.wordMode {
		device.Logger().Warn(fmt.Sprintf("unimplemented rd: PhotoElectric Read from %s, mode Word", unitName(device.unit)))
		return alarm.UnimplementedAlarm, 0
	}
	if u.offset >= len(u.tape) {
		device.Logger().Warn(fmt.Sprintf("PETR Overrun at Offset %d", u.offset))
		return alarm.IoErrorAlarm, 0
	}
	ret := u.tape[u.offset]
	u.offset++
	device.Debugf(dev.DebugData, "RD: PhotoElectricTapeReader %s read character 0o%o", unitName(device.unit), ret)
	return alarm.NoAlarm, ret
}

// register paper tape files on initialize.
func init() {
	config.RegisterSettings("PETR", create)
}

// PETR a=<tape file> b=<tape file>
func create(cfg *config.Config, _ string, options []config.Option) error {
	for _, opt := range options {
		if opt.EqualOpt == "" {
			return errors.New("petr option requires file name: " + opt.Name)
		}
		switch strings.ToLower(opt.Name) {
		case "a":
			cfg.PetrA = opt.EqualOpt
		case "b":
			cfg.PetrB = opt.EqualOpt
		default:
			return errors.New("petr invalid option: " + opt.Name)
		}
	}
	return nil
}
