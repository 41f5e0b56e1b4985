/*
 * WWSim - Intervention, indicator light and in-out check registers.
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

package modelcontrol

import (
	"fmt"
	"log/slog"

	"github.com/gfedorkow/Whirlwind-Instruction-Simulator-sub000/emu/alarm"
	dev "github.com/gfedorkow/Whirlwind-Instruction-Simulator-sub000/emu/device"
	"github.com/gfedorkow/Whirlwind-Instruction-Simulator-sub000/emu/switches"
	W "github.com/gfedorkow/Whirlwind-Instruction-Simulator-sub000/emu/word"
)

const (
	interventionAddress W.Address = 0o300
	interventionMask    W.Address = 0o037
	indicatorAddress    W.Address = 0o510
	inOutCheckAddress   W.Address = 0o500
	registerMask        W.Address = 0o007
	cameraAddress       W.Address = 0o004
	cameraMask          W.Address = 0o001
)

// Source of switch register values.
type SwitchReader interface {
	Value(name string) W.Word
}

// Activate registers (0 and 1) and intervention toggle switch registers
// (2 to 037). Only the left and right manual registers return values.
type Interventionctx struct {
	dev.Base
	sw       SwitchReader
	activate bool
	reg      W.Address
}

var interventionName = map[W.Address]string{
	0o36: switches.LeftInterventionReg,
	0o37: switches.RightInterventionReg,
}

func NewIntervention(log *slog.Logger, sw SwitchReader) *Interventionctx {
	return &Interventionctx{Base: dev.NewBase("Intervention-and-Activate", log), sw: sw}
}

func (device *Interventionctx) Claims(addr W.Address) bool {
	return (addr &^ interventionMask) == interventionAddress
}

func (device *Interventionctx) Select(addr W.Address, _ W.Word, _ dev.Memory) alarm.Alarm {
	device.reg = addr & interventionMask
	device.activate = device.reg <= 1
	if device.activate {
		device.Debugf(dev.DebugCmd, "SI: configured Activate device %o", device.reg)
		return alarm.NoAlarm
	}
	name, ok := interventionName[device.reg]
	if !ok {
		name = fmt.Sprintf("Switch-%d", device.reg)
	}
	device.Debugf(dev.DebugCmd, "SI: configured Intervention device 0o%o  %s", device.reg, name)
	return alarm.NoAlarm
}

func (device *Interventionctx) Read(_ W.Word, _ W.Word) (alarm.Alarm, W.Word) {
	if !device.activate {
		if name, ok := interventionName[device.reg]; ok {
			return alarm.NoAlarm, device.sw.Value(name)
		}
	}
	device.Logger().Warn(fmt.Sprintf("unimplemented Intervention Register 0o%o Read; return Zero", device.reg))
	return alarm.NoAlarm, 0
}

// Simple register device, selection is remembered and reads give zero.
type Registerctx struct {
	dev.Base
	base W.Address
	reg  W.Address
}

func NewIndicatorLights(log *slog.Logger) *Registerctx {
	return &Registerctx{Base: dev.NewBase("Indicator Light Registers", log), base: indicatorAddress}
}

func NewInOutCheck(log *slog.Logger) *Registerctx {
	return &Registerctx{Base: dev.NewBase("In-Out Check Registers", log), base: inOutCheckAddress}
}

func (device *Registerctx) Claims(addr W.Address) bool {
	return (addr &^ registerMask) == device.base
}

func (device *Registerctx) Select(addr W.Address, _ W.Word, _ dev.Memory) alarm.Alarm {
	device.reg = addr & registerMask
	device.Debugf(dev.DebugCmd, "SI: configured %s device %o", device.Name(), device.reg)
	return alarm.NoAlarm
}

// Selected register.
func (device *Registerctx) Register() W.Address {
	return device.reg
}

func (device *Registerctx) Read(_ W.Word, _ W.Word) (alarm.Alarm, W.Word) {
	device.Logger().Warn(fmt.Sprintf("unimplemented %s Read; return Zero", device.Name()))
	return alarm.NoAlarm, 0
}

// Camera index control, each select moves the film one frame.
type Cameractx struct {
	dev.Base
	frames int
}

func NewCamera(log *slog.Logger) *Cameractx {
	return &Cameractx{Base: dev.NewBase("Camera Index Control", log)}
}

func (device *Cameractx) Claims(addr W.Address) bool {
	return (addr &^ cameraMask) == cameraAddress
}

func (device *Cameractx) Select(_ W.Address, _ W.Word, _ dev.Memory) alarm.Alarm {
	device.frames++
	device.Logger().Info(fmt.Sprintf("SI: Index Camera to next frame %d", device.frames))
	return alarm.NoAlarm
}

// Frames advanced.
func (device *Cameractx) Frames() int {
	return device.frames
}
