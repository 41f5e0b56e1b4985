/*
 * WWSim - Core memory clear and flip flop reset devices.
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
	W "github.com/gfedorkow/Whirlwind-Instruction-Simulator-sub000/emu/word"
)

const (
	clearAddress   W.Address = 0o17
	ffResetAddress W.Address = 0o10
)

// Clear memory device, a block transfer in writes zeros.
//
//	si 17
//	ca count
//	bi start
type CoreClearctx struct {
	dev.Base
}

func NewCoreClear(log *slog.Logger) *CoreClearctx {
	return &CoreClearctx{Base: dev.NewBase("CoreClear", log)}
}

func (device *CoreClearctx) Claims(addr W.Address) bool {
	return addr == clearAddress
}

func (device *CoreClearctx) Select(_ W.Address, _ W.Word, _ dev.Memory) alarm.Alarm {
	device.Debugf(dev.DebugCmd, "SI: 'Clear Memory' device initialized")
	return alarm.NoAlarm
}

func (device *CoreClearctx) Read(_ W.Word, _ W.Word) (alarm.Alarm, W.Word) {
	device.Logger().Warn("unimplemented rd: Core Clear Read")
	return alarm.NoAlarm, 0
}

func (device *CoreClearctx) BlockIn(addr W.Address, count W.Word, mem dev.Memory) alarm.Alarm {
	n := W.Address(count & W.AddrMask)
	device.Debugf(dev.DebugCmd, "block transfer Clear Memory: start address 0o%o, length 0o%o", addr, n)
	if a := dev.CheckBlock(addr, count); a != alarm.NoAlarm {
		device.Logger().Warn(fmt.Sprintf("block transfer in Clear Mem out of range: 0o%o+0o%o", addr, n))
		return a
	}
	for m := addr; m < addr+n; m++ {
		mem.Write(m, 0, false)
	}
	return alarm.NoAlarm
}

// Memory that can reload its flip flop registers.
type FlipFlopResetter interface {
	ResetFlipFlops(preset func(W.Address) (W.Word, bool))
}

// Flip flop storage reset. Selecting the device performs the reset.
type FFResetctx struct {
	dev.Base
	preset func(W.Address) (W.Word, bool)
	mem    FlipFlopResetter
}

// preset returns the switch preset for a flip flop register.
func NewFFReset(log *slog.Logger, preset func(W.Address) (W.Word, bool)) *FFResetctx {
	return &FFResetctx{Base: dev.NewBase("FlipFlopRegisterReset", log), preset: preset}
}

func (device *FFResetctx) Claims(addr W.Address) bool {
	return addr == ffResetAddress
}

func (device *FFResetctx) reset() alarm.Alarm {
	if device.mem == nil {
		device.Logger().Warn("Flip-Flop Storage Reset without memory")
		return alarm.IoErrorAlarm
	}
	device.mem.ResetFlipFlops(device.preset)
	return alarm.NoAlarm
}

func (device *FFResetctx) Select(_ W.Address, _ W.Word, mem dev.Memory) alarm.Alarm {
	device.Logger().Info("SI: Select Flip-Flop Storage Reset")
	if r, ok := mem.(FlipFlopResetter); ok {
		device.mem = r
	}
	return device.reset()
}

func (device *FFResetctx) Record(_ W.Word, _ W.Word) (alarm.Alarm, string) {
	device.Logger().Info("RC: Activate Flip-Flop Storage Reset")
	return device.reset(), ""
}

func (device *FFResetctx) Read(_ W.Word, _ W.Word) (alarm.Alarm, W.Word) {
	device.Logger().Warn("unimplemented rd: FF Reset")
	return alarm.NoAlarm, 0
}

func (device *FFResetctx) BlockIn(_ W.Address, _ W.Word, _ dev.Memory) alarm.Alarm {
	device.Logger().Warn("unimplemented bi: FF Reset")
	return alarm.NoAlarm
}
