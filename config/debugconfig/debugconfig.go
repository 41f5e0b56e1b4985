/*
 * WWSim - Debug options configuration.
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

package debugconfig

import (
	"errors"
	"strings"

	config "github.com/gfedorkow/Whirlwind-Instruction-Simulator-sub000/config/configparser"
	"github.com/gfedorkow/Whirlwind-Instruction-Simulator-sub000/emu/cpu"
	dev "github.com/gfedorkow/Whirlwind-Instruction-Simulator-sub000/emu/device"
)

// register debug option on initialize.
func init() {
	config.RegisterModel("DEBUG", config.TypeOptions, setDebug)
}

// DEBUG CPU trace,alu or DEBUG <device> cmd,data.
func setDebug(cfg *config.Config, first string, options []config.Option) error {
	if len(options) == 0 {
		return errors.New("debug " + first + " requires options")
	}
	module := strings.ToUpper(first)
	maskFn := dev.DebugMask
	if module == "CPU" {
		maskFn = cpu.DebugMask
	}

	for _, opt := range options {
		if opt.EqualOpt != "" {
			return errors.New("debug option can't have equals: " + opt.Name)
		}
		names := []string{opt.Name}
		for _, value := range opt.Value {
			names = append(names, *value)
		}
		for _, name := range names {
			mask, err := maskFn(name)
			if err != nil {
				return err
			}
			cfg.DebugMasks[module] |= mask
		}
	}
	return nil
}

// Debugger of a named device.
type DeviceDebugger interface {
	SetDebug(name string, mask int) error
}

// Hand collected masks to the CPU and devices.
func Apply(cfg *config.Config, c *cpu.CPU, devices DeviceDebugger) error {
	for module, mask := range cfg.DebugMasks {
		if module == "CPU" {
			c.SetDebug(c.Debug() | mask)
			continue
		}
		if err := devices.SetDebug(module, mask); err != nil {
			return err
		}
	}
	return nil
}
