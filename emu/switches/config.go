/*
 * WWSim - Machine switch configuration options.
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

package switches

import (
	"errors"

	config "github.com/gfedorkow/Whirlwind-Instruction-Simulator-sub000/config/configparser"
)

// register switch options on initialize.
func init() {
	config.RegisterSettings("SWITCH", setSwitch)
	config.RegisterOption("FFREGASSIGN", setFFAssign)
}

// SWITCH <name>=<octal> ...
func setSwitch(cfg *config.Config, _ string, options []config.Option) error {
	for _, opt := range options {
		if opt.EqualOpt == "" || len(opt.Value) != 0 {
			return errors.New("switch requires name=value: " + opt.Name)
		}
		cfg.Switches = append(cfg.Switches, []string{opt.Name, opt.EqualOpt})
	}
	return nil
}

// FFREGASSIGN <addr>,<addr>...
func setFFAssign(cfg *config.Config, first string, _ []config.Option) error {
	if _, err := ParseFlipFlopAssignment([]string{first}); err != nil {
		return err
	}
	cfg.Switches = append(cfg.Switches, []string{FFRegAssign, first})
	return nil
}

// Apply a list of switch directives in order, stopping on first error.
func (sw *Switches) ParseAll(list [][]string, mem FlipFlopMasker) error {
	for _, args := range list {
		if err := sw.Parse(args, mem); err != nil {
			return err
		}
	}
	return nil
}
