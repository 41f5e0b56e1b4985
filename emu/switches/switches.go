/*
 * WWSim - Machine console switches.
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
	"fmt"
	"log/slog"
	"sort"
	"strconv"
	"strings"

	W "github.com/gfedorkow/Whirlwind-Instruction-Simulator-sub000/emu/word"
)

const (
	CheckAlarmSpecial    = "CheckAlarmSpecial"
	LeftInterventionReg  = "LeftInterventionReg"
	RightInterventionReg = "RightInterventionReg"
	ActivationReg0       = "ActivationReg0"
	ActivationReg1       = "ActivationReg1"
	FFRegAssign          = "FFRegAssign"
)

var (
	ErrNoSwitch    = errors.New("no machine switch")
	ErrSwitchValue = errors.New("invalid switch value")
	ErrSwitchArgs  = errors.New("expected <name> <val>")
)

// Target of flip flop register assignment.
type FlipFlopMasker interface {
	SetFlipFlopMask(writable []W.Address)
}

type setting struct {
	value W.Word
	mask  W.Word
	set   bool // Presets have no value until assigned.
}

// Switches holds the settings of the machine switches of one session.
type Switches struct {
	settings map[string]*setting
	log      *slog.Logger
}

// Name of flip flop preset switch for an address.
func PresetName(addr W.Address) string {
	return fmt.Sprintf("FlipFlopPreset%02o", addr)
}

// Create switches with default settings.
func New(log *slog.Logger) *Switches {
	if log == nil {
		log = slog.Default()
	}
	sw := &Switches{log: log, settings: map[string]*setting{
		CheckAlarmSpecial:    {mask: 0o1, set: true},
		LeftInterventionReg:  {mask: W.Mask16, set: true},
		RightInterventionReg: {mask: W.Mask16, set: true},
		ActivationReg0:       {mask: W.Mask16, set: true},
		ActivationReg1:       {mask: W.Mask16, set: true},
	}}
	for addr := W.Address(2); addr < 32; addr++ {
		sw.settings[PresetName(addr)] = &setting{mask: W.Mask16}
	}
	return sw
}

// Return current value of a switch, false if unknown or unset.
func (sw *Switches) Get(name string) (W.Word, bool) {
	s, ok := sw.settings[name]
	if !ok || !s.set {
		return 0, false
	}
	return s.value, true
}

// Return value of a switch, zero if unknown or unset.
func (sw *Switches) Value(name string) W.Word {
	v, _ := sw.Get(name)
	return v
}

// Flip flop preset for an address.
func (sw *Switches) Preset(addr W.Address) (W.Word, bool) {
	return sw.Get(PresetName(addr))
}

// Set a switch to a value.
func (sw *Switches) Set(name string, value W.Word) error {
	s, ok := sw.settings[name]
	if !ok {
		sw.log.Warn("No machine switch named " + name)
		return fmt.Errorf("%w: %s", ErrNoSwitch, name)
	}
	if (^s.mask & value) != 0 {
		sw.log.Warn(fmt.Sprintf("max value for switch %s is 0o%o, got 0o%o", name, s.mask, value))
		return fmt.Errorf("%w: %s 0o%o", ErrSwitchValue, name, value)
	}
	s.value = value
	s.set = true
	sw.log.Info(fmt.Sprintf(".SWITCH %s set to 0o%o", name, value))
	return nil
}

// Names of all switches in sorted order.
func (sw *Switches) Names() []string {
	names := make([]string, 0, len(sw.settings))
	for name := range sw.settings {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Parse an octal number with optional 0o prefix.
func parseOctal(str string) (W.Word, error) {
	str = strings.TrimPrefix(strings.TrimSpace(str), "0o")
	v, err := strconv.ParseUint(str, 8, 16)
	if err != nil {
		return 0, err
	}
	return W.Word(v), nil
}

// Parse list of flip flop register addresses, separated by commas.
func ParseFlipFlopAssignment(args []string) ([]W.Address, error) {
	list := strings.Split(strings.Join(args, ""), ",")
	addrs := []W.Address{}
	for _, item := range list {
		v, err := parseOctal(item)
		if err != nil {
			return nil, fmt.Errorf("%w: FFRegAssign setting %s must be an octal number", ErrSwitchValue, item)
		}
		if v > 0o37 {
			return nil, fmt.Errorf("%w: max value for switch FFRegAssign is 0o37, got 0o%o", ErrSwitchValue, v)
		}
		addrs = append(addrs, W.Address(v))
	}
	return addrs, nil
}

// Process a switch directive: "<name> <octal>" or "FFRegAssign a,b,...".
func (sw *Switches) Parse(args []string, mem FlipFlopMasker) error {
	if len(args) == 0 {
		sw.log.Warn("Switch Setting: expected <name> <val>, got nothing")
		return ErrSwitchArgs
	}
	if args[0] == FFRegAssign {
		addrs, err := ParseFlipFlopAssignment(args[1:])
		if err != nil {
			sw.log.Warn(err.Error())
			return err
		}
		if mem != nil {
			mem.SetFlipFlopMask(addrs)
		}
		str := []string{}
		for _, a := range addrs {
			str = append(str, fmt.Sprintf("0o%o", a))
		}
		sw.log.Info("Assigning Flip Flop Registers to addresses: " + strings.Join(str, ","))
		return nil
	}

	if len(args) != 2 {
		sw.log.Warn(fmt.Sprintf("Switch Setting: expected <name> <val>, got: %v", args))
		return ErrSwitchArgs
	}

	value, err := parseOctal(args[1])
	if err != nil {
		sw.log.Warn(fmt.Sprintf(".SWITCH %s setting %s must be an octal number", args[0], args[1]))
		return fmt.Errorf("%w: %s", ErrSwitchValue, args[1])
	}
	return sw.Set(args[0], value)
}
