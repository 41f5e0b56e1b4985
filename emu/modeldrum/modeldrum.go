/*
 * WWSim - Buffer and auxiliary magnetic drum.
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

package modeldrum

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"

	config "github.com/gfedorkow/Whirlwind-Instruction-Simulator-sub000/config/configparser"
	"github.com/gfedorkow/Whirlwind-Instruction-Simulator-sub000/emu/alarm"
	"github.com/gfedorkow/Whirlwind-Instruction-Simulator-sub000/emu/coreimage"
	dev "github.com/gfedorkow/Whirlwind-Instruction-Simulator-sub000/emu/device"
	W "github.com/gfedorkow/Whirlwind-Instruction-Simulator-sub000/emu/word"
)

const (
	NumGroups = 12   // Tracks.
	NumWords  = 2048 // Words per track.

	baseAddress  W.Address = 0o700
	addrMask     W.Address = 0o1017
	fieldAddress W.Address = 0o734 // Switch buffer drum field.

	siWordAddress  W.Address = 0o001
	siGroupAddress W.Address = 0o002
	siRecordMode   W.Address = 0o004
	siBufferDrum   W.Address = 0o010
	siWrapAddress  W.Address = 0o1000
)

type Drumctx struct {
	dev.Base
	content [NumGroups][]*W.Word
	group   int
	word    int
	drum    string // Buf or Aux.
	field   byte   // Buffer drum field, A or B.
	wrap    bool   // Run off end of group into next.
	record  bool
	dirty   bool // Contents changed since restore.
}

func NewDrum(log *slog.Logger) *Drumctx {
	device := &Drumctx{Base: dev.NewBase("Drum", log), drum: "Aux", field: 'A'}
	for i := range device.content {
		device.content[i] = make([]*W.Word, NumWords)
	}
	return device
}

func (device *Drumctx) Claims(addr W.Address) bool {
	return (addr&^addrMask) == baseAddress || addr == fieldAddress
}

// Device field bits pick word address, group address, drum and wrap mode.
// Group comes from AC bits 1 to 4, word address from bits 5 to 15.
func (device *Drumctx) Select(addr W.Address, ac W.Word, _ dev.Memory) alarm.Alarm {
	if addr == fieldAddress {
		old := device.field
		if old == 'A' {
			device.field = 'B'
		} else {
			device.field = 'A'
		}
		device.Logger().Warn(fmt.Sprintf("haven't implemented SI: switch Buffer Drum Field %c to %c", old, device.field))
		return alarm.NoAlarm
	}

	device.wrap = (addr & siWrapAddress) != 0
	device.record = (addr & siRecordMode) != 0
	if (addr & siGroupAddress) != 0 {
		device.group = int(ac>>11) & 0o17
	}
	if (addr & siWordAddress) != 0 {
		device.word = int(ac & W.AddrMask)
	}
	if (addr & siBufferDrum) != 0 {
		device.drum = "Buf"
	} else {
		device.drum = "Aux"
	}
	device.Debugf(dev.DebugCmd, "SI: configured %s drum; Group (track)=0o%o, DrumWordAddress=0o%o",
		device.drum, device.group, device.word)
	return alarm.NoAlarm
}

// Return current drum location and advance to the next one.
func (device *Drumctx) next() (int, int, alarm.Alarm) {
	if device.word >= NumWords {
		if !device.wrap {
			device.Logger().Warn("Haven't implemented Drum Address Wrap")
			return 0, 0, alarm.UnimplementedAlarm
		}
		device.group++
		device.word = 0
	}
	if device.group >= NumGroups {
		device.Logger().Warn(fmt.Sprintf("no such drum group 0o%o", device.group))
		return 0, 0, alarm.IoErrorAlarm
	}
	group, word := device.group, device.word
	device.word++
	return group, word, alarm.NoAlarm
}

// Write AC to the drum.
func (device *Drumctx) Record(_ W.Word, ac W.Word) (alarm.Alarm, string) {
	group, word, a := device.next()
	if a != alarm.NoAlarm {
		return a, ""
	}
	device.Debugf(dev.DebugData, "RC: write-to-%s-drum; Field=%c, Word=0o%o, Group (track)=0o%o, DrumWordAddress=0o%o",
		device.drum, device.field, ac, group, word)
	v := ac
	device.content[group][word] = &v
	device.dirty = true
	return alarm.NoAlarm, ""
}

// Read one word from the drum, unwritten locations read as zero.
func (device *Drumctx) Read(_ W.Word, _ W.Word) (alarm.Alarm, W.Word) {
	group, word, a := device.next()
	if a != alarm.NoAlarm {
		return a, 0
	}
	val := device.content[group][word]
	if val == nil {
		device.Logger().Warn(fmt.Sprintf("Read None from Drum Group (track)=0o%o, DrumWordAddress=0o%o", group, word))
		return alarm.NoAlarm, 0
	}
	device.Debugf(dev.DebugData, "RD: read-from-%s-drum; Group (track)=0o%o, DrumWordAddress=0o%o, Word=0o%o",
		device.drum, group, word, *val)
	return alarm.NoAlarm, *val
}

// Copy drum words to memory. Unwritten drum words leave memory alone.
func (device *Drumctx) BlockIn(addr W.Address, count W.Word, mem dev.Memory) alarm.Alarm {
	n := W.Address(count & W.AddrMask)
	device.Debugf(dev.DebugCmd, "BI: block transfer Read from %s Drum: Field=%c, DrumGroup=0o%o, DrumAddr=0o%o, start at CoreAddr=0o%o, length=0o%o",
		device.drum, device.field, device.group, device.word, addr, n)
	if a := dev.CheckBlock(addr, count); a != alarm.NoAlarm {
		device.Logger().Warn("block-transfer-in Drum address out of range")
		return a
	}
	for m := addr; m < addr+n; m++ {
		group, word, a := device.next()
		if a != alarm.NoAlarm {
			return a
		}
		if val := device.content[group][word]; val != nil {
			mem.Write(m, *val, false)
		}
	}
	return alarm.NoAlarm
}

// Copy memory to the drum.
func (device *Drumctx) BlockOut(addr W.Address, count W.Word, mem dev.Memory) alarm.Alarm {
	n := W.Address(count & W.AddrMask)
	device.Debugf(dev.DebugCmd, "BO: block transfer Write to %s Drum: Field=%c, DrumGroup=0o%o, DrumAddr=0o%o, start at CoreAddr=0o%o, length=0o%o",
		device.drum, device.field, device.group, device.word, addr, n)
	if a := dev.CheckBlock(addr, count); a != alarm.NoAlarm {
		device.Logger().Warn("block-transfer-out Drum address out of range")
		return a
	}
	for m := addr; m < addr+n; m++ {
		group, word, a := device.next()
		if a != alarm.NoAlarm {
			return a
		}
		v := mem.ReadOrZero(m)
		device.content[group][word] = &v
		device.dirty = true
	}
	return alarm.NoAlarm
}

// Loader entry for drum state, block is the group.
func (device *Drumctx) WriteBlock(block int, addr W.Address, value W.Word) {
	if block < 0 || block >= NumGroups || int(addr) >= NumWords {
		device.Logger().Warn(fmt.Sprintf("drum state outside drum: group 0o%o, address 0o%o", block, addr))
		return
	}
	v := value
	device.content[block][addr] = &v
}

// Contents of one group, nil for unwritten words.
func (device *Drumctx) Group(group int) []*W.Word {
	return device.content[group]
}

// Changed since restore.
func (device *Drumctx) Dirty() bool {
	return device.dirty
}

// Load drum contents from a state file. A missing file leaves the drum
// empty.
func (device *Drumctx) Restore(name string) error {
	device.Logger().Info("Restoring Drum State from file " + name)
	_, err := coreimage.LoadFile(name, device, device.Logger())
	if errors.Is(err, os.ErrNotExist) {
		device.Logger().Warn("Drum state file " + name + " not found, starting with empty drum")
		return nil
	}
	device.dirty = false
	return err
}

// Save drum contents if they changed.
func (device *Drumctx) Save(name string) error {
	if !device.dirty {
		device.Logger().Info("Drum State unchanged; state not saved")
		return nil
	}
	device.Logger().Info("Saving Drum State in file " + name)
	err := coreimage.WriteFile(name, device.content[:], coreimage.Meta{File: "drum", TapeID: "drum"})
	if err == nil {
		device.dirty = false
	}
	return err
}

// register drum state file on initialize.
func init() {
	config.RegisterSettings("DRUM", create)
}

// DRUM file=<state file>
func create(cfg *config.Config, _ string, options []config.Option) error {
	for _, opt := range options {
		switch strings.ToLower(opt.Name) {
		case "file":
			if opt.EqualOpt == "" {
				return errors.New("drum file requires file name")
			}
			cfg.DrumFile = opt.EqualOpt
		default:
			return errors.New("drum invalid option: " + opt.Name)
		}
	}
	return nil
}
