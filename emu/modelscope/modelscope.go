/*
 * WWSim - Display scope.
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

package modelscope

import (
	"fmt"
	"log/slog"

	"github.com/gfedorkow/Whirlwind-Instruction-Simulator-sub000/emu/alarm"
	dev "github.com/gfedorkow/Whirlwind-Instruction-Simulator-sub000/emu/device"
	W "github.com/gfedorkow/Whirlwind-Instruction-Simulator-sub000/emu/word"
)

const (
	pointsAddress  W.Address = 0o600
	vectorsAddress W.Address = 0o1600
	charsAddress   W.Address = 0o2600
	expandAddress  W.Address = 0o14
	unexpandAddr   W.Address = 0o15
	selectMask     W.Address = 0o77
	charsMask      W.Address = 0o1077

	Bright = 20 // Intensity of a fresh object.
	Dark   = 0

	MainScope = 1
	AuxScope  = 2
)

type Mode int

const (
	NoMode Mode = iota
	Points
	Vectors
	Characters
)

var modeNames = [...]string{"No Mode", "Points", "Vectors", "Characters"}

func (m Mode) String() string {
	return modeNames[m]
}

type Kind byte

const (
	Dot  Kind = 'D'
	Line Kind = 'L'
	Char Kind = 'C'
)

// Something drawn on the scope, coordinates in Whirlwind units of
// -1023 to +1023.
type Object struct {
	Kind      Kind
	X0, Y0    int
	X1, Y1    int
	Mask      int // Seven segment character mask.
	Expand    float64
	Scope     int
	Intensity int
}

type Scopectx struct {
	dev.Base
	mode       Mode
	selected   W.Address
	expand     float64
	vertical   int
	horizontal int
	objects    []*Object
	fadeDelay  int
	fadeCount  int
	persist    bool // Never fade objects.
}

func NewScope(log *slog.Logger) *Scopectx {
	return &Scopectx{Base: dev.NewBase("DisplayScope", log), expand: 1.0, fadeDelay: 1}
}

// Polls between brightness steps.
func (device *Scopectx) SetFadeDelay(n int) {
	if n < 1 {
		n = 1
	}
	device.fadeDelay = n
	device.fadeCount = n
}

// Keep every object at its drawn intensity.
func (device *Scopectx) SetPersist(flag bool) {
	device.persist = flag
}

// Select point mode for the 1950 scope instructions.
func (device *Scopectx) Init1950() {
	device.mode = Points
	device.selected = 0o77
}

func (device *Scopectx) Mode() Mode {
	return device.mode
}

// Current beam position.
func (device *Scopectx) Position() (int, int) {
	return device.horizontal, device.vertical
}

// Objects still visible.
func (device *Scopectx) Objects() []*Object {
	return device.objects
}

func (device *Scopectx) Claims(addr W.Address) bool {
	return (addr&^selectMask) == pointsAddress ||
		(addr&^selectMask) == vectorsAddress ||
		(addr&^charsMask) == charsAddress ||
		(addr&^1) == expandAddress
}

// Deflection from the left eleven bits of AC, ones complement.
func Convert(ac W.Word) int {
	if (ac & W.Bit0) != 0 {
		return (-int(ac ^ W.Mask16)) >> 5
	}
	return int(ac >> 5)
}

// Vector components from the short six bit signed forms in bits 0-5 and
// 8-13.
func ConvertDelta(v W.Word) (int, int) {
	short := func(d int) int {
		if (d & 0o40) != 0 {
			return -(d ^ 0o37)
		}
		return d
	}
	return short(int(v>>10) & 0o77), short(int(v>>2) & 0o77)
}

func (device *Scopectx) Select(addr W.Address, ac W.Word, _ dev.Memory) alarm.Alarm {
	if (addr &^ 1) == expandAddress {
		if addr == unexpandAddr {
			device.expand = 1.0
		} else {
			device.expand = 2.0
		}
		device.Debugf(dev.DebugCmd, "DisplayScope SI: Display Expand Operand set to 0o%o; Expand=0o14, UnExpand=0o15", addr)
		return alarm.NoAlarm
	}

	switch {
	case (addr &^ selectMask) == pointsAddress:
		device.mode = Points
	case (addr &^ selectMask) == vectorsAddress:
		device.mode = Vectors
	default:
		if (addr & 0o1000) != 0 {
			device.Debugf(dev.DebugCmd, "DisplayScope SI: set scope selection to 0o%o; ignoring ioaddr bit 001000...", addr)
		}
		device.mode = Characters
	}
	device.selected = addr & selectMask
	device.vertical = Convert(ac)
	device.Debugf(dev.DebugCmd, "DisplayScope SI: configured display mode %s, scope 0o%o, vertical=%d",
		device.mode, device.selected, device.vertical)
	return alarm.NoAlarm
}

func (device *Scopectx) add(obj *Object) {
	obj.Intensity = Bright
	if obj.Scope == 0 {
		obj.Scope = MainScope
	}
	device.objects = append(device.objects, obj)
}

// Draw at the current vertical and the horizontal from AC.
func (device *Scopectx) Record(operand W.Word, ac W.Word) (alarm.Alarm, string) {
	device.horizontal = Convert(ac)
	x, y := device.horizontal, device.vertical
	switch device.mode {
	case Characters:
		mask := int(operand>>8) & 0o177
		device.Debugf(dev.DebugData, "DisplayScope RC: record to scope, mode=Character, x=%d, y=%d, char-code=0o%o", x, y, mask)
		device.add(&Object{Kind: Char, X0: x, Y0: y, Mask: mask, Expand: device.expand})
	case Points:
		device.Debugf(dev.DebugData, "DisplayScope RC: record to scope, mode=Point, x=%d, y=%d", x, y)
		device.add(&Object{Kind: Dot, X0: x, Y0: y})
	case Vectors:
		xd, yd := ConvertDelta(operand)
		device.Debugf(dev.DebugData, "DisplayScope RC: record to scope, mode=Vector, x=%d, y=%d, xd=%d, yd=%d", x, y, xd, yd)
		device.add(&Object{Kind: Line, X0: x, Y0: y, X1: x + xd, Y1: y + yd})
	default:
		device.Logger().Warn("DisplayScope RC: no display mode selected")
	}
	return alarm.NoAlarm, ""
}

// Light gun read. Redraws the last point, no gun is ever triggered.
func (device *Scopectx) Read(_ W.Word, _ W.Word) (alarm.Alarm, W.Word) {
	device.add(&Object{Kind: Dot, X0: device.horizontal, Y0: device.vertical})
	return alarm.NoAlarm, 0
}

// QH sets the horizontal deflection.
func (device *Scopectx) SetHorizontal(ac W.Word) alarm.Alarm {
	if device.mode == NoMode {
		device.Init1950()
	}
	device.horizontal = Convert(ac)
	device.Debugf(dev.DebugCmd, "DisplayScope QH: configured display mode %s, scope 0o%o, horizontal=%d",
		device.mode, device.selected, device.horizontal)
	return alarm.NoAlarm
}

// QD and QF set the vertical deflection and intensify a spot, QF on the
// auxiliary scope.
func (device *Scopectx) Display(ac W.Word, scope int) alarm.Alarm {
	if device.mode == NoMode {
		device.Init1950()
	}
	device.vertical = Convert(ac)
	device.Debugf(dev.DebugData, "DisplayScope QD/QF: record to scope, mode=Point, x=%d, y=%d",
		device.horizontal, device.vertical)
	device.add(&Object{Kind: Dot, X0: device.horizontal, Y0: device.vertical, Scope: scope})
	return alarm.NoAlarm
}

// Fade every object one step, dark objects are dropped.
func (device *Scopectx) Poll() {
	if device.persist || len(device.objects) == 0 {
		return
	}
	device.fadeCount--
	if device.fadeCount > 0 {
		return
	}
	device.fadeCount = device.fadeDelay
	kept := device.objects[:0]
	for _, obj := range device.objects {
		obj.Intensity--
		if obj.Intensity > Dark {
			kept = append(kept, obj)
		}
	}
	for i := len(kept); i < len(device.objects); i++ {
		device.objects[i] = nil
	}
	device.objects = kept
}

// Summary for end of run.
func (device *Scopectx) Transcript() string {
	if len(device.objects) == 0 {
		return ""
	}
	return fmt.Sprintf("DisplayScope: %d objects visible\n", len(device.objects))
}
