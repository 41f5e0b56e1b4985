/*
 * WWSim - Standard Whirlwind I/O device set.
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

package models

import (
	"log/slog"
	"strings"

	dev "github.com/gfedorkow/Whirlwind-Instruction-Simulator-sub000/emu/device"
	"github.com/gfedorkow/Whirlwind-Instruction-Simulator-sub000/emu/modelcontrol"
	"github.com/gfedorkow/Whirlwind-Instruction-Simulator-sub000/emu/modeldrum"
	"github.com/gfedorkow/Whirlwind-Instruction-Simulator-sub000/emu/modelflexo"
	"github.com/gfedorkow/Whirlwind-Instruction-Simulator-sub000/emu/modelpetr"
	"github.com/gfedorkow/Whirlwind-Instruction-Simulator-sub000/emu/modelscope"
	"github.com/gfedorkow/Whirlwind-Instruction-Simulator-sub000/emu/modelteletype"
	"github.com/gfedorkow/Whirlwind-Instruction-Simulator-sub000/emu/switches"
)

// Devices of one session. The registry scans them in the order added.
type Devices struct {
	Registry *dev.Registry
	Scope    *modelscope.Scopectx
	Flexo    *modelflexo.Flexoctx
	Teletype *modelteletype.Teletypectx
	Drum     *modeldrum.Drumctx
	PETR     *modelpetr.PETRctx
}

// Create the standard device set.
func New(log *slog.Logger, sw *switches.Switches) *Devices {
	d := &Devices{
		Registry: dev.NewRegistry(log),
		Scope:    modelscope.NewScope(log),
		Flexo:    modelflexo.NewFlexo(log),
		Teletype: modelteletype.NewTeletype(log),
		Drum:     modeldrum.NewDrum(log),
		PETR:     modelpetr.NewPETR(log),
	}
	d.Registry.Add(d.Scope)
	d.Registry.Add(d.Flexo)
	d.Registry.Add(d.Teletype)
	d.Registry.Add(d.Drum)
	d.Registry.Add(modelcontrol.NewCoreClear(log))
	d.Registry.Add(modelcontrol.NewFFReset(log, sw.Preset))
	d.Registry.Add(d.PETR)
	d.Registry.Add(modelcontrol.NewIntervention(log, sw))
	d.Registry.Add(modelcontrol.NewIndicatorLights(log))
	d.Registry.Add(modelcontrol.NewInOutCheck(log))
	d.Registry.Add(modelcontrol.NewCamera(log))
	return d
}

// Default tape file for a reader, the core file name with its extension
// replaced.
func TapeName(coreFile string, unit string) string {
	base := coreFile
	if i := strings.LastIndex(base, "."); i > strings.LastIndex(base, "/") {
		base = base[:i]
	}
	return base + ".petr" + unit
}

// Collected printable output of all devices.
func (d *Devices) Transcripts() string {
	var out strings.Builder
	for _, device := range d.Registry.Devices() {
		t, ok := device.(dev.Transcriber)
		if !ok {
			continue
		}
		text := t.Transcript()
		if text == "" {
			continue
		}
		if device.Name() != "DisplayScope" {
			out.WriteString("\n" + device.Name() + " Said:\n")
		}
		out.WriteString(text)
	}
	return out.String()
}
