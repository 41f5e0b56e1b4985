/*
 * WWSim - I/O device registry and dispatch.
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

package device

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/gfedorkow/Whirlwind-Instruction-Simulator-sub000/emu/alarm"
	W "github.com/gfedorkow/Whirlwind-Instruction-Simulator-sub000/emu/word"
)

// Registry holds the devices of one session and the current selection.
type Registry struct {
	devices  []Device
	selected Device
	log      *slog.Logger
}

func NewRegistry(log *slog.Logger) *Registry {
	if log == nil {
		log = slog.Default()
	}
	return &Registry{log: log}
}

// Add a device, scanned in the order added.
func (r *Registry) Add(dev Device) {
	r.devices = append(r.devices, dev)
}

// All devices.
func (r *Registry) Devices() []Device {
	return r.devices
}

// Find device by name, case insensitive.
func (r *Registry) Find(name string) Device {
	for _, dev := range r.devices {
		if strings.EqualFold(dev.Name(), name) {
			return dev
		}
	}
	return nil
}

// Currently selected device, nil if none.
func (r *Registry) Selected() Device {
	return r.selected
}

// Select device claiming address. Exactly one device must claim it.
func (r *Registry) Select(addr W.Address, ac W.Word, mem Memory) alarm.Alarm {
	r.selected = nil
	var found Device
	for _, dev := range r.devices {
		if !dev.Claims(addr) {
			continue
		}
		if found != nil {
			r.log.Warn(fmt.Sprintf("SI: address 0o%o claimed by both %s and %s", addr, found.Name(), dev.Name()))
			return alarm.UnknownIoDeviceAlarm
		}
		found = dev
	}
	if found == nil {
		r.log.Warn(fmt.Sprintf("SI: unknown I/O device 0o%o", addr))
		return alarm.UnknownIoDeviceAlarm
	}
	r.selected = found
	return found.Select(addr, ac, mem)
}

func (r *Registry) noDevice(op string) alarm.Alarm {
	r.log.Warn(op + ": no I/O device selected")
	return alarm.UnknownIoDeviceAlarm
}

// Record to selected device.
func (r *Registry) Record(operand W.Word, ac W.Word) (alarm.Alarm, string) {
	if r.selected == nil {
		return r.noDevice("RC"), ""
	}
	return r.selected.Record(operand, ac)
}

// Read from selected device.
func (r *Registry) Read(operand W.Word, ac W.Word) (alarm.Alarm, W.Word) {
	if r.selected == nil {
		return r.noDevice("RD"), 0
	}
	return r.selected.Read(operand, ac)
}

// Block transfer into memory from selected device.
func (r *Registry) BlockIn(addr W.Address, count W.Word, mem Memory) alarm.Alarm {
	if r.selected == nil {
		return r.noDevice("BI")
	}
	return r.selected.BlockIn(addr, count, mem)
}

// Block transfer from memory to selected device.
func (r *Registry) BlockOut(addr W.Address, count W.Word, mem Memory) alarm.Alarm {
	if r.selected == nil {
		return r.noDevice("BO")
	}
	return r.selected.BlockOut(addr, count, mem)
}

// Run background work of all devices.
func (r *Registry) Poll() {
	for _, dev := range r.devices {
		if p, ok := dev.(Poller); ok {
			p.Poll()
		}
	}
}

// Set debug mask of named device.
func (r *Registry) SetDebug(name string, mask int) error {
	dev := r.Find(name)
	if dev == nil {
		return fmt.Errorf("no device named %s", name)
	}
	d, ok := dev.(Debugger)
	if !ok {
		return fmt.Errorf("device %s has no debug options", name)
	}
	d.SetDebug(mask)
	return nil
}
