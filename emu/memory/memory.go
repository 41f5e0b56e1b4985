/*
 * WWSim - Bank switched core memory.
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

package memory

import (
	"errors"
	"fmt"
	"log/slog"

	W "github.com/gfedorkow/Whirlwind-Instruction-Simulator-sub000/emu/word"
)

const (
	NumBanks = 6  // Six physical 1K banks.
	TSRSize  = 32 // Toggle switch storage at bottom of address space.
	tsrMask  = TSRSize - 1
)

var (
	ErrGroupConflict = errors.New("fields cannot occupy Group A and B simultaneously")
	ErrNoSuchBank    = errors.New("no such memory bank")
)

// Core cell, unset until first write.
type cell struct {
	value W.Word
	set   bool
}

// Toggle switch or flip flop register.
type tsrSlot struct {
	value    W.Word
	readOnly bool
}

// Switch settings of the test storage, read only unless assigned as a
// flip flop register.
var tsrDefault = [TSRSize]tsrSlot{
	{0o000000, true}, {0o000001, true}, {0o000000, false}, {0o000000, false},
	{0o100065, true}, {0o000000, false}, {0o014174, true}, {0o000000, false},
	{0o130007, true}, {0o130003, true}, {0o150006, true}, {0o040024, true},
	{0o050002, true}, {0o130024, true}, {0o000337, true}, {0o014000, true},
	{0o134003, true}, {0o070001, true}, {0o074002, true}, {0o040024, true},
	{0o000000, false}, {0o074007, true}, {0o144036, true}, {0o104023, true},
	{0o074036, true}, {0o050003, true}, {0o100032, true}, {0o000707, true},
	{0o020032, true}, {0o110026, true}, {0o000703, true}, {0o010036, true},
}

type CoreMemory struct {
	banks     [NumBanks][W.BankSize]cell
	tsr       [TSRSize]tsrSlot
	groupA    int
	groupB    int
	watch     int // Address to log accesses of, -1 for none.
	noTSRWarn bool
	log       *slog.Logger
}

// Create core memory in reset state.
func New(log *slog.Logger) *CoreMemory {
	if log == nil {
		log = slog.Default()
	}
	mem := &CoreMemory{log: log, watch: -1}
	mem.Clear(false)
	return mem
}

// Clear all banks and restore switch defaults. Bank 0 locations 0 and 1
// hold 0 and 1 unless noZeroOne is set.
func (mem *CoreMemory) Clear(noZeroOne bool) {
	mem.banks = [NumBanks][W.BankSize]cell{}
	mem.tsr = tsrDefault
	mem.groupA = 0
	mem.groupB = 1
	if !noZeroOne {
		mem.banks[0][0] = cell{value: 0, set: true}
		mem.banks[0][1] = cell{value: 1, set: true}
	}
}

// Suppress warnings on writes to read only switches.
func (mem *CoreMemory) SetNoToggleSwitchWarning(flag bool) {
	mem.noTSRWarn = flag
}

// Log every access to one address.
func (mem *CoreMemory) Watch(addr W.Address) {
	mem.watch = int(addr & W.Address(W.AddrMask))
}

// Return physical bank and offset for an address.
func (mem *CoreMemory) locate(addr W.Address) (int, int) {
	offset := int(W.Word(addr) & W.LowMask)
	if (W.Word(addr) & W.Bit5) != 0 {
		return mem.groupB, offset
	}
	return mem.groupA, offset
}

// Read a word, ok is false if the location was never written.
func (mem *CoreMemory) Read(addr W.Address) (W.Word, bool) {
	addr &= W.Address(W.AddrMask)
	var value W.Word
	ok := true
	if addr <= tsrMask {
		value = mem.tsr[addr].value
	} else {
		bank, offset := mem.locate(addr)
		c := mem.banks[bank][offset]
		value, ok = c.value, c.set
	}
	if int(addr) == mem.watch {
		mem.log.Info(fmt.Sprintf("Read from core memory; addr=0o%05o, value=0o%06o, set=%t", addr, value, ok))
	}
	return value, ok
}

// Read a word, unset locations are logged and read as zero.
func (mem *CoreMemory) ReadOrZero(addr W.Address) W.Word {
	value, ok := mem.Read(addr)
	if !ok {
		bank, _ := mem.locate(addr & W.Address(W.AddrMask))
		mem.log.Warn(fmt.Sprintf("Reading Uninitialized Memory at location 0o%o, bank %o", addr, bank))
		return 0
	}
	return value
}

// Check if location has been written.
func (mem *CoreMemory) IsSet(addr W.Address) bool {
	_, ok := mem.Read(addr)
	return ok
}

// Write a word. Read only toggle switches are only changed when force is
// set. Returns false when the write was rejected.
func (mem *CoreMemory) Write(addr W.Address, value W.Word, force bool) bool {
	addr &= W.Address(W.AddrMask)
	if int(addr) == mem.watch {
		mem.log.Info(fmt.Sprintf("Write to core memory; addr=0o%05o, value=0o%06o", addr, value))
	}
	if addr <= tsrMask {
		slot := &mem.tsr[addr]
		if slot.value != value {
			if slot.readOnly {
				if !force {
					if !mem.noTSRWarn {
						mem.log.Warn(fmt.Sprintf("Can't write a read-only toggle switch at addr=0o%o", addr))
					}
					return false
				}
				mem.log.Warn(fmt.Sprintf("Overwriting a read-only toggle switch at addr=0o%o, was 0o%o, is 0o%o",
					addr, slot.value, value))
			}
			slot.value = value
		}
	}
	bank, offset := mem.locate(addr)
	mem.banks[bank][offset] = cell{value: value, set: true}
	return true
}

// Image loader entry. Block 0 goes through the current bindings, higher
// blocks fill the bank pair 2*block and 2*block+1 directly.
func (mem *CoreMemory) WriteBlock(block int, addr W.Address, value W.Word) {
	if block == 0 {
		mem.Write(addr, value, true)
		return
	}
	bank := 2*block + int((addr>>10)&1)
	if block < 0 || bank >= NumBanks {
		mem.log.Warn(fmt.Sprintf("Core image block %o beyond memory, addr=0o%o", block, addr))
		return
	}
	mem.banks[bank][W.Word(addr)&W.LowMask] = cell{value: value, set: true}
}

// Current bank bindings.
func (mem *CoreMemory) Groups() (int, int) {
	return mem.groupA, mem.groupB
}

// Bind both groups, the previous bindings are kept if the new ones
// conflict.
func (mem *CoreMemory) Bind(groupA, groupB int) error {
	if groupA < 0 || groupA >= NumBanks || groupB < 0 || groupB >= NumBanks {
		mem.log.Warn(fmt.Sprintf("Change Fields: no such bank A=%o B=%o", groupA, groupB))
		return ErrNoSuchBank
	}
	if groupA == groupB {
		mem.log.Warn(fmt.Sprintf("Change Fields: MemGroupA == MemGroupB == %o; keeping A=%o B=%o",
			groupA, mem.groupA, mem.groupB))
		return ErrGroupConflict
	}
	mem.groupA = groupA
	mem.groupB = groupB
	return nil
}

// Bind Group A to a bank.
func (mem *CoreMemory) BindGroupA(bank int) error {
	return mem.Bind(bank, mem.groupB)
}

// Bind Group B to a bank.
func (mem *CoreMemory) BindGroupB(bank int) error {
	return mem.Bind(mem.groupA, bank)
}

// Assign which toggle switch locations are writable flip flop registers.
func (mem *CoreMemory) SetFlipFlopMask(writable []W.Address) {
	for i := range mem.tsr {
		mem.tsr[i].readOnly = true
	}
	for _, addr := range writable {
		mem.tsr[addr&tsrMask].readOnly = false
	}
}

// Check if toggle switch location is read only.
func (mem *CoreMemory) IsReadOnly(addr W.Address) bool {
	return addr <= tsrMask && mem.tsr[addr].readOnly
}

// Reload writable flip flop registers from presets. preset returns false
// for locations without a preset value. Read only switches keep their value.
func (mem *CoreMemory) ResetFlipFlops(preset func(W.Address) (W.Word, bool)) {
	for addr := range W.Address(TSRSize) {
		value, ok := preset(addr)
		if !ok {
			continue
		}
		slot := &mem.tsr[addr]
		if slot.readOnly {
			if slot.value != value {
				mem.log.Warn(fmt.Sprintf("Not resetting 'read-only' toggle-switch register %02o from %o to %o",
					addr, slot.value, value))
			}
			continue
		}
		slot.value = value
		mem.log.Info(fmt.Sprintf("Reset FF%02o at address 0o%o to 0o%o", addr, addr, value))
	}
}

// Call fn for every set location of every bank.
func (mem *CoreMemory) Dump(fn func(bank int, offset int, value W.Word)) {
	for bank := range mem.banks {
		for offset, c := range mem.banks[bank] {
			if c.set {
				fn(bank, offset, c.value)
			}
		}
	}
}

// Number of 2K blocks in a full dump.
const NumBlocks = NumBanks / 2

// Return a bank pair as one 2K block, nil for unset cells.
func (mem *CoreMemory) Block(block int) []*W.Word {
	return append(mem.Bank(2*block), mem.Bank(2*block+1)...)
}

// Return bank contents for dumping in core image form.
func (mem *CoreMemory) Bank(bank int) []*W.Word {
	out := make([]*W.Word, W.BankSize)
	for i, c := range mem.banks[bank] {
		if c.set {
			v := c.value
			out[i] = &v
		}
	}
	return out
}
