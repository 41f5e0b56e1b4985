/*
 * WWSim - Whirlwind instruction listing test cases.
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

package disassemble

import (
	"testing"

	W "github.com/gfedorkow/Whirlwind-Instruction-Simulator-sub000/emu/word"
)

func labels(addr W.Address) string {
	if addr == 0o100 {
		return "loop"
	}
	return ""
}

func TestDisassemble(t *testing.T) {
	tests := []struct {
		inst  W.Word
		match string
	}{
		{0o100100, "ca 0o100(loop)"},
		{0o100101, "ca 0o101"},
		{0o074040, "sp 0o40"},
		{0o000224, "si 0o224"},
		{0o004005, ".word 0o4005"},
		{0o160003, "srr 0o3"},
		{0o161003, "srh 0o3"},
		{0o154001, "slr 0o1"},
		{0o171017, "clh 0o17"},
	}
	for _, test := range tests {
		inst := Disassemble(test.inst, labels)
		if inst != test.match {
			t.Errorf("Inst 0o%06o Got: %s Expected: %s", test.inst, inst, test.match)
		}
	}
	if inst := Disassemble(0o100100, nil); inst != "ca 0o100" {
		t.Errorf("Inst without labels Got: %s Expected: ca 0o100", inst)
	}
}

func TestMnemonic(t *testing.T) {
	if m := Mnemonic(0o100041); m != "ca" {
		t.Errorf("Mnemonic Got: %s Expected: ca", m)
	}
	if m := Mnemonic(0o000041); m != "si" {
		t.Errorf("Mnemonic Got: %s Expected: si", m)
	}
	if m := Mnemonic(0o170000); m != "CL" {
		t.Errorf("Mnemonic Got: %s Expected: CL", m)
	}
}
