/*
 * WWSim - Whirlwind instruction listing.
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
	"fmt"

	W "github.com/gfedorkow/Whirlwind-Instruction-Simulator-sub000/emu/word"
)

const (
	tyAddr  = 1 + iota // Operand is a memory address.
	tyParam            // Operand is a device or count.
	tyShift            // Operand low bits are a count, Bit6 picks the variant.
	tyData             // Not an instruction.
)

type opcode struct {
	short  string    // Two letter name for dump listings.
	opType int       // Operand type.
	vary   [2]string // Roundoff and hold names of shift and cycle.
}

// 1958 order code, indexed by the top five bits.
var opMap = [32]opcode{
	{"si", tyParam, [2]string{}}, {".word", tyData, [2]string{}},
	{"bi", tyAddr, [2]string{}}, {"rd", tyParam, [2]string{}},
	{"bo", tyAddr, [2]string{}}, {"rc", tyParam, [2]string{}},
	{"sd", tyAddr, [2]string{}}, {"cf", tyParam, [2]string{}},
	{"ts", tyAddr, [2]string{}}, {"td", tyAddr, [2]string{}},
	{"ta", tyAddr, [2]string{}}, {"ck", tyAddr, [2]string{}},
	{"ab", tyAddr, [2]string{}}, {"ex", tyAddr, [2]string{}},
	{"cp", tyAddr, [2]string{}}, {"sp", tyAddr, [2]string{}},
	{"ca", tyAddr, [2]string{}}, {"cs", tyAddr, [2]string{}},
	{"ad", tyAddr, [2]string{}}, {"su", tyAddr, [2]string{}},
	{"cm", tyAddr, [2]string{}}, {"sa", tyAddr, [2]string{}},
	{"ao", tyAddr, [2]string{}}, {"dm", tyAddr, [2]string{}},
	{"mr", tyAddr, [2]string{}}, {"mh", tyAddr, [2]string{}},
	{"dv", tyAddr, [2]string{}}, {"SL", tyShift, [2]string{"slr", "slh"}},
	{"SR", tyShift, [2]string{"srr", "srh"}}, {"sf", tyAddr, [2]string{}},
	{"CL", tyShift, [2]string{"clc", "clh"}}, {"md", tyAddr, [2]string{}},
}

// Short name of the operation in a word, as shown in dump listings.
func Mnemonic(inst W.Word) string {
	return opMap[inst.Opcode()].short
}

// Format one word as an instruction. Labels are shown after address
// operands when label returns a name.
func Disassemble(inst W.Word, label func(W.Address) string) string {
	op := opMap[inst.Opcode()]
	operand := inst.Addr()
	switch op.opType {
	case tyData:
		return fmt.Sprintf(".word 0o%o", uint16(inst))
	case tyShift:
		name := op.vary[0]
		if (inst & W.Bit6) != 0 {
			name = op.vary[1]
		}
		return fmt.Sprintf("%s 0o%o", name, operand&^W.Address(W.Bit6))
	case tyParam:
		return fmt.Sprintf("%s 0o%o", op.short, operand)
	}
	if label != nil {
		if name := label(operand); name != "" {
			return fmt.Sprintf("%s 0o%o(%s)", op.short, operand, name)
		}
	}
	return fmt.Sprintf("%s 0o%o", op.short, operand)
}
