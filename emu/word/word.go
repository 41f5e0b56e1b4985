/*
 * WWSim - One's complement word arithmetic.
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

package word

import (
	"fmt"

	"github.com/gfedorkow/Whirlwind-Instruction-Simulator-sub000/emu/alarm"
)

// Word is a 16 bit one's complement value. Bit 0 in Whirlwind numbering is
// the sign and is the most significant bit.
type Word uint16

// Address is an 11 bit memory address.
type Address uint16

// Sam holds the deferred carry of a special add: -1, 0 or +1.
type Sam int8

// Shift direction.
type Direction int

const (
	Left Direction = iota
	Right
)

const (
	Bit0     Word = 0o100000 // Sign.
	Bit1     Word = 0o040000
	Bit5     Word = 0o002000 // Selects Group B.
	Bit6     Word = 0o001000 // Hold variant of shift and cycle.
	Bit7     Word = 0o000400
	Bit8     Word = 0o000200
	Bit9     Word = 0o000100
	Mask15   Word = 0o077777 // Bits 1 to 15.
	Mask16   Word = 0o177777 // Bits 0 to 15.
	AddrMask Word = 0o003777
	LowMask  Word = 0o001777 // Offset in a bank.
	NegZero  Word = 0o177777

	CoreSize = 2048
	BankSize = 1024
	modulo   = 1 << 16
)

// Mask address to 11 bits.
func (w Word) Addr() Address {
	return Address(w & AddrMask)
}

// Opcode field of an instruction word.
func (w Word) Opcode() int {
	return int(w>>11) & 0o37
}

// Sign bit set.
func (w Word) IsNegative() bool {
	return (w & Bit0) != 0
}

// Negative zero is all ones.
func (w Word) IsNegativeZero() bool {
	return w == NegZero
}

// Either representation of zero.
func (w Word) IsZero() bool {
	return w == 0 || w == NegZero
}

// Magnitude of a value, always positive.
func (w Word) Magnitude() Word {
	if w.IsNegative() {
		return w ^ Mask16
	}
	return w & Mask15
}

// Signed host integer.
func (w Word) ToInt() int {
	if w.IsNegative() {
		return -int(w ^ Mask16)
	}
	return int(w)
}

// Convert host integer in range +/-0o77777 to a word.
func FromInt(v int) Word {
	if v < 0 {
		return Word(-v) ^ Mask16
	}
	return Word(v) & Mask16
}

// Trace form, negative values show their magnitude.
func (w Word) String() string {
	if w.IsNegative() {
		return fmt.Sprintf("0o%06o(-0o%04o)", uint16(w), uint16(^w&Mask15))
	}
	return fmt.Sprintf("0o%06o", uint16(w))
}

// Decimal form with sign and magnitude.
func (w Word) Decimal() string {
	if w.IsNegative() {
		return fmt.Sprintf("-0d%d", uint16(w^Mask16))
	}
	return fmt.Sprintf("0d%d", uint16(w))
}

// Negate a word.
func Negate(a Word) Word {
	return a ^ Mask16
}

// Add two words with end around carry. samIn is the deferred carry of a
// previous special add. When special is set overflow is moved into the
// returned Sam instead of raising an alarm.
func Add(a, b Word, samIn Sam, special bool) (Word, Sam, alarm.Alarm) {
	sum := a.ToInt() + b.ToInt() + int(samIn)
	posOverflow := sum > int(Mask15)
	negOverflow := sum < -int(Mask15)

	carry := uint32(0)
	switch samIn {
	case 1:
		carry = 1
	case -1:
		carry = uint32(Negate(1))
	}
	raw := uint32(a) + uint32(b) + carry
	if raw >= modulo {
		raw = (raw + 1) % modulo
	}
	result := Word(raw)

	if special {
		samOut := Sam(0)
		if posOverflow {
			samOut = 1
			result &^= Bit0
		}
		if negOverflow {
			samOut = -1
			result |= Bit0
		}
		return result, samOut, alarm.NoAlarm
	}

	if posOverflow || negOverflow {
		return result, 0, alarm.OverflowAlarm
	}
	return result, 0, alarm.NoAlarm
}

// Multiply two words. Result is hi word with sign and low word with
// bit 15 clear.
func Multiply(a, b Word) (Word, Word) {
	product := uint32(a.Magnitude()) * uint32(b.Magnitude())
	hi := Word(product>>15) & Mask15
	lo := Word(product<<1) & Mask16
	if a.IsNegative() != b.IsNegative() {
		hi ^= Mask16
	}
	return hi, lo
}

// Divide n by d. Quotient is returned in the BR word, AC holds a zero
// with the sign of the quotient.
func Divide(n, d Word) (Word, Word, alarm.Alarm) {
	negative := n.IsNegative() != d.IsNegative()
	n = n.Magnitude()
	d = d.Magnitude()
	if n > d {
		return 0, 0, alarm.DivideAlarm
	}

	br := Word(0)
	switch {
	case d == 0:
	case n == d:
		br = Mask16
	default:
		br = Word((uint32(n) << 16) / uint32(d))
	}

	ac := Word(0)
	if negative {
		ac = NegZero
	}
	return ac, br, alarm.NoAlarm
}

// Shift AC:BR by n places. Negative AC values are complemented before
// and after the shift. When hold is not set the result is rounded into AC
// and BR cleared.
func Shift(a, b Word, n int, dir Direction, hold bool) (Word, Word, alarm.Alarm) {
	negative := a.IsNegative()
	if negative {
		a = Negate(a)
	}

	val := uint64(a)<<16 | uint64(b)
	n &= 0o37
	if dir == Right {
		val >>= uint(n)
	} else {
		val <<= uint(n)
	}

	hi := Word(val>>16) & Mask15
	lo := Word(val)
	result := alarm.NoAlarm
	if !hold {
		if (lo & Bit0) != 0 {
			if hi == Mask15 {
				result = alarm.OverflowAlarm
			}
			hi = (hi + 1) & Mask15
		}
		lo = 0
	}

	if negative {
		hi = ^hi & Mask16
	}
	return hi, lo, result
}

// Rotate AC:BR left n places. When hold is not set BR is cleared.
func CycleLeft(a, b Word, n int, hold bool) (Word, Word) {
	n &= 0o37
	val := uint32(a)<<16 | uint32(b)
	val = val<<uint(n) | val>>uint(32-n)
	hi := Word(val >> 16)
	lo := Word(val)
	if !hold {
		lo = 0
	}
	return hi, lo
}
