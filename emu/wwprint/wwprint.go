/*
 * WWSim - Debug print directives attached to program locations.
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

package wwprint

import (
	"fmt"
	"log/slog"
	"math"
	"regexp"
	"strconv"
	"strings"

	W "github.com/gfedorkow/Whirlwind-Instruction-Simulator-sub000/emu/word"
)

// Machine state visible to a print directive.
type State interface {
	ReadOrZero(addr W.Address) W.Word
	AC() W.Word
	BR() W.Word
	Lookup(label string) (W.Address, bool)
	// Short mnemonic, operand and label of the instruction at addr.
	Instruction(addr W.Address) string
}

var opPrefix = regexp.MustCompile(`^(\w+): +`)

// Directives are checked longest first.
var directives = []string{"%ad", "%ao", "%bd", "%bo", "%fl", "%fr", "%fm", "%d", "%o", "%i", "%%"}

// Run a directive attached to an address. Lines are separated by a
// literal "\n ". Returns the text printed.
func Exec(s State, directive string, log *slog.Logger) []string {
	out := []string{}
	for _, line := range strings.Split(directive, `\n `) {
		op := "exec"
		if m := opPrefix.FindStringSubmatch(line); m != nil {
			op = m[1]
			line = line[len(m[0]):]
		} else {
			log.Warn(fmt.Sprintf("deprecated @E format: '%s'", line))
		}
		switch op {
		case "print":
			out = append(out, Format(s, line, log))
		case "exec":
			log.Warn(fmt.Sprintf("exec directive not supported: '%s'", line))
		default:
			log.Warn(fmt.Sprintf("Unrecognized exec_op in %s: %s", op, line))
		}
	}
	return out
}

// Split `"format", arg, arg` into the format text and arguments.
func split(text string) (string, []string, bool) {
	text = strings.TrimSpace(text)
	if !strings.HasPrefix(text, `"`) {
		return "", nil, false
	}
	var format strings.Builder
	i := 1
	for ; i < len(text); i++ {
		c := text[i]
		if c == '"' {
			break
		}
		if c == '\\' && i+1 < len(text) {
			i++
			switch text[i] {
			case 'n':
				format.WriteByte('\n')
			case 't':
				format.WriteByte('\t')
			default:
				format.WriteByte(text[i])
			}
			continue
		}
		format.WriteByte(c)
	}
	if i >= len(text) {
		return "", nil, false
	}
	args := []string{}
	for _, a := range strings.Split(text[i+1:], ",") {
		a = strings.TrimSpace(a)
		if a != "" {
			args = append(args, a)
		}
	}
	return format.String(), args, true
}

// Format a print directive against the machine state.
func Format(s State, text string, log *slog.Logger) string {
	format, args, ok := split(text)
	if !ok {
		log.Warn(fmt.Sprintf(".print: format must be a quoted string: %s", text))
		return text
	}

	next := func(fmtCmd string) (W.Address, bool) {
		if len(args) == 0 {
			log.Warn(fmt.Sprintf(".print: missing arg for '%s'", fmtCmd))
			return 0, false
		}
		addr := Resolve(s, args[0], log)
		args = args[1:]
		return addr, true
	}

	var out strings.Builder
	for pos := 0; pos < len(format); {
		if format[pos] != '%' {
			end := strings.IndexByte(format[pos:], '%')
			if end < 0 {
				end = len(format) - pos
			}
			out.WriteString(format[pos : pos+end])
			pos += end
			continue
		}
		cmd := "%"
		for _, d := range directives {
			if strings.HasPrefix(format[pos:], d) {
				cmd = d
				break
			}
		}
		pos += len(cmd)

		switch cmd {
		case "%%", "%":
			out.WriteByte('%')
		case "%ad":
			out.WriteString(strconv.Itoa(s.AC().ToInt()))
		case "%ao":
			out.WriteString(strconv.FormatUint(uint64(s.AC()), 8))
		case "%bd":
			out.WriteString(strconv.Itoa(s.BR().ToInt()))
		case "%bo":
			out.WriteString(strconv.FormatUint(uint64(s.BR()), 8))
		default:
			addr, ok := next(cmd)
			if !ok {
				continue
			}
			out.WriteString(formatMemory(s, cmd, addr))
		}
	}
	if len(args) != 0 {
		log.Warn(fmt.Sprintf(".print: too many args. fmt= %q, args= %v", format, args))
	}
	return out.String()
}

func formatMemory(s State, cmd string, addr W.Address) string {
	switch cmd {
	case "%d":
		return strconv.Itoa(s.ReadOrZero(addr).ToInt())
	case "%o":
		return "0o" + strconv.FormatUint(uint64(s.ReadOrZero(addr)), 8)
	case "%fl":
		r := Float24(s.ReadOrZero(addr), s.ReadOrZero(addr+1))
		return strconv.FormatFloat(r, 'g', 8, 64)
	case "%fr":
		return fmt.Sprintf("%f", Fraction(s.ReadOrZero(addr)))
	case "%fm":
		r := FloatMRA(s.ReadOrZero(addr), s.ReadOrZero(addr+1), s.ReadOrZero(addr+2))
		return strconv.FormatFloat(r, 'g', 10, 64)
	case "%i":
		return s.Instruction(addr)
	}
	return cmd
}

// Resolve a label or number. Numbers with a 0o prefix are octal, other
// numbers decimal. Unknown labels give 0.
func Resolve(s State, label string, log *slog.Logger) W.Address {
	if label == "" {
		return 0
	}
	if label[0] >= '0' && label[0] <= '9' {
		base := 10
		num := label
		if strings.HasPrefix(label, "0o") {
			base = 8
			num = label[2:]
		}
		v, err := strconv.ParseUint(num, base, 16)
		if err != nil {
			log.Warn(fmt.Sprintf(".print: bad number '%s'", label))
			return 0
		}
		return W.Word(v).Addr()
	}
	addr, ok := s.Lookup(label)
	if !ok {
		log.Warn(fmt.Sprintf(".print: unknown label '%s'", label))
		return 0
	}
	return addr
}

// Fraction value of a word, the binary point follows the sign.
func Fraction(w W.Word) float64 {
	return math.Ldexp(float64(w.ToInt()), -15)
}

// 24,6 floating point: 24 bit ones complement fraction from hi and the
// low 9 bits of lo, 7 bit ones complement exponent in the top of lo.
func Float24(hi, lo W.Word) float64 {
	frac := int64(hi)<<9 | int64(lo&0o777)
	if (frac & 0o100000000) != 0 {
		frac = frac - (1 << 25) + 1
	}
	exp := int(lo >> 9)
	if (exp & 0o100) != 0 {
		exp = exp - (1 << 7) + 1
	}
	return math.Ldexp(float64(frac), exp-24)
}

// Multiple register accumulator float: two word signed mantissa x, x'
// and exponent y.
func FloatMRA(x, xPrime, y W.Word) float64 {
	mant := math.Ldexp(float64(x.ToInt())+math.Ldexp(float64(xPrime.ToInt()), -15), -15)
	return math.Ldexp(mant, y.ToInt())
}
