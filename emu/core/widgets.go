/*
 * WWSim - Debug widgets reported at end of run.
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

package core

import (
	"fmt"
	"log/slog"
	"strconv"
	"unicode"

	"github.com/gfedorkow/Whirlwind-Instruction-Simulator-sub000/emu/cpu"
	W "github.com/gfedorkow/Whirlwind-Instruction-Simulator-sub000/emu/word"
)

// Memory location watched by a %DbWgt line.
type Widget struct {
	Name      string
	Addr      W.Address
	Increment int
	Format    string
}

// Resolve %DbWgt arguments: label or octal address, optional octal
// increment, optional format.
func ParseWidgets(args [][]string, c *cpu.CPU, log *slog.Logger) []Widget {
	widgets := []Widget{}
	for _, arg := range args {
		if len(arg) == 0 {
			continue
		}
		w := Widget{Name: arg[0], Increment: 1, Format: "0o%o"}
		switch {
		case arg[0][0] == '.':
			log.Warn("Debug Widget: no program variable " + arg[0])
			continue
		case unicode.IsDigit(rune(arg[0][0])):
			v, err := strconv.ParseUint(arg[0], 8, 16)
			if err != nil {
				log.Warn("Debug Widget: bad address " + arg[0])
				continue
			}
			w.Addr = W.Word(v).Addr()
			if label := c.Label(w.Addr); label != "" {
				w.Name = label
			}
		default:
			addr, ok := c.Lookup(arg[0])
			if !ok {
				log.Warn("Debug Widget: unknown label " + arg[0])
				continue
			}
			w.Addr = addr
		}
		if len(arg) >= 2 {
			inc, err := strconv.ParseInt(arg[1], 8, 32)
			if err != nil {
				log.Warn(fmt.Sprintf("can't parse Debug Widget increment arg %s in %s", arg[1], arg[0]))
			} else {
				w.Increment = int(inc)
			}
		}
		if len(arg) == 3 {
			w.Format = arg[2]
		}
		widgets = append(widgets, w)
	}
	return widgets
}

// Current value in the widget format.
func (w Widget) Show(c *cpu.CPU) string {
	value := c.ReadOrZero(w.Addr)
	return w.Name + " = " + fmt.Sprintf(w.Format, uint16(value))
}
