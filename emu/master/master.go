/*
 * WWSim - Messages between console and simulator loop.
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

package master

import (
	W "github.com/gfedorkow/Whirlwind-Instruction-Simulator-sub000/emu/word"
)

type Msg int

const (
	Start     Msg = 1 + iota // Run until alarm, breakpoint or stop.
	Stop                     // Stop running.
	Step                     // Execute Count instructions.
	Examine                  // Show Count words from Addr.
	Deposit                  // Store Value at Addr.
	Registers                // Show registers.
	Trace                    // Instruction trace on when Flag set.
	Break                    // Toggle breakpoint at Addr.
	Quit                     // Leave simulator loop.
)

var msgName = map[Msg]string{
	Start:     "start",
	Stop:      "stop",
	Step:      "step",
	Examine:   "examine",
	Deposit:   "deposit",
	Registers: "registers",
	Trace:     "trace",
	Break:     "break",
	Quit:      "quit",
}

func (m Msg) String() string {
	if name, ok := msgName[m]; ok {
		return name
	}
	return "unknown"
}

// Packet to simulator loop. When Reply is set the loop sends the
// result text back on it.
type Packet struct {
	Msg   Msg
	Addr  W.Address
	Count int
	Value W.Word
	Flag  bool
	Reply chan string
}
