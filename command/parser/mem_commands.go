/*
 * WWSim - Console memory commands.
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

package parser

import (
	"errors"
	"log/slog"

	"github.com/gfedorkow/Whirlwind-Instruction-Simulator-sub000/emu/master"
)

// Show memory, examine <addr> [count].
func examine(line *cmdLine, eng Engine) (string, bool, error) {
	slog.Debug("Command Examine")
	addr, err := line.getAddress(eng)
	if err != nil {
		return "", false, err
	}
	count := 1
	if !line.isEOL() {
		value, err := line.getOctal()
		if err != nil {
			return "", false, err
		}
		count = int(value)
	}
	if count == 0 {
		return "", false, errors.New("count must be positive")
	}
	return eng.Send(master.Packet{Msg: master.Examine, Addr: addr, Count: count}), false, nil
}

// Store word, deposit <addr> <value>.
func deposit(line *cmdLine, eng Engine) (string, bool, error) {
	slog.Debug("Command Deposit")
	addr, err := line.getAddress(eng)
	if err != nil {
		return "", false, err
	}
	value, err := line.getOctal()
	if err != nil {
		return "", false, err
	}
	line.skipSpace()
	if !line.isEOL() {
		return "", false, errors.New("deposit takes an address and one value")
	}
	return eng.Send(master.Packet{Msg: master.Deposit, Addr: addr, Value: value}), false, nil
}
