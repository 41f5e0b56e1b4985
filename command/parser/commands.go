/*
 * WWSim - Console commands.
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

var cmdList = []cmd{
	{Name: "step", Min: 1, Process: step},
	{Name: "continue", Min: 1, Process: cont},
	{Name: "stop", Min: 3, Process: stop},
	{Name: "examine", Min: 1, Process: examine},
	{Name: "deposit", Min: 1, Process: deposit},
	{Name: "registers", Min: 1, Process: registers},
	{Name: "trace", Min: 1, Process: trace},
	{Name: "break", Min: 1, Process: breakpoint},
	{Name: "quit", Min: 1, Process: quit},
}

// Handle commands that quit simulation.
func quit(_ *cmdLine, _ Engine) (string, bool, error) {
	slog.Debug("Command Quit")
	return "", true, nil
}

// Execute instructions, one when no count given.
func step(line *cmdLine, eng Engine) (string, bool, error) {
	slog.Debug("Command Step")
	count := 1
	if !line.isEOL() {
		var err error
		count, err = line.getNumber()
		if err != nil {
			return "", false, err
		}
		if count <= 0 {
			return "", false, errors.New("step count must be positive")
		}
	}
	return eng.Send(master.Packet{Msg: master.Step, Count: count}), false, nil
}

// Continue CPU from where it left off.
func cont(_ *cmdLine, eng Engine) (string, bool, error) {
	slog.Debug("Command Continue")
	return eng.Send(master.Packet{Msg: master.Start}), false, nil
}

// Stop the CPU.
func stop(_ *cmdLine, eng Engine) (string, bool, error) {
	slog.Debug("Command Stop")
	return eng.Send(master.Packet{Msg: master.Stop}), false, nil
}

// Show registers.
func registers(_ *cmdLine, eng Engine) (string, bool, error) {
	slog.Debug("Command Registers")
	return eng.Send(master.Packet{Msg: master.Registers}), false, nil
}

// Turn instruction trace on or off.
func trace(line *cmdLine, eng Engine) (string, bool, error) {
	slog.Debug("Command Trace")
	flag := false
	switch line.getWord() {
	case "on":
		flag = true
	case "off":
	default:
		return "", false, errors.New("trace must be on or off")
	}
	return eng.Send(master.Packet{Msg: master.Trace, Flag: flag}), false, nil
}

// Toggle breakpoint at address.
func breakpoint(line *cmdLine, eng Engine) (string, bool, error) {
	slog.Debug("Command Break")
	addr, err := line.getAddress(eng)
	if err != nil {
		return "", false, err
	}
	return eng.Send(master.Packet{Msg: master.Break, Addr: addr}), false, nil
}
