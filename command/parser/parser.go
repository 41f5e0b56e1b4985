/*
 * WWSim - Console command line parser.
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
	"strconv"
	"strings"
	"unicode"

	"github.com/gfedorkow/Whirlwind-Instruction-Simulator-sub000/emu/master"
	W "github.com/gfedorkow/Whirlwind-Instruction-Simulator-sub000/emu/word"
)

// Simulator the console talks to.
type Engine interface {
	Send(packet master.Packet) string
	Lookup(label string) (W.Address, bool)
}

type cmd struct {
	Name    string // Command name.
	Min     int    // Minimum match size.
	Process func(*cmdLine, Engine) (string, bool, error)
}

type cmdLine struct {
	line string // Current command.
	pos  int    // Position in line.
}

// Execute the command line given. Returns text to show and whether the
// console should quit.
func ProcessCommand(commandLine string, eng Engine) (string, bool, error) {
	line := cmdLine{line: commandLine}
	command := line.getWord()
	if command == "" {
		if !line.isEOL() {
			return "", false, errors.New("command not found: " + strings.TrimSpace(commandLine))
		}
		return "", false, nil
	}

	match := matchList(command)
	if len(match) == 0 {
		return "", false, errors.New("command not found: " + command)
	}

	if len(match) > 1 {
		return "", false, errors.New("unique command not found: " + command)
	}

	return match[0].Process(&line, eng)
}

// Check if command matches at least to minimum length.
func matchCommand(match cmd, command string) bool {
	if len(command) > len(match.Name) {
		return false
	}
	l := 0
	for l = range len(command) {
		if match.Name[l] != command[l] {
			return false
		}
	}
	return (l + 1) >= match.Min
}

// Check if command matches one of the commands.
func matchList(command string) []cmd {
	if command == "" {
		return []cmd{}
	}

	var match []cmd
	for _, m := range cmdList {
		if matchCommand(m, command) {
			match = append(match, m)
		}
	}
	return match
}

// Skip forward over line until none whitespace character found.
func (line *cmdLine) skipSpace() {
	for line.pos < len(line.line) && unicode.IsSpace(rune(line.line[line.pos])) {
		line.pos++
	}
}

// Check if at end of line.
func (line *cmdLine) isEOL() bool {
	if line.pos >= len(line.line) {
		return true
	}
	return line.line[line.pos] == '#'
}

// Return current character and advance to next.
func (line *cmdLine) getCurrent() byte {
	if line.isEOL() {
		return 0
	}
	by := line.line[line.pos]
	line.pos++
	return by
}

// Next space separated token.
func (line *cmdLine) getToken() string {
	line.skipSpace()
	value := ""
	for !line.isEOL() {
		by := line.line[line.pos]
		if unicode.IsSpace(rune(by)) {
			break
		}
		value += string([]byte{by})
		line.pos++
	}
	return value
}

// Parse alphabetic word, returned in lower case.
func (line *cmdLine) getWord() string {
	line.skipSpace()

	value := ""
	pos := line.pos
	by := line.getCurrent()
	for by != 0 {
		if !unicode.IsLetter(rune(by)) {
			line.pos = pos
			return ""
		}
		value += string([]byte{by})
		by = line.getCurrent()
		if by != 0 && unicode.IsSpace(rune(by)) {
			break
		}
	}

	return strings.ToLower(value)
}

// Parse decimal number.
func (line *cmdLine) getNumber() (int, error) {
	token := line.getToken()
	if token == "" {
		return 0, errors.New("not a number")
	}
	value, err := strconv.Atoi(token)
	if err != nil {
		return 0, errors.New("not a number: " + token)
	}
	return value, nil
}

// Parse octal number, with or without 0o prefix.
func (line *cmdLine) getOctal() (W.Word, error) {
	token := line.getToken()
	if token == "" {
		return 0, errors.New("octal value required")
	}
	return parseOctal(token)
}

func parseOctal(token string) (W.Word, error) {
	text := strings.TrimPrefix(strings.TrimPrefix(token, "0o"), "0O")
	value, err := strconv.ParseUint(text, 8, 16)
	if err != nil {
		return 0, errors.New("not an octal number: " + token)
	}
	return W.Word(value), nil
}

// Parse address given as octal or program label.
func (line *cmdLine) getAddress(eng Engine) (W.Address, error) {
	token := line.getToken()
	if token == "" {
		return 0, errors.New("address required")
	}
	if unicode.IsDigit(rune(token[0])) {
		value, err := parseOctal(token)
		if err != nil {
			return 0, err
		}
		return value.Addr(), nil
	}
	addr, ok := eng.Lookup(token)
	if !ok {
		return 0, errors.New("unknown label: " + token)
	}
	return addr, nil
}
