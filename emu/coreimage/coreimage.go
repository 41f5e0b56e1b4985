/*
 * WWSim - Core image file reader and writer.
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

package coreimage

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"regexp"
	"strconv"
	"strings"

	W "github.com/gfedorkow/Whirlwind-Instruction-Simulator-sub000/emu/word"
)

/* Core image format:
 *
 *   ; comment line
 *   @C<addr>: <word> <word> ... ; annotation
 *   @T<offset>: <byte> <byte> ...
 *   @S<addr>: <label>
 *   @N<addr>: <comment text>
 *   @E<addr>: <op>: <directive text>
 *   %<Directive> <args>
 *
 * Words are octal, None marks an unset location. A file holds either @C
 * or @T lines, never both.
 */

var (
	ErrMixedImage = errors.New("core image mixes @C and @T lines")
	ErrSyntax     = errors.New("core image syntax error")
)

// Image types.
const (
	TypeUnknown = '?'
	TypeCore    = 'C'
	TypeTape    = 'T'
)

// Receiver of words read from an image. Block is the %Blocknum in effect.
type Sink interface {
	WriteBlock(block int, addr W.Address, value W.Word)
}

// Metadata and tables collected while loading an image.
type Image struct {
	File      string               // %File name.
	TapeID    string               // %TapeID.
	Hash      string               // %Hash fingerprint as read.
	Strings   string               // %String lines joined by newlines.
	Stats     string               // %Stats text.
	ISA       string               // Instruction set, 1958 by default.
	JumpTo    *W.Address           // Start address if given.
	Type      byte                 // TypeCore, TypeTape or TypeUnknown.
	WordCount int                  // Words actually loaded.
	Symbols   map[W.Address]string // @S labels.
	Comments  map[W.Address]string // @N comments.
	Exec      map[W.Address]string // @E directives.
	Switches  [][]string           // %Switch arguments, in order.
	Widgets   [][]string           // %DbWgt arguments, in order.
}

func newImage() *Image {
	return &Image{
		TapeID:   "(None)",
		ISA:      "1958",
		Type:     TypeUnknown,
		Symbols:  map[W.Address]string{},
		Comments: map[W.Address]string{},
		Exec:     map[W.Address]string{},
	}
}

// Find address of a label.
func (img *Image) Lookup(label string) (W.Address, bool) {
	for addr, name := range img.Symbols {
		if name == label {
			return addr, true
		}
	}
	return 0, false
}

var (
	lineStart  = regexp.MustCompile(`^@N|^@C|^@T|^@S|^@E|^%[a-zA-Z]`)
	tokenSplit = regexp.MustCompile(`[: \t]+`)
)

// Parse an octal number with optional 0o prefix.
func ParseOctal(str string) (int, error) {
	str = strings.TrimPrefix(strings.TrimPrefix(str, "0o"), "0O")
	v, err := strconv.ParseInt(str, 8, 32)
	if err != nil {
		return 0, err
	}
	return int(v), nil
}

// Load image from named file.
func LoadFile(name string, sink Sink, log *slog.Logger) (*Image, error) {
	file, err := os.Open(name)
	if err != nil {
		return nil, err
	}
	defer file.Close()
	if log == nil {
		log = slog.Default()
	}
	log.Info("core file " + name)
	return Load(file, sink, log)
}

type loader struct {
	img        *Image
	sink       Sink
	log        *slog.Logger
	lineNumber int
	block      int
}

func (ld *loader) syntax(format string, a ...interface{}) error {
	return fmt.Errorf("%w: line %d: %s", ErrSyntax, ld.lineNumber, fmt.Sprintf(format, a...))
}

// Read a core or tape image. Words go to sink, everything else is returned
// in the Image.
func Load(r io.Reader, sink Sink, log *slog.Logger) (*Image, error) {
	if log == nil {
		log = slog.Default()
	}
	ld := &loader{img: newImage(), sink: sink, log: log}
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 64*1024), 1024*1024)
	for scanner.Scan() {
		ld.lineNumber++
		line := strings.TrimRight(scanner.Text(), " \t\r\n")
		if line == "" || line[0] == ';' {
			continue
		}
		if !lineStart.MatchString(line) {
			log.Warn(fmt.Sprintf("ignoring line %d: %s", ld.lineNumber, line))
			continue
		}
		var err error
		if line[0] == '@' {
			err = ld.parseTag(line)
		} else {
			err = ld.parseDirective(line)
		}
		if err != nil {
			return ld.img, err
		}
	}
	if err := scanner.Err(); err != nil {
		return ld.img, err
	}
	return ld.img, nil
}

// Handle @ lines.
func (ld *loader) parseTag(line string) error {
	img := ld.img
	tag := line[1]
	switch tag {
	case TypeCore, TypeTape:
		if img.Type != TypeUnknown && img.Type != tag {
			return fmt.Errorf("%w: line %d", ErrMixedImage, ld.lineNumber)
		}
		img.Type = tag
		if i := strings.IndexByte(line, ';'); i >= 0 {
			line = strings.TrimRight(line[:i], " \t")
		}
		tokens := tokenSplit.Split(line, -1)
		addr, err := ParseOctal(tokens[0][2:])
		if err != nil {
			return ld.syntax("bad address %s", tokens[0])
		}
		for _, token := range tokens[1:] {
			if token == "" {
				continue
			}
			if token != "None" {
				v, err := ParseOctal(token)
				if err != nil || v > int(W.Mask16) {
					return ld.syntax("bad word %s", token)
				}
				if ld.sink != nil {
					ld.sink.WriteBlock(ld.block, W.Address(addr), W.Word(v))
				}
				img.WordCount++
			}
			addr++
		}

	case 'S':
		tokens := tokenSplit.Split(line, -1)
		if len(tokens) != 2 {
			ld.log.Warn(fmt.Sprintf("read_core parse error, @S: tokens=%v", tokens))
			return nil
		}
		addr, err := ParseOctal(tokens[0][2:])
		if err != nil {
			return ld.syntax("bad address %s", tokens[0])
		}
		img.Symbols[W.Address(addr)] = tokens[1]

	case 'N', 'E':
		tokens := tokenSplit.Split(line, 2)
		if len(tokens) != 2 {
			ld.log.Warn(fmt.Sprintf("read_core parse error, @%c: tokens=%v", tag, tokens))
			return nil
		}
		addr, err := ParseOctal(tokens[0][2:])
		if err != nil {
			return ld.syntax("bad address %s", tokens[0])
		}
		if tag == 'N' {
			img.Comments[W.Address(addr)] = tokens[1]
		} else {
			img.Exec[W.Address(addr)] = tokens[1]
			ld.log.Debug(fmt.Sprintf("ExecAddr=0o%02o: %s", addr, tokens[1]))
		}
	}
	return nil
}

// Handle % directives.
func (ld *loader) parseDirective(line string) error {
	img := ld.img
	fields := strings.Fields(line)
	arg := func(what string) (string, bool) {
		if len(fields) > 1 {
			return fields[1], true
		}
		ld.log.Warn("read_core: missing arg to " + what)
		return "", false
	}

	switch {
	case strings.HasPrefix(line, "%Switch"):
		img.Switches = append(img.Switches, fields[1:])

	case strings.HasPrefix(line, "%JumpTo"):
		str, ok := arg("%JumpTo")
		if !ok {
			return nil
		}
		v, err := ParseOctal(str)
		if err != nil {
			return ld.syntax("bad JumpTo %s", str)
		}
		addr := W.Address(v) & W.Address(W.AddrMask)
		img.JumpTo = &addr
		ld.log.Info(fmt.Sprintf("corefile JumpTo address = 0o%o", addr))

	case strings.HasPrefix(line, "%File"):
		if len(fields) > 1 {
			img.File = fields[1]
		}

	case strings.HasPrefix(line, "%TapeID"):
		if len(fields) > 1 {
			img.TapeID = fields[1]
		}

	case strings.HasPrefix(line, "%Hash:"):
		if str, ok := arg("%Hash"); ok {
			img.Hash = str
		}

	case strings.HasPrefix(line, "%String:"):
		if str, ok := arg("%String"); ok {
			img.Strings += str + "\n"
		}

	case strings.HasPrefix(line, "%Stats:"):
		parts := strings.SplitN(line, " ", 2)
		if len(parts) > 1 {
			img.Stats = parts[1]
		} else {
			ld.log.Warn("read_core: missing arg to %Stats")
		}

	case strings.HasPrefix(line, "%Blocknum"):
		str, ok := arg("%Blocknum")
		if !ok {
			return nil
		}
		v, err := ParseOctal(str)
		if err != nil {
			return ld.syntax("bad Blocknum %s", str)
		}
		ld.block = v

	case strings.HasPrefix(line, "%ISA:"):
		if str, ok := arg("%ISA"); ok {
			img.ISA = str
			ld.log.Info(fmt.Sprintf("Setting instruction set architecture to '%s'", str))
		}

	case strings.HasPrefix(line, "%DbWgt:"):
		args := fields[1:]
		if len(args) < 1 || len(args) > 3 {
			ld.log.Warn(fmt.Sprintf("read_core: %%DbWgt takes one, two or three args, got %d", len(args)))
		}
		img.Widgets = append(img.Widgets, args)

	default:
		ld.log.Warn(fmt.Sprintf("read_core: unexpected line '%s', Line %d", line, ld.lineNumber))
	}
	return nil
}

// Tape collects the bytes of an @T image in order.
type Tape struct {
	Data []W.Word
}

func (tape *Tape) WriteBlock(_ int, _ W.Address, value W.Word) {
	tape.Data = append(tape.Data, value)
}

// Read a paper tape image.
func LoadTape(name string, log *slog.Logger) ([]W.Word, error) {
	tape := &Tape{}
	img, err := LoadFile(name, tape, log)
	if err != nil {
		return nil, err
	}
	if img.Type == TypeCore {
		return nil, fmt.Errorf("%w: %s is not a tape image", ErrSyntax, name)
	}
	return tape.Data, nil
}
