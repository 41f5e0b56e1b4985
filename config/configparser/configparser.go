/*
 * WWSim - Configuration file parser.
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

package configparser

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"unicode"
)

// List of options to pass to create routine.
type Option struct {
	Name     string    // Name of option.
	EqualOpt string    // Value of string after =.
	Value    []*string // Value of option.
}

// Session settings collected from a configuration file.
type Config struct {
	DrumFile    string         // Drum state file.
	PetrA       string         // Paper tape for reader A.
	PetrB       string         // Paper tape for reader B.
	Switches    [][]string     // Switch directives, applied in order.
	ISA         string         // Instruction set, 1950 or 1958.
	NoAlarmStop bool           // Continue after alarms.
	CycleLimit  int            // Zero for no limit.
	DebugMasks  map[string]int // Debug masks by module name.
	DebugFile   string         // Debug output file.
}

// Create empty configuration.
func NewConfig() *Config {
	return &Config{DebugMasks: map[string]int{}}
}

// Current option line being parsed.
type optionLine struct {
	line string // Current option line.
	pos  int    // Current position in line.
}

/* Configuration file format:
 *
 * '#' indicates comment, rest of line is ignored.
 * <line> := <model> <whitespace> <first> <whitespace> <options> |
 *           <model> <whitespace> <options> |
 *           <model>
 * <first> ::= <value>
 * <options> ::= *(<option> *(<whitespace>))
 * <option> ::= <name> ['=' <quoteopt>] *(',' *(<whitespace>) <name>)
 * <quoteopt> ::= <value> | '"' *(<any>) '"'
 * <value> ::= *(<any except whitespace, ',' or '#'>)
 * <name> ::= <letter> *(<letter> | <number>)
 */

const (
	TypeOption   = 1 + iota // Accepts a option parameter.
	TypeOptions             // Accepts a first value and list of options.
	TypeSwitch              // Option only used to set a flag.
	TypeSettings            // Accepts only a list of options.
)

// Model creation list.
type modelDef struct {
	create func(*Config, string, []Option) error
	ty     int
}

var models = map[string]modelDef{}

var lineNumber int

// Return type of model or 0 if no model.
func getModel(mod string) int {
	model, ok := models[mod]
	if !ok {
		return 0
	}
	return model.ty
}

// Register should be called from init functions.
func RegisterModel(mod string, ty int, fn func(*Config, string, []Option) error) {
	mod = strings.ToUpper(mod)
	models[mod] = modelDef{create: fn, ty: ty}
}

// Register should be called from init functions.
func RegisterSwitch(mod string, fn func(*Config, string, []Option) error) {
	RegisterModel(mod, TypeSwitch, fn)
}

// Register should be called from init functions.
func RegisterOption(mod string, fn func(*Config, string, []Option) error) {
	RegisterModel(mod, TypeOption, fn)
}

// Register should be called from init functions.
func RegisterSettings(mod string, fn func(*Config, string, []Option) error) {
	RegisterModel(mod, TypeSettings, fn)
}

// Registered names in no particular order.
func Models() []string {
	names := []string{}
	for name := range models {
		names = append(names, name)
	}
	return names
}

// Call create routine of model after checking type.
func create(cfg *Config, mod string, ty int, first string, options []Option) error {
	model, ok := models[mod]
	if !ok {
		return errors.New("Unknown option: " + mod)
	}
	if model.ty != ty {
		return fmt.Errorf("Option %s used with wrong form, line: %d", mod, lineNumber)
	}
	return model.create(cfg, first, options)
}

// Load in a configuration file.
func LoadConfigFile(name string, cfg *Config) error {
	file, err := os.Open(name)
	if err != nil {
		return err
	}
	defer file.Close()
	return LoadConfig(file, cfg)
}

// Load configuration from a reader.
func LoadConfig(r io.Reader, cfg *Config) error {
	lineNumber = 0
	reader := bufio.NewReader(r)
	for {
		var err error

		line := optionLine{}
		line.line, err = reader.ReadString('\n')
		lineNumber++
		if len(line.line) == 0 && err != nil {
			if errors.Is(err, io.EOF) {
				break
			}
			return err
		}
		line.line = strings.TrimRight(line.line, "\r\n")
		err = line.parseLine(cfg)
		if err != nil {
			return err
		}
	}
	return nil
}

// Parse one line from file.
func (line *optionLine) parseLine(cfg *Config) error {
	model := line.parseModel()
	if model == "" {
		return nil
	}
	ty := getModel(model)
	switch ty {
	case TypeOption:
		first := line.parseFirst()
		line.skipSpace()
		if !line.isEOL() || first == "" {
			return fmt.Errorf("Option: %s not followed by value. line: %d", model, lineNumber)
		}
		return create(cfg, model, ty, first, nil)

	case TypeOptions:
		first := line.parseFirst()
		if first == "" {
			return fmt.Errorf("Option: %s not followed by value, line: %d", model, lineNumber)
		}
		options, err := line.parseOptions()
		if err != nil {
			return err
		}
		return create(cfg, model, ty, first, options)

	case TypeSettings:
		options, err := line.parseOptions()
		if err != nil {
			return err
		}
		if len(options) == 0 {
			return fmt.Errorf("Option: %s requires settings, line: %d", model, lineNumber)
		}
		return create(cfg, model, ty, "", options)

	case TypeSwitch:
		line.skipSpace()
		if !line.isEOL() {
			return fmt.Errorf("Switch Option: %s followed by options, line: %d", model, lineNumber)
		}
		return create(cfg, model, ty, "", nil)
	}
	return fmt.Errorf("No type: %s registered, line: %d", model, lineNumber)
}

// Skip forward over line until none whitespace character found.
func (line *optionLine) skipSpace() {
	for line.pos < len(line.line) && unicode.IsSpace(rune(line.line[line.pos])) {
		line.pos++
	}
}

// Check if at end of line.
func (line *optionLine) isEOL() bool {
	if line.pos >= len(line.line) {
		return true
	}
	return line.line[line.pos] == '#'
}

// Character may appear in an unquoted value.
func isValueChar(by byte) bool {
	return !unicode.IsSpace(rune(by)) && by != ',' && by != '#'
}

// Character may appear in a name.
func isNameChar(by byte) bool {
	return unicode.IsLetter(rune(by)) || unicode.IsNumber(rune(by))
}

// Parse model name.
func (line *optionLine) parseModel() string {
	line.skipSpace()
	model := ""
	for !line.isEOL() && isNameChar(line.line[line.pos]) {
		model += string([]byte{line.line[line.pos]})
		line.pos++
	}
	return strings.ToUpper(model)
}

// Parse first option parameter, everything up to next space.
func (line *optionLine) parseFirst() string {
	line.skipSpace()
	value := ""
	for !line.isEOL() && !unicode.IsSpace(rune(line.line[line.pos])) {
		value += string([]byte{line.line[line.pos]})
		line.pos++
	}
	return value
}

// Parse string that is "string" or just string. Line position is at
// the equal sign on entry.
func (line *optionLine) parseQuoteString() (string, bool) {
	line.pos++
	if line.pos < len(line.line) && line.line[line.pos] == '"' {
		value := ""
		for {
			line.pos++
			if line.pos >= len(line.line) {
				return value, false
			}
			by := line.line[line.pos]
			if by == '"' {
				// "" gets replaced by single quote.
				if line.pos+1 < len(line.line) && line.line[line.pos+1] == '"' {
					line.pos++
				} else {
					line.pos++
					return value, true
				}
			}
			value += string([]byte{by})
		}
	}

	value := ""
	for !line.isEOL() && isValueChar(line.line[line.pos]) {
		value += string([]byte{line.line[line.pos]})
		line.pos++
	}
	return value, true
}

// Parse option name.
func (line *optionLine) getName() (string, error) {
	if line.isEOL() {
		return "", nil
	}

	// First character must be alphanumeric.
	if !isNameChar(line.line[line.pos]) {
		return "", fmt.Errorf("Invalid option encountered line: %d [%d]", lineNumber, line.pos)
	}
	value := ""
	for !line.isEOL() && isValueChar(line.line[line.pos]) && line.line[line.pos] != '=' {
		value += string([]byte{line.line[line.pos]})
		line.pos++
	}
	return value, nil
}

// Parse options for a line.
func (line *optionLine) parseOption() (*Option, error) {
	line.skipSpace()

	value, err := line.getName()
	if value == "" {
		return nil, err
	}

	option := Option{Name: value}

	if line.isEOL() {
		return &option, nil
	}

	// Check if equals option.
	if line.line[line.pos] == '=' {
		v, ok := line.parseQuoteString()
		if !ok {
			return nil, fmt.Errorf("Invalid quoted string line: %d [%d]", lineNumber, line.pos)
		}
		option.EqualOpt = v
	}

	line.skipSpace()

	// Grab all , options
	for !line.isEOL() && line.line[line.pos] == ',' {
		line.pos++
		line.skipSpace()
		v, err := line.getName()
		if err != nil {
			return nil, err
		}
		if v != "" {
			option.Value = append(option.Value, &v)
		}
		line.skipSpace()
	}

	return &option, nil
}

// Collect all options for line.
func (line *optionLine) parseOptions() ([]Option, error) {
	options := []Option{}
	for {
		option, err := line.parseOption()
		if err != nil {
			return nil, err
		}
		if option == nil {
			break
		}
		options = append(options, *option)
	}
	return options, nil
}
