/*
 * WWSim - Machine alarm definitions.
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

package alarm

import "fmt"

// Alarm is the condition returned by every instruction.
type Alarm int

const (
	NoAlarm Alarm = iota
	OverflowAlarm
	UnimplementedAlarm
	ReadBeforeWriteAlarm
	UnknownIoDeviceAlarm
	HaltAlarm
	CheckAlarm
	QuitAlarm
	IoErrorAlarm
	DivideAlarm
)

var messages = [...]string{
	NoAlarm:              "No Alarm",
	OverflowAlarm:        "Overflow Alarm",
	UnimplementedAlarm:   "Unimplemented Instruction",
	ReadBeforeWriteAlarm: "Operation on Uninitialized Variable",
	UnknownIoDeviceAlarm: "Unknown I/O Device",
	HaltAlarm:            "Program Halt",
	CheckAlarm:           "Check Instruction Alarm",
	QuitAlarm:            "Quit Simulation",
	IoErrorAlarm:         "I/O Error Alarm",
	DivideAlarm:          "Divide Error Alarm",
}

// Return message for alarm.
func (a Alarm) String() string {
	if a < 0 || int(a) >= len(messages) {
		return fmt.Sprintf("Alarm(%d)", int(a))
	}
	return messages[a]
}

// Terminal alarms always stop the machine.
func (a Alarm) Terminal() bool {
	return a == HaltAlarm || a == QuitAlarm
}

// Report alarm at given program counter, pc is the address of the
// instruction that raised it.
func (a Alarm) Report(pc uint16) string {
	return fmt.Sprintf("Alarm '%s' (%d) at PC=0o%o (0d%d)", a.String(), int(a), pc, pc)
}
