/*
 * WWSim - Console parser test cases.
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
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gfedorkow/Whirlwind-Instruction-Simulator-sub000/emu/master"
	W "github.com/gfedorkow/Whirlwind-Instruction-Simulator-sub000/emu/word"
)

type fakeEngine struct {
	sent []master.Packet
}

func (e *fakeEngine) Send(packet master.Packet) string {
	e.sent = append(e.sent, packet)
	return packet.Msg.String()
}

func (e *fakeEngine) Lookup(label string) (W.Address, bool) {
	if label == "loop" {
		return 0o123, true
	}
	return 0, false
}

func TestCommands(t *testing.T) {
	eng := &fakeEngine{}
	cases := []struct {
		line   string
		packet master.Packet
	}{
		{"step", master.Packet{Msg: master.Step, Count: 1}},
		{"s 10", master.Packet{Msg: master.Step, Count: 10}},
		{"continue", master.Packet{Msg: master.Start}},
		{"stop", master.Packet{Msg: master.Stop}},
		{"examine 0o100 4", master.Packet{Msg: master.Examine, Addr: 0o100, Count: 4}},
		{"e loop", master.Packet{Msg: master.Examine, Addr: 0o123, Count: 1}},
		{"deposit 200 177777", master.Packet{Msg: master.Deposit, Addr: 0o200, Value: 0o177777}},
		{"registers", master.Packet{Msg: master.Registers}},
		{"trace on", master.Packet{Msg: master.Trace, Flag: true}},
		{"TRACE OFF", master.Packet{Msg: master.Trace}},
		{"break loop", master.Packet{Msg: master.Break, Addr: 0o123}},
	}
	for _, c := range cases {
		eng.sent = nil
		text, quit, err := ProcessCommand(c.line, eng)
		require.NoError(t, err, c.line)
		assert.False(t, quit, c.line)
		require.Len(t, eng.sent, 1, c.line)
		assert.Equal(t, c.packet, eng.sent[0], c.line)
		assert.Equal(t, c.packet.Msg.String(), text, c.line)
	}
}

func TestQuit(t *testing.T) {
	eng := &fakeEngine{}
	_, quit, err := ProcessCommand("quit", eng)
	require.NoError(t, err)
	assert.True(t, quit)
	assert.Empty(t, eng.sent)
}

func TestCommandErrors(t *testing.T) {
	eng := &fakeEngine{}
	for _, line := range []string{
		"bogus",
		"step x",
		"step 0",
		"examine",
		"examine nolabel",
		"examine 9",
		"deposit 100",
		"deposit 100 1 2",
		"trace maybe",
		"123",
	} {
		_, _, err := ProcessCommand(line, eng)
		assert.Error(t, err, line)
	}
	assert.Empty(t, eng.sent)

	text, quit, err := ProcessCommand("  # comment", eng)
	assert.NoError(t, err)
	assert.False(t, quit)
	assert.Empty(t, text)
}

func TestComplete(t *testing.T) {
	assert.Equal(t, []string{"step", "stop"}, CompleteCmd("st"))
	assert.Equal(t, []string{"break"}, CompleteCmd("b"))
	assert.Equal(t, []string{"trace on"}, CompleteCmd("trace on"))
	assert.Nil(t, CompleteCmd("step 1"))
}
