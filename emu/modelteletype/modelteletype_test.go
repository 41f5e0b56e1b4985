/*
 * WWSim - Teletype printer tests.
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

package modelteletype

import (
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/gfedorkow/Whirlwind-Instruction-Simulator-sub000/emu/alarm"
	W "github.com/gfedorkow/Whirlwind-Instruction-Simulator-sub000/emu/word"
)

func pack(a, b, c int) W.Word {
	return W.Word(a<<10 | b<<5 | c)
}

func TestTeletypeClaims(t *testing.T) {
	device := NewTeletype(slog.New(slog.NewTextHandler(io.Discard, nil)))
	assert.True(t, device.Claims(0o402))
	assert.False(t, device.Claims(0o403))
	assert.Equal(t, alarm.NoAlarm, device.Select(0o402, 0, nil))
}

func TestTeletypeShift(t *testing.T) {
	device := NewTeletype(slog.New(slog.NewTextHandler(io.Discard, nil)))

	// H I <space>
	al, str := device.Record(0, pack(0o05, 0o14, 0o04))
	assert.Equal(t, alarm.NoAlarm, al)
	assert.Equal(t, "HI ", str)

	// fs 1 2 then ls A
	_, str = device.Record(0, pack(figureShift, 0o35, 0o31))
	assert.Equal(t, "12", str)
	_, str = device.Record(0, pack(0o01, letterShift, 0o30))
	assert.Equal(t, "5A", str)

	assert.Equal(t, "HI 125A", device.Transcript())
}
