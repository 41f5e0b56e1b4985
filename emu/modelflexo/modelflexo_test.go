/*
 * WWSim - Flexowriter printer tests.
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

package modelflexo

import (
	"bytes"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/gfedorkow/Whirlwind-Instruction-Simulator-sub000/emu/alarm"
	"github.com/gfedorkow/Whirlwind-Instruction-Simulator-sub000/emu/memory"
	W "github.com/gfedorkow/Whirlwind-Instruction-Simulator-sub000/emu/word"
)

func quiet() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func code(c int) W.Word {
	return W.Word(c) << 10
}

func TestTranslatorCase(t *testing.T) {
	tr := NewTranslator(false)
	assert.Equal(t, "h", tr.Letter(0o50, false))
	assert.Equal(t, "", tr.Letter(CodeUpper, false))
	assert.Equal(t, "H", tr.Letter(0o50, false))
	assert.Equal(t, "", tr.Letter(CodeLower, false))
	assert.Equal(t, "i", tr.Letter(0o14, false))
	assert.Equal(t, "\n", tr.Letter(0o51, false))
}

func TestTranslatorUnprintable(t *testing.T) {
	tr := NewTranslator(true)
	assert.Equal(t, "\\n", tr.Letter(0o51, true))
	assert.Equal(t, "\\t", tr.Letter(0o45, true))
	assert.Equal(t, "\\0", tr.Letter(0, true))
	assert.Equal(t, "<cntl>", tr.Letter(CodeUpper, true))
	assert.Equal(t, "<color>", tr.Letter(CodeColor, true))
	tr.Letter(CodeNullify, true)
	assert.Equal(t, 1, tr.NullCount)
}

func TestTranslatorColor(t *testing.T) {
	tr := NewTranslator(true)
	assert.Equal(t, colorRed, tr.Letter(CodeColor, false))
	assert.Equal(t, colorReset, tr.Letter(CodeColor, false))

	tr = NewTranslator(false)
	assert.Equal(t, "", tr.Letter(CodeColor, false))
}

func TestFlexoClaims(t *testing.T) {
	device := NewFlexo(quiet())
	assert.True(t, device.Claims(0o224))
	assert.True(t, device.Claims(0o225))
	assert.True(t, device.Claims(0o234))
	assert.False(t, device.Claims(0o204))
	assert.False(t, device.Claims(0o210))
}

func TestFlexoSelect(t *testing.T) {
	device := NewFlexo(quiet())
	assert.Equal(t, alarm.NoAlarm, device.Select(0o225, 0, nil))
	assert.True(t, device.stopOnZero)
	assert.Equal(t, alarm.UnimplementedAlarm, device.Select(0o234, 0, nil))
	assert.Equal(t, alarm.UnimplementedAlarm, device.Select(0o226, 0, nil))
}

func TestFlexoRecord(t *testing.T) {
	var echo bytes.Buffer
	device := NewFlexo(quiet())
	device.SetEcho(&echo)

	al, sym := device.Record(0, code(0o50))
	assert.Equal(t, alarm.NoAlarm, al)
	assert.Equal(t, "h", sym)
	device.Record(0, code(0o14))
	al, sym = device.Record(0, code(0o51))
	assert.Equal(t, alarm.NoAlarm, al)
	assert.Equal(t, "\\n", sym)
	assert.Equal(t, "hi\n", echo.String())
	assert.Equal(t, "hi\n", device.Transcript())
}

func TestFlexoBlockOut(t *testing.T) {
	mem := memory.New(quiet())
	mem.Write(0o100, code(CodeUpper), false)
	mem.Write(0o101, code(0o06), false)
	mem.Write(0o102, code(0o06), false)
	device := NewFlexo(quiet())

	assert.Equal(t, alarm.NoAlarm, device.BlockOut(0o100, 3, mem))
	assert.Equal(t, "AA", device.Transcript())
	assert.Equal(t, alarm.QuitAlarm, device.BlockOut(0o3777, 2, mem))
}
