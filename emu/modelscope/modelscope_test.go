/*
 * WWSim - Display scope tests.
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

package modelscope

import (
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gfedorkow/Whirlwind-Instruction-Simulator-sub000/emu/alarm"
	W "github.com/gfedorkow/Whirlwind-Instruction-Simulator-sub000/emu/word"
)

func quiet() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestScopeClaims(t *testing.T) {
	device := NewScope(quiet())
	for _, addr := range []W.Address{0o600, 0o677, 0o1600, 0o1677, 0o2600, 0o3677, 0o14, 0o15} {
		assert.True(t, device.Claims(addr), "addr 0o%o", addr)
	}
	for _, addr := range []W.Address{0o700, 0o16, 0o2700, 0o500} {
		assert.False(t, device.Claims(addr), "addr 0o%o", addr)
	}
}

func TestConvert(t *testing.T) {
	assert.Equal(t, 0, Convert(0))
	assert.Equal(t, 1023, Convert(0o77777))
	assert.Equal(t, -1024, Convert(0o100000))
	assert.Equal(t, 0, Convert(0o177777))
	assert.Equal(t, 1, Convert(0o40))
	assert.Equal(t, -1, Convert(0o177737))

	xd, yd := ConvertDelta(0o012040) // xd 012, yd 010
	assert.Equal(t, 0o12, xd)
	assert.Equal(t, 0o10, yd)
	xd, yd = ConvertDelta(W.Word(0o76) << 10)
	assert.Equal(t, -0o41, xd)
	assert.Equal(t, 0, yd)
}

func TestScopeRecord(t *testing.T) {
	device := NewScope(quiet())
	require.Equal(t, alarm.NoAlarm, device.Select(0o600, 0o40<<5, nil))
	assert.Equal(t, Points, device.Mode())
	al, _ := device.Record(0, 0o20<<5)
	assert.Equal(t, alarm.NoAlarm, al)

	device.Select(0o1601, 0, nil)
	assert.Equal(t, Vectors, device.Mode())
	device.Record(0o012040, 0)

	device.Select(0o14, 0, nil)
	device.Select(0o3600, 0, nil)
	assert.Equal(t, Characters, device.Mode())
	device.Record(0o177<<8, 0)
	device.Select(0o15, 0, nil)
	device.Record(0o3<<8, 0)

	objs := device.Objects()
	require.Len(t, objs, 4)
	assert.Equal(t, Object{Kind: Dot, X0: 0o20, Y0: 0o40, Scope: MainScope, Intensity: Bright}, *objs[0])
	assert.Equal(t, Line, objs[1].Kind)
	assert.Equal(t, 0o12, objs[1].X1)
	assert.Equal(t, 0o10, objs[1].Y1)
	assert.Equal(t, 0o177, objs[2].Mask)
	assert.Equal(t, 2.0, objs[2].Expand)
	assert.Equal(t, 1.0, objs[3].Expand)

	al, v := device.Read(0, 0)
	assert.Equal(t, alarm.NoAlarm, al)
	assert.Equal(t, W.Word(0), v)
	assert.Len(t, device.Objects(), 5)
}

func TestScope1950(t *testing.T) {
	device := NewScope(quiet())
	device.SetHorizontal(0o100 << 5)
	assert.Equal(t, Points, device.Mode())
	device.Display(0o200<<5, MainScope)
	device.Display(0o300<<5, AuxScope)
	x, y := device.Position()
	assert.Equal(t, 0o100, x)
	assert.Equal(t, 0o300, y)
	objs := device.Objects()
	require.Len(t, objs, 2)
	assert.Equal(t, AuxScope, objs[1].Scope)
}

func TestScopeFade(t *testing.T) {
	device := NewScope(quiet())
	device.SetFadeDelay(2)
	device.Select(0o600, 0, nil)
	device.Record(0, 0)
	for i := 0; i < 2*(Bright-1); i++ {
		device.Poll()
	}
	require.Len(t, device.Objects(), 1)
	assert.Equal(t, 1, device.Objects()[0].Intensity)
	device.Poll()
	device.Poll()
	assert.Empty(t, device.Objects())

	device.SetPersist(true)
	device.Record(0, 0)
	for i := 0; i < 100; i++ {
		device.Poll()
	}
	assert.Len(t, device.Objects(), 1)
}

func TestScopeImage(t *testing.T) {
	device := NewScope(quiet())
	device.Select(0o1600, 0, nil)
	device.Record(0o012040, 0)
	device.Select(0o2600, 0, nil)
	device.Record(0o177<<8, 0o100<<5)

	name := filepath.Join(t.TempDir(), "scope.png")
	require.NoError(t, device.SaveImage(name, 256))
	info, err := os.Stat(name)
	require.NoError(t, err)
	assert.Greater(t, info.Size(), int64(0))

	dc := device.Render(64)
	assert.Equal(t, 64, dc.Width())
}
