/*
 * WWSim - Paper tape reader tests.
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

package modelpetr

import (
	"errors"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	config "github.com/gfedorkow/Whirlwind-Instruction-Simulator-sub000/config/configparser"
	"github.com/gfedorkow/Whirlwind-Instruction-Simulator-sub000/emu/alarm"
	W "github.com/gfedorkow/Whirlwind-Instruction-Simulator-sub000/emu/word"
)

func quiet() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestPETRClaims(t *testing.T) {
	device := NewPETR(quiet())
	for addr := W.Address(0o210); addr <= 0o213; addr++ {
		assert.True(t, device.Claims(addr))
	}
	assert.False(t, device.Claims(0o214))
	assert.False(t, device.Claims(0o224))
}

func TestPETRReadChars(t *testing.T) {
	name := filepath.Join(t.TempDir(), "prog.petrA")
	content := "%File: prog\n@T00000: 0000001 0000002 None 0000003 ; leader\n"
	require.NoError(t, os.WriteFile(name, []byte(content), 0o644))

	device := NewPETR(quiet())
	device.SetFiles(name, "")
	require.Equal(t, alarm.NoAlarm, device.Select(0o210, 0, nil))
	for _, want := range []W.Word{1, 2, 3} {
		al, v := device.Read(0, 0)
		assert.Equal(t, alarm.NoAlarm, al)
		assert.Equal(t, want, v)
	}
	al, _ := device.Read(0, 0)
	assert.Equal(t, alarm.IoErrorAlarm, al)

	// Word mode is not supported.
	require.Equal(t, alarm.NoAlarm, device.Select(0o212, 0, nil))
	al, _ = device.Read(0, 0)
	assert.Equal(t, alarm.UnimplementedAlarm, al)

	al, _ = device.Record(0, 0)
	assert.Equal(t, alarm.UnimplementedAlarm, al)
	assert.Equal(t, alarm.UnimplementedAlarm, device.BlockIn(0o100, 1, nil))
}

func TestPETRLazyLoad(t *testing.T) {
	loads := 0
	device := NewPETR(quiet())
	device.load = func(name string, _ *slog.Logger) ([]W.Word, error) {
		loads++
		if name == "missing" {
			return nil, errors.New("no such file")
		}
		return []W.Word{0o77}, nil
	}
	device.SetFiles("a.tape", "missing")

	assert.Equal(t, alarm.NoAlarm, device.Select(0o210, 0, nil))
	assert.Equal(t, alarm.NoAlarm, device.Select(0o210, 0, nil))
	assert.Equal(t, 1, loads)
	assert.Equal(t, alarm.IoErrorAlarm, device.Select(0o211, 0, nil))

	device.SetFiles("a.tape", "")
	assert.Equal(t, alarm.IoErrorAlarm, device.Select(0o211, 0, nil))
}

func TestPETRConfig(t *testing.T) {
	cfg := config.NewConfig()
	require.NoError(t, config.LoadConfig(strings.NewReader("PETR a=t.petrA b=t.petrB\n"), cfg))
	assert.Equal(t, "t.petrA", cfg.PetrA)
	assert.Equal(t, "t.petrB", cfg.PetrB)
	assert.Error(t, config.LoadConfig(strings.NewReader("PETR c=x\n"), cfg))
}
