/*
 * WWSim - CPU instruction test cases.
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

package cpu

import (
	"bytes"
	"errors"
	"io"
	"log/slog"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gfedorkow/Whirlwind-Instruction-Simulator-sub000/emu/alarm"
	"github.com/gfedorkow/Whirlwind-Instruction-Simulator-sub000/emu/coreimage"
	dev "github.com/gfedorkow/Whirlwind-Instruction-Simulator-sub000/emu/device"
	"github.com/gfedorkow/Whirlwind-Instruction-Simulator-sub000/emu/memory"
	"github.com/gfedorkow/Whirlwind-Instruction-Simulator-sub000/emu/switches"
	W "github.com/gfedorkow/Whirlwind-Instruction-Simulator-sub000/emu/word"
)

// Opcodes used in tests.
const (
	opcSI = 0o00
	opcBI = 0o02
	opcRD = 0o03
	opcBO = 0o04
	opcRC = 0o05
	opcSD = 0o06
	opcCF = 0o07
	opcTS = 0o10
	opcTD = 0o11
	opcTA = 0o12
	opcCK = 0o13
	opcAB = 0o14
	opcEX = 0o15
	opcCP = 0o16
	opcSP = 0o17
	opcCA = 0o20
	opcCS = 0o21
	opcAD = 0o22
	opcSU = 0o23
	opcCM = 0o24
	opcSA = 0o25
	opcAO = 0o26
	opcDM = 0o27
	opcMR = 0o30
	opcMH = 0o31
	opcDV = 0o32
	opcSL = 0o33
	opcSR = 0o34
	opcSF = 0o35
	opcCL = 0o36
	opcMD = 0o37
)

var (
	testMem    *memory.CoreMemory
	testReg    *dev.Registry
	testSw     *switches.Switches
	testDevice *testDev
	cpuState   *CPU
	printOut   bytes.Buffer
)

func quiet() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func setup() {
	log := quiet()
	testMem = memory.New(log)
	testReg = dev.NewRegistry(log)
	testDevice = newTestDev(0o100)
	testReg.Add(testDevice)
	testSw = switches.New(log)
	printOut.Reset()
	cpuState = New(testMem, testReg, testSw, WithLogger(log), WithOutput(&printOut))
}

func inst(op int, addr W.Address) W.Word {
	return W.Word(op<<11) | W.Word(addr)
}

func set(addr W.Address, value W.Word) {
	testMem.Write(addr, value, true)
}

func get(addr W.Address) W.Word {
	return testMem.ReadOrZero(addr)
}

// Place instruction at 0o40 and execute it.
func (cpu *CPU) testInst(op int, addr W.Address) alarm.Alarm {
	set(0o40, inst(op, addr))
	cpu.pc = 0o40
	return cpu.Step()
}

func TestCycleCA(t *testing.T) {
	setup()
	set(0o100, 5)
	cpuState.br = 0o777
	a := cpuState.testInst(opcCA, 0o100)
	if a != alarm.NoAlarm {
		t.Errorf("CA alarm got: %v expected: none", a)
	}
	if cpuState.ac != 5 {
		t.Errorf("CA AC not correct got: %o expected: %o", cpuState.ac, 5)
	}
	if cpuState.ar != 5 {
		t.Errorf("CA AR not correct got: %o expected: %o", cpuState.ar, 5)
	}
	if cpuState.br != 0 {
		t.Errorf("CA BR not cleared got: %o", cpuState.br)
	}
	if cpuState.pc != 0o41 {
		t.Errorf("CA PC not correct got: %o expected: %o", cpuState.pc, 0o41)
	}

	// SAM carried in from special add.
	cpuState.sam = 1
	cpuState.testInst(opcCA, 0o100)
	if cpuState.ac != 6 || cpuState.sam != 0 {
		t.Errorf("CA with SAM not correct got: %o sam %d expected: %o", cpuState.ac, cpuState.sam, 6)
	}
}

func TestCycleCS(t *testing.T) {
	setup()
	set(0o100, 5)
	cpuState.testInst(opcCS, 0o100)
	if cpuState.ac != 0o177772 {
		t.Errorf("CS AC not correct got: %o expected: %o", cpuState.ac, 0o177772)
	}
	if cpuState.ar != 5 {
		t.Errorf("CS AR not correct got: %o expected: %o", cpuState.ar, 5)
	}
}

func TestCycleADSU(t *testing.T) {
	setup()
	set(0o100, 3)
	cpuState.ac = 10
	cpuState.testInst(opcAD, 0o100)
	if cpuState.ac != 13 {
		t.Errorf("AD AC not correct got: %o expected: %o", cpuState.ac, 13)
	}
	cpuState.testInst(opcSU, 0o100)
	if cpuState.ac != 10 {
		t.Errorf("SU AC not correct got: %o expected: %o", cpuState.ac, 10)
	}

	// +1 + -1 gives a zero without overflow.
	set(0o100, W.Negate(1))
	cpuState.ac = 1
	a := cpuState.testInst(opcAD, 0o100)
	if a != alarm.NoAlarm || !cpuState.ac.IsZero() {
		t.Errorf("AD end around not correct got: %o alarm %v", cpuState.ac, a)
	}

	set(0o100, 1)
	cpuState.ac = 0o77777
	a = cpuState.testInst(opcAD, 0o100)
	if a != alarm.OverflowAlarm {
		t.Errorf("AD overflow not detected got: %v", a)
	}
}

func TestCycleCM(t *testing.T) {
	setup()
	set(0o100, W.Negate(5))
	cpuState.br = 1
	cpuState.testInst(opcCM, 0o100)
	if cpuState.ac != 5 || cpuState.ar != 5 || cpuState.br != 0 {
		t.Errorf("CM not correct got: AC=%o AR=%o BR=%o", cpuState.ac, cpuState.ar, cpuState.br)
	}
}

func TestCycleSA(t *testing.T) {
	setup()
	set(0o100, 1)
	set(0o101, 3)
	cpuState.ac = 0o77777
	a := cpuState.testInst(opcSA, 0o100)
	if a != alarm.NoAlarm {
		t.Errorf("SA raised alarm %v", a)
	}
	if cpuState.ac != 0 || cpuState.sam != 1 {
		t.Errorf("SA not correct got: AC=%o SAM=%d expected: 0, 1", cpuState.ac, cpuState.sam)
	}
	cpuState.testInst(opcCA, 0o101)
	if cpuState.ac != 4 || cpuState.sam != 0 {
		t.Errorf("CA after SA not correct got: AC=%o SAM=%d expected: 4, 0", cpuState.ac, cpuState.sam)
	}
}

func TestCycleAO(t *testing.T) {
	setup()
	set(0o100, 5)
	cpuState.testInst(opcAO, 0o100)
	if cpuState.ac != 6 || get(0o100) != 6 || cpuState.ar != 5 {
		t.Errorf("AO not correct got: AC=%o m=%o AR=%o", cpuState.ac, get(0o100), cpuState.ar)
	}

	// Unset location counts from zero.
	a := cpuState.testInst(opcAO, 0o200)
	if a != alarm.NoAlarm || cpuState.ac != 1 || get(0o200) != 1 {
		t.Errorf("AO unset not correct got: AC=%o alarm %v", cpuState.ac, a)
	}
}

func TestCycleAB(t *testing.T) {
	setup()
	set(0o100, 3)
	cpuState.br = 7
	cpuState.testInst(opcAB, 0o100)
	if cpuState.ac != 10 || get(0o100) != 10 || cpuState.ar != 3 {
		t.Errorf("AB not correct got: AC=%o m=%o AR=%o", cpuState.ac, get(0o100), cpuState.ar)
	}
}

func TestCycleEX(t *testing.T) {
	setup()
	set(0o100, 3)
	cpuState.ac = 7
	cpuState.testInst(opcEX, 0o100)
	if cpuState.ac != 3 || get(0o100) != 7 || cpuState.ar != 3 {
		t.Errorf("EX not correct got: AC=%o m=%o AR=%o", cpuState.ac, get(0o100), cpuState.ar)
	}
}

func TestCycleTSTDTA(t *testing.T) {
	setup()
	cpuState.ac = 0o177777
	cpuState.testInst(opcTS, 0o100)
	if get(0o100) != 0o177777 {
		t.Errorf("TS not correct got: %o expected: %o", get(0o100), 0o177777)
	}

	set(0o101, 0o123456)
	cpuState.testInst(opcTD, 0o101)
	if get(0o101) != 0o123777 {
		t.Errorf("TD not correct got: %o expected: %o", get(0o101), 0o123777)
	}

	set(0o102, 0o123456)
	cpuState.ar = 0o41
	cpuState.testInst(opcTA, 0o102)
	if get(0o102) != 0o120041 {
		t.Errorf("TA not correct got: %o expected: %o", get(0o102), 0o120041)
	}

	a := cpuState.testInst(opcTD, 0o300)
	if a != alarm.ReadBeforeWriteAlarm {
		t.Errorf("TD unset location got: %v expected: ReadBeforeWrite", a)
	}
}

func TestCycleCK(t *testing.T) {
	setup()
	set(0o100, 5)
	cpuState.ac = 5
	if a := cpuState.testInst(opcCK, 0o100); a != alarm.NoAlarm || cpuState.pc != 0o41 {
		t.Errorf("CK equal not correct got: %v pc %o", a, cpuState.pc)
	}
	cpuState.ac = 4
	if a := cpuState.testInst(opcCK, 0o100); a != alarm.CheckAlarm {
		t.Errorf("CK not equal got: %v expected: CheckAlarm", a)
	}

	require.NoError(t, testSw.Set(switches.CheckAlarmSpecial, 1))
	if a := cpuState.testInst(opcCK, 0o100); a != alarm.NoAlarm || cpuState.pc != 0o42 {
		t.Errorf("CK special not correct got: %v pc %o", a, cpuState.pc)
	}
}

func TestCycleCPSP(t *testing.T) {
	setup()
	cpuState.ac = 1
	cpuState.testInst(opcCP, 0o200)
	if cpuState.pc != 0o41 || cpuState.ar != 0o41 {
		t.Errorf("CP positive not correct got: pc %o AR %o", cpuState.pc, cpuState.ar)
	}
	cpuState.ac = W.NegZero
	cpuState.testInst(opcCP, 0o200)
	if cpuState.pc != 0o200 || cpuState.ar != 0o41 {
		t.Errorf("CP negative not correct got: pc %o AR %o", cpuState.pc, cpuState.ar)
	}
	cpuState.ac = 0
	cpuState.testInst(opcSP, 0o300)
	if cpuState.pc != 0o300 || cpuState.ar != 0o41 {
		t.Errorf("SP not correct got: pc %o AR %o", cpuState.pc, cpuState.ar)
	}
}

func TestCycleDM(t *testing.T) {
	setup()
	set(0o100, 3)
	cpuState.ac = W.Negate(7)
	cpuState.testInst(opcDM, 0o100)
	if cpuState.ac != 4 || cpuState.br != W.Negate(7) || cpuState.ar != 3 {
		t.Errorf("DM not correct got: AC=%o BR=%o AR=%o", cpuState.ac, cpuState.br, cpuState.ar)
	}

	// Equal magnitudes give negative zero.
	cpuState.ac = 3
	cpuState.testInst(opcDM, 0o100)
	if !cpuState.ac.IsNegativeZero() {
		t.Errorf("DM equal not correct got: %o expected: %o", cpuState.ac, W.NegZero)
	}
}

func TestCycleMultiply(t *testing.T) {
	setup()
	set(0o100, 0o040000) // 0.5
	cpuState.ac = 0o040000
	cpuState.testInst(opcMR, 0o100)
	if cpuState.ac != 0o020000 || cpuState.br != 0 {
		t.Errorf("MR not correct got: AC=%o BR=%o expected: %o", cpuState.ac, cpuState.br, 0o020000)
	}

	// Low half rounds into AC.
	cpuState.ac = 1
	cpuState.testInst(opcMR, 0o100)
	if cpuState.ac != 1 {
		t.Errorf("MR round not correct got: %o expected: %o", cpuState.ac, 1)
	}

	cpuState.ac = 1
	cpuState.testInst(opcMH, 0o100)
	if cpuState.ac != 0 || cpuState.br != 0o100000 {
		t.Errorf("MH not correct got: AC=%o BR=%o", cpuState.ac, cpuState.br)
	}

	set(0o101, W.Negate(0o040000))
	cpuState.ac = 0o040000
	cpuState.testInst(opcMH, 0o101)
	if cpuState.ac != W.Negate(0o020000) || cpuState.ar != 0o040000 {
		t.Errorf("MH sign not correct got: AC=%o AR=%o", cpuState.ac, cpuState.ar)
	}
}

func TestCycleDV(t *testing.T) {
	setup()
	set(0o100, 0o040000)
	cpuState.ac = 0o020000
	if a := cpuState.testInst(opcDV, 0o100); a != alarm.NoAlarm {
		t.Errorf("DV alarm %v", a)
	}
	if cpuState.ac != 0 || cpuState.br != 0o100000 {
		t.Errorf("DV not correct got: AC=%o BR=%o", cpuState.ac, cpuState.br)
	}

	cpuState.ac = 0o040000
	cpuState.testInst(opcDV, 0o100)
	if cpuState.br != 0o177777 {
		t.Errorf("DV equal not correct got: BR=%o expected all ones", cpuState.br)
	}

	cpuState.ac = 0o060000
	if a := cpuState.testInst(opcDV, 0o100); a != alarm.DivideAlarm {
		t.Errorf("DV range got: %v expected: DivideAlarm", a)
	}
}

func TestCycleShift(t *testing.T) {
	setup()
	cpuState.ac = 0o040000
	cpuState.testInst(opcSR, 1)
	if cpuState.ac != 0o020000 || cpuState.br != 0 {
		t.Errorf("srr not correct got: AC=%o BR=%o", cpuState.ac, cpuState.br)
	}

	cpuState.ac = 1
	cpuState.testInst(opcSR, 0o1001)
	if cpuState.ac != 0 || cpuState.br != 0o100000 {
		t.Errorf("srh not correct got: AC=%o BR=%o", cpuState.ac, cpuState.br)
	}

	cpuState.ac = 1
	cpuState.br = 0
	cpuState.testInst(opcSR, 1)
	if cpuState.ac != 1 || cpuState.br != 0 {
		t.Errorf("srr round not correct got: AC=%o BR=%o", cpuState.ac, cpuState.br)
	}

	cpuState.ac = 1
	cpuState.testInst(opcSL, 2)
	if cpuState.ac != 4 {
		t.Errorf("slr not correct got: %o expected: %o", cpuState.ac, 4)
	}

	cpuState.ac = W.Negate(1)
	cpuState.testInst(opcSL, 2)
	if cpuState.ac != W.Negate(4) {
		t.Errorf("slr negative not correct got: %o expected: %o", cpuState.ac, W.Negate(4))
	}
}

func TestCycleCL(t *testing.T) {
	setup()
	cpuState.ac = 0o100000
	cpuState.br = 0
	cpuState.testInst(opcCL, 0o1001)
	if cpuState.ac != 0 || cpuState.br != 1 {
		t.Errorf("clh not correct got: AC=%o BR=%o", cpuState.ac, cpuState.br)
	}
	cpuState.ac = 0o100000
	cpuState.br = 0o100000
	cpuState.testInst(opcCL, 1)
	if cpuState.ac != 1 || cpuState.br != 0 {
		t.Errorf("clc not correct got: AC=%o BR=%o", cpuState.ac, cpuState.br)
	}
}

func TestCycleSF(t *testing.T) {
	setup()
	set(0o100, 0o174000)
	cpuState.ac = 0o001000
	cpuState.testInst(opcSF, 0o100)
	if cpuState.ac != 0o040000 || cpuState.ar != 5 || get(0o100) != 0o174005 {
		t.Errorf("SF not correct got: AC=%o AR=%o m=%o", cpuState.ac, cpuState.ar, get(0o100))
	}

	cpuState.ac = W.Negate(0o001000)
	cpuState.br = 0
	cpuState.testInst(opcSF, 0o100)
	if cpuState.ac != W.Negate(0o040000) {
		t.Errorf("SF negative not correct got: %o expected: %o", cpuState.ac, W.Negate(0o040000))
	}

	// All zero, unset operand.
	cpuState.ac = 0
	cpuState.br = 0
	a := cpuState.testInst(opcSF, 0o200)
	if a != alarm.NoAlarm || cpuState.ar != 32 || get(0o200) != 32 {
		t.Errorf("SF zero not correct got: AR=%o m=%o alarm %v", cpuState.ar, get(0o200), a)
	}
}

func TestCycleMDSD(t *testing.T) {
	setup()
	set(0o100, 0o101010)
	cpuState.ac = 0o170017
	cpuState.testInst(opcMD, 0o100)
	if cpuState.ac != 0o100010 || cpuState.ar != 0o077767 {
		t.Errorf("MD not correct got: AC=%o AR=%o", cpuState.ac, cpuState.ar)
	}
	cpuState.ac = 0o170017
	cpuState.testInst(opcSD, 0o100)
	if cpuState.ac != 0o071007 {
		t.Errorf("SD not correct got: %o expected: %o", cpuState.ac, 0o071007)
	}
}

func TestCycleCF(t *testing.T) {
	setup()
	cpuState.testInst(opcCF, 0o100|2)
	if a, b := testMem.Groups(); a != 0 || b != 2 {
		t.Errorf("CF group B not correct got: A=%d B=%d", a, b)
	}

	cpuState.testInst(opcCF, 0o200|3<<3)
	if a, b := testMem.Groups(); a != 3 || b != 2 {
		t.Errorf("CF group A not correct got: A=%d B=%d", a, b)
	}

	cpuState.testInst(opcCF, 0o1000)
	if cpuState.ac != 0o32 {
		t.Errorf("CF read back not correct got: %o expected: %o", cpuState.ac, 0o32)
	}

	// Same bank in both groups is refused.
	if a := cpuState.testInst(opcCF, 0o100|3); a != alarm.NoAlarm {
		t.Errorf("CF conflict alarm %v", a)
	}
	if a, b := testMem.Groups(); a != 3 || b != 2 {
		t.Errorf("CF conflict changed groups A=%d B=%d", a, b)
	}

	if a := cpuState.testInst(opcCF, 0o100|6); a != alarm.UnimplementedAlarm {
		t.Errorf("CF bank 6 got: %v expected: Unimplemented", a)
	}

	cpuState.ac = 0o300
	cpuState.testInst(opcCF, 0o400)
	if cpuState.pc != 0o300 || cpuState.ar != 0o41 {
		t.Errorf("CF branch not correct got: pc %o AR %o", cpuState.pc, cpuState.ar)
	}
}

func TestCycleCFReadBackAndSwap(t *testing.T) {
	setup()
	cpuState.ac = 0o1234
	cpuState.br = 0o4321
	cpuState.ar = 0o7
	before := cpuState.Snapshot()
	a := cpuState.testInst(opcCF, 0o1400|0o100|2)
	assert.Equal(t, alarm.UnimplementedAlarm, a)
	after := cpuState.Snapshot()
	assert.Equal(t, before.AC, after.AC)
	assert.Equal(t, before.BR, after.BR)
	assert.Equal(t, before.AR, after.AR)
	assert.Equal(t, before.SAM, after.SAM)
	assert.Equal(t, before.GroupA, after.GroupA)
	assert.Equal(t, before.GroupB, after.GroupB)
	assert.Equal(t, W.Address(0o41), after.PC)
}

func TestCycleHalt(t *testing.T) {
	setup()
	assert.Equal(t, alarm.HaltAlarm, cpuState.testInst(opcSI, 0))
	assert.Equal(t, alarm.HaltAlarm, cpuState.testInst(opcSI, 1))
	assert.Equal(t, alarm.UnknownIoDeviceAlarm, cpuState.testInst(opcSI, 0o150))
	assert.Equal(t, alarm.UnimplementedAlarm, cpuState.testInst(0o01, 0))
}

func TestCycleIO(t *testing.T) {
	setup()
	testDevice.Data = []W.Word{0o11, 0o22, 0o33}
	cpuState.ac = 0o55
	require.Equal(t, alarm.NoAlarm, cpuState.testInst(opcSI, 0o100))
	assert.Equal(t, 1, testDevice.Selects)
	assert.Equal(t, W.Word(0o55), testDevice.lastAC)

	require.Equal(t, alarm.NoAlarm, cpuState.testInst(opcRC, 0o200))
	assert.Equal(t, []W.Word{0o55}, testDevice.Recorded)

	require.Equal(t, alarm.NoAlarm, cpuState.testInst(opcRD, 0))
	assert.Equal(t, W.Word(0o11), cpuState.ac)

	cpuState.ac = 2
	require.Equal(t, alarm.NoAlarm, cpuState.testInst(opcBI, 0o300))
	assert.Equal(t, W.Word(0o22), get(0o300))
	assert.Equal(t, W.Word(0o33), get(0o301))
	assert.Equal(t, W.Word(0o302), cpuState.ac)
	assert.Equal(t, W.Word(0o300), cpuState.ar)

	// Reader is empty.
	assert.Equal(t, alarm.IoErrorAlarm, cpuState.testInst(opcRD, 0))

	testDevice.Recorded = nil
	cpuState.ac = 2
	require.Equal(t, alarm.NoAlarm, cpuState.testInst(opcBO, 0o300))
	assert.Equal(t, []W.Word{0o22, 0o33}, testDevice.Recorded)

	cpuState.ac = 0o10
	assert.Equal(t, alarm.QuitAlarm, cpuState.testInst(opcBO, 0o3775))

	assert.Equal(t, "TestDev", cpuState.Snapshot().Device)
}

func TestReadBeforeWrite(t *testing.T) {
	setup()
	a := cpuState.Step()
	assert.Equal(t, alarm.ReadBeforeWriteAlarm, a)
	assert.Equal(t, W.Address(0o40), cpuState.PC())

	assert.Equal(t, alarm.ReadBeforeWriteAlarm, cpuState.testInst(opcCA, 0o500))
	assert.Equal(t, alarm.ReadBeforeWriteAlarm, cpuState.testInst(opcEX, 0o500))
	assert.Equal(t, alarm.NoAlarm, cpuState.testInst(opcSD, 0o500))

	// AO counts up from zero on an unset word.
	assert.Equal(t, alarm.NoAlarm, cpuState.testInst(opcAO, 0o501))
	v, ok := testMem.Read(0o501)
	assert.True(t, ok)
	assert.Equal(t, W.Word(1), v)
}

func TestSelectInstructionSet(t *testing.T) {
	setup()
	require.NoError(t, cpuState.SelectInstructionSet(ISA1950))
	assert.Equal(t, ISA1950, cpuState.InstructionSet())
	assert.ErrorIs(t, cpuState.SelectInstructionSet(ISA(7)), ErrBadISA)

	set(0o40, 0)
	cpuState.Step()
	assert.ErrorIs(t, cpuState.SelectInstructionSet(ISA1958), ErrRunning)

	isa, err := ParseISA("1950")
	require.NoError(t, err)
	assert.Equal(t, ISA1950, isa)
	_, err = ParseISA("1949")
	assert.True(t, errors.Is(err, ErrBadISA))
}

func TestISA1950(t *testing.T) {
	log := quiet()
	testMem = memory.New(log)
	scope := &testScope{}
	cpuState = New(testMem, dev.NewRegistry(log), switches.New(log), WithLogger(log), WithScope(scope))
	require.NoError(t, cpuState.SelectInstructionSet(ISA1950))

	cpuState.ac = 0o1234
	assert.Equal(t, alarm.NoAlarm, cpuState.testInst(0o06, 0o100)) // QH
	assert.Equal(t, alarm.NoAlarm, cpuState.testInst(0o07, 0o101)) // QD
	assert.Equal(t, alarm.NoAlarm, cpuState.testInst(0o14, 0o102)) // QF
	assert.Equal(t, []W.Word{0o1234}, scope.horizontal)
	assert.Equal(t, []int{mainScope, auxScope}, scope.scopes)
	assert.Equal(t, W.Word(0o1234), get(0o102))

	assert.Equal(t, alarm.UnimplementedAlarm, cpuState.testInst(0o00, 0o100)) // RI
	assert.Equal(t, alarm.UnimplementedAlarm, cpuState.testInst(0o27, 0o100))

	// No hold variant, srh shifts with roundoff.
	cpuState.ac = 1
	cpuState.br = 0
	cpuState.testInst(opcSR, 0o1001)
	assert.Equal(t, W.Word(1), cpuState.ac)
	assert.Equal(t, W.Word(0), cpuState.br)
}

// Load a small program from core image text and run to the halt.
func TestRunImage(t *testing.T) {
	setup()
	image := strings.Join([]string{
		"%File: t.ww",
		"@C00040: 0100050 0040051 0000000",
		"@C00050: 0000123",
		"@S00040: start",
		"@S00050: x",
		"@N00041: save it",
		`@E00041: print: "x=%o", x`,
	}, "\n")
	img, err := coreimage.Load(strings.NewReader(image), testMem, quiet())
	require.NoError(t, err)
	log := &TraceLog{}
	cpuState.sink = log
	cpuState.SetProgram(img.Symbols, img.Comments, img.Exec)

	var a alarm.Alarm
	for range 10 {
		if a = cpuState.Step(); a != alarm.NoAlarm {
			break
		}
	}
	assert.Equal(t, alarm.HaltAlarm, a)
	assert.Equal(t, W.Word(0o123), get(0o51))
	assert.Equal(t, int64(3), cpuState.Cycles())
	assert.Equal(t, "x=0o123\n", printOut.String())

	require.Len(t, log.Records, 3)
	assert.Equal(t, "CA", log.Records[0].Mnemonic)
	assert.Equal(t, "start", log.Records[0].Label)
	assert.Equal(t, W.Address(0o50), log.Records[0].Operand)
	assert.Equal(t, "save it", log.Records[1].Comment)
	assert.Contains(t, log.Records[0].Text, " pc:0o0040(start):")
	assert.Contains(t, log.Records[0].Text, "CA 0o0050(x)")
	assert.Contains(t, log.Records[1].Text, "; save it")

	addr, ok := cpuState.Lookup("x")
	assert.True(t, ok)
	assert.Equal(t, W.Address(0o50), addr)
	assert.Equal(t, "CA 0o50(x)", cpuState.Instruction(0o40))
}

func TestTraceFormat(t *testing.T) {
	setup()
	log := &TraceLog{}
	cpuState.sink = log
	cpuState.SetDebug(DebugLong)
	require.NoError(t, testMem.Bind(2, 1))
	set(0o100, W.Negate(2))
	cpuState.testInst(opcCA, 0o100)
	require.Len(t, log.Records, 1)
	text := log.Records[0].Text
	assert.Contains(t, text, "[2]0o0040")
	assert.Contains(t, text, "AC=0o177775(-0o0002)")
	assert.Contains(t, text, "nextPC=[2]0o0041")

	cpuState.SetDecimal(true)
	cpuState.SetColor(true)
	cpuState.testInst(opcSI, 0o100)
	text = log.Records[1].Text
	assert.True(t, strings.HasPrefix(text, colorCode[colorIO]))
	assert.Contains(t, text, "0o0100.064")
}

func TestSnapshot(t *testing.T) {
	setup()
	cpuState.ac = 0o17
	s := cpuState.Snapshot()
	assert.Equal(t, W.Address(0o40), s.PC)
	assert.Equal(t, "1958", s.ISA)
	assert.Equal(t, 1, s.GroupB)
	assert.Contains(t, s.String(), "AC")
	assert.Contains(t, s.Registers(), "PC=0o0040")
}

func TestDebugMask(t *testing.T) {
	mask, err := DebugMask("trace")
	require.NoError(t, err)
	assert.Equal(t, DebugTrace, mask)
	_, err = DebugMask("bogus")
	assert.ErrorIs(t, err, ErrDebugOption)
}
