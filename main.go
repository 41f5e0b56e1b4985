/*
 * WWSim - Main process.
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

package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"time"

	getopt "github.com/pborman/getopt/v2"
	"github.com/pkg/profile"
	"golang.org/x/term"

	reader "github.com/gfedorkow/Whirlwind-Instruction-Simulator-sub000/command/reader"
	config "github.com/gfedorkow/Whirlwind-Instruction-Simulator-sub000/config/configparser"
	"github.com/gfedorkow/Whirlwind-Instruction-Simulator-sub000/config/debugconfig"
	"github.com/gfedorkow/Whirlwind-Instruction-Simulator-sub000/emu/alarm"
	"github.com/gfedorkow/Whirlwind-Instruction-Simulator-sub000/emu/core"
	"github.com/gfedorkow/Whirlwind-Instruction-Simulator-sub000/emu/coreimage"
	"github.com/gfedorkow/Whirlwind-Instruction-Simulator-sub000/emu/cpu"
	"github.com/gfedorkow/Whirlwind-Instruction-Simulator-sub000/emu/memory"
	"github.com/gfedorkow/Whirlwind-Instruction-Simulator-sub000/emu/models"
	"github.com/gfedorkow/Whirlwind-Instruction-Simulator-sub000/emu/switches"
	W "github.com/gfedorkow/Whirlwind-Instruction-Simulator-sub000/emu/word"
	"github.com/gfedorkow/Whirlwind-Instruction-Simulator-sub000/util/debug"
	logger "github.com/gfedorkow/Whirlwind-Instruction-Simulator-sub000/util/logger"
)

const scopeImageSize = 1024

var Logger *slog.Logger

var (
	optTrace      = getopt.BoolLong("TracePC", 't', "Trace PC for each instruction")
	optALU        = getopt.BoolLong("TraceALU", 'a', "Trace ALU for each instruction")
	optJumpTo     = getopt.StringLong("JumpTo", 'j', "", "Start address in octal")
	optQuiet      = getopt.BoolLong("Quiet", 'q', "Suppress run-time messages")
	optDecimal    = getopt.BoolLong("DecimalAddresses", 'D', "Show addresses in decimal")
	optCycleLimit = getopt.IntLong("CycleLimit", 'c', 0, "Stop after this many instructions")
	optDelay      = getopt.IntLong("CycleDelayTime", 0, 0, "Delay in milliseconds after each instruction")
	optLongTrace  = getopt.BoolLong("LongTraceFormat", 0, "Include AR, BR, SAM and next PC in trace")
	optTraceCore  = getopt.StringLong("TraceCoreLocation", 0, "", "Log accesses to octal core location")
	optPetrA      = getopt.StringLong("PETRAfile", 0, "", "Paper tape for reader A")
	optPetrB      = getopt.StringLong("PETRBfile", 0, "", "Paper tape for reader B")
	optNoAlarm    = getopt.BoolLong("NoAlarmStop", 0, "Don't stop on alarms")
	optNoZeroOne  = getopt.BoolLong("NoZeroOneTSR", 0, "Don't return 0 and 1 from locations 0 and 1")
	optDumpCore   = getopt.StringLong("DumpCoreToFile", 0, "", "Write core image at end of run")
	optRestore    = getopt.StringLong("RestoreCoreFromFile", 0, "", "Load core image over the program")
	optDrumFile   = getopt.StringLong("DrumStateFile", 0, "", "Drum contents, restored at start and saved at end")
	optISA        = getopt.StringLong("ISA", 0, "", "Instruction set, 1950 or 1958")
	optScopeImage = getopt.StringLong("ScopeImage", 0, "", "Write display scope to PNG file")
	optConsole    = getopt.BoolLong("Console", 0, "Run under interactive console")
	optColor      = getopt.BoolLong("Color", 0, "Colour trace output")
	optProfile    = getopt.BoolLong("Profile", 0, "Write CPU profile")
	optConfig     = getopt.StringLong("config", 0, "", "Configuration file")
	optLogFile    = getopt.StringLong("log", 'l', "", "Log file")
	optDebug      = getopt.BoolLong("debug", 'd', "Log debug to console")
	optHelp       = getopt.BoolLong("help", 'h', "Help")
)

func main() {
	getopt.SetParameters("corefile")
	getopt.Parse()

	if *optHelp {
		getopt.Usage()
		os.Exit(0)
	}
	if getopt.NArgs() != 1 {
		getopt.Usage()
		os.Exit(1)
	}
	os.Exit(start(getopt.Arg(0)))
}

// Set up profiling and logging around a run.
func start(coreFile string) int {
	if *optProfile {
		defer profile.Start(profile.CPUProfile, profile.ProfilePath("."), profile.Quiet).Stop()
	}

	var file *os.File
	if *optLogFile != "" {
		var err error
		file, err = os.Create(*optLogFile)
		if err != nil {
			fmt.Fprintln(os.Stderr, "Unable to create log file: "+err.Error())
			return 1
		}
		defer file.Close()
	}
	programLevel := new(slog.LevelVar)
	programLevel.Set(slog.LevelInfo)
	if *optQuiet {
		programLevel.Set(slog.LevelWarn)
	}
	var handler *logger.LogHandler
	if file != nil {
		handler = logger.NewHandler(file, &slog.HandlerOptions{Level: programLevel}, optDebug)
	} else {
		// No log file, messages go to the console.
		handler = logger.NewHandler(os.Stderr, &slog.HandlerOptions{Level: programLevel}, optDebug)
		handler.SetConsole(nil)
	}
	Logger = slog.New(handler)
	slog.SetDefault(Logger)

	Logger.Info("corefile: " + coreFile)
	return run(coreFile)
}

// Build a session from the core file and configuration, then run it.
func run(coreFile string) int {
	cfg := config.NewConfig()
	if *optConfig != "" {
		if err := config.LoadConfigFile(*optConfig, cfg); err != nil {
			Logger.Error(err.Error())
			return 1
		}
	}
	defer debug.Close()
	if cfg.DebugFile == "" {
		debug.SetOutput(os.Stdout)
	}

	mem := memory.New(Logger)
	if *optNoZeroOne {
		mem.Clear(true)
	} else {
		Logger.Info("Automatically return 0 and 1 from locations 0 and 1")
	}
	sw := switches.New(Logger)
	devices := models.New(Logger, sw)

	img, err := coreimage.LoadFile(coreFile, mem, Logger)
	if err != nil {
		Logger.Error(err.Error())
		return 1
	}
	if *optRestore != "" {
		if _, err := coreimage.LoadFile(*optRestore, mem, Logger); err != nil {
			Logger.Error(err.Error())
			return 1
		}
	}

	if err := sw.ParseAll(img.Switches, mem); err != nil {
		return 1
	}
	if err := sw.ParseAll(cfg.Switches, mem); err != nil {
		return 1
	}
	mem.ResetFlipFlops(sw.Preset)
	Logger.Info(fmt.Sprintf("Switch CheckAlarmSpecial=%o", sw.Value(switches.CheckAlarmSpecial)))

	c, err := newCPU(img, cfg, mem, sw, devices)
	if err != nil {
		Logger.Error(err.Error())
		return 1
	}

	drumFile := firstSet(*optDrumFile, cfg.DrumFile)
	if drumFile != "" {
		if err := devices.Drum.Restore(drumFile); err != nil {
			Logger.Error(err.Error())
			return 1
		}
	}
	devices.PETR.SetFiles(firstSet(*optPetrA, cfg.PetrA, models.TapeName(coreFile, "A")),
		firstSet(*optPetrB, cfg.PetrB, models.TapeName(coreFile, "B")))

	opts := core.OptionsFromConfig(cfg)
	if *optNoAlarm {
		opts.NoAlarmStop = true
	}
	if *optCycleLimit > 0 {
		opts.CycleLimit = int64(*optCycleLimit)
		Logger.Info(fmt.Sprintf("CycleLimit set to %d", opts.CycleLimit))
	}
	opts.CycleDelay = time.Duration(*optDelay) * time.Millisecond

	sim := core.New(c, devices.Registry, Logger, opts)
	widgets := core.ParseWidgets(img.Widgets, c, Logger)

	status := 0
	if *optConsole {
		if !term.IsTerminal(int(os.Stdin.Fd())) {
			Logger.Warn("Console input is not a terminal")
		}
		go sim.Start()
		reader.ConsoleReader(sim)
		sim.Stop()
	} else {
		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
		res := sim.Run(ctx)
		stop()
		if res.Limit {
			fmt.Println("\nCycle Count Exceeded")
		}
		Logger.Info(fmt.Sprintf("Total cycles = %d, last PC=0o%o, elapsed %s, simulated %d usec",
			res.Cycles, c.PC(), res.Elapsed.Round(time.Millisecond), c.Microseconds()))
		if res.Alarm != alarm.NoAlarm && res.Alarm != alarm.HaltAlarm {
			status = 2
		}
	}

	finish(c, devices, widgets, drumFile, img)
	return status
}

// Create the CPU, select its instruction set, hand it the program
// tables and debug settings.
func newCPU(img *coreimage.Image, cfg *config.Config, mem *memory.CoreMemory,
	sw *switches.Switches, devices *models.Devices,
) (*cpu.CPU, error) {
	isa, err := cpu.ParseISA(firstSet(*optISA, cfg.ISA, img.ISA))
	if err != nil {
		return nil, err
	}
	c := cpu.New(mem, devices.Registry, sw, cpu.WithLogger(Logger), cpu.WithScope(devices.Scope))
	if err := c.SelectInstructionSet(isa); err != nil {
		return nil, err
	}
	if isa == cpu.ISA1950 {
		devices.Scope.Init1950()
	}
	c.SetProgram(img.Symbols, img.Comments, img.Exec)
	c.SetDecimal(*optDecimal)
	c.SetColor(*optColor || (*optTrace && term.IsTerminal(int(os.Stdout.Fd()))))

	if img.JumpTo != nil {
		c.SetPC(*img.JumpTo)
	}
	if *optJumpTo != "" {
		v, err := strconv.ParseUint(strings.TrimPrefix(*optJumpTo, "0o"), 8, 16)
		if err != nil {
			return nil, fmt.Errorf("JumpTo must be octal: %s", *optJumpTo)
		}
		c.SetPC(W.Word(v).Addr())
	}
	Logger.Info(fmt.Sprintf("start at 0o%o", c.PC()))

	mask := 0
	if *optTrace {
		mask |= cpu.DebugTrace
	}
	if *optALU {
		mask |= cpu.DebugALU
	}
	if *optLongTrace {
		mask |= cpu.DebugTrace | cpu.DebugLong
	}
	if *optTraceCore != "" {
		v, err := strconv.ParseUint(strings.TrimPrefix(*optTraceCore, "0o"), 8, 16)
		if err != nil {
			return nil, fmt.Errorf("TraceCoreLocation must be octal: %s", *optTraceCore)
		}
		mem.Watch(W.Word(v).Addr())
		mask |= cpu.DebugCore
	}
	c.SetDebug(mask)
	if err := debugconfig.Apply(cfg, c, devices.Registry); err != nil {
		return nil, err
	}
	return c, nil
}

// Report device output and save state at end of run.
func finish(c *cpu.CPU, devices *models.Devices, widgets []core.Widget, drumFile string, img *coreimage.Image) {
	if text := devices.Transcripts(); text != "" {
		fmt.Print(text)
	}
	for _, w := range widgets {
		Logger.Info(w.Show(c))
	}

	if drumFile != "" {
		if err := devices.Drum.Save(drumFile); err != nil {
			Logger.Error(err.Error())
		}
	}

	if *optDumpCore != "" {
		mem := c.Memory()
		blocks := [][]*W.Word{}
		for b := 0; b < memory.NumBlocks; b++ {
			blocks = append(blocks, mem.Block(b))
		}
		pc := c.PC()
		meta := coreimage.Meta{File: img.File, TapeID: img.TapeID, JumpTo: &pc}
		if err := coreimage.WriteFile(*optDumpCore, blocks, meta); err != nil {
			Logger.Error(err.Error())
		}
	}

	if *optScopeImage != "" {
		if err := devices.Scope.SaveImage(*optScopeImage, scopeImageSize); err != nil {
			Logger.Error(err.Error())
		}
	}
}

// First non empty string.
func firstSet(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
