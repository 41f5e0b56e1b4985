/*
 * WWSim - Whirlwind simulator loop.
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

package core

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/gfedorkow/Whirlwind-Instruction-Simulator-sub000/emu/alarm"
	"github.com/gfedorkow/Whirlwind-Instruction-Simulator-sub000/emu/cpu"
	"github.com/gfedorkow/Whirlwind-Instruction-Simulator-sub000/emu/disassemble"
	"github.com/gfedorkow/Whirlwind-Instruction-Simulator-sub000/emu/event"
	"github.com/gfedorkow/Whirlwind-Instruction-Simulator-sub000/emu/master"
	W "github.com/gfedorkow/Whirlwind-Instruction-Simulator-sub000/emu/word"
)

// Cycles between I/O polls, a prime so the poll does not beat against
// program loops.
const PollInterval = 10007

// Background work run between instructions.
type Poller interface {
	Poll()
}

// Run options.
type Options struct {
	NoAlarmStop bool          // Continue on every alarm except halt and quit.
	CycleLimit  int64         // Stop after this many instructions, 0 for none.
	CycleDelay  time.Duration // Pause after each instruction.
}

// Outcome of a run.
type Result struct {
	Alarm   alarm.Alarm // Alarm that ended the run, NoAlarm on cycle limit.
	Cycles  int64       // Instructions executed by this run.
	Limit   bool        // Cycle limit reached.
	Elapsed time.Duration
}

type Core struct {
	cpu   *cpu.CPU
	io    Poller
	sched event.Scheduler
	log   *slog.Logger
	opts  Options
	polls int64

	wg      sync.WaitGroup
	done    chan struct{} // Signal to shutdown simulator.
	running bool          // Indicate when simulator should run or not.
	breaks  map[W.Address]bool
	Master  chan master.Packet
}

// Create loop around an engine. io may be nil.
func New(c *cpu.CPU, io Poller, log *slog.Logger, opts Options) *Core {
	if log == nil {
		log = slog.Default()
	}
	core := &Core{
		cpu:    c,
		io:     io,
		log:    log,
		opts:   opts,
		done:   make(chan struct{}),
		breaks: map[W.Address]bool{},
		Master: make(chan master.Packet),
	}
	core.armPoll()
	return core
}

func (core *Core) CPU() *cpu.CPU {
	return core.cpu
}

// Address of a program label. Labels are fixed once the image is loaded.
func (core *Core) Lookup(label string) (W.Address, bool) {
	return core.cpu.Lookup(label)
}

// Number of I/O polls so far.
func (core *Core) Polls() int64 {
	return core.polls
}

// Schedule the next I/O poll.
func (core *Core) armPoll() {
	core.sched.Cancel("poll", 0)
	core.sched.Add("poll", core.poll, PollInterval, 0)
}

func (core *Core) poll(_ int) {
	core.polls++
	if core.io != nil {
		core.io.Poll()
	}
	core.sched.Add("poll", core.poll, PollInterval, 0)
}

// Execute one instruction, returning its alarm and whether the run
// should stop.
func (core *Core) cycle() (alarm.Alarm, bool) {
	pc := core.cpu.PC()
	a := core.cpu.Step()
	core.sched.Advance(1)
	if core.opts.CycleDelay > 0 {
		time.Sleep(core.opts.CycleDelay)
	}
	if a == alarm.NoAlarm {
		return a, false
	}
	core.log.Warn(a.Report(uint16(pc)))
	if core.opts.NoAlarmStop && !a.Terminal() {
		return a, false
	}
	if a != alarm.HaltAlarm {
		core.log.Info(core.cpu.Snapshot().Registers())
	}
	return a, true
}

// Run until a stopping alarm, the cycle limit or ctx is done.
func (core *Core) Run(ctx context.Context) Result {
	start := time.Now()
	res := Result{Alarm: alarm.NoAlarm}
	for {
		if ctx.Err() != nil {
			core.log.Info(fmt.Sprintf("Interrupted at PC=0o%o", core.cpu.PC()))
			res.Alarm = alarm.QuitAlarm
			break
		}
		a, stop := core.cycle()
		res.Cycles++
		if a != alarm.NoAlarm {
			res.Alarm = a
		}
		if stop {
			break
		}
		if core.opts.CycleLimit > 0 && res.Cycles >= core.opts.CycleLimit {
			core.log.Warn("Cycle Count Exceeded")
			res.Limit = true
			res.Alarm = alarm.NoAlarm
			break
		}
	}
	res.Elapsed = time.Since(start)
	return res
}

// Start loop serving console packets.
func (core *Core) Start() {
	core.wg.Add(1)
	defer core.wg.Done()
	for {
		if !core.running {
			select {
			case <-core.done:
				return
			case packet := <-core.Master:
				core.processPacket(packet)
			}
			continue
		}
		core.runOne()
		select {
		case <-core.done:
			return
		case packet := <-core.Master:
			core.processPacket(packet)
		default:
		}
	}
}

// Stop a running loop.
func (core *Core) Stop() {
	core.log.Info("Shutting down CPU")
	close(core.done)
	done := make(chan struct{})
	go func() {
		core.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		return
	case <-time.After(time.Second):
		core.log.Warn("Timed out waiting for CPU to finish.")
		return
	}
}

// Send packet and wait for the reply text.
func (core *Core) Send(packet master.Packet) string {
	packet.Reply = make(chan string, 1)
	select {
	case core.Master <- packet:
	case <-core.done:
		return ""
	}
	select {
	case text := <-packet.Reply:
		return text
	case <-core.done:
		return ""
	}
}

// One instruction while running free.
func (core *Core) runOne() {
	a, stop := core.cycle()
	switch {
	case stop:
		core.running = false
		core.log.Info(fmt.Sprintf("Stopped: %s", a))
	case core.breaks[core.cpu.PC()]:
		core.running = false
		core.log.Info(fmt.Sprintf("Breakpoint at 0o%o", core.cpu.PC()))
	}
}

// Execute count instructions, stopping early on alarm or breakpoint.
func (core *Core) step(count int) string {
	if count <= 0 {
		count = 1
	}
	for i := 0; i < count; i++ {
		a, stop := core.cycle()
		if stop {
			return fmt.Sprintf("Stopped: %s\n%s", a, core.cpu.Snapshot().Registers())
		}
		if core.breaks[core.cpu.PC()] {
			return fmt.Sprintf("Breakpoint at 0o%o", core.cpu.PC())
		}
	}
	return core.cpu.Snapshot().Registers()
}

// Words from addr with their disassembly.
func (core *Core) examine(addr W.Address, count int) string {
	if count <= 0 {
		count = 1
	}
	mem := core.cpu.Memory()
	lines := []string{}
	for i := 0; i < count; i++ {
		a := W.Word(addr + W.Address(i)).Addr()
		value, ok := mem.Read(a)
		text := "None"
		if ok {
			text = value.String()
		}
		inst := core.cpu.Instruction(a)
		if ok && core.cpu.InstructionSet() == cpu.ISA1958 {
			inst = disassemble.Disassemble(value, core.cpu.Label)
		}
		line := fmt.Sprintf("0o%04o: %s %s", a, text, inst)
		if label := core.cpu.Label(a); label != "" {
			line += "  ; " + label
		}
		lines = append(lines, line)
	}
	return strings.Join(lines, "\n")
}

// Breakpoints in address order.
func (core *Core) breakList() string {
	addrs := []int{}
	for addr := range core.breaks {
		addrs = append(addrs, int(addr))
	}
	sort.Ints(addrs)
	parts := []string{}
	for _, addr := range addrs {
		parts = append(parts, fmt.Sprintf("0o%o", addr))
	}
	return "breakpoints: " + strings.Join(parts, " ")
}

// Process a packet sent to system simulation.
func (core *Core) processPacket(packet master.Packet) {
	reply := ""
	switch packet.Msg {
	case master.Start:
		core.running = true
		reply = fmt.Sprintf("running from 0o%o", core.cpu.PC())
	case master.Stop:
		core.running = false
		reply = core.cpu.Snapshot().Registers()
	case master.Step:
		core.running = false
		reply = core.step(packet.Count)
	case master.Examine:
		reply = core.examine(packet.Addr, packet.Count)
	case master.Deposit:
		core.cpu.Memory().Write(packet.Addr, packet.Value, true)
		reply = core.examine(packet.Addr, 1)
	case master.Registers:
		reply = core.cpu.Snapshot().String()
	case master.Trace:
		mask := core.cpu.Debug() &^ cpu.DebugTrace
		if packet.Flag {
			mask |= cpu.DebugTrace
		}
		core.cpu.SetDebug(mask)
		reply = fmt.Sprintf("trace %t", packet.Flag)
	case master.Break:
		if core.breaks[packet.Addr] {
			delete(core.breaks, packet.Addr)
		} else {
			core.breaks[packet.Addr] = true
		}
		reply = core.breakList()
	case master.Quit:
		core.running = false
	}
	if packet.Reply != nil {
		packet.Reply <- reply
	}
}
