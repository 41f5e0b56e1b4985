/*
 * WWSim - Cycle event scheduler.
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

package event

// Callback receives the integer argument given when the event was added.
type Callback = func(iarg int)

type event struct {
	time  int    // Cycles after previous event.
	owner string // Who registered the event.
	cb    Callback
	iarg  int
	prev  *event
	next  *event
}

// Scheduler is a delta list of pending events, counted in machine cycles.
// The zero value is an empty list.
type Scheduler struct {
	head *event
	tail *event
}

// Add an event to fire after time cycles. A time of zero calls back at once.
func (s *Scheduler) Add(owner string, cb Callback, time int, iarg int) {
	if time <= 0 {
		cb(iarg)
		return
	}

	ev := &event{owner: owner, cb: cb, time: time, iarg: iarg}

	ptr := s.head
	if ptr == nil {
		s.head = ev
		s.tail = ev
		return
	}

	for ptr != nil {
		if ev.time <= ptr.time {
			// Rest of list is now relative to the new event.
			ptr.time -= ev.time
			ev.prev = ptr.prev
			ev.next = ptr
			ptr.prev = ev
			if ev.prev != nil {
				ev.prev.next = ev
			} else {
				s.head = ev
			}
			return
		}
		ev.time -= ptr.time
		ptr = ptr.next
	}

	ev.prev = s.tail
	s.tail.next = ev
	s.tail = ev
}

// Remove first pending event of owner with matching argument.
func (s *Scheduler) Cancel(owner string, iarg int) {
	for ptr := s.head; ptr != nil; ptr = ptr.next {
		if ptr.owner != owner || ptr.iarg != iarg {
			continue
		}
		if ptr.next != nil {
			ptr.next.time += ptr.time
			ptr.next.prev = ptr.prev
		} else {
			s.tail = ptr.prev
		}
		if ptr.prev != nil {
			ptr.prev.next = ptr.next
		} else {
			s.head = ptr.next
		}
		return
	}
}

// Advance time by t cycles, firing every event that comes due.
func (s *Scheduler) Advance(t int) {
	if s.head == nil {
		return
	}
	s.head.time -= t
	for s.head != nil && s.head.time <= 0 {
		ev := s.head
		s.head = ev.next
		if s.head != nil {
			s.head.prev = nil
			// Carry any overshoot to the next event.
			s.head.time += ev.time
		} else {
			s.tail = nil
		}
		ev.cb(ev.iarg)
	}
}

// Any events pending.
func (s *Scheduler) AnyEvent() bool {
	return s.head != nil
}

// Cycles until next event, zero when the list is empty.
func (s *Scheduler) Next() int {
	if s.head == nil {
		return 0
	}
	return s.head.time
}
