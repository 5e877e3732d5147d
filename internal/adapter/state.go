// Copyright © 2016 Sidharth Kshatriya
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package adapter

// thread mirrors spec §3's Thread entity.
type thread struct {
	id      int
	name    string
	running bool
}

// runState is the single-boolean run-state machine of spec §4.6: flips
// true on async-exec "running", false on async-exec "stopped". Threads
// are cached while running and refreshed only on the next stop.
type runState struct {
	running       bool
	threads       map[int]*thread
	threadsStale  bool
	logpoints     map[string]string // gdb breakpoint number -> message template
	functionBps   map[string]bool   // gdb breakpoint numbers that are function breakpoints
}

func newRunState() *runState {
	return &runState{
		threads:     make(map[int]*thread),
		logpoints:   make(map[string]string),
		functionBps: make(map[string]bool),
	}
}

func (s *runState) setRunning() {
	s.running = true
	s.threadsStale = true
}

func (s *runState) setStopped() {
	s.running = false
}

func (s *runState) upsertThread(id int, name string) {
	t, ok := s.threads[id]
	if !ok {
		t = &thread{id: id}
		s.threads[id] = t
	}
	t.name = name
	t.running = s.running
}

func (s *runState) removeThread(id int) {
	delete(s.threads, id)
}

func (s *runState) threadList() []*thread {
	out := make([]*thread, 0, len(s.threads))
	for _, t := range s.threads {
		out = append(out, t)
	}
	return out
}
