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

import (
	"strconv"

	"github.com/google/go-dap"

	"github.com/eclipse-cdt-cloud/cdt-gdb-adapter-sub002/internal/adapterlog"
	"github.com/eclipse-cdt-cloud/cdt-gdb-adapter-sub002/internal/mi"
)

// onAsyncEvent dispatches one exec-async/status-async/notify-async
// record from the Backend's event channel (spec §4.6/4.7).
func (s *Server) onAsyncEvent(ev mi.AsyncEvent) {
	switch ev.Kind {
	case mi.KindExecAsync:
		s.onExecAsync(ev)
	case mi.KindNotifyAsync:
		s.onNotifyAsync(ev)
	case mi.KindStatusAsync:
		adapterlog.Notification(ev.Class, ev.Data.GoString())
	}
}

func (s *Server) onExecAsync(ev mi.AsyncEvent) {
	switch ev.Class {
	case "running":
		s.state.setRunning()
	case "stopped":
		s.onStopped(ev.Data)
	}
}

// onStopped implements the stop-reason routing table of spec §4.6.
func (s *Server) onStopped(data mi.Value) {
	s.state.setStopped()
	s.handles.Reset()

	reason := data.FieldString("reason")
	threadID, _ := strconv.Atoi(data.FieldString("thread-id"))

	switch reason {
	case "exited", "exited-normally":
		s.send(&dap.TerminatedEvent{Event: *newEvent("terminated")})
		return

	case "signal-received":
		if s.consumePauseWaiter() {
			return
		}
		s.sendStopped("signal "+data.FieldString("signal-name"), threadID)
		return

	case "breakpoint-hit":
		bkptno := data.FieldString("bkptno")
		if msg, ok := s.state.logpoints[bkptno]; ok {
			s.send(&dap.OutputEvent{Event: *newEvent("output"), Body: dap.OutputEventBody{Category: "console", Output: msg}})
			if err := mi.ExecContinue(s.backend, threadID, true, false); err != nil {
				adapterlog.Warn("logpoint auto-continue failed: %v", err)
			}
			return
		}
		if s.state.functionBps[bkptno] {
			s.sendStopped("function breakpoint", threadID)
			return
		}
		s.sendStopped("breakpoint", threadID)
		return

	case "end-stepping-range", "function-finished":
		s.sendStopped("step", threadID)
		return

	default:
		s.sendStopped("generic", threadID)
	}
}

func (s *Server) sendStopped(reason string, threadID int) {
	s.send(&dap.StoppedEvent{
		Event: *newEvent("stopped"),
		Body: dap.StoppedEventBody{
			Reason:            reason,
			ThreadId:          threadID,
			AllThreadsStopped: true,
		},
	})
}

// consumePauseWaiter unblocks the oldest pauseAroundModify waiter, if
// any, and reports whether it did so (so the caller suppresses the
// corresponding DAP stopped event per spec §4.5's pause-around-modify
// rule).
func (s *Server) consumePauseWaiter() bool {
	s.pauseMu.Lock()
	defer s.pauseMu.Unlock()
	if len(s.pauseWaiters) == 0 {
		return false
	}
	ch := s.pauseWaiters[0]
	s.pauseWaiters = s.pauseWaiters[1:]
	close(ch)
	return true
}

// onNotifyAsync handles spec §4.7's notify-async classes.
func (s *Server) onNotifyAsync(ev mi.AsyncEvent) {
	switch ev.Class {
	case "thread-created":
		id, _ := strconv.Atoi(ev.Data.FieldString("id"))
		s.state.upsertThread(id, "")
	case "thread-exited":
		id, _ := strconv.Atoi(ev.Data.FieldString("id"))
		s.state.removeThread(id)
	case "thread-selected", "thread-group-added", "thread-group-started",
		"thread-group-exited", "thread-group-removed", "library-loaded",
		"breakpoint-modified", "breakpoint-deleted":
		adapterlog.Notification(ev.Class, ev.Data.GoString())
	default:
		adapterlog.Warn("unknown notify-async class %q", ev.Class)
	}
}
