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

// Package adapter is the session orchestrator (spec §4.6-4.7): it maps
// each DAP request to one or more MI command sequences, owns the frame
// and variable handle tables, tracks run-state and threads, and routes
// async stop records back to DAP events.
package adapter

import (
	"bufio"
	"io"
	"sync"

	"github.com/google/go-dap"

	"github.com/eclipse-cdt-cloud/cdt-gdb-adapter-sub002/internal/adapterlog"
	"github.com/eclipse-cdt-cloud/cdt-gdb-adapter-sub002/internal/config"
	"github.com/eclipse-cdt-cloud/cdt-gdb-adapter-sub002/internal/consolehost"
	"github.com/eclipse-cdt-cloud/cdt-gdb-adapter-sub002/internal/mi"
	"github.com/eclipse-cdt-cloud/cdt-gdb-adapter-sub002/internal/varobj"
)

const memoryRequestCommand = "cdt-gdb-adapter/Memory"

// Server owns one DAP session end to end: the client connection, the gdb
// Backend, and every piece of orchestrator state named in spec §3's
// Ownership note.
type Server struct {
	rw     io.ReadWriter
	sendMu sync.Mutex

	backend *mi.Backend
	vars    *varobj.Manager
	handles *handleTables
	state   *runState

	gdbPath  string
	attached bool

	// pauseWaiters receive the signal-received stop record that
	// acknowledges an orchestrator-issued interrupt, so pause-around-modify
	// can consume it without surfacing a spurious DAP stopped event.
	pauseWaiters []chan struct{}
	pauseMu      sync.Mutex
}

// NewServer constructs a Server bound to rw (the DAP transport connection,
// an external collaborator per spec §1).
func NewServer(rw io.ReadWriter) *Server {
	return &Server{
		rw:      rw,
		handles: newHandleTables(),
		state:   newRunState(),
	}
}

// dapRead is one outcome of a blocking dap.ReadProtocolMessage call,
// forwarded onto a channel so Serve can select over it alongside MI
// events and streams.
type dapRead struct {
	msg dap.Message
	err error
}

// Serve dispatches every DAP request, MI async event, and MI console
// stream line on this single goroutine (spec §5's single cooperative
// task model). dap.ReadProtocolMessage blocks, so it runs on its own
// reader goroutine that only ever forwards onto dapRequests; every
// state mutation (handle tables, run-state, pause waiters) and every
// write to rw happens here, never on the reader goroutine or on
// Backend's own event/stream goroutines.
func (s *Server) Serve() error {
	r := bufio.NewReader(s.rw)
	dapRequests := make(chan dapRead)
	go func() {
		for {
			msg, err := dap.ReadProtocolMessage(r)
			dapRequests <- dapRead{msg: msg, err: err}
			if err != nil {
				return
			}
		}
	}()

	for {
		var events <-chan mi.AsyncEvent
		var streams <-chan mi.StreamEvent
		if s.backend != nil {
			events = s.backend.Events()
			streams = s.backend.ConsoleOutput()
		}

		select {
		case rd := <-dapRequests:
			if rd.err != nil {
				if rd.err == io.EOF {
					return nil
				}
				return rd.err
			}
			s.handle(rd.msg)

		case ev, ok := <-events:
			if ok {
				s.onAsyncEvent(ev)
			}

		case se, ok := <-streams:
			if ok {
				s.send(&dap.OutputEvent{
					Event: *newEvent("output"),
					Body:  dap.OutputEventBody{Category: se.Category, Output: se.Text},
				})
			}
		}
	}
}

func (s *Server) send(message dap.Message) {
	s.sendMu.Lock()
	defer s.sendMu.Unlock()
	if err := dap.WriteProtocolMessage(s.rw, message); err != nil {
		adapterlog.Warn("failed to write DAP message: %v", err)
	}
}

func newResponse(requestSeq int, command string) *dap.Response {
	return &dap.Response{
		ProtocolMessage: dap.ProtocolMessage{Type: "response"},
		Command:         command,
		RequestSeq:      requestSeq,
		Success:         true,
	}
}

func newEvent(event string) *dap.Event {
	return &dap.Event{
		ProtocolMessage: dap.ProtocolMessage{Type: "event"},
		Event:           event,
	}
}

func (s *Server) sendErrorResponse(requestSeq int, command string, err error) {
	r := &dap.ErrorResponse{}
	r.Response = *newResponse(requestSeq, command)
	r.Success = false
	r.Message = err.Error()
	r.Body.Error = &dap.ErrorMessage{Format: err.Error(), ShowUser: true}
	s.send(r)
}

func (s *Server) handle(request dap.Message) {
	switch req := request.(type) {
	case *dap.InitializeRequest:
		s.onInitialize(req)
	case *dap.LaunchRequest:
		s.onLaunch(req)
	case *dap.AttachRequest:
		s.onAttach(req)
	case *dap.SetBreakpointsRequest:
		s.onSetBreakpoints(req)
	case *dap.SetFunctionBreakpointsRequest:
		s.onSetFunctionBreakpoints(req)
	case *dap.ConfigurationDoneRequest:
		s.onConfigurationDone(req)
	case *dap.ThreadsRequest:
		s.onThreads(req)
	case *dap.StackTraceRequest:
		s.onStackTrace(req)
	case *dap.ScopesRequest:
		s.onScopes(req)
	case *dap.VariablesRequest:
		s.onVariables(req)
	case *dap.SetVariableRequest:
		s.onSetVariable(req)
	case *dap.EvaluateRequest:
		s.onEvaluate(req)
	case *dap.NextRequest:
		s.onNext(req)
	case *dap.StepInRequest:
		s.onStepIn(req)
	case *dap.StepOutRequest:
		s.onStepOut(req)
	case *dap.ContinueRequest:
		s.onContinue(req)
	case *dap.PauseRequest:
		s.onPause(req)
	case *dap.DisassembleRequest:
		s.onDisassemble(req)
	case *dap.SourceRequest:
		s.onSource(req)
	case *dap.TerminateRequest:
		s.onTerminate(req)
	case *dap.DisconnectRequest:
		s.onDisconnect(req)
	case *dap.Request:
		if req.Command == memoryRequestCommand {
			s.onMemory(req)
			return
		}
		adapterlog.Warn("unhandled custom request %q", req.Command)
	default:
		adapterlog.Warn("unhandled DAP request %T", request)
	}
}

// startBackend spawns gdb per args and installs the Backend whose event
// and stream channels Serve selects over. Shared by onLaunch and onAttach.
func (s *Server) startBackend(args launchOrAttach) error {
	s.gdbPath = args.gdbPath()

	opts := mi.SpawnOptions{
		GdbPath: args.gdbPath(),
		GdbArgs: args.gdbArgs(),
		Async:   args.async(),
		NonStop: args.nonStop(),
		OnWarn:  func(msg string) { adapterlog.Warn("%s", msg) },
	}
	if args.openConsole() {
		opts.Console = consolehost.PTYHost{}
	}

	b := mi.NewBackend()
	err := b.Spawn(opts)
	if err != nil {
		return err
	}
	s.backend = b
	s.vars = varobj.NewManager(b)
	return nil
}

// launchOrAttach abstracts the handful of fields onLaunch/onAttach need
// in common out of config.LaunchArgs/config.AttachArgs.
type launchOrAttach interface {
	gdbPath() string
	gdbArgs() []string
	async() *bool
	nonStop() *bool
	openConsole() bool
}

type launchAdapter struct{ a config.LaunchArgs }

func (l launchAdapter) gdbPath() string   { return l.a.Gdb }
func (l launchAdapter) gdbArgs() []string { return l.a.GdbArguments }
func (l launchAdapter) async() *bool      { return l.a.EffectiveAsync() }
func (l launchAdapter) nonStop() *bool    { return l.a.EffectiveNonStop() }
func (l launchAdapter) openConsole() bool { return l.a.OpenGdbConsole }

type attachAdapter struct{ a config.AttachArgs }

func (l attachAdapter) gdbPath() string   { return l.a.Gdb }
func (l attachAdapter) gdbArgs() []string { return l.a.GdbArguments }
func (l attachAdapter) async() *bool      { return l.a.EffectiveAsync() }
func (l attachAdapter) nonStop() *bool    { return l.a.EffectiveNonStop() }
func (l attachAdapter) openConsole() bool { return l.a.OpenGdbConsole }
