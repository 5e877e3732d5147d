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
	"encoding/base64"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/google/go-dap"

	"github.com/eclipse-cdt-cloud/cdt-gdb-adapter-sub002/internal/adapterlog"
	"github.com/eclipse-cdt-cloud/cdt-gdb-adapter-sub002/internal/breakpoint"
	"github.com/eclipse-cdt-cloud/cdt-gdb-adapter-sub002/internal/config"
	"github.com/eclipse-cdt-cloud/cdt-gdb-adapter-sub002/internal/mi"
	"github.com/eclipse-cdt-cloud/cdt-gdb-adapter-sub002/internal/varobj"
)

func (s *Server) onInitialize(req *dap.InitializeRequest) {
	resp := &dap.InitializeResponse{}
	resp.Response = *newResponse(req.Seq, req.Command)
	resp.Body.SupportsConfigurationDoneRequest = true
	resp.Body.SupportsSetVariable = true
	resp.Body.SupportsConditionalBreakpoints = true
	resp.Body.SupportsHitConditionalBreakpoints = true
	resp.Body.SupportsLogPoints = true
	resp.Body.SupportsFunctionBreakpoints = true
	resp.Body.SupportsDisassembleRequest = true
	resp.Body.SupportsTerminateRequest = true
	s.send(resp)
	s.send(&dap.InitializedEvent{Event: *newEvent("initialized")})
}

func (s *Server) onLaunch(req *dap.LaunchRequest) {
	args, err := config.ParseLaunchArgs(req.Arguments)
	if err != nil {
		s.sendErrorResponse(req.Seq, req.Command, &ProtocolViolation{Request: "launch", Detail: err.Error()})
		return
	}
	adapterlog.VerboseFlag = args.Verbose

	if err := s.startBackend(launchAdapter{args}); err != nil {
		s.sendErrorResponse(req.Seq, req.Command, err)
		return
	}
	if args.Program == "" {
		s.sendErrorResponse(req.Seq, req.Command, &ProtocolViolation{Request: "launch", Detail: "program is required"})
		return
	}
	if err := mi.FileExecAndSymbols(s.backend, args.Program); err != nil {
		s.sendErrorResponse(req.Seq, req.Command, err)
		return
	}
	if args.Arguments != "" {
		if err := mi.ExecArguments(s.backend, args.Arguments); err != nil {
			s.sendErrorResponse(req.Seq, req.Command, err)
			return
		}
	}
	for _, c := range args.InitCommands {
		if _, err := s.backend.SendCommand(c); err != nil {
			adapterlog.Warn("initCommand %q failed: %v", c, err)
		}
	}
	s.send(newResponse(req.Seq, req.Command))
}

func (s *Server) onAttach(req *dap.AttachRequest) {
	args, err := config.ParseAttachArgs(req.Arguments)
	if err != nil {
		s.sendErrorResponse(req.Seq, req.Command, &ProtocolViolation{Request: "attach", Detail: err.Error()})
		return
	}
	adapterlog.VerboseFlag = args.Verbose
	s.attached = true

	if err := s.startBackend(attachAdapter{args}); err != nil {
		s.sendErrorResponse(req.Seq, req.Command, err)
		return
	}
	if args.Program != "" {
		if err := mi.FileSymbolFile(s.backend, args.Program); err != nil {
			s.sendErrorResponse(req.Seq, req.Command, err)
			return
		}
	}
	if args.ProcessID == "" {
		s.sendErrorResponse(req.Seq, req.Command, &ProtocolViolation{Request: "attach", Detail: "processId is required"})
		return
	}
	if err := mi.TargetAttach(s.backend, args.ProcessID); err != nil {
		s.sendErrorResponse(req.Seq, req.Command, err)
		return
	}
	for _, c := range args.InitCommands {
		if _, err := s.backend.SendCommand(c); err != nil {
			adapterlog.Warn("initCommand %q failed: %v", c, err)
		}
	}
	s.send(newResponse(req.Seq, req.Command))
}

// --- breakpoints --------------------------------------------------------

func (s *Server) onSetBreakpoints(req *dap.SetBreakpointsRequest) {
	file := req.Arguments.Source.Path
	if file == "" {
		file = req.Arguments.Source.Name
	}

	var desired []breakpoint.Desired
	for _, b := range req.Arguments.Breakpoints {
		desired = append(desired, breakpoint.Desired{
			File: file, Line: b.Line, Condition: b.Condition, HitCondition: b.HitCondition,
		})
		if b.LogMessage != "" {
			// Logpoints are tracked by gdb breakpoint number once inserted;
			// recorded after Apply below.
		}
	}

	s.pauseAroundModify(func() {
		all, err := mi.BreakList(s.backend)
		if err != nil {
			s.sendErrorResponse(req.Seq, req.Command, err)
			return
		}
		current := breakpoint.RelevantSourceRows(all, file)
		plan := breakpoint.Reconcile(desired, current, breakpoint.SourceMatch)

		applied, err := breakpoint.Apply(s.backend, plan, func(d breakpoint.Desired) mi.BreakInsertOptions {
			opts := mi.BreakInsertOptions{File: d.File, Line: d.Line, Condition: d.Condition}
			if d.HitCondition != "" {
				if enc, err := breakpoint.EncodeHitCondition(d.HitCondition); err == nil {
					opts.IgnoreCount = &enc.IgnoreCount
					opts.Temporary = enc.Temporary
				}
			}
			return opts
		})
		if err != nil {
			s.sendErrorResponse(req.Seq, req.Command, err)
			return
		}

		for i, b := range req.Arguments.Breakpoints {
			if b.LogMessage != "" && i < len(applied) && applied[i].Verified {
				s.state.logpoints[applied[i].Result.Number] = b.LogMessage
			}
		}

		resp := &dap.SetBreakpointsResponse{}
		resp.Response = *newResponse(req.Seq, req.Command)
		for _, a := range applied {
			bp := dap.Breakpoint{Verified: a.Verified, Line: a.Desired.Line, Message: a.Error}
			if a.Verified {
				if n, err := strconv.Atoi(a.Result.Number); err == nil {
					bp.Id = n
				}
				bp.Line = a.Result.Line
			}
			resp.Body.Breakpoints = append(resp.Body.Breakpoints, bp)
		}
		s.send(resp)
	})
}

func (s *Server) onSetFunctionBreakpoints(req *dap.SetFunctionBreakpointsRequest) {
	var desired []breakpoint.Desired
	for _, b := range req.Arguments.Breakpoints {
		desired = append(desired, breakpoint.Desired{FuncName: b.Name, Condition: b.Condition, HitCondition: b.HitCondition})
	}

	s.pauseAroundModify(func() {
		all, err := mi.BreakList(s.backend)
		if err != nil {
			s.sendErrorResponse(req.Seq, req.Command, err)
			return
		}
		current := breakpoint.RelevantFunctionRows(all)
		plan := breakpoint.Reconcile(desired, current, breakpoint.FunctionMatch)

		applied, err := breakpoint.Apply(s.backend, plan, func(d breakpoint.Desired) mi.BreakInsertOptions {
			return mi.BreakInsertOptions{Function: true, FuncName: d.FuncName, Condition: d.Condition}
		})
		if err != nil {
			s.sendErrorResponse(req.Seq, req.Command, err)
			return
		}
		for _, a := range applied {
			if a.Verified {
				s.state.functionBps[a.Result.Number] = true
			}
		}

		resp := &dap.SetFunctionBreakpointsResponse{}
		resp.Response = *newResponse(req.Seq, req.Command)
		for _, a := range applied {
			resp.Body.Breakpoints = append(resp.Body.Breakpoints, dap.Breakpoint{Verified: a.Verified, Message: a.Error})
		}
		s.send(resp)
	})
}

func (s *Server) onConfigurationDone(req *dap.ConfigurationDoneRequest) {
	s.send(newResponse(req.Seq, req.Command))
	if err := mi.ExecRun(s.backend, false); err != nil {
		adapterlog.Warn("exec-run failed: %v", err)
	}
}

// --- threads/stack/scopes/variables --------------------------------------

func (s *Server) onThreads(req *dap.ThreadsRequest) {
	if !s.state.running {
		list, current, err := mi.ThreadInfoList(s.backend)
		if err == nil {
			s.state.threads = make(map[int]*thread)
			for _, ti := range list {
				id, _ := strconv.Atoi(ti.ID)
				s.state.upsertThread(id, ti.Name)
			}
			_ = current
			s.state.threadsStale = false
		}
	}
	resp := &dap.ThreadsResponse{}
	resp.Response = *newResponse(req.Seq, req.Command)
	for _, t := range s.state.threadList() {
		name := t.name
		if name == "" {
			name = fmt.Sprintf("Thread %d", t.id)
		}
		resp.Body.Threads = append(resp.Body.Threads, dap.Thread{Id: t.id, Name: name})
	}
	s.send(resp)
}

func (s *Server) onStackTrace(req *dap.StackTraceRequest) {
	threadID := req.Arguments.ThreadId
	frames, err := mi.StackListFrames(s.backend, threadID, true)
	if err != nil {
		s.sendErrorResponse(req.Seq, req.Command, err)
		return
	}
	depth := len(frames)

	resp := &dap.StackTraceResponse{}
	resp.Response = *newResponse(req.Seq, req.Command)
	resp.Body.TotalFrames = depth
	for _, f := range frames {
		handle := s.handles.AddFrame(frameRef{threadID: threadID, frameID: f.Level, depth: depth - f.Level})
		sf := dap.StackFrame{Id: handle, Name: f.Func, Line: f.Line}
		switch {
		case f.Fullname != "":
			sf.Source = &dap.Source{Name: f.File, Path: f.Fullname}
		case f.File != "":
			// No resolved path (no debug info for this frame's compilation
			// unit, typically) — hand the client a sourceReference instead
			// so a "source" request can still return something.
			ref := s.handles.AddSource(fmt.Sprintf("; no source available for %s (address %s)", f.Func, f.Addr))
			sf.Source = &dap.Source{Name: f.File, SourceReference: ref}
		}
		resp.Body.StackFrames = append(resp.Body.StackFrames, sf)
	}
	s.send(resp)
}

func (s *Server) onScopes(req *dap.ScopesRequest) {
	ref := s.handles.AddVarRef(varRef{kind: varRefFrame, frameHandle: req.Arguments.FrameId})
	resp := &dap.ScopesResponse{}
	resp.Response = *newResponse(req.Seq, req.Command)
	resp.Body.Scopes = []dap.Scope{{Name: "Locals", VariablesReference: ref}}
	s.send(resp)
}

var arrayTypePattern = regexp.MustCompile(`\[\d*\]`)

func (s *Server) onVariables(req *dap.VariablesRequest) {
	ref, ok := s.handles.VarRef(req.Arguments.VariablesReference)
	if !ok {
		s.sendErrorResponse(req.Seq, req.Command, &ProtocolViolation{Request: "variables", Detail: "unknown variablesReference"})
		return
	}

	resp := &dap.VariablesResponse{}
	resp.Response = *newResponse(req.Seq, req.Command)

	switch ref.kind {
	case varRefFrame:
		frame, ok := s.handles.Frame(ref.frameHandle)
		if !ok {
			s.sendErrorResponse(req.Seq, req.Command, &ProtocolViolation{Request: "variables", Detail: "unknown frame handle"})
			return
		}
		key := varobj.Key{FrameID: frame.frameID, ThreadID: frame.threadID, Depth: frame.depth}
		tracked := s.vars.GetVars(key)

		needsResync := len(tracked) == 0
		var out []*varobj.Object
		for _, v := range tracked {
			updated, err := s.vars.UpdateVar(key, v)
			if err != nil {
				needsResync = true
				continue
			}
			out = append(out, updated)
		}

		if needsResync {
			names := make(map[string]bool)
			for _, v := range out {
				names[v.Expression] = true
			}
			stackVars, err := mi.StackListVariables(s.backend, frame.threadID, frame.frameID, true, true, true)
			if err == nil {
				for _, sv := range stackVars {
					if names[sv.Name] {
						continue
					}
					obj, err := s.vars.AddVar(key, fmt.Sprintf("%d", frame.frameID), sv.Name, true, false)
					if err == nil {
						out = append(out, obj)
					}
				}
			}
		}

		for _, v := range out {
			value := v.Value
			if arrayTypePattern.MatchString(v.Type) {
				if addr, err := mi.DataEvaluateExpression(s.backend, frame.threadID, frame.frameID, true, true, "&("+v.Expression+")"); err == nil {
					value = addr
				}
			}
			resp.Body.Variables = append(resp.Body.Variables, s.variableFor(key, v, value))
		}

	case varRefObject:
		result, err := mi.VarListChildren(s.backend, ref.varobjName)
		if err != nil {
			s.sendErrorResponse(req.Seq, req.Command, err)
			return
		}
		children, _ := result.Field("children")
		key := varobj.Key{} // children's scope key is inherited from the parent's tracked entry; looked up via frame handle below
		if frame, ok := s.handles.Frame(ref.frameHandle); ok {
			key = varobj.Key{FrameID: frame.frameID, ThreadID: frame.threadID, Depth: frame.depth}
		}
		for _, item := range children.Items() {
			child, ok := item.Field("child")
			if !ok {
				child = item
			}
			resp.Body.Variables = append(resp.Body.Variables, s.childVariable(key, ref, child)...)
		}
	}

	s.send(resp)
}

// childVariable handles one -var-list-children entry, recursing through
// C++ access-label placeholders per spec §4.6.
func (s *Server) childVariable(key varobj.Key, parentRef varRef, child mi.Value) []dap.Variable {
	exp := child.FieldString("exp")
	if (exp == "public" || exp == "protected" || exp == "private") && child.FieldString("value") == "" && child.FieldString("type") == "" {
		name := child.FieldString("name")
		nested, err := mi.VarListChildren(s.backend, name)
		if err != nil {
			return nil
		}
		var out []dap.Variable
		grand, _ := nested.Field("children")
		for _, item := range grand.Items() {
			gc, ok := item.Field("child")
			if !ok {
				gc = item
			}
			out = append(out, s.childVariable(key, parentRef, gc)...)
		}
		return out
	}

	name := child.FieldString("name")
	obj := s.vars.GetVarByName(key, name)
	if obj == nil {
		path, _ := mi.VarInfoPathExpression(s.backend, name)
		obj = &varobj.Object{
			Name: name, Expression: path, NumChild: child.FieldString("numchild"),
			Value: child.FieldString("value"), Type: child.FieldString("type"), IsChild: true,
		}
	}

	variable := s.variableFor(key, obj, obj.Value)
	if exp != "" && !strings.HasPrefix(exp, "[") {
		variable.Name = exp
	}
	return []dap.Variable{variable}
}

func (s *Server) variableFor(key varobj.Key, v *varobj.Object, value string) dap.Variable {
	variable := dap.Variable{Name: v.Expression, Value: value, Type: v.Type}
	if n, err := strconv.Atoi(v.NumChild); err == nil && n > 0 {
		variable.VariablesReference = s.handles.AddVarRef(varRef{kind: varRefObject, varobjName: v.Name})
	}
	return variable
}

// accessLabelChildNames recurses through varobjName's C++ access-label
// placeholder children (public/protected/private) and returns the real gdb
// varobj name of every grandchild whose display name (exp) is fieldName —
// the candidate set onSetVariable retries -var-assign against in turn per
// spec §4.6's "iterate the access-label grandchildren and retry until one
// succeeds". Mirrors the recursion childVariable does for reads.
func (s *Server) accessLabelChildNames(varobjName, fieldName string) []string {
	result, err := mi.VarListChildren(s.backend, varobjName)
	if err != nil {
		return nil
	}
	children, _ := result.Field("children")
	var names []string
	for _, item := range children.Items() {
		child, ok := item.Field("child")
		if !ok {
			child = item
		}
		exp := child.FieldString("exp")
		name := child.FieldString("name")
		if (exp == "public" || exp == "protected" || exp == "private") && child.FieldString("value") == "" && child.FieldString("type") == "" {
			names = append(names, s.accessLabelChildNames(name, fieldName)...)
			continue
		}
		if exp == fieldName {
			names = append(names, name)
		}
	}
	return names
}

// onSetVariable implements spec §4.6's set-variable fallback chain: assign
// via the tracked handle when one exists, else the synthesized dotted
// path; on failure under an object parent, retry against every
// access-label grandchild until one succeeds; otherwise fall back to a
// bare expression assignment.
func (s *Server) onSetVariable(req *dap.SetVariableRequest) {
	ref, ok := s.handles.VarRef(req.Arguments.VariablesReference)
	if !ok {
		s.sendErrorResponse(req.Seq, req.Command, &ProtocolViolation{Request: "setVariable", Detail: "unknown variablesReference"})
		return
	}

	var key varobj.Key
	if frame, ok := s.handles.Frame(ref.frameHandle); ok {
		key = varobj.Key{FrameID: frame.frameID, ThreadID: frame.threadID, Depth: frame.depth}
	}

	var target *varobj.Object
	if ref.kind == varRefFrame {
		target = s.vars.GetVar(key, req.Arguments.Name)
	} else {
		target = s.vars.GetVarByName(key, ref.varobjName+"."+req.Arguments.Name)
	}

	assigned := false
	if target != nil {
		if err := mi.VarAssign(s.backend, target.Name, req.Arguments.Value); err != nil {
			s.sendErrorResponse(req.Seq, req.Command, err)
			return
		}
		assigned = true
	} else if ref.kind == varRefObject {
		for _, name := range s.accessLabelChildNames(ref.varobjName, req.Arguments.Name) {
			if err := mi.VarAssign(s.backend, name, req.Arguments.Value); err == nil {
				assigned = true
				break
			}
		}
	}

	if !assigned {
		expr := fmt.Sprintf("%s = %s", req.Arguments.Name, req.Arguments.Value)
		if _, err := mi.DataEvaluateExpression(s.backend, 0, 0, false, false, expr); err != nil {
			s.sendErrorResponse(req.Seq, req.Command, err)
			return
		}
	}

	resp := &dap.SetVariableResponse{}
	resp.Response = *newResponse(req.Seq, req.Command)
	resp.Body.Value = req.Arguments.Value
	s.send(resp)
}

func (s *Server) onEvaluate(req *dap.EvaluateRequest) {
	if req.Arguments.Context == "repl" {
		v, err := s.backend.SendCommand(req.Arguments.Expression)
		if err != nil {
			s.sendErrorResponse(req.Seq, req.Command, err)
			return
		}
		resp := &dap.EvaluateResponse{}
		resp.Response = *newResponse(req.Seq, req.Command)
		resp.Body.Result = v.String()
		s.send(resp)
		return
	}

	frame, ok := s.handles.Frame(req.Arguments.FrameId)
	if !ok {
		s.sendErrorResponse(req.Seq, req.Command, &ProtocolViolation{Request: "evaluate", Detail: "frameId is required"})
		return
	}
	value, err := mi.DataEvaluateExpression(s.backend, frame.threadID, frame.frameID, true, true, req.Arguments.Expression)
	if err != nil {
		s.sendErrorResponse(req.Seq, req.Command, err)
		return
	}
	resp := &dap.EvaluateResponse{}
	resp.Response = *newResponse(req.Seq, req.Command)
	resp.Body.Result = value
	s.send(resp)
}

// --- execution control ---------------------------------------------------

func (s *Server) onNext(req *dap.NextRequest) {
	s.send(newResponse(req.Seq, req.Command))
	var err error
	if req.Arguments.Granularity == "instruction" {
		err = mi.ExecNextInstruction(s.backend, req.Arguments.ThreadId, true)
	} else {
		err = mi.ExecNext(s.backend, req.Arguments.ThreadId, true)
	}
	if err != nil {
		adapterlog.Warn("exec-next failed: %v", err)
	}
}

func (s *Server) onStepIn(req *dap.StepInRequest) {
	s.send(newResponse(req.Seq, req.Command))
	var err error
	if req.Arguments.Granularity == "instruction" {
		err = mi.ExecStepInstruction(s.backend, req.Arguments.ThreadId, true)
	} else {
		err = mi.ExecStep(s.backend, req.Arguments.ThreadId, true)
	}
	if err != nil {
		adapterlog.Warn("exec-step failed: %v", err)
	}
}

func (s *Server) onStepOut(req *dap.StepOutRequest) {
	s.send(newResponse(req.Seq, req.Command))
	if err := mi.ExecFinish(s.backend, req.Arguments.ThreadId, true); err != nil {
		adapterlog.Warn("exec-finish failed: %v", err)
	}
}

func (s *Server) onContinue(req *dap.ContinueRequest) {
	resp := &dap.ContinueResponse{}
	resp.Response = *newResponse(req.Seq, req.Command)
	s.send(resp)
	if err := mi.ExecContinue(s.backend, req.Arguments.ThreadId, true, false); err != nil {
		adapterlog.Warn("exec-continue failed: %v", err)
	}
}

func (s *Server) onPause(req *dap.PauseRequest) {
	s.send(newResponse(req.Seq, req.Command))
	if err := s.backend.Pause(strconv.Itoa(req.Arguments.ThreadId)); err != nil {
		adapterlog.Warn("pause failed: %v", err)
	}
}

func (s *Server) onDisconnect(req *dap.DisconnectRequest) {
	s.send(newResponse(req.Seq, req.Command))
	if s.backend != nil {
		s.backend.Exit()
	}
}

// onSource serves a sourceReference minted for a path-less stack frame
// (see onStackTrace); it never serves an on-disk path, since a client
// that has one reads the file itself instead of issuing this request.
func (s *Server) onSource(req *dap.SourceRequest) {
	content, ok := s.handles.Source(req.Arguments.SourceReference)
	if !ok {
		s.sendErrorResponse(req.Seq, req.Command, &ProtocolViolation{Request: "source", Detail: "unknown sourceReference"})
		return
	}
	resp := &dap.SourceResponse{}
	resp.Response = *newResponse(req.Seq, req.Command)
	resp.Body.Content = content
	s.send(resp)
}

// onTerminate ends the debuggee without tearing down the DAP session
// (spec §9's terminate/disconnect distinction): attach sessions detach,
// launch sessions are asked to stop and gdb is exited, matching who
// owns the inferior's lifetime either way.
func (s *Server) onTerminate(req *dap.TerminateRequest) {
	s.send(newResponse(req.Seq, req.Command))
	if s.backend == nil {
		return
	}
	if s.attached {
		if _, err := s.backend.SendCommand("-target-detach"); err != nil {
			adapterlog.Warn("terminate: target-detach failed: %v", err)
		}
		return
	}
	if err := s.backend.Pause(""); err != nil {
		adapterlog.Warn("terminate: interrupt failed: %v", err)
	}
	s.backend.Exit()
}

// onMemory serves the custom cdt-gdb-adapter/Memory request (spec §6).
func (s *Server) onMemory(req *dap.Request) {
	var body struct {
		Address string `json:"address"`
		Length  int    `json:"length"`
		Offset  int    `json:"offset"`
	}
	if err := json.Unmarshal(req.Arguments, &body); err != nil {
		s.sendErrorResponse(req.Seq, req.Command, &ProtocolViolation{Request: "cdt-gdb-adapter/Memory", Detail: err.Error()})
		return
	}
	mem, err := mi.DataReadMemoryBytes(s.backend, body.Address, body.Offset, body.Length)
	if err != nil {
		s.sendErrorResponse(req.Seq, req.Command, err)
		return
	}
	raw, err := hex.DecodeString(mem.Contents)
	if err != nil {
		s.sendErrorResponse(req.Seq, req.Command, err)
		return
	}
	resp := newResponse(req.Seq, req.Command)
	respBody, _ := json.Marshal(struct {
		Data    string `json:"data"`
		Address string `json:"address"`
	}{Data: base64.StdEncoding.EncodeToString(raw), Address: mem.Begin})
	full := &dap.Response{ProtocolMessage: resp.ProtocolMessage, Command: resp.Command, RequestSeq: resp.RequestSeq, Success: true}
	full.Body = json.RawMessage(respBody)
	s.send(full)
}

// pauseAroundModify implements spec §4.6's pause-around-modify protocol:
// interrupt if running, run fn, then resume. The interrupt's
// signal-received stop is consumed by onAsyncEvent without surfacing a
// DAP stopped event (see stops.go).
func (s *Server) pauseAroundModify(fn func()) {
	wasRunning := s.state.running
	if wasRunning {
		ch := make(chan struct{})
		s.pauseMu.Lock()
		s.pauseWaiters = append(s.pauseWaiters, ch)
		s.pauseMu.Unlock()
		if err := s.backend.Pause(""); err != nil {
			adapterlog.Warn("pause-around-modify: interrupt failed: %v", err)
		} else {
			// Serve's select loop is blocked inside this call, so MI events
			// and streams are dispatched here until onStopped closes ch.
			for waiting := true; waiting; {
				select {
				case <-ch:
					waiting = false
				case ev := <-s.backend.Events():
					s.onAsyncEvent(ev)
				case se := <-s.backend.ConsoleOutput():
					s.send(&dap.OutputEvent{Event: *newEvent("output"), Body: dap.OutputEventBody{Category: se.Category, Output: se.Text}})
				}
			}
		}
	}
	fn()
	if wasRunning {
		if err := mi.ExecContinue(s.backend, 0, false, false); err != nil {
			adapterlog.Warn("pause-around-modify: resume failed: %v", err)
		}
	}
}
