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

// Package mi implements the GDB/MI session layer: a resumable parser for
// gdb's --interpreter=mi2 output grammar, and a Backend that spawns gdb,
// tokenizes outgoing commands and demultiplexes incoming result/async
// records back to their callers.
package mi

import "fmt"

// Kind distinguishes the eight record shapes the MI grammar can produce.
type Kind int

const (
	KindResult Kind = iota
	KindExecAsync
	KindStatusAsync
	KindNotifyAsync
	KindConsoleStream
	KindTargetStream
	KindLogStream
	KindPrompt
)

func (k Kind) String() string {
	switch k {
	case KindResult:
		return "result"
	case KindExecAsync:
		return "exec-async"
	case KindStatusAsync:
		return "status-async"
	case KindNotifyAsync:
		return "notify-async"
	case KindConsoleStream:
		return "console-stream"
	case KindTargetStream:
		return "target-stream"
	case KindLogStream:
		return "log-stream"
	case KindPrompt:
		return "prompt"
	default:
		return "unknown"
	}
}

// ResultClass is the class field of a result-record.
type ResultClass string

const (
	ClassDone      ResultClass = "done"
	ClassRunning   ResultClass = "running"
	ClassConnected ResultClass = "connected"
	ClassExit      ResultClass = "exit"
	ClassError     ResultClass = "error"
)

// ValueKind tags the recursive value tree produced by the MI grammar.
type ValueKind int

const (
	ValueString ValueKind = iota
	ValueTuple
	ValueList
)

// Value is the recursive tagged tree that MI "value" productions decode to:
// a c-string, a tuple (mapping of name -> Value), or a list (either bare
// values or named results, per the grammar's ambiguous list production).
type Value struct {
	Kind   ValueKind
	Str    string
	Tuple  map[string]Value
	// List holds list items; when the list is actually a sequence of named
	// results (list := result ("," result)*) ListNames carries the
	// corresponding names in order and List holds the values, otherwise
	// ListNames is nil.
	List      []Value
	ListNames []string
}

// String returns the decoded string for a ValueString, else "".
func (v Value) String() string {
	if v.Kind == ValueString {
		return v.Str
	}
	return ""
}

// Field looks up a named member of a ValueTuple, ok=false otherwise.
func (v Value) Field(name string) (Value, bool) {
	if v.Kind != ValueTuple {
		return Value{}, false
	}
	f, ok := v.Tuple[name]
	return f, ok
}

// FieldString is a convenience for Field(name).String(), "" if absent.
func (v Value) FieldString(name string) string {
	f, ok := v.Field(name)
	if !ok {
		return ""
	}
	return f.String()
}

// Items returns the list's values regardless of whether it was parsed as
// a bare value list or a named-result list.
func (v Value) Items() []Value {
	if v.Kind != ValueList {
		return nil
	}
	return v.List
}

func (v Value) GoString() string {
	switch v.Kind {
	case ValueString:
		return fmt.Sprintf("%q", v.Str)
	case ValueTuple:
		return fmt.Sprintf("%v", v.Tuple)
	default:
		return fmt.Sprintf("%v", v.List)
	}
}

// NamedValue is one "name=value" pair of a result list, preserved in
// submission order (unlike the Tuple map) so callers needing positional or
// duplicate-aware access (there are none in practice, but the grammar does
// not forbid it) have it available.
type NamedValue struct {
	Name  string
	Value Value
}

// Record is one parsed unit of MI output.
type Record struct {
	Kind           Kind
	Token          uint64
	HasToken       bool
	Class          ResultClass  // KindResult only
	AsyncClass     string       // exec/status/notify-async only
	Data           Value        // KindResult/async: tuple of results; zero Value if none
	ResultsOrdered []NamedValue // same data, insertion order preserved
	Text           string       // stream records: decoded c-string
}

// Msg extracts data.msg for an error result record.
func (r Record) Msg() string {
	return r.Data.FieldString("msg")
}
