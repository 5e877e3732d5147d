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

// frameRef maps one allocated frame handle to a (threadId, gdb frameId)
// pair.
type frameRef struct {
	threadID int
	frameID  int
	depth    int
}

// varRefKind distinguishes the two things a variablesReference can point
// at.
type varRefKind int

const (
	varRefFrame varRefKind = iota
	varRefObject
)

// varRef maps one allocated variablesReference to either a scope (whole
// frame) or a tracked varobj's children.
type varRef struct {
	kind        varRefKind
	frameHandle int
	varobjName  string
}

// handleTables holds the frame-handle, variable-reference, and
// source-reference allocators. The frame/variable tables are reset on
// every stop event (spec §4.6: "both are small-integer indices; both
// are reset on every stop event"); sources are not, since a sourceReference
// stands for content with no backing file path and outlives any one stop.
type handleTables struct {
	frames  []frameRef
	varRefs []varRef
	sources []string
}

func newHandleTables() *handleTables {
	return &handleTables{}
}

// Reset invalidates every previously allocated handle. Called each time
// the target stops, since frame/variable state from the prior stop no
// longer applies.
func (h *handleTables) Reset() {
	h.frames = h.frames[:0]
	h.varRefs = h.varRefs[:0]
}

// AddFrame allocates a new frame handle; handles start at 1 so 0 can mean
// "no frame" in callers that need a sentinel.
func (h *handleTables) AddFrame(ref frameRef) int {
	h.frames = append(h.frames, ref)
	return len(h.frames)
}

func (h *handleTables) Frame(handle int) (frameRef, bool) {
	if handle < 1 || handle > len(h.frames) {
		return frameRef{}, false
	}
	return h.frames[handle-1], true
}

func (h *handleTables) AddVarRef(ref varRef) int {
	h.varRefs = append(h.varRefs, ref)
	return len(h.varRefs)
}

func (h *handleTables) VarRef(handle int) (varRef, bool) {
	if handle < 1 || handle > len(h.varRefs) {
		return varRef{}, false
	}
	return h.varRefs[handle-1], true
}

// AddSource allocates a sourceReference standing for content (used when a
// stack frame has no backing file path). Returned handles are 1-indexed.
func (h *handleTables) AddSource(content string) int {
	h.sources = append(h.sources, content)
	return len(h.sources)
}

func (h *handleTables) Source(ref int) (string, bool) {
	if ref < 1 || ref > len(h.sources) {
		return "", false
	}
	return h.sources[ref-1], true
}
