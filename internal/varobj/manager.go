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

// Package varobj keeps a cache of gdb variable objects scoped by frame,
// thread and stack depth. It owns the create/update/delete/recreate
// lifecycle described in spec §4.4; it never sends MI commands outside
// that lifecycle, and never touches the wire itself beyond the Commander
// it is given.
package varobj

import (
	"fmt"

	"github.com/eclipse-cdt-cloud/cdt-gdb-adapter-sub002/internal/mi"
)

// Key scopes a varobj list to one logical stack frame. Depth disambiguates
// recursive calls that reuse the same (frameId, threadId) pair.
type Key struct {
	FrameID   int
	ThreadID  int
	Depth     int
}

// Object mirrors one tracked gdb varobj.
type Object struct {
	Name       string // gdb handle, e.g. "var3"
	Expression string // source text, or a synthetic child label
	NumChild   string
	Value      string
	Type       string
	IsVar      bool // created from a stack-variable listing
	IsChild    bool // created via a relative path for an array/struct element
}

// Manager is the keyed varobj cache. Not safe for concurrent use; the
// orchestrator serializes all access on its single event loop goroutine
// (spec §5).
type Manager struct {
	cmd  mi.Commander
	vars map[Key][]*Object
}

func NewManager(cmd mi.Commander) *Manager {
	return &Manager{cmd: cmd, vars: make(map[Key][]*Object)}
}

// GetVars returns the tracked list for key, or nil if nothing is tracked
// yet.
func (m *Manager) GetVars(key Key) []*Object {
	return m.vars[key]
}

// GetVar does a linear scan by source expression.
func (m *Manager) GetVar(key Key, expression string) *Object {
	for _, v := range m.vars[key] {
		if v.Expression == expression {
			return v
		}
	}
	return nil
}

// GetVarByName does a linear scan by gdb handle.
func (m *Manager) GetVarByName(key Key, varobjName string) *Object {
	for _, v := range m.vars[key] {
		if v.Name == varobjName {
			return v
		}
	}
	return nil
}

// AddVar issues -var-create and appends the resulting entry to key's list.
func (m *Manager) AddVar(key Key, frame string, expression string, isVar, isChild bool) (*Object, error) {
	v, err := mi.VarCreate(m.cmd, "-", frame, expression)
	if err != nil {
		return nil, err
	}
	obj := &Object{
		Name:       v.FieldString("name"),
		Expression: expression,
		NumChild:   v.FieldString("numchild"),
		Value:      v.FieldString("value"),
		Type:       v.FieldString("type"),
		IsVar:      isVar,
		IsChild:    isChild,
	}
	m.vars[key] = append(m.vars[key], obj)
	return obj, nil
}

// RemoveVar deletes varobjName in gdb and drops it, and every cached
// entry for a varobj gdb destroys along with it (spec §4.4: "removes
// from the list, and recursively removes tracked children"), from key's
// list. gdb names a child either "parent.field" or "parent[index]".
func (m *Manager) RemoveVar(key Key, varobjName string) error {
	if err := mi.VarDelete(m.cmd, varobjName, false); err != nil {
		return err
	}
	list := m.vars[key]
	out := list[:0]
	for _, v := range list {
		if v.Name == varobjName || isDescendantHandle(v.Name, varobjName) {
			continue
		}
		out = append(out, v)
	}
	m.vars[key] = out
	return nil
}

// isDescendantHandle reports whether child is gdb's name for a varobj
// nested under parent, directly or transitively (e.g. "v.a.b" under "v").
func isDescendantHandle(child, parent string) bool {
	if len(child) <= len(parent) || child[:len(parent)] != parent {
		return false
	}
	switch child[len(parent)] {
	case '.', '[':
		return true
	default:
		return false
	}
}

// UpdateVar sends -var-update for obj's handle. On in_scope=="true" with
// an unchanged type it refreshes the cached value in place. On scope loss
// (in_scope false or invalid) or a type change it deletes the old handle
// and recreates it against the current frame, preserving isVar/isChild,
// and returns the fresh entry (spec §4.4 "Scope-loss semantics").
func (m *Manager) UpdateVar(key Key, obj *Object) (*Object, error) {
	result, err := mi.VarUpdate(m.cmd, obj.Name)
	if err != nil {
		return nil, err
	}
	changes, _ := result.Field("changelist")
	for _, ch := range changes.Items() {
		if ch.FieldString("name") != obj.Name {
			continue
		}
		switch ch.FieldString("in_scope") {
		case "true":
			if ch.FieldString("type_changed") == "true" {
				return m.recreate(key, obj)
			}
			obj.Value = ch.FieldString("value")
			return obj, nil
		case "false", "invalid":
			return m.recreate(key, obj)
		default:
			return nil, fmt.Errorf("varobj: unexpected in_scope %q for %s", ch.FieldString("in_scope"), obj.Name)
		}
	}
	// No changelist entry at all means gdb considers it unchanged.
	return obj, nil
}

func (m *Manager) recreate(key Key, obj *Object) (*Object, error) {
	if err := m.RemoveVar(key, obj.Name); err != nil {
		return nil, err
	}
	return m.AddVar(key, "current", obj.Expression, obj.IsVar, obj.IsChild)
}

// Evict drops every tracked varobj for key without issuing -var-delete,
// for use when the owning frame/thread/depth is known gone (e.g. session
// teardown, or a stop event invalidated every handle table at once).
func (m *Manager) Evict(key Key) {
	delete(m.vars, key)
}
