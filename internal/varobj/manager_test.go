package varobj

import (
	"testing"

	"github.com/eclipse-cdt-cloud/cdt-gdb-adapter-sub002/internal/mi"
)

// fakeCmd is a scripted mi.Commander: each call consumes the next queued
// response (and records the command line issued).
type fakeCmd struct {
	t        *testing.T
	queue    []mi.Value
	commands []string
}

func (f *fakeCmd) SendCommand(command string) (mi.Value, error) {
	f.commands = append(f.commands, command)
	if len(f.queue) == 0 {
		f.t.Fatalf("no queued response for command %q", command)
	}
	v := f.queue[0]
	f.queue = f.queue[1:]
	return v, nil
}

func tuple(fields map[string]mi.Value) mi.Value {
	return mi.Value{Kind: mi.ValueTuple, Tuple: fields}
}

func str(s string) mi.Value { return mi.Value{Kind: mi.ValueString, Str: s} }

func TestAddVarTracksEntry(t *testing.T) {
	f := &fakeCmd{t: t, queue: []mi.Value{
		tuple(map[string]mi.Value{"name": str("var1"), "numchild": str("0"), "value": str("5"), "type": str("int")}),
	}}
	m := NewManager(f)
	key := Key{FrameID: 0, ThreadID: 1, Depth: 0}

	obj, err := m.AddVar(key, "*", "x", true, false)
	if err != nil {
		t.Fatal(err)
	}
	if obj.Name != "var1" || obj.Value != "5" {
		t.Fatalf("unexpected object: %+v", obj)
	}
	if got := m.GetVar(key, "x"); got != obj {
		t.Fatalf("GetVar did not return the tracked object")
	}
	if got := m.GetVarByName(key, "var1"); got != obj {
		t.Fatalf("GetVarByName did not return the tracked object")
	}
	if len(m.GetVars(key)) != 1 {
		t.Fatalf("expected one tracked var, got %d", len(m.GetVars(key)))
	}
}

func TestUpdateVarInScopeRefreshesValue(t *testing.T) {
	f := &fakeCmd{t: t, queue: []mi.Value{
		tuple(map[string]mi.Value{"name": str("var1"), "numchild": str("0"), "value": str("5"), "type": str("int")}),
		tuple(map[string]mi.Value{"changelist": mi.Value{Kind: mi.ValueList, List: []mi.Value{
			tuple(map[string]mi.Value{"name": str("var1"), "in_scope": str("true"), "value": str("6")}),
		}}}),
	}}
	m := NewManager(f)
	key := Key{ThreadID: 1}
	obj, _ := m.AddVar(key, "*", "x", true, false)

	updated, err := m.UpdateVar(key, obj)
	if err != nil {
		t.Fatal(err)
	}
	if updated.Value != "6" {
		t.Fatalf("expected refreshed value 6, got %q", updated.Value)
	}
	if updated != obj {
		t.Fatalf("expected in-place update to return the same object")
	}
}

func TestUpdateVarOutOfScopeRecreates(t *testing.T) {
	f := &fakeCmd{t: t, queue: []mi.Value{
		tuple(map[string]mi.Value{"name": str("var1"), "numchild": str("0"), "value": str("5"), "type": str("int")}), // create
		tuple(map[string]mi.Value{"changelist": mi.Value{Kind: mi.ValueList, List: []mi.Value{
			tuple(map[string]mi.Value{"name": str("var1"), "in_scope": str("false")}),
		}}}), // update -> out of scope
		tuple(map[string]mi.Value{}),                                                                                 // delete (ignored)
		tuple(map[string]mi.Value{"name": str("var2"), "numchild": str("0"), "value": str("5"), "type": str("int")}), // recreate
	}}
	m := NewManager(f)
	key := Key{ThreadID: 1}
	obj, _ := m.AddVar(key, "*", "x", true, false)

	updated, err := m.UpdateVar(key, obj)
	if err != nil {
		t.Fatal(err)
	}
	if updated.Name != "var2" {
		t.Fatalf("expected recreated handle var2, got %q", updated.Name)
	}
	if got := m.GetVarByName(key, "var1"); got != nil {
		t.Fatalf("stale handle var1 should no longer be tracked")
	}
	if got := m.GetVarByName(key, "var2"); got != updated {
		t.Fatalf("recreated handle not tracked")
	}
	if len(f.commands) != 4 {
		t.Fatalf("expected 4 commands, got %d: %v", len(f.commands), f.commands)
	}
}

func TestUpdateVarTypeChangedRecreates(t *testing.T) {
	f := &fakeCmd{t: t, queue: []mi.Value{
		tuple(map[string]mi.Value{"name": str("var1"), "numchild": str("0"), "value": str("5"), "type": str("int")}),
		tuple(map[string]mi.Value{"changelist": mi.Value{Kind: mi.ValueList, List: []mi.Value{
			tuple(map[string]mi.Value{"name": str("var1"), "in_scope": str("true"), "type_changed": str("true")}),
		}}}),
		tuple(map[string]mi.Value{}),
		tuple(map[string]mi.Value{"name": str("var2"), "numchild": str("0"), "value": str("9"), "type": str("long")}),
	}}
	m := NewManager(f)
	key := Key{ThreadID: 1}
	obj, _ := m.AddVar(key, "*", "x", true, false)

	updated, err := m.UpdateVar(key, obj)
	if err != nil {
		t.Fatal(err)
	}
	if updated.Name != "var2" || updated.Type != "long" {
		t.Fatalf("expected recreated handle with new type, got %+v", updated)
	}
}

func TestRemoveVarDropsMatchingHandleButKeepsSiblings(t *testing.T) {
	f := &fakeCmd{t: t, queue: []mi.Value{
		tuple(map[string]mi.Value{"name": str("var1")}),
		tuple(map[string]mi.Value{"name": str("var2")}),
		tuple(map[string]mi.Value{}),
	}}
	m := NewManager(f)
	key := Key{ThreadID: 1}
	m.AddVar(key, "*", "x", true, false)
	m.AddVar(key, "*", "y", true, false)

	if err := m.RemoveVar(key, "var1"); err != nil {
		t.Fatal(err)
	}
	if len(m.GetVars(key)) != 1 || m.GetVars(key)[0].Name != "var2" {
		t.Fatalf("unexpected remaining vars: %+v", m.GetVars(key))
	}
}

// TestRemoveVarRecursivelyDropsTrackedChildren covers spec §4.4/§8:
// deleting a parent varobj must also prune every cached entry gdb itself
// destroys along with it, named "parent.field" or "parent[index]".
func TestRemoveVarRecursivelyDropsTrackedChildren(t *testing.T) {
	f := &fakeCmd{t: t, queue: []mi.Value{
		tuple(map[string]mi.Value{}), // -var-delete reply
	}}
	m := NewManager(f)
	key := Key{ThreadID: 1}

	// Seed the cache directly with a parent, two of its children (dotted
	// and indexed), a grandchild, and an unrelated sibling varobj — as if
	// -var-list-children had previously been tracked into the cache.
	m.vars[key] = []*Object{
		{Name: "var1", Expression: "s", IsVar: true},
		{Name: "var1.field", Expression: "field", IsChild: true},
		{Name: "var1[0]", Expression: "[0]", IsChild: true},
		{Name: "var1.field.nested", Expression: "nested", IsChild: true},
		{Name: "var2", Expression: "other", IsVar: true},
		{Name: "var10", Expression: "unrelated", IsVar: true},
	}

	if err := m.RemoveVar(key, "var1"); err != nil {
		t.Fatal(err)
	}

	remaining := m.GetVars(key)
	if len(remaining) != 2 {
		t.Fatalf("expected only var2 and var10 to survive, got: %+v", remaining)
	}
	for _, v := range remaining {
		if v.Name != "var2" && v.Name != "var10" {
			t.Fatalf("unexpected survivor %q", v.Name)
		}
	}
}

func TestDepthDistinguishesRecursiveFrames(t *testing.T) {
	f := &fakeCmd{t: t, queue: []mi.Value{
		tuple(map[string]mi.Value{"name": str("var1"), "value": str("1")}),
		tuple(map[string]mi.Value{"name": str("var2"), "value": str("2")}),
	}}
	m := NewManager(f)
	shallow := Key{FrameID: 2, ThreadID: 1, Depth: 3}
	deep := Key{FrameID: 2, ThreadID: 1, Depth: 4}

	m.AddVar(shallow, "2", "n", true, false)
	m.AddVar(deep, "2", "n", true, false)

	if len(m.GetVars(shallow)) != 1 || len(m.GetVars(deep)) != 1 {
		t.Fatalf("expected independent lists per depth")
	}
	if m.GetVars(shallow)[0].Name == m.GetVars(deep)[0].Name {
		t.Fatalf("expected distinct varobj handles per recursive frame")
	}
}

func TestEvictDropsKeyWithoutDeleting(t *testing.T) {
	f := &fakeCmd{t: t, queue: []mi.Value{
		tuple(map[string]mi.Value{"name": str("var1")}),
	}}
	m := NewManager(f)
	key := Key{ThreadID: 1}
	m.AddVar(key, "*", "x", true, false)

	m.Evict(key)
	if len(m.GetVars(key)) != 0 {
		t.Fatalf("expected no tracked vars after evict")
	}
	if len(f.commands) != 1 {
		t.Fatalf("evict must not issue -var-delete, got commands %v", f.commands)
	}
}
