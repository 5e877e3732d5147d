package breakpoint

import (
	"testing"

	"github.com/eclipse-cdt-cloud/cdt-gdb-adapter-sub002/internal/mi"
)

func TestReconcileReusesUnchangedBreakpoint(t *testing.T) {
	current := []mi.Breakpoint{
		{Number: "1", OriginalLocation: "-source main.c -line 10", Cond: ""},
	}
	desired := []Desired{{File: "main.c", Line: 10}}

	plan := Reconcile(desired, current, SourceMatch)
	if len(plan.Entries) != 1 || plan.Entries[0].MatchedCurrent == nil {
		t.Fatalf("expected the existing breakpoint to be reused: %+v", plan)
	}
	if len(plan.Deletes) != 0 {
		t.Fatalf("expected no deletes, got %v", plan.Deletes)
	}
}

func TestReconcileDeletesUnmatchedAndInsertsNew(t *testing.T) {
	current := []mi.Breakpoint{
		{Number: "1", OriginalLocation: "-source main.c -line 10"},
		{Number: "2", OriginalLocation: "-source main.c -line 20"},
	}
	desired := []Desired{{File: "main.c", Line: 20}, {File: "main.c", Line: 30}}

	plan := Reconcile(desired, current, SourceMatch)
	if len(plan.Deletes) != 1 || plan.Deletes[0] != "1" {
		t.Fatalf("expected breakpoint 1 deleted, got %v", plan.Deletes)
	}
	var inserts int
	for _, e := range plan.Entries {
		if e.MatchedCurrent == nil {
			inserts++
		}
	}
	if inserts != 1 {
		t.Fatalf("expected exactly one insert, got %d", inserts)
	}
}

func TestReconcileConditionMismatchForcesReinsert(t *testing.T) {
	current := []mi.Breakpoint{
		{Number: "1", OriginalLocation: "-source main.c -line 10", Cond: "x==1"},
	}
	desired := []Desired{{File: "main.c", Line: 10, Condition: "x==2"}}

	plan := Reconcile(desired, current, SourceMatch)
	if plan.Entries[0].MatchedCurrent != nil {
		t.Fatalf("expected condition mismatch to prevent reuse")
	}
	if len(plan.Deletes) != 1 {
		t.Fatalf("expected the stale breakpoint scheduled for delete, got %v", plan.Deletes)
	}
}

func TestReconcileHitConditionAlwaysReinserts(t *testing.T) {
	current := []mi.Breakpoint{
		{Number: "1", OriginalLocation: "-source main.c -line 10"},
	}
	desired := []Desired{{File: "main.c", Line: 10, HitCondition: "3"}}

	plan := Reconcile(desired, current, SourceMatch)
	if plan.Entries[0].MatchedCurrent != nil {
		t.Fatalf("expected hit-condition entries to never match")
	}
}

func TestReconcileEachCurrentConsumedAtMostOnce(t *testing.T) {
	current := []mi.Breakpoint{
		{Number: "1", OriginalLocation: "-source main.c -line 10"},
	}
	desired := []Desired{{File: "main.c", Line: 10}, {File: "main.c", Line: 10}}

	plan := Reconcile(desired, current, SourceMatch)
	matched := 0
	for _, e := range plan.Entries {
		if e.MatchedCurrent != nil {
			matched++
		}
	}
	if matched != 1 {
		t.Fatalf("expected exactly one desired entry to claim the single current row, got %d", matched)
	}
}

func TestRelevantSourceRowsFiltersChildAndOtherFiles(t *testing.T) {
	current := []mi.Breakpoint{
		{Number: "1", OriginalLocation: "-source main.c -line 10"},
		{Number: "1.1", OriginalLocation: "-source main.c -line 10"},
		{Number: "2", OriginalLocation: "-source other.c -line 5"},
		{Number: "3", OriginalLocation: "foo"},
	}
	rows := RelevantSourceRows(current, "main.c")
	if len(rows) != 1 || rows[0].Number != "1" {
		t.Fatalf("unexpected rows: %+v", rows)
	}
}

func TestRelevantFunctionRowsExcludesSourceBreakpoints(t *testing.T) {
	current := []mi.Breakpoint{
		{Number: "1", OriginalLocation: "-source main.c -line 10"},
		{Number: "2", OriginalLocation: "foo", Func: "foo"},
		{Number: "2.1", OriginalLocation: "foo"},
	}
	rows := RelevantFunctionRows(current)
	if len(rows) != 1 || rows[0].Number != "2" {
		t.Fatalf("unexpected rows: %+v", rows)
	}
}

func TestEncodeHitConditionThreshold(t *testing.T) {
	enc, err := EncodeHitCondition("3")
	if err != nil {
		t.Fatal(err)
	}
	if enc.IgnoreCount != 2 || !enc.Temporary {
		t.Fatalf("unexpected encoding: %+v", enc)
	}
}

func TestEncodeHitConditionGreaterThan(t *testing.T) {
	enc, err := EncodeHitCondition("> 5")
	if err != nil {
		t.Fatal(err)
	}
	if enc.IgnoreCount != 5 || enc.Temporary {
		t.Fatalf("unexpected encoding: %+v", enc)
	}
}

func TestEncodeHitConditionInvalid(t *testing.T) {
	if _, err := EncodeHitCondition("abc"); err == nil {
		t.Fatalf("expected an error for a non-numeric hit condition")
	}
}

// fakeCmd scripts mi.Commander responses in call order, for Apply tests.
type fakeCmd struct {
	t        *testing.T
	queue    []mi.Value
	errs     []error
	commands []string
}

func (f *fakeCmd) SendCommand(command string) (mi.Value, error) {
	f.commands = append(f.commands, command)
	if len(f.queue) == 0 {
		f.t.Fatalf("no queued response for %q", command)
	}
	v, err := f.queue[0], f.errs[0]
	f.queue, f.errs = f.queue[1:], f.errs[1:]
	return v, err
}

func tuple(fields map[string]mi.Value) mi.Value {
	return mi.Value{Kind: mi.ValueTuple, Tuple: fields}
}
func str(s string) mi.Value { return mi.Value{Kind: mi.ValueString, Str: s} }

func TestApplyDeletesBeforeInserts(t *testing.T) {
	f := &fakeCmd{t: t,
		queue: []mi.Value{
			{}, // -break-delete
			tuple(map[string]mi.Value{"bkpt": tuple(map[string]mi.Value{"number": str("2")})}),
		},
		errs: []error{nil, nil},
	}
	plan := Plan{
		Entries: []PlanEntry{{Desired: Desired{File: "main.c", Line: 20}}},
		Deletes: []string{"1"},
	}
	applied, err := Apply(f, plan, func(d Desired) mi.BreakInsertOptions {
		return mi.BreakInsertOptions{File: d.File, Line: d.Line}
	})
	if err != nil {
		t.Fatal(err)
	}
	if len(f.commands) != 2 || f.commands[0] != "-break-delete 1" {
		t.Fatalf("expected delete before insert, got %v", f.commands)
	}
	if len(applied) != 1 || !applied[0].Verified || applied[0].Result.Number != "2" {
		t.Fatalf("unexpected applied result: %+v", applied)
	}
}

func TestApplyContinuesPastFailedInsert(t *testing.T) {
	f := &fakeCmd{t: t,
		queue: []mi.Value{{}, {}},
		errs:  []error{nil, &mi.MIError{Command: "-break-insert", Message: "No symbol"}},
	}
	plan := Plan{
		Entries: []PlanEntry{{Desired: Desired{File: "main.c", Line: 999}}},
	}
	applied, err := Apply(f, plan, func(d Desired) mi.BreakInsertOptions {
		return mi.BreakInsertOptions{File: d.File, Line: d.Line}
	})
	if err != nil {
		t.Fatal(err)
	}
	if applied[0].Verified {
		t.Fatalf("expected insert failure to be recorded, not fatal")
	}
	if applied[0].Error == "" {
		t.Fatalf("expected an error message on the failed entry")
	}
}
