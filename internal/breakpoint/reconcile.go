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

// Package breakpoint implements the pure diff algorithm (spec §4.5) that
// aligns a client's desired breakpoint set against gdb's current table,
// so that repeated setBreakpoints requests reuse untouched breakpoints
// instead of deleting and reinserting everything every time.
package breakpoint

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/eclipse-cdt-cloud/cdt-gdb-adapter-sub002/internal/mi"
)

// Desired is one breakpoint the client wants set.
type Desired struct {
	File          string
	Line          int
	FuncName      string // set for function breakpoints; File/Line unused then
	Condition     string
	HitCondition  string
}

// PlanEntry pairs a desired breakpoint with the current gdb row it can
// reuse, if any.
type PlanEntry struct {
	Desired        Desired
	MatchedCurrent *mi.Breakpoint
}

// Plan is the reconcile result: entries to keep-or-insert, plus numbers
// of current breakpoints that have no desired counterpart and must be
// deleted.
type Plan struct {
	Entries []PlanEntry
	Deletes []string
}

// MatchFunc decides whether a current gdb breakpoint satisfies a desired
// one. Source and function reconciliation use different predicates
// (SourceMatch, FunctionMatch below); both only run after
// RelevantSourceRows or RelevantFunctionRows has filtered the gdb table to
// the entries that belong to this reconcile.
type MatchFunc func(d Desired, cur mi.Breakpoint) bool

// Reconcile aligns desired against current using match, consuming each
// current entry at most once. Per spec §4.5: plan[i] pairs desired[i]
// with the first unconsumed current[j] satisfying match; any current
// entry left unconsumed is scheduled for deletion.
func Reconcile(desired []Desired, current []mi.Breakpoint, match MatchFunc) Plan {
	used := make([]bool, len(current))
	var plan Plan
	for _, d := range desired {
		entry := PlanEntry{Desired: d}
		for j := range current {
			if used[j] {
				continue
			}
			if match(d, current[j]) {
				used[j] = true
				cur := current[j]
				entry.MatchedCurrent = &cur
				break
			}
		}
		plan.Entries = append(plan.Entries, entry)
	}
	for j, u := range used {
		if !u {
			plan.Deletes = append(plan.Deletes, current[j].Number)
		}
	}
	return plan
}

// IsChildRow reports whether number belongs to a multi-location child
// breakpoint ("N.M"), which reconciliation must ignore.
func IsChildRow(number string) bool {
	return strings.Contains(number, ".")
}

// RelevantSourceRows filters current to rows belonging to file, dropping
// child rows and anything whose original-location doesn't carry the
// per-file "-source {file} -line" prefix (i.e. function breakpoints).
func RelevantSourceRows(current []mi.Breakpoint, file string) []mi.Breakpoint {
	prefix := fmt.Sprintf("-source %s -line", file)
	var out []mi.Breakpoint
	for _, bp := range current {
		if IsChildRow(bp.Number) {
			continue
		}
		if !strings.HasPrefix(bp.OriginalLocation, prefix) {
			continue
		}
		out = append(out, bp)
	}
	return out
}

// RelevantFunctionRows filters current to function breakpoints (anything
// not matching the per-file source prefix scheme and not a child row).
func RelevantFunctionRows(current []mi.Breakpoint) []mi.Breakpoint {
	var out []mi.Breakpoint
	for _, bp := range current {
		if IsChildRow(bp.Number) {
			continue
		}
		if strings.HasPrefix(bp.OriginalLocation, "-source ") {
			continue
		}
		out = append(out, bp)
	}
	return out
}

// SourceMatch implements spec §4.5's source-breakpoint match predicate.
// Hit conditions always force reinsert (ignore-count state can't be
// reliably introspected from the breakpoint table), so a desired entry
// with a HitCondition never matches an existing row.
func SourceMatch(d Desired, cur mi.Breakpoint) bool {
	if d.HitCondition != "" {
		return false
	}
	want := fmt.Sprintf("-source %s -line %d", d.File, d.Line)
	if cur.OriginalLocation != want {
		return false
	}
	return d.Condition == cur.Cond
}

// FunctionMatch is the function-breakpoint analogue of SourceMatch.
func FunctionMatch(d Desired, cur mi.Breakpoint) bool {
	if d.HitCondition != "" {
		return false
	}
	if cur.Func != d.FuncName && cur.OriginalLocation != d.FuncName {
		return false
	}
	return d.Condition == cur.Cond
}

// HitConditionEncoding is the {ignoreCount, temporary} pair a desired
// hitCondition compiles to.
type HitConditionEncoding struct {
	IgnoreCount int
	Temporary   bool
}

// EncodeHitCondition parses spec §4.5's hit-condition grammar: a leading
// ">" keeps honoring hits after the threshold (ignore-count = N, not
// one-shot); anything else is a one-shot stop at exactly N hits
// (ignore-count = N-1, temporary).
func EncodeHitCondition(hitCondition string) (HitConditionEncoding, error) {
	trimmed := strings.TrimSpace(hitCondition)
	if strings.HasPrefix(trimmed, ">") {
		n, err := strconv.Atoi(strings.TrimSpace(trimmed[1:]))
		if err != nil {
			return HitConditionEncoding{}, fmt.Errorf("breakpoint: invalid hit condition %q: %w", hitCondition, err)
		}
		return HitConditionEncoding{IgnoreCount: n, Temporary: false}, nil
	}
	n, err := strconv.Atoi(trimmed)
	if err != nil {
		return HitConditionEncoding{}, fmt.Errorf("breakpoint: invalid hit condition %q: %w", hitCondition, err)
	}
	return HitConditionEncoding{IgnoreCount: n - 1, Temporary: true}, nil
}

// AppliedEntry is one row of the apply-order result: either reuse of a
// matched current breakpoint, or the outcome of a fresh insert attempt.
type AppliedEntry struct {
	Desired  Desired
	Result   mi.Breakpoint
	Verified bool
	Error    string
}

// Apply executes plan against cmd: deletes first (so hardware breakpoint
// slots free up before new ones are requested), then inserts, in desired
// order. A failed insert is recorded with Verified=false and the MI error
// message rather than aborting the batch (spec §4.5 "Apply order").
func Apply(cmd mi.Commander, plan Plan, insertOpts func(d Desired) mi.BreakInsertOptions) ([]AppliedEntry, error) {
	if len(plan.Deletes) > 0 {
		if err := mi.BreakDelete(cmd, plan.Deletes...); err != nil {
			return nil, err
		}
	}

	out := make([]AppliedEntry, 0, len(plan.Entries))
	for _, entry := range plan.Entries {
		if entry.MatchedCurrent != nil {
			out = append(out, AppliedEntry{Desired: entry.Desired, Result: *entry.MatchedCurrent, Verified: true})
			continue
		}
		res, err := mi.BreakInsert(cmd, insertOpts(entry.Desired))
		if err != nil {
			out = append(out, AppliedEntry{Desired: entry.Desired, Verified: false, Error: err.Error()})
			continue
		}
		out = append(out, AppliedEntry{Desired: entry.Desired, Result: res.Primary, Verified: true})
	}
	return out, nil
}
