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

// This file hosts the MI command helpers called out in spec §4.3: thin,
// stateless wrappers that format one `-command` with its flag syntax and
// type the expected response shape. None of them hold state beyond the
// Commander passed in.
package mi

import (
	"fmt"
	"strconv"
	"strings"
)

// Commander is the subset of *Backend the command helpers need, so they
// can be tested against a fake.
type Commander interface {
	SendCommand(command string) (Value, error)
}

// optThread/optFrame implement the rule that --thread/--frame are omitted
// when the id is undefined or negative (treated as "current"/"all").
func optThread(threadID int, has bool) string {
	if !has || threadID < 0 {
		return ""
	}
	return fmt.Sprintf(" --thread %d", threadID)
}

func optFrame(frameID int, has bool) string {
	if !has || frameID < 0 {
		return ""
	}
	return fmt.Sprintf(" --frame %d", frameID)
}

func quote(s string) string {
	return StandardEscape(s, true)
}

// --- exec-* ---------------------------------------------------------------

func ExecArguments(c Commander, args string) error {
	_, err := c.SendCommand("-exec-arguments " + args)
	return err
}

func ExecRun(c Commander, startInsideMain bool) error {
	cmd := "-exec-run"
	if startInsideMain {
		cmd += " --start"
	}
	_, err := c.SendCommand(cmd)
	return err
}

func ExecContinue(c Commander, threadID int, hasThread, reverse bool) error {
	cmd := "-exec-continue" + optThread(threadID, hasThread)
	if reverse {
		cmd += " --reverse"
	}
	_, err := c.SendCommand(cmd)
	return err
}

func ExecNext(c Commander, threadID int, hasThread bool) error {
	_, err := c.SendCommand("-exec-next" + optThread(threadID, hasThread))
	return err
}

func ExecNextInstruction(c Commander, threadID int, hasThread bool) error {
	_, err := c.SendCommand("-exec-next-instruction" + optThread(threadID, hasThread))
	return err
}

func ExecStep(c Commander, threadID int, hasThread bool) error {
	_, err := c.SendCommand("-exec-step" + optThread(threadID, hasThread))
	return err
}

func ExecStepInstruction(c Commander, threadID int, hasThread bool) error {
	_, err := c.SendCommand("-exec-step-instruction" + optThread(threadID, hasThread))
	return err
}

func ExecFinish(c Commander, threadID int, hasThread bool) error {
	_, err := c.SendCommand("-exec-finish" + optThread(threadID, hasThread))
	return err
}

func ExecInterrupt(c Commander, threadID int, hasThread, all bool) error {
	cmd := "-exec-interrupt"
	if all {
		cmd += " --all"
	} else {
		cmd += optThread(threadID, hasThread)
	}
	_, err := c.SendCommand(cmd)
	return err
}

// --- break-* ----------------------------------------------------------------

// Breakpoint mirrors the gdb breakpoint-record fields named in spec §3.
type Breakpoint struct {
	Number           string
	Type             string
	Disp             string
	Enabled          bool
	Addr             string
	Func             string
	File             string
	Fullname         string
	Line             int
	Times            int
	OriginalLocation string
	Cond             string
	ThreadGroups     []string
}

func breakpointFromValue(v Value) Breakpoint {
	line, _ := strconv.Atoi(v.FieldString("line"))
	times, _ := strconv.Atoi(v.FieldString("times"))
	bp := Breakpoint{
		Number:           v.FieldString("number"),
		Type:             v.FieldString("type"),
		Disp:             v.FieldString("disp"),
		Enabled:          v.FieldString("enabled") == "y",
		Addr:             v.FieldString("addr"),
		Func:             v.FieldString("func"),
		File:             v.FieldString("file"),
		Fullname:         v.FieldString("fullname"),
		Line:             line,
		Times:            times,
		OriginalLocation: v.FieldString("original-location"),
		Cond:             v.FieldString("cond"),
	}
	if tg, ok := v.Field("thread-groups"); ok {
		for _, item := range tg.Items() {
			bp.ThreadGroups = append(bp.ThreadGroups, item.String())
		}
	}
	return bp
}

// BreakInsertOptions configures -break-insert.
type BreakInsertOptions struct {
	Temporary    bool // -t
	Hardware     bool // -h
	Disabled     bool // -d
	Force        bool // -f
	IgnoreCount  *int // -i N
	Condition    string

	// Location: either a source:line (version-gated --source/--line on
	// newer gdb, "file:line" form otherwise) or, for function
	// breakpoints, a bare function name / --function.
	Function   bool
	File       string
	Line       int
	FuncName   string
	UseSourceLineFlags bool // selects --source/--line over "file:line"
}

// BreakInsertResult normalizes gdb's single-tuple-or-array response shape
// (spec §4.3 "Breakpoint-insert response normalization").
type BreakInsertResult struct {
	Primary Breakpoint
	Extras  []Breakpoint
}

func BreakInsert(c Commander, opts BreakInsertOptions) (BreakInsertResult, error) {
	var b strings.Builder
	b.WriteString("-break-insert")
	if opts.Temporary {
		b.WriteString(" -t")
	}
	if opts.Hardware {
		b.WriteString(" -h")
	}
	if opts.Disabled {
		b.WriteString(" -d")
	}
	if opts.Force {
		b.WriteString(" -f")
	}
	if opts.IgnoreCount != nil {
		fmt.Fprintf(&b, " -i %d", *opts.IgnoreCount)
	}
	if opts.Condition != "" {
		fmt.Fprintf(&b, " -c %s", quote(opts.Condition))
	}

	switch {
	case opts.Function:
		if opts.FuncName != "" {
			fmt.Fprintf(&b, " --function %s", quote(opts.FuncName))
		}
	case opts.UseSourceLineFlags:
		fmt.Fprintf(&b, " --source %s --line %d", quote(opts.File), opts.Line)
	default:
		fmt.Fprintf(&b, " %s", quote(fmt.Sprintf("%s:%d", opts.File, opts.Line)))
	}

	v, err := c.SendCommand(b.String())
	if err != nil {
		return BreakInsertResult{}, err
	}
	return normalizeBreakInsert(v), nil
}

func normalizeBreakInsert(v Value) BreakInsertResult {
	if list, ok := v.Field("bkpt"); ok && list.Kind == ValueList {
		items := list.Items()
		if len(items) == 0 {
			return BreakInsertResult{}
		}
		res := BreakInsertResult{Primary: breakpointFromValue(items[0])}
		for _, it := range items[1:] {
			res.Extras = append(res.Extras, breakpointFromValue(it))
		}
		return res
	}
	if single, ok := v.Field("bkpt"); ok {
		return BreakInsertResult{Primary: breakpointFromValue(single)}
	}
	return BreakInsertResult{}
}

func BreakDelete(c Commander, numbers ...string) error {
	_, err := c.SendCommand("-break-delete " + strings.Join(numbers, " "))
	return err
}

func BreakCondition(c Commander, number, condition string) error {
	_, err := c.SendCommand(fmt.Sprintf("-break-condition %s %s", number, quote(condition)))
	return err
}

func BreakList(c Commander) ([]Breakpoint, error) {
	v, err := c.SendCommand("-break-list")
	if err != nil {
		return nil, err
	}
	table, ok := v.Field("BreakpointTable")
	if !ok {
		return nil, nil
	}
	body, ok := table.Field("body")
	if !ok {
		return nil, nil
	}
	var out []Breakpoint
	for _, item := range body.Items() {
		if bp, ok := item.Field("bkpt"); ok {
			out = append(out, breakpointFromValue(bp))
			continue
		}
		out = append(out, breakpointFromValue(item))
	}
	return out, nil
}

// --- target-* ---------------------------------------------------------------

func TargetAttach(c Commander, pid string) error {
	_, err := c.SendCommand("-target-attach " + pid)
	return err
}

func TargetSelect(c Commander, kind, params string) error {
	_, err := c.SendCommand(fmt.Sprintf("-target-select %s %s", kind, params))
	return err
}

// --- thread-* ----------------------------------------------------------------

type ThreadInfo struct {
	ID      string
	Name    string
	State   string
}

func ThreadInfoList(c Commander) ([]ThreadInfo, string, error) {
	v, err := c.SendCommand("-thread-info")
	if err != nil {
		return nil, "", err
	}
	current := v.FieldString("current-thread-id")
	threads, _ := v.Field("threads")
	var out []ThreadInfo
	for _, item := range threads.Items() {
		out = append(out, ThreadInfo{
			ID:    item.FieldString("id"),
			Name:  item.FieldString("name"),
			State: item.FieldString("state"),
		})
	}
	return out, current, nil
}

// --- stack-* -----------------------------------------------------------------

func StackInfoDepth(c Commander, threadID int, hasThread bool) (int, error) {
	v, err := c.SendCommand("-stack-info-depth" + optThread(threadID, hasThread))
	if err != nil {
		return 0, err
	}
	depth, _ := strconv.Atoi(v.FieldString("depth"))
	return depth, nil
}

type Frame struct {
	Level    int
	Addr     string
	Func     string
	File     string
	Fullname string
	Line     int
}

func frameFromValue(v Value) Frame {
	level, _ := strconv.Atoi(v.FieldString("level"))
	line, _ := strconv.Atoi(v.FieldString("line"))
	return Frame{
		Level:    level,
		Addr:     v.FieldString("addr"),
		Func:     v.FieldString("func"),
		File:     v.FieldString("file"),
		Fullname: v.FieldString("fullname"),
		Line:     line,
	}
}

func StackListFrames(c Commander, threadID int, hasThread bool) ([]Frame, error) {
	v, err := c.SendCommand("-stack-list-frames" + optThread(threadID, hasThread))
	if err != nil {
		return nil, err
	}
	stack, _ := v.Field("stack")
	var out []Frame
	for _, item := range stack.Items() {
		if f, ok := item.Field("frame"); ok {
			out = append(out, frameFromValue(f))
			continue
		}
		out = append(out, frameFromValue(item))
	}
	return out, nil
}

func StackSelectFrame(c Commander, frameID int) error {
	_, err := c.SendCommand(fmt.Sprintf("-stack-select-frame %d", frameID))
	return err
}

type StackVariable struct {
	Name  string
	Value string
}

func StackListVariables(c Commander, threadID, frameID int, hasThread, hasFrame bool, simpleValues bool) ([]StackVariable, error) {
	printValues := "--no-values"
	if simpleValues {
		printValues = "--simple-values"
	}
	cmd := fmt.Sprintf("-stack-list-variables%s%s %s", optThread(threadID, hasThread), optFrame(frameID, hasFrame), printValues)
	v, err := c.SendCommand(cmd)
	if err != nil {
		return nil, err
	}
	vars, _ := v.Field("variables")
	var out []StackVariable
	for _, item := range vars.Items() {
		out = append(out, StackVariable{Name: item.FieldString("name"), Value: item.FieldString("value")})
	}
	return out, nil
}

// --- data-* ------------------------------------------------------------------

type Memory struct {
	Begin    string
	End      string
	Offset   string
	Contents string
}

func DataReadMemoryBytes(c Commander, address string, offset, size int) (Memory, error) {
	cmd := fmt.Sprintf("-data-read-memory-bytes -o %d %s %d", offset, quote(address), size)
	v, err := c.SendCommand(cmd)
	if err != nil {
		return Memory{}, err
	}
	list, _ := v.Field("memory")
	items := list.Items()
	if len(items) == 0 {
		return Memory{}, fmt.Errorf("mi: empty memory response")
	}
	m := items[0]
	return Memory{
		Begin:    m.FieldString("begin"),
		End:      m.FieldString("end"),
		Offset:   m.FieldString("offset"),
		Contents: m.FieldString("contents"),
	}, nil
}

func DataEvaluateExpression(c Commander, threadID, frameID int, hasThread, hasFrame bool, expr string) (string, error) {
	cmd := fmt.Sprintf("-data-evaluate-expression%s%s %s", optThread(threadID, hasThread), optFrame(frameID, hasFrame), quote(expr))
	v, err := c.SendCommand(cmd)
	if err != nil {
		return "", err
	}
	return v.FieldString("value"), nil
}

// Instruction is one disassembled line. DataDisassemble never sets Error;
// placeholder rows for a failed chunk are built by the adapter as DAP
// instructions instead.
type Instruction struct {
	Address     string
	FuncName    string
	Offset      int
	Inst        string
	Opcodes     string
	Error       string
}

// SourceAsmGroup is one source-line + instruction-list group. Source
// fields are empty for the mode-2 bare-instruction fallback, which
// BreakInsert-style normalization folds into a single group with an
// empty header (spec §4.3 "Disassembly response normalization").
type SourceAsmGroup struct {
	File string
	Line int
	Instructions []Instruction
}

func instructionFromValue(v Value) Instruction {
	offset, _ := strconv.Atoi(v.FieldString("offset"))
	funcName := v.FieldString("func-name")
	if funcName == "" {
		funcName = v.FieldString("func_name")
	}
	return Instruction{
		Address:  v.FieldString("address"),
		FuncName: funcName,
		Offset:   offset,
		Inst:     v.FieldString("inst"),
		Opcodes:  v.FieldString("opcodes"),
	}
}

// DataDisassemble issues `-data-disassemble -s start -e end -- 5` (source
// + asm + raw opcodes) and normalizes gdb's two possible response shapes.
func DataDisassemble(c Commander, start, end string) ([]SourceAsmGroup, error) {
	cmd := fmt.Sprintf("-data-disassemble -s %s -e %s -- 5", quote(start), quote(end))
	v, err := c.SendCommand(cmd)
	if err != nil {
		return nil, err
	}

	if asmList, ok := v.Field("asm_insns"); ok {
		items := asmList.Items()
		if len(items) > 0 {
			if _, isGroup := items[0].Field("line"); isGroup {
				var groups []SourceAsmGroup
				for _, g := range items {
					line, _ := strconv.Atoi(g.FieldString("line"))
					group := SourceAsmGroup{File: g.FieldString("file"), Line: line}
					if insns, ok := g.Field("line_asm_insn"); ok {
						for _, ins := range insns.Items() {
							group.Instructions = append(group.Instructions, instructionFromValue(ins))
						}
					}
					groups = append(groups, group)
				}
				return groups, nil
			}
		}
		// Mode-2 fallback: bare instructions, no source grouping.
		group := SourceAsmGroup{}
		for _, ins := range items {
			group.Instructions = append(group.Instructions, instructionFromValue(ins))
		}
		return []SourceAsmGroup{group}, nil
	}

	return nil, nil
}

// --- symbol-info-* -----------------------------------------------------------

type SymbolInfoOptions struct {
	Name            string
	Type            string
	MaxResults      *int
	IncludeNonDebug bool
}

func (o SymbolInfoOptions) flags() string {
	var b strings.Builder
	if o.Name != "" {
		fmt.Fprintf(&b, " --name %s", quote(o.Name))
	}
	if o.Type != "" {
		fmt.Fprintf(&b, " --type %s", quote(o.Type))
	}
	if o.MaxResults != nil {
		fmt.Fprintf(&b, " --max-results %d", *o.MaxResults)
	}
	if o.IncludeNonDebug {
		b.WriteString(" --include-nondebug")
	}
	return b.String()
}

func SymbolInfoVariables(c Commander, opts SymbolInfoOptions) (Value, error) {
	return c.SendCommand("-symbol-info-variables" + opts.flags())
}

func SymbolInfoFunctions(c Commander, opts SymbolInfoOptions) (Value, error) {
	return c.SendCommand("-symbol-info-functions" + opts.flags())
}

// --- varobj family ------------------------------------------------------------

func VarCreate(c Commander, name, frame, expression string) (Value, error) {
	return c.SendCommand(fmt.Sprintf("-var-create %s %s %s", name, frame, quote(expression)))
}

func VarDelete(c Commander, name string, onlyChildren bool) error {
	cmd := "-var-delete "
	if onlyChildren {
		cmd += "-c "
	}
	cmd += name
	_, err := c.SendCommand(cmd)
	return err
}

func VarUpdate(c Commander, name string) (Value, error) {
	return c.SendCommand("-var-update --all-values " + name)
}

func VarListChildren(c Commander, name string) (Value, error) {
	return c.SendCommand("-var-list-children --all-values " + name)
}

func VarAssign(c Commander, name, expression string) error {
	_, err := c.SendCommand(fmt.Sprintf("-var-assign %s %s", name, quote(expression)))
	return err
}

func VarInfoPathExpression(c Commander, name string) (string, error) {
	v, err := c.SendCommand("-var-info-path-expression " + name)
	if err != nil {
		return "", err
	}
	return v.FieldString("path_expr"), nil
}

// --- misc ----------------------------------------------------------------

func GdbSet(c Commander, args string) error {
	_, err := c.SendCommand("-gdb-set " + args)
	return err
}

func GdbShow(c Commander, name string) (string, error) {
	v, err := c.SendCommand("-gdb-show " + name)
	if err != nil {
		return "", err
	}
	return v.FieldString("value"), nil
}

func GdbExit(c Commander) error {
	_, err := c.SendCommand("-gdb-exit")
	return err
}

func EnablePrettyPrinting(c Commander) error {
	_, err := c.SendCommand("-enable-pretty-printing")
	return err
}

func FileExecAndSymbols(c Commander, path string) error {
	_, err := c.SendCommand("-file-exec-and-symbols " + quote(path))
	return err
}

func FileSymbolFile(c Commander, path string) error {
	_, err := c.SendCommand("-file-symbol-file " + quote(path))
	return err
}

func AddSymbolFile(c Commander, path, addr string) error {
	_, err := c.SendCommand(fmt.Sprintf("add-symbol-file %s %s", quote(path), addr))
	return err
}

func Load(c Commander) error {
	_, err := c.SendCommand("load")
	return err
}
