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

// Package adapterlog is the ambient tracing layer (spec's "Out of
// scope... logging setup" is about configuring this package, not about
// doing without one): a VerboseFlag-gated println/printf pair, colored
// the way the teacher colors its gdb/ide traffic trace.
package adapterlog

import (
	"fmt"
	"log"
	"os"
	"runtime/debug"

	"github.com/fatih/color"
)

// VerboseFlag gates Verbose*; set from the --verbose / verbose config key
// before the session starts.
var VerboseFlag bool

// ShowGdbNotifications gates Notification tracing independently of
// VerboseFlag, mirroring the teacher's separate --gdb-notify switch.
var ShowGdbNotifications bool

// out is where every trace line in this package goes. It defaults to
// stderr rather than the teacher's stdout: stdout here carries the DAP
// wire protocol, so writing traces to it would corrupt the stream that
// Serve is reading/writing over stdio.
var out = os.Stderr

// Init points trace output at logFile when set, otherwise leaves it on
// stderr. Call once at startup, before Serve.
func Init(logFile string) error {
	if logFile == "" {
		return nil
	}
	f, err := os.OpenFile(logFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return fmt.Errorf("adapterlog: opening log file: %w", err)
	}
	out = f
	color.NoColor = true
	return nil
}

func Verboseln(a ...interface{}) {
	if VerboseFlag {
		fmt.Fprintln(out, a...)
	}
}

func Verbosef(format string, a ...interface{}) {
	if VerboseFlag {
		fmt.Fprintf(out, format, a...)
	}
}

// ToGdb traces an outgoing MI command.
func ToGdb(command string) {
	if VerboseFlag {
		fmt.Fprintln(out, color.GreenString("adapter -> gdb: %v", command))
	}
}

// FromGdb traces an incoming MI record.
func FromGdb(text string) {
	if VerboseFlag {
		fmt.Fprintln(out, color.CyanString("gdb -> adapter: %v", text))
	}
}

// Notification traces a notify-async record when ShowGdbNotifications or
// VerboseFlag is on.
func Notification(class string, text string) {
	if VerboseFlag || ShowGdbNotifications {
		fmt.Fprintln(out, color.YellowString("gdb notification: %v %v", class, text))
	}
}

// Warn surfaces a non-fatal diagnostic (parser recoveries, unknown
// notification classes, failed optional negotiation).
func Warn(format string, a ...interface{}) {
	fmt.Fprintln(out, color.YellowString("adapter: "+format, a...))
}

// PanicIf panics with a stack trace on an unexpected internal error; used
// only where the caller has already exhausted recoverable handling
// (mirrors the teacher's panicIf for truly-should-not-happen paths).
func PanicIf(err error) {
	if err != nil {
		panic(fmt.Sprintf("adapter: \x1b[101mpanic:\x1b[0m %v\n%s\n", err, debug.Stack()))
	}
}

// FatalIf logs and exits the process; reserved for startup-time errors
// (bad config, gdb not found) before any DAP session exists to report to.
func FatalIf(err error) {
	if err != nil {
		log.SetOutput(os.Stderr)
		log.Fatalf("adapter: fatal: %v\n", err)
	}
}
