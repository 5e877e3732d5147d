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

// Package config decodes the launch/attach request arguments recognized
// on the "Configuration recognized on launch/attach" table (spec §6).
package config

import "encoding/json"

// LaunchArgs is decoded from the DAP launch request's Arguments payload.
type LaunchArgs struct {
	Gdb                string   `json:"gdb"`
	GdbArguments       []string `json:"gdbArguments"`
	GdbAsync           *bool    `json:"gdbAsync"`
	GdbNonStop         *bool    `json:"gdbNonStop"`
	Program            string   `json:"program"`
	Arguments          string   `json:"arguments"`
	InitCommands       []string `json:"initCommands"`
	HardwareBreakpoint bool     `json:"hardwareBreakpoint"`
	OpenGdbConsole     bool     `json:"openGdbConsole"`
	Verbose            bool     `json:"verbose"`
	LogFile            string   `json:"logFile"`
}

// AttachArgs is decoded from the DAP attach request's Arguments payload.
type AttachArgs struct {
	Gdb                string   `json:"gdb"`
	GdbArguments       []string `json:"gdbArguments"`
	GdbAsync           *bool    `json:"gdbAsync"`
	GdbNonStop         *bool    `json:"gdbNonStop"`
	Program            string   `json:"program"`
	ProcessID          string   `json:"processId"`
	InitCommands       []string `json:"initCommands"`
	HardwareBreakpoint bool     `json:"hardwareBreakpoint"`
	OpenGdbConsole     bool     `json:"openGdbConsole"`
	Verbose            bool     `json:"verbose"`
	LogFile            string   `json:"logFile"`
}

func defaultedGdbPath(p string) string {
	if p == "" {
		return "gdb"
	}
	return p
}

// ParseLaunchArgs decodes raw launch Arguments JSON, applying the
// documented defaults (gdb="gdb", async=true).
func ParseLaunchArgs(raw json.RawMessage) (LaunchArgs, error) {
	var args LaunchArgs
	if len(raw) > 0 {
		if err := json.Unmarshal(raw, &args); err != nil {
			return LaunchArgs{}, err
		}
	}
	args.Gdb = defaultedGdbPath(args.Gdb)
	return args, nil
}

// ParseAttachArgs decodes raw attach Arguments JSON with the same
// defaults as ParseLaunchArgs.
func ParseAttachArgs(raw json.RawMessage) (AttachArgs, error) {
	var args AttachArgs
	if len(raw) > 0 {
		if err := json.Unmarshal(raw, &args); err != nil {
			return AttachArgs{}, err
		}
	}
	args.Gdb = defaultedGdbPath(args.Gdb)
	return args, nil
}

// EffectiveAsync resolves the gdbAsync tri-state to the Spawn-time bool
// pointer contract: nil propagates "use the backend's default" (true).
func (a LaunchArgs) EffectiveAsync() *bool { return a.GdbAsync }

// EffectiveNonStop resolves gdbNonStop, defaulting to false.
func (a LaunchArgs) EffectiveNonStop() *bool { return a.GdbNonStop }

func (a AttachArgs) EffectiveAsync() *bool   { return a.GdbAsync }
func (a AttachArgs) EffectiveNonStop() *bool { return a.GdbNonStop }
