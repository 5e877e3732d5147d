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

package mi

import "fmt"

// MIError wraps a gdb ^error,msg=... result. Never fatal: the caller
// surfaces it as a DAP error response and the session continues.
type MIError struct {
	Command string
	Message string
}

func (e *MIError) Error() string {
	return fmt.Sprintf("mi: %s: %s", e.Command, e.Message)
}

// MIProtocolError marks a parser failure or a result class the caller did
// not expect (anything other than done/running/connected/exit/error).
type MIProtocolError struct {
	Command string
	Detail  string
}

func (e *MIProtocolError) Error() string {
	return fmt.Sprintf("mi: protocol error on %s: %s", e.Command, e.Detail)
}

// DisconnectedError is returned for any command submitted after gdb has
// exited. Once set, every subsequent command on the Backend fails the
// same way.
type DisconnectedError struct {
	Command string
}

func (e *DisconnectedError) Error() string {
	return fmt.Sprintf("mi: %s: gdb is no longer running", e.Command)
}

// SpawnError reports that gdb could not be launched, or came up without
// usable stdin/stdout. Fatal to the session that attempted it.
type SpawnError struct {
	Path string
	Err  error
}

func (e *SpawnError) Error() string {
	return fmt.Sprintf("mi: failed to spawn %s: %v", e.Path, e.Err)
}

func (e *SpawnError) Unwrap() error { return e.Err }
