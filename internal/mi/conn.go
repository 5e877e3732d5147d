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

import "io"

// conn is the byte-oriented duplex connection to a gdb child process: a
// line-oriented writer (outgoing MI commands) and a byte-stream reader
// (incoming MI output). It is satisfied by plain os/exec stdio pipes or by
// a PTY pair when hosting a user-visible gdb console (see
// internal/consolehost), per spec §1's "transport" layer.
type conn struct {
	io.Reader
	io.Writer
	io.Closer
}
