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

// Package consolehost implements mi.ConsoleHost by opening a PTY pair and
// wiring gdb's MI stream to the slave side via `-ex "new-ui mi2 {pts}"`,
// so a user-visible gdb console can share the client's terminal (spec §1
// "openGdbConsole... treated as an external collaborator").
package consolehost

import (
	"fmt"
	"io"

	"github.com/kr/pty"

	"github.com/eclipse-cdt-cloud/cdt-gdb-adapter-sub002/internal/mi"
)

// PTYHost is the default, OS-backed mi.ConsoleHost.
type PTYHost struct{}

var _ mi.ConsoleHost = PTYHost{}

// Open allocates a PTY pair. The returned rw is the master end, which the
// Backend binds its MI reader/writer to; extraArgs prepends the new-ui
// flag pointing gdb's MI output at the slave's device path.
func (PTYHost) Open() (io.ReadWriteCloser, []string, func(), error) {
	master, slave, err := pty.Open()
	if err != nil {
		return nil, nil, nil, fmt.Errorf("consolehost: failed to open pty: %w", err)
	}
	extra := []string{"-ex", fmt.Sprintf("new-ui mi2 %s", slave.Name())}
	cleanup := func() { slave.Close() }
	return master, extra, cleanup, nil
}
