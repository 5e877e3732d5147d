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

package adapter

import "fmt"

// ProtocolViolation marks a DAP-side misuse: a required argument missing,
// a malformed custom-request payload, a request issued in the wrong
// run-state. Always reported as a DAP error response, never fatal to the
// session (spec §7, kind 5).
type ProtocolViolation struct {
	Request string
	Detail  string
}

func (e *ProtocolViolation) Error() string {
	return fmt.Sprintf("adapter: %s: %s", e.Request, e.Detail)
}
