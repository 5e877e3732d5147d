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

import "strings"

// StandardEscape applies the MI command-argument escaping rule: backslash
// and double-quote are each prefixed with a backslash, and the result is
// wrapped in double quotes if it contains a space or forceQuotes is set.
func StandardEscape(s string, forceQuotes bool) string {
	escaped := strings.NewReplacer(`\`, `\\`, `"`, `\"`).Replace(s)
	if forceQuotes || strings.ContainsRune(s, ' ') {
		return `"` + escaped + `"`
	}
	return escaped
}
