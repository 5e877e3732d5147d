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

import (
	"regexp"
	"strings"

	"github.com/Masterminds/semver"
)

// gdbVersionLine extracts the dotted-decimal version from the first line
// of `gdb --version`, e.g. "GNU gdb (Ubuntu 12.1-0ubuntu1~22.04) 12.1" -> "12.1".
var gdbVersionLine = regexp.MustCompile(`(\d+(?:\.\d+)*)`)

// ParseGdbVersion extracts the dotted-decimal version number from a
// `gdb --version` first line.
func ParseGdbVersion(firstLine string) string {
	m := gdbVersionLine.FindString(firstLine)
	return m
}

// atLeastPad normalizes a dotted-decimal version string to exactly three
// components so github.com/Masterminds/semver (which requires major.minor.patch)
// can compare versions like "7.8" or "8" that gdb reports without a patch level.
func atLeastPad(v string) string {
	parts := strings.Split(v, ".")
	for len(parts) < 3 {
		parts = append(parts, "0")
	}
	if len(parts) > 3 {
		parts = parts[:3]
	}
	return strings.Join(parts, ".")
}

// GdbVersionAtLeast reports whether version v is >= want, comparing
// dotted-decimal components; missing trailing components compare as zero.
// Malformed input is treated conservatively as "not at least".
func GdbVersionAtLeast(v, want string) bool {
	a, err := semver.NewVersion(atLeastPad(v))
	if err != nil {
		return false
	}
	b, err := semver.NewVersion(atLeastPad(want))
	if err != nil {
		return false
	}
	return !a.LessThan(b)
}
