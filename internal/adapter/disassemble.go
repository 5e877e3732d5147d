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

import (
	"fmt"
	"strings"

	"github.com/google/go-dap"

	"github.com/eclipse-cdt-cloud/cdt-gdb-adapter-sub002/internal/mi"
)

// onDisassemble implements spec §4.6's disassembly fetch loop: accumulate
// instructions chunk by chunk until instructionCount is satisfied or
// progress stalls.
func (s *Server) onDisassemble(req *dap.DisassembleRequest) {
	want := req.Arguments.InstructionCount
	start := req.Arguments.MemoryReference

	// go-dap's DisassembleArguments carries no endMemoryReference field
	// (it is not part of the standard DAP schema); every chunk's upper
	// bound is estimated from the instructions still wanted.
	var out []dap.DisassembledInstruction
	for len(out) < want {
		chunkEnd := fmt.Sprintf("%s + %d", start, estimateChunkBytes(want-len(out)))

		groups, err := mi.DataDisassemble(s.backend, start, chunkEnd)
		if err != nil {
			out = append(out, placeholderInstructions(want-len(out), err.Error())...)
			break
		}

		progressed := false
		nextStart := start
		for _, g := range groups {
			for _, ins := range g.Instructions {
				out = append(out, dap.DisassembledInstruction{
					Address:     ins.Address,
					Instruction: ins.Inst,
					Symbol:      ins.FuncName,
				})
				// Advance past this instruction, not onto it: gdb's opcode
				// hex string is two digits per byte (spec §4.6 "byte
				// progress by summing opcode-hex lengths").
				if n := opcodeByteLen(ins.Opcodes); n > 0 {
					nextStart = fmt.Sprintf("%s + %d", ins.Address, n)
					progressed = true
				}
				if len(out) >= want {
					break
				}
			}
			if len(out) >= want {
				break
			}
		}
		start = nextStart

		if !progressed {
			out = append(out, placeholderInstructions(want-len(out), "disassembly did not progress")...)
			break
		}
	}

	resp := &dap.DisassembleResponse{}
	resp.Response = *newResponse(req.Seq, req.Command)
	resp.Body.Instructions = out
	s.send(resp)
}

// opcodeByteLen returns the byte length encoded by an MI "opcodes" hex
// string (two hex digits per byte); gdb may space-separate the byte
// pairs, so whitespace is stripped before halving the digit count.
func opcodeByteLen(opcodes string) int {
	cleaned := strings.ReplaceAll(opcodes, " ", "")
	return len(cleaned) / 2
}

// estimateChunkBytes picks a byte-range big enough to plausibly cover n
// more instructions; gdb trims to what is actually available.
func estimateChunkBytes(n int) int {
	const avgInstructionBytes = 16
	return n * avgInstructionBytes
}

func placeholderInstructions(n int, errMsg string) []dap.DisassembledInstruction {
	out := make([]dap.DisassembledInstruction, n)
	for i := range out {
		out[i] = dap.DisassembledInstruction{Instruction: "<error: " + errMsg + ">"}
	}
	return out
}
