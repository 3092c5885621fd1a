// Copyright Consensys Software Inc.
//
// Licensed under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with
// the License. You may obtain a copy of the License at
//
// http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on
// an "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied. See the License for the
// specific language governing permissions and limitations under the License.
//
// SPDX-License-Identifier: Apache-2.0
package insn

import (
	"fmt"
	"strings"

	"github.com/consensys/go-uilift/pkg/x86/register"
)

// Kind identifies what an operand refers to.
type Kind uint8

const (
	// REGISTER_OPERAND refers to a register.
	REGISTER_OPERAND Kind = iota
	// MEMORY_OPERAND refers to a memory location computed from a base and/or
	// index register.
	MEMORY_OPERAND
	// POINTER_OPERAND refers to a far pointer (segment:offset).
	POINTER_OPERAND
	// IMMEDIATE_OPERAND is a constant encoded in the instruction, including
	// relative branch targets.
	IMMEDIATE_OPERAND
)

// Visibility determines whether an operand is written in the instruction text
// or touched behind the scenes.
type Visibility uint8

const (
	// EXPLICIT operands appear in the operand list of the instruction.
	EXPLICIT Visibility = iota
	// IMPLICIT operands are fixed by the opcode, but are still part of the
	// instruction text in some syntaxes.
	IMPLICIT
	// HIDDEN operands never appear in the instruction text.
	HIDDEN
)

// IsExplicit determines whether this visibility is EXPLICIT.
func (v Visibility) IsExplicit() bool {
	return v == EXPLICIT
}

func (v Visibility) String() string {
	switch v {
	case EXPLICIT:
		return "explicit"
	case IMPLICIT:
		return "implicit"
	default:
		return "hidden"
	}
}

// Action is a bitset describing how an instruction accesses an operand.
type Action uint8

const (
	// READ indicates an operand is always read.
	READ Action = 1 << iota
	// WRITE indicates an operand is always written.
	WRITE
	// COND_READ indicates an operand is read under some condition.
	COND_READ
	// COND_WRITE indicates an operand is written under some condition.
	COND_WRITE
)

// Combinations of the basic actions which arise in practice.
const (
	NO_ACTION            Action = 0
	READ_WRITE                  = READ | WRITE
	COND_READ_WRITE             = COND_READ | WRITE
	READ_COND_WRITE             = READ | COND_WRITE
	COND_READ_COND_WRITE        = COND_READ | COND_WRITE
)

// Reads determines whether this action (possibly) reads the operand.
// Conditional reads count as reads.
func (a Action) Reads() bool {
	return a&(READ|COND_READ) != 0
}

// Writes determines whether this action (possibly) writes the operand.
// Conditional writes count as writes.
func (a Action) Writes() bool {
	return a&(WRITE|COND_WRITE) != 0
}

func (a Action) String() string {
	var parts []string
	//
	switch {
	case a&READ != 0:
		parts = append(parts, "r")
	case a&COND_READ != 0:
		parts = append(parts, "cr")
	}
	//
	switch {
	case a&WRITE != 0:
		parts = append(parts, "w")
	case a&COND_WRITE != 0:
		parts = append(parts, "cw")
	}
	//
	if len(parts) == 0 {
		return "-"
	}
	//
	return strings.Join(parts, "")
}

// Memory describes the address computation of a memory operand.
type Memory struct {
	Segment register.Register
	Base    register.Register
	Index   register.Register
	Scale   uint8
	Disp    int64
}

// Operand describes one operand of a decoded instruction.
type Operand struct {
	Kind       Kind
	Visibility Visibility
	Action     Action
	// Register accessed (REGISTER_OPERAND only).
	Register register.Register
	// Address computation (MEMORY_OPERAND only).
	Memory Memory
	// Width of the operand in bits, where known.
	Width uint
}

// NewRegister constructs a register operand.
func NewRegister(reg register.Register, visibility Visibility, action Action) Operand {
	return Operand{Kind: REGISTER_OPERAND, Visibility: visibility, Action: action, Register: reg, Width: reg.Width()}
}

// NewMemory constructs a memory operand.
func NewMemory(mem Memory, width uint, visibility Visibility, action Action) Operand {
	return Operand{Kind: MEMORY_OPERAND, Visibility: visibility, Action: action, Memory: mem, Width: width}
}

// NewImmediate constructs an immediate operand, which is always explicit and
// read.
func NewImmediate(width uint) Operand {
	return Operand{Kind: IMMEDIATE_OPERAND, Visibility: EXPLICIT, Action: READ, Width: width}
}

func (p Operand) String() string {
	switch p.Kind {
	case REGISTER_OPERAND:
		return fmt.Sprintf("%s:%s:%s", p.Register, p.Visibility, p.Action)
	case MEMORY_OPERAND:
		return fmt.Sprintf("m%d[%s+%s*%d]:%s:%s", p.Width, p.Memory.Base, p.Memory.Index, p.Memory.Scale,
			p.Visibility, p.Action)
	case POINTER_OPERAND:
		return fmt.Sprintf("ptr:%s", p.Visibility)
	default:
		return fmt.Sprintf("imm%d", p.Width)
	}
}
