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
	"encoding/hex"
	"fmt"
	"strings"
)

// Flag identifies a single bit of the processor flags register.
type Flag uint8

// The status and control flags tracked by the decoder.
const (
	CF Flag = iota
	PF
	AF
	ZF
	SF
	TF
	IF
	DF
	OF
	// NumFlags is the number of tracked flags.
	NumFlags
)

var flagNames = [NumFlags]string{"cf", "pf", "af", "zf", "sf", "tf", "if", "df", "of"}

func (f Flag) String() string {
	if f < NumFlags {
		return flagNames[f]
	}
	//
	return "?"
}

// FlagAction describes what an instruction does to a given flag.
type FlagAction uint8

const (
	// FLAG_NONE indicates the flag is untouched.
	FLAG_NONE FlagAction = iota
	// FLAG_TESTED indicates the flag is read only.
	FLAG_TESTED
	// FLAG_TESTED_MODIFIED indicates the flag is read and then written.
	FLAG_TESTED_MODIFIED
	// FLAG_MODIFIED indicates the flag is written according to the result.
	FLAG_MODIFIED
	// FLAG_SET0 indicates the flag is cleared.
	FLAG_SET0
	// FLAG_SET1 indicates the flag is set.
	FLAG_SET1
	// FLAG_UNDEFINED indicates the flag is left in an undefined state.
	FLAG_UNDEFINED
)

// Tests determines whether this action reads the flag.
func (a FlagAction) Tests() bool {
	return a == FLAG_TESTED || a == FLAG_TESTED_MODIFIED
}

// Modifies determines whether this action changes the flag in any way.
func (a FlagAction) Modifies() bool {
	return a >= FLAG_TESTED_MODIFIED
}

func (a FlagAction) String() string {
	switch a {
	case FLAG_TESTED:
		return "t"
	case FLAG_TESTED_MODIFIED:
		return "tm"
	case FLAG_MODIFIED:
		return "m"
	case FLAG_SET0:
		return "0"
	case FLAG_SET1:
		return "1"
	case FLAG_UNDEFINED:
		return "u"
	default:
		return "-"
	}
}

// FlagEffects records the action of an instruction on each flag.
type FlagEffects [NumFlags]FlagAction

// Tested determines whether any flag is read.
func (p *FlagEffects) Tested() bool {
	for _, a := range p {
		if a.Tests() {
			return true
		}
	}
	//
	return false
}

// Modified determines whether any flag is changed.
func (p *FlagEffects) Modified() bool {
	for _, a := range p {
		if a.Modifies() {
			return true
		}
	}
	//
	return false
}

func (p *FlagEffects) String() string {
	var parts []string
	//
	for f, a := range p {
		if a != FLAG_NONE {
			parts = append(parts, fmt.Sprintf("%s:%s", Flag(f), a))
		}
	}
	//
	return strings.Join(parts, " ")
}

// Category is a coarse grouping of instructions.  Only the distinction between
// calls and everything else matters for wrapper synthesis.
type Category uint8

const (
	// OTHER_CATEGORY covers any instruction without a more specific category.
	OTHER_CATEGORY Category = iota
	// CALL_CATEGORY covers near and far calls.
	CALL_CATEGORY
)

func (c Category) String() string {
	if c == CALL_CATEGORY {
		return "call"
	}
	//
	return "other"
}

// Dialect identifies an assembly syntax.
type Dialect uint8

const (
	// INTEL is the Intel syntax (destination first, no sigils).
	INTEL Dialect = iota
	// ATT is the AT&T (GNU) syntax (source first, "%" register prefix).
	ATT
)

func (d Dialect) String() string {
	if d == ATT {
		return "att"
	}
	//
	return "intel"
}

// Instruction is a fully decoded machine instruction, along with every operand
// it touches.
type Instruction struct {
	// Mnemonic in lower case (e.g. "add").
	Mnemonic string
	// Category of this instruction.
	Category Category
	// Mode is the processor mode (32 or 64) the bytes were decoded in.
	Mode uint
	// Bytes holds exactly the encoding of this instruction.
	Bytes []byte
	// Operands lists explicit operands (in text order) followed by implicit
	// and hidden operands.
	Operands []Operand
	// Flags records the effect on each flag.
	Flags FlagEffects
	// Relative is set when an operand is relative to the address of the
	// instruction (e.g. a branch target), in which case its text depends on
	// that address.
	Relative bool
}

// Explicit returns the explicit operands of this instruction, in text order.
func (p *Instruction) Explicit() []Operand {
	var ops []Operand
	//
	for _, op := range p.Operands {
		if op.Visibility.IsExplicit() {
			ops = append(ops, op)
		}
	}
	//
	return ops
}

// Hex returns the encoding of this instruction as a lower case hexadecimal
// string.
func (p *Instruction) Hex() string {
	return hex.EncodeToString(p.Bytes)
}

func (p *Instruction) String() string {
	var (
		builder strings.Builder
		ops     = make([]string, len(p.Operands))
	)
	//
	for i, op := range p.Operands {
		ops[i] = op.String()
	}
	//
	builder.WriteString(fmt.Sprintf("%s [%s] (%s)", p.Mnemonic, p.Hex(), strings.Join(ops, ", ")))
	//
	if flags := p.Flags.String(); flags != "" {
		builder.WriteString(" {")
		builder.WriteString(flags)
		builder.WriteString("}")
	}
	//
	return builder.String()
}
