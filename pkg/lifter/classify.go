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
package lifter

import (
	"slices"

	"github.com/consensys/go-uilift/pkg/util/collection/set"
	"github.com/consensys/go-uilift/pkg/x86/insn"
	"github.com/consensys/go-uilift/pkg/x86/register"
)

// Clobber tokens understood by the inline assembler.
const (
	MEMORY_CLOBBER  = "~{memory}"
	FLAGS_CLOBBER   = "~{flags}"
	FPSR_CLOBBER    = "~{fpsr}"
	DIRFLAG_CLOBBER = "~{dirflag}"
)

// Registers is an ordered set of registers.  Iteration order is ascending
// register order, which fixes the position of each register in the operand
// plan.
type Registers = set.SortedSet[register.Register]

// Roles partitions the general purpose registers touched by an instruction
// according to whether they are written in the instruction text (explicit) or
// not (implicit), and how they are accessed.  The six sets are pairwise
// disjoint.
type Roles struct {
	ExplicitRead      *Registers
	ExplicitWrite     *Registers
	ExplicitReadWrite *Registers
	ImplicitRead      *Registers
	ImplicitWrite     *Registers
	ImplicitReadWrite *Registers
	// Non-register state modified by the instruction, in discovery order.
	Clobbers []string
}

// Classify the registers of a given instruction.
func Classify(inst *insn.Instruction) *Roles {
	roles := &Roles{
		set.NewSortedSet[register.Register](),
		set.NewSortedSet[register.Register](),
		set.NewSortedSet[register.Register](),
		set.NewSortedSet[register.Register](),
		set.NewSortedSet[register.Register](),
		set.NewSortedSet[register.Register](),
		nil,
	}
	//
	for _, op := range inst.Operands {
		switch op.Kind {
		case insn.REGISTER_OPERAND:
			roles.classify(op.Register, op.Visibility, op.Action)
		case insn.MEMORY_OPERAND:
			// Address registers are read, whatever happens to the memory.
			roles.classify(op.Memory.Base, op.Visibility, insn.READ)
			roles.classify(op.Memory.Index, op.Visibility, insn.READ)
		}
	}
	// Memory
	for _, op := range inst.Operands {
		if (op.Kind == insn.MEMORY_OPERAND || op.Kind == insn.POINTER_OPERAND) && !op.Visibility.IsExplicit() {
			roles.clobber(MEMORY_CLOBBER)
		}
	}
	// Flags
	for _, op := range inst.Operands {
		if op.Kind != insn.REGISTER_OPERAND || !op.Action.Writes() {
			continue
		}
		//
		switch op.Register.Class() {
		case register.CLASS_FLAGS:
			roles.clobber(FLAGS_CLOBBER)
		case register.CLASS_X87_STATUS:
			roles.clobber(FPSR_CLOBBER)
		}
	}
	// Direction flag
	if inst.Flags[insn.DF].Modifies() {
		roles.clobber(DIRFLAG_CLOBBER)
	}
	//
	roles.resolve()
	//
	return roles
}

// Explicit returns every explicit register, in ascending order.
func (p *Roles) Explicit() *Registers {
	regs := p.ExplicitRead.Clone()
	regs.InsertSorted(p.ExplicitWrite)
	regs.InsertSorted(p.ExplicitReadWrite)
	//
	return regs
}

// Implicit returns every implicit register, in ascending order.
func (p *Roles) Implicit() *Registers {
	regs := p.ImplicitRead.Clone()
	regs.InsertSorted(p.ImplicitWrite)
	regs.InsertSorted(p.ImplicitReadWrite)
	//
	return regs
}

// Buckets returns the six role sets in a fixed order (explicit read, write,
// read-write, then implicit read, write, read-write).
func (p *Roles) Buckets() []*Registers {
	return []*Registers{
		p.ExplicitRead, p.ExplicitWrite, p.ExplicitReadWrite,
		p.ImplicitRead, p.ImplicitWrite, p.ImplicitReadWrite,
	}
}

func (p *Roles) classify(reg register.Register, visibility insn.Visibility, action insn.Action) {
	// Only general purpose registers are threaded through the register file.
	if !reg.IsGeneralPurpose() {
		return
	}
	// The stack is managed outside of the wrapper.
	if !visibility.IsExplicit() && reg.IsStackPointer() {
		return
	}
	//
	var read, write, readWrite = p.ExplicitRead, p.ExplicitWrite, p.ExplicitReadWrite
	//
	if !visibility.IsExplicit() {
		read, write, readWrite = p.ImplicitRead, p.ImplicitWrite, p.ImplicitReadWrite
	}
	// Conditional actions count as their unconditional counterparts.
	switch {
	case action.Reads() && action.Writes():
		readWrite.Insert(reg)
	case action.Writes():
		write.Insert(reg)
	case action.Reads():
		read.Insert(reg)
	}
}

// Make the role sets pairwise disjoint.  A register which is both read and
// written becomes read-write.  A register which is both explicit and implicit
// becomes implicit, since it is then bound to its own location anyway.
func (p *Roles) resolve() {
	promote(p.ExplicitRead, p.ExplicitWrite, p.ExplicitReadWrite)
	promote(p.ImplicitRead, p.ImplicitWrite, p.ImplicitReadWrite)
	//
	shared := p.Explicit().Intersect(p.Implicit())
	//
	if shared.Len() == 0 {
		return
	}
	//
	explicit := []*Registers{p.ExplicitRead, p.ExplicitWrite, p.ExplicitReadWrite}
	implicit := []*Registers{p.ImplicitRead, p.ImplicitWrite, p.ImplicitReadWrite}
	//
	for i, bucket := range explicit {
		moved := bucket.Intersect(shared)
		implicit[i].InsertSorted(moved)
		bucket.RemoveSorted(moved)
	}
	//
	promote(p.ImplicitRead, p.ImplicitWrite, p.ImplicitReadWrite)
}

func (p *Roles) clobber(token string) {
	if !slices.Contains(p.Clobbers, token) {
		p.Clobbers = append(p.Clobbers, token)
	}
}

// Registers both read and written are promoted to read-write, and removed from
// the read and write sets.
func promote(read, write, readWrite *Registers) {
	readWrite.InsertSorted(read.Intersect(write))
	read.RemoveSorted(readWrite)
	write.RemoveSorted(readWrite)
}
