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
package layout

import (
	"fmt"

	"github.com/consensys/go-uilift/pkg/x86/register"
	"github.com/llir/llvm/ir/types"
)

// Location identifies where a register lives within the register file.  Index
// is the slot, Offset is the byte offset within that slot and Width is the
// width of the register in bits.
type Location struct {
	Index  uint
	Offset uint
	Width  uint
}

func (p Location) String() string {
	return fmt.Sprintf("%d+%d:i%d", p.Index, p.Offset, p.Width)
}

// UnknownRegisterError is reported when looking up a register which has no
// slot in the register file for the configured mode.
type UnknownRegisterError struct {
	Register register.Register
	Bits     uint
}

func (e *UnknownRegisterError) Error() string {
	return fmt.Sprintf("register %s has no slot in the %d-bit register file", e.Register, e.Bits)
}

// Slot order of the physical general purpose registers.  Views of a register
// (e.g. al, ah, ax, eax) share the slot of their base.
var slotOrder = []register.Register{
	register.RAX, register.RBX, register.RCX, register.RDX,
	register.RSI, register.RDI, register.RSP, register.RBP,
	register.R8, register.R9, register.R10, register.R11,
	register.R12, register.R13, register.R14, register.R15,
}

var slotIndex map[register.Register]uint

func init() {
	slotIndex = make(map[register.Register]uint, len(slotOrder))
	//
	for i, r := range slotOrder {
		slotIndex[r] = uint(i)
	}
	// Every general purpose register must resolve to a slot.
	for _, r := range register.All() {
		if _, ok := slotIndex[r.Base()]; r.IsGeneralPurpose() && !ok {
			panic(fmt.Sprintf("register %s has no slot", r))
		}
	}
}

// Layout describes the register file for a given mode.  It is immutable once
// constructed, hence can be shared freely.
type Layout struct {
	bits      uint
	slots     uint
	locations map[register.Register]Location
}

// New constructs the register file layout for a given mode (32 or 64).
func New(bits uint) (*Layout, error) {
	var slots uint
	//
	switch bits {
	case 32:
		slots = 8
	case 64:
		slots = 16
	default:
		return nil, fmt.Errorf("unsupported register file width %d", bits)
	}
	//
	locations := make(map[register.Register]Location)
	//
	for _, r := range register.All() {
		index, ok := slotIndex[r.Base()]
		// Skip registers outside the file, or wider than a slot.
		if !r.IsGeneralPurpose() || !ok || index >= slots || r.Width() > bits {
			continue
		} else if bits == 32 && r.RequiresRex() {
			continue
		}
		//
		var offset uint
		// Legacy high byte registers live in the second byte of their slot.
		if r.IsHighByte() {
			offset = 1
		}
		//
		locations[r] = Location{index, offset, r.Width()}
	}
	//
	return &Layout{bits, slots, locations}, nil
}

// Bits returns the width of this layout's mode.
func (p *Layout) Bits() uint {
	return p.bits
}

// Slots returns the number of slots in the register file.
func (p *Layout) Slots() uint {
	return p.slots
}

// SlotWidth returns the width (in bits) of a single slot.
func (p *Layout) SlotWidth() uint {
	return p.bits
}

// Lookup the location of a given register.
func (p *Layout) Lookup(reg register.Register) (Location, error) {
	if loc, ok := p.locations[reg]; ok {
		return loc, nil
	}
	//
	return Location{}, &UnknownRegisterError{reg, p.bits}
}

// Registers returns every register which has a location, in ascending order.
func (p *Layout) Registers() []register.Register {
	var regs []register.Register
	//
	for _, r := range register.All() {
		if _, ok := p.locations[r]; ok {
			regs = append(regs, r)
		}
	}
	//
	return regs
}

// StructType returns the (unnamed) structure type of the register file, which
// holds one integer field per slot.
func (p *Layout) StructType() *types.StructType {
	fields := make([]types.Type, p.Slots())
	//
	for i := range fields {
		fields[i] = types.NewInt(uint64(p.bits))
	}
	//
	return types.NewStruct(fields...)
}
