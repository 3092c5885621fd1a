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
package register

import (
	"fmt"
	"strings"
)

// Register identifies an architectural x86 register.  Registers form a closed
// enumeration whose numeric order groups general purpose registers by width
// (8, 16, 32 then 64 bits) and, within a width, by hardware encoding.  This
// order is the iteration order used wherever sets of registers are ordered
// and, hence, it is part of the contract of this package.
type Register uint8

// NONE represents the absence of a register (e.g. a memory operand without an
// index register).
const NONE Register = 0

// 8-bit general purpose registers.
const (
	AL Register = iota + 1
	CL
	DL
	BL
	AH
	CH
	DH
	BH
	SPL
	BPL
	SIL
	DIL
	R8B
	R9B
	R10B
	R11B
	R12B
	R13B
	R14B
	R15B
)

// 16-bit general purpose registers.
const (
	AX Register = iota + R15B + 1
	CX
	DX
	BX
	SP
	BP
	SI
	DI
	R8W
	R9W
	R10W
	R11W
	R12W
	R13W
	R14W
	R15W
)

// 32-bit general purpose registers.
const (
	EAX Register = iota + R15W + 1
	ECX
	EDX
	EBX
	ESP
	EBP
	ESI
	EDI
	R8D
	R9D
	R10D
	R11D
	R12D
	R13D
	R14D
	R15D
)

// 64-bit general purpose registers.
const (
	RAX Register = iota + R15D + 1
	RCX
	RDX
	RBX
	RSP
	RBP
	RSI
	RDI
	R8
	R9
	R10
	R11
	R12
	R13
	R14
	R15
)

// Flags, instruction pointer, x87, vector and segment registers.
const (
	FLAGS Register = iota + R15 + 1
	EFLAGS
	RFLAGS
	IP
	EIP
	RIP
	ST0
	ST1
	ST2
	ST3
	ST4
	ST5
	ST6
	ST7
	X87STATUS
	MM0
	MM1
	MM2
	MM3
	MM4
	MM5
	MM6
	MM7
	XMM0
	XMM1
	XMM2
	XMM3
	XMM4
	XMM5
	XMM6
	XMM7
	XMM8
	XMM9
	XMM10
	XMM11
	XMM12
	XMM13
	XMM14
	XMM15
	ES
	CS
	SS
	DS
	FS
	GS
	// OTHER stands in for any system, control, debug or task register.  None
	// of these take part in wrapper synthesis.
	OTHER
	// Marks the end of the enumeration.
	numRegisters
)

// Class groups registers by their architectural role.
type Class uint8

const (
	// CLASS_INVALID is the class of NONE.
	CLASS_INVALID Class = iota
	// CLASS_GPR8 covers the 8-bit general purpose registers (including the
	// legacy high byte registers).
	CLASS_GPR8
	// CLASS_GPR16 covers the 16-bit general purpose registers.
	CLASS_GPR16
	// CLASS_GPR32 covers the 32-bit general purpose registers.
	CLASS_GPR32
	// CLASS_GPR64 covers the 64-bit general purpose registers.
	CLASS_GPR64
	// CLASS_FLAGS covers the processor flags register at every width.
	CLASS_FLAGS
	// CLASS_IP covers the instruction pointer at every width.
	CLASS_IP
	// CLASS_X87 covers the x87 stack registers.
	CLASS_X87
	// CLASS_X87_STATUS covers the x87 status word.
	CLASS_X87_STATUS
	// CLASS_MMX covers the MMX registers.
	CLASS_MMX
	// CLASS_XMM covers the SSE registers.
	CLASS_XMM
	// CLASS_SEGMENT covers the segment registers.
	CLASS_SEGMENT
	// CLASS_OTHER covers everything else.
	CLASS_OTHER
)

func (c Class) String() string {
	switch c {
	case CLASS_GPR8:
		return "gpr8"
	case CLASS_GPR16:
		return "gpr16"
	case CLASS_GPR32:
		return "gpr32"
	case CLASS_GPR64:
		return "gpr64"
	case CLASS_FLAGS:
		return "flags"
	case CLASS_IP:
		return "ip"
	case CLASS_X87:
		return "x87"
	case CLASS_X87_STATUS:
		return "x87status"
	case CLASS_MMX:
		return "mmx"
	case CLASS_XMM:
		return "xmm"
	case CLASS_SEGMENT:
		return "segment"
	case CLASS_OTHER:
		return "other"
	default:
		return "invalid"
	}
}

// IsGeneralPurpose determines whether this class is one of the general
// purpose register classes.
func (c Class) IsGeneralPurpose() bool {
	return c >= CLASS_GPR8 && c <= CLASS_GPR64
}

// Name returns the canonical (lower case, Intel) name of this register.
func (r Register) Name() string {
	if r < numRegisters {
		return registers[r].name
	}
	//
	return fmt.Sprintf("reg(%d)", uint(r))
}

func (r Register) String() string {
	return r.Name()
}

// Class returns the class of this register.
func (r Register) Class() Class {
	if r < numRegisters {
		return registers[r].class
	}
	//
	return CLASS_INVALID
}

// Width returns the width (in bits) of this register.
func (r Register) Width() uint {
	if r < numRegisters {
		return registers[r].width
	}
	//
	return 0
}

// Base returns the 64-bit general purpose register of which this register is
// a view.  For example, the base of AH, AX and EAX is RAX.  Registers which
// are not general purpose return NONE.
func (r Register) Base() Register {
	if r < numRegisters {
		return registers[r].base
	}
	//
	return NONE
}

// IsGeneralPurpose determines whether this is a general purpose register.
func (r Register) IsGeneralPurpose() bool {
	return r.Class().IsGeneralPurpose()
}

// IsHighByte determines whether this is one of the legacy high byte registers
// (AH, CH, DH, BH).
func (r Register) IsHighByte() bool {
	return r >= AH && r <= BH
}

// RequiresRex determines whether this register can only be encoded with a REX
// prefix, hence exists only in 64-bit mode.  This covers R8 to R15 (in every
// width) and the low bytes SPL, BPL, SIL and DIL.
func (r Register) RequiresRex() bool {
	switch r {
	case SPL, BPL, SIL, DIL:
		return true
	}
	//
	base := r.Base()
	//
	return base >= R8 && base <= R15
}

// IsStackPointer determines whether this register is any view of the stack
// pointer.
func (r Register) IsStackPointer() bool {
	return r.Base() == RSP
}

// Lookup returns the register with a given canonical name (case insensitive).
// Names may carry the AT&T "%" prefix.
func Lookup(name string) (Register, bool) {
	r, ok := byName[strings.TrimPrefix(strings.ToLower(name), "%")]
	return r, ok
}

// All returns every register in ascending order (excluding NONE).
func All() []Register {
	regs := make([]Register, 0, numRegisters-1)
	//
	for r := NONE + 1; r < numRegisters; r++ {
		regs = append(regs, r)
	}
	//
	return regs
}

// Family returns the views of a given 64-bit general purpose register, in
// ascending order.  For example, the family of RAX is AL, AH, AX, EAX, RAX.
func Family(base Register) []Register {
	var regs []Register
	//
	for r := NONE + 1; r < numRegisters; r++ {
		if registers[r].base == base && base != NONE {
			regs = append(regs, r)
		}
	}
	//
	return regs
}

// View returns the low view of a given width (8, 16, 32 or 64 bits) of the
// physical register underlying this one.  For example, the 16-bit view of EAX
// is AX and the 8-bit view of RAX is AL (never AH).  NONE is returned when no
// such view exists.
func (r Register) View(width uint) Register {
	base := r.Base()
	//
	if base == NONE {
		return NONE
	}
	//
	for _, v := range Family(base) {
		if v.Width() == width && !v.IsHighByte() {
			return v
		}
	}
	//
	return NONE
}
