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

import "fmt"

type info struct {
	name  string
	class Class
	width uint
	base  Register
}

func gpr8(name string, base Register) info {
	return info{name, CLASS_GPR8, 8, base}
}

func gpr16(name string, base Register) info {
	return info{name, CLASS_GPR16, 16, base}
}

func gpr32(name string, base Register) info {
	return info{name, CLASS_GPR32, 32, base}
}

func gpr64(name string) info {
	return info{name, CLASS_GPR64, 64, NONE}
}

// Table of every register.  The array is sized by the enumeration, hence a
// register added to the enumeration without an entry here leaves a zero entry
// behind, which init() rejects.
var registers = [numRegisters]info{
	NONE: {"", CLASS_INVALID, 0, NONE},
	// 8-bit
	AL:   gpr8("al", RAX),
	CL:   gpr8("cl", RCX),
	DL:   gpr8("dl", RDX),
	BL:   gpr8("bl", RBX),
	AH:   gpr8("ah", RAX),
	CH:   gpr8("ch", RCX),
	DH:   gpr8("dh", RDX),
	BH:   gpr8("bh", RBX),
	SPL:  gpr8("spl", RSP),
	BPL:  gpr8("bpl", RBP),
	SIL:  gpr8("sil", RSI),
	DIL:  gpr8("dil", RDI),
	R8B:  gpr8("r8b", R8),
	R9B:  gpr8("r9b", R9),
	R10B: gpr8("r10b", R10),
	R11B: gpr8("r11b", R11),
	R12B: gpr8("r12b", R12),
	R13B: gpr8("r13b", R13),
	R14B: gpr8("r14b", R14),
	R15B: gpr8("r15b", R15),
	// 16-bit
	AX:   gpr16("ax", RAX),
	CX:   gpr16("cx", RCX),
	DX:   gpr16("dx", RDX),
	BX:   gpr16("bx", RBX),
	SP:   gpr16("sp", RSP),
	BP:   gpr16("bp", RBP),
	SI:   gpr16("si", RSI),
	DI:   gpr16("di", RDI),
	R8W:  gpr16("r8w", R8),
	R9W:  gpr16("r9w", R9),
	R10W: gpr16("r10w", R10),
	R11W: gpr16("r11w", R11),
	R12W: gpr16("r12w", R12),
	R13W: gpr16("r13w", R13),
	R14W: gpr16("r14w", R14),
	R15W: gpr16("r15w", R15),
	// 32-bit
	EAX:  gpr32("eax", RAX),
	ECX:  gpr32("ecx", RCX),
	EDX:  gpr32("edx", RDX),
	EBX:  gpr32("ebx", RBX),
	ESP:  gpr32("esp", RSP),
	EBP:  gpr32("ebp", RBP),
	ESI:  gpr32("esi", RSI),
	EDI:  gpr32("edi", RDI),
	R8D:  gpr32("r8d", R8),
	R9D:  gpr32("r9d", R9),
	R10D: gpr32("r10d", R10),
	R11D: gpr32("r11d", R11),
	R12D: gpr32("r12d", R12),
	R13D: gpr32("r13d", R13),
	R14D: gpr32("r14d", R14),
	R15D: gpr32("r15d", R15),
	// 64-bit
	RAX: gpr64("rax"),
	RCX: gpr64("rcx"),
	RDX: gpr64("rdx"),
	RBX: gpr64("rbx"),
	RSP: gpr64("rsp"),
	RBP: gpr64("rbp"),
	RSI: gpr64("rsi"),
	RDI: gpr64("rdi"),
	R8:  gpr64("r8"),
	R9:  gpr64("r9"),
	R10: gpr64("r10"),
	R11: gpr64("r11"),
	R12: gpr64("r12"),
	R13: gpr64("r13"),
	R14: gpr64("r14"),
	R15: gpr64("r15"),
	// Flags & instruction pointer
	FLAGS:  {"flags", CLASS_FLAGS, 16, NONE},
	EFLAGS: {"eflags", CLASS_FLAGS, 32, NONE},
	RFLAGS: {"rflags", CLASS_FLAGS, 64, NONE},
	IP:     {"ip", CLASS_IP, 16, NONE},
	EIP:    {"eip", CLASS_IP, 32, NONE},
	RIP:    {"rip", CLASS_IP, 64, NONE},
	// x87
	ST0:       {"st0", CLASS_X87, 80, NONE},
	ST1:       {"st1", CLASS_X87, 80, NONE},
	ST2:       {"st2", CLASS_X87, 80, NONE},
	ST3:       {"st3", CLASS_X87, 80, NONE},
	ST4:       {"st4", CLASS_X87, 80, NONE},
	ST5:       {"st5", CLASS_X87, 80, NONE},
	ST6:       {"st6", CLASS_X87, 80, NONE},
	ST7:       {"st7", CLASS_X87, 80, NONE},
	X87STATUS: {"x87status", CLASS_X87_STATUS, 16, NONE},
	// MMX
	MM0: {"mm0", CLASS_MMX, 64, NONE},
	MM1: {"mm1", CLASS_MMX, 64, NONE},
	MM2: {"mm2", CLASS_MMX, 64, NONE},
	MM3: {"mm3", CLASS_MMX, 64, NONE},
	MM4: {"mm4", CLASS_MMX, 64, NONE},
	MM5: {"mm5", CLASS_MMX, 64, NONE},
	MM6: {"mm6", CLASS_MMX, 64, NONE},
	MM7: {"mm7", CLASS_MMX, 64, NONE},
	// SSE
	XMM0:  {"xmm0", CLASS_XMM, 128, NONE},
	XMM1:  {"xmm1", CLASS_XMM, 128, NONE},
	XMM2:  {"xmm2", CLASS_XMM, 128, NONE},
	XMM3:  {"xmm3", CLASS_XMM, 128, NONE},
	XMM4:  {"xmm4", CLASS_XMM, 128, NONE},
	XMM5:  {"xmm5", CLASS_XMM, 128, NONE},
	XMM6:  {"xmm6", CLASS_XMM, 128, NONE},
	XMM7:  {"xmm7", CLASS_XMM, 128, NONE},
	XMM8:  {"xmm8", CLASS_XMM, 128, NONE},
	XMM9:  {"xmm9", CLASS_XMM, 128, NONE},
	XMM10: {"xmm10", CLASS_XMM, 128, NONE},
	XMM11: {"xmm11", CLASS_XMM, 128, NONE},
	XMM12: {"xmm12", CLASS_XMM, 128, NONE},
	XMM13: {"xmm13", CLASS_XMM, 128, NONE},
	XMM14: {"xmm14", CLASS_XMM, 128, NONE},
	XMM15: {"xmm15", CLASS_XMM, 128, NONE},
	// Segment
	ES: {"es", CLASS_SEGMENT, 16, NONE},
	CS: {"cs", CLASS_SEGMENT, 16, NONE},
	SS: {"ss", CLASS_SEGMENT, 16, NONE},
	DS: {"ds", CLASS_SEGMENT, 16, NONE},
	FS: {"fs", CLASS_SEGMENT, 16, NONE},
	GS: {"gs", CLASS_SEGMENT, 16, NONE},
	//
	OTHER: {"other", CLASS_OTHER, 0, NONE},
}

var byName map[string]Register

func init() {
	byName = make(map[string]Register, numRegisters)
	//
	for r := NONE + 1; r < numRegisters; r++ {
		entry := &registers[r]
		// Completeness check
		if entry.name == "" || entry.class == CLASS_INVALID {
			panic(fmt.Sprintf("register %d missing from register table", uint(r)))
		} else if _, ok := byName[entry.name]; ok {
			panic(fmt.Sprintf("duplicate register name %q", entry.name))
		}
		// 64-bit registers are their own base
		if entry.class == CLASS_GPR64 {
			entry.base = r
		}
		//
		byName[entry.name] = r
	}
}
