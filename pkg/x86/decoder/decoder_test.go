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
package decoder

import (
	"testing"

	"github.com/consensys/go-uilift/pkg/x86/insn"
	"github.com/consensys/go-uilift/pkg/x86/register"
	"github.com/stretchr/testify/require"
	"golang.org/x/arch/x86/x86asm"
)

func Test_Decode_00(t *testing.T) {
	// add eax, ebx
	inst := decode(t, Mode64, 0x01, 0xd8)
	//
	require.Equal(t, "add", inst.Mnemonic)
	require.Equal(t, insn.OTHER_CATEGORY, inst.Category)
	require.Equal(t, []byte{0x01, 0xd8}, inst.Bytes)
	checkOperands(t, inst,
		reg(register.EAX, insn.EXPLICIT, insn.READ_WRITE),
		reg(register.EBX, insn.EXPLICIT, insn.READ),
		reg(register.RFLAGS, insn.HIDDEN, insn.WRITE))
}

func Test_Decode_01(t *testing.T) {
	// fsqrt
	inst := decode(t, Mode64, 0xd9, 0xfa)
	//
	require.Equal(t, "fsqrt", inst.Mnemonic)
	require.Empty(t, inst.Operands)
	require.False(t, inst.Flags.Modified())
}

func Test_Decode_02(t *testing.T) {
	// cpuid
	inst := decode(t, Mode64, 0x0f, 0xa2)
	//
	checkOperands(t, inst,
		reg(register.EAX, insn.HIDDEN, insn.READ_WRITE),
		reg(register.ECX, insn.HIDDEN, insn.READ_WRITE),
		reg(register.EBX, insn.HIDDEN, insn.WRITE),
		reg(register.EDX, insn.HIDDEN, insn.WRITE))
}

func Test_Decode_03(t *testing.T) {
	// div rcx
	inst := decode(t, Mode64, 0x48, 0xf7, 0xf1)
	//
	require.Equal(t, "div", inst.Mnemonic)
	checkOperands(t, inst,
		reg(register.RCX, insn.EXPLICIT, insn.READ),
		reg(register.RAX, insn.HIDDEN, insn.READ_WRITE),
		reg(register.RDX, insn.HIDDEN, insn.READ_WRITE),
		reg(register.RFLAGS, insn.HIDDEN, insn.WRITE))
}

func Test_Decode_04(t *testing.T) {
	// mov qword ptr [rsi+rdx*2+0x8], rdi
	inst := decode(t, Mode64, 0x48, 0x89, 0x7c, 0x56, 0x08)
	//
	require.Len(t, inst.Operands, 2)
	//
	mem := inst.Operands[0]
	require.Equal(t, insn.MEMORY_OPERAND, mem.Kind)
	require.Equal(t, insn.WRITE, mem.Action)
	require.Equal(t, register.RSI, mem.Memory.Base)
	require.Equal(t, register.RDX, mem.Memory.Index)
	require.Equal(t, uint8(2), mem.Memory.Scale)
	require.Equal(t, int64(8), mem.Memory.Disp)
	require.Equal(t, uint(64), mem.Width)
	//
	require.Equal(t, reg(register.RDI, insn.EXPLICIT, insn.READ), inst.Operands[1])
}

func Test_Decode_05(t *testing.T) {
	// call rax
	inst := decode(t, Mode64, 0xff, 0xd0)
	//
	require.Equal(t, insn.CALL_CATEGORY, inst.Category)
	require.Len(t, inst.Operands, 3)
	require.Equal(t, reg(register.RAX, insn.EXPLICIT, insn.READ), inst.Operands[0])
	require.Equal(t, reg(register.RSP, insn.HIDDEN, insn.READ_WRITE), inst.Operands[1])
	require.Equal(t, insn.MEMORY_OPERAND, inst.Operands[2].Kind)
	require.Equal(t, insn.HIDDEN, inst.Operands[2].Visibility)
	require.Equal(t, insn.WRITE, inst.Operands[2].Action)
}

func Test_Decode_06(t *testing.T) {
	// rep movsb
	inst := decode(t, Mode64, 0xf3, 0xa4)
	//
	require.Equal(t, "movsb", inst.Mnemonic)
	require.Len(t, inst.Operands, 6)
	//
	for _, op := range inst.Operands[:2] {
		require.Equal(t, insn.MEMORY_OPERAND, op.Kind)
		require.Equal(t, insn.IMPLICIT, op.Visibility)
	}
	//
	require.Equal(t, reg(register.RDI, insn.HIDDEN, insn.READ_WRITE), inst.Operands[2])
	require.Equal(t, reg(register.RSI, insn.HIDDEN, insn.READ_WRITE), inst.Operands[3])
	require.Equal(t, reg(register.RCX, insn.HIDDEN, insn.READ_WRITE), inst.Operands[4])
	require.Equal(t, reg(register.RFLAGS, insn.HIDDEN, insn.READ), inst.Operands[5])
	require.Equal(t, insn.FLAG_TESTED, inst.Flags[insn.DF])
}

func Test_Decode_07(t *testing.T) {
	// fstp qword ptr [eax] in 32-bit mode
	inst := decode(t, Mode32, 0xdd, 0x18)
	//
	require.Len(t, inst.Operands, 2)
	require.Equal(t, register.EAX, inst.Operands[0].Memory.Base)
	require.Equal(t, reg(register.X87STATUS, insn.HIDDEN, insn.WRITE), inst.Operands[1])
}

func Test_Decode_08(t *testing.T) {
	// cld
	inst := decode(t, Mode32, 0xfc)
	//
	require.Equal(t, insn.FLAG_SET0, inst.Flags[insn.DF])
	checkOperands(t, inst, reg(register.EFLAGS, insn.HIDDEN, insn.WRITE))
}

func Test_Decode_09(t *testing.T) {
	// cmove rdx, qword ptr [rcx]
	inst := decode(t, Mode64, 0x48, 0x0f, 0x44, 0x11)
	//
	require.Equal(t, "cmove", inst.Mnemonic)
	require.Equal(t, reg(register.RDX, insn.EXPLICIT, insn.READ_COND_WRITE), inst.Operands[0])
	require.Equal(t, register.RCX, inst.Operands[1].Memory.Base)
	require.Equal(t, reg(register.RFLAGS, insn.HIDDEN, insn.READ), inst.Operands[2])
}

func Test_Decode_10(t *testing.T) {
	// mul bl
	inst := decode(t, Mode64, 0xf6, 0xe3)
	//
	checkOperands(t, inst,
		reg(register.BL, insn.EXPLICIT, insn.READ),
		reg(register.AL, insn.HIDDEN, insn.READ),
		reg(register.AX, insn.HIDDEN, insn.WRITE),
		reg(register.RFLAGS, insn.HIDDEN, insn.WRITE))
}

func Test_Decode_11(t *testing.T) {
	// imul eax, ecx, 0x10
	inst := decode(t, Mode32, 0x6b, 0xc1, 0x10)
	//
	require.Equal(t, "imul", inst.Mnemonic)
	require.Len(t, inst.Operands, 4)
	require.Equal(t, reg(register.EAX, insn.EXPLICIT, insn.WRITE), inst.Operands[0])
	require.Equal(t, reg(register.ECX, insn.EXPLICIT, insn.READ), inst.Operands[1])
	require.Equal(t, insn.IMMEDIATE_OPERAND, inst.Operands[2].Kind)
}

func Test_Decode_12(t *testing.T) {
	// Trailing bytes are ignored
	inst := decode(t, Mode64, 0x0f, 0x31, 0x90, 0x90)
	//
	require.Equal(t, "rdtsc", inst.Mnemonic)
	require.Equal(t, []byte{0x0f, 0x31}, inst.Bytes)
}

func Test_Decode_Invalid_00(t *testing.T) {
	dec, err := New(Mode64)
	require.NoError(t, err)
	//
	_, err = dec.Decode(nil)
	require.ErrorIs(t, err, ErrEmptyInput)
	// Truncated instruction
	_, err = dec.Decode([]byte{0x48, 0x8b})
	require.Error(t, err)
}

func Test_Decode_Invalid_01(t *testing.T) {
	_, err := New(Mode(16))
	require.Error(t, err)
}

func Test_Decode_Invalid_02(t *testing.T) {
	// Registers other than general purpose registers do not require access
	// information, but general purpose registers do.
	require.False(t, hasGeneralPurpose([]x86asm.Arg{x86asm.X0, x86asm.F1}))
	require.True(t, hasGeneralPurpose([]x86asm.Arg{x86asm.X0, x86asm.R8L}))
}

func Test_Format_00(t *testing.T) {
	dec, _ := New(Mode64)
	inst := decode(t, Mode64, 0x01, 0xd8)
	//
	text, err := dec.Format(inst, 0, insn.INTEL)
	require.NoError(t, err)
	require.Equal(t, "add eax, ebx", text)
	//
	text, err = dec.Format(inst, 0, insn.ATT)
	require.NoError(t, err)
	require.Equal(t, "add %ebx,%eax", text)
}

func Test_Format_01(t *testing.T) {
	dec, _ := New(Mode64)
	inst := decode(t, Mode64, 0x48, 0x89, 0x7c, 0x56, 0x08)
	//
	text, err := dec.Format(inst, 0, insn.INTEL)
	require.NoError(t, err)
	require.Equal(t, "mov qword ptr [rsi+rdx*2+0x8], rdi", text)
}

func Test_Format_02(t *testing.T) {
	// Relative targets are resolved against the address
	dec, _ := New(Mode64)
	inst := decode(t, Mode64, 0xe8, 0x00, 0x00, 0x00, 0x00)
	//
	text, err := dec.Format(inst, 0x401000, insn.INTEL)
	require.NoError(t, err)
	require.Equal(t, "call 0x401005", text)
}

func Test_Format_03(t *testing.T) {
	dec, _ := New(Mode64)
	//
	_, err := dec.Format(&insn.Instruction{Mode: 64}, 0, insn.INTEL)
	require.Error(t, err)
}

func Test_Format_04(t *testing.T) {
	// x87 registers are written st(i), and implicit stack tops are omitted.
	checkIntel(t, Mode64, "fsqrt", 0xd9, 0xfa)
	checkIntel(t, Mode64, "fldz", 0xd9, 0xee)
	checkIntel(t, Mode64, "fld1", 0xd9, 0xe8)
	checkIntel(t, Mode64, "fstp qword ptr [rax]", 0xdd, 0x18)
	checkIntel(t, Mode64, "fld qword ptr [rax]", 0xdd, 0x00)
	checkIntel(t, Mode64, "fld st(0)", 0xd9, 0xc0)
	checkIntel(t, Mode64, "fadd st(0), st(1)", 0xd8, 0xc1)
	checkIntel(t, Mode64, "fxch st(1)", 0xd9, 0xc9)
	checkIntel(t, Mode64, "fcompp", 0xde, 0xd9)
	checkIntel(t, Mode32, "fstp qword ptr [eax]", 0xdd, 0x18)
}

func Test_Format_05(t *testing.T) {
	// Relative targets are absolute when no address is given.
	checkIntel(t, Mode64, "call 0x5", 0xe8, 0x00, 0x00, 0x00, 0x00)
	checkIntel(t, Mode64, "jz 0x12", 0x74, 0x10)
	checkIntel(t, Mode64, "jmp 0x0", 0xeb, 0xfe)
	checkIntel(t, Mode64, "call 0xfffffffffffffff5", 0xe8, 0xf0, 0xff, 0xff, 0xff)
	checkIntel(t, Mode32, "call 0xfffffff5", 0xe8, 0xf0, 0xff, 0xff, 0xff)
	//
	dec, _ := New(Mode64)
	inst := decode(t, Mode64, 0xe8, 0x00, 0x00, 0x00, 0x00)
	require.True(t, inst.Relative)
	//
	text, err := dec.Format(inst, 0, insn.ATT)
	require.NoError(t, err)
	require.Equal(t, "callq 0x5", text)
	// Only relative operands depend on the address.
	require.False(t, decode(t, Mode64, 0x01, 0xd8).Relative)
}

func Test_Format_06(t *testing.T) {
	// mmx registers are written mm0..mm7
	checkIntel(t, Mode64, "paddb mm0, mm1", 0x0f, 0xfc, 0xc1)
}

// ===================================================================
// Test Helpers
// ===================================================================

func decode(t *testing.T, mode Mode, bytes ...byte) *insn.Instruction {
	t.Helper()
	//
	dec, err := New(mode)
	require.NoError(t, err)
	//
	inst, err := dec.Decode(bytes)
	require.NoError(t, err)
	//
	return inst
}

func reg(r register.Register, visibility insn.Visibility, action insn.Action) insn.Operand {
	return insn.NewRegister(r, visibility, action)
}

func checkOperands(t *testing.T, inst *insn.Instruction, expected ...insn.Operand) {
	t.Helper()
	//
	require.Equal(t, expected, inst.Operands, "operands of %s", inst.Mnemonic)
}

func checkIntel(t *testing.T, mode Mode, expected string, bytes ...byte) {
	t.Helper()
	//
	dec, err := New(mode)
	require.NoError(t, err)
	//
	text, err := dec.Format(decode(t, mode, bytes...), 0, insn.INTEL)
	require.NoError(t, err)
	require.Equal(t, expected, text, "rendering of %x", bytes)
}
