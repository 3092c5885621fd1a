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
	"github.com/consensys/go-uilift/pkg/x86/insn"
	"github.com/consensys/go-uilift/pkg/x86/register"
	"golang.org/x/arch/x86/x86asm"
)

// Shorthands for access actions.
const (
	R   = insn.READ
	W   = insn.WRITE
	RW  = insn.READ_WRITE
	CW  = insn.COND_WRITE
	RCW = insn.READ_COND_WRITE
)

// context captures the properties of a decoded instruction which determine
// the exact registers it touches implicitly.
type context struct {
	// Number of arguments materialised by x86asm.
	args int
	// Operand width in bits.
	width uint
	// Address width in bits.
	addr uint
	// Processor mode in bits.
	mode uint
}

// selector picks an implicit register in a given context.
type selector func(c *context) register.Register

func fixed(reg register.Register) selector {
	return func(*context) register.Register { return reg }
}

// operand-sized view of a register (e.g. the accumulator)
func sized(reg register.Register) selector {
	return func(c *context) register.Register { return reg.View(c.width) }
}

// address-sized view of a register (e.g. string indices)
func addressed(reg register.Register) selector {
	return func(c *context) register.Register { return reg.View(c.addr) }
}

// mode-sized view of a register (e.g. the stack pointer)
func moded(reg register.Register) selector {
	return func(c *context) register.Register { return reg.View(c.mode) }
}

type implicitReg struct {
	reg    selector
	action insn.Action
}

func use(reg selector, action insn.Action) implicitReg {
	return implicitReg{reg, action}
}

// semantics describes the operand access behaviour of one opcode, which x86asm
// itself does not provide.
type semantics struct {
	// Access of each argument by position, given the number of arguments.
	// Arguments beyond the end are read.
	args func(n int) []insn.Action
	// Registers touched but not listed as arguments.
	implicit func(c *context) []insn.Operand
	// Effect on each flag.
	flags insn.FlagEffects
	// Access to stack memory (if any).
	memory insn.Action
	// Whether the x87 status word is written.
	x87 bool
	// Whether the arguments materialised by x86asm are in fact implicit, as
	// for the string instructions.
	hidden bool
	// Whether this is a call.
	call bool
}

// access returns the action of the ith of n arguments.
func (p *semantics) access(i int, n int) insn.Action {
	if p.args != nil {
		if actions := p.args(n); i < len(actions) {
			return actions[i]
		}
	}
	//
	return insn.READ
}

func op(actions ...insn.Action) semantics {
	return semantics{args: func(int) []insn.Action { return actions }}
}

func strop(actions ...insn.Action) semantics {
	s := op(actions...)
	s.hidden = true
	//
	return s
}

func (p semantics) with(flags insn.FlagEffects) semantics {
	p.flags = merge(p.flags, flags)
	return p
}

func (p semantics) uses(regs ...implicitReg) semantics {
	p.implicit = func(c *context) []insn.Operand {
		var ops []insn.Operand
		//
		for _, r := range regs {
			if reg := r.reg(c); reg != register.NONE {
				ops = append(ops, insn.NewRegister(reg, insn.HIDDEN, r.action))
			}
		}
		//
		return ops
	}
	//
	return p
}

func (p semantics) dynamic(fn func(c *context) []insn.Operand) semantics {
	p.implicit = fn
	return p
}

// stack marks an instruction as adjusting the stack pointer and accessing the
// stack memory.
func (p semantics) stack(memory insn.Action) semantics {
	p.memory = memory
	//
	if p.implicit == nil {
		return p.uses(use(moded(register.RSP), RW))
	}
	// Chain with existing implicit registers
	inner := p.implicit
	p.implicit = func(c *context) []insn.Operand {
		sp := insn.NewRegister(register.RSP.View(c.mode), insn.HIDDEN, RW)
		return append(inner(c), sp)
	}
	//
	return p
}

func (p semantics) fpu() semantics {
	p.x87 = true
	return p
}

func (p semantics) calls() semantics {
	p.call = true
	return p
}

// Implicit accumulator/data pair of the single operand multiply and divide.
func mulDiv(divide bool) func(c *context) []insn.Operand {
	return func(c *context) []insn.Operand {
		if c.width == 8 {
			if divide {
				return []insn.Operand{insn.NewRegister(register.AX, insn.HIDDEN, RW)}
			}
			//
			return []insn.Operand{
				insn.NewRegister(register.AL, insn.HIDDEN, R),
				insn.NewRegister(register.AX, insn.HIDDEN, W),
			}
		}
		//
		data := W
		if divide {
			data = RW
		}
		//
		return []insn.Operand{
			insn.NewRegister(register.RAX.View(c.width), insn.HIDDEN, RW),
			insn.NewRegister(register.RDX.View(c.width), insn.HIDDEN, data),
		}
	}
}

// Every general purpose register of the legacy register file, as accessed by
// PUSHA and POPA.
func legacyRegisters(action insn.Action) func(c *context) []insn.Operand {
	return func(c *context) []insn.Operand {
		var ops []insn.Operand
		//
		for _, base := range []register.Register{register.RAX, register.RCX, register.RDX, register.RBX,
			register.RSP, register.RBP, register.RSI, register.RDI} {
			ops = append(ops, insn.NewRegister(base.View(c.width), insn.HIDDEN, action))
		}
		//
		return ops
	}
}

// The signed multiply comes in one, two and three operand forms.
var imul = semantics{
	args: func(n int) []insn.Action {
		switch n {
		case 1:
			return []insn.Action{R}
		case 2:
			return []insn.Action{RW, R}
		default:
			return []insn.Action{W, R, R}
		}
	},
	implicit: func(c *context) []insn.Operand {
		if c.args == 1 {
			return mulDiv(false)(c)
		}
		//
		return nil
	},
	flags: mulFlags,
}

var (
	acc     = sized(register.RAX)
	srcIdx  = addressed(register.RSI)
	dstIdx  = addressed(register.RDI)
	counter = addressed(register.RCX)
	frame   = moded(register.RBP)
)

var table = map[x86asm.Op]semantics{
	// Integer arithmetic and logic
	x86asm.ADD:  op(RW, R).with(arithFlags),
	x86asm.SUB:  op(RW, R).with(arithFlags),
	x86asm.ADC:  op(RW, R).with(carryFlags),
	x86asm.SBB:  op(RW, R).with(carryFlags),
	x86asm.AND:  op(RW, R).with(logicFlags),
	x86asm.OR:   op(RW, R).with(logicFlags),
	x86asm.XOR:  op(RW, R).with(logicFlags),
	x86asm.CMP:  op(R, R).with(arithFlags),
	x86asm.TEST: op(R, R).with(logicFlags),
	x86asm.INC:  op(RW).with(incDecFlags),
	x86asm.DEC:  op(RW).with(incDecFlags),
	x86asm.NEG:  op(RW).with(arithFlags),
	x86asm.NOT:  op(RW),
	x86asm.MUL:  op(R).dynamic(mulDiv(false)).with(mulFlags),
	x86asm.DIV:  op(R).dynamic(mulDiv(true)).with(divFlags),
	x86asm.IDIV: op(R).dynamic(mulDiv(true)).with(divFlags),
	x86asm.IMUL: imul,
	x86asm.AAA:  op().uses(use(fixed(register.AX), RW)).with(bcdFlags),
	x86asm.AAS:  op().uses(use(fixed(register.AX), RW)).with(bcdFlags),
	x86asm.DAA:  op().uses(use(fixed(register.AL), RW)).with(decimalFlags),
	x86asm.DAS:  op().uses(use(fixed(register.AL), RW)).with(decimalFlags),
	x86asm.AAM:  op(R).uses(use(fixed(register.AX), RW)).with(asciiFlags),
	x86asm.AAD:  op(R).uses(use(fixed(register.AX), RW)).with(asciiFlags),
	// Shifts and rotates
	x86asm.SHL:  op(RW, R).with(shiftFlags),
	x86asm.SHR:  op(RW, R).with(shiftFlags),
	x86asm.SAR:  op(RW, R).with(shiftFlags),
	x86asm.SHLD: op(RW, R, R).with(shiftFlags),
	x86asm.SHRD: op(RW, R, R).with(shiftFlags),
	x86asm.ROL:  op(RW, R).with(rotateFlags),
	x86asm.ROR:  op(RW, R).with(rotateFlags),
	x86asm.RCL:  op(RW, R).with(rotateCFlags),
	x86asm.RCR:  op(RW, R).with(rotateCFlags),
	// Bit manipulation
	x86asm.BT:     op(R, R).with(bitTestFlags),
	x86asm.BTS:    op(RW, R).with(bitTestFlags),
	x86asm.BTR:    op(RW, R).with(bitTestFlags),
	x86asm.BTC:    op(RW, R).with(bitTestFlags),
	x86asm.BSF:    op(RCW, R).with(bitScanFlags),
	x86asm.BSR:    op(RCW, R).with(bitScanFlags),
	x86asm.TZCNT:  op(W, R).with(countFlags),
	x86asm.LZCNT:  op(W, R).with(countFlags),
	x86asm.POPCNT: op(W, R).with(countFlags),
	x86asm.BSWAP:  op(RW),
	x86asm.CRC32:  op(RW, R),
	// Data movement
	x86asm.MOV:        op(W, R),
	x86asm.MOVZX:      op(W, R),
	x86asm.MOVSX:      op(W, R),
	x86asm.MOVSXD:     op(W, R),
	x86asm.MOVBE:      op(W, R),
	x86asm.MOVNTI:     op(W, R),
	x86asm.LEA:        op(W, R),
	x86asm.XCHG:       op(RW, RW),
	x86asm.XADD:       op(RW, RW).with(arithFlags),
	x86asm.CMPXCHG:    op(RW, R).uses(use(acc, RW)).with(arithFlags),
	x86asm.CMPXCHG8B:  op(RW).uses(cmpxchgPair(register.EAX, register.EDX, register.EBX, register.ECX)...).with(zeroFlag),
	x86asm.CMPXCHG16B: op(RW).uses(cmpxchgPair(register.RAX, register.RDX, register.RBX, register.RCX)...).with(zeroFlag),
	x86asm.CBW:        op().uses(use(fixed(register.AL), R), use(fixed(register.AX), W)),
	x86asm.CWDE:       op().uses(use(fixed(register.AX), R), use(fixed(register.EAX), W)),
	x86asm.CDQE:       op().uses(use(fixed(register.EAX), R), use(fixed(register.RAX), W)),
	x86asm.CWD:        op().uses(use(fixed(register.AX), R), use(fixed(register.DX), W)),
	x86asm.CDQ:        op().uses(use(fixed(register.EAX), R), use(fixed(register.EDX), W)),
	x86asm.CQO:        op().uses(use(fixed(register.RAX), R), use(fixed(register.RDX), W)),
	x86asm.LAHF:       op().uses(use(fixed(register.AH), W)).with(fx("sf:t zf:t af:t pf:t cf:t")),
	x86asm.SAHF:       op().uses(use(fixed(register.AH), R)).with(fx("sf:m zf:m af:m pf:m cf:m")),
	x86asm.IN:         op(W, R),
	x86asm.OUT:        op(R, R),
	x86asm.LDS:        op(W, R),
	x86asm.LES:        op(W, R),
	x86asm.LFS:        op(W, R),
	x86asm.LGS:        op(W, R),
	x86asm.LSS:        op(W, R),
	// Stack
	x86asm.PUSH:   op(R).stack(W),
	x86asm.POP:    op(W).stack(R),
	x86asm.PUSHF:  op().stack(W).with(allTested),
	x86asm.PUSHFD: op().stack(W).with(allTested),
	x86asm.PUSHFQ: op().stack(W).with(allTested),
	x86asm.POPF:   op().stack(R).with(allModified),
	x86asm.POPFD:  op().stack(R).with(allModified),
	x86asm.POPFQ:  op().stack(R).with(allModified),
	x86asm.PUSHA:  op().dynamic(legacyRegisters(R)).stack(W),
	x86asm.PUSHAD: op().dynamic(legacyRegisters(R)).stack(W),
	x86asm.POPA:   op().dynamic(legacyRegisters(W)).stack(R),
	x86asm.POPAD:  op().dynamic(legacyRegisters(W)).stack(R),
	x86asm.ENTER:  op(R, R).uses(use(frame, RW)).stack(W),
	x86asm.LEAVE:  op().uses(use(frame, RW)).stack(R),
	// Control flow
	x86asm.JMP:    op(R),
	x86asm.LJMP:   op(R, R),
	x86asm.CALL:   op(R).stack(W).calls(),
	x86asm.LCALL:  op(R, R).stack(W).calls(),
	x86asm.RET:    op(R).stack(R),
	x86asm.LRET:   op(R).stack(R),
	x86asm.IRET:   op().stack(R).with(allModified),
	x86asm.IRETD:  op().stack(R).with(allModified),
	x86asm.IRETQ:  op().stack(R).with(allModified),
	x86asm.JCXZ:   op(R).uses(use(fixed(register.CX), R)),
	x86asm.JECXZ:  op(R).uses(use(fixed(register.ECX), R)),
	x86asm.JRCXZ:  op(R).uses(use(fixed(register.RCX), R)),
	x86asm.LOOP:   op(R).uses(use(counter, RW)),
	x86asm.LOOPE:  op(R).uses(use(counter, RW)).with(ccE),
	x86asm.LOOPNE: op(R).uses(use(counter, RW)).with(ccE),
	x86asm.INT:    op(R).stack(W).with(interruptFlag),
	x86asm.INTO:   op().stack(W).with(merge(interruptFlag, ccO)),
	x86asm.ICEBP:  op().stack(W).with(interruptFlag),
	x86asm.XBEGIN: op(R).uses(use(fixed(register.EAX), CW)),
	x86asm.XABORT: op(R).uses(use(fixed(register.EAX), W)),
	x86asm.XTEST:  op().with(fx("zf:m cf:0 of:0 sf:0 pf:0 af:0")),
	// Flag manipulation
	x86asm.CLC: op().with(fx("cf:0")),
	x86asm.STC: op().with(fx("cf:1")),
	x86asm.CMC: op().with(fx("cf:tm")),
	x86asm.CLD: op().with(fx("df:0")),
	x86asm.STD: op().with(fx("df:1")),
	x86asm.CLI: op().with(fx("if:0")),
	x86asm.STI: op().with(fx("if:1")),
	// String instructions
	x86asm.MOVSB: movs, x86asm.MOVSW: movs, x86asm.MOVSD: movs, x86asm.MOVSQ: movs,
	x86asm.CMPSB: cmps, x86asm.CMPSW: cmps, x86asm.CMPSD: cmps, x86asm.CMPSQ: cmps,
	x86asm.STOSB: stos, x86asm.STOSW: stos, x86asm.STOSD: stos, x86asm.STOSQ: stos,
	x86asm.LODSB: lods, x86asm.LODSW: lods, x86asm.LODSD: lods, x86asm.LODSQ: lods,
	x86asm.SCASB: scas, x86asm.SCASW: scas, x86asm.SCASD: scas, x86asm.SCASQ: scas,
	x86asm.INSB: ins, x86asm.INSW: ins, x86asm.INSD: ins,
	x86asm.OUTSB: outs, x86asm.OUTSW: outs, x86asm.OUTSD: outs,
	x86asm.XLATB:   strop(R).uses(use(fixed(register.AL), RW), use(addressed(register.RBX), R)),
	x86asm.MONITOR: strop().uses(use(addressed(register.RAX), R), use(fixed(register.ECX), R), use(fixed(register.EDX), R)),
	x86asm.MWAIT:   strop().uses(use(fixed(register.EAX), R), use(fixed(register.ECX), R)),
	// System
	x86asm.CPUID: op().uses(
		use(fixed(register.EAX), RW), use(fixed(register.ECX), RW),
		use(fixed(register.EBX), W), use(fixed(register.EDX), W)),
	x86asm.RDTSC: op().uses(use(fixed(register.EAX), W), use(fixed(register.EDX), W)),
	x86asm.RDTSCP: op().uses(
		use(fixed(register.EAX), W), use(fixed(register.EDX), W), use(fixed(register.ECX), W)),
	x86asm.RDPMC: op().uses(
		use(fixed(register.ECX), R), use(fixed(register.EAX), W), use(fixed(register.EDX), W)),
	x86asm.RDMSR: op().uses(
		use(fixed(register.ECX), R), use(fixed(register.EAX), W), use(fixed(register.EDX), W)),
	x86asm.WRMSR: op().uses(
		use(fixed(register.ECX), R), use(fixed(register.EAX), R), use(fixed(register.EDX), R)),
	x86asm.XGETBV: op().uses(
		use(fixed(register.ECX), R), use(fixed(register.EAX), W), use(fixed(register.EDX), W)),
	x86asm.XSETBV: op().uses(
		use(fixed(register.ECX), R), use(fixed(register.EAX), R), use(fixed(register.EDX), R)),
	x86asm.SYSCALL:    op().uses(use(fixed(register.RCX), W), use(fixed(register.R11), W)).with(allModified),
	x86asm.SYSRET:     op().uses(use(fixed(register.RCX), R), use(fixed(register.R11), R)).with(allModified),
	x86asm.SYSENTER:   op().with(interruptFlag),
	x86asm.SYSEXIT:    op().uses(use(fixed(register.ECX), R), use(fixed(register.EDX), R)),
	x86asm.RSM:        op().with(allModified),
	x86asm.RDRAND:     op(W).with(fx("cf:m of:0 sf:0 zf:0 af:0 pf:0")),
	x86asm.RDFSBASE:   op(W),
	x86asm.RDGSBASE:   op(W),
	x86asm.WRFSBASE:   op(R),
	x86asm.WRGSBASE:   op(R),
	x86asm.XSAVE:      xsave, x86asm.XSAVE64: xsave,
	x86asm.XSAVEC:     xsave, x86asm.XSAVEC64: xsave,
	x86asm.XSAVEOPT:   xsave, x86asm.XSAVEOPT64: xsave,
	x86asm.XSAVES:     xsave, x86asm.XSAVES64: xsave,
	x86asm.XRSTOR:     xrstor, x86asm.XRSTOR64: xrstor,
	x86asm.XRSTORS:    xrstor, x86asm.XRSTORS64: xrstor,
	x86asm.SGDT:       op(W),
	x86asm.SIDT:       op(W),
	x86asm.SLDT:       op(W),
	x86asm.SMSW:       op(W),
	x86asm.STR:        op(W),
	x86asm.LLDT:       op(R),
	x86asm.LMSW:       op(R),
	x86asm.LTR:        op(R),
	x86asm.LAR:        op(W, R).with(zeroFlag),
	x86asm.LSL:        op(W, R).with(zeroFlag),
	x86asm.ARPL:       op(RW, R).with(zeroFlag),
	x86asm.VERR:       op(R).with(zeroFlag),
	x86asm.VERW:       op(R).with(zeroFlag),
	x86asm.BOUND:      op(R, R),
	x86asm.INVPCID:    op(R, R),
	x86asm.NOP:        op(),
	x86asm.UD0:        op(),
	x86asm.UD1:        op(),
	x86asm.PREFETCHW:  op(),
	x86asm.CLFLUSH:    op(),
	x86asm.INVLPG:     op(),
	// SSE instructions with general purpose operands
	x86asm.MOVD:       op(W, R),
	x86asm.MOVQ:       op(W, R),
	x86asm.CVTSI2SD:   op(RW, R),
	x86asm.CVTSI2SS:   op(RW, R),
	x86asm.CVTSD2SI:   op(W, R),
	x86asm.CVTTSD2SI:  op(W, R),
	x86asm.CVTSS2SI:   op(W, R),
	x86asm.CVTTSS2SI:  op(W, R),
	x86asm.MOVMSKPD:   op(W, R),
	x86asm.MOVMSKPS:   op(W, R),
	x86asm.PMOVMSKB:   op(W, R),
	x86asm.PEXTRB:     op(W, R, R),
	x86asm.PEXTRD:     op(W, R, R),
	x86asm.PEXTRQ:     op(W, R, R),
	x86asm.PEXTRW:     op(W, R, R),
	x86asm.EXTRACTPS:  op(W, R, R),
	x86asm.PINSRB:     op(RW, R, R),
	x86asm.PINSRD:     op(RW, R, R),
	x86asm.PINSRQ:     op(RW, R, R),
	x86asm.PINSRW:     op(RW, R, R),
	x86asm.COMISD:     op(R, R).with(compareFlags),
	x86asm.COMISS:     op(R, R).with(compareFlags),
	x86asm.UCOMISD:    op(R, R).with(compareFlags),
	x86asm.UCOMISS:    op(R, R).with(compareFlags),
	x86asm.PTEST:      op(R, R).with(fx("zf:m cf:m of:0 sf:0 af:0 pf:0")),
	x86asm.PCMPESTRI:  op(R, R, R).uses(use(fixed(register.EAX), R), use(fixed(register.EDX), R), use(fixed(register.ECX), W)).with(stringCompareFlags),
	x86asm.PCMPESTRM:  op(W, R, R).uses(use(fixed(register.EAX), R), use(fixed(register.EDX), R)).with(stringCompareFlags),
	x86asm.PCMPISTRI:  op(R, R, R).uses(use(fixed(register.ECX), W)).with(stringCompareFlags),
	x86asm.PCMPISTRM:  op(W, R, R).with(stringCompareFlags),
	// x87 instructions which write the status word.  Arithmetic such as FSQRT
	// only reports exceptions, hence is omitted.
	x86asm.FLD:     op(R).fpu(),
	x86asm.FILD:    op(R).fpu(),
	x86asm.FBLD:    op(R).fpu(),
	x86asm.FLD1:    op().fpu(),
	x86asm.FLDZ:    op().fpu(),
	x86asm.FLDPI:   op().fpu(),
	x86asm.FLDL2E:  op().fpu(),
	x86asm.FLDL2T:  op().fpu(),
	x86asm.FLDLG2:  op().fpu(),
	x86asm.FLDLN2:  op().fpu(),
	x86asm.FST:     op(W).fpu(),
	x86asm.FSTP:    op(W).fpu(),
	x86asm.FIST:    op(W).fpu(),
	x86asm.FISTP:   op(W).fpu(),
	x86asm.FISTTP:  op(W).fpu(),
	x86asm.FBSTP:   op(W).fpu(),
	x86asm.FCOM:    op().fpu(),
	x86asm.FCOMP:   op().fpu(),
	x86asm.FCOMPP:  op().fpu(),
	x86asm.FUCOM:   op().fpu(),
	x86asm.FUCOMP:  op().fpu(),
	x86asm.FUCOMPP: op().fpu(),
	x86asm.FICOM:   op().fpu(),
	x86asm.FICOMP:  op().fpu(),
	x86asm.FTST:    op().fpu(),
	x86asm.FXAM:    op().fpu(),
	x86asm.FCOMI:   op().fpu().with(compareFlags),
	x86asm.FCOMIP:  op().fpu().with(compareFlags),
	x86asm.FUCOMI:  op().fpu().with(compareFlags),
	x86asm.FUCOMIP: op().fpu().with(compareFlags),
	x86asm.FADDP:   op(RW, R).fpu(),
	x86asm.FSUBP:   op(RW, R).fpu(),
	x86asm.FSUBRP:  op(RW, R).fpu(),
	x86asm.FMULP:   op(RW, R).fpu(),
	x86asm.FDIVP:   op(RW, R).fpu(),
	x86asm.FDIVRP:  op(RW, R).fpu(),
	x86asm.FFREEP:  op(R).fpu(),
	x86asm.FXCH:    op(RW, RW).fpu(),
	x86asm.FINCSTP: op().fpu(),
	x86asm.FDECSTP: op().fpu(),
	x86asm.FNINIT:  op().fpu(),
	x86asm.FNCLEX:  op().fpu(),
	x86asm.FLDENV:  op(R).fpu(),
	x86asm.FRSTOR:  op(R).fpu(),
	x86asm.FXRSTOR: op(R).fpu(),
	x86asm.FNSAVE:  op(W).fpu(),
	x86asm.FNSTENV: op(W),
	x86asm.FNSTSW:  op(W),
	x86asm.FNSTCW:  op(W),
	x86asm.FLDCW:   op(R),
}

var stringCompareFlags = fx("cf:m zf:m sf:m of:m af:0 pf:0")

// String instructions.  Arguments are the memory operands (and accumulator)
// which x86asm materialises, in Intel order.
var (
	movs = strop(W, R).uses(use(dstIdx, RW), use(srcIdx, RW)).with(directionFlag)
	cmps = strop(R, R).uses(use(srcIdx, RW), use(dstIdx, RW)).with(merge(arithFlags, directionFlag))
	stos = strop(W, R).uses(use(dstIdx, RW)).with(directionFlag)
	lods = strop(W, R).uses(use(srcIdx, RW)).with(directionFlag)
	scas = strop(R, R).uses(use(dstIdx, RW)).with(merge(arithFlags, directionFlag))
	ins  = strop(W, R).uses(use(dstIdx, RW)).with(directionFlag)
	outs = strop(R, R).uses(use(srcIdx, RW)).with(directionFlag)
)

// Extended state save and restore, whose component mask is EDX:EAX.
var (
	xsave  = op(W).uses(use(fixed(register.EAX), R), use(fixed(register.EDX), R))
	xrstor = op(R).uses(use(fixed(register.EAX), R), use(fixed(register.EDX), R))
)

func cmpxchgPair(lo, hi, newLo, newHi register.Register) []implicitReg {
	return []implicitReg{
		use(fixed(lo), RW), use(fixed(hi), RW), use(fixed(newLo), R), use(fixed(newHi), R),
	}
}

// Conditional instructions, grouped by the flags their condition tests.
var conditionals = []struct {
	set, cmov, jump, fcmov x86asm.Op
	flags                  insn.FlagEffects
}{
	{x86asm.SETO, x86asm.CMOVO, x86asm.JO, 0, ccO},
	{x86asm.SETNO, x86asm.CMOVNO, x86asm.JNO, 0, ccO},
	{x86asm.SETB, x86asm.CMOVB, x86asm.JB, x86asm.FCMOVB, ccB},
	{x86asm.SETAE, x86asm.CMOVAE, x86asm.JAE, x86asm.FCMOVNB, ccB},
	{x86asm.SETE, x86asm.CMOVE, x86asm.JE, x86asm.FCMOVE, ccE},
	{x86asm.SETNE, x86asm.CMOVNE, x86asm.JNE, x86asm.FCMOVNE, ccE},
	{x86asm.SETBE, x86asm.CMOVBE, x86asm.JBE, x86asm.FCMOVBE, ccBE},
	{x86asm.SETA, x86asm.CMOVA, x86asm.JA, x86asm.FCMOVNBE, ccBE},
	{x86asm.SETS, x86asm.CMOVS, x86asm.JS, 0, ccS},
	{x86asm.SETNS, x86asm.CMOVNS, x86asm.JNS, 0, ccS},
	{x86asm.SETP, x86asm.CMOVP, x86asm.JP, x86asm.FCMOVU, ccP},
	{x86asm.SETNP, x86asm.CMOVNP, x86asm.JNP, x86asm.FCMOVNU, ccP},
	{x86asm.SETL, x86asm.CMOVL, x86asm.JL, 0, ccL},
	{x86asm.SETGE, x86asm.CMOVGE, x86asm.JGE, 0, ccL},
	{x86asm.SETLE, x86asm.CMOVLE, x86asm.JLE, 0, ccLE},
	{x86asm.SETG, x86asm.CMOVG, x86asm.JG, 0, ccLE},
}

func init() {
	for _, c := range conditionals {
		table[c.set] = op(W).with(c.flags)
		table[c.cmov] = op(RCW, R).with(c.flags)
		table[c.jump] = op(R).with(c.flags)
		//
		if c.fcmov != 0 {
			table[c.fcmov] = op(RW, R).with(c.flags)
		}
	}
}
