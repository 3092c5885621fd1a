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
	"errors"
	"fmt"
	"regexp"
	"slices"
	"strings"

	"github.com/consensys/go-uilift/pkg/x86/insn"
	"github.com/consensys/go-uilift/pkg/x86/register"
	log "github.com/sirupsen/logrus"
	"golang.org/x/arch/x86/x86asm"
)

// Mode identifies the processor mode in which bytes are decoded.
type Mode uint

const (
	// Mode32 is 32-bit protected mode.
	Mode32 Mode = 32
	// Mode64 is 64-bit long mode.
	Mode64 Mode = 64
)

// Valid determines whether this is a supported mode.
func (m Mode) Valid() bool {
	return m == Mode32 || m == Mode64
}

// Bits returns the width of this mode in bits.
func (m Mode) Bits() uint {
	return uint(m)
}

func (m Mode) String() string {
	return fmt.Sprintf("%d-bit", uint(m))
}

// ErrEmptyInput is reported when decoding an empty byte sequence.
var ErrEmptyInput = errors.New("empty input")

// ErrNoOperandInfo is reported when an instruction with general purpose
// register operands has no entry in the operand access table.  Without it,
// the direction in which registers flow cannot be determined.
var ErrNoOperandInfo = errors.New("no operand access information")

// ErrNoText is reported when the disassembler produces no usable text.
var ErrNoText = errors.New("no disassembly text")

// Decoder decodes x86 machine code in a fixed processor mode.
type Decoder struct {
	mode Mode
}

// New constructs a decoder for a given mode.
func New(mode Mode) (*Decoder, error) {
	if !mode.Valid() {
		return nil, fmt.Errorf("unsupported mode %d", uint(mode))
	}
	//
	return &Decoder{mode}, nil
}

// Mode returns the mode of this decoder.
func (p *Decoder) Mode() Mode {
	return p.mode
}

// Decode the first instruction in a given byte sequence.  Trailing bytes
// beyond the end of that instruction are ignored.
func (p *Decoder) Decode(bytes []byte) (*insn.Instruction, error) {
	if len(bytes) == 0 {
		return nil, ErrEmptyInput
	}
	//
	inst, err := x86asm.Decode(bytes, int(p.mode))
	if err != nil {
		return nil, err
	} else if inst.Op == 0 {
		return nil, x86asm.ErrUnrecognized
	}
	//
	args := arguments(&inst)
	//
	sem, ok := table[inst.Op]
	if !ok {
		if hasGeneralPurpose(args) {
			return nil, fmt.Errorf("%w for %s", ErrNoOperandInfo, mnemonic(inst.Op))
		}
		// Registers other than general purpose registers never take part in
		// wrapper synthesis, hence treating them as read is safe.
		log.Debugf("no operand access information for %s, assuming read-only", mnemonic(inst.Op))
	}
	//
	ctx := context{len(args), operandWidth(&inst, args), uint(inst.AddrSize), p.mode.Bits()}
	//
	result := &insn.Instruction{
		Mnemonic: mnemonic(inst.Op),
		Mode:     p.mode.Bits(),
		Bytes:    slices.Clone(bytes[:inst.Len]),
		Flags:    sem.flags,
	}
	//
	if sem.call {
		result.Category = insn.CALL_CATEGORY
	}
	//
	for _, arg := range args {
		if _, ok := arg.(x86asm.Rel); ok {
			result.Relative = true
		}
	}
	// Arguments materialised by x86asm
	result.Operands = p.argumentOperands(&inst, &sem, args)
	// Implicit registers
	if sem.implicit != nil {
		result.Operands = append(result.Operands, sem.implicit(&ctx)...)
	}
	// Repeated string instructions also consume the counter.
	if sem.hidden && (hasPrefix(&inst, x86asm.PrefixREP) || hasPrefix(&inst, x86asm.PrefixREPN)) {
		result.Operands = append(result.Operands, insn.NewRegister(counter(&ctx), insn.HIDDEN, RW))
	}
	// Stack memory
	if sem.memory != insn.NO_ACTION {
		mem := insn.Memory{Segment: register.SS, Base: register.RSP.View(ctx.mode)}
		result.Operands = append(result.Operands, insn.NewMemory(mem, ctx.mode, insn.HIDDEN, sem.memory))
	}
	// Flags register
	if action := flagsAccess(&sem.flags); action != insn.NO_ACTION {
		result.Operands = append(result.Operands, insn.NewRegister(p.flagsRegister(), insn.HIDDEN, action))
	}
	// x87 status word
	if sem.x87 {
		result.Operands = append(result.Operands, insn.NewRegister(register.X87STATUS, insn.HIDDEN, W))
	}
	//
	return result, nil
}

// Format renders a decoded instruction as text in a given dialect, in a form
// accepted by the LLVM integrated assembler.  The address is used only to
// render position relative operands (e.g. branch targets), which are always
// rendered as absolute targets.
func (p *Decoder) Format(inst *insn.Instruction, address uint64, dialect insn.Dialect) (string, error) {
	var text string
	// Decode again, since x86asm renders only its own representation.
	x, err := x86asm.Decode(inst.Bytes, int(inst.Mode))
	if err != nil {
		return "", err
	}
	//
	switch dialect {
	case insn.ATT:
		text = x86asm.GNUSyntax(x, address, nil)
	default:
		text = x86asm.IntelSyntax(x, address, nil)
	}
	//
	if text = strings.TrimSpace(text); text == "" || text == "<no instruction>" {
		return "", ErrNoText
	}
	// Without an address, x86asm renders targets relative to the end of the
	// instruction, whereas the assembler reads "." as its start.
	if address == 0 {
		text = absoluteTargets(&x, text)
	}
	//
	if dialect == insn.INTEL {
		text = intelRegisters(&x, text)
	}
	//
	return text, nil
}

// Replace each ".+rel" target with the absolute target of an instruction
// located at address zero.
func absoluteTargets(x *x86asm.Inst, text string) string {
	for _, arg := range arguments(x) {
		if rel, ok := arg.(x86asm.Rel); ok {
			target := uint64(x.Len) + uint64(int64(rel))
			//
			if x.Mode == 32 {
				target = uint64(uint32(target))
			}
			//
			text = strings.Replace(text, fmt.Sprintf(".%+#x", int64(rel)), fmt.Sprintf("%#x", target), 1)
		}
	}
	//
	return text
}

var (
	x87Register = regexp.MustCompile(`\bst([0-7])\b`)
	mmxRegister = regexp.MustCompile(`\bmmx([0-7])\b`)
)

// x87 instructions whose implicit st0 operand x86asm renders after their
// encoded operand, rather than before.
var x87Trailing = map[x86asm.Op]bool{
	x86asm.FST: true, x86asm.FSTP: true, x86asm.FISTTP: true, x86asm.FIST: true, x86asm.FISTP: true,
	x86asm.FBSTP: true,
}

// Rewrite the register names of an Intel rendering which the assembler does
// not accept.  x86asm names x87 registers st0..st7 and mmx registers
// mmx0..mmx7, and renders the implicit stack top of x87 instructions as an
// extra operand.  The assembler expects st(0)..st(7), mm0..mm7 and no
// implicit operands.
func intelRegisters(x *x86asm.Inst, text string) string {
	if isX87(x) {
		text = dropImplicitStackTop(x, text)
		text = x87Register.ReplaceAllString(text, "st($1)")
	}
	//
	return mmxRegister.ReplaceAllString(text, "mm$1")
}

// Remove those operands of an x87 rendering which x86asm adds on top of the
// decoded arguments.
func dropImplicitStackTop(x *x86asm.Inst, text string) string {
	name := strings.ToLower(x.Op.String())
	index := strings.Index(text, name)
	//
	if index < 0 {
		return text
	}
	//
	head := text[:index+len(name)]
	tail := strings.TrimSpace(text[index+len(name):])
	//
	if tail == "" {
		return text
	}
	//
	var (
		operands = strings.Split(tail, ", ")
		decoded  = len(arguments(x))
	)
	//
	switch {
	case len(operands) <= decoded:
		return text
	case decoded == 0:
		return head
	case x87Trailing[x.Op]:
		operands = operands[:decoded]
	default:
		operands = operands[len(operands)-decoded:]
	}
	//
	return head + " " + strings.Join(operands, ", ")
}

// x87 instructions are those with escape opcodes d8 to df.
func isX87(x *x86asm.Inst) bool {
	opcode := x.Opcode >> 24
	return opcode >= 0xd8 && opcode <= 0xdf
}

func (p *Decoder) flagsRegister() register.Register {
	if p.mode == Mode64 {
		return register.RFLAGS
	}
	//
	return register.EFLAGS
}

func (p *Decoder) argumentOperands(inst *x86asm.Inst, sem *semantics, args []x86asm.Arg) []insn.Operand {
	var (
		operands   []insn.Operand
		visibility = insn.EXPLICIT
	)
	//
	if sem.hidden {
		visibility = insn.IMPLICIT
	}
	// Far pointer immediates (e.g. "call far 0x10:0x1000") form a single
	// pointer operand.
	if (inst.Op == x86asm.LCALL || inst.Op == x86asm.LJMP) && len(args) == 2 && isImmediate(args[0]) &&
		isImmediate(args[1]) {
		return []insn.Operand{{Kind: insn.POINTER_OPERAND, Visibility: visibility, Action: R,
			Width: uint(inst.DataSize) + 16}}
	}
	//
	for i, arg := range args {
		action := sem.access(i, len(args))
		//
		switch a := arg.(type) {
		case x86asm.Reg:
			operands = append(operands, insn.NewRegister(translate(a), visibility, action))
		case x86asm.Mem:
			mem := insn.Memory{
				Segment: translate(a.Segment),
				Base:    translate(a.Base),
				Index:   translate(a.Index),
				Scale:   a.Scale,
				Disp:    a.Disp,
			}
			operands = append(operands, insn.NewMemory(mem, uint(inst.MemBytes)*8, visibility, action))
		case x86asm.Imm:
			operands = append(operands, insn.NewImmediate(uint(inst.DataSize)))
		case x86asm.Rel:
			operands = append(operands, insn.NewImmediate(uint(inst.Mode)))
		}
	}
	//
	return operands
}

// extract the non-nil arguments of an instruction.
func arguments(inst *x86asm.Inst) []x86asm.Arg {
	var args []x86asm.Arg
	//
	for _, arg := range inst.Args {
		if arg == nil {
			break
		}
		//
		args = append(args, arg)
	}
	//
	return args
}

func hasGeneralPurpose(args []x86asm.Arg) bool {
	for _, arg := range args {
		if reg, ok := arg.(x86asm.Reg); ok && translate(reg).IsGeneralPurpose() {
			return true
		}
	}
	//
	return false
}

func isImmediate(arg x86asm.Arg) bool {
	_, ok := arg.(x86asm.Imm)
	return ok
}

// Determine the width of the operation.  This is the width of the first
// general purpose register argument, the memory width, or the data size (in
// that order).
func operandWidth(inst *x86asm.Inst, args []x86asm.Arg) uint {
	for _, arg := range args {
		if reg, ok := arg.(x86asm.Reg); ok && translate(reg).IsGeneralPurpose() {
			return translate(reg).Width()
		}
	}
	//
	for _, arg := range args {
		if _, ok := arg.(x86asm.Mem); ok && inst.MemBytes > 0 {
			return uint(inst.MemBytes) * 8
		}
	}
	//
	return uint(inst.DataSize)
}

func hasPrefix(inst *x86asm.Inst, prefix x86asm.Prefix) bool {
	for _, p := range inst.Prefix {
		if p == 0 {
			break
		} else if p&0xFF == prefix && p&x86asm.PrefixIgnored == 0 {
			return true
		}
	}
	//
	return false
}

// Determine how the flags register as a whole is accessed.
func flagsAccess(flags *insn.FlagEffects) insn.Action {
	var action insn.Action
	//
	if flags.Tested() {
		action |= insn.READ
	}
	//
	if flags.Modified() {
		action |= insn.WRITE
	}
	//
	return action
}

// mnemonic returns the lower case mnemonic of an opcode, without the suffix
// x86asm uses to disambiguate SSE opcodes from string opcodes.
func mnemonic(op x86asm.Op) string {
	return strings.TrimSuffix(strings.ToLower(op.String()), "_xmm")
}
