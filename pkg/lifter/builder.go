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
	"github.com/consensys/go-uilift/pkg/lifter/layout"
	"github.com/consensys/go-uilift/pkg/x86/insn"
	"github.com/consensys/go-uilift/pkg/x86/register"
	"github.com/llir/llvm/ir"
	"github.com/llir/llvm/ir/constant"
	"github.com/llir/llvm/ir/enum"
	"github.com/llir/llvm/ir/types"
	"github.com/llir/llvm/ir/value"
)

// Build the wrapper function for a prepared instruction.  Every register is
// located before anything is added to the module, hence on error the module is
// left untouched.
func (p *Lifter) Build(w *Wrapper) (*ir.Func, error) {
	inputs, err := p.locate(w, w.Plan.Inputs)
	if err != nil {
		return nil, err
	}
	//
	outputs, err := p.locate(w, w.Plan.Outputs)
	if err != nil {
		return nil, err
	}
	//
	ctx := ir.NewParam("ctx", types.NewPointer(p.context))
	fn := p.module.NewFunc(w.Name, types.Void, ctx)
	fn.FuncAttrs = append(fn.FuncAttrs, enum.FuncAttrAlwaysInline)
	entry := fn.NewBlock("entry")
	// Load inputs
	args := make([]value.Value, len(inputs))
	params := make([]types.Type, len(inputs))
	//
	for i, loc := range inputs {
		params[i] = types.NewInt(uint64(loc.Width))
		args[i] = entry.NewLoad(params[i], p.address(entry, ctx, loc))
	}
	// Execute
	asm := ir.NewInlineAsm(types.NewPointer(types.NewFunc(resultType(outputs), params...)), w.Template,
		w.Plan.Constraint())
	asm.SideEffect = true
	asm.IntelDialect = w.Dialect == insn.INTEL
	//
	call := entry.NewCall(asm, args...)
	call.FuncAttrs = append(call.FuncAttrs, enum.FuncAttrNoUnwind)
	// Store outputs
	switch len(outputs) {
	case 0:
	case 1:
		p.store(entry, ctx, call, outputs[0])
	default:
		for i, loc := range outputs {
			p.store(entry, ctx, entry.NewExtractValue(call, uint64(i)), loc)
		}
	}
	//
	entry.NewRet(nil)
	//
	return fn, nil
}

func (p *Lifter) locate(w *Wrapper, regs []register.Register) ([]layout.Location, error) {
	locations := make([]layout.Location, len(regs))
	//
	for i, reg := range regs {
		loc, err := p.layout.Lookup(reg)
		if err != nil {
			return nil, &UnknownRegisterError{w.Instruction.Mnemonic, reg, err}
		}
		//
		locations[i] = loc
	}
	//
	return locations, nil
}

// Compute the address of a given location within the register file.
func (p *Lifter) address(block *ir.Block, ctx value.Value, loc layout.Location) value.Value {
	slot := p.slot(block, ctx, loc.Index)
	//
	if loc.Offset == 0 && loc.Width == p.layout.SlotWidth() {
		return slot
	} else if loc.Offset == 0 {
		return block.NewBitCast(slot, types.NewPointer(types.NewInt(uint64(loc.Width))))
	}
	// Sub-slot offsets are in bytes
	bytes := block.NewBitCast(slot, types.NewPointer(types.I8))
	ptr := block.NewGetElementPtr(types.I8, bytes, constant.NewInt(types.I64, int64(loc.Offset)))
	ptr.InBounds = true
	//
	if loc.Width == 8 {
		return ptr
	}
	//
	return block.NewBitCast(ptr, types.NewPointer(types.NewInt(uint64(loc.Width))))
}

func (p *Lifter) slot(block *ir.Block, ctx value.Value, index uint) value.Value {
	ptr := block.NewGetElementPtr(p.context, ctx, constant.NewInt(types.I64, 0),
		constant.NewInt(types.I32, int64(index)))
	ptr.InBounds = true
	//
	return ptr
}

func (p *Lifter) store(block *ir.Block, ctx value.Value, val value.Value, loc layout.Location) {
	// A 32-bit write in 64-bit mode clears the upper half of the register.
	if loc.Width == 32 && p.layout.SlotWidth() == 64 {
		block.NewStore(block.NewZExt(val, types.I64), p.slot(block, ctx, loc.Index))
		return
	}
	//
	block.NewStore(val, p.address(block, ctx, loc))
}

// Result type of the inline assembly, which is void, a single integer or a
// structure of integers.
func resultType(outputs []layout.Location) types.Type {
	switch len(outputs) {
	case 0:
		return types.Void
	case 1:
		return types.NewInt(uint64(outputs[0].Width))
	}
	//
	fields := make([]types.Type, len(outputs))
	//
	for i, loc := range outputs {
		fields[i] = types.NewInt(uint64(loc.Width))
	}
	//
	return types.NewStruct(fields...)
}
