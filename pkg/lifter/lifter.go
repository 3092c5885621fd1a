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
	"fmt"

	"github.com/consensys/go-uilift/pkg/lifter/layout"
	"github.com/consensys/go-uilift/pkg/x86/decoder"
	"github.com/consensys/go-uilift/pkg/x86/insn"
	"github.com/llir/llvm/ir"
	"github.com/llir/llvm/ir/types"
	log "github.com/sirupsen/logrus"
)

// CONTEXT_TYPE is the name of the register file type in the destination
// module.
const CONTEXT_TYPE = "ContextTy"

// Decoder decodes raw bytes into instructions and renders them as text.
type Decoder interface {
	Decode(bytes []byte) (*insn.Instruction, error)
	Format(inst *insn.Instruction, address uint64, dialect insn.Dialect) (string, error)
}

// Config is the immutable configuration of a lifter.
type Config struct {
	// Mode determines the processor mode, and hence the register file.
	Mode decoder.Mode
	// Debug reports each operand plan.
	Debug bool
}

// Wrapper captures everything needed to build the wrapper function of a single
// instruction.
type Wrapper struct {
	// Name of the wrapper function.
	Name string
	// Instruction being wrapped.
	Instruction *insn.Instruction
	// Dialect of the template.
	Dialect insn.Dialect
	// Text of the instruction, as rendered by the decoder.
	Text     string
	Roles    *Roles
	Plan     *Plan
	Template string
}

// Lifter constructs wrapper functions which execute a single machine
// instruction natively against a register file held in memory.  Every wrapper
// is added to the destination module given at construction.  A lifter is not
// safe for concurrent use, since the module is not.
type Lifter struct {
	config  Config
	module  *ir.Module
	decoder Decoder
	layout  *layout.Layout
	// Register file type
	context types.Type
}

// New constructs a lifter for a given destination module, using the x86
// decoder for the configured mode.
func New(module *ir.Module, config Config) (*Lifter, error) {
	dec, err := decoder.New(config.Mode)
	if err != nil {
		return nil, err
	}
	//
	return NewWithDecoder(module, config, dec)
}

// NewWithDecoder constructs a lifter for a given destination module, using a
// given decoder.
func NewWithDecoder(module *ir.Module, config Config, dec Decoder) (*Lifter, error) {
	regfile, err := layout.New(config.Mode.Bits())
	if err != nil {
		return nil, err
	}
	//
	context, err := contextType(module, regfile)
	if err != nil {
		return nil, err
	}
	//
	return &Lifter{config, module, dec, regfile, context}, nil
}

// Module returns the destination module.
func (p *Lifter) Module() *ir.Module {
	return p.module
}

// Layout returns the register file layout.
func (p *Lifter) Layout() *layout.Layout {
	return p.layout
}

// Config returns the configuration of this lifter.
func (p *Lifter) Config() Config {
	return p.config
}

// Lift the instruction encoded by a given byte sequence into a wrapper
// function.
func (p *Lifter) Lift(bytes []byte) (*ir.Func, error) {
	return p.LiftAt(bytes, 0)
}

// LiftAt lifts the instruction encoded by a given byte sequence, located at a
// given address.  The address affects only the text of position relative
// operands.
func (p *Lifter) LiftAt(bytes []byte, address uint64) (*ir.Func, error) {
	w, err := p.Prepare(bytes, address)
	if err != nil {
		return nil, err
	}
	//
	return p.Build(w)
}

// Prepare the wrapper of a given instruction, without modifying the
// destination module.
func (p *Lifter) Prepare(bytes []byte, address uint64) (*Wrapper, error) {
	inst, err := p.decoder.Decode(bytes)
	if err != nil {
		return nil, &DecodeError{bytes, err}
	}
	// The embedding requires AT&T syntax for calls.
	dialect := insn.INTEL
	if inst.Category == insn.CALL_CATEGORY {
		dialect = insn.ATT
	}
	//
	text, err := p.decoder.Format(inst, address, dialect)
	if err != nil {
		return nil, &FormatError{inst.Mnemonic, err}
	}
	//
	log.Debugf("lifting %s", text)
	//
	roles := Classify(inst)
	plan := NewPlan(roles)
	w := &Wrapper{
		Name:        wrapperName(inst, address),
		Instruction: inst,
		Dialect:     dialect,
		Text:        text,
		Roles:       roles,
		Plan:        plan,
		Template:    Rewrite(text, plan),
	}
	//
	if p.config.Debug {
		report(w)
	}
	//
	return w, nil
}

// Name of the wrapper for an instruction at a given address.  The address is
// part of the name only when it affects the instruction text.
func wrapperName(inst *insn.Instruction, address uint64) string {
	if inst.Relative {
		return fmt.Sprintf("Unsupported_%s_%s_%x", inst.Mnemonic, inst.Hex(), address)
	}
	//
	return fmt.Sprintf("Unsupported_%s_%s", inst.Mnemonic, inst.Hex())
}

func report(w *Wrapper) {
	log.WithFields(log.Fields{
		"explicit_read":       w.Roles.ExplicitRead.ToArray(),
		"explicit_write":      w.Roles.ExplicitWrite.ToArray(),
		"explicit_read_write": w.Roles.ExplicitReadWrite.ToArray(),
		"implicit_read":       w.Roles.ImplicitRead.ToArray(),
		"implicit_write":      w.Roles.ImplicitWrite.ToArray(),
		"implicit_read_write": w.Roles.ImplicitReadWrite.ToArray(),
	}).Infof("%s roles", w.Name)
	//
	log.WithFields(log.Fields{
		"substitutions": w.Plan.Substitutions,
		"constraint":    w.Plan.Constraint(),
		"index_offset":  w.Plan.IndexOffset,
		"template":      w.Template,
	}).Infof("%s plan", w.Name)
}

// Find or define the register file type in a given module.  Lifters sharing a
// module share the type, provided they agree on its layout.
func contextType(module *ir.Module, regfile *layout.Layout) (types.Type, error) {
	for _, t := range module.TypeDefs {
		if t.Name() != CONTEXT_TYPE {
			continue
		} else if st, ok := t.(*types.StructType); ok && sameFields(st, regfile.StructType()) {
			return t, nil
		}
		//
		return nil, fmt.Errorf("%s already defined with a different layout", CONTEXT_TYPE)
	}
	//
	return module.NewTypeDef(CONTEXT_TYPE, regfile.StructType()), nil
}

func sameFields(lhs, rhs *types.StructType) bool {
	if len(lhs.Fields) != len(rhs.Fields) {
		return false
	}
	//
	for i := range lhs.Fields {
		if !lhs.Fields[i].Equal(rhs.Fields[i]) {
			return false
		}
	}
	//
	return true
}
