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
	"strings"

	"github.com/consensys/go-uilift/pkg/x86/register"
)

// Plan determines how the registers of an instruction are bound to the
// operands of the inline assembly.  Outputs come first, followed by inputs,
// hence the operand number of the ith input is len(Outputs)+i.
type Plan struct {
	// Inputs in operand order.
	Inputs []register.Register
	// Outputs in operand order.
	Outputs []register.Register
	// Constraints holds one token per output, then one per input, then the
	// clobbers.
	Constraints []string
	// Substitutions lists the explicit registers which are replaced by
	// placeholders in the instruction text.  The Kth entry becomes operand
	// IndexOffset+K.
	Substitutions []register.Register
	// IndexOffset is the number of outputs bound to fixed locations, which
	// precede any substituted operand.
	IndexOffset uint
}

// NewPlan constructs the operand plan for a given (disjoint) set of roles.
func NewPlan(roles *Roles) *Plan {
	var (
		plan   Plan
		inputs []string
	)
	// Outputs bound to fixed locations
	for _, reg := range roles.ExplicitWrite.ToArray() {
		plan.output(reg, fixed("=", reg))
	}
	//
	for _, reg := range roles.ImplicitReadWrite.ToArray() {
		plan.output(reg, fixed("=", reg))
	}
	//
	for _, reg := range roles.ImplicitWrite.ToArray() {
		plan.output(reg, fixed("=", reg))
	}
	//
	plan.IndexOffset = uint(len(plan.Outputs))
	// Outputs allocated by the assembler, which are also inputs.
	for _, reg := range roles.ExplicitReadWrite.ToArray() {
		plan.output(reg, "=r")
		plan.Substitutions = append(plan.Substitutions, reg)
	}
	// Inputs allocated by the assembler.
	for _, reg := range roles.ExplicitRead.ToArray() {
		inputs = plan.input(inputs, reg, "r")
		plan.Substitutions = append(plan.Substitutions, reg)
	}
	// Implicit read-write registers are tied to their own output.
	for i, reg := range roles.ImplicitReadWrite.ToArray() {
		tie := roles.ExplicitWrite.Len() + i
		inputs = plan.input(inputs, reg, fmt.Sprintf("%d", tie))
	}
	//
	for _, reg := range roles.ImplicitRead.ToArray() {
		inputs = plan.input(inputs, reg, fixed("", reg))
	}
	// Explicit read-write registers are tied to their own output.
	for i, reg := range roles.ExplicitReadWrite.ToArray() {
		tie := plan.IndexOffset + uint(i)
		inputs = plan.input(inputs, reg, fmt.Sprintf("%d", tie))
	}
	//
	plan.Constraints = append(plan.Constraints, inputs...)
	plan.Constraints = append(plan.Constraints, roles.Clobbers...)
	//
	return &plan
}

// Constraint returns the constraint string of this plan.
func (p *Plan) Constraint() string {
	return strings.Join(p.Constraints, ",")
}

// Operand returns the operand number of the Kth substituted register.
func (p *Plan) Operand(k int) uint {
	return p.IndexOffset + uint(k)
}

func (p *Plan) output(reg register.Register, constraint string) {
	p.Outputs = append(p.Outputs, reg)
	p.Constraints = append(p.Constraints, constraint)
}

func (p *Plan) input(constraints []string, reg register.Register, constraint string) []string {
	p.Inputs = append(p.Inputs, reg)
	return append(constraints, constraint)
}

// Constraint binding a value to a given register, e.g. "={eax}".
func fixed(prefix string, reg register.Register) string {
	return fmt.Sprintf("%s{%s}", prefix, reg.Name())
}
