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
	"errors"
	"testing"

	"github.com/consensys/go-uilift/pkg/util/assert"
	"github.com/consensys/go-uilift/pkg/x86/register"
	"github.com/llir/llvm/ir/types"
)

func Test_Layout_00(t *testing.T) {
	layout := newLayout(t, 64)
	//
	assert.Equal(t, uint(16), layout.Slots())
	assert.Equal(t, uint(64), layout.SlotWidth())
	//
	checkLocation(t, layout, register.RAX, 0, 0, 64)
	checkLocation(t, layout, register.EBX, 1, 0, 32)
	checkLocation(t, layout, register.CX, 2, 0, 16)
	checkLocation(t, layout, register.DL, 3, 0, 8)
	checkLocation(t, layout, register.SIL, 4, 0, 8)
	checkLocation(t, layout, register.EDI, 5, 0, 32)
	checkLocation(t, layout, register.RSP, 6, 0, 64)
	checkLocation(t, layout, register.BP, 7, 0, 16)
	checkLocation(t, layout, register.R8, 8, 0, 64)
	checkLocation(t, layout, register.R15B, 15, 0, 8)
}

func Test_Layout_01(t *testing.T) {
	// Legacy high byte registers
	layout := newLayout(t, 64)
	//
	checkLocation(t, layout, register.AH, 0, 1, 8)
	checkLocation(t, layout, register.BH, 1, 1, 8)
	checkLocation(t, layout, register.CH, 2, 1, 8)
	checkLocation(t, layout, register.DH, 3, 1, 8)
}

func Test_Layout_02(t *testing.T) {
	layout := newLayout(t, 32)
	//
	assert.Equal(t, uint(8), layout.Slots())
	assert.Equal(t, uint(32), layout.SlotWidth())
	//
	checkLocation(t, layout, register.EAX, 0, 0, 32)
	checkLocation(t, layout, register.AH, 0, 1, 8)
	checkLocation(t, layout, register.EBP, 7, 0, 32)
	// Outside the 32-bit register file
	checkUnknown(t, layout, register.RAX)
	checkUnknown(t, layout, register.R8D)
	checkUnknown(t, layout, register.R12W)
	// Low bytes which need a REX prefix
	checkUnknown(t, layout, register.SPL)
	checkUnknown(t, layout, register.BPL)
	checkUnknown(t, layout, register.SIL)
	checkUnknown(t, layout, register.DIL)
	checkLocation(t, layout, register.SI, 4, 0, 16)
	checkLocation(t, layout, register.BL, 1, 0, 8)
}

func Test_Layout_03(t *testing.T) {
	// Registers other than general purpose registers have no location.
	layout := newLayout(t, 64)
	//
	checkUnknown(t, layout, register.NONE)
	checkUnknown(t, layout, register.RFLAGS)
	checkUnknown(t, layout, register.XMM0)
	checkUnknown(t, layout, register.ST0)
	checkUnknown(t, layout, register.FS)
	checkUnknown(t, layout, register.OTHER)
}

func Test_Layout_04(t *testing.T) {
	// Views of the same physical register share a slot, and lookups are stable.
	for _, bits := range []uint{32, 64} {
		first := newLayout(t, bits)
		second := newLayout(t, bits)
		//
		for _, reg := range first.Registers() {
			lhs, _ := first.Lookup(reg)
			rhs, _ := second.Lookup(reg)
			base, _ := first.Lookup(reg.View(bits))
			//
			assert.Equal(t, lhs, rhs)
			assert.Equal(t, base.Index, lhs.Index)
		}
	}
}

func Test_Layout_05(t *testing.T) {
	// Every general purpose register has a location in 64-bit mode.
	layout := newLayout(t, 64)
	//
	for _, reg := range register.All() {
		if reg.IsGeneralPurpose() {
			_, err := layout.Lookup(reg)
			assert.NoError(t, err)
		}
	}
	//
	assert.Equal(t, 4*16+4, len(layout.Registers()))
}

func Test_Layout_06(t *testing.T) {
	layout := newLayout(t, 32)
	st := layout.StructType()
	//
	assert.Equal(t, 8, len(st.Fields))
	//
	for _, field := range st.Fields {
		assert.True(t, field.Equal(types.I32), "unexpected field %s", field)
	}
}

func Test_Layout_Invalid_00(t *testing.T) {
	_, err := New(16)
	assert.True(t, err != nil, "expected error")
}

// ===================================================================
// Test Helpers
// ===================================================================

func newLayout(t *testing.T, bits uint) *Layout {
	layout, err := New(bits)
	assert.NoError(t, err)
	//
	return layout
}

func checkLocation(t *testing.T, layout *Layout, reg register.Register, index, offset, width uint) {
	loc, err := layout.Lookup(reg)
	assert.NoError(t, err)
	assert.Equal(t, Location{index, offset, width}, loc, "location of %s", reg)
}

func checkUnknown(t *testing.T, layout *Layout, reg register.Register) {
	var unknown *UnknownRegisterError
	//
	_, err := layout.Lookup(reg)
	assert.True(t, errors.As(err, &unknown), "expected unknown register %s", reg)
	assert.Equal(t, reg, unknown.Register)
}
