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
	"fmt"

	"github.com/consensys/go-uilift/pkg/x86/register"
	"golang.org/x/arch/x86/x86asm"
)

// Translation from x86asm register identities to ours.  Control, debug, task
// and descriptor table registers all translate to OTHER.
var registerMap map[x86asm.Reg]register.Register

func init() {
	registerMap = make(map[x86asm.Reg]register.Register)
	// General purpose registers
	mapRange(x86asm.AL, register.AL, 20)
	mapRange(x86asm.AX, register.AX, 16)
	mapRange(x86asm.EAX, register.EAX, 16)
	mapRange(x86asm.RAX, register.RAX, 16)
	// Instruction pointer
	mapRange(x86asm.IP, register.IP, 1)
	mapRange(x86asm.EIP, register.EIP, 1)
	mapRange(x86asm.RIP, register.RIP, 1)
	// x87, MMX and SSE registers
	mapRange(x86asm.F0, register.ST0, 8)
	mapRange(x86asm.M0, register.MM0, 8)
	mapRange(x86asm.X0, register.XMM0, 16)
	// Segment registers
	mapRange(x86asm.ES, register.ES, 6)
	// Sanity check a few registers whose names differ between the two
	// enumerations, such that any reordering upstream is caught at load time.
	checkMapping(x86asm.SPB, register.SPL)
	checkMapping(x86asm.DIB, register.DIL)
	checkMapping(x86asm.R8L, register.R8D)
	checkMapping(x86asm.R15, register.R15)
	checkMapping(x86asm.GS, register.GS)
}

func mapRange(from x86asm.Reg, to register.Register, n int) {
	for i := 0; i < n; i++ {
		registerMap[from+x86asm.Reg(i)] = to + register.Register(i)
	}
}

func checkMapping(from x86asm.Reg, expected register.Register) {
	if actual := registerMap[from]; actual != expected {
		panic(fmt.Sprintf("register %s maps to %s, expected %s", from, actual, expected))
	}
}

// translate an x86asm register into ours.
func translate(reg x86asm.Reg) register.Register {
	if reg == 0 {
		return register.NONE
	} else if r, ok := registerMap[reg]; ok {
		return r
	}
	//
	return register.OTHER
}
