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
	"strings"

	"github.com/consensys/go-uilift/pkg/x86/insn"
)

var flagByName = map[string]insn.Flag{
	"cf": insn.CF, "pf": insn.PF, "af": insn.AF, "zf": insn.ZF, "sf": insn.SF,
	"tf": insn.TF, "if": insn.IF, "df": insn.DF, "of": insn.OF,
}

var flagActionByName = map[string]insn.FlagAction{
	"t":  insn.FLAG_TESTED,
	"tm": insn.FLAG_TESTED_MODIFIED,
	"m":  insn.FLAG_MODIFIED,
	"0":  insn.FLAG_SET0,
	"1":  insn.FLAG_SET1,
	"u":  insn.FLAG_UNDEFINED,
}

// fx parses a space separated list of "flag:action" pairs (e.g. "cf:m zf:t")
// into a set of flag effects.  Malformed lists are programming errors, hence
// cause a panic when the semantics table is loaded.
func fx(spec string) insn.FlagEffects {
	var effects insn.FlagEffects
	//
	for _, item := range strings.Fields(spec) {
		name, action, ok := strings.Cut(item, ":")
		flag, fok := flagByName[name]
		act, aok := flagActionByName[action]
		//
		if !ok || !fok || !aok {
			panic(fmt.Sprintf("malformed flag effect %q", item))
		} else if effects[flag] != insn.FLAG_NONE {
			panic(fmt.Sprintf("duplicate flag effect %q", item))
		}
		//
		effects[flag] = act
	}
	//
	return effects
}

// merge combines two sets of flag effects, where the effects of the latter
// take precedence.
func merge(lhs insn.FlagEffects, rhs insn.FlagEffects) insn.FlagEffects {
	for i, a := range rhs {
		if a != insn.FLAG_NONE {
			lhs[i] = a
		}
	}
	//
	return lhs
}

// Common flag effects.
var (
	arithFlags    = fx("of:m sf:m zf:m af:m cf:m pf:m")
	carryFlags    = fx("of:m sf:m zf:m af:m cf:tm pf:m")
	logicFlags    = fx("of:0 sf:m zf:m af:u cf:0 pf:m")
	incDecFlags   = fx("of:m sf:m zf:m af:m pf:m")
	shiftFlags    = fx("of:u sf:m zf:m af:u cf:m pf:m")
	rotateFlags   = fx("of:u cf:m")
	rotateCFlags  = fx("of:u cf:tm")
	mulFlags      = fx("of:m sf:u zf:u af:u cf:m pf:u")
	divFlags      = fx("of:u sf:u zf:u af:u cf:u pf:u")
	bitTestFlags  = fx("of:u sf:u af:u cf:m pf:u")
	bitScanFlags  = fx("of:u sf:u zf:m af:u cf:u pf:u")
	countFlags    = fx("of:0 sf:0 zf:m af:0 cf:m pf:0")
	compareFlags  = fx("of:0 sf:0 zf:m af:0 cf:m pf:m")
	zeroFlag      = fx("zf:m")
	allTested     = fx("cf:t pf:t af:t zf:t sf:t tf:t if:t df:t of:t")
	allModified   = fx("cf:m pf:m af:m zf:m sf:m tf:m if:m df:m of:m")
	directionFlag = fx("df:t")
	interruptFlag = fx("tf:0 if:0")
	bcdFlags      = fx("of:u sf:u zf:u af:m cf:m pf:u")
	decimalFlags  = fx("of:u sf:m zf:m af:m cf:m pf:m")
	asciiFlags    = fx("of:u sf:m zf:m af:u cf:u pf:m")
)

// Flags tested by each condition code.
var (
	ccO  = fx("of:t")
	ccB  = fx("cf:t")
	ccE  = fx("zf:t")
	ccBE = fx("cf:t zf:t")
	ccS  = fx("sf:t")
	ccP  = fx("pf:t")
	ccL  = fx("sf:t of:t")
	ccLE = fx("zf:t sf:t of:t")
)
