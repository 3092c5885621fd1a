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

	"github.com/consensys/go-uilift/pkg/util/source/lex"
	"github.com/consensys/go-uilift/pkg/x86/register"
)

// Token kinds of disassembly text.
const (
	WORD uint = iota
	NUMBER
	OTHER
)

var (
	letter = lex.Or(lex.Within('a', 'z'), lex.Within('A', 'Z'), lex.Unit('_'))
	digit  = lex.Within('0', '9')
	// Identifiers, including AT&T registers (e.g. "%eax").
	word = lex.Or(
		lex.SequenceNullableLast(lex.Unit('%'), letter, lex.Many(lex.Or(letter, digit))),
		lex.SequenceNullableLast(letter, lex.Many(lex.Or(letter, digit))))
	// Numbers absorb any trailing letters (e.g. "0x8") so that these are never
	// mistaken for identifiers.
	number = lex.SequenceNullableLast(digit, lex.Many(lex.Or(letter, digit)))
)

var textRules = []lex.LexRule[rune]{
	lex.Rule(word, WORD),
	lex.Rule(number, NUMBER),
	lex.Rule(lex.Any[rune](), OTHER),
}

// Rewrite the text of an instruction into an inline assembly template.  Every
// occurrence of a substituted register becomes the placeholder of its operand
// (e.g. "$1").  Registers are matched as whole words, so "r8" never matches
// within "r8d".  Any literal "$" (e.g. an AT&T immediate) is escaped.
func Rewrite(text string, plan *Plan) string {
	var (
		builder      strings.Builder
		items        = []rune(text)
		lexer        = lex.NewLexer(items, textRules...)
		placeholders = make(map[register.Register]string)
	)
	//
	for k, reg := range plan.Substitutions {
		placeholders[reg] = fmt.Sprintf("$%d", plan.Operand(k))
	}
	//
	for lexer.HasNext() {
		token := lexer.Next()
		chunk := string(lexer.Text(token))
		//
		if token.Kind == WORD {
			if reg, ok := register.Lookup(chunk); ok {
				if placeholder, ok := placeholders[reg]; ok {
					builder.WriteString(placeholder)
					continue
				}
			}
		}
		//
		builder.WriteString(strings.ReplaceAll(chunk, "$", "$$"))
	}
	//
	return builder.String()
}
