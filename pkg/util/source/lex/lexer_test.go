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
package lex

import (
	"slices"
	"testing"

	"github.com/consensys/go-uilift/pkg/util/assert"
)

func TestLexer_00(t *testing.T) {
	var tokens = []Token{
		{END_OF, NewSpan(0, 0)},
	}

	checkLexer(t, "", 0, tokens...)
}

func TestLexer_01(t *testing.T) {
	var tokens = []Token{
		{IDENT, NewSpan(0, 3)},
		{END_OF, NewSpan(3, 3)},
	}

	checkLexer(t, "eax", 0, tokens...)
}

func TestLexer_02(t *testing.T) {
	var tokens = []Token{
		{IDENT, NewSpan(0, 3)},
		{WSPACE, NewSpan(3, 4)},
		{IDENT, NewSpan(4, 7)},
		{COMMA, NewSpan(7, 8)},
		{WSPACE, NewSpan(8, 9)},
		{IDENT, NewSpan(9, 12)},
		{END_OF, NewSpan(12, 12)},
	}

	checkLexer(t, "add eax, ebx", 0, tokens...)
}

func TestLexer_03(t *testing.T) {
	// No rule matches '['
	var tokens = []Token{
		{IDENT, NewSpan(0, 3)},
		{WSPACE, NewSpan(3, 4)},
	}

	checkLexer(t, "mov [rax]", 5, tokens...)
}

func TestLexer_04(t *testing.T) {
	var tokens = []Token{
		{IDENT, NewSpan(0, 3)},
		{WSPACE, NewSpan(3, 6)},
		{NUMBER, NewSpan(6, 10)},
		{END_OF, NewSpan(10, 10)},
	}

	checkLexer(t, "r15 \t 0x10", 0, tokens...)
}

func TestLexer_05(t *testing.T) {
	// Identifiers may contain digits, but not start with them.
	var tokens = []Token{
		{NUMBER, NewSpan(0, 1)},
		{IDENT, NewSpan(1, 4)},
		{END_OF, NewSpan(4, 4)},
	}

	checkLexer(t, "8r8d", 0, tokens...)
}

func TestLexer_06(t *testing.T) {
	lexer := NewLexer([]rune("st0,xmm1"), rules...)
	tokens := lexer.Collect()
	//
	assert.Equal(t, 4, len(tokens))
	assert.Equal(t, "st0", string(lexer.Text(tokens[0])))
	assert.Equal(t, ",", string(lexer.Text(tokens[1])))
	assert.Equal(t, "xmm1", string(lexer.Text(tokens[2])))
	assert.Equal(t, "", string(lexer.Text(tokens[3])))
}

func TestScannerSequence(t *testing.T) {
	rule := SequenceNullableLast(
		Unit('a'),
		Unit('b'),
		Unit('c'),
	)
	assert.Equal(t, 0, rule([]int32{'a', 'c', 'c'})) // non-final rule cannot be left unmatched.
	assert.Equal(t, 2, rule([]int32{'a', 'b', 'b'})) // final rule is allowed to have no match.
	assert.Equal(t, 3, rule([]int32{'a', 'b', 'c'}))
}

func TestScannerAny(t *testing.T) {
	assert.Equal(t, 1, Any[rune]()([]rune("xy")))
	assert.Equal(t, 0, Any[rune]()(nil))
	assert.Equal(t, 2, Many(Any[rune]())([]rune("xy")))
}

// ==================================================================
// Framework
// ==================================================================

const END_OF uint = 0
const WSPACE uint = 1
const COMMA uint = 2
const IDENT uint = 3
const NUMBER uint = 4

var letter Scanner[rune] = Or(Within('a', 'z'), Within('A', 'Z'), Unit('_'))

var digit Scanner[rune] = Within('0', '9')

// Rule for describing whitespace
var whitespace Scanner[rune] = Many(Or(Unit(' '), Unit('\t')))

// Rule for describing identifiers
var identifier Scanner[rune] = SequenceNullableLast(letter, Many(Or(letter, digit)))

// Rule for describing (hex) numbers
var number Scanner[rune] = Or(
	SequenceNullableLast(Unit('0', 'x'), Many(Or(digit, Within('a', 'f')))),
	Many(digit))

// lexing rules
var rules []LexRule[rune] = []LexRule[rune]{
	Rule(Unit(','), COMMA),
	Rule(whitespace, WSPACE),
	Rule(identifier, IDENT),
	Rule(number, NUMBER),
	Rule(Eof[rune](), END_OF),
}

func checkLexer(t *testing.T, input string, remainder uint, expected ...Token) {
	items := []rune(input)
	// Construct text lexer
	lexer := NewLexer(items, rules...)
	// Apply lexer
	tokens := lexer.Collect()
	// Keep scanning
	if !slices.Equal(tokens, expected) {
		t.Errorf("got %v, expected %v", tokens, expected)
	} else if lexer.Remaining() != remainder {
		n := len(items) - int(lexer.Remaining())
		t.Errorf("unmatched items: %v", string(items[n:]))
	}
}
