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

// Token associates a tag with a given range of items in the input being
// scanned.
type Token struct {
	Kind uint
	Span Span
}

// LexRule associates groups of items with a given tag.
//
// nolint
type LexRule[T any] struct {
	scanner Scanner[T]
	tag     uint
}

// Rule constructs a new lexing rule which maps matching items to a given tag.
func Rule[T any](scanner Scanner[T], tag uint) LexRule[T] {
	return LexRule[T]{scanner, tag}
}

// Lexer tokenises a given input using an ordered list of rules.  At each
// position, the first rule which matches wins.  Lexing stops at the first
// position where no rule matches.
type Lexer[T any] struct {
	items []T
	index int
	rules []LexRule[T]
	// Lookahead token (if any)
	next *Token
}

// NewLexer constructs a new lexer with a given set of lexing rules.
func NewLexer[T any](input []T, rules ...LexRule[T]) *Lexer[T] {
	return &Lexer[T]{input, 0, rules, nil}
}

// Text returns the items covered by a given token.
func (p *Lexer[T]) Text(token Token) []T {
	return p.items[token.Span.Start():token.Span.End()]
}

// Remaining determines how many items from the original input were left
// unconsumed.
func (p *Lexer[T]) Remaining() uint {
	return uint(max(0, len(p.items)-p.index))
}

// HasNext checks whether or not there are any tokens remaining.
func (p *Lexer[T]) HasNext() bool {
	p.scan()
	return p.next != nil
}

// Next returns the next token and advances the lexer.
func (p *Lexer[T]) Next() Token {
	p.scan()
	//
	next := *p.next
	p.next = nil
	//
	if p.index == len(p.items) {
		// EOF condition
		p.index++
	} else {
		p.index = next.Span.End()
	}
	//
	return next
}

// Collect is a convenience function which scans all remaining tokens in one
// go, producing an array of tokens.
func (p *Lexer[T]) Collect() []Token {
	var tokens []Token
	//
	for p.HasNext() {
		tokens = append(tokens, p.Next())
	}
	//
	return tokens
}

func (p *Lexer[T]) scan() {
	if p.next != nil || p.index > len(p.items) {
		return
	}
	//
	for _, r := range p.rules {
		if n := r.scanner(p.items[p.index:]); n > 0 {
			end := min(len(p.items), p.index+int(n))
			p.next = &Token{r.tag, NewSpan(p.index, end)}
			//
			return
		}
	}
}
