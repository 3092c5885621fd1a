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
package termio

import "fmt"

// Ansi colour codes, as used with FgColour and BgColour.
const (
	TERM_BLACK = uint(iota)
	TERM_RED
	TERM_GREEN
	TERM_YELLOW
	TERM_BLUE
	TERM_MAGENTA
	TERM_CYAN
	TERM_WHITE
)

// AnsiEscape accumulates the parameters of a single SGR escape sequence.
type AnsiEscape struct {
	escape string
	count  uint
}

// NewAnsiEscape starts an empty escape sequence.
func NewAnsiEscape() AnsiEscape {
	return AnsiEscape{"\033", 0}
}

// ResetAnsiEscape returns the escape which clears all attributes.
func ResetAnsiEscape() AnsiEscape {
	return AnsiEscape{"\033[0", 1}
}

// BoldAnsiEscape starts an escape sequence with bold enabled.
func BoldAnsiEscape() AnsiEscape {
	return AnsiEscape{"\033[1", 1}
}

// FgColour adds a foreground colour to this escape.
func (p AnsiEscape) FgColour(col uint) AnsiEscape {
	return p.with(col + 30)
}

// BgColour adds a background colour to this escape.
func (p AnsiEscape) BgColour(col uint) AnsiEscape {
	return p.with(col + 40)
}

// Build produces the final escape string.
func (p AnsiEscape) Build() string {
	return fmt.Sprintf("%sm", p.escape)
}

func (p AnsiEscape) with(code uint) AnsiEscape {
	if p.count > 0 {
		return AnsiEscape{fmt.Sprintf("%s;%d", p.escape, code), p.count + 1}
	}
	//
	return AnsiEscape{fmt.Sprintf("%s[%d", p.escape, code), p.count + 1}
}
