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

import (
	"strings"
	"testing"

	"github.com/consensys/go-uilift/pkg/util/assert"
)

func Test_Table_00(t *testing.T) {
	var buf strings.Builder
	//
	table := NewTablePrinter(2, 2)
	table.SetRow(0, "reg", "access")
	table.SetRow(1, "eax", "rw")
	table.Print(&buf)
	//
	assert.Equal(t, " reg | access |\n eax |     rw |\n", buf.String())
}

func Test_Table_01(t *testing.T) {
	var buf strings.Builder
	//
	table := NewTablePrinter(1, 1)
	table.SetRow(0, "abcdefgh")
	table.SetMaxWidth(0, 5)
	table.Print(&buf)
	//
	assert.Equal(t, " abc.. |\n", buf.String())
}

func Test_Table_02(t *testing.T) {
	var buf strings.Builder
	//
	escape := NewAnsiEscape().FgColour(TERM_RED).Build()
	table := NewTablePrinter(1, 1)
	table.SetRow(0, "x")
	table.SetEscape(0, 0, escape)
	table.Print(&buf)
	assert.Equal(t, "\033[31m x\033[0m |\n", buf.String())
	// Disabled escapes
	buf.Reset()
	table.AnsiEscapes(false)
	table.Print(&buf)
	assert.Equal(t, " x |\n", buf.String())
}

func Test_Escape_00(t *testing.T) {
	assert.Equal(t, "\033[1;32;44m", BoldAnsiEscape().FgColour(TERM_GREEN).BgColour(TERM_BLUE).Build())
	assert.Equal(t, "\033[0m", ResetAnsiEscape().Build())
}
