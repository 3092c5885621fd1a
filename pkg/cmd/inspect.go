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
package cmd

import (
	"fmt"
	"io"
	"os"
	"slices"
	"strings"

	"github.com/consensys/go-uilift/pkg/lifter"
	"github.com/consensys/go-uilift/pkg/lifter/layout"
	"github.com/consensys/go-uilift/pkg/util/termio"
	"github.com/llir/llvm/ir"
	"github.com/spf13/cobra"
	"golang.org/x/term"
)

// inspectCmd represents the inspect command
var inspectCmd = &cobra.Command{
	Use:   "inspect [flags] hex_bytes...",
	Short: "inspect the register roles and operand plan of an instruction.",
	Long: `Inspect how a single instruction would be lifted.  This reports the role
	of every register the instruction touches, along with the inline assembly
	template and constraint string of its wrapper.  Nothing is emitted.`,
	Run: func(cmd *cobra.Command, args []string) {
		config := getConfig(cmd)
		//
		if len(args) == 0 {
			fmt.Println(cmd.UsageString())
			os.Exit(1)
		}
		//
		bytes, err := parseBytes(strings.Join(args, " "))
		if err != nil {
			fatal(err)
		}
		//
		address, err := parseAddress(GetString(cmd, "address"))
		if err != nil {
			fatal(err)
		}
		//
		l, err := lifter.New(ir.NewModule(), config)
		if err != nil {
			fatal(err)
		}
		//
		w, err := l.Prepare(bytes, address)
		if err != nil {
			fatal(err)
		}
		//
		colour := term.IsTerminal(int(os.Stdout.Fd())) && !GetFlag(cmd, "no-colour")
		//
		printWrapper(os.Stdout, w, l.Layout(), colour)
	},
}

var roleNames = []string{
	"explicit read", "explicit write", "explicit read-write",
	"implicit read", "implicit write", "implicit read-write",
}

// Print the roles and operand plan of a given wrapper.
func printWrapper(out io.Writer, w *lifter.Wrapper, regfile *layout.Layout, colour bool) {
	var (
		height  = 1
		buckets = w.Roles.Buckets()
	)
	//
	for _, bucket := range buckets {
		height += bucket.Len()
	}
	//
	table := termio.NewTablePrinter(4, uint(height))
	table.AnsiEscapes(colour)
	table.SetRow(0, "register", "role", "operand", "location")
	//
	for col := uint(0); col < 4; col++ {
		table.SetEscape(col, 0, termio.BoldAnsiEscape().Build())
	}
	//
	row := uint(1)
	//
	for i, bucket := range buckets {
		for _, reg := range bucket.ToArray() {
			var (
				operand  = "-"
				location = "?"
			)
			//
			if k := slices.Index(w.Plan.Substitutions, reg); k >= 0 {
				operand = fmt.Sprintf("$%d", w.Plan.Operand(k))
			}
			//
			if loc, err := regfile.Lookup(reg); err == nil {
				location = loc.String()
			}
			//
			table.SetRow(row, reg.String(), roleNames[i], operand, location)
			// Highlight registers substituted into the template
			if i < 3 {
				table.SetEscape(1, row, termio.NewAnsiEscape().FgColour(termio.TERM_GREEN).Build())
			} else {
				table.SetEscape(1, row, termio.NewAnsiEscape().FgColour(termio.TERM_YELLOW).Build())
			}
			//
			row++
		}
	}
	//
	fmt.Fprintf(out, "%s: %s (%s)\n", w.Name, w.Text, w.Dialect)
	table.Print(out)
	fmt.Fprintf(out, "template:   %s\n", w.Template)
	fmt.Fprintf(out, "constraint: %s\n", w.Plan.Constraint())
	//
	if len(w.Roles.Clobbers) > 0 {
		fmt.Fprintf(out, "clobbers:   %s\n", strings.Join(w.Roles.Clobbers, ", "))
	}
}

func init() {
	rootCmd.AddCommand(inspectCmd)
	inspectCmd.Flags().String("address", "0", "address of the instruction (affects relative operands only)")
	inspectCmd.Flags().Bool("no-colour", false, "disable coloured output")
}
