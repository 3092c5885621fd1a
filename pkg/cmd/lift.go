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
	"strings"

	"github.com/consensys/go-uilift/pkg/lifter"
	"github.com/consensys/go-uilift/pkg/util"
	"github.com/consensys/go-uilift/pkg/x86/decoder"
	"github.com/davecgh/go-spew/spew"
	"github.com/llir/llvm/ir"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"
)

// liftCmd represents the lift command
var liftCmd = &cobra.Command{
	Use:   "lift [flags] hex_bytes...",
	Short: "lift one or more instructions into LLVM IR wrapper functions.",
	Long: `Lift one or more instructions into a single LLVM IR module, containing
	one wrapper function per instruction.  Instructions are given either as
	hexadecimal bytes on the command line (one instruction only), or in a
	YAML batch file.`,
	Run: func(cmd *cobra.Command, args []string) {
		config := getConfig(cmd)
		stats := util.NewPerfStats()
		//
		items, mode, err := getItems(args, GetString(cmd, "address"), GetString(cmd, "batch"))
		if err != nil {
			fatal(err)
		} else if len(items) == 0 {
			fmt.Println(cmd.UsageString())
			os.Exit(1)
		} else if mode != 0 {
			config.Mode = decoder.Mode(mode)
		}
		//
		module := ir.NewModule()
		//
		l, err := lifter.New(module, config)
		if err != nil {
			fatal(err)
		}
		//
		options := liftOptions{
			dumpPlan:  GetFlag(cmd, "dump-plan"),
			keepGoing: GetFlag(cmd, "keep-going"),
		}
		//
		skipped, err := liftItems(l, items, options, os.Stdout)
		if err != nil {
			fatal(err)
		} else if skipped > 0 {
			log.Warnf("skipped %d of %d instruction(s)", skipped, len(items))
		}
		//
		if err := writeModule(fs, module, GetString(cmd, "output"), os.Stdout); err != nil {
			fatal(err)
		}
		//
		stats.Log("lifting", len(items))
	},
}

// Options controlling how a sequence of instructions is lifted.
type liftOptions struct {
	// Print the operand plan of each instruction.
	dumpPlan bool
	// Report and skip instructions which cannot be lifted, rather than
	// failing.
	keepGoing bool
}

var planConfig = spew.ConfigState{
	Indent:                  "  ",
	DisablePointerAddresses: true,
	DisableCapacities:       true,
}

// Determine the instructions to lift, either from the command line or from a
// batch file.  A non-zero mode is returned when the batch file overrides the
// processor mode.
func getItems(args []string, address string, batchfile string) ([]item, uint, error) {
	if batchfile != "" {
		if len(args) != 0 {
			return nil, 0, fmt.Errorf("unexpected bytes with --batch")
		}
		//
		batch, err := readBatch(fs, batchfile)
		if err != nil {
			return nil, 0, err
		}
		//
		items, err := batch.items()
		//
		return items, batch.Mode, err
	} else if len(args) == 0 {
		return nil, 0, nil
	}
	//
	bytes, err := parseBytes(strings.Join(args, " "))
	if err != nil {
		return nil, 0, err
	}
	//
	addr, err := parseAddress(address)
	if err != nil {
		return nil, 0, err
	}
	//
	return []item{{bytes, addr}}, 0, nil
}

// Lift a sequence of instructions into the module of a given lifter.  An
// instruction whose wrapper already exists in the module is lifted only once.
// This returns the number of instructions skipped, which is only ever non-zero
// when keepGoing is set.
func liftItems(l *lifter.Lifter, items []item, options liftOptions, out io.Writer) (int, error) {
	var (
		skipped int
		lifted  = make(map[string]bool)
	)
	//
	for _, it := range items {
		w, err := l.Prepare(it.bytes, it.address)
		//
		if err == nil && lifted[w.Name] {
			log.Debugf("%s already lifted", w.Name)
			continue
		} else if err == nil {
			if options.dumpPlan {
				fmt.Fprintf(out, "; %s: %s\n", w.Name, w.Text)
				planConfig.Fdump(out, w.Plan)
			}
			//
			_, err = l.Build(w)
		}
		//
		if err != nil && options.keepGoing {
			log.Errorf("skipping % x: %v", it.bytes, err)
			//
			skipped++
		} else if err != nil {
			return skipped, err
		} else {
			lifted[w.Name] = true
		}
	}
	//
	return skipped, nil
}

// Write a module to a given file, or to a given writer when no file is given.
func writeModule(fs afero.Fs, module *ir.Module, filename string, out io.Writer) error {
	if filename == "" {
		_, err := fmt.Fprint(out, module.String())
		return err
	}
	//
	return afero.WriteFile(fs, filename, []byte(module.String()), 0644)
}

func init() {
	rootCmd.AddCommand(liftCmd)
	liftCmd.Flags().String("address", "0", "address of the instruction (affects relative operands only)")
	liftCmd.Flags().String("batch", "", "read instructions from a YAML batch file")
	liftCmd.Flags().StringP("output", "o", "", "write the module to a given file")
	liftCmd.Flags().Bool("dump-plan", false, "print the operand plan of each instruction")
	liftCmd.Flags().Bool("keep-going", false, "skip instructions which cannot be lifted")
}
