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
	"encoding/hex"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/consensys/go-uilift/pkg/lifter"
	"github.com/consensys/go-uilift/pkg/x86/decoder"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

// GetFlag gets an expected flag, or exits if an error arises.
func GetFlag(cmd *cobra.Command, flag string) bool {
	r, err := cmd.Flags().GetBool(flag)
	if err != nil {
		fmt.Println(err)
		os.Exit(2)
	}

	return r
}

// GetUint gets an expected unsigned integer flag, or exits if an error arises.
func GetUint(cmd *cobra.Command, flag string) uint {
	r, err := cmd.Flags().GetUint(flag)
	if err != nil {
		fmt.Println(err)
		os.Exit(2)
	}

	return r
}

// GetString gets an expected string flag, or exits if an error arises.
func GetString(cmd *cobra.Command, flag string) string {
	r, err := cmd.Flags().GetString(flag)
	if err != nil {
		fmt.Println(err)
		os.Exit(2)
	}

	return r
}

// Configure logging and construct the lifter configuration from the
// persistent flags.
func getConfig(cmd *cobra.Command) lifter.Config {
	if GetFlag(cmd, "verbose") {
		log.SetLevel(log.DebugLevel)
	}
	//
	return lifter.Config{
		Mode:  decoder.Mode(GetUint(cmd, "mode")),
		Debug: GetFlag(cmd, "debug"),
	}
}

// Parse a sequence of bytes written in hexadecimal.  Bytes may be separated by
// whitespace or commas, and may carry a "0x" prefix (e.g. "48 01 d8",
// "4801d8" or "0x48,0x01,0xd8").  A field of a single digit is a byte on its
// own, but any other field must have an even number of digits.
func parseBytes(text string) ([]byte, error) {
	var builder strings.Builder
	//
	for _, field := range strings.FieldsFunc(text, isSeparator) {
		field = strings.TrimPrefix(strings.ToLower(field), "0x")
		//
		if len(field) == 1 {
			builder.WriteString("0")
		} else if len(field)%2 == 1 {
			return nil, fmt.Errorf("invalid bytes %q: odd length field %q", text, field)
		}
		//
		builder.WriteString(field)
	}
	//
	bytes, err := hex.DecodeString(builder.String())
	if err != nil {
		return nil, fmt.Errorf("invalid bytes %q: %w", text, err)
	} else if len(bytes) == 0 {
		return nil, fmt.Errorf("invalid bytes %q: empty", text)
	}
	//
	return bytes, nil
}

// Parse an address, which may be given in decimal, hexadecimal ("0x"), octal
// ("0o") or binary ("0b").
func parseAddress(text string) (uint64, error) {
	address, err := strconv.ParseUint(text, 0, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid address %q", text)
	}
	//
	return address, nil
}

func isSeparator(r rune) bool {
	return r == ',' || r == ' ' || r == '\t' || r == '\n'
}

// Report an error and exit.
func fatal(err error) {
	fmt.Println(err)
	os.Exit(2)
}
