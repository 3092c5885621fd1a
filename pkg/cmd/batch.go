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
	"bytes"
	"errors"
	"fmt"
	"io"

	"github.com/spf13/afero"
	"gopkg.in/yaml.v3"
)

// Batch is a list of instructions to lift, as read from a YAML file.  For
// example:
//
//	mode: 64
//	instructions:
//	  - bytes: "48 01 d8"
//	    address: 0x401000
//	  - bytes: "0f a2"
type Batch struct {
	// Mode overrides the processor mode given on the command line (if
	// non-zero).
	Mode         uint         `yaml:"mode"`
	Instructions []BatchEntry `yaml:"instructions"`
}

// BatchEntry is a single instruction within a batch.
type BatchEntry struct {
	Bytes   string `yaml:"bytes"`
	Address uint64 `yaml:"address"`
}

// An instruction to lift.
type item struct {
	bytes   []byte
	address uint64
}

// Read a batch file from a given filesystem.
func readBatch(fs afero.Fs, filename string) (*Batch, error) {
	var batch Batch
	//
	data, err := afero.ReadFile(fs, filename)
	if err != nil {
		return nil, err
	}
	//
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	//
	if err := decoder.Decode(&batch); errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("%s: empty batch", filename)
	} else if err != nil {
		return nil, fmt.Errorf("%s: %w", filename, err)
	}
	//
	return &batch, nil
}

// Items returns the instructions of this batch.
func (p *Batch) items() ([]item, error) {
	items := make([]item, len(p.Instructions))
	//
	for i, entry := range p.Instructions {
		bytes, err := parseBytes(entry.Bytes)
		if err != nil {
			return nil, fmt.Errorf("instruction %d: %w", i, err)
		}
		//
		items[i] = item{bytes, entry.Address}
	}
	//
	return items, nil
}
