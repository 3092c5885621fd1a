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
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/require"
)

func Test_ParseBytes_00(t *testing.T) {
	checkBytes(t, "48 01 d8", 0x48, 0x01, 0xd8)
	checkBytes(t, "4801d8", 0x48, 0x01, 0xd8)
	checkBytes(t, "0x48,0x01,0xD8", 0x48, 0x01, 0xd8)
	checkBytes(t, "48\t1\nd8", 0x48, 0x01, 0xd8)
	checkBytes(t, "0xf", 0x0f)
	checkBytes(t, "f", 0x0f)
	checkBytes(t, "48 1 d8", 0x48, 0x01, 0xd8)
}

func Test_ParseBytes_Invalid_00(t *testing.T) {
	for _, text := range []string{"", " , ", "zz", "0x"} {
		_, err := parseBytes(text)
		require.Error(t, err, text)
	}
}

func Test_ParseBytes_Invalid_01(t *testing.T) {
	// Fields of odd length are ambiguous, except for a single digit.
	for _, text := range []string{"abc", "0x123", "48 01d", "48,abc,d8"} {
		_, err := parseBytes(text)
		require.ErrorContains(t, err, "odd length", text)
	}
}

func Test_ParseAddress_00(t *testing.T) {
	for text, expected := range map[string]uint64{"0": 0, "16": 16, "0x401000": 0x401000, "0b101": 5} {
		address, err := parseAddress(text)
		require.NoError(t, err)
		require.Equal(t, expected, address, text)
	}
	//
	_, err := parseAddress("main")
	require.Error(t, err)
	_, err = parseAddress("-1")
	require.Error(t, err)
}

func Test_Batch_00(t *testing.T) {
	batch := readTestBatch(t, `mode: 32
instructions:
  - bytes: "01 d8"
    address: 0x401000
  - bytes: "0f a2"
`)
	//
	require.Equal(t, uint(32), batch.Mode)
	require.Len(t, batch.Instructions, 2)
	//
	items, err := batch.items()
	require.NoError(t, err)
	require.Equal(t, []item{{[]byte{0x01, 0xd8}, 0x401000}, {[]byte{0x0f, 0xa2}, 0}}, items)
}

func Test_Batch_01(t *testing.T) {
	// Mode is optional
	batch := readTestBatch(t, "instructions:\n  - bytes: \"d9fa\"\n")
	//
	require.Equal(t, uint(0), batch.Mode)
	require.Equal(t, "d9fa", batch.Instructions[0].Bytes)
}

func Test_Batch_Invalid_00(t *testing.T) {
	fs := afero.NewMemMapFs()
	// Missing file
	_, err := readBatch(fs, "missing.yaml")
	require.Error(t, err)
	// Empty file
	require.NoError(t, afero.WriteFile(fs, "empty.yaml", nil, 0644))
	_, err = readBatch(fs, "empty.yaml")
	require.ErrorContains(t, err, "empty batch")
	// Unknown field
	require.NoError(t, afero.WriteFile(fs, "typo.yaml", []byte("instructions:\n  - byte: \"01d8\"\n"), 0644))
	_, err = readBatch(fs, "typo.yaml")
	require.Error(t, err)
}

func Test_Batch_Invalid_01(t *testing.T) {
	batch := readTestBatch(t, "instructions:\n  - bytes: \"01d8\"\n  - bytes: \"xyz\"\n")
	//
	_, err := batch.items()
	require.ErrorContains(t, err, "instruction 1")
}

// ===================================================================
// Test Helpers
// ===================================================================

func checkBytes(t *testing.T, text string, expected ...byte) {
	t.Helper()
	//
	bytes, err := parseBytes(text)
	require.NoError(t, err, text)
	require.Equal(t, expected, bytes, text)
}

func readTestBatch(t *testing.T, contents string) *Batch {
	t.Helper()
	//
	fs := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fs, "batch.yaml", []byte(contents), 0644))
	//
	batch, err := readBatch(fs, "batch.yaml")
	require.NoError(t, err)
	//
	return batch
}
