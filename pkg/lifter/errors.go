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

	"github.com/consensys/go-uilift/pkg/x86/register"
)

// DecodeError is reported when the given bytes do not decode to a supported
// instruction.
type DecodeError struct {
	Bytes []byte
	Err   error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("decoding %x: %v", e.Bytes, e.Err)
}

func (e *DecodeError) Unwrap() error {
	return e.Err
}

// FormatError is reported when a decoded instruction cannot be rendered as
// text.
type FormatError struct {
	Mnemonic string
	Err      error
}

func (e *FormatError) Error() string {
	return fmt.Sprintf("formatting %s: %v", e.Mnemonic, e.Err)
}

func (e *FormatError) Unwrap() error {
	return e.Err
}

// UnknownRegisterError is reported when an instruction threads a register
// which has no slot in the register file.
type UnknownRegisterError struct {
	Mnemonic string
	Register register.Register
	Err      error
}

func (e *UnknownRegisterError) Error() string {
	return fmt.Sprintf("lifting %s: %v", e.Mnemonic, e.Err)
}

func (e *UnknownRegisterError) Unwrap() error {
	return e.Err
}
