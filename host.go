// Copyright 2026 Blink Labs Software
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package gairdrop

import (
	"github.com/blocto/solana-go-sdk/types"
)

// Host is the capability surface the execution environment provides to the
// program. External token, metadata, and system calls are expressed as
// solana-go-sdk instructions so any conforming host can carry them out; the
// program itself never talks to a ledger directly.
type Host interface {
	// Invoke executes an instruction signed by the accounts that already
	// signed the outer invocation
	Invoke(instr types.Instruction) error

	// InvokeSigned executes an instruction with an additional derived
	// signature for the address produced by the given seeds and this
	// program's id
	InvokeSigned(instr types.Instruction, seeds [][]byte) error

	// UnixTime returns the ledger's current wall-clock time in seconds
	UnixTime() int64

	// MinimumBalance returns the balance an account of the given data size
	// must hold to persist
	MinimumBalance(dataLen int) uint64
}
