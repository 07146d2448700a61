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

// Package gairdrop implements a limited-supply token airdrop program: a
// deterministic instruction handler that a host ledger invokes with an
// ordered account list and an opaque payload. It validates every
// participating account before touching anything, then performs the
// requested state transition, calling out to the external token and
// metadata services through the injected Host.
package gairdrop

import (
	"log/slog"

	"github.com/blinklabs-io/gairdrop/address"
	"github.com/blinklabs-io/gairdrop/common"
	"github.com/blinklabs-io/gairdrop/instruction"

	solcommon "github.com/blocto/solana-go-sdk/common"
)

// Program is one deployed instance of the airdrop handler, bound to its
// on-ledger program id and a host capability surface.
type Program struct {
	id     address.PublicKey
	host   Host
	logger *slog.Logger
}

// New returns a Program for the given program id and host
func New(
	id address.PublicKey,
	host Host,
	options ...ProgramOptionFunc,
) *Program {
	p := &Program{
		id:     id,
		host:   host,
		logger: slog.Default(),
	}
	for _, option := range options {
		option(p)
	}
	return p
}

// ID returns the program's on-ledger id
func (p *Program) ID() address.PublicKey {
	return p.id
}

// Process handles one invocation. The payload selects and parameterizes the
// operation; accounts arrive in the order the operation declares. Any error
// aborts the invocation before observable state has changed.
func (p *Program) Process(accounts []*Account, payload []byte) error {
	op, err := instruction.Decode(payload)
	if err != nil {
		return err
	}
	list := newAccountList(accounts)
	switch o := op.(type) {
	case *instruction.InitializeCollection:
		p.logger.Debug("processing InitializeCollection")
		return p.processInitializeCollection(list, o)
	case *instruction.RegisterUser:
		p.logger.Debug("processing RegisterUser")
		return p.processRegisterUser(list)
	case *instruction.MintOne:
		p.logger.Debug("processing MintOne")
		return p.processMintOne(list)
	default:
		return common.ErrBadOperationId
	}
}

// splKey converts a ledger address into the solana-go-sdk key type used on
// outgoing instructions
func splKey(pk address.PublicKey) solcommon.PublicKey {
	return solcommon.PublicKeyFromBytes(pk[:])
}
