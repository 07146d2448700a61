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
	"github.com/blinklabs-io/gairdrop/address"
	"github.com/blinklabs-io/gairdrop/state"

	"github.com/blocto/solana-go-sdk/program/system"
)

func (p *Program) processRegisterUser(list *accountList) error {
	userRecord, err := list.Next()
	if err != nil {
		return err
	}
	user, err := list.Next()
	if err != nil {
		return err
	}
	collection, err := list.Next()
	if err != nil {
		return err
	}
	feePayer, err := list.Next()
	if err != nil {
		return err
	}

	p.logger.Debug("assert user record properly derived")
	recordAddr, recordBump, err := address.UserRecordAddress(
		p.id,
		collection.Key,
		user.Key,
	)
	if err != nil {
		return err
	}
	if err := requireDerived(userRecord, recordAddr); err != nil {
		return err
	}

	p.logger.Debug("assert user record not already created")
	if err := requireUnoccupied(userRecord); err != nil {
		return err
	}
	p.logger.Debug("assert user record writable")
	if err := requireWritable(userRecord); err != nil {
		return err
	}

	p.logger.Debug("assert collection config owned by program")
	if err := requireOwnedBy(collection, p.id); err != nil {
		return err
	}
	p.logger.Debug("assert collection config writable")
	if err := requireWritable(collection); err != nil {
		return err
	}

	p.logger.Debug("assert collection config initialized")
	configData, err := state.UnpackCollectionConfig(collection.Data)
	if err != nil {
		return err
	}
	if err := requireInitialized(&configData); err != nil {
		return err
	}

	p.logger.Debug("assert fee payer is signer")
	if err := requireSigner(feePayer); err != nil {
		return err
	}

	p.logger.Debug("create user record account")
	if err := p.host.InvokeSigned(
		system.CreateAccount(system.CreateAccountParam{
			From:     splKey(feePayer.Key),
			New:      splKey(userRecord.Key),
			Owner:    splKey(p.id),
			Lamports: p.host.MinimumBalance(state.UserRecordSize),
			Space:    state.UserRecordSize,
		}),
		[][]byte{
			[]byte(address.UserRecordTag),
			collection.Key[:],
			user.Key[:],
			{recordBump},
		},
	); err != nil {
		return err
	}

	p.logger.Debug("write user record")
	record := state.UserRecord{
		Initialized:   true,
		Collection:    collection.Key,
		User:          user.Key,
		MintCount:     0,
		CooldownUntil: 0,
	}
	if err := record.Pack(userRecord.Data); err != nil {
		return err
	}

	p.logger.Debug("increment registered user count")
	configData.RegisteredUsers++
	return configData.Pack(collection.Data)
}
