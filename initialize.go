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
	"github.com/blinklabs-io/gairdrop/instruction"
	"github.com/blinklabs-io/gairdrop/state"

	"github.com/blocto/solana-go-sdk/program/system"
)

func (p *Program) processInitializeCollection(
	list *accountList,
	args *instruction.InitializeCollection,
) error {
	config, err := list.Next()
	if err != nil {
		return err
	}
	authority, err := list.Next()
	if err != nil {
		return err
	}
	marker, err := list.Next()
	if err != nil {
		return err
	}
	revenueWallet, err := list.Next()
	if err != nil {
		return err
	}
	admin, err := list.Next()
	if err != nil {
		return err
	}
	feePayer, err := list.Next()
	if err != nil {
		return err
	}

	p.logger.Debug("assert collection config writable")
	if err := requireWritable(config); err != nil {
		return err
	}
	p.logger.Debug("assert collection config owned by program")
	if err := requireOwnedBy(config, p.id); err != nil {
		return err
	}

	p.logger.Debug("assert mint authority marker properly derived")
	markerAddr, markerBump, err := address.MintAuthorityAddress(
		p.id,
		config.Key,
	)
	if err != nil {
		return err
	}
	if err := requireDerived(marker, markerAddr); err != nil {
		return err
	}

	p.logger.Debug("assert fee payer is signer")
	if err := requireSigner(feePayer); err != nil {
		return err
	}

	p.logger.Debug("assert collection config not already initialized")
	configData, err := state.UnpackCollectionConfig(config.Data)
	if err != nil {
		return err
	}
	if err := requireUninitialized(&configData); err != nil {
		return err
	}

	p.logger.Debug("create mint authority marker")
	if err := p.host.InvokeSigned(
		system.CreateAccount(system.CreateAccountParam{
			From:     splKey(feePayer.Key),
			New:      splKey(marker.Key),
			Owner:    splKey(p.id),
			Lamports: p.host.MinimumBalance(state.MintAuthorityMarkerSize),
			Space:    state.MintAuthorityMarkerSize,
		}),
		[][]byte{
			[]byte(address.MintAuthorityTag),
			config.Key[:],
			{markerBump},
		},
	); err != nil {
		return err
	}

	p.logger.Debug("write collection config")
	configData = state.CollectionConfig{
		Initialized:       true,
		Authority:         authority.Key,
		IssuedCount:       0,
		SupplyCap:         args.SupplyCap,
		MetadataURIPrefix: args.MetadataURIPrefix,
		Symbol:            args.Symbol,
		RegisteredUsers:   0,
		RevenueWallet:     revenueWallet.Key,
		Admin:             admin.Key,
		UnitPrice:         args.UnitPrice,
	}
	return configData.Pack(config.Data)
}
