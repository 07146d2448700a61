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
	"strconv"

	"github.com/blinklabs-io/gairdrop/address"
	"github.com/blinklabs-io/gairdrop/common"
	"github.com/blinklabs-io/gairdrop/state"

	solcommon "github.com/blocto/solana-go-sdk/common"
	"github.com/blocto/solana-go-sdk/program/associated_token_account"
	"github.com/blocto/solana-go-sdk/program/metaplex/token_metadata"
	"github.com/blocto/solana-go-sdk/program/system"
	"github.com/blocto/solana-go-sdk/program/token"
)

const (
	// cooldownSeconds is how long a user must wait between mints (6 hours)
	cooldownSeconds = 21600

	// royaltyBasisPoints is the fixed royalty registered on every minted
	// token's metadata
	royaltyBasisPoints = 1000
)

func (p *Program) processMintOne(list *accountList) error {
	collection, err := list.Next()
	if err != nil {
		return err
	}
	userRecord, err := list.Next()
	if err != nil {
		return err
	}
	newToken, err := list.Next()
	if err != nil {
		return err
	}
	user, err := list.Next()
	if err != nil {
		return err
	}
	userTokenAccount, err := list.Next()
	if err != nil {
		return err
	}
	tokenMetadata, err := list.Next()
	if err != nil {
		return err
	}
	marker, err := list.Next()
	if err != nil {
		return err
	}
	payer, err := list.Next()
	if err != nil {
		return err
	}
	airdropAuthority, err := list.Next()
	if err != nil {
		return err
	}
	admin, err := list.Next()
	if err != nil {
		return err
	}
	revenueWallet, err := list.Next()
	if err != nil {
		return err
	}

	p.logger.Debug("assert collection config writable")
	if err := requireWritable(collection); err != nil {
		return err
	}
	p.logger.Debug("assert collection config owned by program")
	if err := requireOwnedBy(collection, p.id); err != nil {
		return err
	}

	configData, err := state.UnpackCollectionConfig(collection.Data)
	if err != nil {
		return err
	}
	p.logger.Debug("assert collection config initialized")
	if err := requireInitialized(&configData); err != nil {
		return err
	}

	p.logger.Debug("check remaining supply")
	if configData.IssuedCount >= configData.SupplyCap {
		return common.ErrOutOfSupply
	}

	p.logger.Debug("assert user record writable")
	if err := requireWritable(userRecord); err != nil {
		return err
	}
	p.logger.Debug("assert user record owned by program")
	if err := requireOwnedBy(userRecord, p.id); err != nil {
		return err
	}

	record, err := state.UnpackUserRecord(userRecord.Data)
	if err != nil {
		return err
	}
	p.logger.Debug("assert user record initialized")
	if err := requireInitialized(&record); err != nil {
		return err
	}

	p.logger.Debug("assert user record matches collection and user")
	if record.User != user.Key || record.Collection != collection.Key {
		return common.ErrInvalidAccountData
	}

	p.logger.Debug("check user cooldown")
	now := p.host.UnixTime()
	if uint64(now) < record.CooldownUntil {
		return common.ErrUserTimeout
	}

	p.logger.Debug("assert new token identity is signer")
	if err := requireSigner(newToken); err != nil {
		return err
	}
	p.logger.Debug("assert new token identity writable")
	if err := requireWritable(newToken); err != nil {
		return err
	}

	p.logger.Debug("assert user token account writable")
	if err := requireWritable(userTokenAccount); err != nil {
		return err
	}

	p.logger.Debug("assert metadata account writable")
	if err := requireWritable(tokenMetadata); err != nil {
		return err
	}

	p.logger.Debug("assert mint authority marker properly derived")
	markerAddr, markerBump, err := address.MintAuthorityAddress(
		p.id,
		collection.Key,
	)
	if err != nil {
		return err
	}
	if err := requireDerived(marker, markerAddr); err != nil {
		return err
	}

	p.logger.Debug("assert payer is signer")
	if err := requireSigner(payer); err != nil {
		return err
	}
	p.logger.Debug("assert payer writable")
	if err := requireWritable(payer); err != nil {
		return err
	}
	p.logger.Debug("assert payer owned by system program")
	if err := requireOwnedBy(payer, address.Zero); err != nil {
		return err
	}

	p.logger.Debug("assert mint approved by airdrop authority")
	if err := requireSigner(airdropAuthority); err != nil {
		return err
	}

	p.logger.Debug("assert admin account matches configuration")
	if configData.Admin != admin.Key {
		return common.ErrWrongAccountAddress
	}

	p.logger.Debug("assert revenue wallet matches configuration")
	if configData.RevenueWallet != revenueWallet.Key {
		return common.ErrWrongAccountAddress
	}
	p.logger.Debug("assert revenue wallet writable")
	if err := requireWritable(revenueWallet); err != nil {
		return err
	}

	symbolStr, err := state.NulTerminated(configData.Symbol[:])
	if err != nil {
		return err
	}
	uriPrefix, err := state.NulTerminated(configData.MetadataURIPrefix[:])
	if err != nil {
		return err
	}
	index := strconv.FormatUint(configData.IssuedCount, 10)

	markerSeeds := [][]byte{
		[]byte(address.MintAuthorityTag),
		collection.Key[:],
		{markerBump},
	}

	p.logger.Debug("create account for new token")
	if err := p.host.Invoke(
		system.CreateAccount(system.CreateAccountParam{
			From:     splKey(payer.Key),
			New:      splKey(newToken.Key),
			Owner:    solcommon.TokenProgramID,
			Lamports: p.host.MinimumBalance(token.MintAccountSize),
			Space:    token.MintAccountSize,
		}),
	); err != nil {
		return err
	}

	p.logger.Debug("initialize new token")
	if err := p.host.Invoke(
		token.InitializeMint(token.InitializeMintParam{
			Decimals: 0,
			Mint:     splKey(newToken.Key),
			MintAuth: splKey(marker.Key),
		}),
	); err != nil {
		return err
	}

	p.logger.Debug("create user holding account")
	if err := p.host.Invoke(
		associated_token_account.CreateAssociatedTokenAccount(
			associated_token_account.CreateAssociatedTokenAccountParam{
				Funder:                 splKey(payer.Key),
				Owner:                  splKey(user.Key),
				Mint:                   splKey(newToken.Key),
				AssociatedTokenAccount: splKey(userTokenAccount.Key),
			},
		),
	); err != nil {
		return err
	}

	p.logger.Debug("register token metadata")
	creators := []token_metadata.Creator{
		{
			Address:  splKey(marker.Key),
			Verified: true,
			Share:    0,
		},
		{
			Address:  splKey(revenueWallet.Key),
			Verified: false,
			Share:    100,
		},
	}
	if err := p.host.InvokeSigned(
		token_metadata.CreateMetadataAccountV2(
			token_metadata.CreateMetadataAccountV2Param{
				Metadata:                splKey(tokenMetadata.Key),
				Mint:                    splKey(newToken.Key),
				MintAuthority:           splKey(marker.Key),
				Payer:                   splKey(payer.Key),
				UpdateAuthority:         splKey(marker.Key),
				UpdateAuthorityIsSigner: false,
				IsMutable:               true,
				Data: token_metadata.DataV2{
					Name:                 symbolStr + " #" + index,
					Symbol:               symbolStr,
					Uri:                  uriPrefix + index + ".json",
					SellerFeeBasisPoints: royaltyBasisPoints,
					Creators:             &creators,
				},
			},
		),
		markerSeeds,
	); err != nil {
		return err
	}

	p.logger.Debug("mint one unit to user")
	if err := p.host.InvokeSigned(
		token.MintTo(token.MintToParam{
			Mint:   splKey(newToken.Key),
			To:     splKey(userTokenAccount.Key),
			Auth:   splKey(marker.Key),
			Amount: 1,
		}),
		markerSeeds,
	); err != nil {
		return err
	}

	p.logger.Debug("finalize token metadata")
	adminKey := splKey(admin.Key)
	soldFlag := true
	immutableFlag := false
	if err := p.host.InvokeSigned(
		token_metadata.UpdateMetadataAccountV2(
			token_metadata.UpdateMetadataAccountV2Param{
				MetadataAccount:     splKey(tokenMetadata.Key),
				UpdateAuthority:     splKey(marker.Key),
				NewUpdateAuthority:  &adminKey,
				PrimarySaleHappened: &soldFlag,
				IsMutable:           &immutableFlag,
			},
		),
		markerSeeds,
	); err != nil {
		return err
	}

	p.logger.Debug("revoke mint authority")
	if err := p.host.InvokeSigned(
		token.SetAuthority(token.SetAuthorityParam{
			Account:  splKey(newToken.Key),
			AuthType: token.AuthorityTypeMintTokens,
			Auth:     splKey(marker.Key),
		}),
		markerSeeds,
	); err != nil {
		return err
	}

	p.logger.Debug("transfer unit price to revenue wallet")
	if err := p.host.Invoke(
		system.Transfer(system.TransferParam{
			From:   splKey(payer.Key),
			To:     splKey(revenueWallet.Key),
			Amount: configData.UnitPrice,
		}),
	); err != nil {
		return err
	}

	p.logger.Debug("write changes to program accounts")
	configData.IssuedCount++
	if err := configData.Pack(collection.Data); err != nil {
		return err
	}
	record.MintCount++
	record.CooldownUntil = uint64(now + cooldownSeconds)
	return record.Pack(userRecord.Data)
}
