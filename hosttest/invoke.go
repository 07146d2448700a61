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

package hosttest

import (
	"encoding/binary"
	"fmt"

	"github.com/blinklabs-io/gairdrop/address"

	solcommon "github.com/blocto/solana-go-sdk/common"
	"github.com/blocto/solana-go-sdk/program/metaplex/token_metadata"
	"github.com/blocto/solana-go-sdk/program/token"
	"github.com/blocto/solana-go-sdk/types"
	"github.com/near/borsh-go"
)

// Instruction tags for the external programs the interpreter models. These
// match the wire encodings the solana-go-sdk builders emit.
const (
	systemTagCreateAccount = 0
	systemTagTransfer      = 2

	tokenTagInitializeMint = 0
	tokenTagSetAuthority   = 6
	tokenTagMintTo         = 7

	metadataTagUpdateV2 = 15
	metadataTagCreateV2 = 16
)

func (l *Ledger) Invoke(instr types.Instruction) error {
	return l.invoke(instr, nil)
}

func (l *Ledger) InvokeSigned(
	instr types.Instruction,
	seeds [][]byte,
) error {
	derived, err := address.CreateProgramAddress(seeds, l.programID)
	if err != nil {
		return err
	}
	return l.invoke(instr, &derived)
}

func (l *Ledger) invoke(
	instr types.Instruction,
	derived *address.PublicKey,
) error {
	if err := l.verifySigners(instr, derived); err != nil {
		return err
	}
	switch instr.ProgramID {
	case solcommon.SystemProgramID:
		return l.invokeSystem(instr)
	case solcommon.TokenProgramID:
		return l.invokeToken(instr)
	case solcommon.SPLAssociatedTokenAccountProgramID:
		return l.invokeAssociatedToken(instr)
	case solcommon.MetaplexTokenMetaProgramID:
		return l.invokeMetadata(instr)
	default:
		return fmt.Errorf(
			"hosttest: unknown program %s",
			instr.ProgramID.ToBase58(),
		)
	}
}

func metaKey(instr types.Instruction, idx int) (address.PublicKey, error) {
	if idx >= len(instr.Accounts) {
		return address.PublicKey{}, fmt.Errorf(
			"hosttest: instruction needs at least %d accounts, got %d",
			idx+1,
			len(instr.Accounts),
		)
	}
	return address.PublicKey(instr.Accounts[idx].PubKey), nil
}

func (l *Ledger) invokeSystem(instr types.Instruction) error {
	if len(instr.Data) < 4 {
		return fmt.Errorf("hosttest: short system instruction")
	}
	switch binary.LittleEndian.Uint32(instr.Data[:4]) {
	case systemTagCreateAccount:
		var args struct {
			Instruction uint32
			Lamports    uint64
			Space       uint64
			Owner       solcommon.PublicKey
		}
		if err := borsh.Deserialize(&args, instr.Data); err != nil {
			return fmt.Errorf("hosttest: create account args: %w", err)
		}
		fromKey, err := metaKey(instr, 0)
		if err != nil {
			return err
		}
		newKey, err := metaKey(instr, 1)
		if err != nil {
			return err
		}
		from, err := l.account(fromKey)
		if err != nil {
			return err
		}
		newAcct, err := l.account(newKey)
		if err != nil {
			return err
		}
		if newAcct.Lamports > 0 {
			return fmt.Errorf("hosttest: account %s already in use", newKey)
		}
		if from.Lamports < args.Lamports {
			return fmt.Errorf("hosttest: insufficient funds in %s", fromKey)
		}
		from.Lamports -= args.Lamports
		newAcct.Lamports += args.Lamports
		newAcct.Owner = address.PublicKey(args.Owner)
		newAcct.Data = make([]byte, args.Space)
		l.Invocations = append(l.Invocations, "system.create_account")
		return nil
	case systemTagTransfer:
		var args struct {
			Instruction uint32
			Lamports    uint64
		}
		if err := borsh.Deserialize(&args, instr.Data); err != nil {
			return fmt.Errorf("hosttest: transfer args: %w", err)
		}
		fromKey, err := metaKey(instr, 0)
		if err != nil {
			return err
		}
		toKey, err := metaKey(instr, 1)
		if err != nil {
			return err
		}
		from, err := l.account(fromKey)
		if err != nil {
			return err
		}
		to, err := l.account(toKey)
		if err != nil {
			return err
		}
		if from.Lamports < args.Lamports {
			return fmt.Errorf("hosttest: insufficient funds in %s", fromKey)
		}
		from.Lamports -= args.Lamports
		to.Lamports += args.Lamports
		l.Invocations = append(l.Invocations, "system.transfer")
		return nil
	default:
		return fmt.Errorf("hosttest: unsupported system instruction")
	}
}

func (l *Ledger) invokeToken(instr types.Instruction) error {
	if len(instr.Data) == 0 {
		return fmt.Errorf("hosttest: empty token instruction")
	}
	switch instr.Data[0] {
	case tokenTagInitializeMint:
		var args struct {
			Instruction     uint8
			Decimals        uint8
			MintAuthority   solcommon.PublicKey
			FreezeAuthority *solcommon.PublicKey
		}
		if err := borsh.Deserialize(&args, instr.Data); err != nil {
			return fmt.Errorf("hosttest: initialize mint args: %w", err)
		}
		mintKey, err := metaKey(instr, 0)
		if err != nil {
			return err
		}
		mintAcct, err := l.account(mintKey)
		if err != nil {
			return err
		}
		if mintAcct.Owner != address.PublicKey(solcommon.TokenProgramID) {
			return fmt.Errorf(
				"hosttest: mint %s not owned by token program",
				mintKey,
			)
		}
		if len(mintAcct.Data) != token.MintAccountSize {
			return fmt.Errorf(
				"hosttest: mint %s has size %d, want %d",
				mintKey,
				len(mintAcct.Data),
				token.MintAccountSize,
			)
		}
		if _, ok := l.mints[mintKey]; ok {
			return fmt.Errorf("hosttest: mint %s already initialized", mintKey)
		}
		authority := address.PublicKey(args.MintAuthority)
		l.mints[mintKey] = &mintState{
			decimals:  args.Decimals,
			authority: &authority,
		}
		l.Invocations = append(l.Invocations, "token.initialize_mint")
		return nil
	case tokenTagSetAuthority:
		var args struct {
			Instruction   uint8
			AuthorityType uint8
			NewAuthority  *solcommon.PublicKey
		}
		if err := borsh.Deserialize(&args, instr.Data); err != nil {
			return fmt.Errorf("hosttest: set authority args: %w", err)
		}
		if args.AuthorityType != uint8(token.AuthorityTypeMintTokens) {
			return fmt.Errorf("hosttest: unsupported authority type")
		}
		mintKey, err := metaKey(instr, 0)
		if err != nil {
			return err
		}
		authKey, err := metaKey(instr, 1)
		if err != nil {
			return err
		}
		mint, ok := l.mints[mintKey]
		if !ok {
			return fmt.Errorf("hosttest: unknown mint %s", mintKey)
		}
		if mint.authority == nil || *mint.authority != authKey {
			return fmt.Errorf(
				"hosttest: %s is not the mint authority of %s",
				authKey,
				mintKey,
			)
		}
		if args.NewAuthority == nil {
			mint.authority = nil
		} else {
			newAuth := address.PublicKey(*args.NewAuthority)
			mint.authority = &newAuth
		}
		l.Invocations = append(l.Invocations, "token.set_authority")
		return nil
	case tokenTagMintTo:
		var args struct {
			Instruction uint8
			Amount      uint64
		}
		if err := borsh.Deserialize(&args, instr.Data); err != nil {
			return fmt.Errorf("hosttest: mint to args: %w", err)
		}
		mintKey, err := metaKey(instr, 0)
		if err != nil {
			return err
		}
		destKey, err := metaKey(instr, 1)
		if err != nil {
			return err
		}
		authKey, err := metaKey(instr, 2)
		if err != nil {
			return err
		}
		mint, ok := l.mints[mintKey]
		if !ok {
			return fmt.Errorf("hosttest: unknown mint %s", mintKey)
		}
		if mint.authority == nil || *mint.authority != authKey {
			return fmt.Errorf(
				"hosttest: %s is not the mint authority of %s",
				authKey,
				mintKey,
			)
		}
		dest, ok := l.tokenAccounts[destKey]
		if !ok {
			return fmt.Errorf("hosttest: unknown token account %s", destKey)
		}
		if dest.mint != mintKey {
			return fmt.Errorf(
				"hosttest: token account %s does not hold mint %s",
				destKey,
				mintKey,
			)
		}
		mint.supply += args.Amount
		dest.amount += args.Amount
		l.Invocations = append(l.Invocations, "token.mint_to")
		return nil
	default:
		return fmt.Errorf("hosttest: unsupported token instruction")
	}
}

func (l *Ledger) invokeAssociatedToken(instr types.Instruction) error {
	funderKey, err := metaKey(instr, 0)
	if err != nil {
		return err
	}
	ataKey, err := metaKey(instr, 1)
	if err != nil {
		return err
	}
	ownerKey, err := metaKey(instr, 2)
	if err != nil {
		return err
	}
	mintKey, err := metaKey(instr, 3)
	if err != nil {
		return err
	}
	expected, _, err := solcommon.FindAssociatedTokenAddress(
		solcommon.PublicKey(ownerKey),
		solcommon.PublicKey(mintKey),
	)
	if err != nil {
		return err
	}
	if address.PublicKey(expected) != ataKey {
		return fmt.Errorf(
			"hosttest: %s is not the associated token account for (%s, %s)",
			ataKey,
			ownerKey,
			mintKey,
		)
	}
	if _, ok := l.mints[mintKey]; !ok {
		return fmt.Errorf("hosttest: unknown mint %s", mintKey)
	}
	if _, ok := l.tokenAccounts[ataKey]; ok {
		return fmt.Errorf(
			"hosttest: token account %s already exists",
			ataKey,
		)
	}
	funder, err := l.account(funderKey)
	if err != nil {
		return err
	}
	ata, err := l.account(ataKey)
	if err != nil {
		return err
	}
	rent := l.MinimumBalance(tokenAccountSize)
	if funder.Lamports < rent {
		return fmt.Errorf("hosttest: insufficient funds in %s", funderKey)
	}
	funder.Lamports -= rent
	ata.Lamports += rent
	ata.Owner = address.PublicKey(solcommon.TokenProgramID)
	ata.Data = make([]byte, tokenAccountSize)
	l.tokenAccounts[ataKey] = &tokenAccountState{
		mint:  mintKey,
		owner: ownerKey,
	}
	l.Invocations = append(l.Invocations, "ata.create")
	return nil
}

func (l *Ledger) invokeMetadata(instr types.Instruction) error {
	if len(instr.Data) == 0 {
		return fmt.Errorf("hosttest: empty metadata instruction")
	}
	switch instr.Data[0] {
	case metadataTagCreateV2:
		var args struct {
			Instruction uint8
			Data        token_metadata.DataV2
			IsMutable   bool
		}
		if err := borsh.Deserialize(&args, instr.Data); err != nil {
			return fmt.Errorf("hosttest: create metadata args: %w", err)
		}
		metadataKey, err := metaKey(instr, 0)
		if err != nil {
			return err
		}
		mintKey, err := metaKey(instr, 1)
		if err != nil {
			return err
		}
		mintAuthKey, err := metaKey(instr, 2)
		if err != nil {
			return err
		}
		updateAuthKey, err := metaKey(instr, 4)
		if err != nil {
			return err
		}
		expected, err := token_metadata.GetTokenMetaPubkey(
			solcommon.PublicKey(mintKey),
		)
		if err != nil {
			return err
		}
		if address.PublicKey(expected) != metadataKey {
			return fmt.Errorf(
				"hosttest: %s is not the metadata account for %s",
				metadataKey,
				mintKey,
			)
		}
		mint, ok := l.mints[mintKey]
		if !ok {
			return fmt.Errorf("hosttest: unknown mint %s", mintKey)
		}
		if mint.authority == nil || *mint.authority != mintAuthKey {
			return fmt.Errorf(
				"hosttest: %s is not the mint authority of %s",
				mintAuthKey,
				mintKey,
			)
		}
		if _, ok := l.metadata[metadataKey]; ok {
			return fmt.Errorf(
				"hosttest: metadata %s already exists",
				metadataKey,
			)
		}
		m := &metadataState{
			mint:            mintKey,
			name:            args.Data.Name,
			symbol:          args.Data.Symbol,
			uri:             args.Data.Uri,
			sellerFeeBP:     args.Data.SellerFeeBasisPoints,
			updateAuthority: updateAuthKey,
			mutable:         args.IsMutable,
		}
		if args.Data.Creators != nil {
			for _, creator := range *args.Data.Creators {
				m.creators = append(m.creators, CreatorInfo{
					Address:  address.PublicKey(creator.Address),
					Verified: creator.Verified,
					Share:    creator.Share,
				})
			}
		}
		l.metadata[metadataKey] = m
		l.Invocations = append(l.Invocations, "metadata.create")
		return nil
	case metadataTagUpdateV2:
		var args struct {
			Instruction         uint8
			Data                *token_metadata.DataV2
			NewUpdateAuthority  *solcommon.PublicKey
			PrimarySaleHappened *bool
			IsMutable           *bool
		}
		if err := borsh.Deserialize(&args, instr.Data); err != nil {
			return fmt.Errorf("hosttest: update metadata args: %w", err)
		}
		metadataKey, err := metaKey(instr, 0)
		if err != nil {
			return err
		}
		updateAuthKey, err := metaKey(instr, 1)
		if err != nil {
			return err
		}
		m, ok := l.metadata[metadataKey]
		if !ok {
			return fmt.Errorf("hosttest: unknown metadata %s", metadataKey)
		}
		if m.updateAuthority != updateAuthKey {
			return fmt.Errorf(
				"hosttest: %s is not the update authority of %s",
				updateAuthKey,
				metadataKey,
			)
		}
		if !m.mutable {
			return fmt.Errorf("hosttest: metadata %s is immutable", metadataKey)
		}
		if args.Data != nil {
			m.name = args.Data.Name
			m.symbol = args.Data.Symbol
			m.uri = args.Data.Uri
			m.sellerFeeBP = args.Data.SellerFeeBasisPoints
		}
		if args.NewUpdateAuthority != nil {
			m.updateAuthority = address.PublicKey(*args.NewUpdateAuthority)
		}
		if args.PrimarySaleHappened != nil {
			m.primarySale = *args.PrimarySaleHappened
		}
		if args.IsMutable != nil {
			m.mutable = *args.IsMutable
		}
		l.Invocations = append(l.Invocations, "metadata.update")
		return nil
	default:
		return fmt.Errorf("hosttest: unsupported metadata instruction")
	}
}
