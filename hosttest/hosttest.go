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

// Package hosttest provides an in-memory implementation of the host ledger
// for exercising the airdrop program in tests: it carries out the external
// system/token/metadata invocations against a small bookkeeping model,
// verifies signatures including derived-address signatures, and rolls an
// invocation back wholesale when the program rejects it.
package hosttest

import (
	"crypto/ed25519"
	"crypto/rand"
	"fmt"

	"github.com/blinklabs-io/gairdrop"
	"github.com/blinklabs-io/gairdrop/address"
	"github.com/jinzhu/copier"

	"github.com/blocto/solana-go-sdk/types"
)

const (
	// lamportsPerByteYear approximates the host ledger's rent rate. The
	// exact figure does not matter to the program, only that balances are
	// consistent across an invocation.
	lamportsPerByteYear = 6960
	accountRentOverhead = 128

	tokenAccountSize = 165
)

type mintState struct {
	decimals  uint8
	authority *address.PublicKey
	supply    uint64
}

type tokenAccountState struct {
	mint   address.PublicKey
	owner  address.PublicKey
	amount uint64
}

type metadataState struct {
	mint            address.PublicKey
	name            string
	symbol          string
	uri             string
	sellerFeeBP     uint16
	creators        []CreatorInfo
	updateAuthority address.PublicKey
	primarySale     bool
	mutable         bool
}

// Ledger is the in-memory host. The zero value is not usable; construct
// with NewLedger.
type Ledger struct {
	programID     address.PublicKey
	accounts      map[address.PublicKey]*gairdrop.Account
	signers       map[address.PublicKey]bool
	now           int64
	mints         map[address.PublicKey]*mintState
	tokenAccounts map[address.PublicKey]*tokenAccountState
	metadata      map[address.PublicKey]*metadataState

	// Invocations records the external calls carried out, in order, for
	// assertions on call sequencing
	Invocations []string
}

func NewLedger(programID address.PublicKey) *Ledger {
	return &Ledger{
		programID:     programID,
		accounts:      map[address.PublicKey]*gairdrop.Account{},
		signers:       map[address.PublicKey]bool{},
		mints:         map[address.PublicKey]*mintState{},
		tokenAccounts: map[address.PublicKey]*tokenAccountState{},
		metadata:      map[address.PublicKey]*metadataState{},
	}
}

func (l *Ledger) UnixTime() int64 {
	return l.now
}

func (l *Ledger) SetUnixTime(t int64) {
	l.now = t
}

// AdvanceTime moves the ledger clock forward by the given number of seconds
func (l *Ledger) AdvanceTime(seconds int64) {
	l.now += seconds
}

func (l *Ledger) MinimumBalance(dataLen int) uint64 {
	return uint64(dataLen+accountRentOverhead) * lamportsPerByteYear
}

// AddAccount registers an account so invocations can reference it by key
func (l *Ledger) AddAccount(acct *gairdrop.Account) {
	l.accounts[acct.Key] = acct
}

// NewWallet creates and registers an externally-owned account with a fresh
// ed25519 keypair and the given starting balance
func (l *Ledger) NewWallet(lamports uint64) *gairdrop.Account {
	pub, _, err := ed25519.GenerateKey(rand.Reader)
	if err != nil {
		panic(err)
	}
	var key address.PublicKey
	copy(key[:], pub)
	acct := &gairdrop.Account{
		Key:      key,
		Owner:    address.Zero,
		Lamports: lamports,
	}
	l.AddAccount(acct)
	return acct
}

// Account returns the registered account for a key, if any
func (l *Ledger) Account(key address.PublicKey) (*gairdrop.Account, bool) {
	acct, ok := l.accounts[key]
	return acct, ok
}

// Balance returns the lamport balance of a registered account
func (l *Ledger) Balance(key address.PublicKey) uint64 {
	if acct, ok := l.accounts[key]; ok {
		return acct.Lamports
	}
	return 0
}

// MintInfo is the observable state of a token mint
type MintInfo struct {
	Decimals  uint8
	Authority *address.PublicKey
	Supply    uint64
}

// Mint returns the state of a token mint, if one exists at the key
func (l *Ledger) Mint(key address.PublicKey) (MintInfo, bool) {
	m, ok := l.mints[key]
	if !ok {
		return MintInfo{}, false
	}
	ret := MintInfo{
		Decimals: m.decimals,
		Supply:   m.supply,
	}
	if m.authority != nil {
		auth := *m.authority
		ret.Authority = &auth
	}
	return ret, true
}

// TokenAccountInfo is the observable state of a token holding account
type TokenAccountInfo struct {
	Mint   address.PublicKey
	Owner  address.PublicKey
	Amount uint64
}

// TokenAccount returns the state of a token holding account, if one exists
// at the key
func (l *Ledger) TokenAccount(key address.PublicKey) (TokenAccountInfo, bool) {
	t, ok := l.tokenAccounts[key]
	if !ok {
		return TokenAccountInfo{}, false
	}
	return TokenAccountInfo{
		Mint:   t.mint,
		Owner:  t.owner,
		Amount: t.amount,
	}, true
}

// CreatorInfo is one creator entry on a metadata record
type CreatorInfo struct {
	Address  address.PublicKey
	Verified bool
	Share    uint8
}

// MetadataInfo is the observable state of a metadata record
type MetadataInfo struct {
	Mint            address.PublicKey
	Name            string
	Symbol          string
	URI             string
	SellerFeeBP     uint16
	Creators        []CreatorInfo
	UpdateAuthority address.PublicKey
	PrimarySale     bool
	Mutable         bool
}

// Metadata returns the state of a metadata record, if one exists at the key
func (l *Ledger) Metadata(key address.PublicKey) (MetadataInfo, bool) {
	m, ok := l.metadata[key]
	if !ok {
		return MetadataInfo{}, false
	}
	return MetadataInfo{
		Mint:            m.mint,
		Name:            m.name,
		Symbol:          m.symbol,
		URI:             m.uri,
		SellerFeeBP:     m.sellerFeeBP,
		Creators:        append([]CreatorInfo{}, m.creators...),
		UpdateAuthority: m.updateAuthority,
		PrimarySale:     m.primarySale,
		Mutable:         m.mutable,
	}, true
}

// Execute runs one program invocation with all-or-nothing semantics: when
// the program rejects, every account and registry mutation made along the
// way is rolled back before the error is returned.
func (l *Ledger) Execute(
	prog *gairdrop.Program,
	accounts []*gairdrop.Account,
	payload []byte,
) error {
	for _, acct := range accounts {
		l.accounts[acct.Key] = acct
	}
	l.signers = map[address.PublicKey]bool{}
	for _, acct := range accounts {
		if acct.Signer {
			l.signers[acct.Key] = true
		}
	}
	snap, err := l.snapshot()
	if err != nil {
		return fmt.Errorf("hosttest: snapshot: %w", err)
	}
	if err := prog.Process(accounts, payload); err != nil {
		l.restore(snap)
		return err
	}
	return nil
}

type snapshot struct {
	accounts      map[address.PublicKey]gairdrop.Account
	mints         map[address.PublicKey]*mintState
	tokenAccounts map[address.PublicKey]*tokenAccountState
	metadata      map[address.PublicKey]*metadataState
	invocations   int
}

func (l *Ledger) snapshot() (*snapshot, error) {
	snap := &snapshot{
		accounts:    map[address.PublicKey]gairdrop.Account{},
		invocations: len(l.Invocations),
	}
	copyOpt := copier.Option{DeepCopy: true}
	for key, acct := range l.accounts {
		var cp gairdrop.Account
		if err := copier.CopyWithOption(&cp, acct, copyOpt); err != nil {
			return nil, err
		}
		snap.accounts[key] = cp
	}
	if err := copier.CopyWithOption(&snap.mints, &l.mints, copyOpt); err != nil {
		return nil, err
	}
	if err := copier.CopyWithOption(
		&snap.tokenAccounts,
		&l.tokenAccounts,
		copyOpt,
	); err != nil {
		return nil, err
	}
	if err := copier.CopyWithOption(
		&snap.metadata,
		&l.metadata,
		copyOpt,
	); err != nil {
		return nil, err
	}
	return snap, nil
}

func (l *Ledger) restore(snap *snapshot) {
	// Mutate through the registered pointers so callers holding account
	// references observe the rollback
	for key, saved := range snap.accounts {
		if acct, ok := l.accounts[key]; ok {
			*acct = saved
		}
	}
	l.mints = snap.mints
	l.tokenAccounts = snap.tokenAccounts
	l.metadata = snap.metadata
	l.Invocations = l.Invocations[:snap.invocations]
}

func (l *Ledger) account(key address.PublicKey) (*gairdrop.Account, error) {
	acct, ok := l.accounts[key]
	if !ok {
		return nil, fmt.Errorf("hosttest: unknown account %s", key)
	}
	return acct, nil
}

func (l *Ledger) verifySigners(
	instr types.Instruction,
	derived *address.PublicKey,
) error {
	for _, meta := range instr.Accounts {
		if !meta.IsSigner {
			continue
		}
		key := address.PublicKey(meta.PubKey)
		if l.signers[key] {
			continue
		}
		if derived != nil && *derived == key {
			continue
		}
		return fmt.Errorf("hosttest: missing signature for %s", key)
	}
	return nil
}
