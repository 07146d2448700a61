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

package gairdrop_test

import (
	"crypto/ed25519"
	"crypto/rand"
	"testing"

	"github.com/blinklabs-io/gairdrop"
	"github.com/blinklabs-io/gairdrop/address"
	"github.com/blinklabs-io/gairdrop/common"
	"github.com/blinklabs-io/gairdrop/hosttest"
	"github.com/blinklabs-io/gairdrop/instruction"
	"github.com/blinklabs-io/gairdrop/state"

	solcommon "github.com/blocto/solana-go-sdk/common"
	"github.com/blocto/solana-go-sdk/program/metaplex/token_metadata"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

const (
	testStartTime  = int64(1_700_000_000)
	testUnitPrice  = uint64(1_000_000_000)
	testURIPrefix  = "https://example.com/m/"
	testSymbol     = "DROP"
	cooldownPeriod = int64(21600)
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func randomKey(t *testing.T) address.PublicKey {
	t.Helper()
	pub, _, err := ed25519.GenerateKey(rand.Reader)
	require.NoError(t, err)
	pk, err := address.FromBytes(pub)
	require.NoError(t, err)
	return pk
}

type testEnv struct {
	t         *testing.T
	programID address.PublicKey
	ledger    *hosttest.Ledger
	prog      *gairdrop.Program
	config    *gairdrop.Account
	authority *gairdrop.Account
	marker    *gairdrop.Account
	revenue   *gairdrop.Account
	admin     *gairdrop.Account
	feePayer  *gairdrop.Account
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	programID := randomKey(t)
	ledger := hosttest.NewLedger(programID)
	ledger.SetUnixTime(testStartTime)
	env := &testEnv{
		t:         t,
		programID: programID,
		ledger:    ledger,
		prog:      gairdrop.New(programID, ledger),
	}
	env.config = &gairdrop.Account{
		Key:      randomKey(t),
		Owner:    programID,
		Lamports: ledger.MinimumBalance(state.CollectionConfigSize),
		Data:     make([]byte, state.CollectionConfigSize),
		Writable: true,
	}
	env.authority = ledger.NewWallet(0)
	markerAddr, _, err := address.MintAuthorityAddress(
		programID,
		env.config.Key,
	)
	require.NoError(t, err)
	env.marker = &gairdrop.Account{
		Key:      markerAddr,
		Owner:    address.Zero,
		Writable: true,
	}
	env.revenue = ledger.NewWallet(0)
	env.revenue.Writable = true
	env.admin = ledger.NewWallet(0)
	env.authority.Signer = true
	env.feePayer = ledger.NewWallet(100_000_000_000)
	env.feePayer.Signer = true
	return env
}

func initPayload(supplyCap uint64) []byte {
	op := &instruction.InitializeCollection{
		SupplyCap: supplyCap,
		UnitPrice: testUnitPrice,
	}
	state.PadString(op.MetadataURIPrefix[:], testURIPrefix)
	state.PadString(op.Symbol[:], testSymbol)
	return op.Encode()
}

func (env *testEnv) initialize(supplyCap uint64) error {
	return env.ledger.Execute(
		env.prog,
		[]*gairdrop.Account{
			env.config,
			env.authority,
			env.marker,
			env.revenue,
			env.admin,
			env.feePayer,
		},
		initPayload(supplyCap),
	)
}

func (env *testEnv) register(
	user *gairdrop.Account,
) (*gairdrop.Account, error) {
	recordAddr, _, err := address.UserRecordAddress(
		env.programID,
		env.config.Key,
		user.Key,
	)
	require.NoError(env.t, err)
	record, ok := env.ledger.Account(recordAddr)
	if !ok {
		record = &gairdrop.Account{
			Key:      recordAddr,
			Owner:    address.Zero,
			Writable: true,
		}
	}
	err = env.ledger.Execute(
		env.prog,
		[]*gairdrop.Account{record, user, env.config, env.feePayer},
		(&instruction.RegisterUser{}).Encode(),
	)
	return record, err
}

// mintAccounts is the per-mint set of fresh accounts: the new token
// identity, the recipient's holding account, and the metadata account
type mintAccounts struct {
	newToken *gairdrop.Account
	ata      *gairdrop.Account
	metadata *gairdrop.Account
}

func (env *testEnv) newMintAccounts(
	user *gairdrop.Account,
) *mintAccounts {
	env.t.Helper()
	newToken := &gairdrop.Account{
		Key:      randomKey(env.t),
		Owner:    address.Zero,
		Signer:   true,
		Writable: true,
	}
	ataKey, _, err := solcommon.FindAssociatedTokenAddress(
		solcommon.PublicKey(user.Key),
		solcommon.PublicKey(newToken.Key),
	)
	require.NoError(env.t, err)
	metadataKey, err := token_metadata.GetTokenMetaPubkey(
		solcommon.PublicKey(newToken.Key),
	)
	require.NoError(env.t, err)
	return &mintAccounts{
		newToken: newToken,
		ata: &gairdrop.Account{
			Key:      address.PublicKey(ataKey),
			Owner:    address.Zero,
			Writable: true,
		},
		metadata: &gairdrop.Account{
			Key:      address.PublicKey(metadataKey),
			Owner:    address.Zero,
			Writable: true,
		},
	}
}

func (env *testEnv) mint(
	user *gairdrop.Account,
	record *gairdrop.Account,
	accts *mintAccounts,
	payer *gairdrop.Account,
) error {
	return env.ledger.Execute(
		env.prog,
		[]*gairdrop.Account{
			env.config,
			record,
			accts.newToken,
			user,
			accts.ata,
			accts.metadata,
			env.marker,
			payer,
			env.authority,
			env.admin,
			env.revenue,
		},
		(&instruction.MintOne{}).Encode(),
	)
}

func (env *testEnv) newPayer() *gairdrop.Account {
	payer := env.ledger.NewWallet(100_000_000_000)
	payer.Signer = true
	payer.Writable = true
	return payer
}

func (env *testEnv) configState() state.CollectionConfig {
	config, err := state.UnpackCollectionConfig(env.config.Data)
	require.NoError(env.t, err)
	return config
}

func recordState(
	t *testing.T,
	record *gairdrop.Account,
) state.UserRecord {
	ret, err := state.UnpackUserRecord(record.Data)
	require.NoError(t, err)
	return ret
}

func TestInitializeCollection(t *testing.T) {
	env := newTestEnv(t)
	require.NoError(t, env.initialize(100))
	config := env.configState()
	assert.True(t, config.Initialized)
	assert.Equal(t, env.authority.Key, config.Authority)
	assert.Equal(t, uint64(0), config.IssuedCount)
	assert.Equal(t, uint64(100), config.SupplyCap)
	assert.Equal(t, uint64(0), config.RegisteredUsers)
	assert.Equal(t, env.revenue.Key, config.RevenueWallet)
	assert.Equal(t, env.admin.Key, config.Admin)
	assert.Equal(t, testUnitPrice, config.UnitPrice)
	// The marker account was created with a derived signature
	assert.Equal(t, env.programID, env.marker.Owner)
	assert.Greater(t, env.marker.Lamports, uint64(0))
	assert.Len(t, env.marker.Data, 0)
	assert.Equal(t, []string{"system.create_account"}, env.ledger.Invocations)
}

func TestInitializeCollectionTwice(t *testing.T) {
	env := newTestEnv(t)
	require.NoError(t, env.initialize(100))
	err := env.initialize(100)
	assert.ErrorIs(t, err, common.ErrAlreadyInitialized)
	assert.True(t, env.configState().Initialized)
}

func TestInitializeCollectionValidation(t *testing.T) {
	testDefs := []struct {
		name        string
		mutate      func(env *testEnv)
		expectedErr error
	}{
		{
			name: "config not writable",
			mutate: func(env *testEnv) {
				env.config.Writable = false
			},
			expectedErr: common.ErrWritableRequired,
		},
		{
			name: "config not owned by program",
			mutate: func(env *testEnv) {
				env.config.Owner = address.Zero
			},
			expectedErr: common.ErrIllegalOwner,
		},
		{
			name: "marker not derived",
			mutate: func(env *testEnv) {
				env.marker.Key = randomKey(env.t)
			},
			expectedErr: common.ErrDerivedAddressMismatch,
		},
		{
			name: "fee payer not signer",
			mutate: func(env *testEnv) {
				env.feePayer.Signer = false
			},
			expectedErr: common.ErrSignerRequired,
		},
	}
	for _, testDef := range testDefs {
		t.Run(testDef.name, func(t *testing.T) {
			env := newTestEnv(t)
			testDef.mutate(env)
			err := env.initialize(100)
			assert.ErrorIs(t, err, testDef.expectedErr)
			assert.False(t, env.configState().Initialized)
		})
	}
}

func TestRegisterUser(t *testing.T) {
	env := newTestEnv(t)
	require.NoError(t, env.initialize(100))
	user := env.ledger.NewWallet(0)
	record, err := env.register(user)
	require.NoError(t, err)
	assert.Equal(t, env.programID, record.Owner)
	recordData := recordState(t, record)
	assert.True(t, recordData.Initialized)
	assert.Equal(t, env.config.Key, recordData.Collection)
	assert.Equal(t, user.Key, recordData.User)
	assert.Equal(t, uint64(0), recordData.MintCount)
	assert.Equal(t, uint64(0), recordData.CooldownUntil)
	assert.Equal(t, uint64(1), env.configState().RegisteredUsers)
	// A second user bumps the counter again
	_, err = env.register(env.ledger.NewWallet(0))
	require.NoError(t, err)
	assert.Equal(t, uint64(2), env.configState().RegisteredUsers)
}

func TestRegisterUserTwice(t *testing.T) {
	env := newTestEnv(t)
	require.NoError(t, env.initialize(100))
	user := env.ledger.NewWallet(0)
	_, err := env.register(user)
	require.NoError(t, err)
	_, err = env.register(user)
	assert.ErrorIs(t, err, common.ErrAlreadyInitialized)
	assert.Equal(t, uint64(1), env.configState().RegisteredUsers)
}

func TestRegisterUserUninitializedCollection(t *testing.T) {
	env := newTestEnv(t)
	_, err := env.register(env.ledger.NewWallet(0))
	assert.ErrorIs(t, err, common.ErrUninitialized)
}

func TestRegisterUserWrongRecordAddress(t *testing.T) {
	env := newTestEnv(t)
	require.NoError(t, env.initialize(100))
	user := env.ledger.NewWallet(0)
	record := &gairdrop.Account{
		Key:      randomKey(t),
		Owner:    address.Zero,
		Writable: true,
	}
	err := env.ledger.Execute(
		env.prog,
		[]*gairdrop.Account{record, user, env.config, env.feePayer},
		(&instruction.RegisterUser{}).Encode(),
	)
	assert.ErrorIs(t, err, common.ErrDerivedAddressMismatch)
}

func TestMintOne(t *testing.T) {
	env := newTestEnv(t)
	require.NoError(t, env.initialize(100))
	user := env.ledger.NewWallet(0)
	record, err := env.register(user)
	require.NoError(t, err)
	accts := env.newMintAccounts(user)
	payer := env.newPayer()
	payerBalance := payer.Lamports
	require.NoError(t, env.mint(user, record, accts, payer))

	// Config and record updates
	assert.Equal(t, uint64(1), env.configState().IssuedCount)
	recordData := recordState(t, record)
	assert.Equal(t, uint64(1), recordData.MintCount)
	assert.Equal(
		t,
		uint64(testStartTime+cooldownPeriod),
		recordData.CooldownUntil,
	)

	// Token effects: one unit in the user's holding account, minting
	// permanently revoked
	mint, ok := env.ledger.Mint(accts.newToken.Key)
	require.True(t, ok)
	assert.Equal(t, uint8(0), mint.Decimals)
	assert.Equal(t, uint64(1), mint.Supply)
	assert.Nil(t, mint.Authority)
	ata, ok := env.ledger.TokenAccount(accts.ata.Key)
	require.True(t, ok)
	assert.Equal(t, accts.newToken.Key, ata.Mint)
	assert.Equal(t, user.Key, ata.Owner)
	assert.Equal(t, uint64(1), ata.Amount)

	// Metadata effects
	metadata, ok := env.ledger.Metadata(accts.metadata.Key)
	require.True(t, ok)
	assert.Equal(t, testSymbol+" #0", metadata.Name)
	assert.Equal(t, testSymbol, metadata.Symbol)
	assert.Equal(t, testURIPrefix+"0.json", metadata.URI)
	assert.Equal(t, uint16(1000), metadata.SellerFeeBP)
	assert.Equal(
		t,
		[]hosttest.CreatorInfo{
			{Address: env.marker.Key, Verified: true, Share: 0},
			{Address: env.revenue.Key, Verified: false, Share: 100},
		},
		metadata.Creators,
	)
	assert.Equal(t, env.admin.Key, metadata.UpdateAuthority)
	assert.True(t, metadata.PrimarySale)
	assert.False(t, metadata.Mutable)

	// Payment
	assert.Equal(t, testUnitPrice, env.ledger.Balance(env.revenue.Key))
	assert.Less(t, payer.Lamports, payerBalance-testUnitPrice)

	// Invocation ordering
	calls := env.ledger.Invocations
	require.GreaterOrEqual(t, len(calls), 8)
	assert.Equal(
		t,
		[]string{
			"system.create_account",
			"token.initialize_mint",
			"ata.create",
			"metadata.create",
			"token.mint_to",
			"metadata.update",
			"token.set_authority",
			"system.transfer",
		},
		calls[len(calls)-8:],
	)
}

func TestMintSupplyExhausted(t *testing.T) {
	env := newTestEnv(t)
	require.NoError(t, env.initialize(1))
	user := env.ledger.NewWallet(0)
	record, err := env.register(user)
	require.NoError(t, err)
	payer := env.newPayer()
	require.NoError(t, env.mint(user, record, env.newMintAccounts(user), payer))
	// Move past the cooldown so the supply check is what rejects
	env.ledger.AdvanceTime(cooldownPeriod)
	err = env.mint(user, record, env.newMintAccounts(user), payer)
	assert.ErrorIs(t, err, common.ErrOutOfSupply)
	assert.Equal(t, uint64(1), env.configState().IssuedCount)
	assert.Equal(t, uint64(1), recordState(t, record).MintCount)
}

func TestMintCooldown(t *testing.T) {
	env := newTestEnv(t)
	require.NoError(t, env.initialize(5))
	user := env.ledger.NewWallet(0)
	record, err := env.register(user)
	require.NoError(t, err)
	payer := env.newPayer()
	require.NoError(t, env.mint(user, record, env.newMintAccounts(user), payer))
	// Immediate retry is still inside the cooldown window
	err = env.mint(user, record, env.newMintAccounts(user), payer)
	assert.ErrorIs(t, err, common.ErrUserTimeout)
	assert.Equal(t, uint64(1), recordState(t, record).MintCount)
	// The boundary instant is allowed: reject only while now is strictly
	// before the recorded cooldown end
	env.ledger.AdvanceTime(cooldownPeriod)
	require.NoError(t, env.mint(user, record, env.newMintAccounts(user), payer))
	recordData := recordState(t, record)
	assert.Equal(t, uint64(2), recordData.MintCount)
	assert.Equal(
		t,
		uint64(testStartTime+2*cooldownPeriod),
		recordData.CooldownUntil,
	)
	assert.Equal(t, uint64(2), env.configState().IssuedCount)
}

func TestMintWrongAdmin(t *testing.T) {
	env := newTestEnv(t)
	require.NoError(t, env.initialize(100))
	user := env.ledger.NewWallet(0)
	record, err := env.register(user)
	require.NoError(t, err)
	accts := env.newMintAccounts(user)
	payer := env.newPayer()
	payerBalance := payer.Lamports
	invocations := len(env.ledger.Invocations)

	env.admin = env.ledger.NewWallet(0)
	err = env.mint(user, record, accts, payer)
	assert.ErrorIs(t, err, common.ErrWrongAccountAddress)

	// Nothing may have changed
	assert.Equal(t, uint64(0), env.configState().IssuedCount)
	recordData := recordState(t, record)
	assert.Equal(t, uint64(0), recordData.MintCount)
	assert.Equal(t, uint64(0), recordData.CooldownUntil)
	assert.Equal(t, payerBalance, payer.Lamports)
	assert.Equal(t, uint64(0), env.ledger.Balance(env.revenue.Key))
	_, ok := env.ledger.Mint(accts.newToken.Key)
	assert.False(t, ok)
	assert.Len(t, env.ledger.Invocations, invocations)
}

func TestMintValidation(t *testing.T) {
	type mintParts struct {
		env    *testEnv
		user   *gairdrop.Account
		record *gairdrop.Account
		accts  *mintAccounts
		payer  *gairdrop.Account
	}
	testDefs := []struct {
		name        string
		mutate      func(parts *mintParts)
		expectedErr error
	}{
		{
			name: "record bound to other user",
			mutate: func(parts *mintParts) {
				parts.user = parts.env.ledger.NewWallet(0)
			},
			expectedErr: common.ErrInvalidAccountData,
		},
		{
			name: "new token not signer",
			mutate: func(parts *mintParts) {
				parts.accts.newToken.Signer = false
			},
			expectedErr: common.ErrSignerRequired,
		},
		{
			name: "marker not derived",
			mutate: func(parts *mintParts) {
				parts.env.marker.Key = randomKey(parts.env.t)
			},
			expectedErr: common.ErrDerivedAddressMismatch,
		},
		{
			name: "payer not signer",
			mutate: func(parts *mintParts) {
				parts.payer.Signer = false
			},
			expectedErr: common.ErrSignerRequired,
		},
		{
			name: "payer not externally owned",
			mutate: func(parts *mintParts) {
				parts.payer.Owner = parts.env.programID
			},
			expectedErr: common.ErrIllegalOwner,
		},
		{
			name: "authority not signer",
			mutate: func(parts *mintParts) {
				parts.env.authority.Signer = false
			},
			expectedErr: common.ErrSignerRequired,
		},
		{
			name: "wrong revenue wallet",
			mutate: func(parts *mintParts) {
				wallet := parts.env.ledger.NewWallet(0)
				wallet.Writable = true
				parts.env.revenue = wallet
			},
			expectedErr: common.ErrWrongAccountAddress,
		},
		{
			name: "revenue wallet not writable",
			mutate: func(parts *mintParts) {
				parts.env.revenue.Writable = false
			},
			expectedErr: common.ErrWritableRequired,
		},
	}
	for _, testDef := range testDefs {
		t.Run(testDef.name, func(t *testing.T) {
			env := newTestEnv(t)
			require.NoError(t, env.initialize(100))
			user := env.ledger.NewWallet(0)
			record, err := env.register(user)
			require.NoError(t, err)
			parts := &mintParts{
				env:    env,
				user:   user,
				record: record,
				accts:  env.newMintAccounts(user),
				payer:  env.newPayer(),
			}
			testDef.mutate(parts)
			err = env.mint(parts.user, parts.record, parts.accts, parts.payer)
			assert.ErrorIs(t, err, testDef.expectedErr)
			assert.Equal(t, uint64(0), env.configState().IssuedCount)
		})
	}
}

func TestMintInsufficientFundsRollsBack(t *testing.T) {
	env := newTestEnv(t)
	require.NoError(t, env.initialize(100))
	user := env.ledger.NewWallet(0)
	record, err := env.register(user)
	require.NoError(t, err)
	accts := env.newMintAccounts(user)
	// Enough for the account rents, not for the unit price, so the final
	// payment transfer fails after the token invocations succeeded
	payer := env.ledger.NewWallet(10_000_000)
	payer.Signer = true
	payer.Writable = true
	invocations := len(env.ledger.Invocations)

	err = env.mint(user, record, accts, payer)
	require.Error(t, err)

	// Everything rolls back, including the external-call effects
	assert.Equal(t, uint64(0), env.configState().IssuedCount)
	assert.Equal(t, uint64(0), recordState(t, record).MintCount)
	assert.Equal(t, uint64(10_000_000), payer.Lamports)
	assert.Equal(t, uint64(0), env.ledger.Balance(env.revenue.Key))
	_, ok := env.ledger.Mint(accts.newToken.Key)
	assert.False(t, ok)
	_, ok = env.ledger.TokenAccount(accts.ata.Key)
	assert.False(t, ok)
	_, ok = env.ledger.Metadata(accts.metadata.Key)
	assert.False(t, ok)
	assert.Len(t, env.ledger.Invocations, invocations)
}

func TestProcessNotEnoughAccounts(t *testing.T) {
	env := newTestEnv(t)
	err := env.ledger.Execute(
		env.prog,
		[]*gairdrop.Account{env.config},
		initPayload(100),
	)
	assert.ErrorIs(t, err, common.ErrNotEnoughAccounts)
}

func TestProcessUnknownOperation(t *testing.T) {
	env := newTestEnv(t)
	err := env.ledger.Execute(
		env.prog,
		[]*gairdrop.Account{},
		[]byte{42},
	)
	assert.ErrorIs(t, err, common.ErrBadOperationId)
}
