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
	"github.com/blinklabs-io/gairdrop/common"
)

// Account is the per-invocation view of a ledger account, as supplied by the
// host dispatch harness. The role flags describe this invocation only: the
// same account may be writable in one call and read-only in the next.
type Account struct {
	Key      address.PublicKey
	Owner    address.PublicKey
	Lamports uint64
	Data     []byte
	Signer   bool
	Writable bool
}

// accountList wraps the ordered account slice handed to an operation and
// tracks a cursor, so each handler consumes accounts in declaration order.
type accountList struct {
	accounts []*Account
	next     int
}

func newAccountList(accounts []*Account) *accountList {
	return &accountList{accounts: accounts}
}

func (l *accountList) Next() (*Account, error) {
	if l.next >= len(l.accounts) {
		return nil, common.ErrNotEnoughAccounts
	}
	ret := l.accounts[l.next]
	l.next++
	return ret, nil
}
