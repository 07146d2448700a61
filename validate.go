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

// Account-role validators. Each check is stateless and maps one account
// property to one taxonomy error, so a rejected invocation pinpoints the
// offending account. All checks run before any external call or state write.

func requireSigner(acct *Account) error {
	if !acct.Signer {
		return common.ErrSignerRequired
	}
	return nil
}

func requireWritable(acct *Account) error {
	if !acct.Writable {
		return common.ErrWritableRequired
	}
	return nil
}

func requireOwnedBy(acct *Account, owner address.PublicKey) error {
	if acct.Owner != owner {
		return common.ErrIllegalOwner
	}
	return nil
}

func requireDerived(acct *Account, expected address.PublicKey) error {
	if acct.Key != expected {
		return common.ErrDerivedAddressMismatch
	}
	return nil
}

// requireUnoccupied rejects accounts that already hold a balance, which is
// the occupancy signal for derived accounts that have been created before
func requireUnoccupied(acct *Account) error {
	if acct.Lamports > 0 {
		return common.ErrAlreadyInitialized
	}
	return nil
}

type initializable interface {
	IsInitialized() bool
}

func requireInitialized(rec initializable) error {
	if !rec.IsInitialized() {
		return common.ErrUninitialized
	}
	return nil
}

func requireUninitialized(rec initializable) error {
	if rec.IsInitialized() {
		return common.ErrAlreadyInitialized
	}
	return nil
}
