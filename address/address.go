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

// Package address implements the 32-byte ledger addresses used by the
// airdrop program, including deterministic derivation of program-owned
// sub-addresses. Derived addresses are guaranteed to fall outside the
// ed25519 curve, so no private key can ever sign for them.
package address

import (
	"fmt"

	"filippo.io/edwards25519"
	"github.com/btcsuite/btcd/btcutil/base58"
)

// Size is the length of an address in bytes
const Size = 32

// PublicKey is a raw 32-byte ledger address
type PublicKey [Size]byte

// Zero is the all-zero address (also the system program id)
var Zero = PublicKey{}

// FromBytes returns a PublicKey from a raw 32-byte slice
func FromBytes(data []byte) (PublicKey, error) {
	if len(data) != Size {
		return PublicKey{}, fmt.Errorf(
			"address must be %d bytes, got %d",
			Size,
			len(data),
		)
	}
	var pk PublicKey
	copy(pk[:], data)
	return pk, nil
}

// FromBase58 returns a PublicKey from its base58 text form
func FromBase58(addr string) (PublicKey, error) {
	decoded := base58.Decode(addr)
	if len(decoded) != Size {
		return PublicKey{}, fmt.Errorf("invalid base58 address: %q", addr)
	}
	var pk PublicKey
	copy(pk[:], decoded)
	return pk, nil
}

// MustFromBase58 is FromBase58 for well-known constants; it panics on
// malformed input
func MustFromBase58(addr string) PublicKey {
	pk, err := FromBase58(addr)
	if err != nil {
		panic(err)
	}
	return pk
}

func (pk PublicKey) String() string {
	return base58.Encode(pk[:])
}

// Bytes returns a copy of the raw address bytes
func (pk PublicKey) Bytes() []byte {
	ret := make([]byte, Size)
	copy(ret, pk[:])
	return ret
}

func (pk PublicKey) IsZero() bool {
	return pk == Zero
}

// OnCurve reports whether the address is a valid ed25519 curve point, i.e.
// whether a private key could exist for it. Wallet addresses are on-curve;
// program-derived addresses never are.
func OnCurve(pk PublicKey) bool {
	_, err := new(edwards25519.Point).SetBytes(pk[:])
	return err == nil
}
