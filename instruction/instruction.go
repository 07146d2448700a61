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

// Package instruction decodes opaque request payloads into the closed set
// of operations the airdrop program supports, and builds the same payloads
// for clients. All argument bodies are fixed-width little-endian layouts.
package instruction

import (
	"encoding/binary"

	"github.com/blinklabs-io/gairdrop/common"
)

const (
	OpInitializeCollection = 1
	OpRegisterUser         = 2
	OpMintOne              = 3
)

const (
	// MetadataURIPrefixSize is the fixed width of the metadata URI prefix
	// argument (NUL-terminated ASCII, zero-padded)
	MetadataURIPrefixSize = 32

	// SymbolSize is the fixed width of the token symbol argument
	SymbolSize = 8

	// initializeCollectionBodySize is the exact argument body length for
	// InitializeCollection: supply cap, URI prefix, symbol, unit price
	initializeCollectionBodySize = 8 + MetadataURIPrefixSize + SymbolSize + 8
)

// Operation is implemented by each decoded operation type
type Operation interface {
	isOperation()
}

// InitializeCollection registers a new limited-supply collection.
//
// Accounts required:
//  0. `[writable]` Collection config. Stores all of the collection state
//  1. `[]` Airdrop authority. Must co-sign every future mint
//  2. `[]` Mint-authority marker. Derived; will sign token-service calls
//  3. `[]` Revenue wallet. Destination of payment proceeds
//  4. `[]` Admin. Must match on every mint
//  5. `[signer]` Fee payer. Funds the marker account creation
type InitializeCollection struct {
	SupplyCap         uint64
	MetadataURIPrefix [MetadataURIPrefixSize]byte
	Symbol            [SymbolSize]byte
	UnitPrice         uint64
}

func (*InitializeCollection) isOperation() {}

// Encode returns the wire payload for the operation
func (i *InitializeCollection) Encode() []byte {
	ret := make([]byte, 1+initializeCollectionBodySize)
	ret[0] = OpInitializeCollection
	binary.LittleEndian.PutUint64(ret[1:9], i.SupplyCap)
	copy(ret[9:41], i.MetadataURIPrefix[:])
	copy(ret[41:49], i.Symbol[:])
	binary.LittleEndian.PutUint64(ret[49:57], i.UnitPrice)
	return ret
}

// RegisterUser creates the one-per-(collection, user) record that tracks
// mints and cooldowns. It carries no arguments.
//
// Accounts required:
//  0. `[writable]` User record. Derived; stores per-user state
//  1. `[]` User. Wallet the record is bound to
//  2. `[writable]` Collection config
//  3. `[signer]` Fee payer. Funds the record account creation
type RegisterUser struct{}

func (*RegisterUser) isOperation() {}

func (*RegisterUser) Encode() []byte {
	return []byte{OpRegisterUser}
}

// MintOne mints exactly one unit to a registered user. It carries no
// arguments.
//
// Accounts required:
//  0. `[writable]` Collection config
//  1. `[writable]` User record
//  2. `[signer,writable]` New token identity
//  3. `[]` User receiving the token
//  4. `[writable]` User's associated holding account
//  5. `[writable]` Token metadata account
//  6. `[]` Mint-authority marker. Derived
//  7. `[signer,writable]` Payer. Charged the unit price
//  8. `[signer]` Airdrop authority. Approves this mint
//  9. `[]` Admin. Must match the collection config
// 10. `[writable]` Revenue wallet. Must match the collection config
type MintOne struct{}

func (*MintOne) isOperation() {}

func (*MintOne) Encode() []byte {
	return []byte{OpMintOne}
}

// Decode parses an opaque request payload into a typed operation. It is a
// pure parse: the only failures are an unknown opcode or a malformed
// argument body.
func Decode(data []byte) (Operation, error) {
	if len(data) == 0 {
		return nil, common.ErrBadOperationId
	}
	opId, body := data[0], data[1:]
	switch opId {
	case OpInitializeCollection:
		return decodeInitializeCollection(body)
	case OpRegisterUser:
		if len(body) != 0 {
			return nil, common.ErrBadOperationArgument
		}
		return &RegisterUser{}, nil
	case OpMintOne:
		if len(body) != 0 {
			return nil, common.ErrBadOperationArgument
		}
		return &MintOne{}, nil
	default:
		return nil, common.ErrBadOperationId
	}
}

func decodeInitializeCollection(body []byte) (*InitializeCollection, error) {
	if len(body) != initializeCollectionBodySize {
		return nil, common.ErrBadOperationArgument
	}
	ret := &InitializeCollection{
		SupplyCap: binary.LittleEndian.Uint64(body[0:8]),
		UnitPrice: binary.LittleEndian.Uint64(body[48:56]),
	}
	copy(ret.MetadataURIPrefix[:], body[8:40])
	copy(ret.Symbol[:], body[40:48])
	return ret, nil
}
