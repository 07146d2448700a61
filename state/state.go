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

// Package state packs and unpacks the records the airdrop program persists
// in account storage. The layouts are fixed-offset with no padding and must
// stay byte-compatible with already-persisted records.
package state

import (
	"encoding/binary"
	"unicode/utf8"

	"github.com/blinklabs-io/gairdrop/address"
	"github.com/blinklabs-io/gairdrop/common"
)

const (
	// CollectionConfigSize is the persisted size of a CollectionConfig
	CollectionConfigSize = 1 + 32 + 8 + 8 + MetadataURIPrefixSize + SymbolSize + 8 + 32 + 32 + 8

	// UserRecordSize is the persisted size of a UserRecord
	UserRecordSize = 1 + 32 + 32 + 8 + 8

	// MintAuthorityMarkerSize is the persisted size of the mint-authority
	// marker. The marker has no payload; the occupied address is the state.
	MintAuthorityMarkerSize = 0

	MetadataURIPrefixSize = 32
	SymbolSize            = 8
)

// CollectionConfig is the one-per-collection record. It is created once by
// InitializeCollection and mutated only by MintOne (issued count) and
// RegisterUser (registered-user count).
type CollectionConfig struct {
	Initialized       bool
	Authority         address.PublicKey
	IssuedCount       uint64
	SupplyCap         uint64
	MetadataURIPrefix [MetadataURIPrefixSize]byte
	Symbol            [SymbolSize]byte
	RegisteredUsers   uint64
	RevenueWallet     address.PublicKey
	Admin             address.PublicKey
	UnitPrice         uint64
}

func (c *CollectionConfig) IsInitialized() bool {
	return c.Initialized
}

// Pack writes the full fixed-length representation into dst. There are no
// partial writes: dst must hold the entire record.
func (c *CollectionConfig) Pack(dst []byte) error {
	if len(dst) < CollectionConfigSize {
		return common.ErrInvalidAccountData
	}
	dst[0] = packBool(c.Initialized)
	copy(dst[1:33], c.Authority[:])
	binary.LittleEndian.PutUint64(dst[33:41], c.IssuedCount)
	binary.LittleEndian.PutUint64(dst[41:49], c.SupplyCap)
	copy(dst[49:81], c.MetadataURIPrefix[:])
	copy(dst[81:89], c.Symbol[:])
	binary.LittleEndian.PutUint64(dst[89:97], c.RegisteredUsers)
	copy(dst[97:129], c.RevenueWallet[:])
	copy(dst[129:161], c.Admin[:])
	binary.LittleEndian.PutUint64(dst[161:169], c.UnitPrice)
	return nil
}

// UnpackCollectionConfig reads a CollectionConfig from account storage. It
// fails only on a short buffer or an initialization flag that is neither
// 0 nor 1.
func UnpackCollectionConfig(src []byte) (CollectionConfig, error) {
	if len(src) < CollectionConfigSize {
		return CollectionConfig{}, common.ErrCorruptState
	}
	initialized, err := unpackBool(src[0])
	if err != nil {
		return CollectionConfig{}, err
	}
	ret := CollectionConfig{
		Initialized:     initialized,
		IssuedCount:     binary.LittleEndian.Uint64(src[33:41]),
		SupplyCap:       binary.LittleEndian.Uint64(src[41:49]),
		RegisteredUsers: binary.LittleEndian.Uint64(src[89:97]),
		UnitPrice:       binary.LittleEndian.Uint64(src[161:169]),
	}
	copy(ret.Authority[:], src[1:33])
	copy(ret.MetadataURIPrefix[:], src[49:81])
	copy(ret.Symbol[:], src[81:89])
	copy(ret.RevenueWallet[:], src[97:129])
	copy(ret.Admin[:], src[129:161])
	return ret, nil
}

// UserRecord is the one-per-(collection, user) record. Its address is
// derived from the "user_data" tag, so at most one can exist per pair.
type UserRecord struct {
	Initialized   bool
	Collection    address.PublicKey
	User          address.PublicKey
	MintCount     uint64
	CooldownUntil uint64
}

func (r *UserRecord) IsInitialized() bool {
	return r.Initialized
}

// Pack writes the full fixed-length representation into dst
func (r *UserRecord) Pack(dst []byte) error {
	if len(dst) < UserRecordSize {
		return common.ErrInvalidAccountData
	}
	dst[0] = packBool(r.Initialized)
	copy(dst[1:33], r.Collection[:])
	copy(dst[33:65], r.User[:])
	binary.LittleEndian.PutUint64(dst[65:73], r.MintCount)
	binary.LittleEndian.PutUint64(dst[73:81], r.CooldownUntil)
	return nil
}

// UnpackUserRecord reads a UserRecord from account storage
func UnpackUserRecord(src []byte) (UserRecord, error) {
	if len(src) < UserRecordSize {
		return UserRecord{}, common.ErrCorruptState
	}
	initialized, err := unpackBool(src[0])
	if err != nil {
		return UserRecord{}, err
	}
	ret := UserRecord{
		Initialized:   initialized,
		MintCount:     binary.LittleEndian.Uint64(src[65:73]),
		CooldownUntil: binary.LittleEndian.Uint64(src[73:81]),
	}
	copy(ret.Collection[:], src[1:33])
	copy(ret.User[:], src[33:65])
	return ret, nil
}

func packBool(v bool) byte {
	if v {
		return 1
	}
	return 0
}

func unpackBool(v byte) (bool, error) {
	switch v {
	case 0:
		return false, nil
	case 1:
		return true, nil
	default:
		return false, common.ErrCorruptState
	}
}

// NulTerminated returns the string stored in a zero-padded fixed-width
// field, cut at the first NUL byte. It fails if the content is not valid
// UTF-8.
func NulTerminated(src []byte) (string, error) {
	end := len(src)
	for i, b := range src {
		if b == 0 {
			end = i
			break
		}
	}
	if !utf8.Valid(src[:end]) {
		return "", common.ErrInvalidAccountData
	}
	return string(src[:end]), nil
}

// PadString lays a string into a zero-padded fixed-width array, truncating
// if it is too long. The inverse of NulTerminated for well-formed input.
func PadString(dst []byte, src string) {
	n := copy(dst, src)
	for i := n; i < len(dst); i++ {
		dst[i] = 0
	}
}
