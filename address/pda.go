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

package address

import (
	"crypto/sha256"
	"errors"
)

// Domain tags for the two derivations the airdrop program uses. These are
// part of the wire protocol: any external party can re-derive the addresses
// from the same tags without a lookup table.
const (
	UserRecordTag    = "user_data"
	MintAuthorityTag = "mint_authority"
)

const (
	// MaxSeeds is the maximum number of seeds a derivation may use,
	// including the trailing bump seed
	MaxSeeds = 16

	// MaxSeedSize is the maximum length of a single seed in bytes
	MaxSeedSize = 32

	// derivedMarker is appended to the hash input so a derived address can
	// never collide with a hash computed for any other purpose
	derivedMarker = "ProgramDerivedAddress"
)

var (
	ErrTooManySeeds = errors.New("too many derivation seeds")
	ErrSeedTooLong  = errors.New("derivation seed exceeds maximum length")

	// ErrOnCurve means the candidate address is a valid curve point and is
	// therefore unusable as a derived address
	ErrOnCurve = errors.New("derived address falls on the ed25519 curve")

	// ErrNoViableBump means no bump value in 255..0 produced an off-curve
	// address. The probability of this is negligible for honest inputs.
	ErrNoViableBump = errors.New("unable to find a viable bump")
)

// CreateProgramAddress derives the address for the given seeds, failing if
// the result lands on the ed25519 curve. Callers normally want
// FindProgramAddress, which searches for a bump seed that guarantees an
// off-curve result.
func CreateProgramAddress(
	seeds [][]byte,
	programID PublicKey,
) (PublicKey, error) {
	if len(seeds) > MaxSeeds {
		return PublicKey{}, ErrTooManySeeds
	}
	h := sha256.New()
	for _, seed := range seeds {
		if len(seed) > MaxSeedSize {
			return PublicKey{}, ErrSeedTooLong
		}
		h.Write(seed)
	}
	h.Write(programID[:])
	h.Write([]byte(derivedMarker))
	var pk PublicKey
	copy(pk[:], h.Sum(nil))
	if OnCurve(pk) {
		return PublicKey{}, ErrOnCurve
	}
	return pk, nil
}

// FindProgramAddress searches bump values from 255 downward and returns the
// first derivation that falls off-curve, along with the bump that produced
// it. The search order is fixed: external verifiers must arrive at the same
// (address, bump) pair for the same inputs.
func FindProgramAddress(
	seeds [][]byte,
	programID PublicKey,
) (PublicKey, uint8, error) {
	bumpSeed := []byte{0}
	derived := make([][]byte, len(seeds)+1)
	copy(derived, seeds)
	derived[len(seeds)] = bumpSeed
	for bump := 255; bump >= 0; bump-- {
		bumpSeed[0] = uint8(bump)
		pk, err := CreateProgramAddress(derived, programID)
		if err == nil {
			return pk, bumpSeed[0], nil
		}
		if !errors.Is(err, ErrOnCurve) {
			return PublicKey{}, 0, err
		}
	}
	return PublicKey{}, 0, ErrNoViableBump
}

// UserRecordAddress derives the per-(collection, user) record address
func UserRecordAddress(
	programID PublicKey,
	collection PublicKey,
	user PublicKey,
) (PublicKey, uint8, error) {
	return FindProgramAddress(
		[][]byte{
			[]byte(UserRecordTag),
			collection[:],
			user[:],
		},
		programID,
	)
}

// MintAuthorityAddress derives the zero-size mint-authority marker address
// for a collection
func MintAuthorityAddress(
	programID PublicKey,
	collection PublicKey,
) (PublicKey, uint8, error) {
	return FindProgramAddress(
		[][]byte{
			[]byte(MintAuthorityTag),
			collection[:],
		},
		programID,
	)
}
