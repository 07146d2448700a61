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

package instruction_test

import (
	"encoding/hex"
	"testing"

	"github.com/blinklabs-io/gairdrop/common"
	"github.com/blinklabs-io/gairdrop/instruction"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecodeInitializeCollection(t *testing.T) {
	op := &instruction.InitializeCollection{
		SupplyCap: 500,
		UnitPrice: 1_500_000_000,
	}
	copy(op.MetadataURIPrefix[:], "https://example.com/meta/")
	copy(op.Symbol[:], "DROP")
	payload := op.Encode()
	require.Len(t, payload, 57)
	assert.Equal(t, uint8(instruction.OpInitializeCollection), payload[0])
	decoded, err := instruction.Decode(payload)
	require.NoError(t, err)
	assert.Equal(t, op, decoded)
}

func TestDecodeKnownPayload(t *testing.T) {
	// supply_cap=2, prefix="x", symbol="Y", unit_price=3
	payloadHex := "01" +
		"0200000000000000" +
		"78" + "00000000000000000000000000000000000000000000000000000000000000" +
		"59" + "00000000000000" +
		"0300000000000000"
	payload, err := hex.DecodeString(payloadHex)
	require.NoError(t, err)
	decoded, err := instruction.Decode(payload)
	require.NoError(t, err)
	op, ok := decoded.(*instruction.InitializeCollection)
	require.True(t, ok)
	assert.Equal(t, uint64(2), op.SupplyCap)
	assert.Equal(t, uint8('x'), op.MetadataURIPrefix[0])
	assert.Equal(t, uint8('Y'), op.Symbol[0])
	assert.Equal(t, uint64(3), op.UnitPrice)
}

func TestDecodeEmptyBodyOperations(t *testing.T) {
	decoded, err := instruction.Decode([]byte{instruction.OpRegisterUser})
	require.NoError(t, err)
	assert.Equal(t, &instruction.RegisterUser{}, decoded)
	decoded, err = instruction.Decode([]byte{instruction.OpMintOne})
	require.NoError(t, err)
	assert.Equal(t, &instruction.MintOne{}, decoded)
}

func TestDecodeFailures(t *testing.T) {
	testDefs := []struct {
		name        string
		payload     []byte
		expectedErr error
	}{
		{
			name:        "empty payload",
			payload:     []byte{},
			expectedErr: common.ErrBadOperationId,
		},
		{
			name:        "unknown opcode zero",
			payload:     []byte{0},
			expectedErr: common.ErrBadOperationId,
		},
		{
			name:        "unknown opcode high",
			payload:     []byte{99},
			expectedErr: common.ErrBadOperationId,
		},
		{
			name:        "initialize body too short",
			payload:     append([]byte{instruction.OpInitializeCollection}, make([]byte, 55)...),
			expectedErr: common.ErrBadOperationArgument,
		},
		{
			name:        "initialize body too long",
			payload:     append([]byte{instruction.OpInitializeCollection}, make([]byte, 57)...),
			expectedErr: common.ErrBadOperationArgument,
		},
		{
			name:        "register user trailing bytes",
			payload:     []byte{instruction.OpRegisterUser, 0},
			expectedErr: common.ErrBadOperationArgument,
		},
		{
			name:        "mint one trailing bytes",
			payload:     []byte{instruction.OpMintOne, 1, 2, 3},
			expectedErr: common.ErrBadOperationArgument,
		},
	}
	for _, testDef := range testDefs {
		t.Run(testDef.name, func(t *testing.T) {
			_, err := instruction.Decode(testDef.payload)
			assert.ErrorIs(t, err, testDef.expectedErr)
		})
	}
}
