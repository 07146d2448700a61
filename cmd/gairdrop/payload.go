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

package main

import (
	"encoding/hex"
	"flag"
	"fmt"
	"os"

	"github.com/blinklabs-io/gairdrop/instruction"
	"github.com/blinklabs-io/gairdrop/state"
)

type payloadFlags struct {
	flagset   *flag.FlagSet
	op        string
	supplyCap uint64
	uriPrefix string
	symbol    string
	unitPrice uint64
}

func payloadCommand(args []string) {
	f := &payloadFlags{
		flagset: flag.NewFlagSet("payload", flag.ExitOnError),
	}
	f.flagset.StringVar(
		&f.op,
		"op",
		"",
		"operation: initialize, register, or mint",
	)
	f.flagset.Uint64Var(
		&f.supplyCap,
		"supply-cap",
		0,
		"maximum number of tokens the collection may issue",
	)
	f.flagset.StringVar(
		&f.uriPrefix,
		"uri-prefix",
		"",
		"metadata URI prefix (max 32 bytes including NUL padding)",
	)
	f.flagset.StringVar(
		&f.symbol,
		"symbol",
		"",
		"token symbol (max 8 bytes including NUL padding)",
	)
	f.flagset.Uint64Var(
		&f.unitPrice,
		"unit-price",
		0,
		"price charged per minted token, in lamports",
	)
	if err := f.flagset.Parse(args); err != nil {
		fmt.Printf("failed to parse command args: %s\n", err)
		os.Exit(1)
	}
	var payload []byte
	switch f.op {
	case "initialize":
		op := &instruction.InitializeCollection{
			SupplyCap: f.supplyCap,
			UnitPrice: f.unitPrice,
		}
		state.PadString(op.MetadataURIPrefix[:], f.uriPrefix)
		state.PadString(op.Symbol[:], f.symbol)
		payload = op.Encode()
	case "register":
		payload = (&instruction.RegisterUser{}).Encode()
	case "mint":
		payload = (&instruction.MintOne{}).Encode()
	default:
		fmt.Printf("unknown operation: %q\n", f.op)
		os.Exit(1)
	}
	fmt.Println(hex.EncodeToString(payload))
}
