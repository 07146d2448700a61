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

	"github.com/blinklabs-io/gairdrop/state"
)

type recordFlags struct {
	flagset    *flag.FlagSet
	recordType string
	data       string
}

func recordCommand(args []string) {
	f := &recordFlags{
		flagset: flag.NewFlagSet("record", flag.ExitOnError),
	}
	f.flagset.StringVar(
		&f.recordType,
		"type",
		"",
		"record type: config or user",
	)
	f.flagset.StringVar(
		&f.data,
		"data",
		"",
		"hex-encoded account data",
	)
	if err := f.flagset.Parse(args); err != nil {
		fmt.Printf("failed to parse command args: %s\n", err)
		os.Exit(1)
	}
	data, err := hex.DecodeString(f.data)
	if err != nil {
		fmt.Printf("invalid -data: %s\n", err)
		os.Exit(1)
	}
	switch f.recordType {
	case "config":
		config, err := state.UnpackCollectionConfig(data)
		if err != nil {
			fmt.Printf("failed to decode collection config: %s\n", err)
			os.Exit(1)
		}
		uriPrefix, _ := state.NulTerminated(config.MetadataURIPrefix[:])
		symbol, _ := state.NulTerminated(config.Symbol[:])
		fmt.Printf("initialized:      %v\n", config.Initialized)
		fmt.Printf("authority:        %s\n", config.Authority)
		fmt.Printf("issued count:     %d\n", config.IssuedCount)
		fmt.Printf("supply cap:       %d\n", config.SupplyCap)
		fmt.Printf("uri prefix:       %s\n", uriPrefix)
		fmt.Printf("symbol:           %s\n", symbol)
		fmt.Printf("registered users: %d\n", config.RegisteredUsers)
		fmt.Printf("revenue wallet:   %s\n", config.RevenueWallet)
		fmt.Printf("admin:            %s\n", config.Admin)
		fmt.Printf("unit price:       %d\n", config.UnitPrice)
	case "user":
		record, err := state.UnpackUserRecord(data)
		if err != nil {
			fmt.Printf("failed to decode user record: %s\n", err)
			os.Exit(1)
		}
		fmt.Printf("initialized:    %v\n", record.Initialized)
		fmt.Printf("collection:     %s\n", record.Collection)
		fmt.Printf("user:           %s\n", record.User)
		fmt.Printf("mint count:     %d\n", record.MintCount)
		fmt.Printf("cooldown until: %d\n", record.CooldownUntil)
	default:
		fmt.Printf("unknown record type: %q\n", f.recordType)
		os.Exit(1)
	}
}
