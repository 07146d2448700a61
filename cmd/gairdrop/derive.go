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
	"flag"
	"fmt"
	"os"

	"github.com/blinklabs-io/gairdrop/address"
)

type deriveFlags struct {
	flagset    *flag.FlagSet
	program    string
	collection string
	user       string
}

func deriveCommand(args []string) {
	f := &deriveFlags{
		flagset: flag.NewFlagSet("derive", flag.ExitOnError),
	}
	f.flagset.StringVar(
		&f.program,
		"program",
		"",
		"base58 program id",
	)
	f.flagset.StringVar(
		&f.collection,
		"collection",
		"",
		"base58 collection config address",
	)
	f.flagset.StringVar(
		&f.user,
		"user",
		"",
		"base58 user wallet address (optional, derives the user record)",
	)
	if err := f.flagset.Parse(args); err != nil {
		fmt.Printf("failed to parse command args: %s\n", err)
		os.Exit(1)
	}
	programID, err := address.FromBase58(f.program)
	if err != nil {
		fmt.Printf("invalid -program: %s\n", err)
		os.Exit(1)
	}
	collection, err := address.FromBase58(f.collection)
	if err != nil {
		fmt.Printf("invalid -collection: %s\n", err)
		os.Exit(1)
	}
	markerAddr, markerBump, err := address.MintAuthorityAddress(
		programID,
		collection,
	)
	if err != nil {
		fmt.Printf("failed to derive mint authority: %s\n", err)
		os.Exit(1)
	}
	fmt.Printf("mint authority: %s (bump %d)\n", markerAddr, markerBump)
	if f.user != "" {
		user, err := address.FromBase58(f.user)
		if err != nil {
			fmt.Printf("invalid -user: %s\n", err)
			os.Exit(1)
		}
		recordAddr, recordBump, err := address.UserRecordAddress(
			programID,
			collection,
			user,
		)
		if err != nil {
			fmt.Printf("failed to derive user record: %s\n", err)
			os.Exit(1)
		}
		fmt.Printf("user record:    %s (bump %d)\n", recordAddr, recordBump)
	}
}
