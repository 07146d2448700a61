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
	"fmt"
	"os"
)

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}
	switch os.Args[1] {
	case "derive":
		deriveCommand(os.Args[2:])
	case "payload":
		payloadCommand(os.Args[2:])
	case "record":
		recordCommand(os.Args[2:])
	default:
		fmt.Printf("unknown subcommand: %s\n", os.Args[1])
		printUsage()
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Printf("Usage: %s <subcommand> [args]\n\n", os.Args[0])
	fmt.Println("Subcommands:")
	fmt.Println("  derive   derive program sub-account addresses")
	fmt.Println("  payload  build an operation payload")
	fmt.Println("  record   decode a persisted account record")
}
