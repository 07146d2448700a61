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

// Package common holds the types shared between the airdrop program's
// packages, most notably the closed set of failures an invocation can
// surface to its caller.
package common

import "fmt"

// ErrorCode identifies a failure kind. Codes are stable across releases
// because callers match on them when an invocation is rejected.
type ErrorCode uint32

const (
	CodeBadOperationId ErrorCode = iota
	CodeBadOperationArgument
	CodeSignerRequired
	CodeWritableRequired
	CodeDerivedAddressMismatch
	CodeUninitialized
	CodeOutOfSupply
	CodeUserTimeout
	CodeWrongAccountAddress
	CodeAlreadyInitialized
	CodeIllegalOwner
	CodeCorruptState
	CodeInvalidAccountData
	CodeNotEnoughAccounts
)

// Error is a terminal domain failure. Every validator and codec failure
// aborts the current invocation; nothing is caught and retried internally.
type Error struct {
	Code    ErrorCode
	Message string
}

func (e *Error) Error() string {
	return fmt.Sprintf("airdrop: %s (code %d)", e.Message, e.Code)
}

// The closed error taxonomy. These are sentinel values; match with errors.Is.
var (
	ErrBadOperationId         = &Error{CodeBadOperationId, "unexpected operation id"}
	ErrBadOperationArgument   = &Error{CodeBadOperationArgument, "unexpected operation argument"}
	ErrSignerRequired         = &Error{CodeSignerRequired, "account is not a signer"}
	ErrWritableRequired       = &Error{CodeWritableRequired, "account is not writable"}
	ErrDerivedAddressMismatch = &Error{CodeDerivedAddressMismatch, "account is not properly derived"}
	ErrUninitialized          = &Error{CodeUninitialized, "account is not initialized"}
	ErrOutOfSupply            = &Error{CodeOutOfSupply, "collection supply exhausted"}
	ErrUserTimeout            = &Error{CodeUserTimeout, "user is still in cooldown"}
	ErrWrongAccountAddress    = &Error{CodeWrongAccountAddress, "account address does not match configuration"}
	ErrAlreadyInitialized     = &Error{CodeAlreadyInitialized, "account is already initialized"}
	ErrIllegalOwner           = &Error{CodeIllegalOwner, "account has an illegal owner"}
	ErrCorruptState           = &Error{CodeCorruptState, "persisted record is corrupt"}
	ErrInvalidAccountData     = &Error{CodeInvalidAccountData, "account data is invalid"}

	// ErrNotEnoughAccounts is surfaced at the host boundary when the
	// dispatch harness supplies fewer accounts than the operation declares.
	ErrNotEnoughAccounts = &Error{CodeNotEnoughAccounts, "not enough accounts supplied"}
)
