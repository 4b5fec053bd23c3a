// SPDX-License-Identifier: MIT
//
// Copyright (C) 2020-2025 Daniel Bourdrez. All Rights Reserved.
//
// This source code is licensed under the MIT license found in the
// LICENSE file in the root directory of this source tree or at
// https://spdx.org/licenses/MIT.html

package anonake_test

import (
	"errors"
	"fmt"
	"strings"
	"testing"

	"go.uber.org/zap/zapcore"

	"github.com/bytemare/anonake"
	"github.com/bytemare/anonake/internal"
)

func TestErrorJoin_IsAndAs(t *testing.T) {
	// Compose a typical error chain from a high-level code with internal causes
	err := anonake.ErrProtocolViolation.Join(internal.ErrConsistencyCheck, internal.ErrSeedMismatch)

	// Verify top-level code and internal causes are discoverable via errors.Is
	if !errors.Is(err, anonake.ErrProtocolViolation) {
		t.Fatal("expected errors.Is(err, ErrProtocolViolation) to be true")
	}
	if !errors.Is(err, anonake.ErrCodeProtocolViolation) {
		t.Fatal("expected errors.Is(err, ErrCodeProtocolViolation) to be true")
	}
	if !errors.Is(err, internal.ErrConsistencyCheck) {
		t.Fatal("expected errors.Is(err, internal.ErrConsistencyCheck) to be true")
	}
	if errors.Is(err, anonake.ErrPrimitive) || errors.Is(err, anonake.ErrCodeMessage) {
		t.Fatal("unexpected match with another error class")
	}

	// Verify errors.As can extract the ErrorCode and *Error
	var code anonake.ErrorCode
	if !errors.As(err, &code) {
		t.Fatal("expected errors.As(err, *ErrorCode) to succeed")
	}
	if !errors.Is(code, anonake.ErrCodeProtocolViolation) {
		t.Fatalf("expected code %v, got %v", anonake.ErrCodeProtocolViolation, code)
	}

	var ae *anonake.Error
	if !errors.As(err, &ae) {
		t.Fatal("expected errors.As(err, **Error) to succeed")
	}
	if ae.Code != anonake.ErrCodeProtocolViolation {
		t.Fatalf("expected *Error.Code %v, got %v", anonake.ErrCodeProtocolViolation, ae.Code)
	}
}

func TestErrorMessages(t *testing.T) {
	if anonake.ErrM2.Error() != "invalid M2 message" {
		t.Fatalf("unexpected message %q", anonake.ErrM2.Error())
	}

	if anonake.ErrProtocolViolation.Error() != "protocol violation" {
		t.Fatalf("unexpected message %q", anonake.ErrProtocolViolation.Error())
	}

	if anonake.ErrorCode(200).String() != "unknown_error" || anonake.ErrCodeVault.Error() != "vault_error" {
		t.Fatal("unexpected error code names")
	}

	err := anonake.ErrCodeMessage.New("custom", internal.ErrNilMessage)
	if !errors.Is(err, internal.ErrNilMessage) || !errors.Is(err, anonake.ErrCodeMessage) {
		t.Fatal("expected the custom error to match its code and cause")
	}

	if fmt.Sprintf("%s", err) != "custom" || fmt.Sprintf("%q", err) != `"custom"` {
		t.Fatal("unexpected short formatting")
	}

	verbose := fmt.Sprintf("%+v", err)
	if !strings.Contains(verbose, "code=3(message_error)") || !strings.Contains(verbose, internal.ErrNilMessage.Error()) {
		t.Fatalf("unexpected verbose formatting %q", verbose)
	}
}

func TestErrorLogObject(t *testing.T) {
	err := anonake.ErrCodeVault.New("sealed", internal.ErrVaultPassphrase)
	enc := zapcore.NewMapObjectEncoder()

	if e := err.MarshalLogObject(enc); e != nil {
		t.Fatal(e)
	}

	if enc.Fields["code_name"] != "vault_error" || enc.Fields["message"] != "sealed" ||
		enc.Fields["error"] != internal.ErrVaultPassphrase.Error() {
		t.Fatalf("unexpected fields %v", enc.Fields)
	}
}

// Example: handling high-level errors and specific causes.
func Example_errorHandling() {
	// Simulate an error chain
	err := anonake.ErrProtocolViolation.Join(internal.ErrConsistencyCheck)

	switch {
	case errors.Is(err, anonake.ErrProtocolViolation):
		// top-level class
		fmt.Println("protocol violation: the handshake is aborted")
		// handle specific cause
		if errors.Is(err, internal.ErrConsistencyCheck) {
			fmt.Println("inconsistent broadcast: the server may be trying to identify the client")
		}
	case errors.Is(err, anonake.ErrClientState):
		fmt.Println("state error: check the call order")
	default:
		fmt.Println("unexpected error")
	}
	// Output:
	// protocol violation: the handshake is aborted
	// inconsistent broadcast: the server may be trying to identify the client
}
