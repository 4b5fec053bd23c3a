// SPDX-License-Identifier: MIT
//
// Copyright (C) 2020-2025 Daniel Bourdrez. All Rights Reserved.
//
// This source code is licensed under the MIT license found in the
// LICENSE file in the root directory of this source tree or at
// https://spdx.org/licenses/MIT.html

package anonake

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var (
	// ErrConfiguration indicates that the configuration is invalid.
	ErrConfiguration = ErrCodeConfiguration.New("")

	// ErrRegistration indicates that the registration process failed.
	ErrRegistration = ErrCodeRegistration.New("")

	// ErrCredentials indicates that encoded client credentials are invalid.
	ErrCredentials = ErrCodeRegistration.New("invalid client credentials")

	// ErrM1 indicates an error with an M1 message.
	ErrM1 = ErrCodeMessage.New("invalid M1 message")

	// ErrM2 indicates an error with an M2 message.
	ErrM2 = ErrCodeMessage.New("invalid M2 message")

	// ErrM3 indicates an error with an M3 message.
	ErrM3 = ErrCodeMessage.New("invalid M3 message")

	// ErrM4 indicates an error with an M4 message.
	ErrM4 = ErrCodeMessage.New("invalid M4 message")

	// ErrM5 indicates an error with an M5 message.
	ErrM5 = ErrCodeMessage.New("invalid M5 message")

	// ErrClientState indicates that the client state does not allow the requested operation.
	ErrClientState = ErrCodeClientState.New("")

	// ErrServerState indicates that the server state does not allow the requested operation.
	ErrServerState = ErrCodeServerState.New("")

	// ErrProtocolViolation indicates that a verification failed: a signature, the broadcast consistency check, or a
	// commitment. The handshake has been aborted and no session key will be produced.
	ErrProtocolViolation = ErrCodeProtocolViolation.New("")

	// ErrPrimitive indicates that a cryptographic primitive failed. The handshake has been aborted.
	ErrPrimitive = ErrCodePrimitive.New("")

	// ErrVault indicates that sealed server key material could not be opened.
	ErrVault = ErrCodeVault.New("")
)

// ErrorCode represents the type of error in the protocol. It is used to categorize errors and provide
// a consistent way to handle error conditions.
type ErrorCode byte //nolint:errname // This is an error code, not an error type.

const (
	// ErrCodeUnknown represents an unknown error.
	ErrCodeUnknown ErrorCode = iota

	// ErrCodeConfiguration represents an error related to the configuration.
	ErrCodeConfiguration

	// ErrCodeRegistration represents an error related to the registration phase.
	ErrCodeRegistration

	// ErrCodeMessage represents an error related to message processing.
	ErrCodeMessage

	// ErrCodeClientState represents an error related to the client's state.
	ErrCodeClientState

	// ErrCodeServerState represents an error related to the server's state.
	ErrCodeServerState

	// ErrCodeProtocolViolation represents a failed signature, consistency, or commitment verification.
	ErrCodeProtocolViolation

	// ErrCodePrimitive represents a failure of an underlying cryptographic primitive.
	ErrCodePrimitive

	// ErrCodeVault represents an error related to sealed server key material.
	ErrCodeVault
)

// New creates a new Error with the given message and errors.
func (c ErrorCode) New(message string, errs ...error) *Error {
	if message == "" {
		message = strings.ReplaceAll(c.String(), "_", " ")
	}

	return &Error{
		Code:    c,
		Message: message,
		Err:     errors.Join(errs...),
	}
}

// String returns the string representation of the ErrorCode. If the code is not recognized, it returns "unknown_error".
func (c ErrorCode) String() string {
	switch c {
	case ErrCodeConfiguration:
		return "configuration_error"
	case ErrCodeRegistration:
		return "registration_error"
	case ErrCodeMessage:
		return "message_error"
	case ErrCodeClientState:
		return "client_state_error"
	case ErrCodeServerState:
		return "server_state_error"
	case ErrCodeProtocolViolation:
		return "protocol_violation"
	case ErrCodePrimitive:
		return "primitive_error"
	case ErrCodeVault:
		return "vault_error"
	case ErrCodeUnknown:
		fallthrough
	default:
		return "unknown_error"
	}
}

// Error implements the error interface for the ErrorCode type. It returns a string representation of the error code.
func (c ErrorCode) Error() string {
	return c.String()
}

// Is implements the errors.Is method for the ErrorCode type.
// It allows checking if the error is of a specific ErrorCode.
func (c ErrorCode) Is(target error) bool {
	var errCode ErrorCode
	if errors.As(target, &errCode) {
		return byte(c) == byte(errCode)
	}

	return false
}

// As implements the errors.As method for the ErrorCode type. It allows type assertion to specific error types.
func (c ErrorCode) As(target any) bool {
	switch t := target.(type) {
	case *ErrorCode:
		*t = c
		return true
	default:
		return false
	}
}

// Error represents an error in the protocol.
type Error struct {
	Err     error
	Message string
	Code    ErrorCode
}

// Error implements the error interface for the Error type. By convention, we return only the concise form of the
// current error, without the cause. The cause can be retrieved with the Unwrap() method.
func (e *Error) Error() string { return e.Message }

// Unwrap implements the errors.Unwrap method for the Error type. It allows retrieving the underlying error, if any.
func (e *Error) Unwrap() error { return e.Err }

// Join wraps the provided error to the current error.
func (e *Error) Join(errs ...error) error {
	return errors.Join(e, errors.Join(errs...))
}

// MarshalLogObject implements the zapcore.ObjectMarshaler interface for the Error type.
func (e *Error) MarshalLogObject(enc zapcore.ObjectEncoder) error {
	enc.AddUint8("code", uint8(e.Code))
	enc.AddString("code_name", e.Code.String())
	enc.AddString("message", e.Message)

	if e.Err != nil {
		enc.AddString("error", e.Err.Error())
	}

	return nil
}

// Format implements the fmt.Formatter interface for the Error type. It allows formatting the error in different ways.
func (e *Error) Format(f fmt.State, verb rune) {
	switch verb {
	case 'v':
		if f.Flag('+') {
			e.formatV(f)
			return
		}

		fallthrough
	case 's':
		_, _ = io.WriteString(f, e.Error()) //nolint:errcheck // safe to ignore // human-readable
	case 'q':
		_, _ = fmt.Fprintf(f, "%q", e.Error()) //nolint:errcheck // safe to ignore // quoted string
	default:
		_, _ = io.WriteString(f, e.Error()) //nolint:errcheck // safe to ignore // safe default
	}
}

// Is implements the errors.Is method for the Error type. An Error matches a bare ErrorCode of the same value, or
// another Error with the same code and message.
func (e *Error) Is(target error) bool {
	switch t := target.(type) {
	case ErrorCode:
		return e.Code == t
	case *Error:
		return e.Code == t.Code && strings.EqualFold(e.Message, t.Message)
	default:
		return false
	}
}

// As implements the errors.As method for the Error type. It allows type assertion to specific error types.
func (e *Error) As(target any) bool {
	switch t := target.(type) {
	case *ErrorCode:
		*t = e.Code
		return true
	case **Error:
		*t = e
		return true
	default:
		return false
	}
}

func printV(f fmt.State, err error, depth int) {
	if err == nil {
		return
	}

	prefix := strings.Repeat("  ", depth)
	_, _ = fmt.Fprintf(f, "\n%s↳ %v", prefix, err) //nolint:errcheck // safe to ignore

	// errors that unwrap to multiple errors
	var multiUnwrapper interface{ Unwrap() []error }
	if errors.As(err, &multiUnwrapper) {
		for _, child := range multiUnwrapper.Unwrap() {
			printV(f, child, depth+1)
		}

		return
	}

	// errors that unwrap to a single error
	var singleUnwrapper interface{ Unwrap() error }
	if errors.As(err, &singleUnwrapper) {
		printV(f, singleUnwrapper.Unwrap(), depth+1)
	}
}

func (e *Error) formatV(f fmt.State) {
	// header with code
	_, _ = fmt.Fprintf(f, "code=%d(%s)", e.Code, e.Code.String()) //nolint:errcheck // safe to ignore
	if e.Message != "" {
		_, _ = fmt.Fprintf(f, " message=%q", e.Message) //nolint:errcheck // safe to ignore
	}

	// unwrap error chain
	if e.Err != nil {
		printV(f, e.Err, 0)
	}
}

// logFields returns the zap fields describing err: its *Error code if it carries one, and its full chain.
func logFields(err error) []zap.Field {
	var e *Error
	if errors.As(err, &e) {
		return []zap.Field{zap.Object("code", e), zap.Error(err)}
	}

	return []zap.Field{zap.Error(err)}
}
