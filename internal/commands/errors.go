// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package commands

import "errors"

var (
	// ErrDuplicateCommand is returned by Add when the identifier is taken
	// and the catalog rejects duplicates.
	ErrDuplicateCommand = errors.New("command already registered")

	// ErrUnknownCommand is returned when an identifier names no command.
	ErrUnknownCommand = errors.New("unknown command")
)

// =============================================================================
// REGISTRATION ERROR
// =============================================================================

// RegistrationError reports a command that could not be added to a catalog.
type RegistrationError struct {
	Command string
	Param   string
	Pattern string
	Message string
	Err     error
}

func (e *RegistrationError) Error() string {
	msg := "register"
	if e.Command != "" {
		msg += " /" + e.Command
	}
	msg += ": " + e.Message
	if e.Param != "" {
		msg += " for parameter '" + e.Param + "'"
	}
	if e.Pattern != "" {
		msg += " (pattern: " + e.Pattern + ")"
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *RegistrationError) Unwrap() error {
	return e.Err
}
