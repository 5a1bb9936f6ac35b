// Copyright (c) 2025 AUTHORS All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package subcmd

import (
	"errors"
	"fmt"
	"reflect"
)

// Sentinel errors for classifying failures with errors.Is.
var (
	// ErrConfig matches every registration-time error: duplicate command
	// or flag names, unsupported wrapper field types, bad function shapes.
	ErrConfig = errors.New("subcmd: configuration error")

	// ErrUsage matches every error caused by malformed user input, such as
	// an unknown command, an unparseable flag value, or a missing required
	// flag. Parser.Main exits with status 2 for these.
	ErrUsage = errors.New("subcmd: usage error")
)

// DuplicateCommandError is returned when a command name is registered twice
// on one Parser.
type DuplicateCommandError struct {
	Name string
}

func (e *DuplicateCommandError) Error() string {
	return fmt.Sprintf("command %q already registered", e.Name)
}

func (e *DuplicateCommandError) Unwrap() error { return ErrConfig }

// DuplicateFlagError is returned when a top-level flag name collides with an
// existing declaration.
type DuplicateFlagError struct {
	Name string
}

func (e *DuplicateFlagError) Error() string {
	return fmt.Sprintf("flag --%s already declared", e.Name)
}

func (e *DuplicateFlagError) Unwrap() error { return ErrConfig }

// UnsupportedTypeError is returned by Wrapper.Add when a field of the
// function's flags struct has a type the parser cannot coerce.
type UnsupportedTypeError struct {
	Func  string // derived command name
	Field string // struct field name
	Type  reflect.Type
}

func (e *UnsupportedTypeError) Error() string {
	return fmt.Sprintf("command %q: field %s has unsupported flag type %s", e.Func, e.Field, e.Type)
}

func (e *UnsupportedTypeError) Unwrap() error { return ErrConfig }

// UsageError reports malformed user input. Cmd names the subcommand being
// parsed when one had been resolved, and Err carries the underlying cause
// (typically pflag's parse error).
type UsageError struct {
	Cmd string
	Err error
}

func (e *UsageError) Error() string {
	if e.Cmd != "" {
		return fmt.Sprintf("%s: %v", e.Cmd, e.Err)
	}
	return e.Err.Error()
}

func (e *UsageError) Unwrap() []error { return []error{ErrUsage, e.Err} }

func configErrorf(format string, a ...any) error {
	return fmt.Errorf("%w: %s", ErrConfig, fmt.Sprintf(format, a...))
}
