// SPDX-FileCopyrightText: 2019 Kent Gibson <warthog618@gmail.com>
//
// SPDX-License-Identifier: MIT

//go:build linux
// +build linux

package lircind

import (
	"errors"

	"golang.org/x/sys/unix"
)

// ErrorKind classifies the errors returned by the package and its backends.
//
// A kind can be compared to any returned error using errors.Is.
type ErrorKind string

func (k ErrorKind) Error() string {
	return string(k)
}

const (
	// ErrInvalidArgument indicates a bad pin, level or usage.
	ErrInvalidArgument = ErrorKind("invalid argument")

	// ErrResourceUnavailable indicates the pin could not be acquired.
	ErrResourceUnavailable = ErrorKind("resource unavailable")

	// ErrConfiguration indicates the pin could not be configured.
	ErrConfiguration = ErrorKind("configuration error")

	// ErrConnection indicates the event source could not be reached.
	ErrConnection = ErrorKind("connection error")

	// ErrIO indicates a read or write failed mid-run.
	ErrIO = ErrorKind("i/o error")

	// ErrInterrupted indicates the run was cancelled by an external request.
	ErrInterrupted = ErrorKind("interrupted")
)

// Error is a failed operation on the hardware or the event source.
type Error struct {
	// Kind of the failure.
	Kind ErrorKind

	// Op describes the operation that failed.
	Op string

	// Err is the underlying error, typically from the OS.
	Err error
}

// NewError creates an Error of the given kind.
func NewError(kind ErrorKind, op string, err error) *Error {
	return &Error{Kind: kind, Op: op, Err: err}
}

func (e *Error) Error() string {
	if e.Err == nil {
		return e.Op
	}
	return e.Op + ": " + e.Err.Error()
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Is matches the kind of the error.
func (e *Error) Is(target error) bool {
	return target == e.Kind
}

// Exit codes that are not derived from an OS error.
const (
	ExitSuccess     = 0
	ExitFailure     = 1
	ExitInterrupted = 130
)

// ExitCode maps the error returned by Run to a process exit status.
//
// Errors that wrap an errno return the errno.
func ExitCode(err error) int {
	if err == nil {
		return ExitSuccess
	}
	if errors.Is(err, ErrInterrupted) {
		return ExitInterrupted
	}
	var errno unix.Errno
	if errors.As(err, &errno) && errno != 0 {
		return int(errno)
	}
	return ExitFailure
}
