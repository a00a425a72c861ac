// SPDX-FileCopyrightText: 2019 Kent Gibson <warthog618@gmail.com>
//
// SPDX-License-Identifier: MIT

//go:build linux
// +build linux

package lircind_test

import (
	"errors"
	"fmt"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/warthog618/lircind"
	"golang.org/x/sys/unix"
)

func TestError(t *testing.T) {
	perr := &os.PathError{Op: "write", Path: "/sys/class/gpio/export", Err: unix.EBUSY}
	err := lircind.NewError(lircind.ErrResourceUnavailable,
		"unable to write to GPIO export interface", perr)
	assert.Equal(t,
		"unable to write to GPIO export interface: write /sys/class/gpio/export: device or resource busy",
		err.Error())
	assert.True(t, errors.Is(err, lircind.ErrResourceUnavailable))
	assert.False(t, errors.Is(err, lircind.ErrIO))
	assert.True(t, errors.Is(err, unix.EBUSY))
	assert.Equal(t, perr, errors.Unwrap(err))

	err = lircind.NewError(lircind.ErrInvalidArgument, "bad pin", nil)
	assert.Equal(t, "bad pin", err.Error())
}

func TestExitCode(t *testing.T) {
	patterns := []struct {
		name string
		err  error
		code int
	}{
		{"nil", nil, 0},
		{"interrupted", lircind.ErrInterrupted, lircind.ExitInterrupted},
		{"errno", lircind.NewError(lircind.ErrIO, "read", unix.EIO), int(unix.EIO)},
		{"path", lircind.NewError(lircind.ErrResourceUnavailable, "export",
			&os.PathError{Op: "open", Path: "export", Err: unix.EACCES}), int(unix.EACCES)},
		{"wrapped", fmt.Errorf("outer: %w", unix.ENOENT), int(unix.ENOENT)},
		{"plain", errors.New("usage"), lircind.ExitFailure},
		{"kind", lircind.NewError(lircind.ErrInvalidArgument, "pin", nil), lircind.ExitFailure},
	}
	for _, p := range patterns {
		tf := func(t *testing.T) {
			assert.Equal(t, p.code, lircind.ExitCode(p.err))
		}
		t.Run(p.name, tf)
	}
}
