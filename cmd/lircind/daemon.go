// SPDX-FileCopyrightText: 2019 Kent Gibson <warthog618@gmail.com>
//
// SPDX-License-Identifier: MIT

//go:build linux
// +build linux

package main

import (
	"fmt"

	daemon "github.com/sevlyar/go-daemon"
)

// daemonize re-executes the process detached from the controlling terminal.
//
// Returns child true in the detached process, and false in the original,
// which should then exit.
func daemonize() (dctx *daemon.Context, child bool, err error) {
	dctx = &daemon.Context{Umask: 027}
	p, err := dctx.Reborn()
	if err != nil {
		// the fork error is reported but not used as the exit status
		return nil, false, fmt.Errorf("unable to fork into background: %v", err)
	}
	if p != nil {
		return nil, false, nil
	}
	return dctx, true, nil
}
