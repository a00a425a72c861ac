// SPDX-FileCopyrightText: 2019 Kent Gibson <warthog618@gmail.com>
//
// SPDX-License-Identifier: MIT

//go:build linux
// +build linux

package lircind

import "bytes"

// ReleaseMarker identifies a button release record from lircd.
//
// lircd reports releases as the key name with an "_UP" suffix.
const ReleaseMarker = "_UP "

var releaseMarker = []byte(ReleaseMarker)

// IsActionable returns true if the record should produce a pulse.
//
// Any record containing the ReleaseMarker, wherever it appears, is ignored.
func IsActionable(record []byte) bool {
	return !bytes.Contains(record, releaseMarker)
}
