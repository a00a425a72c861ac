// SPDX-FileCopyrightText: 2019 Kent Gibson <warthog618@gmail.com>
//
// SPDX-License-Identifier: MIT

//go:build linux
// +build linux

package lircind

import "time"

// PulseDuration is the period the output is held active for each pulse.
const PulseDuration = 100 * time.Millisecond

// Pulse drives the pin high, holds it for PulseDuration, then drives it low.
//
// The call blocks for the full pulse.
// Errors from the controller are returned unchanged.
func Pulse(c Controller, pin int) error {
	if err := c.SetLevel(pin, High); err != nil {
		return err
	}
	time.Sleep(PulseDuration)
	return c.SetLevel(pin, Low)
}
