// SPDX-FileCopyrightText: 2019 Kent Gibson <warthog618@gmail.com>
//
// SPDX-License-Identifier: MIT

//go:build linux
// +build linux

// Package lircind pulses a GPIO output line whenever a remote control event
// arrives from the LIRC daemon.
//
// The hardware and the event source are both accessed through capability
// interfaces, Controller and EventSource, so the run loop can be driven by
// real hardware, by a simulated sysfs tree, or by test doubles.
//
// Example of use:
//
//	c := sysfs.New()
//	d := lircind.DialerFunc(func(ctx context.Context) (lircind.EventSource, error) {
//		return lirc.Dial(ctx, "/var/run/lirc/lircd")
//	})
//	r := lircind.NewRunner(c, rpi.GPIO4, d)
//	err := r.Run(ctx)
//	os.Exit(lircind.ExitCode(err))
package lircind

import (
	"context"
	"fmt"
)

// Level is the logical level of an output line.
type Level int

const (
	// Low is the inactive level.
	Low Level = 0

	// High is the active level.
	High Level = 1
)

func (l Level) String() string {
	switch l {
	case Low:
		return "low"
	case High:
		return "high"
	}
	return fmt.Sprintf("Level(%d)", int(l))
}

// CheckLevel returns an ErrInvalidArgument error if the level is neither Low
// nor High.
func CheckLevel(pin int, l Level) error {
	if l != Low && l != High {
		return NewError(ErrInvalidArgument,
			fmt.Sprintf("value can only be 0 or 1. pin: %d", pin),
			fmt.Errorf("value %d", int(l)))
	}
	return nil
}

// Controller provides control of a single digital output line.
//
// Each method maps to a single write to the hardware control surface.
type Controller interface {
	// Acquire requests exclusive use of the pin.
	Acquire(pin int) error

	// ConfigureAsOutput sets the pin direction to output.
	ConfigureAsOutput(pin int) error

	// SetLevel sets the output level of the pin.
	SetLevel(pin int, level Level) error

	// Release returns the pin to the system.
	// Only valid for a pin that has been acquired.
	Release(pin int) error
}

// EventSource provides the stream of event records.
type EventSource interface {
	// ReadRecord blocks until at least one byte is available and returns the
	// bytes read.
	// A zero length record with a nil error indicates the remote end closed
	// the stream.
	ReadRecord() ([]byte, error)

	// DiscardBuffered drops any data received but not yet read.
	DiscardBuffered() error

	// Close closes the source.
	// It may be called while a ReadRecord is blocked, which then returns.
	Close() error
}

// Dialer establishes an EventSource.
type Dialer interface {
	Dial(ctx context.Context) (EventSource, error)
}

// DialerFunc adapts a function to a Dialer.
type DialerFunc func(ctx context.Context) (EventSource, error)

// Dial calls f(ctx).
func (f DialerFunc) Dial(ctx context.Context) (EventSource, error) {
	return f(ctx)
}
