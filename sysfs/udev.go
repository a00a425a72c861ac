// SPDX-License-Identifier: MIT
//
// SPDX-FileCopyrightText: © 2019 Kent Gibson <warthog618@gmail.com>.

//go:build linux
// +build linux

package sysfs

import (
	"fmt"
	"time"

	"github.com/pilebones/go-udev/netlink"
)

// udevMonitor watches for the udev event that follows exporting a pin.
type udevMonitor struct {
	conn  *netlink.UEventConn
	queue chan netlink.UEvent
	quit  chan struct{}
}

// newUdevMonitor starts monitoring for the add event for the pin.
//
// Must be started before the pin is exported to be sure of seeing the event.
func newUdevMonitor(pin int) (*udevMonitor, error) {
	conn := new(netlink.UEventConn)
	if err := conn.Connect(netlink.UdevEvent); err != nil {
		return nil, fmt.Errorf("unable to connect to Netlink Kobject UEvent socket: %w", err)
	}
	action := "add"
	matcher := &netlink.RuleDefinition{Action: &action,
		Env: map[string]string{
			"SUBSYSTEM": "gpio",
			"DEVPATH":   fmt.Sprintf(".*/gpio%d$", pin),
		}}
	queue := make(chan netlink.UEvent, 1)
	errors := make(chan error, 1)
	quit := conn.Monitor(queue, errors, matcher)
	mon := udevMonitor{conn: conn, queue: queue, quit: quit}
	go func() {
		// errors only delay the wait until it times out
		for {
			select {
			case <-errors:
			case <-quit:
				return
			}
		}
	}()
	return &mon, nil
}

// Wait blocks until the add event arrives or the timeout expires.
//
// Returns true if the event arrived.
func (m *udevMonitor) Wait(timeout time.Duration) bool {
	select {
	case <-m.queue:
		return true
	case <-time.After(timeout):
		return false
	}
}

func (m *udevMonitor) Close() {
	close(m.quit)
	m.conn.Close()
}
