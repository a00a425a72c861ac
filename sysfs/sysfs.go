// SPDX-FileCopyrightText: 2019 Kent Gibson <warthog618@gmail.com>
//
// SPDX-License-Identifier: MIT

//go:build linux
// +build linux

// Package sysfs provides a lircind.Controller using the deprecated but
// widely available GPIO sysfs interface.
//
// Each operation is a single write to a node under /sys/class/gpio:
//
//	export          the pin number, to acquire the pin
//	gpioN/direction "out", to make the pin an output
//	gpioN/value     "0" or "1", to set the level
//	unexport        the pin number, to release the pin
package sysfs

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/warthog618/lircind"
	"golang.org/x/sys/unix"
)

// DefaultRoot is the location of the GPIO sysfs interface.
const DefaultRoot = "/sys/class/gpio"

// DefaultExportTimeout is the default period to wait for an exported pin to
// become usable.
const DefaultExportTimeout = time.Second

// Controller drives GPIO pins through the sysfs interface.
type Controller struct {
	root    string
	timeout time.Duration
	udev    bool

	// mutex covers the attributes below it.
	mu sync.Mutex

	// the pins exported by this controller.
	exported map[int]bool
}

// New creates a Controller.
func New(options ...Option) *Controller {
	c := Controller{
		root:     DefaultRoot,
		timeout:  DefaultExportTimeout,
		exported: map[int]bool{},
	}
	for _, option := range options {
		option.applyOption(&c)
	}
	return &c
}

// Root returns the path of the sysfs GPIO directory used by the controller.
func (c *Controller) Root() string {
	return c.root
}

func (c *Controller) pinPath(pin int, node string) string {
	return filepath.Join(c.root, fmt.Sprintf("gpio%d", pin), node)
}

// Acquire exports the pin and waits until its value node is writable.
//
// On a typical system udev adjusts the permissions of the exported nodes
// some time after the export, so the nodes may not be immediately usable.
func (c *Controller) Acquire(pin int) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.exported[pin] {
		return lircind.NewError(lircind.ErrInvalidArgument,
			fmt.Sprintf("pin %d already acquired", pin), nil)
	}
	var um *udevMonitor
	if c.udev {
		var err error
		if um, err = newUdevMonitor(pin); err != nil {
			return lircind.NewError(lircind.ErrResourceUnavailable,
				"unable to monitor udev", err)
		}
		defer um.Close()
	}
	path := filepath.Join(c.root, "export")
	if err := writeNode(path, fmt.Sprintf("%d\n", pin)); err != nil {
		return lircind.NewError(lircind.ErrResourceUnavailable,
			"unable to write to GPIO export interface", err)
	}
	deadline := time.Now().Add(c.timeout)
	if um != nil {
		um.Wait(c.timeout)
	}
	if err := c.waitWritable(c.pinPath(pin, "value"), deadline); err != nil {
		// leave the pin as we found it
		writeNode(filepath.Join(c.root, "unexport"), fmt.Sprintf("%d\n", pin))
		return lircind.NewError(lircind.ErrResourceUnavailable,
			fmt.Sprintf("unable to access GPIO value interface for pin %d", pin), err)
	}
	c.exported[pin] = true
	return nil
}

func (c *Controller) waitWritable(path string, deadline time.Time) error {
	for {
		err := unix.Access(path, unix.W_OK)
		if err == nil {
			return nil
		}
		if time.Now().After(deadline) {
			return &os.PathError{Op: "access", Path: path, Err: err}
		}
		time.Sleep(10 * time.Millisecond)
	}
}

// ConfigureAsOutput sets the pin direction to output.
func (c *Controller) ConfigureAsOutput(pin int) error {
	if err := c.checkExported(pin); err != nil {
		return err
	}
	if err := writeNode(c.pinPath(pin, "direction"), "out\n"); err != nil {
		return lircind.NewError(lircind.ErrConfiguration,
			fmt.Sprintf("unable to write to GPIO direction interface for pin %d", pin), err)
	}
	return nil
}

// SetLevel sets the output level of the pin.
func (c *Controller) SetLevel(pin int, level lircind.Level) error {
	if err := lircind.CheckLevel(pin, level); err != nil {
		return err
	}
	if err := c.checkExported(pin); err != nil {
		return err
	}
	if err := writeNode(c.pinPath(pin, "value"), fmt.Sprintf("%d\n", level)); err != nil {
		return lircind.NewError(lircind.ErrIO,
			fmt.Sprintf("unable to write to GPIO value interface for pin %d", pin), err)
	}
	return nil
}

// Release unexports the pin.
func (c *Controller) Release(pin int) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.exported[pin] {
		return lircind.NewError(lircind.ErrInvalidArgument,
			fmt.Sprintf("pin %d not acquired", pin), nil)
	}
	delete(c.exported, pin)
	path := filepath.Join(c.root, "unexport")
	if err := writeNode(path, fmt.Sprintf("%d\n", pin)); err != nil {
		return lircind.NewError(lircind.ErrIO,
			"unable to write to GPIO unexport interface", err)
	}
	return nil
}

func (c *Controller) checkExported(pin int) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.exported[pin] {
		return lircind.NewError(lircind.ErrInvalidArgument,
			fmt.Sprintf("pin %d not acquired", pin), nil)
	}
	return nil
}

// writeNode performs a single write to a sysfs node.
func writeNode(path, value string) error {
	f, err := os.OpenFile(path, os.O_WRONLY, 0)
	if err != nil {
		return err
	}
	_, err = f.WriteString(value)
	cerr := f.Close()
	if err == nil {
		err = cerr
	}
	return err
}

// Option defines the interface required to provide a Controller option.
type Option interface {
	applyOption(*Controller)
}

// RootOption specifies the location of the sysfs GPIO directory.
type RootOption string

// WithRoot overrides the location of the sysfs GPIO directory.
//
// This is primarily intended for testing against a mockup.
func WithRoot(root string) RootOption {
	return RootOption(root)
}

func (o RootOption) applyOption(c *Controller) {
	c.root = string(o)
}

// ExportTimeoutOption specifies the period to wait for an exported pin to
// become usable.
type ExportTimeoutOption time.Duration

// WithExportTimeout sets the period to wait for an exported pin to become
// usable.
func WithExportTimeout(d time.Duration) ExportTimeoutOption {
	return ExportTimeoutOption(d)
}

func (o ExportTimeoutOption) applyOption(c *Controller) {
	c.timeout = time.Duration(o)
}

// UdevSyncOption waits for udev to process the export before using the pin.
type UdevSyncOption struct{}

// WithUdevSync indicates the controller should wait for the udev add event
// for an exported pin, rather than only polling for access.
//
// Requires access to the netlink uevent socket.
var WithUdevSync = UdevSyncOption{}

func (o UdevSyncOption) applyOption(c *Controller) {
	c.udev = true
}
