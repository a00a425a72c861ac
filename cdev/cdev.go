// SPDX-FileCopyrightText: 2019 Kent Gibson <warthog618@gmail.com>
//
// SPDX-License-Identifier: MIT

//go:build linux
// +build linux

// Package cdev provides a lircind.Controller using the GPIO character device.
//
// This is the preferred interface on kernels that have deprecated or removed
// the sysfs interface. The pin is the line offset on the chip.
package cdev

import (
	"fmt"
	"sync"

	"github.com/warthog618/go-gpiocdev"
	"github.com/warthog618/lircind"
)

// DefaultChip is the chip providing the header pins on a Raspberry Pi.
const DefaultChip = "gpiochip0"

// DefaultConsumer is the consumer label applied to requested lines.
const DefaultConsumer = "lircind"

// Controller drives GPIO lines through the character device.
type Controller struct {
	chip     string
	consumer string

	// mutex covers the attributes below it.
	mu sync.Mutex

	// the lines requested by this controller, keyed by offset.
	lines map[int]*gpiocdev.Line
}

// New creates a Controller for lines on the named chip.
func New(chip string, options ...Option) *Controller {
	c := Controller{
		chip:     chip,
		consumer: DefaultConsumer,
		lines:    map[int]*gpiocdev.Line{},
	}
	for _, option := range options {
		option.applyOption(&c)
	}
	return &c
}

// Chip returns the name of the chip used by the controller.
func (c *Controller) Chip() string {
	return c.chip
}

// Acquire requests the line, leaving its direction as is.
func (c *Controller) Acquire(pin int) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if _, ok := c.lines[pin]; ok {
		return lircind.NewError(lircind.ErrInvalidArgument,
			fmt.Sprintf("pin %d already acquired", pin), nil)
	}
	l, err := gpiocdev.RequestLine(c.chip, pin, gpiocdev.WithConsumer(c.consumer))
	if err != nil {
		return lircind.NewError(lircind.ErrResourceUnavailable,
			fmt.Sprintf("unable to request line %s:%d", c.chip, pin), err)
	}
	c.lines[pin] = l
	return nil
}

func (c *Controller) line(pin int) (*gpiocdev.Line, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	l, ok := c.lines[pin]
	if !ok {
		return nil, lircind.NewError(lircind.ErrInvalidArgument,
			fmt.Sprintf("pin %d not acquired", pin), nil)
	}
	return l, nil
}

// ConfigureAsOutput reconfigures the line as an output, initially inactive.
func (c *Controller) ConfigureAsOutput(pin int) error {
	l, err := c.line(pin)
	if err != nil {
		return err
	}
	if err = l.Reconfigure(gpiocdev.AsOutput(int(lircind.Low))); err != nil {
		return lircind.NewError(lircind.ErrConfiguration,
			fmt.Sprintf("unable to set line %s:%d as output", c.chip, pin), err)
	}
	return nil
}

// SetLevel sets the output level of the line.
func (c *Controller) SetLevel(pin int, level lircind.Level) error {
	if err := lircind.CheckLevel(pin, level); err != nil {
		return err
	}
	l, err := c.line(pin)
	if err != nil {
		return err
	}
	if err = l.SetValue(int(level)); err != nil {
		return lircind.NewError(lircind.ErrIO,
			fmt.Sprintf("unable to set line %s:%d value", c.chip, pin), err)
	}
	return nil
}

// Release reverts the line to an input and releases it.
func (c *Controller) Release(pin int) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	l, ok := c.lines[pin]
	if !ok {
		return lircind.NewError(lircind.ErrInvalidArgument,
			fmt.Sprintf("pin %d not acquired", pin), nil)
	}
	delete(c.lines, pin)
	rerr := l.Reconfigure(gpiocdev.AsInput)
	if err := l.Close(); err != nil {
		return lircind.NewError(lircind.ErrIO,
			fmt.Sprintf("unable to release line %s:%d", c.chip, pin), err)
	}
	if rerr != nil {
		return lircind.NewError(lircind.ErrIO,
			fmt.Sprintf("unable to revert line %s:%d to input", c.chip, pin), rerr)
	}
	return nil
}

// Option defines the interface required to provide a Controller option.
type Option interface {
	applyOption(*Controller)
}

// ConsumerOption defines the consumer label for requested lines.
type ConsumerOption string

// WithConsumer overrides the consumer label for requested lines.
func WithConsumer(consumer string) ConsumerOption {
	return ConsumerOption(consumer)
}

func (o ConsumerOption) applyOption(c *Controller) {
	c.consumer = string(o)
}
