// SPDX-FileCopyrightText: 2019 Kent Gibson <warthog618@gmail.com>
//
// SPDX-License-Identifier: MIT

//go:build linux
// +build linux

// Package periph provides a lircind.Controller using the periph.io host
// drivers, which access the SoC GPIO registers directly where possible.
package periph

import (
	"fmt"
	"sync"

	"github.com/warthog618/lircind"
	"periph.io/x/conn/v3/gpio"
	"periph.io/x/conn/v3/gpio/gpioreg"
	"periph.io/x/host/v3"
)

// Controller drives GPIO pins through periph.io.
type Controller struct {
	initOnce sync.Once
	initErr  error

	// mutex covers the attributes below it.
	mu sync.Mutex

	// the pins acquired by this controller, keyed by BCM number.
	pins map[int]gpio.PinIO
}

// New creates a Controller.
//
// The periph host drivers are loaded on the first Acquire.
func New() *Controller {
	return &Controller{pins: map[int]gpio.PinIO{}}
}

// Acquire looks up the pin in the periph registry.
func (c *Controller) Acquire(pin int) error {
	c.initOnce.Do(func() {
		_, c.initErr = host.Init()
	})
	if c.initErr != nil {
		return lircind.NewError(lircind.ErrResourceUnavailable,
			"unable to initialise periph host", c.initErr)
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if _, ok := c.pins[pin]; ok {
		return lircind.NewError(lircind.ErrInvalidArgument,
			fmt.Sprintf("pin %d already acquired", pin), nil)
	}
	name := fmt.Sprintf("GPIO%d", pin)
	p := gpioreg.ByName(name)
	if p == nil {
		return lircind.NewError(lircind.ErrResourceUnavailable,
			fmt.Sprintf("unable to find pin %s", name), nil)
	}
	c.pins[pin] = p
	return nil
}

func (c *Controller) pin(pin int) (gpio.PinIO, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	p, ok := c.pins[pin]
	if !ok {
		return nil, lircind.NewError(lircind.ErrInvalidArgument,
			fmt.Sprintf("pin %d not acquired", pin), nil)
	}
	return p, nil
}

// ConfigureAsOutput sets the pin as an output, initially low.
func (c *Controller) ConfigureAsOutput(pin int) error {
	p, err := c.pin(pin)
	if err != nil {
		return err
	}
	if err = p.Out(gpio.Low); err != nil {
		return lircind.NewError(lircind.ErrConfiguration,
			fmt.Sprintf("unable to set %s as output", p), err)
	}
	return nil
}

// SetLevel sets the output level of the pin.
func (c *Controller) SetLevel(pin int, level lircind.Level) error {
	if err := lircind.CheckLevel(pin, level); err != nil {
		return err
	}
	p, err := c.pin(pin)
	if err != nil {
		return err
	}
	if err = p.Out(gpio.Level(level == lircind.High)); err != nil {
		return lircind.NewError(lircind.ErrIO,
			fmt.Sprintf("unable to set %s %s", p, level), err)
	}
	return nil
}

// Release halts the pin and forgets it.
func (c *Controller) Release(pin int) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	p, ok := c.pins[pin]
	if !ok {
		return lircind.NewError(lircind.ErrInvalidArgument,
			fmt.Sprintf("pin %d not acquired", pin), nil)
	}
	delete(c.pins, pin)
	if err := p.Halt(); err != nil {
		return lircind.NewError(lircind.ErrIO,
			fmt.Sprintf("unable to halt %s", p), err)
	}
	return nil
}
