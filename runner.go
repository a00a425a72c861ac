// SPDX-FileCopyrightText: 2019 Kent Gibson <warthog618@gmail.com>
//
// SPDX-License-Identifier: MIT

//go:build linux
// +build linux

package lircind

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"

	"go.uber.org/zap"
)

// Runner pulses an output pin for each actionable record from an event
// source.
//
// A Runner owns the pin and the source for the duration of Run, and can only
// be run once.
type Runner struct {
	ctrl   Controller
	pin    int
	dialer Dialer
	log    *zap.Logger

	// indicates Run has been called.
	started atomic.Bool

	// indicates the pin has been acquired and so must be released.
	acquired atomic.Bool

	releaseOnce sync.Once
}

// NewRunner creates a Runner that pulses pin on c for events from the source
// returned by d.
func NewRunner(c Controller, pin int, d Dialer, options ...RunnerOption) *Runner {
	ro := runnerOptions{logger: zap.NewNop()}
	for _, option := range options {
		option.applyRunnerOption(&ro)
	}
	return &Runner{
		ctrl:   c,
		pin:    pin,
		dialer: d,
		log:    ro.logger.With(zap.Int("pin", pin)),
	}
}

// Run connects to the event source, acquires the pin, and pulses the pin for
// each actionable record until the source closes, an error occurs, or ctx
// is cancelled.
//
// Returns nil if the source closed cleanly, and ErrInterrupted if ctx was
// cancelled. The pin is always released before Run returns if it was
// acquired.
//
// A pulse in progress when ctx is cancelled is completed.
func (r *Runner) Run(ctx context.Context) error {
	if r.started.Swap(true) {
		return NewError(ErrInvalidArgument, "runner already started", nil)
	}
	src, err := r.dialer.Dial(ctx)
	if err != nil {
		if ctx.Err() != nil {
			return ErrInterrupted
		}
		if errors.Is(err, ErrConnection) {
			return err
		}
		return NewError(ErrConnection, "unable to connect to event source", err)
	}
	defer src.Close()
	r.log.Info("connected to event source")

	if err = r.ctrl.Acquire(r.pin); err != nil {
		return err
	}
	r.acquired.Store(true)
	defer r.release()
	r.log.Info("acquired pin")

	if err = r.ctrl.ConfigureAsOutput(r.pin); err != nil {
		return err
	}

	// unblock the read on cancellation
	done := make(chan struct{})
	defer close(done)
	go func() {
		select {
		case <-ctx.Done():
			src.Close()
		case <-done:
		}
	}()
	return r.loop(ctx, src)
}

func (r *Runner) loop(ctx context.Context, src EventSource) error {
	for {
		rec, err := src.ReadRecord()
		if ctx.Err() != nil {
			return ErrInterrupted
		}
		if err != nil {
			if errors.Is(err, ErrIO) {
				return err
			}
			return NewError(ErrIO, "read", err)
		}
		if len(rec) == 0 {
			r.log.Info("event source closed")
			return nil
		}
		if IsActionable(rec) {
			r.log.Debug("pulse", zap.ByteString("record", rec))
			if err = Pulse(r.ctrl, r.pin); err != nil {
				return err
			}
		} else {
			r.log.Debug("ignored", zap.ByteString("record", rec))
		}
		if ctx.Err() != nil {
			return ErrInterrupted
		}
		// ignore anything that came in while doing the pulse
		if err = src.DiscardBuffered(); err != nil {
			// the source is closed on cancellation, so may fail mid drain
			if ctx.Err() != nil {
				return ErrInterrupted
			}
			return NewError(ErrIO, "discard", err)
		}
	}
}

// release releases the pin, at most once, and only if it was acquired.
func (r *Runner) release() {
	if !r.acquired.Load() {
		return
	}
	r.releaseOnce.Do(func() {
		if err := r.ctrl.Release(r.pin); err != nil {
			r.log.Warn("release failed", zap.Error(err))
			return
		}
		r.log.Info("released pin")
	})
}
