// SPDX-FileCopyrightText: 2019 Kent Gibson <warthog618@gmail.com>
//
// SPDX-License-Identifier: MIT

//go:build linux
// +build linux

package lircind_test

import (
	"context"
	"fmt"
	"net"
	"sync"

	"github.com/warthog618/lircind"
)

// controller records the operations applied to it.
type controller struct {
	mu     sync.Mutex
	ops    []string
	fail   map[string]error
	onSet  func(lircind.Level)
	levels []lircind.Level
}

func newController() *controller {
	return &controller{fail: map[string]error{}}
}

func (c *controller) record(op string, pin int) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.ops = append(c.ops, fmt.Sprintf("%s %d", op, pin))
	return c.fail[op]
}

func (c *controller) Acquire(pin int) error {
	return c.record("acquire", pin)
}

func (c *controller) ConfigureAsOutput(pin int) error {
	return c.record("output", pin)
}

func (c *controller) SetLevel(pin int, l lircind.Level) error {
	if err := lircind.CheckLevel(pin, l); err != nil {
		return err
	}
	err := c.record(fmt.Sprintf("set%d", l), pin)
	c.mu.Lock()
	c.levels = append(c.levels, l)
	onSet := c.onSet
	c.mu.Unlock()
	if onSet != nil {
		onSet(l)
	}
	return err
}

func (c *controller) Release(pin int) error {
	return c.record("release", pin)
}

func (c *controller) Ops() []string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]string(nil), c.ops...)
}

func (c *controller) count(op string) int {
	n := 0
	for _, o := range c.Ops() {
		if o == op {
			n++
		}
	}
	return n
}

// source is an EventSource fed by the test.
type source struct {
	mu        sync.Mutex
	queue     [][]byte
	eof       bool
	err       error
	closed    bool
	wake      chan struct{}
	discarded int
	discards  int
	onDiscard func(n int)
	// returned by DiscardBuffered, if set
	discardErr error
	reading    chan struct{}
}

func newSource(records ...string) *source {
	s := &source{
		wake:    make(chan struct{}, 1),
		reading: make(chan struct{}, 1),
	}
	s.push(records...)
	return s
}

func (s *source) signal() {
	select {
	case s.wake <- struct{}{}:
	default:
	}
}

func (s *source) push(records ...string) {
	s.mu.Lock()
	for _, r := range records {
		s.queue = append(s.queue, []byte(r))
	}
	s.mu.Unlock()
	s.signal()
}

func (s *source) finish() {
	s.mu.Lock()
	s.eof = true
	s.mu.Unlock()
	s.signal()
}

func (s *source) fail(err error) {
	s.mu.Lock()
	s.err = err
	s.mu.Unlock()
	s.signal()
}

func (s *source) ReadRecord() ([]byte, error) {
	for {
		s.mu.Lock()
		switch {
		case s.closed:
			s.mu.Unlock()
			return nil, net.ErrClosed
		case len(s.queue) > 0:
			r := s.queue[0]
			s.queue = s.queue[1:]
			s.mu.Unlock()
			return r, nil
		case s.err != nil:
			err := s.err
			s.mu.Unlock()
			return nil, err
		case s.eof:
			s.mu.Unlock()
			return nil, nil
		}
		s.mu.Unlock()
		// flag that the reader is blocked
		select {
		case s.reading <- struct{}{}:
		default:
		}
		<-s.wake
	}
}

func (s *source) DiscardBuffered() error {
	s.mu.Lock()
	n := len(s.queue)
	s.discarded += n
	s.discards++
	s.queue = nil
	d := s.discards
	onDiscard := s.onDiscard
	s.mu.Unlock()
	if onDiscard != nil {
		onDiscard(d)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.discardErr
}

func (s *source) Close() error {
	s.mu.Lock()
	s.closed = true
	s.mu.Unlock()
	s.signal()
	return nil
}

func dialer(s *source) lircind.Dialer {
	return lircind.DialerFunc(func(ctx context.Context) (lircind.EventSource, error) {
		return s, nil
	})
}
