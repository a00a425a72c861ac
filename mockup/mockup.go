// SPDX-License-Identifier: MIT
//
// Copyright © 2019 Kent Gibson <warthog618@gmail.com>.

//go:build linux
// +build linux

// Package mockup provides a simulated GPIO sysfs tree.
//
// The tree lives in a temporary directory and reacts to writes to its export
// and unexport nodes in the same way as the kernel, creating and removing the
// gpioN directories.
// This is intended for testing of lircind, but could also be used for testing
// by users of their own code that uses the sysfs interface.
package mockup

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// Mockup represents a simulated sysfs GPIO directory.
type Mockup struct {
	// Root is the path to the simulated /sys/class/gpio.
	Root string

	w    *fsnotify.Watcher
	done chan struct{}

	// mutex covers the attributes below it.
	mu sync.Mutex

	// pins that can be exported, or nil for any pin.
	pins map[int]bool

	// nodes that are made unwritable when a pin is exported, keyed by pin.
	faults map[int][]string

	// count of export and unexport requests processed.
	exports   int
	unexports int

	closed bool
}

// New creates a new Mockup in a fresh temporary directory.
func New(options ...Option) (*Mockup, error) {
	root, err := os.MkdirTemp("", "gpio-mockup-")
	if err != nil {
		return nil, err
	}
	m := Mockup{
		Root:   root,
		done:   make(chan struct{}),
		faults: map[int][]string{},
	}
	for _, option := range options {
		option.applyOption(&m)
	}
	for _, node := range []string{"export", "unexport"} {
		if err = os.WriteFile(filepath.Join(root, node), nil, 0600); err != nil {
			os.RemoveAll(root)
			return nil, err
		}
	}
	w, err := fsnotify.NewWatcher()
	if err != nil {
		os.RemoveAll(root)
		return nil, fmt.Errorf("failed to start watcher: %w", err)
	}
	if err = w.Add(root); err != nil {
		w.Close()
		os.RemoveAll(root)
		return nil, fmt.Errorf("failed to watch %s: %w", root, err)
	}
	m.w = w
	go m.watch()
	return &m, nil
}

// Close stops the simulation and removes the tree.
func (m *Mockup) Close() error {
	m.mu.Lock()
	if m.closed {
		m.mu.Unlock()
		return nil
	}
	m.closed = true
	m.mu.Unlock()
	err := m.w.Close()
	<-m.done
	if rerr := os.RemoveAll(m.Root); err == nil {
		err = rerr
	}
	return err
}

func (m *Mockup) watch() {
	defer close(m.done)
	for {
		select {
		case evt, ok := <-m.w.Events:
			if !ok {
				return
			}
			if evt.Op&fsnotify.Write == 0 {
				continue
			}
			switch filepath.Base(evt.Name) {
			case "export":
				m.handle(evt.Name, m.export)
			case "unexport":
				m.handle(evt.Name, m.unexport)
			}
		case _, ok := <-m.w.Errors:
			if !ok {
				return
			}
		}
	}
}

// handle reads the pin written to the node and applies fn to it.
func (m *Mockup) handle(path string, fn func(int)) {
	b, err := os.ReadFile(path)
	if err != nil {
		return
	}
	// the node is cleared after each request so subsequent writes are not
	// concatenated with stale content.
	os.Truncate(path, 0)
	line, _, _ := bytes.Cut(b, []byte("\n"))
	line = bytes.TrimSpace(line)
	if len(line) == 0 {
		return
	}
	pin, err := strconv.Atoi(string(line))
	if err != nil {
		return
	}
	fn(pin)
}

func (m *Mockup) export(pin int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.exports++
	if m.pins != nil && !m.pins[pin] {
		return
	}
	dir := m.pinDir(pin)
	if _, err := os.Stat(dir); err == nil {
		return
	}
	if err := os.Mkdir(dir, 0755); err != nil {
		return
	}
	faulty := map[string]bool{}
	for _, node := range m.faults[pin] {
		faulty[node] = true
	}
	// value last, as it is the node users wait on
	for _, n := range []struct {
		name  string
		value string
	}{
		{"direction", "in\n"},
		{"value", "0\n"},
	} {
		path := filepath.Join(dir, n.name)
		if faulty[n.name] {
			os.Mkdir(path, 0755)
			continue
		}
		// nodes appear fully formed, as they do in sysfs
		tmp := path + ".tmp"
		if err := os.WriteFile(tmp, []byte(n.value), 0644); err == nil {
			os.Rename(tmp, path)
		}
	}
}

func (m *Mockup) unexport(pin int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.unexports++
	os.RemoveAll(m.pinDir(pin))
}

func (m *Mockup) pinDir(pin int) string {
	return filepath.Join(m.Root, fmt.Sprintf("gpio%d", pin))
}

// Exported returns true if the pin is currently exported.
func (m *Mockup) Exported(pin int) bool {
	_, err := os.Stat(m.pinDir(pin))
	return err == nil
}

// WaitExported waits for the pin to reach the exported state, returning
// false if that does not occur within the timeout.
func (m *Mockup) WaitExported(pin int, exported bool, timeout time.Duration) bool {
	deadline := time.Now().Add(timeout)
	for m.Exported(pin) != exported {
		if time.Now().After(deadline) {
			return false
		}
		time.Sleep(time.Millisecond)
	}
	return true
}

// Direction returns the direction of an exported pin.
func (m *Mockup) Direction(pin int) (string, error) {
	b, err := os.ReadFile(filepath.Join(m.pinDir(pin), "direction"))
	if err != nil {
		return "", err
	}
	return string(bytes.TrimSpace(b)), nil
}

// Value returns the value of an exported pin.
func (m *Mockup) Value(pin int) (int, error) {
	b, err := os.ReadFile(filepath.Join(m.pinDir(pin), "value"))
	if err != nil {
		return 0, err
	}
	v, err := strconv.Atoi(string(bytes.TrimSpace(b)))
	if err != nil {
		return 0, ErrorBadValue{Pin: pin, Value: string(b)}
	}
	return v, nil
}

// Exports returns the number of export requests processed.
func (m *Mockup) Exports() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.exports
}

// Unexports returns the number of unexport requests processed.
func (m *Mockup) Unexports() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.unexports
}

// Option defines the interface required to provide a Mockup option.
type Option interface {
	applyOption(*Mockup)
}

// PinsOption limits the pins that can be exported.
type PinsOption []int

// WithPins limits the pins that can be exported.
//
// Requests to export other pins are ignored, as the kernel would reject them.
func WithPins(pins ...int) PinsOption {
	return PinsOption(pins)
}

func (o PinsOption) applyOption(m *Mockup) {
	m.pins = map[int]bool{}
	for _, p := range o {
		m.pins[p] = true
	}
}

// FaultOption makes a node of a pin unwritable.
type FaultOption struct {
	pin  int
	node string
}

// WithFault causes writes to the named node, "direction" or "value", of the
// pin to fail once the pin is exported.
func WithFault(pin int, node string) FaultOption {
	return FaultOption{pin, node}
}

func (o FaultOption) applyOption(m *Mockup) {
	m.faults[o.pin] = append(m.faults[o.pin], o.node)
}

// ErrorBadValue indicates a value node contains something other than a
// number.
type ErrorBadValue struct {
	Pin   int
	Value string
}

func (e ErrorBadValue) Error() string {
	return fmt.Sprintf("pin %d has bad value %q", e.Pin, e.Value)
}
