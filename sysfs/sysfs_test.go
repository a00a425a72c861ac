// SPDX-FileCopyrightText: 2019 Kent Gibson <warthog618@gmail.com>
//
// SPDX-License-Identifier: MIT

//go:build linux
// +build linux

package sysfs_test

import (
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/warthog618/lircind"
	"github.com/warthog618/lircind/device/rpi"
	"github.com/warthog618/lircind/mockup"
	"github.com/warthog618/lircind/sysfs"
	"golang.org/x/sys/unix"
)

const timeout = time.Second

func newMockup(t *testing.T, options ...mockup.Option) *mockup.Mockup {
	t.Helper()
	m, err := mockup.New(options...)
	require.Nil(t, err)
	t.Cleanup(func() { m.Close() })
	return m
}

func TestNew(t *testing.T) {
	c := sysfs.New()
	assert.Equal(t, sysfs.DefaultRoot, c.Root())
	c = sysfs.New(sysfs.WithRoot("/tmp/gpio"))
	assert.Equal(t, "/tmp/gpio", c.Root())
}

func TestLifecycle(t *testing.T) {
	m := newMockup(t)
	c := sysfs.New(sysfs.WithRoot(m.Root))
	for _, pin := range rpi.Pins() {
		tf := func(t *testing.T) {
			require.False(t, m.Exported(pin))

			err := c.Acquire(pin)
			require.Nil(t, err)
			assert.True(t, m.Exported(pin))

			err = c.ConfigureAsOutput(pin)
			assert.Nil(t, err)
			d, err := m.Direction(pin)
			assert.Nil(t, err)
			assert.Equal(t, "out", d)

			err = c.SetLevel(pin, lircind.High)
			assert.Nil(t, err)
			v, err := m.Value(pin)
			assert.Nil(t, err)
			assert.Equal(t, 1, v)

			err = c.SetLevel(pin, lircind.Low)
			assert.Nil(t, err)
			v, err = m.Value(pin)
			assert.Nil(t, err)
			assert.Equal(t, 0, v)

			err = c.Release(pin)
			assert.Nil(t, err)
			assert.True(t, m.WaitExported(pin, false, timeout))
		}
		t.Run(rpi.PinName(pin), tf)
	}
}

func TestAcquireTwice(t *testing.T) {
	m := newMockup(t)
	c := sysfs.New(sysfs.WithRoot(m.Root))
	require.Nil(t, c.Acquire(4))
	defer c.Release(4)
	err := c.Acquire(4)
	assert.True(t, errors.Is(err, lircind.ErrInvalidArgument))
	assert.Equal(t, 1, m.Exports())
}

func TestAcquireNoInterface(t *testing.T) {
	c := sysfs.New(sysfs.WithRoot(filepath.Join(t.TempDir(), "nothere")))
	err := c.Acquire(4)
	assert.True(t, errors.Is(err, lircind.ErrResourceUnavailable))
	assert.True(t, errors.Is(err, unix.ENOENT))
	assert.Equal(t, int(unix.ENOENT), lircind.ExitCode(err))
}

func TestAcquireTimeout(t *testing.T) {
	m := newMockup(t, mockup.WithPins(17))
	c := sysfs.New(sysfs.WithRoot(m.Root),
		sysfs.WithExportTimeout(50*time.Millisecond))
	err := c.Acquire(4)
	assert.True(t, errors.Is(err, lircind.ErrResourceUnavailable))
	// unexported on the way out
	assert.Eventually(t, func() bool {
		return m.Unexports() == 1
	}, timeout, time.Millisecond)
	// and so not acquired
	err = c.Release(4)
	assert.True(t, errors.Is(err, lircind.ErrInvalidArgument))
}

func TestConfigureFail(t *testing.T) {
	m := newMockup(t, mockup.WithFault(4, "direction"))
	c := sysfs.New(sysfs.WithRoot(m.Root))
	require.Nil(t, c.Acquire(4))
	err := c.ConfigureAsOutput(4)
	assert.True(t, errors.Is(err, lircind.ErrConfiguration))
	assert.True(t, errors.Is(err, unix.EISDIR))
	assert.Nil(t, c.Release(4))
	assert.True(t, m.WaitExported(4, false, timeout))
}

func TestSetLevelFail(t *testing.T) {
	m := newMockup(t, mockup.WithFault(4, "value"))
	c := sysfs.New(sysfs.WithRoot(m.Root))
	require.Nil(t, c.Acquire(4))
	defer c.Release(4)
	require.Nil(t, c.ConfigureAsOutput(4))
	err := c.SetLevel(4, lircind.High)
	assert.True(t, errors.Is(err, lircind.ErrIO))
	assert.Equal(t, int(unix.EISDIR), lircind.ExitCode(err))
}

func TestSetLevelInvalid(t *testing.T) {
	m := newMockup(t)
	c := sysfs.New(sysfs.WithRoot(m.Root))
	require.Nil(t, c.Acquire(4))
	defer c.Release(4)
	require.Nil(t, c.ConfigureAsOutput(4))
	err := c.SetLevel(4, lircind.Level(2))
	assert.True(t, errors.Is(err, lircind.ErrInvalidArgument))
	v, err := m.Value(4)
	assert.Nil(t, err)
	assert.Equal(t, 0, v)
}

func TestNotAcquired(t *testing.T) {
	m := newMockup(t)
	c := sysfs.New(sysfs.WithRoot(m.Root))
	err := c.ConfigureAsOutput(4)
	assert.True(t, errors.Is(err, lircind.ErrInvalidArgument))
	err = c.SetLevel(4, lircind.High)
	assert.True(t, errors.Is(err, lircind.ErrInvalidArgument))
	err = c.Release(4)
	assert.True(t, errors.Is(err, lircind.ErrInvalidArgument))
	assert.Equal(t, 0, m.Exports())
	assert.Equal(t, 0, m.Unexports())
}
