// SPDX-FileCopyrightText: 2019 Kent Gibson <warthog618@gmail.com>
//
// SPDX-License-Identifier: MIT

//go:build linux
// +build linux

package lircind_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/warthog618/lircind"
)

func TestIsActionable(t *testing.T) {
	patterns := []struct {
		name   string
		record string
		val    bool
	}{
		{"press", keyPower, true},
		{"release", keyPowerUp, false},
		{"repeat", "0000000000000001 01 KEY_VOLUMEUP remote\n", true},
		{"empty", "", true},
		{"no space", "0000000000000000 00 KEY_POWER_UP\n", true},
		{"marker anywhere", "_UP remote KEY_OK\n", false},
		{"lower case", "0000000000000000 00 key_power_up remote\n", true},
		{"truncated", "0000000000000000 00 KEY_PO", true},
	}
	for _, p := range patterns {
		tf := func(t *testing.T) {
			assert.Equal(t, p.val, lircind.IsActionable([]byte(p.record)))
		}
		t.Run(p.name, tf)
	}
}
