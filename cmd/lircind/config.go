// SPDX-FileCopyrightText: 2019 Kent Gibson <warthog618@gmail.com>
//
// SPDX-License-Identifier: MIT

//go:build linux
// +build linux

package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/warthog618/config"
	"github.com/warthog618/config/dict"
	"github.com/warthog618/lircind"
	"github.com/warthog618/lircind/cdev"
	"github.com/warthog618/lircind/device/rpi"
	"github.com/warthog618/lircind/lirc"
	"github.com/warthog618/lircind/periph"
	"github.com/warthog618/lircind/sysfs"
)

var defaults = map[string]interface{}{
	"pin":        rpi.GPIO4,
	"socket":     lirc.DefaultSocket,
	"daemon":     false,
	"backend":    "sysfs",
	"chip":       cdev.DefaultChip,
	"sysfs-root": sysfs.DefaultRoot,
	"udev":       false,
	"log-level":  "warn",
}

func addFlags(cmd *cobra.Command) {
	f := cmd.Flags()
	f.BoolP("daemon", "d", false, "run as daemon in background")
	f.String("backend", defaults["backend"].(string), "select the GPIO interface.")
	f.String("chip", defaults["chip"].(string), "the GPIO chip used by the cdev backend")
	f.Bool("udev", false, "wait for udev to process exported pins (sysfs only)")
	f.String("log-level", defaults["log-level"].(string), "the minimum level of logged messages")
	f.String("sysfs-root", defaults["sysfs-root"].(string), "the location of the sysfs GPIO interface")
	f.MarkHidden("sysfs-root")
}

// loadConfig layers the positional args and any flags set on the command
// line over the defaults.
func loadConfig(cmd *cobra.Command, args []string) *config.Config {
	overrides := map[string]interface{}{}
	cmd.Flags().Visit(func(f *pflag.Flag) {
		overrides[f.Name] = f.Value.String()
	})
	if len(args) > 0 {
		overrides["pin"] = args[0]
	}
	if len(args) > 1 {
		overrides["socket"] = args[1]
	}
	return config.New(dict.New(dict.WithMap(overrides)),
		config.WithDefault(dict.New(dict.WithMap(defaults))))
}

func newController(cfg *config.Config) (lircind.Controller, error) {
	backend := cfg.MustGet("backend").String()
	switch backend {
	case "sysfs":
		opts := []sysfs.Option{sysfs.WithRoot(cfg.MustGet("sysfs-root").String())}
		if cfg.MustGet("udev").Bool() {
			opts = append(opts, sysfs.WithUdevSync)
		}
		return sysfs.New(opts...), nil
	case "cdev":
		return cdev.New(cfg.MustGet("chip").String()), nil
	case "periph":
		return periph.New(), nil
	}
	return nil, fmt.Errorf("invalid backend: %s", backend)
}
