// SPDX-FileCopyrightText: 2019 Kent Gibson <warthog618@gmail.com>
//
// SPDX-License-Identifier: MIT

//go:build linux
// +build linux

// A utility to flash an LED on a GPIO output pin whenever anything appears on
// the LIRC socket.
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/warthog618/lircind"
	"github.com/warthog618/lircind/device/rpi"
	"github.com/warthog618/lircind/lirc"
	"go.uber.org/zap"
)

var version = "undefined"

var longHelp = `Pulses the GPIO output pin (eg to flash an LED) whenever anything is
received on the lirc socket.

The gpio pin defaults to 4 and the lirc socket to /var/run/lirc/lircd.
Button release events are ignored.`

var extendedHelp = `
Pins:
  A pin may be given as a BCM number (17), a GPIO name (GPIO17), or a
  P1 or P5 header pin on an R2 board (P1p11, P5p3).

Backends:
  sysfs:        the /sys/class/gpio interface
  cdev:         the GPIO character device, on the chip set by --chip
  periph:       the periph.io host drivers
`

func main() {
	os.Exit(execute(os.Args[1:], os.Stdout, os.Stderr))
}

// execute runs the command with the given args and returns the exit status.
func execute(args []string, stdout, stderr io.Writer) int {
	cmd := newRootCmd()
	cmd.SetArgs(args)
	cmd.SetOut(stdout)
	cmd.SetErr(stderr)
	err := cmd.Execute()
	var ue usageError
	switch {
	case err == nil:
	case errors.Is(err, lircind.ErrInterrupted):
	case errors.As(err, &ue):
		logErr(stderr, err)
		fmt.Fprintf(stderr, "Try `%s --help' for more information.\n", cmd.Name())
	default:
		logErr(stderr, err)
	}
	return lircind.ExitCode(err)
}

func logErr(w io.Writer, err error) {
	fmt.Fprintf(w, "lircind: %s\n", err)
}

// usageError indicates the command line could not be used.
type usageError struct {
	err error
}

func (e usageError) Error() string {
	return e.err.Error()
}

func newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:                   "lircind [flags] [gpio pin] [lirc socket]",
		Short:                 "lircind pulses a GPIO output for each remote control event",
		Long:                  longHelp,
		Args:                  checkArgs,
		RunE:                  run,
		Version:               version,
		SilenceErrors:         true,
		SilenceUsage:          true,
		DisableFlagsInUseLine: true,
	}
	cmd.SetVersionTemplate("{{.Name}} {{.Version}}\n")
	cmd.SetHelpTemplate(cmd.HelpTemplate() + extendedHelp)
	cmd.SetFlagErrorFunc(func(c *cobra.Command, err error) error {
		return usageError{err}
	})
	addFlags(cmd)
	return cmd
}

func checkArgs(cmd *cobra.Command, args []string) error {
	if len(args) > 2 {
		return usageError{errors.New("incorrect number of arguments")}
	}
	return nil
}

func run(cmd *cobra.Command, args []string) error {
	cfg := loadConfig(cmd, args)
	log, err := newLogger(cfg.MustGet("log-level").String(), cmd.ErrOrStderr())
	if err != nil {
		return usageError{err}
	}
	defer log.Sync()

	name := cfg.MustGet("pin").String()
	pin, err := rpi.Pin(name)
	if err != nil {
		return lircind.NewError(lircind.ErrInvalidArgument,
			fmt.Sprintf("%s is not a valid GPIO pin number", name), nil)
	}
	ctrl, err := newController(cfg)
	if err != nil {
		return usageError{err}
	}
	if cfg.MustGet("daemon").Bool() {
		dctx, child, err := daemonize()
		if err != nil {
			return err
		}
		if !child {
			return nil
		}
		defer dctx.Release()
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	// capture exit signals to ensure pin is released on exit.
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(quit)
	go func() {
		select {
		case s := <-quit:
			log.Info("shutting down", zap.Stringer("signal", s))
			cancel()
		case <-ctx.Done():
		}
	}()

	socket := cfg.MustGet("socket").String()
	log.Debug("starting",
		zap.Int("pin", pin),
		zap.String("socket", socket),
		zap.String("backend", cfg.MustGet("backend").String()))
	r := lircind.NewRunner(ctrl, pin, lirc.NewDialer(socket), lircind.WithLogger(log))
	return r.Run(ctx)
}
