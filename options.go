// SPDX-FileCopyrightText: 2019 Kent Gibson <warthog618@gmail.com>
//
// SPDX-License-Identifier: MIT

//go:build linux
// +build linux

package lircind

import "go.uber.org/zap"

// RunnerOption defines the interface required to provide a Runner option.
type RunnerOption interface {
	applyRunnerOption(*runnerOptions)
}

// runnerOptions contains the options for a Runner.
type runnerOptions struct {
	logger *zap.Logger
}

// LoggerOption provides the logger for a Runner.
type LoggerOption struct {
	logger *zap.Logger
}

// WithLogger sets the logger used by the Runner.
//
// The default is a no-op logger.
func WithLogger(l *zap.Logger) LoggerOption {
	return LoggerOption{l}
}

func (o LoggerOption) applyRunnerOption(ro *runnerOptions) {
	if o.logger != nil {
		ro.logger = o.logger
	}
}
