// SPDX-License-Identifier: MIT
package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"

	"gifsync/cmd"
	"gifsync/internal/errs"
	"gifsync/internal/log"
	"gifsync/internal/pipeline"
	"gifsync/pkg/build"
)

// Exit codes.
const (
	exitOK            = 0
	exitFailure       = 1
	exitConfiguration = 2
)

// main is the entry point for gifsync. The program flow is:
//
//  1. Startup: build information, command line, configuration, logging.
//  2. Run: decode, analyse, transform and encode until done or interrupted.
//  3. Shutdown: report the result or the error and set the exit code.
func main() {
	os.Exit(run())
}

func run() int {
	if err := build.Initialize(); err != nil {
		cmd.PrintError(err.Error())
		return exitFailure
	}

	opts, err := cmd.ParseArgs(os.Args[1:])
	if err != nil {
		cmd.PrintError(err.Error())
		return exitCode(err)
	}

	switch opts.Command {
	case cmd.CommandNone:
		return exitOK
	case cmd.CommandVersion:
		info := build.GetBuildFlags()
		cmd.PrintVersion(os.Stdout, info.Name, info.Version, info.Commit, info.Time)
		return exitOK
	}

	if err := log.Configure(opts.Config.LogLevel, opts.Config.Verbose); err != nil {
		cmd.PrintError(err.Error())
		return exitConfiguration
	}

	// Cancel the encoder and any rescale workers on interrupt
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var rep pipeline.Reporter = cmd.NewBarReporter(os.Stderr)
	if opts.Config.Verbose {
		rep = pipeline.NewLogReporter()
	}

	popts, err := cmd.PipelineOptions(opts, rep)
	if err != nil {
		cmd.PrintError(err.Error())
		return exitCode(err)
	}

	res, err := pipeline.Run(ctx, popts)
	if err != nil {
		cmd.PrintError(err.Error())
		return exitCode(err)
	}

	cmd.PrintSummary(os.Stdout, res)
	return exitOK
}

func exitCode(err error) int {
	if errors.Is(err, errs.ErrConfiguration) {
		return exitConfiguration
	}
	return exitFailure
}
