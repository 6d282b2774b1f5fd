// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/tfctl/tagwatch/internal/cacheutil"
	"github.com/tfctl/tagwatch/internal/command"
	"github.com/tfctl/tagwatch/internal/config"
	"github.com/tfctl/tagwatch/internal/log"
	"github.com/tfctl/tagwatch/internal/version"
)

var ctx = context.Background()

func main() {
	os.Exit(realMain())
}

// handleVersion checks for --version/-v and returns whether it was handled.
func handleVersion(args []string) bool {
	for _, a := range args {
		if a == "--version" || a == "-v" {
			fmt.Println(version.Version)
			return true
		}
	}
	return false
}

// handleNakedCommand appends --help if no command is provided.
func handleNakedCommand(args []string) []string {
	if len(args) <= 1 {
		return append(args, "--help")
	}
	return args
}

// reportError prints the single failure line for err.
func reportError(w io.Writer, err error) {
	fmt.Fprintln(w, "An error occurred: "+err.Error())
}

// initAndRunApp initializes the app and runs it, returning the exit code.
func initAndRunApp(args []string) int {
	// Pre-create cache directory when caching is enabled.
	if _, ok, err := cacheutil.EnsureBaseDir(); err != nil && ok {
		log.Debugf("cache ensure err: err=%v", err)
	}

	app, err := command.InitApp(ctx, args)
	if err != nil {
		reportError(os.Stderr, err)
		log.Debugf("app init err: err=%v", err)
		return 1
	}

	if err := app.Run(ctx, args); err != nil {
		reportError(os.Stderr, err)
		log.Debugf("app run err: err=%v", err)
		return 2
	}

	return 0
}

func realMain() (code int) {
	log.InitLogger()

	defer func() {
		if r := recover(); r != nil {
			reportError(os.Stderr, fmt.Errorf("%v", r))
			code = 2
		}
	}()

	args := os.Args
	log.Debugf("args captured: args=%v", args)

	if handleVersion(args) {
		return 0
	}

	args = handleNakedCommand(args)
	if len(args) > 1 && args[1] != "completion" {
		args = expandSets(args, config.ArgSet)
		log.Debugf("args after set processing: args=%v", args)
	}

	return initAndRunApp(args)
}

// expandSets replaces an @name argument with the config entries stored under
// <command>.<name>. Without an @name argument, <command>.defaults is inserted
// right after the command so explicit flags still win.
func expandSets(args []string, lookup func(command, set string) []string) []string {
	if len(args) < 2 || strings.HasPrefix(args[1], "-") {
		return args
	}

	set, at := "defaults", 2
	for i, a := range args[2:] {
		if strings.HasPrefix(a, "@") && len(a) > 1 {
			set, at = a[1:], i+2
			args = append(args[:at:at], args[at+1:]...)
			break
		}
	}

	var expanded []string
	for _, entry := range lookup(args[1], set) {
		expanded = append(expanded, strings.Fields(entry)...)
	}
	if len(expanded) == 0 {
		return args
	}

	out := make([]string, 0, len(args)+len(expanded))
	out = append(out, args[:at]...)
	out = append(out, expanded...)
	return append(out, args[at:]...)
}
