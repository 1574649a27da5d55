// Copyright © 2015-2026 Platina Systems, Inc. All rights reserved.
// Use of this source code is governed by the GPL-2 license described in the
// LICENSE file.

// Package goes runs a selection of context driven commands from a single
// multi-call program.
package goes

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"path/filepath"
	"runtime/debug"
	"sort"
	"syscall"
)

var Prog = filepath.Base(os.Args[0])

var TerminationSignals = []os.Signal{
	os.Interrupt,
	os.Signal(syscall.SIGTERM),
}

type Func = func(context.Context, ...string) error

type Selection map[string]Func

var BuiltIn = Selection{
	"version": func(ctx context.Context, args ...string) error {
		if Preemption(ctx) == "help" {
			Usage(ctx, "\nPrint the program version.")
			return nil
		}
		if bi, ok := debug.ReadBuildInfo(); ok {
			OutputOf(ctx).Println(bi.Main.Version)
		}
		return nil
	},
}

func (m Selection) Keys() []string {
	var keys []string
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Main runs the command selected by os.Args[1:] until it returns or the
// program receives a termination signal.
func (m Selection) Main() {
	PlainLog()
	ctx, stop := signal.NotifyContext(context.Background(),
		TerminationSignals...)
	defer stop()
	for k, v := range BuiltIn {
		if _, ok := m[k]; !ok {
			m[k] = v
		}
	}
	ctx = WithOutput(ctx, os.Stdout)
	ctx = WithPath(ctx, Prog)
	ctx, args := Preempt(ctx, os.Args[1:])
	if err := m.Select(ctx, args...); err != nil {
		log.Fatal(err)
	}
}

// Select the command named by the first argument.
func (m Selection) Select(ctx context.Context, args ...string) error {
	if len(args) == 0 {
		if Preemption(ctx) == "help" {
			Usage(ctx, "COMMAND [OPTION]...\n", m)
			return nil
		}
		return ErrorfWith(ctx, "COMMAND: missing")
	}
	f, found := m[args[0]]
	if !found {
		return ErrorfWith(ctx, "%s: command not found", args[0])
	}
	return f(WithPath(ctx, args[0]), args[1:]...)
}

// ErrorfWith context path preface.
func ErrorfWith(ctx context.Context, format string, args ...interface{}) error {
	var prefix string
	for i, s := range PathOf(ctx) {
		if i == 0 || s == "help" {
			continue
		}
		if len(prefix) > 0 {
			prefix += " "
		}
		prefix += s
	}
	if len(prefix) > 0 {
		format = prefix + ": " + format
	}
	return fmt.Errorf(format, args...)
}
