// Copyright © 2015-2026 Platina Systems, Inc. All rights reserved.
// Use of this source code is governed by the GPL-2 license described in the
// LICENSE file.

package goes

import (
	"context"
	"fmt"
	"io"
)

var (
	outputMark int
	outputKey  = &outputMark
	pathMark   int
	pathKey    = &pathMark
)

var preemptive = map[string]bool{
	"help": true,
}

type Output struct {
	context.Context
	w io.Writer
}

func WithOutput(ctx context.Context, w io.Writer) context.Context {
	return Output{ctx, w}
}

// OutputOf returns the context's writer, which discards everything if
// there isn't one or once the context is done.
func OutputOf(ctx context.Context) Output {
	if v := ctx.Value(outputKey); v != nil {
		return v.(Output)
	}
	return Output{ctx, nil}
}

func (o Output) Value(k interface{}) interface{} {
	if k == outputKey {
		return o
	}
	return o.Context.Value(k)
}

// Writer is nil without output.
func (o Output) Writer() io.Writer { return o.w }

func (o Output) Write(b []byte) (int, error) {
	if err := o.Err(); err != nil {
		return 0, err
	}
	if o.w == nil {
		return len(b), nil
	}
	return o.w.Write(b)
}

func (o Output) Print(args ...interface{}) { fmt.Fprint(o, args...) }

func (o Output) Printf(format string, args ...interface{}) {
	fmt.Fprintf(o, format, args...)
}

func (o Output) Println(args ...interface{}) { fmt.Fprintln(o, args...) }

type path struct {
	context.Context
	name string
}

// WithPath appends an element to the context path.
func WithPath(ctx context.Context, name string) context.Context {
	return path{ctx, name}
}

func (p path) Value(k interface{}) interface{} {
	if k == pathKey {
		return p
	}
	return p.Context.Value(k)
}

// PathOf returns the context path elements in the order appended.
func PathOf(ctx context.Context) []string {
	var l []string
	for v := ctx.Value(pathKey); v != nil; v = ctx.Value(pathKey) {
		p := v.(path)
		l = append([]string{p.name}, l...)
		ctx = p.Context
	}
	return l
}

// Preemption returns "help" if the context path is preempted by it;
// otherwise, this returns an empty string.
func Preemption(ctx context.Context) string {
	p := PathOf(ctx)
	if len(p) > 1 && preemptive[p[1]] {
		return p[1]
	}
	return ""
}

// Preempt moves leading "help" arguments to the context path.
func Preempt(ctx context.Context, args []string) (context.Context, []string) {
	for len(args) > 0 && preemptive[args[0]] {
		ctx = WithPath(ctx, args[0])
		args = args[1:]
	}
	return ctx, args
}
