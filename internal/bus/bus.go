// Copyright © 2022-2026 Platina Systems, Inc. All rights reserved.
// Use of this source code is governed by the GPL-2 license described in the
// LICENSE file.

// Package bus opens /dev/i2c-N, optionally waiting for the adapter's
// device node to appear.
package bus

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/jpillora/backoff"
	"github.com/platinasystems/i2c"
)

var ErrTimeout = errors.New("timeout")

func Path(index int) string { return fmt.Sprintf("/dev/i2c-%d", index) }

// Open the indexed bus after waiting up to the given duration for it.
func Open(ctx context.Context, index int, wait time.Duration) (*i2c.Bus, error) {
	if wait > 0 {
		if err := Wait(ctx, Path(index), wait); err != nil {
			return nil, err
		}
	}
	bus := new(i2c.Bus)
	if err := bus.Open(index); err != nil {
		return nil, err
	}
	return bus, nil
}

// Wait polls, with exponential back-off, until the named file exists.
func Wait(ctx context.Context, fn string, wait time.Duration) error {
	b := &backoff.Backoff{
		Min:    10 * time.Millisecond,
		Max:    1 * time.Second,
		Factor: 2,
		Jitter: false,
	}
	deadline := time.NewTimer(wait)
	defer deadline.Stop()
	for {
		_, err := os.Stat(fn)
		if err == nil {
			return nil
		}
		if !os.IsNotExist(err) {
			return err
		}
		if !func() bool {
			t := time.NewTimer(b.Duration())
			defer t.Stop()
			select {
			case <-ctx.Done():
				err = ctx.Err()
			case <-deadline.C:
				err = fmt.Errorf("%s: %w after %v", fn, ErrTimeout, wait)
			case <-t.C:
				return true
			}
			return false
		}() {
			return err
		}
	}
}

// SendCloser is an open bus, e.g. *i2c.Bus.
type SendCloser interface {
	Send(messages []i2c.Message) error
	Close() error
}

// OpenFunc opens a bus for commands; nil means Open.
type OpenFunc func(ctx context.Context, index int, wait time.Duration) (SendCloser, error)

func (f OpenFunc) Open(ctx context.Context, index int, wait time.Duration) (SendCloser, error) {
	if f != nil {
		return f(ctx, index, wait)
	}
	bus, err := Open(ctx, index, wait)
	if err != nil {
		return nil, err
	}
	return bus, nil
}
