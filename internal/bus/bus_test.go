// Copyright © 2022-2026 Platina Systems, Inc. All rights reserved.
// Use of this source code is governed by the GPL-2 license described in the
// LICENSE file.

package bus

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestPath(t *testing.T) {
	if s := Path(3); s != "/dev/i2c-3" {
		t.Errorf("%q != %q", s, "/dev/i2c-3")
	}
}

func TestWait(t *testing.T) {
	dir := t.TempDir()
	fn := filepath.Join(dir, "i2c-0")
	ctx := context.Background()

	t.Run("timeout", func(t *testing.T) {
		err := Wait(ctx, fn, 50*time.Millisecond)
		if !errors.Is(err, ErrTimeout) {
			t.Fatalf("got %v, want %v", err, ErrTimeout)
		}
		t.Log(err)
	})
	t.Run("canceled", func(t *testing.T) {
		ctx, cancel := context.WithCancel(ctx)
		cancel()
		if err := Wait(ctx, fn, time.Hour); err != context.Canceled {
			t.Fatalf("got %v, want %v", err, context.Canceled)
		}
	})
	t.Run("appears", func(t *testing.T) {
		go func() {
			time.Sleep(30 * time.Millisecond)
			os.WriteFile(fn, nil, 0644)
		}()
		if err := Wait(ctx, fn, 10*time.Second); err != nil {
			t.Fatal(err)
		}
	})
	t.Run("present", func(t *testing.T) {
		if err := Wait(ctx, fn, time.Millisecond); err != nil {
			t.Fatal(err)
		}
	})
}
