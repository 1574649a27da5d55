// Copyright © 2022-2026 Platina Systems, Inc. All rights reserved.
// Use of this source code is governed by the GPL-2 license described in the
// LICENSE file.

// Package adxl345 provides a command that samples an ADXL345
// accelerometer.
package adxl345

import (
	"context"
	"fmt"
	"time"

	"github.com/platinasystems/i2creg"
	"github.com/platinasystems/i2creg/adxl345"
	"github.com/platinasystems/i2creg/internal/bus"
	"github.com/platinasystems/i2creg/internal/goes"
	"github.com/platinasystems/i2creg/internal/options"
	"github.com/platinasystems/i2creg/internal/publish"
	"github.com/platinasystems/log"
	"github.com/platinasystems/parms"
)

const Usage = "[-bus N] [-addr ADDR] [-n COUNT] [-interval DURATION] " +
	"[-wait DURATION] [-redis HOST:PORT]"

const Man = `
DESCRIPTION
	Configure an ADXL345 for ±2g at 100Hz then print COUNT (default 100)
	samples in m/s², one every DURATION (default 500ms).

OPTIONS` + options.Man

type Command struct {
	Open bus.OpenFunc
	Dial func(addr, hash string) (publish.Publisher, error)
}

func (c Command) Main(ctx context.Context, args ...string) error {
	if goes.Preemption(ctx) == "help" {
		goes.Usage(ctx, Usage, "\n", Man)
		return nil
	}
	parm, args := parms.New(args, options.Parms...)
	if len(args) > 0 {
		return goes.ErrorfWith(ctx, "%v: unexpected", args)
	}
	opt := options.Sensor{
		Addr:     adxl345.DefaultAddress,
		Count:    100,
		Interval: 500 * time.Millisecond,
	}
	if err := opt.Parse(parm); err != nil {
		return goes.ErrorfWith(ctx, "%w", err)
	}

	dial := c.Dial
	if dial == nil {
		dial = publish.Dial
	}
	pub, err := dial(opt.Redis, publish.DefaultHash)
	if err != nil {
		return goes.ErrorfWith(ctx, "%w", err)
	}
	defer pub.Close()

	b, err := c.Open.Open(ctx, opt.Bus, opt.Wait)
	if err != nil {
		return goes.ErrorfWith(ctx, "%w", err)
	}
	defer b.Close()

	d, err := adxl345.New(i2creg.Dev{Bus: b, Addr: opt.Addr})
	if err != nil {
		return goes.ErrorfWith(ctx, "%w", err)
	}
	factor, err := setup(d)
	if err != nil {
		return goes.ErrorfWith(ctx, "%v: %w", d, err)
	}

	o := goes.OutputOf(ctx)
	prefix := fmt.Sprint("adxl345.", d)
	for i := 0; opt.Count == 0 || i < opt.Count; i++ {
		if i > 0 {
			select {
			case <-ctx.Done():
				return nil
			case <-time.After(opt.Interval):
			}
		}
		raw, err := d.Read()
		if err != nil {
			return goes.ErrorfWith(ctx, "%v: %w", d, err)
		}
		a := raw.Scaled(factor)
		o.Println(a)
		for _, x := range []struct {
			axis string
			v    float64
		}{
			{"x", a.X},
			{"y", a.Y},
			{"z", a.Z},
		} {
			if err = pub.Publish(prefix+"."+x.axis, x.v); err != nil {
				log.Print("daemon", "warn", prefix, ": ", err)
			}
		}
	}
	return nil
}

func setup(d *adxl345.Device) (float64, error) {
	if err := d.Enable(); err != nil {
		return 0, err
	}
	if err := d.SetRange(adxl345.Range2G); err != nil {
		return 0, err
	}
	if err := d.SetDataRate(adxl345.Rate100Hz); err != nil {
		return 0, err
	}
	r, err := d.Range()
	if err != nil {
		return 0, err
	}
	rate, err := d.DataRate()
	if err != nil {
		return 0, err
	}
	full, err := d.FullResolution()
	if err != nil {
		return 0, err
	}
	factor := adxl345.ScalingFactor(r, full)
	log.Print("daemon", "info", fmt.Sprintf("adxl345 %v: range %d, "+
		"data rate %#x, scaling factor %f", d, r, rate, factor))
	return factor, nil
}
