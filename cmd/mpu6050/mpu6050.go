// Copyright © 2022-2026 Platina Systems, Inc. All rights reserved.
// Use of this source code is governed by the GPL-2 license described in the
// LICENSE file.

// Package mpu6050 provides a command that tracks the orientation of an
// MPU-6050.
package mpu6050

import (
	"context"
	"fmt"
	"time"

	"github.com/platinasystems/flags"
	"github.com/platinasystems/i2creg"
	"github.com/platinasystems/i2creg/internal/bus"
	"github.com/platinasystems/i2creg/internal/goes"
	"github.com/platinasystems/i2creg/internal/options"
	"github.com/platinasystems/i2creg/internal/publish"
	"github.com/platinasystems/i2creg/mpu6050"
	"github.com/platinasystems/log"
	"github.com/platinasystems/parms"
)

const Usage = "[-no-calibrate] [-bus N] [-addr ADDR] [-n COUNT] " +
	"[-interval DURATION] [-wait DURATION] [-redis HOST:PORT]"

const Man = `
DESCRIPTION
	Configure an MPU-6050, calibrate its gyroscope, then continuously
	update its accelerometer, gyroscope and filtered angles while printing
	them COUNT (default 10) times, every DURATION (default 3s).

	Calibration begins 5 seconds after start and takes 50 readings 100ms
	apart; the sensor must not move.

OPTIONS
	-no-calibrate
		skip gyroscope calibration` + options.Man

const (
	CalibrationDelay    = 5 * time.Second
	CalibrationReadings = 50
	CalibrationInterval = 100 * time.Millisecond
	UpdateInterval      = 10 * time.Millisecond
)

type Command struct {
	Open bus.OpenFunc
	Dial func(addr, hash string) (publish.Publisher, error)
}

func (c Command) Main(ctx context.Context, args ...string) error {
	if goes.Preemption(ctx) == "help" {
		goes.Usage(ctx, Usage, "\n", Man)
		return nil
	}
	flag, args := flags.New(args, "-no-calibrate")
	parm, args := parms.New(args, options.Parms...)
	if len(args) > 0 {
		return goes.ErrorfWith(ctx, "%v: unexpected", args)
	}
	opt := options.Sensor{
		Addr:     mpu6050.DefaultAddress,
		Count:    10,
		Interval: 3 * time.Second,
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

	d, err := mpu6050.New(i2creg.Dev{Bus: b, Addr: opt.Addr})
	if err != nil {
		return goes.ErrorfWith(ctx, "%w", err)
	}
	name := fmt.Sprint("mpu6050.", d)

	if !flag.ByName["-no-calibrate"] {
		if err = calibrate(ctx, name, d); err != nil {
			if ctx.Err() != nil {
				return nil
			}
			return goes.ErrorfWith(ctx, "%v: %w", d, err)
		}
	}

	if err = d.Update(); err != nil {
		return goes.ErrorfWith(ctx, "%v: %w", d, err)
	}
	ctx, cancel := context.WithCancel(ctx)
	done := make(chan struct{})
	var runErr error
	go func() {
		defer close(done)
		runErr = d.Run(ctx, UpdateInterval)
	}()
	defer func() {
		cancel()
		<-done
	}()

	o := goes.OutputOf(ctx)
	for i := 0; opt.Count == 0 || i < opt.Count; i++ {
		select {
		case <-ctx.Done():
			return nil
		case <-done:
			if runErr != nil {
				return goes.ErrorfWith(ctx, "%v: %w", d, runErr)
			}
			return nil
		case <-time.After(opt.Interval):
		}
		s := d.State()
		o.Println("Accelerometer:")
		o.Println(s.AccelAngle.Text("°", 4))
		o.Println("Accelerations:")
		o.Println(s.Accel.Text("g", 6))
		o.Println("Gyroscope:")
		o.Println(s.GyroAngle.Text("°", 4))
		o.Println(s.AngularSpeed.Text("°/s", 4))
		o.Println("Filtered angles:")
		o.Println(s.Filtered.Text("°", 4))
		for _, x := range []struct {
			field string
			v     float64
		}{
			{"x", s.Filtered.X},
			{"y", s.Filtered.Y},
			{"z", s.Filtered.Z},
		} {
			err := pub.Publish(name+".angle."+x.field, x.v)
			if err != nil {
				log.Print("daemon", "warn", name, ": ", err)
			}
		}
	}
	return nil
}

func calibrate(ctx context.Context, name string, d *mpu6050.Device) error {
	log.Print("daemon", "info", name,
		": calibration starting in ", CalibrationDelay,
		" (don't move the sensor)")
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-time.After(CalibrationDelay):
	}
	log.Print("daemon", "info", name, ": calibration started")
	err := d.Calibrate(ctx, CalibrationReadings, CalibrationInterval)
	if err != nil {
		return err
	}
	log.Print("daemon", "info", name, ": calibration ended, offsets ",
		d.Offsets().Text("°/s", 4))
	return nil
}
