// Copyright © 2022-2026 Platina Systems, Inc. All rights reserved.
// Use of this source code is governed by the GPL-2 license described in the
// LICENSE file.

// Package mpu6050 drives the MPU-6050 six axis (gyro and accelerometer)
// motion tracking device and fuses its readings with a complementary
// filter.
package mpu6050

import (
	"context"
	"errors"
	"fmt"
	"math"
	"sync"
	"time"

	"github.com/platinasystems/i2creg"
)

const DefaultAddress = 0x68

const (
	RegSmplrtDiv   = 0x19
	RegConfig      = 0x1a
	RegGyroConfig  = 0x1b
	RegAccelConfig = 0x1c
	RegIntEnable   = 0x38
	RegAccelXoutH  = 0x3b
	RegGyroXoutH   = 0x43
	RegPwrMgmt1    = 0x6b
	RegPwrMgmt2    = 0x6c
)

const (
	DefaultDLPF      = 0x06
	DefaultSmplrtDiv = 0x00

	// LSB sensitivity at FS_SEL 0 (±250 °/s) and AFS_SEL 0 (±2 g)
	GyroLSB  = 131.0
	AccelLSB = 16384.0

	Alpha = 0.96

	radToDeg = 180 / math.Pi
)

var ErrRange = errors.New("out of range")

// Vec is a reading or angle per axis.
type Vec struct {
	X, Y, Z float64
}

func (v Vec) Sub(u Vec) Vec { return Vec{v.X - u.X, v.Y - u.Y, v.Z - u.Z} }

func (v Vec) Scale(f float64) Vec { return Vec{v.X * f, v.Y * f, v.Z * f} }

func (v Vec) Text(unit string, prec int) string {
	return fmt.Sprintf("x: %.*f%s\ty: %.*f%s\tz: %.*f%s",
		prec, v.X, unit, prec, v.Y, unit, prec, v.Z, unit)
}

// State is a snapshot of the most recent update. Angles are in degrees,
// accelerations in g and angular speeds in °/s.
type State struct {
	Valid        bool
	Accel        Vec
	AccelAngle   Vec
	AngularSpeed Vec
	GyroAngle    Vec
	Filtered     Vec
}

type Device struct {
	i2creg.Dev

	dlpf, div uint8
	offset    Vec

	now func() time.Time

	mu    sync.Mutex
	last  time.Time
	state State
}

// New wakes the device and configures it for ±250 °/s, ±2 g, DLPF 6 and
// the full gyroscope sample rate with interrupts and standby disabled.
// Every register write is read back.
func New(dev i2creg.Dev) (*Device, error) {
	d := &Device{
		Dev: dev,
		div: DefaultSmplrtDiv,
		now: time.Now,
	}
	for _, x := range []struct{ reg, v uint8 }{
		{RegPwrMgmt1, 0x00},
		{RegSmplrtDiv, d.div},
	} {
		if err := d.UpdateReg(x.reg, x.v); err != nil {
			return nil, err
		}
	}
	if err := d.SetDLPF(DefaultDLPF); err != nil {
		return nil, err
	}
	for _, x := range []struct{ reg, v uint8 }{
		{RegGyroConfig, 0 << 3},
		{RegAccelConfig, 0},
		{RegIntEnable, 0x00},
		{RegPwrMgmt2, 0x00},
	} {
		if err := d.UpdateReg(x.reg, x.v); err != nil {
			return nil, err
		}
	}
	return d, nil
}

// SetDLPF configures the digital low pass filter, 0 through 7.
func (d *Device) SetDLPF(cfg uint8) error {
	if cfg > 7 {
		return fmt.Errorf("dlpf %d: %w", cfg, ErrRange)
	}
	if err := d.UpdateReg(RegConfig, cfg); err != nil {
		return err
	}
	d.dlpf = cfg
	return nil
}

// SampleRate in Hz; the gyroscope outputs 8kHz with the DLPF disabled and
// 1kHz otherwise.
func (d *Device) SampleRate() int {
	rate := 1000
	if d.dlpf == 0 || d.dlpf == 7 {
		rate = 8000
	}
	return rate / (1 + int(d.div))
}

func (d *Device) read3(reg uint8) (Vec, error) {
	var w [3]int16
	for i := range w {
		v, err := d.ReadWord(reg + uint8(2*i))
		if err != nil {
			return Vec{}, err
		}
		w[i] = v
	}
	return Vec{float64(w[0]), float64(w[1]), float64(w[2])}, nil
}

// Accel returns acceleration in g with z pointing up.
func (d *Device) Accel() (Vec, error) {
	v, err := d.read3(RegAccelXoutH)
	if err != nil {
		return v, err
	}
	v = v.Scale(1 / AccelLSB)
	v.Z = -v.Z
	return v, nil
}

// Gyro returns the uncorrected angular speeds in °/s.
func (d *Device) Gyro() (Vec, error) {
	v, err := d.read3(RegGyroXoutH)
	if err != nil {
		return v, err
	}
	return v.Scale(1 / GyroLSB), nil
}

// Calibrate averages n gyroscope readings, taken interval apart, as the
// offsets subtracted by Update. The device must be still.
func (d *Device) Calibrate(ctx context.Context, n int, interval time.Duration) error {
	var sum Vec
	for i := 0; i < n; i++ {
		if i > 0 {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(interval):
			}
		}
		v, err := d.Gyro()
		if err != nil {
			return err
		}
		sum = Vec{sum.X + v.X, sum.Y + v.Y, sum.Z + v.Z}
	}
	if n > 0 {
		d.offset = sum.Scale(1 / float64(n))
	}
	return nil
}

// Offsets returns the gyroscope calibration.
func (d *Device) Offsets() Vec { return d.offset }

// Update reads both sensors and advances the integrated and filtered
// angles by the time since the previous update.
func (d *Device) Update() error {
	accel, err := d.Accel()
	if err != nil {
		return err
	}
	gyro, err := d.Gyro()
	if err != nil {
		return err
	}
	now := d.now()

	d.mu.Lock()
	defer d.mu.Unlock()
	var dt float64
	if !d.last.IsZero() {
		dt = math.Abs(now.Sub(d.last).Seconds())
	}
	d.last = now

	s := &d.state
	s.Valid = true
	s.Accel = accel
	s.AccelAngle = Vec{
		X: accelXAngle(accel.X, accel.Y, accel.Z),
		Y: accelYAngle(accel.X, accel.Y, accel.Z),
	}
	s.AngularSpeed = gyro.Sub(d.offset)
	delta := s.AngularSpeed.Scale(dt)
	s.GyroAngle = Vec{
		s.GyroAngle.X + delta.X,
		s.GyroAngle.Y + delta.Y,
		s.GyroAngle.Z + delta.Z,
	}
	s.Filtered = Vec{
		X: Alpha*(s.Filtered.X+delta.X) + (1-Alpha)*s.AccelAngle.X,
		Y: Alpha*(s.Filtered.Y+delta.Y) + (1-Alpha)*s.AccelAngle.Y,
		Z: s.Filtered.Z + delta.Z,
	}
	return nil
}

// Run updates every interval until ctx is done, then returns nil; it
// returns the first bus error otherwise.
func (d *Device) Run(ctx context.Context, interval time.Duration) error {
	d.mu.Lock()
	d.last = d.now()
	d.mu.Unlock()
	t := time.NewTicker(interval)
	defer t.Stop()
	for {
		if err := d.Update(); err != nil {
			return err
		}
		select {
		case <-ctx.Done():
			return nil
		case <-t.C:
		}
	}
}

// State may be called concurrently with Run.
func (d *Device) State() State {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.state
}

func accelXAngle(x, y, z float64) float64 {
	rad := math.Atan2(y, math.Hypot(x, z))
	delta := 0.0
	if y >= 0 {
		if z < 0 {
			rad, delta = -rad, 180
		}
	} else if z <= 0 {
		rad, delta = -rad, 180
	} else {
		delta = 360
	}
	return rad*radToDeg + delta
}

func accelYAngle(x, y, z float64) float64 {
	tan := -x / math.Hypot(y, z)
	delta := 0.0
	if x <= 0 {
		if z < 0 {
			tan, delta = -tan, 180
		}
	} else if z <= 0 {
		tan, delta = -tan, 180
	} else {
		delta = 360
	}
	return math.Atan(tan)*radToDeg + delta
}
