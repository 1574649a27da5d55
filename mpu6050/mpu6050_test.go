// Copyright © 2022-2026 Platina Systems, Inc. All rights reserved.
// Use of this source code is governed by the GPL-2 license described in the
// LICENSE file.

package mpu6050

import (
	"context"
	"errors"
	"math"
	"syscall"
	"testing"
	"time"

	"github.com/platinasystems/i2creg"
	"github.com/platinasystems/i2creg/internal/fakebus"
)

const tolerance = 1e-9

func near(a, b float64) bool { return math.Abs(a-b) < tolerance }

func nearVec(a, b Vec) bool { return near(a.X, b.X) && near(a.Y, b.Y) && near(a.Z, b.Z) }

func newTestDevice(t *testing.T) (*Device, *fakebus.Bus) {
	t.Helper()
	bus := fakebus.New()
	bus.Set(DefaultAddress, RegPwrMgmt1, 0x40) // sleep after reset
	d, err := New(i2creg.Dev{Bus: bus, Addr: DefaultAddress})
	if err != nil {
		t.Fatal(err)
	}
	return d, bus
}

func TestNew(t *testing.T) {
	_, bus := newTestDevice(t)
	for reg, want := range map[uint8]byte{
		RegPwrMgmt1:    0x00,
		RegSmplrtDiv:   DefaultSmplrtDiv,
		RegConfig:      DefaultDLPF,
		RegGyroConfig:  0x00,
		RegAccelConfig: 0x00,
		RegIntEnable:   0x00,
		RegPwrMgmt2:    0x00,
	} {
		if v := bus.Reg(DefaultAddress, reg); v != want {
			t.Errorf("register %02x = %02x, want %02x", reg, v, want)
		}
	}
	// write and read back of seven registers
	if n := len(bus.Sent); n != 14 {
		t.Errorf("%d transfers, want 14", n)
	}
}

func TestNewError(t *testing.T) {
	bus := fakebus.New()
	bus.Err = syscall.ENXIO
	_, err := New(i2creg.Dev{Bus: bus, Addr: DefaultAddress})
	if err != syscall.ENXIO {
		t.Errorf("got %v, want %v", err, syscall.ENXIO)
	}
}

func TestSetDLPF(t *testing.T) {
	d, _ := newTestDevice(t)
	if err := d.SetDLPF(8); !errors.Is(err, ErrRange) {
		t.Errorf("got %v, want %v", err, ErrRange)
	}
	for _, x := range []struct {
		cfg  uint8
		rate int
	}{
		{0, 8000},
		{1, 1000},
		{6, 1000},
		{7, 8000},
	} {
		if err := d.SetDLPF(x.cfg); err != nil {
			t.Fatal(err)
		}
		if rate := d.SampleRate(); rate != x.rate {
			t.Errorf("dlpf %d: rate %d, want %d", x.cfg, rate, x.rate)
		}
	}
}

func TestAccelGyro(t *testing.T) {
	d, bus := newTestDevice(t)
	bus.Set(DefaultAddress, RegAccelXoutH,
		0x40, 0x00, // 1g
		0xc0, 0x00, // -1g
		0x20, 0x00) // 0.5g
	bus.Set(DefaultAddress, RegGyroXoutH,
		0x00, 0x83, // 1°/s
		0xff, 0x7d, // -1°/s
		0x01, 0x06) // 2°/s
	accel, err := d.Accel()
	if err != nil {
		t.Fatal(err)
	}
	if want := (Vec{1, -1, -0.5}); !nearVec(accel, want) {
		t.Errorf("accel %+v, want %+v", accel, want)
	}
	gyro, err := d.Gyro()
	if err != nil {
		t.Fatal(err)
	}
	if want := (Vec{1, -1, 2}); !nearVec(gyro, want) {
		t.Errorf("gyro %+v, want %+v", gyro, want)
	}
}

func TestCalibrate(t *testing.T) {
	d, bus := newTestDevice(t)
	bus.Set(DefaultAddress, RegGyroXoutH, 0x00, 0x83, 0x00, 0x00, 0xfe, 0xfa)
	if err := d.Calibrate(context.Background(), 3, 0); err != nil {
		t.Fatal(err)
	}
	if want := (Vec{1, 0, -2}); !nearVec(d.Offsets(), want) {
		t.Errorf("offsets %+v, want %+v", d.Offsets(), want)
	}
}

func TestCalibrateWaitsBetweenReadings(t *testing.T) {
	d, bus := newTestDevice(t)
	bus.Set(DefaultAddress, RegGyroXoutH, 0x00, 0x83, 0, 0, 0, 0)
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := d.Calibrate(ctx, 1, time.Hour); err != nil {
		t.Fatal(err)
	}
	if want := (Vec{1, 0, 0}); !nearVec(d.Offsets(), want) {
		t.Errorf("offsets %+v, want %+v", d.Offsets(), want)
	}
}

func TestCalibrateCanceled(t *testing.T) {
	d, _ := newTestDevice(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if err := d.Calibrate(ctx, 50, time.Hour); err != context.Canceled {
		t.Errorf("got %v, want %v", err, context.Canceled)
	}
	if d.Offsets() != (Vec{}) {
		t.Error("offsets set by canceled calibration")
	}
}

func TestUpdate(t *testing.T) {
	d, bus := newTestDevice(t)
	// level and still but for 1°/s about x
	bus.Set(DefaultAddress, RegAccelXoutH, 0, 0, 0, 0, 0xc0, 0x00)
	bus.Set(DefaultAddress, RegGyroXoutH, 0x00, 0x83, 0, 0, 0, 0)
	now := time.Unix(1000, 0)
	d.now = func() time.Time { return now }

	if s := d.State(); s.Valid {
		t.Fatal("valid before update")
	}
	if err := d.Update(); err != nil {
		t.Fatal(err)
	}
	s := d.State()
	if !s.Valid {
		t.Fatal("not valid after update")
	}
	if !nearVec(s.Accel, Vec{0, 0, 1}) {
		t.Errorf("accel %+v", s.Accel)
	}
	if !nearVec(s.AccelAngle, Vec{}) {
		t.Errorf("accel angle %+v", s.AccelAngle)
	}
	if !nearVec(s.GyroAngle, Vec{}) {
		t.Errorf("first update integrated %+v", s.GyroAngle)
	}

	now = now.Add(2 * time.Second)
	if err := d.Update(); err != nil {
		t.Fatal(err)
	}
	s = d.State()
	if !nearVec(s.AngularSpeed, Vec{1, 0, 0}) {
		t.Errorf("angular speed %+v", s.AngularSpeed)
	}
	if !nearVec(s.GyroAngle, Vec{2, 0, 0}) {
		t.Errorf("gyro angle %+v", s.GyroAngle)
	}
	if want := Alpha * 2; !near(s.Filtered.X, want) {
		t.Errorf("filtered x %v, want %v", s.Filtered.X, want)
	}
}

func TestUpdateError(t *testing.T) {
	d, bus := newTestDevice(t)
	bus.Err = syscall.EREMOTEIO
	if err := d.Update(); err != syscall.EREMOTEIO {
		t.Errorf("got %v, want %v", err, syscall.EREMOTEIO)
	}
	if d.State().Valid {
		t.Error("valid after failed update")
	}
}

func TestRun(t *testing.T) {
	d, bus := newTestDevice(t)
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error)
	go func() { done <- d.Run(ctx, time.Millisecond) }()
	for !d.State().Valid {
		time.Sleep(time.Millisecond)
	}
	cancel()
	if err := <-done; err != nil {
		t.Fatal(err)
	}

	bus.Err = syscall.EIO
	if err := d.Run(context.Background(), time.Millisecond); err != syscall.EIO {
		t.Errorf("got %v, want %v", err, syscall.EIO)
	}
}

func TestAccelAngles(t *testing.T) {
	for _, x := range []struct {
		accel  Vec
		ax, ay float64
	}{
		{Vec{0, 0, 1}, 0, 0},
		{Vec{0, 0, -1}, 180, 180},
		{Vec{0, 1, 0}, 90, 0},
		{Vec{0, -1, 1}, 315, 0},
		{Vec{-1, 0, 1}, 0, 45},
		{Vec{1, 0, 1}, 0, 315},
	} {
		v := x.accel
		if got := accelXAngle(v.X, v.Y, v.Z); !near(got, x.ax) {
			t.Errorf("x angle of %+v = %v, want %v", v, got, x.ax)
		}
		if got := accelYAngle(v.X, v.Y, v.Z); !near(got, x.ay) {
			t.Errorf("y angle of %+v = %v, want %v", v, got, x.ay)
		}
	}
}
