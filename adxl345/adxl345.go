// Copyright © 2022-2026 Platina Systems, Inc. All rights reserved.
// Use of this source code is governed by the GPL-2 license described in the
// LICENSE file.

// Package adxl345 drives the ADXL345 3-axis, ±2/4/8/16 g digital
// accelerometer.
package adxl345

import (
	"errors"
	"fmt"
	"math"

	"github.com/platinasystems/i2creg"
)

const DefaultAddress = 0x53

const (
	RegDevId      = 0x00
	RegBwRate     = 0x2c
	RegPowerCtl   = 0x2d
	RegDataFormat = 0x31
	RegDataX0     = 0x32

	DevId = 0xe5

	Measure = 0x08
	FullRes = 0x08

	// Data rates for SetDataRate
	Rate25Hz  = 0x08
	Rate50Hz  = 0x09
	Rate100Hz = 0x0a
	Rate200Hz = 0x0b
)

// Ranges for SetRange
const (
	Range2G uint8 = iota
	Range4G
	Range8G
	Range16G
)

const Gravity = 9.8

var ErrNotFound = errors.New("not an ADXL345")

type Device struct {
	i2creg.Dev
}

// New verifies the device id of dev.
func New(dev i2creg.Dev) (*Device, error) {
	id, err := dev.ReadReg(RegDevId)
	if err != nil {
		return nil, err
	}
	if id != DevId {
		return nil, fmt.Errorf("%v: %w (id %#02x)", dev, ErrNotFound, id)
	}
	return &Device{dev}, nil
}

// Enable starts measurement.
func (d *Device) Enable() error {
	return d.WriteReg(RegPowerCtl, Measure)
}

func (d *Device) Range() (uint8, error) {
	v, err := d.ReadReg(RegDataFormat)
	return v & 0x03, err
}

// SetRange also sets full resolution.
func (d *Device) SetRange(r uint8) error {
	v, err := d.ReadReg(RegDataFormat)
	if err != nil {
		return err
	}
	return d.WriteReg(RegDataFormat, v&^0x0f|r|FullRes)
}

func (d *Device) FullResolution() (bool, error) {
	v, err := d.ReadReg(RegDataFormat)
	return v&FullRes == FullRes, err
}

func (d *Device) DataRate() (uint8, error) {
	v, err := d.ReadReg(RegBwRate)
	return v & 0x0f, err
}

func (d *Device) SetDataRate(r uint8) error {
	return d.WriteReg(RegBwRate, r&0x0f)
}

// Raw 10-bit axis samples.
type Raw struct {
	X, Y, Z int
}

// Accel in m/s².
type Accel struct {
	X, Y, Z float64
}

func (a Accel) String() string {
	return fmt.Sprintf("x: %+5.2f, y: %+5.2f, z: %+5.2f", a.X, a.Y, a.Z)
}

// Read all six data registers in one transfer.
func (d *Device) Read() (Raw, error) {
	var buf [6]byte
	if err := d.ReadRegs(RegDataX0, buf[:]); err != nil {
		return Raw{}, err
	}
	return Raw{
		X: sample(buf[0], buf[1]),
		Y: sample(buf[2], buf[3]),
		Z: sample(buf[4], buf[5]),
	}, nil
}

func sample(lo, hi byte) int {
	v := int(hi&0x03)<<8 | int(lo)
	if v > 511 {
		v -= 1024
	}
	return v
}

// ScalingFactor returns g per LSB for the given range and resolution.
func ScalingFactor(r uint8, fullRes bool) float64 {
	bits := 10
	if fullRes {
		bits += int(r)
	}
	return 4 * math.Pow(2, float64(r)) / math.Pow(2, float64(bits))
}

func (r Raw) Scaled(factor float64) Accel {
	return Accel{
		X: float64(r.X) * factor * Gravity,
		Y: float64(r.Y) * factor * Gravity,
		Z: float64(r.Z) * factor * Gravity,
	}
}
