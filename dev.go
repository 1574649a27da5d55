// Copyright © 2022-2026 Platina Systems, Inc. All rights reserved.
// Use of this source code is governed by the GPL-2 license described in the
// LICENSE file.

package i2creg

import (
	"errors"
	"fmt"
)

var ErrVerify = errors.New("register verify failed")

// Dev is a slave device on a bus with 8-bit registers.
type Dev struct {
	Bus  Sender
	Addr uint16
}

func (d Dev) String() string { return fmt.Sprintf("%#02x", d.Addr) }

func (d Dev) ReadReg(reg uint8) (byte, error) {
	var buf [1]byte
	err := Read8(d.Bus, d.Addr, uint16(reg), buf[:], 1)
	return buf[0], err
}

// ReadRegs fills buf from consecutive registers starting at reg.
func (d Dev) ReadRegs(reg uint8, buf []byte) error {
	return Read8(d.Bus, d.Addr, uint16(reg), buf, len(buf))
}

func (d Dev) WriteReg(reg, v uint8) error {
	return Write8(d.Bus, d.Addr, uint16(reg), uint16(v))
}

// ReadWord reads the signed, big endian word at reg (high) and reg+1
// (low) with two separate register reads.
func (d Dev) ReadWord(reg uint8) (int16, error) {
	hi, err := d.ReadReg(reg)
	if err != nil {
		return 0, err
	}
	lo, err := d.ReadReg(reg + 1)
	if err != nil {
		return 0, err
	}
	return int16(uint16(hi)<<8 | uint16(lo)), nil
}

// UpdateReg writes v to reg then reads it back.
func (d Dev) UpdateReg(reg, v uint8) error {
	if err := d.WriteReg(reg, v); err != nil {
		return err
	}
	got, err := d.ReadReg(reg)
	if err != nil {
		return err
	}
	if got != v {
		return fmt.Errorf("%v.%02x: %w: wrote %02x, read %02x",
			d, reg, ErrVerify, v, got)
	}
	return nil
}
