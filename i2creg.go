// Copyright © 2022-2026 Platina Systems, Inc. All rights reserved.
// Use of this source code is governed by the GPL-2 license described in the
// LICENSE file.

// Package i2creg composes I2C register reads and writes into combined
// transfers of the github.com/platinasystems/i2c messages.
//
// Each function builds its messages fresh, calls Send exactly once and
// returns Send's error as is; there are no retries, no validation and no
// logging here. Callers serialize access to a shared bus.
package i2creg

import "github.com/platinasystems/i2c"

// Sender is an open bus able to run a combined (one STOP) transfer.
// *i2c.Bus is a Sender.
type Sender interface {
	Send(messages []i2c.Message) error
}

// Read8 selects the 8-bit register then reads n bytes into buf[:n].
func Read8(bus Sender, addr, reg uint16, buf []byte, n int) error {
	return bus.Send([]i2c.Message{
		{Address: addr, Data: []byte{byte(reg)}},
		{Address: addr, Flags: i2c.ReadData, Data: buf[:n]},
	})
}

// Read16 is Read8 with a 16-bit register address sent high byte first.
func Read16(bus Sender, addr, reg uint16, buf []byte, n int) error {
	return bus.Send([]i2c.Message{
		{Address: addr, Data: []byte{byte(reg >> 8), byte(reg)}},
		{Address: addr, Flags: i2c.ReadData, Data: buf[:n]},
	})
}

// Write8 writes the low byte of value to the 8-bit register.
func Write8(bus Sender, addr, reg, value uint16) error {
	return bus.Send([]i2c.Message{
		{Address: addr, Data: []byte{byte(reg), byte(value)}},
	})
}

// Write16 writes value, low byte first, to the 8-bit register.
func Write16(bus Sender, addr, reg, value uint16) error {
	return bus.Send([]i2c.Message{
		{Address: addr, Data: []byte{byte(reg), byte(value), byte(value >> 8)}},
	})
}
