// Copyright © 2022-2026 Platina Systems, Inc. All rights reserved.
// Use of this source code is governed by the GPL-2 license described in the
// LICENSE file.

// Package fakebus records I2C transfers and simulates devices with 8-bit
// register addresses whose pointer auto-increments.
package fakebus

import (
	"sync"

	"github.com/platinasystems/i2c"
)

type Bus struct {
	sync.Mutex

	// Err, if not nil, is returned by every Send; Errs overrides it by
	// the zero based Send count. A failed Send leaves registers as is, and
	// so does one with a nil Errs entry, i.e. a lost transfer.
	Err  error
	Errs map[int]error

	Sent   [][]i2c.Message
	Closed bool

	regs map[uint16]*[256]byte
	ptr  map[uint16]uint8
}

func New() *Bus {
	return &Bus{
		regs: make(map[uint16]*[256]byte),
		ptr:  make(map[uint16]uint8),
	}
}

// Set registers of the device at addr starting with reg.
func (b *Bus) Set(addr uint16, reg uint8, vals ...byte) {
	b.Lock()
	defer b.Unlock()
	r := b.file(addr)
	for _, v := range vals {
		r[reg] = v
		reg++
	}
}

// Reg returns the current value of a device register.
func (b *Bus) Reg(addr uint16, reg uint8) byte {
	b.Lock()
	defer b.Unlock()
	return b.file(addr)[reg]
}

func (b *Bus) Send(messages []i2c.Message) error {
	b.Lock()
	defer b.Unlock()
	n := len(b.Sent)
	b.Sent = append(b.Sent, messages)
	if err, found := b.Errs[n]; found {
		return err
	}
	if b.Err != nil {
		return b.Err
	}
	for _, m := range messages {
		r := b.file(m.Address)
		if m.Flags&i2c.ReadData != 0 {
			for i := range m.Data {
				m.Data[i] = r[b.ptr[m.Address]]
				b.ptr[m.Address]++
			}
			continue
		}
		if len(m.Data) == 0 {
			continue
		}
		b.ptr[m.Address] = m.Data[0]
		for _, v := range m.Data[1:] {
			r[b.ptr[m.Address]] = v
			b.ptr[m.Address]++
		}
	}
	return nil
}

func (b *Bus) Close() error {
	b.Lock()
	defer b.Unlock()
	b.Closed = true
	return nil
}

// Reset forgets the recorded transfers.
func (b *Bus) Reset() {
	b.Lock()
	defer b.Unlock()
	b.Sent = nil
}

func (b *Bus) file(addr uint16) *[256]byte {
	r, found := b.regs[addr]
	if !found {
		r = new([256]byte)
		b.regs[addr] = r
	}
	return r
}
