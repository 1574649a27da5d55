// Copyright © 2015-2026 Platina Systems, Inc. All rights reserved.
// Use of this source code is governed by the GPL-2 license described in the
// LICENSE file.

// Package reg provides a command to read and write i2c device registers.
package reg

import (
	"context"
	"fmt"
	"io"
	"os"
	"strconv"
	"time"

	"github.com/mattn/go-isatty"
	"github.com/platinasystems/flags"
	"github.com/platinasystems/i2creg"
	"github.com/platinasystems/i2creg/internal/bus"
	"github.com/platinasystems/i2creg/internal/goes"
	"github.com/platinasystems/parms"
)

const Usage = "[-16] [-w16] [-x] [-n COUNT] [-wait DURATION] BUS.ADDR.REG [VALUE]"

const Man = `
DESCRIPTION
	Read COUNT (default 1) bytes starting with register REG of the device
	at ADDR on /dev/i2c-BUS; or, given VALUE, write it to REG.
	BUS, ADDR, REG and VALUE are hexadecimal without a 0x prefix.

OPTIONS
	-16	REG is a 16-bit register address (reads only)
	-w16	VALUE is a 16-bit word written low byte first
	-x	print bytes read as a hex string; this is the default
		unless output is a terminal
	-wait DURATION
		wait for the bus device to appear, e.g. -wait 2s
`

// MaxCount is the kernel's limit on one I2C_RDWR message.
const MaxCount = 8192

type Command struct {
	Open bus.OpenFunc
}

func (c Command) Main(ctx context.Context, args ...string) error {
	if goes.Preemption(ctx) == "help" {
		goes.Usage(ctx, Usage, "\n", Man)
		return nil
	}

	flag, args := flags.New(args, "-16", "-w16", "-x")
	parm, args := parms.New(args, "-n", "-wait")

	if n := len(args); n == 0 {
		return goes.ErrorfWith(ctx, "BUS.ADDR.REG: missing")
	} else if n > 2 {
		return goes.ErrorfWith(ctx, "%v: unexpected", args[2:])
	}

	var (
		b       int
		a, r, v uint16
		wait    time.Duration
		err     error
	)

	_, err = fmt.Sscanf(args[0], "%x.%x.%x", &b, &a, &r)
	if err != nil {
		return goes.ErrorfWith(ctx, "%s: invalid BUS.ADDR.REG: %v",
			args[0], err)
	}
	if r > 0xff && !flag.ByName["-16"] {
		return goes.ErrorfWith(ctx, "%x: REG exceeds 8 bits", r)
	}

	write := len(args) > 1
	if write {
		if flag.ByName["-16"] {
			return goes.ErrorfWith(ctx, "-16: can't write")
		}
		if _, err = fmt.Sscanf(args[1], "%x", &v); err != nil {
			return goes.ErrorfWith(ctx, "%s: invalid VALUE: %v",
				args[1], err)
		}
		if v > 0xff && !flag.ByName["-w16"] {
			return goes.ErrorfWith(ctx, "%x: VALUE exceeds 8 bits", v)
		}
	}

	count := 1
	if s := parm.ByName["-n"]; len(s) > 0 {
		count, err = strconv.Atoi(s)
		if err != nil || count < 1 || count > MaxCount {
			return goes.ErrorfWith(ctx, "-n %s: invalid COUNT", s)
		}
	}

	if s := parm.ByName["-wait"]; len(s) > 0 {
		if wait, err = time.ParseDuration(s); err != nil {
			return goes.ErrorfWith(ctx, "-wait %s: %v", s, err)
		}
	}

	dev, err := c.Open.Open(ctx, b, wait)
	if err != nil {
		return goes.ErrorfWith(ctx, "%w", err)
	}
	defer dev.Close()

	o := goes.OutputOf(ctx)
	labeled := !flag.ByName["-x"] && isTerminal(o.Writer())

	if write {
		if flag.ByName["-w16"] {
			err = i2creg.Write16(dev, a, r, v)
		} else {
			err = i2creg.Write8(dev, a, r, v)
		}
		if err != nil {
			return goes.ErrorfWith(ctx, "%x.%02x.%02x: %w", b, a, r, err)
		}
		if labeled {
			o.Printf("%x.%02x.%02x = %02x\n", b, a, r, v)
		}
		return nil
	}

	buf := make([]byte, count)
	if flag.ByName["-16"] {
		err = i2creg.Read16(dev, a, r, buf, count)
	} else {
		err = i2creg.Read8(dev, a, r, buf, count)
	}
	if err != nil {
		return goes.ErrorfWith(ctx, "%x.%02x.%02x: %w", b, a, r, err)
	}
	if !labeled {
		o.Printf("%x\n", buf)
		return nil
	}
	for i, d := range buf {
		o.Printf("%x.%02x.%02x = %02x\n", b, a, int(r)+i, d)
	}
	return nil
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && isatty.IsTerminal(f.Fd())
}
