// Copyright © 2022-2026 Platina Systems, Inc. All rights reserved.
// Use of this source code is governed by the GPL-2 license described in the
// LICENSE file.

// Package options parses the parameters common to the sensor commands.
package options

import (
	"fmt"
	"strconv"
	"time"

	"github.com/platinasystems/parms"
)

// Parms of the sensor commands.
var Parms = []interface{}{
	"-bus",
	"-addr",
	"-n",
	"-interval",
	"-wait",
	"-redis",
}

const Man = `
	-bus N	i2c bus index, /dev/i2c-N (default 0)
	-addr ADDR
		device address, e.g. 0x53
	-n COUNT
		number of samples, 0 is until interrupted
	-interval DURATION
		time between samples, e.g. 500ms
	-wait DURATION
		wait for the bus device to appear
	-redis HOST:PORT
		also set each sample in the "i2creg" hash of this server
`

type Sensor struct {
	Bus      int
	Addr     uint16
	Count    int
	Interval time.Duration
	Wait     time.Duration
	Redis    string
}

// Parse the given parameters; those that are empty keep their value.
func (opt *Sensor) Parse(parm *parms.Parms) error {
	var err error
	if s := parm.ByName["-bus"]; len(s) > 0 {
		if opt.Bus, err = strconv.Atoi(s); err != nil || opt.Bus < 0 {
			return fmt.Errorf("-bus %s: invalid", s)
		}
	}
	if s := parm.ByName["-addr"]; len(s) > 0 {
		u, err := strconv.ParseUint(s, 0, 10)
		if err != nil {
			return fmt.Errorf("-addr %s: invalid", s)
		}
		opt.Addr = uint16(u)
	}
	if s := parm.ByName["-n"]; len(s) > 0 {
		if opt.Count, err = strconv.Atoi(s); err != nil || opt.Count < 0 {
			return fmt.Errorf("-n %s: invalid", s)
		}
	}
	for _, x := range []struct {
		name string
		p    *time.Duration
	}{
		{"-interval", &opt.Interval},
		{"-wait", &opt.Wait},
	} {
		if s := parm.ByName[x.name]; len(s) > 0 {
			d, err := time.ParseDuration(s)
			if err != nil || d < 0 {
				return fmt.Errorf("%s %s: invalid", x.name, s)
			}
			*x.p = d
		}
	}
	if s := parm.ByName["-redis"]; len(s) > 0 {
		opt.Redis = s
	}
	return nil
}
