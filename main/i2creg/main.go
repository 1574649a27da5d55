// Copyright © 2022-2026 Platina Systems, Inc. All rights reserved.
// Use of this source code is governed by the GPL-2 license described in the
// LICENSE file.

// i2creg reads and writes i2c device registers and samples the ADXL345
// and MPU-6050 sensors.
package main

import (
	"github.com/platinasystems/i2creg/cmd/adxl345"
	"github.com/platinasystems/i2creg/cmd/mpu6050"
	"github.com/platinasystems/i2creg/cmd/reg"
	"github.com/platinasystems/i2creg/internal/goes"
)

func main() {
	goes.Selection{
		"adxl345": adxl345.Command{}.Main,
		"mpu6050": mpu6050.Command{}.Main,
		"reg":     reg.Command{}.Main,
	}.Main()
}
