// Copyright 2026 The go-lpc Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

//go:build linux

package i2ceep

import (
	"fmt"

	"github.com/go-daq/smbus"
)

// Open opens the EEPROM at addr on the given I2C bus number.
// The returned func closes the underlying SMBus connection.
func Open(bus int, addr uint8) (*Device, func() error, error) {
	conn, err := smbus.Open(bus, addr)
	if err != nil {
		return nil, nil, fmt.Errorf("i2ceep: could not open SMBus %d at 0x%02x: %w", bus, addr, err)
	}
	return New(conn, addr), conn.Close, nil
}

var _ Bus = (*smbus.Conn)(nil)
