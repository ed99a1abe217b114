// Copyright 2026 The go-lpc Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package i2ceep programs backpack EEPROM images into 24Cxx-like I2C
// EEPROMs with 8-bit word addresses.
package i2ceep // import "github.com/go-lpc/bkpk/internal/i2ceep"

import (
	"context"
	"fmt"
	"time"

	"github.com/go-lpc/bkpk/internal/crc"
)

const (
	// DefaultAddr is the 7-bit I2C address of the backpack EEPROM.
	DefaultAddr = 0x50

	// WriteCycle is the time needed by the EEPROM to commit a byte.
	WriteCycle = 5 * time.Millisecond

	hdrSize = 13 // header size, without the name
)

// Bus is an SMBus connection.
type Bus interface {
	ReadReg(addr, reg uint8) (uint8, error)
	WriteReg(addr, reg, v uint8) error
}

// Device is an I2C EEPROM.
type Device struct {
	bus  Bus
	addr uint8

	cycle time.Duration
	sleep func(time.Duration)
}

// New returns the EEPROM at addr on the given bus.
func New(bus Bus, addr uint8) *Device {
	return &Device{
		bus:   bus,
		addr:  addr,
		cycle: WriteCycle,
		sleep: time.Sleep,
	}
}

// Check verifies the integrity of an encoded image: used size,
// unique id CRC-8 and trailing CRC-16.
func Check(img []byte) error {
	n := len(img)
	if n < hdrSize+crc.Size {
		return fmt.Errorf("i2ceep: image too short (%d bytes)", n)
	}
	if n > 0xff {
		return fmt.Errorf("i2ceep: image too long (%d bytes)", n)
	}
	if got, want := int(img[2]), n; got != want {
		return fmt.Errorf("i2ceep: inconsistent used size (got=%d, want=%d)", got, want)
	}
	if got, want := img[10], crc.UniqueID(img[3:10]); got != want {
		return fmt.Errorf("i2ceep: inconsistent unique id CRC (got=0x%02x, want=0x%02x)", got, want)
	}
	var (
		got  = uint16(img[n-2])<<8 | uint16(img[n-1])
		want = crc.Image(img[:n-2])
	)
	if got != want {
		return fmt.Errorf("i2ceep: inconsistent CRC-16 (got=0x%04x, want=0x%04x)", got, want)
	}
	if int(img[1]) < n {
		return fmt.Errorf("i2ceep: image does not fit in EEPROM (%d > %d)", n, img[1])
	}
	return nil
}

// Write programs img at the start of the EEPROM and reads it back.
func (dev *Device) Write(ctx context.Context, img []byte) error {
	err := Check(img)
	if err != nil {
		return err
	}

	for i, v := range img {
		if err := ctx.Err(); err != nil {
			return fmt.Errorf("i2ceep: write interrupted at byte %d: %w", i, err)
		}
		err = dev.bus.WriteReg(dev.addr, uint8(i), v)
		if err != nil {
			return fmt.Errorf("i2ceep: could not write byte %d: %w", i, err)
		}
		dev.sleep(dev.cycle)
	}

	got, err := dev.Read(ctx, len(img))
	if err != nil {
		return fmt.Errorf("i2ceep: could not read back image: %w", err)
	}
	for i := range img {
		if got[i] != img[i] {
			return fmt.Errorf(
				"i2ceep: verify failed at byte %d (got=0x%02x, want=0x%02x)",
				i, got[i], img[i],
			)
		}
	}
	return nil
}

// Read reads the first n bytes of the EEPROM.
func (dev *Device) Read(ctx context.Context, n int) ([]byte, error) {
	if n < 0 || n > 0x100 {
		return nil, fmt.Errorf("i2ceep: invalid read size %d", n)
	}
	out := make([]byte, n)
	for i := range out {
		if err := ctx.Err(); err != nil {
			return nil, fmt.Errorf("i2ceep: read interrupted at byte %d: %w", i, err)
		}
		v, err := dev.bus.ReadReg(dev.addr, uint8(i))
		if err != nil {
			return nil, fmt.Errorf("i2ceep: could not read byte %d: %w", i, err)
		}
		out[i] = v
	}
	return out, nil
}
