// Copyright 2026 The go-lpc Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package eeprom

import (
	"errors"
	"fmt"

	"github.com/go-lpc/bkpk/minifloat"
	"github.com/go-lpc/bkpk/pins"
)

// Tag is the type of a descriptor, as written on the wire.
type Tag uint8

const (
	TagSpiSlave   Tag = 0x01
	TagUart       Tag = 0x02
	TagIOPin      Tag = 0x03
	TagGroup      Tag = 0x04
	TagPowerUsage Tag = 0x05
	TagEmpty      Tag = 0xff
)

func (t Tag) String() string {
	switch t {
	case TagSpiSlave:
		return "spi_slave"
	case TagUart:
		return "uart"
	case TagIOPin:
		return "io_pin"
	case TagGroup:
		return "group"
	case TagPowerUsage:
		return "power_usage"
	case TagEmpty:
		return "empty"
	default:
		return fmt.Sprintf("Tag(0x%02x)", uint8(t))
	}
}

// Descriptor describes one pin, peripheral or electrical attribute of
// a backpack.
//
// The set of descriptors is closed: SpiSlave, Uart, IOPin, PowerUsage,
// Empty and Group.
type Descriptor interface {
	Tag() Tag

	// EffectiveName returns the name identifying the descriptor within
	// its group, falling back to the default name of its kind.
	// ok is false for kinds that never carry a name.
	EffectiveName() (name string, ok bool)

	encode(enc *Encoded, eep *EEPROM, path string) error
}

func label(d Descriptor) string {
	name, ok := d.EffectiveName()
	if !ok {
		return d.Tag().String()
	}
	return fmt.Sprintf("%s %q", d.Tag(), name)
}

func nameOr(name, def string) string {
	if name == "" {
		return def
	}
	return name
}

// SpiSlave describes an SPI slave, selected through SSPin.
type SpiSlave struct {
	Name  string   // optional
	SSPin pins.Pin // slave-select pin
	Speed float64  // maximum bus speed in MHz, 0 if unknown
}

func (SpiSlave) Tag() Tag                        { return TagSpiSlave }
func (d SpiSlave) EffectiveName() (string, bool) { return nameOr(d.Name, "spi"), true }

func (d SpiSlave) encode(enc *Encoded, eep *EEPROM, path string) error {
	enc.buf.WriteU8(uint8(TagSpiSlave))
	enc.buf.WriteBool(d.Name != "")
	enc.buf.Pad(1) // reserved
	enc.buf.WriteBits(uint64(d.SSPin), 6)
	if d.SSPin > pins.MaxPin {
		enc.errorf(path+".ss_pin", "%w: pin %d does not fit in 6 bits", ErrRange, d.SSPin)
	}
	enc.writeMinifloat(minifloat.Speed, d.Speed, path+".speed")
	enc.writeName(d.Name, path+".name")
	return nil
}

// Uart describes a serial port.
type Uart struct {
	Name  string   // optional
	RxPin pins.Pin // pin the backpack receives on
	TxPin pins.Pin // pin the backpack transmits on
	Speed uint32   // baud rate, 0 if unspecified
}

type uartSpeed struct {
	baud    uint32
	version uint8 // minimal layout version
}

// uartSpeeds lists the supported UART speeds.
// The index in the list is the encoded value.
var uartSpeeds = []uartSpeed{
	{0, 1}, // unspecified
	{300, 1},
	{600, 1},
	{1200, 1},
	{2400, 1},
	{4800, 1},
	{9600, 1},
	{19200, 1},
	{38400, 1},
	{57600, 1},
	{115200, 1},
}

// UartSpeeds returns the list of supported UART speeds for the given
// layout version.
func UartSpeeds(layout uint8) []uint32 {
	var out []uint32
	for _, s := range uartSpeeds {
		if s.baud != 0 && s.version <= layout {
			out = append(out, s.baud)
		}
	}
	return out
}

// UartSpeedIndex returns the encoded value of a UART speed.
// It returns ErrUnsupported if the speed is not listed at all, and
// ErrVersion (together with the index) if the speed requires a newer
// layout version.
func UartSpeedIndex(baud uint32, layout uint8) (int, error) {
	for i, s := range uartSpeeds {
		if s.baud != baud {
			continue
		}
		if layout < s.version {
			return i, fmt.Errorf(
				"%w: UART speed of %d requires layout version %d",
				ErrVersion, baud, s.version,
			)
		}
		return i, nil
	}
	return 0, fmt.Errorf("%w: UART speed %d", ErrUnsupported, baud)
}

func (Uart) Tag() Tag                        { return TagUart }
func (d Uart) EffectiveName() (string, bool) { return nameOr(d.Name, "uart"), true }

func (d Uart) encode(enc *Encoded, eep *EEPROM, path string) error {
	idx, err := UartSpeedIndex(d.Speed, eep.Header.LayoutVersion)
	switch {
	case err == nil:
	case errors.Is(err, ErrVersion):
		enc.errorf(path+".speed", "%w", err)
	default:
		return fmt.Errorf("eeprom: %s.speed: %w", path, err)
	}

	enc.buf.WriteU8(uint8(TagUart))
	enc.writePin(d.TxPin, path+".tx_pin")
	enc.writePin(d.RxPin, path+".rx_pin")
	enc.buf.WriteBool(d.Name != "")
	enc.buf.Pad(3) // reserved
	enc.buf.WriteBits(uint64(idx), 4)
	enc.writeName(d.Name, path+".name")
	return nil
}

// IOPin describes a general purpose I/O pin.
type IOPin struct {
	Name string // mandatory
	Pin  pins.Pin
}

func (IOPin) Tag() Tag                        { return TagIOPin }
func (d IOPin) EffectiveName() (string, bool) { return d.Name, true }

func (d IOPin) encode(enc *Encoded, eep *EEPROM, path string) error {
	enc.buf.WriteU8(uint8(TagIOPin))
	enc.writePin(d.Pin, path+".pin")
	enc.writeName(d.Name, path+".name")
	return nil
}

// PowerUsage describes the current drawn by a backpack on a power pin.
// Currents are in µA.
type PowerUsage struct {
	Pin     pins.Pin
	Minimum float64
	Typical float64
	Maximum float64
}

func (PowerUsage) Tag() Tag                      { return TagPowerUsage }
func (PowerUsage) EffectiveName() (string, bool) { return "", false }

func (d PowerUsage) encode(enc *Encoded, eep *EEPROM, path string) error {
	enc.buf.WriteU8(uint8(TagPowerUsage))
	enc.writePin(d.Pin, path+".pin")
	enc.writeMinifloat(minifloat.Current, d.Minimum, path+".minimum")
	enc.writeMinifloat(minifloat.Current, d.Typical, path+".typical")
	enc.writeMinifloat(minifloat.Current, d.Maximum, path+".maximum")
	return nil
}

// Empty pads the EEPROM with Length bytes of unused space.
type Empty struct {
	Length int
}

func (Empty) Tag() Tag                      { return TagEmpty }
func (Empty) EffectiveName() (string, bool) { return "", false }

func (d Empty) encode(enc *Encoded, eep *EEPROM, path string) error {
	for i := 0; i < d.Length; i++ {
		enc.buf.WriteU8(uint8(TagEmpty))
	}
	return nil
}

// Group is a named, ordered list of descriptors.
type Group struct {
	Name        string // mandatory
	Descriptors []Descriptor
}

func (Group) Tag() Tag                        { return TagGroup }
func (g Group) EffectiveName() (string, bool) { return g.Name, true }

func (g Group) encode(enc *Encoded, eep *EEPROM, path string) error {
	enc.label(label(g))
	enc.buf.WriteU8(uint8(TagGroup))
	enc.writeName(g.Name, path+".name")
	for i, d := range g.Descriptors {
		enc.label(label(d))
		err := d.encode(enc, eep, fmt.Sprintf("%s.descriptors[%d]", path, i))
		if err != nil {
			return err
		}
	}
	return nil
}

var (
	_ Descriptor = SpiSlave{}
	_ Descriptor = Uart{}
	_ Descriptor = IOPin{}
	_ Descriptor = PowerUsage{}
	_ Descriptor = Empty{}
	_ Descriptor = Group{}
)
