// Copyright 2026 The go-lpc Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package pins holds the tables mapping symbolic pin names of a
// scout board revision to the pin indices stored in EEPROM descriptors.
package pins // import "github.com/go-lpc/bkpk/pins"

import (
	"fmt"
	"sort"
)

// MaxPin is the largest pin index a descriptor can reference.
const MaxPin = 1<<6 - 1

// Pin is a pin index, as stored in the 6-bit pin fields of descriptors.
type Pin uint8

// Map is a named, read-only table of pin names to pin indices.
type Map struct {
	name string
	pins map[string]Pin
}

func newMap(name string, pins map[string]Pin) *Map {
	for k, v := range pins {
		if v > MaxPin {
			panic(fmt.Errorf("pins: %s: pin %q index %d overflows %d", name, k, v, MaxPin))
		}
	}
	return &Map{name: name, pins: pins}
}

// Name returns the name of the pin map.
func (m *Map) Name() string { return m.name }

// Pin returns the index of the named pin.
func (m *Map) Pin(name string) (Pin, bool) {
	v, ok := m.pins[name]
	return v, ok
}

// Names returns the sorted list of pin names.
func (m *Map) Names() []string {
	names := make([]string, 0, len(m.pins))
	for k := range m.pins {
		names = append(names, k)
	}
	sort.Strings(names)
	return names
}

var registry = map[string]*Map{
	ScoutV1.name: ScoutV1,
}

// Lookup returns the pin map registered under name.
func Lookup(name string) (*Map, bool) {
	m, ok := registry[name]
	return m, ok
}

// Names returns the sorted names of all registered pin maps.
func Names() []string {
	names := make([]string, 0, len(registry))
	for k := range registry {
		names = append(names, k)
	}
	sort.Strings(names)
	return names
}

// ScoutV1 holds the pin assignments of a v1.0 scout.
var ScoutV1 = newMap("ScoutV1", map[string]Pin{
	"NC":   0,
	"VUSB": 1,
	"BKPK": 2,
	"RST":  3,
	"SCK":  4,
	"MISO": 5,
	"MOSI": 6,
	"SS":   7,
	"RX0":  8,
	"TX0":  9,
	"D2":   10,
	"D3":   11,
	"D4":   12,
	"D5":   13,
	"D6":   14,
	"D7":   15,
	"D8":   16,
	"3V3":  17,
	"GND":  18,
	"VBAT": 19,
	"RX1":  20,
	"TX1":  21,
	"SCL":  22,
	"SDA":  23,
	"REF":  24,
	"A0":   25,
	"A1":   26,
	"A2":   27,
	"A3":   28,
	"A4":   29,
	"A5":   30,
	"A6":   31,
	"A7":   32,
})
