// Copyright 2026 The go-lpc Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package schema

import (
	"errors"
	"math"
	"sort"

	"github.com/go-lpc/bkpk/eeprom"
)

// descriptorType describes how a descriptor is written in a document.
type descriptorType struct {
	tag   eeprom.Tag
	keys  keys // fields besides "type"
	parse func(p *parser, m map[string]interface{}, path string) eeprom.Descriptor
}

var registry = map[string]descriptorType{
	eeprom.TagSpiSlave.String(): {
		tag:   eeprom.TagSpiSlave,
		keys:  keys{"ss_pin": true, "speed": false, "name": false},
		parse: parseSpiSlave,
	},
	eeprom.TagUart.String(): {
		tag:   eeprom.TagUart,
		keys:  keys{"rx_pin": true, "tx_pin": true, "speed": false, "name": false},
		parse: parseUart,
	},
	eeprom.TagIOPin.String(): {
		tag:   eeprom.TagIOPin,
		keys:  keys{"pin": true, "name": true},
		parse: parseIOPin,
	},
	eeprom.TagPowerUsage.String(): {
		tag:   eeprom.TagPowerUsage,
		keys:  keys{"pin": true, "minimum": true, "typical": true, "maximum": true},
		parse: parsePowerUsage,
	},
	eeprom.TagEmpty.String(): {
		tag:   eeprom.TagEmpty,
		keys:  keys{"length": true},
		parse: parseEmpty,
	},
}

func lookup(name string) (descriptorType, bool) {
	typ, ok := registry[name]
	return typ, ok
}

// typeNames returns the sorted names of all descriptor types.
func typeNames() []string {
	names := make([]string, 0, len(registry))
	for k := range registry {
		names = append(names, k)
	}
	sort.Strings(names)
	return names
}

func parseSpiSlave(p *parser, m map[string]interface{}, path string) eeprom.Descriptor {
	var d eeprom.SpiSlave
	d.SSPin, _ = p.pin(m, path, "ss_pin")
	d.Speed, _ = p.number(m, path, "speed")
	d.Name, _ = p.name(m, path, "name")
	return d
}

func parseUart(p *parser, m map[string]interface{}, path string) eeprom.Descriptor {
	var d eeprom.Uart
	d.RxPin, _ = p.pin(m, path, "rx_pin")
	d.TxPin, _ = p.pin(m, path, "tx_pin")
	d.Name, _ = p.name(m, path, "name")

	speed, ok := p.integer(m, path, "speed", math.MaxUint32)
	if !ok {
		return d
	}
	d.Speed = uint32(speed)
	if p.layout < 0 {
		// unknown layout version, already reported.
		return d
	}

	_, err := eeprom.UartSpeedIndex(d.Speed, uint8(p.layout))
	switch {
	case err == nil:
	case errors.Is(err, eeprom.ErrVersion):
		p.errorf(join(path, "speed"), "%w", err)
	default:
		p.errorf(join(path, "speed"), "%w (want one of %v)", err, eeprom.UartSpeeds(uint8(p.layout)))
	}
	return d
}

func parseIOPin(p *parser, m map[string]interface{}, path string) eeprom.Descriptor {
	var d eeprom.IOPin
	d.Pin, _ = p.pin(m, path, "pin")
	d.Name, _ = p.requiredName(m, path, "name")
	return d
}

func parsePowerUsage(p *parser, m map[string]interface{}, path string) eeprom.Descriptor {
	var d eeprom.PowerUsage
	d.Pin, _ = p.pin(m, path, "pin")
	d.Minimum, _ = p.number(m, path, "minimum")
	d.Typical, _ = p.number(m, path, "typical")
	d.Maximum, _ = p.number(m, path, "maximum")
	return d
}

func parseEmpty(p *parser, m map[string]interface{}, path string) eeprom.Descriptor {
	var d eeprom.Empty
	n, ok := p.integer(m, path, "length", math.MaxUint8)
	if ok && n == 0 {
		p.errorf(join(path, "length"), "%w: length must be at least 1", ErrInvalid)
	}
	d.Length = int(n)
	return d
}
