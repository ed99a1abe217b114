// Copyright 2026 The go-lpc Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package schema validates backpack EEPROM description documents and
// turns them into eeprom.EEPROM values.
//
// A document is a mapping:
//
//	pin_names: ScoutV1
//	header:
//	  layout_version: 1
//	  eeprom_size: 64
//	  bus_protocol_version: 1
//	  model: 0xabcd
//	  hardware_revision: 3
//	  serial: 1
//	  firmware_version: 1
//	  name: wifi
//	groups:
//	  - name: wifi
//	    descriptors:
//	      - type: spi_slave
//	        ss_pin: D7
//	      - type: io_pin
//	        pin: D6
//	        name: pgm
//
// Validation does not stop at the first problem: all the errors of a
// document are reported at once, as an Errors value.
package schema // import "github.com/go-lpc/bkpk/schema"

import (
	"fmt"
	"io"
	"math"
	"sort"

	"github.com/go-lpc/bkpk/eeprom"
	"github.com/go-lpc/bkpk/pins"
	"golang.org/x/xerrors"
	"gopkg.in/yaml.v3"
)

// Load decodes a YAML document from r and parses it.
func Load(r io.Reader) (*eeprom.EEPROM, error) {
	var doc interface{}
	err := yaml.NewDecoder(r).Decode(&doc)
	if err != nil {
		if xerrors.Is(err, io.EOF) {
			return nil, xerrors.Errorf("schema: empty document")
		}
		return nil, xerrors.Errorf("schema: could not decode YAML document: %w", err)
	}
	return Parse(doc)
}

// Parse validates a decoded document and builds the EEPROM it describes.
//
// Parse fails with an Errors value listing every validation problem,
// or with a plain error if doc is not a mapping at all.
func Parse(doc interface{}) (*eeprom.EEPROM, error) {
	root, ok := asMap(doc)
	if !ok {
		return nil, xerrors.Errorf("schema: expected a mapping at top level (got=%T)", doc)
	}

	p := parser{layout: -1}
	p.keys(root, "", keys{"pin_names": true, "header": true, "groups": true})

	if v, ok := root["pin_names"]; ok {
		p.pinMap(v, "pin_names")
	}

	var eep eeprom.EEPROM
	if v, ok := root["header"]; ok {
		eep.Header = p.header(v, "header")
	}

	if v, ok := root["groups"]; ok {
		eep.Groups = p.groups(v, "groups")
	}

	if len(p.errs) != 0 {
		return nil, p.errs
	}
	return &eep, nil
}

type parser struct {
	pins   *pins.Map
	layout int // -1 if unknown
	errs   Errors
}

func (p *parser) errorf(path, format string, args ...interface{}) {
	p.errs = append(p.errs, &FieldError{Path: path, Err: fmt.Errorf(format, args...)})
}

func join(path, key string) string {
	if path == "" {
		return key
	}
	return path + "." + key
}

// keys maps the allowed keys of a mapping to whether they are required.
type keys map[string]bool

func (p *parser) keys(m map[string]interface{}, path string, allowed keys) {
	var names []string
	for k := range allowed {
		names = append(names, k)
	}
	sort.Strings(names)
	for _, k := range names {
		if _, ok := m[k]; !ok && allowed[k] {
			p.errorf(join(path, k), "%w", ErrMissing)
		}
	}

	names = names[:0]
	for k := range m {
		if _, ok := allowed[k]; !ok {
			names = append(names, k)
		}
	}
	sort.Strings(names)
	for _, k := range names {
		p.errorf(join(path, k), "%w", ErrExtra)
	}
}

func (p *parser) pinMap(v interface{}, path string) {
	name, ok := v.(string)
	if !ok {
		p.errorf(path, "%w: expected a pin map name (got=%T)", ErrInvalid, v)
		return
	}
	m, ok := pins.Lookup(name)
	if !ok {
		p.errorf(path, "%w: unknown pin map %q (want one of %q)", ErrInvalid, name, pins.Names())
		return
	}
	p.pins = m
}

func (p *parser) header(v interface{}, path string) eeprom.Header {
	var hdr eeprom.Header

	m, ok := asMap(v)
	if !ok {
		p.errorf(path, "%w: expected a mapping (got=%T)", ErrInvalid, v)
		return hdr
	}
	p.keys(m, path, keys{
		"layout_version":       true,
		"eeprom_size":          true,
		"bus_protocol_version": true,
		"model":                true,
		"hardware_revision":    true,
		"serial":               true,
		"firmware_version":     true,
		"name":                 false,
	})

	if v, ok := p.integer(m, path, "layout_version", math.MaxUint8); ok {
		hdr.LayoutVersion = uint8(v)
		p.layout = int(v)
	}
	if v, ok := p.integer(m, path, "eeprom_size", math.MaxUint8); ok {
		hdr.Size = uint8(v)
	}
	if v, ok := p.integer(m, path, "bus_protocol_version", math.MaxUint8); ok {
		hdr.BusProtocolVersion = uint8(v)
	}
	if v, ok := p.integer(m, path, "model", math.MaxUint16); ok {
		hdr.Model = uint16(v)
	}
	if v, ok := p.integer(m, path, "hardware_revision", math.MaxUint8); ok {
		hdr.HardwareRevision = uint8(v)
	}
	if v, ok := p.integer(m, path, "serial", 1<<24-1); ok {
		hdr.Serial = uint32(v)
	}
	if v, ok := p.integer(m, path, "firmware_version", math.MaxUint16); ok {
		hdr.FirmwareVersion = uint16(v)
	}
	hdr.Name, _ = p.name(m, path, "name")

	return hdr
}

func (p *parser) groups(v interface{}, path string) []eeprom.Group {
	list, ok := v.([]interface{})
	if !ok {
		p.errorf(path, "%w: expected a list of groups (got=%T)", ErrInvalid, v)
		return nil
	}

	groups := make([]eeprom.Group, 0, len(list))
	for i, v := range list {
		path := fmt.Sprintf("%s[%d]", path, i)
		m, ok := asMap(v)
		if !ok {
			p.errorf(path, "%w: expected a mapping (got=%T)", ErrInvalid, v)
			continue
		}
		p.keys(m, path, keys{"name": true, "descriptors": true})

		var grp eeprom.Group
		grp.Name, _ = p.requiredName(m, path, "name")

		if v, ok := m["descriptors"]; ok {
			grp.Descriptors = p.descriptors(v, join(path, "descriptors"))
		}
		groups = append(groups, grp)
	}
	return groups
}

func (p *parser) descriptors(v interface{}, path string) []eeprom.Descriptor {
	list, ok := v.([]interface{})
	if !ok {
		p.errorf(path, "%w: expected a list of descriptors (got=%T)", ErrInvalid, v)
		return nil
	}

	descs := make([]eeprom.Descriptor, 0, len(list))
	for i, v := range list {
		path := fmt.Sprintf("%s[%d]", path, i)
		m, ok := asMap(v)
		if !ok {
			p.errorf(path, "%w: expected a mapping (got=%T)", ErrInvalid, v)
			continue
		}

		raw, ok := m["type"]
		if !ok {
			p.errorf(join(path, "type"), "%w", ErrMissing)
			continue
		}
		name, ok := raw.(string)
		if !ok {
			p.errorf(join(path, "type"), "%w: %v", ErrUnknownType, raw)
			continue
		}
		typ, ok := lookup(name)
		if !ok {
			p.errorf(join(path, "type"), "%w: %q (want one of %q)", ErrUnknownType, name, typeNames())
			continue
		}

		allowed := keys{"type": true}
		for k, req := range typ.keys {
			allowed[k] = req
		}
		n := len(p.errs)
		p.keys(m, path, allowed)

		d := typ.parse(p, m, path)
		if len(p.errs) != n {
			continue
		}
		descs = append(descs, d)
	}
	return descs
}

// asMap returns v as a mapping with string keys.
func asMap(v interface{}) (map[string]interface{}, bool) {
	switch v := v.(type) {
	case map[string]interface{}:
		return v, true
	case map[interface{}]interface{}:
		m := make(map[string]interface{}, len(v))
		for k, v := range v {
			s, ok := k.(string)
			if !ok {
				return nil, false
			}
			m[s] = v
		}
		return m, true
	default:
		return nil, false
	}
}

// integer returns the integer value of m[key], in [0, hi].
// Missing keys are not reported: required keys are checked by keys.
func (p *parser) integer(m map[string]interface{}, path, key string, hi uint64) (uint64, bool) {
	raw, ok := m[key]
	if !ok {
		return 0, false
	}
	path = join(path, key)

	var v uint64
	switch raw := raw.(type) {
	case int:
		if raw < 0 {
			p.errorf(path, "%w: %d is negative", ErrInvalid, raw)
			return 0, false
		}
		v = uint64(raw)
	case int64:
		if raw < 0 {
			p.errorf(path, "%w: %d is negative", ErrInvalid, raw)
			return 0, false
		}
		v = uint64(raw)
	case uint64:
		v = raw
	case float64:
		if raw < 0 || raw != math.Trunc(raw) || raw > math.MaxUint32 {
			p.errorf(path, "%w: expected an integer (got=%v)", ErrInvalid, raw)
			return 0, false
		}
		v = uint64(raw)
	default:
		p.errorf(path, "%w: expected an integer (got=%T)", ErrInvalid, raw)
		return 0, false
	}

	if v > hi {
		p.errorf(path, "%w: %d is out of range [0, %d]", ErrInvalid, v, hi)
		return 0, false
	}
	return v, true
}

// number returns the finite, positive value of m[key].
func (p *parser) number(m map[string]interface{}, path, key string) (float64, bool) {
	raw, ok := m[key]
	if !ok {
		return 0, false
	}
	path = join(path, key)

	var v float64
	switch raw := raw.(type) {
	case int:
		v = float64(raw)
	case int64:
		v = float64(raw)
	case uint64:
		v = float64(raw)
	case float64:
		v = raw
	default:
		p.errorf(path, "%w: expected a number (got=%T)", ErrInvalid, raw)
		return 0, false
	}

	if v < 0 || math.IsNaN(v) || math.IsInf(v, 0) {
		p.errorf(path, "%w: expected a finite positive number (got=%v)", ErrInvalid, v)
		return 0, false
	}
	return v, true
}

// name returns the ASCII string m[key].
func (p *parser) name(m map[string]interface{}, path, key string) (string, bool) {
	raw, ok := m[key]
	if !ok {
		return "", false
	}
	path = join(path, key)

	s, ok := raw.(string)
	if !ok {
		p.errorf(path, "%w: expected a string (got=%T)", ErrInvalid, raw)
		return "", false
	}
	for i := 0; i < len(s); i++ {
		if c := s[i]; c < 0x20 || c > 0x7e {
			p.errorf(path, "%w: %q contains non printable ASCII characters", ErrInvalid, s)
			return "", false
		}
	}
	return s, true
}

func (p *parser) requiredName(m map[string]interface{}, path, key string) (string, bool) {
	s, ok := p.name(m, path, key)
	if ok && s == "" {
		p.errorf(join(path, key), "%w: name cannot be empty", ErrInvalid)
		return "", false
	}
	return s, ok
}

// pin resolves the pin name m[key] with the selected pin map.
func (p *parser) pin(m map[string]interface{}, path, key string) (pins.Pin, bool) {
	raw, ok := m[key]
	if !ok {
		return 0, false
	}
	path = join(path, key)

	name, ok := raw.(string)
	if !ok {
		p.errorf(path, "%w: expected a pin name (got=%v)", ErrInvalid, raw)
		return 0, false
	}
	if p.pins == nil {
		// invalid pin map, already reported.
		return 0, false
	}
	pin, ok := p.pins.Pin(name)
	if !ok {
		p.errorf(path, "%w: %q (pin map %s)", ErrUnknownPin, name, p.pins.Name())
		return 0, false
	}
	return pin, true
}
