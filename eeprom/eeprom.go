// Copyright 2026 The go-lpc Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package eeprom encodes backpack EEPROM images.
//
// An image is laid out as:
//
//	0       layout version
//	1       eeprom size (capacity)
//	2       used size, including the trailing checksum
//	3..9    unique id: bus protocol version, model (BE16),
//	        hardware revision, serial (BE24)
//	10      CRC-8 of the unique id
//	11..12  firmware version (BE16)
//	13..    name
//	...     groups of descriptors
//	n-2..n  CRC-16 of all the preceding bytes (BE16)
//
// Names are ASCII strings whose last character has its MSB set.
package eeprom // import "github.com/go-lpc/bkpk/eeprom"

import (
	"fmt"

	"github.com/go-lpc/bkpk/internal/crc"
	"golang.org/x/sync/errgroup"
)

const (
	usedSizeOffset = 2
	maxSerial      = 1<<24 - 1
)

// Header holds the fixed part of an EEPROM image.
type Header struct {
	LayoutVersion      uint8
	Size               uint8 // capacity of the EEPROM, in bytes
	BusProtocolVersion uint8
	Model              uint16
	HardwareRevision   uint8
	Serial             uint32 // 24 bits
	FirmwareVersion    uint16
	Name               string
}

// UniqueID returns the block identifying a physical backpack within
// its model line.
func (hdr Header) UniqueID() [7]byte {
	return [7]byte{
		hdr.BusProtocolVersion,
		byte(hdr.Model >> 8),
		byte(hdr.Model),
		hdr.HardwareRevision,
		byte(hdr.Serial >> 16),
		byte(hdr.Serial >> 8),
		byte(hdr.Serial),
	}
}

// EEPROM is the content of a backpack EEPROM.
type EEPROM struct {
	Header Header
	Groups []Group
}

// Encode generates the EEPROM image.
//
// Validation problems (duplicate names, values not allowed by the
// layout version, image exceeding the EEPROM capacity, ...) do not
// prevent encoding: they are collected in Encoded.Errors.
// Encode only fails when the EEPROM can not be represented at all.
func (eep *EEPROM) Encode() (*Encoded, error) {
	enc := newEncoded()

	eep.check(enc)
	eep.encodeHeader(enc)

	parts := make([]*Encoded, len(eep.Groups))
	var grp errgroup.Group
	for i := range eep.Groups {
		i := i
		grp.Go(func() error {
			part := newEncoded()
			err := eep.Groups[i].encode(part, eep, fmt.Sprintf("groups[%d]", i))
			if err != nil {
				return err
			}
			parts[i] = part
			return nil
		})
	}
	err := grp.Wait()
	if err != nil {
		return nil, err
	}

	for _, part := range parts {
		err = enc.splice(part)
		if err != nil {
			return nil, err
		}
	}

	if !enc.buf.Aligned() {
		return nil, fmt.Errorf("eeprom: not an integer number of bytes: %d bits", enc.buf.Len())
	}

	n := enc.Len() + crc.Size
	used := n
	if used > 0xff {
		used = 0xff
	}
	enc.buf.SetByte(usedSizeOffset, uint8(used))

	enc.label("checksum")
	h := crc.New(nil)
	_, _ = h.Write(enc.Bytes())
	enc.buf.WriteU16(h.Sum16())

	if n > int(eep.Header.Size) {
		enc.errorf("header.eeprom_size", "%w (%d > %d)", ErrTooBig, n, eep.Header.Size)
	}

	return enc, nil
}

// check validates the names of groups and descriptors.
func (eep *EEPROM) check(enc *Encoded) {
	groups := make(map[string]string)
	for i, g := range eep.Groups {
		path := fmt.Sprintf("groups[%d]", i)
		enc.checkName(groups, g, path)

		descs := make(map[string]string)
		for j, d := range g.Descriptors {
			enc.checkName(descs, d, fmt.Sprintf("%s.descriptors[%d]", path, j))
		}
	}
}

func (enc *Encoded) checkName(seen map[string]string, d Descriptor, path string) {
	name, ok := d.EffectiveName()
	if !ok {
		return
	}
	if name == "" {
		enc.errorf(path+".name", "%w for %s", ErrEmptyName, d.Tag())
		return
	}
	if prev, dup := seen[name]; dup {
		enc.errorf(path+".name", "%w %q (also used by %s)", ErrDuplicateName, name, prev)
		return
	}
	seen[name] = path
}

func (eep *EEPROM) encodeHeader(enc *Encoded) {
	hdr := eep.Header

	enc.label("header")
	enc.buf.WriteU8(hdr.LayoutVersion)
	enc.buf.WriteU8(hdr.Size)
	enc.buf.WriteU8(0) // used size, patched once the image is complete.

	if hdr.Serial > maxSerial {
		enc.errorf("header.serial", "%w: serial 0x%x does not fit in 24 bits", ErrRange, hdr.Serial)
	}
	enc.buf.WriteU8(hdr.BusProtocolVersion)
	enc.buf.WriteU16(hdr.Model)
	enc.buf.WriteU8(hdr.HardwareRevision)
	enc.buf.WriteU24(hdr.Serial)
	uid := hdr.UniqueID()
	enc.buf.WriteU8(crc.UniqueID(uid[:]))

	enc.buf.WriteU16(hdr.FirmwareVersion)

	if hdr.Name != "" {
		enc.label("name")
	}
	enc.writeName(hdr.Name, "header.name")
}
