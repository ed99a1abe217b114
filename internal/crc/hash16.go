// Copyright 2026 The go-lpc Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package crc

import (
	"encoding/binary"
	"hash"
)

// Size of a CRC-16 checksum in bytes.
const Size = 2

// Table is a 256-word table representing a non-reflected 16-bit
// polynomial, for efficient processing.
type Table [256]uint16

// ImageTable is the table for the image CRC-16 polynomial.
var ImageTable = MakeTable(ImagePoly)

// MakeTable returns the Table constructed from the specified
// 16-bit polynomial (with or without its leading bit).
func MakeTable(poly uint32) *Table {
	tbl := new(Table)
	for i := range tbl {
		tbl[i] = uint16(Checksum(uint64(poly), 16, []byte{byte(i)}))
	}
	return tbl
}

// Hash16 is the streaming flavour of Image.
type Hash16 interface {
	hash.Hash
	Sum16() uint16
}

type digest struct {
	crc uint16
	tbl *Table
}

// New creates a new Hash16 computing the CRC-16 checksum using the
// polynomial represented by the Table.
// If tbl is nil, ImageTable is used.
func New(tbl *Table) Hash16 {
	if tbl == nil {
		tbl = ImageTable
	}
	return &digest{tbl: tbl}
}

func (d *digest) Size() int      { return Size }
func (d *digest) BlockSize() int { return 1 }
func (d *digest) Reset()         { d.crc = 0 }

func (d *digest) Write(p []byte) (int, error) {
	crc := d.crc
	for _, b := range p {
		crc = crc<<8 ^ d.tbl[byte(crc>>8)^b]
	}
	d.crc = crc
	return len(p), nil
}

func (d *digest) Sum16() uint16 { return d.crc }

func (d *digest) Sum(in []byte) []byte {
	var buf [Size]byte
	binary.BigEndian.PutUint16(buf[:], d.crc)
	return append(in, buf[:]...)
}

var _ Hash16 = (*digest)(nil)
