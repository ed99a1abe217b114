// Copyright 2026 The go-lpc Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package crc implements the non-reflected CRC checksums protecting
// backpack EEPROM images.
//
// All checksums start from a zero register and have no final XOR.
// Polynomials are given with their leading (width-th) bit, crcmod style,
// e.g. 0x12f for an 8-bit CRC.
package crc // import "github.com/go-lpc/bkpk/internal/crc"

const (
	UniqueIDPoly  = 0x12f   // CRC-8 polynomial of the unique id block
	UniqueIDWidth = 8       // width of the unique id CRC
	ImagePoly     = 0x1a7d3 // CRC-16 polynomial of the whole image
	ImageWidth    = 16      // width of the image CRC
)

// Checksum computes the width-bit CRC of p with the given polynomial.
// width must be in [8, 32].
func Checksum(poly uint64, width uint, p []byte) uint64 {
	var (
		top  = uint64(1) << (width - 1)
		mask = top<<1 - 1
		crc  uint64
	)
	poly &= mask
	for _, b := range p {
		crc ^= uint64(b) << (width - 8)
		for i := 0; i < 8; i++ {
			if crc&top != 0 {
				crc = crc<<1 ^ poly
			} else {
				crc <<= 1
			}
		}
		crc &= mask
	}
	return crc
}

// UniqueID returns the CRC-8 of a unique id block.
func UniqueID(p []byte) uint8 {
	return uint8(Checksum(UniqueIDPoly, UniqueIDWidth, p))
}

// Image returns the CRC-16 of an EEPROM image (without its trailer).
func Image(p []byte) uint16 {
	return uint16(Checksum(ImagePoly, ImageWidth, p))
}
