// Copyright 2026 The go-lpc Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package bkpk holds code to generate the EEPROM images describing
// backpacks, the pluggable modules of a scout board.
//
// A backpack EEPROM image is a small, bit-packed binary block holding
// a header (layout version, capacity, unique id, firmware version),
// a list of named groups of descriptors (SPI slaves, UARTs, I/O pins,
// power usage) and a trailing CRC-16 checksum.
//
// Images are described in a YAML document, validated by package
// schema and encoded by package eeprom.
package bkpk // import "github.com/go-lpc/bkpk"

import (
	"fmt"
	"runtime/debug"
)

// Version returns the version of bkpk and its checksum.
// The returned values are only valid in binaries built with module support.
func Version() (version, sum string) {
	b, ok := debug.ReadBuildInfo()
	if !ok {
		return "", ""
	}
	return versionOf(b)
}

func versionOf(b *debug.BuildInfo) (version, sum string) {
	if b == nil {
		return "", ""
	}

	const root = "github.com/go-lpc/bkpk"
	for _, m := range b.Deps {
		if m.Path != root {
			continue
		}
		if m.Replace != nil {
			switch {
			case m.Replace.Version != "" && m.Replace.Path != "":
				return fmt.Sprintf("%s %s", m.Replace.Path, m.Replace.Version), m.Replace.Sum
			case m.Replace.Version != "":
				return m.Replace.Version, m.Replace.Sum
			case m.Replace.Path != "":
				return m.Replace.Path, m.Replace.Sum
			default:
				return m.Version + "*", ""
			}
		}
		return m.Version, m.Sum
	}
	return "", ""
}
