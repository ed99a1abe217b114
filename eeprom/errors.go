// Copyright 2026 The go-lpc Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package eeprom

import "errors"

var (
	ErrDuplicateName = errors.New("duplicate name")
	ErrEmptyName     = errors.New("name cannot be empty")
	ErrName          = errors.New("invalid name")
	ErrVersion       = errors.New("layout version mismatch")
	ErrUnsupported   = errors.New("unsupported value")
	ErrRange         = errors.New("value out of range")
	ErrTooBig        = errors.New("encoded eeprom is too big")
)

// Error is a non-fatal error attached to a part of an EEPROM.
type Error struct {
	Path string // e.g. groups[0].descriptors[2].speed
	Err  error
}

func (e *Error) Error() string {
	return "eeprom: " + e.Path + ": " + e.Err.Error()
}

func (e *Error) Unwrap() error { return e.Err }
