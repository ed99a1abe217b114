// Copyright 2026 The go-lpc Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package minifloat implements the reduced-precision floating point
// format used to store speeds and currents in backpack EEPROMs.
//
// A minifloat has no sign bit, no NaN and no infinity.
// Denormal numbers are supported: an encoded exponent of 0 denotes a
// significand with an implicit leading 0 and the same effective
// exponent as an encoded exponent of 1.
package minifloat // import "github.com/go-lpc/bkpk/minifloat"

import (
	"errors"
	"fmt"
	"math"
)

// Rounding selects the direction in which values are quantized.
type Rounding uint8

const (
	RoundDown Rounding = iota // never overstate a value
	RoundUp                   // never understate a value
)

func (r Rounding) String() string {
	switch r {
	case RoundDown:
		return "round-down"
	case RoundUp:
		return "round-up"
	default:
		return fmt.Sprintf("Rounding(%d)", uint8(r))
	}
}

func (r Rounding) round(v float64) float64 {
	if r == RoundUp {
		return math.Ceil(v)
	}
	return math.Floor(v)
}

var errInvalid = errors.New("minifloat: can only encode finite positive values")

// Format describes a minifloat format.
type Format struct {
	ExpBits  uint     // width of the exponent field
	SigBits  uint     // width of the significand field
	Bias     int      // exponent bias, may be negative
	Rounding Rounding // quantization direction
	Unit     string   // unit of the values held by the format
}

var (
	// Speed holds SPI bus speeds in MHz. An encoded exponent of 1
	// means 2^-5 MHz.
	Speed = Format{ExpBits: 4, SigBits: 4, Bias: 6, Rounding: RoundDown, Unit: "MHz"}

	// Current holds current draws in µA. An encoded exponent of 1
	// means 2^5 µA.
	Current = Format{ExpBits: 4, SigBits: 4, Bias: -4, Rounding: RoundUp, Unit: "µA"}
)

// Code is an encoded minifloat value.
type Code struct {
	Exp   uint    // encoded exponent
	Sig   uint    // encoded significand
	Value float64 // real value represented by (Exp, Sig)
}

// Bits returns the width of an encoded value.
func (f Format) Bits() uint { return f.ExpBits + f.SigBits }

// Fits reports whether c can be stored in the fields of f.
func (f Format) Fits(c Code) bool {
	return c.Exp < 1<<f.ExpBits && c.Sig < 1<<f.SigBits
}

// Encode quantizes v according to f.
//
// There is no range checking: a value too big for the format yields
// an exponent that does not fit ExpBits (see Fits), and a value too
// small, rounded down, yields the (0, 0) code.
// Comparing the returned Code.Value with v tells whether precision
// was lost.
func (f Format) Encode(v float64) (Code, error) {
	switch {
	case v == 0:
		return Code{}, nil
	case v < 0 || math.IsNaN(v) || math.IsInf(v, 0):
		return Code{}, fmt.Errorf("%w (got=%v)", errInvalid, v)
	}

	// frexp normalizes to 0.1ssss, we need 1.ssss
	frac, exp := math.Frexp(v)
	frac *= 2
	exp--

	var (
		e    = exp + f.Bias
		unit = math.Ldexp(1, int(f.SigBits))
	)

	if e < 1 {
		// denormal: implicit leading 0 and an effective exponent of 1.
		for ; e < 1; e++ {
			frac /= 2
		}
		s := f.Rounding.round(frac * unit)
		if s == unit {
			// rounded up to the smallest normal number.
			return Code{Exp: 1, Sig: 0, Value: f.Value(1, 0)}, nil
		}
		return Code{Exp: 0, Sig: uint(s), Value: f.Value(0, uint(s))}, nil
	}

	s := f.Rounding.round((frac - 1) * unit)
	if s == unit {
		s = 0
		e++
	}
	return Code{Exp: uint(e), Sig: uint(s), Value: f.Value(uint(e), uint(s))}, nil
}

// Value returns the real value represented by the (e, s) code.
func (f Format) Value(e, s uint) float64 {
	sig := float64(s) / math.Ldexp(1, int(f.SigBits))
	if e == 0 {
		return math.Ldexp(sig, 1-f.Bias)
	}
	return math.Ldexp(1+sig, int(e)-f.Bias)
}
