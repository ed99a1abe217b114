// Copyright 2026 The go-lpc Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package eeprom

import (
	"fmt"

	"github.com/go-lpc/bkpk/internal/bitbuf"
	"github.com/go-lpc/bkpk/minifloat"
	"github.com/go-lpc/bkpk/pins"
)

// Encoded holds an encoded EEPROM image and the diagnostics gathered
// while encoding it.
type Encoded struct {
	buf bitbuf.Buffer

	Offsets   map[int]string // byte offset -> label of what starts there
	Roundings []string       // values that could not be stored exactly
	Errors    []error        // non-fatal validation errors
}

func newEncoded() *Encoded {
	return &Encoded{Offsets: make(map[int]string)}
}

// Bytes returns the encoded image.
func (enc *Encoded) Bytes() []byte { return enc.buf.Bytes() }

// Len returns the size of the encoded image in bytes.
func (enc *Encoded) Len() int { return (enc.buf.Len() + 7) / 8 }

func (enc *Encoded) label(s string) {
	enc.Offsets[enc.buf.Len()/8] = s
}

func (enc *Encoded) errorf(path string, format string, args ...interface{}) {
	enc.Errors = append(enc.Errors, &Error{Path: path, Err: fmt.Errorf(format, args...)})
}

// splice appends a byte-aligned sub-encoding, keeping its labels and
// diagnostics in order.
func (enc *Encoded) splice(sub *Encoded) error {
	if !enc.buf.Aligned() || !sub.buf.Aligned() {
		return fmt.Errorf(
			"eeprom: not an integer number of bytes: %d+%d bits",
			enc.buf.Len(), sub.buf.Len(),
		)
	}
	beg := enc.Len()
	for k, v := range sub.Offsets {
		enc.Offsets[beg+k] = v
	}
	_, _ = enc.buf.Write(sub.Bytes())
	enc.Roundings = append(enc.Roundings, sub.Roundings...)
	enc.Errors = append(enc.Errors, sub.Errors...)
	return nil
}

// writeName appends s as ASCII, with the MSB of the last character set
// to mark the end of the string. An empty name writes nothing.
func (enc *Encoded) writeName(s, path string) {
	for i := 0; i < len(s); i++ {
		c := s[i]
		if c >= 0x80 {
			enc.errorf(path, "%w: non-ASCII character in %q", ErrName, s)
			c &= 0x7f
		}
		if i == len(s)-1 {
			c |= 0x80
		}
		enc.buf.WriteU8(c)
	}
}

func (enc *Encoded) writePin(pin pins.Pin, path string) {
	enc.buf.Pad(2) // reserved
	if pin > pins.MaxPin {
		enc.errorf(path, "%w: pin %d does not fit in 6 bits", ErrRange, pin)
	}
	enc.buf.WriteBits(uint64(pin), 6)
}

// writeMinifloat appends v encoded with f: exponent, then significand.
func (enc *Encoded) writeMinifloat(f minifloat.Format, v float64, path string) {
	c, err := f.Encode(v)
	switch {
	case err != nil:
		enc.errorf(path, "%w: %v", ErrRange, err)
		c = minifloat.Code{}
	case !f.Fits(c):
		enc.errorf(path, "%w: %g %s does not fit the format", ErrRange, v, f.Unit)
		c = minifloat.Code{}
	case c.Value != v:
		enc.Roundings = append(enc.Roundings, fmt.Sprintf(
			"%g %s rounded to %g %s", v, f.Unit, c.Value, f.Unit,
		))
	}
	enc.buf.WriteBits(uint64(c.Exp)<<f.SigBits|uint64(c.Sig), int(f.Bits()))
}
