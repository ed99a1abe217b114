// Copyright 2026 The go-lpc Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package bitbuf provides an append-only, MSB-first bit buffer.
package bitbuf // import "github.com/go-lpc/bkpk/internal/bitbuf"

import "fmt"

// Buffer is an append-only sequence of bits.
// The zero value is an empty buffer ready to use.
type Buffer struct {
	p []byte
	n int // number of bits
}

// Len returns the number of bits written so far.
func (b *Buffer) Len() int { return b.n }

// Aligned reports whether the buffer holds a whole number of bytes.
func (b *Buffer) Aligned() bool { return b.n%8 == 0 }

// Bytes returns the content of the buffer.
// A trailing partial byte is padded with zero bits.
func (b *Buffer) Bytes() []byte { return b.p }

// WriteBits appends the n least significant bits of v, most
// significant bit first. Bits of v above n are ignored.
func (b *Buffer) WriteBits(v uint64, n int) {
	if n < 0 || n > 64 {
		panic(fmt.Errorf("bitbuf: invalid bit count %d", n))
	}
	for i := n - 1; i >= 0; i-- {
		if b.n%8 == 0 {
			b.p = append(b.p, 0)
		}
		if v>>uint(i)&1 != 0 {
			b.p[len(b.p)-1] |= 0x80 >> uint(b.n%8)
		}
		b.n++
	}
}

// WriteBool appends a single bit.
func (b *Buffer) WriteBool(v bool) {
	var bit uint64
	if v {
		bit = 1
	}
	b.WriteBits(bit, 1)
}

// Pad appends n zero bits.
func (b *Buffer) Pad(n int) { b.WriteBits(0, n) }

func (b *Buffer) WriteU8(v uint8)   { b.WriteBits(uint64(v), 8) }
func (b *Buffer) WriteU16(v uint16) { b.WriteBits(uint64(v), 16) }
func (b *Buffer) WriteU24(v uint32) { b.WriteBits(uint64(v), 24) }

// Write appends p, byte by byte. It never fails.
func (b *Buffer) Write(p []byte) (int, error) {
	if b.Aligned() {
		b.p = append(b.p, p...)
		b.n += 8 * len(p)
		return len(p), nil
	}
	for _, v := range p {
		b.WriteU8(v)
	}
	return len(p), nil
}

// SetByte overwrites the i-th byte of the buffer.
func (b *Buffer) SetByte(i int, v byte) {
	if i < 0 || 8*(i+1) > b.n {
		panic(fmt.Errorf("bitbuf: byte %d out of range [0, %d)", i, b.n/8))
	}
	b.p[i] = v
}
