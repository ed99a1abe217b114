// Copyright 2026 The go-lpc Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package bitbuf

import (
	"bytes"
	"testing"
)

func TestBuffer(t *testing.T) {
	var buf Buffer
	if !buf.Aligned() {
		t.Fatalf("empty buffer should be aligned")
	}

	buf.WriteU8(0x01)
	buf.Pad(2)
	buf.WriteBits(14, 6)
	buf.WriteBool(true)
	buf.Pad(3)
	buf.WriteBits(0xa, 4)
	buf.WriteU16(0xabcd)
	buf.WriteU24(0x010203)

	if got, want := buf.Len(), 8*8; got != want {
		t.Fatalf("invalid length: got=%d, want=%d", got, want)
	}

	want := []byte{0x01, 0x0e, 0x8a, 0xab, 0xcd, 0x01, 0x02, 0x03}
	if got := buf.Bytes(); !bytes.Equal(got, want) {
		t.Fatalf("invalid content:\ngot= %x\nwant=%x", got, want)
	}

	buf.SetByte(1, 0xff)
	want = []byte{0x01, 0xff, 0x8a, 0xab, 0xcd, 0x01, 0x02, 0x03}
	if got := buf.Bytes(); !bytes.Equal(got, want) {
		t.Fatalf("invalid patched content:\ngot= %x\nwant=%x", got, want)
	}
}

func TestUnaligned(t *testing.T) {
	var buf Buffer
	buf.WriteBits(0x5, 3)
	if buf.Aligned() {
		t.Fatalf("buffer should not be aligned")
	}

	_, _ = buf.Write([]byte{0xff})
	if got, want := buf.Len(), 11; got != want {
		t.Fatalf("invalid length: got=%d, want=%d", got, want)
	}
	if got, want := buf.Bytes(), []byte{0xbf, 0xe0}; !bytes.Equal(got, want) {
		t.Fatalf("invalid content:\ngot= %x\nwant=%x", got, want)
	}
}

func TestWriteIgnoresHighBits(t *testing.T) {
	var buf Buffer
	buf.WriteBits(0xff, 4)
	buf.WriteBits(0x10, 4)
	if got, want := buf.Bytes(), []byte{0xf0}; !bytes.Equal(got, want) {
		t.Fatalf("invalid content:\ngot= %x\nwant=%x", got, want)
	}
}

func TestOutOfRange(t *testing.T) {
	for _, tc := range []struct {
		name string
		f    func(b *Buffer)
	}{
		{"set-byte", func(b *Buffer) { b.SetByte(1, 0) }},
		{"set-byte-neg", func(b *Buffer) { b.SetByte(-1, 0) }},
		{"bit-count", func(b *Buffer) { b.WriteBits(0, 65) }},
	} {
		t.Run(tc.name, func(t *testing.T) {
			defer func() {
				if e := recover(); e == nil {
					t.Fatalf("expected a panic")
				}
			}()
			var buf Buffer
			buf.WriteU8(0x42)
			tc.f(&buf)
		})
	}
}
