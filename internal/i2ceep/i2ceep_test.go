// Copyright 2026 The go-lpc Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package i2ceep

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"
)

type fakeBus struct {
	addr  uint8
	mem   [256]byte
	stuck int // index of a byte that can not be written, -1 if none
	fail  error
}

func newFakeBus() *fakeBus {
	return &fakeBus{addr: DefaultAddr, stuck: -1}
}

func (bus *fakeBus) ReadReg(addr, reg uint8) (uint8, error) {
	if addr != bus.addr {
		return 0, fmt.Errorf("no device at 0x%02x", addr)
	}
	return bus.mem[reg], nil
}

func (bus *fakeBus) WriteReg(addr, reg, v uint8) error {
	if addr != bus.addr {
		return fmt.Errorf("no device at 0x%02x", addr)
	}
	if bus.fail != nil {
		return bus.fail
	}
	if int(reg) != bus.stuck {
		bus.mem[reg] = v
	}
	return nil
}

// wifiImage is the image of a wifi backpack with a single I/O pin.
func wifiImage() []byte {
	return []byte{
		0x01, 0x40, 0x1d, 0x01, 0xab, 0xcd, 0x03, 0x00, 0x00, 0x01, 0x59, 0x00, 0x01,
		0x77, 0x69, 0x66, 0xe9,
		0x04, 0x77, 0x69, 0x66, 0xe9,
		0x03, 0x0e, 0x70, 0x67, 0xed,
		0x7b, 0x37,
	}
}

func newTestDevice(bus Bus) (*Device, *time.Duration) {
	var slept time.Duration
	dev := New(bus, DefaultAddr)
	dev.sleep = func(d time.Duration) { slept += d }
	return dev, &slept
}

func TestWrite(t *testing.T) {
	var (
		bus        = newFakeBus()
		dev, slept = newTestDevice(bus)
		img        = wifiImage()
		ctx        = context.Background()
	)

	err := dev.Write(ctx, img)
	if err != nil {
		t.Fatalf("could not write image: %+v", err)
	}

	if got, want := bus.mem[:len(img)], img; !bytes.Equal(got, want) {
		t.Fatalf("invalid eeprom content:\ngot= % x\nwant=% x", got, want)
	}
	if got, want := *slept, time.Duration(len(img))*WriteCycle; got != want {
		t.Fatalf("invalid write cycles: got=%v, want=%v", got, want)
	}

	got, err := dev.Read(ctx, len(img))
	if err != nil {
		t.Fatalf("could not read image: %+v", err)
	}
	if !bytes.Equal(got, img) {
		t.Fatalf("invalid read-back:\ngot= % x\nwant=% x", got, img)
	}
}

func TestWriteErrors(t *testing.T) {
	for _, tc := range []struct {
		name string
		bus  func() *fakeBus
		addr uint8
		ctx  func() context.Context
		want string
	}{
		{
			name: "stuck",
			bus: func() *fakeBus {
				bus := newFakeBus()
				bus.stuck = 3
				return bus
			},
			want: "i2ceep: verify failed at byte 3 (got=0x00, want=0x01)",
		},
		{
			name: "io-error",
			bus: func() *fakeBus {
				bus := newFakeBus()
				bus.fail = errors.New("nack")
				return bus
			},
			want: "i2ceep: could not write byte 0: nack",
		},
		{
			name: "no-device",
			bus:  newFakeBus,
			addr: 0x51,
			want: "i2ceep: could not write byte 0: no device at 0x51",
		},
		{
			name: "canceled",
			bus:  newFakeBus,
			ctx: func() context.Context {
				ctx, cancel := context.WithCancel(context.Background())
				cancel()
				return ctx
			},
			want: "i2ceep: write interrupted at byte 0: context canceled",
		},
	} {
		t.Run(tc.name, func(t *testing.T) {
			dev, _ := newTestDevice(tc.bus())
			if tc.addr != 0 {
				dev.addr = tc.addr
			}
			ctx := context.Background()
			if tc.ctx != nil {
				ctx = tc.ctx()
			}
			err := dev.Write(ctx, wifiImage())
			if err == nil {
				t.Fatalf("expected an error")
			}
			if got, want := err.Error(), tc.want; got != want {
				t.Fatalf("invalid error:\ngot= %q\nwant=%q", got, want)
			}
		})
	}
}

func TestCheck(t *testing.T) {
	for _, tc := range []struct {
		name string
		img  func() []byte
		want string
	}{
		{
			name: "ok",
			img:  wifiImage,
		},
		{
			name: "short",
			img:  func() []byte { return wifiImage()[:10] },
			want: "i2ceep: image too short",
		},
		{
			name: "used-size",
			img:  func() []byte { return append(wifiImage(), 0) },
			want: "i2ceep: inconsistent used size (got=29, want=30)",
		},
		{
			name: "uid-crc",
			img: func() []byte {
				img := wifiImage()
				img[10] ^= 0xff
				return img
			},
			want: "i2ceep: inconsistent unique id CRC",
		},
		{
			name: "crc16",
			img: func() []byte {
				img := wifiImage()
				img[20] ^= 0x01
				return img
			},
			want: "i2ceep: inconsistent CRC-16",
		},
	} {
		t.Run(tc.name, func(t *testing.T) {
			err := Check(tc.img())
			switch {
			case tc.want == "" && err != nil:
				t.Fatalf("could not check image: %+v", err)
			case tc.want != "" && err == nil:
				t.Fatalf("expected an error")
			case tc.want != "":
				if got, want := err.Error(), tc.want; !strings.HasPrefix(got, want) {
					t.Fatalf("invalid error:\ngot= %q\nwant=%q", got, want)
				}
			}
		})
	}
}

func TestReadInvalid(t *testing.T) {
	dev, _ := newTestDevice(newFakeBus())
	_, err := dev.Read(context.Background(), 257)
	if err == nil {
		t.Fatalf("expected an error")
	}
}
