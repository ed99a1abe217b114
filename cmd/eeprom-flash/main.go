// Copyright 2026 The go-lpc Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

//go:build linux

// eeprom-flash writes a backpack EEPROM image to an I2C EEPROM.
//
// Usage: eeprom-flash [OPTIONS] FILE.bin
//
// Example:
//
//	$> eeprom-flash -bus 1 -addr 0x50 ./wifi.bin
//	 SUCCESS  wrote 64 bytes to EEPROM 0x50 on I2C bus 1
package main // import "github.com/go-lpc/bkpk/cmd/eeprom-flash"

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"

	"github.com/go-lpc/bkpk/internal/i2ceep"
	"github.com/pterm/pterm"
)

func main() {
	log.SetPrefix("eeprom-flash: ")
	log.SetFlags(0)

	var (
		bus  = flag.Int("bus", 1, "I2C bus number")
		addr = flag.Uint("addr", i2ceep.DefaultAddr, "I2C address of the EEPROM")
	)

	flag.Usage = func() {
		fmt.Printf(`eeprom-flash writes a backpack EEPROM image to an I2C EEPROM.

Usage: eeprom-flash [OPTIONS] FILE.bin

Example:

 $> eeprom-flash -bus 1 -addr 0x50 ./wifi.bin

Options:
`)
		flag.PrintDefaults()
	}

	flag.Parse()

	if flag.NArg() != 1 {
		flag.Usage()
		log.Fatalf("missing path to input image")
	}

	if *addr > 0x7f {
		log.Fatalf("invalid 7-bit I2C address 0x%x", *addr)
	}

	dev, closer, err := i2ceep.Open(*bus, uint8(*addr))
	if err != nil {
		log.Fatalf("could not open EEPROM: %+v", err)
	}
	defer closer()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	n, err := flash(ctx, dev, flag.Arg(0))
	if err != nil {
		log.Fatalf("could not flash %q: %+v", flag.Arg(0), err)
	}
	pterm.Success.Printfln("wrote %d bytes to EEPROM 0x%02x on I2C bus %d", n, *addr, *bus)
}
