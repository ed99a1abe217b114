// Copyright 2026 The go-lpc Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// minifloat-table displays the values of all the codes of the minifloat
// formats used in backpack EEPROMs, as a reStructuredText table.
//
// Usage: minifloat-table [-format speed|current]
package main // import "github.com/go-lpc/bkpk/cmd/minifloat-table"

import (
	"bufio"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"strings"

	"github.com/go-lpc/bkpk/minifloat"
)

func main() {
	log.SetPrefix("minifloat-table: ")
	log.SetFlags(0)

	name := flag.String("format", "speed", "minifloat format to display (speed|current)")
	flag.Parse()

	err := run(os.Stdout, *name)
	if err != nil {
		log.Fatalf("%+v", err)
	}
}

type format struct {
	fmt   minifloat.Format
	mult  float64 // scale from the format unit to units[0]
	units []string
}

var formats = map[string]format{
	"speed": {
		fmt:   minifloat.Speed,
		mult:  1e6,
		units: []string{"Hz", "kHz", "MHz", "GHz"},
	},
	"current": {
		fmt:   minifloat.Current,
		mult:  1,
		units: []string{"µA", "mA", "A"},
	},
}

func run(w io.Writer, name string) error {
	f, ok := formats[name]
	if !ok {
		return fmt.Errorf("unknown minifloat format %q", name)
	}

	wbuf := bufio.NewWriter(w)
	defer wbuf.Flush()

	var (
		ne = uint(1) << f.fmt.ExpBits
		ns = uint(1) << f.fmt.SigBits

		hdr  = new(strings.Builder)
		line = new(strings.Builder)
	)

	hdr.WriteString("|es| ")
	line.WriteString("=====")
	for s := uint(0); s < ns; s++ {
		fmt.Fprintf(hdr, "%11x", s)
		line.WriteString("  =========")
	}

	fmt.Fprintln(wbuf, line)
	fmt.Fprintln(wbuf, hdr)
	fmt.Fprintln(wbuf, line)

	for e := uint(0); e < ne; e++ {
		fmt.Fprintf(wbuf, "**%x**", e)
		for s := uint(0); s < ns; s++ {
			if e == 0 && s == 0 {
				fmt.Fprintf(wbuf, "    Unknown")
				continue
			}
			v, unit := f.scale(f.fmt.Value(e, s))
			fmt.Fprintf(wbuf, "  %6.3g%-3s", v, unit)
		}
		fmt.Fprintln(wbuf)
	}

	fmt.Fprintln(wbuf, line)
	return nil
}

// scale expresses v with the largest unit keeping it above 1.
func (f format) scale(v float64) (float64, string) {
	v *= f.mult
	i := 0
	for v >= 1000 && i < len(f.units)-1 {
		v /= 1000
		i++
	}
	return v, f.units[i]
}
