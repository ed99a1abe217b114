// Copyright 2026 The go-lpc Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// eeprom-gen generates backpack EEPROM images from YAML documents.
//
// Usage: eeprom-gen [OPTIONS] FILE.yaml
//
// Example:
//
//	$> eeprom-gen -o wifi.bin ./wifi.yaml
//	header
//	     00: 00000001 01
//	     01: 01000000 40 "@"
//	     02: 00011101 1d
//	[...]
//	 WARNING  1 µA rounded to 2 µA
//	 SUCCESS  wrote 64 bytes to "wifi.bin"
package main // import "github.com/go-lpc/bkpk/cmd/eeprom-gen"

import (
	"bufio"
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"os"

	"github.com/go-lpc/bkpk"
	"github.com/go-lpc/bkpk/eeprom"
	"github.com/go-lpc/bkpk/schema"
	"github.com/pterm/pterm"
)

func main() {
	log.SetPrefix("eeprom-gen: ")
	log.SetFlags(0)

	err := xmain(os.Stdout, os.Args[1:])
	if err != nil {
		log.Fatalf("%+v", err)
	}
}

var errInvalid = errors.New("invalid EEPROM description")

func xmain(w io.Writer, args []string) error {
	var (
		fset  = flag.NewFlagSet("eeprom-gen", flag.ContinueOnError)
		oname = fset.String("o", "", "path to the output binary image")
		quiet = fset.Bool("q", false, "do not display the encoded image")
		force = fset.Bool("f", false, "write the output image even if it is invalid")
		vers  = fset.Bool("version", false, "display version and exit")
	)

	fset.Usage = func() {
		fmt.Fprintf(fset.Output(), `eeprom-gen generates backpack EEPROM images from YAML documents.

Usage: eeprom-gen [OPTIONS] FILE.yaml

Example:

 $> eeprom-gen -o wifi.bin ./wifi.yaml

Options:
`)
		fset.PrintDefaults()
	}

	err := fset.Parse(args)
	if err != nil {
		return err
	}

	if *vers {
		v, sum := bkpk.Version()
		if v == "" {
			v = "(devel)"
		}
		fmt.Fprintf(w, "eeprom-gen %s %s\n", v, sum)
		return nil
	}

	if fset.NArg() != 1 {
		fset.Usage()
		return fmt.Errorf("missing path to input YAML document")
	}

	var out io.Writer = w
	if *quiet {
		out = io.Discard
	}

	fname := fset.Arg(0)
	enc, err := process(out, fname)
	if err != nil {
		var errs schema.Errors
		if errors.As(err, &errs) {
			for _, err := range errs {
				pterm.Error.WithWriter(w).Println(err)
			}
			return fmt.Errorf("could not parse %q: %w", fname, errInvalid)
		}
		return fmt.Errorf("could not process %q: %w", fname, err)
	}

	for _, msg := range enc.Roundings {
		pterm.Warning.WithWriter(w).Println(msg)
	}
	for _, err := range enc.Errors {
		pterm.Error.WithWriter(w).Println(err)
	}

	if len(enc.Errors) != 0 && !*force {
		return fmt.Errorf("could not encode %q: %w", fname, errInvalid)
	}

	if *oname == "" {
		return nil
	}

	err = os.WriteFile(*oname, enc.Bytes(), 0644)
	if err != nil {
		return fmt.Errorf("could not write image: %w", err)
	}
	pterm.Success.WithWriter(w).Printfln("wrote %d bytes to %q", enc.Len(), *oname)

	return nil
}

func process(w io.Writer, fname string) (*eeprom.Encoded, error) {
	f, err := os.Open(fname)
	if err != nil {
		return nil, fmt.Errorf("could not open %q: %w", fname, err)
	}
	defer f.Close()

	eep, err := schema.Load(f)
	if err != nil {
		return nil, err
	}

	enc, err := eep.Encode()
	if err != nil {
		return nil, fmt.Errorf("could not encode EEPROM: %w", err)
	}

	wbuf := bufio.NewWriter(w)
	defer wbuf.Flush()

	dump(wbuf, enc)
	return enc, nil
}

// dump displays each byte of the image in binary and hexadecimal,
// preceded by the label of the item starting at that offset.
func dump(w io.Writer, enc *eeprom.Encoded) {
	for i, v := range enc.Bytes() {
		if label, ok := enc.Offsets[i]; ok {
			fmt.Fprintln(w, label)
		}
		fmt.Fprintf(w, "     %02x: %08b %02x", i, v, v)
		if c := v & 0x7f; c >= 0x20 && c < 0x7f {
			fmt.Fprintf(w, " \"%c\"", c)
		}
		fmt.Fprintln(w)
	}
}
