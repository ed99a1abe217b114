// Copyright 2026 The go-lpc Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

//go:build !linux

package main

import "log"

func main() {
	log.SetPrefix("eeprom-flash: ")
	log.SetFlags(0)
	log.Fatalf("SMBus access is only available on linux")
}
