// Copyright 2026 The go-lpc Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package main

import (
	"context"
	"fmt"
	"os"

	"github.com/go-lpc/bkpk/internal/i2ceep"
)

// flash writes the image stored in fname to dev.
func flash(ctx context.Context, dev *i2ceep.Device, fname string) (int, error) {
	img, err := os.ReadFile(fname)
	if err != nil {
		return 0, fmt.Errorf("could not read image: %w", err)
	}

	err = dev.Write(ctx, img)
	if err != nil {
		return 0, fmt.Errorf("could not write image: %w", err)
	}

	return len(img), nil
}
