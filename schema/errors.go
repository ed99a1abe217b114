// Copyright 2026 The go-lpc Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package schema

import (
	"errors"
	"strings"
)

var (
	ErrUnknownType = errors.New("invalid descriptor type")
	ErrUnknownPin  = errors.New("not a valid pin name")
	ErrInvalid     = errors.New("invalid value")
	ErrMissing     = errors.New("required key not provided")
	ErrExtra       = errors.New("extra key not allowed")
)

// FieldError is a validation error attached to a path in the document.
type FieldError struct {
	Path string // e.g. groups[0].descriptors[1].ss_pin
	Err  error
}

func (e *FieldError) Error() string {
	if e.Path == "" {
		return "schema: " + e.Err.Error()
	}
	return "schema: " + e.Path + ": " + e.Err.Error()
}

func (e *FieldError) Unwrap() error { return e.Err }

// Errors is the list of all the validation errors found in a document.
type Errors []error

func (errs Errors) Error() string {
	msgs := make([]string, len(errs))
	for i, err := range errs {
		msgs[i] = err.Error()
	}
	return strings.Join(msgs, "\n")
}

func (errs Errors) Unwrap() []error { return errs }
