// Copyright ©2026 The nzmap Authors. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

// Package cmpimg checks that rendering is reproducible: the same inputs
// and parameters must produce pixel-identical images within a run.
package cmpimg

import (
	"bytes"
	"testing"

	"gonum.org/v1/plot/vg/vgimg"
)

// Encode serializes a canvas to PNG bytes, failing the test on error.
func Encode(tb testing.TB, img *vgimg.Canvas) []byte {
	tb.Helper()
	var buf bytes.Buffer
	pngc := vgimg.PngCanvas{Canvas: img}
	if _, err := pngc.WriteTo(&buf); err != nil {
		tb.Fatalf("encoding png: %v", err)
	}
	return buf.Bytes()
}

// CheckSame runs render twice and requires byte-identical PNG output.
func CheckSame(tb testing.TB, render func() (*vgimg.Canvas, error)) {
	tb.Helper()
	first, err := render()
	if err != nil {
		tb.Fatalf("first render: %v", err)
	}
	second, err := render()
	if err != nil {
		tb.Fatalf("second render: %v", err)
	}
	a, b := Encode(tb, first), Encode(tb, second)
	if !bytes.Equal(a, b) {
		tb.Errorf("renders differ: %d vs %d bytes", len(a), len(b))
	}
}
