package nzmap

import (
	"os"

	"gonum.org/v1/plot/vg/vgimg"
)

// WritePNG serializes a rendered canvas to a PNG file. A failure is a
// WriteError for this artifact only; a crash mid-write can leave a
// partial file.
func WritePNG(img *vgimg.Canvas, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return &WriteError{Path: path, Err: err}
	}
	pngc := vgimg.PngCanvas{Canvas: img}
	if _, err := pngc.WriteTo(f); err != nil {
		f.Close()
		return &WriteError{Path: path, Err: err}
	}
	if err := f.Close(); err != nil {
		return &WriteError{Path: path, Err: err}
	}
	return nil
}

// WriteHTML serializes an interactive document to a self-contained HTML
// file viewable in a browser.
func WriteHTML(doc []byte, path string) error {
	if err := os.WriteFile(path, doc, 0o644); err != nil {
		return &WriteError{Path: path, Err: err}
	}
	return nil
}
