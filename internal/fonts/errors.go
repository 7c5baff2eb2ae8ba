// Package fonts resolves CSS-style font requests to sized font handles.
// This file defines common error types used throughout the package.
package fonts

import "errors"

var (
	// ErrFontUnresolved is returned when no typeface matches a request, neither
	// the embedded glyph font, the requested families, nor any scanned family.
	ErrFontUnresolved = errors.New("unable to create font after trying all approaches")

	// ErrEmptyFontData is returned when a typeface is created from no bytes.
	ErrEmptyFontData = errors.New("font data is empty")

	// ErrUnknownFamily is returned when an alias targets an unregistered family.
	ErrUnknownFamily = errors.New("font family not found")
)
