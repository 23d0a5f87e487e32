// Package gdal is a convenience façade over a native geospatial library.
// It normalizes how datasets are opened and created, gives every native
// sub-collection (bands, layers, fields, features, rings, points, child
// geometries, drivers) the same ForEach/ToSlice contract, wraps bounding
// box results into Envelope values, and infers a layer schema from plain
// records.
//
// The native library is anything satisfying binding.Library; the native
// package provides a pure-Go one backed by orb.
package gdal

import (
	"errors"

	"github.com/rs/zerolog"

	"github.com/tingold/orb-gdal/binding"
)

// Errors surfaced by the façade. Their messages are part of the public
// contract and are never prefixed.
var (
	ErrOneDriverOnly    = errors.New("Only one driver can be used to create a file")
	ErrOpenDataset      = errors.New("Error opening dataset")
	ErrArrayElementType = errors.New("Array element cannot be converted into OGRFieldType")
	ErrValueType        = errors.New("Value cannot be converted into OGRFieldType")
)

// Stop can be returned by a ForEach visitor to end the iteration early.
// ForEach itself then returns nil.
var Stop = errors.New("gdal: stop iteration")

// FieldType re-exports binding.FieldType for schema consumers.
type FieldType = binding.FieldType

// Field types.
const (
	FieldTypeInteger     = binding.FieldTypeInteger
	FieldTypeReal        = binding.FieldTypeReal
	FieldTypeString      = binding.FieldTypeString
	FieldTypeDateTime    = binding.FieldTypeDateTime
	FieldTypeIntegerList = binding.FieldTypeIntegerList
	FieldTypeRealList    = binding.FieldTypeRealList
	FieldTypeStringList  = binding.FieldTypeStringList
	FieldTypeBinary      = binding.FieldTypeBinary
)

// FieldDefn re-exports binding.FieldDefn.
type FieldDefn = binding.FieldDefn

// Options configures the façade.
type Options struct {
	Logger        zerolog.Logger    // Debug events for dispatch (default: discarded)
	Quiet         bool              // Silence the native library's own error reporting (default: true)
	ConfigOptions map[string]string // Native configuration options applied once by New
}

// DefaultOptions returns default options for New.
func DefaultOptions() *Options {
	return &Options{
		Logger: zerolog.Nop(),
		Quiet:  true,
	}
}
