// Package terrain synthesizes grayscale height fields from sensor rows.
//
// A frame is built in three steps: a seed is derived from the row, a Stream
// is constructed from the seed, and Synthesize superposes Gaussian hills (or
// a single anisotropic dome) on a unit-square grid. Normalize then rescales
// the raw field to [0,1] and applies contrast shaping.
//
// Every random draw is taken from the Stream in a fixed order that never
// depends on field values, so a (seed, row, stats, params) tuple always
// reproduces the same field bit for bit.
package terrain
