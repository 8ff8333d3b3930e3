// Package telemetry holds the sensor rows that drive terrain synthesis:
// the six-field SensorRow, per-dataset min/max statistics, linear row
// interpolation for animation, and the CSV and SQLite row sources.
//
// Rows are immutable values. A row's identity is its index in the source
// sequence; interpolated rows are ordinary Row values and carry no marker.
package telemetry
