package telemetry

import "gonum.org/v1/gonum/floats"

// Range is the observed span of one field.
type Range struct {
	Min float64
	Max float64
}

// Stats holds per-field min/max over a full row sequence. It is computed once
// and used to normalize individual rows into [0,1].
type Stats struct {
	ranges map[Field]Range
}

// ComputeStats scans rows once. An empty slice yields zero ranges, which
// normalize every value to the midpoint.
func ComputeStats(rows []Row) Stats {
	s := Stats{ranges: make(map[Field]Range, len(RequiredFields))}
	if len(rows) == 0 {
		return s
	}
	col := make([]float64, len(rows))
	for _, f := range RequiredFields {
		for i, r := range rows {
			col[i] = r.Get(f)
		}
		s.ranges[f] = Range{Min: floats.Min(col), Max: floats.Max(col)}
	}
	return s
}

// Range returns the min/max for a field.
func (s Stats) Range(f Field) Range {
	return s.ranges[f]
}

// Normalize maps v into [0,1] against the field's observed range. A field with
// no spread (max == min) maps to 0.5.
func (s Stats) Normalize(f Field, v float64) float64 {
	r := s.ranges[f]
	if r.Max-r.Min == 0 {
		return 0.5
	}
	return (v - r.Min) / (r.Max - r.Min)
}

// NormalizeRow normalizes every field of r.
func (s Stats) NormalizeRow(r Row) Row {
	var out Row
	for _, f := range RequiredFields {
		out.set(f, s.Normalize(f, r.Get(f)))
	}
	return out
}
