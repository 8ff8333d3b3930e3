package telemetry

import "strings"

// Field names one of the six required sensor columns.
type Field string

const (
	Latitude  Field = "Latitud"
	Longitude Field = "Longitud"
	Altitude  Field = "Altitud"
	Ax        Field = "Ax"
	Ay        Field = "Ay"
	Az        Field = "Az"
)

// RequiredFields lists the sensor columns in canonical order. Seed derivation
// sums values in this order.
var RequiredFields = []Field{Latitude, Longitude, Altitude, Ax, Ay, Az}

// fieldAliases maps lower-cased header spellings to canonical fields.
var fieldAliases = map[string]Field{
	"latitud":   Latitude,
	"latitude":  Latitude,
	"lat":       Latitude,
	"longitud":  Longitude,
	"longitude": Longitude,
	"lon":       Longitude,
	"altitud":   Altitude,
	"altitude":  Altitude,
	"alt":       Altitude,
	"ax":        Ax,
	"ay":        Ay,
	"az":        Az,
}

// ParseField resolves a column header to a canonical field name.
func ParseField(header string) (Field, bool) {
	f, ok := fieldAliases[strings.ToLower(strings.TrimSpace(header))]
	return f, ok
}

// Row is one sample of sensor telemetry.
type Row struct {
	Latitude  float64
	Longitude float64
	Altitude  float64
	Ax        float64
	Ay        float64
	Az        float64
}

// Values returns the six fields in RequiredFields order.
func (r Row) Values() []float64 {
	return []float64{r.Latitude, r.Longitude, r.Altitude, r.Ax, r.Ay, r.Az}
}

// Get returns the value of a single field. Unknown fields read as zero.
func (r Row) Get(f Field) float64 {
	switch f {
	case Latitude:
		return r.Latitude
	case Longitude:
		return r.Longitude
	case Altitude:
		return r.Altitude
	case Ax:
		return r.Ax
	case Ay:
		return r.Ay
	case Az:
		return r.Az
	}
	return 0
}

// set assigns a single field by name.
func (r *Row) set(f Field, v float64) {
	switch f {
	case Latitude:
		r.Latitude = v
	case Longitude:
		r.Longitude = v
	case Altitude:
		r.Altitude = v
	case Ax:
		r.Ax = v
	case Ay:
		r.Ay = v
	case Az:
		r.Az = v
	}
}

// Interpolate blends two rows field by field: a*(1-t) + b*t.
// t=0 reproduces a exactly and t=1 reproduces b exactly.
func Interpolate(a, b Row, t float64) Row {
	switch t {
	case 0:
		return a
	case 1:
		return b
	}
	var out Row
	for _, f := range RequiredFields {
		out.set(f, a.Get(f)*(1-t)+b.Get(f)*t)
	}
	return out
}
