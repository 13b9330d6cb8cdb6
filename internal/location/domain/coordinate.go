package domain

import "errors"

// ErrOutOfRange reports a coordinate outside the valid latitude/longitude ranges.
var ErrOutOfRange = errors.New("coordinate out of range")

// Coordinate is a (latitude, longitude) pair in degrees.
type Coordinate struct {
	Latitude  float64
	Longitude float64
}

// Validate checks latitude in [-90, 90] and longitude in [-180, 180].
func (c Coordinate) Validate() error {
	if c.Latitude < -90 || c.Latitude > 90 {
		return ErrOutOfRange
	}
	if c.Longitude < -180 || c.Longitude > 180 {
		return ErrOutOfRange
	}
	return nil
}
