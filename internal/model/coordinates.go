package model

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"fmt"
	"math"
)

// ErrInvalidCoordinates is returned when a value is not a pair of finite numbers.
var ErrInvalidCoordinates = errors.New("coordinates must be a pair of finite numbers")

// Coordinates is an [x, y] pair in the map projection (EPSG:3857).
// It is a JSON array on the wire and a JSON text column in storage.
type Coordinates []float64

// NewCoordinates builds a pair.
func NewCoordinates(x, y float64) Coordinates {
	return Coordinates{x, y}
}

// Validate reports whether c is exactly two finite numbers.
func (c Coordinates) Validate() error {
	if len(c) != 2 {
		return ErrInvalidCoordinates
	}
	for _, v := range c {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return ErrInvalidCoordinates
		}
	}
	return nil
}

// X returns the first component, or 0 when c is malformed.
func (c Coordinates) X() float64 {
	if len(c) < 1 {
		return 0
	}
	return c[0]
}

// Y returns the second component, or 0 when c is malformed.
func (c Coordinates) Y() float64 {
	if len(c) < 2 {
		return 0
	}
	return c[1]
}

// Value implements driver.Valuer.
func (c Coordinates) Value() (driver.Value, error) {
	if err := c.Validate(); err != nil {
		return nil, err
	}
	// encoding/json emits the shortest representation that parses back to the same float64.
	b, err := json.Marshal([]float64(c))
	if err != nil {
		return nil, fmt.Errorf("encode coordinates: %w", err)
	}
	return string(b), nil
}

// Scan implements sql.Scanner.
func (c *Coordinates) Scan(src interface{}) error {
	var raw []byte
	switch v := src.(type) {
	case string:
		raw = []byte(v)
	case []byte:
		raw = v
	case nil:
		*c = nil
		return nil
	default:
		return fmt.Errorf("scan coordinates: unsupported type %T", src)
	}

	var pair []float64
	if err := json.Unmarshal(raw, &pair); err != nil {
		return fmt.Errorf("decode coordinates: %w", err)
	}
	*c = pair
	return nil
}
