package models

import (
	"bytes"
	"fmt"
	"strconv"

	"github.com/shopspring/decimal"
)

// CoordinatePrecision is the number of fractional digits kept for stored
// coordinates. Values are rounded to this precision on every write.
const CoordinatePrecision = 6

// Coordinate is a latitude or longitude stored as a fixed-point decimal with
// six fractional digits. It serializes as a fixed six-decimal string, e.g.
// "10.000000".
type Coordinate struct {
	decimal.Decimal
}

// NewCoordinate rounds d to the stored precision.
func NewCoordinate(d decimal.Decimal) Coordinate {
	return Coordinate{Decimal: d.Round(CoordinatePrecision)}
}

// ParseCoordinate parses a decimal string such as "50.00" or "-3.703790".
func ParseCoordinate(s string) (Coordinate, error) {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return Coordinate{}, fmt.Errorf("invalid coordinate %q: %w", s, err)
	}
	return NewCoordinate(d), nil
}

func (c Coordinate) String() string {
	return c.StringFixed(CoordinatePrecision)
}

// Float64 returns the coordinate as a float64 for distance math.
func (c Coordinate) Float64() float64 {
	return c.InexactFloat64()
}

func (c Coordinate) MarshalJSON() ([]byte, error) {
	return []byte(strconv.Quote(c.String())), nil
}

// UnmarshalJSON accepts either a JSON number or a numeric string.
func (c *Coordinate) UnmarshalJSON(b []byte) error {
	s := string(bytes.Trim(b, `"`))
	parsed, err := ParseCoordinate(s)
	if err != nil {
		return err
	}
	*c = parsed
	return nil
}
