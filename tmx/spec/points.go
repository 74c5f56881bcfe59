package spec

import (
	"fmt"
	"strings"
)

// Point is an offset relative to the owning object's position.
type Point struct {
	X int32
	Y int32
}

// ParsePoints parses a list of "x,y" integer pairs separated by single spaces.
func ParsePoints(s string) ([]Point, error) {
	if s == "" {
		return nil, fmt.Errorf("%w: points list is empty", ErrMalformedAttributes)
	}
	pairs := strings.Split(s, " ")
	points := make([]Point, 0, len(pairs))
	for _, pair := range pairs {
		coords := strings.Split(pair, ",")
		if len(coords) != 2 {
			return nil, fmt.Errorf("%w: point %q does not have an x and y coordinate", ErrMalformedAttributes, pair)
		}
		x, errX := ParseInt(coords[0])
		y, errY := ParseInt(coords[1])
		if errX != nil || errY != nil {
			return nil, fmt.Errorf("%w: point %q does not have integer coordinates", ErrMalformedAttributes, pair)
		}
		points = append(points, Point{X: x, Y: y})
	}
	return points, nil
}
