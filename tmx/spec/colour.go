package spec

import (
	"fmt"
	"strconv"
	"strings"
)

type Colour struct {
	Red   uint8
	Green uint8
	Blue  uint8
}

// ParseColour parses "rrggbb" or "#rrggbb".
func ParseColour(s string) (Colour, error) {
	hex := strings.TrimPrefix(s, "#")
	if len(hex) != 6 {
		return Colour{}, fmt.Errorf("%w: colour %q must have 6 hex digits", ErrMalformedAttributes, s)
	}
	var channels [3]uint8
	for i := range channels {
		v, err := strconv.ParseUint(hex[2*i:2*i+2], 16, 8)
		if err != nil {
			return Colour{}, fmt.Errorf("%w: colour %q: %w", ErrMalformedAttributes, s, err)
		}
		channels[i] = uint8(v)
	}
	return Colour{Red: channels[0], Green: channels[1], Blue: channels[2]}, nil
}

func (c Colour) String() string {
	return fmt.Sprintf("#%02x%02x%02x", c.Red, c.Green, c.Blue)
}
