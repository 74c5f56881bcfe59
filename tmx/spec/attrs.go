package spec

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// Attr is a single XML attribute of an element, by local name.
type Attr struct {
	Name  string
	Value string
}

// Setter converts raw attribute text and stores the result.
// It reports false, leaving the destination untouched, if the text does not convert.
type Setter func(text string) bool

// Field describes one attribute to pull out of an element.
type Field struct {
	Name     string
	Required bool
	Set      Setter
}

func Required(name string, set Setter) Field {
	return Field{Name: name, Required: true, Set: set}
}

func Optional(name string, set Setter) Field {
	return Field{Name: name, Set: set}
}

// Extract scans attrs once and applies the setter of every matching field.
// Unknown attributes are ignored. Optional fields that are absent or fail to
// convert keep whatever the destination held before.
// It fails with ErrMalformedAttributes if a required field did not get a value;
// what names the element in the error message.
func Extract(attrs []Attr, what string, fields ...Field) error {
	return extract(attrs, what, false, fields)
}

// ExtractStrict is Extract, except that an optional attribute which is
// present but fails to convert is an error too.
func ExtractStrict(attrs []Attr, what string, fields ...Field) error {
	return extract(attrs, what, true, fields)
}

func extract(attrs []Attr, what string, strict bool, fields []Field) error {
	found := make([]bool, len(fields))
	var invalid []string

	for _, attr := range attrs {
		for i, field := range fields {
			if field.Name != attr.Name {
				continue
			}
			if field.Set(attr.Value) {
				found[i] = true
			} else if strict && !field.Required {
				invalid = append(invalid, fmt.Sprintf("%s=%q", attr.Name, attr.Value))
			}
			break
		}
	}

	var missing []string
	for i, field := range fields {
		if field.Required && !found[i] {
			missing = append(missing, field.Name)
		}
	}

	var errs []error
	if len(missing) > 0 {
		errs = append(errs, fmt.Errorf("%w: %s must have %s with correct types (missing or invalid: %s)",
			ErrMalformedAttributes, what, requiredNames(fields), strings.Join(missing, ", ")))
	}
	if len(invalid) > 0 {
		errs = append(errs, fmt.Errorf("%w: %s has invalid optional attributes: %s",
			ErrMalformedAttributes, what, strings.Join(invalid, ", ")))
	}
	return errors.Join(errs...)
}

func requiredNames(fields []Field) string {
	names := make([]string, 0, len(fields))
	for _, field := range fields {
		if field.Required {
			names = append(names, field.Name)
		}
	}
	return strings.Join(names, ", ")
}

// Value returns a Setter storing parse(text) into dst on success.
func Value[T any](dst *T, parse func(string) (T, error)) Setter {
	return func(text string) bool {
		v, err := parse(text)
		if err != nil {
			return false
		}
		*dst = v
		return true
	}
}

// Pointer is like Value but allocates the destination, so a nil *dst means
// the attribute was absent or invalid.
func Pointer[T any](dst **T, parse func(string) (T, error)) Setter {
	return func(text string) bool {
		v, err := parse(text)
		if err != nil {
			return false
		}
		*dst = &v
		return true
	}
}

func Text(dst *string) Setter {
	return func(text string) bool {
		*dst = text
		return true
	}
}

func Uint(dst *uint32) Setter {
	return Value(dst, ParseUint)
}

// Positive accepts unsigned integers greater than zero.
func Positive(dst *uint32) Setter {
	return Value(dst, func(s string) (uint32, error) {
		v, err := ParseUint(s)
		if err == nil && v == 0 {
			err = errors.New("must be positive")
		}
		return v, err
	})
}

func Int(dst *int32) Setter {
	return Value(dst, ParseInt)
}

func Float(dst *float32) Setter {
	return Value(dst, func(s string) (float32, error) {
		v, err := strconv.ParseFloat(s, 32)
		return float32(v), err
	})
}

// Bool accepts "1", "0", "true", "false" and the other forms of strconv.ParseBool.
func Bool(dst *bool) Setter {
	return Value(dst, strconv.ParseBool)
}

// ParseUint parses a decimal uint32.
func ParseUint(s string) (uint32, error) {
	v, err := strconv.ParseUint(s, 10, 32)
	return uint32(v), err
}

// ParseInt parses a decimal int32.
func ParseInt(s string) (int32, error) {
	v, err := strconv.ParseInt(s, 10, 32)
	return int32(v), err
}
