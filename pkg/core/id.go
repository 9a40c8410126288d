package core

import (
	"encoding/json"
	"fmt"
	"math"
	"reflect"
	"strconv"
	"time"
)

// NormalizeID returns the canonical string form of an identifier.
//
// Strings are returned as-is, integers in base 10, floats in their shortest
// representation (1 and 1.0 both become "1"), json.Number verbatim, time.Time
// as RFC 3339 with nanoseconds in UTC and fmt.Stringer values through String.
// Anything else (including nil) yields an *InvalidIDError.
func NormalizeID(id any) (string, error) {
	switch v := id.(type) {
	case nil:
		return "", &InvalidIDError{ID: nil}
	case string:
		return v, nil
	case json.Number:
		if f, err := v.Float64(); err == nil && !isIntegerLiteral(v.String()) {
			return formatFloat(f), nil
		}
		return v.String(), nil
	case time.Time:
		return v.UTC().Format(time.RFC3339Nano), nil
	case *time.Time:
		if v == nil {
			return "", &InvalidIDError{ID: nil}
		}
		return v.UTC().Format(time.RFC3339Nano), nil
	case fmt.Stringer:
		return v.String(), nil
	}

	rv := reflect.ValueOf(id)
	switch rv.Kind() {
	case reflect.String:
		return rv.String(), nil
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return strconv.FormatInt(rv.Int(), 10), nil
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		return strconv.FormatUint(rv.Uint(), 10), nil
	case reflect.Float32, reflect.Float64:
		return formatFloat(rv.Float()), nil
	}
	return "", &InvalidIDError{ID: id}
}

// IsIdentifier reports whether v can be normalized into an identifier.
func IsIdentifier(v any) bool {
	_, err := NormalizeID(v)
	return err == nil
}

// IsZeroID reports whether an extracted identifier should be treated as missing:
// nil, the empty string, numeric zero, false and the zero time.
func IsZeroID(id any) bool {
	if id == nil {
		return true
	}
	switch v := id.(type) {
	case time.Time:
		return v.IsZero()
	case json.Number:
		f, err := v.Float64()
		return v == "" || (err == nil && f == 0)
	}
	rv := reflect.ValueOf(id)
	switch rv.Kind() {
	case reflect.Pointer, reflect.Interface:
		return rv.IsNil()
	case reflect.Float32, reflect.Float64:
		f := rv.Float()
		return f == 0 || math.IsNaN(f)
	case reflect.String, reflect.Bool,
		reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		return rv.IsZero()
	}
	return false
}

func formatFloat(f float64) string {
	if math.Abs(f) < 1e21 {
		return strconv.FormatFloat(f, 'f', -1, 64)
	}
	return strconv.FormatFloat(f, 'g', -1, 64)
}

func isIntegerLiteral(s string) bool {
	_, err := strconv.ParseInt(s, 10, 64)
	return err == nil
}
