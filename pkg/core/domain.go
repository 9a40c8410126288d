// Package core holds the domain vocabulary shared by every herd package:
// records, identifiers, reference identity and change events.
package core

import (
	"fmt"
	"reflect"
	"strings"
)

// Record is untyped input data waiting to be reconciled into an item.
// It usually comes from an external source (a decoded JSON body, a YAML file, a CSV row).
type Record map[string]any

// Field looks up name on v.
//
// Maps with string keys are indexed directly. Structs (or pointers to structs)
// are matched by json tag first and then, case-insensitively, by Go field name.
// The boolean reports whether the field exists at all, so a present field
// holding nil returns (nil, true).
func Field(v any, name string) (any, bool) {
	rv := reflect.ValueOf(v)
	for rv.IsValid() && (rv.Kind() == reflect.Pointer || rv.Kind() == reflect.Interface) {
		if rv.IsNil() {
			return nil, false
		}
		rv = rv.Elem()
	}
	if !rv.IsValid() {
		return nil, false
	}

	switch rv.Kind() {
	case reflect.Map:
		if rv.Type().Key().Kind() != reflect.String {
			return nil, false
		}
		val := rv.MapIndex(reflect.ValueOf(name).Convert(rv.Type().Key()))
		if !val.IsValid() {
			return nil, false
		}
		return val.Interface(), true
	case reflect.Struct:
		return structField(rv, name)
	}
	return nil, false
}

func structField(rv reflect.Value, name string) (any, bool) {
	rt := rv.Type()
	fallback := -1
	for i := 0; i < rt.NumField(); i++ {
		f := rt.Field(i)
		if !f.IsExported() {
			continue
		}
		tag, _, _ := strings.Cut(f.Tag.Get("json"), ",")
		if tag == "-" {
			continue
		}
		if tag == name {
			return rv.Field(i).Interface(), true
		}
		if tag == "" && fallback < 0 && strings.EqualFold(f.Name, name) {
			fallback = i
		}
	}
	if fallback >= 0 {
		return rv.Field(fallback).Interface(), true
	}
	return nil, false
}

// Identical reports whether a and b are the same value for membership purposes.
//
// Reference kinds (pointers, maps, slices, channels, funcs) are identical when
// they point at the same memory. Comparable values fall back to ==.
func Identical(a, b any) bool {
	va, vb := reflect.ValueOf(a), reflect.ValueOf(b)
	if !va.IsValid() || !vb.IsValid() {
		return va.IsValid() == vb.IsValid()
	}
	if va.Type() != vb.Type() {
		return false
	}
	switch va.Kind() {
	case reflect.Pointer, reflect.Map, reflect.Chan, reflect.Func, reflect.UnsafePointer:
		return va.Pointer() == vb.Pointer()
	case reflect.Slice:
		return va.Pointer() == vb.Pointer() && va.Len() == vb.Len()
	}
	if va.Comparable() {
		return va.Equal(vb)
	}
	return reflect.DeepEqual(a, b)
}

// IsReferenceKind reports whether values of t share identity when copied.
func IsReferenceKind(t reflect.Type) bool {
	if t == nil {
		return false
	}
	switch t.Kind() {
	case reflect.Pointer, reflect.Map:
		return true
	}
	return false
}

// describe renders a value the way error messages quote it.
func describe(v any) string {
	if v == nil {
		return "null"
	}
	return fmt.Sprintf("%v", v)
}
