package collection

import (
	"encoding/json"
	"fmt"
	"maps"
	"reflect"

	"github.com/aretw0/herd/pkg/core"
)

var recordType = reflect.TypeFor[core.Record]()

func defaultModelID[T any](item T, cfg Config[T]) (any, bool) {
	return core.Field(item, cfg.IDAttribute)
}

func defaultDataID[T any](rec core.Record, cfg Config[T]) (any, bool) {
	id, ok := rec[cfg.IDAttribute]
	return id, ok
}

// defaultCreate hands the record over as the item when T is a record-shaped map,
// and decodes it into a freshly allocated T otherwise.
func defaultCreate[T any](rec core.Record, _ Config[T]) (T, error) {
	var zero T
	t := reflect.TypeFor[T]()

	switch {
	case recordType.ConvertibleTo(t):
		return reflect.ValueOf(rec).Convert(t).Interface().(T), nil
	case t.Kind() == reflect.Pointer:
		ptr := reflect.New(t.Elem())
		if err := decode(rec, ptr.Interface()); err != nil {
			return zero, err
		}
		return ptr.Interface().(T), nil
	case t.Kind() == reflect.Map:
		ptr := reflect.New(t)
		ptr.Elem().Set(reflect.MakeMap(t))
		if err := decode(rec, ptr.Interface()); err != nil {
			return zero, err
		}
		return ptr.Elem().Interface().(T), nil
	}
	return zero, fmt.Errorf("%w: %s", core.ErrUnsupportedItem, t)
}

// defaultUpdate copies the record's top-level fields onto existing.
// Fields missing from the record keep their current value.
func defaultUpdate[T any](existing T, rec core.Record, _ Config[T]) (T, error) {
	rv := reflect.ValueOf(existing)
	if !rv.IsValid() || ((rv.Kind() == reflect.Pointer || rv.Kind() == reflect.Map) && rv.IsNil()) {
		return existing, fmt.Errorf("cannot update a nil item")
	}

	switch {
	case rv.Type().ConvertibleTo(recordType):
		maps.Copy(rv.Convert(recordType).Interface().(core.Record), rec)
	case rv.Kind() == reflect.Pointer:
		if err := decode(rec, existing); err != nil {
			return existing, err
		}
	case rv.Kind() == reflect.Map:
		ptr := reflect.New(rv.Type())
		ptr.Elem().Set(rv)
		if err := decode(rec, ptr.Interface()); err != nil {
			return existing, err
		}
	default:
		return existing, fmt.Errorf("%w: %s", core.ErrUnsupportedItem, rv.Type())
	}
	return existing, nil
}

// decode round-trips rec through JSON into target.
func decode(rec core.Record, target any) error {
	data, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("failed to marshal record: %w", err)
	}
	if err := json.Unmarshal(data, target); err != nil {
		return fmt.Errorf("failed to decode record into %T: %w", target, err)
	}
	return nil
}
