// Package resolve walks loosely shaped provider records.
//
// Event payloads arrive as decoded JSON maps, flattened column rows or typed
// structs depending on the source and its data version. Resolve treats all of
// them the same way and falls back to a caller supplied default whenever a
// step cannot be applied.
package resolve

import (
	"reflect"
	"strings"
)

// KeyLookup is implemented by mapping-like records.
type KeyLookup interface {
	Lookup(key string) (any, bool)
}

// DefaultGetter is implemented by mapping-like records that only expose
// get-with-default access.
type DefaultGetter interface {
	Get(key string, def any) any
}

// Indexer is implemented by sequence-like records.
type Indexer interface {
	Len() int
	At(i int) any
}

// missing is handed to DefaultGetter implementations so an absent key can be
// told apart from a stored default.
type missingKey struct{}

var missing any = missingKey{}

// Resolve walks path against record and returns the value found at its end.
// Keys are strings for mapping and attribute access and ints for sequence
// access. A nil value before the last key, an absent key, an out of range
// index, a shape mismatch or a panicking accessor all yield def.
func Resolve(record any, path []any, def any) (out any) {
	defer func() {
		if recover() != nil {
			out = def
		}
	}()

	current := record
	for _, key := range path {
		if IsNil(current) {
			return def
		}
		next, ok := step(current, key)
		if !ok {
			return def
		}
		current = next
	}
	return current
}

// FirstMatch resolves each path in order and returns the first value accepted
// by usable. A usable callback that panics rejects the value.
func FirstMatch(record any, usable func(any) bool, paths ...[]any) (any, bool) {
	for _, path := range paths {
		value := Resolve(record, path, nil)
		if value == nil {
			continue
		}
		if usable == nil || accepts(usable, value) {
			return value, true
		}
	}
	return nil, false
}

func accepts(usable func(any) bool, value any) (ok bool) {
	defer func() {
		if recover() != nil {
			ok = false
		}
	}()
	return usable(value)
}

// Path is a small helper for building resolution paths inline.
func Path(keys ...any) []any {
	return keys
}

func step(current any, key any) (any, bool) {
	name, isName := key.(string)
	if isName {
		if value, found, handled := stepByName(current, name); handled {
			return value, found
		}
	}

	switch typed := current.(type) {
	case []any:
		idx, ok := asIndex(key)
		if !ok || idx < 0 || idx >= len(typed) {
			return nil, false
		}
		return typed[idx], true
	case Indexer:
		idx, ok := asIndex(key)
		if !ok || idx < 0 || idx >= typed.Len() {
			return nil, false
		}
		return typed.At(idx), true
	}

	return subscript(reflect.ValueOf(current), key)
}

// stepByName applies mapping access. handled is false when current exposes
// no mapping capability, leaving the key to sequence and reflective access.
func stepByName(current any, name string) (value any, found bool, handled bool) {
	if typed, ok := current.(map[string]any); ok {
		value, found = typed[name]
		return value, found, true
	}
	if lookup, ok := current.(KeyLookup); ok {
		if value, found = lookup.Lookup(name); found {
			return value, true, true
		}
		if _, ok := current.(DefaultGetter); !ok {
			return nil, false, true
		}
	}
	if getter, ok := current.(DefaultGetter); ok {
		value = getter.Get(name, missing)
		if value == missing {
			return nil, false, true
		}
		return value, true, true
	}
	return nil, false, false
}

// subscript covers typed maps, slices, arrays and struct fields.
func subscript(rv reflect.Value, key any) (any, bool) {
	for rv.Kind() == reflect.Pointer || rv.Kind() == reflect.Interface {
		if rv.IsNil() {
			return nil, false
		}
		rv = rv.Elem()
	}

	switch rv.Kind() {
	case reflect.Map:
		keyValue := reflect.ValueOf(key)
		if !keyValue.IsValid() {
			return nil, false
		}
		keyType := rv.Type().Key()
		if !keyValue.Type().ConvertibleTo(keyType) || keyValue.Kind() != keyType.Kind() {
			return nil, false
		}
		value := rv.MapIndex(keyValue.Convert(keyType))
		if !value.IsValid() {
			return nil, false
		}
		return value.Interface(), true
	case reflect.Slice, reflect.Array:
		idx, ok := asIndex(key)
		if !ok || idx < 0 || idx >= rv.Len() {
			return nil, false
		}
		return rv.Index(idx).Interface(), true
	case reflect.Struct:
		name, ok := key.(string)
		if !ok {
			return nil, false
		}
		return structField(rv, name)
	default:
		return nil, false
	}
}

func structField(rv reflect.Value, name string) (any, bool) {
	rt := rv.Type()
	fallback := -1
	for i := 0; i < rt.NumField(); i++ {
		field := rt.Field(i)
		if !field.IsExported() {
			continue
		}
		if field.Name == name || jsonName(field) == name {
			return rv.Field(i).Interface(), true
		}
		if fallback < 0 && strings.EqualFold(field.Name, name) {
			fallback = i
		}
	}
	if fallback >= 0 {
		return rv.Field(fallback).Interface(), true
	}
	return nil, false
}

func jsonName(field reflect.StructField) string {
	tag := field.Tag.Get("json")
	if tag == "" || tag == "-" {
		return ""
	}
	name, _, _ := strings.Cut(tag, ",")
	return name
}

func asIndex(key any) (int, bool) {
	switch typed := key.(type) {
	case int:
		return typed, true
	case int8:
		return int(typed), true
	case int16:
		return int(typed), true
	case int32:
		return int(typed), true
	case int64:
		return int(typed), true
	case uint:
		return int(typed), true
	case uint8:
		return int(typed), true
	case uint16:
		return int(typed), true
	case uint32:
		return int(typed), true
	default:
		return 0, false
	}
}

// IsNil reports whether value is nil or a nil pointer, map, slice or interface.
func IsNil(value any) bool {
	if value == nil {
		return true
	}
	rv := reflect.ValueOf(value)
	switch rv.Kind() {
	case reflect.Pointer, reflect.Map, reflect.Slice, reflect.Interface, reflect.Func, reflect.Chan:
		return rv.IsNil()
	default:
		return false
	}
}

// IsMapping reports whether value can be walked by string keys.
func IsMapping(value any) bool {
	switch value.(type) {
	case nil:
		return false
	case map[string]any, KeyLookup, DefaultGetter:
		return true
	}
	rv := reflect.ValueOf(value)
	for rv.Kind() == reflect.Pointer {
		if rv.IsNil() {
			return false
		}
		rv = rv.Elem()
	}
	return rv.Kind() == reflect.Map || rv.Kind() == reflect.Struct
}

// Len returns the length of a sequence-like value. An Indexer whose Len
// panics is reported as not a sequence.
func Len(value any) (n int, ok bool) {
	defer func() {
		if recover() != nil {
			n, ok = 0, false
		}
	}()

	switch typed := value.(type) {
	case nil:
		return 0, false
	case []any:
		return len(typed), true
	case Indexer:
		return typed.Len(), true
	case string:
		return 0, false
	}
	rv := reflect.ValueOf(value)
	for rv.Kind() == reflect.Pointer {
		if rv.IsNil() {
			return 0, false
		}
		rv = rv.Elem()
	}
	switch rv.Kind() {
	case reflect.Slice, reflect.Array:
		return rv.Len(), true
	default:
		return 0, false
	}
}
