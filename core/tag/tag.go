// Package tag applies default values to struct fields from `default` tags.
// Config structs across the kit rely on it so zero-valued fields pick up
// sensible defaults before validation.
package tag

import (
	"errors"
	"reflect"
	"strconv"
	"strings"
	"time"
)

// TagName is the struct tag consulted for default values.
const TagName = "default"

var (
	ErrTargetMustBePointer = errors.New("tag: target must be a non-nil pointer to struct")
	ErrUnsupportedKind     = errors.New("tag: unsupported field kind for default value")
)

// ApplyDefaults walks target (a pointer to struct) and sets every zero-valued
// field that carries a `default` tag. Nested structs and non-nil struct
// pointers are walked recursively.
//
//	type Config struct {
//	    Level   string        `default:"info"`
//	    Timeout time.Duration `default:"15s"`
//	}
func ApplyDefaults(target any) error {
	v := reflect.ValueOf(target)
	if v.Kind() != reflect.Pointer || v.IsNil() {
		return ErrTargetMustBePointer
	}
	elem := v.Elem()
	if elem.Kind() != reflect.Struct {
		return ErrTargetMustBePointer
	}
	return applyStruct(elem)
}

func applyStruct(v reflect.Value) error {
	t := v.Type()
	for i := 0; i < t.NumField(); i++ {
		field := v.Field(i)
		if !field.CanSet() {
			continue
		}

		switch field.Kind() {
		case reflect.Struct:
			if err := applyStruct(field); err != nil {
				return err
			}
			continue
		case reflect.Pointer:
			if !field.IsNil() && field.Elem().Kind() == reflect.Struct {
				if err := applyStruct(field.Elem()); err != nil {
					return err
				}
			}
			continue
		}

		raw, ok := t.Field(i).Tag.Lookup(TagName)
		if !ok || !field.IsZero() {
			continue
		}
		if err := setValue(field, raw); err != nil {
			return err
		}
	}
	return nil
}

func setValue(field reflect.Value, raw string) error {
	switch field.Kind() {
	case reflect.String:
		field.SetString(raw)
	case reflect.Bool:
		b, err := strconv.ParseBool(raw)
		if err != nil {
			return err
		}
		field.SetBool(b)
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		// time.Duration is an int64 kind; accept "15s" style values for it.
		if field.Type() == reflect.TypeOf(time.Duration(0)) {
			d, err := time.ParseDuration(raw)
			if err != nil {
				return err
			}
			field.SetInt(int64(d))
			return nil
		}
		n, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			return err
		}
		field.SetInt(n)
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		n, err := strconv.ParseUint(raw, 10, 64)
		if err != nil {
			return err
		}
		field.SetUint(n)
	case reflect.Float32, reflect.Float64:
		f, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return err
		}
		field.SetFloat(f)
	case reflect.Slice:
		if field.Type().Elem().Kind() != reflect.String {
			return ErrUnsupportedKind
		}
		parts := strings.Split(raw, ",")
		s := reflect.MakeSlice(field.Type(), 0, len(parts))
		for _, p := range parts {
			if p = strings.TrimSpace(p); p != "" {
				s = reflect.Append(s, reflect.ValueOf(p).Convert(field.Type().Elem()))
			}
		}
		field.Set(s)
	default:
		return ErrUnsupportedKind
	}
	return nil
}
