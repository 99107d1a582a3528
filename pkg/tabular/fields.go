// SPDX-FileCopyrightText: © 2026 Impex authors
//
// SPDX-License-Identifier: AGPL-3.0-only

package tabular

import (
	"encoding"
	"fmt"
	"reflect"
	"strconv"
	"strings"
	"time"
)

var (
	textMarshalerType   = reflect.TypeOf((*encoding.TextMarshaler)(nil)).Elem()
	textUnmarshalerType = reflect.TypeOf((*encoding.TextUnmarshaler)(nil)).Elem()
	timeType            = reflect.TypeOf(time.Time{})
)

// FieldMap maps the exported fields of a struct type to dataset columns.
// Columns take their name from the "col" struct tag, falling back to the
// field name. Fields tagged `col:"-"` are skipped.
type FieldMap struct {
	typ     reflect.Type
	columns []string
	indexes []int
}

// NewFieldMap returns the [FieldMap] of the given struct type. The value
// must be a struct or a pointer to one.
func NewFieldMap(v any) (*FieldMap, error) {
	t := reflect.TypeOf(v)
	for t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	if t.Kind() != reflect.Struct {
		return nil, fmt.Errorf("tabular: %s is not a struct type", t)
	}

	fm := &FieldMap{typ: t}
	for i := range t.NumField() {
		field := t.Field(i)
		if field.PkgPath != "" {
			continue
		}
		tag := field.Tag.Get("col")
		if tag == "-" {
			continue
		}
		name, _, _ := strings.Cut(tag, ",")
		if name == "" {
			name = field.Name
		}

		fm.columns = append(fm.columns, name)
		fm.indexes = append(fm.indexes, i)
	}

	return fm, nil
}

// TypeName returns the name of the mapped struct type.
func (fm *FieldMap) TypeName() string {
	return fm.typ.Name()
}

// Columns returns the column names, in field order.
func (fm *FieldMap) Columns() []string {
	return fm.columns
}

// Row renders a struct value into a dataset row.
func (fm *FieldMap) Row(v any) ([]string, error) {
	st := reflect.Indirect(reflect.ValueOf(v))
	if st.Type() != fm.typ {
		return nil, fmt.Errorf("tabular: %s is not a %s", st.Type(), fm.typ)
	}

	row := make([]string, len(fm.indexes))
	for i, idx := range fm.indexes {
		s, err := renderValue(st.Field(idx))
		if err != nil {
			return nil, err
		}
		row[i] = s
	}
	return row, nil
}

// Scan sets the fields of dst, which must be a pointer to the mapped struct
// type, from a row matching the given header. Columns absent from the header
// keep the destination's value.
func (fm *FieldMap) Scan(header, row []string, dst any) error {
	st := reflect.ValueOf(dst)
	if st.Kind() != reflect.Pointer || reflect.Indirect(st).Type() != fm.typ {
		return fmt.Errorf("tabular: destination is not a *%s", fm.typ)
	}
	st = reflect.Indirect(st)

	for i, col := range fm.columns {
		idx := -1
		for j, h := range header {
			if strings.EqualFold(h, col) {
				idx = j
				break
			}
		}
		if idx == -1 || idx >= len(row) {
			continue
		}
		if err := scanValue(st.Field(fm.indexes[i]), row[idx]); err != nil {
			return fmt.Errorf("tabular: column %s: %w", col, err)
		}
	}

	return nil
}

func renderValue(v reflect.Value) (string, error) {
	if v.Type() == timeType {
		t := v.Interface().(time.Time)
		if t.IsZero() {
			return "", nil
		}
		return t.UTC().Format(time.RFC3339), nil
	}
	if v.CanInterface() && v.Type().Implements(textMarshalerType) {
		b, err := v.Interface().(encoding.TextMarshaler).MarshalText()
		return string(b), err
	}

	switch v.Kind() {
	case reflect.String:
		return v.String(), nil
	case reflect.Bool:
		return strconv.FormatBool(v.Bool()), nil
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return strconv.FormatInt(v.Int(), 10), nil
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return strconv.FormatUint(v.Uint(), 10), nil
	case reflect.Float32, reflect.Float64:
		return strconv.FormatFloat(v.Float(), 'f', -1, v.Type().Bits()), nil
	}

	return "", fmt.Errorf("tabular: unsupported field type %s", v.Type())
}

func scanValue(v reflect.Value, s string) error {
	if v.Type() == timeType {
		if s == "" {
			v.Set(reflect.ValueOf(time.Time{}))
			return nil
		}
		t, err := time.Parse(time.RFC3339, s)
		if err != nil {
			return err
		}
		v.Set(reflect.ValueOf(t))
		return nil
	}
	if v.CanAddr() && v.Addr().Type().Implements(textUnmarshalerType) {
		return v.Addr().Interface().(encoding.TextUnmarshaler).UnmarshalText([]byte(s))
	}

	switch v.Kind() {
	case reflect.String:
		v.SetString(s)
	case reflect.Bool:
		b, err := strconv.ParseBool(strings.TrimSpace(s))
		if err != nil {
			return err
		}
		v.SetBool(b)
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		n, err := strconv.ParseInt(strings.TrimSpace(s), 10, v.Type().Bits())
		if err != nil {
			return err
		}
		v.SetInt(n)
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		n, err := strconv.ParseUint(strings.TrimSpace(s), 10, v.Type().Bits())
		if err != nil {
			return err
		}
		v.SetUint(n)
	case reflect.Float32, reflect.Float64:
		f, err := strconv.ParseFloat(strings.TrimSpace(s), v.Type().Bits())
		if err != nil {
			return err
		}
		v.SetFloat(f)
	default:
		return fmt.Errorf("tabular: unsupported field type %s", v.Type())
	}

	return nil
}
