package cmdutil

import (
	"reflect"
	"strings"
	"time"
	"unicode"
)

var timeType = reflect.TypeOf(time.Time{})

// StructToMap flattens a struct into a row keyed by column name.
//
// The column comes from the `db` tag, or the snake_cased field name when the
// tag is missing. `db:"-"` skips the field. Embedded structs are flattened,
// times are stored as RFC3339 in UTC and nil pointers become NULL.
func StructToMap[T any](value T) map[string]any {
	row := make(map[string]any)
	v := reflect.ValueOf(value)
	if v.Kind() == reflect.Pointer {
		if v.IsNil() {
			return row
		}
		v = v.Elem()
	}
	addColumns(v, row)
	return row
}

func addColumns(v reflect.Value, row map[string]any) {
	if v.Kind() != reflect.Struct {
		return
	}

	t := v.Type()
	for i := range t.NumField() {
		field := t.Field(i)
		if !field.IsExported() {
			continue
		}

		value := v.Field(i)
		if field.Anonymous && value.Kind() == reflect.Struct {
			addColumns(value, row)
			continue
		}

		column, _, _ := strings.Cut(field.Tag.Get("db"), ",")
		switch column {
		case "-":
			continue
		case "":
			column = snakeCase(field.Name)
		}
		row[column] = columnValue(value)
	}
}

func columnValue(value reflect.Value) any {
	if value.Kind() == reflect.Pointer {
		if value.IsNil() {
			return nil
		}
		value = value.Elem()
	}

	if value.Type() == timeType {
		ts := value.Interface().(time.Time)
		if ts.IsZero() {
			return ""
		}
		return ts.UTC().Format(time.RFC3339)
	}
	return value.Interface()
}

// snakeCase turns RunID into run_id and OutputPath into output_path.
func snakeCase(name string) string {
	runes := []rune(name)
	var b strings.Builder
	b.Grow(len(runes) + 4)

	for i, r := range runes {
		if unicode.IsUpper(r) && i > 0 {
			prev := runes[i-1]
			nextLower := i+1 < len(runes) && unicode.IsLower(runes[i+1])
			if unicode.IsLower(prev) || unicode.IsDigit(prev) || (unicode.IsUpper(prev) && nextLower) {
				b.WriteRune('_')
			}
		}
		b.WriteRune(unicode.ToLower(r))
	}
	return b.String()
}
