package store

import (
	"fmt"
	"strings"

	"gitlab.com/dirk.krummacker/addressbook/internal/model"
)

// Delimiter separates the fields of one line. It is never escaped.
const Delimiter = ";"

const bom = "\ufeff"

// header returns the header line naming the fields in column order.
func header() string {
	keys := make([]string, len(model.Fields))
	for i, f := range model.Fields {
		keys[i] = f.Key()
	}
	return strings.Join(keys, Delimiter)
}

// encode turns a record into one line without the line break. Absent fields are written as
// empty columns.
func encode(rec *model.Record) (string, error) {
	values := make([]string, len(model.Fields))
	for i, f := range model.Fields {
		v := rec.Value(f)
		if strings.Contains(v, Delimiter) || strings.ContainsAny(v, "\r\n") {
			return "", fmt.Errorf("%w: %s %q", ErrDelimiter, f.Key(), v)
		}
		values[i] = v
	}
	return strings.Join(values, Delimiter), nil
}

// columns maps the header of a file to record fields. Unknown column names map to zero and are
// ignored when decoding. If no column name is known the canonical order is assumed.
func columns(headerLine string) []model.Field {
	names := strings.Split(headerLine, Delimiter)
	cols := make([]model.Field, len(names))
	known := 0
	for i, name := range names {
		if f, ok := model.ParseField(strings.ToLower(strings.TrimSpace(name))); ok {
			cols[i] = f
			known++
		}
	}
	if known == 0 {
		cols = make([]model.Field, len(model.Fields))
		copy(cols, model.Fields)
	}
	return cols
}

// decode parses one data line using the column mapping of the header. An empty column is an
// absent field.
func decode(line string, cols []model.Field) (*model.Record, error) {
	values := strings.Split(line, Delimiter)
	if len(values) != len(cols) {
		return nil, fmt.Errorf("expected %d fields, got %d", len(cols), len(values))
	}
	rec := &model.Record{}
	for i, v := range values {
		if cols[i] == 0 || v == "" {
			continue
		}
		rec.Set(cols[i], v)
	}
	return rec, nil
}
