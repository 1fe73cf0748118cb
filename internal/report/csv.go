package report

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"reflect"
	"strings"
	"time"

	"github.com/abhisek/skillora/internal/record"
)

// ErrNothingToExport is returned by WriteCSV for an empty record list.
var ErrNothingToExport = errors.New("nothing to export")

// emptyCell is written for null and missing fields.
const emptyCell = `""`

// WriteCSV writes recs as comma-separated rows. The header holds the first
// record's JSON field names in declaration order, leaving out fields whose
// value is an object or an array. Every cell is the field's JSON encoding.
// Rows are separated by "\n" with no trailing newline.
func WriteCSV(w io.Writer, recs []record.Record) error {
	if len(recs) == 0 {
		return ErrNothingToExport
	}

	first, err := encodeRecord(recs[0])
	if err != nil {
		return err
	}
	fields, err := scalarFields(first, listFields(recs[0]))
	if err != nil {
		return fmt.Errorf("read fields of %s: %w", record.KeyOf(recs[0]), err)
	}

	lines := make([]string, 0, len(recs)+1)
	lines = append(lines, strings.Join(fields, ","))

	for _, rec := range recs {
		raw, err := encodeRecord(rec)
		if err != nil {
			return err
		}
		var values map[string]json.RawMessage
		if err := json.Unmarshal(raw, &values); err != nil {
			return fmt.Errorf("decode %s: %w", record.KeyOf(rec), err)
		}

		cells := make([]string, len(fields))
		for i, f := range fields {
			v, ok := values[f]
			if !ok || string(v) == "null" {
				cells[i] = emptyCell
				continue
			}
			cells[i] = string(v)
		}
		lines = append(lines, strings.Join(cells, ","))
	}

	_, err = io.WriteString(w, strings.Join(lines, "\n"))
	return err
}

// ExportFilename names the CSV download for kind at t.
func ExportFilename(kind record.Kind, t time.Time) string {
	return fmt.Sprintf("skillora_%s_%d.csv", kind, t.UnixMilli())
}

func encodeRecord(rec record.Record) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(rec); err != nil {
		return nil, fmt.Errorf("encode %s: %w", record.KeyOf(rec), err)
	}
	return bytes.TrimRight(buf.Bytes(), "\n"), nil
}

// scalarFields returns the top-level keys of the JSON object raw, in order,
// whose values are neither objects nor arrays. Null values are kept unless
// the key is in lists.
func scalarFields(raw []byte, lists map[string]bool) ([]string, error) {
	dec := json.NewDecoder(bytes.NewReader(raw))
	if _, err := dec.Token(); err != nil {
		return nil, err
	}

	var fields []string
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return nil, err
		}
		key, ok := tok.(string)
		if !ok {
			return nil, fmt.Errorf("unexpected token %v", tok)
		}
		var v json.RawMessage
		if err := dec.Decode(&v); err != nil {
			return nil, err
		}
		if lists[key] || len(v) > 0 && (v[0] == '{' || v[0] == '[') {
			continue
		}
		fields = append(fields, key)
	}
	return fields, nil
}

// listFields returns the JSON names of rec's slice and map fields. A nil
// slice encodes as null but is still a list column.
func listFields(rec record.Record) map[string]bool {
	t := reflect.TypeOf(rec)
	for t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	out := map[string]bool{}
	if t.Kind() != reflect.Struct {
		return out
	}
	for i := range t.NumField() {
		f := t.Field(i)
		if k := f.Type.Kind(); k != reflect.Slice && k != reflect.Map {
			continue
		}
		name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
		if name == "" {
			name = f.Name
		}
		out[name] = true
	}
	return out
}
