// Package dump renders sample results for the console.
//
// Text mode prints one line per record: scalars as their value, structs as
// Field=value pairs in declaration order with nested collections abbreviated
// to "..." and nested records to "{ }". JSON mode writes one JSON document per
// record.
package dump

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"reflect"
	"strings"
	"time"

	"github.com/kbukum/linqkit/errors"
	"github.com/kbukum/linqkit/pipeline"
)

// Formats.
const (
	FormatText = "text"
	FormatJSON = "json"
)

const (
	bold  = "\033[1m"
	reset = "\033[0m"
)

// Dumper writes records to an io.Writer and counts them.
type Dumper struct {
	w       io.Writer
	format  string
	color   bool
	written int
}

// Option configures a Dumper.
type Option func(*Dumper)

// WithColor highlights headings in text mode.
func WithColor(on bool) Option {
	return func(d *Dumper) { d.color = on }
}

// New returns a Dumper writing format ("text" or "json") to w. Unknown formats
// fall back to text.
func New(w io.Writer, format string, opts ...Option) *Dumper {
	d := &Dumper{w: w, format: format}
	if d.format != FormatJSON {
		d.format = FormatText
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Written returns the number of records written since the last Reset.
func (d *Dumper) Written() int { return d.written }

// Reset zeroes the record count.
func (d *Dumper) Reset() { d.written = 0 }

// Write renders one record.
func (d *Dumper) Write(v any) error {
	var err error
	if d.format == FormatJSON {
		err = json.NewEncoder(d.w).Encode(v)
	} else {
		_, err = fmt.Fprintln(d.w, Text(v))
	}
	if err != nil {
		return err
	}
	d.written++
	return nil
}

// Heading writes a caption such as "Threshold 1000:". Headings are not
// counted as records; in JSON mode they become {"heading": "..."} documents.
func (d *Dumper) Heading(format string, args ...any) error {
	text := fmt.Sprintf(format, args...)
	if d.format == FormatJSON {
		return json.NewEncoder(d.w).Encode(struct {
			Heading string `json:"heading"`
		}{text})
	}
	if d.color {
		text = bold + text + reset
	}
	_, err := fmt.Fprintln(d.w, text)
	return err
}

// Sequence writes every element of p, stopping at the first failure.
func Sequence[T any](ctx context.Context, d *Dumper, p *pipeline.Pipeline[T]) error {
	if d == nil {
		return errors.InvalidArgument("dumper")
	}
	return pipeline.ForEach(ctx, p, func(_ context.Context, v T) error {
		return d.Write(v)
	})
}

// Text renders v the way text mode prints it.
func Text(v any) string {
	rv := reflect.ValueOf(v)
	for rv.Kind() == reflect.Pointer || rv.Kind() == reflect.Interface {
		if rv.IsNil() {
			return "null"
		}
		rv = rv.Elem()
	}
	if s, ok := scalar(rv); ok {
		return s
	}
	switch rv.Kind() {
	case reflect.Struct:
		return fields(rv)
	case reflect.Slice, reflect.Array, reflect.Map:
		return collection(rv)
	}
	return fmt.Sprint(rv.Interface())
}

func fields(rv reflect.Value) string {
	t := rv.Type()
	parts := make([]string, 0, t.NumField())
	for i := range t.NumField() {
		f := t.Field(i)
		if !f.IsExported() || f.Tag.Get("json") == "-" {
			continue
		}
		parts = append(parts, f.Name+"="+member(rv.Field(i)))
	}
	return strings.Join(parts, "    ")
}

func collection(rv reflect.Value) string {
	if rv.Kind() == reflect.Slice && rv.Type().Elem().Kind() == reflect.Uint8 {
		return fmt.Sprintf("%x", rv.Bytes())
	}
	if rv.Kind() == reflect.Map {
		return "..."
	}
	items := make([]string, rv.Len())
	for i := range items {
		items[i] = member(rv.Index(i))
	}
	return strings.Join(items, ", ")
}

// member renders a field value one level deep.
func member(rv reflect.Value) string {
	for rv.Kind() == reflect.Pointer || rv.Kind() == reflect.Interface {
		if rv.IsNil() {
			return "null"
		}
		rv = rv.Elem()
	}
	if s, ok := scalar(rv); ok {
		return s
	}
	switch rv.Kind() {
	case reflect.Slice, reflect.Array, reflect.Map:
		return "..."
	case reflect.Struct:
		return "{ }"
	}
	return fmt.Sprint(rv.Interface())
}

var timeType = reflect.TypeFor[time.Time]()

func scalar(rv reflect.Value) (string, bool) {
	if !rv.IsValid() {
		return "null", true
	}
	if rv.Type() == timeType {
		return formatTime(rv.Interface().(time.Time)), true
	}
	if s, ok := stringer(rv); ok {
		return s, true
	}
	switch rv.Kind() {
	case reflect.String:
		return rv.String(), true
	case reflect.Bool,
		reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64,
		reflect.Float32, reflect.Float64:
		return fmt.Sprint(rv.Interface()), true
	}
	return "", false
}

func stringer(rv reflect.Value) (string, bool) {
	if !rv.CanInterface() {
		return "", false
	}
	if s, ok := rv.Interface().(fmt.Stringer); ok {
		return s.String(), true
	}
	return "", false
}

// formatTime prints calendar dates without a clock part.
func formatTime(t time.Time) string {
	if t.Hour() == 0 && t.Minute() == 0 && t.Second() == 0 && t.Nanosecond() == 0 {
		return t.Format(time.DateOnly)
	}
	return t.Format(time.DateTime)
}
