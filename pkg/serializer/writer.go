// Copyright (c) 2025, NVIDIA CORPORATION.  All rights reserved.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package serializer

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"
	"reflect"
	"sort"
	"strings"
	"text/tabwriter"
	"time"

	"gopkg.in/yaml.v3"
)

// Format represents the output format type
type Format string

const (
	// FormatJSON outputs data in JSON format
	FormatJSON Format = "json"
	// FormatYAML outputs data in YAML format
	FormatYAML Format = "yaml"
	// FormatTable outputs data as FIELD/VALUE rows with flattened keys
	FormatTable Format = "table"
)

const defaultValueKey = "value"

func (f Format) IsUnknown() bool {
	switch f {
	case FormatJSON, FormatYAML, FormatTable:
		return false
	default:
		return true
	}
}

// SupportedFormats returns a list of all supported output formats.
func SupportedFormats() []string {
	return []string{
		string(FormatJSON),
		string(FormatYAML),
		string(FormatTable),
	}
}

// Writer serializes documents to an output stream.
// Close must be called to release file handles when using NewFileWriterOrStdout.
type Writer struct {
	format Format
	output io.Writer
	closer io.Closer
}

var (
	_ Serializer = (*Writer)(nil)
	_ Closer     = (*Writer)(nil)
)

// NewWriter creates a new Writer with the specified format and output destination.
// If output is nil, os.Stdout will be used.
// If format is unknown, defaults to JSON format.
func NewWriter(format Format, output io.Writer) *Writer {
	if output == nil {
		output = os.Stdout
	}
	if format.IsUnknown() {
		slog.Warn("unknown format, defaulting to JSON", "format", format)
		format = FormatJSON
	}
	return &Writer{
		format: format,
		output: output,
	}
}

// NewFileWriterOrStdout creates a Writer for path, or for stdout when path
// is empty or "-". Unlike stdout, a file that cannot be created is an error.
func NewFileWriterOrStdout(format Format, path string) (*Writer, error) {
	trimmed := strings.TrimSpace(path)
	if trimmed == "" || trimmed == "-" {
		return NewWriter(format, os.Stdout), nil
	}

	file, err := os.OpenFile(trimmed, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o644)
	if err != nil {
		return nil, fmt.Errorf("failed to create output file %s: %w", trimmed, err)
	}

	w := NewWriter(format, file)
	w.closer = file
	return w, nil
}

// Close releases any resources associated with the Writer.
// It's safe to call Close multiple times or on stdout-based writers.
func (w *Writer) Close() error {
	if w.closer == nil {
		return nil
	}
	err := w.closer.Close()
	w.closer = nil
	return err
}

// Serialize writes data in the configured format.
func (w *Writer) Serialize(_ context.Context, data any) error {
	switch w.format {
	case FormatJSON:
		return w.serializeJSON(data)
	case FormatYAML:
		return w.serializeYAML(data)
	case FormatTable:
		return w.serializeTable(data)
	default:
		return fmt.Errorf("unsupported format: %s", w.format)
	}
}

func (w *Writer) serializeJSON(data any) error {
	encoder := json.NewEncoder(w.output)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(data); err != nil {
		return fmt.Errorf("failed to serialize to JSON: %w", err)
	}
	return nil
}

func (w *Writer) serializeYAML(data any) error {
	encoder := yaml.NewEncoder(w.output)
	encoder.SetIndent(2)
	if err := encoder.Encode(data); err != nil {
		return fmt.Errorf("failed to serialize to YAML: %w", err)
	}
	return encoder.Close()
}

func (w *Writer) serializeTable(data any) error {
	flat := make(map[string]any)
	flattenValue(flat, reflect.ValueOf(data), "")
	if len(flat) == 0 {
		fmt.Fprintln(w.output, "<empty>")
		return nil
	}

	keys := make([]string, 0, len(flat))
	for k := range flat {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	tw := tabwriter.NewWriter(w.output, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "FIELD\tVALUE")
	fmt.Fprintln(tw, "-----\t-----")
	for _, key := range keys {
		fmt.Fprintf(tw, "%s\t%v\n", key, flat[key])
	}
	return tw.Flush()
}

var stringerType = reflect.TypeOf((*fmt.Stringer)(nil)).Elem()

// flattenValue walks val and records leaf values under dotted keys named
// after the json tags. Embedded structs and ",inline" fields are merged
// into the parent; fields tagged "-" are skipped.
func flattenValue(out map[string]any, val reflect.Value, prefix string) {
	if !val.IsValid() {
		return
	}

	for val.Kind() == reflect.Pointer || val.Kind() == reflect.Interface {
		if val.IsNil() {
			if prefix != "" {
				out[prefix] = nil
			}
			return
		}
		val = val.Elem()
	}

	if val.CanInterface() && (val.Type() == reflect.TypeOf(time.Duration(0)) || (val.Kind() == reflect.Struct && val.Type().Implements(stringerType))) {
		out[keyOrDefault(prefix)] = val.Interface().(fmt.Stringer).String()
		return
	}

	//nolint:exhaustive // We handle the common cases explicitly; all others go to default
	switch val.Kind() {
	case reflect.Struct:
		typ := val.Type()
		for i := 0; i < val.NumField(); i++ {
			field := typ.Field(i)
			// Unexported embedded structs still promote their exported
			// fields, as in encoding/json.
			if !field.IsExported() && (!field.Anonymous || field.Type.Kind() != reflect.Struct) {
				continue
			}
			name, inline, skip := fieldName(field)
			if skip {
				continue
			}
			key := prefix
			if !inline {
				key = joinKey(prefix, name)
			}
			flattenValue(out, val.Field(i), key)
		}
	case reflect.Map:
		for _, mapKey := range val.MapKeys() {
			key := joinKey(prefix, fmt.Sprint(mapKey))
			flattenValue(out, val.MapIndex(mapKey), key)
		}
	case reflect.Slice, reflect.Array:
		if val.Len() == 0 && prefix != "" {
			out[prefix] = "[]"
			return
		}
		for i := 0; i < val.Len(); i++ {
			key := joinKey(prefix, fmt.Sprintf("[%d]", i))
			flattenValue(out, val.Index(i), key)
		}
	default:
		if !val.CanInterface() {
			// reached through an unexported embedded struct
			out[keyOrDefault(prefix)] = fmt.Sprint(val)
			return
		}
		out[keyOrDefault(prefix)] = val.Interface()
	}
}

// fieldName returns the json name of field and whether it is inlined or
// skipped.
func fieldName(field reflect.StructField) (name string, inline, skip bool) {
	tag := field.Tag.Get("json")
	if tag == "-" {
		return "", false, true
	}
	name, opts, _ := strings.Cut(tag, ",")
	if name == "" {
		if field.Anonymous || strings.Contains(opts, "inline") {
			return "", true, false
		}
		name = field.Name
	}
	return name, false, false
}

func keyOrDefault(prefix string) string {
	if prefix == "" {
		return defaultValueKey
	}
	return prefix
}

func joinKey(prefix, suffix string) string {
	if prefix == "" {
		return suffix
	}
	if suffix == "" {
		return prefix
	}
	if strings.HasPrefix(suffix, "[") {
		return prefix + suffix
	}
	return prefix + "." + suffix
}
