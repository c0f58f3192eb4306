// Package document decodes YAML and JSON sources into the value model the
// query engine evaluates: ordered pathquery.Map mappings, []any sequences,
// and normalized scalars.
package document

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math"
	"strconv"

	"github.com/goccy/go-yaml"
	"github.com/jacoelho/dq/pkg/pathquery"
)

// ErrDecode reports malformed input in any supported format.
var ErrDecode = errors.New("decode error")

// Format selects the decoder applied to a source.
type Format string

const (
	// FormatAuto decodes through the YAML decoder, which accepts JSON as a
	// subset.
	FormatAuto Format = "auto"
	FormatYAML Format = "yaml"
	FormatJSON Format = "json"
)

// ParseFormat maps a flag value to a Format.
func ParseFormat(s string) (Format, error) {
	switch f := Format(s); f {
	case FormatAuto, FormatYAML, FormatJSON:
		return f, nil
	default:
		return "", fmt.Errorf("unknown input format %q", s)
	}
}

// Load decodes every document in r. YAML streams may hold multiple documents
// separated by ---; JSON inputs may hold concatenated values. Mappings keep
// their document order.
func Load(r io.Reader, format Format) ([]any, error) {
	switch format {
	case FormatJSON:
		return loadJSON(r)
	case FormatAuto, FormatYAML:
		return loadYAML(r)
	default:
		return nil, fmt.Errorf("%w: unknown format %q", ErrDecode, format)
	}
}

func loadYAML(r io.Reader) ([]any, error) {
	dec := yaml.NewDecoder(r, yaml.UseOrderedMap())
	var docs []any
	for {
		var doc any
		if err := dec.Decode(&doc); err != nil {
			if errors.Is(err, io.EOF) {
				return docs, nil
			}
			return nil, fmt.Errorf("%w: document %d: %v", ErrDecode, len(docs)+1, err)
		}
		docs = append(docs, normalizeValue(doc))
	}
}

func loadJSON(r io.Reader) ([]any, error) {
	dec := json.NewDecoder(r)
	dec.UseNumber()
	var docs []any
	for {
		tok, err := dec.Token()
		if errors.Is(err, io.EOF) {
			return docs, nil
		}
		if err != nil {
			return nil, fmt.Errorf("%w: document %d: %v", ErrDecode, len(docs)+1, err)
		}
		doc, err := decodeValue(dec, tok)
		if err != nil {
			return nil, fmt.Errorf("%w: document %d: %v", ErrDecode, len(docs)+1, err)
		}
		docs = append(docs, doc)
	}
}

func decodeValue(dec *json.Decoder, tok json.Token) (any, error) {
	switch t := tok.(type) {
	case json.Delim:
		switch t {
		case '{':
			return decodeObject(dec)
		case '[':
			return decodeArray(dec)
		default:
			return nil, fmt.Errorf("unexpected delimiter %q", t.String())
		}
	case json.Number:
		return normalizeNumber(t), nil
	default:
		return t, nil
	}
}

// decodeObject consumes tokens through the matching close brace, keeping
// key order.
func decodeObject(dec *json.Decoder) (any, error) {
	obj := make(pathquery.Map, 0)
	for {
		tok, err := dec.Token()
		if err != nil {
			return nil, err
		}
		if delim, ok := tok.(json.Delim); ok && delim == '}' {
			return obj, nil
		}
		key, ok := tok.(string)
		if !ok {
			return nil, fmt.Errorf("expected object key, got %v", tok)
		}
		valueTok, err := dec.Token()
		if err != nil {
			return nil, err
		}
		value, err := decodeValue(dec, valueTok)
		if err != nil {
			return nil, err
		}
		obj = append(obj, pathquery.MapEntry{Key: key, Value: value})
	}
}

func decodeArray(dec *json.Decoder) (any, error) {
	arr := make([]any, 0)
	for {
		tok, err := dec.Token()
		if err != nil {
			return nil, err
		}
		if delim, ok := tok.(json.Delim); ok && delim == ']' {
			return arr, nil
		}
		value, err := decodeValue(dec, tok)
		if err != nil {
			return nil, err
		}
		arr = append(arr, value)
	}
}

// normalizeValue rewrites decoder output into the engine value model:
// yaml.MapSlice becomes pathquery.Map with stringified keys, and integers
// collapse to int64, keeping uint64 only above MaxInt64.
func normalizeValue(v any) any {
	switch value := v.(type) {
	case yaml.MapSlice:
		entries := make(pathquery.Map, 0, len(value))
		for _, item := range value {
			entries = append(entries, pathquery.MapEntry{
				Key:   keyString(item.Key),
				Value: normalizeValue(item.Value),
			})
		}
		return entries
	case []any:
		out := make([]any, len(value))
		for i, element := range value {
			out[i] = normalizeValue(element)
		}
		return out
	case int:
		return int64(value)
	case uint64:
		if value > math.MaxInt64 {
			return value
		}
		return int64(value)
	default:
		return value
	}
}

func keyString(key any) string {
	switch k := key.(type) {
	case string:
		return k
	case bool:
		return strconv.FormatBool(k)
	case int64:
		return strconv.FormatInt(k, 10)
	case uint64:
		return strconv.FormatUint(k, 10)
	case float64:
		return strconv.FormatFloat(k, 'g', -1, 64)
	case nil:
		return "null"
	default:
		return fmt.Sprint(k)
	}
}

// normalizeNumber keeps integers exact: int64 first, uint64 beyond MaxInt64,
// float64 otherwise.
func normalizeNumber(n json.Number) any {
	if i, err := strconv.ParseInt(n.String(), 10, 64); err == nil {
		return i
	}
	if u, err := strconv.ParseUint(n.String(), 10, 64); err == nil {
		return u
	}
	if f, err := n.Float64(); err == nil {
		return f
	}
	return n
}
