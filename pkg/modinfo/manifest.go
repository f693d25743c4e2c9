package modinfo

import (
	"bytes"
	"encoding/json"
	"fmt"
	"regexp"
	"strings"

	"github.com/iancoleman/orderedmap"
)

var (
	utf8BOM            = []byte{0xEF, 0xBB, 0xBF}
	commentLineRegex   = regexp.MustCompile(`(?m)^\s*//[^\n]*$`)
	trailingCommaRegex = regexp.MustCompile(`,\s*([}\]])`)
)

// Manifest is a parsed modinfo.json.
//
// The underlying document is kept as an ordered map so a re-emitted
// manifest preserves the author's key order.
//
// Fields:
//   - ModID: Catalog identifier, looked up case-insensitively
//   - Name: Mod display name
//   - Version: Declared version string
//   - Description: Short description, may be empty
//   - Side: Declared game side, may be empty
type Manifest struct {
	ModID       string
	Name        string
	Version     string
	Description string
	Side        string

	fields *orderedmap.OrderedMap
}

// ParseManifest parses modinfo.json content.
//
// It performs the following operations:
//   - Step 1: Strips a UTF-8 byte order mark if present
//   - Step 2: Removes // comment lines and trailing commas
//   - Step 3: Unmarshals into an ordered map to preserve key order
//   - Step 4: Extracts the known fields with case-insensitive key lookup
//
// Parameters:
//   - data: Raw manifest bytes as read from the artifact
//
// Returns:
//   - *Manifest: The parsed manifest
//   - error: If the repaired content is still not valid JSON
func ParseManifest(data []byte) (*Manifest, error) {
	repaired := repairJSON(data)

	fields := orderedmap.New()
	if err := json.Unmarshal(repaired, fields); err != nil {
		return nil, fmt.Errorf("failed to parse modinfo.json: %w", err)
	}

	return &Manifest{
		ModID:       stringField(fields, "modid"),
		Name:        stringField(fields, "name"),
		Version:     stringField(fields, "version"),
		Description: stringField(fields, "description"),
		Side:        stringField(fields, "side"),
		fields:      fields,
	}, nil
}

// Encode re-emits the manifest as normalized JSON.
//
// It performs the following operations:
//   - Step 1: Disables HTML escaping on the ordered map and all nested maps
//   - Step 2: Encodes with 2-space indentation
//   - Step 3: Trims the trailing newline from the output
//
// Key order matches the parsed document.
//
// Returns:
//   - []byte: The normalized manifest JSON
//   - error: If encoding fails
func (m *Manifest) Encode() ([]byte, error) {
	if m.fields == nil {
		return nil, fmt.Errorf("manifest has no parsed content")
	}

	var buf bytes.Buffer
	disableOrderedMapEscape(m.fields)
	encoder := json.NewEncoder(&buf)
	encoder.SetEscapeHTML(false)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(m.fields); err != nil {
		return nil, err
	}

	return bytes.TrimRight(buf.Bytes(), "\n"), nil
}

// repairJSON fixes the JSON dialect mod authors actually write.
//
// It performs the following operations:
//   - Strips a UTF-8 byte order mark
//   - Drops lines that contain only a // comment
//   - Removes trailing commas before closing braces and brackets
//
// Parameters:
//   - data: Raw manifest bytes
//
// Returns:
//   - []byte: Content that standard JSON parsing should accept
func repairJSON(data []byte) []byte {
	data = bytes.TrimPrefix(data, utf8BOM)
	data = commentLineRegex.ReplaceAll(data, nil)
	data = trailingCommaRegex.ReplaceAll(data, []byte("$1"))
	return data
}

// stringField returns a string value by case-insensitive key lookup.
//
// Parameters:
//   - fields: The parsed ordered map
//   - key: The field name to look up, matched case-insensitively
//
// Returns:
//   - string: The value if present and a string, empty string otherwise
func stringField(fields *orderedmap.OrderedMap, key string) string {
	for _, k := range fields.Keys() {
		if !strings.EqualFold(k, key) {
			continue
		}
		if val, ok := fields.Get(k); ok {
			if s, isString := val.(string); isString {
				return s
			}
		}
		return ""
	}
	return ""
}

// disableOrderedMapEscape recursively disables HTML escaping for an ordered map and all nested maps.
//
// Parameters:
//   - m: The ordered map to process
func disableOrderedMapEscape(m *orderedmap.OrderedMap) {
	m.SetEscapeHTML(false)
	for _, key := range m.Keys() {
		val, _ := m.Get(key)
		m.Set(key, normalizeOrderedMapEscaping(val))
	}
}

// normalizeOrderedMapEscaping recursively normalizes HTML escaping for a value of any type.
//
// Parameters:
//   - val: The value to normalize, can be any type
//
// Returns:
//   - interface{}: The value with HTML escaping disabled for all nested ordered maps
func normalizeOrderedMapEscaping(val interface{}) interface{} {
	switch v := val.(type) {
	case *orderedmap.OrderedMap:
		disableOrderedMapEscape(v)
		return v
	case orderedmap.OrderedMap:
		copy := v
		disableOrderedMapEscape(&copy)
		return &copy
	case []interface{}:
		for i, item := range v {
			v[i] = normalizeOrderedMapEscaping(item)
		}
		return v
	default:
		return val
	}
}
