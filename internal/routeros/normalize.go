package routeros

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// Entity is one normalized device row. The device's ".id" identifier is
// renamed to the canonical "id" key; the remaining keys keep the device's
// hyphenated vocabulary.
type Entity map[string]string

// ID returns the canonical identifier, "" when the row has none.
func (e Entity) ID() string {
	return e["id"]
}

// normalizeREST canonicalizes a row from the JSON API: ".id" becomes "id",
// every other key is passed through untouched. REST field names are already
// hyphenated on the wire, so no separator rewriting happens here.
func normalizeREST(raw map[string]string) Entity {
	out := make(Entity, len(raw))
	for k, v := range raw {
		if k == ".id" {
			out["id"] = v
			continue
		}
		out[k] = v
	}
	return out
}

// normalizeLegacy canonicalizes a row from the binary sentence API:
// underscore-separated keys are rewritten to the hyphenated vocabulary,
// then ".id" becomes "id".
func normalizeLegacy(raw map[string]string) Entity {
	out := make(Entity, len(raw))
	for k, v := range raw {
		if k == ".id" {
			out["id"] = v
			continue
		}
		out[strings.ReplaceAll(k, "_", "-")] = v
	}
	return out
}

// normalizeRESTAll normalizes a sequence of rows, preserving order.
func normalizeRESTAll(raw []map[string]string) []Entity {
	out := make([]Entity, len(raw))
	for i, r := range raw {
		out[i] = normalizeREST(r)
	}
	return out
}

// normalizeLegacyAll normalizes a sequence of rows, preserving order.
func normalizeLegacyAll(raw []map[string]string) []Entity {
	out := make([]Entity, len(raw))
	for i, r := range raw {
		out[i] = normalizeLegacy(r)
	}
	return out
}

// StringifyAttrs flattens a decoded JSON object into the string-typed
// attribute map every device dialect speaks. Numbers decoded with
// UseNumber keep their wire form, booleans become "true"/"false" and
// null becomes the empty string.
func StringifyAttrs(row map[string]any) map[string]string {
	out := make(map[string]string, len(row))
	for k, v := range row {
		out[k] = stringifyValue(v)
	}
	return out
}

func stringifyValue(v any) string {
	switch val := v.(type) {
	case nil:
		return ""
	case string:
		return val
	case bool:
		return strconv.FormatBool(val)
	case json.Number:
		return val.String()
	default:
		return fmt.Sprintf("%v", val)
	}
}
