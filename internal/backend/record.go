package backend

import (
	"encoding/json"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

// Record is one untyped JSON object from the backend. The backend's schema
// drifts between deployments, so every accessor takes a list of candidate
// keys and returns the first present, non-null value.
type Record map[string]interface{}

// Get returns the first non-null value among keys.
func (r Record) Get(keys ...string) (interface{}, bool) {
	for _, k := range keys {
		if v, ok := r[k]; ok && v != nil {
			return v, true
		}
	}
	return nil, false
}

// Has reports whether any of the keys is present and non-null.
func (r Record) Has(keys ...string) bool {
	_, ok := r.Get(keys...)
	return ok
}

// String returns the value under keys rendered as a string. Numbers are
// formatted without a decimal point when integral, matching how the backend
// itself prints ids.
func (r Record) String(keys ...string) (string, bool) {
	v, ok := r.Get(keys...)
	if !ok {
		return "", false
	}
	switch t := v.(type) {
	case string:
		return t, true
	case float64:
		if t == float64(int64(t)) {
			return strconv.FormatInt(int64(t), 10), true
		}
		return strconv.FormatFloat(t, 'f', -1, 64), true
	case bool:
		return strconv.FormatBool(t), true
	case json.Number:
		return t.String(), true
	default:
		return "", false
	}
}

// StringOr is String with a fallback.
func (r Record) StringOr(fallback string, keys ...string) string {
	if s, ok := r.String(keys...); ok {
		return s
	}
	return fallback
}

// Bool coerces the value under keys. Accepted truthy forms: a real bool,
// any non-zero number, and the string "true" (case-insensitive). Everything
// else present counts as false.
func (r Record) Bool(keys ...string) (bool, bool) {
	v, ok := r.Get(keys...)
	if !ok {
		return false, false
	}
	switch t := v.(type) {
	case bool:
		return t, true
	case float64:
		return t != 0, true
	case json.Number:
		f, err := t.Float64()
		if err != nil {
			return false, false
		}
		return f != 0, true
	case string:
		return strings.EqualFold(t, "true"), true
	default:
		return false, false
	}
}

// Int coerces the value under keys to an int.
func (r Record) Int(keys ...string) (int, bool) {
	v, ok := r.Get(keys...)
	if !ok {
		return 0, false
	}
	switch t := v.(type) {
	case float64:
		return int(t), true
	case json.Number:
		n, err := t.Int64()
		if err != nil {
			return 0, false
		}
		return int(n), true
	case string:
		n, err := strconv.Atoi(strings.TrimSpace(t))
		if err != nil {
			return 0, false
		}
		return n, true
	default:
		return 0, false
	}
}

// dateLayouts tried in order for string-typed dates.
var dateLayouts = []string{"2006-01-02", time.RFC3339}

// Date coerces the value under keys to a time. Accepted forms, in order:
// time.Time (already decoded), epoch milliseconds as a number, "2006-01-02",
// RFC3339. Unparseable values are logged at debug and treated as absent.
func (r Record) Date(log zerolog.Logger, keys ...string) (time.Time, bool) {
	v, ok := r.Get(keys...)
	if !ok {
		return time.Time{}, false
	}
	switch t := v.(type) {
	case time.Time:
		return t, true
	case float64:
		return time.UnixMilli(int64(t)).UTC(), true
	case json.Number:
		ms, err := t.Int64()
		if err == nil {
			return time.UnixMilli(ms).UTC(), true
		}
	case string:
		for _, layout := range dateLayouts {
			if ts, err := time.Parse(layout, t); err == nil {
				return ts, true
			}
		}
	}
	log.Debug().Strs("keys", keys).Interface("value", v).Msg("unparseable date dropped")
	return time.Time{}, false
}

// Child returns a nested object under keys. A JSON-encoded string holding an
// object is decoded transparently; the backend double-encodes some sections.
func (r Record) Child(keys ...string) (Record, bool) {
	v, ok := r.Get(keys...)
	if !ok {
		return nil, false
	}
	switch t := v.(type) {
	case map[string]interface{}:
		return Record(t), true
	case string:
		var m map[string]interface{}
		if err := json.Unmarshal([]byte(t), &m); err == nil {
			return Record(m), true
		}
	}
	return nil, false
}

// Records returns an array of objects under keys. Non-object elements are
// skipped.
func (r Record) Records(keys ...string) ([]Record, bool) {
	v, ok := r.Get(keys...)
	if !ok {
		return nil, false
	}
	arr, ok := v.([]interface{})
	if !ok {
		return nil, false
	}
	out := make([]Record, 0, len(arr))
	for _, el := range arr {
		if m, ok := el.(map[string]interface{}); ok {
			out = append(out, Record(m))
		}
	}
	return out, true
}

// AsRecords normalizes a decoded JSON value into a list of records: an array
// yields its object elements, a single object yields itself, anything else
// yields nil.
func AsRecords(v interface{}) []Record {
	switch t := v.(type) {
	case []interface{}:
		out := make([]Record, 0, len(t))
		for _, el := range t {
			if m, ok := el.(map[string]interface{}); ok {
				out = append(out, Record(m))
			}
		}
		return out
	case map[string]interface{}:
		return []Record{Record(t)}
	default:
		return nil
	}
}
