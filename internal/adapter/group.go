package adapter

import (
	"fmt"

	"github.com/tfsalud/fhir-bridge/internal/backend"
	"github.com/tfsalud/fhir-bridge/internal/platform/fhir"
)

// Field binds one extension short key to its location in the backend
// payloads. The backend reads and writes the record through different
// shapes, so each field carries both paths: Read is the path in the record
// the backend returns (nil for write-only fields), Write the path in the
// payload it accepts. The last path element is the field name.
type Field struct {
	Ext   string
	Read  []string
	Write []string
}

// GroupSchema is an ordered table of fields. Flatten and Unflatten are the
// only two operations; everything the facade knows about a grouped document
// lives in its schema, not in code.
type GroupSchema []Field

// Keys returns the distinct extension short keys in schema order, usable as
// an Index vocabulary.
func (s GroupSchema) Keys() []string {
	seen := make(map[string]bool, len(s))
	keys := make([]string, 0, len(s))
	for _, f := range s {
		if !seen[f.Ext] {
			seen[f.Ext] = true
			keys = append(keys, f.Ext)
		}
	}
	return keys
}

// Flatten walks the backend record along each field's read path and emits
// one extension per present value. Absent groups and fields are skipped,
// never defaulted. Intermediate objects that arrive as JSON-encoded strings
// are decoded transparently.
func (s GroupSchema) Flatten(rec backend.Record) []fhir.Extension {
	var exts []fhir.Extension
	for _, f := range s {
		if len(f.Read) == 0 {
			continue
		}
		cur := rec
		ok := true
		for _, step := range f.Read[:len(f.Read)-1] {
			cur, ok = cur.Child(step)
			if !ok {
				break
			}
		}
		if !ok {
			continue
		}
		leaf := f.Read[len(f.Read)-1]
		if v, present := cur.Get(leaf); present {
			if b, isBool := v.(bool); isBool {
				exts = append(exts, BoolExt(f.Ext, b))
				continue
			}
		}
		if val, present := cur.String(leaf); present {
			exts = append(exts, StringExt(f.Ext, val))
		}
	}
	return exts
}

// Unflatten rebuilds the backend write shape from an extension index. Every
// schema field is emitted; missing extensions default to "" so the backend
// always receives a complete document. Panics on a field with no write path,
// which is a schema authoring error.
func (s GroupSchema) Unflatten(ix Index) map[string]interface{} {
	root := make(map[string]interface{})
	for _, f := range s {
		if len(f.Write) == 0 {
			panic(fmt.Sprintf("adapter: schema field %q has no write path", f.Ext))
		}
		cur := root
		for _, step := range f.Write[:len(f.Write)-1] {
			next, ok := cur[step].(map[string]interface{})
			if !ok {
				next = make(map[string]interface{})
				cur[step] = next
			}
			cur = next
		}
		if b, ok := ix.Bool(f.Ext); ok && ix[f.Ext].ValueBoolean != nil {
			cur[f.Write[len(f.Write)-1]] = b
			continue
		}
		cur[f.Write[len(f.Write)-1]] = ix.StringOr(f.Ext, "")
	}
	return root
}
