// Package adapter holds the schema-tolerant translation core: the extension
// codec and the declarative group flattener that move clinical data between
// backend JSON and FHIR extensions.
package adapter

import (
	"sort"
	"strconv"
	"strings"

	"github.com/tfsalud/fhir-bridge/internal/platform/fhir"
)

// ExtensionBase is the namespace every custom extension lives under. Clients
// historically sent other base URLs for the same short keys, so reads match
// on the short key, not the full URL.
const ExtensionBase = "https://fhir.tfsalud.ar/StructureDefinition/"

// StringExt builds a string-valued extension under the shared namespace.
func StringExt(key, value string) fhir.Extension {
	return fhir.Extension{URL: ExtensionBase + key, ValueString: value}
}

// BoolExt builds a boolean-valued extension under the shared namespace.
func BoolExt(key string, value bool) fhir.Extension {
	return fhir.Extension{URL: ExtensionBase + key, ValueBoolean: &value}
}

// Index maps short keys to extensions for the write direction. An extension
// is assigned to the longest vocabulary key its URL contains, which keeps
// keys that prefix each other (numero, numero_afiliado) from colliding. When
// a key appears more than once the last occurrence wins.
type Index map[string]fhir.Extension

// NewIndex classifies exts against the given vocabulary of short keys.
func NewIndex(exts []fhir.Extension, vocabulary []string) Index {
	vocab := make([]string, len(vocabulary))
	copy(vocab, vocabulary)
	sort.Slice(vocab, func(i, j int) bool { return len(vocab[i]) > len(vocab[j]) })

	ix := make(Index, len(exts))
	for _, ext := range exts {
		for _, key := range vocab {
			if strings.Contains(ext.URL, key) {
				ix[key] = ext
				break
			}
		}
	}
	return ix
}

func (ix Index) Has(key string) bool {
	_, ok := ix[key]
	return ok
}

// String returns the extension value rendered as a string.
func (ix Index) String(key string) (string, bool) {
	ext, ok := ix[key]
	if !ok {
		return "", false
	}
	if ext.ValueBoolean != nil {
		return strconv.FormatBool(*ext.ValueBoolean), true
	}
	if ext.ValueInteger != nil {
		return strconv.Itoa(*ext.ValueInteger), true
	}
	if ext.ValueString != "" {
		return ext.ValueString, true
	}
	return ext.ValueCode, true
}

// StringOr is String with a fallback.
func (ix Index) StringOr(key, fallback string) string {
	if s, ok := ix.String(key); ok {
		return s
	}
	return fallback
}

// Bool reads a boolean extension, accepting valueBoolean or the string
// "true" (case-insensitive).
func (ix Index) Bool(key string) (bool, bool) {
	ext, ok := ix[key]
	if !ok {
		return false, false
	}
	if ext.ValueBoolean != nil {
		return *ext.ValueBoolean, true
	}
	return strings.EqualFold(ext.ValueString, "true"), true
}
