package backend

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/rs/zerolog"
)

func decode(t *testing.T, raw string) Record {
	t.Helper()
	var m map[string]interface{}
	if err := json.Unmarshal([]byte(raw), &m); err != nil {
		t.Fatalf("decode fixture: %v", err)
	}
	return Record(m)
}

func TestGetFallbackOrder(t *testing.T) {
	r := decode(t, `{"numero_calle": "742", "nulo": null}`)

	if v, ok := r.Get("numero", "numero_calle"); !ok || v != "742" {
		t.Errorf("Get fallback = %v, %v; want 742", v, ok)
	}
	if _, ok := r.Get("nulo"); ok {
		t.Error("null value should read as absent")
	}
	if _, ok := r.Get("ausente"); ok {
		t.Error("missing key should read as absent")
	}
}

func TestString(t *testing.T) {
	r := decode(t, `{"s": "hola", "n": 1234, "f": 12.5, "b": true}`)

	tests := []struct {
		key  string
		want string
	}{
		{"s", "hola"},
		{"n", "1234"},
		{"f", "12.5"},
		{"b", "true"},
	}
	for _, tt := range tests {
		if got, ok := r.String(tt.key); !ok || got != tt.want {
			t.Errorf("String(%q) = %q, %v; want %q", tt.key, got, ok, tt.want)
		}
	}
	if got := r.StringOr("def", "ausente"); got != "def" {
		t.Errorf("StringOr = %q, want def", got)
	}
}

func TestBoolCoercion(t *testing.T) {
	r := decode(t, `{"b": true, "one": 1, "zero": 0, "st": "TRUE", "sf": "no", "obj": {}}`)

	tests := []struct {
		key       string
		want, okw bool
	}{
		{"b", true, true},
		{"one", true, true},
		{"zero", false, true},
		{"st", true, true},
		{"sf", false, true},
		{"obj", false, false},
		{"ausente", false, false},
	}
	for _, tt := range tests {
		if got, ok := r.Bool(tt.key); got != tt.want || ok != tt.okw {
			t.Errorf("Bool(%q) = %v, %v; want %v, %v", tt.key, got, ok, tt.want, tt.okw)
		}
	}
}

func TestDateCoercion(t *testing.T) {
	log := zerolog.Nop()
	r := decode(t, `{"millis": 946684800000, "plain": "2021-06-15", "rfc": "2021-06-15T10:30:00Z", "junk": "ayer"}`)

	if got, ok := r.Date(log, "millis"); !ok || got.Year() != 2000 {
		t.Errorf("Date(millis) = %v, %v", got, ok)
	}
	if got, ok := r.Date(log, "plain"); !ok || !got.Equal(time.Date(2021, 6, 15, 0, 0, 0, 0, time.UTC)) {
		t.Errorf("Date(plain) = %v, %v", got, ok)
	}
	if got, ok := r.Date(log, "rfc"); !ok || got.Hour() != 10 {
		t.Errorf("Date(rfc) = %v, %v", got, ok)
	}
	if _, ok := r.Date(log, "junk"); ok {
		t.Error("unparseable date should be absent")
	}
	if _, ok := r.Date(log, "ausente"); ok {
		t.Error("missing date should be absent")
	}
}

func TestChildDecodesEncodedString(t *testing.T) {
	r := decode(t, `{"obj": {"a": 1}, "enc": "{\"b\": 2}", "plain": "texto"}`)

	if child, ok := r.Child("obj"); !ok || !child.Has("a") {
		t.Errorf("Child(obj) = %v, %v", child, ok)
	}
	if child, ok := r.Child("enc"); !ok || !child.Has("b") {
		t.Errorf("Child(enc) should decode the embedded JSON, got %v, %v", child, ok)
	}
	if _, ok := r.Child("plain"); ok {
		t.Error("non-object string should not yield a child")
	}
}

func TestAsRecords(t *testing.T) {
	var list interface{}
	if err := json.Unmarshal([]byte(`[{"a":1},"texto",{"b":2}]`), &list); err != nil {
		t.Fatal(err)
	}
	recs := AsRecords(list)
	if len(recs) != 2 {
		t.Fatalf("AsRecords(list) = %d records, want 2", len(recs))
	}

	var single interface{}
	if err := json.Unmarshal([]byte(`{"a":1}`), &single); err != nil {
		t.Fatal(err)
	}
	if recs := AsRecords(single); len(recs) != 1 {
		t.Errorf("AsRecords(object) = %d records, want 1", len(recs))
	}

	if recs := AsRecords("texto"); recs != nil {
		t.Errorf("AsRecords(string) = %v, want nil", recs)
	}
}
