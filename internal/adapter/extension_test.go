package adapter

import (
	"testing"

	"github.com/tfsalud/fhir-bridge/internal/platform/fhir"
)

func TestNewIndexLongestKeyWins(t *testing.T) {
	vocab := []string{"numero", "numero_afiliado"}
	exts := []fhir.Extension{
		StringExt("numero_afiliado", "A-99"),
		StringExt("numero", "742"),
	}

	ix := NewIndex(exts, vocab)
	if got := ix.StringOr("numero_afiliado", ""); got != "A-99" {
		t.Errorf("numero_afiliado = %q", got)
	}
	if got := ix.StringOr("numero", ""); got != "742" {
		t.Errorf("numero = %q", got)
	}
}

func TestNewIndexMatchesForeignBaseURL(t *testing.T) {
	// Older clients send the same short keys under other namespaces.
	exts := []fhir.Extension{
		{URL: "http://mi-servidor.com/fhir/StructureDefinition/ocupacion_actual", ValueString: "docente"},
	}
	ix := NewIndex(exts, []string{"ocupacion_actual"})
	if got := ix.StringOr("ocupacion_actual", ""); got != "docente" {
		t.Errorf("foreign base URL not matched, got %q", got)
	}
}

func TestNewIndexLastOccurrenceWins(t *testing.T) {
	exts := []fhir.Extension{
		StringExt("barrio", "Centro"),
		StringExt("barrio", "Norte"),
	}
	ix := NewIndex(exts, []string{"barrio"})
	if got := ix.StringOr("barrio", ""); got != "Norte" {
		t.Errorf("barrio = %q, want last occurrence", got)
	}
}

func TestNewIndexIgnoresUnknownKeys(t *testing.T) {
	ix := NewIndex([]fhir.Extension{StringExt("desconocido", "x")}, []string{"barrio"})
	if len(ix) != 0 {
		t.Errorf("index = %v, want empty", ix)
	}
}

func TestIndexBool(t *testing.T) {
	exts := []fhir.Extension{
		BoolExt("inactivo", true),
		StringExt("is-annex", "TRUE"),
		StringExt("otro", "no"),
	}
	ix := NewIndex(exts, []string{"inactivo", "is-annex", "otro"})

	if v, ok := ix.Bool("inactivo"); !ok || !v {
		t.Errorf("Bool(inactivo) = %v, %v", v, ok)
	}
	if v, ok := ix.Bool("is-annex"); !ok || !v {
		t.Errorf("Bool(is-annex) = %v, %v", v, ok)
	}
	if v, ok := ix.Bool("otro"); !ok || v {
		t.Errorf("Bool(otro) = %v, %v", v, ok)
	}
	if _, ok := ix.Bool("ausente"); ok {
		t.Error("Bool(ausente) should be absent")
	}
}

func TestIndexStringRendersTypedValues(t *testing.T) {
	n := 42
	exts := []fhir.Extension{
		BoolExt("flag", false),
		{URL: ExtensionBase + "cantidad", ValueInteger: &n},
	}
	ix := NewIndex(exts, []string{"flag", "cantidad"})

	if got := ix.StringOr("flag", ""); got != "false" {
		t.Errorf("flag = %q", got)
	}
	if got := ix.StringOr("cantidad", ""); got != "42" {
		t.Errorf("cantidad = %q", got)
	}
}
