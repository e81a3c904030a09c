// Package history serves the fisiatric clinical history document. It rides
// the DiagnosticReport resource type through the $get-historia and
// $create-historia operations; the standard DiagnosticReport routes belong
// to the report package.
package history

import (
	"sort"
	"strings"

	"github.com/rs/zerolog"

	"github.com/tfsalud/fhir-bridge/internal/adapter"
	"github.com/tfsalud/fhir-bridge/internal/backend"
	"github.com/tfsalud/fhir-bridge/internal/domain/report"
	"github.com/tfsalud/fhir-bridge/internal/platform/fhir"
)

// Encode turns one backend history record into a DiagnosticReport carrying
// both renditions: the structured extensions and the plain-text narrative in
// the conclusion.
func Encode(rec backend.Record, patientID string, log zerolog.Logger) *report.DiagnosticReport {
	r := &report.DiagnosticReport{
		ResourceType: "DiagnosticReport",
		Status:       "final",
		Code: &fhir.CodeableConcept{
			Coding: []fhir.Coding{{System: "http://loinc.org", Code: "11450-4", Display: "Problem List Reported"}},
			Text:   "Historia Clínica Fisiátrica",
		},
		Subject:    &fhir.Reference{Reference: fhir.FormatReference("Patient", patientID)},
		Conclusion: Narrative(rec),
	}
	if id, ok := rec.String("id_hc_fisiatrica"); ok {
		r.ID = id
	} else {
		r.ID = adapter.TempID()
	}
	r.EffectiveDateTime = rec.StringOr("", "fecha_creacion")

	r.Extension = append(r.Extension, adapter.StringExt("historia-tipo", "fisiatrica"))
	r.Extension = append(r.Extension, adapter.HistorySchema.Flatten(rec)...)
	return r
}

// CreatePayload resolves the patient and rebuilds the backend write tree
// from the structured extensions.
func CreatePayload(r *report.DiagnosticReport) (string, map[string]interface{}, error) {
	pid, ok := fhir.ReferenceID(r.Subject, "Patient")
	if !ok {
		return "", nil, backend.ValidationError("historia requires a subject patient reference")
	}
	ix := adapter.NewIndex(r.Extension, adapter.HistorySchema.Keys())
	payload := map[string]interface{}{
		"hash_id":      pid,
		"hc_fisiatric": adapter.HistorySchema.Unflatten(ix),
	}
	return pid, payload, nil
}

var consultFields = []struct {
	label string
	key   string
}{
	{"DERIVADOS POR", "derivadosPor"},
	{"MEDICACIÓN ACTUAL", "medicacionActual"},
	{"ANTECEDENTES DEL CUADRO ACTUAL", "antecedentesCuadro"},
	{"ESTUDIOS REALIZADOS", "estudiosRealizados"},
}

var narrativeSections = []struct {
	label string
	paths [][]string
}{
	{"DATOS FISIOLÓGICOS", [][]string{{"fisiologico"}, {"antecedentes", "fisiologico"}}},
	{"ANAMNESIS SISTÉMICA", [][]string{{"anamnesis_sistemica"}, {"anamnesisSistemica"}}},
	{"EXAMEN FÍSICO", [][]string{{"examen_fisico"}, {"examenFisico"}}},
	{"DIAGNÓSTICO FUNCIONAL", [][]string{{"diagnostico_funcional"}, {"diagnosticoFuncional"}}},
}

// Narrative renders the history as the plain-text document clinicians read.
// Empty fields and sections are skipped; keys inside a section are sorted so
// the output is stable.
func Narrative(rec backend.Record) string {
	var b strings.Builder
	b.WriteString("HISTORIA CLÍNICA FISIÁTRICA\n\n")

	if ec, ok := rec.Child("evaluacion_consulta", "evaluacionConsulta"); ok {
		for _, f := range consultFields {
			if v, ok := ec.String(f.key); ok && v != "" {
				b.WriteString(f.label + ":\n" + v + "\n\n")
			}
		}
	}

	for _, s := range narrativeSections {
		child, ok := childAt(rec, s.paths)
		if !ok {
			continue
		}
		lines := sectionLines(child)
		if lines == "" {
			continue
		}
		b.WriteString(s.label + ":\n" + lines + "\n")
	}

	if v, ok := rec.String("conducta_seguir", "conductaSeguir"); ok && v != "" {
		b.WriteString("CONDUCTA A SEGUIR:\n" + v + "\n")
	}
	return b.String()
}

func childAt(rec backend.Record, paths [][]string) (backend.Record, bool) {
	for _, path := range paths {
		cur, ok := rec, true
		for _, step := range path {
			cur, ok = cur.Child(step)
			if !ok {
				break
			}
		}
		if ok {
			return cur, true
		}
	}
	return nil, false
}

// sectionLines renders one section as "- KEY: value" lines. Nested objects
// are inlined, which keeps the examen_fisico subgroups readable.
func sectionLines(rec backend.Record) string {
	keys := make([]string, 0, len(rec))
	for k := range rec {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var b strings.Builder
	for _, k := range keys {
		if child, ok := rec.Child(k); ok {
			b.WriteString(sectionLines(child))
			continue
		}
		if v, ok := rec.String(k); ok && v != "" {
			b.WriteString("- " + keyLabel(k) + ": " + v + "\n")
		}
	}
	return b.String()
}

func keyLabel(k string) string {
	return strings.ToUpper(strings.ReplaceAll(k, "_", " "))
}
