// Package report serves DiagnosticReport resources backed by the legacy
// report and annex tables. Annexes ride the same resource type, flagged by
// the is-annex extension and parented through subject.
package report

import (
	"strings"

	"github.com/tfsalud/fhir-bridge/internal/adapter"
	"github.com/tfsalud/fhir-bridge/internal/backend"
	"github.com/tfsalud/fhir-bridge/internal/platform/fhir"
)

type DiagnosticReport struct {
	ResourceType      string                `json:"resourceType"`
	ID                string                `json:"id,omitempty"`
	Status            string                `json:"status,omitempty"`
	Code              *fhir.CodeableConcept `json:"code,omitempty"`
	Subject           *fhir.Reference       `json:"subject,omitempty"`
	EffectiveDateTime string                `json:"effectiveDateTime,omitempty"`
	Conclusion        string                `json:"conclusion,omitempty"`
	Extension         []fhir.Extension      `json:"extension,omitempty"`
}

const defaultTitle = "Reporte de Diagnóstico"

// Short keys understood on the write path.
var writeVocabulary = []string{
	"is-annex",
	"report-hash-id",
	"patient-dni",
	"user-id",
	"report-type",
	"speciality-id",
	"ehr-id",
}

var reportExtensions = []struct {
	ext string
	key string
}{
	{"report-hash-id", "hash_id"},
	{"user-name", "nombre_usuario"},
	{"user-lastname", "apellido_usuario"},
	{"user-dni", "dni_usuario"},
	{"report-type-name", "nombre_tipo_informe"},
	{"user-id", "id_usuario"},
	{"report-type-id", "id_tipo_informe"},
	{"ehr-id", "id_historia_clinica"},
}

var annexExtensions = []struct {
	ext string
	key string
}{
	{"annex-id", "id_anexo"},
	{"report-type-id", "id_informe"},
	{"user-id", "id_usuario"},
	{"report-hash-id", "hash_id"},
	{"user-name", "nombre_usuario"},
	{"user-lastname", "apellido_usuario"},
}

// EncodeReport turns one backend report row into a resource. Rows without an
// id_informe get a temporary id so bundle entries stay addressable.
func EncodeReport(rec backend.Record, patientID string) *DiagnosticReport {
	r := &DiagnosticReport{
		ResourceType: "DiagnosticReport",
		Status:       "final",
		Code:         &fhir.CodeableConcept{Text: rec.StringOr(defaultTitle, "titulo")},
		Conclusion:   rec.StringOr("", "reporte"),
		Subject:      &fhir.Reference{Reference: fhir.FormatReference("Patient", patientID)},
	}
	if id, ok := rec.String("id_informe"); ok {
		r.ID = id
	} else {
		r.ID = adapter.TempID()
	}
	// The backend formats this column itself; pass it through untouched.
	r.EffectiveDateTime = rec.StringOr("", "fecha_creacion")

	for _, f := range reportExtensions {
		if v, ok := rec.String(f.key); ok {
			r.Extension = append(r.Extension, adapter.StringExt(f.ext, v))
		}
	}
	return r
}

// EncodeAnnex turns one backend annex row into a resource parented on the
// report it comments.
func EncodeAnnex(rec backend.Record, parentID string) *DiagnosticReport {
	title := "Comentario"
	if when, ok := rec.String("fecha_creacion"); ok {
		title = "Comentario - " + when
	}
	r := &DiagnosticReport{
		ResourceType: "DiagnosticReport",
		Status:       "final",
		Code:         &fhir.CodeableConcept{Text: title},
		Conclusion:   rec.StringOr("", "reporte"),
		Subject:      &fhir.Reference{Reference: fhir.FormatReference("DiagnosticReport", parentID)},
	}
	if id, ok := rec.String("hash_id"); ok {
		r.ID = id
	} else {
		r.ID = adapter.TempID()
	}
	r.EffectiveDateTime = rec.StringOr("", "fecha_creacion")

	r.Extension = append(r.Extension, adapter.BoolExt("is-annex", true))
	for _, f := range annexExtensions {
		if v, ok := rec.String(f.key); ok {
			r.Extension = append(r.Extension, adapter.StringExt(f.ext, v))
		}
	}
	return r
}

func isAnnex(r *DiagnosticReport) bool {
	ix := adapter.NewIndex(r.Extension, writeVocabulary)
	v, _ := ix.Bool("is-annex")
	return v
}

// reportPayload builds the legacy create body. Field names, the "tittle"
// spelling included, are what the backend expects.
func reportPayload(r *DiagnosticReport) map[string]interface{} {
	ix := adapter.NewIndex(r.Extension, writeVocabulary)

	title := defaultTitle
	if r.Code != nil && r.Code.Text != "" {
		title = r.Code.Text
	}

	payload := map[string]interface{}{
		"patientDni": nilIfEmpty(ix.StringOr("patient-dni", "")),
		"userId":     ix.StringOr("user-id", ""),
		"tittle":     title,
		"text":       r.Conclusion,
		"reportType": ix.StringOr("report-type", "1"),
	}
	if v, ok := ix.String("speciality-id"); ok {
		payload["specialityId"] = v
	}
	if v, ok := ix.String("ehr-id"); ok {
		payload["ehrId"] = v
	}
	return payload
}

// annexPayload resolves the parent report and builds the createAnnex body.
// Web clients have been seen sending the literal string "undefined".
func annexPayload(r *DiagnosticReport) (string, map[string]interface{}, error) {
	ix := adapter.NewIndex(r.Extension, writeVocabulary)

	parent, _ := fhir.ReferenceID(r.Subject, "DiagnosticReport")
	if parent == "" {
		parent = ix.StringOr("report-hash-id", "")
	}
	if parent == "" || parent == "undefined" {
		return "", nil, backend.ValidationError("annex requires a parent report reference")
	}

	payload := map[string]interface{}{
		"reportHashId": parent,
		"userId":       ix.StringOr("user-id", ""),
		"text":         r.Conclusion,
	}
	return parent, payload, nil
}

// createdID digs the new row id out of whatever shape the backend answered
// with. Older builds return the bare id as plain text.
func createdID(resp interface{}, keys ...string) string {
	switch t := resp.(type) {
	case map[string]interface{}:
		return backend.Record(t).StringOr("", keys...)
	case string:
		return strings.TrimSpace(t)
	}
	return ""
}

func nilIfEmpty(s string) interface{} {
	if s == "" {
		return nil
	}
	return s
}
