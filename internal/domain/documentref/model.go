// Package documentref serves patient files as DocumentReference resources
// and forwards uploads to the backend file store.
package documentref

import (
	"github.com/tfsalud/fhir-bridge/internal/adapter"
	"github.com/tfsalud/fhir-bridge/internal/backend"
	"github.com/tfsalud/fhir-bridge/internal/platform/fhir"
)

type DocumentReference struct {
	ResourceType string                `json:"resourceType"`
	ID           string                `json:"id,omitempty"`
	Status       string                `json:"status,omitempty"`
	Type         *fhir.CodeableConcept `json:"type,omitempty"`
	Subject      *fhir.Reference       `json:"subject,omitempty"`
	Description  string                `json:"description,omitempty"`
	Content      []Content             `json:"content,omitempty"`
	Extension    []fhir.Extension      `json:"extension,omitempty"`
}

type Content struct {
	Attachment fhir.Attachment `json:"attachment"`
}

// Short keys understood when an upload carries metadata as extensions.
var uploadVocabulary = []string{
	"patient-hash-id",
	"user-id",
	"report-id",
	"file-title",
	"file-description",
}

var fileExtensions = []struct {
	ext string
	key string
}{
	{"file-type", "type"},
	{"file-url", "url"},
	{"file-name", "name"},
	{"file-title", "titulo"},
	{"file-description", "descripcion"},
}

// Encode turns one backend file row into a resource.
func Encode(rec backend.Record, patientID string) *DocumentReference {
	d := &DocumentReference{
		ResourceType: "DocumentReference",
		Status:       "current",
		Type:         &fhir.CodeableConcept{Text: rec.StringOr("Archivo", "type")},
		Subject:      &fhir.Reference{Reference: fhir.FormatReference("Patient", patientID)},
		Description:  rec.StringOr("", "name", "titulo"),
	}
	if id, ok := rec.String("id"); ok {
		d.ID = id
	} else {
		d.ID = adapter.TempID()
	}
	if u, ok := rec.String("url"); ok {
		d.Content = []Content{{Attachment: fhir.Attachment{URL: u}}}
	}
	for _, f := range fileExtensions {
		if v, ok := rec.String(f.key); ok {
			d.Extension = append(d.Extension, adapter.StringExt(f.ext, v))
		}
	}
	return d
}

// uploadMeta resolves the backend form fields from the resource sent next to
// the file part.
func uploadMeta(d *DocumentReference) (map[string]string, error) {
	ix := adapter.NewIndex(d.Extension, uploadVocabulary)

	hashID, ok := fhir.ReferenceID(d.Subject, "Patient")
	if !ok {
		hashID = ix.StringOr("patient-hash-id", "")
	}
	if hashID == "" {
		return nil, backend.ValidationError("upload requires a subject patient reference")
	}
	userID := ix.StringOr("user-id", "")
	if userID == "" {
		return nil, backend.ValidationError("upload requires the user-id extension")
	}

	fields := map[string]string{
		"hash_id": hashID,
		"userId":  userID,
	}
	if v, ok := ix.String("report-id"); ok && v != "" {
		fields["reportId"] = v
	}
	if titulo := ix.StringOr("file-title", d.Description); titulo != "" {
		fields["titulo"] = titulo
	}
	if v, ok := ix.String("file-description"); ok && v != "" {
		fields["descripcion"] = v
	}
	return fields, nil
}

// uploadResponse reshapes the backend answer for the web client.
func uploadResponse(resp interface{}) map[string]interface{} {
	if m, ok := resp.(map[string]interface{}); ok {
		if files, ok := backend.Record(m).Records("uploadedFiles"); ok && len(files) > 0 {
			f := files[0]
			return map[string]interface{}{
				"success":  true,
				"fileId":   f.StringOr("", "id"),
				"fileUrl":  f.StringOr("", "url"),
				"fileName": f.StringOr("", "name"),
				"fileType": f.StringOr("", "type"),
				"message":  "Archivo subido exitosamente",
			}
		}
	}
	return map[string]interface{}{
		"success": true,
		"message": "Archivo subido exitosamente",
	}
}
