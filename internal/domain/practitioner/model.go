// Package practitioner maps backend user accounts onto FHIR Practitioner
// resources. The backend has no single-user read, so reads scan the list.
package practitioner

import (
	"time"

	"github.com/rs/zerolog"

	"github.com/tfsalud/fhir-bridge/internal/adapter"
	"github.com/tfsalud/fhir-bridge/internal/backend"
	"github.com/tfsalud/fhir-bridge/internal/platform/fhir"
)

type Practitioner struct {
	ResourceType string              `json:"resourceType"`
	ID           string              `json:"id,omitempty"`
	Identifier   []fhir.Identifier   `json:"identifier,omitempty"`
	Active       *bool               `json:"active,omitempty"`
	Name         []fhir.HumanName    `json:"name,omitempty"`
	Telecom      []fhir.ContactPoint `json:"telecom,omitempty"`
	BirthDate    string              `json:"birthDate,omitempty"`
	Extension    []fhir.Extension    `json:"extension,omitempty"`
}

var writeVocabulary = []string{"id-tipo-usuario"}

// Encode turns one backend user row into a resource.
func Encode(rec backend.Record, log zerolog.Logger) *Practitioner {
	p := &Practitioner{
		ResourceType: "Practitioner",
		ID:           rec.StringOr("", "hash_id"),
	}
	if dni, ok := rec.String("dni_usuario", "dni"); ok {
		p.Identifier = append(p.Identifier, adapter.DNIIdentifier(dni))
	}

	nombre, okN := rec.String("nombre", "nombre_usuario")
	apellido, okA := rec.String("apellido", "apellido_usuario")
	if okN && okA {
		p.Name = []fhir.HumanName{{Family: apellido, Given: []string{nombre}}}
	}

	if email, ok := rec.String("email"); ok {
		p.Telecom = []fhir.ContactPoint{{System: "email", Value: email}}
	}
	if born, ok := rec.Date(log, "fecha_nacimiento"); ok {
		p.BirthDate = born.Format("2006-01-02")
	}

	inactivo, _ := rec.Bool("inactivo")
	active := !inactivo
	p.Active = &active

	if tipo, ok := rec.String("id_tipo_usuario"); ok {
		p.Extension = append(p.Extension, adapter.StringExt("id-tipo-usuario", tipo))
	}
	return p
}

// CreatePayload builds the user registration body. The backend needs the DNI
// and birth date to provision credentials.
func CreatePayload(p *Practitioner) (map[string]interface{}, error) {
	dni, ok := adapter.DNIOf(p.Identifier)
	if !ok || dni == "" {
		return nil, backend.ValidationError("practitioner requires a DNI identifier")
	}
	if p.BirthDate == "" {
		return nil, backend.ValidationError("practitioner requires a birthDate")
	}

	var given, family string
	if len(p.Name) > 0 {
		if len(p.Name[0].Given) > 0 {
			given = p.Name[0].Given[0]
		}
		family = p.Name[0].Family
	}
	var email string
	for _, t := range p.Telecom {
		if t.System == "email" && t.Value != "" {
			email = t.Value
			break
		}
	}

	ix := adapter.NewIndex(p.Extension, writeVocabulary)
	user := map[string]interface{}{
		"dni_usuario":      dni,
		"nombre_usuario":   given,
		"apellido_usuario": family,
		"email":            email,
		"fecha_nacimiento": p.BirthDate,
		"id_tipo_usuario":  ix.StringOr("id-tipo-usuario", ""),
	}
	return map[string]interface{}{"user": user}, nil
}

// UserTypes reshapes the backend type table as a ValueSet expansion.
func UserTypes(records []backend.Record) *fhir.ValueSet {
	exp := &fhir.ValueSetExpansion{
		Timestamp: time.Now().UTC(),
		Total:     len(records),
	}
	for _, rec := range records {
		id := rec.StringOr("", "id_tipo_usuario")
		display := rec.StringOr("Tipo de Usuario "+id, "nombre", "descripcion", "tipo", "name")
		exp.Contains = append(exp.Contains, fhir.ValueSetContains{Code: id, Display: display})
	}
	return &fhir.ValueSet{
		ResourceType: "ValueSet",
		ID:           "user-types",
		Status:       "active",
		Expansion:    exp,
	}
}
