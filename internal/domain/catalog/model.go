// Package catalog serves the backend's reference tables: insurers and
// programs as Organization, provinces and cities as Location.
package catalog

import (
	"github.com/tfsalud/fhir-bridge/internal/backend"
	"github.com/tfsalud/fhir-bridge/internal/platform/fhir"
)

type Organization struct {
	ResourceType string                 `json:"resourceType"`
	ID           string                 `json:"id,omitempty"`
	Active       *bool                  `json:"active,omitempty"`
	Type         []fhir.CodeableConcept `json:"type,omitempty"`
	Name         string                 `json:"name,omitempty"`
}

type Location struct {
	ResourceType string                 `json:"resourceType"`
	ID           string                 `json:"id,omitempty"`
	Status       string                 `json:"status,omitempty"`
	Name         string                 `json:"name,omitempty"`
	Type         []fhir.CodeableConcept `json:"type,omitempty"`
	PartOf       *fhir.Reference        `json:"partOf,omitempty"`
}

const (
	orgTypeSystem  = "http://terminology.hl7.org/CodeSystem/organization-type"
	roleCodeSystem = "http://terminology.hl7.org/CodeSystem/v3-RoleCode"
)

func newOrganization(id, name, code, display string) *Organization {
	active := true
	return &Organization{
		ResourceType: "Organization",
		ID:           id,
		Active:       &active,
		Name:         name,
		Type: []fhir.CodeableConcept{{
			Coding: []fhir.Coding{{System: orgTypeSystem, Code: code, Display: display}},
		}},
	}
}

// EncodeInsurer maps one mutual row.
func EncodeInsurer(rec backend.Record) *Organization {
	return newOrganization(
		rec.StringOr("", "id_mutual"),
		rec.StringOr("", "nombre", "descripcion"),
		"INS", "Insurance Company",
	)
}

// EncodeProgram maps one prestacion row.
func EncodeProgram(rec backend.Record) *Organization {
	return newOrganization(
		rec.StringOr("", "id_prestacion"),
		rec.StringOr("", "nombre", "descripcion"),
		"PROG", "Program",
	)
}

// EncodeProvince maps one provincia row.
func EncodeProvince(rec backend.Record) *Location {
	return &Location{
		ResourceType: "Location",
		ID:           rec.StringOr("", "id_provincia"),
		Status:       "active",
		Name:         rec.StringOr("", "nombre", "descripcion"),
		Type: []fhir.CodeableConcept{{
			Coding: []fhir.Coding{{System: roleCodeSystem, Code: "PROV", Display: "Provincia"}},
		}},
	}
}

// EncodeCity maps one ciudad row, parented on its province when known.
func EncodeCity(rec backend.Record) *Location {
	l := &Location{
		ResourceType: "Location",
		ID:           rec.StringOr("", "id_ciudad"),
		Status:       "active",
		Name:         rec.StringOr("", "nombre", "descripcion"),
		Type: []fhir.CodeableConcept{{
			Coding: []fhir.Coding{{System: roleCodeSystem, Code: "CITY", Display: "Ciudad"}},
		}},
	}
	if prov, ok := rec.String("id_provincia"); ok {
		l.PartOf = &fhir.Reference{Reference: fhir.FormatReference("Location", prov)}
	}
	return l
}
