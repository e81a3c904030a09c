package patient

import (
	"encoding/json"
	"testing"

	"github.com/rs/zerolog"

	"github.com/tfsalud/fhir-bridge/internal/adapter"
	"github.com/tfsalud/fhir-bridge/internal/backend"
	"github.com/tfsalud/fhir-bridge/internal/platform/fhir"
)

func record(t *testing.T, raw string) backend.Record {
	t.Helper()
	var m map[string]interface{}
	if err := json.Unmarshal([]byte(raw), &m); err != nil {
		t.Fatalf("decode fixture: %v", err)
	}
	return backend.Record(m)
}

func extValue(p *Patient, key string) (string, bool) {
	for _, e := range p.Extension {
		if e.URL == adapter.ExtensionBase+key {
			if e.ValueBoolean != nil {
				if *e.ValueBoolean {
					return "true", true
				}
				return "false", true
			}
			return e.ValueString, true
		}
	}
	return "", false
}

func TestEncodeFullRecord(t *testing.T) {
	rec := record(t, `{
		"hash_id": "abc123",
		"dni_paciente": 30123456,
		"nombre": "Lucia",
		"apellido": "Gomez",
		"fecha_nacimiento": "1990-04-12",
		"telefono": 3815551234,
		"inactivo": false,
		"hash_id_EHR": "ehr-9",
		"numero_calle": 742,
		"vive_con": "madre",
		"id_mutual": 3,
		"numero_afiliado": "A-99",
		"tutores": [{"nombre": "Marta", "parentesco": "madre"}]
	}`)

	p := Encode(rec, "abc123", zerolog.Nop())

	if p.ID != "abc123" {
		t.Errorf("ID = %q", p.ID)
	}
	if len(p.Identifier) != 2 || p.Identifier[0].Value != "abc123" {
		t.Fatalf("identifiers = %+v", p.Identifier)
	}
	if p.Identifier[1].System != adapter.DNISystem || p.Identifier[1].Value != "30123456" {
		t.Errorf("dni identifier = %+v", p.Identifier[1])
	}
	if p.BirthDate != "1990-04-12" {
		t.Errorf("birthDate = %q", p.BirthDate)
	}
	if len(p.Name) != 1 || p.Name[0].Family != "Gomez" || p.Name[0].Given[0] != "Lucia" {
		t.Errorf("name = %+v", p.Name)
	}
	if p.Active == nil || !*p.Active {
		t.Error("active should default from inactivo=false")
	}

	checks := map[string]string{
		"hash-id-ehr":     "ehr-9",
		"numero":          "742",
		"con_quien_vive":  "madre",
		"numero_afiliado": "A-99",
		"inactivo":        "false",
	}
	for key, want := range checks {
		if got, ok := extValue(p, key); !ok || got != want {
			t.Errorf("extension %s = %q, %v; want %q", key, got, ok, want)
		}
	}

	tut, ok := extValue(p, "tutores")
	if !ok {
		t.Fatal("tutores extension missing")
	}
	var parsed []map[string]interface{}
	if err := json.Unmarshal([]byte(tut), &parsed); err != nil || len(parsed) != 1 {
		t.Errorf("tutores = %q: %v", tut, err)
	}
}

func TestEncodeSparseListRow(t *testing.T) {
	rec := record(t, `{"hash_id": "p1", "nombre": "Ana", "apellido": "Diaz"}`)
	p := Encode(rec, "p1", zerolog.Nop())

	if len(p.Identifier) != 1 {
		t.Errorf("identifiers = %+v", p.Identifier)
	}
	if p.BirthDate != "" || p.Telecom != nil {
		t.Error("absent fields must be omitted, not defaulted")
	}
	if p.Active == nil || !*p.Active {
		t.Error("patients without an inactivo flag are active")
	}
}

func TestEncodeStripsPhoneHyphens(t *testing.T) {
	rec := record(t, `{"hash_id": "p3", "telefono": "11-2233"}`)
	p := Encode(rec, "p3", zerolog.Nop())
	if len(p.Telecom) != 1 || p.Telecom[0].Value != "112233" {
		t.Errorf("telecom = %+v, want value 112233", p.Telecom)
	}
	if p.Telecom[0].System != "phone" {
		t.Errorf("system = %q", p.Telecom[0].System)
	}
}

func TestEncodeInactivePatient(t *testing.T) {
	rec := record(t, `{"hash_id": "p2", "inactivo": "true"}`)
	p := Encode(rec, "p2", zerolog.Nop())
	if p.Active == nil || *p.Active {
		t.Error("inactivo=true must flip active off")
	}
	if got, _ := extValue(p, "inactivo"); got != "true" {
		t.Errorf("inactivo extension = %q", got)
	}
}

func TestDecodeBuildsBackendPayload(t *testing.T) {
	p := &Patient{
		Identifier: []fhir.Identifier{adapter.DNIIdentifier("30123456")},
		Name:       []fhir.HumanName{{Family: "Gomez", Given: []string{"Lucia", "Belen"}}},
		BirthDate:  "1990-04-12",
		Telecom:    []fhir.ContactPoint{{System: "phone", Value: "381-555-1234"}},
		Extension: []fhir.Extension{
			adapter.StringExt("numero", "742"),
			adapter.StringExt("numero_afiliado", "A-99"),
			adapter.StringExt("con_quien_vive", "madre"),
			adapter.StringExt("tutores", `[{"nombre":"Marta"}]`),
		},
	}

	payload := Decode(p, zerolog.Nop())

	if payload["dni_paciente"] != "30123456" {
		t.Errorf("dni_paciente = %v", payload["dni_paciente"])
	}
	if payload["nombre_paciente"] != "Lucia Belen" {
		t.Errorf("nombre_paciente = %v", payload["nombre_paciente"])
	}
	if payload["apellido_paciente"] != "Gomez" {
		t.Errorf("apellido_paciente = %v", payload["apellido_paciente"])
	}
	if payload["telefono"] != int64(3815551234) {
		t.Errorf("telefono = %v (%T)", payload["telefono"], payload["telefono"])
	}
	if payload["numero_calle"] != "742" {
		t.Errorf("numero_calle = %v", payload["numero_calle"])
	}
	if payload["numero_afiliado"] != "A-99" {
		t.Errorf("numero_afiliado = %v", payload["numero_afiliado"])
	}
	if payload["vive_con"] != "madre" {
		t.Errorf("vive_con = %v", payload["vive_con"])
	}
	tutores, ok := payload["tutores"].([]interface{})
	if !ok || len(tutores) != 1 {
		t.Errorf("tutores = %v", payload["tutores"])
	}
	if _, present := payload["barrio"]; present {
		t.Error("absent extensions must not reach the payload")
	}
}

func TestDecodeSingleGivenNameHasNoTrailingSpace(t *testing.T) {
	p := &Patient{Name: []fhir.HumanName{{Family: "Diaz", Given: []string{"Ana"}}}}
	payload := Decode(p, zerolog.Nop())
	if payload["nombre_paciente"] != "Ana" {
		t.Errorf("nombre_paciente = %q", payload["nombre_paciente"])
	}
}

func TestDecodeNonNumericPhonePassedThrough(t *testing.T) {
	p := &Patient{Telecom: []fhir.ContactPoint{{Value: "(381) 555-1234"}}}
	payload := Decode(p, zerolog.Nop())
	if payload["telefono"] != "(381) 5551234" {
		t.Errorf("telefono = %v", payload["telefono"])
	}
}

func TestDecodeMalformedTutoresSendsEmptyList(t *testing.T) {
	p := &Patient{Extension: []fhir.Extension{adapter.StringExt("tutores", "{not json")}}
	payload := Decode(p, zerolog.Nop())
	tutores, ok := payload["tutores"].([]interface{})
	if !ok || len(tutores) != 0 {
		t.Errorf("tutores = %v", payload["tutores"])
	}
}
