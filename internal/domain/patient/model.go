// Package patient maps backend patient records onto FHIR Patient resources
// and back.
package patient

import (
	"encoding/json"
	"strconv"
	"strings"

	"github.com/rs/zerolog"

	"github.com/tfsalud/fhir-bridge/internal/adapter"
	"github.com/tfsalud/fhir-bridge/internal/backend"
	"github.com/tfsalud/fhir-bridge/internal/platform/fhir"
)

// Patient is the FHIR R5 shape this facade serves and accepts.
type Patient struct {
	ResourceType string              `json:"resourceType"`
	ID           string              `json:"id,omitempty"`
	Identifier   []fhir.Identifier   `json:"identifier,omitempty"`
	Active       *bool               `json:"active,omitempty"`
	Name         []fhir.HumanName    `json:"name,omitempty"`
	Telecom      []fhir.ContactPoint `json:"telecom,omitempty"`
	BirthDate    string              `json:"birthDate,omitempty"`
	Extension    []fhir.Extension    `json:"extension,omitempty"`
}

// Short keys understood on the write path. The read path emits the same keys
// plus hash-id, hash-id-ehr, prestacion and id_provincia, which the backend
// owns and never accepts back.
var writeVocabulary = []string{
	"id_ciudad",
	"barrio",
	"calle",
	"numero",
	"id_prestacion",
	"piso_departamento",
	"con_quien_vive",
	"id_mutual",
	"numero_afiliado",
	"ocupacion_actual",
	"ocupacion_anterior",
	"tutores",
}

// stringExtKeys maps a backend read key list to the extension short key it
// surfaces under. Order matters: it is the order extensions appear in.
var readExtensions = []struct {
	ext  string
	keys []string
}{
	{"hash-id", []string{"hash_id"}},
	{"hash-id-ehr", []string{"hash_id_ehr", "hash_id_EHR"}},
	{"prestacion", []string{"prestacion"}},
	{"id_prestacion", []string{"id_prestacion"}},
	{"calle", []string{"calle"}},
	{"barrio", []string{"barrio"}},
	{"id_ciudad", []string{"id_ciudad"}},
	{"piso_departamento", []string{"piso_departamento"}},
	{"numero", []string{"numero", "numero_calle"}},
	{"id_provincia", []string{"id_provincia"}},
	{"con_quien_vive", []string{"con_quien_vive", "vive_con"}},
	{"id_mutual", []string{"id_mutual"}},
	{"numero_afiliado", []string{"numero_afiliado"}},
	{"ocupacion_actual", []string{"ocupacion_actual"}},
	{"ocupacion_anterior", []string{"ocupacion_anterior"}},
}

// Encode turns one backend patient record into a resource. The list endpoint
// returns a thinner row than the detail endpoint; absent fields are simply
// omitted, so both shapes go through here.
func Encode(rec backend.Record, hashID string, log zerolog.Logger) *Patient {
	p := &Patient{ResourceType: "Patient", ID: hashID}

	if hashID != "" {
		p.Identifier = append(p.Identifier, fhir.Identifier{Value: hashID})
	}
	if dni, ok := rec.String("dni_paciente"); ok {
		p.Identifier = append(p.Identifier, adapter.DNIIdentifier(dni))
	}

	nombre, okN := rec.String("nombre")
	apellido, okA := rec.String("apellido")
	if okN && okA {
		p.Name = []fhir.HumanName{{Family: apellido, Given: []string{nombre}}}
	}

	if born, ok := rec.Date(log, "fecha_nacimiento"); ok {
		p.BirthDate = born.Format("2006-01-02")
	}

	if tel, ok := rec.String("telefono"); ok {
		// Older rows store the phone with hyphens; telecom carries digits only.
		p.Telecom = []fhir.ContactPoint{{System: "phone", Value: strings.ReplaceAll(tel, "-", "")}}
	}

	inactivo, _ := rec.Bool("inactivo")
	active := !inactivo
	p.Active = &active

	for _, f := range readExtensions {
		if v, ok := rec.String(f.keys...); ok {
			p.Extension = append(p.Extension, adapter.StringExt(f.ext, v))
		}
	}
	p.Extension = append(p.Extension, adapter.BoolExt("inactivo", inactivo))

	if tutores, ok := rec.Get("tutores"); ok {
		raw, err := json.Marshal(tutores)
		if err != nil {
			log.Warn().Err(err).Msg("tutores not serializable, dropped")
		} else {
			p.Extension = append(p.Extension, adapter.StringExt("tutores", string(raw)))
		}
	}

	return p
}

// Decode builds the backend write payload from an incoming resource.
func Decode(p *Patient, log zerolog.Logger) map[string]interface{} {
	payload := map[string]interface{}{}

	dni, _ := adapter.DNIOf(p.Identifier)
	payload["dni_paciente"] = nilIfEmpty(dni)

	var given []string
	family := ""
	if len(p.Name) > 0 {
		given = p.Name[0].Given
		family = p.Name[0].Family
	}
	payload["nombre_paciente"] = strings.TrimSpace(strings.Join(given, " "))
	payload["apellido_paciente"] = family

	if p.BirthDate != "" {
		payload["fecha_nacimiento"] = p.BirthDate
	}

	if len(p.Telecom) > 0 && p.Telecom[0].Value != "" {
		payload["telefono"] = coercePhone(p.Telecom[0].Value)
	}

	ix := adapter.NewIndex(p.Extension, writeVocabulary)
	putExt(payload, ix, "id_ciudad", "id_ciudad")
	putExt(payload, ix, "barrio", "barrio")
	putExt(payload, ix, "calle", "calle")
	putExt(payload, ix, "numero", "numero_calle")
	putExt(payload, ix, "id_prestacion", "id_prestacion")
	putExt(payload, ix, "piso_departamento", "piso_departamento")
	putExt(payload, ix, "con_quien_vive", "vive_con")
	putExt(payload, ix, "id_mutual", "id_mutual")
	putExt(payload, ix, "numero_afiliado", "numero_afiliado")
	putExt(payload, ix, "ocupacion_actual", "ocupacion_actual")
	putExt(payload, ix, "ocupacion_anterior", "ocupacion_anterior")

	if raw, ok := ix.String("tutores"); ok {
		var tutores []interface{}
		if err := json.Unmarshal([]byte(raw), &tutores); err != nil {
			log.Warn().Err(err).Msg("tutores extension is not a JSON array, sending empty list")
			tutores = []interface{}{}
		}
		payload["tutores"] = tutores
	}

	return payload
}

func putExt(payload map[string]interface{}, ix adapter.Index, ext, backendKey string) {
	if v, ok := ix.String(ext); ok {
		payload[backendKey] = v
	}
}

// coercePhone strips dashes and sends a number when the result parses as one.
// The backend column is numeric on most deployments but text on older ones.
func coercePhone(raw string) interface{} {
	cleaned := strings.ReplaceAll(raw, "-", "")
	if n, err := strconv.ParseInt(cleaned, 10, 64); err == nil {
		return n
	}
	return cleaned
}

func nilIfEmpty(s string) interface{} {
	if s == "" {
		return nil
	}
	return s
}
