package adapter

import "github.com/tfsalud/fhir-bridge/internal/platform/fhir"

// DNISystem identifies the national-document identifier. Matching is exact:
// the hash id travels without a system and must never be confused with the
// DNI.
const DNISystem = "https://fhir.tfsalud.ar/dni"

// DNIIdentifier builds the identifier carrying a patient or user DNI.
func DNIIdentifier(dni string) fhir.Identifier {
	return fhir.Identifier{System: DNISystem, Value: dni}
}

// DNIOf returns the DNI from an identifier list, matching the system exactly.
func DNIOf(ids []fhir.Identifier) (string, bool) {
	for _, id := range ids {
		if id.System == DNISystem {
			return id.Value, true
		}
	}
	return "", false
}
