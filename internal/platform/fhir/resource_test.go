package fhir

import "testing"

func TestFormatParseReferenceRoundTrip(t *testing.T) {
	ref := FormatReference("Patient", "abc123")
	if ref != "Patient/abc123" {
		t.Fatalf("FormatReference = %q", ref)
	}
	rt, id := ParseReference(ref)
	if rt != "Patient" || id != "abc123" {
		t.Errorf("ParseReference = %q, %q", rt, id)
	}
}

func TestParseReferenceBareID(t *testing.T) {
	rt, id := ParseReference("abc123")
	if rt != "" || id != "abc123" {
		t.Errorf("ParseReference bare = %q, %q", rt, id)
	}
}

func TestReferenceID(t *testing.T) {
	tests := []struct {
		name   string
		ref    *Reference
		rt     string
		wantID string
		wantOK bool
	}{
		{"typed match", &Reference{Reference: "DiagnosticReport/r1"}, "DiagnosticReport", "r1", true},
		{"typed mismatch", &Reference{Reference: "Patient/p1"}, "DiagnosticReport", "", false},
		{"bare id", &Reference{Reference: "r1"}, "DiagnosticReport", "r1", true},
		{"nil", nil, "Patient", "", false},
		{"empty", &Reference{}, "Patient", "", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			id, ok := ReferenceID(tt.ref, tt.rt)
			if id != tt.wantID || ok != tt.wantOK {
				t.Errorf("ReferenceID = %q, %v; want %q, %v", id, ok, tt.wantID, tt.wantOK)
			}
		})
	}
}
