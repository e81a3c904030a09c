package fhir

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
)

func okHandler(c echo.Context) error {
	return c.String(http.StatusOK, c.Path())
}

func TestRegistryMountsDeclaredRoutes(t *testing.T) {
	reg := NewRegistry()
	reg.Register("Patient", InteractionRead, okHandler)
	reg.Register("Patient", InteractionSearch, okHandler)
	reg.Register("Patient", InteractionCreate, okHandler)
	reg.Register("Patient", InteractionUpdate, okHandler)
	reg.RegisterOperation("DiagnosticReport", "get-annexes", http.MethodGet, okHandler)

	e := echo.New()
	reg.Mount(e.Group("/fhir"))

	tests := []struct {
		method, path string
	}{
		{http.MethodGet, "/fhir/Patient/abc"},
		{http.MethodGet, "/fhir/Patient"},
		{http.MethodPost, "/fhir/Patient"},
		{http.MethodPut, "/fhir/Patient/abc"},
		{http.MethodGet, "/fhir/DiagnosticReport/$get-annexes"},
	}
	for _, tt := range tests {
		req := httptest.NewRequest(tt.method, tt.path, nil)
		rec := httptest.NewRecorder()
		e.ServeHTTP(rec, req)
		if rec.Code != http.StatusOK {
			t.Errorf("%s %s -> %d, want 200", tt.method, tt.path, rec.Code)
		}
	}
}

func TestRegistryDuplicatePanics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatal("duplicate registration did not panic")
		}
	}()
	reg := NewRegistry()
	reg.Register("Patient", InteractionRead, okHandler)
	reg.Register("Patient", InteractionRead, okHandler)
}

func TestRegistryNilHandlerPanics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatal("nil handler did not panic")
		}
	}()
	NewRegistry().Register("Patient", InteractionRead, nil)
}

func TestOperationNotShadowedByRead(t *testing.T) {
	reg := NewRegistry()
	reg.Register("Practitioner", InteractionRead, func(c echo.Context) error {
		return c.String(http.StatusOK, "read:"+c.Param("id"))
	})
	reg.RegisterOperation("Practitioner", "get-user-types", http.MethodGet, func(c echo.Context) error {
		return c.String(http.StatusOK, "op")
	})

	e := echo.New()
	reg.Mount(e.Group("/fhir"))

	req := httptest.NewRequest(http.MethodGet, "/fhir/Practitioner/$get-user-types", nil)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	if rec.Body.String() != "op" {
		t.Errorf("operation route shadowed, body = %q", rec.Body.String())
	}
}

func TestResources(t *testing.T) {
	reg := NewRegistry()
	reg.Register("Patient", InteractionRead, okHandler)
	reg.Register("Patient", InteractionSearch, okHandler)
	reg.Register("Organization", InteractionSearch, okHandler)

	got := reg.Resources()
	if len(got) != 2 || got[0] != "Patient" || got[1] != "Organization" {
		t.Errorf("Resources = %v", got)
	}
}
