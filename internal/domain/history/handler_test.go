package history

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/tfsalud/fhir-bridge/internal/backend"
)

func testHandler(t *testing.T, upstream http.HandlerFunc) *Handler {
	t.Helper()
	srv := httptest.NewServer(upstream)
	t.Cleanup(srv.Close)
	client, err := backend.NewClient(srv.URL, "/api", 5*time.Second, zerolog.Nop())
	if err != nil {
		t.Fatalf("new client: %v", err)
	}
	return NewHandler(client, zerolog.Nop())
}

func readContext(t *testing.T, id string) (echo.Context, *httptest.ResponseRecorder) {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, "/fhir/DiagnosticReport/"+id, nil)
	req.Header.Set("Authorization", "Bearer tok")
	rec := httptest.NewRecorder()
	c := echo.New().NewContext(req, rec)
	c.SetParamNames("id")
	c.SetParamValues(id)
	return c, rec
}

func TestReadHistoria(t *testing.T) {
	var gotPath string
	h := testHandler(t, func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{
			"id_hc_fisiatrica": 15,
			"fecha_creacion": "02/05/2024",
			"evaluacion_consulta": {"derivadosPor": "Dr. Soria"}
		}`))
	})
	c, rec := readContext(t, "pac-1")

	if err := h.Read(c); err != nil {
		t.Fatalf("Read: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
	}
	if gotPath != "/api/ehr/hc-fisiatric/pac-1" {
		t.Errorf("upstream path = %q", gotPath)
	}

	var r map[string]interface{}
	if err := json.Unmarshal(rec.Body.Bytes(), &r); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if r["resourceType"] != "DiagnosticReport" || r["id"] != "15" {
		t.Errorf("resource = %v", r)
	}
	subject := r["subject"].(map[string]interface{})
	if subject["reference"] != "Patient/pac-1" {
		t.Errorf("subject = %v", subject)
	}
}

func TestReadHistoriaNotFound(t *testing.T) {
	h := testHandler(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	c, rec := readContext(t, "pac-9")

	if err := h.Read(c); err != nil {
		t.Fatalf("Read: %v", err)
	}
	if rec.Code != http.StatusNotFound {
		t.Errorf("status = %d", rec.Code)
	}
	var outcome map[string]interface{}
	if err := json.Unmarshal(rec.Body.Bytes(), &outcome); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if outcome["resourceType"] != "OperationOutcome" {
		t.Errorf("body = %v", outcome)
	}
}
