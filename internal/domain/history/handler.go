package history

import (
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/tfsalud/fhir-bridge/internal/backend"
	"github.com/tfsalud/fhir-bridge/internal/domain/report"
	"github.com/tfsalud/fhir-bridge/internal/platform/auth"
	"github.com/tfsalud/fhir-bridge/internal/platform/fhir"
)

type Handler struct {
	client *backend.Client
	log    zerolog.Logger
}

func NewHandler(client *backend.Client, log zerolog.Logger) *Handler {
	return &Handler{client: client, log: log}
}

func (h *Handler) Register(r *fhir.Registry) {
	r.Register("DiagnosticReport", fhir.InteractionRead, h.Read)
	r.RegisterOperation("DiagnosticReport", "get-historia", http.MethodGet, h.Get)
	r.RegisterOperation("DiagnosticReport", "create-historia", http.MethodPost, h.Create)
}

// Read fetches one history by its hash id. The id doubles as the subject:
// the backend keys the fisiatric history on the patient hash.
func (h *Handler) Read(c echo.Context) error {
	id := c.Param("id")
	raw, err := h.client.Get(c.Request().Context(), h.client.API("/ehr/hc-fisiatric/"+id), auth.BearerToken(c))
	if err != nil {
		return fhir.WriteError(c, err)
	}
	rec, ok := raw.(map[string]interface{})
	if !ok || len(rec) == 0 {
		return c.JSON(http.StatusNotFound, fhir.NotFoundOutcome("DiagnosticReport", id))
	}
	return c.JSON(http.StatusOK, Encode(backend.Record(rec), id, h.log))
}

// Get serves $get-historia?patient=. The backend returns a single object for
// a patient with a history and an empty body otherwise; both come back as a
// searchset bundle.
func (h *Handler) Get(c echo.Context) error {
	pid := c.QueryParam("patient")
	if pid == "" {
		return c.JSON(http.StatusBadRequest, fhir.ValidationOutcome("patient parameter is required"))
	}
	raw, err := h.client.Get(c.Request().Context(), h.client.API("/ehr/hc-fisiatric/"+pid), auth.BearerToken(c))
	if err != nil {
		return fhir.WriteError(c, err)
	}
	records := backend.AsRecords(raw)
	resources := make([]interface{}, len(records))
	for i, rec := range records {
		resources[i] = Encode(rec, pid, h.log)
	}
	return c.JSON(http.StatusOK, fhir.NewSearchBundle(resources, len(resources), c.Request().URL.RequestURI()))
}

// Create serves $create-historia. The backend keeps one history per patient
// and upserts on hash_id.
func (h *Handler) Create(c echo.Context) error {
	var r report.DiagnosticReport
	if err := c.Bind(&r); err != nil {
		return c.JSON(http.StatusBadRequest, fhir.ValidationOutcome(err.Error()))
	}
	_, payload, err := CreatePayload(&r)
	if err != nil {
		return fhir.WriteError(c, err)
	}
	if _, err := h.client.Post(c.Request().Context(), h.client.API("/ehr/hc-fisiatric"), auth.BearerToken(c), payload); err != nil {
		return fhir.WriteError(c, err)
	}
	r.ResourceType = "DiagnosticReport"
	if r.ID == "" {
		r.ID = uuid.NewString()
	}
	return c.JSON(http.StatusCreated, &r)
}
