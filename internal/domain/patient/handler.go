package patient

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/tfsalud/fhir-bridge/internal/backend"
	"github.com/tfsalud/fhir-bridge/internal/platform/auth"
	"github.com/tfsalud/fhir-bridge/internal/platform/fhir"
	"github.com/tfsalud/fhir-bridge/pkg/pagination"
)

type Handler struct {
	client *backend.Client
	log    zerolog.Logger
}

func NewHandler(client *backend.Client, log zerolog.Logger) *Handler {
	return &Handler{client: client, log: log}
}

func (h *Handler) Register(r *fhir.Registry) {
	r.Register("Patient", fhir.InteractionRead, h.Read)
	r.Register("Patient", fhir.InteractionSearch, h.Search)
	r.Register("Patient", fhir.InteractionCreate, h.Create)
	r.Register("Patient", fhir.InteractionUpdate, h.Update)
}

func (h *Handler) Read(c echo.Context) error {
	id := c.Param("id")
	raw, err := h.client.Get(c.Request().Context(), h.client.API("/patient/"+id), auth.BearerToken(c))
	if err != nil {
		return fhir.WriteError(c, err)
	}
	rec, ok := raw.(map[string]interface{})
	if !ok || len(rec) == 0 {
		return c.JSON(http.StatusNotFound, fhir.NotFoundOutcome("Patient", id))
	}
	return c.JSON(http.StatusOK, Encode(backend.Record(rec), id, h.log))
}

func (h *Handler) Search(c echo.Context) error {
	raw, err := h.client.Get(c.Request().Context(), h.client.API("/patient"), auth.BearerToken(c))
	if err != nil {
		return fhir.WriteError(c, err)
	}
	records := backend.AsRecords(raw)
	pg := pagination.FromContext(c)

	start, end := pg.Bounds(len(records))
	page := records[start:end]
	resources := make([]interface{}, len(page))
	for i, rec := range page {
		resources[i] = Encode(rec, rec.StringOr("", "hash_id"), h.log)
	}

	bundle := fhir.NewSearchBundle(resources, len(records), c.Request().URL.RequestURI())
	bundle.Link = searchLinks(pg, "/fhir/Patient", len(records))
	return c.JSON(http.StatusOK, bundle)
}

func (h *Handler) Create(c echo.Context) error {
	var p Patient
	if err := c.Bind(&p); err != nil {
		return c.JSON(http.StatusBadRequest, fhir.ValidationOutcome(err.Error()))
	}
	payload := Decode(&p, h.log)
	if _, err := h.client.Post(c.Request().Context(), h.client.API("/patient"), auth.BearerToken(c), payload); err != nil {
		return fhir.WriteError(c, err)
	}
	p.ResourceType = "Patient"
	if p.ID != "" {
		c.Response().Header().Set("Location", "/fhir/Patient/"+p.ID)
	}
	return c.JSON(http.StatusCreated, &p)
}

func (h *Handler) Update(c echo.Context) error {
	id := c.Param("id")
	var p Patient
	if err := c.Bind(&p); err != nil {
		return c.JSON(http.StatusBadRequest, fhir.ValidationOutcome(err.Error()))
	}
	payload := Decode(&p, h.log)
	if _, err := h.client.Put(c.Request().Context(), h.client.API("/patient/"+id), auth.BearerToken(c), payload); err != nil {
		return fhir.WriteError(c, err)
	}
	p.ResourceType = "Patient"
	p.ID = id
	return c.JSON(http.StatusOK, &p)
}

func searchLinks(pg pagination.Params, basePath string, total int) []fhir.BundleLink {
	links := pg.FHIRLinks(basePath, total)
	out := make([]fhir.BundleLink, len(links))
	for i, l := range links {
		out[i] = fhir.BundleLink{Relation: l.Relation, URL: l.URL}
	}
	return out
}
