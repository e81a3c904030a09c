package practitioner

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/tfsalud/fhir-bridge/internal/adapter"
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
	r.Register("Practitioner", fhir.InteractionRead, h.Read)
	r.Register("Practitioner", fhir.InteractionSearch, h.Search)
	r.Register("Practitioner", fhir.InteractionCreate, h.Create)
	r.Register("Practitioner", fhir.InteractionUpdate, h.Update)
	r.RegisterOperation("Practitioner", "get-user-types", http.MethodGet, h.UserTypes)
}

func (h *Handler) list(c echo.Context) ([]backend.Record, error) {
	raw, err := h.client.Get(c.Request().Context(), h.client.API("/user/"), auth.BearerToken(c))
	if err != nil {
		return nil, err
	}
	return backend.AsRecords(raw), nil
}

// Read scans the user list for the hash id; the backend exposes no
// single-user endpoint.
func (h *Handler) Read(c echo.Context) error {
	id := c.Param("id")
	records, err := h.list(c)
	if err != nil {
		return fhir.WriteError(c, err)
	}
	for _, rec := range records {
		if rec.StringOr("", "hash_id") == id {
			return c.JSON(http.StatusOK, Encode(rec, h.log))
		}
	}
	return c.JSON(http.StatusNotFound, fhir.NotFoundOutcome("Practitioner", id))
}

func (h *Handler) Search(c echo.Context) error {
	records, err := h.list(c)
	if err != nil {
		return fhir.WriteError(c, err)
	}
	pg := pagination.FromContext(c)

	start, end := pg.Bounds(len(records))
	page := records[start:end]
	resources := make([]interface{}, len(page))
	for i, rec := range page {
		resources[i] = Encode(rec, h.log)
	}

	bundle := fhir.NewSearchBundle(resources, len(records), c.Request().URL.RequestURI())
	bundle.Link = searchLinks(pg, "/fhir/Practitioner", len(records))
	return c.JSON(http.StatusOK, bundle)
}

func (h *Handler) Create(c echo.Context) error {
	var p Practitioner
	if err := c.Bind(&p); err != nil {
		return c.JSON(http.StatusBadRequest, fhir.ValidationOutcome(err.Error()))
	}
	payload, err := CreatePayload(&p)
	if err != nil {
		return fhir.WriteError(c, err)
	}
	resp, err := h.client.Post(c.Request().Context(), h.client.API("/user/create"), auth.BearerToken(c), payload)
	if err != nil {
		return fhir.WriteError(c, err)
	}

	p.ResourceType = "Practitioner"
	p.ID = h.createdHashID(c, resp, &p)
	if p.ID == "" {
		h.log.Error().Msg("user created but hash id not resolvable")
		return fhir.WriteError(c, backend.MappingError("created user has no hash id"))
	}
	c.Response().Header().Set("Location", "/fhir/Practitioner/"+p.ID)
	return c.JSON(http.StatusCreated, &p)
}

// createdHashID takes the hash id from the create response when present and
// falls back to re-listing and matching on DNI.
func (h *Handler) createdHashID(c echo.Context, resp interface{}, p *Practitioner) string {
	if m, ok := resp.(map[string]interface{}); ok {
		if id, ok := backend.Record(m).String("hash_id"); ok {
			return id
		}
	}
	dni, _ := adapter.DNIOf(p.Identifier)
	records, err := h.list(c)
	if err != nil {
		h.log.Warn().Err(err).Msg("re-list after create failed")
		return ""
	}
	for _, rec := range records {
		if v, ok := rec.String("dni_usuario", "dni"); ok && v == dni {
			return rec.StringOr("", "hash_id")
		}
	}
	return ""
}

// Update toggles the account. The backend models this as two endpoints, one
// to activate and one to deactivate.
func (h *Handler) Update(c echo.Context) error {
	id := c.Param("id")
	var p Practitioner
	if err := c.Bind(&p); err != nil {
		return c.JSON(http.StatusBadRequest, fhir.ValidationOutcome(err.Error()))
	}
	ctx := c.Request().Context()
	token := auth.BearerToken(c)

	var err error
	if p.Active != nil && *p.Active {
		_, err = h.client.Put(ctx, h.client.API("/user/activate/"+id), token, nil)
	} else {
		_, err = h.client.Delete(ctx, h.client.API("/user/"+id), token)
	}
	if err != nil {
		return fhir.WriteError(c, err)
	}
	p.ResourceType = "Practitioner"
	p.ID = id
	return c.JSON(http.StatusOK, &p)
}

func (h *Handler) UserTypes(c echo.Context) error {
	raw, err := h.client.Get(c.Request().Context(), h.client.API("/user/type"), auth.BearerToken(c))
	if err != nil {
		return fhir.WriteError(c, err)
	}
	return c.JSON(http.StatusOK, UserTypes(backend.AsRecords(raw)))
}

func searchLinks(pg pagination.Params, basePath string, total int) []fhir.BundleLink {
	links := pg.FHIRLinks(basePath, total)
	out := make([]fhir.BundleLink, len(links))
	for i, l := range links {
		out[i] = fhir.BundleLink{Relation: l.Relation, URL: l.URL}
	}
	return out
}
