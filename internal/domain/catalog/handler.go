package catalog

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/tfsalud/fhir-bridge/internal/backend"
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
	r.Register("Organization", fhir.InteractionRead, h.ReadOrganization)
	r.Register("Organization", fhir.InteractionSearch, h.SearchOrganizations)
	r.Register("Location", fhir.InteractionRead, h.ReadLocation)
	r.Register("Location", fhir.InteractionSearch, h.SearchLocations)
}

func (h *Handler) fetch(c echo.Context, sub string) ([]backend.Record, error) {
	raw, err := h.client.Get(c.Request().Context(), h.client.API(sub), auth.BearerToken(c))
	if err != nil {
		return nil, err
	}
	return backend.AsRecords(raw), nil
}

// SearchOrganizations dispatches on ?_type=: insurance lists the mutuales
// table, program the prestaciones table. Any other value has no backing
// table and yields an empty bundle.
func (h *Handler) SearchOrganizations(c echo.Context) error {
	self := c.Request().URL.RequestURI()

	var sub string
	var encode func(backend.Record) *Organization
	switch strings.ToLower(c.QueryParam("_type")) {
	case "insurance":
		sub, encode = "/abm/mutuales", EncodeInsurer
	case "program":
		sub, encode = "/abm/prestaciones", EncodeProgram
	default:
		return c.JSON(http.StatusOK, fhir.NewSearchBundle(nil, 0, self))
	}

	records, err := h.fetch(c, sub)
	if err != nil {
		return fhir.WriteError(c, err)
	}
	resources := make([]interface{}, len(records))
	for i, rec := range records {
		resources[i] = encode(rec)
	}
	return c.JSON(http.StatusOK, fhir.NewSearchBundle(resources, len(resources), self))
}

// ReadOrganization scans both backing tables; insurer and program ids never
// collide in practice but insurers win if they do.
func (h *Handler) ReadOrganization(c echo.Context) error {
	id := c.Param("id")

	records, err := h.fetch(c, "/abm/mutuales")
	if err != nil {
		return fhir.WriteError(c, err)
	}
	for _, rec := range records {
		if rec.StringOr("", "id_mutual") == id {
			return c.JSON(http.StatusOK, EncodeInsurer(rec))
		}
	}

	records, err = h.fetch(c, "/abm/prestaciones")
	if err != nil {
		return fhir.WriteError(c, err)
	}
	for _, rec := range records {
		if rec.StringOr("", "id_prestacion") == id {
			return c.JSON(http.StatusOK, EncodeProgram(rec))
		}
	}
	return c.JSON(http.StatusNotFound, fhir.NotFoundOutcome("Organization", id))
}

// SearchLocations lists cities by default. ?_type=province lists the
// provinces instead, and ?provincia=<id> narrows cities to one province.
func (h *Handler) SearchLocations(c echo.Context) error {
	self := c.Request().URL.RequestURI()

	if strings.EqualFold(c.QueryParam("_type"), "province") {
		records, err := h.fetch(c, "/abm/provincias")
		if err != nil {
			return fhir.WriteError(c, err)
		}
		resources := make([]interface{}, len(records))
		for i, rec := range records {
			resources[i] = EncodeProvince(rec)
		}
		return c.JSON(http.StatusOK, fhir.NewSearchBundle(resources, len(resources), self))
	}

	sub := "/abm/ciudades"
	if prov := c.QueryParam("provincia"); prov != "" {
		sub += "/" + prov
	}
	records, err := h.fetch(c, sub)
	if err != nil {
		return fhir.WriteError(c, err)
	}
	resources := make([]interface{}, len(records))
	for i, rec := range records {
		resources[i] = EncodeCity(rec)
	}
	return c.JSON(http.StatusOK, fhir.NewSearchBundle(resources, len(resources), self))
}

// ReadLocation scans provinces first, then the full city table.
func (h *Handler) ReadLocation(c echo.Context) error {
	id := c.Param("id")

	records, err := h.fetch(c, "/abm/provincias")
	if err != nil {
		return fhir.WriteError(c, err)
	}
	for _, rec := range records {
		if rec.StringOr("", "id_provincia") == id {
			return c.JSON(http.StatusOK, EncodeProvince(rec))
		}
	}

	records, err = h.fetch(c, "/abm/ciudades")
	if err != nil {
		return fhir.WriteError(c, err)
	}
	for _, rec := range records {
		if rec.StringOr("", "id_ciudad") == id {
			return c.JSON(http.StatusOK, EncodeCity(rec))
		}
	}
	return c.JSON(http.StatusNotFound, fhir.NotFoundOutcome("Location", id))
}
