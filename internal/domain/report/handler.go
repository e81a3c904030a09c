package report

import (
	"net/http"

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
	r.Register("DiagnosticReport", fhir.InteractionSearch, h.Search)
	r.Register("DiagnosticReport", fhir.InteractionCreate, h.Create)
	r.RegisterOperation("DiagnosticReport", "get-annexes", http.MethodGet, h.Annexes)
}

// Search serves ?patient= for a patient's reports and ?annex= for the
// annexes of one report. Without either there is nothing to list.
func (h *Handler) Search(c echo.Context) error {
	ctx := c.Request().Context()
	token := auth.BearerToken(c)
	self := c.Request().URL.RequestURI()

	if pid := c.QueryParam("patient"); pid != "" {
		raw, err := h.client.Get(ctx, h.client.API("/report/all/"+pid), token)
		if err != nil {
			return fhir.WriteError(c, err)
		}
		resources := make([]interface{}, 0)
		for _, row := range backend.AsRecords(raw) {
			// Some deployments wrap each row as {"report": {...}}.
			if inner, ok := row.Child("report"); ok {
				row = inner
			}
			resources = append(resources, EncodeReport(row, pid))
		}
		return c.JSON(http.StatusOK, fhir.NewSearchBundle(resources, len(resources), self))
	}

	if parent := c.QueryParam("annex"); parent != "" {
		return h.listAnnexes(c, parent)
	}

	return c.JSON(http.StatusOK, fhir.NewSearchBundle(nil, 0, self))
}

// Annexes serves $get-annexes?report=, the operation form of ?annex=.
func (h *Handler) Annexes(c echo.Context) error {
	parent := c.QueryParam("report")
	if parent == "" {
		parent = c.QueryParam("annex")
	}
	if parent == "" {
		return c.JSON(http.StatusBadRequest, fhir.ValidationOutcome("report parameter is required"))
	}
	return h.listAnnexes(c, parent)
}

func (h *Handler) listAnnexes(c echo.Context, parent string) error {
	raw, err := h.client.Get(c.Request().Context(), h.client.API("/report/"+parent+"/annexes"), auth.BearerToken(c))
	if err != nil {
		return fhir.WriteError(c, err)
	}
	records := backend.AsRecords(raw)
	resources := make([]interface{}, len(records))
	for i, row := range records {
		resources[i] = EncodeAnnex(row, parent)
	}
	return c.JSON(http.StatusOK, fhir.NewSearchBundle(resources, len(resources), c.Request().URL.RequestURI()))
}

func (h *Handler) Create(c echo.Context) error {
	var r DiagnosticReport
	if err := c.Bind(&r); err != nil {
		return c.JSON(http.StatusBadRequest, fhir.ValidationOutcome(err.Error()))
	}
	ctx := c.Request().Context()
	token := auth.BearerToken(c)
	r.ResourceType = "DiagnosticReport"

	if isAnnex(&r) {
		parent, payload, err := annexPayload(&r)
		if err != nil {
			return fhir.WriteError(c, err)
		}
		resp, err := h.client.Post(ctx, h.client.API("/report/"+parent+"/createAnnex"), token, payload)
		if err != nil {
			return fhir.WriteError(c, err)
		}
		r.ID = createdID(resp, "id_anexo", "id")
	} else {
		resp, err := h.client.Post(ctx, h.client.API("/report/create"), token, reportPayload(&r))
		if err != nil {
			return fhir.WriteError(c, err)
		}
		r.ID = createdID(resp, "id_informe", "id")
	}

	if r.ID != "" {
		c.Response().Header().Set("Location", "/fhir/DiagnosticReport/"+r.ID)
	}
	return c.JSON(http.StatusCreated, &r)
}
