package documentref

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/url"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/tfsalud/fhir-bridge/internal/backend"
	"github.com/tfsalud/fhir-bridge/internal/platform/auth"
	"github.com/tfsalud/fhir-bridge/internal/platform/fhir"
)

// allowedTypes is what the backend file store accepts.
var allowedTypes = map[string]bool{
	"image/jpeg":      true,
	"image/png":       true,
	"application/pdf": true,
	"video/mp4":       true,
}

type Handler struct {
	client   *backend.Client
	verifier *auth.Verifier
	log      zerolog.Logger
}

func NewHandler(client *backend.Client, verifier *auth.Verifier, log zerolog.Logger) *Handler {
	return &Handler{client: client, verifier: verifier, log: log}
}

func (h *Handler) Register(r *fhir.Registry) {
	r.Register("DocumentReference", fhir.InteractionSearch, h.Search)
	r.RegisterOperation("DocumentReference", "get-files", http.MethodGet, h.Search)
}

// Search lists a patient's files. Without a patient there is nothing to
// list; ?type= narrows by backend file type.
func (h *Handler) Search(c echo.Context) error {
	self := c.Request().URL.RequestURI()
	pid := c.QueryParam("patient")
	if pid == "" {
		return c.JSON(http.StatusOK, fhir.NewSearchBundle(nil, 0, self))
	}

	path := "/file?hash_id=" + url.QueryEscape(pid)
	if ft := c.QueryParam("type"); ft != "" {
		path += "&fileType=" + url.QueryEscape(ft)
	}
	raw, err := h.client.Get(c.Request().Context(), h.client.API(path), auth.BearerToken(c))
	if err != nil {
		return fhir.WriteError(c, err)
	}

	records := backend.AsRecords(raw)
	resources := make([]interface{}, len(records))
	for i, rec := range records {
		resources[i] = Encode(rec, pid)
	}
	return c.JSON(http.StatusOK, fhir.NewSearchBundle(resources, len(resources), self))
}

// Upload receives a multipart form with a "file" part and a
// "documentReference" JSON field and forwards both to the backend file
// store. It answers plain JSON rather than FHIR; the web client consuming it
// predates the facade.
func (h *Handler) Upload(c echo.Context) error {
	token := auth.BearerToken(c)
	if token == "" {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "Authorization header is required"})
	}
	if _, err := h.verifier.Verify(token); err != nil {
		h.log.Warn().Err(err).Msg("upload rejected")
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "Invalid or expired token"})
	}

	fileHeader, err := c.FormFile("file")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "file is required"})
	}
	contentType := fileHeader.Header.Get("Content-Type")
	if !allowedTypes[contentType] {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "unsupported file type: " + contentType})
	}

	var d DocumentReference
	if raw := c.FormValue("documentReference"); raw != "" {
		if err := json.Unmarshal([]byte(raw), &d); err != nil {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "documentReference is not valid JSON"})
		}
	}
	fields, err := uploadMeta(&d)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
	}

	src, err := fileHeader.Open()
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "could not read upload"})
	}
	defer src.Close()

	path := h.client.API("/file/upload?hash_id=" + url.QueryEscape(fields["hash_id"]))
	resp, err := h.client.PostMultipart(c.Request().Context(), path, token, fileHeader.Filename, contentType, src, fields)
	if err != nil {
		h.log.Error().Err(err).Str("patient", fields["hash_id"]).Msg("upload forward failed")
		return c.JSON(uploadStatus(err), echo.Map{"error": err.Error()})
	}
	return c.JSON(http.StatusOK, uploadResponse(resp))
}

func uploadStatus(err error) int {
	var be *backend.Error
	if errors.As(err, &be) {
		switch be.Kind {
		case backend.KindAuthentication:
			return http.StatusUnauthorized
		case backend.KindValidation:
			return http.StatusBadRequest
		case backend.KindNotFound:
			return http.StatusNotFound
		}
	}
	return http.StatusInternalServerError
}
