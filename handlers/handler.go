package handlers

import (
	"context"
	"mime"
	"net/http"

	"srv_contratos/apierror"
	"srv_contratos/middleware"
	"srv_contratos/models"
	"srv_contratos/services"
	"srv_contratos/services/postal"

	"github.com/labstack/echo/v4"
)

// PostalLookup resolves a CEP to its address payload
type PostalLookup interface {
	Lookup(ctx context.Context, code string) (postal.Address, error)
}

// DocxConverter turns an HTML fragment into a .docx document
type DocxConverter interface {
	HTMLToDOCX(ctx context.Context, html string) ([]byte, error)
}

// PDFRenderer turns an HTML fragment into a PDF document
type PDFRenderer interface {
	Render(ctx context.Context, html string) ([]byte, error)
}

// Handler holds the services behind the HTTP API
type Handler struct {
	Entities    *services.EntityService
	Catalog     *services.CatalogService
	Drafts      *services.DraftService
	Attachments *services.AttachmentService
	Auth        *services.AuthService
	Postal      PostalLookup
	Docx        DocxConverter
	PDF         PDFRenderer
}

// New creates a handler with its dependencies
func New(
	entities *services.EntityService,
	catalog *services.CatalogService,
	drafts *services.DraftService,
	attachments *services.AttachmentService,
	auth *services.AuthService,
	postalLookup PostalLookup,
	docx DocxConverter,
	pdf PDFRenderer,
) *Handler {
	return &Handler{
		Entities:    entities,
		Catalog:     catalog,
		Drafts:      drafts,
		Attachments: attachments,
		Auth:        auth,
		Postal:      postalLookup,
		Docx:        docx,
		PDF:         pdf,
	}
}

// bindJSON decodes the request body into dst; an empty body leaves dst untouched
func bindJSON(c echo.Context, dst interface{}) error {
	if err := (&echo.DefaultBinder{}).BindBody(c, dst); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, apierror.MalformedJSONError.Message).SetInternal(err)
	}
	return nil
}

func currentUser(c echo.Context) *models.User {
	return middleware.GetCurrentUser(c)
}

// Healthz reports that the process is serving requests
func (h *Handler) Healthz(c echo.Context) error {
	return c.JSON(http.StatusOK, echo.Map{"status": "ok"})
}

// setAttachment marks the response as a download named filename.
// Non-ASCII names are sent in the RFC 2231 filename* form.
func setAttachment(c echo.Context, filename string) {
	disposition := mime.FormatMediaType("attachment", map[string]string{"filename": filename})
	if disposition == "" {
		disposition = "attachment"
	}
	c.Response().Header().Set(echo.HeaderContentDisposition, disposition)
}
