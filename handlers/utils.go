package handlers

import (
	"net/http"
	"strings"

	"srv_contratos/services"
	"srv_contratos/services/docconv"

	"github.com/labstack/echo/v4"
)

// PostalCodeLookup proxies a CEP lookup; it is the one public utility route
func (h *Handler) PostalCodeLookup(c echo.Context) error {
	address, err := h.Postal.Lookup(c.Request().Context(), c.Param("cep"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, address)
}

// ImportClauseText extracts the text of an uploaded .docx or .txt file
func (h *Handler) ImportClauseText(c echo.Context) error {
	header, err := c.FormFile("file")
	if err != nil {
		return services.FieldErrors{"file": {"Nenhum arquivo foi submetido."}}
	}

	file, err := header.Open()
	if err != nil {
		return err
	}
	defer file.Close()

	text, err := docconv.ExtractText(header.Filename, file)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, echo.Map{"texto": text})
}

type exportRequest struct {
	HTML string `json:"html" form:"html"`
}

// ExportDocx converts the posted HTML into contrato.docx
func (h *Handler) ExportDocx(c echo.Context) error {
	html, err := exportHTML(c)
	if err != nil {
		return err
	}

	data, err := h.Docx.HTMLToDOCX(c.Request().Context(), html)
	if err != nil {
		return err
	}
	setAttachment(c, "contrato.docx")
	return c.Blob(http.StatusOK, docconv.DocxMimeType, data)
}

// ExportPDF renders the posted HTML into contrato.pdf
func (h *Handler) ExportPDF(c echo.Context) error {
	html, err := exportHTML(c)
	if err != nil {
		return err
	}

	data, err := h.PDF.Render(c.Request().Context(), html)
	if err != nil {
		return err
	}
	setAttachment(c, "contrato.pdf")
	return c.Blob(http.StatusOK, "application/pdf", data)
}

func exportHTML(c echo.Context) (string, error) {
	var req exportRequest
	if err := bindJSON(c, &req); err != nil {
		return "", err
	}
	if strings.TrimSpace(req.HTML) == "" {
		return "", docconv.ErrEmptyHTML
	}
	return req.HTML, nil
}
