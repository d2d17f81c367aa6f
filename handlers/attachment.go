package handlers

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

// ListAttachments returns attachments, optionally only those of ?rascunho=
func (h *Handler) ListAttachments(c echo.Context) error {
	items, err := h.Attachments.List(c.Request().Context(), currentUser(c), c.QueryParam("rascunho"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, items)
}

// CreateAttachment stores a multipart upload ("rascunho", "arquivo") against a draft
func (h *Handler) CreateAttachment(c echo.Context) error {
	draftID := c.FormValue("rascunho")
	file, _ := c.FormFile("arquivo")

	attachment, err := h.Attachments.Create(c.Request().Context(), currentUser(c), draftID, file)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, attachment)
}

func (h *Handler) GetAttachment(c echo.Context) error {
	attachment, err := h.Attachments.Get(c.Request().Context(), currentUser(c), c.Param("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, attachment)
}

func (h *Handler) DeleteAttachment(c echo.Context) error {
	if err := h.Attachments.Delete(c.Request().Context(), currentUser(c), c.Param("id")); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}

// DownloadAttachment streams the stored file
func (h *Handler) DownloadAttachment(c echo.Context) error {
	attachment, reader, err := h.Attachments.Open(c.Request().Context(), currentUser(c), c.Param("id"))
	if err != nil {
		return err
	}
	defer reader.Close()

	contentType := attachment.MimeType
	if contentType == "" {
		contentType = echo.MIMEOctetStream
	}
	setAttachment(c, attachment.FileName)
	return c.Stream(http.StatusOK, contentType, reader)
}
