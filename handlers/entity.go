package handlers

import (
	"net/http"
	"strconv"

	"srv_contratos/apierror"
	"srv_contratos/services"

	"github.com/labstack/echo/v4"
)

// ListEntities returns party records, filtered by ?search= and ?is_pessoa_juridica=
func (h *Handler) ListEntities(c echo.Context) error {
	filter := services.EntityFilter{Search: c.QueryParam("search")}
	if raw := c.QueryParam("is_pessoa_juridica"); raw != "" {
		isOrg, err := strconv.ParseBool(raw)
		if err != nil {
			return c.JSON(http.StatusBadRequest, apierror.NewInvalidParamError("is_pessoa_juridica"))
		}
		filter.IsOrganization = &isOrg
	}

	entities, err := h.Entities.List(c.Request().Context(), filter)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, entities)
}

func (h *Handler) CreateEntity(c echo.Context) error {
	var input services.EntityInput
	if err := bindJSON(c, &input); err != nil {
		return err
	}

	entity, err := h.Entities.Create(c.Request().Context(), input)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, entity)
}

func (h *Handler) GetEntity(c echo.Context) error {
	entity, err := h.Entities.Get(c.Request().Context(), c.Param("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, entity)
}

// UpdateEntity serves both PUT (full) and PATCH (partial)
func (h *Handler) UpdateEntity(c echo.Context) error {
	var input services.EntityInput
	if err := bindJSON(c, &input); err != nil {
		return err
	}

	entity, err := h.Entities.Update(c.Request().Context(), c.Param("id"), input, isPartial(c))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, entity)
}

func (h *Handler) DeleteEntity(c echo.Context) error {
	if err := h.Entities.Delete(c.Request().Context(), c.Param("id")); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}

// ExportEntities downloads every entity as a spreadsheet
func (h *Handler) ExportEntities(c echo.Context) error {
	buf, err := h.Entities.ExportXLSX(c.Request().Context())
	if err != nil {
		return err
	}
	setAttachment(c, "entidades.xlsx")
	return c.Blob(http.StatusOK, xlsxMimeType, buf.Bytes())
}

// ImportEntities creates entities from an uploaded spreadsheet
func (h *Handler) ImportEntities(c echo.Context) error {
	header, err := c.FormFile("arquivo")
	if err != nil {
		return services.FieldErrors{"arquivo": {"Nenhum arquivo foi submetido."}}
	}

	file, err := header.Open()
	if err != nil {
		return err
	}
	defer file.Close()

	result, err := h.Entities.ImportXLSX(c.Request().Context(), file)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, result)
}

const xlsxMimeType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

func isPartial(c echo.Context) bool {
	return c.Request().Method == http.MethodPatch
}
