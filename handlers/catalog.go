package handlers

import (
	"net/http"

	"srv_contratos/services"

	"github.com/labstack/echo/v4"
)

// Qualification templates

func (h *Handler) ListQualificationTemplates(c echo.Context) error {
	items, err := h.Catalog.ListQualificationTemplates(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, items)
}

func (h *Handler) CreateQualificationTemplate(c echo.Context) error {
	var input services.QualificationTemplateInput
	if err := bindJSON(c, &input); err != nil {
		return err
	}
	item, err := h.Catalog.CreateQualificationTemplate(c.Request().Context(), input)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, item)
}

func (h *Handler) GetQualificationTemplate(c echo.Context) error {
	item, err := h.Catalog.GetQualificationTemplate(c.Request().Context(), c.Param("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, item)
}

func (h *Handler) UpdateQualificationTemplate(c echo.Context) error {
	var input services.QualificationTemplateInput
	if err := bindJSON(c, &input); err != nil {
		return err
	}
	item, err := h.Catalog.UpdateQualificationTemplate(c.Request().Context(), c.Param("id"), input, isPartial(c))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, item)
}

func (h *Handler) DeleteQualificationTemplate(c echo.Context) error {
	if err := h.Catalog.DeleteQualificationTemplate(c.Request().Context(), c.Param("id")); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}

type renderRequest struct {
	EntityID string `json:"entidade"`
}

// RenderQualification fills the template with one entity's data
func (h *Handler) RenderQualification(c echo.Context) error {
	var req renderRequest
	if err := bindJSON(c, &req); err != nil {
		return err
	}
	if req.EntityID == "" {
		return services.FieldErrors{"entidade": {"Este campo é obrigatório."}}
	}

	result, err := h.Catalog.RenderQualification(c.Request().Context(), c.Param("id"), req.EntityID)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, result)
}

// Party role types

func (h *Handler) ListPartyRoleTypes(c echo.Context) error {
	items, err := h.Catalog.ListPartyRoleTypes(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, items)
}

func (h *Handler) CreatePartyRoleType(c echo.Context) error {
	var input services.PartyRoleTypeInput
	if err := bindJSON(c, &input); err != nil {
		return err
	}
	item, err := h.Catalog.CreatePartyRoleType(c.Request().Context(), input)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, item)
}

func (h *Handler) GetPartyRoleType(c echo.Context) error {
	item, err := h.Catalog.GetPartyRoleType(c.Request().Context(), c.Param("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, item)
}

func (h *Handler) UpdatePartyRoleType(c echo.Context) error {
	var input services.PartyRoleTypeInput
	if err := bindJSON(c, &input); err != nil {
		return err
	}
	item, err := h.Catalog.UpdatePartyRoleType(c.Request().Context(), c.Param("id"), input, isPartial(c))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, item)
}

func (h *Handler) DeletePartyRoleType(c echo.Context) error {
	if err := h.Catalog.DeletePartyRoleType(c.Request().Context(), c.Param("id")); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}

// Clauses

func (h *Handler) ListClauses(c echo.Context) error {
	items, err := h.Catalog.ListClauses(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, items)
}

func (h *Handler) CreateClause(c echo.Context) error {
	var input services.ClauseInput
	if err := bindJSON(c, &input); err != nil {
		return err
	}
	item, err := h.Catalog.CreateClause(c.Request().Context(), input)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, item)
}

func (h *Handler) GetClause(c echo.Context) error {
	item, err := h.Catalog.GetClause(c.Request().Context(), c.Param("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, item)
}

func (h *Handler) UpdateClause(c echo.Context) error {
	var input services.ClauseInput
	if err := bindJSON(c, &input); err != nil {
		return err
	}
	item, err := h.Catalog.UpdateClause(c.Request().Context(), c.Param("id"), input, isPartial(c))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, item)
}

func (h *Handler) DeleteClause(c echo.Context) error {
	if err := h.Catalog.DeleteClause(c.Request().Context(), c.Param("id")); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}

// Contract types

func (h *Handler) ListContractTypes(c echo.Context) error {
	items, err := h.Catalog.ListContractTypes(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, items)
}

func (h *Handler) CreateContractType(c echo.Context) error {
	var input services.ContractTypeInput
	if err := bindJSON(c, &input); err != nil {
		return err
	}
	item, err := h.Catalog.CreateContractType(c.Request().Context(), input)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, item)
}

func (h *Handler) GetContractType(c echo.Context) error {
	item, err := h.Catalog.GetContractType(c.Request().Context(), c.Param("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, item)
}

func (h *Handler) UpdateContractType(c echo.Context) error {
	var input services.ContractTypeInput
	if err := bindJSON(c, &input); err != nil {
		return err
	}
	item, err := h.Catalog.UpdateContractType(c.Request().Context(), c.Param("id"), input, isPartial(c))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, item)
}

func (h *Handler) DeleteContractType(c echo.Context) error {
	if err := h.Catalog.DeleteContractType(c.Request().Context(), c.Param("id")); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}
