package handlers

import (
	"net/http"

	"srv_contratos/services"

	"github.com/labstack/echo/v4"
)

// ListDrafts returns drafts, filtered by ?status= and ?tipo_contrato=
func (h *Handler) ListDrafts(c echo.Context) error {
	filter := services.DraftFilter{
		Status:         c.QueryParam("status"),
		ContractTypeID: c.QueryParam("tipo_contrato"),
	}
	drafts, err := h.Drafts.List(c.Request().Context(), currentUser(c), filter)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, drafts)
}

func (h *Handler) CreateDraft(c echo.Context) error {
	var input services.DraftInput
	if err := bindJSON(c, &input); err != nil {
		return err
	}

	draft, err := h.Drafts.Create(c.Request().Context(), currentUser(c), input)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, draft)
}

func (h *Handler) GetDraft(c echo.Context) error {
	draft, err := h.Drafts.Get(c.Request().Context(), currentUser(c), c.Param("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, draft)
}

// UpdateDraft serves both PUT (full) and PATCH (partial); each save adds a history entry
func (h *Handler) UpdateDraft(c echo.Context) error {
	var input services.DraftInput
	if err := bindJSON(c, &input); err != nil {
		return err
	}

	draft, err := h.Drafts.Update(c.Request().Context(), currentUser(c), c.Param("id"), input, isPartial(c))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, draft)
}

func (h *Handler) DeleteDraft(c echo.Context) error {
	if err := h.Drafts.Delete(c.Request().Context(), currentUser(c), c.Param("id")); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}

type statusRequest struct {
	Status string `json:"status"`
}

// UpdateDraftStatus moves a draft to another status
func (h *Handler) UpdateDraftStatus(c echo.Context) error {
	var req statusRequest
	if err := bindJSON(c, &req); err != nil {
		return err
	}

	draft, err := h.Drafts.SetStatus(c.Request().Context(), currentUser(c), c.Param("id"), req.Status)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, draft)
}

func (h *Handler) ListDraftHistory(c echo.Context) error {
	items, err := h.Drafts.ListHistory(c.Request().Context(), currentUser(c), c.Param("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, items)
}

func (h *Handler) GetDraftHistoryEntry(c echo.Context) error {
	entry, err := h.Drafts.GetHistoryEntry(c.Request().Context(), currentUser(c), c.Param("id"), c.Param("entry"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, entry)
}
