package handlers

import (
	"net/http"
	"strings"

	"srv_contratos/middleware"

	"github.com/labstack/echo/v4"
)

type route struct {
	method  string
	path    string
	handler echo.HandlerFunc
	public  bool
	extra   []echo.MiddlewareFunc
}

// routes is the full API surface
func (h *Handler) routes() []route {
	crud := func(base string, list, create, get, update, remove echo.HandlerFunc) []route {
		return []route{
			{method: http.MethodGet, path: base, handler: list},
			{method: http.MethodPost, path: base, handler: create},
			{method: http.MethodGet, path: base + "/:id", handler: get},
			{method: http.MethodPut, path: base + "/:id", handler: update},
			{method: http.MethodPatch, path: base + "/:id", handler: update},
			{method: http.MethodDelete, path: base + "/:id", handler: remove},
		}
	}

	rs := []route{
		{method: http.MethodGet, path: "/healthz", handler: h.Healthz, public: true},
		{method: http.MethodPost, path: "/api/token", handler: h.ObtainToken, public: true,
			extra: []echo.MiddlewareFunc{middleware.LoginIPRateLimiter.Middleware(), middleware.LoginRateLimiter.Middleware()}},
		{method: http.MethodPost, path: "/api/token/refresh", handler: h.RefreshToken, public: true},
		{method: http.MethodGet, path: "/api/utils/viacep/:cep", handler: h.PostalCodeLookup, public: true},
		{method: http.MethodGet, path: "/api/me", handler: h.Me},

		{method: http.MethodGet, path: "/api/entidades/export", handler: h.ExportEntities},
		{method: http.MethodPost, path: "/api/entidades/import", handler: h.ImportEntities},
		{method: http.MethodPost, path: "/api/qualificacoes/:id/render", handler: h.RenderQualification},

		{method: http.MethodPatch, path: "/api/rascunhos/:id/update_status", handler: h.UpdateDraftStatus},
		{method: http.MethodGet, path: "/api/rascunhos/:id/historico", handler: h.ListDraftHistory},
		{method: http.MethodGet, path: "/api/rascunhos/:id/historico/:entry", handler: h.GetDraftHistoryEntry},

		{method: http.MethodGet, path: "/api/anexos", handler: h.ListAttachments},
		{method: http.MethodPost, path: "/api/anexos", handler: h.CreateAttachment},
		{method: http.MethodGet, path: "/api/anexos/:id", handler: h.GetAttachment},
		{method: http.MethodDelete, path: "/api/anexos/:id", handler: h.DeleteAttachment},
		{method: http.MethodGet, path: "/api/anexos/:id/download", handler: h.DownloadAttachment},

		{method: http.MethodPost, path: "/api/clauses/import_text", handler: h.ImportClauseText},
		{method: http.MethodPost, path: "/api/export/docx", handler: h.ExportDocx},
		{method: http.MethodPost, path: "/api/export/pdf", handler: h.ExportPDF},
	}

	rs = append(rs, crud("/api/entidades", h.ListEntities, h.CreateEntity, h.GetEntity, h.UpdateEntity, h.DeleteEntity)...)
	rs = append(rs, crud("/api/qualificacoes", h.ListQualificationTemplates, h.CreateQualificationTemplate,
		h.GetQualificationTemplate, h.UpdateQualificationTemplate, h.DeleteQualificationTemplate)...)
	rs = append(rs, crud("/api/tipos-parte", h.ListPartyRoleTypes, h.CreatePartyRoleType,
		h.GetPartyRoleType, h.UpdatePartyRoleType, h.DeletePartyRoleType)...)
	rs = append(rs, crud("/api/clausulas", h.ListClauses, h.CreateClause, h.GetClause, h.UpdateClause, h.DeleteClause)...)
	rs = append(rs, crud("/api/tipos-contrato", h.ListContractTypes, h.CreateContractType,
		h.GetContractType, h.UpdateContractType, h.DeleteContractType)...)
	rs = append(rs, crud("/api/rascunhos", h.ListDrafts, h.CreateDraft, h.GetDraft, h.UpdateDraft, h.DeleteDraft)...)
	return rs
}

// Register mounts every route on e, with and without the trailing slash.
// Non-public routes require a bearer access token.
func (h *Handler) Register(e *echo.Echo, auth middleware.Authenticator) {
	requireAuth := middleware.RequireAuth(auth)

	for _, r := range h.routes() {
		mw := append([]echo.MiddlewareFunc{}, r.extra...)
		if !r.public {
			mw = append([]echo.MiddlewareFunc{requireAuth}, mw...)
		}

		path := strings.TrimSuffix(r.path, "/")
		e.Add(r.method, path, r.handler, mw...)
		e.Add(r.method, path+"/", r.handler, mw...)
	}
}
