package handlers

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRegisterMountsBothSlashForms(t *testing.T) {
	ts := newTestServer(t, false)

	registered := map[string]bool{}
	for _, r := range ts.e.Routes() {
		registered[r.Method+" "+r.Path] = true
	}

	expected := []string{
		"POST /api/token",
		"POST /api/token/refresh",
		"GET /api/utils/viacep/:cep",
		"GET /api/me",
		"GET /api/entidades",
		"POST /api/entidades",
		"GET /api/entidades/export",
		"POST /api/entidades/import",
		"PUT /api/entidades/:id",
		"PATCH /api/entidades/:id",
		"DELETE /api/entidades/:id",
		"POST /api/qualificacoes/:id/render",
		"GET /api/tipos-parte/:id",
		"PATCH /api/clausulas/:id",
		"DELETE /api/tipos-contrato/:id",
		"PATCH /api/rascunhos/:id/update_status",
		"GET /api/rascunhos/:id/historico",
		"GET /api/rascunhos/:id/historico/:entry",
		"POST /api/anexos",
		"GET /api/anexos/:id/download",
		"POST /api/clauses/import_text",
		"POST /api/export/docx",
		"POST /api/export/pdf",
		"GET /healthz",
	}
	for _, route := range expected {
		assert.True(t, registered[route], route)
		assert.True(t, registered[route+"/"], route+"/")
	}
}

func TestHealthz(t *testing.T) {
	ts := newTestServer(t, false)

	rec := ts.doAs("", http.MethodGet, "/healthz", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok"}`, rec.Body.String())
}

func TestUnknownRouteIsJSON(t *testing.T) {
	ts := newTestServer(t, false)

	rec := ts.do(http.MethodGet, "/api/nada/", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.JSONEq(t, `{"error":"Not Found"}`, rec.Body.String())
}
