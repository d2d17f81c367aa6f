package handlers

import (
	"archive/zip"
	"bytes"
	"net/http"
	"testing"

	"srv_contratos/services/docconv"
	"srv_contratos/services/postal"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPostalCodeLookup(t *testing.T) {
	ts := newTestServer(t, false)

	tests := []struct {
		name   string
		err    error
		status int
	}{
		{"found", nil, http.StatusOK},
		{"invalid code", postal.ErrInvalidCode, http.StatusBadRequest},
		{"not found", postal.ErrNotFound, http.StatusNotFound},
		{"upstream failure", errors.Wrap(postal.ErrUnavailable, "timeout"), http.StatusBadGateway},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ts.postal.address = postal.Address{"cep": "01001-000", "logradouro": "Praça da Sé"}
			ts.postal.err = tt.err

			// Public route: no token
			rec := ts.doAs("", http.MethodGet, "/api/utils/viacep/01001000/", nil)
			assert.Equal(t, tt.status, rec.Code, rec.Body.String())
			assert.Equal(t, "01001000", ts.postal.code)
			if tt.err == nil {
				assert.Equal(t, "Praça da Sé", decode[map[string]interface{}](t, rec)["logradouro"])
			}
		})
	}
}

func docxBytes(t *testing.T, body string) []byte {
	t.Helper()
	buf := &bytes.Buffer{}
	zw := zip.NewWriter(buf)
	w, err := zw.Create("word/document.xml")
	require.NoError(t, err)
	_, err = w.Write([]byte(`<?xml version="1.0" encoding="UTF-8"?>` +
		`<w:document xmlns:w="http://schemas.openxmlformats.org/wordprocessingml/2006/main"><w:body>` +
		body + `</w:body></w:document>`))
	require.NoError(t, err)
	require.NoError(t, zw.Close())
	return buf.Bytes()
}

func TestImportClauseText(t *testing.T) {
	ts := newTestServer(t, false)

	t.Run("docx", func(t *testing.T) {
		content := docxBytes(t, `<w:p><w:r><w:t>CLÁUSULA PRIMEIRA</w:t></w:r></w:p><w:p><w:r><w:t>Do objeto.</w:t></w:r></w:p>`)
		rec := ts.upload("/api/clauses/import_text/", "file", "clausula.docx", content, nil)
		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
		assert.Equal(t, "CLÁUSULA PRIMEIRA\nDo objeto.", decode[map[string]string](t, rec)["texto"])
	})

	t.Run("txt", func(t *testing.T) {
		rec := ts.upload("/api/clauses/import_text/", "file", "clausula.txt", []byte("Do prazo."), nil)
		require.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "Do prazo.", decode[map[string]string](t, rec)["texto"])
	})

	t.Run("pdf is unsupported", func(t *testing.T) {
		rec := ts.upload("/api/clauses/import_text/", "file", "clausula.pdf", []byte("Do prazo."), nil)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.JSONEq(t, `{"error":"Formato de arquivo não suportado."}`, rec.Body.String())
	})

	t.Run("corrupt docx", func(t *testing.T) {
		rec := ts.upload("/api/clauses/import_text/", "file", "clausula.docx", []byte("not a zip"), nil)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("missing file", func(t *testing.T) {
		rec := ts.upload("/api/clauses/import_text/", "", "", nil, map[string]string{"x": "y"})
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}

func TestExportEndpoints(t *testing.T) {
	ts := newTestServer(t, false)

	t.Run("docx", func(t *testing.T) {
		rec := ts.do(http.MethodPost, "/api/export/docx/", map[string]string{"html": "<p>Contrato</p>"})
		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
		assert.Equal(t, docconv.DocxMimeType, rec.Header().Get("Content-Type"))
		assert.Equal(t, "attachment; filename=contrato.docx", rec.Header().Get("Content-Disposition"))
		assert.Equal(t, "PK docx", rec.Body.String())
		assert.Equal(t, "<p>Contrato</p>", ts.docx.html)
	})

	t.Run("pdf", func(t *testing.T) {
		rec := ts.do(http.MethodPost, "/api/export/pdf/", map[string]string{"html": "<p>Contrato</p>"})
		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
		assert.Equal(t, "application/pdf", rec.Header().Get("Content-Type"))
		assert.Equal(t, "attachment; filename=contrato.pdf", rec.Header().Get("Content-Disposition"))
	})

	t.Run("missing html", func(t *testing.T) {
		rec := ts.do(http.MethodPost, "/api/export/docx/", map[string]string{"html": "  "})
		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.JSONEq(t, `{"error":"Nenhum conteúdo HTML fornecido."}`, rec.Body.String())
	})

	t.Run("conversion failure", func(t *testing.T) {
		ts.docx.err = errors.Wrap(docconv.ErrConversion, "exit status 1")
		defer func() { ts.docx.err = nil }()

		rec := ts.do(http.MethodPost, "/api/export/docx/", map[string]string{"html": "<p>x</p>"})
		assert.Equal(t, http.StatusInternalServerError, rec.Code)
		assert.JSONEq(t, `{"error":"Falha ao converter o documento."}`, rec.Body.String())
	})

	t.Run("requires token", func(t *testing.T) {
		rec := ts.doAs("", http.MethodPost, "/api/export/docx/", map[string]string{"html": "<p>x</p>"})
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})
}
