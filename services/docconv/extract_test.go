package docconv

import (
	"archive/zip"
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const documentXML = `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>
<w:document xmlns:w="http://schemas.openxmlformats.org/wordprocessingml/2006/main">
  <w:body>
    <w:p><w:r><w:t>CLÁUSULA PRIMEIRA</w:t></w:r></w:p>
    <w:p><w:r><w:t xml:space="preserve">O LOCADOR </w:t></w:r><w:r><w:t>cede o imóvel.</w:t></w:r></w:p>
    <w:p/>
    <w:tbl><w:tr><w:tc><w:p><w:r><w:t>célula</w:t></w:r></w:p></w:tc></w:tr></w:tbl>
    <w:p><w:r><w:t>Prazo:</w:t><w:tab/><w:t>12 meses</w:t></w:r></w:p>
  </w:body>
</w:document>`

func buildDocx(t *testing.T, files map[string]string) []byte {
	t.Helper()
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	for name, content := range files {
		w, err := zw.Create(name)
		require.NoError(t, err)
		_, err = w.Write([]byte(content))
		require.NoError(t, err)
	}
	require.NoError(t, zw.Close())
	return buf.Bytes()
}

func TestExtractText_Docx(t *testing.T) {
	data := buildDocx(t, map[string]string{"word/document.xml": documentXML})

	text, err := ExtractText("clausula.DOCX", bytes.NewReader(data))
	require.NoError(t, err)
	assert.Equal(t, "CLÁUSULA PRIMEIRA\nO LOCADOR cede o imóvel.\n\nPrazo:\t12 meses", text)
}

func TestExtractText_Txt(t *testing.T) {
	text, err := ExtractText("clausula.txt", strings.NewReader("Cláusula única.\nSegunda linha."))
	require.NoError(t, err)
	assert.Equal(t, "Cláusula única.\nSegunda linha.", text)
}

func TestExtractText_InvalidUTF8(t *testing.T) {
	_, err := ExtractText("latin1.txt", bytes.NewReader([]byte{0x43, 0x6c, 0xe1, 0x75}))
	assert.ErrorIs(t, err, ErrParse)
}

func TestExtractText_CorruptDocx(t *testing.T) {
	_, err := ExtractText("broken.docx", strings.NewReader("not a zip archive"))
	assert.ErrorIs(t, err, ErrParse)

	data := buildDocx(t, map[string]string{"other.xml": "<x/>"})
	_, err = ExtractText("empty.docx", bytes.NewReader(data))
	assert.ErrorIs(t, err, ErrParse)

	data = buildDocx(t, map[string]string{"word/document.xml": "<w:document"})
	_, err = ExtractText("truncated.docx", bytes.NewReader(data))
	assert.ErrorIs(t, err, ErrParse)
}

func TestExtractText_UnsupportedFormat(t *testing.T) {
	tests := []struct {
		name    string
		content []byte
	}{
		{"contrato.pdf", []byte("%PDF-1.7")},
		{"disguised.pdf", buildDocx(t, map[string]string{"word/document.xml": documentXML})},
		{"notes.doc", []byte("plain text")},
		{"noextension", []byte("plain text")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ExtractText(tt.name, bytes.NewReader(tt.content))
			assert.ErrorIs(t, err, ErrUnsupportedFormat)
		})
	}
}
