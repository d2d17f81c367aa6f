package services

import (
	"bytes"
	"mime/multipart"
	"net/textproto"
	"testing"

	"github.com/stretchr/testify/assert"
)

func createMockFileHeader(filename string, content []byte, contentType string) *multipart.FileHeader {
	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)
	header := make(textproto.MIMEHeader)
	header.Set("Content-Disposition", `form-data; name="arquivo"; filename="`+filename+`"`)
	if contentType != "" {
		header.Set("Content-Type", contentType)
	}
	part, _ := writer.CreatePart(header)
	part.Write(content)
	writer.Close()

	reader := multipart.NewReader(body, writer.Boundary())
	form, _ := reader.ReadForm(32 << 20)
	return form.File["arquivo"][0]
}

func TestValidateAttachmentUpload(t *testing.T) {
	t.Run("Valid PDF", func(t *testing.T) {
		content := append([]byte("%PDF-1.4\n"), make([]byte, 100)...)
		file := createMockFileHeader("test.pdf", content, "application/pdf")
		assert.NoError(t, ValidateAttachmentUpload(file))
	})

	t.Run("Any type is accepted", func(t *testing.T) {
		file := createMockFileHeader("planilha.ods", []byte("PK\x03\x04 data"), "")
		assert.NoError(t, ValidateAttachmentUpload(file))
	})

	t.Run("File too large", func(t *testing.T) {
		content := make([]byte, MaxUploadSize+1)
		file := createMockFileHeader("large.pdf", content, "application/pdf")
		err := ValidateAttachmentUpload(file)
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "10MB")
	})

	t.Run("Empty file", func(t *testing.T) {
		file := createMockFileHeader("vazio.txt", nil, "text/plain")
		assert.Error(t, ValidateAttachmentUpload(file))
	})

	t.Run("Nil file", func(t *testing.T) {
		assert.Error(t, ValidateAttachmentUpload(nil))
	})
}

func TestSanitizeFilename(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"contrato.pdf", "contrato.pdf"},
		{"../../etc/passwd", "passwd"},
		{`C:\Users\ana\procuração.docx`, "procuração.docx"},
		{"  espaços.txt ", "espaços.txt"},
		{"/", ""},
		{"", ""},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.expected, SanitizeFilename(tt.input))
		})
	}
}

func TestDetectMimeType(t *testing.T) {
	t.Run("Uses client content type", func(t *testing.T) {
		file := createMockFileHeader("a.pdf", []byte("%PDF-1.4"), "application/pdf")
		assert.Equal(t, "application/pdf", DetectMimeType(file))
	})

	t.Run("Sniffs when client sends octet-stream", func(t *testing.T) {
		file := createMockFileHeader("a.bin", []byte("%PDF-1.4\nrest"), "application/octet-stream")
		assert.Equal(t, "application/pdf", DetectMimeType(file))
	})

	t.Run("Sniffs when client sends nothing", func(t *testing.T) {
		file := createMockFileHeader("a.txt", []byte("texto simples"), "")
		assert.Equal(t, "text/plain; charset=utf-8", DetectMimeType(file))
	})
}
