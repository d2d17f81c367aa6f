package services

import (
	"errors"
	"io"
	"mime/multipart"
	"net/http"
	"path/filepath"
	"strings"
)

const (
	MaxUploadSize = 10 * 1024 * 1024 // 10MB
)

// ValidateAttachmentUpload checks the uploaded file is present, named and within size limits
func ValidateAttachmentUpload(fileHeader *multipart.FileHeader) error {
	if fileHeader == nil {
		return errors.New("Nenhum arquivo foi submetido.")
	}
	if fileHeader.Size == 0 {
		return errors.New("O arquivo submetido está vazio.")
	}
	if fileHeader.Size > MaxUploadSize {
		return errors.New("O arquivo excede o tamanho máximo de 10MB.")
	}
	if SanitizeFilename(fileHeader.Filename) == "" {
		return errors.New("O nome do arquivo é obrigatório.")
	}
	return nil
}

// SanitizeFilename strips directory components from a client supplied file name
func SanitizeFilename(name string) string {
	name = strings.ReplaceAll(name, "\\", "/")
	name = filepath.Base(name)
	if name == "." || name == "/" {
		return ""
	}
	return strings.TrimSpace(name)
}

// DetectMimeType sniffs the first 512 bytes when the client did not send a content type
func DetectMimeType(fileHeader *multipart.FileHeader) string {
	if ct := fileHeader.Header.Get("Content-Type"); ct != "" && ct != "application/octet-stream" {
		return ct
	}

	file, err := fileHeader.Open()
	if err != nil {
		return "application/octet-stream"
	}
	defer file.Close()

	buffer := make([]byte, 512)
	n, err := file.Read(buffer)
	if err != nil && err != io.EOF {
		return "application/octet-stream"
	}
	return http.DetectContentType(buffer[:n])
}
