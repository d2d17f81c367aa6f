package docconv

import (
	"bytes"
	"context"
	"os"
	"os/exec"
	"strings"
	"time"

	"github.com/labstack/gommon/log"
	"github.com/pkg/errors"
)

// DocxMimeType is the content type of exported Word documents
const DocxMimeType = "application/vnd.openxmlformats-officedocument.wordprocessingml.document"

var (
	ErrEmptyHTML  = errors.New("Nenhum conteúdo HTML fornecido.")
	ErrConversion = errors.New("Falha ao converter o documento.")
)

// PandocConverter turns HTML into DOCX by running the pandoc binary
type PandocConverter struct {
	path       string
	scratchDir string
	timeout    time.Duration
}

// NewPandocConverter creates a converter that writes its output under scratchDir
func NewPandocConverter(path, scratchDir string, timeout time.Duration) *PandocConverter {
	return &PandocConverter{path: path, scratchDir: scratchDir, timeout: timeout}
}

// HTMLToDOCX converts html and returns the document bytes.
// The scratch output file is removed on every path.
func (c *PandocConverter) HTMLToDOCX(ctx context.Context, html string) ([]byte, error) {
	if isBlank(html) {
		return nil, ErrEmptyHTML
	}

	if err := os.MkdirAll(c.scratchDir, 0755); err != nil {
		return nil, errors.Wrap(ErrConversion, err.Error())
	}
	out, err := os.CreateTemp(c.scratchDir, "export-*.docx")
	if err != nil {
		return nil, errors.Wrap(ErrConversion, err.Error())
	}
	outPath := out.Name()
	out.Close()
	defer func() {
		if err := os.Remove(outPath); err != nil && !os.IsNotExist(err) {
			log.Warnf("[EXPORT] Failed to remove scratch file %s: %v", outPath, err)
		}
	}()

	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	cmd := exec.CommandContext(ctx, c.path, "--from=html", "--to=docx", "--output="+outPath)
	cmd.Stdin = strings.NewReader(WrapHTML(html))
	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		detail := strings.TrimSpace(stderr.String())
		if ctx.Err() != nil {
			detail = "conversion timed out"
		}
		log.Errorf("[EXPORT] pandoc failed: %v: %s", err, detail)
		return nil, errors.Wrapf(ErrConversion, "%v: %s", err, detail)
	}

	data, err := os.ReadFile(outPath)
	if err != nil {
		return nil, errors.Wrap(ErrConversion, err.Error())
	}
	if len(data) == 0 {
		return nil, errors.Wrap(ErrConversion, "converter produced an empty file")
	}
	return data, nil
}
