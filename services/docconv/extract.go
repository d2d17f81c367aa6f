package docconv

import (
	"archive/zip"
	"bytes"
	"encoding/xml"
	"io"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"github.com/pkg/errors"
)

// MaxInputSize bounds uploaded clause files
const MaxInputSize = 10 * 1024 * 1024

var (
	ErrUnsupportedFormat = errors.New("Formato de arquivo não suportado.")
	ErrParse             = errors.New("Não foi possível ler o arquivo.")
)

const wordNamespace = "http://schemas.openxmlformats.org/wordprocessingml/2006/main"

// ExtractText returns the plain text of a .docx or .txt upload.
// Formats are chosen by extension only; content is never sniffed.
func ExtractText(filename string, r io.Reader) (string, error) {
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".docx":
		data, err := readLimited(r)
		if err != nil {
			return "", err
		}
		return docxText(data)
	case ".txt":
		data, err := readLimited(r)
		if err != nil {
			return "", err
		}
		if !utf8.Valid(data) {
			return "", errors.Wrap(ErrParse, "text is not valid UTF-8")
		}
		return string(data), nil
	default:
		return "", ErrUnsupportedFormat
	}
}

func readLimited(r io.Reader) ([]byte, error) {
	data, err := io.ReadAll(io.LimitReader(r, MaxInputSize+1))
	if err != nil {
		return nil, errors.Wrap(ErrParse, err.Error())
	}
	if len(data) > MaxInputSize {
		return nil, errors.Wrap(ErrParse, "file too large")
	}
	return data, nil
}

// docxText joins the body paragraphs of a WordprocessingML package with newlines.
// Paragraphs nested in tables are skipped.
func docxText(data []byte) (string, error) {
	archive, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", errors.Wrap(ErrParse, err.Error())
	}

	var document *zip.File
	for _, f := range archive.File {
		if f.Name == "word/document.xml" {
			document = f
			break
		}
	}
	if document == nil {
		return "", errors.Wrap(ErrParse, "word/document.xml missing")
	}

	rc, err := document.Open()
	if err != nil {
		return "", errors.Wrap(ErrParse, err.Error())
	}
	defer rc.Close()

	paragraphs, err := paragraphTexts(xml.NewDecoder(rc))
	if err != nil {
		return "", errors.Wrap(ErrParse, err.Error())
	}
	return strings.Join(paragraphs, "\n"), nil
}

func paragraphTexts(decoder *xml.Decoder) ([]string, error) {
	var (
		paragraphs []string
		current    strings.Builder
		paraDepth  int
		inText     bool
		tableDepth int
		sawBody    bool
	)

	for {
		token, err := decoder.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}

		switch t := token.(type) {
		case xml.StartElement:
			if t.Name.Space != wordNamespace {
				continue
			}
			switch t.Name.Local {
			case "body":
				sawBody = true
			case "tbl":
				tableDepth++
			case "p":
				if tableDepth == 0 {
					if paraDepth == 0 {
						current.Reset()
					}
					paraDepth++
				}
			case "t":
				inText = paraDepth > 0
			case "tab":
				if paraDepth > 0 {
					current.WriteByte('\t')
				}
			case "br", "cr":
				if paraDepth > 0 {
					current.WriteByte('\n')
				}
			}
		case xml.EndElement:
			if t.Name.Space != wordNamespace {
				continue
			}
			switch t.Name.Local {
			case "tbl":
				tableDepth--
			case "p":
				if paraDepth > 0 && tableDepth == 0 {
					paraDepth--
					if paraDepth == 0 {
						paragraphs = append(paragraphs, current.String())
					}
				}
			case "t":
				inText = false
			}
		case xml.CharData:
			if inText {
				current.Write(t)
			}
		}
	}

	if !sawBody {
		return nil, errors.New("document body missing")
	}
	return paragraphs, nil
}
