package docconv

import (
	"strings"

	"github.com/microcosm-cc/bluemonday"
)

var exportPolicy = newExportPolicy()

func newExportPolicy() *bluemonday.Policy {
	p := bluemonday.UGCPolicy()
	p.AllowAttrs("style").Globally()
	p.AllowAttrs("align").OnElements("p", "div", "td", "th")
	return p
}

// WrapHTML sanitizes an editor fragment and wraps it in a printable document
func WrapHTML(fragment string) string {
	body := exportPolicy.Sanitize(fragment)
	return `<!DOCTYPE html>
<html>
<head>
    <meta charset="UTF-8">
    <style>
        @page {
            margin: 1in;
        }
        body {
            font-family: "Times New Roman", Times, serif;
            font-size: 12pt;
            line-height: 1.5;
            color: #000;
            text-align: justify;
        }
        h1 {
            font-size: 16pt;
            font-weight: bold;
            text-align: center;
            margin-bottom: 24pt;
        }
        h2, h3 {
            font-size: 12pt;
            font-weight: bold;
            margin-top: 18pt;
        }
        p {
            margin: 0 0 12pt 0;
        }
    </style>
</head>
<body>
` + body + `
</body>
</html>`
}

func isBlank(html string) bool {
	return strings.TrimSpace(html) == ""
}
