package docconv

import (
	"context"
	"time"

	"github.com/chromedp/cdproto/page"
	"github.com/chromedp/chromedp"
	"github.com/pkg/errors"
)

// PDFOptions contains options for PDF generation
type PDFOptions struct {
	PageOrientation string // portrait, landscape
	PageSize        string // A4, letter, legal
	MarginTop       int    // points (72 = 1 inch)
	MarginBottom    int
	MarginLeft      int
	MarginRight     int
}

// DefaultPDFOptions returns A4 portrait with 2cm margins
func DefaultPDFOptions() PDFOptions {
	return PDFOptions{
		PageOrientation: "portrait",
		PageSize:        "A4",
		MarginTop:       57,
		MarginBottom:    57,
		MarginLeft:      57,
		MarginRight:     57,
	}
}

// paperInches returns width and height for the page size and orientation
func (o PDFOptions) paperInches() (float64, float64) {
	var w, h float64
	switch o.PageSize {
	case "legal":
		w, h = 8.5, 14.0
	case "letter":
		w, h = 8.5, 11.0
	default:
		w, h = 8.27, 11.69
	}
	if o.PageOrientation == "landscape" {
		w, h = h, w
	}
	return w, h
}

// PDFRenderer prints HTML to PDF with headless Chrome
type PDFRenderer struct {
	chromePath string
	timeout    time.Duration
	options    PDFOptions
}

// NewPDFRenderer creates a renderer; an empty chromePath uses the default lookup
func NewPDFRenderer(chromePath string, timeout time.Duration, options PDFOptions) *PDFRenderer {
	return &PDFRenderer{chromePath: chromePath, timeout: timeout, options: options}
}

// Render converts an HTML fragment to PDF bytes
func (r *PDFRenderer) Render(ctx context.Context, html string) ([]byte, error) {
	if isBlank(html) {
		return nil, ErrEmptyHTML
	}

	opts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.NoSandbox,
		chromedp.DisableGPU,
	)
	if r.chromePath != "" {
		opts = append(opts, chromedp.ExecPath(r.chromePath))
	}

	if r.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, r.timeout)
		defer cancel()
	}

	allocCtx, allocCancel := chromedp.NewExecAllocator(ctx, opts...)
	defer allocCancel()

	browserCtx, cancel := chromedp.NewContext(allocCtx)
	defer cancel()

	width, height := r.options.paperInches()
	document := WrapHTML(html)

	var pdfBuf []byte
	err := chromedp.Run(browserCtx,
		chromedp.Navigate("about:blank"),
		chromedp.ActionFunc(func(ctx context.Context) error {
			frameTree, err := page.GetFrameTree().Do(ctx)
			if err != nil {
				return err
			}
			return page.SetDocumentContent(frameTree.Frame.ID, document).Do(ctx)
		}),
		chromedp.ActionFunc(func(ctx context.Context) error {
			buf, _, err := page.PrintToPDF().
				WithPaperWidth(width).
				WithPaperHeight(height).
				WithMarginTop(float64(r.options.MarginTop) / 72.0).
				WithMarginBottom(float64(r.options.MarginBottom) / 72.0).
				WithMarginLeft(float64(r.options.MarginLeft) / 72.0).
				WithMarginRight(float64(r.options.MarginRight) / 72.0).
				WithPrintBackground(true).
				WithDisplayHeaderFooter(false).
				Do(ctx)
			if err != nil {
				return err
			}
			pdfBuf = buf
			return nil
		}),
	)
	if err != nil {
		return nil, errors.Wrap(ErrConversion, err.Error())
	}
	return pdfBuf, nil
}
