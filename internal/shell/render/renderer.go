// Package render lays out contract text as a paginated PDF file. It
// interprets the minimal bold-markup grammar from internal/core/markup and
// writes the result under the configured output directory.
package render

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/artpar/contractor/internal/core/contract"
	"github.com/artpar/contractor/internal/core/markup"
	"github.com/jung-kurt/gofpdf"
)

// =============================================================================
// Errors
// =============================================================================

var (
	// ErrFontNotFound is returned when a configured font file is missing.
	// The renderer requires UTF-8 TrueType fonts; legal text carries
	// locale-specific letters that the built-in ASCII fonts cannot encode.
	ErrFontNotFound = errors.New("font file not found")

	// ErrOutputDir is returned when the output directory cannot be created.
	ErrOutputDir = errors.New("cannot create output directory")

	// ErrRenderFailed is returned when PDF layout or the file write fails.
	ErrRenderFailed = errors.New("pdf rendering failed")
)

// =============================================================================
// Configuration
// =============================================================================

// Config holds renderer configuration. Storage locations are explicit
// construction-time values, never ambient filesystem state.
type Config struct {
	OutputDir   string
	FontDir     string
	FontRegular string // file name inside FontDir
	FontBold    string // file name inside FontDir
}

// DefaultConfig returns default renderer configuration.
func DefaultConfig() Config {
	return Config{
		OutputDir:   "contracts",
		FontDir:     "/usr/share/fonts/truetype/dejavu",
		FontRegular: "DejaVuSansCondensed.ttf",
		FontBold:    "DejaVuSansCondensed-Bold.ttf",
	}
}

// Layout constants, in millimeters and points on an A4 portrait page.
const (
	fontFamily = "contract"

	bodySize   = 10.0
	headerSize = 12.0
	footerSize = 8.0

	lineHeight   = 6.0  // body and inline line height
	headerHeight = 8.0  // header cell height
	headerGap    = 8.0  // extra space before a section header
	blankGap     = 4.0  // vertical advance for a blank line
	bottomMargin = 20.0 // auto page break margin, leaves room for the footer
	footerOffset = 15.0 // footer distance from the bottom edge
)

// =============================================================================
// Documents
// =============================================================================

// Document is the input to a render: the final pipeline text plus the
// naming inputs for the output file.
type Document struct {
	Kind      string
	Recipient string
	Content   string
}

// Result describes a rendered file.
type Result struct {
	Filename string
	Path     string
}

// =============================================================================
// PDF Renderer
// =============================================================================

// PDFRenderer renders contract documents to paginated PDF files.
type PDFRenderer struct {
	cfg    Config
	logger *slog.Logger
}

// NewPDFRenderer creates a renderer with the given config. Empty config
// fields fall back to defaults.
func NewPDFRenderer(cfg Config, logger *slog.Logger) *PDFRenderer {
	def := DefaultConfig()
	if cfg.OutputDir == "" {
		cfg.OutputDir = def.OutputDir
	}
	if cfg.FontDir == "" {
		cfg.FontDir = def.FontDir
	}
	if cfg.FontRegular == "" {
		cfg.FontRegular = def.FontRegular
	}
	if cfg.FontBold == "" {
		cfg.FontBold = def.FontBold
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &PDFRenderer{cfg: cfg, logger: logger}
}

// OutputDir returns the directory rendered files are written to.
func (r *PDFRenderer) OutputDir() string {
	return r.cfg.OutputDir
}

// Render lays the document out page by page and writes it to a uniquely
// named file under the output directory, creating the directory if absent.
// On failure no file is left behind.
func (r *PDFRenderer) Render(doc Document) (*Result, error) {
	for _, font := range []string{r.cfg.FontRegular, r.cfg.FontBold} {
		if _, err := os.Stat(filepath.Join(r.cfg.FontDir, font)); err != nil {
			return nil, fmt.Errorf("%w: %s", ErrFontNotFound, filepath.Join(r.cfg.FontDir, font))
		}
	}

	if err := os.MkdirAll(r.cfg.OutputDir, 0o755); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrOutputDir, err)
	}

	pdf := gofpdf.New("P", "mm", "A4", r.cfg.FontDir)
	pdf.AddUTF8Font(fontFamily, "", r.cfg.FontRegular)
	pdf.AddUTF8Font(fontFamily, "B", r.cfg.FontBold)

	// Same footer on every page: centered page number, small font, fixed
	// distance from the bottom edge.
	pdf.SetFooterFunc(func() {
		pdf.SetY(-footerOffset)
		pdf.SetFont(fontFamily, "", footerSize)
		pdf.CellFormat(0, 10, fmt.Sprintf("Page %d", pdf.PageNo()), "", 0, "C", false, 0, "")
	})

	pdf.SetAutoPageBreak(true, bottomMargin)
	pdf.AddPage()
	pdf.SetFont(fontFamily, "", bodySize)

	for _, raw := range strings.Split(doc.Content, "\n") {
		line := markup.Classify(raw)
		switch line.Kind {
		case markup.Blank:
			pdf.Ln(blankGap)
		case markup.Header:
			r.writeHeader(pdf, line.Text)
		case markup.Inline:
			r.writeRuns(pdf, line.Runs)
		case markup.Comment:
			// directive lines contribute nothing to the document
		default:
			pdf.MultiCell(0, lineHeight, line.Text, "", "L", false)
		}
	}

	filename := contract.OutputFilename(doc.Kind, doc.Recipient, time.Now(), contract.NewFilenameToken())
	path := filepath.Join(r.cfg.OutputDir, filename)

	if err := pdf.OutputFileAndClose(path); err != nil {
		os.Remove(path)
		return nil, fmt.Errorf("%w: %v", ErrRenderFailed, err)
	}

	r.logger.Info("contract rendered",
		"kind", doc.Kind,
		"file", filename,
		"pages", pdf.PageCount(),
	)

	return &Result{Filename: filename, Path: path}, nil
}

// writeHeader renders a section header: bold, larger, preceded by extra
// vertical space, then restores body style.
func (r *PDFRenderer) writeHeader(pdf *gofpdf.Fpdf, text string) {
	pdf.SetFont(fontFamily, "B", headerSize)
	pdf.Ln(headerGap)
	pdf.CellFormat(0, headerHeight, text, "", 1, "L", false, 0, "")
	pdf.SetFont(fontFamily, "", bodySize)
}

// writeRuns lays alternating styled runs left to right on the current line.
// A run that would cross the right margin wraps whole to the left margin
// first; runs are never split.
func (r *PDFRenderer) writeRuns(pdf *gofpdf.Fpdf, runs []markup.Run) {
	pageWidth, _ := pdf.GetPageSize()
	leftMargin, _, rightMargin, _ := pdf.GetMargins()

	x := pdf.GetX()
	for _, run := range runs {
		style := ""
		if run.Bold {
			style = "B"
		}
		pdf.SetFont(fontFamily, style, bodySize)

		width := pdf.GetStringWidth(run.Text)
		if x+width > pageWidth-rightMargin {
			pdf.Ln(lineHeight)
			x = leftMargin
		}
		pdf.SetX(x)
		pdf.CellFormat(width, lineHeight, run.Text, "", 0, "", false, 0, "")
		x += width
	}
	pdf.Ln(lineHeight)
	pdf.SetFont(fontFamily, "", bodySize)
}
