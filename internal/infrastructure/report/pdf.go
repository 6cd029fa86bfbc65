package report

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"codeberg.org/go-fonts/liberation/liberationsansbold"
	"codeberg.org/go-fonts/liberation/liberationsansregular"
	crerr "github.com/cockroachdb/errors"
	"github.com/go-pdf/fpdf"
	"github.com/riskibarqy/shotmap-report/internal/usecase"
)

const (
	fontFamily = "LiberationSans"
	lineHeight = 5.5
)

// PDFWriter lays out the report on A4 portrait pages.
type PDFWriter struct {
	Author string
	now    func() time.Time
}

func NewPDFWriter(author string) *PDFWriter {
	return &PDFWriter{Author: author, now: time.Now}
}

func (w *PDFWriter) Write(doc usecase.ReportDocument, path string) error {
	if strings.TrimSpace(path) == "" {
		return crerr.New("pdf output path is required")
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return crerr.Wrapf(err, "create output dir=%s", dir)
		}
	}

	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(15, 15, 15)
	pdf.SetAutoPageBreak(true, 15)
	// Team names and model output are arbitrary UTF-8.
	pdf.AddUTF8FontFromBytes(fontFamily, "", liberationsansregular.TTF)
	pdf.AddUTF8FontFromBytes(fontFamily, "B", liberationsansbold.TTF)
	if err := pdf.Error(); err != nil {
		return crerr.Wrap(err, "load pdf fonts")
	}

	title := doc.Title
	if title == "" {
		title = "Shot Map Report"
	}
	pdf.SetTitle(title, true)
	if w.Author != "" {
		pdf.SetAuthor(w.Author, true)
	}
	now := time.Now
	if w.now != nil {
		now = w.now
	}
	pdf.SetCreationDate(now())

	pdf.AddPage()
	pdf.SetFont(fontFamily, "B", 18)
	pdf.CellFormat(0, 10, title, "", 1, "C", false, 0, "")

	pdf.SetFont(fontFamily, "", 12)
	pdf.CellFormat(0, 7, doc.Scoreline, "", 1, "C", false, 0, "")
	pdf.SetFont(fontFamily, "", 9)
	pdf.CellFormat(0, 5, fmt.Sprintf("Match %d - %d shots", doc.MatchID, doc.ShotCount), "", 1, "C", false, 0, "")
	pdf.Ln(4)

	if doc.ImagePath != "" {
		pageW, _ := pdf.GetPageSize()
		left, _, right, _ := pdf.GetMargins()
		pdf.ImageOptions(doc.ImagePath, left, pdf.GetY(), pageW-left-right, 0, true,
			fpdf.ImageOptions{ImageType: "PNG", ReadDpi: true}, 0, "")
		pdf.Ln(4)
	}

	pdf.SetFont(fontFamily, "B", 14)
	pdf.CellFormat(0, 8, "Analysis", "", 1, "L", false, 0, "")
	writeCommentary(pdf, doc.Commentary)

	if err := pdf.OutputFileAndClose(path); err != nil {
		return crerr.Wrapf(err, "write pdf path=%s", path)
	}
	return nil
}

// writeCommentary prints model text, turning light markdown into plain
// paragraphs with bold headings.
func writeCommentary(pdf *fpdf.Fpdf, text string) {
	for _, raw := range strings.Split(strings.ReplaceAll(text, "\r\n", "\n"), "\n") {
		line := strings.TrimSpace(raw)
		if line == "" {
			pdf.Ln(lineHeight / 2)
			continue
		}

		style := ""
		if heading := strings.TrimLeft(line, "#"); heading != line {
			line = strings.TrimSpace(heading)
			style = "B"
		}
		if strings.HasPrefix(line, "- ") || strings.HasPrefix(line, "* ") {
			line = "• " + strings.TrimSpace(line[2:])
		}
		line = stripEmphasis(line)

		pdf.SetFont(fontFamily, style, 11)
		pdf.MultiCell(0, lineHeight, line, "", "L", false)
	}
}

func stripEmphasis(line string) string {
	for _, marker := range []string{"**", "__", "`"} {
		line = strings.ReplaceAll(line, marker, "")
	}
	return line
}
