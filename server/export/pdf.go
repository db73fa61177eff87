package export

import (
	"bytes"
	"fmt"

	"codeberg.org/go-pdf/fpdf"

	studypipeline "github.com/qjs/studyhelper/server/study_pipeline"
)

// PDFConfig controls page layout of the PDF rendition.
type PDFConfig struct {
	PageSize   string
	MarginsMM  float64
	FontFamily string
}

// DefaultPDFConfig matches the layout of the text export on A4 paper.
func DefaultPDFConfig() PDFConfig {
	return PDFConfig{
		PageSize:   "A4",
		MarginsMM:  15,
		FontFamily: "Helvetica",
	}
}

// PDF renders the completed run as a PDF document with the same title and
// per-stage headings as Text.
func PDF(res *studypipeline.Result, cfg PDFConfig) ([]byte, error) {
	if !res.Complete() {
		return nil, ErrIncomplete
	}

	pdf := fpdf.New("P", "mm", cfg.PageSize, "")
	pdf.SetMargins(cfg.MarginsMM, cfg.MarginsMM, cfg.MarginsMM)
	pdf.SetTitle(DocumentTitle, false)
	pdf.AddPage()

	// ---------- title ----------
	pdf.SetFont(cfg.FontFamily, "B", 20)
	pdf.CellFormat(0, 14, DocumentTitle, "", 1, "C", false, 0, "")
	pdf.Ln(6)

	// ---------- stages ----------
	for _, sr := range res.Stages {
		pdf.SetFont(cfg.FontFamily, "B", 14)
		pdf.MultiCell(0, 9, Heading(sr), "", "L", false)
		pdf.Ln(2)
		pdf.SetFont(cfg.FontFamily, "", 11)
		pdf.MultiCell(0, 6, sr.Output, "", "L", false)
		pdf.Ln(6)
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("export: pdf: %w", err)
	}
	return buf.Bytes(), nil
}
