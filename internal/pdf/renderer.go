package pdf

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jung-kurt/gofpdf"

	"auditapi/internal/model"
)

// Page geometry in millimeters (A4 portrait).
const (
	pageMargin   = 15.0
	contentWidth = 180.0
	bottomLimit  = 282.0

	lineHeight = 5.0
	cellPad    = 1.0

	colQuestion   = 85.0
	colCompliance = 20.0
	colEvidence   = 75.0

	imageBoxWidth  = 170.0
	imageBoxHeight = 150.0
)

type renderer struct {
	colors  map[model.Compliance]RGB
	alpha   float64
	fetcher ImageFetcher
}

// New builds a Renderer from cfg, filling in defaults for unset fields.
func New(cfg Config) Renderer {
	colors := cfg.Colors
	if colors == nil {
		colors = DefaultColors
	}
	alpha := cfg.HighlightAlpha
	if alpha == 0 {
		alpha = 0.35
	}
	return &renderer{colors: colors, alpha: alpha, fetcher: cfg.Fetcher}
}

func (r *renderer) Render(ctx context.Context, a *model.Audit) ([]byte, error) {
	if a == nil {
		return nil, errors.New("audit document is nil")
	}

	f := gofpdf.New("P", "mm", "A4", "")
	f.SetMargins(pageMargin, pageMargin, pageMargin)
	f.SetAutoPageBreak(false, 0)
	f.SetTitle(fmt.Sprintf("HACCP Audit - %s", a.RestaurantName), false)
	f.SetCreationDate(stampFor(a))

	r.coverPage(f, a)
	r.infoPage(f, a)
	r.checklistPages(f, a)
	r.evidencePages(ctx, f, a)
	r.closingPage(f)

	if f.Err() {
		return nil, &RenderError{Stage: "layout", Err: f.Error()}
	}
	var buf bytes.Buffer
	if err := f.Output(&buf); err != nil {
		return nil, &RenderError{Stage: "output", Err: err}
	}
	return buf.Bytes(), nil
}

// stampFor pins the embedded creation date to the document's own timestamps
// so rendering the same version twice yields identical bytes.
func stampFor(a *model.Audit) time.Time {
	if !a.UpdatedAt.IsZero() {
		return a.UpdatedAt
	}
	if !a.CreatedAt.IsZero() {
		return a.CreatedAt
	}
	return time.Unix(0, 0).UTC()
}

func (r *renderer) coverPage(f *gofpdf.Fpdf, a *model.Audit) {
	f.AddPage()

	f.SetY(80)
	f.SetFont("Helvetica", "B", 26)
	f.CellFormat(contentWidth, 12, "HACCP Food Safety Audit", "", 1, "C", false, 0, "")

	f.Ln(8)
	f.SetFont("Helvetica", "", 18)
	f.CellFormat(contentWidth, 10, a.RestaurantName, "", 1, "C", false, 0, "")

	f.Ln(20)
	f.SetFont("Helvetica", "", 12)
	if a.DateOfAudit != nil {
		f.CellFormat(contentWidth, 8, "Date of Audit: "+a.DateOfAudit.Format("02 Jan 2006"), "", 1, "C", false, 0, "")
	}
	f.CellFormat(contentWidth, 8, fmt.Sprintf("Report Version %d", a.Version), "", 1, "C", false, 0, "")
}

func (r *renderer) infoPage(f *gofpdf.Fpdf, a *model.Audit) {
	f.AddPage()
	r.heading(f, "Organizational Information")

	const labelWidth = 60.0
	valueWidth := contentWidth - labelWidth

	f.SetFont("Helvetica", "", 10)
	for _, field := range infoFields {
		value := field.Value(a)
		lines := len(f.SplitText(value, valueWidth-2*cellPad))
		if lines < 1 {
			lines = 1 // empty values still get a full row
		}
		rowH := float64(lines)*lineHeight + 2*cellPad

		if f.GetY()+rowH > bottomLimit {
			f.AddPage()
		}

		x, y := pageMargin, f.GetY()
		f.Rect(x, y, labelWidth, rowH, "D")
		f.Rect(x+labelWidth, y, valueWidth, rowH, "D")

		f.SetXY(x+cellPad, y+cellPad)
		f.SetFont("Helvetica", "B", 10)
		f.MultiCell(labelWidth-2*cellPad, lineHeight, field.Label, "", "L", false)
		f.SetXY(x+labelWidth+cellPad, y+cellPad)
		f.SetFont("Helvetica", "", 10)
		f.MultiCell(valueWidth-2*cellPad, lineHeight, value, "", "L", false)

		f.SetXY(pageMargin, y+rowH)
	}

	f.Ln(6)
	for _, group := range checkboxGroups {
		r.checkboxRow(f, a, group)
	}
}

// checkboxRow draws a label followed by one box per option. A box is checked
// only when the document field matches the option text exactly; unknown
// values leave every box empty.
func (r *renderer) checkboxRow(f *gofpdf.Fpdf, a *model.Audit, group checkboxGroup) {
	if f.GetY()+10 > bottomLimit {
		f.AddPage()
	}

	selected := group.Selected(a)
	y := f.GetY()

	f.SetFont("Helvetica", "B", 10)
	f.SetXY(pageMargin, y)
	f.CellFormat(40, 6, group.Label+":", "", 0, "L", false, 0, "")

	f.SetFont("Helvetica", "", 9)
	x := pageMargin + 42
	for _, opt := range group.Options {
		boxY := y + 1
		f.Rect(x, boxY, 4, 4, "D")
		if opt == selected {
			f.Line(x+0.7, boxY+0.7, x+3.3, boxY+3.3)
			f.Line(x+3.3, boxY+0.7, x+0.7, boxY+3.3)
		}
		f.SetXY(x+5, y)
		width := f.GetStringWidth(opt) + 4
		f.CellFormat(width, 6, opt, "", 0, "L", false, 0, "")
		x += 5 + width + 3
	}
	f.SetXY(pageMargin, y+9)
}

func (r *renderer) checklistPages(f *gofpdf.Fpdf, a *model.Audit) {
	r.startChecklistPage(f)

	for _, sec := range a.Sections {
		// Never orphan a section title at the bottom of a page.
		minSection := 8.0 + lineHeight + 2*cellPad
		if len(sec.Questions) == 0 {
			minSection = 8.0
		}
		if f.GetY()+minSection > bottomLimit {
			r.startChecklistPage(f)
		}

		f.SetFont("Helvetica", "B", 10)
		f.SetFillColor(230, 230, 230)
		f.CellFormat(contentWidth, 8, sec.SectionTitle, "1", 1, "L", true, 0, "")

		f.SetFont("Helvetica", "", 9)
		for _, q := range sec.Questions {
			r.checklistRow(f, q)
		}
		f.Ln(2)
	}
}

func (r *renderer) startChecklistPage(f *gofpdf.Fpdf) {
	f.AddPage()
	r.heading(f, "Audit Checklist")

	f.SetFont("Helvetica", "B", 9)
	f.SetFillColor(210, 210, 210)
	f.CellFormat(colQuestion, 7, "Requirement", "1", 0, "C", true, 0, "")
	f.CellFormat(colCompliance, 7, "Compliance", "1", 0, "C", true, 0, "")
	f.CellFormat(colEvidence, 7, "Evidence / Comments", "1", 1, "C", true, 0, "")
	f.SetFont("Helvetica", "", 9)
}

func (r *renderer) checklistRow(f *gofpdf.Fpdf, q model.Question) {
	qLines := len(f.SplitText(q.Question, colQuestion-2*cellPad))
	eLines := len(f.SplitText(q.EvidenceAndComments, colEvidence-2*cellPad))
	lines := qLines
	if eLines > lines {
		lines = eLines
	}
	if lines < 1 {
		lines = 1
	}
	rowH := float64(lines)*lineHeight + 2*cellPad

	if f.GetY()+rowH > bottomLimit {
		r.startChecklistPage(f)
	}

	x, y := pageMargin, f.GetY()

	// Semi-transparent highlight behind the compliance and evidence cells.
	if color, ok := r.colors[q.Compliance]; ok {
		f.SetAlpha(r.alpha, "Normal")
		f.SetFillColor(color.R, color.G, color.B)
		f.Rect(x+colQuestion, y, colCompliance+colEvidence, rowH, "F")
		f.SetAlpha(1, "Normal")
	}

	f.Rect(x, y, colQuestion, rowH, "D")
	f.Rect(x+colQuestion, y, colCompliance, rowH, "D")
	f.Rect(x+colQuestion+colCompliance, y, colEvidence, rowH, "D")

	f.SetXY(x+cellPad, y+cellPad)
	f.MultiCell(colQuestion-2*cellPad, lineHeight, q.Question, "", "L", false)
	f.SetXY(x+colQuestion, y+cellPad)
	f.MultiCell(colCompliance, lineHeight, string(q.Compliance), "", "C", false)
	f.SetXY(x+colQuestion+colCompliance+cellPad, y+cellPad)
	f.MultiCell(colEvidence-2*cellPad, lineHeight, q.EvidenceAndComments, "", "L", false)

	f.SetXY(pageMargin, y+rowH)
}

// evidencePages gives every question carrying an image its own page. A fetch
// or decode failure renders a placeholder and the remaining sections continue.
func (r *renderer) evidencePages(ctx context.Context, f *gofpdf.Fpdf, a *model.Audit) {
	for si, sec := range a.Sections {
		for qi, q := range sec.Questions {
			if q.Image == "" {
				continue
			}

			f.AddPage()
			title := "Evidence"
			if sec.SectionTitle != "" {
				title = "Evidence - " + sec.SectionTitle
			}
			r.heading(f, title)

			f.SetFont("Helvetica", "B", 10)
			f.MultiCell(contentWidth, lineHeight+1, q.Question, "", "L", false)

			f.SetFont("Helvetica", "", 10)
			if color, ok := r.colors[q.Compliance]; ok {
				y := f.GetY() + 1
				f.SetAlpha(r.alpha, "Normal")
				f.SetFillColor(color.R, color.G, color.B)
				f.Rect(pageMargin, y, 5, 5, "F")
				f.SetAlpha(1, "Normal")
				f.SetXY(pageMargin+7, y)
				f.CellFormat(contentWidth-7, 5, "Compliance: "+string(q.Compliance), "", 1, "L", false, 0, "")
			} else {
				f.CellFormat(contentWidth, 5, "Compliance: "+string(q.Compliance), "", 1, "L", false, 0, "")
			}

			if q.EvidenceAndComments != "" {
				f.Ln(2)
				f.MultiCell(contentWidth, lineHeight, q.EvidenceAndComments, "", "L", false)
			}
			f.Ln(4)

			r.embedImage(ctx, f, q.Image, fmt.Sprintf("evidence_%d_%d", si, qi))
		}
	}
}

func (r *renderer) embedImage(ctx context.Context, f *gofpdf.Fpdf, ref, name string) {
	if r.fetcher == nil {
		r.imagePlaceholder(f, "no image fetcher configured")
		return
	}
	pngBytes, err := r.fetcher.Fetch(ctx, ref)
	if err != nil {
		r.imagePlaceholder(f, "image unavailable: "+err.Error())
		return
	}

	opts := gofpdf.ImageOptions{ImageType: "PNG"}
	info := f.RegisterImageOptionsReader(name, opts, bytes.NewReader(pngBytes))
	if info == nil || f.Err() {
		r.imagePlaceholder(f, "image could not be embedded")
		return
	}

	iw, ih := info.Extent()
	scale := imageBoxWidth / iw
	if s := imageBoxHeight / ih; s < scale {
		scale = s
	}
	if scale > 1 {
		scale = 1
	}
	w, h := iw*scale, ih*scale
	x := pageMargin + (contentWidth-w)/2
	f.ImageOptions(name, x, f.GetY(), w, h, false, opts, 0, "")
}

// imagePlaceholder draws a visible error marker where an image should have
// been so a degraded render is obvious on paper.
func (r *renderer) imagePlaceholder(f *gofpdf.Fpdf, msg string) {
	y := f.GetY()
	f.SetDrawColor(180, 180, 180)
	f.Rect(pageMargin, y, contentWidth, 50, "D")
	f.Line(pageMargin, y, pageMargin+contentWidth, y+50)
	f.Line(pageMargin+contentWidth, y, pageMargin, y+50)
	f.SetDrawColor(0, 0, 0)

	f.SetFont("Helvetica", "I", 10)
	f.SetXY(pageMargin, y+22)
	f.CellFormat(contentWidth, 6, msg, "", 1, "C", false, 0, "")
	f.SetXY(pageMargin, y+52)
	f.SetFont("Helvetica", "", 10)
}

func (r *renderer) closingPage(f *gofpdf.Fpdf) {
	f.AddPage()
	r.heading(f, "Disclaimer")

	f.SetFont("Helvetica", "", 10)
	f.MultiCell(contentWidth, 6,
		"This report reflects the conditions observed at the audited premises on the "+
			"date of the audit only. Compliance indicators represent the professional "+
			"judgement of the audit team against the stated audit criteria and scope. "+
			"The audited company remains responsible for maintaining food safety "+
			"standards between audits. This document is system-generated from the "+
			"submitted audit form and is final once issued; corrections require a new "+
			"audit form version.",
		"", "L", false)
}

func (r *renderer) heading(f *gofpdf.Fpdf, text string) {
	f.SetFont("Helvetica", "B", 14)
	f.CellFormat(contentWidth, 10, text, "", 1, "L", false, 0, "")
	f.Ln(2)
}
