// Package pdf renders a filled audit document into a paginated,
// certificate-style PDF: cover page, organizational-info table, compliance
// checklist with color-coded cells, dedicated evidence-image pages, and a
// closing disclaimer. Rendering is deterministic for identical input; the
// only timestamp embedded is the document's own UpdatedAt.
package pdf

import (
	"context"
	"fmt"

	"auditapi/internal/model"
)

// RGB is a fill color in 0-255 components.
type RGB struct {
	R, G, B int
}

// DefaultColors maps each compliance verdict to its highlight color. The map
// is configuration, not per-call logic; callers may override it wholesale via
// Config.Colors.
var DefaultColors = map[model.Compliance]RGB{
	model.ComplianceYes:           {46, 184, 92},   // green
	model.ComplianceNo:            {220, 53, 69},   // red
	model.ComplianceNeedsImprove:  {255, 193, 7},   // yellow
	model.ComplianceNotApplicable: {134, 142, 150}, // gray
}

// Config controls renderer behavior.
type Config struct {
	// Colors maps compliance verdicts to highlight fills; nil uses DefaultColors.
	Colors map[model.Compliance]RGB
	// HighlightAlpha is the opacity of compliance highlights; zero uses 0.35.
	HighlightAlpha float64
	// Fetcher resolves evidence image references to embeddable PNG bytes.
	// A nil fetcher turns every image into an in-document placeholder.
	Fetcher ImageFetcher
}

// Renderer turns one filled audit document into raw PDF bytes.
type Renderer interface {
	Render(ctx context.Context, a *model.Audit) ([]byte, error)
}

// RenderError marks a fatal layout or encoding failure, distinct from data
// validation and storage errors so the pipeline can report it separately.
// Per-image failures never produce a RenderError; they degrade to in-document
// placeholders.
type RenderError struct {
	Stage string
	Err   error
}

func (e *RenderError) Error() string {
	return fmt.Sprintf("render %s: %v", e.Stage, e.Err)
}

func (e *RenderError) Unwrap() error { return e.Err }
