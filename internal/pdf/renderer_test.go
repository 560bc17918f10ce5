package pdf

import (
	"bytes"
	"context"
	"errors"
	"image"
	"image/png"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"auditapi/internal/model"
)

type stubFetcher struct {
	data []byte
	err  error
}

func (s *stubFetcher) Fetch(_ context.Context, _ string) ([]byte, error) {
	return s.data, s.err
}

func tinyPNG(t *testing.T) []byte {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, image.NewRGBA(image.Rect(0, 0, 12, 8))))
	return buf.Bytes()
}

// countPages counts page objects in raw PDF output. The page tree node
// ("/Type /Pages") matches the page prefix, so it is subtracted out.
func countPages(b []byte) int {
	return bytes.Count(b, []byte("/Type /Page")) - bytes.Count(b, []byte("/Type /Pages"))
}

func sampleAudit() *model.Audit {
	date := time.Date(2024, 5, 10, 0, 0, 0, 0, time.UTC)
	return &model.Audit{
		ID:             "form-1",
		RestaurantName: "Cafe X",
		NameOfCompany:  "Cafe X Foods Pvt Ltd",
		AuditTeam:      []string{"A. Auditor", "B. Auditor"},
		DateOfAudit:    &date,
		AuditType:      "Annual audit",
		TypeOfAudit:    "Announced",
		Manpower:       model.Manpower{Male: 2, Female: 1},
		Sections: model.Sections{
			{
				SectionTitle: "Hygiene",
				Questions: []model.Question{
					{Question: "Handwashing stations stocked?", Compliance: model.ComplianceYes, EvidenceAndComments: "ok"},
					{Question: "Hair restraints worn?", Compliance: model.ComplianceNo, EvidenceAndComments: "two staff without caps"},
				},
			},
			{
				SectionTitle: "Storage",
				Questions: []model.Question{
					{Question: "Cold room below 5C?", Compliance: model.ComplianceNeedsImprove, EvidenceAndComments: "5.8C at probe 2"},
				},
			},
		},
		Status:    model.StatusFilled,
		Version:   1,
		UserID:    "user-1",
		CreatedAt: time.Date(2024, 5, 10, 9, 0, 0, 0, time.UTC),
		UpdatedAt: time.Date(2024, 5, 10, 9, 30, 0, 0, time.UTC),
	}
}

func TestRenderer_Deterministic(t *testing.T) {
	r := New(Config{})
	a := sampleAudit()

	first, err := r.Render(context.Background(), a)
	require.NoError(t, err)
	second, err := r.Render(context.Background(), a)
	require.NoError(t, err)

	assert.True(t, bytes.Equal(first, second), "two renders of the same document must be byte-identical")
}

func TestRenderer_BasePageLayout(t *testing.T) {
	r := New(Config{})

	out, err := r.Render(context.Background(), sampleAudit())
	require.NoError(t, err)
	require.NotEmpty(t, out)
	assert.True(t, bytes.HasPrefix(out, []byte("%PDF")))

	// cover + info + checklist + disclaimer, no evidence pages without images
	assert.Equal(t, 4, countPages(out))
}

func TestRenderer_EmptySection(t *testing.T) {
	r := New(Config{})
	a := sampleAudit()
	a.Sections = model.Sections{{SectionTitle: "Empty Block"}}

	out, err := r.Render(context.Background(), a)
	require.NoError(t, err)
	assert.Equal(t, 4, countPages(out))
}

func TestRenderer_NoSections(t *testing.T) {
	r := New(Config{})
	a := sampleAudit()
	a.Sections = nil

	out, err := r.Render(context.Background(), a)
	require.NoError(t, err)
	assert.Equal(t, 4, countPages(out))
}

func TestRenderer_EvidenceImagePage(t *testing.T) {
	a := sampleAudit()
	a.Sections[0].Questions[1].Image = "https://img.example/evidence.jpg"

	t.Run("image embedded on dedicated page", func(t *testing.T) {
		r := New(Config{Fetcher: &stubFetcher{data: tinyPNG(t)}})
		out, err := r.Render(context.Background(), a)
		require.NoError(t, err)
		assert.Equal(t, 5, countPages(out))
	})

	t.Run("fetch failure degrades to placeholder", func(t *testing.T) {
		r := New(Config{Fetcher: &stubFetcher{err: errors.New("connection refused")}})
		out, err := r.Render(context.Background(), a)
		require.NoError(t, err, "a single bad image must not abort the render")
		assert.Equal(t, 5, countPages(out))
	})

	t.Run("nil fetcher degrades to placeholder", func(t *testing.T) {
		r := New(Config{})
		out, err := r.Render(context.Background(), a)
		require.NoError(t, err)
		assert.Equal(t, 5, countPages(out))
	})
}

func TestRenderer_ComplianceHighlightPerValue(t *testing.T) {
	render := func(c model.Compliance) []byte {
		a := sampleAudit()
		a.Sections = model.Sections{{
			SectionTitle: "S",
			Questions:    []model.Question{{Question: "q", Compliance: c}},
		}}
		out, err := New(Config{}).Render(context.Background(), a)
		require.NoError(t, err)
		return out
	}

	// Each verdict maps to its own fill, so outputs must pairwise differ.
	outputs := map[model.Compliance][]byte{
		model.ComplianceYes:           render(model.ComplianceYes),
		model.ComplianceNo:            render(model.ComplianceNo),
		model.ComplianceNeedsImprove:  render(model.ComplianceNeedsImprove),
		model.ComplianceNotApplicable: render(model.ComplianceNotApplicable),
	}
	seen := make(map[string]model.Compliance)
	for c, out := range outputs {
		key := string(out)
		if prev, dup := seen[key]; dup {
			t.Fatalf("compliance %q and %q rendered identically", prev, c)
		}
		seen[key] = c
	}
}

func TestRenderer_ChecklistPagination(t *testing.T) {
	a := sampleAudit()
	long := strings.Repeat("The walk-in cooler door gasket must seal fully along its length. ", 4)
	questions := make([]model.Question, 40)
	for i := range questions {
		questions[i] = model.Question{Question: long, Compliance: model.ComplianceYes, EvidenceAndComments: long}
	}
	a.Sections = model.Sections{{SectionTitle: "Deep Dive", Questions: questions}}

	out, err := New(Config{}).Render(context.Background(), a)
	require.NoError(t, err)
	assert.Greater(t, countPages(out), 4, "long checklists must continue onto additional pages")
}

func TestRenderer_NilAudit(t *testing.T) {
	_, err := New(Config{}).Render(context.Background(), nil)
	assert.Error(t, err)
}

func TestDefaultColors(t *testing.T) {
	for _, c := range []model.Compliance{
		model.ComplianceYes, model.ComplianceNo,
		model.ComplianceNeedsImprove, model.ComplianceNotApplicable,
	} {
		_, ok := DefaultColors[c]
		assert.True(t, ok, "missing color for %q", c)
	}
	assert.Equal(t, RGB{46, 184, 92}, DefaultColors[model.ComplianceYes])
	assert.Equal(t, RGB{220, 53, 69}, DefaultColors[model.ComplianceNo])
}
