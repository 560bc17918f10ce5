package model

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"
)

// Compliance is the auditor's verdict for a single checklist question.
type Compliance string

const (
	ComplianceYes           Compliance = "Y"
	ComplianceNo            Compliance = "N"
	ComplianceNeedsImprove  Compliance = "NI"
	ComplianceNotApplicable Compliance = "N/A"
)

// Valid reports whether c is one of the four known compliance values.
func (c Compliance) Valid() bool {
	switch c {
	case ComplianceYes, ComplianceNo, ComplianceNeedsImprove, ComplianceNotApplicable:
		return true
	}
	return false
}

// Status discriminates blank templates from filled audit forms.
type Status string

const (
	StatusNotFilled Status = "NOT FILLED"
	StatusFilled    Status = "FILLED"
)

// Valid reports whether s is a known document status.
func (s Status) Valid() bool {
	return s == StatusNotFilled || s == StatusFilled
}

// Manpower counts staff present at the audited site.
type Manpower struct {
	Male   int `json:"male"`
	Female int `json:"female"`
}

// Question is one checklist requirement inside a section.
// Image holds either a durable URL or, on ingestion only, an inline
// data URI that the pipeline resolves to object storage before persisting.
type Question struct {
	Question            string     `json:"question"`
	Compliance          Compliance `json:"compliance"`
	EvidenceAndComments string     `json:"evidenceAndComments"`
	Image               string     `json:"image,omitempty"`
}

// Section is an ordered group of questions under one title.
type Section struct {
	SectionTitle string     `json:"sectionTitle"`
	Questions    []Question `json:"questions"`
}

// Sections is the canonical nested section list. Its UnmarshalJSON also
// accepts the legacy flat shape (a bare question array with no section
// wrapper), which older documents used; flat input becomes a single
// untitled section. The adapter lives only at this ingestion boundary;
// everything past decoding sees the nested shape.
type Sections []Section

func (s *Sections) UnmarshalJSON(data []byte) error {
	var nested []Section
	if err := json.Unmarshal(data, &nested); err == nil && !looksFlat(nested, data) {
		*s = nested
		return nil
	}

	var flat []Question
	if err := json.Unmarshal(data, &flat); err != nil {
		return fmt.Errorf("sections: unrecognized shape: %w", err)
	}
	if len(flat) == 0 {
		*s = Sections{}
		return nil
	}
	*s = Sections{{Questions: flat}}
	return nil
}

// looksFlat detects the legacy shape: elements decode as empty sections but
// the raw array is non-empty and carries question fields at the top level.
func looksFlat(nested []Section, data []byte) bool {
	if len(nested) == 0 {
		return false
	}
	for _, sec := range nested {
		if sec.SectionTitle != "" || len(sec.Questions) > 0 {
			return false
		}
	}
	var probe []map[string]json.RawMessage
	if err := json.Unmarshal(data, &probe); err != nil {
		return false
	}
	for _, obj := range probe {
		if _, ok := obj["question"]; ok {
			return true
		}
		if _, ok := obj["compliance"]; ok {
			return true
		}
	}
	return false
}

// Audit represents either a blank template or a filled submission; the two
// share one schema and are discriminated by Status.
//
// Invariants:
//   - template: Status=NOT FILLED, Version=0, UserID and LineageID empty
//   - form: Status=FILLED, Version>=1, UserID set, LineageID set to the root
//     form id of its version lineage; organizational fields are copied from
//     the originating template at fill time, not referenced live.
type Audit struct {
	ID                     string     `json:"id"`
	LineageID              string     `json:"lineageId,omitempty"`
	RestaurantName         string     `json:"restaurantName"`
	NameOfCompany          string     `json:"nameOfCompany"`
	FSSAILicenseNo         string     `json:"fssaiLicenseNo"`
	CompanyRepresentatives []string   `json:"companyRepresentatives"`
	SiteAddress            string     `json:"siteAddress"`
	State                  string     `json:"state"`
	PinCode                string     `json:"pinCode"`
	PhoneNo                string     `json:"phoneNo"`
	Email                  string     `json:"email"`
	Website                string     `json:"website"`
	AuditTeam              []string   `json:"auditTeam"`
	DateOfAudit            *time.Time `json:"dateOfAudit"`
	AuditType              string     `json:"auditType"`
	AuditCriteria          string     `json:"auditCriteria"`
	TypeOfAudit            string     `json:"typeOfAudit"`
	Scope                  string     `json:"scope"`
	Manpower               Manpower   `json:"manpower"`
	Sections               Sections   `json:"sections"`
	Status                 Status     `json:"status"`
	Version                int        `json:"version"`
	UserID                 string     `json:"userId,omitempty"`
	CreatedAt              time.Time  `json:"createdAt"`
	UpdatedAt              time.Time  `json:"updatedAt"`
}

// IsTemplate reports whether the document is a blank template.
func (a *Audit) IsTemplate() bool {
	return a.Status == StatusNotFilled
}

// Validate checks structural invariants shared by templates and forms.
func (a *Audit) Validate() error {
	if !a.Status.Valid() {
		return fmt.Errorf("invalid status %q", a.Status)
	}
	if a.Version < 0 {
		return errors.New("version must be non-negative")
	}
	if a.Manpower.Male < 0 || a.Manpower.Female < 0 {
		return errors.New("manpower counts must be non-negative")
	}
	for si, sec := range a.Sections {
		for qi, q := range sec.Questions {
			if q.Compliance != "" && !q.Compliance.Valid() {
				return fmt.Errorf("section %d question %d: invalid compliance %q", si, qi, q.Compliance)
			}
		}
	}
	return nil
}
