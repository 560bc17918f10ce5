package model

import (
	"encoding/json"
	"time"
)

// VersionLedgerEntry links one rendered audit artifact to the form version it
// was produced from. Entries are append-only: one per successful render,
// never updated, never reused.
type VersionLedgerEntry struct {
	ID            string    `json:"id"`
	UserID        string    `json:"userId"`
	FormID        string    `json:"formId"`
	VersionNumber int       `json:"versionNumber"`
	PDFKey        string    `json:"pdfKey"`
	PDFURL        string    `json:"pdfUrl"`
	CreatedAt     time.Time `json:"createdAt"`
}

// UnmarshalJSON accepts the legacy `pdfPath` field name for the artifact
// reference alongside the canonical `pdfUrl`. Output always uses `pdfUrl`.
func (e *VersionLedgerEntry) UnmarshalJSON(data []byte) error {
	type entry VersionLedgerEntry // shed method set to avoid recursion
	aux := struct {
		*entry
		PDFPath string `json:"pdfPath"`
	}{entry: (*entry)(e)}
	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}
	if e.PDFURL == "" && aux.PDFPath != "" {
		e.PDFURL = aux.PDFPath
	}
	return nil
}
