package pdf

import (
	"fmt"
	"strings"

	"auditapi/internal/model"
)

// infoField maps one label on the organizational-info page to a value
// extractor. Fields are matched by name, never by position, so reordering
// the layout cannot silently misalign data.
type infoField struct {
	Label string
	Value func(a *model.Audit) string
}

// infoFields is the fixed row order of the organizational-info table. Every
// row renders even when its value is empty.
var infoFields = []infoField{
	{"Restaurant Name", func(a *model.Audit) string { return a.RestaurantName }},
	{"Name of Company", func(a *model.Audit) string { return a.NameOfCompany }},
	{"FSSAI License No.", func(a *model.Audit) string { return a.FSSAILicenseNo }},
	{"Company Representatives", func(a *model.Audit) string { return strings.Join(a.CompanyRepresentatives, ", ") }},
	{"Site Address", func(a *model.Audit) string { return a.SiteAddress }},
	{"State", func(a *model.Audit) string { return a.State }},
	{"Pin Code", func(a *model.Audit) string { return a.PinCode }},
	{"Phone No.", func(a *model.Audit) string { return a.PhoneNo }},
	{"Email", func(a *model.Audit) string { return a.Email }},
	{"Website", func(a *model.Audit) string { return a.Website }},
	{"Audit Team", func(a *model.Audit) string { return strings.Join(a.AuditTeam, ", ") }},
	{"Date of Audit", func(a *model.Audit) string {
		if a.DateOfAudit == nil {
			return ""
		}
		return a.DateOfAudit.Format("02 Jan 2006")
	}},
	{"Audit Criteria", func(a *model.Audit) string { return a.AuditCriteria }},
	{"Scope", func(a *model.Audit) string { return a.Scope }},
	{"Manpower", func(a *model.Audit) string {
		return fmt.Sprintf("Male: %d, Female: %d", a.Manpower.Male, a.Manpower.Female)
	}},
}

// checkboxGroup renders a labeled row of boxes; the box whose option exactly
// matches the document field is checked, anything unmatched stays unchecked.
type checkboxGroup struct {
	Label    string
	Options  []string
	Selected func(a *model.Audit) string
}

var checkboxGroups = []checkboxGroup{
	{
		Label:    "Audit Type",
		Options:  []string{"Annual audit", "Half-yearly audit", "Quarterly audit", "Surprise audit"},
		Selected: func(a *model.Audit) string { return a.AuditType },
	},
	{
		Label:    "Type of Audit",
		Options:  []string{"Announced", "Unannounced"},
		Selected: func(a *model.Audit) string { return a.TypeOfAudit },
	},
}
