// Package output shapes resolved parcels for people (verification
// workbooks) and for the CRM import (delimited files).
package output

import (
	"math"
	"strconv"
	"strings"

	"landfunnel/internal/identity"
	"landfunnel/internal/types"
)

// CRM field limits.
const (
	MaxFirstName = 40
	MaxLastName  = 80
	MaxAllOwners = 255
)

// PendingOwner is the last name of every Scouted CRM row.
const PendingOwner = "Pending Owner"

// CRMHeader is the column order of the CRM import file.
var CRMHeader = []string{
	"Land External ID", "Lead Status", "Land Province", "Land Region",
	"Municipality", "Sezione", "Foglio", "Particella", "Cadastral Area (Ha)",
	"Main Owner Name", "Main Owner Last Name", "Email", "Fiscal Code", "CP",
	"Has Various Owners", "Number of Owners", "All Owners",
}

// CRMRow is one record of the CRM import file.
type CRMRow struct {
	ExternalID   string
	Status       string
	Province     string
	Region       string
	Municipality string
	Section      string
	Sheet        string
	Number       string
	Area         string
	FirstName    string
	LastName     string
	Email        string
	FiscalCode   string
	PostalCode   string
	VariousOwner string
	OwnerCount   string
	AllOwners    string
}

// Cells returns the row in CRMHeader order.
func (r CRMRow) Cells() []string {
	return []string{
		r.ExternalID, r.Status, r.Province, r.Region,
		r.Municipality, r.Section, r.Sheet, r.Number, r.Area,
		r.FirstName, r.LastName, r.Email, r.FiscalCode, r.PostalCode,
		r.VariousOwner, r.OwnerCount, r.AllOwners,
	}
}

// MapToCSVRow builds the CRM shape of rec for stage. The external id is
// recomputed from the stored spatial fields. Scouted rows carry the pending
// owner placeholder; Retrieved rows still missing a name get an "Unknown"
// last name. Every field is sanitized and the name and owner fields are
// truncated to the CRM limits.
func MapToCSVRow(rec types.ResolvedParcel, stage types.Stage) CRMRow {
	externalID := identity.ExternalID(rec.ProvinceCode, rec.Municipality, rec.Section, rec.Sheet, rec.Number)

	first, last := rec.OwnerFirstName, rec.OwnerLastName
	email, fiscal, postal := rec.Email, rec.FiscalCode, rec.PostalCodeOrDefault()
	count, all := rec.OwnerCount, rec.AllOwners

	switch stage {
	case types.StageScouted:
		first, last = "", PendingOwner
		email, fiscal, postal = "", "", rec.PostalCode
		count, all = 0, ""
	case types.StageRetrieved:
		if strings.TrimSpace(first) == "" && strings.TrimSpace(last) == "" {
			last = truncate("Unknown "+externalID, MaxLastName)
		}
	}

	province := rec.ProvinceName
	if province == "" {
		province = rec.ProvinceRaw
	}

	return CRMRow{
		ExternalID:   Sanitize(externalID),
		Status:       string(stage),
		Province:     Sanitize(province),
		Region:       Sanitize(rec.Region),
		Municipality: Sanitize(rec.Municipality),
		Section:      Sanitize(rec.Section),
		Sheet:        Sanitize(rec.Sheet),
		Number:       Sanitize(rec.Number),
		Area:         CommaDecimal(rec.Area),
		FirstName:    truncate(Sanitize(first), MaxFirstName),
		LastName:     truncate(Sanitize(last), MaxLastName),
		Email:        Sanitize(email),
		FiscalCode:   Sanitize(fiscal),
		PostalCode:   Sanitize(postal),
		VariousOwner: strconv.FormatBool(count > 1),
		OwnerCount:   strconv.Itoa(count),
		AllOwners:    truncate(Sanitize(all), MaxAllOwners),
	}
}

// Sanitize flattens newlines and tabs and collapses repeated whitespace.
func Sanitize(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

// CommaDecimal renders a numeric area with a comma decimal separator. When
// both separators appear the last one is the decimal mark; a separator
// repeated on its own groups thousands. Values that are not numbers are
// passed through sanitized.
func CommaDecimal(s string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return ""
	}
	v, err := strconv.ParseFloat(canonicalDecimal(s), 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return Sanitize(s)
	}
	return strings.Replace(strconv.FormatFloat(v, 'f', -1, 64), ".", ",", 1)
}

// canonicalDecimal rewrites s with a dot decimal mark and no grouping.
func canonicalDecimal(s string) string {
	dot, comma := strings.LastIndex(s, "."), strings.LastIndex(s, ",")
	switch {
	case dot >= 0 && comma >= 0:
		if dot > comma {
			return strings.ReplaceAll(s, ",", "")
		}
		return strings.Replace(strings.ReplaceAll(s, ".", ""), ",", ".", 1)
	case strings.Count(s, ".") > 1:
		return strings.ReplaceAll(s, ".", "")
	case strings.Count(s, ",") > 1:
		return strings.ReplaceAll(s, ",", "")
	default:
		return strings.Replace(s, ",", ".", 1)
	}
}

// truncate cuts s to at most n characters.
func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n])
}
