package output

import (
	"strconv"

	"landfunnel/internal/types"
)

// Verification headers. Scouted rows have no owner columns.
var (
	verificationParcelHeader = []string{
		"Parcel_ID", "Land External ID", "Province", "Province Code", "Region",
		"Municipality", "Sezione", "Foglio", "Particella", "Area (Ha)", "CP",
	}
	verificationOwnerHeader = []string{
		"Owner First Name", "Owner Last Name", "Fiscal Code", "Email",
		"Number of Owners", "All Owners",
	}
)

// VerificationHeader returns the verification columns for stage.
func VerificationHeader(stage types.Stage) []string {
	h := append([]string(nil), verificationParcelHeader...)
	if stage != types.StageScouted {
		h = append(h, verificationOwnerHeader...)
	}
	return h
}

// VerificationRow is the human-checking shape of rec: fields copied as is,
// nothing truncated.
func VerificationRow(rec types.ResolvedParcel, stage types.Stage) []string {
	row := []string{
		rec.ParcelID, rec.ExternalID, rec.ProvinceName, rec.ProvinceCode, rec.Region,
		rec.Municipality, rec.Section, rec.Sheet, rec.Number, rec.Area, rec.PostalCode,
	}
	if stage == types.StageScouted {
		return row
	}
	return append(row,
		rec.OwnerFirstName, rec.OwnerLastName, rec.FiscalCode, rec.Email,
		strconv.Itoa(rec.OwnerCount), rec.AllOwners,
	)
}
