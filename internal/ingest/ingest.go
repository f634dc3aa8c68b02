// Package ingest converts validated workbooks into typed records. Nothing
// past this package sees header-keyed rows.
package ingest

import (
	"fmt"
	"strings"

	"landfunnel/internal/schema"
	"landfunnel/internal/sheets"
	"landfunnel/internal/types"
)

// Results is the typed content of the Results bundle.
type Results struct {
	Raw        []types.RawOwner
	Normalized []types.NormalizedOwner
	Companies  []types.CompanyContact
	Mailing    []types.MailingEntry

	// RawHasMunicipality is true when All_Raw_Data exposes a
	// municipality-like column, enabling the geographic filter.
	RawHasMunicipality bool
}

// Input reads the Input register into parcels carrying only their raw
// fields. Identity fields are filled by the identity resolver.
func Input(wb sheets.Workbook) ([]types.Parcel, error) {
	s, ok := wb.Get(schema.InputSheetNames...)
	if !ok {
		return nil, fmt.Errorf("input sheet %s not found", strings.Join(schema.InputSheetNames, "/"))
	}

	parcels := make([]types.Parcel, 0, len(s.Rows))
	for _, r := range s.Rows {
		parcels = append(parcels, types.Parcel{
			ParcelID:     r.Value(schema.ColParcelID),
			ProvinceRaw:  r.Value(schema.ColProvince),
			Municipality: r.Value(schema.ColMunicipality),
			Section:      r.Value(schema.ColSection),
			Sheet:        r.Value(schema.ColSheet),
			Number:       r.Value(schema.ColNumber),
			Area:         r.Value(schema.ColArea),
			PostalCode:   r.Value(schema.ColPostalCode),
		})
	}
	return parcels, nil
}

// ReadResults reads the four Results sheets. Missing sheets yield empty
// slices; the schema validator is responsible for rejecting them.
func ReadResults(wb sheets.Workbook) Results {
	var res Results

	if s, ok := wb[schema.SheetRaw]; ok {
		muniCol, hasMuni := s.ResolveColumn(schema.RawMunicipalityAliases...)
		postalCol, _ := s.ResolveColumn(schema.RawPostalCodeAliases...)
		combinedCol, _ := s.ResolveColumn(schema.RawCombinedNameAliases...)
		typeCol, _ := s.ResolveColumn(schema.ColRawOwnerType)
		res.RawHasMunicipality = hasMuni

		for _, r := range s.Rows {
			res.Raw = append(res.Raw, types.RawOwner{
				ParcelID:     r.Value(schema.ColParcelID),
				FiscalCode:   FiscalCode(r.Value(schema.ColRawFiscalCode)),
				Denomination: r.Value(schema.ColRawDenomination),
				FirstName:    r.Value(schema.ColRawFirstName),
				LastName:     r.Value(schema.ColRawLastName),
				CombinedName: optional(r, combinedCol),
				OwnerType:    optional(r, typeCol),
				PostalCode:   optional(r, postalCol),
				Municipality: optional(r, muniCol),
			})
		}
	}

	if s, ok := wb[schema.SheetNormalized]; ok {
		for _, r := range s.Rows {
			res.Normalized = append(res.Normalized, types.NormalizedOwner{
				ParcelID:   r.Value(schema.ColParcelID),
				Name:       r.Value(schema.ColNormName),
				FiscalCode: FiscalCode(r.Value(schema.ColNormFiscalCode)),
				Quota:      r.Value(schema.ColNormQuota),
			})
		}
	}

	if s, ok := wb[schema.SheetCompanies]; ok {
		for _, r := range s.Rows {
			res.Companies = append(res.Companies, types.CompanyContact{
				FiscalCode: FiscalCode(r.Value(schema.ColCompanyFiscalCode)),
				Email:      r.Value(schema.ColCompanyEmail),
			})
		}
	}

	if s, ok := wb[schema.SheetMailing]; ok {
		keyCol, _ := s.ResolveColumn(schema.MailingAliases[schema.MailingKey]...)
		nameCol, _ := s.ResolveColumn(schema.MailingAliases[schema.MailingName]...)
		cfCol, _ := s.ResolveColumn(schema.MailingAliases[schema.MailingFiscalCode]...)
		for _, r := range s.Rows {
			res.Mailing = append(res.Mailing, types.MailingEntry{
				ParcelID:   optional(r, keyCol),
				Name:       optional(r, nameCol),
				FiscalCode: FiscalCode(optional(r, cfCol)),
			})
		}
	}

	return res
}

// FiscalCode normalizes a fiscal code for comparison.
func FiscalCode(s string) string {
	return strings.ToUpper(strings.Join(strings.Fields(s), ""))
}

func optional(r sheets.Row, col string) string {
	if col == "" {
		return ""
	}
	return r.Value(col)
}
