// Package schema checks that decoded workbooks carry the sheets and columns
// the funnel needs before anything else reads them.
package schema

import (
	"fmt"
	"strings"

	"landfunnel/internal/sheets"
)

// Sheet and column names of the two ingested files.
const (
	SheetRaw        = "All_Raw_Data"
	SheetNormalized = "Owners_Normalized"
	SheetCompanies  = "All_Companies_Found"
	SheetMailing    = "Final_Mailing_By_Parcel"

	ColParcelID     = "Parcel_ID"
	ColProvince     = "provincia"
	ColMunicipality = "comune"
	ColSheet        = "foglio"
	ColNumber       = "particella"
	ColArea         = "Area"
	ColSection      = "Sezione"
	ColPostalCode   = "CP"

	ColRawFiscalCode   = "cf_owner"
	ColRawDenomination = "denominazione_owner"
	ColRawFirstName    = "nome"
	ColRawLastName     = "cognome"
	ColRawOwnerType    = "Tipo_Proprietario"

	ColNormName       = "owner_name"
	ColNormFiscalCode = "owner_cf"
	ColNormQuota      = "quota"

	ColCompanyFiscalCode = "cf"
	ColCompanyEmail      = "pec_email"
)

// InputSheetNames are the accepted names of the Input register sheet.
var InputSheetNames = []string{"Hoja1", "Sheet1"}

// InputColumns must all appear in the Input register header.
var InputColumns = []string{
	ColProvince, ColMunicipality, ColSheet, ColNumber,
	ColArea, ColSection, ColPostalCode, ColParcelID,
}

// ResultsColumns lists the fixed columns per Results sheet. The mailing
// sheet is checked through MailingAliases instead.
var ResultsColumns = map[string][]string{
	SheetRaw:        {ColParcelID, ColRawFiscalCode, ColRawDenomination, ColRawFirstName, ColRawLastName},
	SheetNormalized: {ColParcelID, ColNormName, ColNormFiscalCode, ColNormQuota},
	SheetCompanies:  {ColCompanyFiscalCode, ColCompanyEmail},
}

// resultsSheetOrder fixes the order problems are reported in.
var resultsSheetOrder = []string{SheetRaw, SheetNormalized, SheetCompanies, SheetMailing}

// Logical mailing-manifest fields.
const (
	MailingKey        = "parcel key"
	MailingName       = "name"
	MailingFiscalCode = "fiscal code"
)

// MailingAliases lists, per logical field, the column names accepted
// case-insensitively in the mailing manifest.
var MailingAliases = map[string][]string{
	MailingKey:        {"Parcel_ID", "Elenco_Parcel_ID", "ParcelID", "parcel"},
	MailingName:       {"owner_name", "Nominativo", "nome", "name", "denominazione"},
	MailingFiscalCode: {"owner_cf", "cf", "codice_fiscale", "cf_owner"},
}

var mailingFieldOrder = []string{MailingKey, MailingName, MailingFiscalCode}

// Optional columns of All_Raw_Data, resolved case-insensitively.
var (
	RawMunicipalityAliases = []string{"comune", "municipality", "comune_immobile", "comune_catastale"}
	RawPostalCodeAliases   = []string{"CP", "cap"}
	RawCombinedNameAliases = []string{"nominativo", "nome_completo"}
)

// ValidationError collects every schema problem found in one file.
type ValidationError struct {
	File     string
	Problems []string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s is not valid: %s", e.File, strings.Join(e.Problems, "; "))
}

// Result is the outcome of a validation: Valid is true when Problems is
// empty.
type Result struct {
	Valid    bool
	Problems []string
}

// Err returns a *ValidationError for file, or nil when the result is valid.
func (r Result) Err(file string) error {
	if r.Valid {
		return nil
	}
	return &ValidationError{File: file, Problems: r.Problems}
}

func newResult(problems []string) Result {
	return Result{Valid: len(problems) == 0, Problems: problems}
}

// ValidateInput checks the Input register: one of InputSheetNames must be
// present and non-empty, and its first row must carry InputColumns.
func ValidateInput(wb sheets.Workbook) Result {
	var problems []string

	s, ok := wb.Get(InputSheetNames...)
	if !ok {
		problems = append(problems, fmt.Sprintf("missing sheet %s (found: %s)",
			strings.Join(InputSheetNames, " or "), listOrNone(wb.Names())))
		return newResult(problems)
	}
	if len(s.Rows) == 0 {
		problems = append(problems, fmt.Sprintf("sheet %s is empty", s.Name))
		if len(s.Columns) == 0 {
			return newResult(problems)
		}
	}

	if missing := missingColumns(s, InputColumns); len(missing) > 0 {
		problems = append(problems, fmt.Sprintf("sheet %s is missing columns %s (found: %s)",
			s.Name, strings.Join(missing, ", "), listOrNone(headerOf(s))))
	}
	return newResult(problems)
}

// ValidateResults checks the Results bundle: all four sheets must exist.
// Empty sheets are accepted; non-empty ones must carry their columns.
func ValidateResults(wb sheets.Workbook) Result {
	var problems []string

	for _, name := range resultsSheetOrder {
		s, ok := wb[name]
		if !ok {
			problems = append(problems, fmt.Sprintf("missing sheet %s (found: %s)", name, listOrNone(wb.Names())))
			continue
		}
		if len(s.Rows) == 0 {
			continue
		}
		if name == SheetMailing {
			for _, field := range mailingFieldOrder {
				if _, ok := s.ResolveColumn(MailingAliases[field]...); !ok {
					problems = append(problems, fmt.Sprintf("sheet %s has no %s column (accepted: %s; found: %s)",
						name, field, strings.Join(MailingAliases[field], ", "), listOrNone(headerOf(s))))
				}
			}
			continue
		}
		if missing := missingColumns(s, ResultsColumns[name]); len(missing) > 0 {
			problems = append(problems, fmt.Sprintf("sheet %s is missing columns %s (found: %s)",
				name, strings.Join(missing, ", "), listOrNone(headerOf(s))))
		}
	}
	return newResult(problems)
}

// missingColumns checks required against the first data row's keys, the
// same view a row-object codec gives.
func missingColumns(s *sheets.Sheet, required []string) []string {
	var missing []string
	for _, col := range required {
		if !hasColumn(s, col) {
			missing = append(missing, col)
		}
	}
	return missing
}

func hasColumn(s *sheets.Sheet, col string) bool {
	if len(s.Rows) > 0 {
		return s.Rows[0].Has(col)
	}
	for _, c := range s.Columns {
		if c == col {
			return true
		}
	}
	return false
}

func headerOf(s *sheets.Sheet) []string {
	var cols []string
	for _, c := range s.Columns {
		if c != "" {
			cols = append(cols, c)
		}
	}
	return cols
}

func listOrNone(items []string) string {
	if len(items) == 0 {
		return "none"
	}
	return strings.Join(items, ", ")
}
