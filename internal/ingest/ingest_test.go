package ingest

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"landfunnel/internal/schema"
	"landfunnel/internal/sheets"
	"landfunnel/internal/types"
)

func TestInput(t *testing.T) {
	wb := sheets.Workbook{"Hoja1": sheets.NewSheet("Hoja1",
		[]string{"provincia", "comune", "foglio", "particella", "Area", "Sezione", "CP", "Parcel_ID"},
		[][]string{{" Torino ", "Chieri", "12", "345", "1,5", "", "10023", " P1 "}})}

	parcels, err := Input(wb)
	require.NoError(t, err)
	require.Len(t, parcels, 1)
	assert.Equal(t, types.Parcel{
		ParcelID:     "P1",
		ProvinceRaw:  "Torino",
		Municipality: "Chieri",
		Sheet:        "12",
		Number:       "345",
		Area:         "1,5",
		PostalCode:   "10023",
	}, parcels[0])

	_, err = Input(sheets.Workbook{})
	assert.Error(t, err)
}

func TestReadResults(t *testing.T) {
	wb := sheets.Workbook{
		schema.SheetRaw: sheets.NewSheet(schema.SheetRaw,
			[]string{"Parcel_ID", "cf_owner", "denominazione_owner", "nome", "cognome", "Tipo_Proprietario", "cap", "Comune"},
			[][]string{{"P1", " rssmra80a01h501u ", "", "Mario", "Rossi", "PF", "10023", "Chieri"}}),
		schema.SheetNormalized: sheets.NewSheet(schema.SheetNormalized,
			[]string{"Parcel_ID", "owner_name", "owner_cf", "quota"},
			[][]string{{"P1", "ROSSI MARIO", "RSSMRA80A01H501U", "1/2"}}),
		schema.SheetCompanies: sheets.NewSheet(schema.SheetCompanies,
			[]string{"cf", "pec_email"},
			[][]string{{"01234567890", "acme@pec.it"}}),
		schema.SheetMailing: sheets.NewSheet(schema.SheetMailing,
			[]string{"elenco_parcel_id", "NOMINATIVO", "Codice_Fiscale"},
			[][]string{{"P1", "Mario Rossi", "rssmra80a01h501u"}}),
	}

	res := ReadResults(wb)
	assert.True(t, res.RawHasMunicipality)
	require.Len(t, res.Raw, 1)
	assert.Equal(t, types.RawOwner{
		ParcelID:     "P1",
		FiscalCode:   "RSSMRA80A01H501U",
		FirstName:    "Mario",
		LastName:     "Rossi",
		OwnerType:    "PF",
		PostalCode:   "10023",
		Municipality: "Chieri",
	}, res.Raw[0])
	assert.Equal(t, []types.NormalizedOwner{{ParcelID: "P1", Name: "ROSSI MARIO", FiscalCode: "RSSMRA80A01H501U", Quota: "1/2"}}, res.Normalized)
	assert.Equal(t, []types.CompanyContact{{FiscalCode: "01234567890", Email: "acme@pec.it"}}, res.Companies)
	assert.Equal(t, []types.MailingEntry{{ParcelID: "P1", Name: "Mario Rossi", FiscalCode: "RSSMRA80A01H501U"}}, res.Mailing)
}

func TestReadResultsWithoutMunicipality(t *testing.T) {
	wb := sheets.Workbook{
		schema.SheetRaw: sheets.NewSheet(schema.SheetRaw,
			[]string{"Parcel_ID", "cf_owner", "denominazione_owner", "nome", "cognome"},
			[][]string{{"P1", "01234567890", "Acme Srl", "", ""}}),
	}
	res := ReadResults(wb)
	assert.False(t, res.RawHasMunicipality)
	assert.Empty(t, res.Mailing)
	require.Len(t, res.Raw, 1)
	assert.Equal(t, "Acme Srl", res.Raw[0].Denomination)
}

func TestFiscalCode(t *testing.T) {
	assert.Equal(t, "RSSMRA80A01H501U", FiscalCode(" rss mra80a01h501u\t"))
	assert.Equal(t, "", FiscalCode(""))
}
