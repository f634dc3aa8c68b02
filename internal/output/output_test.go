package output

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"landfunnel/internal/sheets"
	"landfunnel/internal/types"
)

func sample() types.ResolvedParcel {
	return types.ResolvedParcel{
		Parcel: types.Parcel{
			ParcelID:     "P1",
			ProvinceRaw:  "Torino",
			ProvinceCode: "TO",
			Region:       "Piemonte",
			ProvinceName: "Torino",
			Municipality: "San Mauro",
			Sheet:        "12",
			Number:       "345",
			Area:         "1.25",
			PostalCode:   "10099",
			ExternalID:   "stale",
		},
		OwnerFirstName: "Mario",
		OwnerLastName:  "Rossi",
		FiscalCode:     "RSSMRA80A01H501U",
		Email:          "mario@pec.it",
		OwnerPostal:    "10023",
		OwnerCount:     2,
		AllOwners:      "ROSSI MARIO [RSSMRA80A01H501U - 1/2],\nBIANCHI LAURA [BNCLRA70A41H501X - 1/2]",
	}
}

func TestMapToCSVRowRetrieved(t *testing.T) {
	row := MapToCSVRow(sample(), types.StageRetrieved)
	assert.Equal(t, CRMRow{
		ExternalID:   "TO-SANMAURO-X-0012-00345",
		Status:       "Retrieved",
		Province:     "Torino",
		Region:       "Piemonte",
		Municipality: "San Mauro",
		Sheet:        "12",
		Number:       "345",
		Area:         "1,25",
		FirstName:    "Mario",
		LastName:     "Rossi",
		Email:        "mario@pec.it",
		FiscalCode:   "RSSMRA80A01H501U",
		PostalCode:   "10023",
		VariousOwner: "true",
		OwnerCount:   "2",
		AllOwners:    "ROSSI MARIO [RSSMRA80A01H501U - 1/2], BIANCHI LAURA [BNCLRA70A41H501X - 1/2]",
	}, row)
	assert.Len(t, row.Cells(), len(CRMHeader))
}

func TestMapToCSVRowScoutedIgnoresOwners(t *testing.T) {
	row := MapToCSVRow(sample(), types.StageScouted)
	assert.Equal(t, "", row.FirstName)
	assert.Equal(t, PendingOwner, row.LastName)
	assert.Equal(t, "", row.Email)
	assert.Equal(t, "", row.FiscalCode)
	assert.Equal(t, "10099", row.PostalCode)
	assert.Equal(t, "false", row.VariousOwner)
	assert.Equal(t, "0", row.OwnerCount)
	assert.Equal(t, "", row.AllOwners)
}

func TestMapToCSVRowUnknownOwner(t *testing.T) {
	rec := sample()
	rec.OwnerFirstName, rec.OwnerLastName = "", ""
	rec.OwnerCount = 1

	row := MapToCSVRow(rec, types.StageRetrieved)
	assert.Equal(t, "Unknown TO-SANMAURO-X-0012-00345", row.LastName)
	assert.Equal(t, "false", row.VariousOwner)

	row = MapToCSVRow(rec, types.StageContacted)
	assert.Equal(t, "", row.LastName)
}

func TestMapToCSVRowTruncation(t *testing.T) {
	rec := sample()
	rec.OwnerFirstName = strings.Repeat("a", 50)
	rec.OwnerLastName = strings.Repeat("b", 90)
	rec.AllOwners = strings.Repeat("c", 300)

	row := MapToCSVRow(rec, types.StageContacted)
	assert.Len(t, row.FirstName, 40)
	assert.Len(t, row.LastName, 80)
	assert.Len(t, row.AllOwners, 255)

	v := VerificationRow(rec, types.StageContacted)
	assert.Equal(t, rec.AllOwners, v[len(v)-1])
	assert.Len(t, v[len(v)-1], 300)
}

func TestTruncateRunes(t *testing.T) {
	assert.Equal(t, "àè", truncate("àèì", 2))
	assert.Equal(t, "ab", truncate("ab", 5))
}

func TestSanitize(t *testing.T) {
	assert.Equal(t, "a b c", Sanitize(" a\r\nb\t\tc  "))
}

func TestCommaDecimal(t *testing.T) {
	tests := []struct{ in, want string }{
		{"1.5", "1,5"},
		{"1,5", "1,5"},
		{"2", "2"},
		{"1.234,5", "1234,5"},
		{"1,234.5", "1234,5"},
		{"1,234.57", "1234,57"},
		{"1.234.567", "1234567"},
		{"1,234,567.25", "1234567,25"},
		{"", ""},
		{"n/a", "n/a"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, CommaDecimal(tt.in), "CommaDecimal(%q)", tt.in)
	}
}

func TestVerificationShape(t *testing.T) {
	assert.Len(t, VerificationRow(sample(), types.StageScouted), len(VerificationHeader(types.StageScouted)))
	assert.Len(t, VerificationRow(sample(), types.StageRetrieved), len(VerificationHeader(types.StageRetrieved)))
	assert.Equal(t, "stale", VerificationRow(sample(), types.StageScouted)[1])
}

func TestEncodeCSV(t *testing.T) {
	got := EncodeCSV([]string{"a", "b"}, [][]string{{`say "hi"`, ""}}, ';')
	assert.Equal(t, "\ufeff\"a\";\"b\"\r\n\"say \"\"hi\"\"\";\"\"\r\n", string(got))
}

type memSink map[string][]byte

func (m memSink) Save(name string, data []byte) error {
	m[name] = data
	return nil
}

type stages map[types.Stage][]types.ResolvedParcel

func (s stages) Stage(st types.Stage) []types.ResolvedParcel { return s[st] }

func TestWriteStages(t *testing.T) {
	sink := memSink{}
	src := stages{
		types.StageScouted:   {sample(), sample()},
		types.StageRetrieved: {sample()},
	}

	files, err := WriteStages(src, sink, Options{Prefix: "run_"})
	require.NoError(t, err)
	require.Len(t, files, 6)
	assert.Equal(t, "run_scouted_verification.xlsx", files[0].Name)
	assert.Equal(t, 2, files[0].Rows)
	assert.Equal(t, "run_contacted_crm.csv", files[5].Name)
	assert.Equal(t, 0, files[5].Rows)

	csv := string(sink["run_retrieved_crm.csv"])
	assert.True(t, strings.HasPrefix(csv, "\ufeff\"Land External ID\",\"Lead Status\""))
	assert.Equal(t, 2, strings.Count(csv, "\r\n"))

	wb, err := sheets.DecodeXLSX(bytes.NewReader(sink["run_scouted_verification.xlsx"]), "scouted")
	require.NoError(t, err)
	s, ok := wb[string(types.StageScouted)]
	require.True(t, ok)
	assert.Len(t, s.Rows, 2)
	assert.Equal(t, "P1", s.Rows[0].Value("Parcel_ID"))
}

func TestDirSink(t *testing.T) {
	dir := t.TempDir() + "/nested"
	require.NoError(t, DirSink{Dir: dir}.Save("x.csv", []byte("ok")))
}

func TestFormattedAreaReachesCRMUnchanged(t *testing.T) {
	f := excelize.NewFile()
	require.NoError(t, f.SetSheetRow("Sheet1", "A1", &[]string{"Parcel_ID", "Area"}))
	require.NoError(t, f.SetCellValue("Sheet1", "A2", "P1"))
	require.NoError(t, f.SetCellValue("Sheet1", "B2", 1234.5678))
	style, err := f.NewStyle(&excelize.Style{NumFmt: 4}) // #,##0.00
	require.NoError(t, err)
	require.NoError(t, f.SetCellStyle("Sheet1", "B2", "B2", style))
	buf, err := f.WriteToBuffer()
	require.NoError(t, err)

	wb, err := sheets.DecodeXLSX(bytes.NewReader(buf.Bytes()), "input.xlsx")
	require.NoError(t, err)
	s, ok := wb.Get("Sheet1")
	require.True(t, ok)
	require.Len(t, s.Rows, 1)

	rec := sample()
	rec.Area = s.Rows[0].Value("Area")
	assert.Equal(t, "1234,5678", MapToCSVRow(rec, types.StageScouted).Area)
	assert.Equal(t, "1234.5678", VerificationRow(rec, types.StageScouted)[9])
}
