package sheets

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"testing"

	shp "github.com/jonas-p/go-shp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func TestNewSheetSkipsBlankRowsAndPads(t *testing.T) {
	s := NewSheet("Sheet1", []string{" Parcel_ID ", "comune", ""}, [][]string{
		{"P1", "Roma", "ignored"},
		{"", "  ", ""},
		{"P2"},
	})

	assert.Equal(t, []string{"Parcel_ID", "comune", ""}, s.Columns)
	require.Len(t, s.Rows, 2)
	assert.Equal(t, Row{"Parcel_ID": "P1", "comune": "Roma"}, s.Rows[0])
	assert.Equal(t, Row{"Parcel_ID": "P2", "comune": ""}, s.Rows[1])
	assert.True(t, s.Rows[1].Has("comune"))
	assert.False(t, s.Rows[1].Has("CP"))
}

func TestResolveColumn(t *testing.T) {
	s := &Sheet{Columns: []string{"ELENCO_PARCEL_ID", "Nominativo", "CF"}}

	col, ok := s.ResolveColumn("Parcel_ID", "Elenco_Parcel_ID")
	assert.True(t, ok)
	assert.Equal(t, "ELENCO_PARCEL_ID", col)

	col, ok = s.ResolveColumn("owner_cf", "cf")
	assert.True(t, ok)
	assert.Equal(t, "CF", col)

	_, ok = s.ResolveColumn("email")
	assert.False(t, ok)
}

func TestWorkbookGet(t *testing.T) {
	wb := Workbook{"Sheet1": &Sheet{Name: "Sheet1"}}
	s, ok := wb.Get("Hoja1", "Sheet1")
	require.True(t, ok)
	assert.Equal(t, "Sheet1", s.Name)

	_, ok = wb.Get("Hoja1")
	assert.False(t, ok)
}

func TestXLSXRoundTrip(t *testing.T) {
	data, err := EncodeXLSX(
		Table{Name: "All_Raw_Data", Header: []string{"Parcel_ID", "cf_owner"}, Rows: [][]string{{"P1", "12345678901"}, {"P2", ""}}},
		Table{Name: "Owners_Normalized", Header: []string{"Parcel_ID", "quota"}},
	)
	require.NoError(t, err)

	wb, err := DecodeXLSX(bytes.NewReader(data), "results.xlsx")
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"All_Raw_Data", "Owners_Normalized"}, wb.Names())

	raw := wb["All_Raw_Data"]
	require.Len(t, raw.Rows, 2)
	assert.Equal(t, "12345678901", raw.Rows[0].Value("cf_owner"))
	assert.Equal(t, "", raw.Rows[1].Value("cf_owner"))

	norm := wb["Owners_Normalized"]
	assert.Equal(t, []string{"Parcel_ID", "quota"}, norm.Columns)
	assert.Empty(t, norm.Rows)
}

func TestDecodeXLSXGarbage(t *testing.T) {
	_, err := DecodeXLSX(bytes.NewReader([]byte("not a workbook")), "input.xlsx")
	require.Error(t, err)

	var de *DecodeError
	require.True(t, errors.As(err, &de))
	assert.Equal(t, "input.xlsx", de.File)
}

func TestEncodeXLSXNoSheets(t *testing.T) {
	_, err := EncodeXLSX()
	assert.Error(t, err)
}

func TestReadShapefile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "parcels.shp")
	w, err := shp.Create(path, shp.POLYGON)
	require.NoError(t, err)

	require.NoError(t, w.SetFields([]shp.Field{
		shp.StringField("provincia", 20),
		shp.StringField("comune", 40),
		shp.StringField("foglio", 10),
		shp.StringField("particella", 10),
		shp.StringField("Sezione", 5),
		shp.StringField("CP", 5),
		shp.StringField("Parcel_ID", 20),
	}))

	square := shp.Polygon(*shp.NewPolyLine([][]shp.Point{{
		{X: 0, Y: 0}, {X: 0, Y: 100}, {X: 100, Y: 100}, {X: 100, Y: 0}, {X: 0, Y: 0},
	}}))
	row := w.Write(&square)
	for i, v := range []string{"Torino", "Chieri", "12", "345", "", "10023", "P-1"} {
		require.NoError(t, w.WriteAttribute(int(row), i, v))
	}
	w.Close()

	wb, err := ReadShapefile(path)
	require.NoError(t, err)

	s, ok := wb.Get(ShapefileSheet)
	require.True(t, ok)
	assert.Contains(t, s.Columns, AreaColumn)
	require.Len(t, s.Rows, 1)
	assert.Equal(t, "Chieri", s.Rows[0].Value("comune"))
	assert.Equal(t, "P-1", s.Rows[0].Value("Parcel_ID"))
	assert.Equal(t, "1", s.Rows[0].Value(AreaColumn))
}

func TestReadShapefileTruncated(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cut.shp")
	w, err := shp.Create(path, shp.POLYGON)
	require.NoError(t, err)
	require.NoError(t, w.SetFields([]shp.Field{shp.StringField("Parcel_ID", 20)}))

	for i, id := range []string{"P-1", "P-2"} {
		off := float64(i * 200)
		square := shp.Polygon(*shp.NewPolyLine([][]shp.Point{{
			{X: off, Y: 0}, {X: off, Y: 100}, {X: off + 100, Y: 100}, {X: off + 100, Y: 0}, {X: off, Y: 0},
		}}))
		row := w.Write(&square)
		require.NoError(t, w.WriteAttribute(int(row), 0, id))
	}
	w.Close()

	info, err := os.Stat(path)
	require.NoError(t, err)
	require.NoError(t, os.Truncate(path, info.Size()-24))

	_, err = ReadShapefile(path)
	var de *DecodeError
	require.True(t, errors.As(err, &de), "got %v", err)
	assert.Equal(t, path, de.File)
}

func TestDecodeXLSXReadsStoredNumbers(t *testing.T) {
	f := excelize.NewFile()
	require.NoError(t, f.SetSheetRow("Sheet1", "A1", &[]string{"Parcel_ID", "Area"}))
	require.NoError(t, f.SetCellValue("Sheet1", "A2", "P1"))
	require.NoError(t, f.SetCellValue("Sheet1", "B2", 1234.5678))
	style, err := f.NewStyle(&excelize.Style{NumFmt: 4})
	require.NoError(t, err)
	require.NoError(t, f.SetCellStyle("Sheet1", "B2", "B2", style))
	buf, err := f.WriteToBuffer()
	require.NoError(t, err)

	wb, err := DecodeXLSX(bytes.NewReader(buf.Bytes()), "styled.xlsx")
	require.NoError(t, err)
	s, ok := wb.Get("Sheet1")
	require.True(t, ok)
	require.Len(t, s.Rows, 1)
	assert.Equal(t, "1234.5678", s.Rows[0].Value("Area"))
}

func TestReadFileMissing(t *testing.T) {
	_, err := ReadFile(filepath.Join(t.TempDir(), "nope.xlsx"))
	assert.Error(t, err)
}
