package sheets

import (
	"fmt"
	"math"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	shp "github.com/jonas-p/go-shp"
)

// ShapefileSheet is the sheet name a decoded shapefile is exposed under, so
// it satisfies the Input register contract.
const ShapefileSheet = "Sheet1"

// AreaColumn is filled from polygon geometry when the attribute is blank.
const AreaColumn = "Area"

// ReadShapefile loads a cadastral shapefile (with its .dbf beside it) as a
// one-sheet workbook: every DBF field becomes a column and every record a
// row. Polygon records whose Area attribute is blank get the planar ring
// area in hectares, assuming a projected CRS in metres.
func ReadShapefile(path string) (Workbook, error) {
	r, err := shp.Open(path)
	if err != nil {
		return nil, &DecodeError{File: path, Err: err}
	}
	defer r.Close()

	fields := r.Fields()
	header := make([]string, len(fields))
	for i, f := range fields {
		header[i] = strings.TrimSpace(f.String())
	}
	hasArea := false
	for _, h := range header {
		if h == AreaColumn {
			hasArea = true
		}
	}
	if !hasArea {
		header = append(header, AreaColumn)
	}

	areaIdx := indexOf(header, AreaColumn)
	var records [][]string
	for r.Next() {
		idx, shape := r.Shape()
		rec := make([]string, len(header))
		for i := range fields {
			rec[i] = strings.Trim(r.ReadAttribute(idx, i), " \x00")
		}
		if strings.TrimSpace(rec[areaIdx]) == "" {
			if poly, ok := shape.(*shp.Polygon); ok {
				rec[areaIdx] = formatHectares(polygonArea(poly))
			}
		}
		records = append(records, rec)
	}
	if err := r.Err(); err != nil {
		return nil, &DecodeError{File: path, Err: err}
	}

	s := NewSheet(ShapefileSheet, header, records)
	return Workbook{ShapefileSheet: s}, nil
}

func indexOf(header []string, name string) int {
	for i, h := range header {
		if h == name {
			return i
		}
	}
	return -1
}

// polygonArea returns the net area of all rings of poly. Outer rings and
// holes wind in opposite directions, so their signed areas cancel.
func polygonArea(poly *shp.Polygon) float64 {
	numParts := len(poly.Parts)
	total := 0.0
	for partIdx := 0; partIdx < numParts; partIdx++ {
		start := poly.Parts[partIdx]
		end := int32(len(poly.Points))
		if partIdx+1 < numParts {
			end = poly.Parts[partIdx+1]
		}
		ring := poly.Points[start:end]
		total += signedArea(ring)
	}
	return math.Abs(total)
}

// signedArea is the shoelace formula over one ring.
func signedArea(ring []shp.Point) float64 {
	if len(ring) < 3 {
		return 0
	}
	sum := 0.0
	j := len(ring) - 1
	for i := 0; i < len(ring); i++ {
		sum += (ring[j].X + ring[i].X) * (ring[j].Y - ring[i].Y)
		j = i
	}
	return sum / 2
}

func formatHectares(sqMetres float64) string {
	if sqMetres <= 0 {
		return ""
	}
	return strconv.FormatFloat(math.Round(sqMetres/10000*10000)/10000, 'f', -1, 64)
}

// ReadFile decodes an Input or Results file, picking the codec by extension.
func ReadFile(path string) (Workbook, error) {
	if strings.EqualFold(filepath.Ext(path), ".shp") {
		return ReadShapefile(path)
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()
	return DecodeXLSX(f, filepath.Base(path))
}
