// Package identity derives the canonical external identifier of a parcel
// and builds the deduplicated base parcel set.
package identity

import (
	"fmt"
	"math"
	"sort"
	"strconv"
	"strings"
	"unicode/utf8"

	"landfunnel/internal/reference"
	"landfunnel/internal/types"
)

// MissingSection replaces a blank cadastral section.
const MissingSection = "X"

const (
	sheetWidth  = 4
	numberWidth = 5
)

// ProvinceResolver resolves a raw province value.
type ProvinceResolver interface {
	Resolve(raw string) reference.Resolution
}

// Result is the base parcel set plus the data-quality counters gathered
// while building it.
type Result struct {
	Parcels []types.Parcel

	// BlankKeys counts rows dropped for an empty business key.
	BlankKeys int
	// Duplicates counts rows dropped because their identifier repeated.
	Duplicates int
	// Ambiguous holds business keys that map to more than one identifier.
	Ambiguous map[string]bool
}

// AmbiguousKeys returns the ambiguous business keys, sorted.
func (r Result) AmbiguousKeys() []string {
	keys := make([]string, 0, len(r.Ambiguous))
	for k := range r.Ambiguous {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Resolver builds canonical identifiers.
type Resolver struct {
	provinces ProvinceResolver
}

// NewResolver returns a Resolver backed by provinces.
func NewResolver(provinces ProvinceResolver) *Resolver {
	return &Resolver{provinces: provinces}
}

// Canonicalize fills the province and ExternalID fields of p.
func (r *Resolver) Canonicalize(p types.Parcel) types.Parcel {
	res := r.provinces.Resolve(p.ProvinceRaw)
	p.ProvinceCode = res.Code
	p.Region = res.Region
	p.ProvinceName = res.Name
	p.ExternalID = ExternalID(p.ProvinceCode, p.Municipality, p.Section, p.Sheet, p.Number)
	return p
}

// Build drops rows without a business key, canonicalizes the rest, keeps
// the first row per identifier and flags business keys that produced more
// than one identifier. Input order is preserved.
func (r *Resolver) Build(rows []types.Parcel) Result {
	res := Result{Ambiguous: make(map[string]bool)}
	seen := make(map[string]bool, len(rows))
	idsByKey := make(map[string]map[string]bool)

	for _, row := range rows {
		if strings.TrimSpace(row.ParcelID) == "" {
			res.BlankKeys++
			continue
		}
		p := r.Canonicalize(row)

		ids, ok := idsByKey[p.ParcelID]
		if !ok {
			ids = make(map[string]bool)
			idsByKey[p.ParcelID] = ids
		}
		ids[p.ExternalID] = true
		if len(ids) > 1 {
			res.Ambiguous[p.ParcelID] = true
		}

		if seen[p.ExternalID] {
			res.Duplicates++
			continue
		}
		seen[p.ExternalID] = true
		res.Parcels = append(res.Parcels, p)
	}
	return res
}

// ExternalID composes {province}-{MUNICIPALITY}-{section}-{sheet}-{number}
// with the municipality uppercased and stripped of whitespace, a blank
// section replaced by X, the sheet padded to 4 and the number to 5 digits.
func ExternalID(provinceCode, municipality, section, sheet, number string) string {
	sec := strings.TrimSpace(section)
	if sec == "" {
		sec = MissingSection
	}
	return fmt.Sprintf("%s-%s-%s-%s-%s",
		provinceCode,
		MunicipalityKey(municipality),
		sec,
		Pad(sheet, sheetWidth),
		Pad(number, numberWidth))
}

// MunicipalityKey uppercases and removes all whitespace.
func MunicipalityKey(s string) string {
	return strings.ToUpper(strings.Join(strings.Fields(s), ""))
}

// Pad zero-pads a numeric value to width digits. Integral floats such as
// "42.0" (as spreadsheets often store them) count as numeric. Anything else
// is left-padded with zeros as text so non-digit content survives.
func Pad(v string, width int) string {
	v = strings.TrimSpace(v)
	if n, err := strconv.ParseInt(v, 10, 64); err == nil {
		return fmt.Sprintf("%0*d", width, n)
	}
	if f, err := strconv.ParseFloat(v, 64); err == nil && f == math.Trunc(f) && !math.IsInf(f, 0) {
		return fmt.Sprintf("%0*d", width, int64(f))
	}
	n := utf8.RuneCountInString(v)
	if n >= width {
		return v
	}
	return strings.Repeat("0", width-n) + v
}
