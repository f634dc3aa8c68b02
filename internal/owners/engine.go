// Package owners picks, per parcel, the authoritative main owner among the
// ownership candidates of the Results bundle and summarizes the co-owners.
package owners

import (
	"strings"

	"landfunnel/internal/identity"
	"landfunnel/internal/ingest"
	"landfunnel/internal/types"
)

// Trace records which rules fired while resolving one parcel.
type Trace struct {
	// Candidates is the number of raw rows sharing the business key.
	Candidates int
	// GeoFiltered is true when the municipality filter was applied.
	GeoFiltered bool
	// GeoFallback is true when the filter emptied the set and was undone.
	GeoFallback bool
	// GeoRejected is true when the filter emptied the set of an ambiguous
	// key and no fallback was allowed.
	GeoRejected bool
	// Corporate is true when individual candidates were discarded in favour
	// of corporate ones.
	Corporate bool
	// FromNormalized is true when the main owner came from Owners_Normalized.
	FromNormalized bool
}

// Engine resolves owners for parcels. It is built once per run and only
// read afterwards.
type Engine struct {
	raw             map[string][]types.RawOwner
	normalized      map[string][]types.NormalizedOwner
	emails          map[string]string
	ambiguous       map[string]bool
	hasMunicipality bool
}

// NewEngine indexes the Results bundle by business key. ambiguous holds the
// business keys that map to more than one physical parcel.
func NewEngine(res ingest.Results, ambiguous map[string]bool) *Engine {
	e := &Engine{
		raw:             make(map[string][]types.RawOwner),
		normalized:      make(map[string][]types.NormalizedOwner),
		emails:          ContactIndex(res.Companies),
		ambiguous:       ambiguous,
		hasMunicipality: res.RawHasMunicipality,
	}
	for _, r := range res.Raw {
		if r.ParcelID == "" {
			continue
		}
		e.raw[r.ParcelID] = append(e.raw[r.ParcelID], r)
	}
	for _, n := range res.Normalized {
		if n.ParcelID == "" {
			continue
		}
		e.normalized[n.ParcelID] = append(e.normalized[n.ParcelID], n)
	}
	return e
}

// ContactIndex maps fiscal codes to certified emails. The first non-empty
// email per code wins.
func ContactIndex(contacts []types.CompanyContact) map[string]string {
	idx := make(map[string]string, len(contacts))
	for _, c := range contacts {
		if c.FiscalCode == "" || c.Email == "" {
			continue
		}
		if _, ok := idx[c.FiscalCode]; !ok {
			idx[c.FiscalCode] = c.Email
		}
	}
	return idx
}

// IsCorporate reports whether a fiscal code follows the corporate pattern
// (leading digit).
func IsCorporate(fiscalCode string) bool {
	return fiscalCode != "" && fiscalCode[0] >= '0' && fiscalCode[0] <= '9'
}

// Resolve merges p with its main owner and co-owner summary. A parcel
// without surviving candidates comes back with no owner and a zero count.
func (e *Engine) Resolve(p types.Parcel) (types.ResolvedParcel, Trace) {
	out := types.ResolvedParcel{Parcel: p}
	cands := e.raw[p.ParcelID]
	tr := Trace{Candidates: len(cands)}

	cands = e.filterByMunicipality(p, cands, &tr)
	cands = corporateFirst(cands, &tr)

	valid := make(map[string]bool, len(cands))
	for _, c := range cands {
		if c.FiscalCode != "" {
			valid[c.FiscalCode] = true
		}
		if out.OwnerPostal == "" && c.PostalCode != "" {
			out.OwnerPostal = c.PostalCode
		}
	}

	var matched []types.NormalizedOwner
	for _, n := range e.normalized[p.ParcelID] {
		if valid[n.FiscalCode] {
			matched = append(matched, n)
		}
	}

	if main, ok := highestQuota(matched); ok {
		tr.FromNormalized = true
		out.FiscalCode = main.FiscalCode
		if raw, ok := findRaw(cands, main.FiscalCode); ok {
			out.OwnerFirstName, out.OwnerLastName = splitName(raw.FirstName, raw.LastName, main.Name)
		} else {
			out.OwnerLastName = CleanName(main.Name)
		}
	} else if len(cands) > 0 {
		prov := cands[0]
		out.FiscalCode = prov.FiscalCode
		out.OwnerFirstName, out.OwnerLastName = splitName(prov.FirstName, prov.LastName, denomination(prov))
	}

	out.Email = e.emails[out.FiscalCode]

	// The count is the size of the owner set, repeats included.
	if len(matched) > 0 {
		out.OwnerCount, out.AllOwners = len(matched), summarizeNormalized(matched)
	} else {
		out.OwnerCount, out.AllOwners = len(cands), summarizeRaw(cands)
	}
	return out, tr
}

// filterByMunicipality keeps candidates whose municipality equals or
// contains the parcel's. An emptied set falls back to all candidates unless
// the business key is ambiguous.
func (e *Engine) filterByMunicipality(p types.Parcel, cands []types.RawOwner, tr *Trace) []types.RawOwner {
	if !e.hasMunicipality || len(cands) == 0 {
		return cands
	}
	tr.GeoFiltered = true
	want := identity.MunicipalityKey(p.Municipality)

	var kept []types.RawOwner
	for _, c := range cands {
		if strings.Contains(identity.MunicipalityKey(c.Municipality), want) {
			kept = append(kept, c)
		}
	}
	if len(kept) > 0 {
		return kept
	}
	if e.ambiguous[p.ParcelID] {
		tr.GeoRejected = true
		return nil
	}
	tr.GeoFallback = true
	return cands
}

// corporateFirst drops individual candidates when any corporate one exists.
func corporateFirst(cands []types.RawOwner, tr *Trace) []types.RawOwner {
	var corp []types.RawOwner
	for _, c := range cands {
		if IsCorporate(c.FiscalCode) {
			corp = append(corp, c)
		}
	}
	if len(corp) == 0 || len(corp) == len(cands) {
		return cands
	}
	tr.Corporate = true
	return corp
}

// highestQuota returns the entry with the largest parsed quota; the first
// one wins ties.
func highestQuota(owners []types.NormalizedOwner) (types.NormalizedOwner, bool) {
	if len(owners) == 0 {
		return types.NormalizedOwner{}, false
	}
	best := owners[0]
	bestQuota := ParseQuota(best.Quota)
	for _, o := range owners[1:] {
		if q := ParseQuota(o.Quota); q > bestQuota {
			best, bestQuota = o, q
		}
	}
	return best, true
}

func findRaw(cands []types.RawOwner, fiscalCode string) (types.RawOwner, bool) {
	for _, c := range cands {
		if c.FiscalCode == fiscalCode {
			return c, true
		}
	}
	return types.RawOwner{}, false
}

func denomination(r types.RawOwner) string {
	if d := CleanName(r.Denomination); d != "" {
		return d
	}
	return r.CombinedName
}
