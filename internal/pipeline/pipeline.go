// Package pipeline runs the one-shot funnel: base parcels (Scouted), parcels
// with at least one resolved owner (Retrieved), and the subset listed in
// the mailing manifest (Contacted).
package pipeline

import (
	"errors"

	"landfunnel/internal/identity"
	"landfunnel/internal/ingest"
	"landfunnel/internal/owners"
	"landfunnel/internal/schema"
	"landfunnel/internal/sheets"
	"landfunnel/internal/types"
)

// ErrMissingInput is returned when Run is called without both workbooks.
var ErrMissingInput = errors.New("both the Input and the Results file must be loaded before processing")

// Stats are the data-quality counters of one run.
type Stats struct {
	InputRows       int
	BlankKeys       int
	Duplicates      int
	Ambiguous       int
	GeoFallbacks    int
	GeoRejected     int
	CorporateWins   int
	ManifestEntries int
}

// Result holds every stage, each materialized independently.
type Result struct {
	Scouted   []types.ResolvedParcel
	Retrieved []types.ResolvedParcel
	Contacted []types.ResolvedParcel

	AmbiguousKeys []string
	Stats         Stats
}

// Stage returns the records of one stage.
func (r *Result) Stage(s types.Stage) []types.ResolvedParcel {
	switch s {
	case types.StageScouted:
		return r.Scouted
	case types.StageRetrieved:
		return r.Retrieved
	case types.StageContacted:
		return r.Contacted
	}
	return nil
}

// Pipeline runs the funnel over decoded workbooks.
type Pipeline struct {
	resolver *identity.Resolver
	log      LogFunc
}

// New returns a Pipeline resolving provinces through provinces and
// reporting progress to log, which may be nil.
func New(provinces identity.ProvinceResolver, log LogFunc) *Pipeline {
	return &Pipeline{resolver: identity.NewResolver(provinces), log: log}
}

// Run validates both workbooks and derives the three stages. Data-quality
// conditions are reported through the log callback, never as errors.
func (p *Pipeline) Run(input, results sheets.Workbook) (*Result, error) {
	if input == nil || results == nil {
		return nil, ErrMissingInput
	}
	if err := schema.ValidateInput(input).Err("Input"); err != nil {
		return nil, err
	}
	if err := schema.ValidateResults(results).Err("Results"); err != nil {
		return nil, err
	}

	rows, err := ingest.Input(input)
	if err != nil {
		return nil, err
	}
	bundle := ingest.ReadResults(results)

	res := &Result{}
	res.Stats.InputRows = len(rows)

	base := p.resolver.Build(rows)
	res.Stats.BlankKeys = base.BlankKeys
	res.Stats.Duplicates = base.Duplicates
	res.AmbiguousKeys = base.AmbiguousKeys()
	res.Stats.Ambiguous = len(res.AmbiguousKeys)

	p.logf(LevelInfo, "read %d input rows", len(rows))
	if base.BlankKeys > 0 {
		p.logf(LevelWarn, "dropped %d rows without Parcel_ID", base.BlankKeys)
	}
	if base.Duplicates > 0 {
		p.logf(LevelWarn, "dropped %d duplicate parcels", base.Duplicates)
	}
	if len(res.AmbiguousKeys) > 0 {
		p.logf(LevelWarn, "%d Parcel_ID values map to more than one parcel, owners are matched by municipality: %v",
			len(res.AmbiguousKeys), res.AmbiguousKeys)
	}

	res.Scouted = scouted(base.Parcels)
	p.logf(LevelSuccess, "Scouted: %d parcels", len(res.Scouted))

	res.Retrieved = p.retrieved(base.Parcels, owners.NewEngine(bundle, base.Ambiguous), &res.Stats)
	p.logf(LevelSuccess, "Retrieved: %d parcels with owners", len(res.Retrieved))

	manifest := manifestKeys(bundle.Mailing)
	res.Stats.ManifestEntries = len(manifest)
	if len(manifest) == 0 {
		p.logf(LevelWarn, "mailing manifest is empty, Contacted stage will be empty")
	}
	res.Contacted = contacted(res.Retrieved, manifest)
	p.logf(LevelSuccess, "Contacted: %d parcels", len(res.Contacted))

	return res, nil
}

// scouted projects base parcels to their location fields only.
func scouted(parcels []types.Parcel) []types.ResolvedParcel {
	out := make([]types.ResolvedParcel, 0, len(parcels))
	for _, p := range parcels {
		out = append(out, types.ResolvedParcel{Parcel: p})
	}
	return out
}

func (p *Pipeline) retrieved(parcels []types.Parcel, engine *owners.Engine, stats *Stats) []types.ResolvedParcel {
	var out []types.ResolvedParcel
	for _, parcel := range parcels {
		r, tr := engine.Resolve(parcel)
		if tr.GeoFallback {
			stats.GeoFallbacks++
		}
		if tr.GeoRejected {
			stats.GeoRejected++
			p.logf(LevelWarn, "%s (%s): no owner recorded in %s for ambiguous Parcel_ID",
				parcel.ExternalID, parcel.ParcelID, parcel.Municipality)
		}
		if tr.Corporate {
			stats.CorporateWins++
		}
		if r.OwnerCount > 0 {
			out = append(out, r)
		}
	}
	if stats.GeoFallbacks > 0 {
		p.logf(LevelInfo, "%d parcels kept owners from other municipalities (no local match)", stats.GeoFallbacks)
	}
	return out
}

func manifestKeys(entries []types.MailingEntry) map[string]bool {
	keys := make(map[string]bool, len(entries))
	for _, e := range entries {
		if e.ParcelID != "" {
			keys[e.ParcelID] = true
		}
	}
	return keys
}

func contacted(retrieved []types.ResolvedParcel, manifest map[string]bool) []types.ResolvedParcel {
	var out []types.ResolvedParcel
	for _, r := range retrieved {
		if manifest[r.ParcelID] {
			out = append(out, r)
		}
	}
	return out
}
