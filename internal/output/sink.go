package output

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"landfunnel/internal/sheets"
	"landfunnel/internal/types"
)

// Sink stores a produced file.
type Sink interface {
	Save(name string, data []byte) error
}

// DirSink writes files into a directory, creating it on first use.
type DirSink struct {
	Dir string
}

// Save writes data to Dir/name.
func (s DirSink) Save(name string, data []byte) error {
	if err := os.MkdirAll(s.Dir, 0o755); err != nil {
		return fmt.Errorf("create output dir: %w", err)
	}
	path := filepath.Join(s.Dir, name)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}

// Options controls file naming and the CRM delimiter.
type Options struct {
	Prefix    string
	Delimiter rune
}

// File describes one produced file.
type File struct {
	Name  string
	Stage types.Stage
	Rows  int
}

// StageSource yields the records of a stage.
type StageSource interface {
	Stage(types.Stage) []types.ResolvedParcel
}

// WriteStages writes, for every stage, a verification workbook and a CRM
// import file into sink.
func WriteStages(src StageSource, sink Sink, opts Options) ([]File, error) {
	if opts.Delimiter == 0 {
		opts.Delimiter = ','
	}
	var files []File
	for _, stage := range types.Stages {
		recs := src.Stage(stage)
		base := opts.Prefix + strings.ToLower(string(stage))

		verification := make([][]string, 0, len(recs))
		crm := make([][]string, 0, len(recs))
		for _, r := range recs {
			verification = append(verification, VerificationRow(r, stage))
			crm = append(crm, MapToCSVRow(r, stage).Cells())
		}

		xlsx, err := sheets.EncodeXLSX(sheets.Table{
			Name:   string(stage),
			Header: VerificationHeader(stage),
			Rows:   verification,
		})
		if err != nil {
			return files, fmt.Errorf("%s verification: %w", stage, err)
		}
		name := base + "_verification.xlsx"
		if err := sink.Save(name, xlsx); err != nil {
			return files, err
		}
		files = append(files, File{Name: name, Stage: stage, Rows: len(recs)})

		name = base + "_crm.csv"
		if err := sink.Save(name, EncodeCSV(CRMHeader, crm, opts.Delimiter)); err != nil {
			return files, err
		}
		files = append(files, File{Name: name, Stage: stage, Rows: len(recs)})
	}
	return files, nil
}
