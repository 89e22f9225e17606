// Package report renders a clip run into an XLSX workbook: a summary sheet
// for the run plus one row per layer with counts and timings.
package report

import (
	"time"

	"github.com/rotisserie/eris"
	"github.com/tealeg/xlsx/v2"
	"go.uber.org/zap"
)

// Summary describes the run-level facts that head the workbook.
type Summary struct {
	RunID         string
	Kind          string
	Target        string
	Year          int
	Status        string
	BoundaryPath  string
	BoundarySRID  int
	BoundaryParts int
	Error         string
	StartedAt     time.Time
	FinishedAt    time.Time
}

// LayerResult is one clipped layer's outcome.
type LayerResult struct {
	Layer        string
	Status       string
	Family       string
	SRID         int
	FeaturesIn   int
	FeaturesOut  int
	ArtifactPath string
	DurationMs   int64
	Error        string
}

var layerHeader = []string{
	"Layer", "Status", "Family", "SRID",
	"Features in", "Features out", "Artifact", "Duration (ms)", "Error",
}

// Write saves the workbook to path, overwriting any existing file.
func Write(path string, s Summary, layers []LayerResult) error {
	f := xlsx.NewFile()

	if err := writeSummary(f, s); err != nil {
		return err
	}
	if err := writeLayers(f, layers); err != nil {
		return err
	}

	if err := f.Save(path); err != nil {
		return eris.Wrapf(err, "report: save %s", path)
	}

	zap.L().Debug("report written",
		zap.String("component", "report"),
		zap.String("path", path),
		zap.Int("layers", len(layers)),
	)
	return nil
}

func writeSummary(f *xlsx.File, s Summary) error {
	sheet, err := f.AddSheet("Summary")
	if err != nil {
		return eris.Wrap(err, "report: add summary sheet")
	}

	addKV(sheet, "Run ID", s.RunID)
	addKV(sheet, "Selector", s.Kind)
	addKV(sheet, "Target", s.Target)
	addKVInt(sheet, "Year", s.Year)
	addKV(sheet, "Status", s.Status)
	addKV(sheet, "Boundary", s.BoundaryPath)
	addKVInt(sheet, "Boundary SRID", s.BoundarySRID)
	addKVInt(sheet, "Boundary parts", s.BoundaryParts)
	if !s.StartedAt.IsZero() {
		addKV(sheet, "Started", s.StartedAt.Format(time.RFC3339))
	}
	if !s.FinishedAt.IsZero() {
		addKV(sheet, "Finished", s.FinishedAt.Format(time.RFC3339))
	}
	if s.Error != "" {
		addKV(sheet, "Error", s.Error)
	}

	return nil
}

func writeLayers(f *xlsx.File, layers []LayerResult) error {
	sheet, err := f.AddSheet("Layers")
	if err != nil {
		return eris.Wrap(err, "report: add layers sheet")
	}

	header := sheet.AddRow()
	for _, h := range layerHeader {
		header.AddCell().SetString(h)
	}

	for _, l := range layers {
		row := sheet.AddRow()
		row.AddCell().SetString(l.Layer)
		row.AddCell().SetString(l.Status)
		row.AddCell().SetString(l.Family)
		row.AddCell().SetInt(l.SRID)
		row.AddCell().SetInt(l.FeaturesIn)
		row.AddCell().SetInt(l.FeaturesOut)
		row.AddCell().SetString(l.ArtifactPath)
		row.AddCell().SetInt64(l.DurationMs)
		row.AddCell().SetString(l.Error)
	}

	return nil
}

func addKV(sheet *xlsx.Sheet, key, value string) {
	row := sheet.AddRow()
	row.AddCell().SetString(key)
	row.AddCell().SetString(value)
}

func addKVInt(sheet *xlsx.Sheet, key string, value int) {
	row := sheet.AddRow()
	row.AddCell().SetString(key)
	row.AddCell().SetInt(value)
}
