package pipeline

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/sells-group/tiger-clip/internal/clip"
	"github.com/sells-group/tiger-clip/internal/feature"
	"github.com/sells-group/tiger-clip/internal/geometry"
	"github.com/sells-group/tiger-clip/internal/model"
	"github.com/sells-group/tiger-clip/internal/shapefile"
	"github.com/sells-group/tiger-clip/internal/tiger"
)

// loadLayer materializes a TIGER layer's shapefile into the cache and reads
// it. The downloaded archive is recorded in the dataset ledger.
func (p *Pipeline) loadLayer(ctx context.Context, name string, year int, stateFIPS string) (*feature.Collection, error) {
	layer, ok := tiger.LayerByName(name)
	if !ok {
		return nil, eris.Errorf("pipeline: unknown layer %q", name)
	}
	if !layer.National && stateFIPS == "" {
		return nil, eris.Errorf("pipeline: layer %s requires a state FIPS code", name)
	}

	url := tiger.DownloadURL(layer, year, stateFIPS)
	if p.cfg.Tiger.UseMirror {
		url = tiger.MirrorURL(layer, year, stateFIPS)
	}

	shpPath, err := tiger.Materialize(ctx, p.fetch, url, p.cfg.Cache.Dir)
	if err != nil {
		return nil, err
	}

	if info, statErr := os.Stat(shpPath); statErr == nil {
		if recErr := p.store.RecordDataset(ctx, url, shpPath, info.Size()); recErr != nil {
			zap.L().Warn("pipeline: failed to record dataset",
				zap.String("url", url),
				zap.Error(recErr),
			)
		}
	}

	return shapefile.Read(shpPath)
}

// clipLayer runs one layer through materialize, clip, and write, recording
// the outcome in the layer ledger. Errors come back in the result instead of
// aborting the run.
func (p *Pipeline) clipLayer(ctx context.Context, runID, name string, year int, stateFIPS string, bnd *feature.Collection, base string) LayerResult {
	log := zap.L().With(
		zap.String("run_id", runID),
		zap.String("layer", name),
	)
	start := time.Now()
	res := LayerResult{Layer: name, Status: model.LayerStatusRunning}

	var ledgerID string
	if rl, err := p.store.CreateRunLayer(ctx, runID, name); err != nil {
		log.Warn("pipeline: failed to create layer record", zap.Error(err))
	} else {
		ledgerID = rl.ID
	}

	finish := func(err error) LayerResult {
		res.DurationMs = time.Since(start).Milliseconds()
		if err != nil {
			res.Status = model.LayerStatusFailed
			res.Err = err
			if ledgerID != "" {
				if dbErr := p.store.FailRunLayer(ctx, ledgerID, err.Error(), int(res.DurationMs)); dbErr != nil {
					log.Warn("pipeline: failed to record layer failure", zap.Error(dbErr))
				}
			}
			log.Error("pipeline: layer clip failed",
				zap.Int64("duration_ms", res.DurationMs),
				zap.Error(err),
			)
			return res
		}

		res.Status = model.LayerStatusComplete
		if ledgerID != "" {
			if dbErr := p.store.CompleteRunLayer(ctx, ledgerID, res.FeaturesIn, res.FeaturesOut, res.ArtifactPath, int(res.DurationMs)); dbErr != nil {
				log.Warn("pipeline: failed to record layer completion", zap.Error(dbErr))
			}
		}
		log.Info("pipeline: layer clipped",
			zap.Int("features_in", res.FeaturesIn),
			zap.Int("features_out", res.FeaturesOut),
			zap.String("artifact", res.ArtifactPath),
			zap.Int64("duration_ms", res.DurationMs),
		)
		return res
	}

	col, err := p.loadLayer(ctx, name, year, stateFIPS)
	if err != nil {
		return finish(err)
	}
	res.FeaturesIn = col.Len()
	res.SRID = col.SRID
	res.Family = layerFamily(col)

	clipped, err := clip.Clip(col, bnd)
	if err != nil {
		return finish(err)
	}
	res.FeaturesOut = clipped.Len()

	artifact := filepath.Join(p.cfg.Output.Dir, base+"_"+strings.ToLower(name)+".shp")
	if err := shapefile.Write(clipped, artifact); err != nil {
		return finish(err)
	}
	res.ArtifactPath = artifact

	return finish(nil)
}

// layerFamily names the geometry family observed in a collection, or "mixed".
func layerFamily(col *feature.Collection) string {
	var names []string
	seen := make(map[string]bool)
	for _, f := range col.Features {
		if name := geometry.TypeName(f.Geom); name != "" && !seen[name] {
			seen[name] = true
			names = append(names, name)
		}
	}
	if fam, ok := geometry.FamilyOf(names); ok {
		return fam.String()
	}
	if len(names) == 0 {
		return "none"
	}
	return "mixed"
}

// artifactSlug derives the artifact file-name prefix from the selector.
func artifactSlug(req model.Request) string {
	var base string
	switch req.Kind {
	case model.KindPlace:
		base = req.PlaceName + "_" + req.StateText
	case model.KindCounty:
		base = req.CountyGEOID
	default:
		base = req.StateText
	}
	return slugify(base)
}

// slugify lowercases and collapses everything outside [a-z0-9] into single
// underscores.
func slugify(s string) string {
	var b strings.Builder
	lastUnderscore := true
	for _, r := range strings.ToLower(s) {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			b.WriteRune(r)
			lastUnderscore = false
		default:
			if !lastUnderscore {
				b.WriteByte('_')
				lastUnderscore = true
			}
		}
	}
	return strings.TrimSuffix(b.String(), "_")
}
