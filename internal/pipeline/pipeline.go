// Package pipeline orchestrates a clip run end to end: materialize the TIGER
// reference layers, resolve the selector, dissolve the boundary, clip each
// requested layer, and record every step in the run ledger.
package pipeline

import (
	"context"
	"os"
	"path/filepath"
	"time"

	"github.com/rotisserie/eris"
	"github.com/twpayne/go-geom"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/sells-group/tiger-clip/internal/boundary"
	"github.com/sells-group/tiger-clip/internal/config"
	"github.com/sells-group/tiger-clip/internal/feature"
	"github.com/sells-group/tiger-clip/internal/fetcher"
	"github.com/sells-group/tiger-clip/internal/model"
	"github.com/sells-group/tiger-clip/internal/resolve"
	"github.com/sells-group/tiger-clip/internal/shapefile"
	"github.com/sells-group/tiger-clip/internal/store"
	"github.com/sells-group/tiger-clip/internal/tiger"
)

// Pipeline wires the fetcher, the ledger, and the clip stages together.
type Pipeline struct {
	cfg   *config.Config
	store *store.Store
	fetch fetcher.Fetcher
}

// New creates a Pipeline with all dependencies.
func New(cfg *config.Config, st *store.Store, f fetcher.Fetcher) *Pipeline {
	return &Pipeline{cfg: cfg, store: st, fetch: f}
}

// Result collects what a run produced.
type Result struct {
	RunID        string
	Request      model.Request
	Boundary     *feature.Collection
	BoundaryPath string
	Layers       []LayerResult
	StartedAt    time.Time
	FinishedAt   time.Time
}

// LayerResult is the outcome of clipping one layer.
type LayerResult struct {
	Layer        string
	Status       model.LayerStatus
	Family       string
	SRID         int
	FeaturesIn   int
	FeaturesOut  int
	ArtifactPath string
	DurationMs   int64
	Err          error
}

// BoundaryParts counts the polygons in the dissolved boundary.
func (r *Result) BoundaryParts() int {
	if r.Boundary == nil || r.Boundary.Len() == 0 {
		return 0
	}
	switch g := r.Boundary.Features[0].Geom.(type) {
	case *geom.MultiPolygon:
		return g.NumPolygons()
	case *geom.Polygon:
		return 1
	default:
		return 0
	}
}

// BoundarySRID returns the boundary's CRS, or 0 before the boundary exists.
func (r *Result) BoundarySRID() int {
	if r.Boundary == nil {
		return 0
	}
	return r.Boundary.SRID
}

// Run executes a full clip run. Individual layer failures do not abort the
// run; an error is returned only when the boundary cannot be built or every
// requested layer fails.
func (p *Pipeline) Run(ctx context.Context, req model.Request) (*Result, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	if req.Year == 0 {
		req.Year = p.cfg.Tiger.Year
	}

	log := zap.L().With(
		zap.String("kind", string(req.Kind)),
		zap.String("target", req.Target()),
		zap.Int("year", req.Year),
	)
	log.Info("pipeline: starting clip run", zap.Strings("layers", req.Layers))

	result := &Result{Request: req, StartedAt: time.Now().UTC()}

	run, err := p.store.CreateRun(ctx, req)
	if err != nil {
		return nil, eris.Wrap(err, "pipeline: create run")
	}
	result.RunID = run.ID
	log = log.With(zap.String("run_id", run.ID))

	setStatus := func(status model.RunStatus) {
		if statusErr := p.store.UpdateRunStatus(ctx, run.ID, status); statusErr != nil {
			log.Warn("pipeline: failed to update status", zap.Error(statusErr))
		}
	}
	fail := func(runErr error) (*Result, error) {
		if failErr := p.store.FailRun(ctx, run.ID, runErr.Error()); failErr != nil {
			log.Warn("pipeline: failed to record failure", zap.Error(failErr))
		}
		result.FinishedAt = time.Now().UTC()
		log.Error("pipeline: clip run failed", zap.Error(runErr))
		return result, runErr
	}

	setStatus(model.RunStatusRunning)

	// Boundary: resolve the selector and dissolve the matched features.
	bnd, stateFIPS, err := p.makeBoundary(ctx, req, result, log)
	if err != nil {
		return fail(err)
	}
	base := artifactSlug(req)

	// Clip each requested layer. Failures are recorded per layer and do not
	// stop the remaining layers.
	concurrency := p.cfg.Clip.Concurrency
	if concurrency < 1 {
		concurrency = 1
	}
	results := make([]LayerResult, len(req.Layers))
	g, gCtx := errgroup.WithContext(ctx)
	g.SetLimit(concurrency)
	for i, name := range req.Layers {
		g.Go(func() error {
			results[i] = p.clipLayer(gCtx, run.ID, name, req.Year, stateFIPS, bnd, base)
			return nil
		})
	}
	_ = g.Wait()
	result.Layers = results
	result.FinishedAt = time.Now().UTC()

	failed := 0
	for _, lr := range results {
		if lr.Err != nil {
			failed++
		}
	}
	if failed == len(results) {
		return fail(eris.Errorf("pipeline: all %d layers failed to clip", failed))
	}

	if err := p.store.CompleteRun(ctx, run.ID, result.BoundaryPath); err != nil {
		log.Warn("pipeline: failed to record completion", zap.Error(err))
	}
	log.Info("pipeline: clip run complete",
		zap.Int("layers_ok", len(results)-failed),
		zap.Int("layers_failed", failed),
	)
	return result, nil
}

// makeBoundary builds the boundary for the request and persists it as a
// shapefile under the output directory.
func (p *Pipeline) makeBoundary(ctx context.Context, req model.Request, result *Result, log *zap.Logger) (*feature.Collection, string, error) {
	bnd, stateFIPS, err := p.buildBoundary(ctx, req)
	if err != nil {
		return nil, "", err
	}
	result.Boundary = bnd

	if err := os.MkdirAll(p.cfg.Output.Dir, 0o755); err != nil {
		return nil, "", eris.Wrap(err, "pipeline: create output dir")
	}
	path := filepath.Join(p.cfg.Output.Dir, artifactSlug(req)+"_boundary.shp")
	if err := shapefile.Write(bnd, path); err != nil {
		return nil, "", eris.Wrap(err, "pipeline: write boundary")
	}
	result.BoundaryPath = path
	fields := []zap.Field{
		zap.String("path", path),
		zap.Int("srid", bnd.SRID),
		zap.Int("parts", result.BoundaryParts()),
	}
	if abbr, ok := tiger.AbbrFromFIPS(stateFIPS); ok {
		fields = append(fields, zap.String("state", abbr))
	}
	log.Info("pipeline: boundary ready", fields...)
	return bnd, stateFIPS, nil
}

// buildBoundary materializes the reference layer for the request's kind,
// resolves the selector against it, and dissolves the matches. It also
// returns the state FIPS code governing per-state layer downloads.
func (p *Pipeline) buildBoundary(ctx context.Context, req model.Request) (*feature.Collection, string, error) {
	switch req.Kind {
	case model.KindState:
		states, err := p.loadLayer(ctx, "STATE", req.Year, "")
		if err != nil {
			return nil, "", err
		}
		fips, err := resolve.StateFIPS(states, req.StateText)
		if err != nil {
			return nil, "", err
		}
		bnd, err := boundary.FromState(states, fips)
		return bnd, fips, err

	case model.KindPlace:
		states, err := p.loadLayer(ctx, "STATE", req.Year, "")
		if err != nil {
			return nil, "", err
		}
		fips, err := resolve.StateFIPS(states, req.StateText)
		if err != nil {
			return nil, "", err
		}
		places, err := p.loadLayer(ctx, "PLACE", req.Year, fips)
		if err != nil {
			return nil, "", err
		}
		bnd, err := boundary.FromPlace(places, req.PlaceName, fips)
		return bnd, fips, err

	case model.KindCounty:
		fips, err := resolve.StateFromCounty(req.CountyGEOID)
		if err != nil {
			return nil, "", err
		}
		counties, err := p.loadLayer(ctx, "COUNTY", req.Year, "")
		if err != nil {
			return nil, "", err
		}
		geoid, err := resolve.CountyGEOID(counties, req.CountyGEOID)
		if err != nil {
			return nil, "", err
		}
		bnd, err := boundary.FromCounty(counties, geoid)
		return bnd, fips, err

	default:
		return nil, "", &feature.InvalidInputError{Input: string(req.Kind), Reason: "unknown selector kind"}
	}
}
