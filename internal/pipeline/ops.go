package pipeline

import (
	"context"
	"time"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/sells-group/tiger-clip/internal/feature"
	"github.com/sells-group/tiger-clip/internal/model"
	"github.com/sells-group/tiger-clip/internal/resolve"
)

// Boundary resolves the selector, dissolves the boundary, and persists it
// without clipping any layers. The run is still recorded in the ledger.
func (p *Pipeline) Boundary(ctx context.Context, req model.Request) (*Result, error) {
	if err := req.ValidateSelector(); err != nil {
		return nil, err
	}
	if req.Year == 0 {
		req.Year = p.cfg.Tiger.Year
	}
	req.Layers = nil

	log := zap.L().With(
		zap.String("kind", string(req.Kind)),
		zap.String("target", req.Target()),
		zap.Int("year", req.Year),
	)
	log.Info("pipeline: starting boundary run")

	result := &Result{Request: req, StartedAt: time.Now().UTC()}

	run, err := p.store.CreateRun(ctx, req)
	if err != nil {
		return nil, eris.Wrap(err, "pipeline: create run")
	}
	result.RunID = run.ID
	log = log.With(zap.String("run_id", run.ID))

	if err := p.store.UpdateRunStatus(ctx, run.ID, model.RunStatusRunning); err != nil {
		log.Warn("pipeline: failed to update status", zap.Error(err))
	}

	if _, _, err := p.makeBoundary(ctx, req, result, log); err != nil {
		if failErr := p.store.FailRun(ctx, run.ID, err.Error()); failErr != nil {
			log.Warn("pipeline: failed to record failure", zap.Error(failErr))
		}
		result.FinishedAt = time.Now().UTC()
		log.Error("pipeline: boundary run failed", zap.Error(err))
		return result, err
	}
	result.FinishedAt = time.Now().UTC()

	if err := p.store.CompleteRun(ctx, run.ID, result.BoundaryPath); err != nil {
		log.Warn("pipeline: failed to record completion", zap.Error(err))
	}
	log.Info("pipeline: boundary run complete", zap.String("path", result.BoundaryPath))
	return result, nil
}

// Resolve materializes the reference layer for the selector and returns the
// canonical identifier: a state FIPS code or a validated county GEOID.
func (p *Pipeline) Resolve(ctx context.Context, req model.Request) (string, error) {
	if err := req.ValidateSelector(); err != nil {
		return "", err
	}
	if req.Year == 0 {
		req.Year = p.cfg.Tiger.Year
	}

	switch req.Kind {
	case model.KindState:
		states, err := p.loadLayer(ctx, "STATE", req.Year, "")
		if err != nil {
			return "", err
		}
		return resolve.StateFIPS(states, req.StateText)

	case model.KindCounty:
		if _, err := resolve.StateFromCounty(req.CountyGEOID); err != nil {
			return "", err
		}
		counties, err := p.loadLayer(ctx, "COUNTY", req.Year, "")
		if err != nil {
			return "", err
		}
		return resolve.CountyGEOID(counties, req.CountyGEOID)

	default:
		return "", &feature.InvalidInputError{Input: string(req.Kind), Reason: "resolve supports state and county selectors"}
	}
}
