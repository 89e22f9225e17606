// Package model holds the shared run-ledger domain types.
package model

import (
	"time"

	"github.com/sells-group/tiger-clip/internal/feature"
)

// RunStatus represents the current state of a clip run.
type RunStatus string

const (
	RunStatusQueued   RunStatus = "queued"
	RunStatusRunning  RunStatus = "running"
	RunStatusComplete RunStatus = "complete"
	RunStatusFailed   RunStatus = "failed"
)

// LayerStatus represents the state of a single layer clip within a run.
type LayerStatus string

const (
	LayerStatusRunning  LayerStatus = "running"
	LayerStatusComplete LayerStatus = "complete"
	LayerStatusFailed   LayerStatus = "failed"
)

// RequestKind selects which boundary the run dissolves.
type RequestKind string

const (
	KindState  RequestKind = "state"
	KindPlace  RequestKind = "place"
	KindCounty RequestKind = "county"
)

// Request describes one clip invocation: which boundary to build and which
// TIGER layers to clip against it.
type Request struct {
	Kind        RequestKind `json:"kind"`
	StateText   string      `json:"state_text,omitempty"`
	PlaceName   string      `json:"place_name,omitempty"`
	CountyGEOID string      `json:"county_geoid,omitempty"`
	Year        int         `json:"year"`
	Layers      []string    `json:"layers"`
}

// ValidateSelector checks that the request names the inputs its kind needs.
func (r Request) ValidateSelector() error {
	switch r.Kind {
	case KindState:
		if r.StateText == "" {
			return &feature.InvalidInputError{Input: r.StateText, Reason: "state selector requires a state name or postal code"}
		}
	case KindPlace:
		if r.PlaceName == "" {
			return &feature.InvalidInputError{Input: r.PlaceName, Reason: "place selector requires a place name"}
		}
		if r.StateText == "" {
			return &feature.InvalidInputError{Input: r.StateText, Reason: "place selector requires the containing state"}
		}
	case KindCounty:
		if r.CountyGEOID == "" {
			return &feature.InvalidInputError{Input: r.CountyGEOID, Reason: "county selector requires a 5-digit GEOID"}
		}
	default:
		return &feature.InvalidInputError{Input: string(r.Kind), Reason: "unknown selector kind"}
	}
	return nil
}

// Validate checks the selector and requires at least one layer to clip.
func (r Request) Validate() error {
	if err := r.ValidateSelector(); err != nil {
		return err
	}
	if len(r.Layers) == 0 {
		return &feature.InvalidInputError{Input: "", Reason: "at least one layer is required"}
	}
	return nil
}

// Target returns the human-readable identifier the run was asked to clip to.
func (r Request) Target() string {
	switch r.Kind {
	case KindPlace:
		return r.PlaceName + ", " + r.StateText
	case KindCounty:
		return r.CountyGEOID
	default:
		return r.StateText
	}
}

// Run is one clip pipeline invocation recorded in the ledger.
type Run struct {
	ID           string    `json:"id"`
	Request      Request   `json:"request"`
	Status       RunStatus `json:"status"`
	BoundaryPath string    `json:"boundary_path,omitempty"`
	Error        string    `json:"error,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// RunLayer records one layer clip within a run.
type RunLayer struct {
	ID           string      `json:"id"`
	RunID        string      `json:"run_id"`
	Layer        string      `json:"layer"`
	Status       LayerStatus `json:"status"`
	FeaturesIn   int         `json:"features_in"`
	FeaturesOut  int         `json:"features_out"`
	ArtifactPath string      `json:"artifact_path,omitempty"`
	Error        string      `json:"error,omitempty"`
	DurationMs   int         `json:"duration_ms"`
	StartedAt    time.Time   `json:"started_at"`
}

// Dataset records one cached TIGER archive.
type Dataset struct {
	ID        string    `json:"id"`
	URL       string    `json:"url"`
	Path      string    `json:"path"`
	SizeBytes int64     `json:"size_bytes"`
	FetchedAt time.Time `json:"fetched_at"`
}
