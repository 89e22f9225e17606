package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sells-group/tiger-clip/internal/feature"
)

func TestRequestValidate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		req     Request
		wantErr string
	}{
		{
			name: "valid state request",
			req:  Request{Kind: KindState, StateText: "Texas", Year: 2020, Layers: []string{"PRISECROADS"}},
		},
		{
			name: "valid place request",
			req:  Request{Kind: KindPlace, PlaceName: "Dallas", StateText: "TX", Year: 2020, Layers: []string{"PRISECROADS", "COUNTY"}},
		},
		{
			name: "valid county request",
			req:  Request{Kind: KindCounty, CountyGEOID: "48113", Year: 2020, Layers: []string{"COUNTY"}},
		},
		{
			name:    "state without text",
			req:     Request{Kind: KindState, Year: 2020, Layers: []string{"PRISECROADS"}},
			wantErr: "state name or postal code",
		},
		{
			name:    "place without name",
			req:     Request{Kind: KindPlace, StateText: "TX", Year: 2020, Layers: []string{"PRISECROADS"}},
			wantErr: "place name",
		},
		{
			name:    "place without state",
			req:     Request{Kind: KindPlace, PlaceName: "Dallas", Year: 2020, Layers: []string{"PRISECROADS"}},
			wantErr: "containing state",
		},
		{
			name:    "county without geoid",
			req:     Request{Kind: KindCounty, Year: 2020, Layers: []string{"COUNTY"}},
			wantErr: "5-digit GEOID",
		},
		{
			name:    "unknown kind",
			req:     Request{Kind: "zipcode", Year: 2020, Layers: []string{"COUNTY"}},
			wantErr: "unknown selector kind",
		},
		{
			name:    "no layers",
			req:     Request{Kind: KindState, StateText: "Texas", Year: 2020},
			wantErr: "at least one layer",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			err := tt.req.Validate()
			if tt.wantErr == "" {
				require.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
			assert.True(t, feature.IsInvalidInput(err))
		})
	}
}

func TestRequestTarget(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "Texas",
		Request{Kind: KindState, StateText: "Texas"}.Target())
	assert.Equal(t, "Dallas, TX",
		Request{Kind: KindPlace, PlaceName: "Dallas", StateText: "TX"}.Target())
	assert.Equal(t, "48113",
		Request{Kind: KindCounty, CountyGEOID: "48113"}.Target())
}
