package main

import (
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sells-group/tiger-clip/internal/model"
)

func selectorTestCmd(t *testing.T, flags map[string]string) *cobra.Command {
	t.Helper()
	cmd := &cobra.Command{}
	addSelectorFlags(cmd)
	for k, v := range flags {
		require.NoError(t, cmd.Flags().Set(k, v))
	}
	return cmd
}

func TestSelectorRequest(t *testing.T) {
	tests := []struct {
		name  string
		flags map[string]string
		want  model.Request
	}{
		{
			name:  "state only",
			flags: map[string]string{"state": "Texas"},
			want:  model.Request{Kind: model.KindState, StateText: "Texas"},
		},
		{
			name:  "place with state",
			flags: map[string]string{"place": "Dallas", "state": "TX"},
			want:  model.Request{Kind: model.KindPlace, PlaceName: "Dallas", StateText: "TX"},
		},
		{
			name:  "county",
			flags: map[string]string{"county": "48113"},
			want:  model.Request{Kind: model.KindCounty, CountyGEOID: "48113"},
		},
		{
			name:  "county wins over state",
			flags: map[string]string{"county": "48113", "state": "TX"},
			want:  model.Request{Kind: model.KindCounty, CountyGEOID: "48113"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req, err := selectorRequest(selectorTestCmd(t, tt.flags))
			require.NoError(t, err)
			assert.Equal(t, tt.want, req)
		})
	}
}

func TestSelectorRequest_CountyAndPlaceConflict(t *testing.T) {
	cmd := selectorTestCmd(t, map[string]string{"county": "48113", "place": "Dallas"})
	_, err := selectorRequest(cmd)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "mutually exclusive")
}

func TestSelectorRequest_NoSelector(t *testing.T) {
	_, err := selectorRequest(selectorTestCmd(t, nil))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no selector")
}

func TestSplitAndTrim(t *testing.T) {
	assert.Equal(t, []string{"PRISECROADS", "COUNTY"}, splitAndTrim(" PRISECROADS , COUNTY "))
	assert.Equal(t, []string{"A"}, splitAndTrim("A,,"))
	assert.Empty(t, splitAndTrim(""))
	assert.Empty(t, splitAndTrim(" , "))
}
