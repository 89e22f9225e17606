package resolve

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sells-group/tiger-clip/internal/feature"
)

func statesFixture() *feature.Collection {
	c := feature.NewCollection([]feature.Field{
		{Name: "STATEFP", Type: feature.FieldCharacter, Length: 2},
		{Name: "STUSPS", Type: feature.FieldCharacter, Length: 2},
		{Name: "NAME", Type: feature.FieldCharacter, Length: 100},
	}, 4269)
	rows := []map[string]string{
		{"STATEFP": "48", "STUSPS": "TX", "NAME": "Texas"},
		{"STATEFP": "35", "STUSPS": "NM", "NAME": "New Mexico"},
		{"STATEFP": "6", "STUSPS": "CA", "NAME": "California"},
	}
	for _, r := range rows {
		c.Append(&feature.Feature{Attrs: r})
	}
	return c
}

func countiesFixture() *feature.Collection {
	c := feature.NewCollection([]feature.Field{
		{Name: "GEOID", Type: feature.FieldCharacter, Length: 5},
		{Name: "NAME", Type: feature.FieldCharacter, Length: 100},
	}, 4269)
	rows := []map[string]string{
		{"GEOID": "48113", "NAME": "Dallas"},
		{"GEOID": "35013", "NAME": "Doña Ana"},
	}
	for _, r := range rows {
		c.Append(&feature.Feature{Attrs: r})
	}
	return c
}

func TestStateFIPS(t *testing.T) {
	t.Parallel()

	states := statesFixture()

	tests := []struct {
		input string
		want  string
	}{
		{"Texas", "48"},
		{"texas", "48"},
		{"TEXAS", "48"},
		{"TX", "48"},
		{"tx", "48"},
		{"nEw MeXiCo", "35"},
		{"NM", "35"},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			t.Parallel()
			got, err := StateFIPS(states, tt.input)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestStateFIPS_PadsToTwoDigits(t *testing.T) {
	t.Parallel()

	got, err := StateFIPS(statesFixture(), "California")
	require.NoError(t, err)
	assert.Equal(t, "06", got)
}

func TestStateFIPS_Unresolved(t *testing.T) {
	t.Parallel()

	_, err := StateFIPS(statesFixture(), "Zzzland")
	require.Error(t, err)
	assert.True(t, feature.IsUnresolved(err))
	assert.Contains(t, err.Error(), "Zzzland")
}

func TestStateFIPS_NameBeatsPostal(t *testing.T) {
	t.Parallel()

	// A state literally named like another's postal code must resolve by
	// name before the postal pass runs.
	c := feature.NewCollection(nil, 4269)
	c.Append(&feature.Feature{Attrs: map[string]string{"STATEFP": "90", "STUSPS": "XX", "NAME": "TX"}})
	c.Append(&feature.Feature{Attrs: map[string]string{"STATEFP": "48", "STUSPS": "TX", "NAME": "Texas"}})

	got, err := StateFIPS(c, "TX")
	require.NoError(t, err)
	assert.Equal(t, "90", got)
}

func TestCountyGEOID(t *testing.T) {
	t.Parallel()

	counties := countiesFixture()

	got, err := CountyGEOID(counties, "48113")
	require.NoError(t, err)
	assert.Equal(t, "48113", got)

	got, err = CountyGEOID(counties, "35013")
	require.NoError(t, err)
	assert.Equal(t, "35013", got)
}

func TestCountyGEOID_InvalidInput(t *testing.T) {
	t.Parallel()

	tests := []string{"4811", "481133", "", "4811a", "48 13", "४८११३"}
	for _, input := range tests {
		t.Run(input, func(t *testing.T) {
			t.Parallel()
			_, err := CountyGEOID(countiesFixture(), input)
			require.Error(t, err)
			assert.True(t, feature.IsInvalidInput(err), "want InvalidInputError for %q", input)
		})
	}
}

func TestCountyGEOID_Unresolved(t *testing.T) {
	t.Parallel()

	_, err := CountyGEOID(countiesFixture(), "99999")
	require.Error(t, err)
	assert.True(t, feature.IsUnresolved(err))
	assert.Contains(t, err.Error(), "99999")
}

func TestStateFromCounty(t *testing.T) {
	t.Parallel()

	got, err := StateFromCounty("48113")
	require.NoError(t, err)
	assert.Equal(t, "48", got)

	got, err = StateFromCounty("06037")
	require.NoError(t, err)
	assert.Equal(t, "06", got)
}

func TestStateFromCounty_Invalid(t *testing.T) {
	t.Parallel()

	for _, input := range []string{"481", "4811a", "", "verylongcode"} {
		_, err := StateFromCounty(input)
		require.Error(t, err, "input %q", input)
		assert.True(t, feature.IsInvalidInput(err))
	}
}
