package fetcher

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseFTPURL(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		url      string
		wantHost string
		wantPath string
		wantErr  bool
	}{
		{
			name:     "census mirror without port",
			url:      "ftp://ftp2.census.gov/geo/tiger/TIGER2020/STATE/tl_2020_us_state.zip",
			wantHost: "ftp2.census.gov:21",
			wantPath: "/geo/tiger/TIGER2020/STATE/tl_2020_us_state.zip",
		},
		{
			name:     "explicit port preserved",
			url:      "ftp://ftp2.census.gov:2121/geo/tiger/TIGER2020/PLACE/tl_2020_48_place.zip",
			wantHost: "ftp2.census.gov:2121",
			wantPath: "/geo/tiger/TIGER2020/PLACE/tl_2020_48_place.zip",
		},
		{
			name:    "http scheme rejected",
			url:     "http://ftp2.census.gov/geo/tiger/file.zip",
			wantErr: true,
		},
		{
			name:    "empty path rejected",
			url:     "ftp://ftp2.census.gov",
			wantErr: true,
		},
		{
			name:    "unparseable url",
			url:     "://not-a-url",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			host, path, err := parseFTPURL(tt.url)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantHost, host)
			assert.Equal(t, tt.wantPath, path)
		})
	}
}

func TestNewFTPFetcher_Defaults(t *testing.T) {
	t.Parallel()

	f := NewFTPFetcher(FTPOptions{})

	assert.Equal(t, 30*time.Second, f.opts.Timeout)
	assert.Equal(t, 3, f.opts.MaxRetries)
}
