package fetcher

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseFTPURL(t *testing.T) {
	tests := []struct {
		name         string
		url          string
		expectedHost string
		expectedPath string
		wantErr      bool
	}{
		{
			name:         "default port",
			url:          "ftp://ftp2.census.gov/census_2020/il2020.pl.zip",
			expectedHost: "ftp2.census.gov:21",
			expectedPath: "/census_2020/il2020.pl.zip",
		},
		{
			name:         "explicit port preserved",
			url:          "ftp://mirror.example.com:2121/data/file.zip",
			expectedHost: "mirror.example.com:2121",
			expectedPath: "/data/file.zip",
		},
		{
			name:    "wrong scheme",
			url:     "https://www2.census.gov/file.zip",
			wantErr: true,
		},
		{
			name:    "empty path",
			url:     "ftp://ftp2.census.gov",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			host, path, err := parseFTPURL(tt.url)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.expectedHost, host)
			assert.Equal(t, tt.expectedPath, path)
		})
	}
}
