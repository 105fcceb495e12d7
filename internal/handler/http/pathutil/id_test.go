package pathutil

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtractID(t *testing.T) {
	tests := []struct {
		name    string
		path    string
		prefix  string
		want    int
		wantErr bool
	}{
		{"valid id", "/api/movies/27205", "/api/movies/", 27205, false},
		{"non-numeric", "/api/movies/abc", "/api/movies/", 0, true},
		{"empty", "/api/movies/", "/api/movies/", 0, true},
		{"zero", "/api/movies/0", "/api/movies/", 0, true},
		{"negative", "/api/movies/-5", "/api/movies/", 0, true},
		{"trailing segment", "/api/movies/1/extra", "/api/movies/", 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ExtractID(tt.path, tt.prefix)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrInvalidID)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}
