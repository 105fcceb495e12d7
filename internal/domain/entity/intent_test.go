package entity

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestQueryIntent_SearchTerm(t *testing.T) {
	tests := []struct {
		name     string
		intent   QueryIntent
		rawQuery string
		want     string
	}{
		{
			name:     "first title wins",
			intent:   QueryIntent{Titles: []string{"Inception", "Tenet"}},
			rawQuery: "mind-bending sci-fi",
			want:     "Inception",
		},
		{
			name:     "empty titles falls back to raw query",
			intent:   QueryIntent{Keywords: []string{"memory loss"}},
			rawQuery: "a guy forgets his memory",
			want:     "a guy forgets his memory",
		},
		{
			name:     "blank first title falls back to raw query",
			intent:   QueryIntent{Titles: []string{""}},
			rawQuery: "anything",
			want:     "anything",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.intent.SearchTerm(tt.rawQuery))
		})
	}
}
