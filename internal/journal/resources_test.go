package journal

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func resourceIDs(rs []Resource) []string {
	ids := make([]string, 0, len(rs))
	for _, r := range rs {
		ids = append(ids, r.ID)
	}
	return ids
}

func TestSearchResources(t *testing.T) {
	tests := []struct {
		name string
		term string
		want []string
	}{
		{"empty matches all", "", []string{"1", "2", "3", "4"}},
		{"blank matches all", "   ", []string{"1", "2", "3", "4"}},
		{"title", "distorsiones", []string{"3"}},
		{"summary", "reducir", []string{"2"}},
		{"tag", "tcc", []string{"3"}},
		{"ignores case", "ANSIEDAD SOCIAL", []string{"1", "4"}},
		{"decomposed accent", "respiracio\u0301n", []string{"2"}},
		{"no match", "ajedrez", []string{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, resourceIDs(SearchResources(tt.term)))
		})
	}
}

func TestResourceByID(t *testing.T) {
	r, ok := ResourceByID("2")
	require.True(t, ok)
	assert.Equal(t, ResourceVideo, r.Kind)
	assert.Equal(t, r.URL, r.Body())

	r, ok = ResourceByID("1")
	require.True(t, ok)
	assert.Equal(t, r.Content, r.Body())

	_, ok = ResourceByID("9")
	assert.False(t, ok)
}

func TestResourceBodyFallsBackToSummary(t *testing.T) {
	r := Resource{Summary: "Resumen"}
	assert.Equal(t, "Resumen", r.Body())
}
