package navigation

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseReference(t *testing.T) {
	tests := []struct {
		in   string
		want Reference
	}{
		{"GEN 1:5", Reference{BookID: "GEN", Chapter: 1, Verse: 5}},
		{"GEN.1.5", Reference{BookID: "GEN", Chapter: 1, Verse: 5}},
		{"gen 1", Reference{BookID: "GEN", Chapter: 1}},
		{"Genesis", Reference{BookID: "GEN", Chapter: 1}},
		{"1 John 4:8", Reference{BookID: "1JN", Chapter: 4, Verse: 8}},
		{"1JN.4", Reference{BookID: "1JN", Chapter: 4}},
		{"  Psalm 119:105 ", Reference{BookID: "PSA", Chapter: 119, Verse: 105}},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseReference(tt.in)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParseReference_Errors(t *testing.T) {
	for _, in := range []string{"", "Hezekiah 1:1", "GEN x", "GEN 1:y", "GEN 0", ".", "..", " . "} {
		t.Run(in, func(t *testing.T) {
			assert.NotPanics(t, func() {
				_, err := ParseReference(in)
				assert.Error(t, err)
			})
		})
	}
}

func TestReference_IDs(t *testing.T) {
	r := Reference{BookID: "JHN", Chapter: 3, Verse: 16}
	assert.Equal(t, "JHN.3", r.ChapterID())
	assert.Equal(t, "JHN.3.16", r.VerseID())
	assert.Equal(t, "John 3:16", r.String())

	r.Verse = 0
	assert.Empty(t, r.VerseID())
	assert.Equal(t, "John 3", r.String())
}
