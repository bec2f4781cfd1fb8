package api

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const genesisOne = `<p class="p"><span data-number="1" data-sid="GEN 1:1" class="v">1</span>In the beginning God created the heaven and the earth. ` +
	`<span data-number="2" data-sid="GEN 1:2" class="v">2</span>And the earth was without form, and void; ` +
	`and darkness <span class="add">was</span> upon the face of the deep.</p>` +
	`<p class="p"><span data-number="3" data-sid="GEN 1:3" class="v">3</span>And God said, Let there be light: and there was light.</p>`

func TestVerseNumbers(t *testing.T) {
	got, err := VerseNumbers(genesisOne)
	require.NoError(t, err)
	assert.Equal(t, []string{"1", "2", "3"}, got)
}

func TestVerseNumbers_FallsBackToSpanText(t *testing.T) {
	got, err := VerseNumbers(`<p><span class="v"> 7 </span>text<span class="v">8</span>more</p>`)
	require.NoError(t, err)
	assert.Equal(t, []string{"7", "8"}, got)
}

func TestVerseNumbers_NoMarkers(t *testing.T) {
	got, err := VerseNumbers(`<p>no verses here</p>`)
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestPlainText(t *testing.T) {
	assert.Equal(t, "And darkness was upon the deep.",
		PlainText(`<p>And darkness <span class="add">was</span> upon the deep.</p>`))
	assert.Equal(t, "one two", PlainText("  one\n two "))
	assert.Equal(t, "first second", PlainText("<p>first</p><p>second</p>"))
}
