package letterboxd

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const watchlistPage = `
<ul class="poster-list">
  <li class="poster-container">
    <div class="film-poster" data-film-slug="the-world-s-end-2013">
      <img alt="The World&amp;#039;s End 2013" width="125" height="187"/>
    </div>
  </li>
  <li class="poster-container">
    <div class="film-poster" data-film-slug="tom-and-jerry">
      <img alt="Tom &amp; Jerry 2021"/>
    </div>
  </li>
  <li class="poster-container">
    <div class="film-poster" data-film-slug="untitled-short">
      <img alt="Untitled Short"/>
    </div>
  </li>
  <li class="paddington-ad">
    <div class="not-a-film">no slug here</div>
  </li>
</ul>
`

func TestExtractEntries(t *testing.T) {
	entries := ExtractEntries(watchlistPage)
	require.Len(t, entries, 3)

	// Titles stay raw: entity decoding is the matcher's job, not the
	// extractor's.
	assert.Equal(t, "The World&amp;#039;s End", entries[0].Title)
	assert.Equal(t, 2013, entries[0].Year)
	assert.Equal(t, "the-world-s-end-2013", entries[0].Slug)

	assert.Equal(t, "Tom &amp; Jerry", entries[1].Title)
	assert.Equal(t, 2021, entries[1].Year)

	// No trailing year in the alt text means year unknown.
	assert.Equal(t, "Untitled Short", entries[2].Title)
	assert.Equal(t, 0, entries[2].Year)
}

func TestExtractEntriesEmptyPage(t *testing.T) {
	assert.Empty(t, ExtractEntries(`<html><body><p>Nothing here.</p></body></html>`))
	assert.Empty(t, ExtractEntries(""))
}

func TestSplitTitleYear(t *testing.T) {
	tests := []struct {
		alt   string
		title string
		year  int
	}{
		{"Heat 1995", "Heat", 1995},
		{"Blade Runner 2049 2017", "Blade Runner 2049", 2017},
		{"Blade Runner 2049", "Blade Runner", 2049}, // ambiguous alt, trailing year wins
		{"Metropolis (1927)", "Metropolis", 1927},
		{"1917 2019", "1917", 2019},
		{"Untitled", "Untitled", 0},
		{"", "", 0},
	}
	for _, tt := range tests {
		title, year := splitTitleYear(tt.alt)
		assert.Equal(t, tt.title, title, "alt %q", tt.alt)
		assert.Equal(t, tt.year, year, "alt %q", tt.alt)
	}
}
