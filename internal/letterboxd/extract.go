package letterboxd

import (
	"regexp"
	"strconv"
	"strings"

	"watchmatch/pkg/models"
)

// Watchlist pages carry one <li> per poster with a data-film-slug attribute
// and an alt/title attribute of the form "<Title> <4-digit-year>". Titles
// are kept exactly as they appear in the HTML; entity decoding happens
// downstream when entries are grouped and matched, never here.
var (
	listItemRe = regexp.MustCompile(`(?s)<li[^>]*>.*?</li>`)
	filmSlugRe = regexp.MustCompile(`data-film-slug="([^"]+)"`)
	altRe      = regexp.MustCompile(`(?:alt|title)="([^"]*)"`)
	yearTailRe = regexp.MustCompile(`^(.*\S)\s+\(?((?:18|19|20)\d{2})\)?$`)
)

// ExtractEntries parses one page of watchlist HTML into raw entries.
// Blocks without a film slug or with an empty alt text are skipped.
func ExtractEntries(html string) []models.RawEntry {
	var out []models.RawEntry

	for _, block := range listItemRe.FindAllString(html, -1) {
		slugMatch := filmSlugRe.FindStringSubmatch(block)
		if slugMatch == nil {
			continue
		}
		altMatch := altRe.FindStringSubmatch(block)
		if altMatch == nil {
			continue
		}

		title, year := splitTitleYear(altMatch[1])
		if title == "" {
			continue
		}

		out = append(out, models.RawEntry{
			Title: title,
			Year:  year,
			Slug:  slugMatch[1],
		})
	}
	return out
}

// splitTitleYear peels a trailing 4-digit year off the alt text. No
// trailing year means the year is unknown (0).
func splitTitleYear(alt string) (string, int) {
	alt = strings.TrimSpace(alt)
	if m := yearTailRe.FindStringSubmatch(alt); m != nil {
		year, err := strconv.Atoi(m[2])
		if err == nil {
			return m[1], year
		}
	}
	return alt, 0
}
