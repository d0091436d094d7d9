// Package compare groups equivalent watchlist entries across users and
// exposes the comparison HTTP endpoint.
package compare

import (
	"fmt"
	"strings"

	"watchmatch/internal/titles"
	"watchmatch/pkg/models"
)

// group accumulates the users who listed one logical movie. The first-seen
// entry is kept as the representative, so the output carries its raw title
// and slug.
type group struct {
	entry models.RawEntry
	users []string
}

// FindCommon groups equivalent entries across all watchlists and returns
// the movies present on at least two distinct users' lists. Equivalence is
// the normalized lowercased title plus the year, so entries with year 0
// match only other year-0 entries of the same title. Duplicate entries
// inside a single user's list never inflate the count. Friend lists keep
// first-seen-user order; output order follows first sighting of each group.
func FindCommon(watchlists []models.Watchlist) []models.CommonMovie {
	groups := make(map[string]*group)
	var order []string

	for _, wl := range watchlists {
		seen := make(map[string]struct{}, len(wl.Entries))

		for _, entry := range wl.Entries {
			norm := titles.Normalize(entry.Title).Normalized
			key := fmt.Sprintf("%s-%d", strings.ToLower(norm), entry.Year)

			if _, dup := seen[key]; dup {
				continue
			}
			seen[key] = struct{}{}

			g, ok := groups[key]
			if !ok {
				groups[key] = &group{entry: entry, users: []string{wl.Username}}
				order = append(order, key)
				continue
			}
			g.users = appendIfMissing(g.users, wl.Username)
		}
	}

	var out []models.CommonMovie
	for _, key := range order {
		g := groups[key]
		if len(g.users) < 2 {
			continue
		}
		out = append(out, models.CommonMovie{
			Title:       g.entry.Title,
			Year:        g.entry.Year,
			Slug:        g.entry.Slug,
			FriendCount: len(g.users),
			FriendList:  g.users,
		})
	}
	return out
}

func appendIfMissing(slice []string, v string) []string {
	for _, x := range slice {
		if x == v {
			return slice
		}
	}
	return append(slice, v)
}
