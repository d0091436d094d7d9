package catalog

import (
	"context"
	"log"
	"regexp"
	"strconv"
	"strings"

	"watchmatch/internal/titles"
	"watchmatch/pkg/models"
)

// Fallback ids live in their own range so they can never collide with real
// catalog ids (assumed < 900000).
const (
	fallbackIDBase    = 900000
	fallbackIDModulus = 100000
)

// Finder is the slice of catalog queries the matcher needs. *Repo
// implements it; tests substitute fakes.
type Finder interface {
	FindByStrippedTitle(ctx context.Context, stripped string, year int) (*models.Movie, error)
	FindByTitle(ctx context.Context, title string, year int) (*models.Movie, error)
	FindByTitleLike(ctx context.Context, title string) (*models.Movie, error)
}

// Matcher resolves one common-movie candidate to a catalog row via an
// ordered cascade of match strategies. It never fails: a candidate no
// strategy can place gets a synthesized fallback record.
type Matcher struct {
	Repo Finder
}

func NewMatcher(repo Finder) *Matcher {
	return &Matcher{Repo: repo}
}

type strategy struct {
	name string
	try  func(ctx context.Context) (*models.Movie, error)
}

// Resolve runs the cascade for one candidate. A strategy error is treated
// as "no match" for that step and the cascade continues, so one bad query
// can never fail a whole comparison.
func (m *Matcher) Resolve(ctx context.Context, cand models.CommonMovie) models.EnrichedMovie {
	norm := titles.Normalize(cand.Title)

	for _, s := range m.strategies(norm, cand) {
		movie, err := s.try(ctx)
		if err != nil {
			log.Printf("[match] %q step %s: %v", norm.Normalized, s.name, err)
			continue
		}
		if movie != nil {
			return enrichFromRow(movie, cand)
		}
	}

	return fallbackRecord(norm, cand)
}

// strategies builds the cascade for one candidate. When the candidate's
// slug yields a different human title (the slug survives encoding damage
// that the alt text does not), that alternate term gets its own exact and
// stripped attempts before falling back to the plain normalized forms.
func (m *Matcher) strategies(norm titles.NormalizedTitle, cand models.CommonMovie) []strategy {
	year := cand.Year

	list := []strategy{
		{"stripped", func(ctx context.Context) (*models.Movie, error) {
			return m.Repo.FindByStrippedTitle(ctx, norm.Stripped, year)
		}},
	}

	alternate := ""
	if slugTitle := TitleFromSlug(cand.Slug); slugTitle != "" &&
		!strings.EqualFold(slugTitle, norm.Normalized) {
		alternate = slugTitle
	}

	if alternate != "" {
		altStripped := strings.ReplaceAll(alternate, "'", "")
		list = append(list,
			strategy{"exact-slug", func(ctx context.Context) (*models.Movie, error) {
				return m.Repo.FindByTitle(ctx, alternate, year)
			}},
			strategy{"stripped-slug", func(ctx context.Context) (*models.Movie, error) {
				return m.Repo.FindByStrippedTitle(ctx, altStripped, year)
			}},
		)
	}

	list = append(list,
		strategy{"exact", func(ctx context.Context) (*models.Movie, error) {
			return m.Repo.FindByTitle(ctx, norm.Normalized, year)
		}},
		strategy{"like", func(ctx context.Context) (*models.Movie, error) {
			return m.Repo.FindByTitleLike(ctx, norm.Normalized)
		}},
	)
	return list
}

func enrichFromRow(movie *models.Movie, cand models.CommonMovie) models.EnrichedMovie {
	return models.EnrichedMovie{
		ID:             movie.ID,
		Title:          movie.Title,
		Year:           movie.Year,
		PosterPath:     movie.PosterPath,
		Overview:       movie.Overview,
		VoteAverage:    movie.VoteAverage,
		Director:       movie.Director,
		Runtime:        movie.Runtime,
		Genres:         movie.Genres,
		LetterboxdSlug: cand.Slug,
		FriendCount:    cand.FriendCount,
		FriendList:     cand.FriendList,
	}
}

func fallbackRecord(norm titles.NormalizedTitle, cand models.CommonMovie) models.EnrichedMovie {
	return models.EnrichedMovie{
		ID:             fallbackID(norm.Normalized, cand.Year),
		Title:          norm.Normalized,
		Year:           cand.Year,
		LetterboxdSlug: cand.Slug,
		FriendCount:    cand.FriendCount,
		FriendList:     cand.FriendList,
	}
}

// fallbackID derives a stable id for an unmatched title. Rolling hash
// h = h*31 - h + code over lower(title)+year in 32-bit arithmetic, then
// mod 100000 offset into the 900000+ range. The algorithm is fixed so the
// same title gets the same id across runs and processes.
func fallbackID(normalized string, year int) int64 {
	s := strings.ToLower(normalized) + strconv.Itoa(year)
	var h int32
	for _, c := range s {
		h = h*31 - h + c
	}
	v := int64(h)
	if v < 0 {
		v = -v
	}
	return v%fallbackIDModulus + fallbackIDBase
}

var slugYearRe = regexp.MustCompile(`-(?:18|19|20)\d{2}$`)

// TitleFromSlug turns a site slug like "the-world-s-end-2013" into a
// human search term ("The World S End"). The trailing release year is
// dropped; tokens are title-cased.
func TitleFromSlug(slug string) string {
	slug = strings.TrimSpace(slug)
	if slug == "" {
		return ""
	}
	slug = slugYearRe.ReplaceAllString(slug, "")

	parts := strings.Split(slug, "-")
	out := parts[:0]
	for _, p := range parts {
		if p == "" {
			continue
		}
		out = append(out, strings.ToUpper(p[:1])+p[1:])
	}
	return strings.Join(out, " ")
}
