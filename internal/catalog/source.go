package catalog

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"watchmatch/pkg/models"
)

// Source is implemented by each upstream metadata provider the sync tool
// can pull catalog rows from.
type Source interface {
	Name() string
	FetchAll(ctx context.Context) ([]models.Movie, error)
}

// TMDBSource pulls popular movies from the TMDB v3 API, including the
// genre name map and, per movie, the director from the credits endpoint.
type TMDBSource struct {
	BaseURL string
	APIKey  string
	Client  *http.Client
	Pages   int // popular pages to fetch, 20 movies each
}

func NewTMDBSource(baseURL, apiKey string, pages int) *TMDBSource {
	return &TMDBSource{
		BaseURL: baseURL,
		APIKey:  apiKey,
		Client:  &http.Client{Timeout: 15 * time.Second},
		Pages:   pages,
	}
}

func (s *TMDBSource) Name() string { return "tmdb" }

type tmdbMovie struct {
	ID          int64   `json:"id"`
	Title       string  `json:"title"`
	ReleaseDate string  `json:"release_date"`
	PosterPath  string  `json:"poster_path"`
	Overview    string  `json:"overview"`
	VoteAverage float64 `json:"vote_average"`
	Popularity  float64 `json:"popularity"`
	GenreIDs    []int   `json:"genre_ids"`
	Runtime     int     `json:"runtime"`
}

type tmdbPage struct {
	Page       int         `json:"page"`
	Results    []tmdbMovie `json:"results"`
	TotalPages int         `json:"total_pages"`
}

type tmdbGenreList struct {
	Genres []struct {
		ID   int    `json:"id"`
		Name string `json:"name"`
	} `json:"genres"`
}

type tmdbCredits struct {
	Crew []struct {
		Name string `json:"name"`
		Job  string `json:"job"`
	} `json:"crew"`
}

func (s *TMDBSource) FetchAll(ctx context.Context) ([]models.Movie, error) {
	genres, err := s.fetchGenres(ctx)
	if err != nil {
		return nil, fmt.Errorf("tmdb: genres: %w", err)
	}

	var all []models.Movie
	for page := 1; page <= s.Pages; page++ {
		var pg tmdbPage
		if err := s.getJSON(ctx, "/movie/popular", url.Values{"page": {strconv.Itoa(page)}}, &pg); err != nil {
			return nil, fmt.Errorf("tmdb: popular page %d: %w", page, err)
		}
		if len(pg.Results) == 0 {
			break
		}

		for _, tm := range pg.Results {
			m := models.Movie{
				ID:          tm.ID,
				Title:       tm.Title,
				Year:        yearOf(tm.ReleaseDate),
				PosterPath:  tm.PosterPath,
				Overview:    tm.Overview,
				VoteAverage: tm.VoteAverage,
				Popularity:  tm.Popularity,
				Runtime:     tm.Runtime,
			}
			for _, gid := range tm.GenreIDs {
				if name := genres[gid]; name != "" {
					m.Genres = append(m.Genres, name)
				}
			}

			// Director comes from a per-movie credits call; skip the
			// movie's director rather than the movie when it fails.
			if director, err := s.fetchDirector(ctx, tm.ID); err != nil {
				log.Printf("[sync] credits for %d: %v", tm.ID, err)
			} else {
				m.Director = director
			}

			all = append(all, m)
		}

		if pg.TotalPages > 0 && page >= pg.TotalPages {
			break
		}
	}
	return all, nil
}

func (s *TMDBSource) fetchGenres(ctx context.Context) (map[int]string, error) {
	var list tmdbGenreList
	if err := s.getJSON(ctx, "/genre/movie/list", nil, &list); err != nil {
		return nil, err
	}
	out := make(map[int]string, len(list.Genres))
	for _, g := range list.Genres {
		out[g.ID] = g.Name
	}
	return out, nil
}

func (s *TMDBSource) fetchDirector(ctx context.Context, id int64) (string, error) {
	var credits tmdbCredits
	if err := s.getJSON(ctx, fmt.Sprintf("/movie/%d/credits", id), nil, &credits); err != nil {
		return "", err
	}
	for _, c := range credits.Crew {
		if c.Job == "Director" {
			return c.Name, nil
		}
	}
	return "", nil
}

func (s *TMDBSource) getJSON(ctx context.Context, path string, q url.Values, out any) error {
	u, err := url.Parse(s.BaseURL + path)
	if err != nil {
		return fmt.Errorf("parse url: %w", err)
	}
	if q == nil {
		q = url.Values{}
	}
	q.Set("api_key", s.APIKey)
	u.RawQuery = q.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}

	resp, err := s.Client.Do(req)
	if err != nil {
		return fmt.Errorf("request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read body: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("status %d: %s", resp.StatusCode, string(body))
	}

	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("decode: %w", err)
	}
	return nil
}

func yearOf(releaseDate string) int {
	if len(releaseDate) < 4 {
		return 0
	}
	y, err := strconv.Atoi(releaseDate[:4])
	if err != nil {
		return 0
	}
	return y
}
