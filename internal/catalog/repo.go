// Package catalog reads the local movie catalog and resolves common-movie
// candidates against it. The catalog is populated by cmd/catalog-sync and
// is read-only from the matching side.
package catalog

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"watchmatch/pkg/models"
)

type Repo struct {
	DB *sql.DB
}

func NewRepo(db *sql.DB) *Repo {
	return &Repo{DB: db}
}

const movieColumns = `id, title, year, poster_path, overview, vote_average, director, runtime, genres, popularity`

// FindByStrippedTitle matches against catalog titles with their apostrophes
// removed. Some catalog imports store titles apostrophe-stripped, so this
// is the first cascade step. Year tolerance is ±1 to absorb regional
// release-date skew.
func (r *Repo) FindByStrippedTitle(ctx context.Context, stripped string, year int) (*models.Movie, error) {
	return r.queryOne(ctx, `
		SELECT `+movieColumns+`
		FROM movies
		WHERE LOWER(REPLACE(title, '''', '')) = LOWER(?)
		  AND year BETWEEN ? AND ?
		ORDER BY popularity DESC
		LIMIT 1
	`, stripped, year-1, year+1)
}

// FindByTitle is an exact case-insensitive title match with ±1 year
// tolerance.
func (r *Repo) FindByTitle(ctx context.Context, title string, year int) (*models.Movie, error) {
	return r.queryOne(ctx, `
		SELECT `+movieColumns+`
		FROM movies
		WHERE LOWER(title) = LOWER(?)
		  AND year BETWEEN ? AND ?
		ORDER BY popularity DESC
		LIMIT 1
	`, title, year-1, year+1)
}

// FindByTitleLike is the last-resort substring match, no year constraint.
func (r *Repo) FindByTitleLike(ctx context.Context, title string) (*models.Movie, error) {
	return r.queryOne(ctx, `
		SELECT `+movieColumns+`
		FROM movies
		WHERE LOWER(title) LIKE '%' || LOWER(?) || '%'
		ORDER BY popularity DESC
		LIMIT 1
	`, title)
}

func (r *Repo) queryOne(ctx context.Context, query string, args ...any) (*models.Movie, error) {
	row := r.DB.QueryRowContext(ctx, query, args...)

	var (
		m          models.Movie
		posterPath sql.NullString
		overview   sql.NullString
		director   sql.NullString
		genresJSON sql.NullString
	)

	if err := row.Scan(
		&m.ID, &m.Title, &m.Year, &posterPath, &overview,
		&m.VoteAverage, &director, &m.Runtime, &genresJSON, &m.Popularity,
	); err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("scan movie: %w", err)
	}

	m.PosterPath = posterPath.String
	m.Overview = overview.String
	m.Director = director.String
	if genresJSON.Valid {
		_ = json.Unmarshal([]byte(genresJSON.String), &m.Genres)
	}
	return &m, nil
}
