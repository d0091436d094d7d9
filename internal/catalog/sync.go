package catalog

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"watchmatch/pkg/models"
)

// SaveToDatabase upserts catalog rows in a single transaction. Existing
// rows are refreshed in place so repeated syncs converge instead of
// duplicating.
func SaveToDatabase(ctx context.Context, db *sql.DB, movies []models.Movie) error {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO movies (id, title, year, poster_path, overview, vote_average, director, runtime, genres, popularity)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
		  title = excluded.title,
		  year = excluded.year,
		  poster_path = excluded.poster_path,
		  overview = excluded.overview,
		  vote_average = excluded.vote_average,
		  director = excluded.director,
		  runtime = excluded.runtime,
		  genres = excluded.genres,
		  popularity = excluded.popularity
	`)
	if err != nil {
		return fmt.Errorf("prepare stmt: %w", err)
	}
	defer stmt.Close()

	for _, m := range movies {
		genresJSON, err := json.Marshal(m.Genres)
		if err != nil {
			return fmt.Errorf("marshal genres for %d: %w", m.ID, err)
		}

		if _, err := stmt.ExecContext(
			ctx,
			m.ID,
			m.Title,
			m.Year,
			m.PosterPath,
			m.Overview,
			m.VoteAverage,
			m.Director,
			m.Runtime,
			string(genresJSON),
			m.Popularity,
		); err != nil {
			return fmt.Errorf("exec upsert for %d: %w", m.ID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit tx: %w", err)
	}
	return nil
}
