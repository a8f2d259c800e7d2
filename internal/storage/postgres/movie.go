package postgres

import (
	"context"

	"github.com/jmoiron/sqlx"

	"playlist_syncer/internal/domain"
)

const movieColumns = `id, xui_id, tvg_id, tvg_name, tvg_logo, group_title, name, url, fetched`

type MovieStore struct {
	db *sqlx.DB
}

func NewMovieStore(db *sqlx.DB) *MovieStore {
	return &MovieStore{db: db}
}

// Upsert inserts the movie unfetched or refreshes the playlist fields of an
// existing row. The fetched flag of an existing row is left untouched.
func (s *MovieStore) Upsert(ctx context.Context, m *domain.Movie) (bool, error) {
	query := `
		INSERT INTO movies (id, xui_id, tvg_id, tvg_name, tvg_logo, group_title, name, url)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		ON CONFLICT (id) DO UPDATE SET
			xui_id = EXCLUDED.xui_id,
			tvg_id = EXCLUDED.tvg_id,
			tvg_name = EXCLUDED.tvg_name,
			tvg_logo = EXCLUDED.tvg_logo,
			group_title = EXCLUDED.group_title,
			name = EXCLUDED.name,
			url = EXCLUDED.url,
			updated_at = NOW()
		RETURNING (xmax = 0) AS inserted`

	var inserted bool
	err := s.db.QueryRowContext(ctx, query,
		m.ID,
		m.XuiID,
		m.TvgID,
		m.TvgName,
		m.TvgLogo,
		m.GroupTitle,
		m.Name,
		m.URL,
	).Scan(&inserted)
	if err != nil {
		return false, err
	}

	return inserted, nil
}

func (s *MovieStore) Count(ctx context.Context, q domain.ItemQuery) (int, error) {
	query := `
		SELECT COUNT(*)
		FROM movies
		WHERE name ILIKE $1 AND (NOT $2 OR fetched)`

	var n int
	err := s.db.GetContext(ctx, &n, query, containsPattern(q.Search), q.FetchedOnly)
	return n, err
}

func (s *MovieStore) Search(ctx context.Context, q domain.ItemQuery) ([]domain.Movie, error) {
	query := `
		SELECT ` + movieColumns + `
		FROM movies
		WHERE name ILIKE $1 AND (NOT $2 OR fetched)
		ORDER BY name, id
		OFFSET $3 LIMIT NULLIF($4, 0)`

	movies := []domain.Movie{}
	err := s.db.SelectContext(ctx, &movies, query,
		containsPattern(q.Search),
		q.FetchedOnly,
		q.Offset,
		q.Limit,
	)
	if err != nil {
		return nil, err
	}
	return movies, nil
}

// ListFetched returns every movie flagged for materialization.
func (s *MovieStore) ListFetched(ctx context.Context) ([]domain.Movie, error) {
	query := `
		SELECT ` + movieColumns + `
		FROM movies
		WHERE fetched
		ORDER BY name, id`

	movies := []domain.Movie{}
	if err := s.db.SelectContext(ctx, &movies, query); err != nil {
		return nil, err
	}
	return movies, nil
}

func (s *MovieStore) SetFetched(ctx context.Context, id string, fetched bool) error {
	res, err := s.db.ExecContext(ctx,
		`UPDATE movies SET fetched = $2, updated_at = NOW() WHERE id = $1`,
		id, fetched,
	)
	if err != nil {
		return err
	}
	_, err = expectRows(res)
	return err
}
