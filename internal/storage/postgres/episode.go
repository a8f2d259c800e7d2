package postgres

import (
	"context"

	"github.com/jmoiron/sqlx"

	"playlist_syncer/internal/domain"
)

const episodeColumns = `id, xui_id, tvg_id, tvg_name, tvg_logo, group_title, name, url, season, episode, fetched`

type EpisodeStore struct {
	db *sqlx.DB
}

func NewEpisodeStore(db *sqlx.DB) *EpisodeStore {
	return &EpisodeStore{db: db}
}

// Upsert behaves like MovieStore.Upsert; fetched survives updates.
func (s *EpisodeStore) Upsert(ctx context.Context, e *domain.Episode) (bool, error) {
	query := `
		INSERT INTO episodes (id, xui_id, tvg_id, tvg_name, tvg_logo, group_title, name, url, season, episode)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		ON CONFLICT (id) DO UPDATE SET
			xui_id = EXCLUDED.xui_id,
			tvg_id = EXCLUDED.tvg_id,
			tvg_name = EXCLUDED.tvg_name,
			tvg_logo = EXCLUDED.tvg_logo,
			group_title = EXCLUDED.group_title,
			name = EXCLUDED.name,
			url = EXCLUDED.url,
			season = EXCLUDED.season,
			episode = EXCLUDED.episode,
			updated_at = NOW()
		RETURNING (xmax = 0) AS inserted`

	var inserted bool
	err := s.db.QueryRowContext(ctx, query,
		e.ID,
		e.XuiID,
		e.TvgID,
		e.TvgName,
		e.TvgLogo,
		e.GroupTitle,
		e.Name,
		e.URL,
		e.Season,
		e.Episode,
	).Scan(&inserted)
	if err != nil {
		return false, err
	}

	return inserted, nil
}

// showsQuery groups episodes by series name. A show counts as fetched when
// any of its episodes is.
const showsQuery = `
	SELECT
		group_title AS name,
		MAX(tvg_logo) AS tvg_logo,
		COUNT(*) AS episodes,
		COUNT(DISTINCT season) AS seasons,
		BOOL_OR(fetched) AS fetched
	FROM episodes
	WHERE group_title ILIKE $1
	GROUP BY group_title
	HAVING (NOT $2 OR BOOL_OR(fetched))`

func (s *EpisodeStore) CountShows(ctx context.Context, q domain.ItemQuery) (int, error) {
	var n int
	err := s.db.GetContext(ctx, &n,
		`SELECT COUNT(*) FROM (`+showsQuery+`) shows`,
		containsPattern(q.Search), q.FetchedOnly,
	)
	return n, err
}

func (s *EpisodeStore) SearchShows(ctx context.Context, q domain.ItemQuery) ([]domain.Show, error) {
	query := showsQuery + `
	ORDER BY group_title
	OFFSET $3 LIMIT NULLIF($4, 0)`

	shows := []domain.Show{}
	err := s.db.SelectContext(ctx, &shows, query,
		containsPattern(q.Search),
		q.FetchedOnly,
		q.Offset,
		q.Limit,
	)
	if err != nil {
		return nil, err
	}
	return shows, nil
}

// ListFetched returns every episode flagged for materialization.
func (s *EpisodeStore) ListFetched(ctx context.Context) ([]domain.Episode, error) {
	query := `
		SELECT ` + episodeColumns + `
		FROM episodes
		WHERE fetched
		ORDER BY group_title, season, episode, id`

	episodes := []domain.Episode{}
	if err := s.db.SelectContext(ctx, &episodes, query); err != nil {
		return nil, err
	}
	return episodes, nil
}

// SetShowFetched is a bulk update: it flags every episode whose series name
// equals groupTitle and returns how many rows changed.
func (s *EpisodeStore) SetShowFetched(ctx context.Context, groupTitle string, fetched bool) (int64, error) {
	res, err := s.db.ExecContext(ctx,
		`UPDATE episodes SET fetched = $2, updated_at = NOW() WHERE group_title = $1`,
		groupTitle, fetched,
	)
	if err != nil {
		return 0, err
	}
	return expectRows(res)
}
