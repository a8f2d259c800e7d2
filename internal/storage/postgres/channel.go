package postgres

import (
	"context"

	"github.com/jmoiron/sqlx"

	"playlist_syncer/internal/domain"
)

const channelColumns = `id, xui_id, tvg_id, tvg_name, tvg_logo, group_title, name, url`

type ChannelStore struct {
	db *sqlx.DB
}

func NewChannelStore(db *sqlx.DB) *ChannelStore {
	return &ChannelStore{db: db}
}

// Upsert inserts the channel or overwrites the stored row with the same id.
// It reports whether a new row was inserted.
func (s *ChannelStore) Upsert(ctx context.Context, ch *domain.Channel) (bool, error) {
	query := `
		INSERT INTO channels (` + channelColumns + `)
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
		ch.ID,
		ch.XuiID,
		ch.TvgID,
		ch.TvgName,
		ch.TvgLogo,
		ch.GroupTitle,
		ch.Name,
		ch.URL,
	).Scan(&inserted)
	if err != nil {
		return false, err
	}

	return inserted, nil
}

func (s *ChannelStore) Count(ctx context.Context) (int, error) {
	var n int
	err := s.db.GetContext(ctx, &n, `SELECT COUNT(*) FROM channels`)
	return n, err
}

// List returns channels ordered by name. A zero limit returns every row
// from offset on.
func (s *ChannelStore) List(ctx context.Context, offset, limit int) ([]domain.Channel, error) {
	query := `
		SELECT ` + channelColumns + `
		FROM channels
		ORDER BY name, id
		OFFSET $1 LIMIT NULLIF($2, 0)`

	channels := []domain.Channel{}
	if err := s.db.SelectContext(ctx, &channels, query, offset, limit); err != nil {
		return nil, err
	}
	return channels, nil
}
