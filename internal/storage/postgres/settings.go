package postgres

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/jmoiron/sqlx"

	"playlist_syncer/internal/domain"
)

type SettingsStore struct {
	db *sqlx.DB
}

func NewSettingsStore(db *sqlx.DB) *SettingsStore {
	return &SettingsStore{db: db}
}

// EnsureDefaults creates the settings row from defaults unless it already
// exists. An existing row is never modified.
func (s *SettingsStore) EnsureDefaults(ctx context.Context, defaults *domain.Settings) error {
	query := `
		INSERT INTO settings (id, url, channels_save_path, movies_save_path, series_save_path)
		VALUES (1, $1, $2, $3, $4)
		ON CONFLICT (id) DO NOTHING`

	_, err := s.db.ExecContext(ctx, query,
		defaults.URL,
		defaults.ChannelsSavePath,
		defaults.MoviesSavePath,
		defaults.SeriesSavePath,
	)
	return err
}

func (s *SettingsStore) Get(ctx context.Context) (*domain.Settings, error) {
	var settings domain.Settings
	query := `
		SELECT url, last_fetched, channels_save_path, movies_save_path, series_save_path
		FROM settings
		WHERE id = 1`

	err := s.db.GetContext(ctx, &settings, query)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &settings, nil
}

// Update replaces the url and output paths. LastFetched is ignored.
func (s *SettingsStore) Update(ctx context.Context, settings *domain.Settings) error {
	query := `
		UPDATE settings SET
			url = $1,
			channels_save_path = $2,
			movies_save_path = $3,
			series_save_path = $4,
			updated_at = NOW()
		WHERE id = 1`

	res, err := s.db.ExecContext(ctx, query,
		settings.URL,
		settings.ChannelsSavePath,
		settings.MoviesSavePath,
		settings.SeriesSavePath,
	)
	if err != nil {
		return err
	}
	_, err = expectRows(res)
	return err
}

func (s *SettingsStore) MarkFetched(ctx context.Context, at time.Time) error {
	res, err := s.db.ExecContext(ctx,
		`UPDATE settings SET last_fetched = $1 WHERE id = 1`,
		at,
	)
	if err != nil {
		return err
	}
	_, err = expectRows(res)
	return err
}
