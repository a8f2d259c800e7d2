package postgres

import (
	"context"

	"github.com/jmoiron/sqlx"

	"playlist_syncer/internal/domain"
)

type FilterStore struct {
	db *sqlx.DB
}

func NewFilterStore(db *sqlx.DB) *FilterStore {
	return &FilterStore{db: db}
}

func (s *FilterStore) List(ctx context.Context) ([]domain.Filter, error) {
	filters := []domain.Filter{}
	err := s.db.SelectContext(ctx, &filters,
		`SELECT filter_id, filter_text, filter_type FROM filters ORDER BY filter_id`,
	)
	if err != nil {
		return nil, err
	}
	return filters, nil
}

func (s *FilterStore) Insert(ctx context.Context, text string, filterType domain.FilterType) (int64, error) {
	var id int64
	err := s.db.QueryRowContext(ctx,
		`INSERT INTO filters (filter_text, filter_type) VALUES ($1, $2) RETURNING filter_id`,
		text, string(filterType),
	).Scan(&id)
	if err != nil {
		return 0, err
	}
	return id, nil
}

func (s *FilterStore) Remove(ctx context.Context, id int64) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM filters WHERE filter_id = $1`, id)
	if err != nil {
		return err
	}
	_, err = expectRows(res)
	return err
}
