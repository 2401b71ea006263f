// README: Tariff store backed by PostgreSQL; config tariff is the fallback.
package pricing

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Store reads per-category tariffs tuned by operations without a redeploy.
type Store struct {
	db *pgxpool.Pool
}

func NewStore(db *pgxpool.Pool) *Store {
	return &Store{db: db}
}

// GetTariff returns the tariff row for a vehicle category. found is false when
// the category has no override; the caller falls back to the config tariff.
func (s *Store) GetTariff(ctx context.Context, category string) (Tariff, bool, error) {
	var t Tariff
	row := s.db.QueryRow(ctx,
		`SELECT category, base_fare, per_km, per_min FROM tariffs WHERE category = $1`,
		category)
	if err := row.Scan(&t.Category, &t.BaseFare, &t.PerKm, &t.PerMin); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Tariff{}, false, nil
		}
		return Tariff{}, false, fmt.Errorf("query tariff %q: %w", category, err)
	}
	return t, true, nil
}
