package catalog

import (
	"context"
	"fmt"
	"time"

	"github.com/example/gatherd/internal/db"
)

// Repo reads and seeds the static catalogs of candidate places and
// gathering hours. The selection engine only ever reads them.
type Repo struct{ db *db.DB }

func NewRepo(d *db.DB) *Repo { return &Repo{db: d} }

func (r *Repo) Places(ctx context.Context) ([]string, error) {
	return r.names(ctx, `SELECT name FROM places ORDER BY id`)
}

func (r *Repo) Hours(ctx context.Context) ([]string, error) {
	return r.names(ctx, `SELECT time_of_day FROM available_hours ORDER BY id`)
}

func (r *Repo) names(ctx context.Context, sql string) ([]string, error) {
	rows, err := r.db.Query(ctx, sql)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, err
		}
		out = append(out, name)
	}
	return out, rows.Err()
}

// SeedPlaces inserts the given places if the table is empty. Re-running is
// a no-op.
func (r *Repo) SeedPlaces(ctx context.Context, names []string) error {
	empty, err := r.isEmpty(ctx, "places")
	if err != nil || !empty {
		return err
	}
	for _, name := range names {
		if err := r.db.Exec(ctx, `INSERT INTO places(name) VALUES ($1) ON CONFLICT (name) DO NOTHING`, name); err != nil {
			return fmt.Errorf("seed place %q: %w", name, err)
		}
	}
	return nil
}

// SeedHours inserts the given HH:MM hours if the table is empty.
func (r *Repo) SeedHours(ctx context.Context, hours []string) error {
	for _, h := range hours {
		if err := ValidateHour(h); err != nil {
			return err
		}
	}
	empty, err := r.isEmpty(ctx, "available_hours")
	if err != nil || !empty {
		return err
	}
	for _, h := range hours {
		if err := r.db.Exec(ctx, `INSERT INTO available_hours(time_of_day) VALUES ($1) ON CONFLICT (time_of_day) DO NOTHING`, h); err != nil {
			return fmt.Errorf("seed hour %q: %w", h, err)
		}
	}
	return nil
}

func (r *Repo) isEmpty(ctx context.Context, table string) (bool, error) {
	var n int64
	if err := r.db.QueryRow(ctx, `SELECT count(*) FROM `+table).Scan(&n); err != nil {
		return false, err
	}
	return n == 0, nil
}

// ValidateHour checks the HH:MM time-of-day format used by the hour
// catalog.
func ValidateHour(s string) error {
	if _, err := time.Parse("15:04", s); err != nil {
		return fmt.Errorf("invalid hour %q (want HH:MM): %w", s, err)
	}
	return nil
}
