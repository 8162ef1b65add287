package selection

import (
	"context"
	"time"

	"github.com/example/gatherd/internal/db"
)

// Repo is the Postgres-backed Store.
type Repo struct{ db *db.DB }

func NewRepo(d *db.DB) *Repo { return &Repo{db: d} }

func (r *Repo) Create(ctx context.Context, sel DailySelection) error {
	err := r.db.Exec(ctx, `
INSERT INTO daily_selections(selection_date, places, gathering_time)
VALUES ($1,$2,$3)`,
		sel.Date, joinPlaces(sel.Places), sel.GatheringTime,
	)
	if db.IsUniqueViolation(err) {
		return ErrAlreadySelected
	}
	return err
}

func (r *Repo) GetByDate(ctx context.Context, day time.Time) (DailySelection, error) {
	var sel DailySelection
	var places string
	var finalPlace *string
	err := r.db.QueryRow(ctx, `
SELECT id, selection_date, places, gathering_time, final_place, created_at
FROM daily_selections
WHERE selection_date=$1`, day).
		Scan(&sel.ID, &sel.Date, &places, &sel.GatheringTime, &finalPlace, &sel.CreatedAt)
	if err != nil {
		if db.IsNotFound(err) {
			return DailySelection{}, ErrNoSelection
		}
		return DailySelection{}, db.WrapNotFound(err)
	}
	sel.Places = splitPlaces(places)
	if finalPlace != nil {
		sel.FinalPlace = *finalPlace
	}
	return sel, nil
}

// SetFinalPlace commits the final place for day inside a transaction. The
// column is write-once: an already-set value is never overwritten.
func (r *Repo) SetFinalPlace(ctx context.Context, day time.Time, place string) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	tag, err := tx.Exec(ctx, `
UPDATE daily_selections
SET final_place=$2
WHERE selection_date=$1 AND final_place IS NULL`, day, place)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		var exists bool
		if err := tx.QueryRow(ctx, `
SELECT EXISTS(SELECT 1 FROM daily_selections WHERE selection_date=$1)`, day).Scan(&exists); err != nil {
			return err
		}
		if !exists {
			return ErrNoSelection
		}
		return ErrFinalAlreadySet
	}
	return tx.Commit(ctx)
}
