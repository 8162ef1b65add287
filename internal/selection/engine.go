package selection

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"time"
)

// Store is the durable record of daily selections. Create must reject a
// second row for the same date with ErrAlreadySelected; SetFinalPlace must
// reject overwrites with ErrFinalAlreadySet and a missing row with
// ErrNoSelection.
type Store interface {
	Create(ctx context.Context, sel DailySelection) error
	GetByDate(ctx context.Context, day time.Time) (DailySelection, error)
	SetFinalPlace(ctx context.Context, day time.Time, place string) error
}

// CatalogSource provides the candidate places and gathering hours.
type CatalogSource interface {
	Places(ctx context.Context) ([]string, error)
	Hours(ctx context.Context) ([]string, error)
}

// Engine owns the daily-selection state machine: pick a day's places and
// time once per date, commit a final place exactly once inside the
// finalization window, and keep the process cache consistent with the
// store. It reports failures to its callers and never logs; the scheduler
// driver decides what to do with job errors.
type Engine struct {
	store   Store
	catalog CatalogSource
	cache   *Cache

	now  func() time.Time
	rand *rand.Rand
}

func New(store Store, catalog CatalogSource) *Engine {
	return &Engine{
		store:   store,
		catalog: catalog,
		cache:   NewCache(),
		now:     time.Now,
		rand:    rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

// StartNewDay draws 3-5 distinct places and one gathering hour for the
// current date and commits them. A selection that already exists for the
// date surfaces as ErrAlreadySelected; the cache is only touched after the
// store commit succeeds.
func (e *Engine) StartNewDay(ctx context.Context) error {
	places, err := e.catalog.Places(ctx)
	if err != nil {
		return fmt.Errorf("load places: %w", err)
	}
	hours, err := e.catalog.Hours(ctx)
	if err != nil {
		return fmt.Errorf("load available hours: %w", err)
	}
	if len(places) == 0 || len(hours) == 0 {
		return ErrEmptyCatalog
	}

	n := 3 + e.rand.Intn(3)
	if len(places) < n {
		return fmt.Errorf("need %d candidate places, have %d", n, len(places))
	}
	picked := make([]string, 0, n)
	for _, i := range e.rand.Perm(len(places))[:n] {
		picked = append(picked, places[i])
	}

	day := DayOf(e.now())
	gatheringTime, err := CombineDayAndHour(day, hours[e.rand.Intn(len(hours))])
	if err != nil {
		return fmt.Errorf("invalid hour in catalog: %w", err)
	}

	sel := DailySelection{
		Date:          day,
		Places:        picked,
		GatheringTime: gatheringTime,
	}
	if err := e.store.Create(ctx, sel); err != nil {
		return err
	}
	e.cache.SetChoices(day, picked, gatheringTime)
	return nil
}

// MaybeFinalize commits today's final place when the gathering time is at
// most two hours away. It is a no-op once a final place is known, and
// returns ErrNoSelection when no selection exists for today.
func (e *Engine) MaybeFinalize(ctx context.Context) error {
	day := DayOf(e.now())
	if _, ok := e.cache.FinalPlace(day); ok {
		return nil
	}

	snap, ok, err := e.resolveToday(ctx)
	if err != nil {
		return err
	}
	if !ok {
		return ErrNoSelection
	}
	if snap.FinalPlace != "" {
		return nil
	}

	if snap.GatheringTime.Sub(e.now()) > finalizeWindow {
		return nil
	}

	place := snap.Places[e.rand.Intn(len(snap.Places))]
	if err := e.store.SetFinalPlace(ctx, day, place); err != nil {
		if errors.Is(err, ErrFinalAlreadySet) {
			// Lost the race; adopt whatever the store committed.
			sel, gerr := e.store.GetByDate(ctx, day)
			if gerr != nil {
				return gerr
			}
			e.cache.SetFinalPlace(day, sel.FinalPlace)
			return nil
		}
		return err
	}
	e.cache.SetFinalPlace(day, place)
	return nil
}

// Choices resolves today's selection for the read path. ok is false when no
// selection exists yet. Within the finalization window a cold cache gets
// one extra store read so a final place committed elsewhere is picked up.
func (e *Engine) Choices(ctx context.Context) (Choices, bool, error) {
	snap, ok, err := e.resolveToday(ctx)
	if err != nil || !ok {
		return Choices{}, false, err
	}

	out := Choices{Places: snap.Places, GatheringTime: snap.GatheringTime}
	if snap.FinalPlace != "" {
		out.FinalPlace = snap.FinalPlace
		return out, true, nil
	}

	now := e.now()
	if snap.GatheringTime.Sub(now) <= finalizeWindow {
		day := DayOf(now)
		// Store errors degrade to the unfinalized view; the cached
		// choices are still the best available answer.
		if sel, err := e.store.GetByDate(ctx, day); err == nil && sel.FinalPlace != "" {
			e.cache.SetFinalPlace(day, sel.FinalPlace)
			out.FinalPlace = sel.FinalPlace
		}
	}
	return out, true, nil
}

// resolveToday is the single cache-or-store branch shared by the finalize
// job and the read path: cache first, else the store, repopulating the
// cache on the way back.
func (e *Engine) resolveToday(ctx context.Context) (snapshot, bool, error) {
	day := DayOf(e.now())
	if snap, ok := e.cache.Today(day); ok {
		return snap, true, nil
	}

	sel, err := e.store.GetByDate(ctx, day)
	if errors.Is(err, ErrNoSelection) {
		return snapshot{}, false, nil
	}
	if err != nil {
		return snapshot{}, false, err
	}
	e.cache.Restore(day, sel.Places, sel.GatheringTime, sel.FinalPlace)
	return snapshot{
		Places:        sel.Places,
		GatheringTime: sel.GatheringTime,
		FinalPlace:    sel.FinalPlace,
	}, true, nil
}
