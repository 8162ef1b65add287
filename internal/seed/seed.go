package seed

import (
	"context"
	"errors"
	"fmt"

	"github.com/example/gatherd/internal/catalog"
	"github.com/example/gatherd/internal/selection"
)

// DefaultPlaces is the starter catalog of meeting spots.
var DefaultPlaces = []string{
	"Riverside Park Bandstand",
	"Central Library Steps",
	"Old Town Clock Tower",
	"Harbor Ferry Terminal",
	"Market Square Fountain",
	"Botanical Garden Gate",
	"Union Station Concourse",
	"Museum District Plaza",
	"Hilltop Observatory Lawn",
	"Canal Street Footbridge",
	"Grand Bazaar East Entrance",
}

// DefaultHours are the candidate gathering times, evenings on the half
// hour.
var DefaultHours = []string{
	"18:00", "18:30", "19:00", "19:30", "20:00", "20:30", "21:00",
}

// Run seeds the place and hour catalogs when they are empty. With
// withToday set it also creates today's selection, tolerating one that
// already exists.
func Run(ctx context.Context, repo *catalog.Repo, engine *selection.Engine, withToday bool) error {
	if err := repo.SeedPlaces(ctx, DefaultPlaces); err != nil {
		return fmt.Errorf("seed places: %w", err)
	}
	if err := repo.SeedHours(ctx, DefaultHours); err != nil {
		return fmt.Errorf("seed hours: %w", err)
	}
	if !withToday {
		return nil
	}
	if err := engine.StartNewDay(ctx); err != nil && !errors.Is(err, selection.ErrAlreadySelected) {
		return fmt.Errorf("create today's selection: %w", err)
	}
	return nil
}
