package selection

import (
	"errors"
	"strings"
	"time"
)

// finalizeWindow is how close to the gathering time the final place may be
// committed. The window has no lower bound: a day whose gathering time has
// already passed without a finalize still finalizes on the next tick.
const finalizeWindow = 2 * time.Hour

var (
	// ErrAlreadySelected means a DailySelection already exists for the
	// date. The daily job treats this as a benign outcome.
	ErrAlreadySelected = errors.New("selection already exists for date")

	// ErrNoSelection means no DailySelection exists for the date.
	ErrNoSelection = errors.New("no selection for date")

	// ErrFinalAlreadySet means the persisted final place was already
	// committed; the field is write-once.
	ErrFinalAlreadySet = errors.New("final place already set")

	// ErrEmptyCatalog means the place or hour catalog has no entries.
	ErrEmptyCatalog = errors.New("no places or available hours found")
)

// DailySelection is the one-per-date record of chosen places, gathering
// time, and the final place once committed.
type DailySelection struct {
	ID            int64
	Date          time.Time // date component only, local midnight
	Places        []string
	GatheringTime time.Time
	FinalPlace    string // empty until committed
	CreatedAt     time.Time
}

// Choices is the read-path view of today's selection.
type Choices struct {
	Places        []string
	GatheringTime time.Time
	FinalPlace    string // empty until known
}

// joinPlaces serializes a place list into the stored comma-delimited form.
func joinPlaces(places []string) string {
	var cleaned []string
	for _, p := range places {
		p = strings.TrimSpace(p)
		if p == "" {
			continue
		}
		cleaned = append(cleaned, p)
	}
	return strings.Join(cleaned, ",")
}

// splitPlaces parses the stored comma-delimited place list.
func splitPlaces(s string) []string {
	parts := strings.Split(s, ",")
	var out []string
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p == "" {
			continue
		}
		out = append(out, p)
	}
	return out
}

// DayOf truncates t to its date, keeping the location.
func DayOf(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

// CombineDayAndHour builds a gathering time from a date and an HH:MM
// time-of-day drawn from the hour catalog.
func CombineDayAndHour(day time.Time, hour string) (time.Time, error) {
	tod, err := time.Parse("15:04", hour)
	if err != nil {
		return time.Time{}, err
	}
	return time.Date(day.Year(), day.Month(), day.Day(), tod.Hour(), tod.Minute(), 0, 0, day.Location()), nil
}
