package selection

import (
	"sync"
	"time"
)

// Cache is the process-local mirror of the current day's selection. It is
// never authoritative: empty at boot, populated lazily from the store, and
// re-derivable from the store at any time. Entries are stamped with their
// date so a value left over from a previous day reads as cold.
type Cache struct {
	mu            sync.Mutex
	day           time.Time
	places        []string
	gatheringTime time.Time
	finalPlace    string
}

func NewCache() *Cache {
	return &Cache{}
}

// snapshot is the tagged resolve result shared by the finalize job and the
// read path: either absent or a consistent (places, gatheringTime,
// finalPlace?) triple.
type snapshot struct {
	Places        []string
	GatheringTime time.Time
	FinalPlace    string
}

// Today returns the cached selection for day, if any.
func (c *Cache) Today(day time.Time) (snapshot, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if len(c.places) == 0 || !c.day.Equal(day) {
		return snapshot{}, false
	}
	return snapshot{
		Places:        append([]string(nil), c.places...),
		GatheringTime: c.gatheringTime,
		FinalPlace:    c.finalPlace,
	}, true
}

// FinalPlace returns the cached final place for day, if set.
func (c *Cache) FinalPlace(day time.Time) (string, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.finalPlace == "" || !c.day.Equal(day) {
		return "", false
	}
	return c.finalPlace, true
}

// SetChoices installs a fresh day's picks, clearing any previous final
// place.
func (c *Cache) SetChoices(day time.Time, places []string, gatheringTime time.Time) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.day = day
	c.places = append([]string(nil), places...)
	c.gatheringTime = gatheringTime
	c.finalPlace = ""
}

// Restore rebuilds the cache from a persisted selection, final place
// included.
func (c *Cache) Restore(day time.Time, places []string, gatheringTime time.Time, finalPlace string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.day = day
	c.places = append([]string(nil), places...)
	c.gatheringTime = gatheringTime
	c.finalPlace = finalPlace
}

// SetFinalPlace records the committed final place. Ignored if the cache
// holds a different day; the store remains the source of truth.
func (c *Cache) SetFinalPlace(day time.Time, place string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.day.Equal(day) {
		return
	}
	c.finalPlace = place
}
