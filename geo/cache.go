package geo

import (
	"sync"
	"time"

	"github.com/mmcloughlin/geohash"

	"mealdeal/models"
)

// CellPrecision is the geohash length used to bucket nearby lookups (~4.9km cells).
const CellPrecision = 5

type cachedCoordinate struct {
	coord    models.Coordinate
	storedAt time.Time
}

// LocationCache holds the last resolved coordinate per session. The caller
// owns expiry: Get is told the current time and the TTL to apply.
type LocationCache struct {
	mu        sync.RWMutex
	entries   map[string]cachedCoordinate
	lastSweep time.Time
}

func NewLocationCache() *LocationCache {
	return &LocationCache{entries: make(map[string]cachedCoordinate)}
}

// Put records the coordinate for a session key. At most once per ttl it also
// drops every entry older than ttl, so sessions that never read back are freed.
func (c *LocationCache) Put(key string, coord models.Coordinate, at time.Time, ttl time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if ttl > 0 && at.Sub(c.lastSweep) >= ttl {
		for k, entry := range c.entries {
			if at.Sub(entry.storedAt) >= ttl {
				delete(c.entries, k)
			}
		}
		c.lastSweep = at
	}
	c.entries[key] = cachedCoordinate{coord: coord, storedAt: at}
}

// Len reports the number of stored entries, expired or not.
func (c *LocationCache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}

// Get returns the coordinate stored for key if it is younger than ttl.
// Stale entries are evicted.
func (c *LocationCache) Get(key string, now time.Time, ttl time.Duration) (models.Coordinate, bool) {
	c.mu.RLock()
	entry, ok := c.entries[key]
	c.mu.RUnlock()
	if !ok {
		return models.Coordinate{}, false
	}
	if ttl > 0 && now.Sub(entry.storedAt) >= ttl {
		c.mu.Lock()
		if cur, ok := c.entries[key]; ok && cur.storedAt.Equal(entry.storedAt) {
			delete(c.entries, key)
		}
		c.mu.Unlock()
		return models.Coordinate{}, false
	}
	return entry.coord, true
}

// Cell returns the geohash cell containing the coordinate.
func Cell(coord models.Coordinate) string {
	return geohash.EncodeWithPrecision(coord.Latitude, coord.Longitude, CellPrecision)
}

// Encode returns the full precision geohash of the coordinate.
func Encode(coord models.Coordinate) string {
	return geohash.Encode(coord.Latitude, coord.Longitude)
}

// AreaCache memoises nearest-area answers per geohash cell.
type AreaCache struct {
	mu    sync.RWMutex
	areas map[string]string
}

func NewAreaCache() *AreaCache {
	return &AreaCache{areas: make(map[string]string)}
}

func (c *AreaCache) Lookup(coord models.Coordinate) (string, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	area, ok := c.areas[Cell(coord)]
	return area, ok
}

func (c *AreaCache) Store(coord models.Coordinate, area string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.areas[Cell(coord)] = area
}

// Reset drops all memoised areas, e.g. after new restaurants were geocoded.
func (c *AreaCache) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.areas = make(map[string]string)
}
