// Ursa - Neighborhood Camera Threat Detection and Dispatch
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/ursa

package geo

import (
	"math"
	"sort"
	"sync"

	"github.com/tomtom215/ursa/internal/models"
)

// Hit is one result of a radius query.
type Hit[T any] struct {
	ID            string
	Value         T
	Location      models.Location
	DistanceMiles float64
}

type cellKey struct {
	x, y int
}

type gridEntry[T any] struct {
	id    string
	loc   models.Location
	value T
	cell  cellKey
	order int
}

// Grid is a spatial hash over lat/lng cells. Queries only visit the cells
// overlapping the search radius and then filter by exact haversine
// distance. Safe for concurrent use.
type Grid[T any] struct {
	mu       sync.RWMutex
	cellDeg  float64
	lngCells int
	cells    map[cellKey][]*gridEntry[T]
	entries  map[string]*gridEntry[T]
	inserted int
}

// NewGrid creates a grid whose cells are roughly cellMiles on a side.
// Non-positive sizes default to 5 miles.
func NewGrid[T any](cellMiles float64) *Grid[T] {
	if cellMiles <= 0 {
		cellMiles = 5
	}
	cellDeg := cellMiles / milesPerDegreeLat
	return &Grid[T]{
		cellDeg:  cellDeg,
		lngCells: int(math.Ceil(360 / cellDeg)),
		cells:    make(map[cellKey][]*gridEntry[T]),
		entries:  make(map[string]*gridEntry[T]),
	}
}

// key maps loc to its cell. Columns count from -180 so they wrap at the
// antimeridian; the last column is narrower when cellDeg does not divide 360.
func (g *Grid[T]) key(loc models.Location) cellKey {
	return cellKey{
		x: int(math.Floor((loc.Lng+180)/g.cellDeg)) % g.lngCells,
		y: int(math.Floor(loc.Lat / g.cellDeg)),
	}
}

// columns returns the column indexes within span of x, wrapping around the
// antimeridian and visiting each column at most once.
func (g *Grid[T]) columns(x, span int) []int {
	if 2*span+1 >= g.lngCells {
		cols := make([]int, g.lngCells)
		for i := range cols {
			cols[i] = i
		}
		return cols
	}
	cols := make([]int, 0, 2*span+1)
	for dx := -span; dx <= span; dx++ {
		cols = append(cols, ((x+dx)%g.lngCells+g.lngCells)%g.lngCells)
	}
	return cols
}

// Insert adds or replaces the entry for id. Invalid locations are
// rejected with ErrInvalidLocation.
func (g *Grid[T]) Insert(id string, loc models.Location, value T) error {
	if !loc.Valid() {
		return ErrInvalidLocation
	}

	g.mu.Lock()
	defer g.mu.Unlock()

	order := g.inserted
	if old, ok := g.entries[id]; ok {
		order = old.order
		g.removeLocked(old)
	} else {
		g.inserted++
	}

	e := &gridEntry[T]{id: id, loc: loc, value: value, cell: g.key(loc), order: order}
	g.cells[e.cell] = append(g.cells[e.cell], e)
	g.entries[id] = e
	return nil
}

// Remove deletes the entry for id and reports whether it existed.
func (g *Grid[T]) Remove(id string) bool {
	g.mu.Lock()
	defer g.mu.Unlock()

	e, ok := g.entries[id]
	if !ok {
		return false
	}
	g.removeLocked(e)
	delete(g.entries, id)
	return true
}

func (g *Grid[T]) removeLocked(e *gridEntry[T]) {
	bucket := g.cells[e.cell]
	for i, other := range bucket {
		if other.id == e.id {
			bucket[i] = bucket[len(bucket)-1]
			bucket = bucket[:len(bucket)-1]
			break
		}
	}
	if len(bucket) == 0 {
		delete(g.cells, e.cell)
		return
	}
	g.cells[e.cell] = bucket
}

// Len returns the number of entries.
func (g *Grid[T]) Len() int {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return len(g.entries)
}

// Within returns every entry at most radiusMiles from center, nearest
// first. Ties keep insertion order. An invalid center yields an empty
// slice and ErrInvalidLocation.
func (g *Grid[T]) Within(center models.Location, radiusMiles float64) ([]Hit[T], error) {
	if !center.Valid() {
		return []Hit[T]{}, ErrInvalidLocation
	}
	if radiusMiles < 0 {
		return []Hit[T]{}, nil
	}

	g.mu.RLock()
	defer g.mu.RUnlock()

	c := g.key(center)
	spanY := int(math.Ceil(radiusMiles/milesPerDegreeLat/g.cellDeg)) + 1
	spanX := g.lngCells
	if cosLat := math.Cos(center.Lat * math.Pi / 180); cosLat > 0.01 {
		spanX = int(math.Ceil(radiusMiles/(milesPerDegreeLat*cosLat)/g.cellDeg)) + 1
	}

	type ranked struct {
		hit   Hit[T]
		order int
	}
	var found []ranked

	// Fall back to a full scan when the cell window exceeds the population.
	if (2*spanX+1)*(2*spanY+1) > len(g.entries) {
		for _, e := range g.entries {
			if d := Distance(center, e.loc); d <= radiusMiles {
				found = append(found, ranked{Hit[T]{e.id, e.value, e.loc, d}, e.order})
			}
		}
	} else {
		for _, x := range g.columns(c.x, spanX) {
			for dy := -spanY; dy <= spanY; dy++ {
				for _, e := range g.cells[cellKey{x, c.y + dy}] {
					if d := Distance(center, e.loc); d <= radiusMiles {
						found = append(found, ranked{Hit[T]{e.id, e.value, e.loc, d}, e.order})
					}
				}
			}
		}
	}

	sort.Slice(found, func(i, j int) bool {
		if found[i].hit.DistanceMiles != found[j].hit.DistanceMiles {
			return found[i].hit.DistanceMiles < found[j].hit.DistanceMiles
		}
		return found[i].order < found[j].order
	})

	hits := make([]Hit[T], len(found))
	for i, r := range found {
		hits[i] = r.hit
	}
	return hits, nil
}
