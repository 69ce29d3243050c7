// Package spatial implements a uniform grid-bucket spatial index over agent
// positions, rebuilt fresh for each query rather than persisted across ticks
// (§4.3: "Implementation may be k-d tree, uniform spatial hash, or grid bucket").
package spatial

import (
	"math"

	"github.com/pthm-cable/ecosimocean/store"
)

// Point is a position paired with the store index it came from.
type Point struct {
	Pos   store.Vec3
	Index int
}

// Grid buckets a set of points by cell for fast radius/nearest queries.
type Grid struct {
	cellSize float64
	cells    map[[3]int][]Point
	points   []Point
}

// Build constructs a grid over points with the given cell size. Larger cell sizes
// reduce bucket count at the cost of longer per-bucket scan lists; callers
// typically pick cellSize close to the largest radius they intend to query.
func Build(points []Point, cellSize float64) *Grid {
	if cellSize <= 0 {
		cellSize = 1
	}
	g := &Grid{cellSize: cellSize, cells: make(map[[3]int][]Point, len(points)), points: points}
	for _, p := range points {
		key := g.cellKey(p.Pos)
		g.cells[key] = append(g.cells[key], p)
	}
	return g
}

func (g *Grid) cellKey(pos store.Vec3) [3]int {
	return [3]int{
		int(math.Floor(pos.X / g.cellSize)),
		int(math.Floor(pos.Y / g.cellSize)),
		int(math.Floor(pos.Z / g.cellSize)),
	}
}

// RadiusQuery returns every indexed point within Euclidean distance r of center.
func (g *Grid) RadiusQuery(center store.Vec3, r float64) []Point {
	if len(g.points) == 0 {
		return nil
	}
	reach := int(math.Ceil(r/g.cellSize)) + 1
	base := g.cellKey(center)
	rSq := r * r

	var out []Point
	for dz := -reach; dz <= reach; dz++ {
		for dy := -reach; dy <= reach; dy++ {
			for dx := -reach; dx <= reach; dx++ {
				key := [3]int{base[0] + dx, base[1] + dy, base[2] + dz}
				for _, p := range g.cells[key] {
					if distSq(center, p.Pos) <= rSq {
						out = append(out, p)
					}
				}
			}
		}
	}
	return out
}

// NearestResult holds the outcome of a single nearest-neighbor query.
type NearestResult struct {
	Distance float64
	Index    int
	Found    bool
}

// NearestQuery finds, for every query point, the nearest indexed point (§4.3:
// "nearest_query(points) → (distances, indices) for all points in one vectorized
// call"). searchRadius bounds how far out the expanding ring search looks before
// giving up; callers that need an unbounded search should pass a radius covering
// the full lattice diagonal.
func (g *Grid) NearestQuery(queries []store.Vec3, searchRadius float64) []NearestResult {
	results := make([]NearestResult, len(queries))
	for i, q := range queries {
		results[i] = g.nearestTo(q, searchRadius)
	}
	return results
}

func (g *Grid) nearestTo(q store.Vec3, searchRadius float64) NearestResult {
	best := NearestResult{Distance: math.Inf(1)}
	maxRing := int(math.Ceil(searchRadius/g.cellSize)) + 1
	base := g.cellKey(q)

	for ring := 0; ring <= maxRing; ring++ {
		for dz := -ring; dz <= ring; dz++ {
			for dy := -ring; dy <= ring; dy++ {
				for dx := -ring; dx <= ring; dx++ {
					if maxAbs3(dx, dy, dz) != ring {
						continue // only visit the shell of this ring, interior already scanned
					}
					key := [3]int{base[0] + dx, base[1] + dy, base[2] + dz}
					for _, p := range g.cells[key] {
						d := math.Sqrt(distSq(q, p.Pos))
						if d < best.Distance {
							best = NearestResult{Distance: d, Index: p.Index, Found: true}
						}
					}
				}
			}
		}
		// Once we have a candidate and have scanned one extra ring beyond it
		// (guaranteeing no closer point hides in an unscanned corner), stop.
		if best.Found && float64(ring)*g.cellSize >= best.Distance {
			break
		}
	}
	return best
}

func maxAbs3(a, b, c int) int {
	m := absInt(a)
	if v := absInt(b); v > m {
		m = v
	}
	if v := absInt(c); v > m {
		m = v
	}
	return m
}

func absInt(v int) int {
	if v < 0 {
		return -v
	}
	return v
}

func distSq(a, b store.Vec3) float64 {
	dx, dy, dz := a.X-b.X, a.Y-b.Y, a.Z-b.Z
	return dx*dx + dy*dy + dz*dz
}
