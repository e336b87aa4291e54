package creature

import (
	"math"
	"math/rand"

	"github.com/go-gl/mathgl/mgl64"

	"biomorph/internal/util"
)

// CellSides is the number of boundary vertices of every cell
const CellSides = 8

// Share of the depth variation given to the per-cell and per-vertex relief.
// Together they never exceed the full variation.
const (
	coarseShare = 0.7
	fineShare   = 0.3
)

var goldenRatio = (1 + math.Sqrt(5)) / 2

// Cell is one polygon of the tessellated surface
type Cell struct {
	Center   mgl64.Vec3            // Unit direction from the sphere origin
	Boundary [CellSides]mgl64.Vec3 // Unit directions, counter-clockwise seen from outside
	Depth    float64               // Coarse radial relief of the whole cell
	Fine     [CellSides]float64    // Extra radial relief per boundary vertex
}

// Edges returns the cyclic boundary edges as index pairs into Boundary
func (c *Cell) Edges() [CellSides][2]int {
	var edges [CellSides][2]int
	for k := 0; k < CellSides; k++ {
		edges[k] = [2]int{k, (k + 1) % CellSides}
	}
	return edges
}

// Surface is a generated cell surface: the renderable mesh plus the cells
// it was built from. Cell i owns vertices [i*(CellSides+1), (i+1)*(CellSides+1)),
// the center first.
type Surface struct {
	Mesh
	Cells          []Cell
	Radius         float64
	DepthVariation float64
}

// Tessellator partitions a sphere into organic cell polygons.
//
// Cells are placed independently around Fibonacci-lattice centers and do not
// share boundary vertices, so neighbours may gap or overlap slightly. The
// surface is not watertight.
type Tessellator struct {
	Seed       int64   // Seeds the relief jitter
	CellSpread float64 // Angular offset of boundary vertices; 0 picks one from the cell count
}

// Generate builds a surface of cellCount cells around a sphere of baseRadius.
// Every vertex radius stays within [baseRadius-depthVariation, baseRadius+depthVariation].
// Invalid sizes produce an empty surface.
func (t Tessellator) Generate(baseRadius float64, cellCount int, depthVariation float64) *Surface {
	surface := &Surface{Radius: baseRadius}
	if cellCount <= 0 || !util.IsFinite(baseRadius) || baseRadius <= 0 {
		return surface
	}

	dv := math.Abs(depthVariation)
	if !util.IsFinite(dv) {
		dv = 0
	}
	if dv > baseRadius {
		dv = baseRadius
	}
	surface.DepthVariation = dv

	spread := t.CellSpread
	if spread <= 0 || !util.IsFinite(spread) {
		spread = 0.5 * math.Sqrt(4*math.Pi/float64(cellCount))
	}

	rng := rand.New(rand.NewSource(t.Seed))
	jitter := func(limit float64) float64 {
		return (rng.Float64()*2 - 1) * limit
	}

	vertsPerCell := CellSides + 1
	surface.Cells = make([]Cell, cellCount)
	surface.Positions = make([]float32, 0, cellCount*vertsPerCell*3)
	surface.Normals = make([]float32, 0, cellCount*vertsPerCell*3)
	surface.UVs = make([]float32, 0, cellCount*vertsPerCell*2)
	surface.Indices = make([]uint32, 0, cellCount*CellSides*3)

	for i := 0; i < cellCount; i++ {
		center := fibonacciPoint(i, cellCount)
		cell := Cell{
			Center: center,
			Depth:  jitter(coarseShare * dv),
		}

		u, v := tangents(center)
		for k := 0; k < CellSides; k++ {
			theta := float64(k) * 2 * math.Pi / CellSides
			offset := u.Mul(math.Cos(theta)).Add(v.Mul(math.Sin(theta))).Mul(spread)
			cell.Boundary[k] = normalize(center.Add(offset))
			cell.Fine[k] = jitter(fineShare * dv)
		}
		surface.Cells[i] = cell

		base := uint32(i * vertsPerCell)
		surface.appendVertex(center, baseRadius+cell.Depth)
		for k := 0; k < CellSides; k++ {
			surface.appendVertex(cell.Boundary[k], baseRadius+cell.Depth+cell.Fine[k])
		}

		// Triangle fan from the center, closed cyclically
		for k := 0; k < CellSides; k++ {
			next := (k + 1) % CellSides
			surface.Indices = append(surface.Indices, base, base+1+uint32(k), base+1+uint32(next))
		}
	}

	return surface
}

// ApplyRelief sets the coarse depth of one cell after generation and rewrites
// its vertex positions. Topology is untouched. The depth is clamped so the
// radius bound of Generate still holds.
func (s *Surface) ApplyRelief(cell int, depth float64) {
	if cell < 0 || cell >= len(s.Cells) || !util.IsFinite(depth) {
		return
	}

	limit := coarseShare * s.DepthVariation
	c := &s.Cells[cell]
	c.Depth = util.Clamp(depth, -limit, limit)

	base := cell * (CellSides + 1)
	s.setPosition(base, c.Center, s.Radius+c.Depth)
	for k := 0; k < CellSides; k++ {
		s.setPosition(base+1+k, c.Boundary[k], s.Radius+c.Depth+c.Fine[k])
	}
}

// appendVertex adds a vertex at dir*radius with a radial normal and a
// spherical UV
func (s *Surface) appendVertex(dir mgl64.Vec3, radius float64) {
	p := dir.Mul(radius)
	s.Positions = append(s.Positions, float32(p.X()), float32(p.Y()), float32(p.Z()))
	s.Normals = append(s.Normals, float32(dir.X()), float32(dir.Y()), float32(dir.Z()))

	u, v := sphericalUV(dir)
	s.UVs = append(s.UVs, float32(u), float32(v))
}

// setPosition overwrites the position of vertex i
func (s *Surface) setPosition(i int, dir mgl64.Vec3, radius float64) {
	p := dir.Mul(radius)
	s.Positions[i*3] = float32(p.X())
	s.Positions[i*3+1] = float32(p.Y())
	s.Positions[i*3+2] = float32(p.Z())
}

// Helper functions

// fibonacciPoint places point i of n on the unit sphere
func fibonacciPoint(i, n int) mgl64.Vec3 {
	inclination := math.Acos(util.Clamp(1-2*float64(i)/float64(n), -1, 1))
	azimuth := float64(i) * 2 * math.Pi * goldenRatio

	sinInc := math.Sin(inclination)
	return mgl64.Vec3{
		sinInc * math.Cos(azimuth),
		math.Cos(inclination),
		sinInc * math.Sin(azimuth),
	}
}

// tangents returns two unit vectors perpendicular to dir and to each other,
// oriented so that u × v = dir
func tangents(dir mgl64.Vec3) (mgl64.Vec3, mgl64.Vec3) {
	up := mgl64.Vec3{0, 1, 0}
	if math.Abs(dir.Y()) > 0.99 {
		up = mgl64.Vec3{1, 0, 0}
	}
	u := normalize(up.Cross(dir))
	v := dir.Cross(u)
	return u, v
}

// normalize returns v scaled to unit length; a zero vector stays zero
func normalize(v mgl64.Vec3) mgl64.Vec3 {
	length := v.Len()
	if length == 0 || !util.IsFinite(length) {
		return mgl64.Vec3{}
	}
	return v.Mul(1 / length)
}

// sphericalUV maps a unit direction to equirectangular texture coordinates
func sphericalUV(dir mgl64.Vec3) (float64, float64) {
	u := 0.5 + math.Atan2(dir.Z(), dir.X())/(2*math.Pi)
	v := 0.5 - math.Asin(util.Clamp(dir.Y(), -1, 1))/math.Pi
	return u, v
}
