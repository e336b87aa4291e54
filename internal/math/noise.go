package noise

import (
	"math"
	"math/rand"
)

// Skew and unskew factors for 3D simplex noise
const (
	skew3   = 1.0 / 3.0
	unskew3 = 1.0 / 6.0

	// kernelRadius is the squared radius of a corner's influence
	kernelRadius = 0.6

	// simplexScale normalizes the summed corner contributions to about [-1, 1]
	simplexScale = 32.0
)

// grad3 holds the 12 edge-midpoint gradients of a cube
var grad3 = [12][3]float64{
	{1, 1, 0}, {-1, 1, 0}, {1, -1, 0}, {-1, -1, 0},
	{1, 0, 1}, {-1, 0, 1}, {1, 0, -1}, {-1, 0, -1},
	{0, 1, 1}, {0, -1, 1}, {0, 1, -1}, {0, -1, -1},
}

// Field3 is anything that can be sampled as a scalar field over 3D space
type Field3 interface {
	Eval3(x, y, z float64) float64
}

// Field2 is anything that can be sampled as a scalar field over a plane
type Field2 interface {
	Eval2(x, z float64) float64
}

// Simplex is a seeded 3D simplex noise field.
//
// The permutation table is built once in NewSimplex and never written again,
// so a Simplex may be shared between goroutines.
type Simplex struct {
	perm [512]uint8
}

// NewSimplex creates a simplex noise field with its own permutation table
func NewSimplex(seed int64) *Simplex {
	return &Simplex{perm: permutation(seed)}
}

// Eval3 samples the field at (x, y, z). The result lies in about [-1, 1].
func (s *Simplex) Eval3(x, y, z float64) float64 {
	if !finite(x) || !finite(y) || !finite(z) {
		return 0
	}

	// Skew the input space to find the simplex cell
	f := (x + y + z) * skew3
	i := math.Floor(x + f)
	j := math.Floor(y + f)
	k := math.Floor(z + f)

	// Unskew the cell origin back to (x, y, z) space
	g := (i + j + k) * unskew3
	x0 := x - (i - g)
	y0 := y - (j - g)
	z0 := z - (k - g)

	// Huge finite inputs overflow the skew
	if !finite(x0) || !finite(y0) || !finite(z0) {
		return 0
	}

	// Pick the tetrahedron from the ordering of the offsets
	var i1, j1, k1 int
	var i2, j2, k2 int
	if x0 >= y0 {
		switch {
		case y0 >= z0:
			i1, j1, k1, i2, j2, k2 = 1, 0, 0, 1, 1, 0
		case x0 >= z0:
			i1, j1, k1, i2, j2, k2 = 1, 0, 0, 1, 0, 1
		default:
			i1, j1, k1, i2, j2, k2 = 0, 0, 1, 1, 0, 1
		}
	} else {
		switch {
		case y0 < z0:
			i1, j1, k1, i2, j2, k2 = 0, 0, 1, 0, 1, 1
		case x0 < z0:
			i1, j1, k1, i2, j2, k2 = 0, 1, 0, 0, 1, 1
		default:
			i1, j1, k1, i2, j2, k2 = 0, 1, 0, 1, 1, 0
		}
	}

	// Offsets of the remaining three corners
	x1 := x0 - float64(i1) + unskew3
	y1 := y0 - float64(j1) + unskew3
	z1 := z0 - float64(k1) + unskew3
	x2 := x0 - float64(i2) + 2*unskew3
	y2 := y0 - float64(j2) + 2*unskew3
	z2 := z0 - float64(k2) + 2*unskew3
	x3 := x0 - 1 + 3*unskew3
	y3 := y0 - 1 + 3*unskew3
	z3 := z0 - 1 + 3*unskew3

	ii := int(i) & 255
	jj := int(j) & 255
	kk := int(k) & 255

	n0 := s.corner(ii, jj, kk, x0, y0, z0)
	n1 := s.corner(ii+i1, jj+j1, kk+k1, x1, y1, z1)
	n2 := s.corner(ii+i2, jj+j2, kk+k2, x2, y2, z2)
	n3 := s.corner(ii+1, jj+1, kk+1, x3, y3, z3)

	return simplexScale * (n0 + n1 + n2 + n3)
}

// corner computes one corner's kernel contribution. Lattice indices are at
// most 256, so the doubled table never wraps.
func (s *Simplex) corner(i, j, k int, x, y, z float64) float64 {
	t := kernelRadius - x*x - y*y - z*z
	if t < 0 {
		return 0
	}
	gi := int(s.perm[i+int(s.perm[j+int(s.perm[k])])]) % len(grad3)
	g := grad3[gi]
	t *= t
	return t * t * (g[0]*x + g[1]*y + g[2]*z)
}

// ValueNoise2D is lattice value noise over the XZ plane, used for terrain.
// It keeps a separate permutation from any Simplex field.
type ValueNoise2D struct {
	perm   [512]uint8
	values [256]float64
}

// NewValueNoise2D creates a value noise field from a seed
func NewValueNoise2D(seed int64) *ValueNoise2D {
	vn := &ValueNoise2D{perm: permutation(seed)}

	// Lattice values come from a stream independent of the shuffle
	rng := rand.New(rand.NewSource(seed ^ 0x5bd1e995))
	for i := range vn.values {
		vn.values[i] = rng.Float64()*2 - 1
	}

	return vn
}

// Eval2 samples the field at (x, z). The result lies in [-1, 1].
func (vn *ValueNoise2D) Eval2(x, z float64) float64 {
	if !finite(x) || !finite(z) {
		return 0
	}

	x0 := math.Floor(x)
	z0 := math.Floor(z)
	tx := fade(x - x0)
	tz := fade(z - z0)

	xi := int(x0) & 255
	zi := int(z0) & 255

	v00 := vn.lattice(xi, zi)
	v10 := vn.lattice(xi+1, zi)
	v01 := vn.lattice(xi, zi+1)
	v11 := vn.lattice(xi+1, zi+1)

	return lerp(lerp(v00, v10, tx), lerp(v01, v11, tx), tz)
}

// lattice hashes a grid corner into the value table
func (vn *ValueNoise2D) lattice(x, z int) float64 {
	return vn.values[vn.perm[x+int(vn.perm[z])]]
}

// Helper functions

// permutation builds a shuffled 0..255 table duplicated to 512 entries
func permutation(seed int64) [512]uint8 {
	var p [256]uint8
	for i := range p {
		p[i] = uint8(i)
	}

	rng := rand.New(rand.NewSource(seed))
	rng.Shuffle(len(p), func(i, j int) { p[i], p[j] = p[j], p[i] })

	var out [512]uint8
	for i := range out {
		out[i] = p[i&255]
	}
	return out
}

// fade is the quintic curve 6t^5 - 15t^4 + 10t^3
func fade(t float64) float64 {
	return t * t * t * (t*(t*6.0-15.0) + 10.0)
}

// lerp performs linear interpolation
func lerp(a, b, t float64) float64 {
	return a + t*(b-a)
}

// finite reports whether v is neither NaN nor infinite
func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
