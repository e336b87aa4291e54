package scene

import (
	"math"
	"math/rand"

	"github.com/go-gl/mathgl/mgl64"

	"biomorph/pkg/terrain"
)

// PropKind identifies a static decoration
type PropKind int

const (
	PropTree PropKind = iota
	PropRock
)

func (k PropKind) String() string {
	switch k {
	case PropTree:
		return "tree"
	case PropRock:
		return "rock"
	default:
		return "unknown"
	}
}

// Prop is a decoration standing on the terrain
type Prop struct {
	ID       int
	Kind     PropKind
	Position mgl64.Vec3
	Scale    mgl64.Vec3
	Yaw      float64
	Seed     int64
}

// placeProps makes count placement attempts at random spots of the patch.
// Trees grow on middle ground and rocks on anything above the lowlands;
// the lowest ground stays bare.
func placeProps(synth *terrain.Synthesizer, patch *terrain.Patch, count int, seed int64) []Prop {
	if patch.VertexCount() == 0 || count <= 0 {
		return nil
	}

	rng := rand.New(rand.NewSource(seed))
	props := make([]Prop, 0, count)

	for i := 0; i < count; i++ {
		x := (rng.Float64() - 0.5) * patch.Width
		z := (rng.Float64() - 0.5) * patch.Depth
		y := synth.HeightAt(x, z)
		blend := patch.BlendFactor(y)

		prop := Prop{
			ID:       len(props) + 1,
			Position: mgl64.Vec3{x, y, z},
			Yaw:      rng.Float64() * 2 * math.Pi,
			Seed:     seed + int64(i),
		}

		switch {
		case blend > 0.3 && blend < 0.7:
			height := 2.0 + rng.Float64()*3.0
			prop.Kind = PropTree
			prop.Scale = mgl64.Vec3{1, height, 1}
		case blend > 0.2:
			size := 0.5 + rng.Float64()*1.5
			prop.Kind = PropRock
			prop.Scale = mgl64.Vec3{size, size, size}
		default:
			continue
		}

		props = append(props, prop)
	}

	return props
}
