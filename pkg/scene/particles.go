package scene

import (
	"math"
	"math/rand"

	"github.com/go-gl/mathgl/mgl64"
)

// Spore lifetime range in seconds
const (
	sporeMinLife = 2.0
	sporeMaxLife = 6.0
)

// Particles are spores drifting up and away from the creature. Positions are
// in world space, 3 floats per spore.
type Particles struct {
	Positions []float32

	velocity []mgl64.Vec3
	life     []float64
	radius   float64
	rng      *rand.Rand
}

// NewParticles creates count spores around a creature of the given radius.
// They are placed on the first Update.
func NewParticles(count int, radius float64, seed int64) *Particles {
	if count < 0 {
		count = 0
	}
	return &Particles{
		Positions: make([]float32, count*3),
		velocity:  make([]mgl64.Vec3, count),
		life:      make([]float64, count),
		radius:    radius,
		rng:       rand.New(rand.NewSource(seed)),
	}
}

// Count returns the number of spores
func (p *Particles) Count() int {
	return len(p.life)
}

// Update moves every spore by dt and respawns expired ones around origin
func (p *Particles) Update(dt float64, origin mgl64.Vec3) {
	if dt < 0 || math.IsNaN(dt) || math.IsInf(dt, 0) {
		dt = 0
	}

	for i := range p.life {
		p.life[i] -= dt
		if p.life[i] <= 0 {
			p.spawn(i, origin)
			continue
		}

		j := i * 3
		p.Positions[j] += float32(p.velocity[i].X() * dt)
		p.Positions[j+1] += float32(p.velocity[i].Y() * dt)
		p.Positions[j+2] += float32(p.velocity[i].Z() * dt)
	}
}

// spawn puts spore i in a shell just outside the creature's skin with an
// outward, mostly upward drift
func (p *Particles) spawn(i int, origin mgl64.Vec3) {
	z := 2*p.rng.Float64() - 1
	phi := p.rng.Float64() * 2 * math.Pi
	r := math.Sqrt(1 - z*z)
	dir := mgl64.Vec3{r * math.Cos(phi), z, r * math.Sin(phi)}

	pos := origin.Add(dir.Mul(p.radius * (1.1 + 0.6*p.rng.Float64())))
	j := i * 3
	p.Positions[j] = float32(pos.X())
	p.Positions[j+1] = float32(pos.Y())
	p.Positions[j+2] = float32(pos.Z())

	speed := 0.1 + 0.3*p.rng.Float64()
	p.velocity[i] = dir.Mul(speed * 0.5).Add(mgl64.Vec3{0, speed, 0})
	p.life[i] = sporeMinLife + (sporeMaxLife-sporeMinLife)*p.rng.Float64()
}
