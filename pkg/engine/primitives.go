package engine

import (
	"github.com/go-gl/mathgl/mgl32"
	colorful "github.com/lucasb-eyer/go-colorful"
)

// Prop colors
var (
	treeColor = colorful.Color{R: 0.18, G: 0.32, B: 0.12}
	rockColor = colorful.Color{R: 0.42, G: 0.40, B: 0.38}
)

// boxMesh returns a box spanning [-0.5, 0.5] on X and Z and [0, 1] on Y so
// that props scale up from the ground. The top face is tinted lighter.
func boxMesh(col colorful.Color) (positions, normals, colors []float32, indices []uint32) {
	faces := []struct {
		normal mgl32.Vec3
		corner [4]mgl32.Vec3
	}{
		{mgl32.Vec3{0, 0, 1}, [4]mgl32.Vec3{{-0.5, 0, 0.5}, {0.5, 0, 0.5}, {0.5, 1, 0.5}, {-0.5, 1, 0.5}}},
		{mgl32.Vec3{0, 0, -1}, [4]mgl32.Vec3{{0.5, 0, -0.5}, {-0.5, 0, -0.5}, {-0.5, 1, -0.5}, {0.5, 1, -0.5}}},
		{mgl32.Vec3{1, 0, 0}, [4]mgl32.Vec3{{0.5, 0, 0.5}, {0.5, 0, -0.5}, {0.5, 1, -0.5}, {0.5, 1, 0.5}}},
		{mgl32.Vec3{-1, 0, 0}, [4]mgl32.Vec3{{-0.5, 0, -0.5}, {-0.5, 0, 0.5}, {-0.5, 1, 0.5}, {-0.5, 1, -0.5}}},
		{mgl32.Vec3{0, 1, 0}, [4]mgl32.Vec3{{-0.5, 1, 0.5}, {0.5, 1, 0.5}, {0.5, 1, -0.5}, {-0.5, 1, -0.5}}},
		{mgl32.Vec3{0, -1, 0}, [4]mgl32.Vec3{{-0.5, 0, -0.5}, {0.5, 0, -0.5}, {0.5, 0, 0.5}, {-0.5, 0, 0.5}}},
	}

	top := col.BlendLab(colorful.Color{R: 1, G: 1, B: 1}, 0.2).Clamped()
	for f, face := range faces {
		c := col
		if face.normal.Y() > 0 {
			c = top
		}
		for _, p := range face.corner {
			positions = append(positions, p.X(), p.Y(), p.Z())
			normals = append(normals, face.normal.X(), face.normal.Y(), face.normal.Z())
			colors = append(colors, float32(c.R), float32(c.G), float32(c.B))
		}
		base := uint32(f * 4)
		indices = append(indices, base, base+1, base+2, base, base+2, base+3)
	}
	return positions, normals, colors, indices
}

func newPropMesh(col colorful.Color) *gpuMesh {
	positions, normals, colors, indices := boxMesh(col)
	return newGPUMesh(positions, normals, colors, indices, false)
}

// planarShadow flattens geometry onto the plane y = ground along the light
// direction
func planarShadow(light mgl32.Vec3, ground float32) mgl32.Mat4 {
	if light.Y() > -1e-3 {
		light = mgl32.Vec3{light.X(), -1e-3, light.Z()}
	}
	sx := light.X() / light.Y()
	sz := light.Z() / light.Y()
	return mgl32.Mat4FromRows(
		mgl32.Vec4{1, -sx, 0, sx * ground},
		mgl32.Vec4{0, 0, 0, ground},
		mgl32.Vec4{0, -sz, 1, sz * ground},
		mgl32.Vec4{0, 0, 0, 1},
	)
}
