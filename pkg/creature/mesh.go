// Package creature builds and animates the organic creature mesh: a cell
// tessellated sphere whose vertices are pushed in and out by layered noise.
package creature

// Mesh is an indexed triangle mesh in flat buffers ready for upload.
// Positions and Normals carry 3 floats per vertex, UVs 2, Indices 3 per triangle.
type Mesh struct {
	Positions []float32
	Normals   []float32
	UVs       []float32
	Indices   []uint32
}

// VertexCount returns the number of vertices
func (m *Mesh) VertexCount() int {
	return len(m.Positions) / 3
}

// TriangleCount returns the number of triangles
func (m *Mesh) TriangleCount() int {
	return len(m.Indices) / 3
}

// IsEmpty reports whether the mesh has no geometry
func (m *Mesh) IsEmpty() bool {
	return len(m.Positions) == 0
}
