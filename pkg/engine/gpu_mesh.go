package engine

import (
	"github.com/go-gl/gl/v4.1-core/gl"
)

// Vertex attribute slots shared by every mesh shader
const (
	attribPosition = 0
	attribNormal   = 1
	attribColor    = 2
)

// gpuMesh is an indexed triangle mesh living in GPU buffers. Positions,
// normals and colors are stored in separate buffers so the creature can
// re-upload positions alone every frame.
type gpuMesh struct {
	vao        uint32
	positions  uint32
	normals    uint32
	colors     uint32
	elements   uint32
	indexCount int32
	dynamic    bool
}

// newGPUMesh uploads a mesh. All attribute slices carry 3 floats per vertex.
func newGPUMesh(positions, normals, colors []float32, indices []uint32, dynamic bool) *gpuMesh {
	m := &gpuMesh{indexCount: int32(len(indices)), dynamic: dynamic}

	gl.GenVertexArrays(1, &m.vao)
	gl.BindVertexArray(m.vao)

	usage := uint32(gl.STATIC_DRAW)
	if dynamic {
		usage = gl.DYNAMIC_DRAW
	}
	m.positions = attribBuffer(attribPosition, positions, usage)
	m.normals = attribBuffer(attribNormal, normals, gl.STATIC_DRAW)
	m.colors = attribBuffer(attribColor, colors, gl.STATIC_DRAW)

	gl.GenBuffers(1, &m.elements)
	gl.BindBuffer(gl.ELEMENT_ARRAY_BUFFER, m.elements)
	if len(indices) > 0 {
		gl.BufferData(gl.ELEMENT_ARRAY_BUFFER, len(indices)*4, gl.Ptr(indices), gl.STATIC_DRAW)
	}

	gl.BindVertexArray(0)
	return m
}

func attribBuffer(slot uint32, data []float32, usage uint32) uint32 {
	var buf uint32
	gl.GenBuffers(1, &buf)
	gl.BindBuffer(gl.ARRAY_BUFFER, buf)
	if len(data) > 0 {
		gl.BufferData(gl.ARRAY_BUFFER, len(data)*4, gl.Ptr(data), usage)
	}
	gl.VertexAttribPointer(slot, 3, gl.FLOAT, false, 3*4, gl.PtrOffset(0))
	gl.EnableVertexAttribArray(slot)
	return buf
}

// updatePositions overwrites the position buffer in place
func (m *gpuMesh) updatePositions(positions []float32) {
	if !m.dynamic || len(positions) == 0 {
		return
	}
	gl.BindBuffer(gl.ARRAY_BUFFER, m.positions)
	gl.BufferSubData(gl.ARRAY_BUFFER, 0, len(positions)*4, gl.Ptr(positions))
}

func (m *gpuMesh) draw() {
	if m.indexCount == 0 {
		return
	}
	gl.BindVertexArray(m.vao)
	gl.DrawElements(gl.TRIANGLES, m.indexCount, gl.UNSIGNED_INT, nil)
	gl.BindVertexArray(0)
}

func (m *gpuMesh) delete() {
	buffers := []uint32{m.positions, m.normals, m.colors, m.elements}
	gl.DeleteBuffers(int32(len(buffers)), &buffers[0])
	gl.DeleteVertexArrays(1, &m.vao)
}
