package render

import (
	"fmt"
	"io"
	"math"

	"github.com/arl/gobj"
	"github.com/arl/gogeo/f32/d3"
	"github.com/arl/pcbroute/geom"
	"github.com/arl/pcbroute/pcb"
)

// LayerGap is the Z spacing used when extruding each copper layer into a
// preview coordinate for the debug OBJ exporter.
const LayerGap = 1.0

// LayerPoint returns the layer-stacked 3D preview coordinate of a 2D board
// position on the given layer, using github.com/arl/gogeo/f32/d3's Vec3 —
// the natural place a multi-layer board needs a third spatial dimension.
func LayerPoint(p geom.FloatVec2, layer int) d3.Vec3 {
	return d3.NewVec3XYZ(p.X, p.Y, float32(layer)*LayerGap)
}

// BoundingBox accumulates the axis-aligned bounding box of a solved board's
// geometry using github.com/arl/gobj's AABB type. gobj.AABB's own Extend is
// unexported, so this tracker grows the box manually via its exported
// Min/Max fields, following the same "seed at +/-Inf, widen on every point"
// pattern as gobj.NewAABB.
type BoundingBox struct {
	box gobj.AABB
}

// NewBoundingBox returns an empty (infinite) bounding box tracker.
func NewBoundingBox() *BoundingBox {
	return &BoundingBox{box: gobj.NewAABB()}
}

// Extend widens the box to include p.
func (b *BoundingBox) Extend(p d3.Vec3) {
	x, y, z := float64(p.X()), float64(p.Y()), float64(p.Z())
	b.box.MinX = math.Min(b.box.MinX, x)
	b.box.MaxX = math.Max(b.box.MaxX, x)
	b.box.MinY = math.Min(b.box.MinY, y)
	b.box.MaxY = math.Max(b.box.MaxY, y)
	b.box.MinZ = math.Min(b.box.MinZ, z)
	b.box.MaxZ = math.Max(b.box.MaxZ, z)
}

// Box returns the accumulated gobj.AABB.
func (b *BoundingBox) Box() gobj.AABB { return b.box }

// WriteOBJ writes every trace segment of a solved board as one flat quad
// (a rectangle of the segment's width) in a Wavefront OBJ mesh, one vertex
// per corner with z = layer * LayerGap, for offline 3D inspection. Vias and
// pads are not written. This is the
// OBJ *producer* side the teacher doesn't need (arl-go-detour only
// decodes meshes to route over); here it is the debug export of a routed
// result.
func WriteOBJ(w io.Writer, solution *pcb.Solution, bb *BoundingBox) error {
	vertexIndex := 1
	writeQuad := func(a, b, c, d d3.Vec3) error {
		for _, v := range []d3.Vec3{a, b, c, d} {
			bb.Extend(v)
			vert := gobj.NewVertex3D(float64(v.X()), float64(v.Y()), float64(v.Z()))
			if _, err := fmt.Fprintf(w, "v %f %f %f\n", vert.X(), vert.Y(), vert.Z()); err != nil {
				return err
			}
		}
		if _, err := fmt.Fprintf(w, "f %d %d %d %d\n", vertexIndex, vertexIndex+1, vertexIndex+2, vertexIndex+3); err != nil {
			return err
		}
		vertexIndex += 4
		return nil
	}

	for _, trace := range solution.DeterminedTraces {
		for _, seg := range trace.TracePath.Segments {
			half := seg.Width / 2
			dir := seg.End.ToFloat().Sub(seg.Start.ToFloat()).Normalize()
			perp := dir.Perp()
			a := seg.Start.ToFloat().Add(geom.FloatVec2{X: perp.X * half, Y: perp.Y * half})
			b := seg.End.ToFloat().Add(geom.FloatVec2{X: perp.X * half, Y: perp.Y * half})
			c := seg.End.ToFloat().Sub(geom.FloatVec2{X: perp.X * half, Y: perp.Y * half})
			d := seg.Start.ToFloat().Sub(geom.FloatVec2{X: perp.X * half, Y: perp.Y * half})
			if err := writeQuad(LayerPoint(a, seg.Layer), LayerPoint(b, seg.Layer), LayerPoint(c, seg.Layer), LayerPoint(d, seg.Layer)); err != nil {
				return err
			}
		}
	}
	return nil
}
