package pcb

import (
	"math"

	"github.com/arl/pcbroute/geom"
)

// TraceSegment is a straight run of copper on one layer between two
// anchors. Grounded on trace_path.rs's TraceSegment.
type TraceSegment struct {
	Start, End geom.FixedVec2
	Width      float32
	Clearance  float32
	Layer      int
}

// Direction returns the compass direction of the segment.
func (s TraceSegment) Direction() (geom.Direction, bool, error) {
	return geom.FromPoints(s.Start, s.End)
}

func (s TraceSegment) length() float32 {
	return s.End.ToFloat().Sub(s.Start.ToFloat()).Length()
}

func (s TraceSegment) rectShape(width float32) geom.PrimShape {
	start := s.Start.ToFloat()
	end := s.End.ToFloat()
	mid := geom.FloatVec2{X: (start.X + end.X) / 2, Y: (start.Y + end.Y) / 2}
	dx := float64(end.X - start.X)
	dy := float64(end.Y - start.Y)
	rotation := float32(math.Atan2(dy, dx) * 180 / math.Pi)
	return geom.NewRectangleShape(geom.RectangleShape{
		Position: mid, Width: s.length(), Height: width, RotationInDegs: rotation,
	})
}

// ToShapes returns two end circles (diameter=width) plus one rotated
// rectangle spanning the segment.
func (s TraceSegment) ToShapes() []geom.PrimShape {
	return []geom.PrimShape{
		geom.NewCircleShape(geom.CircleShape{Position: s.Start.ToFloat(), Diameter: s.Width}),
		geom.NewCircleShape(geom.CircleShape{Position: s.End.ToFloat(), Diameter: s.Width}),
		s.rectShape(s.Width),
	}
}

// ToClearanceShapes inflates ToShapes by the segment's clearance.
func (s TraceSegment) ToClearanceShapes() []geom.PrimShape {
	w := s.Width + 2*s.Clearance
	return []geom.PrimShape{
		geom.NewCircleShape(geom.CircleShape{Position: s.Start.ToFloat(), Diameter: w}),
		geom.NewCircleShape(geom.CircleShape{Position: s.End.ToFloat(), Diameter: w}),
		s.rectShape(w),
	}
}

func shapesToColliders(shapes []geom.PrimShape) []geom.Collider {
	out := make([]geom.Collider, len(shapes))
	for i, s := range shapes {
		out[i] = geom.FromPrimShape(s)
	}
	return out
}

// ToColliders converts ToShapes to colliders.
func (s TraceSegment) ToColliders() []geom.Collider { return shapesToColliders(s.ToShapes()) }

// ToClearanceColliders converts ToClearanceShapes to colliders.
func (s TraceSegment) ToClearanceColliders() []geom.Collider {
	return shapesToColliders(s.ToClearanceShapes())
}

// CollidesWith reports whether s and other overlap, using the asymmetric
// clearance test: s's clearance shapes against other's plain shapes, and
// vice versa. Both must be on the same layer.
func (s TraceSegment) CollidesWith(other TraceSegment) bool {
	if s.Layer != other.Layer {
		return false
	}
	for _, a := range s.ToClearanceColliders() {
		for _, b := range other.ToColliders() {
			if a.CollidesWith(b) {
				return true
			}
		}
	}
	for _, a := range s.ToColliders() {
		for _, b := range other.ToClearanceColliders() {
			if a.CollidesWith(b) {
				return true
			}
		}
	}
	return false
}

// Via is a plated hole connecting copper between MinLayer and MaxLayer
// (inclusive) at Position.
type Via struct {
	Position          geom.FixedVec2
	Diameter          float32
	Clearance         float32
	MinLayer, MaxLayer int
}

// ToShape returns the via's circular footprint.
func (v Via) ToShape() geom.PrimShape {
	return geom.NewCircleShape(geom.CircleShape{Position: v.Position.ToFloat(), Diameter: v.Diameter})
}

// ToClearanceShape returns the via's clearance-inflated circular footprint.
func (v Via) ToClearanceShape() geom.PrimShape {
	return geom.NewCircleShape(geom.CircleShape{Position: v.Position.ToFloat(), Diameter: v.Diameter + 2*v.Clearance})
}

// ToCollider converts ToShape to a collider.
func (v Via) ToCollider() geom.Collider { return geom.FromPrimShape(v.ToShape()) }

// ToClearanceCollider converts ToClearanceShape to a collider.
func (v Via) ToClearanceCollider() geom.Collider { return geom.FromPrimShape(v.ToClearanceShape()) }

// SpansLayer reports whether the via occupies layer ℓ.
func (v Via) SpansLayer(layer int) bool { return layer >= v.MinLayer && layer <= v.MaxLayer }

// TraceAnchor is a turn point, possibly changing layer (which introduces a
// via). Consecutive anchors A,B satisfy A.EndLayer == B.StartLayer.
type TraceAnchor struct {
	Position              geom.FixedVec2
	StartLayer, EndLayer int
}

// TracePath is the full routed geometry for one connection: an ordered
// anchor list plus its derived segments, vias and total length.
//
// Grounded on trace_path.rs's TracePath::from_anchors.
type TracePath struct {
	Anchors     []TraceAnchor
	Segments    []TraceSegment
	Vias        []Via
	TotalLength float64
}

// FromAnchors reconstructs segments, vias and total length from an anchor
// list plus per-connection trace width/clearance/via diameter.
func FromAnchors(anchors []TraceAnchor, width, clearance, viaDiameter, viaClearance float32) TracePath {
	tp := TracePath{Anchors: append([]TraceAnchor(nil), anchors...)}
	for i := 0; i+1 < len(anchors); i++ {
		a, b := anchors[i], anchors[i+1]
		seg := TraceSegment{Start: a.Position, End: b.Position, Width: width, Clearance: clearance, Layer: b.StartLayer}
		tp.Segments = append(tp.Segments, seg)
		tp.TotalLength += seg.Start.Sub(seg.End).Length()
	}
	for i := 1; i < len(anchors)-1; i++ {
		a := anchors[i]
		if a.StartLayer != a.EndLayer {
			minL, maxL := a.StartLayer, a.EndLayer
			if minL > maxL {
				minL, maxL = maxL, minL
			}
			tp.Vias = append(tp.Vias, Via{Position: a.Position, Diameter: viaDiameter, Clearance: viaClearance, MinLayer: minL, MaxLayer: maxL})
		}
	}
	return tp
}

// ToShapes returns every segment's and via's plain shapes, grouped by
// layer.
func (tp TracePath) ToShapes() map[int][]geom.PrimShape {
	out := map[int][]geom.PrimShape{}
	for _, seg := range tp.Segments {
		out[seg.Layer] = append(out[seg.Layer], seg.ToShapes()...)
	}
	for _, v := range tp.Vias {
		for l := v.MinLayer; l <= v.MaxLayer; l++ {
			out[l] = append(out[l], v.ToShape())
		}
	}
	return out
}

// ToClearanceShapes is ToShapes' clearance-inflated counterpart.
func (tp TracePath) ToClearanceShapes() map[int][]geom.PrimShape {
	out := map[int][]geom.PrimShape{}
	for _, seg := range tp.Segments {
		out[seg.Layer] = append(out[seg.Layer], seg.ToClearanceShapes()...)
	}
	for _, v := range tp.Vias {
		for l := v.MinLayer; l <= v.MaxLayer; l++ {
			out[l] = append(out[l], v.ToClearanceShape())
		}
	}
	return out
}

// ToColliders converts ToShapes to colliders per layer.
func (tp TracePath) ToColliders() map[int][]geom.Collider {
	out := map[int][]geom.Collider{}
	for layer, shapes := range tp.ToShapes() {
		out[layer] = shapesToColliders(shapes)
	}
	return out
}

// ToClearanceColliders converts ToClearanceShapes to colliders per layer.
func (tp TracePath) ToClearanceColliders() map[int][]geom.Collider {
	out := map[int][]geom.Collider{}
	for layer, shapes := range tp.ToClearanceShapes() {
		out[layer] = shapesToColliders(shapes)
	}
	return out
}

// CollidesWith reports whether any segment of tp overlaps (with clearance)
// any segment of other on the same layer.
func (tp TracePath) CollidesWith(other TracePath) bool {
	for _, a := range tp.Segments {
		for _, b := range other.Segments {
			if a.CollidesWith(b) {
				return true
			}
		}
	}
	return false
}

// GetScore returns exp(-ln2 * total_length / halfProbabilityRawScore), the
// length-based component of a probabilistic candidate's posterior. Always
// in (0,1].
func (tp TracePath) GetScore(halfProbabilityRawScore float64) float64 {
	score := math.Exp(-math.Ln2 * tp.TotalLength / halfProbabilityRawScore)
	if score <= 0 || score > 1 {
		panic("pcb: trace score out of (0,1] range")
	}
	return score
}
