// Package render holds the output-only render-model types the core hands
// to an external shell (out of scope per spec.md §1), plus a debug OBJ
// exporter for offline inspection of a solved board.
//
// Grounded on original_source/shared/src/pcb_render_model.rs and
// color_float3.rs.
package render

import "github.com/arl/pcbroute/geom"

// ColorFloat3 is an RGB colour in [0,1] per channel.
type ColorFloat3 struct {
	R, G, B float32
}

// NewColorFloat3 builds a ColorFloat3.
func NewColorFloat3(r, g, b float32) ColorFloat3 { return ColorFloat3{R: r, G: g, B: b} }

// ToFloat4 returns the colour plus an alpha channel, as used for
// posterior-weighted candidate rendering in the probabilistic model.
func (c ColorFloat3) ToFloat4(alpha float32) [4]float32 {
	return [4]float32{c.R, c.G, c.B, alpha}
}

// ShapeRenderable pairs a shape with an RGBA colour.
type ShapeRenderable struct {
	Shape geom.PrimShape
	Color [4]float32
}

// RenderableBatch groups shapes rendered together (e.g. all segments of one
// candidate trace, so a UI can fade a whole candidate by its posterior).
type RenderableBatch struct {
	Shapes []ShapeRenderable
}

// PcbRenderModel is a full-board snapshot handed across the display
// injection boundary (spec.md §5).
type PcbRenderModel struct {
	Width, Height         float32
	Center                geom.FloatVec2
	TraceShapeRenderables []RenderableBatch
	PadShapeRenderables   []ShapeRenderable
	OtherShapeRenderables []ShapeRenderable
}
