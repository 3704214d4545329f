package pcb

import "github.com/arl/pcbroute/geom"

// NetName identifies a net (a set of mutually-connected pads).
type NetName string

// ConnectionID is a globally unique dense integer identifying one
// start-pad -> end-pad connection within a net.
type ConnectionID int

// Connection is a single routing unit within a net.
type Connection struct {
	NetName      NetName
	ConnectionID ConnectionID
	StartPad     PadName
	EndPad       PadName
}

// NetColor is an RGB colour in [0,1] per channel, used for net display; it
// intentionally duplicates render.ColorFloat3's shape rather than
// depending on the render package, to keep pcb a leaf of the dependency
// graph (render depends on pcb, not the reverse).
type NetColor struct {
	R, G, B float32
}

// NetInfo is one net: its pads, design rules, and connections.
type NetInfo struct {
	NetName        NetName
	Color          NetColor
	Pads           map[PadName]Pad
	TraceWidth     float32
	TraceClearance float32
	ViaDiameter    float32
	ViaClearance   float32
	Connections    map[ConnectionID]Connection
}

// Problem is the core's full input contract: board outline, layer count,
// and every net to be routed. Constructed once per job by an external
// parser (out of scope) and treated as immutable by the core.
type Problem struct {
	Width, Height   float32
	Center          FloatVec2
	NumLayers       int
	Nets            map[NetName]NetInfo
	ScaleDownFactor float64
}

// FloatVec2 aliases geom.FloatVec2 so callers needn't import geom just to
// build a Problem; kept distinct from pcb.NetColor's duplication reasoning
// above (this one is a pure alias, geom stays the single source of truth
// for vector math).
type FloatVec2 = geom.FloatVec2

// FixedTrace is a committed routing result for one connection.
type FixedTrace struct {
	NetName      NetName
	ConnectionID ConnectionID
	TracePath    TracePath
}

// Solution is the core's full output contract: one FixedTrace per
// connection in the input Problem.
type Solution struct {
	DeterminedTraces map[ConnectionID]FixedTrace
	ScaleDownFactor  float64
}

// AllConnectionIDs returns every connection ID across every net of p.
func (p *Problem) AllConnectionIDs() []ConnectionID {
	var ids []ConnectionID
	for _, net := range p.Nets {
		for id := range net.Connections {
			ids = append(ids, id)
		}
	}
	return ids
}
