package pcb

import (
	"fmt"

	"github.com/arl/pcbroute/geom"
	yaml "gopkg.in/yaml.v2"
)

// Fixture is a YAML-decodable stand-in for the Specctra-DSN parser spec.md
// §6 places out of scope: just enough structure to build a Problem for
// the CLI's route/validate subcommands and for local test fixtures,
// grounded on pcb_problem.rs's PcbProblem/NetInfo/Pad/Connection shape and
// the teacher's unmarshalYAMLFile pattern (cmd/recast/cmd/utils.go).
type Fixture struct {
	Width           float32      `yaml:"width"`
	Height          float32      `yaml:"height"`
	CenterX         float32      `yaml:"center_x"`
	CenterY         float32      `yaml:"center_y"`
	NumLayers       int          `yaml:"num_layers"`
	ScaleDownFactor float64      `yaml:"scale_down_factor"`
	Nets            []FixtureNet `yaml:"nets"`
}

// FixtureNet is one net entry of a Fixture.
type FixtureNet struct {
	Name           string       `yaml:"name"`
	TraceWidth     float32      `yaml:"trace_width"`
	TraceClearance float32      `yaml:"trace_clearance"`
	ViaDiameter    float32      `yaml:"via_diameter"`
	ViaClearance   float32      `yaml:"via_clearance"`
	Pads           []FixturePad `yaml:"pads"`
	Connections    [][2]string  `yaml:"connections"` // [start_pad, end_pad] names
}

// FixturePad is one pad of a FixtureNet.
type FixturePad struct {
	Name         string  `yaml:"name"`
	X            float32 `yaml:"x"`
	Y            float32 `yaml:"y"`
	Shape        string  `yaml:"shape"` // "circle", "rectangle", "round_rect"
	Diameter     float32 `yaml:"diameter"`
	Width        float32 `yaml:"width"`
	Height       float32 `yaml:"height"`
	CornerRadius float32 `yaml:"corner_radius"`
	RotationDegs float32 `yaml:"rotation_degs"`
	Clearance    float32 `yaml:"clearance"`
	Layer        string  `yaml:"layer"` // "front", "back", "all"
}

// LoadFixture decodes a YAML fixture and builds a Problem from it.
func LoadFixture(data []byte) (*Problem, error) {
	var f Fixture
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("pcb: decoding fixture: %w", err)
	}
	return f.toProblem()
}

// SolutionFixture is a YAML-decodable stand-in for a solved board, used by
// the validate subcommand to check a previously-computed solution against
// its problem without re-running the solver.
type SolutionFixture struct {
	Traces []SolutionTraceFixture `yaml:"traces"`
}

// SolutionTraceFixture is one fixed trace of a SolutionFixture.
type SolutionTraceFixture struct {
	ConnectionID int             `yaml:"connection_id"`
	Anchors      []FixtureAnchor `yaml:"anchors"`
}

// FixtureAnchor is one anchor of a SolutionTraceFixture.
type FixtureAnchor struct {
	X          int `yaml:"x"`
	Y          int `yaml:"y"`
	StartLayer int `yaml:"start_layer"`
	EndLayer   int `yaml:"end_layer"`
}

// LoadSolutionFixture decodes a YAML solution fixture into a Solution,
// looking up each connection's net (for trace width/clearance/via
// geometry) in problem.
func LoadSolutionFixture(data []byte, problem *Problem) (*Solution, error) {
	var f SolutionFixture
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("pcb: decoding solution fixture: %w", err)
	}

	connToNet := map[ConnectionID]NetInfo{}
	for _, net := range problem.Nets {
		for id := range net.Connections {
			connToNet[id] = net
		}
	}

	traces := make(map[ConnectionID]FixedTrace, len(f.Traces))
	for _, ft := range f.Traces {
		id := ConnectionID(ft.ConnectionID)
		net, ok := connToNet[id]
		if !ok {
			return nil, fmt.Errorf("pcb: solution fixture references unknown connection %d", id)
		}
		conn := net.Connections[id]

		anchors := make([]TraceAnchor, len(ft.Anchors))
		for i, a := range ft.Anchors {
			anchors[i] = TraceAnchor{
				Position:   geom.NewFixedVec2(geom.NewFixedFromInt(a.X), geom.NewFixedFromInt(a.Y)),
				StartLayer: a.StartLayer,
				EndLayer:   a.EndLayer,
			}
		}
		tp := FromAnchors(anchors, net.TraceWidth, net.TraceClearance, net.ViaDiameter, net.ViaClearance)
		traces[id] = FixedTrace{NetName: conn.NetName, ConnectionID: id, TracePath: tp}
	}

	return &Solution{DeterminedTraces: traces, ScaleDownFactor: problem.ScaleDownFactor}, nil
}

func (f Fixture) toProblem() (*Problem, error) {
	if f.NumLayers < 1 || f.NumLayers%2 != 0 {
		return nil, fmt.Errorf("pcb: num_layers must be >= 1 and even, got %d", f.NumLayers)
	}

	nextConnID := ConnectionID(0)
	nets := make(map[NetName]NetInfo, len(f.Nets))
	for _, fn := range f.Nets {
		pads := make(map[PadName]Pad, len(fn.Pads))
		for _, fp := range fn.Pads {
			pad, err := fp.toPad()
			if err != nil {
				return nil, fmt.Errorf("pcb: net %q: %w", fn.Name, err)
			}
			pads[pad.Name] = pad
		}

		connections := make(map[ConnectionID]Connection, len(fn.Connections))
		for _, pair := range fn.Connections {
			id := nextConnID
			nextConnID++
			connections[id] = Connection{
				NetName:      NetName(fn.Name),
				ConnectionID: id,
				StartPad:     PadName(pair[0]),
				EndPad:       PadName(pair[1]),
			}
		}

		nets[NetName(fn.Name)] = NetInfo{
			NetName:        NetName(fn.Name),
			Pads:           pads,
			TraceWidth:     fn.TraceWidth,
			TraceClearance: fn.TraceClearance,
			ViaDiameter:    fn.ViaDiameter,
			ViaClearance:   fn.ViaClearance,
			Connections:    connections,
		}
	}

	scale := f.ScaleDownFactor
	if scale == 0 {
		scale = 1
	}
	return &Problem{
		Width:           f.Width,
		Height:          f.Height,
		Center:          FloatVec2{X: f.CenterX, Y: f.CenterY},
		NumLayers:       f.NumLayers,
		Nets:            nets,
		ScaleDownFactor: scale,
	}, nil
}

func (fp FixturePad) toPad() (Pad, error) {
	var layer PadLayer
	switch fp.Layer {
	case "", "front":
		layer = Front
	case "back":
		layer = Back
	case "all":
		layer = All
	default:
		return Pad{}, fmt.Errorf("pad %q: unknown layer %q", fp.Name, fp.Layer)
	}

	var shape PadShape
	switch fp.Shape {
	case "", "circle":
		shape = PadShape{Kind: PadCircle, Diameter: fp.Diameter}
	case "rectangle":
		shape = PadShape{Kind: PadRectangle, Width: fp.Width, Height: fp.Height}
	case "round_rect":
		shape = PadShape{Kind: PadRoundRect, Width: fp.Width, Height: fp.Height, CornerRadius: fp.CornerRadius}
	default:
		return Pad{}, fmt.Errorf("pad %q: unknown shape %q", fp.Name, fp.Shape)
	}

	return Pad{
		Name:         PadName(fp.Name),
		Position:     FloatVec2{X: fp.X, Y: fp.Y},
		Shape:        shape,
		RotationDegs: fp.RotationDegs,
		Clearance:    fp.Clearance,
		Layer:        layer,
	}, nil
}
