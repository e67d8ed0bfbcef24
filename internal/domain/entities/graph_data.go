package entities

import (
	"bytes"
	"encoding/json"
)

// GraphShape tags which remote time-series layout a payload used
type GraphShape int

const (
	GraphShapeNone GraphShape = iota
	GraphShapeSimple
	GraphShapeDual
)

func (s GraphShape) String() string {
	switch s {
	case GraphShapeSimple:
		return "simple"
	case GraphShapeDual:
		return "dual"
	default:
		return "none"
	}
}

// SeriesMode selects a sub-series of a dual-mode payload
type SeriesMode string

const (
	SeriesModeAbsolute SeriesMode = "absolute"
	SeriesModeRolling  SeriesMode = "rolling"
)

// Valid reports whether m is a known mode
func (m SeriesMode) Valid() bool {
	return m == SeriesModeAbsolute || m == SeriesModeRolling
}

// GraphSeries holds parallel arrays; index i of each array is the same time point.
type GraphSeries struct {
	Labels     []string  `json:"labels"`
	BasketData []float64 `json:"basketData"`
	NiftyData  []float64 `json:"niftyData"`
}

// Consistent reports whether the three arrays have equal length
func (g GraphSeries) Consistent() bool {
	return len(g.Labels) == len(g.BasketData) && len(g.Labels) == len(g.NiftyData)
}

// DualGraphData carries an absolute and a rolling returns series
type DualGraphData struct {
	AbsoluteReturns GraphSeries `json:"absoluteReturns"`
	RollingReturns  GraphSeries `json:"rollingReturns"`
}

// RemoteGraphData is the tagged union of the two remote graph layouts.
// Shape is computed once when the payload is decoded. Raw keeps a malformed
// block verbatim so a cached copy decodes to the same result.
type RemoteGraphData struct {
	Shape     GraphShape
	Simple    *GraphSeries
	Dual      *DualGraphData
	Malformed bool
	Raw       json.RawMessage
}

// DetectGraphData inspects raw graph JSON once and returns the tagged union.
// Keys that decode to the wrong types mark the result malformed with no shape.
func DetectGraphData(raw []byte) RemoteGraphData {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		return RemoteGraphData{Shape: GraphShapeNone}
	}

	malformed := RemoteGraphData{
		Shape:     GraphShapeNone,
		Malformed: true,
		Raw:       append(json.RawMessage(nil), trimmed...),
	}

	var root map[string]json.RawMessage
	if err := json.Unmarshal(trimmed, &root); err != nil {
		return malformed
	}

	absolute, hasAbsolute := root["absoluteReturns"]
	rolling, hasRolling := root["rollingReturns"]
	if hasAbsolute && hasRolling {
		// Both sub-series must be objects; null or scalars break the layout.
		if !isObject(absolute) || !isObject(rolling) {
			return malformed
		}
		var dual DualGraphData
		if err := json.Unmarshal(trimmed, &dual); err != nil {
			return malformed
		}
		return RemoteGraphData{Shape: GraphShapeDual, Dual: &dual}
	}

	if _, ok := root["labels"]; ok {
		var simple GraphSeries
		if err := json.Unmarshal(trimmed, &simple); err != nil {
			return malformed
		}
		return RemoteGraphData{Shape: GraphShapeSimple, Simple: &simple}
	}

	return RemoteGraphData{Shape: GraphShapeNone}
}

func isObject(raw json.RawMessage) bool {
	trimmed := bytes.TrimSpace(raw)
	return len(trimmed) > 0 && trimmed[0] == '{'
}

// UnmarshalJSON tags the shape at ingestion and never fails, so a bad graph
// block cannot reject the rest of the payload.
func (g *RemoteGraphData) UnmarshalJSON(b []byte) error {
	*g = DetectGraphData(b)
	return nil
}

// MarshalJSON writes the union back in its original remote layout
func (g RemoteGraphData) MarshalJSON() ([]byte, error) {
	if g.Malformed && len(g.Raw) > 0 {
		return g.Raw, nil
	}
	switch g.Shape {
	case GraphShapeDual:
		if g.Dual != nil {
			return json.Marshal(g.Dual)
		}
	case GraphShapeSimple:
		if g.Simple != nil {
			return json.Marshal(g.Simple)
		}
	}
	return []byte("null"), nil
}
