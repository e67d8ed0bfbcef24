// Package graph converts the remote time-series layouts into the canonical
// chart series.
package graph

import (
	"errors"
	"fmt"

	"github.com/basket-service/basket_service/internal/domain/entities"
)

var (
	// ErrNoSeries means the payload carries no usable graph layout
	ErrNoSeries = errors.New("no remote graph series")

	// ErrMalformedGraph means the graph block broke the parallel-array invariant
	ErrMalformedGraph = errors.New("malformed remote graph payload")

	// ErrInvalidMode is returned for a mode other than absolute or rolling
	ErrInvalidMode = errors.New("series mode must be absolute or rolling")
)

// Normalize zips the selected series into canonical points. Mode is only
// consulted for dual payloads; an empty mode selects absolute returns.
func Normalize(data *entities.RemoteGraphData, mode entities.SeriesMode) ([]entities.GraphPoint, error) {
	if data == nil {
		return nil, ErrNoSeries
	}
	if data.Malformed {
		return nil, ErrMalformedGraph
	}

	var series *entities.GraphSeries
	switch data.Shape {
	case entities.GraphShapeDual:
		if data.Dual == nil {
			return nil, ErrMalformedGraph
		}
		switch mode {
		case "", entities.SeriesModeAbsolute:
			series = &data.Dual.AbsoluteReturns
		case entities.SeriesModeRolling:
			series = &data.Dual.RollingReturns
		default:
			return nil, fmt.Errorf("%w: got %q", ErrInvalidMode, mode)
		}
	case entities.GraphShapeSimple:
		if data.Simple == nil {
			return nil, ErrMalformedGraph
		}
		series = data.Simple
	default:
		return nil, ErrNoSeries
	}

	return zip(*series)
}

func zip(s entities.GraphSeries) ([]entities.GraphPoint, error) {
	if s.Labels == nil {
		return nil, fmt.Errorf("%w: series has no labels", ErrMalformedGraph)
	}
	if !s.Consistent() {
		return nil, fmt.Errorf("%w: %d labels, %d basket values, %d benchmark values",
			ErrMalformedGraph, len(s.Labels), len(s.BasketData), len(s.NiftyData))
	}

	points := make([]entities.GraphPoint, len(s.Labels))
	for i, label := range s.Labels {
		points[i] = entities.GraphPoint{
			Label:          label,
			BasketValue:    s.BasketData[i],
			BenchmarkValue: s.NiftyData[i],
		}
	}
	return points, nil
}

// Modes lists the series modes a caller may toggle between; only dual
// payloads offer a choice.
func Modes(data *entities.RemoteGraphData) []entities.SeriesMode {
	if data == nil || data.Shape != entities.GraphShapeDual || data.Malformed {
		return nil
	}
	return []entities.SeriesMode{entities.SeriesModeAbsolute, entities.SeriesModeRolling}
}

// Resolution is the lenient outcome used by hosts
type Resolution struct {
	Points []entities.GraphPoint
	OK     bool
	Modes  []entities.SeriesMode
	Err    error
}

// Resolve never fails: a malformed or absent graph yields OK == false and the
// caller falls back to a synthesized series. Err records why for logging.
func Resolve(data *entities.RemoteGraphData, mode entities.SeriesMode) Resolution {
	points, err := Normalize(data, mode)
	if err != nil {
		return Resolution{Err: err}
	}
	return Resolution{Points: points, OK: true, Modes: Modes(data)}
}
