package service

import (
	"errors"
	"fmt"

	"github.com/Terjeeld/lasviewer/internal/models"
)

// Domain errors for curve selection and plot assembly.
var (
	ErrEmptyCurveSet           = errors.New("curve set is empty")
	ErrInconsistentSampleCount = errors.New("curves have different sample counts")
)

// UnknownCurveError reports a lookup of a curve name absent from the set.
type UnknownCurveError struct {
	Name string
}

func (e *UnknownCurveError) Error() string {
	return fmt.Sprintf("unknown curve %q", e.Name)
}

// defaultDepthAliases is the built-in priority list of curve names
// recognized as depth. Earlier entries win.
var defaultDepthAliases = []string{"DEPT", "DEPTH", "DEPTH_MD", "MD", "TVD", "TVDSS"}

// PlotService is stateless per call; the alias list is fixed at
// construction, so results are deterministic for a given curve set.
type PlotService struct {
	depthAliases []string // normalized, priority order
}

func NewPlotService(aliases []string) *PlotService {
	if len(aliases) == 0 {
		aliases = defaultDepthAliases
	}
	norm := make([]string, 0, len(aliases))
	for _, a := range aliases {
		if n := models.NormalizeCurveName(a); n != "" {
			norm = append(norm, n)
		}
	}
	return &PlotService{depthAliases: norm}
}

// IdentifyDepthCurve returns the curve to use as the depth index.
// The highest-priority alias that matches any curve wins; with no match
// the first curve in file order is returned with guessed=true.
func (s *PlotService) IdentifyDepthCurve(cs *models.CurveSet) (string, bool, error) {
	if cs.Len() == 0 {
		return "", false, ErrEmptyCurveSet
	}
	names := cs.Names()
	for _, alias := range s.depthAliases {
		for _, n := range names {
			if models.NormalizeCurveName(n) == alias {
				return n, false, nil
			}
		}
	}
	// No alias matched; the first column is the best available guess.
	return names[0], true, nil
}

// BuildPlotRequest pairs the depth curve with the target curve. Sample
// counts are re-checked here because the set may come from an untrusted
// parse. Pure transformation: the stored samples are handed out as-is.
func (s *PlotService) BuildPlotRequest(cs *models.CurveSet, depthName, targetName string) (models.PlotRequest, error) {
	if cs.Len() == 0 {
		return models.PlotRequest{}, ErrEmptyCurveSet
	}
	x, ok := cs.Get(depthName)
	if !ok {
		return models.PlotRequest{}, &UnknownCurveError{Name: depthName}
	}
	y, ok := cs.Get(targetName)
	if !ok {
		return models.PlotRequest{}, &UnknownCurveError{Name: targetName}
	}
	if len(x) != len(y) {
		return models.PlotRequest{}, fmt.Errorf(
			"%q has %d samples, %q has %d: %w",
			depthName, len(x), targetName, len(y), ErrInconsistentSampleCount,
		)
	}
	xLabel, _ := cs.Resolve(depthName)
	yLabel, _ := cs.Resolve(targetName)
	return models.PlotRequest{
		X:      x,
		Y:      y,
		XLabel: xLabel,
		YLabel: yLabel,
	}, nil
}
