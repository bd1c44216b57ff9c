package models

import "time"

// HeaderField is one line of LAS header metadata, kept as read for display.
type HeaderField struct {
	Section     string `json:"section"`  // VERSION | WELL | CURVE | PARAMETER | OTHER
	Mnemonic    string `json:"mnemonic"` // e.g. "STRT", "NULL", "COMP"
	Unit        string `json:"unit,omitempty"`
	Value       string `json:"value"`
	Description string `json:"description,omitempty"`
}

// LogFile is one uploaded well log, scoped to the user who uploaded it.
type LogFile struct {
	ID           string        `json:"id"`
	OwnerID      int           `json:"-"`
	Name         string        `json:"name"`
	SizeBytes    int64         `json:"size_bytes"`
	Header       []HeaderField `json:"header,omitempty"`
	Curves       *CurveSet     `json:"curves,omitempty"`
	DepthCurve   string        `json:"depth_curve"`
	DepthGuessed bool          `json:"depth_guessed"` // true when no known depth alias matched
	UploadedAt   time.Time     `json:"uploaded_at"`
}

// PlotRequest is the render-ready payload for one curve-vs-depth plot.
// X carries the depth samples (plotted on the vertical axis, increasing
// downward, as is conventional for well logs), Y the measured curve.
type PlotRequest struct {
	X      []float64 `json:"x"`
	Y      []float64 `json:"y"`
	XLabel string    `json:"x_label"`
	YLabel string    `json:"y_label"`
}
