package models

import (
	"encoding/json"
	"fmt"
	"strings"
)

// CurveSet holds the named sample columns of one well log. Curve order
// follows the source file, and lookup is case-insensitive, so "dept" and
// "DEPT" resolve to the same curve.
type CurveSet struct {
	names   []string             // display names, insertion order
	samples map[string][]float64 // keyed by normalized name
}

func NewCurveSet() *CurveSet {
	return &CurveSet{samples: make(map[string][]float64)}
}

// NormalizeCurveName is the canonical form used for lookups and
// depth-alias matching: trimmed and upper-cased.
func NormalizeCurveName(name string) string {
	return strings.ToUpper(strings.TrimSpace(name))
}

// Add appends a curve. The display name keeps its original spelling;
// a second curve normalizing to the same key is rejected.
func (cs *CurveSet) Add(name string, samples []float64) error {
	key := NormalizeCurveName(name)
	if key == "" {
		return fmt.Errorf("curve name is empty")
	}
	if _, ok := cs.samples[key]; ok {
		return fmt.Errorf("duplicate curve %q", name)
	}
	if cs.samples == nil {
		cs.samples = make(map[string][]float64)
	}
	cs.names = append(cs.names, strings.TrimSpace(name))
	cs.samples[key] = samples
	return nil
}

// Names returns the curve display names in insertion order.
func (cs *CurveSet) Names() []string {
	out := make([]string, len(cs.names))
	copy(out, cs.names)
	return out
}

// Get resolves a curve by name, case-insensitively. The returned slice
// is the stored one; callers must not mutate it.
func (cs *CurveSet) Get(name string) ([]float64, bool) {
	s, ok := cs.samples[NormalizeCurveName(name)]
	return s, ok
}

// Resolve returns the stored display name for a lookup name.
func (cs *CurveSet) Resolve(name string) (string, bool) {
	key := NormalizeCurveName(name)
	for _, n := range cs.names {
		if NormalizeCurveName(n) == key {
			return n, true
		}
	}
	return "", false
}

// Len is the number of curves.
func (cs *CurveSet) Len() int {
	if cs == nil {
		return 0
	}
	return len(cs.names)
}

// SampleCount reports the length of the first curve (all curves in a
// well-formed set share it).
func (cs *CurveSet) SampleCount() int {
	if cs == nil || len(cs.names) == 0 {
		return 0
	}
	s, _ := cs.Get(cs.names[0])
	return len(s)
}

// curveSetJSON is the storage shape: names keep file order, samples are
// keyed by display name.
type curveSetJSON struct {
	Names   []string             `json:"names"`
	Samples map[string][]float64 `json:"samples"`
}

func (cs *CurveSet) MarshalJSON() ([]byte, error) {
	out := curveSetJSON{
		Names:   cs.names,
		Samples: make(map[string][]float64, len(cs.names)),
	}
	for _, n := range cs.names {
		s, _ := cs.Get(n)
		out.Samples[n] = s
	}
	return json.Marshal(out)
}

func (cs *CurveSet) UnmarshalJSON(data []byte) error {
	var in curveSetJSON
	if err := json.Unmarshal(data, &in); err != nil {
		return err
	}
	*cs = CurveSet{samples: make(map[string][]float64, len(in.Names))}
	for _, n := range in.Names {
		if err := cs.Add(n, in.Samples[n]); err != nil {
			return err
		}
	}
	return nil
}
