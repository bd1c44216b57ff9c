// Package las reads LAS 2.0 well-log files: header sections for display
// metadata and the ~ASCII section for curve samples.
package las

import (
	"bufio"
	"bytes"
	"fmt"
	"strconv"
	"strings"

	"github.com/Terjeeld/lasviewer/internal/models"
)

// ParseError reports a malformed LAS file. Line is 1-based; 0 means the
// failure is not tied to a single line.
type ParseError struct {
	Line int
	Msg  string
}

func (e *ParseError) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("las: line %d: %s", e.Line, e.Msg)
	}
	return "las: " + e.Msg
}

func errorf(line int, format string, args ...any) *ParseError {
	return &ParseError{Line: line, Msg: fmt.Sprintf(format, args...)}
}

// ParsedLog is the structured result of one file: header fields in file
// order and the curve data keyed by mnemonic.
type ParsedLog struct {
	Header []models.HeaderField
	Curves *models.CurveSet
}

// Section markers. Only the first letter after '~' is significant.
const (
	sectionVersion   = "VERSION"
	sectionWell      = "WELL"
	sectionCurve     = "CURVE"
	sectionParameter = "PARAMETER"
	sectionOther     = "OTHER"
	sectionData      = "ASCII"
)

func sectionName(marker byte) string {
	switch marker {
	case 'V', 'v':
		return sectionVersion
	case 'W', 'w':
		return sectionWell
	case 'C', 'c':
		return sectionCurve
	case 'P', 'p':
		return sectionParameter
	case 'O', 'o':
		return sectionOther
	case 'A', 'a':
		return sectionData
	default:
		return ""
	}
}

// Parse decodes raw LAS bytes. Curve sample counts are equal by
// construction: data tokens are chunked row-wise by the number of
// declared curves, which also handles wrapped files.
func Parse(data []byte) (*ParsedLog, error) {
	out := &ParsedLog{Curves: models.NewCurveSet()}

	var (
		section    string
		curveNames []string
		tokens     []float64
	)

	sc := bufio.NewScanner(bytes.NewReader(data))
	sc.Buffer(make([]byte, 0, 64*1024), 4*1024*1024)

	lineNo := 0
	for sc.Scan() {
		lineNo++
		line := strings.TrimSpace(sc.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		if strings.HasPrefix(line, "~") {
			if section == sectionData {
				return nil, errorf(lineNo, "section %q after data section", line)
			}
			if len(line) < 2 {
				return nil, errorf(lineNo, "empty section marker")
			}
			section = sectionName(line[1])
			if section == "" {
				return nil, errorf(lineNo, "unknown section marker %q", line)
			}
			if section == sectionData && len(curveNames) == 0 {
				return nil, errorf(lineNo, "data section before any curve definition")
			}
			continue
		}

		switch section {
		case "":
			return nil, errorf(lineNo, "content before first section marker")
		case sectionOther:
			// ~Other is free text; keep each line verbatim.
			out.Header = append(out.Header, models.HeaderField{
				Section: sectionOther,
				Value:   line,
			})
		case sectionData:
			for _, tok := range strings.Fields(line) {
				v, err := strconv.ParseFloat(tok, 64)
				if err != nil {
					return nil, errorf(lineNo, "bad numeric value %q", tok)
				}
				tokens = append(tokens, v)
			}
		default:
			field, err := parseHeaderLine(section, line, lineNo)
			if err != nil {
				return nil, err
			}
			out.Header = append(out.Header, field)
			if section == sectionCurve {
				curveNames = append(curveNames, field.Mnemonic)
			}
		}
	}
	if err := sc.Err(); err != nil {
		return nil, errorf(0, "read input: %v", err)
	}

	if len(curveNames) == 0 {
		return nil, errorf(0, "no curves defined")
	}
	if len(tokens)%len(curveNames) != 0 {
		return nil, errorf(0, "data count %d is not a multiple of %d curves", len(tokens), len(curveNames))
	}

	rows := len(tokens) / len(curveNames)
	for i, name := range curveNames {
		samples := make([]float64, rows)
		for r := 0; r < rows; r++ {
			samples[r] = tokens[r*len(curveNames)+i]
		}
		if err := out.Curves.Add(name, samples); err != nil {
			return nil, errorf(0, "%v", err)
		}
	}

	return out, nil
}

// parseHeaderLine splits "MNEM.UNIT  VALUE : DESCRIPTION". The unit runs
// from the first dot to the first whitespace; the last colon separates
// value from description.
func parseHeaderLine(section, line string, lineNo int) (models.HeaderField, error) {
	dot := strings.Index(line, ".")
	if dot < 0 {
		return models.HeaderField{}, errorf(lineNo, "header line missing '.' separator")
	}
	mnem := strings.TrimSpace(line[:dot])
	if mnem == "" {
		return models.HeaderField{}, errorf(lineNo, "header line missing mnemonic")
	}

	rest := line[dot+1:]
	unit := rest
	if i := strings.IndexFunc(rest, func(r rune) bool { return r == ' ' || r == '\t' }); i >= 0 {
		unit = rest[:i]
		rest = rest[i:]
	} else {
		rest = ""
	}

	value := rest
	desc := ""
	if i := strings.LastIndex(rest, ":"); i >= 0 {
		value = rest[:i]
		desc = strings.TrimSpace(rest[i+1:])
	}

	return models.HeaderField{
		Section:     section,
		Mnemonic:    mnem,
		Unit:        strings.TrimSpace(unit),
		Value:       strings.TrimSpace(value),
		Description: desc,
	}, nil
}
