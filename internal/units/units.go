package units

import (
	"regexp"
	"strconv"
	"strings"
)

// Whole-string patterns per quantity. Matching is done on the trimmed,
// upper-cased input; any leftover characters fail the parse.
var (
	resistancePattern  = regexp.MustCompile(`^([\d.]+)\s*([KMRΩ])?(?:OHM)?S?$`)
	capacitancePattern = regexp.MustCompile(`^([\d.]+)\s*([FPNUM])?F?$`)
	voltagePattern     = regexp.MustCompile(`^([\d.]+)\s*V?$`)
	currentPattern     = regexp.MustCompile(`^([\d.]+)\s*(M)?A?$`)
	powerPattern       = regexp.MustCompile(`^([\d.]+)\s*(M)?W?$`)
)

// normalize trims and upper-cases a raw value string, reporting whether
// anything is left to parse.
func normalize(s string) (string, bool) {
	s = strings.ToUpper(strings.TrimSpace(s))
	return s, s != ""
}

// ParseResistance parses a resistance string to ohms.
//
//	"10k"    -> 10000
//	"10kohm" -> 10000
//	"1M"     -> 1e6
//	"10R"    -> 10
//	"100"    -> 100
//
// The second return is false when the string cannot be parsed.
func ParseResistance(raw string) (float64, bool) {
	s, ok := normalize(raw)
	if !ok {
		return 0, false
	}

	m := resistancePattern.FindStringSubmatch(s)
	if m == nil {
		return 0, false
	}

	v, err := strconv.ParseFloat(m[1], 64)
	if err != nil {
		return 0, false
	}

	switch m[2] {
	case "K":
		v *= 1e3
	case "M":
		v *= 1e6
	}
	// "R" and "Ω" are unit markers, not multipliers.
	return v, true
}

// ParseCapacitance parses a capacitance string to farads.
//
//	"10uF"  -> 1e-5
//	"100nF" -> 1e-7
//	"22pF"  -> 2.2e-11
//	"10"    -> 1e-5
//
// A bare number with no multiplier letter is assumed to be microfarads;
// that is the documented default, not an oversight.
func ParseCapacitance(raw string) (float64, bool) {
	// Normalize the micro symbol before upper-casing: Unicode upper-cases
	// both micro-sign and Greek mu to capital Mu, which the pattern would
	// not recognize.
	raw = strings.ReplaceAll(raw, "µ", "U")
	raw = strings.ReplaceAll(raw, "μ", "U")

	s, ok := normalize(raw)
	if !ok {
		return 0, false
	}

	m := capacitancePattern.FindStringSubmatch(s)
	if m == nil {
		return 0, false
	}

	v, err := strconv.ParseFloat(m[1], 64)
	if err != nil {
		return 0, false
	}

	switch m[2] {
	case "F":
		return v, true
	case "M":
		return v * 1e-3, true // millifarads, rare
	case "U":
		return v * 1e-6, true
	case "N":
		return v * 1e-9, true
	case "P":
		return v * 1e-12, true
	}
	return v * 1e-6, true // default: microfarads
}

// ParseVoltage parses a voltage string to volts. No multiplier support.
func ParseVoltage(raw string) (float64, bool) {
	s, ok := normalize(raw)
	if !ok {
		return 0, false
	}

	m := voltagePattern.FindStringSubmatch(s)
	if m == nil {
		return 0, false
	}

	v, err := strconv.ParseFloat(m[1], 64)
	if err != nil {
		return 0, false
	}
	return v, true
}

// ParseCurrent parses a current string to amperes. "M" means milli.
func ParseCurrent(raw string) (float64, bool) {
	s, ok := normalize(raw)
	if !ok {
		return 0, false
	}

	m := currentPattern.FindStringSubmatch(s)
	if m == nil {
		return 0, false
	}

	v, err := strconv.ParseFloat(m[1], 64)
	if err != nil {
		return 0, false
	}
	if m[2] == "M" {
		v *= 1e-3
	}
	return v, true
}

// ParsePower parses a power string to watts. "M" means milli.
func ParsePower(raw string) (float64, bool) {
	s, ok := normalize(raw)
	if !ok {
		return 0, false
	}

	m := powerPattern.FindStringSubmatch(s)
	if m == nil {
		return 0, false
	}

	v, err := strconv.ParseFloat(m[1], 64)
	if err != nil {
		return 0, false
	}
	if m[2] == "M" {
		v *= 1e-3
	}
	return v, true
}
