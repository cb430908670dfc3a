// Package units converts human-written electrical value strings
// ("10k", "100nF", "3.3V", "500mA", "250mW") into canonical floats in SI
// base units (ohms, farads, volts, amperes, watts).
//
// Parsing is case-insensitive and whole-string: leftover characters, a
// non-numeric lead, or an unknown suffix fail the parse. A failed parse is
// not an error; callers treat it as "no constraint applied".
//
// Unit defaults:
//   - resistance with no multiplier is already ohms ("100" -> 100)
//   - a bare capacitance number is microfarads ("10" -> 1e-5)
//   - voltage, current and power default to their base unit
package units
