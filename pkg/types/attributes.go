package types

import "github.com/spf13/cast"

// Known attribute-bag keys. The bag's schema varies per category: resistors
// carry Resistance, capacitors Capacitance, power ICs differently spelled
// voltage keys. Unknown keys pass through opaquely.
const (
	AttrBasicExtended = "Basic/Extended"
	AttrManufacturer  = "Manufacturer"
	AttrPackage       = "Package"
	AttrResistance    = "Resistance"
	AttrCapacitance   = "Capacitance"
)

// DefaultValueGroup is the value group most attributes publish under.
const DefaultValueGroup = "default"

// AttributeBag holds a component's parametric attributes as decoded JSON.
// Each attribute maps to an object of the shape
//
//	{"values": {"<group>": [v0, v1, ...], ...}, ...}
//
// and lookups coerce the variant-typed values on access.
type AttributeBag map[string]any

// Values returns the value list stored under key/group, or nil.
func (b AttributeBag) Values(key, group string) []any {
	attr, ok := b[key].(map[string]any)
	if !ok {
		return nil
	}
	values, ok := attr["values"].(map[string]any)
	if !ok {
		return nil
	}
	list, ok := values[group].([]any)
	if !ok {
		return nil
	}
	return list
}

// FirstString returns the first value under key/group as a string, or "".
func (b AttributeBag) FirstString(key, group string) string {
	list := b.Values(key, group)
	if len(list) == 0 {
		return ""
	}
	return cast.ToString(list[0])
}

// FirstFloat returns the first value under key/group coerced to float64.
func (b AttributeBag) FirstFloat(key, group string) (float64, bool) {
	list := b.Values(key, group)
	if len(list) == 0 {
		return 0, false
	}
	f, err := cast.ToFloat64E(list[0])
	if err != nil {
		return 0, false
	}
	return f, true
}
