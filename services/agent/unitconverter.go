package agent

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/lithammer/fuzzysearch/fuzzy"
	"github.com/samber/lo"
)

type UnitConverterToolInput struct {
	Value    float64 `json:"value" jsonschema:"required,description=The numeric value to convert"`
	FromUnit string  `json:"from_unit" jsonschema:"required,description=The source unit. Examples: km / pounds / celsius"`
	ToUnit   string  `json:"to_unit" jsonschema:"required,description=The target unit. Examples: miles / kg / fahrenheit"`
}

// UnitConverterTool converts between units of length, mass, volume, time,
// speed, area and temperature. Unit names are resolved through an alias
// table with fuzzy matching for near misses.
type UnitConverterTool struct {
	aliasKeys []string
}

func NewUnitConverterTool() UnitConverterTool {
	return UnitConverterTool{aliasKeys: lo.Keys(unitAliases)}
}

func (t UnitConverterTool) Name() string {
	return "unit_converter"
}

func (t UnitConverterTool) Description() string {
	return "Converts between units of measurement: length, weight, volume, time, speed, area and temperature"
}

type unitDef struct {
	category string
	factor   float64 // multiplier to the category's base unit
}

var unitTable = map[string]unitDef{
	// length, base meters
	"km":   {"length", 1000},
	"m":    {"length", 1},
	"cm":   {"length", 0.01},
	"mm":   {"length", 0.001},
	"mi":   {"length", 1609.344},
	"yd":   {"length", 0.9144},
	"ft":   {"length", 0.3048},
	"in":   {"length", 0.0254},
	// mass, base grams
	"t":  {"mass", 1e6},
	"kg": {"mass", 1000},
	"g":  {"mass", 1},
	"mg": {"mass", 0.001},
	"lb": {"mass", 453.592},
	"oz": {"mass", 28.3495},
	// volume, base liters
	"l":     {"volume", 1},
	"ml":    {"volume", 0.001},
	"gal":   {"volume", 3.78541},
	"pt":    {"volume", 0.473176},
	"fl oz": {"volume", 0.0295735},
	"m3":    {"volume", 1000},
	"cm3":   {"volume", 0.001},
	// time, base seconds
	"s":     {"time", 1},
	"min":   {"time", 60},
	"h":     {"time", 3600},
	"day":   {"time", 86400},
	"week":  {"time", 604800},
	"month": {"time", 2592000},
	"year":  {"time", 31536000},
	// speed, base m/s
	"m/s":  {"speed", 1},
	"km/h": {"speed", 0.277778},
	"mph":  {"speed", 0.44704},
	"knot": {"speed", 0.514444},
	// area, base square meters
	"m2":  {"area", 1},
	"km2": {"area", 1e6},
	"cm2": {"area", 0.0001},
	"ha":  {"area", 10000},
	"acre": {"area", 4046.86},
	"ft2": {"area", 0.092903},
	"mi2": {"area", 2589988.11},
	// temperature, converted by formula rather than factor
	"celsius":    {"temperature", 0},
	"fahrenheit": {"temperature", 0},
	"kelvin":     {"temperature", 0},
}

var unitAliases = map[string]string{
	"km": "km", "kilometer": "km", "kilometers": "km", "kilometre": "km", "kilometres": "km",
	"m": "m", "meter": "m", "meters": "m", "metre": "m", "metres": "m",
	"cm": "cm", "centimeter": "cm", "centimeters": "cm", "centimetre": "cm", "centimetres": "cm",
	"mm": "mm", "millimeter": "mm", "millimeters": "mm", "millimetre": "mm", "millimetres": "mm",
	"mi": "mi", "mile": "mi", "miles": "mi",
	"yd": "yd", "yard": "yd", "yards": "yd",
	"ft": "ft", "foot": "ft", "feet": "ft",
	"in": "in", "inch": "in", "inches": "in",

	"t": "t", "ton": "t", "tons": "t", "tonne": "t", "tonnes": "t",
	"kg": "kg", "kilogram": "kg", "kilograms": "kg", "kilo": "kg", "kilos": "kg",
	"g": "g", "gram": "g", "grams": "g",
	"mg": "mg", "milligram": "mg", "milligrams": "mg",
	"lb": "lb", "lbs": "lb", "pound": "lb", "pounds": "lb",
	"oz": "oz", "ounce": "oz", "ounces": "oz",

	"l": "l", "liter": "l", "liters": "l", "litre": "l", "litres": "l",
	"ml": "ml", "milliliter": "ml", "milliliters": "ml", "millilitre": "ml", "millilitres": "ml",
	"gal": "gal", "gallon": "gal", "gallons": "gal",
	"pt": "pt", "pint": "pt", "pints": "pt",
	"fl oz": "fl oz", "floz": "fl oz", "fluid ounce": "fl oz", "fluid ounces": "fl oz",
	"m3": "m3", "cubic meter": "m3", "cubic meters": "m3",
	"cm3": "cm3", "cc": "cm3", "cubic centimeter": "cm3", "cubic centimeters": "cm3",

	"s": "s", "sec": "s", "secs": "s", "second": "s", "seconds": "s",
	"min": "min", "mins": "min", "minute": "min", "minutes": "min",
	"h": "h", "hr": "h", "hrs": "h", "hour": "h", "hours": "h",
	"day": "day", "days": "day",
	"week": "week", "weeks": "week",
	"month": "month", "months": "month",
	"year": "year", "years": "year", "yr": "year", "yrs": "year",

	"m/s": "m/s", "meters per second": "m/s", "mps": "m/s",
	"km/h": "km/h", "kmh": "km/h", "kph": "km/h", "kilometers per hour": "km/h",
	"mph": "mph", "miles per hour": "mph",
	"knot": "knot", "knots": "knot", "kn": "knot",

	"m2": "m2", "sqm": "m2", "square meter": "m2", "square meters": "m2",
	"km2": "km2", "square kilometer": "km2", "square kilometers": "km2",
	"cm2": "cm2", "square centimeter": "cm2", "square centimeters": "cm2",
	"ha": "ha", "hectare": "ha", "hectares": "ha",
	"acre": "acre", "acres": "acre",
	"ft2": "ft2", "square foot": "ft2", "square feet": "ft2",
	"mi2": "mi2", "square mile": "mi2", "square miles": "mi2",

	"c": "celsius", "celsius": "celsius", "centigrade": "celsius", "°c": "celsius",
	"f": "fahrenheit", "fahrenheit": "fahrenheit", "°f": "fahrenheit",
	"k": "kelvin", "kelvin": "kelvin", "°k": "kelvin",
}

func (t UnitConverterTool) Call(ctx context.Context, input string) (string, error) {
	var params UnitConverterToolInput
	if err := json.Unmarshal([]byte(input), &params); err != nil {
		return "", fmt.Errorf("failed to parse unit converter tool input: %v", err)
	}

	from, err := t.resolveUnit(params.FromUnit)
	if err != nil {
		return "", err
	}
	to, err := t.resolveUnit(params.ToUnit)
	if err != nil {
		return "", err
	}

	fromDef := unitTable[from]
	toDef := unitTable[to]
	if fromDef.category != toDef.category {
		return "", fmt.Errorf("cannot convert between %s (%s) and %s (%s)", from, fromDef.category, to, toDef.category)
	}

	var result float64
	if fromDef.category == "temperature" {
		result, err = convertTemperature(params.Value, from, to)
		if err != nil {
			return "", err
		}
	} else {
		result = params.Value * fromDef.factor / toDef.factor
	}

	return fmt.Sprintf("%s %s = %s %s", formatUnitValue(params.Value), from, formatUnitValue(result), to), nil
}

// resolveUnit maps a user-supplied unit name to its canonical form, falling
// back to fuzzy matching for close misspellings.
func (t UnitConverterTool) resolveUnit(name string) (string, error) {
	normalized := strings.ToLower(strings.TrimSpace(name))
	if normalized == "" {
		return "", fmt.Errorf("unit name cannot be empty")
	}

	if canonical, ok := unitAliases[normalized]; ok {
		return canonical, nil
	}

	ranks := fuzzy.RankFindFold(normalized, t.aliasKeys)
	sort.Sort(ranks)
	if len(ranks) > 0 && ranks[0].Distance <= 2 {
		return unitAliases[ranks[0].Target], nil
	}

	return "", fmt.Errorf("unknown unit %q", name)
}

func convertTemperature(value float64, from, to string) (float64, error) {
	// normalize to celsius first
	var celsius float64
	switch from {
	case "celsius":
		celsius = value
	case "fahrenheit":
		celsius = (value - 32) * 5 / 9
	case "kelvin":
		celsius = value - 273.15
	default:
		return 0, fmt.Errorf("unknown temperature unit %q", from)
	}

	switch to {
	case "celsius":
		return celsius, nil
	case "fahrenheit":
		return celsius*9/5 + 32, nil
	case "kelvin":
		return celsius + 273.15, nil
	}
	return 0, fmt.Errorf("unknown temperature unit %q", to)
}

func formatUnitValue(value float64) string {
	return strconv.FormatFloat(value, 'g', 8, 64)
}

func (t UnitConverterTool) GetAnthropicToolSpec() anthropic.ToolInputSchemaParam {
	return generateAnthropicSchema[UnitConverterToolInput]()
}
