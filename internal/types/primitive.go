package types

// Primitive classifies scalar arguments that flow through dispatch without
// participating in the concrete type system.
type Primitive int

const (
	PrimitiveNone Primitive = iota
	PrimitiveInt
	PrimitiveFloat
	PrimitiveBool
	PrimitiveString
	PrimitiveAny
)

// String returns the primitive name used in plan rendering and diagnostics.
func (p Primitive) String() string {
	switch p {
	case PrimitiveInt:
		return "int"
	case PrimitiveFloat:
		return "float"
	case PrimitiveBool:
		return "bool"
	case PrimitiveString:
		return "string"
	case PrimitiveAny:
		return "any"
	default:
		return "none"
	}
}

// ClassifyPrimitive maps a runtime scalar onto its primitive kind.
// Non-scalars classify as PrimitiveNone.
func ClassifyPrimitive(value any) Primitive {
	switch value.(type) {
	case int, int8, int16, int32, int64, uint, uint8, uint16, uint32, uint64:
		return PrimitiveInt
	case float32, float64:
		return PrimitiveFloat
	case bool:
		return PrimitiveBool
	case string:
		return PrimitiveString
	default:
		return PrimitiveNone
	}
}

// PrimitiveAccepts reports whether an argument of the given kind binds to a
// parameter declared with the target kind. Integers widen to float, matching
// how numeric literals flow into numeric parameters.
func PrimitiveAccepts(param, arg Primitive) bool {
	if param == PrimitiveAny {
		return arg != PrimitiveNone
	}
	if param == arg {
		return true
	}
	return param == PrimitiveFloat && arg == PrimitiveInt
}
