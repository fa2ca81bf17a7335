package types

// TypeInfo is the property extraction result for a runtime value: the
// abstract property vector plus the implementation-specific concrete one.
type TypeInfo struct {
	Abstract Properties
	Concrete Properties
}

// Combined merges the abstract and concrete vectors into a single map.
// Property names of the two domains are declared disjoint at registration.
func (ti TypeInfo) Combined() Properties {
	return ti.Abstract.Merge(ti.Concrete)
}

// ConcreteType is a named in-memory representation bound to exactly one
// AbstractType. The three callbacks are supplied by the declaring plugin.
type ConcreteType struct {
	Name     string
	Abstract string

	// Properties declares the concrete property domain.
	Properties []PropertySpec

	// IsTypeclass reports whether a runtime value is an instance of this type.
	IsTypeclass func(value any) bool

	// ExtractTypeInfo extracts the property vectors from an instance.
	// May be nil when the type carries no variable properties.
	ExtractTypeInfo func(value any) TypeInfo

	// AssertEqual checks semantic equality between two instances. Whether the
	// comparison is strict or tolerance-based is up to the plugin.
	AssertEqual func(a, b any) error
}

// TypeInfoOf runs the extractor against a value, falling back to the empty
// vectors when the type declares none.
func (c *ConcreteType) TypeInfoOf(value any) TypeInfo {
	if c.ExtractTypeInfo == nil {
		return TypeInfo{Abstract: Properties{}, Concrete: Properties{}}
	}
	info := c.ExtractTypeInfo(value)
	if info.Abstract == nil {
		info.Abstract = Properties{}
	}
	if info.Concrete == nil {
		info.Concrete = Properties{}
	}
	return info
}
