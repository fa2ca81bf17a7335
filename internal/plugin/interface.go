package plugin

// EntryProvider is the discovery capability plugins implement. A provider
// yields an unordered collection of entries; ordering and cross-entry
// validation are the registry's concern.
type EntryProvider interface {
	Entries() []Entry
}

// ProviderFunc adapts a plain function to the EntryProvider interface.
type ProviderFunc func() []Entry

// Entries implements EntryProvider.
func (f ProviderFunc) Entries() []Entry {
	return f()
}

// Providers combines multiple providers into one.
func Providers(providers ...EntryProvider) EntryProvider {
	return ProviderFunc(func() []Entry {
		var out []Entry
		for _, p := range providers {
			out = append(out, p.Entries()...)
		}
		return out
	})
}
