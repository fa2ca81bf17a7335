package plugin

import (
	"github.com/metagraph-dev/metagraph/internal/types"
)

// EntryKind tags the payload carried by an Entry.
type EntryKind int

const (
	EntryAbstractType EntryKind = iota
	EntryConcreteType
	EntryTranslator
	EntryAbstractAlgorithm
	EntryConcreteAlgorithm
	EntryWrapper
)

// String returns the kind name used in registry diagnostics.
func (k EntryKind) String() string {
	switch k {
	case EntryAbstractType:
		return "abstract type"
	case EntryConcreteType:
		return "concrete type"
	case EntryTranslator:
		return "translator"
	case EntryAbstractAlgorithm:
		return "abstract algorithm"
	case EntryConcreteAlgorithm:
		return "concrete algorithm"
	case EntryWrapper:
		return "wrapper"
	default:
		return "unknown"
	}
}

// Entry is a single registration yielded by an EntryProvider. Exactly one
// payload field is set, matching Kind.
type Entry struct {
	Kind EntryKind

	AbstractType      *types.AbstractType
	ConcreteType      *types.ConcreteType
	Translator        *Translator
	AbstractAlgorithm *AbstractAlgorithm
	ConcreteAlgorithm *ConcreteAlgorithm
	Wrapper           *Wrapper
}

// Name returns the payload's identifier for diagnostics.
func (e Entry) Name() string {
	switch e.Kind {
	case EntryAbstractType:
		if e.AbstractType != nil {
			return e.AbstractType.Name
		}
	case EntryConcreteType:
		if e.ConcreteType != nil {
			return e.ConcreteType.Name
		}
	case EntryTranslator:
		if e.Translator != nil {
			return e.Translator.Name
		}
	case EntryAbstractAlgorithm:
		if e.AbstractAlgorithm != nil {
			return e.AbstractAlgorithm.Name
		}
	case EntryConcreteAlgorithm:
		if e.ConcreteAlgorithm != nil {
			return e.ConcreteAlgorithm.Name
		}
	case EntryWrapper:
		if e.Wrapper != nil {
			return e.Wrapper.Name
		}
	}
	return ""
}

// NewAbstractTypeEntry wraps an abstract type registration.
func NewAbstractTypeEntry(at *types.AbstractType) Entry {
	return Entry{Kind: EntryAbstractType, AbstractType: at}
}

// NewConcreteTypeEntry wraps a concrete type registration.
func NewConcreteTypeEntry(ct *types.ConcreteType) Entry {
	return Entry{Kind: EntryConcreteType, ConcreteType: ct}
}

// NewTranslatorEntry wraps a translator registration.
func NewTranslatorEntry(t *Translator) Entry {
	return Entry{Kind: EntryTranslator, Translator: t}
}

// NewAbstractAlgorithmEntry wraps an abstract algorithm registration.
func NewAbstractAlgorithmEntry(a *AbstractAlgorithm) Entry {
	return Entry{Kind: EntryAbstractAlgorithm, AbstractAlgorithm: a}
}

// NewConcreteAlgorithmEntry wraps a concrete algorithm registration.
func NewConcreteAlgorithmEntry(c *ConcreteAlgorithm) Entry {
	return Entry{Kind: EntryConcreteAlgorithm, ConcreteAlgorithm: c}
}

// NewWrapperEntry wraps a wrapper registration.
func NewWrapperEntry(w *Wrapper) Entry {
	return Entry{Kind: EntryWrapper, Wrapper: w}
}
