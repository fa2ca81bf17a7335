package registry

import (
	"fmt"
	"sort"

	"github.com/metagraph-dev/metagraph/internal/logger"
	"github.com/metagraph-dev/metagraph/internal/plugin"
	"github.com/metagraph-dev/metagraph/internal/types"
	metagrapherrors "github.com/metagraph-dev/metagraph/pkg/errors"
)

// Registry owns the type, translator, and algorithm descriptors collected
// from plugin entry providers. After Finalize it is immutable; concurrent
// reads are safe without coordination.
type Registry struct {
	system *types.System

	translators   map[string]*plugin.Translator
	abstractAlgos map[string]*plugin.AbstractAlgorithm
	concreteAlgos map[string][]*plugin.ConcreteAlgorithm
	wrappers      map[string]*plugin.Wrapper

	// outgoing indexes translators by source concrete type, forming the
	// per-abstract-type translation multigraph.
	outgoing map[string][]*plugin.Translator

	finalized bool
	log       *logger.Logger
}

// New creates an empty registry.
func New(log *logger.Logger) *Registry {
	if log == nil {
		log = logger.NewNop()
	}
	return &Registry{
		system:        types.NewSystem(),
		translators:   make(map[string]*plugin.Translator),
		abstractAlgos: make(map[string]*plugin.AbstractAlgorithm),
		concreteAlgos: make(map[string][]*plugin.ConcreteAlgorithm),
		wrappers:      make(map[string]*plugin.Wrapper),
		outgoing:      make(map[string][]*plugin.Translator),
		log:           log,
	}
}

// Register collects every entry the provider yields. Entries may arrive in
// any order; cross-entry references are validated at Finalize.
func (r *Registry) Register(provider plugin.EntryProvider) error {
	if r.finalized {
		return metagrapherrors.NewRegistryError("registry already finalized", "", nil)
	}
	if provider == nil {
		return metagrapherrors.NewRegistryError("entry provider is nil", "", nil)
	}

	for _, entry := range provider.Entries() {
		if err := r.addEntry(entry); err != nil {
			return err
		}
	}
	return nil
}

func (r *Registry) addEntry(entry plugin.Entry) error {
	switch entry.Kind {
	case plugin.EntryAbstractType:
		return r.system.RegisterAbstract(entry.AbstractType)
	case plugin.EntryConcreteType:
		return r.system.RegisterConcrete(entry.ConcreteType)
	case plugin.EntryTranslator:
		t := entry.Translator
		if t == nil || t.Name == "" {
			return metagrapherrors.NewRegistryError("translator missing name", "", nil)
		}
		if t.Fn == nil {
			return metagrapherrors.NewRegistryError("translator missing function", t.Name, nil)
		}
		if _, exists := r.translators[t.Name]; exists {
			return metagrapherrors.NewRegistryError("translator already registered", t.Name, nil)
		}
		r.translators[t.Name] = t
		return nil
	case plugin.EntryAbstractAlgorithm:
		a := entry.AbstractAlgorithm
		if a == nil || a.Name == "" {
			return metagrapherrors.NewRegistryError("abstract algorithm missing name", "", nil)
		}
		if _, exists := r.abstractAlgos[a.Name]; exists {
			return metagrapherrors.NewRegistryError("abstract algorithm already registered", a.Name, nil)
		}
		r.abstractAlgos[a.Name] = a
		return nil
	case plugin.EntryConcreteAlgorithm:
		c := entry.ConcreteAlgorithm
		if c == nil || c.Name == "" {
			return metagrapherrors.NewRegistryError("concrete algorithm missing name", "", nil)
		}
		if c.Fn == nil {
			return metagrapherrors.NewRegistryError("concrete algorithm missing function", c.Name, nil)
		}
		r.concreteAlgos[c.Implements] = append(r.concreteAlgos[c.Implements], c)
		return nil
	case plugin.EntryWrapper:
		w := entry.Wrapper
		if w == nil || w.Name == "" {
			return metagrapherrors.NewRegistryError("wrapper missing name", "", nil)
		}
		key := w.Abstract + "." + w.Name
		if _, exists := r.wrappers[key]; exists {
			return metagrapherrors.NewRegistryError("wrapper already registered", key, nil)
		}
		r.wrappers[key] = w
		return nil
	default:
		return metagrapherrors.NewRegistryError(
			fmt.Sprintf("unknown entry kind %d", entry.Kind), entry.Name(), nil)
	}
}

// Finalize validates every cross-entry reference, builds the translation
// multigraph and the algorithm index, and freezes the registry.
func (r *Registry) Finalize() error {
	if r.finalized {
		return nil
	}

	if err := r.validateConcreteTypes(); err != nil {
		return err
	}
	if err := r.validateTranslators(); err != nil {
		return err
	}
	if err := r.validateConcreteAlgorithms(); err != nil {
		return err
	}
	if err := r.validateWrappers(); err != nil {
		return err
	}

	r.buildMultigraph()
	r.sortAlgorithmIndex()

	r.finalized = true
	r.log.WithFields(map[string]any{
		"abstract_types": len(r.system.AbstractNames()),
		"translators":    len(r.translators),
		"algorithms":     len(r.abstractAlgos),
	}).Debug("registry finalized")
	return nil
}

func (r *Registry) validateConcreteTypes() error {
	for _, abstract := range r.system.AbstractNames() {
		at, _ := r.system.Abstract(abstract)
		for _, name := range r.system.ConcreteNamesOf(abstract) {
			ct, _ := r.system.Concrete(name)
			// Declared concrete property names must not shadow the abstract domain.
			for _, spec := range ct.Properties {
				if _, clash := at.PropertySpec(spec.Name); clash {
					return metagrapherrors.NewRegistryError(
						fmt.Sprintf("concrete property %q shadows abstract property of %s", spec.Name, abstract),
						name, nil)
				}
			}
		}
	}

	// Every concrete type must reference a known abstract type.
	for _, name := range r.system.ConcreteNames() {
		ct, _ := r.system.Concrete(name)
		if _, ok := r.system.Abstract(ct.Abstract); !ok {
			return metagrapherrors.NewRegistryError(
				fmt.Sprintf("references unknown abstract type %q", ct.Abstract), ct.Name, nil)
		}
	}
	return nil
}

func (r *Registry) validateTranslators() error {
	names := make([]string, 0, len(r.translators))
	for name := range r.translators {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		t := r.translators[name]
		src, ok := r.system.Concrete(t.Source)
		if !ok {
			return metagrapherrors.NewRegistryError(
				fmt.Sprintf("unknown source concrete type %q", t.Source), name, nil)
		}
		dst, ok := r.system.Concrete(t.Target)
		if !ok {
			return metagrapherrors.NewRegistryError(
				fmt.Sprintf("unknown target concrete type %q", t.Target), name, nil)
		}
		if src.Abstract != dst.Abstract {
			return metagrapherrors.NewRegistryError(
				fmt.Sprintf("crosses abstract types %s and %s", src.Abstract, dst.Abstract), name, nil)
		}
	}
	return nil
}

func (r *Registry) validateConcreteAlgorithms() error {
	abstracts := make([]string, 0, len(r.concreteAlgos))
	for name := range r.concreteAlgos {
		abstracts = append(abstracts, name)
	}
	sort.Strings(abstracts)

	for _, abstractName := range abstracts {
		abstract, ok := r.abstractAlgos[abstractName]
		if !ok {
			return metagrapherrors.NewRegistryError(
				fmt.Sprintf("implements unknown abstract algorithm %q", abstractName),
				r.concreteAlgos[abstractName][0].Name, nil)
		}
		for _, impl := range r.concreteAlgos[abstractName] {
			if err := r.validateSignature(abstract, impl); err != nil {
				return err
			}
		}
	}
	return nil
}

func (r *Registry) validateSignature(abstract *plugin.AbstractAlgorithm, impl *plugin.ConcreteAlgorithm) error {
	if len(impl.Params) != len(abstract.Params) {
		return metagrapherrors.NewRegistryError(
			fmt.Sprintf("parameter count %d does not match %s (%d)",
				len(impl.Params), abstract.Name, len(abstract.Params)),
			impl.Name, nil)
	}

	for i, cp := range impl.Params {
		ap := abstract.Params[i]
		if cp.Name != ap.Name {
			return metagrapherrors.NewRegistryError(
				fmt.Sprintf("parameter %d named %q, abstract declares %q", i, cp.Name, ap.Name),
				impl.Name, nil)
		}
		if ap.IsTyped() {
			if !cp.IsTyped() {
				return metagrapherrors.NewRegistryError(
					fmt.Sprintf("parameter %q must refine abstract type %s", cp.Name, ap.Abstract),
					impl.Name, nil)
			}
			ct, ok := r.system.Concrete(cp.Concrete)
			if !ok {
				return metagrapherrors.NewRegistryError(
					fmt.Sprintf("parameter %q references unknown concrete type %q", cp.Name, cp.Concrete),
					impl.Name, nil)
			}
			if ct.Abstract != ap.Abstract {
				return metagrapherrors.NewRegistryError(
					fmt.Sprintf("parameter %q refines %s, abstract declares %s", cp.Name, ct.Abstract, ap.Abstract),
					impl.Name, nil)
			}
		} else if cp.IsTyped() {
			return metagrapherrors.NewRegistryError(
				fmt.Sprintf("scalar parameter %q cannot refine a concrete type", cp.Name),
				impl.Name, nil)
		}
	}

	if abstract.Returns.Abstract != "" {
		if impl.Returns == "" {
			return metagrapherrors.NewRegistryError(
				fmt.Sprintf("must declare a concrete return type for %s", abstract.Returns.Abstract),
				impl.Name, nil)
		}
		ct, ok := r.system.Concrete(impl.Returns)
		if !ok {
			return metagrapherrors.NewRegistryError(
				fmt.Sprintf("unknown return concrete type %q", impl.Returns), impl.Name, nil)
		}
		if ct.Abstract != abstract.Returns.Abstract {
			return metagrapherrors.NewRegistryError(
				fmt.Sprintf("return type %s belongs to %s, abstract declares %s",
					impl.Returns, ct.Abstract, abstract.Returns.Abstract),
				impl.Name, nil)
		}
	}
	return nil
}

func (r *Registry) validateWrappers() error {
	keys := make([]string, 0, len(r.wrappers))
	for key := range r.wrappers {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	for _, key := range keys {
		w := r.wrappers[key]
		if _, ok := r.system.Abstract(w.Abstract); !ok {
			return metagrapherrors.NewRegistryError(
				fmt.Sprintf("references unknown abstract type %q", w.Abstract), key, nil)
		}
		if w.Build == nil {
			return metagrapherrors.NewRegistryError("wrapper missing build function", key, nil)
		}
	}
	return nil
}

func (r *Registry) buildMultigraph() {
	for _, t := range r.translators {
		r.outgoing[t.Source] = append(r.outgoing[t.Source], t)
	}
	for source := range r.outgoing {
		edges := r.outgoing[source]
		sort.Slice(edges, func(i, j int) bool { return edges[i].Name < edges[j].Name })
	}
}

func (r *Registry) sortAlgorithmIndex() {
	for name := range r.concreteAlgos {
		impls := r.concreteAlgos[name]
		sort.Slice(impls, func(i, j int) bool { return impls[i].Name < impls[j].Name })
	}
}

// System exposes the type system for inference and lookups.
func (r *Registry) System() *types.System {
	return r.system
}

// Translator looks up a translator by name.
func (r *Registry) Translator(name string) (*plugin.Translator, bool) {
	t, ok := r.translators[name]
	return t, ok
}

// OutgoingFrom returns the translators leaving a concrete type, sorted by
// name for deterministic traversal.
func (r *Registry) OutgoingFrom(concrete string) []*plugin.Translator {
	return r.outgoing[concrete]
}

// TranslatorNames returns all translator names in sorted order.
func (r *Registry) TranslatorNames() []string {
	names := make([]string, 0, len(r.translators))
	for name := range r.translators {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// AbstractAlgorithm looks up an abstract algorithm by dotted name.
func (r *Registry) AbstractAlgorithm(name string) (*plugin.AbstractAlgorithm, bool) {
	a, ok := r.abstractAlgos[name]
	return a, ok
}

// AlgorithmNames returns all abstract algorithm names in sorted order.
func (r *Registry) AlgorithmNames() []string {
	names := make([]string, 0, len(r.abstractAlgos))
	for name := range r.abstractAlgos {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Implementations returns the concrete algorithms registered for an abstract
// algorithm, sorted by implementation name.
func (r *Registry) Implementations(abstractName string) []*plugin.ConcreteAlgorithm {
	return r.concreteAlgos[abstractName]
}

// Wrapper looks up a wrapper by abstract type and wrapper name.
func (r *Registry) Wrapper(abstract, name string) (*plugin.Wrapper, bool) {
	w, ok := r.wrappers[abstract+"."+name]
	return w, ok
}

// WrapperKeys returns the registered wrapper keys in sorted order.
func (r *Registry) WrapperKeys() []string {
	keys := make([]string, 0, len(r.wrappers))
	for key := range r.wrappers {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}

// Finalized reports whether Finalize has completed.
func (r *Registry) Finalized() bool {
	return r.finalized
}
