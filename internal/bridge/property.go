package bridge

import (
	"errors"
	"fmt"
	"sort"

	"github.com/liveosc/liveosc-core/internal/session"
)

// Kind is the declared value kind of a property, used to coerce inbound set
// arguments before they reach the typed setter.
type Kind int

// Property value kinds.
const (
	KindInt Kind = iota
	KindFloat
	KindBool
	KindString
	KindRef // value is another entity handle; never settable over the wire
)

// getterFunc reads a property from an entity reference.
type getterFunc func(ref any) (any, error)

// setterFunc writes an already-coerced value to an entity reference.
type setterFunc func(ref any, value any) error

// methodFunc invokes a named operation on an entity reference.
type methodFunc func(ref any, args []any) ([]any, error)

// Descriptor binds one property name to typed accessors for one entity
// class. Descriptors are built with the typed constructors below (Float,
// IntRO, ...) and registered into a Table at startup.
type Descriptor struct {
	Name string
	Kind Kind
	get  getterFunc
	set  setterFunc // nil for read-only properties
}

// NamedMethod binds one method name to an operation for one entity class.
type NamedMethod struct {
	Name string
	call methodFunc
}

// Table is the per-entity-class descriptor table. It is populated once at
// startup and read-only afterwards, so no locking is needed.
type Table struct {
	class   string
	props   map[string]Descriptor
	methods map[string]methodFunc
}

// NewTable creates an empty descriptor table for the named entity class.
func NewTable(class string) *Table {
	return &Table{
		class:   class,
		props:   make(map[string]Descriptor),
		methods: make(map[string]methodFunc),
	}
}

// Class returns the entity class name the table was built for.
func (t *Table) Class() string { return t.class }

// Register adds a property descriptor. Property names are unique per entity
// class; registering a duplicate panics, since tables are static wiring.
func (t *Table) Register(d Descriptor) {
	if _, ok := t.props[d.Name]; ok {
		panic(fmt.Sprintf("bridge: duplicate property %q on class %q", d.Name, t.class))
	}
	t.props[d.Name] = d
}

// RegisterMethod adds a named operation. Duplicate names panic.
func (t *Table) RegisterMethod(m NamedMethod) {
	if _, ok := t.methods[m.Name]; ok {
		panic(fmt.Sprintf("bridge: duplicate method %q on class %q", m.Name, t.class))
	}
	t.methods[m.Name] = m.call
}

// Has reports whether the table knows the property.
func (t *Table) Has(prop string) bool {
	_, ok := t.props[prop]
	return ok
}

// Writable reports whether the property exists and has a setter.
func (t *Table) Writable(prop string) bool {
	d, ok := t.props[prop]
	return ok && d.set != nil
}

// PropertyNames returns all property names in sorted order.
func (t *Table) PropertyNames() []string {
	out := make([]string, 0, len(t.props))
	for name := range t.props {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}

// MethodNames returns all method names in sorted order.
func (t *Table) MethodNames() []string {
	out := make([]string, 0, len(t.methods))
	for name := range t.methods {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}

// Get reads a property from ref.
func (t *Table) Get(ref any, prop string) (any, error) {
	d, ok := t.props[prop]
	if !ok {
		return nil, fmt.Errorf("%w: %s.%s", ErrUnknownProperty, t.class, prop)
	}
	return d.get(ref)
}

// Set coerces value to the property's declared kind and writes it to ref.
func (t *Table) Set(ref any, prop string, value any) error {
	d, ok := t.props[prop]
	if !ok {
		return fmt.Errorf("%w: %s.%s", ErrUnknownProperty, t.class, prop)
	}
	if d.set == nil {
		return fmt.Errorf("%w: %s.%s", ErrReadOnlyProperty, t.class, prop)
	}
	coerced, err := coerce(d.Kind, value)
	if err != nil {
		return fmt.Errorf("setting %s.%s: %w", t.class, prop, err)
	}
	return d.set(ref, coerced)
}

// Call invokes a named operation on ref.
func (t *Table) Call(ref any, method string, args []any) ([]any, error) {
	fn, ok := t.methods[method]
	if !ok {
		return nil, fmt.Errorf("%w: %s.%s", ErrUnknownMethod, t.class, method)
	}
	return fn(ref, args)
}

// ─── Typed descriptor constructors ─────────────────────────────────
//
// Each constructor captures typed accessors (usually interface method
// expressions) and wraps them with the class assertion and stale-error
// mapping, so registering a property stays a one-liner:
//
//	t.Register(bridge.Float("tempo", session.Song.Tempo, session.Song.SetTempo))

func entityOf[E any](ref any) (E, error) {
	e, ok := ref.(E)
	if !ok {
		return e, fmt.Errorf("%w: have %T", ErrWrongEntityClass, ref)
	}
	return e, nil
}

// wrapStale maps the session's stale sentinel into the bridge taxonomy while
// keeping the original chain intact for errors.Is.
func wrapStale(err error) error {
	if err != nil && errors.Is(err, session.ErrStale) {
		return fmt.Errorf("%w: %w", ErrStaleReference, err)
	}
	return err
}

func getter[E, V any](get func(E) (V, error)) getterFunc {
	return func(ref any) (any, error) {
		e, err := entityOf[E](ref)
		if err != nil {
			return nil, err
		}
		v, err := get(e)
		if err != nil {
			return nil, wrapStale(err)
		}
		return v, nil
	}
}

func setter[E, V any](set func(E, V) error) setterFunc {
	return func(ref any, value any) error {
		e, err := entityOf[E](ref)
		if err != nil {
			return err
		}
		v, ok := value.(V)
		if !ok {
			return fmt.Errorf("%w: coerced value is %T", ErrBadArguments, value)
		}
		return wrapStale(set(e, v))
	}
}

// Int declares a read/write integer property.
func Int[E any](name string, get func(E) (int, error), set func(E, int) error) Descriptor {
	return Descriptor{Name: name, Kind: KindInt, get: getter(get), set: setter(set)}
}

// IntRO declares a read-only integer property.
func IntRO[E any](name string, get func(E) (int, error)) Descriptor {
	return Descriptor{Name: name, Kind: KindInt, get: getter(get)}
}

// Float declares a read/write float property.
func Float[E any](name string, get func(E) (float64, error), set func(E, float64) error) Descriptor {
	return Descriptor{Name: name, Kind: KindFloat, get: getter(get), set: setter(set)}
}

// FloatRO declares a read-only float property.
func FloatRO[E any](name string, get func(E) (float64, error)) Descriptor {
	return Descriptor{Name: name, Kind: KindFloat, get: getter(get)}
}

// Bool declares a read/write boolean property.
func Bool[E any](name string, get func(E) (bool, error), set func(E, bool) error) Descriptor {
	return Descriptor{Name: name, Kind: KindBool, get: getter(get), set: setter(set)}
}

// BoolRO declares a read-only boolean property.
func BoolRO[E any](name string, get func(E) (bool, error)) Descriptor {
	return Descriptor{Name: name, Kind: KindBool, get: getter(get)}
}

// String declares a read/write string property.
func String[E any](name string, get func(E) (string, error), set func(E, string) error) Descriptor {
	return Descriptor{Name: name, Kind: KindString, get: getter(get), set: setter(set)}
}

// StringRO declares a read-only string property.
func StringRO[E any](name string, get func(E) (string, error)) Descriptor {
	return Descriptor{Name: name, Kind: KindString, get: getter(get)}
}

// RefRO declares a read-only property whose value is another entity handle.
// Handlers must resolve such values to indices before they reach the wire.
func RefRO[E, V any](name string, get func(E) (V, error)) Descriptor {
	return Descriptor{Name: name, Kind: KindRef, get: func(ref any) (any, error) {
		e, err := entityOf[E](ref)
		if err != nil {
			return nil, err
		}
		v, err := get(e)
		if err != nil {
			return nil, wrapStale(err)
		}
		// Collapse a nil handle into an untyped nil so callers can test
		// with == nil.
		var zero V
		if any(v) == any(zero) {
			return nil, nil
		}
		return v, nil
	}}
}

// Method0 declares a niladic operation.
func Method0[E any](name string, call func(E) error) NamedMethod {
	return NamedMethod{Name: name, call: func(ref any, _ []any) ([]any, error) {
		e, err := entityOf[E](ref)
		if err != nil {
			return nil, err
		}
		return nil, wrapStale(call(e))
	}}
}

// MethodInt declares an operation taking one integer argument. The argument
// defaults to -1 when absent, matching the host convention of "at the end"
// for positional edits.
func MethodInt[E any](name string, call func(E, int) error) NamedMethod {
	return NamedMethod{Name: name, call: func(ref any, args []any) ([]any, error) {
		e, err := entityOf[E](ref)
		if err != nil {
			return nil, err
		}
		n := -1
		if len(args) > 0 {
			n, err = toInt(args[0])
			if err != nil {
				return nil, err
			}
		}
		return nil, wrapStale(call(e, n))
	}}
}

// MethodFloat declares an operation taking one float argument.
func MethodFloat[E any](name string, call func(E, float64) error) NamedMethod {
	return NamedMethod{Name: name, call: func(ref any, args []any) ([]any, error) {
		e, err := entityOf[E](ref)
		if err != nil {
			return nil, err
		}
		if len(args) == 0 {
			return nil, fmt.Errorf("%w: %s requires one numeric argument", ErrBadArguments, name)
		}
		f, err := toFloat(args[0])
		if err != nil {
			return nil, err
		}
		return nil, wrapStale(call(e, f))
	}}
}

// ─── Coercion ──────────────────────────────────────────────────────
//
// Protocol transports deliver narrow numeric types (int32, float32); the
// descriptor setters expect Go-native widths. coerce normalizes per the
// property's declared kind.

func coerce(kind Kind, value any) (any, error) {
	switch kind {
	case KindInt:
		return toInt(value)
	case KindFloat:
		return toFloat(value)
	case KindBool:
		return toBool(value)
	case KindString:
		return toString(value)
	default:
		return nil, fmt.Errorf("%w: kind %d is not settable", ErrBadArguments, kind)
	}
}

func toInt(v any) (int, error) {
	switch n := v.(type) {
	case int:
		return n, nil
	case int32:
		return int(n), nil
	case int64:
		return int(n), nil
	case float32:
		return int(n), nil
	case float64:
		return int(n), nil
	case bool:
		if n {
			return 1, nil
		}
		return 0, nil
	default:
		return 0, fmt.Errorf("%w: cannot coerce %T to int", ErrBadArguments, v)
	}
}

func toFloat(v any) (float64, error) {
	switch n := v.(type) {
	case float64:
		return n, nil
	case float32:
		return float64(n), nil
	case int:
		return float64(n), nil
	case int32:
		return float64(n), nil
	case int64:
		return float64(n), nil
	case bool:
		if n {
			return 1, nil
		}
		return 0, nil
	default:
		return 0, fmt.Errorf("%w: cannot coerce %T to float", ErrBadArguments, v)
	}
}

func toBool(v any) (bool, error) {
	switch n := v.(type) {
	case bool:
		return n, nil
	case int:
		return n != 0, nil
	case int32:
		return n != 0, nil
	case int64:
		return n != 0, nil
	case float32:
		return n != 0, nil
	case float64:
		return n != 0, nil
	default:
		return false, fmt.Errorf("%w: cannot coerce %T to bool", ErrBadArguments, v)
	}
}

func toString(v any) (string, error) {
	if s, ok := v.(string); ok {
		return s, nil
	}
	return "", fmt.Errorf("%w: cannot coerce %T to string", ErrBadArguments, v)
}
