package dashboard

// Option is an optional selection: either unset or holding one value.
// The zero Option is unset.
type Option[T comparable] struct {
	value T
	set   bool
}

// Some returns an Option holding v.
func Some[T comparable](v T) Option[T] {
	return Option[T]{value: v, set: true}
}

// None returns an unset Option.
func None[T comparable]() Option[T] {
	return Option[T]{}
}

// Get returns the held value and whether one is set.
func (o Option[T]) Get() (T, bool) {
	return o.value, o.set
}

// IsSet reports whether a value is held.
func (o Option[T]) IsSet() bool {
	return o.set
}

// Is reports whether o holds exactly v.
func (o Option[T]) Is(v T) bool {
	return o.set && o.value == v
}

// Toggle applies reselection semantics: toggling to the held value clears
// the option, any other value replaces it.
func (o Option[T]) Toggle(v T) Option[T] {
	if o.Is(v) {
		return None[T]()
	}
	return Some(v)
}

// OrElse returns the held value, or def when unset.
func (o Option[T]) OrElse(def T) T {
	if o.set {
		return o.value
	}
	return def
}

// Clear returns an unset Option.
func (o Option[T]) Clear() Option[T] {
	return None[T]()
}
