package aspect

// Option holds a value that may be absent. The zero Option is absent, so a set
// zero value (0, "", false) is distinguishable from no value at all.
type Option[T any] struct {
	value T
	set   bool
}

// Some returns a set Option.
func Some[T any](v T) Option[T] {
	return Option[T]{value: v, set: true}
}

// None returns an absent Option.
func None[T any]() Option[T] {
	return Option[T]{}
}

// Get returns the value and whether it is set.
func (o Option[T]) Get() (T, bool) {
	return o.value, o.set
}

// IsSet reports whether the Option holds a value.
func (o Option[T]) IsSet() bool {
	return o.set
}

// OrElse returns the value, or def when absent.
func (o Option[T]) OrElse(def T) T {
	if o.set {
		return o.value
	}
	return def
}
