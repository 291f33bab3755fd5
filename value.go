// Value provides the immutable variant-value primitive.
//
// Values are value types designed for stack allocation. Once created, a
// Value is never mutated; advancing a machine replaces the held Value with a
// fresh one. Fields are unexported so a payload cannot be attached or
// detached after construction.

package variantx

// Value pairs a variant tag with an optional payload. The payload is present
// only when the value was constructed with NewValueWith; payloadless
// variants report absence rather than a zero payload.
type Value[V comparable, P any] struct {
	tag     V
	payload P
	carries bool
}

// NewValue creates a payloadless value for tag.
func NewValue[V comparable, P any](tag V) Value[V, P] {
	return Value[V, P]{tag: tag}
}

// NewValueWith creates a value for tag carrying payload.
func NewValueWith[V comparable, P any](tag V, payload P) Value[V, P] {
	return Value[V, P]{tag: tag, payload: payload, carries: true}
}

// Tag returns the variant tag.
func (v Value[V, P]) Tag() V {
	return v.tag
}

// Payload returns the carried payload and whether one is present.
func (v Value[V, P]) Payload() (P, bool) {
	return v.payload, v.carries
}
