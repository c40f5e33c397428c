package note

// cached is a lazily populated slot for one derived field. The zero value
// is unset; get fills it on first access and returns the stored value
// until reset.
type cached[T any] struct {
	val T
	set bool
}

func (c *cached[T]) get(fill func() T) T {
	if !c.set {
		c.val = fill()
		c.set = true
	}
	return c.val
}

func (c *cached[T]) reset() {
	*c = cached[T]{}
}
