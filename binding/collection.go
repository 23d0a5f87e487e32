package binding

// Indexed is a random access collection. Whether indices start at 0 or 1
// depends on the collection kind and is documented where it is returned.
type Indexed[T any] interface {
	Count() int
	Get(i int) (T, error)
}

// Cursor is a forward-only sequence. First rewinds and returns the first
// element; Next returns the element after the previous one. A false
// second result means the sequence is exhausted.
//
// The position is held by the native collection, so two readers of the
// same cursor share it.
type Cursor[T any] interface {
	First() (T, bool, error)
	Next() (T, bool, error)
}

// Resetter is implemented by cursors that hold reading state which can be
// released.
type Resetter interface {
	ResetReading()
}

// Counter is implemented by cursors that know their length.
type Counter interface {
	Count() int
}
