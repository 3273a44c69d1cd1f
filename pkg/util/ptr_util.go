package util

// Ptr returns a pointer to a copy of v. Handy for optional fields of request literals.
func Ptr[V any](v V) *V {
	return &v
}
