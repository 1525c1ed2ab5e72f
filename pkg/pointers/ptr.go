// Package pointers helps build the pointer-typed optional fields used by
// partial update payloads.
package pointers

// Ptr returns a pointer to v.
func Ptr[T any](v T) *T {
	return &v
}
