// Package ptr helps with optional fields in requests and rows.
package ptr

// New returns a pointer to a copy of v.
func New[T any](v T) *T { return &v }

// Deref returns *p, or def when p is nil.
func Deref[T any](p *T, def T) T {
	if p == nil {
		return def
	}
	return *p
}
