// Package mapper holds small generic helpers for turning domain values into DTOs.
package mapper

// MapSlice applies fn to every item. The result is never nil, so an empty
// listing encodes as [] rather than null.
func MapSlice[T any, R any](items []T, fn func(T) R) []R {
	out := make([]R, len(items))
	for i, item := range items {
		out[i] = fn(item)
	}
	return out
}

// MapSliceWithError stops at the first failing item.
func MapSliceWithError[T any, R any](items []T, fn func(T) (R, error)) ([]R, error) {
	out := make([]R, len(items))
	for i, item := range items {
		mapped, err := fn(item)
		if err != nil {
			return nil, err
		}
		out[i] = mapped
	}
	return out, nil
}
