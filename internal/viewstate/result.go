package viewstate

// Result is the outcome of a background operation.
type Result[T any] struct {
	Value T
	Err   error
}

// Ok wraps a successful value.
func Ok[T any](v T) Result[T] {
	return Result[T]{Value: v}
}

// Fail wraps an error.
func Fail[T any](err error) Result[T] {
	return Result[T]{Err: err}
}

// Succeeded reports whether the operation completed without error.
func (r Result[T]) Succeeded() bool {
	return r.Err == nil
}
