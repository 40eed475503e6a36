package loader

// Status identifies which variant of a DataState is active.
type Status string

// Possible DataState variants.
const (
	StatusIdle       Status = "idle"
	StatusLoading    Status = "loading"
	StatusRefreshing Status = "refreshing"
	StatusSuccess    Status = "success"
	StatusError      Status = "error"
)

// DataState is the tagged union a loader call resolves to. Exactly one
// variant is active; it is a pure projection of a single call and is
// never persisted.
//
//   - Idle/Loading carry nothing.
//   - Refreshing carries the (stale) data being served while a
//     background refresh runs.
//   - Success carries data plus whether it was stale when served.
//   - Error carries the error, plus cached fallback data when a stale
//     entry existed at failure time (HasCached reports which).
type DataState[T any] struct {
	Status    Status
	Data      T
	IsStale   bool
	Err       error
	HasCached bool
}

// Idle returns the idle state.
func Idle[T any]() DataState[T] {
	return DataState[T]{Status: StatusIdle}
}

// Loading returns the loading state.
func Loading[T any]() DataState[T] {
	return DataState[T]{Status: StatusLoading}
}

// Refreshing returns the refreshing state carrying stale data.
func Refreshing[T any](data T) DataState[T] {
	return DataState[T]{Status: StatusRefreshing, Data: data, IsStale: true}
}

// Success returns the success state.
func Success[T any](data T, isStale bool) DataState[T] {
	return DataState[T]{Status: StatusSuccess, Data: data, IsStale: isStale}
}

// Errored returns the error state with no fallback data.
func Errored[T any](err error) DataState[T] {
	return DataState[T]{Status: StatusError, Err: err}
}

// ErroredWithCache returns the error state carrying cached fallback
// data the caller may choose to display alongside the error.
func ErroredWithCache[T any](err error, cached T) DataState[T] {
	return DataState[T]{Status: StatusError, Err: err, Data: cached, HasCached: true}
}

// IsSuccess reports whether the success variant is active.
func (s DataState[T]) IsSuccess() bool { return s.Status == StatusSuccess }

// IsError reports whether the error variant is active.
func (s DataState[T]) IsError() bool { return s.Status == StatusError }

// IsRefreshing reports whether the refreshing variant is active.
func (s DataState[T]) IsRefreshing() bool { return s.Status == StatusRefreshing }
