// Package series implements the bar-indexed rolling history container
// ("Series[T]") that every indicator and the bar Context are built on, plus
// the Optional[T] absent-value convention used at its boundaries.
//
// Index 0 always denotes the current bar's value: if a value has been
// staged via SetCurrent it is returned directly; otherwise the most
// recently committed value is returned. Index i>0 refers to the committed
// value i bars back, with offsets shifting by one while a current value is
// staged — mirroring Pine Script's close[0]/close[1] semantics.
package series

// Series is a named, bounded, append-only rolling buffer of committed
// values plus one staged "current" value awaiting Commit or Rollback.
type Series[T any] struct {
	name        string
	maxBarsBack int
	buffer      []T // buffer[0] is the most recently committed value
	current     T
	hasCurrent  bool
}

// New allocates a Series bounded to maxBarsBack committed values.
func New[T any](name string, maxBarsBack int) *Series[T] {
	if maxBarsBack <= 0 {
		maxBarsBack = 5000
	}
	return &Series[T]{
		name:        name,
		maxBarsBack: maxBarsBack,
		buffer:      make([]T, 0, maxBarsBack),
	}
}

// Name returns the series' registered name.
func (s *Series[T]) Name() string { return s.name }

// SetCurrent stages v as the current bar's value.
func (s *Series[T]) SetCurrent(v T) {
	s.current = v
	s.hasCurrent = true
}

// Current returns the staged current value if one exists, else the most
// recent committed value. The second return is false if neither exists.
func (s *Series[T]) Current() (T, bool) {
	if s.hasCurrent {
		return s.current, true
	}
	if len(s.buffer) > 0 {
		return s.buffer[0], true
	}
	var zero T
	return zero, false
}

// Commit atomically promotes the staged current into the buffer and clears
// the stage. If no current was staged, it forward-fills the most recent
// committed value, or — if the buffer is empty — commits the zero value of
// T (which is the absent state when T is Optional[X]).
func (s *Series[T]) Commit() {
	var v T
	if s.hasCurrent {
		v = s.current
	} else if len(s.buffer) > 0 {
		v = s.buffer[0]
	}
	s.buffer = append([]T{v}, s.buffer...)
	if len(s.buffer) > s.maxBarsBack {
		s.buffer = s.buffer[:s.maxBarsBack]
	}
	s.hasCurrent = false
	var zero T
	s.current = zero
}

// Rollback discards the staged current value without touching history.
func (s *Series[T]) Rollback() {
	s.hasCurrent = false
	var zero T
	s.current = zero
}

// Get returns the value i bars back from the current bar (Get(0) is the
// current value). Negative i is a programmer error (IndexError); i beyond
// known history is InsufficientDataError.
func (s *Series[T]) Get(i int) (T, error) {
	var zero T
	if i == 0 && s.hasCurrent {
		return s.current, nil
	}

	bufIndex := i
	if s.hasCurrent && i > 0 {
		bufIndex = i - 1
	}

	if bufIndex < 0 {
		return zero, &IndexError{SeriesName: s.name, Index: i}
	}
	if bufIndex >= len(s.buffer) {
		return zero, &InsufficientDataError{SeriesName: s.name, Index: i, Available: len(s.buffer)}
	}
	return s.buffer[bufIndex], nil
}

// GetOr returns Get(i), substituting fallback on any error — the shape
// indicators use internally to stay warmup-safe without ever propagating a
// Series error to their caller.
func (s *Series[T]) GetOr(i int, fallback T) T {
	v, err := s.Get(i)
	if err != nil {
		return fallback
	}
	return v
}

// Len reports the number of committed values.
func (s *Series[T]) Len() int {
	return len(s.buffer)
}

// GetRange returns a newest-to-oldest snapshot of committed values over
// [start, stop).
func (s *Series[T]) GetRange(start, stop int) []T {
	if start < 0 {
		start = 0
	}
	if stop > len(s.buffer) {
		stop = len(s.buffer)
	}
	if start >= stop {
		return nil
	}
	out := make([]T, stop-start)
	copy(out, s.buffer[start:stop])
	return out
}
