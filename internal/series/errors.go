package series

import "fmt"

// IndexError is returned by Series.Get for a negative historical index.
type IndexError struct {
	SeriesName string
	Index      int
}

func (e *IndexError) Error() string {
	return fmt.Sprintf("series %q: negative index %d", e.SeriesName, e.Index)
}

// InsufficientDataError is returned by Series.Get when the requested index
// reaches further back than the committed history.
type InsufficientDataError struct {
	SeriesName string
	Index      int
	Available  int
}

func (e *InsufficientDataError) Error() string {
	return fmt.Sprintf("series %q: index %d requires at least %d bars, but only %d available",
		e.SeriesName, e.Index, e.Index+1, e.Available)
}
