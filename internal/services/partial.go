package services

// Partial carries a computed value together with the sources that failed to
// contribute to it. Fan-out aggregations produce a Partial and each caller
// chooses its own tolerance: the trend analyzer treats any failed source as
// fatal, while the member report keeps going and reports failed members as
// zero contribution.
type Partial[T any] struct {
	Value         T
	FailedSources []string
}

// Complete reports whether every source contributed.
func (p Partial[T]) Complete() bool { return len(p.FailedSources) == 0 }
