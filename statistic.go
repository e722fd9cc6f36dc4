package sooth

// Statistic records how many times a single event has been observed.
type Statistic struct {
	Event uint32
	Count uint32
}

// NewStatistic returns a Statistic for event with a count of zero.
func NewStatistic(event uint32) Statistic {
	return Statistic{Event: event}
}

// Increment returns a copy of the statistic with its count raised by one.
func (s Statistic) Increment() Statistic {
	s.Count++
	return s
}
