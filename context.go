package sooth

// Context holds the distribution of events observed within one context.
// Statistics stays sorted ascending by event so lookups can binary search,
// and Count is always the sum of the statistic counts.
type Context struct {
	ID         uint32
	Count      uint32
	Statistics []Statistic
}

// NewContext returns an empty Context for id.
func NewContext(id uint32) Context {
	return Context{ID: id}
}

// FindStatistic binary searches the statistics for event. On a hit it
// returns the statistic, its index, and true. On a miss it returns a
// zero-count placeholder for the event, the index at which inserting it
// keeps the slice sorted, and false.
func (c Context) FindStatistic(event uint32) (Statistic, int, bool) {
	low, high := 0, len(c.Statistics)-1
	for low <= high {
		mid := low + (high-low)/2
		s := c.Statistics[mid]
		switch {
		case s.Event == event:
			return s, mid, true
		case s.Event < event:
			low = mid + 1
		default:
			high = mid - 1
		}
	}
	return NewStatistic(event), low, false
}

// Observe records one occurrence of event and returns the updated context
// along with the incremented statistic. The receiver is not modified: the
// statistics slice is rebuilt around the touched entry, so values holding
// the old context keep seeing its old distribution.
func (c Context) Observe(event uint32) (Context, Statistic) {
	s, i, ok := c.FindStatistic(event)
	s = s.Increment()

	stats := make([]Statistic, 0, len(c.Statistics)+1)
	stats = append(stats, c.Statistics[:i]...)
	stats = append(stats, s)
	if ok {
		stats = append(stats, c.Statistics[i+1:]...)
	} else {
		stats = append(stats, c.Statistics[i:]...)
	}

	c.Statistics = stats
	c.Count++
	return c, s
}
