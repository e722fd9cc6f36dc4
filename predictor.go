// Package sooth implements a minimal stochastic predictive model. A
// Predictor counts, one observation at a time, how often each event follows
// each context, and answers questions about the resulting distributions:
// frequency, Shannon uncertainty, surprise, and deterministic weighted
// selection.
//
// Values are persistent: Observe returns a new Predictor and leaves the old
// one intact, sharing everything it did not touch. The package carries no
// randomness of its own; Select is a pure function of a caller-supplied
// limit, so callers own their source of entropy. Context and event IDs are
// opaque uint32 values whose meaning belongs entirely to the caller.
package sooth

import "math"

// Predictor is the top of the model: every context observed so far, sorted
// ascending by ID, plus the event reported when a selection cannot succeed.
type Predictor struct {
	ErrorEvent uint32
	Contexts   []Context
}

// New returns an empty Predictor whose failed selections yield errorEvent.
func New(errorEvent uint32) Predictor {
	return Predictor{ErrorEvent: errorEvent}
}

// FindContext binary searches the contexts for id. On a hit it returns the
// context, its index, and true. On a miss it returns an empty context for
// the id, the index at which inserting it keeps the slice sorted, and
// false.
func (p Predictor) FindContext(id uint32) (Context, int, bool) {
	low, high := 0, len(p.Contexts)-1
	for low <= high {
		mid := low + (high-low)/2
		c := p.Contexts[mid]
		switch {
		case c.ID == id:
			return c, mid, true
		case c.ID < id:
			low = mid + 1
		default:
			high = mid - 1
		}
	}
	return NewContext(id), low, false
}

// Observe records that event followed the context identified by id and
// returns the updated predictor along with the event's new count within
// that context. Only the touched context is rebuilt; every other context
// still shares its statistics with the previous predictor value.
func (p Predictor) Observe(id, event uint32) (Predictor, uint32) {
	c, i, ok := p.FindContext(id)
	c, s := c.Observe(event)

	contexts := make([]Context, 0, len(p.Contexts)+1)
	contexts = append(contexts, p.Contexts[:i]...)
	contexts = append(contexts, c)
	if ok {
		contexts = append(contexts, p.Contexts[i+1:]...)
	} else {
		contexts = append(contexts, p.Contexts[i:]...)
	}

	p.Contexts = contexts
	return p, s.Count
}

// Count returns the total number of observations recorded within the
// context identified by id, or zero for an unknown context.
func (p Predictor) Count(id uint32) uint32 {
	c, _, ok := p.FindContext(id)
	if !ok {
		return 0
	}
	return c.Count
}

// Size returns the number of distinct events observed within the context
// identified by id, or zero for an unknown context.
func (p Predictor) Size(id uint32) int {
	c, _, ok := p.FindContext(id)
	if !ok {
		return 0
	}
	return len(c.Statistics)
}

// Probability is one entry of a context's distribution: an event and the
// fraction of the context's observations it accounts for.
type Probability struct {
	Event     uint32
	Frequency float64
}

// Distribution returns the probability distribution over events observed
// within the context identified by id, in ascending event order. Unknown
// contexts report (nil, false).
func (p Predictor) Distribution(id uint32) ([]Probability, bool) {
	c, _, ok := p.FindContext(id)
	if !ok || c.Count == 0 {
		return nil, false
	}
	dist := make([]Probability, len(c.Statistics))
	for i, s := range c.Statistics {
		dist[i] = Probability{
			Event:     s.Event,
			Frequency: float64(s.Count) / float64(c.Count),
		}
	}
	return dist, true
}

// Frequency returns the fraction of observations within the context
// identified by id that were event. Unknown contexts and unseen events
// both report exactly zero rather than an error.
func (p Predictor) Frequency(id, event uint32) float64 {
	c, _, ok := p.FindContext(id)
	if !ok || c.Count == 0 {
		return 0
	}
	s, _, ok := c.FindStatistic(event)
	if !ok {
		return 0
	}
	return float64(s.Count) / float64(c.Count)
}

// Uncertainty returns the Shannon entropy, in bits, of the distribution
// within the context identified by id. A context that has never been
// observed has no distribution to measure, reported through the bool.
func (p Predictor) Uncertainty(id uint32) (float64, bool) {
	c, _, ok := p.FindContext(id)
	if !ok || c.Count == 0 {
		return 0, false
	}
	var sum float64
	for _, s := range c.Statistics {
		freq := float64(s.Count) / float64(c.Count)
		sum += freq * math.Log2(freq)
	}
	return -sum, true
}

// Surprise returns how unexpected event is within the context identified
// by id, in bits: the negative log2 of its frequency. Events never seen
// within the context have no surprise value, reported through the bool.
func (p Predictor) Surprise(id, event uint32) (float64, bool) {
	freq := p.Frequency(id, event)
	if freq == 0 {
		return 0, false
	}
	return -math.Log2(freq), true
}

// Select walks the distribution within the context identified by id,
// spending limit against each statistic's count in event order; the
// statistic that brings the remaining limit to zero or below is selected.
// A limit of zero, a limit beyond the context's total count, and an
// unknown context all select the error event.
func (p Predictor) Select(id, limit uint32) uint32 {
	c, _, ok := p.FindContext(id)
	if !ok || limit == 0 || limit > c.Count {
		return p.ErrorEvent
	}
	for _, s := range c.Statistics {
		if limit <= s.Count {
			return s.Event
		}
		limit -= s.Count
	}
	return p.ErrorEvent
}
