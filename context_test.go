package sooth

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestFindStatistic(t *testing.T) {
	c := Context{
		ID:    1,
		Count: 6,
		Statistics: []Statistic{
			{Event: 2, Count: 1},
			{Event: 5, Count: 2},
			{Event: 9, Count: 3},
		},
	}

	tests := []struct {
		name      string
		event     uint32
		wantCount uint32
		wantIndex int
		wantFound bool
	}{
		{name: "First", event: 2, wantCount: 1, wantIndex: 0, wantFound: true},
		{name: "Middle", event: 5, wantCount: 2, wantIndex: 1, wantFound: true},
		{name: "Last", event: 9, wantCount: 3, wantIndex: 2, wantFound: true},
		{name: "Before All", event: 1, wantIndex: 0, wantFound: false},
		{name: "Between", event: 7, wantIndex: 2, wantFound: false},
		{name: "After All", event: 12, wantIndex: 3, wantFound: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, i, found := c.FindStatistic(tt.event)
			if s.Event != tt.event {
				t.Errorf("Event = %d, want %d", s.Event, tt.event)
			}
			if s.Count != tt.wantCount {
				t.Errorf("Count = %d, want %d", s.Count, tt.wantCount)
			}
			if i != tt.wantIndex {
				t.Errorf("index = %d, want %d", i, tt.wantIndex)
			}
			if found != tt.wantFound {
				t.Errorf("found = %v, want %v", found, tt.wantFound)
			}
		})
	}
}

func TestFindStatisticEmpty(t *testing.T) {
	c := NewContext(3)
	s, i, found := c.FindStatistic(8)
	if found {
		t.Error("found an event in an empty context")
	}
	if i != 0 {
		t.Errorf("insertion index = %d, want 0", i)
	}
	if s.Event != 8 || s.Count != 0 {
		t.Errorf("placeholder = %+v, want event 8 with zero count", s)
	}
}

func TestContextObserve(t *testing.T) {
	c := NewContext(0)

	c, s := c.Observe(5)
	if s.Event != 5 || s.Count != 1 {
		t.Errorf("first observation of 5 returned %+v, want count 1", s)
	}
	c, _ = c.Observe(9)
	c, _ = c.Observe(2)
	c, s = c.Observe(5)
	if s.Count != 2 {
		t.Errorf("second observation of 5 returned count %d, want 2", s.Count)
	}

	want := []Statistic{
		{Event: 2, Count: 1},
		{Event: 5, Count: 2},
		{Event: 9, Count: 1},
	}
	if diff := cmp.Diff(want, c.Statistics); diff != "" {
		t.Errorf("statistics mismatch (-want +got):\n%s", diff)
	}
	if c.Count != 4 {
		t.Errorf("Count = %d, want 4", c.Count)
	}
}

func TestContextObservePersistent(t *testing.T) {
	base := NewContext(0)
	base, _ = base.Observe(1)
	base, _ = base.Observe(3)

	next, _ := base.Observe(2)

	if base.Count != 2 || len(base.Statistics) != 2 {
		t.Errorf("base changed: count %d with %d statistics, want 2 and 2", base.Count, len(base.Statistics))
	}
	if next.Count != 3 || len(next.Statistics) != 3 {
		t.Errorf("next = count %d with %d statistics, want 3 and 3", next.Count, len(next.Statistics))
	}
}
