package grid

import "github.com/ryanm101/gamehub/internal/catalog"

// DefaultThreshold is how many items from the end the trigger fires.
const DefaultThreshold = 4

// ScrollTrigger decides when scrolling should load the next page. It fires
// once on entering the zone near the end and stays quiet until the
// position leaves the zone or a new page arrives.
type ScrollTrigger struct {
	Threshold int

	fired bool
	pages int
}

// Observe reports whether the next page should be requested, given how
// many items remain below the current position.
func (t *ScrollTrigger) Observe(distanceToEnd int, s catalog.Snapshot) bool {
	if n := len(s.Pages); n != t.pages {
		t.pages = n
		t.fired = false
	}

	threshold := t.Threshold
	if threshold <= 0 {
		threshold = DefaultThreshold
	}
	if distanceToEnd > threshold {
		t.fired = false
		return false
	}

	if t.fired || !s.HasMore || s.Loading || s.Err != nil {
		return false
	}
	t.fired = true
	return true
}

// Reset re-arms the trigger, e.g. after the query changed.
func (t *ScrollTrigger) Reset() {
	t.fired = false
	t.pages = 0
}
