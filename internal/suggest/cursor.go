package suggest

import (
	"strings"

	"github.com/alexivanou/geocity-weather/internal/model"
)

// NoSelection is the cursor value when no candidate is highlighted
const NoSelection = -1

// Cursor is the keyboard selection state over the installed candidate list.
// The zero value is not ready for use; call NewCursor.
type Cursor struct {
	candidates []model.Candidate
	index      int
}

func NewCursor() *Cursor {
	return &Cursor{index: NoSelection}
}

// Install replaces the candidate list and clears the selection
func (c *Cursor) Install(candidates []model.Candidate) {
	c.candidates = candidates
	c.index = NoSelection
}

// Candidates returns the installed list
func (c *Cursor) Candidates() []model.Candidate { return c.candidates }

// Index returns the highlighted position, or NoSelection
func (c *Cursor) Index() int { return c.index }

func (c *Cursor) Len() int { return len(c.candidates) }

// MoveDown highlights the next candidate, stopping at the last one
func (c *Cursor) MoveDown() {
	if len(c.candidates) == 0 {
		return
	}
	c.index = min(c.index+1, len(c.candidates)-1)
}

// MoveUp highlights the previous candidate, stopping at the first one
func (c *Cursor) MoveUp() {
	if len(c.candidates) == 0 {
		return
	}
	c.index = max(c.index-1, 0)
}

// Highlight moves the cursor to i when it is in range
func (c *Cursor) Highlight(i int) bool {
	if i < 0 || i >= len(c.candidates) {
		return false
	}
	c.index = i
	return true
}

// Commit returns the label and resolution to fetch. With no highlight the
// trimmed query is used as a free-form city name; ok is false if it is empty.
func (c *Cursor) Commit(query string) (label string, res model.Resolution, ok bool) {
	if c.index >= 0 && c.index < len(c.candidates) {
		cand := c.candidates[c.index]
		return cand.Label, cand.Resolution, true
	}
	q := strings.TrimSpace(query)
	if q == "" {
		return "", model.Resolution{}, false
	}
	return q, model.ByName(q), true
}
