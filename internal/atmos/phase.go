package atmos

import "atmos-ca/internal/grid"

// PhaseCount is the length of the scheduling cycle.
const PhaseCount = 16

// Cursor selects which phase runs this tick.
type Cursor struct {
	X uint8 `json:"x"`
	Y uint8 `json:"y"`
}

// Advance moves the cursor one step through the 4×4 cycle.
func (c *Cursor) Advance() {
	c.X++
	if c.X > 3 {
		c.X = 0
		c.Y++
	}
	if c.Y > 3 {
		c.X = 0
		c.Y = 0
	}
}

// Index returns the bucket index for the cursor.
func (c Cursor) Index() int { return int(c.Y)*4 + int(c.X) }

// Matches reports whether u belongs to the cursor's phase.
func (c Cursor) Matches(u *grid.Update) bool {
	return u.PhaseX == c.X && u.PhaseY == c.Y
}

// buckets groups handles by phase so a tick walks only its subset.
type buckets [PhaseCount][]grid.Handle

func buildBuckets(s *grid.Store, kind grid.Kind) buckets {
	var b buckets
	for _, h := range s.Handles(kind) {
		u := s.Update(h)
		idx := int(u.PhaseY)*4 + int(u.PhaseX)
		b[idx] = append(b[idx], h)
	}
	return b
}
