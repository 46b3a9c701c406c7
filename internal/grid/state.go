package grid

// State is the sleep/wake state of a record. Records start Dormant.
type State uint8

const (
	Dormant State = iota
	Active
)

func (s State) String() string {
	if s == Active {
		return "active"
	}
	return "dormant"
}

// Transition is a deferred state change recorded during a parallel pass.
type Transition struct {
	Handle Handle
	To     State
}

// Batch collects transitions for one chunk of work. A batch is owned by a
// single worker while a stage runs and is drained after the barrier.
type Batch struct {
	items []Transition
}

// Wake queues h to become Active.
func (b *Batch) Wake(h Handle) { b.items = append(b.items, Transition{Handle: h, To: Active}) }

// Sleep queues h to become Dormant.
func (b *Batch) Sleep(h Handle) { b.items = append(b.items, Transition{Handle: h, To: Dormant}) }

// Len returns the number of queued transitions.
func (b *Batch) Len() int { return len(b.items) }

// Items exposes the queued transitions in insertion order.
func (b *Batch) Items() []Transition { return b.items }

// Reset empties the batch, keeping its storage.
func (b *Batch) Reset() { b.items = b.items[:0] }

// Apply writes the queued transitions to s in order and empties the batch.
// It returns how many records actually changed to Active and to Dormant.
func (b *Batch) Apply(s *Store) (woken, slept int) {
	for _, tr := range b.items {
		if s.states[tr.Handle] == tr.To {
			continue
		}
		s.states[tr.Handle] = tr.To
		if tr.To == Active {
			woken++
		} else {
			slept++
		}
	}
	b.Reset()
	return woken, slept
}
