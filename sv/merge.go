package sv

// maxMergeRounds caps the number of coalescing rounds.
const maxMergeRounds = 5

// mergeArena holds every event seen during a merge: the extracted ones
// followed by those created by coalescing. mergedInto[i] is the index of the
// first coalesced event that consumed event i, or -1.
type mergeArena struct {
	events     []IndelEvent
	mergedInto []int
}

func (a *mergeArena) add(e IndelEvent) int {
	a.events = append(a.events, e)
	a.mergedInto = append(a.mergedInto, -1)
	return len(a.events) - 1
}

// coalescible reports whether the read-adjacent events x and y are fragments
// of one deletion.
func coalescible(x, y IndelEvent, mergeMin int) bool {
	return x.Kind == Deletion && y.Kind == Deletion && x.gap(y) < mergeMin
}

// round runs one coalescing pass over live, a list of arena indices, and
// returns the next list. Each qualifying adjacent pair yields a coalesced
// event at the pair's position; events consumed by no pair are kept in place.
func (a *mergeArena) round(live []int, mergeMin int) []int {
	next := make([]int, 0, len(live))
	for i, idx := range live {
		if i+1 < len(live) {
			nidx := live[i+1]
			x, y := a.events[idx], a.events[nidx]
			if coalescible(x, y, mergeMin) {
				m := a.add(IndelEvent{
					Kind:   Deletion,
					Left:   x.Left,
					Right:  y.Right,
					Length: y.Right.Start - x.Left.End,
				})
				if a.mergedInto[idx] < 0 {
					a.mergedInto[idx] = m
				}
				a.mergedInto[nidx] = m
				next = append(next, m)
				continue
			}
		}
		if a.mergedInto[idx] < 0 {
			next = append(next, idx)
		}
	}
	return next
}

// MergeIndels coalesces adjacent deletion events whose gap is below mergeMin.
// Rounds repeat until the number of events stops changing, for at most
// maxMergeRounds rounds. Insertions are never coalesced.
func MergeIndels(events []IndelEvent, mergeMin int) []IndelEvent {
	if len(events) < 2 {
		return events
	}
	a := &mergeArena{}
	live := make([]int, len(events))
	for i, e := range events {
		live[i] = a.add(e)
	}
	for r := 0; r < maxMergeRounds; r++ {
		next := a.round(live, mergeMin)
		done := len(next) == len(live)
		live = next
		if done {
			break
		}
	}
	out := make([]IndelEvent, len(live))
	for i, idx := range live {
		out[i] = a.events[idx]
	}
	return out
}
