package gossip

import "sync"

// dedupWindow remembers the last N message ids, dropping the oldest when
// over capacity (spec §4.4 step 2, invariant I4: at most gossipDedupWindow
// ids stored, each processed at most once).
type dedupWindow struct {
	mu       sync.Mutex
	capacity int
	order    []string
	seen     map[string]struct{}
}

func newDedupWindow(capacity int) *dedupWindow {
	return &dedupWindow{
		capacity: capacity,
		seen:     make(map[string]struct{}, capacity),
	}
}

// SeenOrRecord reports whether id was already recorded; if not, it
// records it, evicting the oldest id if the window is now over capacity.
func (d *dedupWindow) SeenOrRecord(id string) bool {
	d.mu.Lock()
	defer d.mu.Unlock()

	if _, ok := d.seen[id]; ok {
		return true
	}
	d.seen[id] = struct{}{}
	d.order = append(d.order, id)
	if len(d.order) > d.capacity {
		oldest := d.order[0]
		d.order = d.order[1:]
		delete(d.seen, oldest)
	}
	return false
}

// Len returns the number of ids currently remembered.
func (d *dedupWindow) Len() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return len(d.order)
}
