package realtime

// Tracker maintains the per-book set of connections currently viewing each
// listing. Like the Registry it is unsynchronized; the Hub serializes access.
type Tracker struct {
	viewers map[string]map[string]bool // bookID -> set of connection ids
}

func NewTracker() *Tracker {
	return &Tracker{viewers: make(map[string]map[string]bool)}
}

// Join adds a connection to a book's viewer set.
func (t *Tracker) Join(bookID, connID string) {
	set, ok := t.viewers[bookID]
	if !ok {
		set = make(map[string]bool)
		t.viewers[bookID] = set
	}
	set[connID] = true
}

// Leave removes a connection from a book's viewer set. Empty sets are
// dropped so idle books hold no state.
func (t *Tracker) Leave(bookID, connID string) {
	set, ok := t.viewers[bookID]
	if !ok {
		return
	}
	delete(set, connID)
	if len(set) == 0 {
		delete(t.viewers, bookID)
	}
}

// Contains reports whether a connection is in a book's viewer set.
func (t *Tracker) Contains(bookID, connID string) bool {
	return t.viewers[bookID][connID]
}

// Viewers returns the connection ids currently viewing a book.
func (t *Tracker) Viewers(bookID string) []string {
	set := t.viewers[bookID]
	connIDs := make([]string, 0, len(set))
	for connID := range set {
		connIDs = append(connIDs, connID)
	}
	return connIDs
}

// Count returns the number of distinct connections viewing a book.
func (t *Tracker) Count(bookID string) int {
	return len(t.viewers[bookID])
}
