package hud

// Snapshot is the state a visible card currently reflects. It is the
// engine's own record, used only to compute deltas.
type Snapshot struct {
	Primary   float64 `json:"primary"`
	Secondary float64 `json:"secondary"`
	Counter   int     `json:"counter"`
}

// SnapshotStore maps token IDs to the last reflected snapshot.
type SnapshotStore interface {
	Get(id string) (Snapshot, bool)
	Set(id string, s Snapshot)
	Delete(id string)
	// Reset drops every entry. Called on scene change.
	Reset()
	Len() int
}

// MemoryStore is the in-process SnapshotStore. It is not safe for
// concurrent use; the engine serialises access.
type MemoryStore struct {
	entries map[string]Snapshot
}

var _ SnapshotStore = (*MemoryStore)(nil)

// NewMemoryStore creates an empty store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{entries: make(map[string]Snapshot)}
}

func (s *MemoryStore) Get(id string) (Snapshot, bool) {
	snap, ok := s.entries[id]
	return snap, ok
}

func (s *MemoryStore) Set(id string, snap Snapshot) {
	s.entries[id] = snap
}

func (s *MemoryStore) Delete(id string) {
	delete(s.entries, id)
}

func (s *MemoryStore) Reset() {
	clear(s.entries)
}

func (s *MemoryStore) Len() int {
	return len(s.entries)
}
